package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"drawregistry/internal/applicants"
	"drawregistry/internal/config"
	"drawregistry/internal/handlers"
	"drawregistry/internal/ledger"
	"drawregistry/internal/metrics"
	"drawregistry/internal/models"
	"drawregistry/internal/oracle"
	"drawregistry/internal/services"
	"drawregistry/internal/store"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to a TOML config file")
	addr := pflag.String("addr", "", "listen address (overrides config)")
	verbose := pflag.BoolP("verbose", "v", false, "verbose logging")
	pflag.Parse()

	// 1. Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	// 2. Initialize logging; without a log file everything goes to the console
	var logOut io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
		if err != nil {
			logger.Fatalf("Failed to open log file: %v", err)
		}
		logOut = f
	}
	defer logger.Init("lottery", *verbose || cfg.Verbose || cfg.LogFile == "", false, logOut).Close()

	// 3. Open the state store and seed the registry scalars
	st, err := openStore(cfg.Storage)
	if err != nil {
		logger.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()
	err = st.Init(models.Registry{
		MaxLotteries:  cfg.Registry.MaxLotteries,
		ActivationFee: cfg.Registry.ActivationFee,
		Admin:         models.Principal(cfg.Registry.Admin),
		MaxWinners:    cfg.Registry.MaxWinners,
	})
	if err != nil {
		logger.Fatalf("Failed to initialize registry: %v", err)
	}

	// 4. Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// 5. Ledger collaborators: balances, randomness, applicants
	opening := make(map[models.Principal]uint64, len(cfg.Ledger.Balances))
	for acct, amount := range cfg.Ledger.Balances {
		opening[models.Principal(acct)] = amount
	}
	bank := ledger.NewBank(opening)
	beacon, err := oracle.NewBeaconFromHex(cfg.Oracle.Genesis)
	if err != nil {
		logger.Fatalf("Failed to create randomness beacon: %v", err)
	}
	applicantRegistry := applicants.NewRegistry()

	// 6. Initialize the Lottery Service and the chain it runs on
	lotteryService, err := services.NewLotteryService(st, bank, services.WithMetrics(m))
	if err != nil {
		logger.Fatalf("Failed to create lottery service: %v", err)
	}
	chain, err := ledger.ResumeChain(st, cfg.Ledger.MaxReceipts, func(err error) (uint32, bool) {
		code, ok := services.CodeOf(err)
		return uint32(code), ok
	}, m)
	if err != nil {
		logger.Fatalf("Failed to resume ledger: %v", err)
	}

	// 7. Initialize the HTTP Handler and router
	httpHandler := handlers.NewHTTPHandler(lotteryService, chain, bank, beacon, applicantRegistry, reg)
	r := gin.Default()
	httpHandler.RegisterPublicRoutes(r)
	callerRoutes := r.Group("/")
	callerRoutes.Use(httpHandler.CallerMiddleware())
	httpHandler.RegisterCallerRoutes(callerRoutes)

	srv := &http.Server{Addr: cfg.Addr, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	// 8. Run the server
	g.Go(func() error {
		logger.Infof("Server starting on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// 9. Background janitor pruning old receipts
	g.Go(func() error {
		interval := cfg.Ledger.PruneInterval.Duration
		if interval <= 0 {
			<-ctx.Done()
			return nil
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if n := chain.PruneReceipts(); n > 0 {
					logger.Infof("Pruned %d receipts at height %d", n, chain.Height())
				}
			}
		}
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Errorf("Server stopped: %v", err)
	}
}

func openStore(cfg config.Storage) (store.Store, error) {
	if cfg.Backend == config.StorageBolt {
		return store.OpenBolt(cfg.BoltPath)
	}
	return store.NewMemoryStore(), nil
}
