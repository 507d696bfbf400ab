package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"drawregistry/internal/applicants"
	"drawregistry/internal/ledger"
	"drawregistry/internal/models"
	"drawregistry/internal/services"
)

const (
	callerHeader = "X-Caller"
	callerKey    = "caller"
)

var errMintForbidden = fmt.Errorf("only the admin may mint: %w", services.ErrFailed)

// HTTPHandler holds the dependencies for the HTTP handlers. Every mutating
// request is executed as one transaction on the chain.
type HTTPHandler struct {
	service    *services.LotteryService
	chain      *ledger.Chain
	bank       *ledger.Bank
	oracle     services.RandomOracle
	applicants *applicants.Registry
	gatherer   prometheus.Gatherer
}

// NewHTTPHandler creates a new HTTPHandler.
func NewHTTPHandler(service *services.LotteryService, chain *ledger.Chain, bank *ledger.Bank,
	oracle services.RandomOracle, registry *applicants.Registry, gatherer prometheus.Gatherer) *HTTPHandler {
	return &HTTPHandler{
		service:    service,
		chain:      chain,
		bank:       bank,
		oracle:     oracle,
		applicants: registry,
		gatherer:   gatherer,
	}
}

// RegisterPublicRoutes registers the read-only routes that need no caller.
func (h *HTTPHandler) RegisterPublicRoutes(router gin.IRouter) {
	router.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))

	router.GET("/registry", h.GetRegistry)
	router.GET("/lotteries/count", h.GetLotteryCount)
	router.GET("/lotteries/exists", h.CheckExistence)
	router.GET("/lotteries/:id", h.GetLottery)
	router.GET("/lotteries/:id/winners", h.GetWinners)
	router.GET("/lotteries/:id/winners/csv", h.ExportWinnersCSV)
	router.GET("/lotteries/:id/update", h.GetLotteryUpdate)
	router.GET("/lotteries/:id/quotas/:country", h.GetCountryQuota)
	router.GET("/applicants", h.ListApplicants)
	router.GET("/ledger/receipts", h.GetReceipts)
	router.GET("/ledger/balances/:account", h.GetBalance)
}

// RegisterCallerRoutes registers the routes that submit transactions. The
// group must run CallerMiddleware.
func (h *HTTPHandler) RegisterCallerRoutes(router gin.IRouter) {
	router.POST("/authority", h.BindAuthority)
	router.PUT("/authority/fee", h.SetActivationFee)
	router.POST("/lotteries", h.CreateLottery)
	router.PUT("/lotteries/:id", h.UpdateLottery)
	router.PUT("/lotteries/:id/quotas/:country", h.SetCountryQuota)
	router.POST("/lotteries/:id/draw", h.PerformDraw)
	router.POST("/lotteries/:id/reset", h.ResetLottery)
	router.POST("/lotteries/:id/deactivate", h.DeactivateLottery)
	router.POST("/applicants", h.AddApplicant)
	router.POST("/applicants/csv", h.UploadApplicantsCSV)
	router.POST("/ledger/mint", h.Mint)
}

// CallerMiddleware identifies the account submitting the request.
func (h *HTTPHandler) CallerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := c.GetHeader(callerHeader)
		if caller == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing " + callerHeader + " header"})
			return
		}
		c.Set(callerKey, models.Principal(caller))
		c.Next()
	}
}

func callerOf(c *gin.Context) models.Principal {
	return c.MustGet(callerKey).(models.Principal)
}

// respond writes the tagged result of an operation.
func respond(c *gin.Context, value any, err error) {
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"ok": true, "value": value})
		return
	}
	if code, ok := services.CodeOf(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "code": code, "error": err.Error()})
		return
	}
	logger.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": msg})
}

func lotteryID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid lottery id")
		return 0, false
	}
	return id, true
}

func (h *HTTPHandler) execute(c *gin.Context, op string, fn func(models.TxContext) error) error {
	_, err := h.chain.Execute(callerOf(c), op, fn)
	return err
}

// BindAuthority handles binding the fee-receiving account.
func (h *HTTPHandler) BindAuthority(c *gin.Context) {
	var req struct {
		Account string `json:"account" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	err := h.execute(c, "bind-authority", func(tx models.TxContext) error {
		return h.service.BindAuthority(tx, models.Principal(req.Account))
	})
	respond(c, true, err)
}

// SetActivationFee handles changing the creation fee.
func (h *HTTPHandler) SetActivationFee(c *gin.Context) {
	var req struct {
		Fee *uint64 `json:"fee" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	err := h.execute(c, "set-activation-fee", func(tx models.TxContext) error {
		return h.service.SetActivationFee(tx, *req.Fee)
	})
	respond(c, true, err)
}

// CreateLottery handles lottery creation.
func (h *HTTPHandler) CreateLottery(c *gin.Context) {
	var params services.CreateLotteryParams
	if err := c.ShouldBindJSON(&params); err != nil {
		badRequest(c, err.Error())
		return
	}
	var id uint64
	err := h.execute(c, "create-lottery", func(tx models.TxContext) error {
		var err error
		id, err = h.service.CreateLottery(tx, params)
		return err
	})
	respond(c, id, err)
}

// UpdateLottery handles renaming and resizing a lottery.
func (h *HTTPHandler) UpdateLottery(c *gin.Context) {
	id, ok := lotteryID(c)
	if !ok {
		return
	}
	var req struct {
		Name  string `json:"name"`
		Slots int64  `json:"slots"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	err := h.execute(c, "update-lottery", func(tx models.TxContext) error {
		return h.service.UpdateLottery(tx, id, req.Name, req.Slots)
	})
	respond(c, true, err)
}

// SetCountryQuota handles recording a per-country quota.
func (h *HTTPHandler) SetCountryQuota(c *gin.Context) {
	id, ok := lotteryID(c)
	if !ok {
		return
	}
	var req struct {
		Quota int64 `json:"quota"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	country := []byte(c.Param("country"))
	err := h.execute(c, "set-country-quota", func(tx models.TxContext) error {
		return h.service.SetCountryQuota(tx, id, country, req.Quota)
	})
	respond(c, true, err)
}

// PerformDraw handles the request to draw the winners of a lottery.
func (h *HTTPHandler) PerformDraw(c *gin.Context) {
	id, ok := lotteryID(c)
	if !ok {
		return
	}
	var winners []models.Principal
	err := h.execute(c, "perform-draw", func(tx models.TxContext) error {
		var err error
		winners, err = h.service.PerformDraw(tx, id, h.oracle, h.applicants)
		return err
	})
	respond(c, winners, err)
}

// ResetLottery handles clearing a performed draw.
func (h *HTTPHandler) ResetLottery(c *gin.Context) {
	id, ok := lotteryID(c)
	if !ok {
		return
	}
	err := h.execute(c, "reset-lottery", func(tx models.TxContext) error {
		return h.service.ResetLottery(tx, id)
	})
	respond(c, true, err)
}

// DeactivateLottery handles switching a lottery off.
func (h *HTTPHandler) DeactivateLottery(c *gin.Context) {
	id, ok := lotteryID(c)
	if !ok {
		return
	}
	err := h.execute(c, "deactivate-lottery", func(tx models.TxContext) error {
		return h.service.DeactivateLottery(tx, id)
	})
	respond(c, true, err)
}

// GetRegistry returns the registry scalars.
func (h *HTTPHandler) GetRegistry(c *gin.Context) {
	r, err := h.service.GetRegistry()
	respond(c, r, err)
}

// GetLottery returns a single lottery.
func (h *HTTPHandler) GetLottery(c *gin.Context) {
	id, ok := lotteryID(c)
	if !ok {
		return
	}
	l, found, err := h.service.GetLottery(id)
	if err == nil && !found {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "lottery not found"})
		return
	}
	respond(c, l, err)
}

// GetLotteryCount returns the number of lotteries ever created.
func (h *HTTPHandler) GetLotteryCount(c *gin.Context) {
	n, err := h.service.GetLotteryCount()
	respond(c, n, err)
}

// CheckExistence reports whether a lottery name is in use.
func (h *HTTPHandler) CheckExistence(c *gin.Context) {
	exists, err := h.service.CheckExistence(c.Query("name"))
	respond(c, exists, err)
}

// GetWinners returns the winners of the current draw.
func (h *HTTPHandler) GetWinners(c *gin.Context) {
	id, ok := lotteryID(c)
	if !ok {
		return
	}
	w, found, err := h.service.GetLotteryWinners(id)
	if err == nil && !found {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "no draw performed"})
		return
	}
	respond(c, w, err)
}

// GetLotteryUpdate returns the latest update audit record.
func (h *HTTPHandler) GetLotteryUpdate(c *gin.Context) {
	id, ok := lotteryID(c)
	if !ok {
		return
	}
	u, found, err := h.service.GetLotteryUpdate(id)
	if err == nil && !found {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "no update recorded"})
		return
	}
	respond(c, u, err)
}

// GetCountryQuota returns a country's quota for a lottery.
func (h *HTTPHandler) GetCountryQuota(c *gin.Context) {
	id, ok := lotteryID(c)
	if !ok {
		return
	}
	q, found, err := h.service.GetCountryQuota(id, []byte(c.Param("country")))
	if err == nil && !found {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "no quota recorded"})
		return
	}
	respond(c, q, err)
}

// ExportWinnersCSV handles the request to download the winners as a CSV file.
func (h *HTTPHandler) ExportWinnersCSV(c *gin.Context) {
	id, ok := lotteryID(c)
	if !ok {
		return
	}
	winners, found, err := h.service.GetLotteryWinners(id)
	if err != nil || !found {
		respondMissing(c, err, "no draw performed")
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment;filename=lottery_"+c.Param("id")+"_winners.csv")

	// Add BOM to ensure UTF-8 compatibility in Excel
	c.Writer.Write([]byte("\xef\xbb\xbf"))

	w := csv.NewWriter(c.Writer)
	if err := w.Write([]string{"position", "winner"}); err != nil {
		logger.Infof("Error writing CSV header: %v", err)
		return
	}
	for i, winner := range winners {
		if err := w.Write([]string{strconv.Itoa(i + 1), string(winner)}); err != nil {
			logger.Infof("Error writing CSV row: %v", err)
			return
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		logger.Infof("Error flushing CSV writer: %v", err)
	}
}

func respondMissing(c *gin.Context, err error, msg string) {
	if err != nil {
		respond(c, nil, err)
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": msg})
}

// AddApplicant registers a single applicant.
func (h *HTTPHandler) AddApplicant(c *gin.Context) {
	var req models.Applicant
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	added, err := h.applicants.Add(req.ID, req.Name, req.Country)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	respond(c, added, nil)
}

// UploadApplicantsCSV handles the CSV upload for applicants.
func (h *HTTPHandler) UploadApplicantsCSV(c *gin.Context) {
	file, _, err := c.Request.FormFile("applicantCSV")
	if err != nil {
		badRequest(c, "error retrieving file: "+err.Error())
		return
	}
	defer file.Close()

	added, err := h.applicants.ImportCSV(file)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	logger.Infof("imported %d applicants from CSV", added)
	respond(c, added, nil)
}

// ListApplicants returns all registered applicants, or only the ids of one
// country's applicants when ?country= is given.
func (h *HTTPHandler) ListApplicants(c *gin.Context) {
	if country := c.Query("country"); country != "" {
		ids, err := h.applicants.GetApplicantsByCountry([]byte(country))
		respond(c, ids, err)
		return
	}
	respond(c, h.applicants.List(), nil)
}

// GetReceipts returns the retained transaction receipts.
func (h *HTTPHandler) GetReceipts(c *gin.Context) {
	respond(c, h.chain.Receipts(), nil)
}

// GetBalance returns an account balance.
func (h *HTTPHandler) GetBalance(c *gin.Context) {
	respond(c, h.bank.Balance(models.Principal(c.Param("account"))), nil)
}

// Mint credits an account. Only the registry admin may mint.
func (h *HTTPHandler) Mint(c *gin.Context) {
	var req struct {
		Account string `json:"account" binding:"required"`
		Amount  uint64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	acct := models.Principal(req.Account)
	err := h.execute(c, "mint", func(tx models.TxContext) error {
		r, err := h.service.GetRegistry()
		if err != nil {
			return err
		}
		if tx.Caller != r.Admin {
			return errMintForbidden
		}
		h.bank.Mint(acct, req.Amount)
		logger.Infof("minted %d to %s at height %d", req.Amount, acct, tx.Height)
		return nil
	})
	if errors.Is(err, errMintForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "code": services.CodeFailed, "error": err.Error()})
		return
	}
	respond(c, h.bank.Balance(acct), err)
}
