package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drawregistry/internal/applicants"
	"drawregistry/internal/ledger"
	"drawregistry/internal/metrics"
	"drawregistry/internal/models"
	"drawregistry/internal/services"
	"drawregistry/internal/store"
)

type stubOracle struct{ seed uint64 }

func (o stubOracle) GetRandomSeed() (uint64, error) { return o.seed, nil }

type envelope struct {
	OK    bool            `json:"ok"`
	Code  uint32          `json:"code"`
	Value json.RawMessage `json:"value"`
	Error string          `json:"error"`
}

type testServer struct {
	router *gin.Engine
	chain  *ledger.Chain
	bank   *ledger.Bank
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemoryStore()
	require.NoError(t, st.Init(models.Registry{MaxLotteries: 100, ActivationFee: 500, Admin: "ST1TEST"}))
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	bank := ledger.NewBank(map[models.Principal]uint64{"ST1TEST": 1000})
	svc, err := services.NewLotteryService(st, bank, services.WithMetrics(m))
	require.NoError(t, err)
	chain := ledger.NewChain(0, func(err error) (uint32, bool) {
		code, ok := services.CodeOf(err)
		return uint32(code), ok
	}, m)

	registry := applicants.NewRegistry()
	for i := 0; i < 20; i++ {
		_, err := registry.Add(fmt.Sprintf("A%02d", i), "Applicant", "US")
		require.NoError(t, err)
	}

	h := NewHTTPHandler(svc, chain, bank, stubOracle{seed: 12345}, registry, reg)
	r := gin.New()
	h.RegisterPublicRoutes(r)
	group := r.Group("/")
	group.Use(h.CallerMiddleware())
	h.RegisterCallerRoutes(group)
	return &testServer{router: r, chain: chain, bank: bank}
}

func (s *testServer) do(t *testing.T, method, path, caller string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if caller != "" {
		req.Header.Set(callerHeader, caller)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func createBody(name string) gin.H {
	return gin.H{
		"name": name, "slots": 10, "minSlots": 5, "maxSlots": 20, "quotaRate": 50,
		"lotteryType": "visa", "gracePeriod": 7, "region": "Global", "currency": "STX",
	}
}

func TestHTTPHandler_Lifecycle(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, http.MethodPost, "/lotteries", "ST1TEST", createBody("Visa2025"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, uint32(services.CodeAuthorityNotVerified), env.Code)

	w, env = s.do(t, http.MethodPost, "/authority", "ST1TEST", gin.H{"account": "ST2TEST"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.OK)

	w, env = s.do(t, http.MethodPost, "/lotteries", "ST1TEST", createBody("Visa2025"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "0", string(env.Value))
	assert.Equal(t, uint64(500), s.bank.Balance("ST2TEST"))

	_, env = s.do(t, http.MethodPost, "/lotteries", "ST1TEST", createBody("Visa2025"))
	assert.Equal(t, uint32(services.CodeAlreadyActive), env.Code)

	_, env = s.do(t, http.MethodGet, "/lotteries/count", "", nil)
	assert.JSONEq(t, "1", string(env.Value))

	_, env = s.do(t, http.MethodGet, "/lotteries/exists?name=Visa2025", "", nil)
	assert.JSONEq(t, "true", string(env.Value))

	w, env = s.do(t, http.MethodGet, "/lotteries/0", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var l models.Lottery
	require.NoError(t, json.Unmarshal(env.Value, &l))
	assert.Equal(t, "Visa2025", l.Name)
	assert.Equal(t, models.Principal("ST1TEST"), l.Creator)

	w, env = s.do(t, http.MethodPost, "/lotteries/0/draw", "ST3TEST", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, uint32(services.CodeFailed), env.Code)

	w, env = s.do(t, http.MethodPost, "/lotteries/0/draw", "ST1TEST", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var winners []models.Principal
	require.NoError(t, json.Unmarshal(env.Value, &winners))
	require.Len(t, winners, 10)
	// 12345 mod 20 = 5
	assert.Equal(t, models.Principal("ST5WINNER"), winners[0])
	assert.Equal(t, models.Principal("ST14WINNER"), winners[9])

	w, _ = s.do(t, http.MethodGet, "/lotteries/0/winners/csv", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := strings.TrimPrefix(w.Body.String(), "\xef\xbb\xbf")
	lines := strings.Split(strings.TrimSpace(body), "\n")
	assert.Equal(t, "position,winner", lines[0])
	assert.Equal(t, "1,ST5WINNER", lines[1])
	assert.Len(t, lines, 11)

	_, env = s.do(t, http.MethodPut, "/lotteries/0", "ST1TEST", gin.H{"name": "Renamed", "slots": 3})
	assert.Equal(t, uint32(services.CodeFailed), env.Code)

	w, _ = s.do(t, http.MethodPost, "/lotteries/0/reset", "ST1TEST", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodGet, "/lotteries/0/winners", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodPut, "/lotteries/0", "ST1TEST", gin.H{"name": "Renamed", "slots": 3})
	require.Equal(t, http.StatusOK, w.Code)
	w, env = s.do(t, http.MethodGet, "/lotteries/0/update", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var u models.LotteryUpdate
	require.NoError(t, json.Unmarshal(env.Value, &u))
	assert.Equal(t, "Renamed", u.UpdateName)

	w, _ = s.do(t, http.MethodPut, "/lotteries/0/quotas/US", "ST1TEST", gin.H{"quota": 200})
	require.Equal(t, http.StatusOK, w.Code)
	_, env = s.do(t, http.MethodGet, "/lotteries/0/quotas/US", "", nil)
	assert.JSONEq(t, "200", string(env.Value))

	w, _ = s.do(t, http.MethodPost, "/lotteries/0/deactivate", "ST1TEST", nil)
	require.Equal(t, http.StatusOK, w.Code)

	receipts := s.chain.Receipts()
	require.NotEmpty(t, receipts)
	assert.Equal(t, "create-lottery", receipts[0].Op)
	assert.False(t, receipts[0].OK)
	assert.Equal(t, uint32(services.CodeAuthorityNotVerified), receipts[0].Code)
}

func TestHTTPHandler_CallerRequired(t *testing.T) {
	s := newTestServer(t)
	w, env := s.do(t, http.MethodPost, "/authority", "", gin.H{"account": "ST2TEST"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.OK)
	assert.Empty(t, s.chain.Receipts())
}

func TestHTTPHandler_BadInput(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodGet, "/lotteries/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodGet, "/lotteries/7", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodPut, "/authority/fee", "ST1TEST", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHTTPHandler_Mint(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodPost, "/ledger/mint", "ST3TEST", gin.H{"account": "ST3TEST", "amount": 10})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := s.do(t, http.MethodPost, "/ledger/mint", "ST1TEST", gin.H{"account": "ST3TEST", "amount": 10})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "10", string(env.Value))

	_, env = s.do(t, http.MethodGet, "/ledger/balances/ST3TEST", "", nil)
	assert.JSONEq(t, "10", string(env.Value))

	receipts := s.chain.Receipts()
	require.Len(t, receipts, 2)
	assert.Equal(t, "mint", receipts[0].Op)
	assert.False(t, receipts[0].OK)
	assert.Equal(t, uint32(services.CodeFailed), receipts[0].Code)
	assert.Equal(t, "mint", receipts[1].Op)
	assert.True(t, receipts[1].OK)
	assert.Equal(t, uint64(2), s.chain.Height())
}

func TestHTTPHandler_UploadApplicantsCSV(t *testing.T) {
	s := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("applicantCSV", "applicants.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("B01,Bob,FR\nbroken\nA00,Dup,US\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/applicants/csv", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(callerHeader, "ST1TEST")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.JSONEq(t, "1", string(env.Value))

	_, env = s.do(t, http.MethodGet, "/applicants", "", nil)
	var list []models.Applicant
	require.NoError(t, json.Unmarshal(env.Value, &list))
	assert.Len(t, list, 21)

	_, env = s.do(t, http.MethodGet, "/applicants?country=fr", "", nil)
	var ids []models.Principal
	require.NoError(t, json.Unmarshal(env.Value, &ids))
	assert.Equal(t, []models.Principal{"B01"}, ids)
}

func TestHTTPHandler_Metrics(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/authority", "ST1TEST", gin.H{"account": "ST2TEST"})

	w, _ := s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `lottery_operations_total{op="bind-authority",outcome="ok"} 1`)
}
