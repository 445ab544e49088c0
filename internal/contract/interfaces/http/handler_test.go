package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/optionstracker/internal/contract/application"
	"github.com/wyfcoding/optionstracker/internal/contract/domain"
	"github.com/wyfcoding/optionstracker/internal/contract/infrastructure/messaging"
	"github.com/wyfcoding/optionstracker/internal/contract/infrastructure/persistence/mysql"
	"github.com/wyfcoding/optionstracker/pkg/db"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx := context.Background()
	database, err := db.Init(ctx, db.Config{Driver: "sqlite", DSN: "file::memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	require.NoError(t, mysql.AutoMigrate(database.DB))
	require.NoError(t, messaging.AutoMigrate(database.DB))
	t.Cleanup(func() { _ = database.Close() })

	engine := domain.NewValuationEngine(domain.FixedClock{T: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)})
	svc := application.NewContractService(
		mysql.NewContractRepository(database.DB),
		mysql.NewPortfolioRepository(database.DB),
		messaging.NewOutboxEventPublisher(database.DB),
		engine,
		nil,
	)

	router := gin.New()
	NewContractHandler(svc).RegisterRoutes(router)
	return router
}

func do(router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

const longCallJSON = `{
	"user_id": "u-1",
	"symbol": "aapl",
	"buy_or_sell": "buy",
	"option_type": "call",
	"strike_price": "100",
	"expiration_date": "2026-03-20",
	"contracts": 1,
	"expected_credit_or_debit": "-5",
	"chance_of_profit": "60",
	"bid_price": "5"
}`

func createContract(t *testing.T, router *gin.Engine) application.ContractDTO {
	t.Helper()
	rec, env := do(router, http.MethodPost, "/api/v1/contracts", longCallJSON)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var dto application.ContractDTO
	require.NoError(t, json.Unmarshal(env.Data, &dto))
	return dto
}

func TestHealth(t *testing.T) {
	router := setupRouter(t)
	rec, env := do(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", env.Message)
}

func TestCreateAndGetContract(t *testing.T) {
	router := setupRouter(t)
	dto := createContract(t, router)
	assert.Equal(t, "AAPL", dto.Symbol)
	assert.Equal(t, "open", dto.Status)

	rec, env := do(router, http.MethodGet, "/api/v1/contracts/"+dto.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got application.ContractDTO
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, dto.ID, got.ID)

	rec, env = do(router, http.MethodGet, "/api/v1/contracts?user_id=u-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Items []application.ContractDTO `json:"items"`
		Total int64                     `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.EqualValues(t, 1, page.Total)
	assert.Len(t, page.Items, 1)
}

func TestCreateContract_Validation(t *testing.T) {
	router := setupRouter(t)

	cases := map[string]string{
		"bad action":     strings.Replace(longCallJSON, `"buy"`, `"hold"`, 1),
		"zero strike":    strings.Replace(longCallJSON, `"strike_price": "100"`, `"strike_price": "0"`, 1),
		"bad date":       strings.Replace(longCallJSON, `2026-03-20`, `03/20/2026`, 1),
		"bad premium":    strings.Replace(longCallJSON, `"-5"`, `"abc"`, 1),
		"missing userID": strings.Replace(longCallJSON, `"user_id": "u-1",`, ``, 1),
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec, _ := do(router, http.MethodPost, "/api/v1/contracts", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestGetContract_NotFound(t *testing.T) {
	router := setupRouter(t)
	rec, env := do(router, http.MethodGet, "/api/v1/contracts/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, http.StatusNotFound, env.Code)
}

func TestCloseContract(t *testing.T) {
	router := setupRouter(t)
	dto := createContract(t, router)

	rec, env := do(router, http.MethodPost, "/api/v1/contracts/"+dto.ID+"/close",
		`{"final_underlying_price":"110","final_option_price":"12"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var closed application.ContractDTO
	require.NoError(t, json.Unmarshal(env.Data, &closed))
	assert.Equal(t, "closed", closed.Status)
	require.NotNil(t, closed.FinalProfitLoss)
	assert.Equal(t, "700", *closed.FinalProfitLoss)

	rec, _ = do(router, http.MethodPost, "/api/v1/contracts/"+dto.ID+"/expire", `{"final_underlying_price":"110"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = do(router, http.MethodPut, "/api/v1/contracts/"+dto.ID, longCallJSON)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestValuation(t *testing.T) {
	router := setupRouter(t)
	dto := createContract(t, router)

	rec, env := do(router, http.MethodGet, "/api/v1/contracts/"+dto.ID+"/valuation?underlying_price=95&option_price=1", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var v application.ValuationDTO
	require.NoError(t, json.Unmarshal(env.Data, &v))
	assert.Equal(t, "-400", v.IfSoldNow)
	assert.Equal(t, "-$400", v.IfSoldNowDisplay)
	assert.Equal(t, "-500", v.IfExercisedAtExpiration)

	rec, _ = do(router, http.MethodGet, "/api/v1/contracts/"+dto.ID+"/valuation?underlying_price=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRiskAndPayoff(t *testing.T) {
	router := setupRouter(t)
	dto := createContract(t, router)

	rec, _ := do(router, http.MethodGet, "/api/v1/contracts/"+dto.ID+"/risk", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env := do(router, http.MethodGet, "/api/v1/contracts/"+dto.ID+"/payoff?steps=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var points []application.PayoffPointDTO
	require.NoError(t, json.Unmarshal(env.Data, &points))
	assert.Len(t, points, 11)

	rec, _ = do(router, http.MethodGet, "/api/v1/contracts/"+dto.ID+"/payoff?steps=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportImport(t *testing.T) {
	router := setupRouter(t)
	createContract(t, router)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/contracts/export?user_id=u-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	csvBody := rec.Body.String()
	assert.Contains(t, csvBody, "AAPL")

	rec, env := do(router, http.MethodPost, "/api/v1/contracts/import?user_id=u-2", csvBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"imported":1}`, string(env.Data))

	rec, _ = do(router, http.MethodPost, "/api/v1/contracts/import?user_id=u-2", "id,buy_or_sell\nx,hold\n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPortfolioEndpoints(t *testing.T) {
	router := setupRouter(t)
	createContract(t, router)

	rec, _ := do(router, http.MethodPut, "/api/v1/portfolio/cash", `{"user_id":"u-1","cash":"1000"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env := do(router, http.MethodPost, "/api/v1/holdings", `{"user_id":"u-1","symbol":"spy","shares":"10","price":"50"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var holding application.HoldingDTO
	require.NoError(t, json.Unmarshal(env.Data, &holding))

	rec, env = do(router, http.MethodGet, "/api/v1/portfolio/summary?user_id=u-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var summary application.SummaryDTO
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, "1000", summary.Cash)
	assert.Equal(t, "500", summary.HoldingsValue)

	for _, path := range []string{
		"/api/v1/portfolio/groups?user_id=u-1",
		"/api/v1/portfolio/analytics?user_id=u-1",
		"/api/v1/portfolio/history?user_id=u-1",
		"/api/v1/portfolio/simulate?user_id=u-1&price=110",
		"/api/v1/holdings?user_id=u-1",
	} {
		rec, _ = do(router, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec, _ = do(router, http.MethodGet, "/api/v1/portfolio/simulate?user_id=u-1&price=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = do(router, http.MethodGet, "/api/v1/portfolio/groups", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(router, http.MethodDelete, "/api/v1/holdings/"+holding.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = do(router, http.MethodDelete, "/api/v1/holdings/"+holding.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteContract(t *testing.T) {
	router := setupRouter(t)
	dto := createContract(t, router)

	rec, _ := do(router, http.MethodDelete, "/api/v1/contracts/"+dto.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = do(router, http.MethodDelete, "/api/v1/contracts/"+dto.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListContracts_Paging(t *testing.T) {
	router := setupRouter(t)
	for i := 0; i < 3; i++ {
		createContract(t, router)
	}

	type page struct {
		Items []application.ContractDTO `json:"items"`
		Total int64                     `json:"total"`
	}
	cases := map[string]struct {
		query string
		want  int
	}{
		"offset without limit": {"?user_id=u-1&limit=0&offset=1", 2},
		"limit and offset":     {"?user_id=u-1&limit=1&offset=1", 1},
		"past the end":         {"?user_id=u-1&offset=5", 0},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec, env := do(router, http.MethodGet, "/api/v1/contracts"+tc.query, "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			var got page
			require.NoError(t, json.Unmarshal(env.Data, &got))
			assert.EqualValues(t, 3, got.Total)
			assert.Len(t, got.Items, tc.want)
		})
	}

	rec, _ := do(router, http.MethodGet, "/api/v1/contracts?user_id=u-1&limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
