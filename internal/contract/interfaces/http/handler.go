package http

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/optionstracker/internal/contract/application"
	"github.com/wyfcoding/optionstracker/internal/contract/domain"
	"github.com/wyfcoding/optionstracker/internal/contract/infrastructure/csvio"
	"github.com/wyfcoding/optionstracker/pkg/logger"
	"github.com/wyfcoding/optionstracker/pkg/response"
)

var registerOnce sync.Once

// registerValidators 向 gin 的 validator 注册 decimal 字符串校验
func registerValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("decimal", isDecimal)
			_ = v.RegisterValidation("decimal_gt0", isPositiveDecimal)
		}
	})
}

func isDecimal(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := decimal.NewFromString(s)
	return err == nil
}

func isPositiveDecimal(fl validator.FieldLevel) bool {
	v, err := decimal.NewFromString(fl.Field().String())
	return err == nil && v.IsPositive()
}

// ContractHandler HTTP 处理器
type ContractHandler struct {
	svc *application.ContractService
}

// NewContractHandler 创建 HTTP 处理器
func NewContractHandler(svc *application.ContractService) *ContractHandler {
	registerValidators()
	return &ContractHandler{svc: svc}
}

// RegisterRoutes 注册路由
func (h *ContractHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)

	api := router.Group("/api/v1")
	{
		api.GET("/contracts", h.ListContracts)
		api.POST("/contracts", h.CreateContract)
		api.GET("/contracts/export", h.ExportContracts)
		api.POST("/contracts/import", h.ImportContracts)
		api.GET("/contracts/:id", h.GetContract)
		api.PUT("/contracts/:id", h.UpdateContract)
		api.DELETE("/contracts/:id", h.DeleteContract)
		api.POST("/contracts/:id/close", h.CloseContract)
		api.POST("/contracts/:id/expire", h.ExpireContract)
		api.GET("/contracts/:id/valuation", h.ValuateContract)
		api.GET("/contracts/:id/risk", h.ScoreRisk)
		api.GET("/contracts/:id/payoff", h.PayoffCurve)

		api.GET("/portfolio/groups", h.Groups)
		api.GET("/portfolio/summary", h.Summary)
		api.GET("/portfolio/analytics", h.Analytics)
		api.GET("/portfolio/history", h.History)
		api.GET("/portfolio/simulate", h.Simulate)
		api.PUT("/portfolio/cash", h.SetCash)

		api.GET("/holdings", h.ListHoldings)
		api.POST("/holdings", h.AddHolding)
		api.DELETE("/holdings/:id", h.DeleteHolding)
	}
}

// Health 健康检查
func (h *ContractHandler) Health(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}

// ContractRequest 创建与修改合约请求
type ContractRequest struct {
	UserID                string `json:"user_id"`
	Symbol                string `json:"symbol" binding:"max=16"`
	BuyOrSell             string `json:"buy_or_sell" binding:"required,oneof=buy sell"`
	OptionType            string `json:"option_type" binding:"required,oneof=call put"`
	StrikePrice           string `json:"strike_price" binding:"required,decimal_gt0"`
	ExpirationDate        string `json:"expiration_date" binding:"required,datetime=2006-01-02"`
	Contracts             int64  `json:"contracts" binding:"required,gt=0"`
	ExpectedCreditOrDebit string `json:"expected_credit_or_debit" binding:"required,decimal"`
	Breakeven             string `json:"breakeven" binding:"decimal"`
	ChanceOfProfit        string `json:"chance_of_profit" binding:"decimal"`
	BidPrice              string `json:"bid_price" binding:"decimal"`
	LimitPrice            string `json:"limit_price" binding:"decimal"`
	PercentChange         string `json:"percent_change" binding:"decimal"`
	Change                string `json:"change" binding:"decimal"`
	Notes                 string `json:"notes" binding:"max=2000"`
}

func (r *ContractRequest) toFields() (application.ContractFields, error) {
	expiration, err := domain.ParseDate(r.ExpirationDate)
	if err != nil {
		return application.ContractFields{}, err
	}
	return application.ContractFields{
		UserID:                r.UserID,
		Symbol:                r.Symbol,
		BuyOrSell:             domain.Action(r.BuyOrSell),
		OptionType:            domain.OptionType(r.OptionType),
		StrikePrice:           parseDecimal(r.StrikePrice),
		ExpirationDate:        expiration,
		Contracts:             r.Contracts,
		ExpectedCreditOrDebit: parseDecimal(r.ExpectedCreditOrDebit),
		Breakeven:             parseDecimal(r.Breakeven),
		ChanceOfProfit:        parseDecimal(r.ChanceOfProfit),
		BidPrice:              parseDecimal(r.BidPrice),
		LimitPrice:            parseDecimal(r.LimitPrice),
		PercentChange:         parseDecimal(r.PercentChange),
		Change:                parseDecimal(r.Change),
		Notes:                 r.Notes,
	}, nil
}

// CreateContract 创建合约
func (h *ContractHandler) CreateContract(c *gin.Context) {
	var req ContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	fields, err := req.toFields()
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid expiration_date", err.Error())
		return
	}

	dto, err := h.svc.Command.CreateContract(c.Request.Context(), application.CreateContractCommand{ContractFields: fields})
	if err != nil {
		h.fail(c, "Failed to create contract", err)
		return
	}
	response.SuccessWithStatus(c, http.StatusCreated, dto)
}

// UpdateContract 修改合约
func (h *ContractHandler) UpdateContract(c *gin.Context) {
	var req ContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	fields, err := req.toFields()
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid expiration_date", err.Error())
		return
	}

	dto, err := h.svc.Command.UpdateContract(c.Request.Context(), application.UpdateContractCommand{ID: c.Param("id"), ContractFields: fields})
	if err != nil {
		h.fail(c, "Failed to update contract", err, "contract_id", c.Param("id"))
		return
	}
	response.Success(c, dto)
}

// DeleteContract 删除合约
func (h *ContractHandler) DeleteContract(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Command.DeleteContract(c.Request.Context(), id); err != nil {
		h.fail(c, "Failed to delete contract", err, "contract_id", id)
		return
	}
	response.Success(c, gin.H{"id": id})
}

// GetContract 获取合约
func (h *ContractHandler) GetContract(c *gin.Context) {
	dto, err := h.svc.Query.GetContract(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "Failed to get contract", err, "contract_id", c.Param("id"))
		return
	}
	response.Success(c, dto)
}

// ListContracts 分页列出合约，按创建时间倒序
func (h *ContractHandler) ListContracts(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(domain.DefaultListLimit)))
	if err != nil || limit < 0 {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid limit", "")
		return
	}
	if limit == 0 {
		limit = domain.DefaultListLimit
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid offset", "")
		return
	}

	filter := domain.ContractFilter{UserID: c.Query("user_id"), Limit: limit, Offset: offset}
	if s := c.Query("status"); s != "" {
		status, err := domain.ParseStatus(s)
		if err != nil {
			response.ErrorWithStatus(c, http.StatusBadRequest, "invalid status", err.Error())
			return
		}
		filter.Status = status
	}

	items, total, err := h.svc.Query.ListContracts(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, "Failed to list contracts", err)
		return
	}
	response.SuccessWithPage(c, items, total)
}

// CloseRequest 平仓请求
type CloseRequest struct {
	FinalUnderlyingPrice string `json:"final_underlying_price" binding:"required,decimal_gt0"`
	FinalOptionPrice     string `json:"final_option_price" binding:"required,decimal"`
}

// CloseContract 平仓
func (h *ContractHandler) CloseContract(c *gin.Context) {
	var req CloseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	dto, err := h.svc.Command.CloseContract(c.Request.Context(), application.CloseContractCommand{
		ID:                   c.Param("id"),
		FinalUnderlyingPrice: parseDecimal(req.FinalUnderlyingPrice),
		FinalOptionPrice:     parseDecimal(req.FinalOptionPrice),
	})
	if err != nil {
		h.fail(c, "Failed to close contract", err, "contract_id", c.Param("id"))
		return
	}
	response.Success(c, dto)
}

// ExpireRequest 到期结算请求
type ExpireRequest struct {
	FinalUnderlyingPrice string           `json:"final_underlying_price" binding:"required,decimal_gt0"`
	Analysis             *domain.Analysis `json:"analysis"`
}

// ExpireContract 到期结算
func (h *ContractHandler) ExpireContract(c *gin.Context) {
	var req ExpireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	dto, err := h.svc.Command.ExpireContract(c.Request.Context(), application.ExpireContractCommand{
		ID:                   c.Param("id"),
		FinalUnderlyingPrice: parseDecimal(req.FinalUnderlyingPrice),
		Analysis:             req.Analysis,
	})
	if err != nil {
		h.fail(c, "Failed to expire contract", err, "contract_id", c.Param("id"))
		return
	}
	response.Success(c, dto)
}

// ValuateContract 估值，价格参数可选
func (h *ContractHandler) ValuateContract(c *gin.Context) {
	underlying, ok := optionalDecimal(c, "underlying_price")
	if !ok {
		return
	}
	optionPrice, ok := optionalDecimal(c, "option_price")
	if !ok {
		return
	}

	dto, err := h.svc.Query.ValuateContract(c.Request.Context(), c.Param("id"), underlying, optionPrice)
	if err != nil {
		h.fail(c, "Failed to valuate contract", err, "contract_id", c.Param("id"))
		return
	}
	response.Success(c, dto)
}

// ScoreRisk 风险评分
func (h *ContractHandler) ScoreRisk(c *gin.Context) {
	dto, err := h.svc.Query.ScoreRisk(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "Failed to score risk", err, "contract_id", c.Param("id"))
		return
	}
	response.Success(c, dto)
}

// PayoffCurve 到期收益曲线
func (h *ContractHandler) PayoffCurve(c *gin.Context) {
	steps, err := strconv.Atoi(c.DefaultQuery("steps", strconv.Itoa(domain.DefaultPayoffSteps)))
	if err != nil || steps <= 0 || steps > 500 {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid steps", "")
		return
	}

	points, err := h.svc.Query.PayoffCurve(c.Request.Context(), c.Param("id"), steps)
	if err != nil {
		h.fail(c, "Failed to build payoff curve", err, "contract_id", c.Param("id"))
		return
	}
	response.Success(c, points)
}

// ExportContracts 以 CSV 导出用户全部合约
func (h *ContractHandler) ExportContracts(c *gin.Context) {
	userID := c.Query("user_id")
	contracts, err := h.svc.Query.ExportContracts(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, "Failed to export contracts", err, "user_id", userID)
		return
	}

	var buf bytes.Buffer
	if err := csvio.Write(&buf, contracts); err != nil {
		h.fail(c, "Failed to encode contracts", err, "user_id", userID)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="contracts.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ImportContracts 从 CSV 请求体导入合约，全部成功或全部失败
func (h *ContractHandler) ImportContracts(c *gin.Context) {
	userID := c.Query("user_id")
	contracts, err := csvio.Read(c.Request.Body)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid csv", err.Error())
		return
	}

	n, err := h.svc.Command.ImportContracts(c.Request.Context(), userID, contracts)
	if err != nil {
		h.fail(c, "Failed to import contracts", err, "user_id", userID)
		return
	}
	response.SuccessWithStatus(c, http.StatusCreated, gin.H{"imported": n})
}

// Groups 活跃合约按标的分组
func (h *ContractHandler) Groups(c *gin.Context) {
	groups, err := h.svc.Query.GroupBySymbol(c.Request.Context(), c.Query("user_id"))
	if err != nil {
		h.fail(c, "Failed to group contracts", err)
		return
	}
	response.Success(c, groups)
}

// Summary 组合总览
func (h *ContractHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Query.Summary(c.Request.Context(), c.Query("user_id"))
	if err != nil {
		h.fail(c, "Failed to summarize portfolio", err)
		return
	}
	response.Success(c, summary)
}

// Analytics 活跃合约统计
func (h *ContractHandler) Analytics(c *gin.Context) {
	analytics, err := h.svc.Query.Analytics(c.Request.Context(), c.Query("user_id"))
	if err != nil {
		h.fail(c, "Failed to compute analytics", err)
		return
	}
	response.Success(c, analytics)
}

// History 已结束合约统计
func (h *ContractHandler) History(c *gin.Context) {
	history, err := h.svc.Query.History(c.Request.Context(), c.Query("user_id"))
	if err != nil {
		h.fail(c, "Failed to compute history", err)
		return
	}
	response.Success(c, history)
}

// Simulate 组合情景模拟
func (h *ContractHandler) Simulate(c *gin.Context) {
	price, err := decimal.NewFromString(c.Query("price"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid price", "")
		return
	}

	sim, err := h.svc.Query.Simulate(c.Request.Context(), c.Query("user_id"), price)
	if err != nil {
		h.fail(c, "Failed to simulate portfolio", err)
		return
	}
	response.Success(c, sim)
}

// CashRequest 设置现金请求
type CashRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Cash   string `json:"cash" binding:"required,decimal"`
}

// SetCash 设置现金
func (h *ContractHandler) SetCash(c *gin.Context) {
	var req CashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	cash := parseDecimal(req.Cash)
	if err := h.svc.Portfolio.SetCash(c.Request.Context(), req.UserID, cash); err != nil {
		h.fail(c, "Failed to set cash", err, "user_id", req.UserID)
		return
	}
	response.Success(c, gin.H{"user_id": req.UserID, "cash": cash.String()})
}

// ListHoldings 股票持仓列表
func (h *ContractHandler) ListHoldings(c *gin.Context) {
	holdings, err := h.svc.Portfolio.ListHoldings(c.Request.Context(), c.Query("user_id"))
	if err != nil {
		h.fail(c, "Failed to list holdings", err)
		return
	}
	response.Success(c, holdings)
}

// HoldingRequest 新增持仓请求
type HoldingRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Symbol string `json:"symbol" binding:"required,max=16"`
	Shares string `json:"shares" binding:"required,decimal"`
	Price  string `json:"price" binding:"required,decimal"`
}

// AddHolding 新增股票持仓
func (h *ContractHandler) AddHolding(c *gin.Context) {
	var req HoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	dto, err := h.svc.Portfolio.AddHolding(c.Request.Context(), application.AddHoldingCommand{
		UserID: req.UserID,
		Symbol: req.Symbol,
		Shares: parseDecimal(req.Shares),
		Price:  parseDecimal(req.Price),
	})
	if err != nil {
		h.fail(c, "Failed to add holding", err, "user_id", req.UserID)
		return
	}
	response.SuccessWithStatus(c, http.StatusCreated, dto)
}

// DeleteHolding 删除股票持仓
func (h *ContractHandler) DeleteHolding(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Portfolio.DeleteHolding(c.Request.Context(), id); err != nil {
		h.fail(c, "Failed to delete holding", err, "holding_id", id)
		return
	}
	response.Success(c, gin.H{"id": id})
}

// fail 将领域错误映射为 HTTP 状态码；仅 5xx 记录错误日志
func (h *ContractHandler) fail(c *gin.Context, msg string, err error, args ...any) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), msg, append(args, "error", err)...)
		response.ErrorWithStatus(c, status, "internal server error", "")
		return
	}
	logger.Warn(c.Request.Context(), msg, append(args, "error", err)...)
	response.ErrorWithStatus(c, status, err.Error(), "")
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrContractNotFound), errors.Is(err, domain.ErrHoldingNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidContract), errors.Is(err, domain.ErrInvalidHolding):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrContractTerminal):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// parseDecimal 调用前已通过 binding 校验，空串视为 0
func parseDecimal(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return v
}

// optionalDecimal 读取可选的非负 decimal 查询参数，非法时写入 400 并返回 false
func optionalDecimal(c *gin.Context, key string) (decimal.NullDecimal, bool) {
	raw := c.Query(key)
	if raw == "" {
		return decimal.NullDecimal{}, true
	}
	v, err := decimal.NewFromString(raw)
	if err != nil || v.IsNegative() {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid "+key, "")
		return decimal.NullDecimal{}, false
	}
	return decimal.NewNullDecimal(v), true
}
