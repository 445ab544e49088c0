package application

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/optionstracker/internal/contract/domain"
)

// ContractFields 创建与修改共用的合约字段
type ContractFields struct {
	UserID                string
	Symbol                string
	BuyOrSell             domain.Action
	OptionType            domain.OptionType
	StrikePrice           decimal.Decimal
	ExpirationDate        time.Time
	Contracts             int64
	ExpectedCreditOrDebit decimal.Decimal
	Breakeven             decimal.Decimal
	ChanceOfProfit        decimal.Decimal
	BidPrice              decimal.Decimal
	LimitPrice            decimal.Decimal
	PercentChange         decimal.Decimal
	Change                decimal.Decimal
	Notes                 string
}

func (f ContractFields) applyTo(c *domain.Contract) {
	c.UserID = f.UserID
	c.Symbol = f.Symbol
	c.BuyOrSell = f.BuyOrSell
	c.OptionType = f.OptionType
	c.StrikePrice = f.StrikePrice
	c.ExpirationDate = f.ExpirationDate
	c.Contracts = f.Contracts
	c.ExpectedCreditOrDebit = f.ExpectedCreditOrDebit
	c.Breakeven = f.Breakeven
	c.ChanceOfProfit = f.ChanceOfProfit
	c.BidPrice = f.BidPrice
	c.LimitPrice = f.LimitPrice
	c.PercentChange = f.PercentChange
	c.Change = f.Change
	c.Notes = f.Notes
}

// CreateContractCommand 创建合约命令
type CreateContractCommand struct {
	ContractFields
}

// UpdateContractCommand 修改合约命令，仅允许修改 open 合约
type UpdateContractCommand struct {
	ID string
	ContractFields
}

// CloseContractCommand 平仓命令
type CloseContractCommand struct {
	ID                   string
	FinalUnderlyingPrice decimal.Decimal
	FinalOptionPrice     decimal.Decimal
}

// ExpireContractCommand 到期结算命令
type ExpireContractCommand struct {
	ID                   string
	FinalUnderlyingPrice decimal.Decimal
	Analysis             *domain.Analysis
}

// AddHoldingCommand 新增股票持仓
type AddHoldingCommand struct {
	UserID string
	Symbol string
	Shares decimal.Decimal
	Price  decimal.Decimal
}

// ContractDTO 合约 DTO
type ContractDTO struct {
	ID                    string           `json:"id"`
	UserID                string           `json:"user_id"`
	Symbol                string           `json:"symbol"`
	BuyOrSell             string           `json:"buy_or_sell"`
	OptionType            string           `json:"option_type"`
	StrikePrice           string           `json:"strike_price"`
	ExpirationDate        string           `json:"expiration_date"`
	Contracts             int64            `json:"contracts"`
	ExpectedCreditOrDebit string           `json:"expected_credit_or_debit"`
	Breakeven             string           `json:"breakeven"`
	ChanceOfProfit        string           `json:"chance_of_profit"`
	BidPrice              string           `json:"bid_price"`
	LimitPrice            string           `json:"limit_price"`
	PercentChange         string           `json:"percent_change"`
	Change                string           `json:"change"`
	Notes                 string           `json:"notes,omitempty"`
	Status                string           `json:"status"`
	FinalUnderlyingPrice  *string          `json:"final_underlying_price,omitempty"`
	FinalProfitLoss       *string          `json:"final_profit_loss,omitempty"`
	ClosedDate            *string          `json:"closed_date,omitempty"`
	Analysis              *domain.Analysis `json:"analysis,omitempty"`
	CreatedAt             int64            `json:"created_at"`
	UpdatedAt             int64            `json:"updated_at"`
}

// ValuationDTO 估值结果
type ValuationDTO struct {
	ContractID              string `json:"contract_id"`
	UnderlyingPrice         string `json:"underlying_price"`
	OptionPrice             string `json:"option_price"`
	Estimated               bool   `json:"estimated"`
	IfSoldNow               string `json:"if_sold_now"`
	IfSoldNowDisplay        string `json:"if_sold_now_display"`
	IfExercisedAtExpiration string `json:"if_exercised_at_expiration"`
	Breakeven               string `json:"breakeven"`
	DaysToExpiration        int    `json:"days_to_expiration"`
	InTheMoney              bool   `json:"in_the_money"`
}

// RiskDTO 风险评分
type RiskDTO struct {
	ContractID     string  `json:"contract_id"`
	TimeDecay      float64 `json:"time_decay"`
	TimeDecayBand  string  `json:"time_decay_band"`
	Delta          float64 `json:"delta"`
	DeltaBand      string  `json:"delta_band"`
	Volatility     float64 `json:"volatility"`
	VolatilityBand string  `json:"volatility_band"`
}

// PayoffPointDTO 收益曲线点
type PayoffPointDTO struct {
	Price      string `json:"price"`
	ProfitLoss string `json:"profit_loss"`
}

// GroupDTO 按标的分组
type GroupDTO struct {
	Symbol         string   `json:"symbol"`
	ContractIDs    []string `json:"contract_ids"`
	TotalValue     string   `json:"total_value"`
	TotalPositions int64    `json:"total_positions"`
	AvgDaysToExp   float64  `json:"avg_days_to_expiration"`
	RiskLevel      string   `json:"risk_level"`
}

// SummaryDTO 组合总览
type SummaryDTO struct {
	UserID               string `json:"user_id"`
	Cash                 string `json:"cash"`
	HoldingsValue        string `json:"holdings_value"`
	NetProfitLoss        string `json:"net_profit_loss"`
	NetProfitLossDisplay string `json:"net_profit_loss_display"`
	TotalValue           string `json:"total_value"`
}

// AnalyticsDTO 活跃合约统计
type AnalyticsDTO struct {
	UserID              string `json:"user_id"`
	PremiumTotal        string `json:"premium_total"`
	ActiveCount         int    `json:"active_count"`
	ProfitableCount     int    `json:"profitable_count"`
	AvgChanceOfProfit   string `json:"avg_chance_of_profit"`
	DaysToClosestExpiry *int   `json:"days_to_closest_expiry,omitempty"`
	ExpiringThisWeek    int    `json:"expiring_this_week"`
}

// HistoryDTO 已结束合约统计
type HistoryDTO struct {
	UserID          string         `json:"user_id"`
	TotalProfitLoss string         `json:"total_profit_loss"`
	FinishedCount   int            `json:"finished_count"`
	ProfitableCount int            `json:"profitable_count"`
	WinRate         string         `json:"win_rate"`
	ExpiringToday   []*ContractDTO `json:"expiring_today"`
	PastDue         []*ContractDTO `json:"past_due"`
}

// SimulationDTO 组合情景模拟
type SimulationDTO struct {
	UserID          string `json:"user_id"`
	Price           string `json:"price"`
	Contracts       int    `json:"contracts"`
	TotalProfitLoss string `json:"total_profit_loss"`
	Display         string `json:"display"`
}

// HoldingDTO 股票持仓
type HoldingDTO struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Symbol string `json:"symbol"`
	Shares string `json:"shares"`
	Price  string `json:"price"`
	Value  string `json:"value"`
}

func toContractDTO(c *domain.Contract) *ContractDTO {
	if c == nil {
		return nil
	}
	dto := &ContractDTO{
		ID:                    c.ID,
		UserID:                c.UserID,
		Symbol:                c.Symbol,
		BuyOrSell:             string(c.BuyOrSell),
		OptionType:            string(c.OptionType),
		StrikePrice:           c.StrikePrice.String(),
		ExpirationDate:        c.ExpirationDate.Format(time.DateOnly),
		Contracts:             c.Contracts,
		ExpectedCreditOrDebit: c.ExpectedCreditOrDebit.String(),
		Breakeven:             c.Breakeven.String(),
		ChanceOfProfit:        c.ChanceOfProfit.String(),
		BidPrice:              c.BidPrice.String(),
		LimitPrice:            c.LimitPrice.String(),
		PercentChange:         c.PercentChange.String(),
		Change:                c.Change.String(),
		Notes:                 c.Notes,
		Status:                string(c.Status),
		Analysis:              c.Analysis,
		CreatedAt:             c.CreatedAt.Unix(),
		UpdatedAt:             c.UpdatedAt.Unix(),
	}
	if c.FinalUnderlyingPrice.Valid {
		s := c.FinalUnderlyingPrice.Decimal.String()
		dto.FinalUnderlyingPrice = &s
	}
	if c.FinalProfitLoss.Valid {
		s := c.FinalProfitLoss.Decimal.String()
		dto.FinalProfitLoss = &s
	}
	if c.ClosedDate != nil {
		s := c.ClosedDate.Format(time.RFC3339)
		dto.ClosedDate = &s
	}
	return dto
}

func toContractDTOs(contracts []*domain.Contract) []*ContractDTO {
	dtos := make([]*ContractDTO, 0, len(contracts))
	for _, c := range contracts {
		dtos = append(dtos, toContractDTO(c))
	}
	return dtos
}

func toHoldingDTO(h *domain.Holding) *HoldingDTO {
	return &HoldingDTO{
		ID:     h.ID,
		UserID: h.UserID,
		Symbol: h.Symbol,
		Shares: h.Shares.String(),
		Price:  h.Price.String(),
		Value:  h.Value().String(),
	}
}

func toGroupDTO(g domain.PortfolioGroup) *GroupDTO {
	ids := make([]string, 0, len(g.Contracts))
	for _, c := range g.Contracts {
		ids = append(ids, c.ID)
	}
	return &GroupDTO{
		Symbol:         g.Symbol,
		ContractIDs:    ids,
		TotalValue:     g.TotalValue.String(),
		TotalPositions: g.TotalPositions,
		AvgDaysToExp:   g.AvgDaysToExp,
		RiskLevel:      string(g.RiskLevel),
	}
}
