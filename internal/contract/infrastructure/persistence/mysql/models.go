package mysql

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/optionstracker/internal/contract/domain"
	"gorm.io/gorm"
)

// ContractModel 期权合约表映射
type ContractModel struct {
	ID                    string              `gorm:"column:id;type:varchar(36);primaryKey"`
	UserID                string              `gorm:"column:user_id;type:varchar(50);index:idx_user_created,priority:1;not null"`
	Symbol                string              `gorm:"column:symbol;type:varchar(20);index"`
	BuyOrSell             string              `gorm:"column:buy_or_sell;type:varchar(4);not null"`
	OptionType            string              `gorm:"column:option_type;type:varchar(4);not null"`
	StrikePrice           decimal.Decimal     `gorm:"column:strike_price;type:decimal(32,8);not null"`
	ExpirationDate        time.Time           `gorm:"column:expiration_date;type:date;index;not null"`
	Contracts             int64               `gorm:"column:contracts;not null"`
	ExpectedCreditOrDebit decimal.Decimal     `gorm:"column:expected_credit_or_debit;type:decimal(32,8);not null"`
	Breakeven             decimal.Decimal     `gorm:"column:breakeven;type:decimal(32,8)"`
	ChanceOfProfit        decimal.Decimal     `gorm:"column:chance_of_profit;type:decimal(8,4)"`
	BidPrice              decimal.Decimal     `gorm:"column:bid_price;type:decimal(32,8)"`
	LimitPrice            decimal.Decimal     `gorm:"column:limit_price;type:decimal(32,8)"`
	PercentChange         decimal.Decimal     `gorm:"column:percent_change;type:decimal(16,8)"`
	Change                decimal.Decimal     `gorm:"column:change_amount;type:decimal(32,8)"`
	Notes                 string              `gorm:"column:notes;type:text"`
	Status                string              `gorm:"column:status;type:varchar(10);index;not null;default:'open'"`
	FinalUnderlyingPrice  decimal.NullDecimal `gorm:"column:final_underlying_price;type:decimal(32,8)"`
	FinalProfitLoss       decimal.NullDecimal `gorm:"column:final_profit_loss;type:decimal(32,8)"`
	ClosedDate            *time.Time          `gorm:"column:closed_date"`
	Analysis              *domain.Analysis    `gorm:"column:analysis;type:text;serializer:json"`
	CreatedAt             time.Time           `gorm:"column:created_at;index:idx_user_created,priority:2"`
	UpdatedAt             time.Time           `gorm:"column:updated_at"`
}

func (ContractModel) TableName() string { return "option_contracts" }

// AccountModel 现金账户表映射
type AccountModel struct {
	UserID    string          `gorm:"column:user_id;type:varchar(50);primaryKey"`
	Cash      decimal.Decimal `gorm:"column:cash;type:decimal(32,8);not null"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

func (AccountModel) TableName() string { return "portfolio_accounts" }

// HoldingModel 股票持仓表映射
type HoldingModel struct {
	ID        string          `gorm:"column:id;type:varchar(36);primaryKey"`
	UserID    string          `gorm:"column:user_id;type:varchar(50);index;not null"`
	Symbol    string          `gorm:"column:symbol;type:varchar(20);not null"`
	Shares    decimal.Decimal `gorm:"column:shares;type:decimal(32,8);not null"`
	Price     decimal.Decimal `gorm:"column:price;type:decimal(32,8);not null"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

func (HoldingModel) TableName() string { return "portfolio_holdings" }

// AutoMigrate 创建或升级合约与组合相关表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&ContractModel{}, &AccountModel{}, &HoldingModel{})
}

// mapping helpers

func toContractModel(c *domain.Contract) *ContractModel {
	if c == nil {
		return nil
	}
	return &ContractModel{
		ID:                    c.ID,
		UserID:                c.UserID,
		Symbol:                c.Symbol,
		BuyOrSell:             string(c.BuyOrSell),
		OptionType:            string(c.OptionType),
		StrikePrice:           c.StrikePrice,
		ExpirationDate:        c.ExpirationDate,
		Contracts:             c.Contracts,
		ExpectedCreditOrDebit: c.ExpectedCreditOrDebit,
		Breakeven:             c.Breakeven,
		ChanceOfProfit:        c.ChanceOfProfit,
		BidPrice:              c.BidPrice,
		LimitPrice:            c.LimitPrice,
		PercentChange:         c.PercentChange,
		Change:                c.Change,
		Notes:                 c.Notes,
		Status:                string(c.Status),
		FinalUnderlyingPrice:  c.FinalUnderlyingPrice,
		FinalProfitLoss:       c.FinalProfitLoss,
		ClosedDate:            c.ClosedDate,
		Analysis:              c.Analysis,
		CreatedAt:             c.CreatedAt,
		UpdatedAt:             c.UpdatedAt,
	}
}

func toContract(m *ContractModel) *domain.Contract {
	if m == nil {
		return nil
	}
	// 历史数据中的 active 统一为 open
	status, err := domain.ParseStatus(m.Status)
	if err != nil {
		status = domain.Status(m.Status)
	}
	return &domain.Contract{
		ID:                    m.ID,
		UserID:                m.UserID,
		Symbol:                m.Symbol,
		BuyOrSell:             domain.Action(m.BuyOrSell),
		OptionType:            domain.OptionType(m.OptionType),
		StrikePrice:           m.StrikePrice,
		ExpirationDate:        domain.DateOnly(m.ExpirationDate),
		Contracts:             m.Contracts,
		ExpectedCreditOrDebit: m.ExpectedCreditOrDebit,
		Breakeven:             m.Breakeven,
		ChanceOfProfit:        m.ChanceOfProfit,
		BidPrice:              m.BidPrice,
		LimitPrice:            m.LimitPrice,
		PercentChange:         m.PercentChange,
		Change:                m.Change,
		Notes:                 m.Notes,
		Status:                status,
		FinalUnderlyingPrice:  m.FinalUnderlyingPrice,
		FinalProfitLoss:       m.FinalProfitLoss,
		ClosedDate:            m.ClosedDate,
		Analysis:              m.Analysis,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

func toHoldingModel(h *domain.Holding) *HoldingModel {
	return &HoldingModel{
		ID:        h.ID,
		UserID:    h.UserID,
		Symbol:    h.Symbol,
		Shares:    h.Shares,
		Price:     h.Price,
		CreatedAt: h.CreatedAt,
		UpdatedAt: h.UpdatedAt,
	}
}

func toHolding(m *HoldingModel) *domain.Holding {
	return &domain.Holding{
		ID:        m.ID,
		UserID:    m.UserID,
		Symbol:    m.Symbol,
		Shares:    m.Shares,
		Price:     m.Price,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
