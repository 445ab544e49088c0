package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ContractCreatedEventType = "ContractCreated"
	ContractUpdatedEventType = "ContractUpdated"
	ContractDeletedEventType = "ContractDeleted"
	ContractClosedEventType  = "ContractClosed"
	ContractExpiredEventType = "ContractExpired"
)

// ContractCreatedEvent 合约创建事件
type ContractCreatedEvent struct {
	ContractID            string          `json:"contract_id"`
	UserID                string          `json:"user_id"`
	Symbol                string          `json:"symbol"`
	BuyOrSell             Action          `json:"buy_or_sell"`
	OptionType            OptionType      `json:"option_type"`
	StrikePrice           decimal.Decimal `json:"strike_price"`
	ExpirationDate        string          `json:"expiration_date"`
	Contracts             int64           `json:"contracts"`
	ExpectedCreditOrDebit decimal.Decimal `json:"expected_credit_or_debit"`
	OccurredOn            time.Time       `json:"occurred_on"`
}

// ContractUpdatedEvent 合约修改事件
type ContractUpdatedEvent struct {
	ContractID string    `json:"contract_id"`
	UserID     string    `json:"user_id"`
	OccurredOn time.Time `json:"occurred_on"`
}

// ContractDeletedEvent 合约删除事件
type ContractDeletedEvent struct {
	ContractID string    `json:"contract_id"`
	UserID     string    `json:"user_id"`
	OccurredOn time.Time `json:"occurred_on"`
}

// ContractSettledEvent 平仓或到期事件，冻结后的结算结果
type ContractSettledEvent struct {
	ContractID           string          `json:"contract_id"`
	UserID               string          `json:"user_id"`
	Symbol               string          `json:"symbol"`
	Status               Status          `json:"status"`
	FinalUnderlyingPrice decimal.Decimal `json:"final_underlying_price"`
	FinalProfitLoss      decimal.Decimal `json:"final_profit_loss"`
	ClosedDate           time.Time       `json:"closed_date"`
	OccurredOn           time.Time       `json:"occurred_on"`
}

// NewContractCreatedEvent 由合约构造创建事件
func NewContractCreatedEvent(c *Contract, at time.Time) ContractCreatedEvent {
	return ContractCreatedEvent{
		ContractID:            c.ID,
		UserID:                c.UserID,
		Symbol:                c.Symbol,
		BuyOrSell:             c.BuyOrSell,
		OptionType:            c.OptionType,
		StrikePrice:           c.StrikePrice,
		ExpirationDate:        c.ExpirationDate.Format(time.DateOnly),
		Contracts:             c.Contracts,
		ExpectedCreditOrDebit: c.ExpectedCreditOrDebit,
		OccurredOn:            at,
	}
}

// NewContractSettledEvent 由已冻结的合约构造结算事件
func NewContractSettledEvent(c *Contract, at time.Time) ContractSettledEvent {
	ev := ContractSettledEvent{
		ContractID:           c.ID,
		UserID:               c.UserID,
		Symbol:               c.Symbol,
		Status:               c.Status,
		FinalUnderlyingPrice: c.FinalUnderlyingPrice.Decimal,
		FinalProfitLoss:      c.FinalProfitLoss.Decimal,
		OccurredOn:           at,
	}
	if c.ClosedDate != nil {
		ev.ClosedDate = *c.ClosedDate
	}
	return ev
}

// SettledEventType 结算事件类型
func SettledEventType(status Status) string {
	if status == StatusExpired {
		return ContractExpiredEventType
	}
	return ContractClosedEventType
}
