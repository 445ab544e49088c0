// Package domain 期权合约跟踪的领域模型与纯计算核心
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ContractMultiplier 每张合约对应的标的股数
const ContractMultiplier = 100

// UnknownSymbol 无标的代码时的分组名
const UnknownSymbol = "Unknown"

var multiplier = decimal.NewFromInt(ContractMultiplier)

// Action 交易方向
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
)

// ParseAction 解析交易方向，大小写不敏感
func ParseAction(s string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case ActionBuy:
		return ActionBuy, nil
	case ActionSell:
		return ActionSell, nil
	}
	return "", fmt.Errorf("%w: unknown action %q", ErrInvalidContract, s)
}

// OptionType 期权类型
type OptionType string

const (
	OptionCall OptionType = "call"
	OptionPut  OptionType = "put"
)

// ParseOptionType 解析期权类型
func ParseOptionType(s string) (OptionType, error) {
	switch OptionType(strings.ToLower(strings.TrimSpace(s))) {
	case OptionCall:
		return OptionCall, nil
	case OptionPut:
		return OptionPut, nil
	}
	return "", fmt.Errorf("%w: unknown option type %q", ErrInvalidContract, s)
}

// Status 合约生命周期状态
type Status string

const (
	StatusOpen    Status = "open"
	StatusClosed  Status = "closed"
	StatusExpired Status = "expired"
)

// ParseStatus 解析状态，空串与 active 视为 open
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "open", "active":
		return StatusOpen, nil
	case "closed":
		return StatusClosed, nil
	case "expired":
		return StatusExpired, nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrInvalidContract, s)
}

// IsTerminal closed 与 expired 为终态
func (s Status) IsTerminal() bool {
	return s == StatusClosed || s == StatusExpired
}

// Analysis 到期复盘
type Analysis struct {
	WasProfit        bool   `json:"was_profit"`
	ReasonForOutcome string `json:"reason_for_outcome,omitempty"`
	LessonsLearned   string `json:"lessons_learned,omitempty"`
	MarketConditions string `json:"market_conditions,omitempty"`
	WhatWentRight    string `json:"what_went_right,omitempty"`
	WhatWentWrong    string `json:"what_went_wrong,omitempty"`
}

// Contract 一条期权持仓记录
// ExpectedCreditOrDebit 为每股权利金，正数为收取，负数为支付，与 BuyOrSell 无关
type Contract struct {
	ID                    string
	UserID                string
	Symbol                string
	BuyOrSell             Action
	OptionType            OptionType
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
	Status                Status

	// 以下字段在 close/expire 时冻结
	FinalUnderlyingPrice decimal.NullDecimal
	FinalProfitLoss      decimal.NullDecimal
	ClosedDate           *time.Time
	Analysis             *Analysis

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate 边界校验，估值核心本身不做校验
func (c *Contract) Validate() error {
	if c.BuyOrSell != ActionBuy && c.BuyOrSell != ActionSell {
		return fmt.Errorf("%w: buy_or_sell must be buy or sell", ErrInvalidContract)
	}
	if c.OptionType != OptionCall && c.OptionType != OptionPut {
		return fmt.Errorf("%w: option_type must be call or put", ErrInvalidContract)
	}
	if !c.StrikePrice.IsPositive() {
		return fmt.Errorf("%w: strike_price must be positive", ErrInvalidContract)
	}
	if c.Contracts <= 0 {
		return fmt.Errorf("%w: contracts must be positive", ErrInvalidContract)
	}
	if c.ExpirationDate.IsZero() {
		return fmt.Errorf("%w: expiration_date is required", ErrInvalidContract)
	}
	if c.ChanceOfProfit.IsNegative() || c.ChanceOfProfit.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: chance_of_profit must be within [0,100]", ErrInvalidContract)
	}
	if _, err := ParseStatus(string(c.Status)); err != nil {
		return err
	}
	return nil
}

// Normalize 统一标的代码大小写与到期日精度
func (c *Contract) Normalize() {
	c.Symbol = strings.ToUpper(strings.TrimSpace(c.Symbol))
	c.ExpirationDate = DateOnly(c.ExpirationDate)
	if c.Status == "" {
		c.Status = StatusOpen
	}
}

// PremiumTotal 总权利金 = 每股权利金 * 张数 * 100
func (c *Contract) PremiumTotal() decimal.Decimal {
	return c.ExpectedCreditOrDebit.Mul(decimal.NewFromInt(c.Contracts)).Mul(multiplier)
}

// IsTerminal 是否已平仓或到期
func (c *Contract) IsTerminal() bool {
	return c.Status.IsTerminal()
}

// DisplaySymbol 分组用的标的代码
func (c *Contract) DisplaySymbol() string {
	if s := strings.TrimSpace(c.Symbol); s != "" {
		return s
	}
	return UnknownSymbol
}

// Clone 深拷贝，生命周期迁移返回新记录
func (c *Contract) Clone() *Contract {
	cp := *c
	if c.ClosedDate != nil {
		t := *c.ClosedDate
		cp.ClosedDate = &t
	}
	if c.Analysis != nil {
		a := *c.Analysis
		cp.Analysis = &a
	}
	return &cp
}
