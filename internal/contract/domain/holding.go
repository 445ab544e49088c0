package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Holding 股票持仓，只参与组合总值
type Holding struct {
	ID        string
	UserID    string
	Symbol    string
	Shares    decimal.Decimal
	Price     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Value 市值
func (h *Holding) Value() decimal.Decimal {
	return h.Shares.Mul(h.Price)
}

// Validate 边界校验
func (h *Holding) Validate() error {
	if strings.TrimSpace(h.Symbol) == "" {
		return fmt.Errorf("%w: symbol is required", ErrInvalidHolding)
	}
	if h.Shares.IsNegative() {
		return fmt.Errorf("%w: shares must not be negative", ErrInvalidHolding)
	}
	if h.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidHolding)
	}
	return nil
}

// Account 用户现金账户
type Account struct {
	UserID    string
	Cash      decimal.Decimal
	UpdatedAt time.Time
}
