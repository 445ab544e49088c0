package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LifecycleEvent 生命周期迁移事件
type LifecycleEvent interface {
	targetStatus() Status
}

// CloseEvent 用户主动平仓
type CloseEvent struct {
	FinalUnderlyingPrice decimal.Decimal
	FinalOptionPrice     decimal.Decimal
	// 零值时取引擎时钟
	At time.Time
}

func (CloseEvent) targetStatus() Status { return StatusClosed }

// ExpireEvent 到期结算
type ExpireEvent struct {
	FinalUnderlyingPrice decimal.Decimal
	Analysis             *Analysis
	At                   time.Time
}

func (ExpireEvent) targetStatus() Status { return StatusExpired }

// Transition 应用生命周期事件，返回新记录，入参不被修改
// 平仓盈亏取 IfSoldNow；到期盈亏按到期内在价值单独计算，两者公式不同
func (e *ValuationEngine) Transition(c *Contract, event LifecycleEvent) (*Contract, error) {
	if c.IsTerminal() {
		return nil, fmt.Errorf("%w: %s is %s", ErrContractTerminal, c.ID, c.Status)
	}

	next := c.Clone()
	switch ev := event.(type) {
	case CloseEvent:
		pl := e.Valuate(c, ev.FinalUnderlyingPrice, decimal.NewNullDecimal(ev.FinalOptionPrice)).IfSoldNow
		next.freeze(StatusClosed, ev.FinalUnderlyingPrice, pl, e.at(ev.At))
	case ExpireEvent:
		pl := ExpireProfitLoss(c, ev.FinalUnderlyingPrice)
		next.freeze(StatusExpired, ev.FinalUnderlyingPrice, pl, e.at(ev.At))
		analysis := Analysis{}
		if ev.Analysis != nil {
			analysis = *ev.Analysis
		}
		analysis.WasProfit = pl.IsPositive()
		next.Analysis = &analysis
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownEvent, event)
	}
	return next, nil
}

func (c *Contract) freeze(status Status, underlying, pl decimal.Decimal, at time.Time) {
	c.Status = status
	c.FinalUnderlyingPrice = decimal.NewNullDecimal(underlying)
	c.FinalProfitLoss = decimal.NewNullDecimal(pl)
	c.ClosedDate = &at
	c.UpdatedAt = at
}

func (e *ValuationEngine) at(t time.Time) time.Time {
	if t.IsZero() {
		return e.clock.Now()
	}
	return t
}

// ExpireProfitLoss 到期盈亏：买方为内在价值加权利金，卖方为权利金减内在价值
func ExpireProfitLoss(c *Contract, finalUnderlying decimal.Decimal) decimal.Decimal {
	intrinsic := IntrinsicValue(c.OptionType, c.StrikePrice, finalUnderlying).
		Mul(decimal.NewFromInt(c.Contracts)).Mul(multiplier)
	if c.BuyOrSell == ActionBuy {
		return intrinsic.Add(c.PremiumTotal())
	}
	return c.PremiumTotal().Sub(intrinsic)
}
