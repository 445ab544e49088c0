package domain

import (
	"github.com/shopspring/decimal"
)

const DefaultPayoffSteps = 20

// DefaultPayoffRange 行权价上下 50%
var DefaultPayoffRange = decimal.RequireFromString("0.5")

// PayoffPoint 到期收益曲线上的一个点
type PayoffPoint struct {
	Price      decimal.Decimal `json:"price"`
	ProfitLoss decimal.Decimal `json:"profit_loss"`
}

// PayoffCurve 在 [K*(1-r), K*(1+r)] 上等距取 steps+1 个点计算到期盈亏
func (e *ValuationEngine) PayoffCurve(c *Contract, steps int, rangeFactor decimal.Decimal) []PayoffPoint {
	if steps <= 0 {
		steps = DefaultPayoffSteps
	}
	if !rangeFactor.IsPositive() {
		rangeFactor = DefaultPayoffRange
	}
	low := c.StrikePrice.Mul(one.Sub(rangeFactor))
	high := c.StrikePrice.Mul(one.Add(rangeFactor))
	step := high.Sub(low).Div(decimal.NewFromInt(int64(steps)))

	points := make([]PayoffPoint, 0, steps+1)
	for i := 0; i <= steps; i++ {
		price := low.Add(step.Mul(decimal.NewFromInt(int64(i))))
		v := e.Valuate(c, price, decimal.NullDecimal{})
		points = append(points, PayoffPoint{Price: price, ProfitLoss: v.IfExercisedAtExpiration})
	}
	return points
}

// SimulatePortfolio 假设所有合约标的同时处于 price 时的立即平仓盈亏合计
func (e *ValuationEngine) SimulatePortfolio(contracts []*Contract, price decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, c := range contracts {
		total = total.Add(e.Valuate(c, price, decimal.NullDecimal{}).IfSoldNow)
	}
	return total
}
