package domain

import (
	"github.com/shopspring/decimal"
)

var (
	minEstimatedPrice = decimal.RequireFromString("0.01")
	minTimeDecay      = decimal.RequireFromString("0.1")
	daysPerYear       = decimal.NewFromInt(365)
)

// Valuation 单个合约在给定价格下的盈亏
type Valuation struct {
	IfSoldNow               decimal.Decimal `json:"if_sold_now"`
	IfExercisedAtExpiration decimal.Decimal `json:"if_exercised_at_expiration"`
	Breakeven               decimal.Decimal `json:"breakeven"`
	DaysToExpiration        int             `json:"days_to_expiration"`
	// 实际使用的期权价格，未提供时为估算值
	OptionPrice decimal.Decimal `json:"option_price"`
	Estimated   bool            `json:"estimated"`
}

// ValuationEngine 盈亏估值引擎
// 无状态，可并发调用；唯一的外部输入是 Clock
type ValuationEngine struct {
	clock Clock
}

// NewValuationEngine 创建估值引擎，clock 为 nil 时使用系统时钟
func NewValuationEngine(clock Clock) *ValuationEngine {
	if clock == nil {
		clock = SystemClock{}
	}
	return &ValuationEngine{clock: clock}
}

// Clock 返回引擎使用的时钟
func (e *ValuationEngine) Clock() Clock {
	return e.clock
}

// Valuate 计算立即平仓与持有到期两种情形的盈亏
// optionPrice 无效（Valid=false）时按 bid 价估算当前期权价格
func (e *ValuationEngine) Valuate(c *Contract, underlyingPrice decimal.Decimal, optionPrice decimal.NullDecimal) Valuation {
	dte := DaysToExpiration(c.ExpirationDate, e.clock.Now())
	units := decimal.NewFromInt(c.Contracts).Mul(multiplier)

	totalPremium := c.ExpectedCreditOrDebit.Mul(units)
	intrinsic := IntrinsicValue(c.OptionType, c.StrikePrice, underlyingPrice)
	totalIntrinsic := intrinsic.Mul(units)

	price := optionPrice.Decimal
	// 显式传入的 0 是有效报价（深度虚值期权可归零），不当作缺省值走估算
	estimated := !optionPrice.Valid
	if estimated {
		price = estimateOptionPrice(c, underlyingPrice, intrinsic, dte)
	}

	// 平多头卖出期权收到现金，平空头买回期权支付现金
	cashOnClose := price.Mul(units)
	if c.BuyOrSell == ActionSell {
		cashOnClose = cashOnClose.Neg()
	}

	var atExpiration decimal.Decimal
	if c.BuyOrSell == ActionBuy {
		atExpiration = totalIntrinsic.Add(totalPremium)
	} else {
		atExpiration = totalPremium.Sub(totalIntrinsic)
	}

	return Valuation{
		IfSoldNow:               totalPremium.Add(cashOnClose),
		IfExercisedAtExpiration: atExpiration,
		Breakeven:               c.Breakeven,
		DaysToExpiration:        dte,
		OptionPrice:             price,
		Estimated:               estimated,
	}
}

// estimateOptionPrice 内在价值加按剩余天数衰减的时间价值
// 启发式近似，并非定价模型：时间价值取 |bid| 减去当前价下的虚值幅度
func estimateOptionPrice(c *Contract, underlying, intrinsic decimal.Decimal, dte int) decimal.Decimal {
	decay := decimal.Zero
	if dte > 0 {
		decay = decimal.Max(minTimeDecay, decimal.NewFromInt(int64(dte)).Div(daysPerYear))
	}

	var otm decimal.Decimal
	if c.OptionType == OptionCall {
		otm = c.StrikePrice.Sub(underlying)
	} else {
		otm = underlying.Sub(c.StrikePrice)
	}
	timeValue := c.BidPrice.Abs().Sub(decimal.Max(decimal.Zero, otm))

	return decimal.Max(minEstimatedPrice, intrinsic.Add(timeValue.Mul(decay)))
}

// IntrinsicValue 每股内在价值
func IntrinsicValue(optionType OptionType, strike, underlying decimal.Decimal) decimal.Decimal {
	if optionType == OptionCall {
		return decimal.Max(decimal.Zero, underlying.Sub(strike))
	}
	return decimal.Max(decimal.Zero, strike.Sub(underlying))
}

// IsInTheMoney 是否实值
func IsInTheMoney(optionType OptionType, strike, underlying decimal.Decimal) bool {
	if optionType == OptionCall {
		return underlying.GreaterThan(strike)
	}
	return underlying.LessThan(strike)
}
