package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	ten     = decimal.NewFromInt(10)
	one     = decimal.NewFromInt(1)
)

// RiskBreakdown 风险分项，各项取值 [0,1]
type RiskBreakdown struct {
	TimeDecay  float64 `json:"time_decay"`
	Delta      float64 `json:"delta"`
	Volatility float64 `json:"volatility"`
}

// RiskBand 风险等级
type RiskBand string

const (
	RiskLow    RiskBand = "low"
	RiskMedium RiskBand = "medium"
	RiskHigh   RiskBand = "high"
)

// BandForScore 单项分数分档：<0.33 low，<0.66 medium，其余 high
func BandForScore(score float64) RiskBand {
	switch {
	case score < 0.33:
		return RiskLow
	case score < 0.66:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// RiskScorer 风险评分
type RiskScorer struct {
	clock Clock
}

// NewRiskScorer 创建风险评分器
func NewRiskScorer(clock Clock) *RiskScorer {
	if clock == nil {
		clock = SystemClock{}
	}
	return &RiskScorer{clock: clock}
}

// ScoreRisk 计算时间衰减、delta 代理、波动率代理三项风险
func (s *RiskScorer) ScoreRisk(c *Contract) RiskBreakdown {
	days := math.Max(0, fractionalDays(c.ExpirationDate, s.clock.Now()))

	timeDecay := 1.0
	if days > 0 {
		timeDecay = math.Min(1, 30/days)
	}

	// 胜率作为 delta 风险的反向代理
	delta := one.Sub(c.ChanceOfProfit.Div(hundred))
	volatility := decimal.Min(one, c.PercentChange.Abs().Div(ten))

	return RiskBreakdown{
		TimeDecay:  timeDecay,
		Delta:      delta.InexactFloat64(),
		Volatility: volatility.InexactFloat64(),
	}
}
