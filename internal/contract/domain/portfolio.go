package domain

import (
	"github.com/shopspring/decimal"
)

const (
	highRiskDays   = 14
	mediumRiskDays = 30
)

var (
	highRiskValue   = decimal.NewFromInt(5000)
	mediumRiskValue = decimal.NewFromInt(2000)
)

// PortfolioGroup 按标的聚合的合约组
type PortfolioGroup struct {
	Symbol         string          `json:"symbol"`
	Contracts      []*Contract     `json:"-"`
	TotalValue     decimal.Decimal `json:"total_value"`
	TotalPositions int64           `json:"total_positions"`
	AvgDaysToExp   float64         `json:"avg_days_to_expiration"`
	RiskLevel      RiskBand        `json:"risk_level"`
}

// PortfolioSummary 组合总览
type PortfolioSummary struct {
	Cash          decimal.Decimal `json:"cash"`
	HoldingsValue decimal.Decimal `json:"holdings_value"`
	NetProfitLoss decimal.Decimal `json:"net_profit_loss"`
	TotalValue    decimal.Decimal `json:"total_value"`
}

// PortfolioCalculator 组合聚合计算，依赖估值引擎
type PortfolioCalculator struct {
	engine *ValuationEngine
}

// NewPortfolioCalculator 创建组合计算器
func NewPortfolioCalculator(engine *ValuationEngine) *PortfolioCalculator {
	return &PortfolioCalculator{engine: engine}
}

// GroupBySymbol 按标的分组，组顺序为首次出现顺序，无标的归入 Unknown
func (p *PortfolioCalculator) GroupBySymbol(contracts []*Contract) []PortfolioGroup {
	now := p.engine.clock.Now()
	index := make(map[string]int)
	groups := make([]PortfolioGroup, 0)
	daySums := make([]int64, 0)

	for _, c := range contracts {
		symbol := c.DisplaySymbol()
		i, ok := index[symbol]
		if !ok {
			i = len(groups)
			index[symbol] = i
			groups = append(groups, PortfolioGroup{Symbol: symbol, TotalValue: decimal.Zero})
			daySums = append(daySums, 0)
		}
		g := &groups[i]
		g.Contracts = append(g.Contracts, c)
		g.TotalValue = g.TotalValue.Add(c.PremiumTotal())
		g.TotalPositions += c.Contracts
		daySums[i] += int64(DaysToExpiration(c.ExpirationDate, now))
	}

	for i := range groups {
		g := &groups[i]
		g.AvgDaysToExp = float64(daySums[i]) / float64(len(g.Contracts))
		g.RiskLevel = ClassifyRisk(g.AvgDaysToExp, g.TotalValue)
	}
	return groups
}

// ClassifyRisk 组风险等级，high 优先判断
func ClassifyRisk(avgDaysToExpiry float64, totalValue decimal.Decimal) RiskBand {
	abs := totalValue.Abs()
	switch {
	case avgDaysToExpiry < highRiskDays || abs.GreaterThan(highRiskValue):
		return RiskHigh
	case avgDaysToExpiry < mediumRiskDays || abs.GreaterThan(mediumRiskValue):
		return RiskMedium
	default:
		return RiskLow
	}
}

// ContractProfitLoss 单个合约对组合盈亏的贡献
// 终态合约使用冻结的 FinalProfitLoss，缺失时退回总权利金；活跃合约按行权价估算立即平仓盈亏
func (p *PortfolioCalculator) ContractProfitLoss(c *Contract) decimal.Decimal {
	if c.IsTerminal() {
		if c.FinalProfitLoss.Valid {
			return c.FinalProfitLoss.Decimal
		}
		return c.PremiumTotal()
	}
	return p.engine.Valuate(c, c.StrikePrice, decimal.NullDecimal{}).IfSoldNow
}

// NetProfitLoss 合约净盈亏
func (p *PortfolioCalculator) NetProfitLoss(contracts []*Contract) decimal.Decimal {
	total := decimal.Zero
	for _, c := range contracts {
		total = total.Add(p.ContractProfitLoss(c))
	}
	return total
}

// HoldingsValue 股票持仓总市值
func HoldingsValue(holdings []*Holding) decimal.Decimal {
	total := decimal.Zero
	for _, h := range holdings {
		total = total.Add(h.Value())
	}
	return total
}

// TotalPortfolioValue 现金 + 持仓市值 + 合约净盈亏
func (p *PortfolioCalculator) TotalPortfolioValue(cash decimal.Decimal, holdings []*Holding, contracts []*Contract) decimal.Decimal {
	return p.Summary(cash, holdings, contracts).TotalValue
}

// Summary 组合总览
func (p *PortfolioCalculator) Summary(cash decimal.Decimal, holdings []*Holding, contracts []*Contract) PortfolioSummary {
	hv := HoldingsValue(holdings)
	net := p.NetProfitLoss(contracts)
	return PortfolioSummary{
		Cash:          cash,
		HoldingsValue: hv,
		NetProfitLoss: net,
		TotalValue:    cash.Add(hv).Add(net),
	}
}
