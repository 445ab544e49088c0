package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const expiringSoonDays = 7

var fifty = decimal.NewFromInt(50)

// PortfolioAnalytics 活跃合约统计
type PortfolioAnalytics struct {
	PremiumTotal      decimal.Decimal `json:"premium_total"`
	ActiveCount       int             `json:"active_count"`
	ProfitableCount   int             `json:"profitable_count"`
	AvgChanceOfProfit decimal.Decimal `json:"avg_chance_of_profit"`
	// 无合约时为 nil
	DaysToClosestExpiry *int `json:"days_to_closest_expiry"`
	ExpiringThisWeek    int  `json:"expiring_this_week"`
}

// HistoryStats 已结束合约的复盘统计
type HistoryStats struct {
	TotalProfitLoss decimal.Decimal `json:"total_profit_loss"`
	FinishedCount   int             `json:"finished_count"`
	ProfitableCount int             `json:"profitable_count"`
	// 百分比 [0,100]
	WinRate       decimal.Decimal `json:"win_rate"`
	ExpiringToday []*Contract     `json:"-"`
	PastDue       []*Contract     `json:"-"`
}

// ActiveContracts 状态为 open 且未过到期日的合约
func ActiveContracts(contracts []*Contract, now time.Time) []*Contract {
	active := make([]*Contract, 0, len(contracts))
	for _, c := range contracts {
		if !c.IsTerminal() && DaysToExpiration(c.ExpirationDate, now) >= 0 {
			active = append(active, c)
		}
	}
	return active
}

// Analytics 统计给定合约（通常为活跃合约）
func Analytics(contracts []*Contract, now time.Time) PortfolioAnalytics {
	a := PortfolioAnalytics{
		PremiumTotal:      decimal.Zero,
		AvgChanceOfProfit: decimal.Zero,
		ActiveCount:       len(contracts),
	}
	if len(contracts) == 0 {
		return a
	}

	pop := decimal.Zero
	closest := 0
	for i, c := range contracts {
		a.PremiumTotal = a.PremiumTotal.Add(c.PremiumTotal())
		if c.ChanceOfProfit.GreaterThan(fifty) {
			a.ProfitableCount++
		}
		pop = pop.Add(c.ChanceOfProfit)

		dte := DaysToExpiration(c.ExpirationDate, now)
		if i == 0 || dte < closest {
			closest = dte
		}
		if dte >= 0 && dte <= expiringSoonDays {
			a.ExpiringThisWeek++
		}
	}
	a.AvgChanceOfProfit = pop.Div(decimal.NewFromInt(int64(len(contracts))))
	a.DaysToClosestExpiry = &closest
	return a
}

// History 终态合约盈亏统计，以及今天到期与已过期未结算的 open 合约
func History(contracts []*Contract, now time.Time) HistoryStats {
	h := HistoryStats{TotalProfitLoss: decimal.Zero, WinRate: decimal.Zero}
	today := DateOnly(now)

	for _, c := range contracts {
		if c.IsTerminal() {
			h.FinishedCount++
			pl := c.FinalProfitLoss.Decimal
			if !c.FinalProfitLoss.Valid {
				pl = decimal.Zero
			}
			h.TotalProfitLoss = h.TotalProfitLoss.Add(pl)
			if pl.IsPositive() {
				h.ProfitableCount++
			}
			continue
		}
		exp := DateOnly(c.ExpirationDate)
		switch {
		case exp.Equal(today):
			h.ExpiringToday = append(h.ExpiringToday, c)
		case exp.Before(today):
			h.PastDue = append(h.PastDue, c)
		}
	}
	if h.FinishedCount > 0 {
		h.WinRate = decimal.NewFromInt(int64(h.ProfitableCount)).
			Div(decimal.NewFromInt(int64(h.FinishedCount))).Mul(hundred)
	}
	return h
}
