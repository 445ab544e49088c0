package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCalculator() *PortfolioCalculator {
	return NewPortfolioCalculator(newEngine())
}

func withSymbol(symbol string, n int64) *Contract {
	c := longCall()
	c.Symbol = symbol
	c.Contracts = n
	return c
}

func TestGroupBySymbol_Partition(t *testing.T) {
	contracts := []*Contract{
		withSymbol("AAPL", 2),
		withSymbol("", 1),
		withSymbol("MSFT", 3),
		withSymbol("AAPL", 4),
		withSymbol("  ", 5),
	}

	groups := newCalculator().GroupBySymbol(contracts)

	require.Len(t, groups, 3)
	assert.Equal(t, []string{"AAPL", UnknownSymbol, "MSFT"}, []string{groups[0].Symbol, groups[1].Symbol, groups[2].Symbol})

	seen := 0
	var positions int64
	for _, g := range groups {
		seen += len(g.Contracts)
		positions += g.TotalPositions
	}
	assert.Equal(t, len(contracts), seen)
	assert.EqualValues(t, 15, positions)

	assert.EqualValues(t, 6, groups[0].TotalPositions)
	assertDecimal(t, "-3000", groups[0].TotalValue)
	assert.Len(t, groups[1].Contracts, 2)
}

func TestGroupBySymbol_RiskLevel(t *testing.T) {
	calc := newCalculator()

	t.Run("average across group", func(t *testing.T) {
		near := withSymbol("SPY", 1)
		near.ExpirationDate = date(2026, 1, 6) // 5 天
		far := withSymbol("SPY", 1)
		far.ExpirationDate = date(2026, 3, 2) // 60 天

		groups := calc.GroupBySymbol([]*Contract{near, far})
		require.Len(t, groups, 1)
		assert.InDelta(t, 32.5, groups[0].AvgDaysToExp, 1e-9)
		assert.Equal(t, RiskLow, groups[0].RiskLevel)
	})

	t.Run("large value is high regardless of time", func(t *testing.T) {
		c := withSymbol("TSLA", 60)
		c.ExpirationDate = date(2026, 6, 1)
		groups := calc.GroupBySymbol([]*Contract{c})
		assert.Equal(t, RiskHigh, groups[0].RiskLevel)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, calc.GroupBySymbol(nil))
	})
}

func TestClassifyRisk_Boundaries(t *testing.T) {
	tests := []struct {
		avg   float64
		value string
		want  RiskBand
	}{
		{13.9, "0", RiskHigh},
		{14.0, "2000", RiskMedium},
		{14.0, "-2000", RiskMedium},
		{29.9, "0", RiskMedium},
		{30, "2000", RiskLow},
		{30, "2000.01", RiskMedium},
		{30, "5000", RiskMedium},
		{30, "-5000.01", RiskHigh},
		{120, "0", RiskLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyRisk(tt.avg, d(tt.value)), "avg=%v value=%s", tt.avg, tt.value)
	}
}

func TestNetProfitLoss(t *testing.T) {
	calc := newCalculator()

	t.Run("empty", func(t *testing.T) {
		assertDecimal(t, "0", calc.NetProfitLoss(nil))
	})

	t.Run("closed uses frozen value", func(t *testing.T) {
		c := longCall()
		c.ExpectedCreditOrDebit = d("7")
		c.Status = StatusClosed
		c.FinalProfitLoss = decimal.NewNullDecimal(d("-300"))
		assertDecimal(t, "-300", calc.NetProfitLoss([]*Contract{c}))
	})

	t.Run("terminal without frozen value falls back to premium", func(t *testing.T) {
		c := longCall()
		c.Status = StatusExpired
		assertDecimal(t, "-500", calc.NetProfitLoss([]*Contract{c}))
	})

	t.Run("active is marked against strike", func(t *testing.T) {
		// 估算价 = 0 + 5 * 0.1 = 0.5
		assertDecimal(t, "-450", calc.NetProfitLoss([]*Contract{longCall()}))
	})

	t.Run("sums mixed", func(t *testing.T) {
		closed := longCall()
		closed.Status = StatusClosed
		closed.FinalProfitLoss = decimal.NewNullDecimal(d("700"))
		assertDecimal(t, "250", calc.NetProfitLoss([]*Contract{closed, longCall()}))
	})
}

func TestTotalPortfolioValue(t *testing.T) {
	closed := longCall()
	closed.Status = StatusClosed
	closed.FinalProfitLoss = decimal.NewNullDecimal(d("-300"))
	holdings := []*Holding{
		{Symbol: "AAPL", Shares: d("10"), Price: d("20")},
		{Symbol: "MSFT", Shares: d("5"), Price: d("1.5")},
	}

	calc := newCalculator()
	assertDecimal(t, "907.5", calc.TotalPortfolioValue(d("1000"), holdings, []*Contract{closed}))

	s := calc.Summary(d("1000"), holdings, []*Contract{closed})
	assertDecimal(t, "207.5", s.HoldingsValue)
	assertDecimal(t, "-300", s.NetProfitLoss)
	assertDecimal(t, "907.5", s.TotalValue)
}
