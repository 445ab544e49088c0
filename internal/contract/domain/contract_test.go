package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for in, want := range map[string]Status{
		"":        StatusOpen,
		"open":    StatusOpen,
		"Active":  StatusOpen,
		"closed":  StatusClosed,
		"EXPIRED": StatusExpired,
	} {
		got, err := ParseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseStatus("settled")
	assert.ErrorIs(t, err, ErrInvalidContract)
}

func TestParseActionAndOptionType(t *testing.T) {
	a, err := ParseAction(" BUY ")
	require.NoError(t, err)
	assert.Equal(t, ActionBuy, a)
	_, err = ParseAction("hold")
	assert.ErrorIs(t, err, ErrInvalidContract)

	o, err := ParseOptionType("Put")
	require.NoError(t, err)
	assert.Equal(t, OptionPut, o)
	_, err = ParseOptionType("straddle")
	assert.ErrorIs(t, err, ErrInvalidContract)
}

func TestContract_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Contract)
		wantErr bool
	}{
		{"valid", func(c *Contract) {}, false},
		{"bad action", func(c *Contract) { c.BuyOrSell = "hold" }, true},
		{"bad option type", func(c *Contract) { c.OptionType = "" }, true},
		{"zero strike", func(c *Contract) { c.StrikePrice = decimal.Zero }, true},
		{"zero contracts", func(c *Contract) { c.Contracts = 0 }, true},
		{"missing expiration", func(c *Contract) { c.ExpirationDate = time.Time{} }, true},
		{"pop above 100", func(c *Contract) { c.ChanceOfProfit = d("100.5") }, true},
		{"negative premium is fine", func(c *Contract) { c.ExpectedCreditOrDebit = d("-12.5") }, false},
		{"bad status", func(c *Contract) { c.Status = "pending" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := longCall()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidContract)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestContract_Normalize(t *testing.T) {
	c := longCall()
	c.Symbol = " aapl "
	c.Status = ""
	c.ExpirationDate = time.Date(2026, 3, 20, 15, 30, 0, 0, time.UTC)

	c.Normalize()

	assert.Equal(t, "AAPL", c.Symbol)
	assert.Equal(t, StatusOpen, c.Status)
	assert.Equal(t, date(2026, 3, 20), c.ExpirationDate)
}

func TestContract_CloneIsDeep(t *testing.T) {
	closedAt := testNow
	c := longCall()
	c.ClosedDate = &closedAt
	c.Analysis = &Analysis{ReasonForOutcome: "theta"}

	cp := c.Clone()
	cp.Analysis.ReasonForOutcome = "changed"
	*cp.ClosedDate = testNow.Add(time.Hour)

	assert.Equal(t, "theta", c.Analysis.ReasonForOutcome)
	assert.Equal(t, testNow, *c.ClosedDate)
}

func TestHolding(t *testing.T) {
	h := &Holding{Symbol: "AAPL", Shares: d("3"), Price: d("150.25")}
	require.NoError(t, h.Validate())
	assertDecimal(t, "450.75", h.Value())

	h.Shares = d("-1")
	assert.ErrorIs(t, h.Validate(), ErrInvalidHolding)
	assert.ErrorIs(t, (&Holding{Shares: d("1")}).Validate(), ErrInvalidHolding)
}

func TestFormatProfitLoss(t *testing.T) {
	assert.Equal(t, "+$1,235", FormatProfitLoss(d("1234.5")))
	assert.Equal(t, "-$400", FormatProfitLoss(d("-400")))
	assert.Equal(t, "+$0", FormatProfitLoss(decimal.Zero))
	assert.Equal(t, "+$1,234,567", FormatProfitLoss(d("1234567")))
	assert.Equal(t, "$12,000", FormatCurrency(d("12000")))
	assert.Equal(t, "-$5", FormatCurrency(d("-4.6")))
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-12-18")
	require.NoError(t, err)
	assert.Equal(t, date(2026, 12, 18), got)
	_, err = ParseDate("12/18/2026")
	assert.Error(t, err)
}
