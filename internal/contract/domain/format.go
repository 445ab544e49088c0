package domain

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatCurrency 整数美元，千分位分隔，例如 $1,235
func FormatCurrency(amount decimal.Decimal) string {
	rounded := amount.Round(0)
	if rounded.IsNegative() {
		return "-$" + humanize.Comma(rounded.Abs().IntPart())
	}
	return "$" + humanize.Comma(rounded.IntPart())
}

// FormatProfitLoss 带符号的盈亏，零记为正
func FormatProfitLoss(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-" + FormatCurrency(amount.Abs())
	}
	return "+" + FormatCurrency(amount)
}
