// Package csvio 合约记录的 CSV 导入导出
package csvio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/optionstracker/internal/contract/domain"
)

// ContractRecord CSV 行，全部按字符串读写以保留 decimal 精度；同一结构也用于 YAML 组合文件
type ContractRecord struct {
	ID                    string `csv:"id" yaml:"id,omitempty"`
	UserID                string `csv:"user_id" yaml:"user_id,omitempty"`
	Symbol                string `csv:"symbol" yaml:"symbol,omitempty"`
	BuyOrSell             string `csv:"buy_or_sell" yaml:"buy_or_sell,omitempty"`
	OptionType            string `csv:"option_type" yaml:"option_type,omitempty"`
	StrikePrice           string `csv:"strike_price" yaml:"strike_price,omitempty"`
	ExpirationDate        string `csv:"expiration_date" yaml:"expiration_date,omitempty"`
	Contracts             string `csv:"contracts" yaml:"contracts,omitempty"`
	ExpectedCreditOrDebit string `csv:"expected_credit_or_debit" yaml:"expected_credit_or_debit,omitempty"`
	Breakeven             string `csv:"breakeven" yaml:"breakeven,omitempty"`
	ChanceOfProfit        string `csv:"chance_of_profit" yaml:"chance_of_profit,omitempty"`
	BidPrice              string `csv:"bid_price" yaml:"bid_price,omitempty"`
	LimitPrice            string `csv:"limit_price" yaml:"limit_price,omitempty"`
	PercentChange         string `csv:"percent_change" yaml:"percent_change,omitempty"`
	Change                string `csv:"change" yaml:"change,omitempty"`
	Status                string `csv:"status" yaml:"status,omitempty"`
	FinalUnderlyingPrice  string `csv:"final_underlying_price" yaml:"final_underlying_price,omitempty"`
	FinalProfitLoss       string `csv:"final_profit_loss" yaml:"final_profit_loss,omitempty"`
	Notes                 string `csv:"notes" yaml:"notes,omitempty"`
	// RFC3339
	ClosedDate string `csv:"closed_date" yaml:"closed_date,omitempty"`
	// 复盘字段平铺为列，全部为空时视为无复盘
	WasProfit        string `csv:"was_profit" yaml:"was_profit,omitempty"`
	ReasonForOutcome string `csv:"reason_for_outcome" yaml:"reason_for_outcome,omitempty"`
	LessonsLearned   string `csv:"lessons_learned" yaml:"lessons_learned,omitempty"`
	MarketConditions string `csv:"market_conditions" yaml:"market_conditions,omitempty"`
	WhatWentRight    string `csv:"what_went_right" yaml:"what_went_right,omitempty"`
	WhatWentWrong    string `csv:"what_went_wrong" yaml:"what_went_wrong,omitempty"`
}

// Read 解析 CSV，任一行非法时返回带行号的错误
func Read(r io.Reader) ([]*domain.Contract, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var records []*ContractRecord
	if err := gocsv.UnmarshalBytes(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}

	contracts, err := FromRecords(records)
	if err != nil {
		var rowErr *RowError
		if errors.As(err, &rowErr) {
			// 表头占第 1 行
			return nil, fmt.Errorf("line %d: %w", rowErr.Index+2, rowErr.Err)
		}
		return nil, err
	}
	return contracts, nil
}

// RowError 第 Index 条记录（从 0 开始）转换失败
type RowError struct {
	Index int
	Err   error
}

func (e *RowError) Error() string { return fmt.Sprintf("record %d: %v", e.Index+1, e.Err) }

func (e *RowError) Unwrap() error { return e.Err }

// FromRecords 校验并转换为领域对象
func FromRecords(records []*ContractRecord) ([]*domain.Contract, error) {
	contracts := make([]*domain.Contract, 0, len(records))
	for i, rec := range records {
		c, err := rec.toContract()
		if err != nil {
			return nil, &RowError{Index: i, Err: err}
		}
		contracts = append(contracts, c)
	}
	return contracts, nil
}

// Write 按 ContractRecord 列顺序输出 CSV
func Write(w io.Writer, contracts []*domain.Contract) error {
	records := make([]*ContractRecord, 0, len(contracts))
	for _, c := range contracts {
		records = append(records, fromContract(c))
	}
	return gocsv.Marshal(&records, w)
}

func (r *ContractRecord) toContract() (*domain.Contract, error) {
	action, err := domain.ParseAction(r.BuyOrSell)
	if err != nil {
		return nil, err
	}
	optionType, err := domain.ParseOptionType(r.OptionType)
	if err != nil {
		return nil, err
	}
	status, err := domain.ParseStatus(r.Status)
	if err != nil {
		return nil, err
	}
	expiration, err := domain.ParseDate(strings.TrimSpace(r.ExpirationDate))
	if err != nil {
		return nil, fmt.Errorf("%w: expiration_date %q", domain.ErrInvalidContract, r.ExpirationDate)
	}
	contracts, err := strconv.ParseInt(strings.TrimSpace(r.Contracts), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: contracts %q", domain.ErrInvalidContract, r.Contracts)
	}

	c := &domain.Contract{
		ID:             strings.TrimSpace(r.ID),
		UserID:         strings.TrimSpace(r.UserID),
		Symbol:         r.Symbol,
		BuyOrSell:      action,
		OptionType:     optionType,
		ExpirationDate: expiration,
		Contracts:      contracts,
		Status:         status,
		Notes:          r.Notes,
	}

	fields := []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"strike_price", r.StrikePrice, &c.StrikePrice},
		{"expected_credit_or_debit", r.ExpectedCreditOrDebit, &c.ExpectedCreditOrDebit},
		{"breakeven", r.Breakeven, &c.Breakeven},
		{"chance_of_profit", r.ChanceOfProfit, &c.ChanceOfProfit},
		{"bid_price", r.BidPrice, &c.BidPrice},
		{"limit_price", r.LimitPrice, &c.LimitPrice},
		{"percent_change", r.PercentChange, &c.PercentChange},
		{"change", r.Change, &c.Change},
	}
	for _, f := range fields {
		v, err := parseDecimal(f.raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %q", domain.ErrInvalidContract, f.name, f.raw)
		}
		*f.dst = v
	}

	if c.FinalUnderlyingPrice, err = parseNullDecimal(r.FinalUnderlyingPrice); err != nil {
		return nil, fmt.Errorf("%w: final_underlying_price %q", domain.ErrInvalidContract, r.FinalUnderlyingPrice)
	}
	if c.FinalProfitLoss, err = parseNullDecimal(r.FinalProfitLoss); err != nil {
		return nil, fmt.Errorf("%w: final_profit_loss %q", domain.ErrInvalidContract, r.FinalProfitLoss)
	}

	if raw := strings.TrimSpace(r.ClosedDate); raw != "" {
		closed, err := parseTimestamp(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: closed_date %q", domain.ErrInvalidContract, r.ClosedDate)
		}
		c.ClosedDate = &closed
	}
	if c.Analysis, err = r.analysis(); err != nil {
		return nil, err
	}

	c.Normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ContractRecord) analysis() (*domain.Analysis, error) {
	a := &domain.Analysis{
		ReasonForOutcome: r.ReasonForOutcome,
		LessonsLearned:   r.LessonsLearned,
		MarketConditions: r.MarketConditions,
		WhatWentRight:    r.WhatWentRight,
		WhatWentWrong:    r.WhatWentWrong,
	}
	wasProfit := strings.TrimSpace(r.WasProfit)
	if wasProfit == "" && *a == (domain.Analysis{}) {
		return nil, nil
	}
	if wasProfit != "" {
		v, err := strconv.ParseBool(wasProfit)
		if err != nil {
			return nil, fmt.Errorf("%w: was_profit %q", domain.ErrInvalidContract, r.WasProfit)
		}
		a.WasProfit = v
	}
	return a, nil
}

func fromContract(c *domain.Contract) *ContractRecord {
	rec := &ContractRecord{
		ID:                    c.ID,
		UserID:                c.UserID,
		Symbol:                c.Symbol,
		BuyOrSell:             string(c.BuyOrSell),
		OptionType:            string(c.OptionType),
		StrikePrice:           c.StrikePrice.String(),
		ExpirationDate:        c.ExpirationDate.Format(time.DateOnly),
		Contracts:             strconv.FormatInt(c.Contracts, 10),
		ExpectedCreditOrDebit: c.ExpectedCreditOrDebit.String(),
		Breakeven:             c.Breakeven.String(),
		ChanceOfProfit:        c.ChanceOfProfit.String(),
		BidPrice:              c.BidPrice.String(),
		LimitPrice:            c.LimitPrice.String(),
		PercentChange:         c.PercentChange.String(),
		Change:                c.Change.String(),
		Status:                string(c.Status),
		FinalUnderlyingPrice:  formatNullDecimal(c.FinalUnderlyingPrice),
		FinalProfitLoss:       formatNullDecimal(c.FinalProfitLoss),
		Notes:                 c.Notes,
	}
	if c.ClosedDate != nil {
		rec.ClosedDate = c.ClosedDate.UTC().Format(time.RFC3339)
	}
	if a := c.Analysis; a != nil {
		rec.WasProfit = strconv.FormatBool(a.WasProfit)
		rec.ReasonForOutcome = a.ReasonForOutcome
		rec.LessonsLearned = a.LessonsLearned
		rec.MarketConditions = a.MarketConditions
		rec.WhatWentRight = a.WhatWentRight
		rec.WhatWentWrong = a.WhatWentWrong
	}
	return rec
}

// parseTimestamp 接受 RFC3339 或纯日期
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return domain.ParseDate(s)
}

// parseDecimal 空串视为 0
func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func parseNullDecimal(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(v), nil
}

func formatNullDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
