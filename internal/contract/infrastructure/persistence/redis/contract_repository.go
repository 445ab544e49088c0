package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/optionstracker/internal/contract/domain"
	"github.com/wyfcoding/optionstracker/pkg/cache"
)

// DefaultTTL 缓存过期时间
const DefaultTTL = 15 * time.Minute

// contractCacheEntry 缓存结构，与领域模型解耦
type contractCacheEntry struct {
	ID                    string              `json:"id"`
	UserID                string              `json:"user_id"`
	Symbol                string              `json:"symbol"`
	BuyOrSell             string              `json:"buy_or_sell"`
	OptionType            string              `json:"option_type"`
	StrikePrice           decimal.Decimal     `json:"strike_price"`
	ExpirationDate        time.Time           `json:"expiration_date"`
	Contracts             int64               `json:"contracts"`
	ExpectedCreditOrDebit decimal.Decimal     `json:"expected_credit_or_debit"`
	Breakeven             decimal.Decimal     `json:"breakeven"`
	ChanceOfProfit        decimal.Decimal     `json:"chance_of_profit"`
	BidPrice              decimal.Decimal     `json:"bid_price"`
	LimitPrice            decimal.Decimal     `json:"limit_price"`
	PercentChange         decimal.Decimal     `json:"percent_change"`
	Change                decimal.Decimal     `json:"change"`
	Notes                 string              `json:"notes"`
	Status                string              `json:"status"`
	FinalUnderlyingPrice  decimal.NullDecimal `json:"final_underlying_price"`
	FinalProfitLoss       decimal.NullDecimal `json:"final_profit_loss"`
	ClosedDate            *time.Time          `json:"closed_date,omitempty"`
	Analysis              *domain.Analysis    `json:"analysis,omitempty"`
	CreatedAt             time.Time           `json:"created_at"`
	UpdatedAt             time.Time           `json:"updated_at"`
}

// ContractRedisRepository 合约读缓存
type ContractRedisRepository struct {
	cache  *cache.RedisCache
	prefix string
	ttl    time.Duration
}

// NewContractRedisRepository 创建合约缓存仓储，ttl <= 0 时使用默认值
func NewContractRedisRepository(c *cache.RedisCache, ttl time.Duration) *ContractRedisRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ContractRedisRepository{
		cache:  c,
		prefix: "contract:",
		ttl:    ttl,
	}
}

func (r *ContractRedisRepository) Save(ctx context.Context, contract *domain.Contract) error {
	if contract == nil || contract.ID == "" {
		return nil
	}
	return r.cache.SetJSON(ctx, r.key(contract.ID), toEntry(contract), r.ttl)
}

// Get 未命中时返回 nil, nil
func (r *ContractRedisRepository) Get(ctx context.Context, id string) (*domain.Contract, error) {
	if id == "" {
		return nil, nil
	}
	var entry contractCacheEntry
	ok, err := r.cache.GetJSON(ctx, r.key(id), &entry)
	if err != nil || !ok {
		return nil, err
	}
	return entry.toDomain(), nil
}

func (r *ContractRedisRepository) Delete(ctx context.Context, id string) error {
	return r.cache.Delete(ctx, r.key(id))
}

func (r *ContractRedisRepository) key(id string) string {
	return fmt.Sprintf("%s%s", r.prefix, id)
}

func toEntry(c *domain.Contract) contractCacheEntry {
	return contractCacheEntry{
		ID:                    c.ID,
		UserID:                c.UserID,
		Symbol:                c.Symbol,
		BuyOrSell:             string(c.BuyOrSell),
		OptionType:            string(c.OptionType),
		StrikePrice:           c.StrikePrice,
		ExpirationDate:        c.ExpirationDate,
		Contracts:             c.Contracts,
		ExpectedCreditOrDebit: c.ExpectedCreditOrDebit,
		Breakeven:             c.Breakeven,
		ChanceOfProfit:        c.ChanceOfProfit,
		BidPrice:              c.BidPrice,
		LimitPrice:            c.LimitPrice,
		PercentChange:         c.PercentChange,
		Change:                c.Change,
		Notes:                 c.Notes,
		Status:                string(c.Status),
		FinalUnderlyingPrice:  c.FinalUnderlyingPrice,
		FinalProfitLoss:       c.FinalProfitLoss,
		ClosedDate:            c.ClosedDate,
		Analysis:              c.Analysis,
		CreatedAt:             c.CreatedAt,
		UpdatedAt:             c.UpdatedAt,
	}
}

func (e contractCacheEntry) toDomain() *domain.Contract {
	return &domain.Contract{
		ID:                    e.ID,
		UserID:                e.UserID,
		Symbol:                e.Symbol,
		BuyOrSell:             domain.Action(e.BuyOrSell),
		OptionType:            domain.OptionType(e.OptionType),
		StrikePrice:           e.StrikePrice,
		ExpirationDate:        e.ExpirationDate,
		Contracts:             e.Contracts,
		ExpectedCreditOrDebit: e.ExpectedCreditOrDebit,
		Breakeven:             e.Breakeven,
		ChanceOfProfit:        e.ChanceOfProfit,
		BidPrice:              e.BidPrice,
		LimitPrice:            e.LimitPrice,
		PercentChange:         e.PercentChange,
		Change:                e.Change,
		Notes:                 e.Notes,
		Status:                domain.Status(e.Status),
		FinalUnderlyingPrice:  e.FinalUnderlyingPrice,
		FinalProfitLoss:       e.FinalProfitLoss,
		ClosedDate:            e.ClosedDate,
		Analysis:              e.Analysis,
		CreatedAt:             e.CreatedAt,
		UpdatedAt:             e.UpdatedAt,
	}
}
