package persistence

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/optionstracker/internal/contract/domain"
	"github.com/wyfcoding/optionstracker/internal/contract/infrastructure/persistence/mysql"
	"github.com/wyfcoding/optionstracker/pkg/db"
)

// memoryCache 内存读缓存
type memoryCache struct {
	mu      sync.Mutex
	items   map[string]*domain.Contract
	gets    int
	failGet bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string]*domain.Contract)}
}

func (m *memoryCache) Save(_ context.Context, c *domain.Contract) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[c.ID] = c.Clone()
	return nil
}

func (m *memoryCache) Get(_ context.Context, id string) (*domain.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.failGet {
		return nil, errors.New("cache down")
	}
	c, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return c.Clone(), nil
}

func (m *memoryCache) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

func (m *memoryCache) has(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.items[id]
	return ok
}

func setup(t *testing.T) (domain.ContractRepository, *memoryCache) {
	t.Helper()
	database, err := db.Init(context.Background(), db.Config{Driver: "sqlite", DSN: "file::memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	require.NoError(t, mysql.AutoMigrate(database.DB))
	t.Cleanup(func() { _ = database.Close() })

	cache := newMemoryCache()
	return NewCompositeContractRepository(mysql.NewContractRepository(database.DB), cache), cache
}

func sample(id string) *domain.Contract {
	return &domain.Contract{
		ID:                    id,
		UserID:                "u-1",
		Symbol:                "SPY",
		BuyOrSell:             domain.ActionSell,
		OptionType:            domain.OptionPut,
		StrikePrice:           decimal.NewFromInt(500),
		ExpirationDate:        time.Date(2026, 6, 19, 0, 0, 0, 0, time.UTC),
		Contracts:             1,
		ExpectedCreditOrDebit: decimal.RequireFromString("4.2"),
		Status:                domain.StatusOpen,
		CreatedAt:             time.Now().UTC(),
	}
}

func TestComposite_ReadThroughAndFill(t *testing.T) {
	repo, cache := setup(t)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, sample("c-1")))
	assert.False(t, cache.has("c-1"))

	got, err := repo.Get(ctx, "c-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, cache.has("c-1"))

	again, err := repo.Get(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, got.ID, again.ID)
}

func TestComposite_SaveInvalidates(t *testing.T) {
	repo, cache := setup(t)
	ctx := context.Background()
	c := sample("c-1")
	require.NoError(t, repo.Save(ctx, c))
	_, err := repo.Get(ctx, "c-1")
	require.NoError(t, err)
	require.True(t, cache.has("c-1"))

	c.Notes = "rolled"
	require.NoError(t, repo.Save(ctx, c))
	assert.False(t, cache.has("c-1"))

	got, err := repo.Get(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "rolled", got.Notes)
}

func TestComposite_DeleteInvalidates(t *testing.T) {
	repo, cache := setup(t)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, sample("c-1")))
	_, _ = repo.Get(ctx, "c-1")

	require.NoError(t, repo.Delete(ctx, "c-1"))
	assert.False(t, cache.has("c-1"))

	got, err := repo.Get(ctx, "c-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestComposite_CacheFailureFallsBack(t *testing.T) {
	repo, cache := setup(t)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, sample("c-1")))
	cache.failGet = true

	got, err := repo.Get(ctx, "c-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "c-1", got.ID)
}

func TestComposite_NilCacheReturnsPrimary(t *testing.T) {
	primary := mysql.NewContractRepository(nil)
	assert.Same(t, primary, NewCompositeContractRepository(primary, nil))
}

func TestComposite_InvalidatesAfterCommit(t *testing.T) {
	repo, cache := setup(t)
	ctx := context.Background()
	c := sample("c-1")
	require.NoError(t, repo.Save(ctx, c))
	_, err := repo.Get(ctx, "c-1")
	require.NoError(t, err)
	require.True(t, cache.has("c-1"))

	err = repo.WithTx(ctx, func(txCtx context.Context) error {
		c.Notes = "rolled"
		if err := repo.Save(txCtx, c); err != nil {
			return err
		}
		assert.True(t, cache.has("c-1"), "cache must survive until commit")

		got, err := repo.Get(txCtx, "c-1")
		require.NoError(t, err)
		assert.Equal(t, "rolled", got.Notes)
		return nil
	})
	require.NoError(t, err)
	assert.False(t, cache.has("c-1"))
}

func TestComposite_RollbackKeepsCache(t *testing.T) {
	repo, cache := setup(t)
	ctx := context.Background()
	c := sample("c-1")
	require.NoError(t, repo.Save(ctx, c))
	_, err := repo.Get(ctx, "c-1")
	require.NoError(t, err)

	boom := errors.New("boom")
	err = repo.WithTx(ctx, func(txCtx context.Context) error {
		c.Notes = "rolled"
		if err := repo.Save(txCtx, c); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.True(t, cache.has("c-1"))

	got, err := repo.Get(ctx, "c-1")
	require.NoError(t, err)
	assert.Empty(t, got.Notes)
}

func TestComposite_StaleCacheCannotResettle(t *testing.T) {
	repo, cache := setup(t)
	ctx := context.Background()
	engine := domain.NewValuationEngine(domain.FixedClock{T: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)})

	require.NoError(t, repo.Save(ctx, sample("c-1")))
	stale, err := repo.Get(ctx, "c-1")
	require.NoError(t, err)
	require.True(t, cache.has("c-1"))

	settle := func(event domain.LifecycleEvent) (*domain.Contract, error) {
		var next *domain.Contract
		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			current, err := repo.GetForUpdate(txCtx, "c-1")
			if err != nil {
				return err
			}
			next, err = engine.Transition(current, event)
			if err != nil {
				return err
			}
			return repo.Settle(txCtx, next)
		})
		return next, err
	}

	closed, err := settle(domain.CloseEvent{
		FinalUnderlyingPrice: decimal.NewFromInt(510),
		FinalOptionPrice:     decimal.RequireFromString("1.2"),
	})
	require.NoError(t, err)
	assert.False(t, cache.has("c-1"))

	// 提交前的并发读把 open 快照回填进缓存
	require.NoError(t, cache.Save(ctx, stale))

	_, err = settle(domain.ExpireEvent{FinalUnderlyingPrice: decimal.NewFromInt(480)})
	assert.ErrorIs(t, err, domain.ErrContractTerminal)

	// 即使拿旧快照算出终态，条件写入也不会覆盖
	expired, err := engine.Transition(stale, domain.ExpireEvent{FinalUnderlyingPrice: decimal.NewFromInt(480)})
	require.NoError(t, err)
	err = repo.WithTx(ctx, func(txCtx context.Context) error {
		return repo.Settle(txCtx, expired)
	})
	assert.ErrorIs(t, err, domain.ErrContractTerminal)

	row, err := repo.GetForUpdate(ctx, "c-1")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, domain.StatusClosed, row.Status)
	require.True(t, row.FinalProfitLoss.Valid)
	assert.True(t, closed.FinalProfitLoss.Decimal.Equal(row.FinalProfitLoss.Decimal))
}
