package persistence

import (
	"context"
	"sync"

	"github.com/wyfcoding/optionstracker/internal/contract/domain"
	"github.com/wyfcoding/optionstracker/pkg/logger"
)

type compositeContractRepository struct {
	primary domain.ContractRepository
	cache   domain.ContractReadRepository
}

// NewCompositeContractRepository 主库 + 读缓存
// 写操作先落主库，事务提交后再删除缓存；读操作缓存未命中时回源并回填
func NewCompositeContractRepository(primary domain.ContractRepository, cache domain.ContractReadRepository) domain.ContractRepository {
	if cache == nil {
		return primary
	}
	return &compositeContractRepository{primary: primary, cache: cache}
}

type pendingKey struct{}

// pendingInvalidations 事务内写过的合约 ID，提交后统一删除缓存
type pendingInvalidations struct {
	mu  sync.Mutex
	ids []string
}

func (p *pendingInvalidations) add(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids = append(p.ids, id)
}

func pendingFrom(ctx context.Context) (*pendingInvalidations, bool) {
	p, ok := ctx.Value(pendingKey{}).(*pendingInvalidations)
	return p, ok
}

func (r *compositeContractRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := pendingFrom(ctx); ok {
		return r.primary.WithTx(ctx, fn)
	}
	pending := &pendingInvalidations{}
	if err := r.primary.WithTx(context.WithValue(ctx, pendingKey{}, pending), fn); err != nil {
		return err
	}
	// 回滚时缓存未被改动，无需处理
	for _, id := range pending.ids {
		r.invalidate(ctx, id)
	}
	return nil
}

func (r *compositeContractRepository) Save(ctx context.Context, contract *domain.Contract) error {
	if err := r.primary.Save(ctx, contract); err != nil {
		return err
	}
	r.afterCommit(ctx, contract.ID)
	return nil
}

func (r *compositeContractRepository) Settle(ctx context.Context, contract *domain.Contract) error {
	if err := r.primary.Settle(ctx, contract); err != nil {
		return err
	}
	r.afterCommit(ctx, contract.ID)
	return nil
}

func (r *compositeContractRepository) GetForUpdate(ctx context.Context, id string) (*domain.Contract, error) {
	return r.primary.GetForUpdate(ctx, id)
}

func (r *compositeContractRepository) Get(ctx context.Context, id string) (*domain.Contract, error) {
	// 事务内读主库，避免把未提交的数据回填进缓存
	if _, ok := pendingFrom(ctx); ok {
		return r.primary.Get(ctx, id)
	}

	// 1. 缓存
	contract, err := r.cache.Get(ctx, id)
	if err == nil && contract != nil {
		return contract, nil
	}
	if err != nil {
		logger.Warn(ctx, "Contract cache read failed", "contract_id", id, "error", err)
	}

	// 2. 主库
	contract, err = r.primary.Get(ctx, id)
	if err != nil || contract == nil {
		return contract, err
	}

	// 3. 回填
	if err := r.cache.Save(ctx, contract); err != nil {
		logger.Warn(ctx, "Contract cache fill failed", "contract_id", id, "error", err)
	}
	return contract, nil
}

func (r *compositeContractRepository) List(ctx context.Context, filter domain.ContractFilter) ([]*domain.Contract, int64, error) {
	return r.primary.List(ctx, filter)
}

func (r *compositeContractRepository) Delete(ctx context.Context, id string) error {
	if err := r.primary.Delete(ctx, id); err != nil {
		return err
	}
	r.afterCommit(ctx, id)
	return nil
}

func (r *compositeContractRepository) afterCommit(ctx context.Context, id string) {
	if pending, ok := pendingFrom(ctx); ok {
		pending.add(id)
		return
	}
	r.invalidate(ctx, id)
}

func (r *compositeContractRepository) invalidate(ctx context.Context, id string) {
	if err := r.cache.Delete(ctx, id); err != nil {
		logger.Warn(ctx, "Contract cache invalidation failed", "contract_id", id, "error", err)
	}
}
