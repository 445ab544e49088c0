package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// DefaultListLimit 未指定分页大小时的默认值
const DefaultListLimit = 50

// ContractFilter 列表查询条件
type ContractFilter struct {
	UserID string
	// 为空时不过滤
	Status Status
	// 为 0 时不分页；只给 Offset 时按 DefaultListLimit
	Limit  int
	Offset int
}

// ContractRepository 合约仓储接口（写模型）
type ContractRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	// Save 新增或全量更新
	Save(ctx context.Context, contract *Contract) error
	// Get 未找到时返回 nil, nil
	Get(ctx context.Context, id string) (*Contract, error)
	// GetForUpdate 绕过缓存读主库并锁定该行，需在 WithTx 内调用；未找到时返回 nil, nil
	GetForUpdate(ctx context.Context, id string) (*Contract, error)
	// Settle 写入终态，仅当库中状态仍为 open 时生效，否则返回 ErrContractTerminal
	Settle(ctx context.Context, contract *Contract) error
	// List 按创建时间倒序
	List(ctx context.Context, filter ContractFilter) ([]*Contract, int64, error)
	Delete(ctx context.Context, id string) error
}

// ContractReadRepository 合约读缓存，仅按 ID 查询
type ContractReadRepository interface {
	Save(ctx context.Context, contract *Contract) error
	Get(ctx context.Context, id string) (*Contract, error)
	Delete(ctx context.Context, id string) error
}

// PortfolioRepository 现金与股票持仓
type PortfolioRepository interface {
	GetCash(ctx context.Context, userID string) (decimal.Decimal, error)
	SetCash(ctx context.Context, userID string, cash decimal.Decimal) error

	ListHoldings(ctx context.Context, userID string) ([]*Holding, error)
	SaveHolding(ctx context.Context, holding *Holding) error
	// GetHolding 未找到时返回 nil, nil
	GetHolding(ctx context.Context, id string) (*Holding, error)
	DeleteHolding(ctx context.Context, id string) error
}
