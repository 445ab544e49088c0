package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/wyfcoding/optionstracker/internal/contract/domain"
	"github.com/wyfcoding/optionstracker/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// openStatuses 库中视为未结算的状态，active 为旧数据写法
var openStatuses = []string{string(domain.StatusOpen), "active"}

type contractRepository struct {
	db *gorm.DB
}

// NewContractRepository 创建合约仓储
func NewContractRepository(gormDB *gorm.DB) domain.ContractRepository {
	return &contractRepository{db: gormDB}
}

// WithTx 在事务中执行，事务通过 ctx 传递给同一请求内的其他仓储与 Outbox
func (r *contractRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return db.WithTx(ctx, r.db, fn)
}

func (r *contractRepository) Save(ctx context.Context, contract *domain.Contract) error {
	return db.Conn(ctx, r.db).Save(toContractModel(contract)).Error
}

func (r *contractRepository) Get(ctx context.Context, id string) (*domain.Contract, error) {
	var model ContractModel
	err := db.Conn(ctx, r.db).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toContract(&model), nil
}

// GetForUpdate SELECT ... FOR UPDATE，sqlite 方言会忽略锁子句
func (r *contractRepository) GetForUpdate(ctx context.Context, id string) (*domain.Contract, error) {
	var model ContractModel
	err := db.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toContract(&model), nil
}

// Settle 条件更新，状态已被并发请求改为终态时影响行数为 0
func (r *contractRepository) Settle(ctx context.Context, contract *domain.Contract) error {
	model := toContractModel(contract)
	result := db.Conn(ctx, r.db).
		Where("status IN ?", openStatuses).
		Select("*").
		Omit("created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s is no longer open", domain.ErrContractTerminal, contract.ID)
	}
	return nil
}

func (r *contractRepository) List(ctx context.Context, filter domain.ContractFilter) ([]*domain.Contract, int64, error) {
	query := db.Conn(ctx, r.db).Model(&ContractModel{}).Where("user_id = ?", filter.UserID)
	switch filter.Status {
	case "":
	case domain.StatusOpen:
		query = query.Where("status IN ?", openStatuses)
	default:
		query = query.Where("status = ?", string(filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC").Order("id DESC")
	limit := filter.Limit
	if limit <= 0 && filter.Offset > 0 {
		// MySQL 不接受不带 LIMIT 的 OFFSET
		limit = domain.DefaultListLimit
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var models []*ContractModel
	if err := query.Find(&models).Error; err != nil {
		return nil, 0, err
	}
	contracts := make([]*domain.Contract, 0, len(models))
	for _, m := range models {
		contracts = append(contracts, toContract(m))
	}
	return contracts, total, nil
}

func (r *contractRepository) Delete(ctx context.Context, id string) error {
	return db.Conn(ctx, r.db).Where("id = ?", id).Delete(&ContractModel{}).Error
}
