package mysql

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/optionstracker/internal/contract/domain"
	"github.com/wyfcoding/optionstracker/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type portfolioRepository struct {
	db *gorm.DB
}

// NewPortfolioRepository 创建现金与持仓仓储
func NewPortfolioRepository(gormDB *gorm.DB) domain.PortfolioRepository {
	return &portfolioRepository{db: gormDB}
}

// GetCash 无账户记录时现金为 0
func (r *portfolioRepository) GetCash(ctx context.Context, userID string) (decimal.Decimal, error) {
	var account AccountModel
	err := db.Conn(ctx, r.db).Where("user_id = ?", userID).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return account.Cash, nil
}

func (r *portfolioRepository) SetCash(ctx context.Context, userID string, cash decimal.Decimal) error {
	account := AccountModel{UserID: userID, Cash: cash, UpdatedAt: time.Now()}
	return db.Conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"cash", "updated_at"}),
	}).Create(&account).Error
}

func (r *portfolioRepository) ListHoldings(ctx context.Context, userID string) ([]*domain.Holding, error) {
	var models []*HoldingModel
	if err := db.Conn(ctx, r.db).Where("user_id = ?", userID).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	holdings := make([]*domain.Holding, 0, len(models))
	for _, m := range models {
		holdings = append(holdings, toHolding(m))
	}
	return holdings, nil
}

func (r *portfolioRepository) SaveHolding(ctx context.Context, holding *domain.Holding) error {
	holding.Symbol = strings.ToUpper(strings.TrimSpace(holding.Symbol))
	return db.Conn(ctx, r.db).Save(toHoldingModel(holding)).Error
}

func (r *portfolioRepository) GetHolding(ctx context.Context, id string) (*domain.Holding, error) {
	var model HoldingModel
	err := db.Conn(ctx, r.db).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toHolding(&model), nil
}

func (r *portfolioRepository) DeleteHolding(ctx context.Context, id string) error {
	return db.Conn(ctx, r.db).Where("id = ?", id).Delete(&HoldingModel{}).Error
}
