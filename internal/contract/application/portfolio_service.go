package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/optionstracker/internal/contract/domain"
)

// PortfolioService 现金与股票持仓
type PortfolioService struct {
	repo  domain.PortfolioRepository
	clock domain.Clock
}

// NewPortfolioService 创建组合服务
func NewPortfolioService(repo domain.PortfolioRepository, clock domain.Clock) *PortfolioService {
	return &PortfolioService{repo: repo, clock: clock}
}

// GetCash 查询现金
func (s *PortfolioService) GetCash(ctx context.Context, userID string) (decimal.Decimal, error) {
	if userID == "" {
		return decimal.Zero, fmt.Errorf("%w: user_id is required", domain.ErrInvalidHolding)
	}
	return s.repo.GetCash(ctx, userID)
}

// SetCash 设置现金
func (s *PortfolioService) SetCash(ctx context.Context, userID string, cash decimal.Decimal) error {
	if userID == "" {
		return fmt.Errorf("%w: user_id is required", domain.ErrInvalidHolding)
	}
	return s.repo.SetCash(ctx, userID, cash)
}

// ListHoldings 股票持仓列表
func (s *PortfolioService) ListHoldings(ctx context.Context, userID string) ([]*HoldingDTO, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", domain.ErrInvalidHolding)
	}
	holdings, err := s.repo.ListHoldings(ctx, userID)
	if err != nil {
		return nil, err
	}
	dtos := make([]*HoldingDTO, 0, len(holdings))
	for _, h := range holdings {
		dtos = append(dtos, toHoldingDTO(h))
	}
	return dtos, nil
}

// AddHolding 新增股票持仓
func (s *PortfolioService) AddHolding(ctx context.Context, cmd AddHoldingCommand) (*HoldingDTO, error) {
	if cmd.UserID == "" {
		return nil, fmt.Errorf("%w: user_id is required", domain.ErrInvalidHolding)
	}
	now := s.clock.Now()
	h := &domain.Holding{
		ID:        uuid.New().String(),
		UserID:    cmd.UserID,
		Symbol:    cmd.Symbol,
		Shares:    cmd.Shares,
		Price:     cmd.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.SaveHolding(ctx, h); err != nil {
		return nil, err
	}
	return toHoldingDTO(h), nil
}

// DeleteHolding 删除股票持仓
func (s *PortfolioService) DeleteHolding(ctx context.Context, id string) error {
	h, err := s.repo.GetHolding(ctx, id)
	if err != nil {
		return err
	}
	if h == nil {
		return fmt.Errorf("%w: %s", domain.ErrHoldingNotFound, id)
	}
	return s.repo.DeleteHolding(ctx, id)
}
