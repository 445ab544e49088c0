package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/wyfcoding/optionstracker/internal/contract/domain"
	"github.com/wyfcoding/optionstracker/pkg/logger"
	"github.com/wyfcoding/optionstracker/pkg/metrics"
)

// ContractCommandService 处理合约写操作
// 业务数据与 Outbox 事件在同一事务内写入
type ContractCommandService struct {
	repo           domain.ContractRepository
	eventPublisher domain.EventPublisher
	engine         *domain.ValuationEngine
	metrics        *metrics.Metrics
}

// NewContractCommandService 创建命令服务，eventPublisher 与 m 可为 nil
func NewContractCommandService(repo domain.ContractRepository, eventPublisher domain.EventPublisher, engine *domain.ValuationEngine, m *metrics.Metrics) *ContractCommandService {
	return &ContractCommandService{
		repo:           repo,
		eventPublisher: eventPublisher,
		engine:         engine,
		metrics:        m,
	}
}

// CreateContract 创建合约
func (s *ContractCommandService) CreateContract(ctx context.Context, cmd CreateContractCommand) (*ContractDTO, error) {
	if cmd.UserID == "" {
		return nil, fmt.Errorf("%w: user_id is required", domain.ErrInvalidContract)
	}

	now := s.engine.Clock().Now()
	contract := &domain.Contract{
		ID:        uuid.New().String(),
		Status:    domain.StatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	cmd.applyTo(contract)
	contract.Normalize()
	if err := contract.Validate(); err != nil {
		return nil, err
	}

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Save(txCtx, contract); err != nil {
			return err
		}
		return s.publish(txCtx, domain.ContractCreatedEventType, contract.ID, domain.NewContractCreatedEvent(contract, now))
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Contract created", "contract_id", contract.ID, "user_id", contract.UserID, "symbol", contract.Symbol)
	return toContractDTO(contract), nil
}

// UpdateContract 修改 open 合约的条款
func (s *ContractCommandService) UpdateContract(ctx context.Context, cmd UpdateContractCommand) (*ContractDTO, error) {
	var updated *domain.Contract
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		contract, err := s.load(txCtx, cmd.ID)
		if err != nil {
			return err
		}
		if contract.IsTerminal() {
			return fmt.Errorf("%w: %s is %s", domain.ErrContractTerminal, contract.ID, contract.Status)
		}

		if cmd.UserID == "" {
			cmd.UserID = contract.UserID
		}
		cmd.applyTo(contract)
		contract.Normalize()
		if err := contract.Validate(); err != nil {
			return err
		}
		contract.UpdatedAt = s.engine.Clock().Now()

		if err := s.repo.Save(txCtx, contract); err != nil {
			return err
		}
		updated = contract
		return s.publish(txCtx, domain.ContractUpdatedEventType, contract.ID, domain.ContractUpdatedEvent{
			ContractID: contract.ID,
			UserID:     contract.UserID,
			OccurredOn: contract.UpdatedAt,
		})
	})
	if err != nil {
		return nil, err
	}
	return toContractDTO(updated), nil
}

// DeleteContract 删除合约
func (s *ContractCommandService) DeleteContract(ctx context.Context, id string) error {
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		contract, err := s.load(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return err
		}
		return s.publish(txCtx, domain.ContractDeletedEventType, id, domain.ContractDeletedEvent{
			ContractID: id,
			UserID:     contract.UserID,
			OccurredOn: s.engine.Clock().Now(),
		})
	})
}

// CloseContract 平仓，冻结 IfSoldNow 作为最终盈亏
func (s *ContractCommandService) CloseContract(ctx context.Context, cmd CloseContractCommand) (*ContractDTO, error) {
	return s.transition(ctx, cmd.ID, domain.CloseEvent{
		FinalUnderlyingPrice: cmd.FinalUnderlyingPrice,
		FinalOptionPrice:     cmd.FinalOptionPrice,
	})
}

// ExpireContract 到期结算，按到期内在价值冻结最终盈亏
func (s *ContractCommandService) ExpireContract(ctx context.Context, cmd ExpireContractCommand) (*ContractDTO, error) {
	return s.transition(ctx, cmd.ID, domain.ExpireEvent{
		FinalUnderlyingPrice: cmd.FinalUnderlyingPrice,
		Analysis:             cmd.Analysis,
	})
}

func (s *ContractCommandService) transition(ctx context.Context, id string, event domain.LifecycleEvent) (*ContractDTO, error) {
	var next *domain.Contract
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		contract, err := s.load(txCtx, id)
		if err != nil {
			return err
		}
		next, err = s.engine.Transition(contract, event)
		if err != nil {
			return err
		}
		if err := s.repo.Settle(txCtx, next); err != nil {
			return err
		}
		return s.publish(txCtx, domain.SettledEventType(next.Status), next.ID, domain.NewContractSettledEvent(next, next.UpdatedAt))
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordTransition(string(next.Status))
	logger.Info(ctx, "Contract settled",
		"contract_id", next.ID,
		"status", next.Status,
		"final_profit_loss", next.FinalProfitLoss.Decimal.String(),
	)
	return toContractDTO(next), nil
}

// ImportContracts 批量导入，全部成功或全部回滚
func (s *ContractCommandService) ImportContracts(ctx context.Context, userID string, contracts []*domain.Contract) (int, error) {
	if userID == "" {
		return 0, fmt.Errorf("%w: user_id is required", domain.ErrInvalidContract)
	}
	now := s.engine.Clock().Now()
	for i, c := range contracts {
		c.ID = uuid.New().String()
		c.UserID = userID
		c.CreatedAt = now
		c.UpdatedAt = now
		c.Normalize()
		if err := c.Validate(); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		for _, c := range contracts {
			if err := s.repo.Save(txCtx, c); err != nil {
				return err
			}
			if err := s.publish(txCtx, domain.ContractCreatedEventType, c.ID, domain.NewContractCreatedEvent(c, now)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	logger.Info(ctx, "Contracts imported", "user_id", userID, "count", len(contracts))
	return len(contracts), nil
}

// load 在事务内读取并锁定合约，不经过读缓存
func (s *ContractCommandService) load(ctx context.Context, id string) (*domain.Contract, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: contract id is required", domain.ErrInvalidContract)
	}
	contract, err := s.repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrContractNotFound, id)
	}
	return contract, nil
}

func (s *ContractCommandService) publish(ctx context.Context, eventType, key string, event any) error {
	if s.eventPublisher == nil {
		return nil
	}
	return s.eventPublisher.PublishInTx(ctx, eventType, key, event)
}
