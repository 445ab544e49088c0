package application

import (
	"github.com/wyfcoding/optionstracker/internal/contract/domain"
	"github.com/wyfcoding/optionstracker/pkg/metrics"
)

// ContractService 合约服务门面，整合命令、查询与组合服务
type ContractService struct {
	Command   *ContractCommandService
	Query     *ContractQueryService
	Portfolio *PortfolioService
}

// NewContractService 构造函数
func NewContractService(
	repo domain.ContractRepository,
	portfolioRepo domain.PortfolioRepository,
	eventPublisher domain.EventPublisher,
	engine *domain.ValuationEngine,
	m *metrics.Metrics,
) *ContractService {
	return &ContractService{
		Command:   NewContractCommandService(repo, eventPublisher, engine, m),
		Query:     NewContractQueryService(repo, portfolioRepo, engine, m),
		Portfolio: NewPortfolioService(portfolioRepo, engine.Clock()),
	}
}
