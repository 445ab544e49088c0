package application

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/optionstracker/internal/contract/domain"
	"github.com/wyfcoding/optionstracker/pkg/metrics"
)

// ContractQueryService 处理合约查询与估值、风险、组合聚合
type ContractQueryService struct {
	repo       domain.ContractRepository
	portfolio  domain.PortfolioRepository
	engine     *domain.ValuationEngine
	scorer     *domain.RiskScorer
	calculator *domain.PortfolioCalculator
	metrics    *metrics.Metrics
}

// NewContractQueryService 创建查询服务
func NewContractQueryService(repo domain.ContractRepository, portfolio domain.PortfolioRepository, engine *domain.ValuationEngine, m *metrics.Metrics) *ContractQueryService {
	return &ContractQueryService{
		repo:       repo,
		portfolio:  portfolio,
		engine:     engine,
		scorer:     domain.NewRiskScorer(engine.Clock()),
		calculator: domain.NewPortfolioCalculator(engine),
		metrics:    m,
	}
}

// GetContract 获取合约详情
func (q *ContractQueryService) GetContract(ctx context.Context, id string) (*ContractDTO, error) {
	contract, err := q.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toContractDTO(contract), nil
}

// ListContracts 分页查询，按创建时间倒序
func (q *ContractQueryService) ListContracts(ctx context.Context, filter domain.ContractFilter) ([]*ContractDTO, int64, error) {
	if filter.UserID == "" {
		return nil, 0, fmt.Errorf("%w: user_id is required", domain.ErrInvalidContract)
	}
	contracts, total, err := q.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return toContractDTOs(contracts), total, nil
}

// ValuateContract 按给定价格估值；标的价缺省时以行权价代替，期权价缺省时估算
func (q *ContractQueryService) ValuateContract(ctx context.Context, id string, underlying, optionPrice decimal.NullDecimal) (*ValuationDTO, error) {
	contract, err := q.get(ctx, id)
	if err != nil {
		return nil, err
	}
	price := contract.StrikePrice
	if underlying.Valid {
		price = underlying.Decimal
	}

	v := q.engine.Valuate(contract, price, optionPrice)
	q.metrics.RecordValuation()

	return &ValuationDTO{
		ContractID:              contract.ID,
		UnderlyingPrice:         price.String(),
		OptionPrice:             v.OptionPrice.String(),
		Estimated:               v.Estimated,
		IfSoldNow:               v.IfSoldNow.String(),
		IfSoldNowDisplay:        domain.FormatProfitLoss(v.IfSoldNow),
		IfExercisedAtExpiration: v.IfExercisedAtExpiration.String(),
		Breakeven:               v.Breakeven.String(),
		DaysToExpiration:        v.DaysToExpiration,
		InTheMoney:              domain.IsInTheMoney(contract.OptionType, contract.StrikePrice, price),
	}, nil
}

// ScoreRisk 合约风险评分
func (q *ContractQueryService) ScoreRisk(ctx context.Context, id string) (*RiskDTO, error) {
	contract, err := q.get(ctx, id)
	if err != nil {
		return nil, err
	}
	r := q.scorer.ScoreRisk(contract)
	return &RiskDTO{
		ContractID:     contract.ID,
		TimeDecay:      r.TimeDecay,
		TimeDecayBand:  string(domain.BandForScore(r.TimeDecay)),
		Delta:          r.Delta,
		DeltaBand:      string(domain.BandForScore(r.Delta)),
		Volatility:     r.Volatility,
		VolatilityBand: string(domain.BandForScore(r.Volatility)),
	}, nil
}

// PayoffCurve 到期收益曲线
func (q *ContractQueryService) PayoffCurve(ctx context.Context, id string, steps int) ([]PayoffPointDTO, error) {
	contract, err := q.get(ctx, id)
	if err != nil {
		return nil, err
	}
	points := q.engine.PayoffCurve(contract, steps, domain.DefaultPayoffRange)
	dtos := make([]PayoffPointDTO, 0, len(points))
	for _, p := range points {
		dtos = append(dtos, PayoffPointDTO{Price: p.Price.String(), ProfitLoss: p.ProfitLoss.String()})
	}
	return dtos, nil
}

// GroupBySymbol 活跃合约按标的分组
func (q *ContractQueryService) GroupBySymbol(ctx context.Context, userID string) ([]*GroupDTO, error) {
	active, err := q.activeContracts(ctx, userID)
	if err != nil {
		return nil, err
	}
	groups := q.calculator.GroupBySymbol(active)
	dtos := make([]*GroupDTO, 0, len(groups))
	for _, g := range groups {
		dtos = append(dtos, toGroupDTO(g))
	}
	return dtos, nil
}

// Summary 现金 + 持仓 + 全部合约净盈亏
func (q *ContractQueryService) Summary(ctx context.Context, userID string) (*SummaryDTO, error) {
	contracts, err := q.allContracts(ctx, userID)
	if err != nil {
		return nil, err
	}
	cash, err := q.portfolio.GetCash(ctx, userID)
	if err != nil {
		return nil, err
	}
	holdings, err := q.portfolio.ListHoldings(ctx, userID)
	if err != nil {
		return nil, err
	}

	s := q.calculator.Summary(cash, holdings, contracts)
	return &SummaryDTO{
		UserID:               userID,
		Cash:                 s.Cash.String(),
		HoldingsValue:        s.HoldingsValue.String(),
		NetProfitLoss:        s.NetProfitLoss.String(),
		NetProfitLossDisplay: domain.FormatProfitLoss(s.NetProfitLoss),
		TotalValue:           s.TotalValue.String(),
	}, nil
}

// Analytics 活跃合约统计
func (q *ContractQueryService) Analytics(ctx context.Context, userID string) (*AnalyticsDTO, error) {
	active, err := q.activeContracts(ctx, userID)
	if err != nil {
		return nil, err
	}
	q.metrics.SetActiveContracts(len(active))

	a := domain.Analytics(active, q.engine.Clock().Now())
	return &AnalyticsDTO{
		UserID:              userID,
		PremiumTotal:        a.PremiumTotal.String(),
		ActiveCount:         a.ActiveCount,
		ProfitableCount:     a.ProfitableCount,
		AvgChanceOfProfit:   a.AvgChanceOfProfit.StringFixed(2),
		DaysToClosestExpiry: a.DaysToClosestExpiry,
		ExpiringThisWeek:    a.ExpiringThisWeek,
	}, nil
}

// History 已结束合约统计及待结算合约
func (q *ContractQueryService) History(ctx context.Context, userID string) (*HistoryDTO, error) {
	contracts, err := q.allContracts(ctx, userID)
	if err != nil {
		return nil, err
	}
	h := domain.History(contracts, q.engine.Clock().Now())
	return &HistoryDTO{
		UserID:          userID,
		TotalProfitLoss: h.TotalProfitLoss.String(),
		FinishedCount:   h.FinishedCount,
		ProfitableCount: h.ProfitableCount,
		WinRate:         h.WinRate.StringFixed(2),
		ExpiringToday:   toContractDTOs(h.ExpiringToday),
		PastDue:         toContractDTOs(h.PastDue),
	}, nil
}

// Simulate 假设标的价为 price 时活跃合约的立即平仓盈亏合计
func (q *ContractQueryService) Simulate(ctx context.Context, userID string, price decimal.Decimal) (*SimulationDTO, error) {
	if !price.IsPositive() {
		return nil, fmt.Errorf("%w: price must be positive", domain.ErrInvalidContract)
	}
	active, err := q.activeContracts(ctx, userID)
	if err != nil {
		return nil, err
	}
	total := q.engine.SimulatePortfolio(active, price)
	return &SimulationDTO{
		UserID:          userID,
		Price:           price.String(),
		Contracts:       len(active),
		TotalProfitLoss: total.String(),
		Display:         domain.FormatProfitLoss(total),
	}, nil
}

// ExportContracts 导出用户全部合约
func (q *ContractQueryService) ExportContracts(ctx context.Context, userID string) ([]*domain.Contract, error) {
	return q.allContracts(ctx, userID)
}

func (q *ContractQueryService) get(ctx context.Context, id string) (*domain.Contract, error) {
	contract, err := q.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrContractNotFound, id)
	}
	return contract, nil
}

func (q *ContractQueryService) allContracts(ctx context.Context, userID string) ([]*domain.Contract, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", domain.ErrInvalidContract)
	}
	contracts, _, err := q.repo.List(ctx, domain.ContractFilter{UserID: userID})
	return contracts, err
}

func (q *ContractQueryService) activeContracts(ctx context.Context, userID string) ([]*domain.Contract, error) {
	contracts, err := q.allContracts(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.ActiveContracts(contracts, q.engine.Clock().Now()), nil
}
