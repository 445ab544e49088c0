package grpc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	pb "github.com/wyfcoding/optionstracker/go-api/contract/v1"
	"github.com/wyfcoding/optionstracker/internal/contract/application"
	"github.com/wyfcoding/optionstracker/internal/contract/domain"
	"github.com/wyfcoding/optionstracker/pkg/logger"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Handler gRPC 处理器
// 负责合约的增删改查、结算与估值
type Handler struct {
	pb.UnimplementedContractServiceServer
	svc *application.ContractService
}

// NewHandler 创建 gRPC 处理器实例
func NewHandler(svc *application.ContractService) *Handler {
	return &Handler{svc: svc}
}

// CreateContract 创建合约
func (h *Handler) CreateContract(ctx context.Context, req *pb.CreateContractRequest) (*pb.CreateContractResponse, error) {
	fields, err := toContractFields(req.GetFields())
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	dto, err := h.svc.Command.CreateContract(ctx, application.CreateContractCommand{ContractFields: fields})
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &pb.CreateContractResponse{Contract: toProtoContract(dto)}, nil
}

// GetContract 获取合约详情
func (h *Handler) GetContract(ctx context.Context, req *pb.GetContractRequest) (*pb.GetContractResponse, error) {
	dto, err := h.svc.Query.GetContract(ctx, req.Id)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &pb.GetContractResponse{Contract: toProtoContract(dto)}, nil
}

// ListContracts 分页列出合约
func (h *Handler) ListContracts(ctx context.Context, req *pb.ListContractsRequest) (*pb.ListContractsResponse, error) {
	if req.Limit < 0 || req.Offset < 0 {
		return nil, status.Error(codes.InvalidArgument, "limit and offset must not be negative")
	}
	filter := domain.ContractFilter{UserID: req.UserId, Limit: int(req.Limit), Offset: int(req.Offset)}
	if filter.Limit == 0 {
		filter.Limit = domain.DefaultListLimit
	}
	if req.Status != "" {
		s, err := domain.ParseStatus(req.Status)
		if err != nil {
			return nil, toStatus(ctx, err)
		}
		filter.Status = s
	}

	items, total, err := h.svc.Query.ListContracts(ctx, filter)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	contracts := make([]*pb.Contract, 0, len(items))
	for _, dto := range items {
		contracts = append(contracts, toProtoContract(dto))
	}
	return &pb.ListContractsResponse{Contracts: contracts, Total: total}, nil
}

// UpdateContract 修改 open 合约
func (h *Handler) UpdateContract(ctx context.Context, req *pb.UpdateContractRequest) (*pb.UpdateContractResponse, error) {
	fields, err := toContractFields(req.GetFields())
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	dto, err := h.svc.Command.UpdateContract(ctx, application.UpdateContractCommand{ID: req.Id, ContractFields: fields})
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &pb.UpdateContractResponse{Contract: toProtoContract(dto)}, nil
}

// DeleteContract 删除合约
func (h *Handler) DeleteContract(ctx context.Context, req *pb.DeleteContractRequest) (*pb.DeleteContractResponse, error) {
	if err := h.svc.Command.DeleteContract(ctx, req.Id); err != nil {
		return nil, toStatus(ctx, err)
	}
	return &pb.DeleteContractResponse{}, nil
}

// CloseContract 平仓
func (h *Handler) CloseContract(ctx context.Context, req *pb.CloseContractRequest) (*pb.CloseContractResponse, error) {
	underlying, err := positiveDecimal("final_underlying_price", req.FinalUnderlyingPrice)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	optionPrice, err := requiredDecimal("final_option_price", req.FinalOptionPrice)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	dto, err := h.svc.Command.CloseContract(ctx, application.CloseContractCommand{
		ID:                   req.Id,
		FinalUnderlyingPrice: underlying,
		FinalOptionPrice:     optionPrice,
	})
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &pb.CloseContractResponse{Contract: toProtoContract(dto)}, nil
}

// ExpireContract 到期结算
func (h *Handler) ExpireContract(ctx context.Context, req *pb.ExpireContractRequest) (*pb.ExpireContractResponse, error) {
	underlying, err := positiveDecimal("final_underlying_price", req.FinalUnderlyingPrice)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	dto, err := h.svc.Command.ExpireContract(ctx, application.ExpireContractCommand{
		ID:                   req.Id,
		FinalUnderlyingPrice: underlying,
		Analysis:             toDomainAnalysis(req.GetAnalysis()),
	})
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &pb.ExpireContractResponse{Contract: toProtoContract(dto)}, nil
}

// ValuateContract 按给定价格估值
func (h *Handler) ValuateContract(ctx context.Context, req *pb.ValuateContractRequest) (*pb.ValuateContractResponse, error) {
	underlying, err := optionalDecimal("underlying_price", req.UnderlyingPrice)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	optionPrice, err := optionalDecimal("option_price", req.OptionPrice)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	v, err := h.svc.Query.ValuateContract(ctx, req.Id, underlying, optionPrice)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &pb.ValuateContractResponse{Valuation: &pb.Valuation{
		ContractId:              v.ContractID,
		UnderlyingPrice:         v.UnderlyingPrice,
		OptionPrice:             v.OptionPrice,
		Estimated:               v.Estimated,
		IfSoldNow:               v.IfSoldNow,
		IfSoldNowDisplay:        v.IfSoldNowDisplay,
		IfExercisedAtExpiration: v.IfExercisedAtExpiration,
		Breakeven:               v.Breakeven,
		DaysToExpiration:        int32(v.DaysToExpiration),
		InTheMoney:              v.InTheMoney,
	}}, nil
}

// ScoreRisk 合约风险评分
func (h *Handler) ScoreRisk(ctx context.Context, req *pb.ScoreRiskRequest) (*pb.ScoreRiskResponse, error) {
	r, err := h.svc.Query.ScoreRisk(ctx, req.Id)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &pb.ScoreRiskResponse{Risk: &pb.Risk{
		ContractId:     r.ContractID,
		TimeDecay:      r.TimeDecay,
		TimeDecayBand:  r.TimeDecayBand,
		Delta:          r.Delta,
		DeltaBand:      r.DeltaBand,
		Volatility:     r.Volatility,
		VolatilityBand: r.VolatilityBand,
	}}, nil
}

// toStatus 领域错误映射为 gRPC 状态码，未知错误不向客户端暴露细节
func toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrContractNotFound), errors.Is(err, domain.ErrHoldingNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidContract), errors.Is(err, domain.ErrInvalidHolding):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrContractTerminal):
		return status.Error(codes.FailedPrecondition, err.Error())
	}
	logger.Error(ctx, "Contract rpc failed", "error", err)
	return status.Error(codes.Internal, "internal server error")
}

func toContractFields(f *pb.ContractFields) (application.ContractFields, error) {
	if f == nil {
		return application.ContractFields{}, fmt.Errorf("%w: fields are required", domain.ErrInvalidContract)
	}
	action, err := domain.ParseAction(f.BuyOrSell)
	if err != nil {
		return application.ContractFields{}, err
	}
	optionType, err := domain.ParseOptionType(f.OptionType)
	if err != nil {
		return application.ContractFields{}, err
	}
	if f.GetExpirationDate() == nil {
		return application.ContractFields{}, fmt.Errorf("%w: expiration_date is required", domain.ErrInvalidContract)
	}

	out := application.ContractFields{
		UserID:         f.UserId,
		Symbol:         f.Symbol,
		BuyOrSell:      action,
		OptionType:     optionType,
		ExpirationDate: f.ExpirationDate.AsTime().UTC(),
		Contracts:      f.Contracts,
		Notes:          f.Notes,
	}
	decimals := []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"strike_price", f.StrikePrice, &out.StrikePrice},
		{"expected_credit_or_debit", f.ExpectedCreditOrDebit, &out.ExpectedCreditOrDebit},
		{"breakeven", f.Breakeven, &out.Breakeven},
		{"chance_of_profit", f.ChanceOfProfit, &out.ChanceOfProfit},
		{"bid_price", f.BidPrice, &out.BidPrice},
		{"limit_price", f.LimitPrice, &out.LimitPrice},
		{"percent_change", f.PercentChange, &out.PercentChange},
		{"change", f.Change, &out.Change},
	}
	for _, d := range decimals {
		v, err := optionalDecimal(d.name, d.raw)
		if err != nil {
			return application.ContractFields{}, err
		}
		*d.dst = v.Decimal
	}
	return out, nil
}

// optionalDecimal 空串返回 Valid=false
func optionalDecimal(name, raw string) (decimal.NullDecimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("%w: %s %q", domain.ErrInvalidContract, name, raw)
	}
	return decimal.NewNullDecimal(v), nil
}

func requiredDecimal(name, raw string) (decimal.Decimal, error) {
	v, err := optionalDecimal(name, raw)
	if err != nil {
		return decimal.Zero, err
	}
	if !v.Valid {
		return decimal.Zero, fmt.Errorf("%w: %s is required", domain.ErrInvalidContract, name)
	}
	return v.Decimal, nil
}

func positiveDecimal(name, raw string) (decimal.Decimal, error) {
	v, err := requiredDecimal(name, raw)
	if err != nil {
		return decimal.Zero, err
	}
	if !v.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s must be positive", domain.ErrInvalidContract, name)
	}
	return v, nil
}

func toDomainAnalysis(a *pb.Analysis) *domain.Analysis {
	if a == nil {
		return nil
	}
	return &domain.Analysis{
		WasProfit:        a.WasProfit,
		ReasonForOutcome: a.ReasonForOutcome,
		LessonsLearned:   a.LessonsLearned,
		MarketConditions: a.MarketConditions,
		WhatWentRight:    a.WhatWentRight,
		WhatWentWrong:    a.WhatWentWrong,
	}
}

func toProtoContract(dto *application.ContractDTO) *pb.Contract {
	if dto == nil {
		return nil
	}
	c := &pb.Contract{
		Id:                    dto.ID,
		UserId:                dto.UserID,
		Symbol:                dto.Symbol,
		BuyOrSell:             dto.BuyOrSell,
		OptionType:            dto.OptionType,
		StrikePrice:           dto.StrikePrice,
		Contracts:             dto.Contracts,
		ExpectedCreditOrDebit: dto.ExpectedCreditOrDebit,
		Breakeven:             dto.Breakeven,
		ChanceOfProfit:        dto.ChanceOfProfit,
		BidPrice:              dto.BidPrice,
		LimitPrice:            dto.LimitPrice,
		PercentChange:         dto.PercentChange,
		Change:                dto.Change,
		Notes:                 dto.Notes,
		Status:                dto.Status,
		CreatedAt:             timestamppb.New(time.Unix(dto.CreatedAt, 0)),
		UpdatedAt:             timestamppb.New(time.Unix(dto.UpdatedAt, 0)),
	}
	if t, err := domain.ParseDate(dto.ExpirationDate); err == nil {
		c.ExpirationDate = timestamppb.New(t)
	}
	if dto.FinalUnderlyingPrice != nil {
		c.FinalUnderlyingPrice = *dto.FinalUnderlyingPrice
	}
	if dto.FinalProfitLoss != nil {
		c.FinalProfitLoss = *dto.FinalProfitLoss
	}
	if dto.ClosedDate != nil {
		if t, err := time.Parse(time.RFC3339, *dto.ClosedDate); err == nil {
			c.ClosedDate = timestamppb.New(t)
		}
	}
	if a := dto.Analysis; a != nil {
		c.Analysis = &pb.Analysis{
			WasProfit:        a.WasProfit,
			ReasonForOutcome: a.ReasonForOutcome,
			LessonsLearned:   a.LessonsLearned,
			MarketConditions: a.MarketConditions,
			WhatWentRight:    a.WhatWentRight,
			WhatWentWrong:    a.WhatWentWrong,
		}
	}
	return c
}
