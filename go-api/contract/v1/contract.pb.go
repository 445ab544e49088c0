// Package v1 合约服务的 gRPC 类型，与 api/contract/v1/contract.proto 保持一致
// 消息使用 JSON 编解码（content-subtype "json"），见 codec.go
package v1

import (
	"google.golang.org/protobuf/types/known/timestamppb"
)

type Analysis struct {
	WasProfit        bool   `json:"was_profit"`
	ReasonForOutcome string `json:"reason_for_outcome,omitempty"`
	LessonsLearned   string `json:"lessons_learned,omitempty"`
	MarketConditions string `json:"market_conditions,omitempty"`
	WhatWentRight    string `json:"what_went_right,omitempty"`
	WhatWentWrong    string `json:"what_went_wrong,omitempty"`
}

type ContractFields struct {
	UserId                string                 `json:"user_id"`
	Symbol                string                 `json:"symbol"`
	BuyOrSell             string                 `json:"buy_or_sell"`
	OptionType            string                 `json:"option_type"`
	StrikePrice           string                 `json:"strike_price"`
	ExpirationDate        *timestamppb.Timestamp `json:"expiration_date"`
	Contracts             int64                  `json:"contracts"`
	ExpectedCreditOrDebit string                 `json:"expected_credit_or_debit"`
	Breakeven             string                 `json:"breakeven"`
	ChanceOfProfit        string                 `json:"chance_of_profit"`
	BidPrice              string                 `json:"bid_price"`
	LimitPrice            string                 `json:"limit_price"`
	PercentChange         string                 `json:"percent_change"`
	Change                string                 `json:"change"`
	Notes                 string                 `json:"notes"`
}

func (x *ContractFields) GetExpirationDate() *timestamppb.Timestamp {
	if x != nil {
		return x.ExpirationDate
	}
	return nil
}

type Contract struct {
	Id                    string                 `json:"id"`
	UserId                string                 `json:"user_id"`
	Symbol                string                 `json:"symbol"`
	BuyOrSell             string                 `json:"buy_or_sell"`
	OptionType            string                 `json:"option_type"`
	StrikePrice           string                 `json:"strike_price"`
	ExpirationDate        *timestamppb.Timestamp `json:"expiration_date"`
	Contracts             int64                  `json:"contracts"`
	ExpectedCreditOrDebit string                 `json:"expected_credit_or_debit"`
	Breakeven             string                 `json:"breakeven"`
	ChanceOfProfit        string                 `json:"chance_of_profit"`
	BidPrice              string                 `json:"bid_price"`
	LimitPrice            string                 `json:"limit_price"`
	PercentChange         string                 `json:"percent_change"`
	Change                string                 `json:"change"`
	Notes                 string                 `json:"notes"`
	Status                string                 `json:"status"`
	FinalUnderlyingPrice  string                 `json:"final_underlying_price"`
	FinalProfitLoss       string                 `json:"final_profit_loss"`
	ClosedDate            *timestamppb.Timestamp `json:"closed_date"`
	Analysis              *Analysis              `json:"analysis"`
	CreatedAt             *timestamppb.Timestamp `json:"created_at"`
	UpdatedAt             *timestamppb.Timestamp `json:"updated_at"`
}

func (x *Contract) GetClosedDate() *timestamppb.Timestamp {
	if x != nil {
		return x.ClosedDate
	}
	return nil
}

func (x *Contract) GetAnalysis() *Analysis {
	if x != nil {
		return x.Analysis
	}
	return nil
}

type CreateContractRequest struct {
	Fields *ContractFields `json:"fields"`
}

func (x *CreateContractRequest) GetFields() *ContractFields {
	if x != nil {
		return x.Fields
	}
	return nil
}

type CreateContractResponse struct {
	Contract *Contract `json:"contract"`
}

func (x *CreateContractResponse) GetContract() *Contract {
	if x != nil {
		return x.Contract
	}
	return nil
}

type GetContractRequest struct {
	Id string `json:"id"`
}

type GetContractResponse struct {
	Contract *Contract `json:"contract"`
}

func (x *GetContractResponse) GetContract() *Contract {
	if x != nil {
		return x.Contract
	}
	return nil
}

type ListContractsRequest struct {
	UserId string `json:"user_id"`
	Status string `json:"status"`
	Limit  int32  `json:"limit"`
	Offset int32  `json:"offset"`
}

type ListContractsResponse struct {
	Contracts []*Contract `json:"contracts"`
	Total     int64       `json:"total"`
}

type UpdateContractRequest struct {
	Id     string          `json:"id"`
	Fields *ContractFields `json:"fields"`
}

func (x *UpdateContractRequest) GetFields() *ContractFields {
	if x != nil {
		return x.Fields
	}
	return nil
}

type UpdateContractResponse struct {
	Contract *Contract `json:"contract"`
}

func (x *UpdateContractResponse) GetContract() *Contract {
	if x != nil {
		return x.Contract
	}
	return nil
}

type DeleteContractRequest struct {
	Id string `json:"id"`
}

type DeleteContractResponse struct{}

type CloseContractRequest struct {
	Id                   string `json:"id"`
	FinalUnderlyingPrice string `json:"final_underlying_price"`
	FinalOptionPrice     string `json:"final_option_price"`
}

type CloseContractResponse struct {
	Contract *Contract `json:"contract"`
}

func (x *CloseContractResponse) GetContract() *Contract {
	if x != nil {
		return x.Contract
	}
	return nil
}

type ExpireContractRequest struct {
	Id                   string    `json:"id"`
	FinalUnderlyingPrice string    `json:"final_underlying_price"`
	Analysis             *Analysis `json:"analysis"`
}

func (x *ExpireContractRequest) GetAnalysis() *Analysis {
	if x != nil {
		return x.Analysis
	}
	return nil
}

type ExpireContractResponse struct {
	Contract *Contract `json:"contract"`
}

func (x *ExpireContractResponse) GetContract() *Contract {
	if x != nil {
		return x.Contract
	}
	return nil
}

type ValuateContractRequest struct {
	Id              string `json:"id"`
	UnderlyingPrice string `json:"underlying_price"`
	OptionPrice     string `json:"option_price"`
}

type Valuation struct {
	ContractId              string `json:"contract_id"`
	UnderlyingPrice         string `json:"underlying_price"`
	OptionPrice             string `json:"option_price"`
	Estimated               bool   `json:"estimated"`
	IfSoldNow               string `json:"if_sold_now"`
	IfSoldNowDisplay        string `json:"if_sold_now_display"`
	IfExercisedAtExpiration string `json:"if_exercised_at_expiration"`
	Breakeven               string `json:"breakeven"`
	DaysToExpiration        int32  `json:"days_to_expiration"`
	InTheMoney              bool   `json:"in_the_money"`
}

type ValuateContractResponse struct {
	Valuation *Valuation `json:"valuation"`
}

func (x *ValuateContractResponse) GetValuation() *Valuation {
	if x != nil {
		return x.Valuation
	}
	return nil
}

type ScoreRiskRequest struct {
	Id string `json:"id"`
}

type Risk struct {
	ContractId     string  `json:"contract_id"`
	TimeDecay      float64 `json:"time_decay"`
	TimeDecayBand  string  `json:"time_decay_band"`
	Delta          float64 `json:"delta"`
	DeltaBand      string  `json:"delta_band"`
	Volatility     float64 `json:"volatility"`
	VolatilityBand string  `json:"volatility_band"`
}

type ScoreRiskResponse struct {
	Risk *Risk `json:"risk"`
}

func (x *ScoreRiskResponse) GetRisk() *Risk {
	if x != nil {
		return x.Risk
	}
	return nil
}
