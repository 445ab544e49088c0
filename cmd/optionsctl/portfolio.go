package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/optionstracker/internal/contract/domain"
	"github.com/wyfcoding/optionstracker/internal/contract/infrastructure/csvio"
	"gopkg.in/yaml.v3"
)

// portfolioFile YAML 组合文件
//
//	cash: "10000"
//	holdings:
//	  - {symbol: SPY, shares: "10", price: "450"}
//	contracts_file: contracts.csv
//	contracts:
//	  - {symbol: AAPL, buy_or_sell: buy, option_type: call, ...}
type portfolioFile struct {
	Cash          string                  `yaml:"cash"`
	Holdings      []holdingEntry          `yaml:"holdings"`
	ContractsFile string                  `yaml:"contracts_file"`
	Contracts     []*csvio.ContractRecord `yaml:"contracts"`
}

type holdingEntry struct {
	Symbol string `yaml:"symbol"`
	Shares string `yaml:"shares"`
	Price  string `yaml:"price"`
}

type portfolio struct {
	Cash      decimal.Decimal
	Holdings  []*domain.Holding
	Contracts []*domain.Contract
}

// loadPortfolio 解析 YAML 组合文件；contracts_file 相对于 YAML 所在目录
func loadPortfolio(path string) (*portfolio, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file portfolioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	p := &portfolio{Cash: decimal.Zero}
	if file.Cash != "" {
		if p.Cash, err = decimal.NewFromString(file.Cash); err != nil {
			return nil, fmt.Errorf("%s: invalid cash %q", path, file.Cash)
		}
	}

	for i, h := range file.Holdings {
		shares, err := decimal.NewFromString(h.Shares)
		if err != nil {
			return nil, fmt.Errorf("%s: holding %d: invalid shares %q", path, i+1, h.Shares)
		}
		price, err := decimal.NewFromString(h.Price)
		if err != nil {
			return nil, fmt.Errorf("%s: holding %d: invalid price %q", path, i+1, h.Price)
		}
		holding := &domain.Holding{Symbol: h.Symbol, Shares: shares, Price: price}
		if err := holding.Validate(); err != nil {
			return nil, fmt.Errorf("%s: holding %d: %w", path, i+1, err)
		}
		p.Holdings = append(p.Holdings, holding)
	}

	if file.ContractsFile != "" {
		csvPath := file.ContractsFile
		if !filepath.IsAbs(csvPath) {
			csvPath = filepath.Join(filepath.Dir(path), csvPath)
		}
		contracts, err := loadContracts(csvPath)
		if err != nil {
			return nil, err
		}
		p.Contracts = append(p.Contracts, contracts...)
	}

	inline, err := csvio.FromRecords(file.Contracts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.Contracts = append(p.Contracts, inline...)
	return p, nil
}
