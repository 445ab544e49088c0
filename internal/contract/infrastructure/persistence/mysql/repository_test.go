package mysql

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/wyfcoding/optionstracker/internal/contract/domain"
	"github.com/wyfcoding/optionstracker/pkg/db"
)

type RepositorySuite struct {
	suite.Suite
	ctx       context.Context
	database  *db.DB
	contracts domain.ContractRepository
	portfolio domain.PortfolioRepository
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	s.ctx = context.Background()
	database, err := db.Init(s.ctx, db.Config{Driver: "sqlite", DSN: "file::memory:", MaxOpenConns: 1})
	s.Require().NoError(err)
	s.Require().NoError(AutoMigrate(database.DB))
	s.database = database
	s.contracts = NewContractRepository(database.DB)
	s.portfolio = NewPortfolioRepository(database.DB)
}

func (s *RepositorySuite) TearDownTest() {
	_ = s.database.Close()
}

func newContract(id, userID string, created time.Time) *domain.Contract {
	return &domain.Contract{
		ID:                    id,
		UserID:                userID,
		Symbol:                "AAPL",
		BuyOrSell:             domain.ActionBuy,
		OptionType:            domain.OptionCall,
		StrikePrice:           decimal.RequireFromString("185.5"),
		ExpirationDate:        time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		Contracts:             2,
		ExpectedCreditOrDebit: decimal.RequireFromString("-3.25"),
		Breakeven:             decimal.RequireFromString("188.75"),
		ChanceOfProfit:        decimal.RequireFromString("42"),
		BidPrice:              decimal.RequireFromString("3.1"),
		PercentChange:         decimal.RequireFromString("-1.5"),
		Status:                domain.StatusOpen,
		CreatedAt:             created,
		UpdatedAt:             created,
	}
}

func (s *RepositorySuite) TestSaveAndGet() {
	created := time.Date(2026, 1, 2, 9, 30, 0, 0, time.UTC)
	c := newContract("c-1", "u-1", created)
	s.Require().NoError(s.contracts.Save(s.ctx, c))

	got, err := s.contracts.Get(s.ctx, "c-1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("AAPL", got.Symbol)
	s.True(got.StrikePrice.Equal(c.StrikePrice))
	s.True(got.ExpectedCreditOrDebit.Equal(c.ExpectedCreditOrDebit))
	s.Equal(c.ExpirationDate, got.ExpirationDate)
	s.Equal(domain.StatusOpen, got.Status)
	s.False(got.FinalProfitLoss.Valid)
	s.Nil(got.Analysis)
}

func (s *RepositorySuite) TestGet_NotFound() {
	got, err := s.contracts.Get(s.ctx, "missing")
	s.NoError(err)
	s.Nil(got)
}

func (s *RepositorySuite) TestSave_UpdatesFrozenFields() {
	c := newContract("c-1", "u-1", time.Now().UTC())
	s.Require().NoError(s.contracts.Save(s.ctx, c))

	closedAt := time.Date(2026, 2, 1, 15, 0, 0, 0, time.UTC)
	c.Status = domain.StatusExpired
	c.FinalUnderlyingPrice = decimal.NewNullDecimal(decimal.RequireFromString("190"))
	c.FinalProfitLoss = decimal.NewNullDecimal(decimal.RequireFromString("250"))
	c.ClosedDate = &closedAt
	c.Analysis = &domain.Analysis{WasProfit: true, LessonsLearned: "size down"}
	s.Require().NoError(s.contracts.Save(s.ctx, c))

	got, err := s.contracts.Get(s.ctx, "c-1")
	s.Require().NoError(err)
	s.Equal(domain.StatusExpired, got.Status)
	s.True(got.FinalProfitLoss.Valid)
	s.True(got.FinalProfitLoss.Decimal.Equal(decimal.NewFromInt(250)))
	s.Require().NotNil(got.ClosedDate)
	s.True(closedAt.Equal(*got.ClosedDate))
	s.Require().NotNil(got.Analysis)
	s.Equal("size down", got.Analysis.LessonsLearned)
	s.True(got.Analysis.WasProfit)
}

func (s *RepositorySuite) TestList_NewestFirstAndFilters() {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"c-1", "c-2", "c-3"} {
		s.Require().NoError(s.contracts.Save(s.ctx, newContract(id, "u-1", base.Add(time.Duration(i)*time.Hour))))
	}
	closed := newContract("c-4", "u-1", base.Add(4*time.Hour))
	closed.Status = domain.StatusClosed
	s.Require().NoError(s.contracts.Save(s.ctx, closed))
	s.Require().NoError(s.contracts.Save(s.ctx, newContract("other", "u-2", base)))

	all, total, err := s.contracts.List(s.ctx, domain.ContractFilter{UserID: "u-1"})
	s.Require().NoError(err)
	s.EqualValues(4, total)
	s.Equal([]string{"c-4", "c-3", "c-2", "c-1"}, ids(all))

	open, total, err := s.contracts.List(s.ctx, domain.ContractFilter{UserID: "u-1", Status: domain.StatusOpen})
	s.Require().NoError(err)
	s.EqualValues(3, total)
	s.Len(open, 3)

	page, total, err := s.contracts.List(s.ctx, domain.ContractFilter{UserID: "u-1", Limit: 2, Offset: 1})
	s.Require().NoError(err)
	s.EqualValues(4, total)
	s.Equal([]string{"c-3", "c-2"}, ids(page))
}

func (s *RepositorySuite) TestList_OffsetWithoutLimit() {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < domain.DefaultListLimit+3; i++ {
		s.Require().NoError(s.contracts.Save(s.ctx, newContract(fmt.Sprintf("c-%03d", i), "u-1", base.Add(time.Duration(i)*time.Minute))))
	}

	page, total, err := s.contracts.List(s.ctx, domain.ContractFilter{UserID: "u-1", Offset: 2})
	s.Require().NoError(err)
	s.EqualValues(domain.DefaultListLimit+3, total)
	s.Len(page, domain.DefaultListLimit)
	s.Equal(fmt.Sprintf("c-%03d", domain.DefaultListLimit), page[0].ID)
}

func (s *RepositorySuite) TestGetForUpdate() {
	s.Require().NoError(s.contracts.Save(s.ctx, newContract("c-1", "u-1", time.Now().UTC())))

	err := s.contracts.WithTx(s.ctx, func(txCtx context.Context) error {
		got, err := s.contracts.GetForUpdate(txCtx, "c-1")
		s.Require().NoError(err)
		s.Require().NotNil(got)
		s.Equal("c-1", got.ID)

		missing, err := s.contracts.GetForUpdate(txCtx, "missing")
		s.NoError(err)
		s.Nil(missing)
		return nil
	})
	s.Require().NoError(err)
}

func (s *RepositorySuite) TestSettle_OnlyFromOpen() {
	c := newContract("c-1", "u-1", time.Now().UTC())
	s.Require().NoError(s.contracts.Save(s.ctx, c))

	closedAt := time.Date(2026, 2, 1, 15, 0, 0, 0, time.UTC)
	closed := c.Clone()
	closed.Status = domain.StatusClosed
	closed.FinalUnderlyingPrice = decimal.NewNullDecimal(decimal.RequireFromString("190"))
	closed.FinalProfitLoss = decimal.NewNullDecimal(decimal.RequireFromString("700"))
	closed.ClosedDate = &closedAt
	s.Require().NoError(s.contracts.Settle(s.ctx, closed))

	expired := c.Clone()
	expired.Status = domain.StatusExpired
	expired.FinalProfitLoss = decimal.NewNullDecimal(decimal.RequireFromString("-650"))
	expired.ClosedDate = &closedAt
	s.ErrorIs(s.contracts.Settle(s.ctx, expired), domain.ErrContractTerminal)

	got, err := s.contracts.Get(s.ctx, "c-1")
	s.Require().NoError(err)
	s.Equal(domain.StatusClosed, got.Status)
	s.True(got.FinalProfitLoss.Decimal.Equal(decimal.NewFromInt(700)))
	s.Equal(c.CreatedAt.Unix(), got.CreatedAt.Unix())
}

func (s *RepositorySuite) TestSettle_LegacyActiveStatus() {
	c := newContract("legacy", "u-1", time.Now().UTC())
	s.Require().NoError(s.contracts.Save(s.ctx, c))
	s.Require().NoError(s.database.Model(&ContractModel{}).Where("id = ?", "legacy").Update("status", "active").Error)

	expired := c.Clone()
	expired.Status = domain.StatusExpired
	expired.FinalProfitLoss = decimal.NewNullDecimal(decimal.NewFromInt(100))
	s.NoError(s.contracts.Settle(s.ctx, expired))
}

func (s *RepositorySuite) TestList_LegacyActiveStatus() {
	c := newContract("legacy", "u-1", time.Now().UTC())
	s.Require().NoError(s.contracts.Save(s.ctx, c))
	s.Require().NoError(s.database.Model(&ContractModel{}).Where("id = ?", "legacy").Update("status", "active").Error)

	got, _, err := s.contracts.List(s.ctx, domain.ContractFilter{UserID: "u-1", Status: domain.StatusOpen})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(domain.StatusOpen, got[0].Status)
}

func (s *RepositorySuite) TestDelete() {
	s.Require().NoError(s.contracts.Save(s.ctx, newContract("c-1", "u-1", time.Now().UTC())))
	s.Require().NoError(s.contracts.Delete(s.ctx, "c-1"))

	got, err := s.contracts.Get(s.ctx, "c-1")
	s.NoError(err)
	s.Nil(got)
}

func (s *RepositorySuite) TestWithTx_RollsBack() {
	boom := errors.New("boom")
	err := s.contracts.WithTx(s.ctx, func(txCtx context.Context) error {
		if err := s.contracts.Save(txCtx, newContract("c-1", "u-1", time.Now().UTC())); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	got, err := s.contracts.Get(s.ctx, "c-1")
	s.NoError(err)
	s.Nil(got)
}

func (s *RepositorySuite) TestCash() {
	cash, err := s.portfolio.GetCash(s.ctx, "u-1")
	s.Require().NoError(err)
	s.True(cash.IsZero())

	s.Require().NoError(s.portfolio.SetCash(s.ctx, "u-1", decimal.RequireFromString("1500.25")))
	s.Require().NoError(s.portfolio.SetCash(s.ctx, "u-1", decimal.RequireFromString("2000")))

	cash, err = s.portfolio.GetCash(s.ctx, "u-1")
	s.Require().NoError(err)
	s.True(cash.Equal(decimal.NewFromInt(2000)), cash.String())
}

func (s *RepositorySuite) TestHoldings() {
	h := &domain.Holding{
		ID:     "h-1",
		UserID: "u-1",
		Symbol: " msft ",
		Shares: decimal.NewFromInt(10),
		Price:  decimal.RequireFromString("410.5"),
	}
	s.Require().NoError(s.portfolio.SaveHolding(s.ctx, h))

	list, err := s.portfolio.ListHoldings(s.ctx, "u-1")
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal("MSFT", list[0].Symbol)
	s.True(list[0].Value().Equal(decimal.NewFromInt(4105)))

	got, err := s.portfolio.GetHolding(s.ctx, "h-1")
	s.Require().NoError(err)
	s.NotNil(got)

	s.Require().NoError(s.portfolio.DeleteHolding(s.ctx, "h-1"))
	got, err = s.portfolio.GetHolding(s.ctx, "h-1")
	s.NoError(err)
	s.Nil(got)
}

func ids(contracts []*domain.Contract) []string {
	out := make([]string, 0, len(contracts))
	for _, c := range contracts {
		out = append(out, c.ID)
	}
	return out
}

func TestToContract_UnknownStatusKept(t *testing.T) {
	c := toContract(&ContractModel{ID: "x", Status: "weird"})
	require.NotNil(t, c)
	assert.Equal(t, domain.Status("weird"), c.Status)
}
