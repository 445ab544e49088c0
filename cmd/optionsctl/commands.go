package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/wyfcoding/optionstracker/internal/contract/domain"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func parsePrice(flag, raw string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(raw)
	if err != nil || !v.IsPositive() {
		return decimal.Zero, fmt.Errorf("--%s must be a positive number, got %q", flag, raw)
	}
	return v, nil
}

type valuationRow struct {
	ID                      string `yaml:"id"`
	Symbol                  string `yaml:"symbol"`
	Status                  string `yaml:"status"`
	DaysToExpiration        int    `yaml:"days_to_expiration"`
	OptionPrice             string `yaml:"option_price"`
	Estimated               bool   `yaml:"estimated"`
	IfSoldNow               string `yaml:"if_sold_now"`
	IfExercisedAtExpiration string `yaml:"if_exercised_at_expiration"`
	Breakeven               string `yaml:"breakeven"`
}

func valueCmd(opts *rootOptions) *cobra.Command {
	var price, optionPrice string

	cmd := &cobra.Command{
		Use:   "value <contracts.csv>",
		Short: "Value every contract at one underlying price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			underlying, err := parsePrice("price", price)
			if err != nil {
				return err
			}
			var option decimal.NullDecimal
			if optionPrice != "" {
				v, err := decimal.NewFromString(optionPrice)
				if err != nil || v.IsNegative() {
					return fmt.Errorf("--option-price must be a non-negative number, got %q", optionPrice)
				}
				option = decimal.NewNullDecimal(v)
			}

			engine, err := opts.engine()
			if err != nil {
				return err
			}
			contracts, err := loadContracts(args[0])
			if err != nil {
				return err
			}

			rows := make([]valuationRow, 0, len(contracts))
			valuations := make([]domain.Valuation, 0, len(contracts))
			for _, c := range contracts {
				v := engine.Valuate(c, underlying, option)
				valuations = append(valuations, v)
				rows = append(rows, valuationRow{
					ID:                      c.ID,
					Symbol:                  c.DisplaySymbol(),
					Status:                  string(c.Status),
					DaysToExpiration:        v.DaysToExpiration,
					OptionPrice:             v.OptionPrice.StringFixed(2),
					Estimated:               v.Estimated,
					IfSoldNow:               v.IfSoldNow.StringFixed(2),
					IfExercisedAtExpiration: v.IfExercisedAtExpiration.StringFixed(2),
					Breakeven:               v.Breakeven.StringFixed(2),
				})
			}

			return opts.render(cmd.OutOrStdout(), rows, func(w io.Writer) error {
				tw := newTable(w)
				fmt.Fprintln(tw, "ID\tSYMBOL\tSTATUS\tDTE\tOPTION\tSOLD NOW\tAT EXPIRY\tBREAKEVEN")
				for i, r := range rows {
					opt := r.OptionPrice
					if r.Estimated {
						opt += "*"
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
						r.ID, r.Symbol, r.Status, r.DaysToExpiration, opt,
						domain.FormatProfitLoss(valuations[i].IfSoldNow),
						domain.FormatProfitLoss(valuations[i].IfExercisedAtExpiration),
						r.Breakeven)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				for _, r := range rows {
					if r.Estimated {
						_, err := fmt.Fprintln(w, "* estimated option price")
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&price, "price", "", "Underlying price (required)")
	cmd.Flags().StringVar(&optionPrice, "option-price", "", "Current option price per share; estimated when omitted")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

type riskRow struct {
	ID         string  `yaml:"id"`
	Symbol     string  `yaml:"symbol"`
	TimeDecay  float64 `yaml:"time_decay"`
	Delta      float64 `yaml:"delta"`
	Volatility float64 `yaml:"volatility"`
}

func riskCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "risk <contracts.csv>",
		Short: "Heuristic time-decay, delta and volatility scores per contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clock, err := opts.clock()
			if err != nil {
				return err
			}
			contracts, err := loadContracts(args[0])
			if err != nil {
				return err
			}

			scorer := domain.NewRiskScorer(clock)
			rows := make([]riskRow, 0, len(contracts))
			for _, c := range contracts {
				r := scorer.ScoreRisk(c)
				rows = append(rows, riskRow{ID: c.ID, Symbol: c.DisplaySymbol(), TimeDecay: r.TimeDecay, Delta: r.Delta, Volatility: r.Volatility})
			}

			return opts.render(cmd.OutOrStdout(), rows, func(w io.Writer) error {
				tw := newTable(w)
				fmt.Fprintln(tw, "ID\tSYMBOL\tTIME DECAY\tDELTA\tVOLATILITY")
				for _, r := range rows {
					fmt.Fprintf(tw, "%s\t%s\t%.2f (%s)\t%.2f (%s)\t%.2f (%s)\n", r.ID, r.Symbol,
						r.TimeDecay, domain.BandForScore(r.TimeDecay),
						r.Delta, domain.BandForScore(r.Delta),
						r.Volatility, domain.BandForScore(r.Volatility))
				}
				return tw.Flush()
			})
		},
	}
}

type groupRow struct {
	Symbol         string  `yaml:"symbol"`
	Contracts      int     `yaml:"contracts"`
	TotalPositions int64   `yaml:"total_positions"`
	TotalValue     string  `yaml:"total_value"`
	AvgDaysToExp   float64 `yaml:"avg_days_to_expiration"`
	RiskLevel      string  `yaml:"risk_level"`
}

func groupsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "groups <contracts.csv>",
		Short: "Group active contracts by symbol with risk levels",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := opts.engine()
			if err != nil {
				return err
			}
			contracts, err := loadContracts(args[0])
			if err != nil {
				return err
			}

			active := domain.ActiveContracts(contracts, engine.Clock().Now())
			groups := domain.NewPortfolioCalculator(engine).GroupBySymbol(active)
			rows := make([]groupRow, 0, len(groups))
			for _, g := range groups {
				rows = append(rows, groupRow{
					Symbol:         g.Symbol,
					Contracts:      len(g.Contracts),
					TotalPositions: g.TotalPositions,
					TotalValue:     g.TotalValue.StringFixed(2),
					AvgDaysToExp:   g.AvgDaysToExp,
					RiskLevel:      string(g.RiskLevel),
				})
			}

			return opts.render(cmd.OutOrStdout(), rows, func(w io.Writer) error {
				tw := newTable(w)
				fmt.Fprintln(tw, "SYMBOL\tCONTRACTS\tPOSITIONS\tVALUE\tAVG DTE\tRISK")
				for _, r := range rows {
					fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%.1f\t%s\n", r.Symbol, r.Contracts, r.TotalPositions, r.TotalValue, r.AvgDaysToExp, r.RiskLevel)
				}
				return tw.Flush()
			})
		},
	}
}

type summaryView struct {
	Cash          string `yaml:"cash"`
	HoldingsValue string `yaml:"holdings_value"`
	NetProfitLoss string `yaml:"net_profit_loss"`
	TotalValue    string `yaml:"total_value"`
	Contracts     int    `yaml:"contracts"`
	Active        int    `yaml:"active"`
	WinRate       string `yaml:"win_rate"`
}

func summaryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <portfolio.yaml>",
		Short: "Cash, holdings and contract P/L totals of a portfolio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := opts.engine()
			if err != nil {
				return err
			}
			p, err := loadPortfolio(args[0])
			if err != nil {
				return err
			}

			now := engine.Clock().Now()
			s := domain.NewPortfolioCalculator(engine).Summary(p.Cash, p.Holdings, p.Contracts)
			h := domain.History(p.Contracts, now)
			view := summaryView{
				Cash:          s.Cash.StringFixed(2),
				HoldingsValue: s.HoldingsValue.StringFixed(2),
				NetProfitLoss: s.NetProfitLoss.StringFixed(2),
				TotalValue:    s.TotalValue.StringFixed(2),
				Contracts:     len(p.Contracts),
				Active:        len(domain.ActiveContracts(p.Contracts, now)),
				WinRate:       h.WinRate.StringFixed(1),
			}

			return opts.render(cmd.OutOrStdout(), view, func(w io.Writer) error {
				tw := newTable(w)
				fmt.Fprintf(tw, "Cash\t%s\n", domain.FormatCurrency(s.Cash))
				fmt.Fprintf(tw, "Holdings\t%s\n", domain.FormatCurrency(s.HoldingsValue))
				fmt.Fprintf(tw, "Contracts P/L\t%s\n", domain.FormatProfitLoss(s.NetProfitLoss))
				fmt.Fprintf(tw, "Total\t%s\n", domain.FormatCurrency(s.TotalValue))
				fmt.Fprintf(tw, "Contracts\t%d (%d active)\n", view.Contracts, view.Active)
				fmt.Fprintf(tw, "Win rate\t%s%%\n", view.WinRate)
				return tw.Flush()
			})
		},
	}
}

type payoffRow struct {
	Price      string `yaml:"price"`
	ProfitLoss string `yaml:"profit_loss"`
}

type payoffView struct {
	ID     string      `yaml:"id"`
	Symbol string      `yaml:"symbol"`
	Points []payoffRow `yaml:"points"`
}

func payoffCmd(opts *rootOptions) *cobra.Command {
	var steps int
	var id string

	cmd := &cobra.Command{
		Use:   "payoff <contracts.csv>",
		Short: "At-expiration P/L curve across strike +/- 50%",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps <= 0 {
				return fmt.Errorf("--steps must be positive")
			}
			engine, err := opts.engine()
			if err != nil {
				return err
			}
			contracts, err := loadContracts(args[0])
			if err != nil {
				return err
			}

			views := make([]payoffView, 0, len(contracts))
			for _, c := range contracts {
				if id != "" && c.ID != id {
					continue
				}
				view := payoffView{ID: c.ID, Symbol: c.DisplaySymbol()}
				for _, p := range engine.PayoffCurve(c, steps, domain.DefaultPayoffRange) {
					view.Points = append(view.Points, payoffRow{Price: p.Price.StringFixed(2), ProfitLoss: p.ProfitLoss.StringFixed(2)})
				}
				views = append(views, view)
			}
			if id != "" && len(views) == 0 {
				return fmt.Errorf("contract %q not found", id)
			}

			return opts.render(cmd.OutOrStdout(), views, func(w io.Writer) error {
				tw := newTable(w)
				for _, v := range views {
					fmt.Fprintf(tw, "%s %s\n", v.ID, v.Symbol)
					fmt.Fprintln(tw, "PRICE\tP/L")
					for _, p := range v.Points {
						fmt.Fprintf(tw, "%s\t%s\n", p.Price, p.ProfitLoss)
					}
					fmt.Fprintln(tw)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&steps, "steps", domain.DefaultPayoffSteps, "Number of intervals on the curve")
	cmd.Flags().StringVar(&id, "id", "", "Only the contract with this ID")
	return cmd
}

type simulationView struct {
	Price           string `yaml:"price"`
	Contracts       int    `yaml:"contracts"`
	TotalProfitLoss string `yaml:"total_profit_loss"`
}

func simulateCmd(opts *rootOptions) *cobra.Command {
	var price string

	cmd := &cobra.Command{
		Use:   "simulate <contracts.csv>",
		Short: "Total if-sold-now P/L of active contracts at one hypothetical price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePrice("price", price)
			if err != nil {
				return err
			}
			engine, err := opts.engine()
			if err != nil {
				return err
			}
			contracts, err := loadContracts(args[0])
			if err != nil {
				return err
			}

			active := domain.ActiveContracts(contracts, engine.Clock().Now())
			total := engine.SimulatePortfolio(active, p)
			view := simulationView{Price: p.String(), Contracts: len(active), TotalProfitLoss: total.StringFixed(2)}

			return opts.render(cmd.OutOrStdout(), view, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%d active contracts at %s: %s\n", view.Contracts, p.String(), domain.FormatProfitLoss(total))
				return err
			})
		},
	}
	cmd.Flags().StringVar(&price, "price", "", "Hypothetical underlying price (required)")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}
