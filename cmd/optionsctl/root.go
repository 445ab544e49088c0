package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/wyfcoding/optionstracker/internal/contract/domain"
	"github.com/wyfcoding/optionstracker/internal/contract/infrastructure/csvio"
	"gopkg.in/yaml.v3"
)

type rootOptions struct {
	now    string
	output string
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "optionsctl",
		Short: "Offline P/L, risk and portfolio calculations for option contracts",
		Long: `optionsctl evaluates option contracts stored in a CSV file (same columns as
the service export) or a YAML portfolio file.

Example:
  optionsctl value contracts.csv --price 185
  optionsctl groups contracts.csv --now 2026-01-15
  optionsctl summary portfolio.yaml -o yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)

	cmd.PersistentFlags().StringVar(&opts.now, "now", "", "Freeze the clock (YYYY-MM-DD or RFC3339)")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "table", "Output format: table or yaml")

	cmd.AddCommand(
		valueCmd(opts),
		riskCmd(opts),
		groupsCmd(opts),
		summaryCmd(opts),
		payoffCmd(opts),
		simulateCmd(opts),
	)
	return cmd
}

// clock --now 未指定时使用系统时间
func (o *rootOptions) clock() (domain.Clock, error) {
	if o.now == "" {
		return domain.SystemClock{}, nil
	}
	if t, err := time.Parse(time.RFC3339, o.now); err == nil {
		return domain.FixedClock{T: t.UTC()}, nil
	}
	t, err := domain.ParseDate(o.now)
	if err != nil {
		return nil, fmt.Errorf("invalid --now %q: expected YYYY-MM-DD or RFC3339", o.now)
	}
	return domain.FixedClock{T: t}, nil
}

func (o *rootOptions) engine() (*domain.ValuationEngine, error) {
	clock, err := o.clock()
	if err != nil {
		return nil, err
	}
	return domain.NewValuationEngine(clock), nil
}

func (o *rootOptions) yamlOutput() (bool, error) {
	switch strings.ToLower(o.output) {
	case "", "table":
		return false, nil
	case "yaml":
		return true, nil
	}
	return false, fmt.Errorf("unsupported output format %q", o.output)
}

// render yaml 模式输出 data，否则调用 table
func (o *rootOptions) render(w io.Writer, data any, table func(io.Writer) error) error {
	asYAML, err := o.yamlOutput()
	if err != nil {
		return err
	}
	if !asYAML {
		return table(w)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

func loadContracts(path string) ([]*domain.Contract, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	contracts, err := csvio.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return contracts, nil
}
