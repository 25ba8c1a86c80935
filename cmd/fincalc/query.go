package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rpgo/fincalc/internal/config"
	"github.com/rpgo/fincalc/internal/domain"
	"github.com/spf13/cobra"
)

func newQueryCmd(opts *options) *cobra.Command {
	var name, outputPath string
	cmd := &cobra.Command{
		Use:   "query <parameters>",
		Short: "Project a single scenario given as query parameters",
		Long: `Project one scenario described by URL query parameters, for example a
link shared from the calculator or a run listed by "fincalc history".
Rates are percentages: rate=12 means 12% a year.`,
		Example: `  fincalc query 'type=sip&amount=10000&rate=12&period=10'
  fincalc query 'https://example.com/calc?type=emi&amount=500000&rate=9&months=60'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseQueryArg(args[0])
			if err != nil {
				return err
			}
			in, err := config.ParseQuery(values)
			if err != nil {
				return err
			}
			if err := config.NewInputParser().ValidateScenario(in); err != nil {
				return err
			}
			if name == "" {
				name = string(in.Kind)
			}
			cfg := &domain.Configuration{
				Scenarios: []domain.NamedScenario{{Name: name, ScenarioInput: in}},
			}

			engine := newEngine(cmd, opts, nil)
			cmp, err := engine.RunScenarios(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if err := record(cmd.Context(), opts.record, engine.Logger, cmp); err != nil {
				engine.Logger.Warnf("%v", err)
			}
			return emit(cmd, opts.format, outputPath, cmp)
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "scenario name in the report (default: the scenario type)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the report to this file")
	return cmd
}

// parseQueryArg accepts bare parameters, a leading "?" or a full URL.
func parseQueryArg(arg string) (url.Values, error) {
	arg = strings.TrimSpace(arg)
	if i := strings.IndexByte(arg, '?'); i >= 0 {
		arg = arg[i+1:]
	}
	values, err := url.ParseQuery(arg)
	if err != nil {
		return nil, fmt.Errorf("invalid query %q: %w", arg, err)
	}
	return values, nil
}

func newEncodeCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print each scenario of a configuration as query parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewInputParser().LoadFromFile(configPath)
			if err != nil {
				return err
			}
			for _, s := range cfg.Scenarios {
				values, err := config.EncodeQuery(cfg.Assumptions.Apply(s.ScenarioInput))
				if err != nil {
					return fmt.Errorf("scenario %q: %w", s.Name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", s.Name, values.Encode())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "scenario file (.yaml, .yml, .hjson)")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}
