package main

import (
	"context"
	"fmt"

	"github.com/rpgo/fincalc/internal/calculation"
	"github.com/rpgo/fincalc/internal/config"
	"github.com/rpgo/fincalc/internal/domain"
	"github.com/rpgo/fincalc/internal/output"
	"github.com/rpgo/fincalc/internal/recorder"
	"github.com/spf13/cobra"
)

func newRunCmd(opts *options) *cobra.Command {
	var configPath, outputPath string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Project every scenario in a configuration file",
		Example: `  fincalc run -c scenarios.yaml
  fincalc run -c scenarios.hjson -f markdown -o report.md
  fincalc run -c scenarios.yaml -f all -o reports/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parser := config.NewInputParser()
			cfg, err := parser.LoadFromFile(configPath)
			if err != nil {
				return err
			}
			engine := newEngine(cmd, opts, cfg.TaxRules)
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
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "scenario file (.yaml, .yml, .hjson)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the report to this file (a directory with -f all)")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func newEngine(cmd *cobra.Command, opts *options, rules *domain.TaxRules) *calculation.Engine {
	engine := calculation.NewEngineWithRules(rules)
	engine.Debug = opts.debug
	engine.SetLogger(newCLILogger(cmd.ErrOrStderr(), opts.debug))
	return engine
}

// emit prints the report, or writes it when an output path is given. The
// "all" format always writes files, into the output directory or ".".
func emit(cmd *cobra.Command, format, path string, cmp *domain.Comparison) error {
	if output.NormalizeFormatName(format) == "all" {
		dir := path
		if dir == "" {
			dir = "."
		}
		files, err := output.GenerateReport(cmp, format, dir)
		for _, f := range files {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", f)
		}
		return err
	}

	if path == "" {
		data, err := output.Render(cmp, format)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	f := output.GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("%w: %q", output.ErrUnsupportedFormat, format)
	}
	written, err := output.WriteFormatted(f, cmp, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", written)
	return nil
}

func record(ctx context.Context, dsn string, logger calculation.Logger, cmp *domain.Comparison) error {
	rec, err := recorder.Open(ctx, dsn, logger)
	if err != nil {
		return fmt.Errorf("open recorder: %w", err)
	}
	defer rec.Close()
	return recorder.RecordComparison(ctx, rec, cmp)
}
