package main

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type options struct {
	format string
	record string
	debug  bool
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[WARN] could not load .env: %v", err)
	}
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "fincalc",
		Short: "Project investments, loans and taxes",
		Long: `fincalc projects SIPs, deposits, withdrawal plans, PPF accounts, loans and
income tax from a YAML or HJSON scenario file and reports the results
side by side.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.format, "format", "f", envOr("FINCALC_FORMAT", "console"),
		"report format (see `fincalc formats`), or \"all\"")
	flags.StringVar(&opts.record, "record", os.Getenv("FINCALC_RECORD"),
		"record runs to a SQLite file or postgres:// URL")
	flags.BoolVar(&opts.debug, "debug", envBool("FINCALC_DEBUG"), "log every projection step")

	root.AddCommand(
		newRunCmd(opts),
		newQueryCmd(opts),
		newEncodeCmd(),
		newExampleCmd(),
		newFormatsCmd(),
		newHistoryCmd(opts),
	)
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}
