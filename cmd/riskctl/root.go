package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Skufu/riskscope/internal/assessment"
	"github.com/Skufu/riskscope/internal/catalog"
)

var version = "dev"

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	catalogPath string
	jsonOutput  bool
}

// service builds an assessment service over the selected catalog. The CLI
// keeps no history.
func (o *globalOptions) service() (*assessment.Service, error) {
	cat := catalog.Default()
	if o.catalogPath != "" {
		var err error
		if cat, err = catalog.Load(o.catalogPath); err != nil {
			return nil, err
		}
	}
	return assessment.New(cat), nil
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "riskctl",
		Short: "riskctl - score condition risk from the command line",
		Long: `riskctl scores conditions from the built-in (or a YAML) catalog.

It computes a 0-100 risk score and tier with recommendations, matches
symptoms against every condition, and calculates BMI.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "", "Path to a YAML catalog (default: built-in)")
	cmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Print results as JSON")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.AddCommand(newConditionsCommand(opts))
	cmd.AddCommand(newSymptomsCommand(opts))
	cmd.AddCommand(newScoreCommand(opts))
	cmd.AddCommand(newMatchCommand(opts))
	cmd.AddCommand(newBMICommand(opts))

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

// argError marks a usage problem with positional arguments.
type argError struct {
	msg string
}

func (e *argError) Error() string { return e.msg }
