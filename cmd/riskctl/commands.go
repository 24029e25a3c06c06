package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Skufu/riskscope/internal/measure"
)

func newConditionsCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "conditions",
		Short: "List the conditions in the catalog and the measurements each needs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := opts.service()
			if err != nil {
				return err
			}
			conds := svc.Conditions()
			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return printJSON(out, conds)
			}
			for _, c := range conds {
				factors := make([]string, 0, len(c.Factors))
				for _, f := range c.Factors {
					factors = append(factors, f.Name)
				}
				fmt.Fprintf(out, "%-14s %-16s %s\n", c.ID, c.Name, strings.Join(factors, ", "))
			}
			return nil
		},
	}
}

func newSymptomsCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "symptoms",
		Short: "List every known symptom",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := opts.service()
			if err != nil {
				return err
			}
			symptoms := svc.Symptoms()
			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), symptoms)
			}
			for _, s := range symptoms {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
}

func newScoreCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "score <condition> <factor=value>...",
		Short: "Score a condition from measurements",
		Long: `Score a condition from factor=value measurements.

Numeric values are parsed as numbers, anything else is a category:

  riskctl score diabetes age=50 bmi=32 glucose=110 bp_systolic=150 family_history=yes
  riskctl score hypertension age=35 weight_kg=70 height_cm=175 salt_intake=moderate stress=low exercise=high`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := make(measure.Measurements, len(args)-1)
			for _, a := range args[1:] {
				key, v, err := measure.Parse(a)
				if err != nil {
					return &argError{msg: err.Error()}
				}
				m[key] = v
			}

			svc, err := opts.service()
			if err != nil {
				return err
			}
			res, err := svc.Assess(context.Background(), args[0], m)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return printJSON(out, res)
			}
			fmt.Fprintf(out, "%s: %d%% (%s risk)\n\n", res.ConditionName, res.Score, res.Tier)
			for _, c := range res.Breakdown {
				fmt.Fprintf(out, "  %-16s %5.2f\n", c.Label, c.Weighted*100)
			}
			fmt.Fprintln(out, "\nRecommendations:")
			for _, r := range res.Recommendations {
				fmt.Fprintf(out, "  - %s\n", r)
			}
			return nil
		},
	}
}

func newMatchCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "match <symptom>...",
		Short: "Match selected symptoms against every condition",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service()
			if err != nil {
				return err
			}
			matches, err := svc.MatchSymptoms(args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return printJSON(out, matches)
			}
			if len(matches) == 0 {
				fmt.Fprintln(out, "No specific conditions match your symptoms. Consider consulting a healthcare professional.")
				return nil
			}
			for _, m := range matches {
				fmt.Fprintf(out, "%s: %d matching symptoms (%d%% match)\n", m.Condition, m.Matches, m.Percentage)
			}
			return nil
		},
	}
}

func newBMICommand(opts *globalOptions) *cobra.Command {
	var weight, height float64

	cmd := &cobra.Command{
		Use:   "bmi",
		Short: "Calculate body-mass index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bmi, err := measure.BMI(weight, height)
			if err != nil {
				return &argError{msg: err.Error()}
			}
			category := measure.BMICategory(bmi)
			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]any{"bmi": bmi, "category": category})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.1f (%s)\n", bmi, category)
			return nil
		},
	}

	cmd.Flags().Float64Var(&weight, "weight", 0, "Weight in kilograms")
	cmd.Flags().Float64Var(&height, "height", 0, "Height in centimetres")
	_ = cmd.MarkFlagRequired("weight")
	_ = cmd.MarkFlagRequired("height")

	return cmd
}
