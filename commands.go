package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ekaya-inc/kpi-translator/pkg/render"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the glossary as JSON",
	Long: `Export metrics, unified definitions and the translation matrix as JSON.

Examples:
  kpi-translator export
  kpi-translator export --input glossary.csv --output kpi_glossary.json`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var validateCmd = &cobra.Command{
	Use:   "validate [report text]",
	Short: "Check report text for KPI misalignment",
	Long: `Scan report text for mixed team terminology, ambiguous success claims,
incompatible time windows and cross-team metric mentions.
Reads the report from stdin when no text argument is given.

Examples:
  kpi-translator validate "Marketing's Engagement Rate and Sales' Qualified Lead both indicate success"
  cat report.txt | kpi-translator validate --json`,
	RunE: runValidate,
}

var translateCmd = &cobra.Command{
	Use:   "translate <source-team> <metric> <target-team>",
	Short: "Explain a metric in another team's terms",
	Long: `Explain how one team's metric relates to another team's metrics.

Examples:
  kpi-translator translate Marketing "Engagement Rate" Sales`,
	Args: cobra.ExactArgs(3),
	RunE: runTranslate,
}

var teamsCmd = &cobra.Command{
	Use:   "teams [team]",
	Short: "List teams, or one team's metrics",
	Long: `List every team in the glossary. With a team name, list that team's
metrics, definitions and semantic groups. With --unified, list the unified
definitions instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTeams,
}

var showUnified bool

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")
	addJSONFlag(validateCmd)
	addJSONFlag(translateCmd)
	addJSONFlag(teamsCmd)
	teamsCmd.Flags().BoolVar(&showUnified, "unified", false, "List unified definitions")

	rootCmd.AddCommand(exportCmd, validateCmd, translateCmd, teamsCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	env, err := setupGlossary(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := writeJSON(out, env.glossary.Export(cmd.Context())); err != nil {
		return err
	}
	if exportOutput != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Glossary exported to %s\n", exportOutput)
	}
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read report from stdin: %w", err)
		}
		text = string(data)
	}

	env, err := setupGlossary(cmd.Context())
	if err != nil {
		return err
	}

	report, err := env.glossary.ValidateReport(cmd.Context(), text)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), report)
	}
	fmt.Fprintln(cmd.OutOrStdout(), render.New(env.taxonomy).Report(report))
	return nil
}

func runTranslate(cmd *cobra.Command, args []string) error {
	env, err := setupGlossary(cmd.Context())
	if err != nil {
		return err
	}

	result := env.glossary.Translate(cmd.Context(), args[0], args[1], args[2])
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	fmt.Fprintln(cmd.OutOrStdout(), render.New(env.taxonomy).Translation(result))
	return nil
}

func runTeams(cmd *cobra.Command, args []string) error {
	env, err := setupGlossary(cmd.Context())
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	r := render.New(env.taxonomy)
	out := cmd.OutOrStdout()

	switch {
	case showUnified:
		defs := env.glossary.UnifiedDefinitions(ctx)
		if jsonOutput {
			return writeJSON(out, defs)
		}
		fmt.Fprintln(out, r.UnifiedDefinitions(defs))
	case len(args) == 1:
		metrics := env.glossary.Metrics(ctx, args[0])
		if jsonOutput {
			return writeJSON(out, metrics)
		}
		fmt.Fprintln(out, r.Metrics(args[0], metrics))
	default:
		teams := env.glossary.Teams(ctx)
		if jsonOutput {
			return writeJSON(out, teams)
		}
		fmt.Fprintln(out, r.Teams(teams))
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
