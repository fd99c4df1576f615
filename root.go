package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ekaya-inc/kpi-translator/pkg/config"
	"github.com/ekaya-inc/kpi-translator/pkg/logging"
	"github.com/ekaya-inc/kpi-translator/pkg/services"
	"github.com/ekaya-inc/kpi-translator/pkg/taxonomy"
)

var (
	configPath   string
	inputPath    string
	taxonomyPath string
	jsonOutput   bool
)

var rootCmd = &cobra.Command{
	Use:   "kpi-translator",
	Short: "Translate KPI definitions between teams",
	Long: `kpi-translator keeps a glossary of how each team defines its metrics,
groups related metrics under team-neutral definitions, explains one team's
metric in another team's terms and flags reports that mix incompatible KPIs.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("kpi-translator version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to a YAML config file (default: ./config.yaml when present)")
	rootCmd.PersistentFlags().StringVar(&inputPath, "input", "",
		"Glossary CSV with Team, Metric_Name and Definition columns (default: built-in sample)")
	rootCmd.PersistentFlags().StringVar(&taxonomyPath, "taxonomy", "",
		"YAML file overriding the built-in taxonomy")
}

// addJSONFlag registers the --json output flag on a command.
func addJSONFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of formatted text")
}

// loadConfig reads --config, or config.yaml and the environment.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath, Version)
	}
	return config.Load(Version)
}

// newLogger builds the process logger from config.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	logger, err := logging.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return logger, nil
}

// loadTaxonomy reads --taxonomy, then the configured taxonomy file, falling
// back to the built-in taxonomy.
func loadTaxonomy(cfg *config.Config) (*taxonomy.Taxonomy, error) {
	path := taxonomyPath
	if path == "" {
		path = cfg.Glossary.TaxonomyFile
	}
	if path == "" {
		return taxonomy.Default(), nil
	}
	tax, err := taxonomy.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load taxonomy: %w", err)
	}
	return tax, nil
}

// seedFile returns --input, then the configured seed file.
func seedFile(cfg *config.Config) string {
	if inputPath != "" {
		return inputPath
	}
	return cfg.Glossary.SeedFile
}

// cliEnv is what one-shot commands need to run against a glossary.
type cliEnv struct {
	cfg      *config.Config
	logger   *zap.Logger
	taxonomy *taxonomy.Taxonomy
	glossary services.GlossaryService
}

// setupGlossary loads config, logger, taxonomy and a seeded glossary.
func setupGlossary(ctx context.Context) (*cliEnv, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	tax, err := loadTaxonomy(cfg)
	if err != nil {
		return nil, err
	}

	glossary, err := services.NewSeededGlossaryFactory(seedFile(cfg), tax, logger)(ctx)
	if err != nil {
		return nil, err
	}
	return &cliEnv{cfg: cfg, logger: logger, taxonomy: tax, glossary: glossary}, nil
}
