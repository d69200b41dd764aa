package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/panelbed/internal/bed"
	"github.com/inodb/panelbed/internal/duckdb"
	"github.com/inodb/panelbed/internal/panelapp"
	"github.com/inodb/panelbed/internal/variantvalidator"
)

// logger is shared by every command. It stays a no-op until the root
// command's PersistentPreRunE replaces it, so helpers can log
// unconditionally.
var logger = zap.NewNop()

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "panelbed",
		Short: "Query gene panels and build BED files from panel data",
		Long: `panelbed queries the PanelApp and VariantValidator services to inspect
gene panels and turn them into BED files for downstream pipelines.`,
		Example: `  # Look up a panel by its R code
  panelbed check-panel --panel_id R207

  # Generate BED files for a panel on GRCh38
  panelbed generate-bed --panel_id R207 --panel_version 4.0 --genome_build GRCh38

  # Compare the gene content of two panel versions
  panelbed compare-panel-versions --panel_id R207 --versions 1.0,2.1

  # Find the panels that carry a gene
  panelbed gene-panels --hgnc_symbol BRCA1`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(); err != nil {
				return err
			}
			l, err := newLogger(verbose)
			if err != nil {
				return fmt.Errorf("building logger: %w", err)
			}
			logger = l
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &usageError{err}
	})

	cmd.AddCommand(
		newCheckPanelCmd(),
		newGenerateBedCmd(),
		newComparePanelVersionsCmd(),
		newCompareBedFilesCmd(),
		newGenePanelsCmd(),
		newPanelGenesCmd(),
		newDBCmd(),
		newConfigCmd(),
	)

	return cmd
}

// usageArgs converts positional-argument validation failures into usage
// errors so they exit with ExitUsage like flag mistakes do.
func usageArgs(pos cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := pos(cmd, args); err != nil {
			return &usageError{err}
		}
		return nil
	}
}

// initConfig wires defaults, the optional ~/.panelbed.yaml file, and
// PANELBED_* environment variables. Flags still win when set.
func initConfig() error {
	viper.SetDefault("padding", bed.DefaultPadding)
	viper.SetDefault("confidence", string(panelapp.TierGreen))
	viper.SetDefault("workers", 4)
	viper.SetDefault("retries", 5)
	viper.SetDefault("bed_dir", bed.DefaultDir)
	viper.SetDefault("comparison_dir", bed.DefaultComparisonDir)
	viper.SetDefault("db.path", "panelbed.db")
	viper.SetDefault("api.panelapp", panelapp.DefaultBaseURL)
	viper.SetDefault("api.variantvalidator", variantvalidator.DefaultBaseURL)
	viper.SetDefault("log.file", "")

	viper.SetConfigName(".panelbed")
	viper.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("PANELBED")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

// newLogger builds the CLI logger: console output on stderr, optionally
// teeing to the configured log file.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if file := viper.GetString("log.file"); file != "" {
		cfg.OutputPaths = append(cfg.OutputPaths, file)
	}
	return cfg.Build()
}

func newPanelAppClient() *panelapp.Client {
	c := panelapp.NewClient(viper.GetString("api.panelapp"))
	c.SetMaxRetries(uint64(viper.GetInt("retries")))
	c.SetLogger(logger)
	return c
}

func newVariantValidatorClient() *variantvalidator.Client {
	c := variantvalidator.NewClient(viper.GetString("api.variantvalidator"))
	c.SetMaxRetries(uint64(viper.GetInt("retries")))
	c.SetLogger(logger)
	return c
}

func openStore() (*duckdb.Store, error) {
	return duckdb.Open(viper.GetString("db.path"))
}
