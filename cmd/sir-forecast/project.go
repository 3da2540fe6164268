package main

import (
	"fmt"

	"github.com/iwvelando/sir-forecast/internal/config"
	"github.com/iwvelando/sir-forecast/internal/projection"
	"github.com/iwvelando/sir-forecast/pkg/constants"
	"github.com/iwvelando/sir-forecast/pkg/output"
	"github.com/iwvelando/sir-forecast/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type projectOptions struct {
	configLocation string
	outputFormat   string
	logLevel       string
	scheme         string
	substeps       int
}

func newProjectCmd() *cobra.Command {
	opts := &projectOptions{}

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project every active scenario of a configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProject(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configLocation, "config", constants.DefaultConfigFile, "path to configuration file")
	cmd.Flags().StringVar(&opts.outputFormat, "output-format", "", "type of output override: pretty, csv")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	cmd.Flags().StringVar(&opts.scheme, "scheme", "", "integration scheme override: rk4, euler")
	cmd.Flags().IntVar(&opts.substeps, "substeps", 0, "integration sub-steps per year override")

	return cmd
}

func runProject(cmd *cobra.Command, opts *projectOptions) error {
	conf, err := config.LoadConfiguration(opts.configLocation)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", opts.configLocation, err)
	}

	logger, err := initializeLogger(conf.Logging, opts.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI overrides take precedence over the config file.
	outputFormat, err := validation.ResolveOutputFormat(conf.Output.Format, opts.outputFormat)
	if err != nil {
		logger.Error(err.Error(), zap.String("op", "main.project"))
		return err
	}
	if opts.scheme != "" {
		conf.Integration.Scheme = opts.scheme
	}
	if opts.substeps > 0 {
		conf.Integration.Substeps = opts.substeps
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.project"),
		)
	}

	results, err := projection.GetProjections(logger, *conf)
	if err != nil {
		logger.Error("failed to compute projection",
			zap.String("op", "main.project"),
			zap.Error(err),
		)
		return err
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.WritePretty(cmd.OutOrStdout(), results)
	case constants.OutputFormatCSV:
		output.WriteCSVs(cmd.OutOrStdout(), results)
	}
	return nil
}
