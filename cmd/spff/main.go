package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spffcodec/spff/internal/config"
	"github.com/spffcodec/spff/internal/logger"
	"github.com/spffcodec/spff/internal/monitoring"
	"github.com/spffcodec/spff/internal/pipeline"
)

// Set up by the root command before any subcommand runs.
var (
	cfg  *config.Config
	log  *logger.Logger
	pipe *pipeline.Pipeline
)

var rootCmd = &cobra.Command{
	Use:               "spff",
	Short:             "Encode images to the single-channel SPFF mosaic format and back",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return writeMetrics()
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Directory holding "+config.FileName)
	config.AddLogFlags(rootCmd.PersistentFlags())
}

func setup(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := c.ApplyFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("flags: %w", err)
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c

	if cfg.Log.Console {
		log = logger.NewConsole(cfg.Log.Debug, cfg.Log.NoColor)
	} else {
		log = logger.New(cfg.Log.Debug)
	}
	pipe = pipeline.New(log, monitoring.New())
	log.Debug().Str("cmd", cmd.Name()).Interface("config", cfg).Msg("configured")
	return nil
}

func writeMetrics() error {
	if cfg == nil || pipe == nil || cfg.Metrics.Textfile == "" {
		return nil
	}
	if err := pipe.Metrics().WriteTextfile(cfg.Metrics.Textfile); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	log.Debug().Str("path", cfg.Metrics.Textfile).Msg("metrics written")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Failed runs still leave their error counters behind.
		_ = writeMetrics()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
