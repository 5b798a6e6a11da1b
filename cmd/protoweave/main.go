package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/platinummonkey/protoweave/pkg/config"
	"github.com/platinummonkey/protoweave/pkg/observability"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

var (
	flagConfig    string
	flagDir       string
	flagLogLevel  string
	flagLogFormat string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "protoweave",
	Short:         "Weave custom code into protoc-generated sources",
	Long:          "protoweave compiles .proto files, projects their declarations into plugin views and splices plugin code into generated sources at insertion points.",
	SilenceErrors: true,
	SilenceUsage:  true,
	Version:       version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: protoweave.yaml in --dir)")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", ".", "project directory")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format: text|json")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(pluginsCmd)
}

// loadConfig reads the configuration selected by the persistent flags
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if flagConfig != "" {
		cfg, err = config.LoadConfig(flagConfig)
	} else {
		cfg, err = config.LoadConfigFromDir(flagDir)
	}
	if err != nil {
		return nil, err
	}

	if flagLogLevel != "" {
		cfg.Observability.LogLevel = flagLogLevel
	}
	if flagLogFormat != "" {
		cfg.Observability.LogFormat = flagLogFormat
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *logrus.Logger {
	return observability.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat, os.Stderr)
}

// initTracing installs the OTLP exporter when tracing is enabled
func initTracing(ctx context.Context, cfg *config.Config, log *logrus.Logger) (observability.ShutdownFunc, error) {
	return observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:        cfg.Observability.TracingEnabled,
		Endpoint:       cfg.Observability.TracingEndpoint,
		ServiceName:    "protoweave",
		ServiceVersion: version,
		Insecure:       cfg.Observability.TracingInsecure,
	}, log)
}

// flushTracing gives the exporter a bounded time to flush pending spans
func flushTracing(shutdown observability.ShutdownFunc, log *logrus.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.WithError(err).Warn("Failed to flush traces")
	}
}
