package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/olehluchkiv/oocbind/internal/binding"
	"github.com/olehluchkiv/oocbind/internal/config"
	"github.com/olehluchkiv/oocbind/internal/logging"
	"github.com/olehluchkiv/oocbind/internal/registry"
	"github.com/olehluchkiv/oocbind/internal/resolver"
)

var errorColor = color.New(color.FgRed, color.Bold)

type options struct {
	output   string
	logFile  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "oocbind [flags] <interface>",
		Short: "Generate ooc bindings from a C declaration dump",
		Long: `oocbind reads an interface file (YAML, JSON or TOML) naming one or more
JSON declaration dumps and writes the matching ooc binding source.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the binding to a file instead of stdout")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "also write logs to this file")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}

func run(stdout io.Writer, iface string, opts options) error {
	level, err := parseLogLevel(opts.logLevel)
	if err != nil {
		return err
	}
	logger, logCleanup, err := logging.Setup(opts.logFile, level)
	if err != nil {
		return errors.Wrap(err, "failed to setup logging")
	}
	defer logCleanup()

	out, err := generate(iface, logger)
	if err != nil {
		logger.Error("generation failed", "interface", iface, "error", err)
		return err
	}

	if opts.output == "" {
		_, err := io.WriteString(stdout, out)
		return err
	}
	if err := os.WriteFile(opts.output, []byte(out), 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", opts.output)
	}
	logger.Info("binding written", "output", opts.output, "bytes", len(out))
	return nil
}

// generate runs the whole pipeline for one interface file and returns the
// binding text. Nothing is written unless every stage succeeds.
func generate(iface string, logger *slog.Logger) (string, error) {
	cfg, err := config.Load(iface)
	if err != nil {
		return "", err
	}
	files, err := resolver.Resolve(cfg.Dir, cfg.Files, logger)
	if err != nil {
		return "", err
	}
	reg, err := registry.Load(files, logger)
	if err != nil {
		return "", err
	}
	return binding.Generate(reg, cfg, logger)
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.Newf("unknown log level: %s (valid: debug, info, warn, error)", s)
	}
}
