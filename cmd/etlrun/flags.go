package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/etlrun/internal/logger"
)

type loadOptions struct {
	ConfigPath string
	Format     string
	EnvFiles   []string
}

func addLoadFlags(cmd *cobra.Command, opts *loadOptions) {
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVar(&opts.Format, "format", "auto", "Configuration format (auto, toml, yaml)")
	cmd.Flags().StringArrayVar(&opts.EnvFiles, "env-file", nil, "Dotenv file providing template variables (repeatable)")
	cmd.MarkFlagRequired("config") //nolint:errcheck
}

// validateLoadOptions rejects directories up front. Missing or unreadable
// files are left to the loader so the error names the resolved format.
func validateLoadOptions(opts loadOptions) error {
	if strings.TrimSpace(opts.ConfigPath) == "" {
		return fmt.Errorf("config file is required")
	}

	info, err := os.Stat(opts.ConfigPath)
	if err == nil && info.IsDir() {
		abs, absErr := filepath.Abs(opts.ConfigPath)
		if absErr != nil {
			abs = opts.ConfigPath
		}
		return fmt.Errorf("config path %s is a directory", abs)
	}

	return nil
}

// level picks the effective level: --verbose, then --log-level, then the
// configured fallback.
func (f *rootFlags) level(fallback string) string {
	switch {
	case f.verbose:
		return "debug"
	case f.logLevel != "":
		return f.logLevel
	case fallback != "":
		return fallback
	default:
		return "info"
	}
}

func newLogger(w io.Writer, level string) (*logger.Logger, error) {
	return logger.New(logger.Options{
		Level:         level,
		HumanReadable: isTerminal(w),
		Writer:        w,
		Fields:        map[string]any{"app": "etlrun"},
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
