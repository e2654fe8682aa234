// Package cmd wires flashfifoctl's cobra command tree: write/read/consume/
// stat/format against one region of a flash-backed file, plus
// snapshot export/import and optional MySQL stats push.
package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/flashfifo/nor/cmd/flashfifoctl/internal/clicfg"
	"github.com/flashfifo/nor/logger"
)

var (
	flashPath string
	pageSize  int
	fileSize  int
	logLevel  string
	cfgPath   string
)

// NewRootCmd assembles the full flashfifoctl command tree. Flag defaults
// come from clicfg.Default(), overridden by ~/.flashfifoctl.toml if it
// exists; command-line flags win over both. The file named by --config is
// not read.
func NewRootCmd() *cobra.Command {
	defaults := loadDefaults()

	root := &cobra.Command{
		Use:   "flashfifoctl",
		Short: "Drive and inspect a flashfifo region from the command line",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetLevel(logLevel)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath(), "flashfifoctl settings file (TOML)")
	root.PersistentFlags().StringVar(&flashPath, "file", defaults.FlashFile, "backing file for the simulated flash chip")
	root.PersistentFlags().IntVar(&pageSize, "page-size", defaults.DefaultPageSize, "erase page size in bytes")
	root.PersistentFlags().IntVar(&fileSize, "region-size", defaults.DefaultFileSize, "region size in bytes (must be a multiple of page-size, at most 8 pages)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", defaults.LogLevel, "debug, info, warn, or error")

	addWriteCommand(root)
	addReadCommand(root)
	addConsumeCommand(root)
	addStatCommand(root)
	addFormatCommand(root)
	addSnapshotCommands(root)
	addStatsCommands(root)

	return root
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".flashfifoctl.toml"
	}
	return filepath.Join(home, ".flashfifoctl.toml")
}

// loadDefaults reads the settings file at the default config path before
// flags are even parsed, so --config does not change flag defaults already
// computed from it (a limitation shared with
// the teacher's own ini.v1-based server config, which is loaded once at
// startup rather than re-read per flag).
func loadDefaults() clicfg.Config {
	cfg, err := clicfg.Load(defaultConfigPath())
	if err != nil {
		return clicfg.Default()
	}
	return cfg
}
