// Package clicfg loads flashfifoctl's own settings — log level, default
// flash-file path, default page/file size for `format` — from a TOML file,
// separate from the region directory's INI format (internal/region).
package clicfg

import (
	"os"

	"github.com/pelletier/go-toml"
)

// Config is flashfifoctl's settings file, typically ~/.flashfifoctl.toml.
type Config struct {
	LogLevel        string `toml:"log_level"`
	FlashFile       string `toml:"flash_file"`
	DefaultPageSize int    `toml:"default_page_size"`
	DefaultFileSize int    `toml:"default_file_size"`
}

// Default returns the settings used when no config file is present.
func Default() Config {
	return Config{
		LogLevel:        "info",
		FlashFile:       "flashfifo.bin",
		DefaultPageSize: 4096,
		DefaultFileSize: 32768,
	}
}

// Load reads and parses a TOML settings file, falling back to Default for
// any field the file omits (or sets to its zero value).
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	var file Config
	if err := toml.Unmarshal(data, &file); err != nil {
		return cfg, err
	}
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	if file.FlashFile != "" {
		cfg.FlashFile = file.FlashFile
	}
	if file.DefaultPageSize != 0 {
		cfg.DefaultPageSize = file.DefaultPageSize
	}
	if file.DefaultFileSize != 0 {
		cfg.DefaultFileSize = file.DefaultFileSize
	}
	return cfg, nil
}
