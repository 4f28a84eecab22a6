// Package config loads worklog settings from a .worklog.yaml file, WORKLOG_*
// environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/worklog/pkg/store"
	"tableflip.dev/worklog/pkg/tui/theme"
)

const (
	KeyStoreDriver = "store.driver"
	KeyStorePath   = "store.path"
	KeyPlugins     = "plugins"
	KeyLogFile     = "log.file"
	KeyLogLevel    = "log.level"
	KeyAccent      = "theme.accent"

	// EnvConfigPath names an extra directory searched for the config file.
	EnvConfigPath = "WORKLOG_CONFIG_PATH"
)

// Config is the resolved configuration.
type Config struct {
	Store    store.Options
	Plugins  []string
	LogFile  string
	LogLevel slog.Level
	Accent   string
	// File is the config file that was read, empty when none was found.
	File string
}

// NewViper returns a viper instance carrying the worklog defaults and
// environment binding. Flags are bound onto it by the caller.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyStoreDriver, store.DefaultDriver)
	v.SetDefault(KeyStorePath, store.DefaultPath)
	v.SetDefault(KeyPlugins, []string{"log"})
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyAccent, theme.DefaultAccent)

	v.SetConfigName(".worklog") // .yaml is implicit
	v.SetEnvPrefix("WORKLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// SearchPaths lists where the config file is looked for, in order.
func SearchPaths() []string {
	var paths []string
	if override := os.Getenv(EnvConfigPath); override != "" {
		paths = append(paths, override)
	}
	paths = append(paths, "./")
	if home, err := homedir.Dir(); err == nil {
		paths = append(paths, home)
	}
	return paths
}

// Load reads file, or searches paths for .worklog.yaml when file is empty. A
// config file that cannot be found by searching is not an error; an explicit
// file that cannot be read is.
func Load(v *viper.Viper, file string, paths ...string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		for _, p := range paths {
			v.AddConfigPath(p)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read %s: %w", describe(file), err)
		}
	}

	cfg := Config{
		Store: store.Options{
			Driver: v.GetString(KeyStoreDriver),
			Path:   v.GetString(KeyStorePath),
		},
		Plugins: splitList(v.GetStringSlice(KeyPlugins)),
		Accent:  v.GetString(KeyAccent),
		File:    v.ConfigFileUsed(),
	}
	if logFile := v.GetString(KeyLogFile); logFile != "" {
		expanded, err := homedir.Expand(logFile)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", KeyLogFile, err)
		}
		cfg.LogFile = expanded
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString(KeyLogLevel))); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", KeyLogLevel, err)
	}
	return cfg, nil
}

func describe(file string) string {
	if file == "" {
		return "config file"
	}
	return file
}

// splitList accepts both yaml lists and comma separated values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
