// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"toltool/internal/issue"
)

const (
	// AppName is the application name, used for config directory naming.
	AppName = "toltool"
	// ConfigFileName is the config file name without extension.
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "toml"
)

var (
	// configDirOverride lets tests redirect the config directory.
	configDirOverride string
	// configFilePathOverride holds the --config flag value.
	configFilePathOverride string
)

// SetConfigDirOverride redirects ConfigDir, for tests.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// SetConfigFilePathOverride points Load at an explicit config file,
// bypassing the platform search path. Used by the --config flag.
func SetConfigFilePathOverride(path string) {
	configFilePathOverride = path
}

// InvalidValueError reports a config field set to an unsupported value.
type InvalidValueError struct {
	Field   string
	Value   string
	Allowed []string
}

// Error implements the error interface.
func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value for %s: %q (allowed: %s)",
		e.Field, e.Value, strings.Join(e.Allowed, ", "))
}

// ConfigDir returns the toltool configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// FilePath returns the path Load reads from: the --config override when set,
// otherwise config.toml in the platform config directory.
func FilePath() (string, error) {
	if configFilePathOverride != "" {
		return configFilePathOverride, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// Load reads the configuration. A missing file yields the defaults and no
// error; an explicitly requested file that does not exist is an error, since
// the user asked for it by name.
func Load() (*Config, error) {
	path, err := FilePath()
	if err != nil {
		return DefaultConfig(), err
	}

	v := viper.New()
	v.SetConfigType(ConfigFileExt)

	defaults := DefaultConfig()
	v.SetDefault("output_root", defaults.OutputRoot)
	v.SetDefault("max_depth", defaults.MaxDepth)
	v.SetDefault("on_existing", defaults.OnExisting)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	if _, statErr := os.Stat(path); statErr != nil {
		if configFilePathOverride != "" {
			return DefaultConfig(), issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Verify the --config path is correct").
				WithSuggestion("Run 'toltool config init' to create a default file").
				Wrap(statErr).
				Build()
		}
		// No file, defaults apply.
		cfg := DefaultConfig()
		return cfg, nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return DefaultConfig(), issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(path).
			WithSuggestion("Check that the file contains valid TOML syntax").
			WithSuggestion("Remove the file to fall back to defaults").
			Wrap(err).
			Build()
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return DefaultConfig(), issue.NewErrorContext().
			WithOperation("parse configuration").
			WithResource(path).
			WithSuggestion("Verify the configuration values match the expected types").
			WithSuggestion("See 'toltool config init' for a valid example file").
			Wrap(err).
			Build()
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion("Allowed on_existing values are \"fail\" and \"merge\"").
			WithSuggestion("max_depth must be a positive integer").
			Wrap(err).
			Build()
	}
	return cfg, nil
}

// WriteDefault writes the default configuration to the standard location,
// creating parent directories as needed. It refuses to overwrite an existing
// file and returns its path on success.
func WriteDefault() (string, error) {
	path, err := FilePath()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config file already exists: %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", issue.NewErrorContext().
			WithOperation("write configuration").
			WithResource(filepath.Dir(path)).
			WithSuggestion("Check that the config directory is writable").
			Wrap(err).
			Build()
	}

	data, err := toml.Marshal(DefaultConfig())
	if err != nil {
		return "", fmt.Errorf("failed to encode default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", issue.NewErrorContext().
			WithOperation("write configuration").
			WithResource(path).
			WithSuggestion("Check permissions on the config directory").
			Wrap(err).
			Build()
	}
	return path, nil
}
