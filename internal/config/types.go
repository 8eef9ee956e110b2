// SPDX-License-Identifier: MPL-2.0

package config

// Existing-output policies for the unpack command.
const (
	// OnExistingFail refuses to unpack into a non-empty output root.
	OnExistingFail = "fail"
	// OnExistingMerge unpacks alongside existing files; files already on
	// disk count as collisions and get numbered suffixes.
	OnExistingMerge = "merge"
)

// Config is toltool's runtime configuration.
type Config struct {
	// OutputRoot is the default directory submitter folders are created
	// under when the unpack command gets no --output flag.
	OutputRoot string `mapstructure:"output_root" toml:"output_root"`

	// MaxDepth caps nested-archive expansion.
	MaxDepth int `mapstructure:"max_depth" toml:"max_depth"`

	// OnExisting is the policy for a non-empty output root: "fail" or
	// "merge".
	OnExisting string `mapstructure:"on_existing" toml:"on_existing"`

	// UI groups presentation settings.
	UI UIConfig `mapstructure:"ui" toml:"ui"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	// Verbose enables per-entry debug output.
	Verbose bool `mapstructure:"verbose" toml:"verbose"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		OutputRoot: "submissions",
		MaxDepth:   3,
		OnExisting: OnExistingFail,
		UI:         UIConfig{Verbose: false},
	}
}

// Validate checks settings that have a closed set of values.
func (c *Config) Validate() error {
	switch c.OnExisting {
	case OnExistingFail, OnExistingMerge:
	default:
		return &InvalidValueError{Field: "on_existing", Value: c.OnExisting,
			Allowed: []string{OnExistingFail, OnExistingMerge}}
	}
	if c.MaxDepth < 1 {
		return &InvalidValueError{Field: "max_depth", Value: "< 1",
			Allowed: []string{"a positive integer"}}
	}
	return nil
}
