// SPDX-License-Identifier: MPL-2.0

// Package config loads toltool's configuration file and supplies defaults
// when none exists. Configuration is optional: every setting has a default
// and the unpack command works with no file present at all.
package config
