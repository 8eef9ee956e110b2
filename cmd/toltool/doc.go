// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for toltool.
//
// This package implements the Cobra command hierarchy for the toltool CLI:
// the root command, the unpack command, and config management.
package cmd
