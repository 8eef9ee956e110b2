// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error
// handling. The zip helpers build fixture archives with a deterministic
// entry order, which collision tests depend on.
package testutil
