// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error context.
//
// ActionableError carries what operation failed, on which resource, and what
// the user can do about it. The Issue registry holds longer remediation
// cards, rendered as markdown, for the handful of conditions that abort a
// run outright.
package issue
