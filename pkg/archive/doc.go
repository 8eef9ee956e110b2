// SPDX-License-Identifier: MPL-2.0

// Package archive reads entries out of archive containers.
//
// A Reader yields file entries lazily and can be iterated from scratch any
// number of times, so callers may run a cheap classification pass before the
// extraction pass without holding the whole archive in memory. Only the zip
// container format is supported today; Expand additionally walks archives
// nested inside archive entries up to a caller-supplied depth.
package archive
