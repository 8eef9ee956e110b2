// SPDX-License-Identifier: MPL-2.0

// Package unpack drives a full bulk-archive run: reading entries, decoding
// names, expanding nested submission archives, planning destinations, and
// writing files. It is the only package with filesystem side effects beyond
// reading, and it owns the run's UnpackReport.
package unpack
