// SPDX-License-Identifier: MPL-2.0

// Package place decides where decoded submission files land on disk.
//
// A Planner maps (submitter, relative path) to a destination below its output
// root, rejecting paths that would escape the root and resolving collisions
// with deterministic " (N)" suffixes based on first-occurrence order. The
// planner only decides; writing is the orchestrator's job.
package place
