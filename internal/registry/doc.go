// Package registry builds and validates the per-sample file registry that
// downstream pipeline runs consume.
//
// The Builder scans one or more directories according to the detected
// upstream-pipeline signature, groups files belonging to the same biological
// sample, filters excluded samples and detects ambiguous read-pair mappings.
// Validate then checks that every sample carries the full set of files the
// requested input types require, collecting every violation before failing so
// a user can fix all of them in one pass.
package registry
