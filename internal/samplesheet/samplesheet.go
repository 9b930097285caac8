// Package samplesheet serializes a validated sample registry into the YAML
// sample-sheet document the workflow engine consumes.
package samplesheet

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/bkoning/seqprep/internal/filelock"
	"github.com/bkoning/seqprep/internal/registry"
)

// Document is the on-disk sample-sheet shape: sample name to role to path.
type Document map[string]map[string]string

// FromRegistry converts a registry into its sample-sheet document form.
func FromRegistry(reg *registry.Registry) Document {
	doc := make(Document, reg.Len())
	for _, sample := range reg.Samples() {
		entry := make(map[string]string, len(sample.Files))
		for role, path := range sample.Files {
			entry[string(role)] = path
		}
		doc[sample.Name] = entry
	}
	return doc
}

// Marshal renders the document as YAML.
func Marshal(doc Document) ([]byte, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sample sheet: %w", err)
	}
	return data, nil
}

// Write serializes reg and writes it atomically to path under a file lock,
// so an overlapping run preparation never reads a partial sheet.
func Write(path string, reg *registry.Registry) error {
	data, err := Marshal(FromRegistry(reg))
	if err != nil {
		return err
	}
	if err := filelock.LockAndWrite(path, data); err != nil {
		return fmt.Errorf("failed to write sample sheet %s: %w", path, err)
	}
	return nil
}
