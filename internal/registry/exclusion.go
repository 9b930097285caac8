package registry

import (
	"bufio"
	"fmt"
	"os"
)

// ExclusionSet holds sample names that must never enter a registry.
type ExclusionSet map[string]bool

// LoadExclusions reads an exclusion file with one sample name per line.
// Names are newline-stripped and duplicates are harmless. A missing file is
// a precondition failure; an empty path yields an empty set.
func LoadExclusions(path string) (ExclusionSet, error) {
	set := make(ExclusionSet)
	if path == "" {
		return set, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &PreconditionError{
			Message: fmt.Sprintf("failed to read exclusion file %s", path),
			Err:     err,
		}
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name := scanner.Text()
		if name != "" {
			set[name] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &PreconditionError{
			Message: fmt.Sprintf("failed to read exclusion file %s", path),
			Err:     err,
		}
	}
	return set, nil
}
