package registry

import (
	"fmt"
	"strings"
)

// PreconditionError reports invalid inputs detected before any scanning:
// a missing input directory, a missing exclusion file or an invalid input
// type.
type PreconditionError struct {
	Message string
	Err     error
}

func (e *PreconditionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *PreconditionError) Unwrap() error { return e.Err }

// ReadConflict describes two distinct files resolving to the same
// (sample, read group) pair.
type ReadConflict struct {
	Sample    string
	ReadGroup string
	Existing  string
	Duplicate string
}

func (c ReadConflict) String() string {
	return fmt.Sprintf(
		"sample %q read group %s maps to more than one file: %s and %s",
		c.Sample, c.ReadGroup, c.Existing, c.Duplicate,
	)
}

// DuplicateMappingError aggregates every read-pair conflict found during one
// build, so a single failure report covers the whole directory scan.
type DuplicateMappingError struct {
	Conflicts []ReadConflict
}

func (e *DuplicateMappingError) Error() string {
	if len(e.Conflicts) == 1 {
		return e.Conflicts[0].String()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d ambiguous read-pair mappings found:", len(e.Conflicts))
	for _, c := range e.Conflicts {
		b.WriteString("\n  - ")
		b.WriteString(c.String())
	}
	return b.String()
}

// EmptyRegistryError reports that no samples at all were discovered.
type EmptyRegistryError struct {
	InputDir string
	MinLines int
}

func (e *EmptyRegistryError) Error() string {
	return fmt.Sprintf(
		"the input directory %s does not contain any files with the expected format/naming; also check that your files have the expected size (min. number of lines expected: %d)",
		e.InputDir, e.MinLines,
	)
}

// RoleViolation describes one sample missing one required role.
type RoleViolation struct {
	Sample string
	Role   Role
}

func (v RoleViolation) String() string {
	switch v.Role {
	case RoleR1, RoleR2:
		return fmt.Sprintf(
			"the %s fastq file is missing for sample %q: paired reads are required, and sample names must not contain _1 or _2 unless they separate the paired fastq files",
			v.Role, v.Sample,
		)
	case RoleAssembly:
		return fmt.Sprintf("the assembly is missing for sample %q: an assembly per sample is required", v.Sample)
	default:
		return fmt.Sprintf("the %s file is missing for sample %q", v.Role, v.Sample)
	}
}

// IncompleteSampleError aggregates every missing-role violation found during
// one validation pass.
type IncompleteSampleError struct {
	Violations []RoleViolation
}

func (e *IncompleteSampleError) Error() string {
	if len(e.Violations) == 1 {
		return e.Violations[0].String()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d required input files are missing:", len(e.Violations))
	for _, v := range e.Violations {
		b.WriteString("\n  - ")
		b.WriteString(v.String())
	}
	return b.String()
}
