package registry

import (
	"fmt"
	"sort"
)

// Role is the function a file plays for a sample. The set of roles is closed
// except for per-scheme cgMLST roles created via CgmlstRole.
type Role string

const (
	RoleR1        Role = "R1"
	RoleR2        Role = "R2"
	RoleAssembly  Role = "assembly"
	RoleVcf       Role = "vcf"
	RoleBam       Role = "bam"
	RoleReference Role = "reference"
)

// CgmlstRole returns the dynamic role for a cgMLST allele-calling scheme.
func CgmlstRole(scheme string) Role {
	return Role("cgmlst_" + scheme)
}

// ReadGroupRole maps a read group ("1" or "2") to RoleR1 or RoleR2.
func ReadGroupRole(group string) Role {
	return Role("R" + group)
}

// Sample groups the files discovered for one biological sample. At most one
// path is recorded per role.
type Sample struct {
	// Name is the sample identifier derived from filenames.
	Name string
	// Files maps each role to the absolute path serving it.
	Files map[Role]string
}

// Has reports whether the sample carries a file for the given role.
func (s *Sample) Has(role Role) bool {
	_, ok := s.Files[role]
	return ok
}

// Registry is the mapping from sample name to its discovered files, together
// with the provenance needed for diagnostics.
type Registry struct {
	// InputDir is the directory the registry was built from.
	InputDir string
	// MinLines is the minimum line-count threshold used during building.
	MinLines int

	samples map[string]*Sample
}

// NewRegistry returns an empty registry for the given input directory and
// line-count threshold.
func NewRegistry(inputDir string, minLines int) *Registry {
	return &Registry{
		InputDir: inputDir,
		MinLines: minLines,
		samples:  make(map[string]*Sample),
	}
}

// Len returns the number of samples in the registry.
func (r *Registry) Len() int {
	return len(r.samples)
}

// Get returns the sample with the given name, or nil if absent.
func (r *Registry) Get(name string) *Sample {
	return r.samples[name]
}

// Names returns all sample names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.samples))
	for name := range r.samples {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Samples returns all samples sorted by name.
func (r *Registry) Samples() []*Sample {
	names := r.Names()
	samples := make([]*Sample, 0, len(names))
	for _, name := range names {
		samples = append(samples, r.samples[name])
	}
	return samples
}

// setRole records path for the given sample and role, creating the sample on
// first use. An existing path for the same role is overwritten.
func (r *Registry) setRole(name string, role Role, path string) {
	sample, ok := r.samples[name]
	if !ok {
		sample = &Sample{Name: name, Files: make(map[Role]string)}
		r.samples[name] = sample
	}
	sample.Files[role] = path
}

// InputType selects which kind of input files a pipeline consumes.
type InputType string

const (
	InputFastq InputType = "fastq"
	InputFasta InputType = "fasta"
	InputVcf   InputType = "vcf"
	InputBam   InputType = "bam"
)

// InputTypeSet is the set of input types requested for a run.
type InputTypeSet map[InputType]bool

// ParseInputTypes converts raw input-type names into an InputTypeSet,
// rejecting unknown values before any scanning starts.
func ParseInputTypes(values []string) (InputTypeSet, error) {
	set := make(InputTypeSet, len(values))
	for _, v := range values {
		switch t := InputType(v); t {
		case InputFastq, InputFasta, InputVcf, InputBam:
			set[t] = true
		default:
			return nil, &PreconditionError{
				Message: fmt.Sprintf("invalid input type %q: must be one of fastq, fasta, vcf, bam", v),
			}
		}
	}
	if len(set) == 0 {
		return nil, &PreconditionError{Message: "no input type requested: need at least one of fastq, fasta, vcf, bam"}
	}
	return set, nil
}
