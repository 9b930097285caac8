package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bkoning/seqprep/internal/match"
	"github.com/bkoning/seqprep/internal/signature"
)

// Builder scans directories for per-sample input files and assembles them
// into a Registry. A Builder is cheap to construct and safe to reuse; every
// Build call owns the registry it returns.
type Builder struct {
	// InputDir is the directory to discover samples in.
	InputDir string
	// MinLines is the minimum number of lines a file must have to be
	// considered. Zero or negative means any non-empty file qualifies.
	MinLines int
	// Exclusions holds sample names that must never enter the registry.
	Exclusions ExclusionSet
}

// scanState tracks read-pair mappings across all enlisting passes of a
// single Build call so every conflict is reported at once.
type scanState struct {
	seen      map[match.PairedRead]string
	conflicts []ReadConflict
}

// Build assembles the registry for the given directory classification and
// requested input types. Excluded samples never enter the registry. All
// ambiguous read-pair mappings found during the scan are reported together
// in a single DuplicateMappingError.
func (b *Builder) Build(det signature.Detection, types InputTypeSet) (*Registry, error) {
	info, err := os.Stat(b.InputDir)
	if err != nil || !info.IsDir() {
		return nil, &PreconditionError{
			Message: fmt.Sprintf("the provided input directory (%s) does not exist, please provide an existing directory", b.InputDir),
			Err:     err,
		}
	}
	inputDir, err := filepath.Abs(b.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve input directory %s: %w", b.InputDir, err)
	}

	reg := NewRegistry(inputDir, b.MinLines)
	scan := &scanState{seen: make(map[match.PairedRead]string)}

	switch det.Signature {
	case signature.Assembly:
		if err := b.enlistPairedReads(reg, scan, filepath.Join(inputDir, "clean_fastq")); err != nil {
			return nil, err
		}
		if err := b.enlistSingleExtension(reg, filepath.Join(inputDir, "de_novo_assembly_filtered"), ".fasta", RoleAssembly); err != nil {
			return nil, err
		}
	case signature.Mapping:
		if err := b.enlistSingleExtension(reg, filepath.Join(inputDir, "mapped_reads", "duprem"), ".bam", RoleBam); err != nil {
			return nil, err
		}
		if err := b.enlistSingleExtension(reg, filepath.Join(inputDir, "variants"), ".vcf", RoleVcf); err != nil {
			return nil, err
		}
	case signature.VariantTyping:
		if err := b.enlistSingleExtension(reg, det.ConsensusDir, ".fasta", RoleAssembly); err != nil {
			return nil, err
		}
	case signature.None:
		if types[InputFastq] {
			if err := b.enlistPairedReads(reg, scan, inputDir); err != nil {
				return nil, err
			}
		}
		if types[InputFasta] {
			if err := b.enlistSingleExtension(reg, inputDir, ".fasta", RoleAssembly); err != nil {
				return nil, err
			}
		}
		if types[InputVcf] {
			if err := b.enlistSingleExtension(reg, inputDir, ".vcf", RoleVcf); err != nil {
				return nil, err
			}
		}
		if types[InputBam] {
			if err := b.enlistSingleExtension(reg, inputDir, ".bam", RoleBam); err != nil {
				return nil, err
			}
		}
	default:
		return nil, &PreconditionError{
			Message: fmt.Sprintf("cannot enlist samples for directory signature %q", det.Signature),
		}
	}

	// Every sample with a variant file also gets a reference entry pointing
	// at the conventional location. The path is not verified here; consumers
	// must check it exists.
	referencePath := filepath.Join(inputDir, "reference", "reference.fasta")
	for _, sample := range reg.Samples() {
		if sample.Has(RoleVcf) {
			sample.Files[RoleReference] = referencePath
		}
	}

	if len(scan.conflicts) > 0 {
		return nil, &DuplicateMappingError{Conflicts: scan.conflicts}
	}
	return reg, nil
}

// enlistPairedReads scans dir for paired-end fastq files and records them
// under the R1/R2 roles. Files below the line threshold are silently
// skipped. Conflicting mappings are accumulated on scan, not raised.
func (b *Builder) enlistPairedReads(reg *Registry, scan *scanState, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to scan directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		pair, ok := match.MatchPairedRead(entry.Name())
		if !ok || b.Exclusions[pair.Sample] {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		qualifies, err := match.HasMinLines(path, b.MinLines)
		if err != nil {
			return err
		}
		if !qualifies {
			continue
		}
		if existing, dup := scan.seen[pair]; dup {
			scan.conflicts = append(scan.conflicts, ReadConflict{
				Sample:    pair.Sample,
				ReadGroup: pair.ReadGroup,
				Existing:  existing,
				Duplicate: path,
			})
			continue
		}
		scan.seen[pair] = path
		reg.setRole(pair.Sample, ReadGroupRole(pair.ReadGroup), path)
	}
	return nil
}

// enlistSingleExtension scans dir for <sample><ext> files and records them
// under role. When a directory yields more than one file for the same sample
// under the same extension, the last one seen wins.
func (b *Builder) enlistSingleExtension(reg *Registry, dir, ext string, role Role) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to scan directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		sample, ok := match.MatchSingleExtension(entry.Name(), ext)
		if !ok || b.Exclusions[sample] {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		qualifies, err := match.HasMinLines(path, b.MinLines)
		if err != nil {
			return err
		}
		if !qualifies {
			continue
		}
		reg.setRole(sample, role, path)
	}
	return nil
}
