// Package signature classifies an input directory as the output of a known
// upstream pipeline. The classification decides which enlisting strategy the
// registry builder uses to locate per-sample files.
package signature

import (
	"fmt"
	"os"
	"path/filepath"
)

// Signature identifies the upstream pipeline that produced an input
// directory, or None for a flat directory of input files.
type Signature string

const (
	// Assembly marks the output layout of the assembly pipeline:
	// clean_fastq/ plus de_novo_assembly_filtered/.
	Assembly Signature = "assembly-pipeline-output"
	// Mapping marks the output layout of the reference-mapping pipeline:
	// mapped_reads/duprem/, variants/ and reference/reference.fasta.
	Mapping Signature = "mapping-pipeline-output"
	// VariantTyping marks the output layout of the variant-typing pipeline:
	// a single */consensus directory next to an audit_trail/.
	VariantTyping Signature = "variant-typing-output"
	// Cgmlst marks the output layout of the cgMLST pipeline. Enlisting from
	// this layout is not implemented yet; detection reports a typed error.
	Cgmlst Signature = "cgmlst-output"
	// None means no known upstream layout was recognized; files are
	// expected directly under the input directory.
	None Signature = "none"
)

// Detection is the result of classifying an input directory.
type Detection struct {
	// Signature is the recognized upstream layout.
	Signature Signature
	// ConsensusDir is the single */consensus directory, set only for
	// VariantTyping.
	ConsensusDir string
}

// AmbiguousConsensusError reports a variant-typing layout whose */consensus
// glob did not resolve to exactly one directory.
type AmbiguousConsensusError struct {
	InputDir string
	Count    int
	Matches  []string
}

func (e *AmbiguousConsensusError) Error() string {
	return fmt.Sprintf(
		"input directory %s looks like upstream pipeline output but contains %d directories matching */consensus, expected exactly 1",
		e.InputDir, e.Count,
	)
}

// NotImplementedError reports detection of a layout that is recognized but
// not yet supported for enlisting.
type NotImplementedError struct {
	InputDir  string
	Signature Signature
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf(
		"input directory %s was produced by an unsupported upstream pipeline (%s): enlisting from this layout is not implemented yet",
		e.InputDir, e.Signature,
	)
}

// Detect classifies inputDir by probing for known sub-path patterns in a
// fixed priority order. Only the first matching signature is honored.
func Detect(inputDir string) (Detection, error) {
	if isDir(filepath.Join(inputDir, "clean_fastq")) &&
		isDir(filepath.Join(inputDir, "de_novo_assembly_filtered")) {
		return Detection{Signature: Assembly}, nil
	}

	if isDir(filepath.Join(inputDir, "mapped_reads", "duprem")) &&
		isDir(filepath.Join(inputDir, "variants")) &&
		isFile(filepath.Join(inputDir, "reference", "reference.fasta")) {
		return Detection{Signature: Mapping}, nil
	}

	if isDir(filepath.Join(inputDir, "audit_trail")) {
		consensus := globDirs(filepath.Join(inputDir, "*", "consensus"))
		if len(consensus) == 1 {
			return Detection{Signature: VariantTyping, ConsensusDir: consensus[0]}, nil
		}
		if len(consensus) > 1 {
			return Detection{}, &AmbiguousConsensusError{
				InputDir: inputDir,
				Count:    len(consensus),
				Matches:  consensus,
			}
		}
		if m, _ := filepath.Glob(filepath.Join(inputDir, "cgmlst", "*")); len(m) > 0 {
			return Detection{}, &NotImplementedError{InputDir: inputDir, Signature: Cgmlst}
		}
		// An audit_trail without any recognizable payload is upstream
		// output we cannot classify, not a flat input directory.
		return Detection{}, &AmbiguousConsensusError{InputDir: inputDir, Count: 0}
	}

	return Detection{Signature: None}, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// globDirs resolves pattern and keeps only directories.
func globDirs(pattern string) []string {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil
	}
	dirs := make([]string, 0, len(matches))
	for _, m := range matches {
		if isDir(m) {
			dirs = append(dirs, m)
		}
	}
	return dirs
}
