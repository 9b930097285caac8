package match

import (
	"regexp"
	"strings"
)

// pairedReadPattern splits a fastq filename into a sample-name prefix and a
// read-group marker. The separator between the two tolerates sequencer-style
// sample/lane qualifiers (_S1_, _S1_L001_), the read marker may be written as
// 1/2, R1/R2 or pR1/pR2, and optional qualifiers may sit between the marker
// and the .fastq/.fq(.gz) extension.
//
// Known limitation: a bare _1 or _2 inside the true sample name collides with
// the read-group marker, so such names are misparsed. Callers are expected to
// avoid _1/_2 in sample names; there is no way to disambiguate them here.
var pairedReadPattern = regexp.MustCompile(
	`^(.*?)(?:_S\d+_(?:L\d+_)?|_S\d+\.|_|\.)(?:p)?R?([12])(?:_.*\.|\..*\.|\.)f(?:ast)?q(?:\.gz)?$`,
)

// PairedRead holds the result of matching a paired-end read filename.
type PairedRead struct {
	// Sample is the sample-name prefix extracted from the filename.
	Sample string
	// ReadGroup is "1" for forward reads and "2" for reverse reads.
	ReadGroup string
}

// MatchPairedRead tests name against the paired-read naming convention.
// It returns the extracted sample name and read group, and reports whether
// the name qualified. Multi-lane files (L001, L002, ...) for the same sample
// and read group resolve to the same PairedRead value.
func MatchPairedRead(name string) (PairedRead, bool) {
	m := pairedReadPattern.FindStringSubmatch(name)
	if m == nil {
		return PairedRead{}, false
	}
	return PairedRead{Sample: m[1], ReadGroup: m[2]}, true
}

// MatchSingleExtension tests whether name is exactly <sample><ext> for the
// given fixed extension (e.g. ".fasta", ".vcf", ".bam") and returns the
// sample name. Names consisting of only the extension do not qualify.
func MatchSingleExtension(name, ext string) (string, bool) {
	if ext == "" || !strings.HasSuffix(name, ext) {
		return "", false
	}
	sample := name[:len(name)-len(ext)]
	if sample == "" {
		return "", false
	}
	return sample, true
}
