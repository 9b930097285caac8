// Package match implements filename conventions for sequencing input files.
//
// It decides whether a single file belongs to a sample and extracts the
// sample name plus, for paired-end reads, the read group (1 or 2). Matching
// is purely name-based; the only content inspection is a cheap minimum
// line-count probe that understands gzip-compressed files.
package match
