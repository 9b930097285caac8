// Package audit writes the audit-trail documents that record how a pipeline
// run was prepared: a pipeline-info YAML with a unique run identity, plus a
// copy of the exclusion file when one was used.
package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/bkoning/seqprep/internal/filelock"
)

// TrailDirName is the audit-trail subdirectory inside the output directory.
const TrailDirName = "audit_trail"

// RunInfo identifies one run preparation for the audit trail.
type RunInfo struct {
	PipelineName    string `yaml:"pipeline_name"`
	PipelineVersion string `yaml:"pipeline_version"`
	Timestamp       string `yaml:"timestamp"`
	Hostname        string `yaml:"hostname"`
	RunID           string `yaml:"run_id"`
}

// NewRunInfo creates the identity record for a run preparation: a fresh
// UUID, the current host and a wall-clock timestamp.
func NewRunInfo(pipelineName, pipelineVersion string) RunInfo {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return RunInfo{
		PipelineName:    pipelineName,
		PipelineVersion: pipelineVersion,
		Timestamp:       time.Now().Format("02-01-2006 15:04:05"),
		Hostname:        hostname,
		RunID:           uuid.New().String(),
	}
}

// WriteTrail writes the audit-trail files into <outputDir>/audit_trail and
// returns the paths written. When exclusionFile is non-empty, a copy of it
// is stored alongside the pipeline-info document.
func WriteTrail(outputDir string, info RunInfo, exclusionFile string) ([]string, error) {
	trailDir := filepath.Join(outputDir, TrailDirName)
	if err := os.MkdirAll(trailDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create audit trail directory %s: %w", trailDir, err)
	}

	data, err := yaml.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pipeline info: %w", err)
	}
	pipelineFile := filepath.Join(trailDir, "log_pipeline.yaml")
	if err := filelock.AtomicWrite(pipelineFile, data); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", pipelineFile, err)
	}
	written := []string{pipelineFile}

	if exclusionFile != "" {
		copied, err := copyExclusionFile(exclusionFile, trailDir)
		if err != nil {
			return nil, err
		}
		written = append(written, copied)
	}
	return written, nil
}

// copyExclusionFile stores a copy of the exclusion file in the trail
// directory so the excluded set of a past run can be reconstructed.
func copyExclusionFile(src, trailDir string) (string, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("failed to read exclusion file %s: %w", src, err)
	}
	dst := filepath.Join(trailDir, filepath.Base(src))
	if err := filelock.AtomicWrite(dst, data); err != nil {
		return "", fmt.Errorf("failed to copy exclusion file to %s: %w", dst, err)
	}
	return dst, nil
}
