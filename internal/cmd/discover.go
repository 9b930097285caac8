package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bkoning/seqprep/internal/audit"
	"github.com/bkoning/seqprep/internal/config"
	"github.com/bkoning/seqprep/internal/history"
	"github.com/bkoning/seqprep/internal/logger"
	"github.com/bkoning/seqprep/internal/metadata"
	"github.com/bkoning/seqprep/internal/registry"
	"github.com/bkoning/seqprep/internal/samplesheet"
	"github.com/bkoning/seqprep/internal/signature"
)

// defaultMetadataColumns are the columns a metadata table must carry to be
// joined into the registry.
var defaultMetadataColumns = []string{"genus"}

// discoverFlags holds the command-line overrides shared by the discover and
// validate subcommands.
type discoverFlags struct {
	configPath    string
	inputTypes    []string
	minNumLines   int
	exclusionFile string
	metadataFile  string
	outputDir     string
	logLevel      string
}

// register adds the shared flags to cmd.
func (f *discoverFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "seqprep.yaml", "path to the configuration file")
	cmd.Flags().StringSliceVarP(&f.inputTypes, "input-type", "t", nil, "input types to expect (fastq, fasta, vcf, bam)")
	cmd.Flags().IntVarP(&f.minNumLines, "min-num-lines", "n", 0, "minimum number of lines a file must have to be enlisted")
	cmd.Flags().StringVarP(&f.exclusionFile, "exclusion-file", "x", "", "file with one sample name per line to exclude")
	cmd.Flags().StringVarP(&f.metadataFile, "metadata", "m", "", "per-sample metadata CSV (default: probe inside the input directory)")
	cmd.Flags().StringVarP(&f.outputDir, "output", "o", "", "output directory for sample sheet and audit trail")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "logging verbosity (debug, info, warn, error)")
}

// mergeConfig loads the config file and applies any explicitly set flags on
// top of it.
func (f *discoverFlags) mergeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(f.configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("input-type") {
		cfg.InputTypes = f.inputTypes
	}
	if cmd.Flags().Changed("min-num-lines") {
		cfg.MinNumLines = f.minNumLines
	}
	if cmd.Flags().Changed("exclusion-file") {
		cfg.ExclusionFile = f.exclusionFile
	}
	if cmd.Flags().Changed("metadata") {
		cfg.MetadataFile = f.metadataFile
	}
	if cmd.Flags().Changed("output") {
		cfg.OutputDir = f.outputDir
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	return cfg, nil
}

// NewDiscoverCommand creates and returns the discover subcommand
func NewDiscoverCommand() *cobra.Command {
	flags := &discoverFlags{}
	cmd := &cobra.Command{
		Use:   "discover <input-dir>",
		Short: "Discover samples and write the sample sheet and audit trail",
		Long: `Discover classifies every relevant file in the input directory, groups
files per sample, validates completeness, and writes:
  - <output>/sample_sheet.yaml   (sample -> role -> path)
  - <output>/audit_trail/        (run identity, exclusion file copy)

The outcome is recorded in the run-history ledger either way, so failed
preparations stay auditable.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiscover(cmd, args[0], flags, false)
		},
		SilenceUsage: true,
	}
	flags.register(cmd)
	return cmd
}

// NewValidateCommand creates and returns the validate subcommand
func NewValidateCommand() *cobra.Command {
	flags := &discoverFlags{}
	cmd := &cobra.Command{
		Use:   "validate <input-dir>",
		Short: "Validate an input directory without writing anything",
		Long: `Validate runs the same discovery and completeness checks as discover but
writes no sample sheet, no audit trail and no history record.

Exit code: 0 if every sample is complete, 1 otherwise`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiscover(cmd, args[0], flags, true)
		},
		SilenceUsage: true,
	}
	flags.register(cmd)
	return cmd
}

// runDiscover is the shared discover/validate flow. With dryRun set it stops
// after validation and reports, writing nothing.
func runDiscover(cmd *cobra.Command, inputDir string, flags *discoverFlags, dryRun bool) error {
	out := cmd.OutOrStdout()

	cfg, err := flags.mergeConfig(cmd)
	if err != nil {
		return err
	}
	log := logger.NewConsoleLogger(out, cfg.LogLevel)

	types, err := registry.ParseInputTypes(cfg.InputTypes)
	if err != nil {
		return err
	}
	exclusions, err := registry.LoadExclusions(cfg.ExclusionFile)
	if err != nil {
		return err
	}

	det, err := signature.Detect(inputDir)
	if err != nil {
		return err
	}
	log.Debugf("input directory signature: %s", det.Signature)

	info := audit.NewRunInfo("seqprep", Version)

	log.Infof("Making a list of samples to be processed in this pipeline run...")
	builder := &registry.Builder{
		InputDir:   inputDir,
		MinLines:   cfg.MinNumLines,
		Exclusions: exclusions,
	}
	reg, buildErr := builder.Build(det, types)

	var validateErr error
	if buildErr == nil {
		log.Infof("Validating that all expected input files per sample are present in the input directory...")
		validateErr = registry.Validate(reg, types)
	}

	if !dryRun {
		if err := recordRun(cfg, info.RunID, inputDir, det, reg, types, exclusions, buildErr, validateErr); err != nil {
			log.Warnf("failed to record run in history ledger: %v", err)
		}
	}

	if buildErr != nil {
		return buildErr
	}
	if validateErr != nil {
		return validateErr
	}

	log.Infof("Found %d complete sample(s)", reg.Len())

	table, err := metadata.Load(cfg.MetadataFile, reg.InputDir, defaultMetadataColumns)
	if err != nil {
		return err
	}
	if table != nil {
		log.Debugf("loaded metadata for %d sample(s)", len(table))
	}

	if dryRun {
		printSummary(out, reg)
		return nil
	}

	sheetPath := filepath.Join(cfg.OutputDir, "sample_sheet.yaml")
	if err := samplesheet.Write(sheetPath, reg); err != nil {
		return err
	}
	log.Infof("Sample sheet written to %s", sheetPath)

	if _, err := audit.WriteTrail(cfg.OutputDir, info, cfg.ExclusionFile); err != nil {
		return err
	}
	log.Infof("Audit trail written to %s", filepath.Join(cfg.OutputDir, audit.TrailDirName))

	return nil
}

// recordRun appends the outcome of this preparation to the history ledger.
func recordRun(cfg *config.Config, runID, inputDir string, det signature.Detection, reg *registry.Registry, types registry.InputTypeSet, exclusions registry.ExclusionSet, buildErr, validateErr error) error {
	store, err := history.NewStore(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	run := history.Run{
		RunID:         runID,
		InputDir:      inputDir,
		Signature:     string(det.Signature),
		InputTypes:    joinTypes(types),
		ExcludedCount: len(exclusions),
		Success:       buildErr == nil && validateErr == nil,
	}
	if reg != nil {
		// the builder resolves the directory to an absolute path
		run.InputDir = reg.InputDir
		run.SampleCount = reg.Len()
	}
	switch {
	case buildErr != nil:
		run.Detail = buildErr.Error()
	case validateErr != nil:
		run.Detail = validateErr.Error()
	}

	_, err = store.RecordRun(context.Background(), run)
	return err
}

func joinTypes(types registry.InputTypeSet) string {
	names := make([]string, 0, len(types))
	for _, t := range []registry.InputType{registry.InputFastq, registry.InputFasta, registry.InputVcf, registry.InputBam} {
		if types[t] {
			names = append(names, string(t))
		}
	}
	return strings.Join(names, ",")
}

// printSummary lists every discovered sample with its roles.
func printSummary(out io.Writer, reg *registry.Registry) {
	for _, sample := range reg.Samples() {
		fmt.Fprintf(out, "%s:\n", sample.Name)
		for _, role := range []registry.Role{
			registry.RoleR1, registry.RoleR2, registry.RoleAssembly,
			registry.RoleVcf, registry.RoleBam, registry.RoleReference,
		} {
			if path, ok := sample.Files[role]; ok {
				fmt.Fprintf(out, "  %s: %s\n", role, path)
			}
		}
	}
}
