package registry

import (
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/bkoning/seqprep/internal/signature"
)

const fastqContent = "@read1\nACGT\n+\nIIII\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func writeGzFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write([]byte(content)); err != nil {
		t.Fatalf("failed to gzip content: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("failed to close gzip writer: %v", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func buildFlat(t *testing.T, dir string, types InputTypeSet, exclusions ExclusionSet, minLines int) (*Registry, error) {
	t.Helper()
	b := &Builder{InputDir: dir, MinLines: minLines, Exclusions: exclusions}
	return b.Build(signature.Detection{Signature: signature.None}, types)
}

func TestBuildPairedReads(t *testing.T) {
	dir := t.TempDir()
	r1 := writeFile(t, dir, "sampleA_R1.fastq", fastqContent)
	r2 := writeGzFile(t, dir, "sampleA_R2.fastq.gz", fastqContent)

	reg, err := buildFlat(t, dir, InputTypeSet{InputFastq: true}, nil, 0)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if err := Validate(reg, InputTypeSet{InputFastq: true}); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	sample := reg.Get("sampleA")
	if sample == nil {
		t.Fatal("sampleA not found in registry")
	}
	want := map[Role]string{RoleR1: r1, RoleR2: r2}
	if !reflect.DeepEqual(sample.Files, want) {
		t.Errorf("Files = %v, want %v", sample.Files, want)
	}
}

func TestBuildExcludedSamplesNeverAppear(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sampleA_R1.fastq", fastqContent)
	writeFile(t, dir, "sampleA_R2.fastq", fastqContent)
	writeFile(t, dir, "sampleB_R1.fastq", fastqContent)
	writeFile(t, dir, "sampleB_R2.fastq", fastqContent)

	reg, err := buildFlat(t, dir, InputTypeSet{InputFastq: true}, ExclusionSet{"sampleB": true}, 0)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if reg.Get("sampleB") != nil {
		t.Error("excluded sampleB appears in registry")
	}
	if got, want := reg.Names(), []string{"sampleA"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestBuildMinLinesSkipsShortFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sampleA_R1.fastq", fastqContent)          // 4 lines
	writeFile(t, dir, "sampleA_R2.fastq", "@read1\nACGT\n")      // 2 lines
	writeGzFile(t, dir, "sampleB_R1.fastq.gz", "@read1\nACGT\n") // 2 lines, compressed

	reg, err := buildFlat(t, dir, InputTypeSet{InputFastq: true}, nil, 4)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	sample := reg.Get("sampleA")
	if sample == nil {
		t.Fatal("sampleA not found in registry")
	}
	if sample.Has(RoleR2) {
		t.Error("short R2 file should have been silently skipped")
	}
	if reg.Get("sampleB") != nil {
		t.Error("short gzipped file should have been silently skipped")
	}
}

func TestBuildMultiLaneDuplicates(t *testing.T) {
	dir := t.TempDir()
	writeGzFile(t, dir, "sample5_S1_L001_R1.fastq.gz", fastqContent)
	writeGzFile(t, dir, "sample5_S1_L001_R2.fastq.gz", fastqContent)
	writeGzFile(t, dir, "sample5_S1_L002_R1.fastq.gz", fastqContent)
	writeGzFile(t, dir, "sample5_S1_L002_R2.fastq.gz", fastqContent)

	_, err := buildFlat(t, dir, InputTypeSet{InputFastq: true}, nil, 0)
	var dupErr *DuplicateMappingError
	if !errors.As(err, &dupErr) {
		t.Fatalf("Build() error = %v, want DuplicateMappingError", err)
	}
	if len(dupErr.Conflicts) != 2 {
		t.Fatalf("Conflicts = %d, want 2 (one per read group)", len(dupErr.Conflicts))
	}
	groups := map[string]bool{}
	for _, c := range dupErr.Conflicts {
		if c.Sample != "sample5" {
			t.Errorf("conflict sample = %q, want %q", c.Sample, "sample5")
		}
		if c.Existing == "" || c.Duplicate == "" || c.Existing == c.Duplicate {
			t.Errorf("conflict must identify both files, got %+v", c)
		}
		groups[c.ReadGroup] = true
	}
	if !groups["1"] || !groups["2"] {
		t.Errorf("conflicts cover read groups %v, want both 1 and 2", groups)
	}
}

func TestBuildSingleDuplicateReportedStandalone(t *testing.T) {
	dir := t.TempDir()
	writeGzFile(t, dir, "sample5_S1_L001_R1.fastq.gz", fastqContent)
	writeGzFile(t, dir, "sample5_S1_L002_R1.fastq.gz", fastqContent)

	_, err := buildFlat(t, dir, InputTypeSet{InputFastq: true}, nil, 0)
	var dupErr *DuplicateMappingError
	if !errors.As(err, &dupErr) {
		t.Fatalf("Build() error = %v, want DuplicateMappingError", err)
	}
	if len(dupErr.Conflicts) != 1 {
		t.Fatalf("Conflicts = %d, want 1", len(dupErr.Conflicts))
	}
}

func TestBuildAssemblySignature(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "clean_fastq"), "1234_R1.fastq", fastqContent)
	writeFile(t, filepath.Join(dir, "clean_fastq"), "1234_R2.fastq", fastqContent)
	writeFile(t, filepath.Join(dir, "de_novo_assembly_filtered"), "1234.fasta", ">contig1\nACGT\n")

	det, err := signature.Detect(dir)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if det.Signature != signature.Assembly {
		t.Fatalf("Signature = %q, want %q", det.Signature, signature.Assembly)
	}

	b := &Builder{InputDir: dir}
	reg, err := b.Build(det, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	sample := reg.Get("1234")
	if sample == nil {
		t.Fatal("sample 1234 not found in registry")
	}
	for _, role := range []Role{RoleR1, RoleR2, RoleAssembly} {
		if !sample.Has(role) {
			t.Errorf("sample 1234 is missing role %s", role)
		}
	}
	if err := Validate(reg, InputTypeSet{InputFastq: true, InputFasta: true}); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestBuildMappingSignature(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "mapped_reads", "duprem"), "sampleA.bam", "bamdata\n")
	writeFile(t, filepath.Join(dir, "variants"), "sampleA.vcf", "##fileformat=VCFv4.2\n")
	writeFile(t, filepath.Join(dir, "reference"), "reference.fasta", ">ref\nACGT\n")

	det, err := signature.Detect(dir)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	b := &Builder{InputDir: dir}
	reg, err := b.Build(det, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	sample := reg.Get("sampleA")
	if sample == nil {
		t.Fatal("sampleA not found in registry")
	}
	if !sample.Has(RoleBam) || !sample.Has(RoleVcf) {
		t.Errorf("sampleA roles = %v, want bam and vcf", sample.Files)
	}
	wantRef := filepath.Join(reg.InputDir, "reference", "reference.fasta")
	if got := sample.Files[RoleReference]; got != wantRef {
		t.Errorf("reference = %q, want %q", got, wantRef)
	}
}

// TestBuildReferenceNotVerified checks that the synthesized reference entry
// is recorded even when reference.fasta does not exist on disk.
func TestBuildReferenceNotVerified(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sampleA.vcf", "##fileformat=VCFv4.2\n")

	reg, err := buildFlat(t, dir, InputTypeSet{InputVcf: true}, nil, 0)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	sample := reg.Get("sampleA")
	if sample == nil {
		t.Fatal("sampleA not found in registry")
	}
	if !sample.Has(RoleReference) {
		t.Error("reference entry was not synthesized for vcf sample")
	}
}

func TestBuildVariantTypingSignature(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "audit_trail"), 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "salmonella", "consensus"), "sampleA.fasta", ">contig1\nACGT\n")

	det, err := signature.Detect(dir)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	b := &Builder{InputDir: dir}
	reg, err := b.Build(det, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	sample := reg.Get("sampleA")
	if sample == nil || !sample.Has(RoleAssembly) {
		t.Errorf("expected sampleA with an assembly from the consensus directory, got %+v", sample)
	}
}

func TestBuildMissingInputDir(t *testing.T) {
	b := &Builder{InputDir: "/nonexistent/input"}
	_, err := b.Build(signature.Detection{Signature: signature.None}, InputTypeSet{InputFastq: true})
	var preErr *PreconditionError
	if !errors.As(err, &preErr) {
		t.Fatalf("Build() error = %v, want PreconditionError", err)
	}
}

// TestBuildIdempotent verifies that two builds over the same unchanged
// directory produce identical registries.
func TestBuildIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sampleA_R1.fastq", fastqContent)
	writeFile(t, dir, "sampleA_R2.fastq", fastqContent)
	writeFile(t, dir, "sampleB.fasta", ">contig1\nACGT\n")

	types := InputTypeSet{InputFastq: true, InputFasta: true}
	exclusions := ExclusionSet{"other": true}

	first, err := buildFlat(t, dir, types, exclusions, 1)
	if err != nil {
		t.Fatalf("first Build() error = %v", err)
	}
	second, err := buildFlat(t, dir, types, exclusions, 1)
	if err != nil {
		t.Fatalf("second Build() error = %v", err)
	}

	if !reflect.DeepEqual(first.Names(), second.Names()) {
		t.Errorf("sample names differ between builds: %v vs %v", first.Names(), second.Names())
	}
	for _, name := range first.Names() {
		if !reflect.DeepEqual(first.Get(name).Files, second.Get(name).Files) {
			t.Errorf("files for %q differ between builds", name)
		}
	}
}

func TestParseInputTypes(t *testing.T) {
	set, err := ParseInputTypes([]string{"fastq", "fasta"})
	if err != nil {
		t.Fatalf("ParseInputTypes() error = %v", err)
	}
	if !set[InputFastq] || !set[InputFasta] {
		t.Errorf("set = %v, want fastq and fasta", set)
	}

	if _, err := ParseInputTypes([]string{"bacteria"}); err == nil {
		t.Error("expected error for invalid input type")
	}
	if _, err := ParseInputTypes(nil); err == nil {
		t.Error("expected error for empty input type selection")
	}
}

func TestLoadExclusions(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "samples.exclude", "sampleB\nsampleC\nsampleB\n\n")

	set, err := LoadExclusions(path)
	if err != nil {
		t.Fatalf("LoadExclusions() error = %v", err)
	}
	if len(set) != 2 || !set["sampleB"] || !set["sampleC"] {
		t.Errorf("set = %v, want sampleB and sampleC", set)
	}

	if _, err := LoadExclusions(filepath.Join(dir, "missing.exclude")); err == nil {
		t.Error("expected error for missing exclusion file")
	}
}
