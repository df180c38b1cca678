package genosnp

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

const vcfHeader = "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tsample\n"

func writeTestFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeTestVCF(t *testing.T, rows ...string) string {
	t.Helper()
	return writeTestFile(t, "sample.vcf", vcfMeta+vcfHeader+strings.Join(rows, "\n")+"\n")
}

func TestIngestSingleRow(t *testing.T) {
	path := writeTestVCF(t, "chr1\t100\t.\tA\tT\t.\t.\t.\tGT:DP\t1:30")

	reg := NewVariantRegistry()
	s := NewSample("s1", path)
	logger, _ := test.NewNullLogger()
	in := &Ingester{Log: logger}
	if err := in.Ingest(path, reg, s); err != nil {
		t.Fatal(err)
	}

	if len(s.Variants()) != 1 {
		t.Fatalf("Got %d variants, expected 1", len(s.Variants()))
	}
	v := s.Variants()[0]
	if v.Contig != "chr1" || v.Position != 99 || v.Ref != "A" || v.Alt != "T" {
		t.Errorf("Got %s, expected chr1:99 A>T", v)
	}
	if v.PassesFilters {
		t.Errorf("Ingested variants should not pass filters by default")
	}

	g := NewGenotype("g")
	g.AddGenotypeAllele(v, "T", 30)
	pairs := []GenotypeVariant{{Genotype: g, Variant: v}}
	got, err := PickVCFAllele(pairs, logger)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != pairs[0] {
		t.Errorf("Got %v, expected the single pair unchanged", got)
	}
}

func TestIngestReferenceCall(t *testing.T) {
	path := writeTestVCF(t, "chr1\t100\t.\tA\tT\t.\t.\t.\tDP:GT\t30:0")

	s := NewSample("s1", path)
	logger, _ := test.NewNullLogger()
	if err := (&Ingester{Log: logger}).Ingest(path, NewVariantRegistry(), s); err != nil {
		t.Fatal(err)
	}
	if v := s.Variants()[0]; v.Alt != "A" {
		t.Errorf("Got ALT %s, expected the reference allele A", v.Alt)
	}
}

func TestIngestRepeatRegion(t *testing.T) {
	bed := writeTestFile(t, "repeats.bed", "# repeats\nchr1\t90\t110\n")
	repeats := NewRepeatRegions(nil)
	if ok, err := repeats.Load(bed); err != nil || !ok {
		t.Fatalf("Load returned %v, %v", ok, err)
	}
	if repeats.Len() != 20 {
		t.Errorf("Got %d repeat positions, expected 20", repeats.Len())
	}

	path := writeTestVCF(t,
		"chr1\t100\t.\tA\tT\t.\t.\t.\tGT:DP\t1:30",
		"chr1\t111\t.\tA\tG\t.\t.\t.\tGT:DP\t1:30",
	)
	metrics := NewMetrics(prometheus.NewRegistry())
	logger, _ := test.NewNullLogger()
	s := NewSample("s1", path)
	in := &Ingester{Repeats: repeats, Log: logger, Metrics: metrics}
	if err := in.Ingest(path, NewVariantRegistry(), s); err != nil {
		t.Fatal(err)
	}

	if len(s.Variants()) != 1 || s.Variants()[0].Position != 110 {
		t.Errorf("Got %v, expected only chr1:110", s.Variants())
	}
	if got := testutil.ToFloat64(metrics.RowsSkipped.WithLabelValues(ReasonRepeatRegion)); got != 1 {
		t.Errorf("Got %v repeat skips, expected 1", got)
	}

	if ok, err := repeats.Load(""); err != nil || !ok || repeats.Len() != 0 {
		t.Errorf("Loading an empty path should clear the set, got %v, %v, %d", ok, err, repeats.Len())
	}
}

func TestIngestMultiallelicWarning(t *testing.T) {
	path := writeTestVCF(t,
		"chr1\t100\t.\tA\tT,G\t.\t.\t.\tGT:DP\t1:30",
		"chr1\t200\t.\tA\tC\t.\t.\t.\tGT:DP\t1:30",
	)

	logger, hook := test.NewNullLogger()
	s := NewSample("s1", path)
	if err := (&Ingester{Log: logger}).Ingest(path, NewVariantRegistry(), s); err != nil {
		t.Fatal(err)
	}

	if len(s.Variants()) != 1 {
		t.Errorf("Got %d variants, expected 1", len(s.Variants()))
	}

	entries := hook.AllEntries()
	if len(entries) != 1 {
		t.Fatalf("Got %d log entries, expected 1", len(entries))
	}
	e := entries[0]
	if e.Level != logrus.WarnLevel {
		t.Errorf("Got level %s, expected warning", e.Level)
	}
	if e.Data["file"] != path || e.Data["count"] != 1 {
		t.Errorf("Got fields %v, expected file %s and count 1", e.Data, path)
	}
}

func TestIngestSharesVariantsAcrossSamples(t *testing.T) {
	row := "chr1\t100\t.\tA\tT\t.\t.\t.\tGT:DP\t1:30"
	p1 := writeTestVCF(t, row, row)
	p2 := writeTestVCF(t, row)

	reg := NewVariantRegistry()
	logger, _ := test.NewNullLogger()
	in := &Ingester{Log: logger}
	s1, s2 := NewSample("s1", p1), NewSample("s2", p2)
	if err := in.Ingest(p1, reg, s1); err != nil {
		t.Fatal(err)
	}
	if err := in.Ingest(p2, reg, s2); err != nil {
		t.Fatal(err)
	}

	if len(s1.Variants()) != 1 {
		t.Errorf("Got %d variants in s1, expected a duplicate row to be added once", len(s1.Variants()))
	}
	if s1.Variants()[0] != s2.Variants()[0] {
		t.Errorf("Samples should share the canonical variant instance")
	}
	if reg.Len() != 1 {
		t.Errorf("Got %d registry entries, expected 1", reg.Len())
	}
}

func TestIngestCollisionWarning(t *testing.T) {
	p1 := writeTestVCF(t, "chr1\t100\t.\tA\tT\t.\t.\t.\tGT\t1")
	p2 := writeTestVCF(t, "chr1\t100\t.\tAG\tT\t.\t.\t.\tGT\t1")

	reg := NewVariantRegistry()
	logger, hook := test.NewNullLogger()
	in := &Ingester{Log: logger}
	if err := in.Ingest(p1, reg, NewSample("s1", p1)); err != nil {
		t.Fatal(err)
	}
	s2 := NewSample("s2", p2)
	if err := in.Ingest(p2, reg, s2); err != nil {
		t.Fatal(err)
	}

	if s2.Variants()[0].Ref != "A" {
		t.Errorf("Got ref %s, expected the canonical instance", s2.Variants()[0].Ref)
	}
	e := hook.LastEntry()
	if e == nil || e.Level != logrus.WarnLevel || e.Data["count"] != 1 {
		t.Errorf("Expected one collision warning, got %v", e)
	}
}

func TestIngestErrors(t *testing.T) {
	logger, _ := test.NewNullLogger()
	in := &Ingester{Log: logger}

	multi := writeTestFile(t, "multi.vcf", vcfMeta+"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\ts1\ts2\n")
	err := in.Ingest(multi, NewVariantRegistry(), NewSample("m", multi))
	var unsupported *UnsupportedInputError
	if !errors.As(err, &unsupported) || unsupported.Type != VCFTypeMultiSample {
		t.Errorf("Got %v, expected an *UnsupportedInputError", err)
	}

	short := writeTestVCF(t, "chr1\t100\t.\tA\tT\t.\t.\t.\tGT")
	err = in.Ingest(short, NewVariantRegistry(), NewSample("s", short))
	var formatErr *FormatError
	if !errors.As(err, &formatErr) {
		t.Errorf("Got %v, expected a *FormatError for a short row", err)
	}

	noGT := writeTestVCF(t,
		"chr1\t50\t.\tA\tC\t.\t.\t.\tGT\t1",
		"chr1\t100\t.\tA\tT\t.\t.\t.\tDP\t30",
	)
	s := NewSample("s", noGT)
	err = in.Ingest(noGT, NewVariantRegistry(), s)
	if !errors.As(err, &formatErr) {
		t.Fatalf("Got %v, expected a *FormatError for a missing GT", err)
	}
	if formatErr.Coordinate != "chr1:100" || formatErr.File != noGT {
		t.Errorf("Got %+v, expected the file and chr1:100", formatErr)
	}
	if len(s.Variants()) != 0 {
		t.Errorf("A failed ingestion should leave the sample untouched, got %d variants", len(s.Variants()))
	}
}

func TestIngestCompressed(t *testing.T) {
	dir := t.TempDir()
	opener := NewOpener(nil)
	for _, name := range []string{"s.vcf.gz", "s.vcf.bgz", "s.vcf.zst"} {
		path := filepath.Join(dir, name)
		w, err := opener.Create(path)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(vcfMeta + vcfHeader + "chr1\t100\t.\tA\tT\t.\t.\t.\tGT:DP\t1:30\n")); err != nil {
			t.Fatal(err)
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}

		logger, _ := test.NewNullLogger()
		s := NewSample(name, path)
		if err := (&Ingester{Opener: opener, Log: logger}).Ingest(path, NewVariantRegistry(), s); err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if len(s.Variants()) != 1 {
			t.Errorf("%s: got %d variants, expected 1", name, len(s.Variants()))
		}
	}
}
