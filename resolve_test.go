package genosnp

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func pair(t *testing.T, name string, v *Variant, allele string, depth int) GenotypeVariant {
	t.Helper()
	g := NewGenotype(name)
	g.AddGenotypeAllele(v, allele, depth)
	return GenotypeVariant{Genotype: g, Variant: v}
}

func pairNames(pairs []GenotypeVariant) []string {
	out := []string{}
	for _, p := range pairs {
		out = append(out, p.Genotype.Name)
	}
	return out
}

func TestPickVCFAlleleEmpty(t *testing.T) {
	if _, err := PickVCFAllele(nil, nil); err == nil {
		t.Errorf("Expected an error for no pairs")
	}
}

// A single pair is kept even when it carries the reference, so the writer
// can still record the depth of that call.
func TestPickVCFAlleleSinglePair(t *testing.T) {
	v := mustVariant(t, "chr1", 99, "A", "A", true)
	pairs := []GenotypeVariant{pair(t, "1", v, "A", 10)}

	got, err := PickVCFAllele(pairs, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != pairs[0] {
		t.Errorf("Got %v, expected the pair unchanged", pairNames(got))
	}
}

func TestPickVCFAlleleAllReference(t *testing.T) {
	v := mustVariant(t, "chr1", 99, "A", "T", true)
	pairs := []GenotypeVariant{
		pair(t, "1", v, "A", 10),
		pair(t, "2", v, "A", 20),
	}

	got, err := PickVCFAllele(pairs, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Got %v, expected an empty result", got)
	}
}

func TestPickVCFAlleleReturnsAltCarriers(t *testing.T) {
	v := mustVariant(t, "chr1", 99, "A", "T", true)
	pairs := []GenotypeVariant{
		pair(t, "1", v, "A", 10),
		pair(t, "2", v, "T", 20),
		pair(t, "3", v, "A", 30),
	}

	got, err := PickVCFAllele(pairs, nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"2"}, pairNames(got)); diff != "" {
		t.Errorf("Winners (-expected +got):\n%s", diff)
	}
}

func TestPickVCFAlleleConflict(t *testing.T) {
	v := mustVariant(t, "chr1", 99, "A", "T", true)
	pairs := []GenotypeVariant{
		pair(t, "1", v, "T", 30),
		pair(t, "2", v, "T", 40),
	}

	got, err := PickVCFAllele(pairs, nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"1", "2"}, pairNames(got)); diff != "" {
		t.Errorf("Winners (-expected +got):\n%s", diff)
	}
}

func TestPickVCFAlleleDifferingReferences(t *testing.T) {
	snp := mustVariant(t, "chr1", 99, "C", "T", true)
	snp.SetSpeciesVariant(true)
	indel := mustVariant(t, "chr1", 99, "A", "G", true)

	// A is the smallest reference, so only the C-carrying and T-carrying
	// genotypes differ from it
	pairs := []GenotypeVariant{
		pair(t, "species", snp, "T", 10),
		pair(t, "2", indel, "A", 20),
		pair(t, "3", indel, "C", 30),
	}

	logger, hook := test.NewNullLogger()
	got, err := PickVCFAllele(pairs, logger)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"species", "3"}, pairNames(got)); diff != "" {
		t.Errorf("Winners (-expected +got):\n%s", diff)
	}

	e := hook.LastEntry()
	if e == nil || e.Level != logrus.WarnLevel {
		t.Fatalf("Expected a warning, got %v", e)
	}
	if diff := cmp.Diff([]string{"A", "C"}, e.Data["references"]); diff != "" {
		t.Errorf("Logged references (-expected +got):\n%s", diff)
	}
}

func TestPickVCFAlleleDifferingReferencesWithoutSpecies(t *testing.T) {
	a := mustVariant(t, "chr1", 99, "C", "T", true)
	b := mustVariant(t, "chr1", 99, "A", "G", true)

	logger, hook := test.NewNullLogger()
	if _, err := PickVCFAllele([]GenotypeVariant{pair(t, "1", a, "T", 1), pair(t, "2", b, "G", 1)}, logger); err != nil {
		t.Fatal(err)
	}
	if len(hook.AllEntries()) != 0 {
		t.Errorf("Got %d log entries, expected none without a species variant", len(hook.AllEntries()))
	}
}
