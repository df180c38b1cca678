package genosnp

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// testGenotypes builds 1, 1.1 and a species genotype sharing variants.
func testGenotypes(t *testing.T) (*Genotypes, map[string]*Variant) {
	t.Helper()

	vs := map[string]*Variant{
		"a": mustVariant(t, "chr2", 10, "A", "T", true),
		"b": mustVariant(t, "chr1", 50, "C", "G", true),
		"c": mustVariant(t, "chr1", 50, "C", "A", true),
		"d": mustVariant(t, "chr1", 20, "G", "T", false),
	}

	g1 := NewGenotype("1")
	g1.AddGenotypeAllele(vs["a"], "T", 10)
	g1.AddGenotypeAllele(vs["b"], "G", 11)

	g11 := NewGenotype("1.1")
	g11.AddGenotypeAllele(vs["c"], "A", 12)
	g11.AddGenotypeAllele(vs["d"], "T", 13)

	sp := NewGenotype("species")
	sp.AddGenotypeAllele(vs["a"], "T", 14)

	return NewGenotypes(g1, g11, sp), vs
}

func TestGenotypesLookup(t *testing.T) {
	gts, vs := testGenotypes(t)

	if gts.Species().Name != "species" {
		t.Errorf("Got %s, expected species", gts.Species().Name)
	}
	if gts.Get("1.1") == nil || gts.Get("nope") != nil {
		t.Errorf("Get returned the wrong genotypes")
	}
	if diff := cmp.Diff([]string{"1", "1.1", "species"}, gts.Names()); diff != "" {
		t.Errorf("Names (-expected +got):\n%s", diff)
	}

	var got []string
	for _, g := range gts.GenotypesWithVariant(vs["a"]) {
		got = append(got, g.Name)
	}
	if diff := cmp.Diff([]string{"1", "species"}, got); diff != "" {
		t.Errorf("GenotypesWithVariant (-expected +got):\n%s", diff)
	}

	if NewGenotypes().Species() != nil {
		t.Errorf("Empty collection should have no species")
	}
}

func TestGenotypesAllVariantsSorted(t *testing.T) {
	gts, vs := testGenotypes(t)

	expected := []*Variant{vs["d"], vs["c"], vs["b"], vs["a"]}
	got := gts.AllVariantsSorted()
	if len(got) != len(expected) {
		t.Fatalf("Got %d variants, expected %d", len(got), len(expected))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Position %d: got %s, expected %s", i, got[i], expected[i])
		}
	}
}

func TestGenotypesCoordinates(t *testing.T) {
	gts, _ := testGenotypes(t)

	// chr1:20 does not pass filters; chr1:50 appears once
	expected := []Coordinate{{"chr1", 50}, {"chr2", 10}}
	if diff := cmp.Diff(expected, gts.Coordinates()); diff != "" {
		t.Errorf("Coordinates (-expected +got):\n%s", diff)
	}

	pairs := gts.AtCoordinate(Coordinate{"chr1", 50})
	if len(pairs) != 2 || pairs[0].Genotype.Name != "1" || pairs[1].Genotype.Name != "1.1" {
		t.Errorf("Got %d pairs at chr1:50, expected genotypes 1 and 1.1", len(pairs))
	}
}

func TestGenotypesVariantMatrix(t *testing.T) {
	if _, err := NewGenotypes().VariantMatrix(); err == nil {
		t.Errorf("Expected an error for an empty collection")
	}

	gts, _ := testGenotypes(t)
	m, err := gts.VariantMatrix()
	if err != nil {
		t.Fatal(err)
	}

	expected := [][]bool{
		{false, false, false}, // chr1:20 G>T, defined by 1.1 but failing
		{false, true, false},  // chr1:50 C>A
		{true, false, false},  // chr1:50 C>G
		{true, false, true},   // chr2:10 A>T
	}
	if diff := cmp.Diff(expected, m.Pass); diff != "" {
		t.Errorf("Matrix (-expected +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"1", "1.1", "species"}, m.Genotypes); diff != "" {
		t.Errorf("Matrix columns (-expected +got):\n%s", diff)
	}
}
