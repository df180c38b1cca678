package genosnp

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGenotypeAlleleAndDepth(t *testing.T) {
	g := NewGenotype("1.1")
	v := mustVariant(t, "chr1", 99, "A", "T", true)
	g.AddGenotypeAllele(v, "T", 30)

	allele, err := g.Allele(v)
	if err != nil {
		t.Fatal(err)
	}
	depth, err := g.Depth(v)
	if err != nil {
		t.Fatal(err)
	}
	if allele != "T" || depth != 30 {
		t.Errorf("Got %s/%d, expected T/30", allele, depth)
	}

	g.AddGenotypeAllele(v, "A", 12)
	if depth, _ := g.Depth(v); depth != 12 {
		t.Errorf("Got %d, expected %d", depth, 12)
	}
	if n := len(g.DefiningVariants()); n != 1 {
		t.Errorf("Got %d defining variants, expected %d", n, 1)
	}
}

func TestGenotypeMissingVariant(t *testing.T) {
	g := NewGenotype("1.1")
	v := mustVariant(t, "chr1", 99, "A", "T", true)

	_, err := g.Allele(v)
	var missing *MissingEntityError
	if !errors.As(err, &missing) {
		t.Fatalf("Got %v, expected a *MissingEntityError", err)
	}
	if missing.Genotype != "1.1" || missing.Coordinate != v.Coordinate() {
		t.Errorf("Got %+v", missing)
	}

	if _, err := g.Depth(v); !errors.As(err, &missing) {
		t.Errorf("Got %v, expected a *MissingEntityError", err)
	}
}

func TestGenotypeSubgenotypes(t *testing.T) {
	g := NewGenotype("2")
	if diff := cmp.Diff([]string{"2"}, g.Subgenotypes); diff != "" {
		t.Errorf("New genotype sub-genotypes (-expected +got):\n%s", diff)
	}

	g.SetSubgenotypes([]string{"2.1", "2.2", "2.1"})
	g.AddSubgenotype("2.3")
	g.AddSubgenotype("2")
	if diff := cmp.Diff([]string{"2", "2.1", "2.2", "2.3"}, g.Subgenotypes); diff != "" {
		t.Errorf("Sub-genotypes (-expected +got):\n%s", diff)
	}
}

func TestNewGenotypeFromConfig(t *testing.T) {
	if _, err := NewGenotypeFromConfig(GenotypeConfig{}); err == nil {
		t.Errorf("Expected an error for an empty name")
	}
	if _, err := NewGenotypeFromConfig(GenotypeConfig{Name: "1", Subgenotypes: []string{""}}); err == nil {
		t.Errorf("Expected an error for an empty sub-genotype")
	}

	g, err := NewGenotypeFromConfig(GenotypeConfig{Name: "1", Subgenotypes: []string{"1.1"}})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"1", "1.1"}, g.Subgenotypes); diff != "" {
		t.Errorf("Sub-genotypes (-expected +got):\n%s", diff)
	}
}

func TestGenotypeDefiningCoordinates(t *testing.T) {
	g := NewGenotype("1")
	g.AddGenotypeAllele(mustVariant(t, "chr1", 5, "A", "T", true), "T", 1)
	g.AddGenotypeAllele(mustVariant(t, "chr1", 3, "A", "T", false), "T", 1)
	g.AddGenotypeAllele(mustVariant(t, "chr1", 1, "A", "T", true), "T", 1)

	expected := []Coordinate{{"chr1", 5}, {"chr1", 1}}
	if diff := cmp.Diff(expected, g.DefiningCoordinates()); diff != "" {
		t.Errorf("Coordinates (-expected +got):\n%s", diff)
	}
}
