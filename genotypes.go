package genosnp

import (
	"fmt"
	"sort"

	"github.com/carbocation/pfx"
)

// Genotypes is an ordered collection of genotypes. The order is the column
// order of VCF output, and the last genotype is the species pseudo-genotype.
type Genotypes struct {
	List []*Genotype
}

func NewGenotypes(list ...*Genotype) *Genotypes {
	return &Genotypes{List: list}
}

func (gs *Genotypes) Len() int {
	return len(gs.List)
}

// Get returns the genotype called name, or nil.
func (gs *Genotypes) Get(name string) *Genotype {
	for _, g := range gs.List {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// Species returns the species pseudo-genotype, which by convention is the
// last genotype, or nil for an empty collection.
func (gs *Genotypes) Species() *Genotype {
	if len(gs.List) == 0 {
		return nil
	}
	return gs.List[len(gs.List)-1]
}

func (gs *Genotypes) Names() []string {
	out := make([]string, 0, len(gs.List))
	for _, g := range gs.List {
		out = append(out, g.Name)
	}
	return out
}

// AllVariantsSorted returns every defining variant of every genotype, unique
// by identity, sorted by contig and position. Variants sharing a coordinate
// are ordered by alternate base.
func (gs *Genotypes) AllVariantsSorted() []*Variant {
	seen := make(map[VariantKey]struct{})
	var out []*Variant
	for _, g := range gs.List {
		for _, v := range g.DefiningVariants() {
			if _, ok := seen[v.Key()]; ok {
				continue
			}
			seen[v.Key()] = struct{}{}
			out = append(out, v)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Coordinate() != out[j].Coordinate() {
			return out[i].Less(out[j])
		}
		return out[i].Alt < out[j].Alt
	})
	return out
}

// Coordinates returns the sorted, unique coordinates of passing defining
// variants across all genotypes.
func (gs *Genotypes) Coordinates() []Coordinate {
	seen := make(map[Coordinate]struct{})
	var out []Coordinate
	for _, g := range gs.List {
		for _, c := range g.DefiningCoordinates() {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// AtCoordinate returns every (genotype, defining variant) pair located at c,
// passing or not, in collection order.
func (gs *Genotypes) AtCoordinate(c Coordinate) []GenotypeVariant {
	var out []GenotypeVariant
	for _, g := range gs.List {
		for _, v := range g.DefiningVariants() {
			if v.Coordinate() == c {
				out = append(out, GenotypeVariant{Genotype: g, Variant: v})
			}
		}
	}
	return out
}

// GenotypesWithVariant returns the genotypes for which v is defining.
func (gs *Genotypes) GenotypesWithVariant(v *Variant) []*Genotype {
	var out []*Genotype
	for _, g := range gs.List {
		if g.HasVariant(v) {
			out = append(out, g)
		}
	}
	return out
}

// VariantMatrix is a genotype-by-variant table. Pass[i][j] is whether
// Variants[i] passes filters, for genotypes that define it; cells for
// genotypes that do not define the variant are false.
type VariantMatrix struct {
	Genotypes []string
	Variants  []*Variant
	Pass      [][]bool
}

// VariantMatrix builds the presence matrix over AllVariantsSorted.
func (gs *Genotypes) VariantMatrix() (*VariantMatrix, error) {
	if len(gs.List) == 0 {
		return nil, pfx.Err(fmt.Errorf("the collection has no genotypes in it"))
	}

	variants := gs.AllVariantsSorted()
	row := make(map[VariantKey]int, len(variants))
	for i, v := range variants {
		row[v.Key()] = i
	}

	m := &VariantMatrix{
		Genotypes: gs.Names(),
		Variants:  variants,
		Pass:      make([][]bool, len(variants)),
	}
	for i := range m.Pass {
		m.Pass[i] = make([]bool, len(gs.List))
	}

	for j, g := range gs.List {
		for _, v := range g.DefiningVariants() {
			m.Pass[row[v.Key()]][j] = v.PassesFilters
		}
	}

	return m, nil
}
