package genosnp

import (
	"fmt"

	"github.com/carbocation/pfx"
)

// alleleCall is the allele and read depth a genotype carries at one of its
// defining variants. Keeping both in one entry means neither can exist
// without the other.
type alleleCall struct {
	variant *Variant
	allele  string
	depth   int
}

// Genotype is a named group defined by a set of variants with expected
// alleles and depths. A genotype is always one of its own sub-genotypes.
type Genotype struct {
	Name         string
	Subgenotypes []string
	Amplicons    []*Amplicon

	calls map[VariantKey]*alleleCall
	order []VariantKey
}

func NewGenotype(name string) *Genotype {
	return &Genotype{
		Name:         name,
		Subgenotypes: []string{name},
		calls:        make(map[VariantKey]*alleleCall),
	}
}

// GenotypeConfig lists every field a Genotype can be built with.
type GenotypeConfig struct {
	Name string

	// Subgenotypes need not include Name; it is added if absent.
	Subgenotypes []string
}

// NewGenotypeFromConfig validates cfg and builds a Genotype from it.
func NewGenotypeFromConfig(cfg GenotypeConfig) (*Genotype, error) {
	if cfg.Name == "" {
		return nil, pfx.Err(fmt.Errorf("genotype name must not be empty"))
	}
	for _, sub := range cfg.Subgenotypes {
		if sub == "" {
			return nil, pfx.Err(fmt.Errorf("genotype %s has an empty sub-genotype name", cfg.Name))
		}
	}

	g := NewGenotype(cfg.Name)
	if len(cfg.Subgenotypes) > 0 {
		g.SetSubgenotypes(cfg.Subgenotypes)
	}
	return g, nil
}

// SetSubgenotypes replaces the sub-genotype list, keeping the genotype's own
// name first and dropping duplicates.
func (g *Genotype) SetSubgenotypes(names []string) {
	out := []string{g.Name}
	seen := map[string]struct{}{g.Name: {}}
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	g.Subgenotypes = out
}

// AddSubgenotype appends name to the sub-genotype list if it is not there yet.
func (g *Genotype) AddSubgenotype(name string) {
	for _, existing := range g.Subgenotypes {
		if existing == name {
			return
		}
	}
	g.Subgenotypes = append(g.Subgenotypes, name)
}

// AddGenotypeAllele records v as a defining variant of g with the given
// allele and depth. Adding an equal variant again replaces its call.
func (g *Genotype) AddGenotypeAllele(v *Variant, allele string, depth int) {
	if g.calls == nil {
		g.calls = make(map[VariantKey]*alleleCall)
	}

	key := v.Key()
	if _, ok := g.calls[key]; !ok {
		g.order = append(g.order, key)
	}
	g.calls[key] = &alleleCall{variant: v, allele: allele, depth: depth}
}

func (g *Genotype) call(v *Variant) (*alleleCall, error) {
	c, ok := g.calls[v.Key()]
	if !ok {
		return nil, &MissingEntityError{Genotype: g.Name, Coordinate: v.Coordinate()}
	}
	return c, nil
}

// Allele returns the allele g carries at v.
func (g *Genotype) Allele(v *Variant) (string, error) {
	c, err := g.call(v)
	if err != nil {
		return "", err
	}
	return c.allele, nil
}

// Depth returns the read depth backing g's allele at v.
func (g *Genotype) Depth(v *Variant) (int, error) {
	c, err := g.call(v)
	if err != nil {
		return 0, err
	}
	return c.depth, nil
}

func (g *Genotype) HasVariant(v *Variant) bool {
	_, ok := g.calls[v.Key()]
	return ok
}

// DefiningVariants returns g's defining variants in the order they were added.
func (g *Genotype) DefiningVariants() []*Variant {
	out := make([]*Variant, 0, len(g.order))
	for _, key := range g.order {
		out = append(out, g.calls[key].variant)
	}
	return out
}

// DefiningCoordinates returns the coordinates of the defining variants that
// pass filters.
func (g *Genotype) DefiningCoordinates() []Coordinate {
	var out []Coordinate
	for _, key := range g.order {
		if v := g.calls[key].variant; v.PassesFilters {
			out = append(out, v.Coordinate())
		}
	}
	return out
}
