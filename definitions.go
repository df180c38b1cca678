package genosnp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
)

// Values of the kind column of a genotype definitions file.
const (
	KindGenotype = "genotype"
	KindSpecies  = "species"
)

var definitionColumns = []string{"genotype", "contig", "pos", "ref", "alt", "allele", "depth", "passes", "kind"}

// ReadGenotypeDefinitions reads the defining variants chosen by a
// classification step, one per line:
//
//	genotype contig pos ref alt allele depth passes kind
//
// with pos 1-based, passes a boolean and kind either "genotype" or "species".
// Lines starting with # are ignored. Variants are interned in registry, and
// the filter and classification flags of the canonical instance are set from
// the file. Genotypes keep the order in which they first appear, except that
// the genotype named speciesName is moved last. It is an error for
// speciesName to name no genotype; an empty speciesName leaves the order alone.
func ReadGenotypeDefinitions(r io.Reader, registry *VariantRegistry, speciesName string) (*Genotypes, error) {
	gts := NewGenotypes()
	sc := bufio.NewScanner(r)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		cols := strings.Split(line, "\t")
		if len(cols) != len(definitionColumns) {
			return nil, pfx.Err(fmt.Errorf("line %d: expected %d columns (%s), found %d", ln, len(definitionColumns), strings.Join(definitionColumns, " "), len(cols)))
		}

		pos1, err := strconv.Atoi(cols[2])
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("line %d: bad pos: %w", ln, err))
		}
		depth, err := strconv.Atoi(cols[6])
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("line %d: bad depth: %w", ln, err))
		}
		passes, err := strconv.ParseBool(cols[7])
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("line %d: bad passes: %w", ln, err))
		}

		v, err := NewVariant(VariantConfig{
			Contig:        cols[1],
			Position:      pos1 - 1,
			Ref:           cols[3],
			Alt:           cols[4],
			PassesFilters: passes,
		})
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("line %d: %w", ln, err))
		}
		canonical, _ := registry.Intern(v)
		canonical.PassesFilters = passes

		switch cols[8] {
		case KindSpecies:
			canonical.SetSpeciesVariant(true)
		case KindGenotype:
			canonical.SetGenotypeVariant(true)
		default:
			return nil, pfx.Err(fmt.Errorf("line %d: kind must be %q or %q, found %q", ln, KindGenotype, KindSpecies, cols[8]))
		}

		g := gts.Get(cols[0])
		if g == nil {
			g = NewGenotype(cols[0])
			gts.List = append(gts.List, g)
		}
		g.AddGenotypeAllele(canonical, cols[5], depth)
	}
	if err := sc.Err(); err != nil {
		return nil, pfx.Err(err)
	}

	if speciesName == "" {
		return gts, nil
	}

	speciesIndex := -1
	for i, g := range gts.List {
		if g.Name == speciesName {
			speciesIndex = i
			break
		}
	}
	if speciesIndex < 0 {
		return nil, pfx.Err(fmt.Errorf("species genotype %q is not among the %d genotypes defined", speciesName, gts.Len()))
	}
	if species := gts.List[speciesIndex]; speciesIndex != len(gts.List)-1 {
		gts.List = append(append(gts.List[:speciesIndex:speciesIndex], gts.List[speciesIndex+1:]...), species)
	}

	return gts, nil
}

// ReadHierarchy reads "parent<TAB>child[,child...]" lines and adds each child
// to the parent's sub-genotypes. Parents that are not in gts are ignored.
func ReadHierarchy(r io.Reader, gts *Genotypes) error {
	sc := bufio.NewScanner(r)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		cols := strings.Split(line, "\t")
		if len(cols) != 2 {
			return pfx.Err(fmt.Errorf("line %d: expected parent and children columns, found %d columns", ln, len(cols)))
		}
		parent := gts.Get(cols[0])
		if parent == nil {
			continue
		}
		for _, child := range strings.Split(cols[1], ",") {
			if child = strings.TrimSpace(child); child != "" {
				parent.AddSubgenotype(child)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return pfx.Err(err)
	}
	return nil
}
