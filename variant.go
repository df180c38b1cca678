package genosnp

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/carbocation/pfx"
	"github.com/cespare/xxhash/v2"
)

// Coordinate is a 0-based position on a reference contig.
type Coordinate struct {
	Contig   string
	Position int
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%s:%d", c.Contig, c.Position)
}

// Less orders coordinates by contig name, then by position.
func (c Coordinate) Less(o Coordinate) bool {
	if c.Contig != o.Contig {
		return c.Contig < o.Contig
	}
	return c.Position < o.Position
}

// VariantKey is the identity of a Variant. Two variants with the same key are
// the same variant even if their reference bases or flags differ.
type VariantKey struct {
	Contig   string
	Position int
	Alt      string
}

// Variant is a single-nucleotide difference from the reference at one contig
// position. Position is 0-based, as in BED and BAM; VCF files are 1-based and
// are converted on read and write.
type Variant struct {
	Contig        string
	Position      int
	Ref           string
	Alt           string
	PassesFilters bool
	Sensitivity   float64
	Specificity   float64

	isGenotypeVariant bool
	isSpeciesVariant  bool
}

// VariantConfig lists every field a Variant can be built with. Fields left at
// their zero value take the zero default: not passing filters, zero
// sensitivity and specificity.
type VariantConfig struct {
	Contig        string
	Position      int
	Ref           string
	Alt           string
	PassesFilters bool
	Sensitivity   float64
	Specificity   float64
}

// NewVariant validates cfg and builds a Variant from it.
func NewVariant(cfg VariantConfig) (*Variant, error) {
	if cfg.Contig == "" {
		return nil, pfx.Err(fmt.Errorf("variant contig must not be empty"))
	}
	if cfg.Position < 0 {
		return nil, pfx.Err(fmt.Errorf("variant position %d on %s is negative", cfg.Position, cfg.Contig))
	}
	if cfg.Ref == "" || cfg.Alt == "" {
		return nil, pfx.Err(fmt.Errorf("variant at %s:%d needs both a reference and an alternate base", cfg.Contig, cfg.Position))
	}

	return &Variant{
		Contig:        cfg.Contig,
		Position:      cfg.Position,
		Ref:           cfg.Ref,
		Alt:           cfg.Alt,
		PassesFilters: cfg.PassesFilters,
		Sensitivity:   cfg.Sensitivity,
		Specificity:   cfg.Specificity,
	}, nil
}

func (v *Variant) Key() VariantKey {
	return VariantKey{Contig: v.Contig, Position: v.Position, Alt: v.Alt}
}

func (v *Variant) Coordinate() Coordinate {
	return Coordinate{Contig: v.Contig, Position: v.Position}
}

// Equal reports whether v and o share contig, position and alternate base.
func (v *Variant) Equal(o *Variant) bool {
	return v.Key() == o.Key()
}

// Less orders by contig name, then position. Variants at the same coordinate
// are equivalent under this order regardless of their alternate base.
func (v *Variant) Less(o *Variant) bool {
	return v.Coordinate().Less(o.Coordinate())
}

// Hash is derived from the identity fields only, so Equal variants hash alike.
// It is for callers that bucket or shard variants outside a Go map; the
// registry and samples key their maps on Key directly.
func (v *Variant) Hash() uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(v.Contig)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(strconv.Itoa(v.Position))
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(v.Alt)
	return d.Sum64()
}

func (v *Variant) IsGenotypeVariant() bool { return v.isGenotypeVariant }

func (v *Variant) IsSpeciesVariant() bool { return v.isSpeciesVariant }

// SetGenotypeVariant marks v as genotype-defining and clears the species flag.
func (v *Variant) SetGenotypeVariant(value bool) {
	v.isGenotypeVariant = value
	v.isSpeciesVariant = false
}

// SetSpeciesVariant marks v as species-defining and clears the genotype flag.
func (v *Variant) SetSpeciesVariant(value bool) {
	v.isSpeciesVariant = value
	v.isGenotypeVariant = false
}

// Clone returns an independent copy of v. Variant holds no references, so a
// field copy is a full copy.
func (v *Variant) Clone() *Variant {
	out := *v
	return &out
}

func (v *Variant) String() string {
	return fmt.Sprintf("%s:%d %s>%s", v.Contig, v.Position, v.Ref, v.Alt)
}

// WriteBED writes v as a single-base BED interval named REF/ALT, suffixed with
// the species name or "genotype" when v has been classified.
func (v *Variant) WriteBED(w io.Writer, speciesName string) error {
	name := v.Ref + "/" + v.Alt
	if v.isSpeciesVariant {
		name += "/" + speciesName
	} else if v.isGenotypeVariant {
		name += "/genotype"
	}

	if _, err := fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", v.Contig, v.Position, v.Position+1, name); err != nil {
		return pfx.Err(err)
	}
	return nil
}

// SortVariants sorts in place by contig and position. The sort is stable, so
// variants sharing a coordinate keep their relative order.
func SortVariants(variants []*Variant) {
	sort.SliceStable(variants, func(i, j int) bool {
		return variants[i].Less(variants[j])
	})
}
