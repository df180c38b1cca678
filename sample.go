package genosnp

import (
	"github.com/google/uuid"
)

// Sample holds the variants observed in one VCF file.
type Sample struct {
	Name     string
	VCFPath  string
	ID       string
	Genotype string

	variants []*Variant
	seen     map[VariantKey]struct{}
}

func NewSample(name, vcfPath string) *Sample {
	return &Sample{
		Name:    name,
		VCFPath: vcfPath,
		ID:      uuid.NewString(),
		seen:    make(map[VariantKey]struct{}),
	}
}

// Variants returns the sample's variants in the order they were added. The
// slice is shared; do not modify it.
func (s *Sample) Variants() []*Variant {
	return s.variants
}

func (s *Sample) Contains(v *Variant) bool {
	_, ok := s.seen[v.Key()]
	return ok
}

// Add appends v unless a variant with the same identity is already present.
// It reports whether v was added.
func (s *Sample) Add(v *Variant) bool {
	if s.seen == nil {
		s.seen = make(map[VariantKey]struct{})
	}
	if _, ok := s.seen[v.Key()]; ok {
		return false
	}
	s.seen[v.Key()] = struct{}{}
	s.variants = append(s.variants, v)
	return true
}
