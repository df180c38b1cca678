package genosnp

// VariantRegistry interns variants so that the same variant seen in several
// VCF files is represented by one instance. Callers own the registry and
// decide its lifetime; independent ingestion runs use independent registries.
type VariantRegistry struct {
	variants map[VariantKey]*Variant
}

func NewVariantRegistry() *VariantRegistry {
	return &VariantRegistry{variants: make(map[VariantKey]*Variant)}
}

// Intern returns the canonical instance for v's identity, inserting v when it
// is new. collision is true when the canonical instance has a different
// reference base from v, which happens when a SNP and an indel are anchored
// at the same position in different samples.
func (r *VariantRegistry) Intern(v *Variant) (canonical *Variant, collision bool) {
	if r.variants == nil {
		r.variants = make(map[VariantKey]*Variant)
	}

	if existing, ok := r.variants[v.Key()]; ok {
		return existing, existing.Ref != v.Ref
	}

	r.variants[v.Key()] = v
	return v, false
}

func (r *VariantRegistry) Get(key VariantKey) (*Variant, bool) {
	v, ok := r.variants[key]
	return v, ok
}

func (r *VariantRegistry) Len() int {
	return len(r.variants)
}

// Reset drops every interned variant.
func (r *VariantRegistry) Reset() {
	r.variants = make(map[VariantKey]*Variant)
}
