package genosnp

// GenotypeVariant pairs a genotype with one of its defining variants.
type GenotypeVariant struct {
	Genotype *Genotype
	Variant  *Variant
}

// Allele is the allele the genotype carries at the variant.
func (gv GenotypeVariant) Allele() (string, error) {
	return gv.Genotype.Allele(gv.Variant)
}

func (gv GenotypeVariant) Depth() (int, error) {
	return gv.Genotype.Depth(gv.Variant)
}
