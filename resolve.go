package genosnp

import (
	"fmt"
	"sort"

	"github.com/carbocation/pfx"
	"github.com/sirupsen/logrus"
)

// PickVCFAllele selects, from the genotype/variant pairs sharing one
// coordinate, the pairs whose allele should be written as the ALT of that
// coordinate. A single pair is returned unchanged. Otherwise it returns an
// empty result when every genotype carries the reference allele. More than
// one result means the coordinate cannot be encoded on a single VCF line.
//
// When the pairs disagree on the reference base, the lexicographically
// smallest one is used for the comparison. If a species-defining variant is
// involved the disagreement is logged to log (nil means the standard logger).
func PickVCFAllele(pairs []GenotypeVariant, log logrus.FieldLogger) ([]GenotypeVariant, error) {
	if len(pairs) == 0 {
		return nil, pfx.Err(fmt.Errorf("empty list of variants provided, at least one variant must be present"))
	}
	if len(pairs) == 1 {
		return pairs, nil
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	alleles := make([]string, len(pairs))
	presentAlleles := make(map[string]struct{})
	refBases := make(map[string]struct{})
	hasSpecies := false
	for i, p := range pairs {
		allele, err := p.Allele()
		if err != nil {
			return nil, err
		}
		alleles[i] = allele
		presentAlleles[allele] = struct{}{}
		refBases[p.Variant.Ref] = struct{}{}
		if p.Variant.IsSpeciesVariant() {
			hasSpecies = true
		}
	}

	refs := make([]string, 0, len(refBases))
	for ref := range refBases {
		refs = append(refs, ref)
	}
	sort.Strings(refs)

	if len(refs) != 1 && hasSpecies {
		// A->T recorded as A/T competing with a deletion of A recorded as CA/A
		positions := make(map[int]struct{})
		for _, p := range pairs {
			positions[p.Variant.Position] = struct{}{}
		}
		log.WithFields(logrus.Fields{
			"contig":     pairs[0].Variant.Contig,
			"positions":  sortedPositions(positions),
			"references": refs,
		}).Warn("Reference position has two alleles. Likely result of SNP and INDEL at same site in different samples. This will be ignored")
	}

	ref := refs[0]
	if _, ok := presentAlleles[ref]; ok && len(presentAlleles) == 1 {
		return []GenotypeVariant{}, nil
	}

	out := make([]GenotypeVariant, 0, len(pairs))
	for i, p := range pairs {
		if alleles[i] != ref {
			out = append(out, p)
		}
	}
	return out, nil
}

func sortedPositions(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for pos := range set {
		out = append(out, pos)
	}
	sort.Ints(out)
	return out
}
