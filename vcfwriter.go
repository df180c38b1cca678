package genosnp

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/sirupsen/logrus"
)

// Per-sample values of the GT:DP column.
const (
	callAbsent        = "0:."
	callNotApplicable = ".:."
	callPresentPrefix = "1:"
	callAbsentPrefix  = "0:"
)

const (
	idPrefixGenotype = "GT"
	idPrefixSpecies  = "Serovar"
)

// VCFWriter encodes a genotype collection as VCF. It only reads the
// collection; do not modify the collection while a write is in progress.
type VCFWriter struct {
	Opener  *Opener
	Log     logrus.FieldLogger
	Metrics *Metrics
}

func (vw *VCFWriter) log() logrus.FieldLogger {
	if vw.Log == nil {
		return logrus.StandardLogger()
	}
	return vw.Log
}

// WriteGenotypeVCFFile writes the genotype-oriented VCF to path, replacing
// any existing file.
func (vw *VCFWriter) WriteGenotypeVCFFile(gts *Genotypes, path string) error {
	return vw.writeFile(path, func(w io.Writer) error { return vw.WriteGenotypeVCF(gts, w) })
}

// WriteSpeciesVCFFile writes the species-oriented VCF to path, replacing any
// existing file.
func (vw *VCFWriter) WriteSpeciesVCFFile(gts *Genotypes, path string) error {
	return vw.writeFile(path, func(w io.Writer) error { return vw.WriteSpeciesVCF(gts, w) })
}

func (vw *VCFWriter) writeFile(path string, write func(io.Writer) error) error {
	opener := vw.Opener
	if opener == nil {
		opener = NewOpener(nil)
	}

	f, err := opener.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		// Leave any previous output in place
		f.Abort()
		return err
	}
	if err := f.Close(); err != nil {
		return pfx.Err(err)
	}
	return nil
}

// WriteGenotypeVCF writes one column per genotype. For every coordinate with
// a single ALT-bearing genotype, the columns of that genotype's sub-genotypes
// carry its call and depth.
func (vw *VCFWriter) WriteGenotypeVCF(gts *Genotypes, w io.Writer) error {
	bw := bufio.NewWriter(w)
	columns, err := writeVCFHeader(bw, gts)
	if err != nil {
		return err
	}

	for _, c := range gts.Coordinates() {
		winner, ok, err := vw.resolve(gts, c, OutputGenotype)
		if err != nil {
			return err
		} else if !ok {
			continue
		}

		calls, err := genotypeCalls(winner, columns, gts.Len())
		if err != nil {
			return err
		}
		id := genotypeRecordID(winner)
		if err := writeVCFRecord(bw, winner.Variant, id, calls); err != nil {
			return err
		}
		vw.Metrics.recordWritten(OutputGenotype)
	}

	if err := bw.Flush(); err != nil {
		return pfx.Err(err)
	}
	return nil
}

// WriteSpeciesVCF is WriteGenotypeVCF with the species pseudo-genotype (the
// last genotype) treated specially: its column is not applicable on records
// won by other genotypes, and records it wins mark only its own column.
func (vw *VCFWriter) WriteSpeciesVCF(gts *Genotypes, w io.Writer) error {
	species := gts.Species()
	if species == nil {
		return pfx.Err(fmt.Errorf("a species VCF needs at least one genotype"))
	}

	bw := bufio.NewWriter(w)
	columns, err := writeVCFHeader(bw, gts)
	if err != nil {
		return err
	}
	speciesColumn := columns[species.Name]

	for _, c := range gts.Coordinates() {
		winner, ok, err := vw.resolve(gts, c, OutputSpecies)
		if err != nil {
			return err
		} else if !ok {
			continue
		}

		var (
			id    string
			calls []string
		)
		if winner.Genotype != species {
			calls, err = genotypeCalls(winner, columns, gts.Len())
			if err != nil {
				return err
			}
			// Predominant species call is not assessed for sub-species winners
			calls[speciesColumn] = callNotApplicable
			id = genotypeRecordID(winner)
		} else {
			depth, err := species.Depth(winner.Variant)
			if err != nil {
				return err
			}
			calls = filledCalls(gts.Len(), callAbsent)
			calls[speciesColumn] = callPresentPrefix + strconv.Itoa(depth)
			v := winner.Variant
			id = strings.Join([]string{idPrefixSpecies, v.Contig, strconv.Itoa(v.Position + 1), v.Alt}, "_")
		}

		if err := writeVCFRecord(bw, winner.Variant, id, calls); err != nil {
			return err
		}
		vw.Metrics.recordWritten(OutputSpecies)
	}

	if err := bw.Flush(); err != nil {
		return pfx.Err(err)
	}
	return nil
}

// resolve picks the single pair to encode at c. ok is false when the
// coordinate is skipped.
func (vw *VCFWriter) resolve(gts *Genotypes, c Coordinate, output string) (winner GenotypeVariant, ok bool, err error) {
	alts, err := PickVCFAllele(gts.AtCoordinate(c), vw.log())
	if err != nil {
		return GenotypeVariant{}, false, err
	}

	fields := logrus.Fields{
		"output":   output,
		"contig":   c.Contig,
		"position": c.Position + 1,
	}
	switch len(alts) {
	case 0:
		vw.log().WithFields(fields).Warn("Variant found, but no genotype with alt allele present")
		vw.Metrics.coordinateSkipped(output, ReasonNoAlt)
		return GenotypeVariant{}, false, nil
	case 1:
	default:
		names := make([]string, 0, len(alts))
		for _, p := range alts {
			names = append(names, p.Genotype.Name)
		}
		fields["genotypes"] = names
		vw.log().WithFields(fields).Warn("Excess alleles at position")
		vw.Metrics.coordinateSkipped(output, ReasonConflict)
		return GenotypeVariant{}, false, nil
	}

	if !alts[0].Variant.PassesFilters {
		vw.Metrics.coordinateSkipped(output, ReasonFiltered)
		return GenotypeVariant{}, false, nil
	}
	return alts[0], true, nil
}

// genotypeCalls fills the sub-genotype columns of the winning genotype with
// its depth, flagged present when the genotype carries the ALT.
func genotypeCalls(winner GenotypeVariant, columns map[string]int, n int) ([]string, error) {
	allele, err := winner.Allele()
	if err != nil {
		return nil, err
	}
	depth, err := winner.Depth()
	if err != nil {
		return nil, err
	}

	prefix := callAbsentPrefix
	if allele == winner.Variant.Alt {
		prefix = callPresentPrefix
	}

	calls := filledCalls(n, callAbsent)
	for _, sub := range winner.Genotype.Subgenotypes {
		// A sub-genotype only has a column when it is itself a target
		if i, ok := columns[sub]; ok {
			calls[i] = prefix + strconv.Itoa(depth)
		}
	}
	return calls, nil
}

func genotypeRecordID(winner GenotypeVariant) string {
	v := winner.Variant
	return strings.Join([]string{idPrefixGenotype, winner.Genotype.Name, v.Contig, strconv.Itoa(v.Position + 1)}, "_")
}

func filledCalls(n int, value string) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = value
	}
	return out
}

// writeVCFHeader writes the meta lines and the column header row, and returns
// the column index of each genotype name.
func writeVCFHeader(w io.Writer, gts *Genotypes) (map[string]int, error) {
	lines := []string{
		"##fileformat=" + VCFVersion,
		`##FILTER=<ID=PASS,Description="All filters passed">`,
		`##ALT=<ID=*,Description="Represents allele(s) other than observed.">`,
	}

	// Contig length is approximated by the furthest defining variant
	maxPosition := make(map[string]int)
	for _, g := range gts.List {
		for _, v := range g.DefiningVariants() {
			if cur, ok := maxPosition[v.Contig]; !ok || v.Position > cur {
				maxPosition[v.Contig] = v.Position
			}
		}
	}
	contigs := make([]string, 0, len(maxPosition))
	for contig := range maxPosition {
		contigs = append(contigs, contig)
	}
	sort.Strings(contigs)
	for _, contig := range contigs {
		lines = append(lines, fmt.Sprintf("##contig=<ID=%s,length=%d>", contig, maxPosition[contig]))
	}

	header := []string{HeaderMarker, "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO", "FORMAT"}
	columns := make(map[string]int, gts.Len())
	for i, g := range gts.List {
		header = append(header, g.Name)
		columns[g.Name] = i
	}
	lines = append(lines, strings.Join(header, "\t"))

	for _, line := range lines {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return nil, pfx.Err(err)
		}
	}
	return columns, nil
}

func writeVCFRecord(w io.Writer, v *Variant, id string, calls []string) error {
	fields := append([]string{
		v.Contig,
		strconv.Itoa(v.Position + 1),
		id,
		v.Ref,
		v.Alt,
		".",
		"PASS",
		".",
		"GT:DP",
	}, calls...)

	if _, err := io.WriteString(w, strings.Join(fields, "\t")+"\n"); err != nil {
		return pfx.Err(err)
	}
	return nil
}
