package genosnp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
)

// VariantReader reads the data rows of a single-sample VCF file. Rows inside
// repeat regions and multi-allelic rows are skipped and counted.
type VariantReader struct {
	RowsSeen            int
	RepeatSkipped       int
	MultiallelicSkipped int

	filename string
	r        *bufio.Reader
	repeats  *RepeatRegions
	err      error
	done     bool
}

// NewVariantReader reads rows from r, which should be positioned after the
// header row (see DetermineVCFType). repeats may be nil.
func NewVariantReader(r *bufio.Reader, filename string, repeats *RepeatRegions) *VariantReader {
	return &VariantReader{
		filename: filename,
		r:        r,
		repeats:  repeats,
	}
}

func (vr *VariantReader) Error() error {
	return vr.err
}

// Read returns the next variant, or nil once the input is exhausted or an
// error occurred. Check Error after Read returns nil.
func (vr *VariantReader) Read() *Variant {
	for !vr.done {
		line, err := vr.r.ReadString('\n')
		if err == io.EOF {
			vr.done = true
		} else if err != nil {
			vr.err = pfx.Err(err)
			vr.done = true
			return nil
		}

		line = strings.TrimRight(line, "\r\n")
		if line == "" || line[0] == '#' {
			continue
		}
		vr.RowsSeen++

		v, err := vr.parseRow(line)
		if err != nil {
			vr.err = err
			vr.done = true
			return nil
		}
		if v != nil {
			return v
		}
	}

	return nil
}

// parseRow returns nil without error for rows that are skipped.
func (vr *VariantReader) parseRow(line string) (*Variant, error) {
	cols := strings.Split(line, "\t")
	if len(cols) < minVCFColumns {
		return nil, &FormatError{
			File:       vr.filename,
			Coordinate: fmt.Sprintf("row %d", vr.RowsSeen),
			Msg:        fmt.Sprintf("row has %d columns, expected %d", len(cols), minVCFColumns),
		}
	}

	contig := cols[colChrom]
	pos1, err := strconv.Atoi(cols[colPos])
	if err != nil {
		return nil, &FormatError{
			File:       vr.filename,
			Coordinate: contig + ":" + cols[colPos],
			Msg:        "POS is not an integer",
		}
	}
	where := fmt.Sprintf("%s:%d", contig, pos1)

	// VCF is 1-based, everything downstream is 0-based
	c := Coordinate{Contig: contig, Position: pos1 - 1}
	if vr.repeats.Contains(c) {
		vr.RepeatSkipped++
		return nil, nil
	}

	ref, alt := cols[colRef], cols[colAlt]
	if strings.Contains(alt, ",") {
		vr.MultiallelicSkipped++
		return nil, nil
	}

	gtIndex := -1
	for i, field := range strings.Split(cols[colFormat], ":") {
		if field == "GT" {
			gtIndex = i
			break
		}
	}
	if gtIndex < 0 {
		return nil, &FormatError{
			File:       vr.filename,
			Coordinate: where,
			Msg:        "does not have genotype code [GT] in FORMAT column",
		}
	}

	values := strings.Split(cols[colFirstSample], ":")
	if gtIndex >= len(values) {
		return nil, &FormatError{
			File:       vr.filename,
			Coordinate: where,
			Msg:        "does not have genotype code [GT] in SAMPLE column",
		}
	}

	allele := alt
	if values[gtIndex] == "0" {
		allele = ref
	}

	return &Variant{
		Contig:   c.Contig,
		Position: c.Position,
		Ref:      ref,
		Alt:      allele,
	}, nil
}
