package genosnp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
)

// BlastOutFormat is the -outfmt value whose rows ParseBlastLine understands.
const BlastOutFormat = "6 qseqid qstart qend sseqid sstart send pident evalue qseq"

// BlastResult is one hit from blastn tabular output.
type BlastResult struct {
	QSeqID        string
	QStart        int
	QEnd          int
	SSeqID        string
	SStart        int
	SEnd          int
	PIdent        float64
	EValue        float64
	QSeq          string
	QueryFileName string
}

// ParseBlastLine parses a row produced with BlastOutFormat.
func ParseBlastLine(line string) (*BlastResult, error) {
	cols := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	if len(cols) < 9 {
		return nil, pfx.Err(fmt.Errorf("BLAST line has %d columns, expected 9: %q", len(cols), line))
	}

	res := &BlastResult{
		QSeqID: cols[0],
		SSeqID: cols[3],
		QSeq:   cols[8],
	}

	ints := []struct {
		dst *int
		col int
	}{{&res.QStart, 1}, {&res.QEnd, 2}, {&res.SStart, 4}, {&res.SEnd, 5}}
	for _, f := range ints {
		n, err := strconv.Atoi(cols[f.col])
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("BLAST line column %d: %w", f.col+1, err))
		}
		*f.dst = n
	}

	var err error
	if res.PIdent, err = strconv.ParseFloat(cols[6], 64); err != nil {
		return nil, pfx.Err(fmt.Errorf("BLAST line pident: %w", err))
	}
	if res.EValue, err = strconv.ParseFloat(cols[7], 64); err != nil {
		return nil, pfx.Err(fmt.Errorf("BLAST line evalue: %w", err))
	}

	return res, nil
}

// QHitLen is the aligned query length without gaps.
func (b *BlastResult) QHitLen() int {
	return len(strings.ReplaceAll(b.QSeq, "-", ""))
}

// IsFlipped reports whether the hit is on the opposite strand of the subject.
func (b *BlastResult) IsFlipped() bool {
	return b.SEnd < b.SStart
}

// CoordinatesMatch reports whether o is the same alignment, ignoring the
// query and subject IDs.
func (b *BlastResult) CoordinatesMatch(o *BlastResult) bool {
	return b.QStart == o.QStart &&
		b.QEnd == o.QEnd &&
		b.SStart == o.SStart &&
		b.SEnd == o.SEnd &&
		b.PIdent == o.PIdent &&
		b.EValue == o.EValue &&
		b.QSeq == o.QSeq
}

func (b *BlastResult) Value() string {
	return fmt.Sprintf("%s %d %d %s %d %d", b.QSeqID, b.QStart, b.QEnd, b.SSeqID, b.SStart, b.SEnd)
}
