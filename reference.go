package genosnp

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/biogo/hts/fai"
	"github.com/carbocation/pfx"
)

// ReferenceGenome holds every contig of a reference FASTA. It is built once
// and never modified, so one instance can be shared by every consumer.
type ReferenceGenome struct {
	contigs map[string]string
	names   []string
}

// LoadReferenceGenome reads a FASTA file. Lines within a record must have a
// consistent width, as required for faidx indexing.
func LoadReferenceGenome(r io.Reader) (*ReferenceGenome, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, pfx.Err(err)
	}

	idx, err := fai.NewIndex(bytes.NewReader(data))
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("could not index reference FASTA: %w", err))
	}
	file := fai.NewFile(bytes.NewReader(data), idx)

	ref := &ReferenceGenome{contigs: make(map[string]string, len(idx))}
	for name := range idx {
		seq, err := file.Seq(name)
		if err != nil {
			return nil, pfx.Err(err)
		}
		b, err := io.ReadAll(seq)
		if err != nil {
			return nil, pfx.Err(err)
		}
		ref.contigs[name] = string(b)
		ref.names = append(ref.names, name)
	}
	sort.Strings(ref.names)

	return ref, nil
}

// LoadReferenceGenomeFile reads the FASTA at path through opener.
func LoadReferenceGenomeFile(opener *Opener, path string) (*ReferenceGenome, error) {
	if opener == nil {
		opener = NewOpener(nil)
	}
	f, err := opener.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadReferenceGenome(f)
}

// Contigs returns the contig names in sorted order.
func (g *ReferenceGenome) Contigs() []string {
	return append([]string(nil), g.names...)
}

func (g *ReferenceGenome) Sequence(contig string) (string, bool) {
	seq, ok := g.contigs[contig]
	return seq, ok
}

// Len is the length of contig, or -1 if the contig is unknown.
func (g *ReferenceGenome) Len(contig string) int {
	seq, ok := g.contigs[contig]
	if !ok {
		return -1
	}
	return len(seq)
}

// ReferenceSequence is the [Start, End) slice of a reference contig.
type ReferenceSequence struct {
	ContigID string
	Start    int
	End      int
	Sequence string
}

// NewReferenceSequence slices [start, end) out of contig.
func NewReferenceSequence(ref *ReferenceGenome, contig string, start, end int) (*ReferenceSequence, error) {
	if ref == nil || len(ref.contigs) == 0 {
		return nil, pfx.Err(fmt.Errorf("whole reference has not been loaded"))
	}
	seq, ok := ref.contigs[contig]
	if !ok {
		return nil, pfx.Err(fmt.Errorf("contig %s is not found in reference file", contig))
	}
	if start < 0 || start > end {
		return nil, pfx.Err(fmt.Errorf("interval %d-%d on contig %s is not valid", start, end, contig))
	}
	if len(seq) < end {
		return nil, pfx.Err(fmt.Errorf("contig %s is shorter, %d nt, than end position in the bedfile: %d", contig, len(seq), end))
	}

	return &ReferenceSequence{
		ContigID: contig,
		Start:    start,
		End:      end,
		Sequence: seq[start:end],
	}, nil
}

// ReferenceSequenceFromBED slices the interval named by the first three
// columns of a BED line.
func ReferenceSequenceFromBED(line string, ref *ReferenceGenome) (*ReferenceSequence, error) {
	contig, start, end, err := parseBEDInterval(line)
	if err != nil {
		return nil, err
	}
	return NewReferenceSequence(ref, contig, start, end)
}

func parseBEDInterval(line string) (contig string, start, end int, err error) {
	cols := strings.Split(strings.TrimSpace(line), "\t")
	if len(cols) < 3 {
		return "", 0, 0, pfx.Err(fmt.Errorf("BED line %q has fewer than 3 columns", line))
	}
	if start, err = strconv.Atoi(cols[1]); err != nil {
		return "", 0, 0, pfx.Err(fmt.Errorf("BED line %q has a bad start: %w", line, err))
	}
	if end, err = strconv.Atoi(cols[2]); err != nil {
		return "", 0, 0, pfx.Err(fmt.Errorf("BED line %q has a bad end: %w", line, err))
	}
	return cols[0], start, end, nil
}
