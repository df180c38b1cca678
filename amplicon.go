package genosnp

import (
	"fmt"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/google/uuid"
)

// Amplicon is a candidate PCR product. Once it has a reference slice its
// sequence is taken from the reference.
type Amplicon struct {
	Name            string
	ID              string
	Variants        []*Variant
	LeftFlankingID  string
	RightFlankingID string
	HasHomologues   bool

	seq    string
	refSeq *ReferenceSequence
}

func NewAmplicon(name, seq string) *Amplicon {
	return &Amplicon{Name: name, ID: uuid.NewString(), seq: seq}
}

// AmpliconFromBED builds an amplicon over the interval of a BED line. The
// name joins the first three columns and, if present, the fourth.
func AmpliconFromBED(line string, ref *ReferenceGenome) (*Amplicon, error) {
	cols := strings.Split(strings.TrimSpace(line), "\t")
	nameCols := cols
	if len(nameCols) > 4 {
		nameCols = nameCols[:4]
	}

	refSeq, err := ReferenceSequenceFromBED(line, ref)
	if err != nil {
		return nil, err
	}

	a := NewAmplicon(strings.Join(nameCols, "_"), refSeq.Sequence)
	a.SetReference(refSeq)
	return a, nil
}

func (a *Amplicon) SetReference(refSeq *ReferenceSequence) {
	a.refSeq = refSeq
}

func (a *Amplicon) HasReference() bool {
	return a.refSeq != nil
}

func (a *Amplicon) Reference() (*ReferenceSequence, error) {
	if a.refSeq == nil {
		return nil, pfx.Err(fmt.Errorf("amplicon %s has no reference", a.Name))
	}
	return a.refSeq, nil
}

func (a *Amplicon) Seq() string {
	if a.refSeq != nil {
		return a.refSeq.Sequence
	}
	return a.seq
}

func (a *Amplicon) Len() int {
	return len(a.Seq())
}

func (a *Amplicon) HasFlanking() bool {
	return a.LeftFlankingID != "" && a.RightFlankingID != ""
}

// ContainsCoordinate reports whether c falls in the amplicon's reference
// interval. The end position is included.
func (a *Amplicon) ContainsCoordinate(c Coordinate) bool {
	if a.refSeq == nil {
		return false
	}
	return c.Contig == a.refSeq.ContigID && c.Position >= a.refSeq.Start && c.Position <= a.refSeq.End
}

func (a *Amplicon) ContainsVariant(v *Variant) bool {
	return a.ContainsCoordinate(v.Coordinate())
}

// FlankingAmplicon is the region immediately left or right of a parent
// amplicon, at most MaxLen long.
type FlankingAmplicon struct {
	*Amplicon
	Parent *Amplicon
	IsLeft bool
	MaxLen int
}

// NewFlankingAmplicon builds the flank of parent and records it on the parent.
func NewFlankingAmplicon(parent *Amplicon, isLeft bool, maxLen int, ref *ReferenceGenome) (*FlankingAmplicon, error) {
	parentRef, err := parent.Reference()
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, pfx.Err(fmt.Errorf("whole reference has not been loaded"))
	}
	contigLen := ref.Len(parentRef.ContigID)
	if contigLen < 0 {
		return nil, pfx.Err(fmt.Errorf("contig %s is not found in reference file", parentRef.ContigID))
	}

	name := parent.Name + "_right"
	start, end := parentRef.End, parentRef.End+maxLen
	if end > contigLen {
		end = contigLen
	}
	if isLeft {
		name = parent.Name + "_left"
		start, end = parentRef.Start-maxLen, parentRef.Start
		if start < 0 {
			start = 0
		}
	}

	refSeq, err := NewReferenceSequence(ref, parentRef.ContigID, start, end)
	if err != nil {
		return nil, err
	}

	fa := &FlankingAmplicon{
		Amplicon: NewAmplicon(name, ""),
		Parent:   parent,
		IsLeft:   isLeft,
		MaxLen:   maxLen,
	}
	fa.SetReference(refSeq)

	if isLeft {
		parent.LeftFlankingID = fa.ID
	} else {
		parent.RightFlankingID = fa.ID
	}
	return fa, nil
}
