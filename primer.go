package genosnp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Primer is one oligo of a primer pair. RefStart is -1 until the primer has
// been placed on the reference.
type Primer struct {
	Seq         string
	GC          float64
	Tm          float64
	IsReverse   bool
	RefStart    int
	SpeciesSNPs int
}

func NewPrimer(seq string, gc, tm float64, isReverse bool) *Primer {
	return &Primer{Seq: seq, GC: gc, Tm: tm, IsReverse: isReverse, RefStart: -1}
}

func (p *Primer) RefEnd() int {
	return p.RefStart + len(p.Seq)
}

func (p *Primer) Len() int {
	return len(p.Seq)
}

// PrimerPair is a forward and reverse primer designed for one or more
// genotype targets. Lower Penalty is better.
type PrimerPair struct {
	ID        string
	Forward   *Primer
	Reverse   *Primer
	RefContig string
	Penalty   float64

	nameSuffix string
	targets    map[string]struct{}
}

func NewPrimerPair(nameSuffix string, forward, reverse *Primer) *PrimerPair {
	return &PrimerPair{
		ID:         uuid.NewString(),
		Forward:    forward,
		Reverse:    reverse,
		RefContig:  "Unknown",
		nameSuffix: nameSuffix,
		targets:    make(map[string]struct{}),
	}
}

// AddTargets adds genotype names to the pair's targets.
func (pp *PrimerPair) AddTargets(names ...string) {
	for _, name := range names {
		pp.targets[name] = struct{}{}
	}
}

// Targets returns the target names sorted.
func (pp *PrimerPair) Targets() []string {
	out := make([]string, 0, len(pp.targets))
	for name := range pp.targets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (pp *PrimerPair) Name() string {
	return strings.Join(pp.Targets(), "/") + pp.nameSuffix
}

func (pp *PrimerPair) SpeciesSNPs() int {
	return pp.Forward.SpeciesSNPs + pp.Reverse.SpeciesSNPs
}

// Length is the product length spanned by the pair on the reference.
func (pp *PrimerPair) Length() int {
	return pp.Reverse.RefEnd() - pp.Forward.RefStart
}

// HasSeq reports whether either primer has sequence seq.
func (pp *PrimerPair) HasSeq(seq string) bool {
	return pp.Forward.Seq == seq || pp.Reverse.Seq == seq
}

// String renders the pair as a tab-separated report row.
func (pp *PrimerPair) String() string {
	return strings.Join([]string{
		pp.Name(),
		fmt.Sprint(pp.Forward.SpeciesSNPs),
		fmt.Sprint(pp.Reverse.SpeciesSNPs),
		fmt.Sprintf("%.2f", pp.Penalty),
		pp.RefContig,
		fmt.Sprint(pp.Forward.RefStart),
		fmt.Sprint(pp.Reverse.RefEnd()),
		fmt.Sprint(pp.Length()),
		pp.Forward.Seq,
		fmt.Sprintf("%.2f", pp.Forward.Tm),
		fmt.Sprintf("%.2f", pp.Forward.GC),
		pp.Reverse.Seq,
		fmt.Sprintf("%.2f", pp.Reverse.Tm),
		fmt.Sprintf("%.2f", pp.Reverse.GC),
	}, "\t")
}
