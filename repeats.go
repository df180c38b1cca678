package genosnp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
)

// RepeatRegions is the set of (contig, position) pairs excluded from variant
// ingestion. Load it before ingesting and do not reload it while ingestion is
// running.
type RepeatRegions struct {
	coords map[Coordinate]struct{}
	opener *Opener
}

func NewRepeatRegions(opener *Opener) *RepeatRegions {
	if opener == nil {
		opener = NewOpener(nil)
	}
	return &RepeatRegions{coords: make(map[Coordinate]struct{}), opener: opener}
}

// Load replaces the set with every position of every [start, end) interval in
// the BED file at path. An empty path clears the set and succeeds.
func (r *RepeatRegions) Load(path string) (bool, error) {
	r.Clear()
	if path == "" {
		return true, nil
	}

	if r.opener == nil {
		r.opener = NewOpener(nil)
	}
	f, err := r.opener.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if err := r.read(f, path); err != nil {
		return false, err
	}
	return true, nil
}

func (r *RepeatRegions) read(rd io.Reader, path string) error {
	sc := bufio.NewScanner(rd)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 3 {
			return pfx.Err(fmt.Errorf("%s:%d expected at least 3 columns, found %d", path, ln, len(cols)))
		}
		start, err := strconv.Atoi(cols[1])
		if err != nil {
			return pfx.Err(fmt.Errorf("%s:%d bad start: %w", path, ln, err))
		}
		end, err := strconv.Atoi(cols[2])
		if err != nil {
			return pfx.Err(fmt.Errorf("%s:%d bad end: %w", path, ln, err))
		}
		r.Add(cols[0], start, end)
	}
	if err := sc.Err(); err != nil {
		return pfx.Err(err)
	}
	return nil
}

// Add excludes every position in [start, end) on contig.
func (r *RepeatRegions) Add(contig string, start, end int) {
	if r.coords == nil {
		r.coords = make(map[Coordinate]struct{})
	}
	for pos := start; pos < end; pos++ {
		r.coords[Coordinate{Contig: contig, Position: pos}] = struct{}{}
	}
}

func (r *RepeatRegions) Contains(c Coordinate) bool {
	if r == nil {
		return false
	}
	_, ok := r.coords[c]
	return ok
}

func (r *RepeatRegions) Len() int {
	return len(r.coords)
}

func (r *RepeatRegions) Clear() {
	r.coords = make(map[Coordinate]struct{})
}
