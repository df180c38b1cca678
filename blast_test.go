package genosnp

import "testing"

func TestParseBlastLine(t *testing.T) {
	b, err := ParseBlastLine("amp1\t1\t20\tgenome7\t500\t481\t98.5\t1e-5\tACGT-ACGT\n")
	if err != nil {
		t.Fatal(err)
	}

	if b.QSeqID != "amp1" || b.SSeqID != "genome7" || b.QEnd != 20 || b.SStart != 500 {
		t.Errorf("Got %+v", b)
	}
	if b.PIdent != 98.5 || b.EValue != 1e-5 {
		t.Errorf("Got pident %v evalue %v", b.PIdent, b.EValue)
	}
	if b.QHitLen() != 8 {
		t.Errorf("Got %d, expected %d", b.QHitLen(), 8)
	}
	if !b.IsFlipped() {
		t.Errorf("Expected the hit to be flipped")
	}
	if got := b.Value(); got != "amp1 1 20 genome7 500 481" {
		t.Errorf("Got %q", got)
	}

	other := *b
	other.QSeqID, other.SSeqID = "amp2", "genome8"
	if !b.CoordinatesMatch(&other) {
		t.Errorf("Hits differing only in IDs should match")
	}
	other.SEnd = 480
	if b.CoordinatesMatch(&other) {
		t.Errorf("Hits with different coordinates should not match")
	}
}

func TestParseBlastLineErrors(t *testing.T) {
	for _, line := range []string{
		"amp1\t1\t20",
		"amp1\tx\t20\tg\t1\t2\t99\t0\tA",
		"amp1\t1\t20\tg\t1\t2\tabc\t0\tA",
	} {
		if _, err := ParseBlastLine(line); err == nil {
			t.Errorf("Expected an error for %q", line)
		}
	}
}
