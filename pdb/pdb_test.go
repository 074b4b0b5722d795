package pdb

import (
	"fmt"
	"strings"
	"testing"
)

// fakeAtom renders a single full-width ATOM record.
func fakeAtom(serial int64, name, resName, chain string, resNum int64, x, y, z float64) string {
	if len(name) < 4 {
		name = " " + name
	}
	return fmt.Sprintf("ATOM  %5d %-4s %-3s %1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f           C  \n",
		serial, name, resName, chain, resNum, x, y, z, 1.0, 20.0)
}

// fakeChain renders a poly-alanine chain with one residue per position,
// alpha carbons spaced 3.8 units apart on the x axis.
func fakeChain(chain string, start, end int64) string {
	var b strings.Builder
	serial := int64(1)
	for i := start; i <= end; i++ {
		x := float64(i) * 3.8
		b.WriteString(fakeAtom(serial, "N", "ALA", chain, i, x-0.5, 1.0, 0.0))
		b.WriteString(fakeAtom(serial+1, "CA", "ALA", chain, i, x, 0.0, 0.0))
		b.WriteString(fakeAtom(serial+2, "C", "ALA", chain, i, x+0.5, -1.0, 0.0))
		b.WriteString(fakeAtom(serial+3, "O", "ALA", chain, i, x+0.5, -2.0, 0.5))
		serial += 4
	}
	return b.String()
}

func TestParseRawChains(t *testing.T) {
	raw := fakeChain("A", 1, 10)

	p, err := ParseRaw([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}

	if p.TotalLength != 10 {
		t.Errorf("expected 10 residues, got %d", p.TotalLength)
	}

	res, err := p.Residue("A", 5)
	if err != nil {
		t.Fatal(err)
	}
	if res.Name != "Alanine" {
		t.Errorf("expected Alanine in A-5, got %s", res.Name)
	}
	if len(res.Atoms) != 4 {
		t.Errorf("expected 4 atoms in A-5, got %d", len(res.Atoms))
	}
	if ca := res.Alpha(); ca == nil || ca.X != 5*3.8 {
		t.Errorf("unexpected alpha carbon for A-5: %+v", ca)
	}

	if p.ChainStartResNumber["A"] != 1 || p.ChainEndResNumber["A"] != 10 {
		t.Errorf("unexpected chain bounds %d-%d", p.ChainStartResNumber["A"], p.ChainEndResNumber["A"])
	}
}

func TestSequence(t *testing.T) {
	raw := fakeChain("A", 1, 3)
	p, err := ParseRaw([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}

	if seq := p.Sequence("A"); seq != "AAA" {
		t.Errorf("expected AAA, got %s", seq)
	}
}

func TestDistances(t *testing.T) {
	raw := fakeChain("A", 1, 2)
	p, _ := ParseRaw([]byte(raw))

	r1, _ := p.Residue("A", 1)
	r2, _ := p.Residue("A", 2)

	d := AlphaDistance(r1, r2)
	if d < 3.79 || d > 3.81 {
		t.Errorf("expected CA-CA distance 3.8, got %f", d)
	}

	if min := ResiduesDistance(r1, r2); min > d {
		t.Errorf("closest atom pair distance %f larger than CA distance %f", min, d)
	}
}

func TestCloneIndependence(t *testing.T) {
	p, _ := ParseRaw([]byte(fakeChain("A", 1, 5)))

	clone := p.Clone()
	if err := clone.Rename("A", 3, "VAL"); err != nil {
		t.Fatal(err)
	}

	orig, _ := p.Residue("A", 3)
	if orig.Name3 != "Ala" {
		t.Errorf("original structure mutated: %s", orig.Name3)
	}

	mut, _ := clone.Residue("A", 3)
	if mut.Name1 != "V" {
		t.Errorf("expected V in clone A-3, got %s", mut.Name1)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	p, _ := ParseRaw([]byte(fakeChain("B", 2, 6)))

	q, err := ParseRaw([]byte(p.Records()))
	if err != nil {
		t.Fatal(err)
	}

	if q.TotalLength != p.TotalLength {
		t.Errorf("round trip changed length: %d != %d", q.TotalLength, p.TotalLength)
	}

	a1, _ := p.Residue("B", 4)
	a2, _ := q.Residue("B", 4)
	if a1.Alpha().X != a2.Alpha().X {
		t.Errorf("round trip changed coordinates: %f != %f", a1.Alpha().X, a2.Alpha().X)
	}
}

func TestRegion(t *testing.T) {
	p, _ := ParseRaw([]byte(fakeChain("A", 1, 20)))

	if _, err := NewRegion("A", 10, 5); err == nil {
		t.Error("expected error for inverted bounds")
	}

	region, err := NewRegion("A", 5, 9)
	if err != nil {
		t.Fatal(err)
	}
	if err := region.Check(p); err != nil {
		t.Error(err)
	}
	if n := len(region.Residues(p)); n != 5 {
		t.Errorf("expected 5 residues in region, got %d", n)
	}

	out := Region{Chain: "A", Start: 15, End: 25}
	if err := out.Check(p); err == nil {
		t.Error("expected out of range error")
	}

	w := Window(p, "A", 2, 5)
	if w.Start != 1 || w.End != 7 {
		t.Errorf("expected clamped window 1-7, got %d-%d", w.Start, w.End)
	}
}
