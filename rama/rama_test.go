package rama

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/tikz/mutscan/internal/testpdb"
	"github.com/tikz/mutscan/pdb"
)

func atom(x, y, z float64) *pdb.Atom {
	return &pdb.Atom{X: x, Y: y, Z: z}
}

func TestDihedral(t *testing.T) {
	tests := []struct {
		name     string
		a4       *pdb.Atom
		expected float64
	}{
		// First three atoms fixed on a zig-zag; the fourth sets the angle.
		{"trans", atom(2, 1, 0), 180},
		{"cis", atom(2, -1, 0), 0},
		{"plus90", atom(1, 0, 1), 90},
		{"minus90", atom(1, 0, -1), -90},
	}

	a1 := atom(0, -1, 0)
	a2 := atom(0, 0, 0)
	a3 := atom(1, 0, 0)

	for _, tt := range tests {
		got := Dihedral(a1, a2, a3, tt.a4)
		if math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("%s: expected %f, got %f", tt.name, tt.expected, got)
		}
	}
}

func TestPhiPsi(t *testing.T) {
	p := testpdb.Chain("A", 1, 10)

	pairs, err := PhiPsi(p, pdb.Region{Chain: "A", Start: 1, End: 10})
	if err != nil {
		t.Fatal(err)
	}

	// Terminal residues have no phi or no psi.
	if len(pairs) != 8 {
		t.Errorf("expected 8 pairs for 10 residues, got %d", len(pairs))
	}
	if pairs[0].Position != 2 || pairs[len(pairs)-1].Position != 9 {
		t.Errorf("unexpected pair positions %d-%d", pairs[0].Position, pairs[len(pairs)-1].Position)
	}

	// The synthetic chain repeats its geometry, so all pairs agree.
	for _, pair := range pairs[1:] {
		if math.Abs(pair.Phi-pairs[0].Phi) > 1e-9 || math.Abs(pair.Psi-pairs[0].Psi) > 1e-9 {
			t.Errorf("expected uniform dihedrals, got %+v vs %+v", pair, pairs[0])
		}
	}

	if _, err := PhiPsi(p, pdb.Region{Chain: "B", Start: 1, End: 5}); err == nil {
		t.Error("expected error for missing chain")
	}
}

func TestPlot(t *testing.T) {
	pairs := []AnglePair{
		{Position: 1, Phi: -57, Psi: -47},
		{Position: 2, Phi: -60, Psi: -45},
		{Position: 3, Phi: 120, Psi: 130},
	}

	out := filepath.Join(t.TempDir(), "rama.png")
	if err := Plot(pairs, "test region", out); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(out)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("empty plot file")
	}
}
