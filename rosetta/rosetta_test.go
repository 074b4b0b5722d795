package rosetta

import (
	"os"
	"strings"
	"testing"

	"github.com/tikz/mutscan/internal/testpdb"
	"github.com/tikz/mutscan/mutation"
	"github.com/tikz/mutscan/pdb"
)

func TestStageLeavesCallerPath(t *testing.T) {
	r, err := NewRosetta(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	// An in-memory structure must stay in-memory after staging, so a
	// later secondary structure run stages its own fresh copy instead
	// of pointing at the removed job dir.
	p := testpdb.Chain("A", 1, 5)
	jobDir, pdbPath, err := r.stage(p)
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(jobDir)

	if p.LocalPath != "" {
		t.Errorf("staging changed the caller's local path to %q", p.LocalPath)
	}
	if fileNotExist(pdbPath) {
		t.Errorf("staged copy %s not written", pdbPath)
	}

	// A structure loaded from disk keeps pointing at its own file.
	q := testpdb.Chain("A", 1, 5)
	q.LocalPath = "/data/base.pdb"
	jobDir, _, err = r.stage(q)
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(jobDir)

	if q.LocalPath != "/data/base.pdb" {
		t.Errorf("staging changed the caller's local path to %q", q.LocalPath)
	}
}

func TestExtractTotalScore(t *testing.T) {
	scorefile := `SEQUENCE:
SCORE: total_score       fa_atr       fa_rep description
SCORE:    -245.187    -1020.513      120.114 base_0001
`
	score, err := extractTotalScore([]byte(scorefile))
	if err != nil {
		t.Fatal(err)
	}
	if score != -245.187 {
		t.Errorf("expected -245.187, got %f", score)
	}
}

func TestExtractTotalScoreMissing(t *testing.T) {
	if _, err := extractTotalScore([]byte("SEQUENCE: \n")); err == nil {
		t.Error("expected error on empty scorefile")
	}
}

func TestResfile(t *testing.T) {
	comb := mutation.Combination{{Position: 129, To: "A"}, {Position: 137, To: "V"}}
	out := resfile("A", comb)

	expected := "NATRO\nstart\n129 A PIKAA A\n137 A PIKAA V\n"
	if out != expected {
		t.Errorf("expected %q, got %q", expected, out)
	}
}

func TestMovemap(t *testing.T) {
	windows := []pdb.Region{
		{Chain: "A", Start: 124, End: 134},
		{Chain: "A", Start: 132, End: 142},
	}
	out := movemap(windows)

	if !strings.HasPrefix(out, "RESIDUE * CHI\n") {
		t.Errorf("movemap missing global chi line: %q", out)
	}
	if !strings.Contains(out, "RESIDUE 124 134 BBCHI") || !strings.Contains(out, "RESIDUE 132 142 BBCHI") {
		t.Errorf("movemap missing window lines: %q", out)
	}
}
