package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tikz/mutscan/internal/testpdb"
)

// writeFixtures lays out a minimal run on disk: a 30 residue base chain,
// a partner structure and an alignment of three identical sequences.
func writeFixtures(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()

	basePath := filepath.Join(dir, "base.pdb")
	require.NoError(t, os.WriteFile(basePath, []byte(testpdb.Raw("A", 1, 30, nil)), 0644))

	partnerPath := filepath.Join(dir, "partner.pdb")
	require.NoError(t, os.WriteFile(partnerPath, []byte(testpdb.Raw("B", 1, 10, nil)), 0644))

	seq := strings.Repeat("A", 30)
	msa := ">reference\n" + seq + "\n>homolog1\n" + seq + "\n>homolog2\n" + seq + "\n"
	msaPath := filepath.Join(dir, "msa.fasta")
	require.NoError(t, os.WriteFile(msaPath, []byte(msa), 0644))

	return Config{
		BaseStructurePath: basePath,
		AlignmentPath:     msaPath,
		Chain:             "A",
		Sites:             []int64{10, 20},
		Alphabet:          []string{"ALA", "VAL"},
		WindowStart:       5,
		WindowEnd:         15,
		RegionStart:       8,
		RegionEnd:         12,
		ResultsDir:        filepath.Join(dir, "results"),
		Comparisons: []Comparison{{
			Name:          "tuba",
			StructurePath: partnerPath,
			Chain:         "B",
			RegionStart:   2,
			RegionEnd:     8,
		}},
	}
}

func testEngines(scorer Scorer, geom *fakeGeometry) Engines {
	return Engines{
		Scorer:    scorer,
		Modeler:   fakeModeler{},
		Secondary: allHelical(),
		Geometry:  geom,
	}
}

func TestRun(t *testing.T) {
	cfg := writeFixtures(t)
	geom := &fakeGeometry{contact: 100}

	pl, err := New(cfg, testEngines(constScorer(-10), geom))
	require.NoError(t, err)
	assert.Equal(t, -10.0, pl.WildTypeScore())

	table, err := pl.Run()
	require.NoError(t, err)

	// Two sites times two replacements: four candidates, all accepted.
	// Each one yields seven structural metrics, four viability metrics
	// and four interface metrics against the single comparison.
	assert.Equal(t, 4*15, table.Len())

	for _, name := range []string{"A10A_A20A", "A10A_A20V", "A10V_A20A", "A10V_A20V"} {
		for _, metric := range []string{
			"totalScore", "helixIntegrity", "localStrain", "backboneRMSD",
			"mutatedMeanBFactor", "ramaRegion", "ramaAll",
			"wtIdentity", "conservationRisk", "functionRetention", "targetingFeasibility",
		} {
			_, ok := table.Get(name + " " + metric)
			assert.True(t, ok, "missing %s %s", name, metric)
		}
		for _, metric := range []string{
			"contactArea", "interfaceDisruption", "bindingEnergy", "interfaceRMSD",
		} {
			_, ok := table.Get(name + " " + metric + " tuba")
			assert.True(t, ok, "missing %s %s tuba", name, metric)
		}
	}

	// The geometry session was cleared after the wild type baseline and
	// after every candidate.
	assert.Equal(t, 5, geom.cleared)

	// Identity at the wild type combination, baseline disruption zero.
	v, _ := table.Get("A10A_A20A wtIdentity")
	assert.Equal(t, 1.0, v.Number)
	v, _ = table.Get("A10V_A20V interfaceDisruption tuba")
	assert.Equal(t, 0.0, v.Number)
	v, _ = table.Get("A10V_A20V backboneRMSD")
	assert.InDelta(t, 0.0, v.Number, 1e-10)

	// Plot artifacts were written under the results directory.
	v, _ = table.Get("A10V_A20V ramaRegion")
	info, err := os.Stat(v.Artifact)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRunAllRejected(t *testing.T) {
	cfg := writeFixtures(t)
	geom := &fakeGeometry{contact: 100}

	// A positive energy rejects every candidate. The baselines still
	// compute: they record the wild type as-is without validating it.
	pl, err := New(cfg, testEngines(constScorer(5), geom))
	require.NoError(t, err)
	assert.Equal(t, 5.0, pl.WildTypeScore())

	table, err := pl.Run()
	require.NoError(t, err)

	// Rejected candidates leave no results behind at all.
	assert.Equal(t, 0, table.Len())
	assert.Empty(t, table.Keys())
}

func TestNewRejectsBadInputs(t *testing.T) {
	cfg := writeFixtures(t)
	geom := &fakeGeometry{}

	bad := cfg
	bad.Sites = []int64{200}
	_, err := New(bad, testEngines(constScorer(-10), geom))
	assert.Error(t, err)

	bad = cfg
	bad.WindowStart, bad.WindowEnd = 25, 40
	_, err = New(bad, testEngines(constScorer(-10), geom))
	assert.Error(t, err)

	bad = cfg
	bad.AlignmentPath = filepath.Join(t.TempDir(), "missing.fasta")
	_, err = New(bad, testEngines(constScorer(-10), geom))
	assert.Error(t, err)
}
