package pipeline

import (
	"github.com/tikz/mutscan/dssp"
	"github.com/tikz/mutscan/mutation"
	"github.com/tikz/mutscan/pdb"
)

// Scorer is the external scoring function: a scalar energy value for a
// structure, lower is better.
type Scorer interface {
	Score(p *pdb.PDB) (float64, error)
}

// Modeler is the external modeling engine: building point mutants and
// minimizing under the scoring function. Implementations never mutate
// the structures they receive.
type Modeler interface {
	BuildMutant(base *pdb.PDB, chain string, comb mutation.Combination) (*pdb.PDB, error)
	Minimize(p *pdb.PDB, windows []pdb.Region) (*pdb.PDB, error)
}

// SecondaryStructure assigns per-residue secondary structure classes.
type SecondaryStructure interface {
	Assign(p *pdb.PDB) (dssp.Results, error)
}

// Geometry is the visualization/geometry engine session. It is shared and
// serial: users must Clear() before returning so the next caller never
// sees stale loaded state.
type Geometry interface {
	Load(path string, object string) error
	SelectRange(name string, object string, region pdb.Region) error
	ContactArea(selA string, selB string) (float64, error)
	Clear() error
}

// Engines bundles the external engine handles, acquired once at startup
// and scoped to the batch lifetime.
type Engines struct {
	Scorer    Scorer
	Modeler   Modeler
	Secondary SecondaryStructure
	Geometry  Geometry
}
