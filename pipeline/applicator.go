package pipeline

import (
	"github.com/tikz/mutscan/mutation"
	"github.com/tikz/mutscan/pdb"
	"github.com/tikz/mutscan/rosetta"
)

// Candidate is a mutated, locally relaxed structure owned by the
// iteration that produced it.
type Candidate struct {
	Structure   *pdb.PDB
	Combination mutation.Combination
	Name        string
}

// Applicator produces candidate structures from the base structure and a
// mutation combination. The base structure is never touched: the modeling
// engine works on staged copies of it.
type Applicator struct {
	Modeler   Modeler
	Validator *Validator
	Chain     string
}

// Apply builds the mutant, relaxes it locally around each mutated
// position, then validates it. Either the candidate or a rejection is
// returned; a failed engine call is a rejection, not a fault.
func (a *Applicator) Apply(base *pdb.PDB, comb mutation.Combination) (*Candidate, *Rejection) {
	name := comb.Name(base, a.Chain)

	mutant, err := a.Modeler.BuildMutant(base, a.Chain, comb)
	if err != nil {
		return nil, &Rejection{Reason: EngineFailure, Detail: "build mutant: " + err.Error()}
	}

	var windows []pdb.Region
	for _, pt := range comb {
		windows = append(windows, pdb.Window(mutant, a.Chain, pt.Position, rosetta.WindowRadius))
	}

	relaxed, err := a.Modeler.Minimize(mutant, windows)
	if err != nil {
		return nil, &Rejection{Reason: EngineFailure, Detail: "minimize: " + err.Error()}
	}

	if rej := a.Validator.Check(relaxed, comb); rej != nil {
		return nil, rej
	}

	return &Candidate{Structure: relaxed, Combination: comb, Name: name}, nil
}
