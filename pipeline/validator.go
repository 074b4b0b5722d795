package pipeline

import (
	"fmt"

	"github.com/tikz/mutscan/mutation"
	"github.com/tikz/mutscan/pdb"
)

// Validator accepts or rejects candidate structures. The checks run in
// order and short circuit on the first failure: total energy, helix
// integrity inside the reference window, then local clashes around the
// mutated positions.
type Validator struct {
	Scorer    Scorer
	Secondary SecondaryStructure

	Chain            string
	Window           pdb.Region
	MinHelixFraction float64
	ClashDistance    float64
}

// Check runs the validation checks on a candidate. A nil rejection means
// the candidate was accepted. Engine failures are reported as rejections
// with the EngineFailure reason, never as batch-fatal errors.
func (v *Validator) Check(candidate *pdb.PDB, comb mutation.Combination) *Rejection {
	score, err := v.Scorer.Score(candidate)
	if err != nil {
		return &Rejection{Reason: EngineFailure, Detail: err.Error()}
	}
	if score > 0 {
		return &Rejection{Reason: EnergyTooHigh, Detail: fmt.Sprintf("total score %.3f", score)}
	}

	results, err := v.Secondary.Assign(candidate)
	if err != nil {
		return &Rejection{Reason: EngineFailure, Detail: err.Error()}
	}
	fraction := results.HelixFraction(candidate, v.Window)
	if fraction < v.MinHelixFraction {
		return &Rejection{
			Reason: HelixIntegrityFailed,
			Detail: fmt.Sprintf("helical fraction %.3f in window %d-%d", fraction, v.Window.Start, v.Window.End),
		}
	}

	if rej := v.checkClashes(candidate, comb); rej != nil {
		return rej
	}

	return nil
}

// checkClashes compares the alpha carbon of every mutated residue against
// the alpha carbons of all unmutated residues of the chain.
func (v *Validator) checkClashes(candidate *pdb.PDB, comb mutation.Combination) *Rejection {
	chain, err := candidate.Chain(v.Chain)
	if err != nil {
		return &Rejection{Reason: EngineFailure, Detail: err.Error()}
	}

	for _, pt := range comb {
		mutated, ok := chain[pt.Position]
		if !ok {
			continue
		}
		for pos, other := range chain {
			if comb.Mutated(pos) {
				continue
			}
			if dist := pdb.AlphaDistance(mutated, other); dist < v.ClashDistance {
				return &Rejection{
					Reason: ClashDetected,
					Detail: fmt.Sprintf("position %d within %.2f of position %d", pt.Position, dist, pos),
				}
			}
		}
	}

	return nil
}
