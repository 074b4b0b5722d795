package pipeline

import (
	"github.com/tikz/mutscan/dssp"
	"github.com/tikz/mutscan/mutation"
	"github.com/tikz/mutscan/pdb"
)

// fakeScorer serves canned energy scores.
type fakeScorer struct {
	fn func(p *pdb.PDB) (float64, error)
}

func (f fakeScorer) Score(p *pdb.PDB) (float64, error) {
	return f.fn(p)
}

func constScorer(score float64) fakeScorer {
	return fakeScorer{fn: func(*pdb.PDB) (float64, error) { return score, nil }}
}

// fakeModeler applies mutations in memory on clones of the input.
type fakeModeler struct {
	buildErr    error
	minimizeErr error
	perturb     func(p *pdb.PDB)
}

func (f fakeModeler) BuildMutant(base *pdb.PDB, chain string, comb mutation.Combination) (*pdb.PDB, error) {
	if f.buildErr != nil {
		return nil, f.buildErr
	}
	clone := base.Clone()
	for _, pt := range comb {
		if err := clone.Rename(chain, pt.Position, pt.To); err != nil {
			return nil, err
		}
	}
	return clone, nil
}

func (f fakeModeler) Minimize(p *pdb.PDB, windows []pdb.Region) (*pdb.PDB, error) {
	if f.minimizeErr != nil {
		return nil, f.minimizeErr
	}
	clone := p.Clone()
	if f.perturb != nil {
		f.perturb(clone)
	}
	return clone, nil
}

// fakeSecondary assigns classes per position.
type fakeSecondary struct {
	classes func(pos int64) string
	err     error
}

func (f fakeSecondary) Assign(p *pdb.PDB) (dssp.Results, error) {
	if f.err != nil {
		return dssp.Results{}, f.err
	}
	results := dssp.Results{Residues: make(map[*pdb.Residue]string)}
	for _, chain := range p.Chains {
		for pos, res := range chain {
			results.Residues[res] = f.classes(pos)
		}
	}
	return results, nil
}

func allHelical() fakeSecondary {
	return fakeSecondary{classes: func(int64) string { return "H" }}
}

// fakeGeometry serves a fixed contact area and records session usage.
type fakeGeometry struct {
	contact float64
	err     error

	loaded  []string
	cleared int
}

func (f *fakeGeometry) Load(path string, object string) error {
	if f.err != nil {
		return f.err
	}
	f.loaded = append(f.loaded, object)
	return nil
}

func (f *fakeGeometry) SelectRange(name string, object string, region pdb.Region) error {
	return nil
}

func (f *fakeGeometry) ContactArea(selA string, selB string) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.contact, nil
}

func (f *fakeGeometry) Clear() error {
	f.cleared++
	f.loaded = nil
	return nil
}
