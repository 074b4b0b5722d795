package pdb

import (
	"fmt"
)

// Region is a contiguous, inclusive range of residue positions inside a chain.
type Region struct {
	Chain string
	Start int64
	End   int64
}

// NewRegion constructs a region and checks that the bounds are ordered.
func NewRegion(chain string, start, end int64) (Region, error) {
	r := Region{Chain: chain, Start: start, End: end}
	if start <= 0 || end < start {
		return r, fmt.Errorf("invalid region bounds %d-%d", start, end)
	}
	return r, nil
}

// Len returns the number of positions covered by the region.
func (r Region) Len() int64 {
	return r.End - r.Start + 1
}

// Contains returns true if the given position falls inside the region.
func (r Region) Contains(pos int64) bool {
	return pos >= r.Start && pos <= r.End
}

// Check validates the region against the chains present in a structure.
func (r Region) Check(p *PDB) error {
	if _, ok := p.Chains[r.Chain]; !ok {
		return fmt.Errorf("region %s%d-%d: chain %s not in structure", r.Chain, r.Start, r.End, r.Chain)
	}
	if r.Start < p.ChainStartResNumber[r.Chain] || r.End > p.ChainEndResNumber[r.Chain] {
		return fmt.Errorf("region %s%d-%d out of chain range %d-%d",
			r.Chain, r.Start, r.End, p.ChainStartResNumber[r.Chain], p.ChainEndResNumber[r.Chain])
	}
	return nil
}

// Window returns a region of the given radius around a position,
// clamped to the chain bounds of the structure.
func Window(p *PDB, chain string, pos int64, radius int64) Region {
	start := pos - radius
	end := pos + radius
	if min := p.ChainStartResNumber[chain]; start < min {
		start = min
	}
	if max := p.ChainEndResNumber[chain]; end > max {
		end = max
	}
	return Region{Chain: chain, Start: start, End: end}
}

// Residues returns the residues of the region present in the structure,
// ordered by position.
func (r Region) Residues(p *PDB) []*Residue {
	var residues []*Residue
	for i := r.Start; i <= r.End; i++ {
		if res, ok := p.Chains[r.Chain][i]; ok {
			residues = append(residues, res)
		}
	}
	return residues
}
