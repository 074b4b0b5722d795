package pdb

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PDB represents a single protein structure parsed from a local PDB file.
type PDB struct {
	ID          string // entry or model identifier
	TotalLength int64  // total length as sum of residues of all chains in the structure

	Atoms     []*Atom  // ATOM records in the structure
	HetAtoms  []*Atom  // HETATM records in the structure
	HetGroups []string // HET groups in the structure

	// Chain ID and position to residue pointer in structure.
	Chains map[string]map[int64]*Residue

	ChainStartResNumber map[string]int64 // chain ID to first residue number in ATOM records
	ChainEndResNumber   map[string]int64 // chain ID to last residue number in ATOM records

	LocalPath string // local path for the PDB file
}

// ParseFile constructs a new instance from a PDB file on disk.
func ParseFile(path string) (*PDB, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read PDB file: %v", err)
	}

	p, err := ParseRaw(raw)
	if err != nil {
		return nil, err
	}

	p.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	p.LocalPath = path
	return p, nil
}

// ParseRaw constructs a new instance from raw bytes, extracting ATOM and HETATM records.
// This is useful for parsing PDB output files generated by external tools.
func ParseRaw(raw []byte) (*PDB, error) {
	p := PDB{}

	err := p.ExtractResidues(raw)
	if err != nil {
		return nil, fmt.Errorf("parse: %v", err)
	}

	p.makeChainBounds()
	return &p, nil
}

// Chain returns the residues of the given chain, keyed by residue number.
func (p *PDB) Chain(id string) (map[int64]*Residue, error) {
	chain, ok := p.Chains[id]
	if !ok {
		return nil, fmt.Errorf("chain %s not found", id)
	}
	return chain, nil
}

// Residue returns the residue at the given chain and position.
func (p *PDB) Residue(chain string, pos int64) (*Residue, error) {
	c, err := p.Chain(chain)
	if err != nil {
		return nil, err
	}
	res, ok := c[pos]
	if !ok {
		return nil, fmt.Errorf("residue %s-%d not found", chain, pos)
	}
	return res, nil
}

// Sequence returns the one-letter primary sequence of a chain, ordered by residue number.
func (p *PDB) Sequence(chain string) string {
	var seq strings.Builder
	start, end := p.ChainStartResNumber[chain], p.ChainEndResNumber[chain]
	for i := start; i <= end; i++ {
		if res, ok := p.Chains[chain][i]; ok {
			seq.WriteString(res.Name1)
		}
	}
	return seq.String()
}

func (p *PDB) makeChainBounds() {
	p.ChainStartResNumber = make(map[string]int64)
	p.ChainEndResNumber = make(map[string]int64)
	for c := range p.Chains {
		p.ChainStartResNumber[c] = p.minChainPos(c)
		p.ChainEndResNumber[c] = p.maxChainPos(c)
	}
}

func (p *PDB) chainKeys(chain string) (k []int64) {
	for pos := range p.Chains[chain] {
		k = append(k, pos)
	}

	return k
}

func (p *PDB) minChainPos(chain string) int64 {
	ck := p.chainKeys(chain)
	min := ck[0]
	for _, pos := range ck {
		if pos < min {
			min = pos
		}
	}

	return min
}

func (p *PDB) maxChainPos(chain string) int64 {
	ck := p.chainKeys(chain)
	max := ck[0]
	for _, pos := range ck {
		if pos > max {
			max = pos
		}
	}

	return max
}
