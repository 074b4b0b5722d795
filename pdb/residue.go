package pdb

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var residueNames = [...][3]string{
	{"Alanine", "Ala", "A"},
	{"Arginine", "Arg", "R"},
	{"Asparagine", "Asn", "N"},
	{"Aspartic acid", "Asp", "D"},
	{"Cysteine", "Cys", "C"},
	{"Glutamic acid", "Glu", "E"},
	{"Glutamine", "Gln", "Q"},
	{"Glycine", "Gly", "G"},
	{"Histidine", "His", "H"},
	{"Isoleucine", "Ile", "I"},
	{"Leucine", "Leu", "L"},
	{"Lysine", "Lys", "K"},
	{"Methionine", "Met", "M"},
	{"Phenylalanine", "Phe", "F"},
	{"Proline", "Pro", "P"},
	{"Serine", "Ser", "S"},
	{"Threonine", "Thr", "T"},
	{"Tryptophan", "Trp", "W"},
	{"Tyrosine", "Tyr", "Y"},
	{"Valine", "Val", "V"},
}

// Residue represents a single residue from the PDB structure.
type Residue struct {
	Chain           string
	Position        int64
	Name            string
	Name1           string
	Name3           string
	Atoms           []*Atom
	MeanBFactor     float64
	NormMeanBFactor float64
}

// IsAminoacid returns true if the given letter is an aminoacid, false otherwise.
func IsAminoacid(letter string) bool {
	for _, res := range residueNames {
		if res[2] == letter {
			return true
		}
	}
	return false
}

// AminoacidNames receives a name and returns all the possible representations as a string.
func AminoacidNames(input string) (string, string, string) {
	s := strings.Title(strings.ToLower(input))
	for _, res := range residueNames {
		for _, n := range res {
			if n == s {
				return res[0], res[1], res[2]
			}
		}
	}

	return input, "Unk", "X"
}

// NewResidue constructs a new residue given a chain, position and aminoacid name.
// The name is case-insensitive and can be either a full aminoacid name, one or three letter abbreviation.
func NewResidue(chain string, pos int64, input string) *Residue {
	name, abbrv3, abbrv1 := AminoacidNames(input)

	res := &Residue{
		Chain:    chain,
		Position: pos,
		Name:     name,
		Name1:    abbrv1,
		Name3:    abbrv3,
	}

	return res
}

// Alpha returns the alpha-carbon atom of the residue, or nil if absent.
func (r *Residue) Alpha() *Atom {
	for _, atom := range r.Atoms {
		if atom.Name == "CA" {
			return atom
		}
	}
	return nil
}

// Backbone returns the backbone atoms of the residue in N, CA, C, O order.
// Missing atoms are skipped.
func (r *Residue) Backbone() []*Atom {
	var bb []*Atom
	for _, name := range [4]string{"N", "CA", "C", "O"} {
		for _, atom := range r.Atoms {
			if atom.Name == name {
				bb = append(bb, atom)
				break
			}
		}
	}
	return bb
}

// ExtractResidues extracts data from the ATOM and HETATM records and parses them.
func (p *PDB) ExtractResidues(raw []byte) error {
	atoms, err := p.extractPDBATMRecords(raw, "ATOM")
	if err != nil {
		return fmt.Errorf("extract ATOM records: %v", err)
	}

	hetatms, _ := p.extractPDBATMRecords(raw, "HETATM")

	p.Atoms = atoms
	p.HetAtoms = hetatms

	err = p.ExtractPDBChains()
	if err != nil {
		return fmt.Errorf("extract PDB chains: %v", err)
	}

	return nil
}

// ExtractPDBChains parses the residue chains.
func (p *PDB) ExtractPDBChains() error {
	atoms := p.Atoms
	if len(atoms) == 0 {
		return errors.New("empty atoms list")
	}

	chains := make(map[string]map[int64]*Residue)

	var res *Residue
	for _, atom := range atoms {
		chain, chainOk := chains[atom.Chain]
		pos, posOk := chain[atom.ResidueNumber]

		if !chainOk {
			chains[atom.Chain] = make(map[int64]*Residue)
		}
		if !posOk {
			res = NewResidue(atom.Chain, atom.ResidueNumber, atom.Residue)
			res.Atoms = []*Atom{atom}
			chains[atom.Chain][atom.ResidueNumber] = res
		} else {
			pos.Atoms = append(pos.Atoms, atom)
		}
	}

	p.Chains = chains
	p.TotalLength = 0
	for _, chain := range p.Chains {
		p.TotalLength += int64(len(chain))
	}

	for _, chain := range p.Chains {
		for _, res := range chain {
			res.calculateMeanBFactor()
		}
	}
	p.calculateNormMeanBFactor()

	return nil
}

// calculateMeanBFactor calculates the mean B-factor for the residue based on all its atoms.
func (r *Residue) calculateMeanBFactor() {
	var sum float64
	for _, atom := range r.Atoms {
		sum += atom.BFactor
	}

	r.MeanBFactor = sum / float64(len(r.Atoms))
}

func stddev(vals []float64, mean float64) float64 {
	var ss float64
	for _, v := range vals {
		ss += math.Pow(v-mean, 2)
	}
	return math.Pow(ss/float64(len(vals)), 0.5)
}

// calculateNormMeanBFactor calculates the z-score for residues mean B-factors.
func (p *PDB) calculateNormMeanBFactor() {
	var sum float64
	var n float64
	var meanBfactors []float64
	for _, residues := range p.Chains {
		for _, residue := range residues {
			sum += residue.MeanBFactor
			meanBfactors = append(meanBfactors, residue.MeanBFactor)
			n++
		}
	}
	mean := sum / n
	s := stddev(meanBfactors, mean)
	if s == 0 {
		return
	}

	for _, residues := range p.Chains {
		for _, residue := range residues {
			residue.NormMeanBFactor = (residue.MeanBFactor - mean) / s
		}
	}
}
