package pdb

import (
	"fmt"
	"os"
	"strings"
)

// WriteFile serializes the ATOM and HETATM records to a PDB file.
func (p *PDB) WriteFile(path string) error {
	err := os.WriteFile(path, []byte(p.Records()), 0644)
	if err != nil {
		return fmt.Errorf("write PDB file: %v", err)
	}

	p.LocalPath = path
	return nil
}

// Records renders the structure as fixed-width ATOM and HETATM records.
func (p *PDB) Records() string {
	var b strings.Builder
	for _, atom := range p.Atoms {
		b.WriteString(record("ATOM  ", atom))
	}
	b.WriteString("TER\n")
	for _, atom := range p.HetAtoms {
		b.WriteString(record("HETATM", atom))
	}
	b.WriteString("END\n")
	return b.String()
}

// https://www.wwpdb.org/documentation/file-format-content/format23/sect9.html#ATOM
func record(tag string, a *Atom) string {
	name := a.Name
	// Atom names of up to three characters start on column 14.
	if len(name) < 4 {
		name = " " + name
	}
	return fmt.Sprintf("%s%5d %-4s %-3s %1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s%2s\n",
		tag, a.Number, name, a.Residue, a.Chain, a.ResidueNumber,
		a.X, a.Y, a.Z, a.Occupancy, a.BFactor, a.Element, a.Charge)
}
