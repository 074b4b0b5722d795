package pdb

// Clone returns a deep copy of the structure. Atoms and residues are
// copied, so mutating the clone never touches the original.
func (p *PDB) Clone() *PDB {
	clone := &PDB{
		ID:        p.ID,
		LocalPath: p.LocalPath,
		HetGroups: append([]string(nil), p.HetGroups...),
	}

	for _, atom := range p.Atoms {
		a := *atom
		clone.Atoms = append(clone.Atoms, &a)
	}
	for _, atom := range p.HetAtoms {
		a := *atom
		clone.HetAtoms = append(clone.HetAtoms, &a)
	}

	// Rebuild residues from the copied atoms so pointers stay internal.
	clone.ExtractPDBChains()
	clone.makeChainBounds()

	return clone
}

// Rename replaces the residue type at the given chain and position.
// Side chain atoms are dropped since they no longer describe the new
// residue type; backbone atoms are relabeled.
func (p *PDB) Rename(chain string, pos int64, aa string) error {
	if _, err := p.Residue(chain, pos); err != nil {
		return err
	}

	_, name3, _ := AminoacidNames(aa)
	name3 = upper3(name3)

	var kept []*Atom
	for _, atom := range p.Atoms {
		if atom.Chain == chain && atom.ResidueNumber == pos {
			switch atom.Name {
			case "N", "CA", "C", "O", "CB":
				atom.Residue = name3
				kept = append(kept, atom)
			}
			continue
		}
		kept = append(kept, atom)
	}
	p.Atoms = kept

	if err := p.ExtractPDBChains(); err != nil {
		return err
	}
	p.makeChainBounds()
	return nil
}

func upper3(name3 string) string {
	b := []byte(name3)
	for i := range b {
		if b[i] >= 'a' && b[i] <= 'z' {
			b[i] -= 'a' - 'A'
		}
	}
	return string(b)
}
