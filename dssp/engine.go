package dssp

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/tikz/mutscan/pdb"
)

// Engine runs mkdssp on structures, staging in-memory ones to a scratch
// file first.
type Engine struct {
	Bin        string // mkdssp binary, looked up on PATH when empty
	ScratchDir string
}

func (e Engine) bin() string {
	if e.Bin == "" {
		return "mkdssp"
	}
	return e.Bin
}

// Assign calculates secondary structure for the structure, writing it to
// a fresh scratch file if it is not already on disk.
func (e Engine) Assign(p *pdb.PDB) (Results, error) {
	if p.LocalPath != "" {
		return Run(e.bin(), p)
	}

	path := filepath.Join(e.ScratchDir, uuid.New().String()+".pdb")
	if err := p.WriteFile(path); err != nil {
		return Results{}, err
	}
	defer func() {
		os.Remove(path)
		p.LocalPath = ""
	}()

	return Run(e.bin(), p)
}
