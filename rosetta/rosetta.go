// Package rosetta wraps the Rosetta command line applications used for
// scoring, point mutant building and constrained minimization.
package rosetta

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/tikz/mutscan/mutation"
	"github.com/tikz/mutscan/pdb"
)

// Radius of the backbone flexibility window around each mutated position
// during minimization.
const WindowRadius = 5

type Rosetta struct {
	binDir        string
	absBinDir     string
	scratchDir    string
	absScratchDir string
}

// NewRosetta instantiates the required paths for the Rosetta applications.
func NewRosetta(binDirPath string, scratchDirPath string) (r *Rosetta, err error) {
	r = &Rosetta{}
	r.binDir = filepath.Clean(binDirPath)
	if r.absBinDir, err = filepath.Abs(binDirPath); err != nil {
		return
	}

	r.scratchDir = filepath.Clean(scratchDirPath)
	if r.absScratchDir, err = filepath.Abs(scratchDirPath); err != nil {
		return
	}

	err = func() error {
		if _, err := os.Stat(r.absBinDir); os.IsNotExist(err) {
			return err
		}
		if _, err := os.Stat(r.absScratchDir); os.IsNotExist(err) {
			return err
		}
		return nil
	}()
	return
}

// Score runs the scoring application on a structure and returns its total
// energy score.
func (r *Rosetta) Score(p *pdb.PDB) (float64, error) {
	jobDir, pdbPath, err := r.stage(p)
	if err != nil {
		return 0, err
	}
	defer os.RemoveAll(jobDir)

	scorePath := jobDir + "/score.sc"
	cmd := exec.Command(r.absBinDir+"/score_jd2",
		"-in:file:s", pdbPath,
		"-out:file:scorefile", scorePath,
		"-out:path:all", jobDir,
		"-ignore_unrecognized_res")
	cmd.Dir = jobDir

	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, errors.New(string(out))
	}

	raw, err := os.ReadFile(scorePath)
	if err != nil {
		return 0, fmt.Errorf("read scorefile: %v", err)
	}

	return extractTotalScore(raw)
}

// BuildMutant runs the fixed backbone design application to replace the
// residues named by the combination, and returns the mutated structure.
func (r *Rosetta) BuildMutant(base *pdb.PDB, chain string, comb mutation.Combination) (*pdb.PDB, error) {
	jobDir, pdbPath, err := r.stage(base)
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(jobDir)

	resfilePath := jobDir + "/mutations.resfile"
	err = writeFile(resfilePath, resfile(chain, comb))
	if err != nil {
		return nil, fmt.Errorf("write resfile: %v", err)
	}

	cmd := exec.Command(r.absBinDir+"/fixbb",
		"-in:file:s", pdbPath,
		"-resfile", resfilePath,
		"-out:path:all", jobDir,
		"-nstruct", "1")
	cmd.Dir = jobDir

	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, errors.New(string(out))
	}

	return r.collect(jobDir, pdbPath)
}

// Minimize runs the relax application granting backbone and side chain
// flexibility inside the given windows, side chain flexibility elsewhere.
func (r *Rosetta) Minimize(p *pdb.PDB, windows []pdb.Region) (*pdb.PDB, error) {
	jobDir, pdbPath, err := r.stage(p)
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(jobDir)

	movemapPath := jobDir + "/flex.movemap"
	err = writeFile(movemapPath, movemap(windows))
	if err != nil {
		return nil, fmt.Errorf("write movemap: %v", err)
	}

	cmd := exec.Command(r.absBinDir+"/relax",
		"-in:file:s", pdbPath,
		"-in:file:movemap", movemapPath,
		"-relax:fast",
		"-relax:default_repeats", "1",
		"-out:path:all", jobDir,
		"-nstruct", "1")
	cmd.Dir = jobDir

	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, errors.New(string(out))
	}

	return r.collect(jobDir, pdbPath)
}

// stage creates a fresh job dir under the scratch dir and writes the
// structure into it. Per-job dirs keep parallel or repeated runs from
// clobbering each other's files.
func (r *Rosetta) stage(p *pdb.PDB) (jobDir string, pdbPath string, err error) {
	jobDir = r.absScratchDir + "/" + uuid.New().String()
	if err = os.MkdirAll(jobDir, os.ModePerm); err != nil {
		return
	}

	name := p.ID
	if name == "" {
		name = "input"
	}
	pdbPath = jobDir + "/" + name + ".pdb"

	// WriteFile points LocalPath at the staged copy, which is removed
	// with the job dir. The caller's structure keeps its own path.
	prev := p.LocalPath
	err = p.WriteFile(pdbPath)
	p.LocalPath = prev
	return
}

// collect parses the single output decoy of a job.
func (r *Rosetta) collect(jobDir string, inputPath string) (*pdb.PDB, error) {
	name := strings.TrimSuffix(filepath.Base(inputPath), ".pdb")
	outPath := jobDir + "/" + name + "_0001.pdb"
	if fileNotExist(outPath) {
		return nil, fmt.Errorf("output decoy %s not found", outPath)
	}

	out, err := pdb.ParseFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("parse decoy: %v", err)
	}
	out.LocalPath = "" // file is removed with the job dir
	return out, nil
}

// resfile renders the mutation list in resfile format: native rotamers
// everywhere, PIKAA picks at the mutated positions.
// https://docs.rosettacommons.org/docs/latest/rosetta_basics/file_types/resfiles
func resfile(chain string, comb mutation.Combination) string {
	var b strings.Builder
	b.WriteString("NATRO\nstart\n")
	for _, pt := range comb {
		b.WriteString(strconv.FormatInt(pt.Position, 10) + " " + chain + " PIKAA " + pt.To + "\n")
	}
	return b.String()
}

// movemap renders the flexibility spec: chi everywhere, backbone plus chi
// inside each window.
func movemap(windows []pdb.Region) string {
	var b strings.Builder
	b.WriteString("RESIDUE * CHI\n")
	for _, w := range windows {
		b.WriteString("RESIDUE " + strconv.FormatInt(w.Start, 10) + " " + strconv.FormatInt(w.End, 10) + " BBCHI\n")
	}
	return b.String()
}

// extractTotalScore parses the total_score column of a scorefile.
func extractTotalScore(raw []byte) (float64, error) {
	var header []string
	for _, l := range strings.Split(string(raw), "\n") {
		if !strings.HasPrefix(l, "SCORE:") {
			continue
		}
		fields := strings.Fields(l)
		if len(fields) < 2 {
			continue
		}
		if fields[1] == "total_score" {
			header = fields
			continue
		}
		if header == nil {
			continue
		}
		score, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return 0, fmt.Errorf("parse total_score %q: %v", fields[1], err)
		}
		return score, nil
	}
	return 0, errors.New("total_score not found")
}

func fileNotExist(path string) bool {
	_, err := os.Stat(path)
	return os.IsNotExist(err)
}

func writeFile(path string, contents string) error {
	return os.WriteFile(path, []byte(contents), 0644)
}
