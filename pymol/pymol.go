// Package pymol drives a single long-lived PyMOL process in batch mode
// for structure loading, region selection and surface area queries.
//
// The session is shared and serial: callers must Clear() loaded state
// before returning so the next caller never sees stale selections.
package pymol

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/tikz/mutscan/pdb"
)

// Every command is followed by a print of this marker so the reader stays
// in lockstep with the process.
const marker = "mutscan>"

// Session is a handle to a running PyMOL process.
type Session struct {
	cmd *exec.Cmd
	in  io.Writer
	out *bufio.Scanner
}

// NewSession starts a PyMOL process in quiet batch mode, reading commands
// from stdin. The session lives for the whole batch; callers own the
// Close() call.
func NewSession(binPath string) (*Session, error) {
	cmd := exec.Command(binPath, "-cq", "-p")

	in, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start pymol: %v", err)
	}

	s := &Session{cmd: cmd, in: in, out: bufio.NewScanner(out)}

	// Solvent accessible areas instead of molecular surface areas.
	if err := s.run("set dot_solvent, 1"); err != nil {
		return nil, fmt.Errorf("configure session: %v", err)
	}
	return s, nil
}

// newSessionPipe builds a session over explicit pipes. Used by tests.
func newSessionPipe(in io.Writer, out io.Reader) *Session {
	return &Session{in: in, out: bufio.NewScanner(out)}
}

// Load loads a structure file under the given object name.
func (s *Session) Load(path string, object string) error {
	return s.run("load " + path + ", " + object)
}

// SelectRange names a selection of a residue range inside a loaded object.
func (s *Session) SelectRange(name string, object string, region pdb.Region) error {
	return s.run(fmt.Sprintf("select %s, %s and chain %s and resi %d-%d",
		name, object, region.Chain, region.Start, region.End))
}

// Area returns the solvent accessible surface area of a selection expression.
func (s *Session) Area(sel string) (float64, error) {
	return s.query(fmt.Sprintf(`cmd.get_area("%s")`, sel))
}

// ContactArea returns the surface area buried between two selections:
// half of the overlap of their separate areas versus their union.
func (s *Session) ContactArea(selA string, selB string) (float64, error) {
	a, err := s.Area(selA)
	if err != nil {
		return 0, err
	}
	b, err := s.Area(selB)
	if err != nil {
		return 0, err
	}
	both, err := s.Area(selA + " or " + selB)
	if err != nil {
		return 0, err
	}
	return (a + b - both) / 2, nil
}

// Clear drops all loaded objects and selections.
func (s *Session) Clear() error {
	return s.run("delete all")
}

// Close shuts down the process.
func (s *Session) Close() error {
	if s.cmd == nil {
		return nil
	}
	fmt.Fprintln(s.in, "quit")
	return s.cmd.Wait()
}

// run sends a command and waits for its marker.
func (s *Session) run(command string) error {
	if _, err := fmt.Fprintf(s.in, "%s\nprint(\"%s\")\n", command, marker); err != nil {
		return fmt.Errorf("write command: %v", err)
	}
	_, err := s.await()
	return err
}

// query sends an expression print and parses the response value.
func (s *Session) query(expr string) (float64, error) {
	if _, err := fmt.Fprintf(s.in, "print(\"%s\", %s)\n", marker, expr); err != nil {
		return 0, fmt.Errorf("write query: %v", err)
	}

	fields, err := s.await()
	if err != nil {
		return 0, err
	}
	if len(fields) < 2 {
		return 0, errors.New("empty response")
	}

	value, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, fmt.Errorf("parse response %q: %v", fields[1], err)
	}
	return value, nil
}

// await reads output lines until the next marker line and returns its fields.
func (s *Session) await() ([]string, error) {
	for s.out.Scan() {
		line := strings.TrimSpace(s.out.Text())
		if strings.HasPrefix(line, marker) {
			return strings.Fields(line), nil
		}
	}
	if err := s.out.Err(); err != nil {
		return nil, fmt.Errorf("read response: %v", err)
	}
	return nil, errors.New("session closed")
}
