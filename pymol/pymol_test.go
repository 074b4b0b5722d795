package pymol

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/tikz/mutscan/pdb"
)

// fakeEngine consumes session commands and responds with marker lines,
// serving canned area values per selection expression.
func fakeEngine(commands io.Reader, responses io.Writer, areas map[string]float64) {
	getArea := regexp.MustCompile(`get_area\("([^"]+)"\)`)

	scanner := bufio.NewScanner(commands)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, marker) {
			continue
		}

		// Noise before the marker, like the real process logs.
		fmt.Fprintln(responses, "PyMOL not running, entering library mode")

		if m := getArea.FindStringSubmatch(line); m != nil {
			fmt.Fprintf(responses, "%s %f\n", marker, areas[m[1]])
			continue
		}
		fmt.Fprintln(responses, marker)
	}
}

func newFakeSession(areas map[string]float64) *Session {
	cmdR, cmdW := io.Pipe()
	respR, respW := io.Pipe()
	go fakeEngine(cmdR, respW, areas)
	return newSessionPipe(cmdW, respR)
}

func TestSessionCommands(t *testing.T) {
	s := newFakeSession(nil)

	if err := s.Load("/tmp/cand.pdb", "cand"); err != nil {
		t.Fatal(err)
	}
	region := pdb.Region{Chain: "A", Start: 129, End: 146}
	if err := s.SelectRange("jid", "cand", region); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
}

func TestArea(t *testing.T) {
	s := newFakeSession(map[string]float64{"jid": 421.5})

	area, err := s.Area("jid")
	if err != nil {
		t.Fatal(err)
	}
	if area != 421.5 {
		t.Errorf("expected 421.5, got %f", area)
	}
}

func TestContactArea(t *testing.T) {
	s := newFakeSession(map[string]float64{
		"selA":          100,
		"selB":          80,
		"selA or selB":  150,
	})

	contact, err := s.ContactArea("selA", "selB")
	if err != nil {
		t.Fatal(err)
	}
	if contact != 15 {
		t.Errorf("expected contact area 15, got %f", contact)
	}
}
