// Package conservation derives per-position conservation scores from a
// multiple sequence alignment in FASTA format.
package conservation

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
)

// http://www.ebi.ac.uk/uniprot/TrEMBLstats
// Ala (A) 9.22   Gln (Q) 3.76   Leu (L) 9.90   Ser (S) 6.65
// Arg (R) 5.80   Glu (E) 6.17   Lys (K) 4.90   Thr (T) 5.55
// Asn (N) 3.80   Gly (G) 7.35   Met (M) 2.36   Trp (W) 1.30
// Asp (D) 5.48   His (H) 2.19   Phe (F) 3.91   Tyr (Y) 2.90
// Cys (C) 1.20   Ile (I) 5.62   Pro (P) 4.89   Val (V) 6.92

const alphabet = "ACDEFGHIKLMNPQRSTVWY"

//                          A     C     D     E     F     G     H     I     K     L     M     N     P     Q     R     S     T     V     W     Y
var abundance = [20]float64{9.22, 1.20, 5.48, 6.17, 3.91, 7.35, 2.19, 5.62, 4.90, 9.90, 2.36, 3.80, 4.89, 3.76, 5.80, 6.65, 5.55, 6.92, 1.30, 2.90}

// Record is a single aligned sequence.
type Record struct {
	Name     string
	Sequence string
}

// MSA is a parsed multiple sequence alignment. The first record is taken
// as the reference sequence; conservation scores are indexed by reference
// position (1-based), skipping reference gaps.
type MSA struct {
	Records []Record

	scores map[int64]float64
}

// LoadMSA reads and parses an alignment file.
func LoadMSA(path string) (*MSA, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open alignment: %v", err)
	}
	defer file.Close()

	records, err := parseFASTA(file)
	if err != nil {
		return nil, fmt.Errorf("parse alignment: %v", err)
	}

	return newMSA(records)
}

func newMSA(records []Record) (*MSA, error) {
	if len(records) < 2 {
		return nil, errors.New("alignment needs at least two sequences")
	}
	width := len(records[0].Sequence)
	for _, rec := range records {
		if len(rec.Sequence) != width {
			return nil, fmt.Errorf("sequence %s length %d differs from alignment width %d",
				rec.Name, len(rec.Sequence), width)
		}
	}

	msa := &MSA{Records: records, scores: make(map[int64]float64)}

	refPos := int64(0)
	for col := 0; col < width; col++ {
		refChar := records[0].Sequence[col]
		if refChar == '-' || refChar == '.' {
			continue
		}
		refPos++
		msa.scores[refPos] = columnScore(records, col)
	}

	return msa, nil
}

// Depth returns the number of sequences in the alignment.
func (m *MSA) Depth() int {
	return len(m.Records)
}

// Reference returns the ungapped reference sequence.
func (m *MSA) Reference() string {
	seq := m.Records[0].Sequence
	seq = strings.ReplaceAll(seq, "-", "")
	return strings.ReplaceAll(seq, ".", "")
}

// Score returns the conservation score at a reference position.
// Higher means more conserved relative to background abundances.
func (m *MSA) Score(pos int64) (float64, error) {
	score, ok := m.scores[pos]
	if !ok {
		return 0, fmt.Errorf("position %d not covered by the alignment reference", pos)
	}
	return score, nil
}

// columnScore is the relative entropy of the observed column composition
// against the background aminoacid abundances. Gaps are ignored.
func columnScore(records []Record, col int) (sum float64) {
	var counts [20]int
	total := 0
	for _, rec := range records {
		i := strings.IndexByte(alphabet, upper(rec.Sequence[col]))
		if i < 0 {
			continue
		}
		counts[i]++
		total++
	}
	if total == 0 {
		return 0
	}

	for i, count := range counts {
		if count == 0 {
			continue
		}
		p := float64(count) / float64(total)
		sum += p * math.Log2(p/(abundance[i]/100))
	}
	return sum
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

func parseFASTA(file io.Reader) ([]Record, error) {
	var records []Record
	var current *Record

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			fields := strings.Fields(line[1:])
			if len(fields) == 0 {
				return nil, errors.New("FASTA header without a name")
			}
			records = append(records, Record{Name: fields[0]})
			current = &records[len(records)-1]
			continue
		}
		if current == nil {
			return nil, errors.New("sequence data before first header")
		}
		current.Sequence += line
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("no FASTA records found")
	}

	return records, nil
}
