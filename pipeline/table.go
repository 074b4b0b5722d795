package pipeline

import (
	"fmt"
	"sort"
	"strings"
)

// Value is a single result: either a numeric metric or the path of a
// generated plot artifact.
type Value struct {
	Number   float64
	Artifact string
}

// Table is the in-memory result table of a run: a flat, append-only
// mapping from synthesized result names to values.
type Table struct {
	entries map[string]Value
	order   []string
}

// NewTable returns an empty result table.
func NewTable() *Table {
	return &Table{entries: make(map[string]Value)}
}

// key synthesizes a result name from the mutation identity, the metric
// name and, for interface metrics, the comparison protein name.
func key(mutant string, metric string, comparison string) string {
	parts := []string{mutant, metric}
	if comparison != "" {
		parts = append(parts, comparison)
	}
	return strings.Join(parts, " ")
}

// Add inserts a single result for a mutant and metric, with an optional
// comparison protein name. Key collisions are rejected.
func (t *Table) Add(mutant string, metric string, comparison string, v Value) error {
	return t.add(key(mutant, metric, comparison), v)
}

// add inserts a value, rejecting key collisions.
func (t *Table) add(k string, v Value) error {
	if _, ok := t.entries[k]; ok {
		return fmt.Errorf("duplicate result key %q", k)
	}
	t.entries[k] = v
	t.order = append(t.order, k)
	return nil
}

// merge inserts a whole batch of values under the given mutant name,
// in metric name order so repeated runs produce the same key order.
func (t *Table) merge(mutant string, comparison string, metrics map[string]Value) error {
	names := make([]string, 0, len(metrics))
	for metric := range metrics {
		names = append(names, metric)
	}
	sort.Strings(names)

	for _, metric := range names {
		if err := t.add(key(mutant, metric, comparison), metrics[metric]); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the value stored under the given name.
func (t *Table) Get(name string) (Value, bool) {
	v, ok := t.entries[name]
	return v, ok
}

// Len returns the number of results.
func (t *Table) Len() int {
	return len(t.entries)
}

// Keys returns the result names in insertion order.
func (t *Table) Keys() []string {
	return append([]string(nil), t.order...)
}
