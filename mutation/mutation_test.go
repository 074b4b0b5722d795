package mutation

import (
	"reflect"
	"testing"
)

func TestEnumerateCount(t *testing.T) {
	tests := []struct {
		sites    []int64
		alphabet []string
		expected int
	}{
		{[]int64{10}, []string{"A"}, 1},
		{[]int64{10, 20}, []string{"A", "V"}, 4},
		{[]int64{1, 2, 3}, []string{"A", "V", "L"}, 27},
		{nil, []string{"A"}, 1}, // n^0: the empty combination
	}

	for _, tt := range tests {
		combs := Enumerate(tt.sites, tt.alphabet)
		if len(combs) != tt.expected {
			t.Errorf("sites=%v alphabet=%v: expected %d combinations, got %d",
				tt.sites, tt.alphabet, tt.expected, len(combs))
		}

		seen := make(map[string]bool)
		for _, c := range combs {
			if len(c) != len(tt.sites) {
				t.Errorf("combination %v does not cover all %d sites", c, len(tt.sites))
			}
			for i, pt := range c {
				if pt.Position != tt.sites[i] {
					t.Errorf("combination %v: site order broken at %d", c, i)
				}
			}
			key := ""
			for _, pt := range c {
				key += pt.To
			}
			if seen[key] {
				t.Errorf("duplicate combination %v", c)
			}
			seen[key] = true
		}
	}
}

func TestEnumerateOrder(t *testing.T) {
	combs := Enumerate([]int64{10, 20}, []string{"ALA", "VAL"})

	expected := []Combination{
		{{10, "A"}, {20, "A"}},
		{{10, "A"}, {20, "V"}},
		{{10, "V"}, {20, "A"}},
		{{10, "V"}, {20, "V"}},
	}
	if !reflect.DeepEqual(combs, expected) {
		t.Errorf("expected %v, got %v", expected, combs)
	}

	// Stable across invocations.
	again := Enumerate([]int64{10, 20}, []string{"ALA", "VAL"})
	if !reflect.DeepEqual(combs, again) {
		t.Error("enumeration order not deterministic")
	}
}

func TestMutated(t *testing.T) {
	c := Combination{{10, "A"}, {20, "V"}}
	if !c.Mutated(10) || !c.Mutated(20) {
		t.Error("expected sites 10 and 20 to be mutated")
	}
	if c.Mutated(15) {
		t.Error("position 15 reported as mutated")
	}
}
