package shared

import (
	"reflect"
	"testing"
)

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  []int
		ok    bool
	}{
		{"single index", "3", 10, []int{3}, true},
		{"comma list", "1,3,5", 10, []int{1, 3, 5}, true},
		{"range", "1-5", 10, []int{1, 2, 3, 4, 5}, true},
		{"mixed", "1,3-5,8", 10, []int{1, 3, 4, 5, 8}, true},
		{"duplicates collapse", "2,4,2", 10, []int{2, 4}, true},
		{"overlapping range", "1-3,2-4", 10, []int{1, 2, 3, 4}, true},
		{"whitespace", " 1, 3 - 5 ", 10, []int{1, 3, 4, 5}, true},
		{"all keyword", "all", 3, []int{1, 2, 3}, true},
		{"star keyword", "*", 2, []int{1, 2}, true},
		{"range clamped to max", "3-99", 5, []int{3, 4, 5}, true},
		{"huge range clamped", "1-999999999", 5, []int{1, 2, 3, 4, 5}, true},
		{"range fully beyond max keeps start", "7-9", 5, []int{7}, true},
		{"reversed range rejected", "5-1", 10, nil, false},
		{"text rejected", "abc", 10, nil, false},
		{"mixed text rejected", "1,abc", 10, nil, false},
		{"empty rejected", "", 10, nil, false},
		{"dash only rejected", "-", 10, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseSelection(tt.input, tt.max)
			if ok != tt.ok {
				t.Fatalf("ParseSelection(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if !ok {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSelection(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSelectionOutOfRangeIsCallerConcern(t *testing.T) {
	// The parser only validates syntax; bounds are checked by the caller.
	got, ok := ParseSelection("99", 5)
	if !ok {
		t.Fatal("expected syntactically valid selection to parse")
	}
	if !reflect.DeepEqual(got, []int{99}) {
		t.Errorf("got %v, want [99]", got)
	}
}
