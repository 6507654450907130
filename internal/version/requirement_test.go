// SPDX-License-Identifier: MPL-2.0

package version

import "testing"

func TestParseRequirement(t *testing.T) {
	clauses := ParseRequirement(">=4.1, <=4.5")
	if len(clauses) != 2 {
		t.Fatalf("expected 2 clauses, got %d", len(clauses))
	}
	if clauses[0] != (Clause{Operator: ">=", Version: "4.1"}) {
		t.Errorf("first clause = %+v", clauses[0])
	}
	if clauses[1] != (Clause{Operator: "<=", Version: "4.5"}) {
		t.Errorf("second clause = %+v", clauses[1])
	}
}

func TestParseRequirementIgnoresUnmatchedText(t *testing.T) {
	clauses := ParseRequirement("tested with !=4.2 only")
	if len(clauses) != 1 {
		t.Fatalf("expected 1 clause, got %d", len(clauses))
	}
	if clauses[0].Operator != "!=" || clauses[0].Version != "4.2" {
		t.Errorf("clause = %+v", clauses[0])
	}
}

func TestSatisfiesVacuousRequirement(t *testing.T) {
	for _, requirement := range []string{"", "latest", "any version works"} {
		if !Satisfies("1.0", requirement) {
			t.Errorf("Satisfies(1.0, %q) = false, want vacuous true", requirement)
		}
	}
}

func TestSatisfiesNumericOrdering(t *testing.T) {
	if !Satisfies("4.10", ">4.9") {
		t.Error(`Satisfies("4.10", ">4.9") = false; ordering must be numeric, not lexical`)
	}
	if Satisfies("4.9", ">4.10") {
		t.Error(`Satisfies("4.9", ">4.10") = true; ordering must be numeric, not lexical`)
	}
}

func TestSatisfiesConjunction(t *testing.T) {
	tests := []struct {
		candidate   string
		requirement string
		want        bool
	}{
		{"4.2", ">=4.1, <=4.5", true},
		{"4.0", ">=4.1, <=4.5", false},
		{"4.6", ">=4.1, <=4.5", false},
		{"4.1", ">=4.1, <=4.5", true},
		{"4.5", ">=4.1, <=4.5", true},
		{"4.2", "==4.2", true},
		{"4.2.0", "==4.2", true},
		{"4.2.1", "!=4.2", true},
		{"4.2", "!=4.2", false},
		{"5.0", "<5.0", false},
	}
	for _, tt := range tests {
		if got := Satisfies(tt.candidate, tt.requirement); got != tt.want {
			t.Errorf("Satisfies(%q, %q) = %v, want %v", tt.candidate, tt.requirement, got, tt.want)
		}
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"4.1", "4.1.0", 0},
		{"4.10", "4.9", 1},
		{"4.9", "4.10", -1},
		{"2.0.0", "2.0.1", -1},
		{"10.0", "9.9.9", 1},
	}
	for _, tt := range tests {
		if got := Compare(tt.a, tt.b); got != tt.want {
			t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
