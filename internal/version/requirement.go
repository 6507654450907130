// SPDX-License-Identifier: MPL-2.0

// Package version evaluates comparison-operator requirement strings against
// dotted version numbers. It implements the compatibility window check used
// when narrowing discovered simulator installations to the ones a release
// supports (e.g. ">=4.1, <=4.5").
package version

import (
	"regexp"
	"strconv"
	"strings"
)

// clausePattern extracts every operator+version pair from a free-form
// requirement string. Text that matches no clause is ignored.
var clausePattern = regexp.MustCompile(`(>=|<=|>|<|==|!=)\s*([0-9.]+)`)

// Clause is one (operator, version) pair extracted from a requirement.
type Clause struct {
	Operator string
	Version  string
}

// ParseRequirement extracts all comparison clauses from requirement. A string
// with no recognizable clauses yields an empty slice, which Satisfies treats
// as vacuously true.
func ParseRequirement(requirement string) []Clause {
	matches := clausePattern.FindAllStringSubmatch(requirement, -1)
	clauses := make([]Clause, 0, len(matches))
	for _, m := range matches {
		clauses = append(clauses, Clause{Operator: m[1], Version: m[2]})
	}
	return clauses
}

// Satisfies reports whether candidate meets every clause of requirement.
func Satisfies(candidate, requirement string) bool {
	for _, clause := range ParseRequirement(requirement) {
		if !holds(Compare(candidate, clause.Version), clause.Operator) {
			return false
		}
	}
	return true
}

func holds(cmp int, operator string) bool {
	switch operator {
	case ">=":
		return cmp >= 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case "<":
		return cmp < 0
	case "==":
		return cmp == 0
	case "!=":
		return cmp != 0
	default:
		return false
	}
}

// Compare orders two dotted versions numerically, segment by segment.
// Missing segments count as zero, so "4.1" equals "4.1.0". The ordering is
// numeric, not lexical: "4.10" sorts after "4.9".
func Compare(a, b string) int {
	as := segments(a)
	bs := segments(b)
	for i := 0; i < len(as) || i < len(bs); i++ {
		av, bv := 0, 0
		if i < len(as) {
			av = as[i]
		}
		if i < len(bs) {
			bv = bs[i]
		}
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	}
	return 0
}

func segments(v string) []int {
	parts := strings.Split(v, ".")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}
