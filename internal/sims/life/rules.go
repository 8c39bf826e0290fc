package life

import (
	"fmt"
	"strconv"
	"strings"

	"cellgrid/internal/core"
)

// maxNeighbors is the size of the Moore neighborhood.
const maxNeighbors = 8

// RuleSet is an immutable set of neighbor counts in [0,8], stored as a bitmask.
type RuleSet uint16

// NewRuleSet builds a RuleSet from the given counts.
func NewRuleSet(counts ...int) (RuleSet, error) {
	var r RuleSet
	for _, n := range counts {
		if n < 0 || n > maxNeighbors {
			return 0, fmt.Errorf("%w: neighbor count %d outside [0,%d]", ErrInvalidConfig, n, maxNeighbors)
		}
		r |= 1 << uint(n)
	}
	return r, nil
}

// MustRuleSet is NewRuleSet for literals known to be valid.
func MustRuleSet(counts ...int) RuleSet {
	r, err := NewRuleSet(counts...)
	if err != nil {
		panic(err)
	}
	return r
}

// ParseRuleSet reads a digit string such as "23" or "2,3". Spaces and commas
// are separators; an empty string is the empty set.
func ParseRuleSet(s string) (RuleSet, error) {
	var counts []int
	for _, ch := range s {
		switch {
		case ch == ',' || ch == ' ':
			continue
		case ch >= '0' && ch <= '9':
			counts = append(counts, int(ch-'0'))
		default:
			return 0, fmt.Errorf("%w: rule %q has invalid character %q", ErrInvalidConfig, s, ch)
		}
	}
	return NewRuleSet(counts...)
}

// Contains reports whether n satisfies the rule.
func (r RuleSet) Contains(n int) bool {
	if n < 0 || n > maxNeighbors {
		return false
	}
	return r&(1<<uint(n)) != 0
}

// Counts returns the member counts in ascending order.
func (r RuleSet) Counts() []int {
	var out []int
	for n := 0; n <= maxNeighbors; n++ {
		if r.Contains(n) {
			out = append(out, n)
		}
	}
	return out
}

// String renders the set as a digit string, e.g. "23".
func (r RuleSet) String() string {
	var b strings.Builder
	for _, n := range r.Counts() {
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

// Rules pairs the survival rule (applied to live cells) with the birth rule
// (applied to dead cells).
type Rules struct {
	Survival RuleSet
	Birth    RuleSet
}

// Conway is the classic B3/S23 rule pair.
var Conway = Rules{Survival: MustRuleSet(2, 3), Birth: MustRuleSet(3)}

// Next returns the state a cell takes given its current state and live
// neighbor count.
func (r Rules) Next(s core.CellState, n int) core.CellState {
	if s == core.Alive {
		if r.Survival.Contains(n) {
			return core.Alive
		}
		return core.Dead
	}
	if r.Birth.Contains(n) {
		return core.Alive
	}
	return core.Dead
}

// String renders the pair in B/S notation.
func (r Rules) String() string {
	return "B" + r.Birth.String() + "/S" + r.Survival.String()
}
