package life

import (
	"errors"
	"slices"
	"testing"

	"cellgrid/internal/core"
)

func TestParseRuleSet(t *testing.T) {
	cases := []struct {
		in   string
		want []int
	}{
		{"23", []int{2, 3}},
		{"3", []int{3}},
		{"2, 3", []int{2, 3}},
		{"", nil},
		{"012345678", []int{0, 1, 2, 3, 4, 5, 6, 7, 8}},
		{"33", []int{3}},
	}
	for _, c := range cases {
		r, err := ParseRuleSet(c.in)
		if err != nil {
			t.Fatalf("ParseRuleSet(%q): %v", c.in, err)
		}
		if got := r.Counts(); !slices.Equal(got, c.want) {
			t.Fatalf("ParseRuleSet(%q) = %v, want %v", c.in, got, c.want)
		}
	}

	for _, bad := range []string{"9", "2x", "-1"} {
		if _, err := ParseRuleSet(bad); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("ParseRuleSet(%q) err=%v, want ErrInvalidConfig", bad, err)
		}
	}
}

func TestNewRuleSetRange(t *testing.T) {
	if _, err := NewRuleSet(0, 8); err != nil {
		t.Fatalf("bounds rejected: %v", err)
	}
	if _, err := NewRuleSet(9); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("9 accepted, err=%v", err)
	}
	if MustRuleSet(3).Contains(9) || MustRuleSet(3).Contains(-1) {
		t.Fatal("Contains accepted an out-of-range count")
	}
}

func TestRulesNext(t *testing.T) {
	for n := 0; n <= 8; n++ {
		wantAlive := core.Dead
		if n == 2 || n == 3 {
			wantAlive = core.Alive
		}
		if got := Conway.Next(core.Alive, n); got != wantAlive {
			t.Fatalf("live cell with %d neighbors -> %v, want %v", n, got, wantAlive)
		}
		wantDead := core.Dead
		if n == 3 {
			wantDead = core.Alive
		}
		if got := Conway.Next(core.Dead, n); got != wantDead {
			t.Fatalf("dead cell with %d neighbors -> %v, want %v", n, got, wantDead)
		}
	}
	if s := Conway.String(); s != "B3/S23" {
		t.Fatalf("Conway.String() = %q", s)
	}
}

func TestParseBorder(t *testing.T) {
	for in, want := range map[string]Border{"dead": BorderDead, "Alive": BorderAlive, " wrap ": BorderWrap} {
		got, err := ParseBorder(in)
		if err != nil || got != want {
			t.Fatalf("ParseBorder(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseBorder("mirror"); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("unknown border accepted, err=%v", err)
	}
}
