package app

import (
	"flag"
	"slices"
	"testing"
)

func TestBindParsesRepeatedOverrides(t *testing.T) {
	f := NewFlags()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f.Bind(fs)
	err := fs.Parse([]string{"-scale", "2", "-set", "w=10", "-set", "border=wrap", "-load", "a.gol"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if f.Scale != 2 || f.Load != "a.gol" || f.TPS != 60 {
		t.Fatalf("flags not bound: %+v", f)
	}
	if !slices.Equal([]string(f.Overrides), []string{"w=10", "border=wrap"}) {
		t.Fatalf("overrides %v", f.Overrides)
	}
}
