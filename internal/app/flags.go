package app

import (
	"flag"
	"strings"
)

// Flags represents the command-line parameters shared by the commands.
type Flags struct {
	Config    string
	Scale     int
	TPS       int
	HUDWidth  int
	Load      string
	Overrides KVList
}

// NewFlags returns Flags populated with sensible defaults.
func NewFlags() *Flags {
	return &Flags{Scale: 5, TPS: 60, HUDWidth: 240}
}

// Bind attaches the flags to the provided FlagSet.
func (f *Flags) Bind(fs *flag.FlagSet) {
	fs.StringVar(&f.Config, "config", f.Config, "TOML config file (defaults are used when empty)")
	fs.IntVar(&f.Scale, "scale", f.Scale, "pixel scale multiplier")
	fs.IntVar(&f.TPS, "tps", f.TPS, "frames per second of the viewer")
	fs.IntVar(&f.HUDWidth, "hud", f.HUDWidth, "status panel width in pixels, 0 hides it")
	fs.StringVar(&f.Load, "load", f.Load, ".gol file to load at startup")
	fs.Var(&f.Overrides, "set", "config override in key=value form (repeatable)")
}

// KVList collects repeated key=value flags.
type KVList []string

func (l *KVList) String() string {
	return strings.Join(*l, ",")
}

func (l *KVList) Set(value string) error {
	*l = append(*l, value)
	return nil
}
