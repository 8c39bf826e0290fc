package config

import (
	"fmt"
	"os"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"cellgrid/internal/core"
	"cellgrid/internal/sims/life"
)

type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	Seed    SeedConfig    `toml:"seed"`
	Session SessionConfig `toml:"session"`
	Logging LoggingConfig `toml:"logging"`
}

type EngineConfig struct {
	Variant  string `toml:"variant"`
	Width    int    `toml:"width"`
	Height   int    `toml:"height"`
	Border   string `toml:"border"` // "dead", "alive" or "wrap"
	Survival []int  `toml:"survival"`
	Birth    []int  `toml:"birth"`
	Threads  int    `toml:"threads"`
}

type SeedConfig struct {
	Random bool    `toml:"random"` // fill new systems randomly
	Alive  float64 `toml:"alive"`  // relative weight of live cells
	Dead   float64 `toml:"dead"`   // relative weight of dead cells
	Seed   int64   `toml:"seed"`   // 0 seeds from the clock
}

type SessionConfig struct {
	GenerationsPerStep int           `toml:"generations_per_step"`
	Delay              time.Duration `toml:"delay"` // pause between free-running generations
	SavePath           string        `toml:"save_path"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// Load reads a TOML file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration: a randomly seeded 160x100
// Conway board with dead borders.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Variant:  "dense",
			Width:    160,
			Height:   100,
			Border:   "dead",
			Survival: []int{2, 3},
			Birth:    []int{3},
			Threads:  runtime.NumCPU(),
		},
		Seed: SeedConfig{
			Random: true,
			Alive:  1,
			Dead:   2,
		},
		Session: SessionConfig{
			GenerationsPerStep: 1,
			Delay:              50 * time.Millisecond,
			SavePath:           "saves",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks the engine section by building its life.Config and the
// session values that have no engine counterpart.
func (c *Config) Validate() error {
	if !slices.Contains(core.Engines(), c.Engine.Variant) {
		return fmt.Errorf("unknown engine variant %q, have %s", c.Engine.Variant, strings.Join(core.Engines(), ", "))
	}
	if _, err := life.FromEngineConfig(c.EngineConfig()); err != nil {
		return err
	}
	if c.Session.GenerationsPerStep < 1 {
		return fmt.Errorf("generations_per_step must be at least 1, got %d", c.Session.GenerationsPerStep)
	}
	if c.Session.Delay < 0 {
		return fmt.Errorf("delay must not be negative, got %s", c.Session.Delay)
	}
	if c.Seed.Alive < 0 || c.Seed.Dead < 0 {
		return fmt.Errorf("seed weights must not be negative, got alive=%g dead=%g", c.Seed.Alive, c.Seed.Dead)
	}
	return nil
}

// EngineConfig returns the variant-neutral engine parameters.
func (c *Config) EngineConfig() core.EngineConfig {
	return core.EngineConfig{
		Width:    c.Engine.Width,
		Height:   c.Engine.Height,
		Border:   c.Engine.Border,
		Survival: append([]int(nil), c.Engine.Survival...),
		Birth:    append([]int(nil), c.Engine.Birth...),
		Threads:  c.Engine.Threads,
	}
}

// Apply overrides fields from flag-style key/value pairs, e.g. "w=64" or
// "survival=23". Unknown keys and unparsable values are errors.
func (c *Config) Apply(kv map[string]string) error {
	for key, v := range kv {
		if err := c.set(key, v); err != nil {
			return fmt.Errorf("override %s=%q: %w", key, v, err)
		}
	}
	return c.Validate()
}

// ApplyPairs is Apply for a list of "key=value" strings.
func (c *Config) ApplyPairs(pairs []string) error {
	kv := make(map[string]string, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok {
			return fmt.Errorf("override %q: expected key=value", p)
		}
		kv[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return c.Apply(kv)
}

func (c *Config) set(key, v string) error {
	var err error
	switch key {
	case "variant":
		c.Engine.Variant = v
	case "w", "width":
		c.Engine.Width, err = strconv.Atoi(v)
	case "h", "height":
		c.Engine.Height, err = strconv.Atoi(v)
	case "border":
		c.Engine.Border = v
	case "survival":
		c.Engine.Survival, err = parseCounts(v)
	case "birth":
		c.Engine.Birth, err = parseCounts(v)
	case "threads":
		c.Engine.Threads, err = strconv.Atoi(v)
	case "random":
		c.Seed.Random, err = strconv.ParseBool(v)
	case "alive":
		c.Seed.Alive, err = strconv.ParseFloat(v, 64)
	case "dead":
		c.Seed.Dead, err = strconv.ParseFloat(v, 64)
	case "seed":
		c.Seed.Seed, err = strconv.ParseInt(v, 10, 64)
	case "gps", "generations_per_step":
		c.Session.GenerationsPerStep, err = strconv.Atoi(v)
	case "delay":
		c.Session.Delay, err = time.ParseDuration(v)
	case "save_path":
		c.Session.SavePath = v
	case "level":
		c.Logging.Level = v
	case "format":
		c.Logging.Format = v
	default:
		return fmt.Errorf("unknown key")
	}
	return err
}

func parseCounts(v string) ([]int, error) {
	r, err := life.ParseRuleSet(v)
	if err != nil {
		return nil, err
	}
	return r.Counts(), nil
}
