// Package config provides the TOML run configuration.
package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/maseology/hymod"
	"github.com/maseology/hymod/calibrate"
	"github.com/maseology/hymod/forcing"
)

const dateFormat = "2006-01-02"

// calibration searches
const (
	MethodNelderMead = "nelder-mead"
	MethodSCE        = "sce"
)

// Config represents the TOML configuration file.
type Config struct {
	Parameters  ParametersConfig  `toml:"parameters"`
	Snow        SnowConfig        `toml:"snow"`
	Initial     InitialConfig     `toml:"initial"`
	Site        SiteConfig        `toml:"site"`
	Period      PeriodConfig      `toml:"period"`
	Calibration CalibrationConfig `toml:"calibration"`
	Output      OutputConfig      `toml:"output"`
}

// ParametersConfig maps the HyMod parameters.
type ParametersConfig struct {
	Huz   float64 `toml:"huz"`
	B     float64 `toml:"b"`
	Alpha float64 `toml:"alpha"`
	Nq    int     `toml:"nq"`
	Kq    float64 `toml:"kq"`
	Ks    float64 `toml:"ks"`
	Kv    float64 `toml:"kv"`
}

// SnowConfig maps the degree-day snow parameters.
type SnowConfig struct {
	Enabled bool    `toml:"enabled"`
	DDF     float64 `toml:"ddf"`
	Tth     float64 `toml:"tth"`
	Tb      float64 `toml:"tb"`
}

// InitialConfig maps the initial storages. An empty quick list means empty tanks.
type InitialConfig struct {
	Soil  float64   `toml:"soil"`
	Quick []float64 `toml:"quick"`
	Slow  float64   `toml:"slow"`
	Snow  float64   `toml:"snow"`
}

// SiteConfig maps the catchment and its forcing.
type SiteConfig struct {
	Forcing  string   `toml:"forcing"`
	Latitude *float64 `toml:"latitude"`  // overrides the forcing latitude
	PESource string   `toml:"pe-source"` // "supplied" or "hamon"
}

// PeriodConfig maps the simulation window. Empty dates span the forcing.
type PeriodConfig struct {
	Start  string `toml:"start"`
	End    string `toml:"end"`
	Warmup int    `toml:"warmup"` // days excluded from scoring
}

// CalibrationConfig maps optimisation and sampling settings.
type CalibrationConfig struct {
	Objective string `toml:"objective"`
	Method    string `toml:"method"`    // "nelder-mead" or "sce"
	Starts    int    `toml:"starts"`    // nelder-mead
	MaxEvals  int    `toml:"max-evals"` // nelder-mead, per start
	Complexes int    `toml:"complexes"` // sce, defaults to GOMAXPROCS
	Samples   int    `toml:"samples"`
	Workers   int    `toml:"workers"`
	Seed      uint64 `toml:"seed"`
	Database  string `toml:"database"`
}

// OutputConfig maps result files. Empty paths are not written.
type OutputConfig struct {
	CSV  string `toml:"csv"`
	Bins string `toml:"bins"` // prefix of the float32 .bin files
}

// Default returns the configuration used for keys missing from a file.
func Default() Config {
	return Config{
		Parameters: ParametersConfig{Huz: 100., B: .5, Alpha: .6, Nq: 3, Kq: .5, Ks: .1, Kv: 1.},
		Snow:       SnowConfig{DDF: 2., Tth: 0., Tb: 0.},
		Site:       SiteConfig{PESource: "supplied"},
		Period:     PeriodConfig{Warmup: 365},
		Calibration: CalibrationConfig{
			Objective: "nse",
			Method:    MethodNelderMead,
			Starts:    4,
			MaxEvals:  1000,
			Samples:   1000,
			Seed:      1,
			Database:  DefaultDBPath(),
		},
	}
}

// Load reads a TOML config over the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, fmt.Errorf("config path is empty")
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if und := md.Undecoded(); len(und) > 0 {
		keys := make([]string, len(und))
		for i, k := range und {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Model builds the model described by the configuration.
func (c *Config) Model() (*hymod.Model, error) {
	p := c.Parameters
	par := hymod.Parameters{Huz: p.Huz, B: p.B, Alpha: p.Alpha, Nq: p.Nq, Kq: p.Kq, Ks: p.Ks, Kv: p.Kv}
	snow := hymod.SnowParameters{UseSnow: c.Snow.Enabled, DDF: c.Snow.DDF, Tth: c.Snow.Tth, Tb: c.Snow.Tb}
	x0 := hymod.InitialState{
		Soil:  c.Initial.Soil,
		Quick: c.Initial.Quick,
		Slow:  c.Initial.Slow,
		Snow:  c.Initial.Snow,
	}
	if len(x0.Quick) == 0 && p.Nq > 0 {
		x0.Quick = make([]float64, p.Nq)
	}
	opts, err := c.Options()
	if err != nil {
		return nil, err
	}
	return hymod.New(par, snow, x0, opts...)
}

// Options returns the model options of the configuration.
func (c *Config) Options() ([]hymod.Option, error) {
	switch strings.ToLower(c.Site.PESource) {
	case "", "supplied":
		return nil, nil
	case "hamon":
		return []hymod.Option{hymod.WithPE(hymod.PEHamon)}, nil
	default:
		return nil, fmt.Errorf("config: unknown pe-source %q (want supplied or hamon)", c.Site.PESource)
	}
}

// Objective parses the calibration objective.
func (c *Config) Objective() (calibrate.Objective, error) {
	return calibrate.ParseObjective(c.Calibration.Objective)
}

// Method returns the calibration search
func (c *Config) Method() (string, error) {
	switch m := strings.ToLower(c.Calibration.Method); m {
	case "", MethodNelderMead:
		return MethodNelderMead, nil
	case MethodSCE:
		return m, nil
	default:
		return "", fmt.Errorf("config: unknown calibration method %q (want %s or %s)", c.Calibration.Method, MethodNelderMead, MethodSCE)
	}
}

// Window resolves the simulation period against the forcing, returning
// the first day index and the number of days.
func (c *Config) Window(frc *forcing.Forcing) (start, n int, err error) {
	start, end := 0, frc.Len()-1
	if c.Period.Start != "" {
		t, err := time.Parse(dateFormat, c.Period.Start)
		if err != nil {
			return 0, 0, fmt.Errorf("config: period start: %w", err)
		}
		if start, err = frc.Index(t); err != nil {
			return 0, 0, fmt.Errorf("config: period start %s: %w", c.Period.Start, err)
		}
	}
	if c.Period.End != "" {
		t, err := time.Parse(dateFormat, c.Period.End)
		if err != nil {
			return 0, 0, fmt.Errorf("config: period end: %w", err)
		}
		if end, err = frc.Index(t); err != nil {
			return 0, 0, fmt.Errorf("config: period end %s: %w", c.Period.End, err)
		}
	}
	if end < start {
		return 0, 0, fmt.Errorf("config: period ends (%s) before it starts (%s)", c.Period.End, c.Period.Start)
	}
	return start, end - start + 1, nil
}
