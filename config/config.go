// Package config loads solver settings from flags, LPSIMPLEX_* environment
// variables and an optional config file, in that order of precedence.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"q.log/lpsimplex/instance"
	"q.log/lpsimplex/model"
	"q.log/lpsimplex/report"
	"q.log/lpsimplex/simplex"
	"q.log/lpsimplex/solver"
)

// EnvPrefix prefixes the environment variable of every key, with dashes
// turned into underscores: LPSIMPLEX_MAX_ITERATIONS.
const EnvPrefix = "LPSIMPLEX"

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid value")

// keys
const (
	KeyBackend       = "backend"
	KeyMaxIterations = "max-iterations"
	KeyTolerance     = "tolerance"
	KeyTwoPhase      = "two-phase"
	KeyTrace         = "trace"
	KeyOutput        = "output"
	KeyFormat        = "format"
	KeyMPSDirection  = "mps-direction"
	KeyLogLevel      = "log-level"
	KeyLogFormat     = "log-format"
)

type Config struct {
	Backend       string  `mapstructure:"backend"`
	MaxIterations int     `mapstructure:"max-iterations"`
	Tolerance     float64 `mapstructure:"tolerance"`
	TwoPhase      bool    `mapstructure:"two-phase"`
	Trace         bool    `mapstructure:"trace"`
	Output        string  `mapstructure:"output"`
	Format        string  `mapstructure:"format"`
	MPSDirection  string  `mapstructure:"mps-direction"`
	LogLevel      string  `mapstructure:"log-level"`
	LogFormat     string  `mapstructure:"log-format"`
}

// Default returns the settings used when nothing overrides them. Unlike the
// library, the command line runs the feasibility phase by default.
func Default() Config {
	return Config{
		Backend:       string(solver.Tableau),
		MaxIterations: simplex.DefaultMaxIterations,
		Tolerance:     simplex.DefaultTolerance,
		TwoPhase:      true,
		Output:        string(report.Text),
		Format:        string(instance.Auto),
		MPSDirection:  model.Minimize.String(),
		LogLevel:      "warn",
		LogFormat:     "console",
	}
}

// BindFlags registers one flag per key on fs.
func BindFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String(KeyBackend, d.Backend, "solver backend: tableau, gonum or glpk")
	fs.Int(KeyMaxIterations, d.MaxIterations, "pivot limit per simplex phase")
	fs.Float64(KeyTolerance, d.Tolerance, "zero tolerance for reduced costs, pivots and the ratio test")
	fs.Bool(KeyTwoPhase, d.TwoPhase, "run a feasibility phase when the slack basis is infeasible")
	fs.Bool(KeyTrace, d.Trace, "print every tableau (tableau backend only)")
	fs.StringP(KeyOutput, "o", d.Output, "result format: text or json")
	fs.StringP(KeyFormat, "f", d.Format, "input format: auto, table, expr or mps")
	fs.String(KeyMPSDirection, d.MPSDirection, "optimization direction of MPS inputs: min or max")
	fs.String(KeyLogLevel, d.LogLevel, "log level: debug, info, warn or error")
	fs.String(KeyLogFormat, d.LogFormat, "log format: console or json")
}

// Load reads the configuration into v. fs may be nil, file may be empty.
func Load(v *viper.Viper, fs *pflag.FlagSet, file string) (Config, error) {
	d := Default()
	v.SetDefault(KeyBackend, d.Backend)
	v.SetDefault(KeyMaxIterations, d.MaxIterations)
	v.SetDefault(KeyTolerance, d.Tolerance)
	v.SetDefault(KeyTwoPhase, d.TwoPhase)
	v.SetDefault(KeyTrace, d.Trace)
	v.SetDefault(KeyOutput, d.Output)
	v.SetDefault(KeyFormat, d.Format)
	v.SetDefault(KeyMPSDirection, d.MPSDirection)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyLogFormat, d.LogFormat)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return Config{}, errors.Wrap(err, "config: binding flags")
		}
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "config: reading %s", file)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "config")
	}

	return c, c.Validate()
}

// Validate checks every field.
func (c Config) Validate() error {
	if _, err := solver.ParseBackend(c.Backend); err != nil {
		return errors.Wrapf(ErrInvalid, "%s: %v", KeyBackend, err)
	}
	if c.MaxIterations < 0 {
		return errors.Wrapf(ErrInvalid, "%s: %d is negative", KeyMaxIterations, c.MaxIterations)
	}
	if !(c.Tolerance > 0) {
		return errors.Wrapf(ErrInvalid, "%s: %g must be positive", KeyTolerance, c.Tolerance)
	}
	if _, err := report.ParseFormat(c.Output); err != nil {
		return errors.Wrapf(ErrInvalid, "%s: %v", KeyOutput, err)
	}
	if _, err := instance.ParseFormat(c.Format); err != nil {
		return errors.Wrapf(ErrInvalid, "%s: %v", KeyFormat, err)
	}
	if _, err := model.ParseDirection(c.MPSDirection); err != nil {
		return errors.Wrapf(ErrInvalid, "%s: %v", KeyMPSDirection, err)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrapf(ErrInvalid, "%s: %v", KeyLogLevel, err)
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return errors.Wrapf(ErrInvalid, "%s: %q is neither console nor json", KeyLogFormat, c.LogFormat)
	}

	return nil
}

// EngineOptions returns the tableau engine options c selects.
func (c Config) EngineOptions() []simplex.Option {
	return []simplex.Option{
		simplex.WithMaxIterations(c.MaxIterations),
		simplex.WithTolerance(c.Tolerance),
		simplex.WithTwoPhase(c.TwoPhase),
	}
}

// ReaderOptions returns the instance reader options c selects.
func (c Config) ReaderOptions() []instance.Option {
	var opts []instance.Option
	if f, err := instance.ParseFormat(c.Format); err == nil {
		opts = append(opts, instance.WithFormat(f))
	}
	if d, err := model.ParseDirection(c.MPSDirection); err == nil {
		opts = append(opts, instance.WithDirection(d))
	}

	return opts
}
