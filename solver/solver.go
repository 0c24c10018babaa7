// Package solver puts the tableau engine and the off-the-shelf LP solvers
// behind one interface, so callers can pick a backend by name and compare
// their answers.
package solver

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"q.log/lpsimplex/model"
	"q.log/lpsimplex/simplex"
)

var (
	// ErrUnknownBackend is returned by New and ParseBackend for names other
	// than the Backend constants.
	ErrUnknownBackend = errors.New("solver: unknown backend")
	// ErrBackendUnavailable is returned by New for a backend the binary was
	// built without.
	ErrBackendUnavailable = errors.New("solver: backend not available in this build")
)

// Solver solves a linear program to a terminal Result. Unbounded, infeasible
// and cycling programs are reported through the Result status, errors are
// reserved for programs the backend cannot process at all.
type Solver interface {
	// Name returns the backend name
	Name() string
	// Solve solves p. The context is checked before solving starts.
	Solve(ctx context.Context, p *model.LinearProgram) (*simplex.Result, error)
}

// Backend names a Solver implementation.
type Backend string

// enumeration of Backend
const (
	Tableau Backend = "tableau"
	Gonum   Backend = "gonum"
	GLPK    Backend = "glpk"
)

// Backends lists every backend name, available in this build or not.
func Backends() []Backend {
	return []Backend{Tableau, Gonum, GLPK}
}

// ParseBackend parses a backend name, case-insensitively.
func ParseBackend(s string) (Backend, error) {
	b := Backend(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Backends() {
		if b == known {
			return b, nil
		}
	}

	return "", errors.Wrapf(ErrUnknownBackend, "%q", s)
}

type options struct {
	logger *zap.Logger
	engine []simplex.Option
	tol    float64
}

// Option configures a Solver.
type Option func(*options)

// WithLogger sets the logger backends report to. The default discards.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEngineOptions passes options to simplex.Solve. Only the tableau backend
// uses them.
func WithEngineOptions(opts ...simplex.Option) Option {
	return func(o *options) {
		o.engine = append(o.engine, opts...)
	}
}

// WithTolerance sets the zero tolerance of the gonum backend. The tableau
// backend takes its tolerance from simplex.WithTolerance.
func WithTolerance(tol float64) Option {
	return func(o *options) {
		o.tol = tol
	}
}

// New is a factory that creates a Solver for the given backend.
func New(backend Backend, opts ...Option) (Solver, error) {
	o := &options{
		logger: zap.NewNop(),
		tol:    simplex.DefaultTolerance,
	}
	for _, opt := range opts {
		opt(o)
	}
	if !(o.tol > 0) {
		return nil, errors.Errorf("solver: tolerance %g must be positive", o.tol)
	}

	switch backend {
	case Tableau:
		return &tableauSolver{opts: o}, nil
	case Gonum:
		return &gonumSolver{opts: o}, nil
	case GLPK:
		return newGLPK(o)
	default:
		return nil, errors.Wrapf(ErrUnknownBackend, "%q", backend)
	}
}

// logResult reports a finished solve at debug level.
func (o *options) logResult(name string, p *model.LinearProgram, res *simplex.Result, start time.Time) {
	if ce := o.logger.Check(zap.DebugLevel, "solved linear program"); ce != nil {
		fields := []zap.Field{
			zap.String("backend", name),
			zap.Int("rows", p.NumConstraints()),
			zap.Int("vars", p.NumVars()),
			zap.Stringer("status", res.Status()),
			zap.Int("iterations", res.Iterations()),
			zap.Duration("elapsed", time.Since(start)),
		}
		if res.Optimal() {
			fields = append(fields, zap.Float64("objective", res.ObjectiveValue()))
		}
		ce.Write(fields...)
	}
}

func checkInput(ctx context.Context, p *model.LinearProgram) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "solver")
	}

	return p.Validate()
}
