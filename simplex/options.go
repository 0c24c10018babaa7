package simplex

import (
	"math"

	"github.com/pkg/errors"
)

const (
	// DefaultTolerance is the ε used for optimality, pivot and feasibility
	// comparisons.
	DefaultTolerance = 1e-9
	// DefaultMaxIterations bounds the number of pivots per phase.
	DefaultMaxIterations = 50
)

// ErrOption is returned when an Option receives an unusable value.
var ErrOption = errors.New("simplex: invalid option")

type settings struct {
	tol      float64
	maxIter  int
	observer Observer
	twoPhase bool
}

// Option configures Solve.
type Option func(*settings) error

// WithTolerance sets ε. It must be positive and finite.
func WithTolerance(eps float64) Option {
	return func(s *settings) error {
		if !(eps > 0) || math.IsInf(eps, 0) {
			return errors.Wrapf(ErrOption, "tolerance %g", eps)
		}
		s.tol = eps

		return nil
	}
}

// WithMaxIterations sets the pivot budget of each phase.
func WithMaxIterations(n int) Option {
	return func(s *settings) error {
		if n < 0 {
			return errors.Wrapf(ErrOption, "max iterations %d", n)
		}
		s.maxIter = n

		return nil
	}
}

// WithObserver registers a callback invoked with the initial tableau and after
// every pivot. A nil observer is ignored.
func WithObserver(o Observer) Option {
	return func(s *settings) error {
		s.observer = o

		return nil
	}
}

// WithTwoPhase enables the feasibility phase for programs whose auxiliary
// columns do not form a feasible starting basis. Without it Solve rejects such
// programs with ErrInfeasibleStart.
func WithTwoPhase(enabled bool) Option {
	return func(s *settings) error {
		s.twoPhase = enabled

		return nil
	}
}

func newSettings(opts []Option) (*settings, error) {
	s := &settings{
		tol:     DefaultTolerance,
		maxIter: DefaultMaxIterations,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}
