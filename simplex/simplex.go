// Package simplex solves linear programs with the dense tableau simplex
// method: Canonicalize turns a model.LinearProgram into equality form and
// Solve pivots it to a terminal Result.
package simplex

import (
	"github.com/pkg/errors"
)

// ErrInfeasibleStart is returned by Solve when the auxiliary columns do not
// form a feasible starting basis and the feasibility phase is disabled. This
// is the case for every = row, a <= row with negative rhs and a >= row with
// positive rhs.
var ErrInfeasibleStart = errors.New("simplex: no feasible starting basis among auxiliary columns")

// Solve runs the tableau simplex method on cf.
//
// Unbounded and cycling programs are not errors, they are reported through the
// Status of the returned Result. Errors are reserved for invalid options and
// for a program the engine cannot start from, see ErrInfeasibleStart.
func Solve(cf *CanonicalForm, opts ...Option) (*Result, error) {
	if err := cf.check(); err != nil {
		return nil, err
	}
	s, err := newSettings(opts)
	if err != nil {
		return nil, err
	}

	tab, bad := newTableau(cf, s.tol)
	if len(bad) > 0 {
		if !s.twoPhase {
			i := bad[0]
			return nil, errors.Wrapf(ErrInfeasibleStart, "row %d (%s %g)", i, cf.rel[i], cf.b.AtVec(i))
		}
		return solveTwoPhase(tab, bad, cf, s), nil
	}

	_, w := cf.Dims()
	status, iters := tab.run(PhaseTwo, w, s)
	if status != Optimal {
		return NewResult(status, iters), nil
	}

	return tab.extract(cf, iters), nil
}

// run pivots until the first limit columns price out, the entering column is
// unbounded or the pivot budget is spent. The budget only stops a pivot the
// ratio test has already chosen. It returns the number of pivots.
func (t *Tableau) run(phase Phase, limit int, s *settings) (Status, int) {
	s.notify(t, phase, 0, -1, -1, -1)

	for iter := 1; ; iter++ {
		col := t.entering(limit)
		if col < 0 {
			return Optimal, iter - 1
		}
		row := t.leaving(col)
		if row < 0 {
			return Unbounded, iter - 1
		}
		if iter > s.maxIter {
			return IterationLimitExceeded, iter - 1
		}

		out := t.basis[row]
		t.pivot(row, col)
		s.notify(t, phase, iter, col, out, row)
	}
}
