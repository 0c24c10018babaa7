package simplex

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// addArtificialVariables returns a copy of t widened by one artificial column
// per row in rows. Each such row is first sign-normalized to a non-negative
// rhs, then its artificial becomes basic. The reduced-cost row is that of
// maximizing minus the sum of artificials.
func (t *Tableau) addArtificialVariables(rows []int) *Tableau {
	k := len(rows)
	w := t.vars

	wide := mat.NewDense(t.m+1, w+k+1, nil)
	wide.Slice(0, t.m, 0, w).(*mat.Dense).Copy(t.t.Slice(0, t.m, 0, w))
	wide.Slice(0, t.m, w+k, w+k+1).(*mat.Dense).Copy(t.t.Slice(0, t.m, w, w+1))

	art := &Tableau{
		t:     wide,
		basis: t.Basis(),
		m:     t.m,
		n:     t.n,
		vars:  w + k,
		tol:   t.tol,
	}

	cost := wide.RawRowView(t.m)
	for a, i := range rows {
		r := wide.RawRowView(i)
		if r[w+k] < 0 {
			floats.Scale(-1, r)
		}
		r[w+a] = 1
		art.basis[i] = w + a
		cost[w+a] = 1
	}
	for _, i := range rows {
		floats.Sub(cost, wide.RawRowView(i))
	}

	return art
}

// driveOutArtificials pivots every artificial still basic (at zero level) out
// of the basis on the first real column with a nonzero entry in its row. A row
// without one is redundant and keeps its artificial.
func (t *Tableau) driveOutArtificials(width int, s *settings, iter int) int {
	for i := range t.m {
		if t.basis[i] < width {
			continue
		}
		r := t.t.RawRowView(i)
		for j := range width {
			if math.Abs(r[j]) > t.tol {
				out := t.basis[i]
				t.pivot(i, j)
				iter++
				s.notify(t, PhaseOne, iter, j, out, i)
				break
			}
		}
	}

	return iter
}

// solveTwoPhase finds a feasible basis by maximizing minus the sum of
// artificial variables, then optimizes cf's objective from there without ever
// letting an artificial column re-enter.
func solveTwoPhase(t *Tableau, rows []int, cf *CanonicalForm, s *settings) *Result {
	_, w := cf.Dims()

	art := t.addArtificialVariables(rows)
	status, iters := art.run(PhaseOne, art.vars, s)
	if status != Optimal {
		return NewResult(status, iters)
	}
	if art.Value() < -s.tol {
		return NewResult(Infeasible, iters)
	}
	iters = art.driveOutArtificials(w, s, iters)

	art.resetCost(cf.c.RawVector().Data)
	status, more := art.run(PhaseTwo, w, s)
	iters += more
	if status != Optimal {
		return NewResult(status, iters)
	}

	return art.extract(cf, iters)
}
