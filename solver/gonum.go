package solver

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"q.log/lpsimplex/model"
	"q.log/lpsimplex/simplex"
)

// gonumSolver delegates to gonum's revised simplex implementation.
type gonumSolver struct {
	opts *options
}

func (s *gonumSolver) Name() string { return string(Gonum) }

func (s *gonumSolver) Solve(ctx context.Context, p *model.LinearProgram) (*simplex.Result, error) {
	if err := checkInput(ctx, p); err != nil {
		return nil, err
	}
	start := time.Now()

	sf := newStandardForm(p)
	res, err := sf.solve(p, s.opts.tol)
	if err != nil {
		return nil, err
	}

	s.opts.logResult(s.Name(), p, res, start)
	return res, nil
}

// standardForm is min c·x subject to A x = b, x >= 0, built from a
// LinearProgram by giving every row a slack column. Equality rows are split
// into a <= and a >= row so that the slack block keeps A at full row rank.
// A free variable gets a second, negated column. Variables whose column is
// zero in every row are left out.
type standardForm struct {
	c []float64
	a *mat.Dense
	b []float64
	//cols maps the kept columns to their variable in the program
	cols []column
	//improving is set when a dropped variable can lower the cost
	improving bool
}

type column struct {
	j    int
	sign float64
}

func newStandardForm(p *model.LinearProgram) *standardForm {
	n := p.NumVars()
	a, b := p.A(), p.B()
	c := p.Objective()
	if p.Direction() == model.Maximize {
		floats.Scale(-1, c)
	}

	sf := &standardForm{}
	for j := range n {
		if mat.Norm(a.ColView(j), 1) == 0 {
			if c[j] < 0 || (c[j] != 0 && p.IsFree(j)) {
				sf.improving = true
			}
			continue
		}
		sf.cols = append(sf.cols, column{j, 1})
		if p.IsFree(j) {
			sf.cols = append(sf.cols, column{j, -1})
		}
	}

	type row struct {
		i    int
		sign float64
	}
	var rows []row
	for i, rel := range p.Relations() {
		switch rel {
		case model.LessEqual:
			rows = append(rows, row{i, 1})
		case model.GreaterEqual:
			rows = append(rows, row{i, -1})
		case model.Equal:
			rows = append(rows, row{i, 1}, row{i, -1})
		}
	}

	k := len(sf.cols)
	sf.a = mat.NewDense(len(rows), k+len(rows), nil)
	sf.b = make([]float64, len(rows))
	sf.c = make([]float64, k+len(rows))
	for jj, col := range sf.cols {
		sf.c[jj] = col.sign * c[col.j]
	}
	for r, row := range rows {
		for jj, col := range sf.cols {
			sf.a.Set(r, jj, col.sign*a.At(row.i, col.j))
		}
		sf.a.Set(r, k+r, row.sign)
		sf.b[r] = b.AtVec(row.i)
	}

	return sf
}

func (sf *standardForm) solve(p *model.LinearProgram, tol float64) (*simplex.Result, error) {
	_, x, err := lp.Simplex(sf.c, sf.a, sf.b, tol, nil)
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return simplex.NewResult(simplex.Infeasible, 0), nil
	case errors.Is(err, lp.ErrUnbounded):
		return simplex.NewResult(simplex.Unbounded, 0), nil
	case err != nil:
		return nil, errors.Wrap(err, "solver: gonum")
	case sf.improving:
		return simplex.NewResult(simplex.Unbounded, 0), nil
	}

	assignment := make([]float64, p.NumVars())
	for jj, col := range sf.cols {
		if math.Abs(x[jj]) > tol {
			assignment[col.j] += col.sign * x[jj]
		}
	}

	return simplex.NewOptimal(assignment, p.Evaluate(assignment), 0), nil
}
