//go:build glpk

package solver

import (
	"context"
	"runtime"
	"time"

	"github.com/lukpank/go-glpk/glpk"
	"github.com/pkg/errors"

	"q.log/lpsimplex/model"
	"q.log/lpsimplex/simplex"
)

// glpkSolver runs the GLPK primal simplex.
type glpkSolver struct {
	opts *options
}

func newGLPK(o *options) (Solver, error) {
	return &glpkSolver{opts: o}, nil
}

func (s *glpkSolver) Name() string { return string(GLPK) }

func (s *glpkSolver) Solve(ctx context.Context, p *model.LinearProgram) (*simplex.Result, error) {
	if err := checkInput(ctx, p); err != nil {
		return nil, err
	}
	start := time.Now()

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	lp := glpk.New()
	defer lp.Delete()

	load(lp, p)

	smcp := glpk.NewSmcp()
	smcp.SetMsgLev(glpk.MSG_OFF)
	if err := lp.Simplex(smcp); err != nil {
		return nil, errors.Wrap(err, "solver: glpk")
	}

	var res *simplex.Result
	switch status := lp.Status(); status {
	case glpk.OPT:
		x := make([]float64, p.NumVars())
		for j := range x {
			x[j] = lp.ColPrim(j + 1)
		}
		res = simplex.NewOptimal(x, lp.ObjVal(), 0)
	case glpk.UNBND:
		res = simplex.NewResult(simplex.Unbounded, 0)
	case glpk.NOFEAS, glpk.INFEAS:
		res = simplex.NewResult(simplex.Infeasible, 0)
	default:
		return nil, errors.Errorf("solver: glpk finished with status %v", status)
	}

	s.opts.logResult(s.Name(), p, res, start)
	return res, nil
}

// load copies p into lp, one GLPK row per constraint.
func load(lp *glpk.Prob, p *model.LinearProgram) {
	n, m := p.NumVars(), p.NumConstraints()

	if p.Direction() == model.Maximize {
		lp.SetObjDir(glpk.MAX)
	} else {
		lp.SetObjDir(glpk.MIN)
	}

	lp.AddCols(n)
	for j, c := range p.Objective() {
		if p.IsFree(j) {
			lp.SetColBnds(j+1, glpk.FR, 0, 0)
		} else {
			lp.SetColBnds(j+1, glpk.LO, 0, 0)
		}
		lp.SetObjCoef(j+1, c)
	}

	lp.AddRows(m)
	ind := make([]int32, n+1)
	for j := range n {
		ind[j+1] = int32(j + 1)
	}
	for i, con := range p.Constraints() {
		switch con.Rel {
		case model.LessEqual:
			lp.SetRowBnds(i+1, glpk.UP, 0, con.RHS)
		case model.GreaterEqual:
			lp.SetRowBnds(i+1, glpk.LO, con.RHS, 0)
		case model.Equal:
			lp.SetRowBnds(i+1, glpk.FX, con.RHS, con.RHS)
		}
		// index 0 is ignored by GLPK
		lp.SetMatRow(i+1, ind, append([]float64{0}, con.Coefs...))
	}
}
