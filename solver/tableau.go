package solver

import (
	"context"
	"time"

	"q.log/lpsimplex/model"
	"q.log/lpsimplex/simplex"
)

// tableauSolver runs the dense tableau engine.
type tableauSolver struct {
	opts *options
}

func (s *tableauSolver) Name() string { return string(Tableau) }

func (s *tableauSolver) Solve(ctx context.Context, p *model.LinearProgram) (*simplex.Result, error) {
	if err := checkInput(ctx, p); err != nil {
		return nil, err
	}
	start := time.Now()

	cf, err := simplex.Canonicalize(p)
	if err != nil {
		return nil, err
	}
	res, err := simplex.Solve(cf, s.opts.engine...)
	if err != nil {
		return nil, err
	}

	s.opts.logResult(s.Name(), p, res, start)
	return res, nil
}
