package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"q.log/lpsimplex/instance"
	"q.log/lpsimplex/report"
	"q.log/lpsimplex/simplex"
	"q.log/lpsimplex/solver"
)

type solveCmd struct {
	*Context
}

// NewSolveCmd builds a "lpsimplex solve" command
func NewSolveCmd(cxt *Context) *cobra.Command {
	solveCmd := &solveCmd{Context: cxt}
	cmd := &cobra.Command{
		Use:   "solve FILE...",
		Short: "Solve one or more linear programs",
		Example: `
  lpsimplex solve problem.txt
  lpsimplex solve --trace --two-phase=false problem.lp
  lpsimplex solve --backend gonum -o json a.txt b.lp
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return solveCmd.run(cmd, args)
		},
	}
	return cmd
}

func (c *solveCmd) run(cmd *cobra.Command, files []string) error {
	backend, err := solver.ParseBackend(c.Config.Backend)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(c.Config.Output)
	if err != nil {
		return err
	}

	for _, file := range files {
		p, err := instance.NewReader(file, c.Config.ReaderOptions()...).Read()
		if err != nil {
			return err
		}

		engine := c.Config.EngineOptions()
		var tracer *report.Tracer
		if c.Config.Trace {
			tracer = report.NewTracer(c.Output)
			engine = append(engine, simplex.WithObserver(tracer.Observe))
		}

		s, err := solver.New(backend,
			solver.WithLogger(c.Logger),
			solver.WithTolerance(c.Config.Tolerance),
			solver.WithEngineOptions(engine...),
		)
		if err != nil {
			return err
		}

		res, err := s.Solve(cmd.Context(), p)
		if err != nil {
			return errors.WithMessage(err, file)
		}
		if tracer != nil && tracer.Err() != nil {
			return tracer.Err()
		}

		if res.Optimal() {
			if rows := p.Violations(res.Assignment(), verifyTolerance); len(rows) > 0 {
				c.Logger.Warn("solution violates constraints",
					zap.String("file", file),
					zap.String("backend", s.Name()),
					zap.Ints("rows", rows),
				)
			}
		}

		if err := report.WriteResult(c.Output, file, p, res, format); err != nil {
			return err
		}
	}

	return nil
}

// verifyTolerance bounds the constraint residuals accepted for a reported
// optimum.
const verifyTolerance = 1e-6
