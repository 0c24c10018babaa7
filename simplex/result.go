package simplex

import (
	"fmt"
	"math"
)

// Status is the terminal outcome of a solve.
type Status int

const (
	Optimal Status = iota
	// Unbounded means the objective grows without limit over the feasible
	// region.
	Unbounded
	// IterationLimitExceeded means neither optimality nor unboundedness was
	// certified within the pivot budget, which usually indicates cycling.
	IterationLimitExceeded
	// Infeasible means the constraints have no common non-negative solution.
	// It is only reported when the feasibility phase ran.
	Infeasible
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "optimal"
	case Unbounded:
		return "unbounded"
	case IterationLimitExceeded:
		return "iteration limit exceeded"
	case Infeasible:
		return "infeasible"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is the outcome of a solve. Only an Optimal result carries an
// assignment and an objective value.
type Result struct {
	status     Status
	assignment []float64
	objective  float64
	iterations int
}

// NewOptimal returns an Optimal result. x is copied.
func NewOptimal(x []float64, objective float64, iterations int) *Result {
	if objective == 0 {
		objective = 0 // drop the sign of -0
	}

	return &Result{
		status:     Optimal,
		assignment: append([]float64(nil), x...),
		objective:  objective,
		iterations: iterations,
	}
}

// NewResult returns a non-optimal result with the given status.
func NewResult(status Status, iterations int) *Result {
	if status == Optimal {
		panic("simplex: optimal results need an assignment, use NewOptimal")
	}

	return &Result{
		status:     status,
		iterations: iterations,
	}
}

func (r *Result) Status() Status { return r.status }

// Optimal reports whether r carries a solution.
func (r *Result) Optimal() bool { return r.status == Optimal }

// Assignment returns a copy of the optimal variable values, or nil.
func (r *Result) Assignment() []float64 {
	if r.status != Optimal {
		return nil
	}

	return append([]float64(nil), r.assignment...)
}

// Value returns the optimal value of variable j, NaN when r is not optimal.
func (r *Result) Value(j int) float64 {
	if r.status != Optimal {
		return math.NaN()
	}

	return r.assignment[j]
}

// ObjectiveValue returns the optimum in the program's own sense, NaN when r
// is not optimal.
func (r *Result) ObjectiveValue() float64 {
	if r.status != Optimal {
		return math.NaN()
	}

	return r.objective
}

// Iterations returns the number of pivots performed.
func (r *Result) Iterations() int { return r.iterations }

func (r *Result) String() string {
	if r.status != Optimal {
		return r.status.String()
	}

	return fmt.Sprintf("optimal z=%g x=%v", r.objective, r.assignment)
}
