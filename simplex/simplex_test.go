package simplex

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"q.log/lpsimplex/model"
)

const (
	delta = 1e-6 // acceptable numerical deviation for test results
)

type row struct {
	coefs []float64
	rel   model.Relation
	rhs   float64
}

func build(t *testing.T, dir model.Direction, c []float64, rows ...row) *model.LinearProgram {
	t.Helper()

	b := model.NewBuilder(dir, c...)
	for _, r := range rows {
		b.AddConstraint(r.coefs, r.rel, r.rhs)
	}
	p, err := b.Build()
	require.NoError(t, err)

	return p
}

// maximize 3x1 + 2x2 s.t. x1 + x2 <= 4, x1 + 3x2 <= 6
func textbook(t *testing.T) *model.LinearProgram {
	return build(t, model.Maximize, []float64{3, 2},
		row{[]float64{1, 1}, model.LessEqual, 4},
		row{[]float64{1, 3}, model.LessEqual, 6},
	)
}

// Chvátal's degenerate program that cycles under the largest-coefficient rule.
func cycling(t *testing.T) *model.LinearProgram {
	return build(t, model.Maximize, []float64{10, -57, -9, -24},
		row{[]float64{0.5, -5.5, -2.5, 9}, model.LessEqual, 0},
		row{[]float64{0.5, -1.5, -0.5, 1}, model.LessEqual, 0},
		row{[]float64{1, 0, 0, 0}, model.LessEqual, 1},
	)
}

func solve(t *testing.T, p *model.LinearProgram, opts ...Option) *Result {
	t.Helper()

	cf, err := Canonicalize(p)
	require.NoError(t, err)
	res, err := Solve(cf, opts...)
	require.NoError(t, err)

	return res
}

func TestSolveTextbook(t *testing.T) {
	res := solve(t, textbook(t))

	require.Equal(t, Optimal, res.Status())
	assert.InDelta(t, 12, res.ObjectiveValue(), 1e-3)
	assert.InDelta(t, 4, res.Value(0), 1e-3)
	assert.InDelta(t, 0, res.Value(1), 1e-3)
	assert.Equal(t, 1, res.Iterations())
}

func TestSolveUnbounded(t *testing.T) {
	// maximize x1 + x2 s.t. x1 >= 0
	p := build(t, model.Maximize, []float64{1, 1},
		row{[]float64{1, 0}, model.GreaterEqual, 0},
	)

	res := solve(t, p)
	assert.Equal(t, Unbounded, res.Status())
	assert.Nil(t, res.Assignment())
	assert.True(t, math.IsNaN(res.ObjectiveValue()))
}

func TestSolveUnboundedAfterPivot(t *testing.T) {
	// maximize x1 + x2 s.t. x1 - x2 <= 1
	p := build(t, model.Maximize, []float64{1, 1},
		row{[]float64{1, -1}, model.LessEqual, 1},
	)

	res := solve(t, p)
	assert.Equal(t, Unbounded, res.Status())
	assert.Equal(t, 1, res.Iterations())
}

func TestSolveMinimize(t *testing.T) {
	// minimize x1 - x2 s.t. x1 + x2 <= 3
	p := build(t, model.Minimize, []float64{1, -1},
		row{[]float64{1, 1}, model.LessEqual, 3},
	)

	res := solve(t, p)
	require.Equal(t, Optimal, res.Status())
	assert.InDelta(t, -3, res.ObjectiveValue(), delta)
	assert.InDeltaSlice(t, []float64{0, 3}, res.Assignment(), delta)
}

func TestSolveThreeVariables(t *testing.T) {
	p := build(t, model.Maximize, []float64{1, 2, -1},
		row{[]float64{2, 1, 1}, model.LessEqual, 14},
		row{[]float64{4, 2, 3}, model.LessEqual, 28},
		row{[]float64{2, 5, 5}, model.LessEqual, 30},
	)

	res := solve(t, p)
	require.Equal(t, Optimal, res.Status())
	assert.InDelta(t, 13, res.ObjectiveValue(), delta)
	assert.InDeltaSlice(t, []float64{5, 4, 0}, res.Assignment(), delta)
	assert.Equal(t, 2, res.Iterations())
}

func TestSolveAlreadyOptimal(t *testing.T) {
	p := build(t, model.Maximize, []float64{-1},
		row{[]float64{1}, model.LessEqual, 5},
	)

	res := solve(t, p, WithMaxIterations(0))
	require.Equal(t, Optimal, res.Status())
	assert.Equal(t, 0, res.Iterations())
	assert.Equal(t, []float64{0}, res.Assignment())
	assert.Equal(t, 0.0, res.ObjectiveValue())
	assert.False(t, math.Signbit(res.ObjectiveValue()))
}

func TestSolveIterationLimit(t *testing.T) {
	res := solve(t, textbook(t), WithMaxIterations(0))
	assert.Equal(t, IterationLimitExceeded, res.Status())
	assert.Nil(t, res.Assignment())
	assert.Equal(t, 0, res.Iterations())
}

func TestSolveUnboundedBeatsIterationLimit(t *testing.T) {
	// maximize x1 + x2 s.t. x1 - x2 <= 1: x2 has no positive entry after one pivot
	p := build(t, model.Maximize, []float64{1, 1},
		row{[]float64{1, -1}, model.LessEqual, 1},
	)
	res := solve(t, p, WithMaxIterations(1))
	assert.Equal(t, Unbounded, res.Status())
	assert.Equal(t, 1, res.Iterations())

	// maximize x1 + x2 s.t. x1 >= 0 is unbounded before any pivot
	p = build(t, model.Maximize, []float64{1, 1},
		row{[]float64{1, 0}, model.GreaterEqual, 0},
	)
	res = solve(t, p, WithMaxIterations(0))
	assert.Equal(t, Unbounded, res.Status())
	assert.Equal(t, 0, res.Iterations())
}

func TestSolveFreeVariable(t *testing.T) {
	// minimize x1 + 2x2 s.t. x1 + x2 >= 1, x1 <= 3, x2 free
	p, err := model.NewBuilder(model.Minimize, 1, 2).
		AddConstraint([]float64{1, 1}, model.GreaterEqual, 1).
		AddConstraint([]float64{1, 0}, model.LessEqual, 3).
		Free(1).
		Build()
	require.NoError(t, err)

	res := solve(t, p, WithTwoPhase(true))
	require.Equal(t, Optimal, res.Status())
	assert.InDeltaSlice(t, []float64{3, -2}, res.Assignment(), delta)
	assert.InDelta(t, -1, res.ObjectiveValue(), delta)
	assert.True(t, p.Feasible(res.Assignment(), delta))
}

func TestSolveFreeVariableUnboundedBelow(t *testing.T) {
	// minimize x2 s.t. x1 + x2 <= 4, x2 free
	p, err := model.NewBuilder(model.Minimize, 0, 1).
		AddConstraint([]float64{1, 1}, model.LessEqual, 4).
		Free(1).
		Build()
	require.NoError(t, err)

	assert.Equal(t, Unbounded, solve(t, p).Status())
}

func TestSolveCycling(t *testing.T) {
	res := solve(t, cycling(t))
	assert.Equal(t, IterationLimitExceeded, res.Status())
	assert.Equal(t, DefaultMaxIterations, res.Iterations())

	res = solve(t, cycling(t), WithMaxIterations(120))
	assert.Equal(t, IterationLimitExceeded, res.Status())
	assert.Equal(t, 120, res.Iterations())
}

func TestSolveCyclingVisitsSameBases(t *testing.T) {
	var bases [][]int
	solve(t, cycling(t), WithMaxIterations(12), WithObserver(func(s Step) {
		bases = append(bases, s.Basis)
	}))

	require.Len(t, bases, 13)
	assert.Equal(t, []int{4, 5, 6}, bases[0])
	assert.Equal(t, bases[0], bases[6])
	assert.Equal(t, bases[6], bases[12])
}

func TestSolveIdempotent(t *testing.T) {
	for _, p := range []*model.LinearProgram{textbook(t), cycling(t)} {
		first := solve(t, p)
		second := solve(t, p)

		assert.Equal(t, first.Status(), second.Status())
		assert.Equal(t, first.Iterations(), second.Iterations())
		assert.Equal(t, first.Assignment(), second.Assignment())
		if first.Optimal() {
			assert.Equal(t, math.Float64bits(first.ObjectiveValue()), math.Float64bits(second.ObjectiveValue()))
		}
	}
}

func TestSolveAssignmentIsFeasible(t *testing.T) {
	tests := []struct {
		name string
		p    *model.LinearProgram
	}{
		{"textbook", textbook(t)},
		{"production", build(t, model.Maximize, []float64{100, 85},
			row{[]float64{12, 24}, model.LessEqual, 480},
			row{[]float64{9, 5}, model.LessEqual, 180},
			row{[]float64{30, 30}, model.LessEqual, 720},
		)},
		{"diet", build(t, model.Minimize, []float64{2, 3},
			row{[]float64{1, 2}, model.GreaterEqual, 4},
			row{[]float64{3, 1}, model.GreaterEqual, 6},
		)},
		{"equality", build(t, model.Maximize, []float64{2, 1},
			row{[]float64{1, 1}, model.Equal, 4},
			row{[]float64{1, -1}, model.LessEqual, 1},
		)},
		{"mixed", build(t, model.Maximize, []float64{4, 3, 5},
			row{[]float64{4, 12, 8}, model.LessEqual, 4800},
			row{[]float64{4, 4, 8}, model.LessEqual, 4000},
			row{[]float64{12, 4, 8}, model.LessEqual, 5600},
			row{[]float64{1, 0, 0}, model.GreaterEqual, 100},
		)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := solve(t, tt.p, WithTwoPhase(true))
			require.Equal(t, Optimal, res.Status())

			x := res.Assignment()
			assert.Len(t, x, tt.p.NumVars())
			assert.Empty(t, tt.p.Violations(x, delta))
			assert.InDelta(t, tt.p.Evaluate(x), res.ObjectiveValue(), delta)
		})
	}
}

func TestSolveProductionExpected(t *testing.T) {
	p := build(t, model.Maximize, []float64{100, 85},
		row{[]float64{12, 24}, model.LessEqual, 480},
		row{[]float64{9, 5}, model.LessEqual, 180},
		row{[]float64{30, 30}, model.LessEqual, 720},
	)

	res := solve(t, p)
	require.Equal(t, Optimal, res.Status())
	assert.InDelta(t, 2265, res.ObjectiveValue(), delta)
	assert.InDeltaSlice(t, []float64{15, 9}, res.Assignment(), delta)
}

func TestSolveBasisInvariant(t *testing.T) {
	problems := []*model.LinearProgram{
		textbook(t),
		cycling(t),
		build(t, model.Minimize, []float64{2, 3},
			row{[]float64{1, 2}, model.GreaterEqual, 4},
			row{[]float64{3, 1}, model.GreaterEqual, 6},
		),
	}

	for _, p := range problems {
		steps := 0
		solve(t, p, WithTwoPhase(true), WithObserver(func(s Step) {
			steps++
			assertIdentityBasis(t, s)
		}))
		assert.Greater(t, steps, 1)
	}
}

func assertIdentityBasis(t *testing.T, s Step) {
	t.Helper()

	m := len(s.Basis)
	seen := map[int]bool{}
	for i, col := range s.Basis {
		assert.False(t, seen[col], "column %d basic twice at %s iteration %d", col, s.Phase, s.Iteration)
		seen[col] = true

		for k := range m {
			want := 0.0
			if k == i {
				want = 1
			}
			assert.InDelta(t, want, s.Tableau.At(k, col), DefaultTolerance,
				"basis column %d row %d at %s iteration %d", col, k, s.Phase, s.Iteration)
		}
	}
}

func TestSolveObserverSteps(t *testing.T) {
	var steps []Step
	solve(t, textbook(t), WithObserver(func(s Step) { steps = append(steps, s) }))

	require.Len(t, steps, 2)

	initial := steps[0]
	assert.Equal(t, PhaseTwo, initial.Phase)
	assert.Equal(t, 0, initial.Iteration)
	assert.Equal(t, -1, initial.Entering)
	assert.Equal(t, -1, initial.Leaving)
	assert.Equal(t, []int{2, 3}, initial.Basis)
	assert.True(t, mat.Equal(mat.NewDense(3, 5, []float64{
		1, 1, 1, 0, 4,
		1, 3, 0, 1, 6,
		-3, -2, 0, 0, 0,
	}), initial.Tableau))

	pivot := steps[1]
	assert.Equal(t, 1, pivot.Iteration)
	assert.Equal(t, 0, pivot.Entering)
	assert.Equal(t, 2, pivot.Leaving)
	assert.Equal(t, 0, pivot.PivotRow)
	assert.Equal(t, []int{0, 3}, pivot.Basis)
	assert.True(t, mat.EqualApprox(mat.NewDense(3, 5, []float64{
		1, 1, 1, 0, 4,
		0, 2, -1, 1, 2,
		0, 1, 3, 0, 12,
	}), pivot.Tableau, delta))

	// snapshots are owned by the observer
	pivot.Tableau.Set(0, 0, 42)
	pivot.Basis[0] = 42
	assert.Equal(t, 1.0, steps[0].Tableau.At(0, 0))
}

func TestSolveEqualityRowNeedsTwoPhase(t *testing.T) {
	p := build(t, model.Maximize, []float64{2, 1},
		row{[]float64{1, 1}, model.Equal, 4},
		row{[]float64{1, -1}, model.LessEqual, 1},
	)
	cf, err := Canonicalize(p)
	require.NoError(t, err)

	_, err = Solve(cf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInfeasibleStart))
	assert.Contains(t, err.Error(), "row 0")

	res, err := Solve(cf, WithTwoPhase(true))
	require.NoError(t, err)
	require.Equal(t, Optimal, res.Status())
	assert.InDelta(t, 6.5, res.ObjectiveValue(), delta)
	assert.InDeltaSlice(t, []float64{2.5, 1.5}, res.Assignment(), delta)
}

func TestSolveStartRejections(t *testing.T) {
	tests := []struct {
		name string
		r    row
	}{
		{"negative rhs on <=", row{[]float64{1, 1}, model.LessEqual, -1}},
		{"positive rhs on >=", row{[]float64{1, 1}, model.GreaterEqual, 2}},
		{"equality", row{[]float64{1, 1}, model.Equal, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cf, err := Canonicalize(build(t, model.Minimize, []float64{1, 1}, tt.r))
			require.NoError(t, err)

			_, err = Solve(cf)
			assert.True(t, errors.Is(err, ErrInfeasibleStart))
		})
	}
}

func TestSolveNonPositiveGreaterEqualStartsDirectly(t *testing.T) {
	// x1 - x2 >= -2 is x2 - x1 <= 2 once negated
	p := build(t, model.Maximize, []float64{1, 2},
		row{[]float64{1, -1}, model.GreaterEqual, -2},
		row{[]float64{1, 0}, model.LessEqual, 3},
	)

	res := solve(t, p)
	require.Equal(t, Optimal, res.Status())
	assert.InDelta(t, 13, res.ObjectiveValue(), delta)
	assert.InDeltaSlice(t, []float64{3, 5}, res.Assignment(), delta)
}

func TestTwoPhaseMinimize(t *testing.T) {
	p := build(t, model.Minimize, []float64{2, 3},
		row{[]float64{1, 2}, model.GreaterEqual, 4},
		row{[]float64{3, 1}, model.GreaterEqual, 6},
	)

	res := solve(t, p, WithTwoPhase(true))
	require.Equal(t, Optimal, res.Status())
	assert.InDelta(t, 6.8, res.ObjectiveValue(), delta)
	assert.InDeltaSlice(t, []float64{1.6, 1.2}, res.Assignment(), delta)
	assert.Equal(t, 2, res.Iterations())
}

func TestTwoPhaseInfeasible(t *testing.T) {
	// x1 + x2 <= 1 and x1 + x2 >= 3
	p := build(t, model.Maximize, []float64{1, 1},
		row{[]float64{1, 1}, model.LessEqual, 1},
		row{[]float64{1, 1}, model.GreaterEqual, 3},
	)

	res := solve(t, p, WithTwoPhase(true))
	assert.Equal(t, Infeasible, res.Status())
	assert.Nil(t, res.Assignment())
}

func TestTwoPhaseRedundantEquality(t *testing.T) {
	p := build(t, model.Maximize, []float64{1, 2},
		row{[]float64{1, 1}, model.Equal, 2},
		row{[]float64{2, 2}, model.Equal, 4},
	)

	var last Step
	res := solve(t, p, WithTwoPhase(true), WithObserver(func(s Step) { last = s }))
	require.Equal(t, Optimal, res.Status())
	assert.InDelta(t, 4, res.ObjectiveValue(), delta)
	assert.InDeltaSlice(t, []float64{0, 2}, res.Assignment(), delta)

	// the redundant row keeps its artificial variable at zero
	assert.Equal(t, PhaseTwo, last.Phase)
	assert.Equal(t, []int{1, 5}, last.Basis)
}

func TestTwoPhaseUnbounded(t *testing.T) {
	// maximize x1 s.t. x1 - x2 = 1
	p := build(t, model.Maximize, []float64{1, 0},
		row{[]float64{1, -1}, model.Equal, 1},
	)

	res := solve(t, p, WithTwoPhase(true))
	assert.Equal(t, Unbounded, res.Status())
}

func TestTwoPhaseSkippedWhenNotNeeded(t *testing.T) {
	var phases []Phase
	solve(t, textbook(t), WithTwoPhase(true), WithObserver(func(s Step) {
		phases = append(phases, s.Phase)
	}))

	assert.Equal(t, []Phase{PhaseTwo, PhaseTwo}, phases)
}

func TestTwoPhaseReportsPhases(t *testing.T) {
	p := build(t, model.Minimize, []float64{1, 1},
		row{[]float64{1, 1}, model.GreaterEqual, 2},
	)

	var phases []Phase
	res := solve(t, p, WithTwoPhase(true), WithObserver(func(s Step) {
		phases = append(phases, s.Phase)
	}))
	require.Equal(t, Optimal, res.Status())
	assert.InDelta(t, 2, res.ObjectiveValue(), delta)
	assert.InDeltaSlice(t, []float64{2, 0}, res.Assignment(), delta)

	assert.Equal(t, []Phase{PhaseOne, PhaseOne, PhaseTwo}, phases)
}

func TestSolveOptionErrors(t *testing.T) {
	cf, err := Canonicalize(textbook(t))
	require.NoError(t, err)

	for _, opt := range []Option{
		WithTolerance(0),
		WithTolerance(-1),
		WithTolerance(math.NaN()),
		WithTolerance(math.Inf(1)),
		WithMaxIterations(-1),
	} {
		_, err := Solve(cf, opt)
		assert.True(t, errors.Is(err, ErrOption))
	}

	_, err = Solve(nil)
	assert.Error(t, err)

	_, err = Solve(cf, WithObserver(nil), WithTolerance(1e-6))
	assert.NoError(t, err)
}
