package model

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Direction is the optimization sense of a linear program.
type Direction int

const (
	Maximize Direction = iota
	Minimize
)

func (d Direction) String() string {
	switch d {
	case Maximize:
		return "max"
	case Minimize:
		return "min"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection accepts "max"/"maximize" and "min"/"minimize" in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "max", "maximize", "maximise":
		return Maximize, nil
	case "min", "minimize", "minimise":
		return Minimize, nil
	default:
		return 0, errors.Errorf("model: unknown direction %q", s)
	}
}

// Relation is the comparison between a constraint's left side and its rhs.
type Relation int

const (
	LessEqual Relation = iota
	GreaterEqual
	Equal
)

func (r Relation) String() string {
	switch r {
	case LessEqual:
		return "<="
	case GreaterEqual:
		return ">="
	case Equal:
		return "="
	default:
		return fmt.Sprintf("Relation(%d)", int(r))
	}
}

func (r Relation) valid() bool {
	return r == LessEqual || r == GreaterEqual || r == Equal
}

// ParseRelation accepts the ASCII and unicode spellings of <=, >= and =.
func ParseRelation(s string) (Relation, error) {
	switch s {
	case "<=", "=<", "≤":
		return LessEqual, nil
	case ">=", "=>", "≥":
		return GreaterEqual, nil
	case "=", "==":
		return Equal, nil
	default:
		return 0, errors.Errorf("model: unknown relation %q", s)
	}
}

// Constraint is one row of a linear program: Coefs · x Rel RHS.
type Constraint struct {
	Coefs []float64
	Rel   Relation
	RHS   float64
}

// LinearProgram is an immutable linear program. Variables are non-negative
// unless marked free. Every accessor returns a copy.
type LinearProgram struct {
	dir Direction

	//c objective function coefficients
	c *mat.VecDense

	//a constraints matrix
	a *mat.Dense

	//b constraints rhs
	b *mat.VecDense

	rel []Relation

	//free marks variables without a sign restriction
	free []bool
}

// New validates its input and returns the corresponding program. The variables
// listed in free, counted from zero, may take any sign. It fails with a
// *ShapeError when there are no variables, no constraints or a row whose width
// differs from the objective.
func New(dir Direction, objective []float64, constraints []Constraint, free ...int) (*LinearProgram, error) {
	n, m := len(objective), len(constraints)
	if n < 1 || m < 1 {
		return nil, &ShapeError{Rows: m, Vars: n, Row: -1}
	}
	if dir != Maximize && dir != Minimize {
		return nil, errors.Errorf("model: invalid direction %v", dir)
	}
	for j, v := range objective {
		if !finite(v) {
			return nil, errors.Wrapf(ErrNonFinite, "objective coefficient %d", j)
		}
	}

	p := &LinearProgram{
		dir:  dir,
		c:    mat.NewVecDense(n, append([]float64(nil), objective...)),
		a:    mat.NewDense(m, n, nil),
		b:    mat.NewVecDense(m, nil),
		rel:  make([]Relation, m),
		free: make([]bool, n),
	}
	for _, j := range free {
		if j < 0 || j >= n {
			return nil, errors.Wrapf(ErrVariable, "free variable %d of %d", j, n)
		}
		p.free[j] = true
	}
	for i, row := range constraints {
		if len(row.Coefs) != n {
			return nil, &ShapeError{Rows: m, Vars: n, Row: i, Width: len(row.Coefs)}
		}
		if !row.Rel.valid() {
			return nil, errors.Wrapf(ErrRelation, "constraint %d", i)
		}
		for j, v := range row.Coefs {
			if !finite(v) {
				return nil, errors.Wrapf(ErrNonFinite, "constraint %d coefficient %d", i, j)
			}
		}
		if !finite(row.RHS) {
			return nil, errors.Wrapf(ErrNonFinite, "constraint %d rhs", i)
		}
		p.a.SetRow(i, row.Coefs)
		p.b.SetVec(i, row.RHS)
		p.rel[i] = row.Rel
	}

	return p, nil
}

// Validate reports whether p is usable. Programs built by New are always
// valid; the zero value is not.
func (p *LinearProgram) Validate() error {
	if p == nil || p.c == nil || p.a == nil || p.b == nil {
		return &ShapeError{Row: -1}
	}
	m, n := p.a.Dims()
	if p.c.Len() != n || p.b.Len() != m || len(p.rel) != m || len(p.free) != n {
		return &ShapeError{Rows: m, Vars: p.c.Len(), Row: -1}
	}

	return nil
}

func (p *LinearProgram) Direction() Direction { return p.dir }

// NumVars returns n, the number of decision variables.
func (p *LinearProgram) NumVars() int { return p.c.Len() }

// NumConstraints returns m, the number of constraint rows.
func (p *LinearProgram) NumConstraints() int { return p.b.Len() }

// Objective returns the objective coefficients.
func (p *LinearProgram) Objective() []float64 {
	return append([]float64(nil), p.c.RawVector().Data...)
}

// Constraint returns row i.
func (p *LinearProgram) Constraint(i int) Constraint {
	return Constraint{
		Coefs: mat.Row(nil, i, p.a),
		Rel:   p.rel[i],
		RHS:   p.b.AtVec(i),
	}
}

func (p *LinearProgram) Constraints() []Constraint {
	rows := make([]Constraint, p.NumConstraints())
	for i := range rows {
		rows[i] = p.Constraint(i)
	}

	return rows
}

func (p *LinearProgram) Relations() []Relation {
	return append([]Relation(nil), p.rel...)
}

// IsFree reports whether variable j may be negative.
func (p *LinearProgram) IsFree(j int) bool { return p.free[j] }

// FreeVars returns the free variables in increasing order.
func (p *LinearProgram) FreeVars() []int {
	var out []int
	for j, f := range p.free {
		if f {
			out = append(out, j)
		}
	}

	return out
}

// C returns a copy of the objective as a column vector.
func (p *LinearProgram) C() *mat.VecDense { return mat.VecDenseCopyOf(p.c) }

// A returns a copy of the m×n constraint matrix.
func (p *LinearProgram) A() *mat.Dense { return mat.DenseCopyOf(p.a) }

// B returns a copy of the right-hand sides.
func (p *LinearProgram) B() *mat.VecDense { return mat.VecDenseCopyOf(p.b) }

// Evaluate returns the objective value of x in the program's own sense.
func (p *LinearProgram) Evaluate(x []float64) float64 {
	if len(x) != p.NumVars() {
		return math.NaN()
	}

	return mat.Dot(p.c, mat.NewVecDense(len(x), x))
}

// Feasible reports whether x satisfies every constraint and the sign of every
// non-free variable within tol.
func (p *LinearProgram) Feasible(x []float64, tol float64) bool {
	return len(x) == p.NumVars() && len(p.Violations(x, tol)) == 0
}

// Violations returns the indices of the constraints x breaks by more than
// tol. A negative variable j that is not free is reported as index m+j.
func (p *LinearProgram) Violations(x []float64, tol float64) []int {
	m, n := p.NumConstraints(), p.NumVars()
	if len(x) != n {
		return nil
	}

	var lhs mat.VecDense
	lhs.MulVec(p.a, mat.NewVecDense(n, x))

	var bad []int
	for i := range m {
		l, r := lhs.AtVec(i), p.b.AtVec(i)
		switch p.rel[i] {
		case LessEqual:
			if l > r+tol {
				bad = append(bad, i)
			}
		case GreaterEqual:
			if l < r-tol {
				bad = append(bad, i)
			}
		case Equal:
			if math.Abs(l-r) > tol {
				bad = append(bad, i)
			}
		}
	}
	for j, v := range x {
		if v < -tol && !p.free[j] {
			bad = append(bad, m+j)
		}
	}

	return bad
}

// Fprint writes the program's matrices to w.
func (p *LinearProgram) Fprint(w io.Writer) error {
	rel := make([]string, len(p.rel))
	for i, r := range p.rel {
		rel[i] = r.String()
	}

	_, err := fmt.Fprintf(w, "%s\nc = %v\nA = %v\nrel = %v\nb = %v\n",
		p.dir,
		mat.Formatted(p.c.T(), mat.Prefix("    "), mat.Squeeze()),
		mat.Formatted(p.a, mat.Prefix("    "), mat.Squeeze()),
		rel,
		mat.Formatted(p.b, mat.Prefix("    "), mat.Squeeze()),
	)
	if err != nil {
		return err
	}

	free := p.FreeVars()
	if len(free) == 0 {
		return nil
	}
	names := make([]string, len(free))
	for k, j := range free {
		names[k] = fmt.Sprintf("x%d", j+1)
	}
	_, err = fmt.Fprintf(w, "free = %v\n", names)
	return err
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
