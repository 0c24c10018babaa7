package simplex

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"q.log/lpsimplex/model"
)

// CanonicalForm is the equality-only system derived from a linear program.
// Its matrix has the n original columns, then one mirror column per free
// variable holding the negated original column, then one auxiliary column per
// row: +1 for a <= row (slack), -1 for a >= row (surplus) and all zeros for an
// = row. A free variable is the original column minus its mirror. The cost
// vector is always in maximization sense.
//
// A CanonicalForm must come from Canonicalize; the zero value is empty.
type CanonicalForm struct {
	dir model.Direction
	rel []model.Relation

	//vars original decision variables
	vars int
	//free original indices of the mirrored variables, in column order
	free []int
	//n structural columns, vars+len(free); auxiliary column i is n+i
	n int

	//a m×(n+m) constraint matrix
	a *mat.Dense

	//b constraint rhs
	b *mat.VecDense

	//c objective, zero padded over the auxiliary columns
	c *mat.VecDense
}

// Canonicalize converts p into canonical form. It fails with a
// *model.ShapeError if p is malformed.
func Canonicalize(p *model.LinearProgram) (*CanonicalForm, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	m, vars := p.NumConstraints(), p.NumVars()
	free := p.FreeVars()
	n := vars + len(free)
	rel := p.Relations()
	src := p.A()

	a := mat.NewDense(m, n+m, nil)
	a.Slice(0, m, 0, vars).(*mat.Dense).Copy(src)
	for k, j := range free {
		for i := range m {
			a.Set(i, vars+k, -src.At(i, j))
		}
	}
	for i, r := range rel {
		switch r {
		case model.LessEqual:
			a.Set(i, n+i, 1)
		case model.GreaterEqual:
			a.Set(i, n+i, -1)
		}
	}

	sign := 1.0
	if p.Direction() == model.Minimize {
		sign = -1
	}
	obj := p.Objective()
	c := mat.NewVecDense(n+m, nil)
	for j, v := range obj {
		c.SetVec(j, sign*v)
	}
	for k, j := range free {
		c.SetVec(vars+k, -sign*obj[j])
	}

	return &CanonicalForm{
		dir:  p.Direction(),
		rel:  rel,
		vars: vars,
		free: free,
		n:    n,
		a:    a,
		b:    p.B(),
		c:    c,
	}, nil
}

func (cf *CanonicalForm) empty() bool { return cf == nil || cf.a == nil }

// Dims returns the number of rows m and the full width, structural columns
// plus m.
func (cf *CanonicalForm) Dims() (rows, cols int) {
	if cf.empty() {
		return 0, 0
	}
	return cf.a.Dims()
}

// NumVars returns the number of original decision variables.
func (cf *CanonicalForm) NumVars() int {
	if cf.empty() {
		return 0
	}
	return cf.vars
}

// Free returns the free variables of the program. The mirror column of
// Free()[k] is NumVars()+k.
func (cf *CanonicalForm) Free() []int {
	if cf.empty() {
		return nil
	}
	return append([]int(nil), cf.free...)
}

// Direction returns the direction of the program cf was built from.
func (cf *CanonicalForm) Direction() model.Direction {
	if cf.empty() {
		return model.Maximize
	}
	return cf.dir
}

// Relations returns the relation each row came from.
func (cf *CanonicalForm) Relations() []model.Relation {
	if cf.empty() {
		return nil
	}
	return append([]model.Relation(nil), cf.rel...)
}

// Matrix returns a copy of the equality matrix, or nil for an empty form.
func (cf *CanonicalForm) Matrix() *mat.Dense {
	if cf.empty() {
		return nil
	}
	return mat.DenseCopyOf(cf.a)
}

// RHS returns a copy of the right-hand sides, or nil for an empty form.
func (cf *CanonicalForm) RHS() *mat.VecDense {
	if cf.empty() {
		return nil
	}
	return mat.VecDenseCopyOf(cf.b)
}

// Cost returns a copy of the extended cost vector, or nil for an empty form.
func (cf *CanonicalForm) Cost() *mat.VecDense {
	if cf.empty() {
		return nil
	}
	return mat.VecDenseCopyOf(cf.c)
}

// check fails for a form not built by Canonicalize.
func (cf *CanonicalForm) check() error {
	if cf.empty() {
		return errors.New("simplex: empty canonical form")
	}
	return nil
}

// fold maps values of the structural columns back to the original variables.
func (cf *CanonicalForm) fold(x []float64) []float64 {
	out := append([]float64(nil), x[:cf.vars]...)
	for k, j := range cf.free {
		out[j] -= x[cf.vars+k]
	}

	return out
}
