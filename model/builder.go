package model

// Builder collects constraints one row at a time. Rows are copied, so callers
// may reuse their slices.
type Builder struct {
	dir  Direction
	c    []float64
	rows []Constraint
	free []int
}

func NewBuilder(dir Direction, objective ...float64) *Builder {
	return &Builder{
		dir: dir,
		c:   append([]float64(nil), objective...),
	}
}

// AddConstraint appends coefs rel rhs.
func (b *Builder) AddConstraint(coefs []float64, rel Relation, rhs float64) *Builder {
	b.rows = append(b.rows, Constraint{
		Coefs: append([]float64(nil), coefs...),
		Rel:   rel,
		RHS:   rhs,
	})

	return b
}

// Free marks variables, counted from zero, as free of the sign restriction.
func (b *Builder) Free(vars ...int) *Builder {
	b.free = append(b.free, vars...)

	return b
}

// NumConstraints returns the number of rows added so far.
func (b *Builder) NumConstraints() int { return len(b.rows) }

// Build validates the collected rows, see New.
func (b *Builder) Build() (*LinearProgram, error) {
	return New(b.dir, b.c, b.rows, b.free...)
}
