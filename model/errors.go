package model

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNonFinite is returned for NaN or infinite coefficients.
	ErrNonFinite = errors.New("model: value is not finite")
	// ErrRelation is returned for a relation other than <=, >= or =.
	ErrRelation = errors.New("model: invalid relation")
	// ErrVariable is returned for a variable index outside the program.
	ErrVariable = errors.New("model: variable index out of range")
)

// ShapeError reports a linear program whose dimensions are inconsistent.
type ShapeError struct {
	Rows, Vars int
	// Row is the offending constraint, or -1 when the whole program is
	// malformed.
	Row   int
	Width int
}

func (e *ShapeError) Error() string {
	switch {
	case e.Row >= 0:
		return fmt.Sprintf("model: constraint %d has %d coefficients, want %d", e.Row, e.Width, e.Vars)
	case e.Vars < 1:
		return "model: program has no variables"
	case e.Rows < 1:
		return "model: program has no constraints"
	default:
		return fmt.Sprintf("model: inconsistent %dx%d program", e.Rows, e.Vars)
	}
}
