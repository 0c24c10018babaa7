//go:build !glpk

package solver

func newGLPK(*options) (Solver, error) {
	return nil, ErrBackendUnavailable
}
