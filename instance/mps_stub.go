//go:build !glpk

package instance

import "q.log/lpsimplex/model"

func readMPS(string, model.Direction) (*model.LinearProgram, error) {
	return nil, ErrGLPKUnavailable
}
