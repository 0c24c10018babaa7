package instance

import "github.com/pkg/errors"

var (
	// ErrUnknownFormat is returned when the format of an input cannot be
	// determined or is not one of the supported ones.
	ErrUnknownFormat = errors.New("instance: unknown input format")
	// ErrSyntax is wrapped by every parse error.
	ErrSyntax = errors.New("instance: syntax error")
	// ErrGLPKUnavailable is returned when MPS input is requested from a
	// binary built without the glpk tag.
	ErrGLPKUnavailable = errors.New("instance: MPS input needs a build with -tags glpk")
)

func syntaxError(line int, format string, args ...interface{}) error {
	return errors.Wrapf(ErrSyntax, "line %d: "+format, append([]interface{}{line}, args...)...)
}
