package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"q.log/lpsimplex/simplex"
)

// WriteCanonical prints the equality form of a program: the cost vector, the
// matrix with its auxiliary columns, the right-hand side and the relation
// each row came from. Free variables are listed with their mirror columns.
func WriteCanonical(w io.Writer, cf *simplex.CanonicalForm) error {
	if cf.Matrix() == nil {
		return errors.New("report: empty canonical form")
	}
	rows, cols := cf.Dims()
	n := cf.NumVars()
	free := cf.Free()

	var b strings.Builder
	fmt.Fprintf(&b, "%s over %d variables (%d original, ", cf.Direction(), cols, n)
	if len(free) > 0 {
		fmt.Fprintf(&b, "%d mirrored, ", len(free))
	}
	fmt.Fprintf(&b, "%d auxiliary), %d rows\n", rows, rows)
	for k, j := range free {
		fmt.Fprintf(&b, "x%d = col %d - col %d\n", j+1, j+1, n+k+1)
	}

	rels := make([]string, rows)
	for i, r := range cf.Relations() {
		rels[i] = r.String()
	}

	fmt.Fprintf(&b, "c = %v\n", mat.Formatted(cf.Cost().T(), mat.Squeeze()))
	fmt.Fprintf(&b, "A = %v\n", mat.Formatted(cf.Matrix(), mat.Prefix("    "), mat.Squeeze()))
	fmt.Fprintf(&b, "b = %v\n", mat.Formatted(cf.RHS().T(), mat.Squeeze()))
	fmt.Fprintf(&b, "from [%s]\n", strings.Join(rels, " "))

	_, err := io.WriteString(w, b.String())
	return errors.Wrap(err, "report")
}
