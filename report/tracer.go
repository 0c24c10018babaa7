// Package report renders linear programs, solver iterations and results as
// text or JSON.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pkg/errors"

	"q.log/lpsimplex/simplex"
)

// Tracer prints every tableau the engine reports. Use its Observe method with
// simplex.WithObserver.
type Tracer struct {
	w     io.Writer
	phase simplex.Phase
	err   error
}

func NewTracer(w io.Writer) *Tracer {
	return &Tracer{w: w}
}

// Err returns the first write error, if any.
func (t *Tracer) Err() error { return t.err }

// Observe prints one step. After a write error it does nothing.
func (t *Tracer) Observe(s simplex.Step) {
	if t.err != nil {
		return
	}
	t.err = errors.Wrap(t.write(s), "report: trace")
}

func (t *Tracer) write(s simplex.Step) error {
	if s.Phase != t.phase {
		t.phase = s.Phase
		if _, err := fmt.Fprintf(t.w, "--- %s ---\n", s.Phase); err != nil {
			return err
		}
	}
	if s.Iteration > 0 {
		if _, err := fmt.Fprintf(t.w, "%s enters, %s leaves\n", label(s.Entering), label(s.Leaving)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(t.w, "=== iteration %d ===\n", s.Iteration); err != nil {
		return err
	}

	rows, cols := s.Tableau.Dims()
	tw := tabwriter.NewWriter(t.w, 8, 4, 2, ' ', tabwriter.AlignRight)

	fmt.Fprint(tw, "basis\t")
	for j := range cols - 1 {
		fmt.Fprintf(tw, "%s\t", label(j))
	}
	fmt.Fprint(tw, "b\t\n")

	for i := range rows {
		if i < rows-1 {
			fmt.Fprintf(tw, "%s\t", label(s.Basis[i]))
		} else {
			fmt.Fprint(tw, "F\t")
		}
		for j := range cols {
			fmt.Fprintf(tw, "%.3f\t", zero(s.Tableau.At(i, j)))
		}
		fmt.Fprintln(tw)
	}

	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(t.w)
	return err
}

func label(col int) string {
	return fmt.Sprintf("x%d", col+1)
}

// zero turns -0 into 0 so it prints without a sign.
func zero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}
