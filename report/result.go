package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"q.log/lpsimplex/model"
	"q.log/lpsimplex/simplex"
)

// ErrFormat is returned for an output format other than text or json.
var ErrFormat = errors.New("report: unknown output format")

// Format is an output format.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", Text:
		return Text, nil
	case JSON:
		return f, nil
	}
	return "", errors.Wrapf(ErrFormat, "%q", s)
}

// Solution is the JSON form of a Result.
type Solution struct {
	Name       string    `json:"name,omitempty"`
	Direction  string    `json:"direction"`
	Status     string    `json:"status"`
	Objective  *float64  `json:"objective,omitempty"`
	X          []float64 `json:"x,omitempty"`
	Iterations int       `json:"iterations"`
}

func NewSolution(name string, p *model.LinearProgram, res *simplex.Result) Solution {
	sol := Solution{
		Name:       name,
		Direction:  p.Direction().String(),
		Status:     res.Status().String(),
		Iterations: res.Iterations(),
	}
	if res.Optimal() {
		z := res.ObjectiveValue()
		sol.Objective = &z
		sol.X = res.Assignment()
	}

	return sol
}

// WriteResult writes the outcome of solving p. name labels the program and
// may be empty.
func WriteResult(w io.Writer, name string, p *model.LinearProgram, res *simplex.Result, format Format) error {
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		return errors.Wrap(enc.Encode(NewSolution(name, p, res)), "report")
	case Text, "":
		return errors.Wrap(writeText(w, name, p, res), "report")
	}
	return errors.Wrapf(ErrFormat, "%q", format)
}

func writeText(w io.Writer, name string, p *model.LinearProgram, res *simplex.Result) error {
	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s: ", name)
	}
	fmt.Fprintf(&b, "%s after %d iterations\n", res.Status(), res.Iterations())

	switch res.Status() {
	case simplex.Optimal:
		for j, v := range res.Assignment() {
			fmt.Fprintf(&b, "x%d = %.4f\n", j+1, zero(v))
		}
		fmt.Fprintf(&b, "F%s = %.4f\n", p.Direction(), zero(res.ObjectiveValue()))
	case simplex.Unbounded:
		fmt.Fprintf(&b, "the objective is unbounded (%s)\n", p.Direction())
	case simplex.IterationLimitExceeded:
		b.WriteString("no optimum within the iteration limit, the method may be cycling\n")
	case simplex.Infeasible:
		b.WriteString("the constraints have no feasible solution\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
