package instance

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"q.log/lpsimplex/model"
)

func parseTable(lines []line) (*model.LinearProgram, error) {
	if len(lines) < 3 {
		return nil, errors.Wrap(ErrSyntax, "table input needs a direction, an objective and a constraint count")
	}

	dir, err := model.ParseDirection(lines[0].text)
	if err != nil {
		return nil, syntaxError(lines[0].num, "%v", err)
	}

	c, err := parseFloats(lines[1].num, strings.Fields(lines[1].text))
	if err != nil {
		return nil, err
	}

	m, err := strconv.Atoi(lines[2].text)
	if err != nil || m < 1 {
		return nil, syntaxError(lines[2].num, "constraint count %q", lines[2].text)
	}
	if len(lines) < 3+m {
		return nil, syntaxError(lines[len(lines)-1].num, "expected %d constraints, found %d", m, len(lines)-3)
	}

	b := model.NewBuilder(dir, c...)
	for _, l := range lines[3 : 3+m] {
		fields := strings.Fields(l.text)
		if len(fields) < 3 {
			return nil, syntaxError(l.num, "constraint %q needs coefficients, a relation and a rhs", l.text)
		}

		coefs, err := parseFloats(l.num, fields[:len(fields)-2])
		if err != nil {
			return nil, err
		}
		rel, err := model.ParseRelation(fields[len(fields)-2])
		if err != nil {
			return nil, syntaxError(l.num, "%v", err)
		}
		rhs, err := parseFloat(l.num, fields[len(fields)-1])
		if err != nil {
			return nil, err
		}

		b.AddConstraint(coefs, rel, rhs)
	}

	free, err := parseBounds(lines[3+m:], len(c))
	if err != nil {
		return nil, err
	}

	return b.Free(free...).Build()
}

// parseBounds reads the optional bounds section following the constraints
// and returns the free variables. A code of 0 keeps a variable non-negative,
// anything else frees it.
func parseBounds(rest []line, n int) ([]int, error) {
	if len(rest) == 0 {
		return nil, nil
	}
	if !strings.HasPrefix(strings.ToLower(rest[0].text), "bounds") {
		return nil, syntaxError(rest[0].num, "unexpected %q after the constraints", rest[0].text)
	}
	if len(rest) < 2 {
		return nil, syntaxError(rest[0].num, "bounds section without bound codes")
	}
	if len(rest) > 2 {
		return nil, syntaxError(rest[2].num, "unexpected %q after the bounds", rest[2].text)
	}

	codes := strings.Fields(rest[1].text)
	if len(codes) != n {
		return nil, syntaxError(rest[1].num, "%d bound codes for %d variables", len(codes), n)
	}
	var free []int
	for j, code := range codes {
		if code != "0" {
			free = append(free, j)
		}
	}

	return free, nil
}

func parseFloats(num int, fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := parseFloat(num, f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}

func parseFloat(num int, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, syntaxError(num, "number %q", s)
	}

	return v, nil
}
