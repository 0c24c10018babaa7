package instance

import (
	"regexp"
	"strconv"
	"strings"

	"q.log/lpsimplex/model"
)

var (
	termRe     = regexp.MustCompile(`([+-]?\d*\.?\d*)\*?x(\d+)`)
	relationRe = regexp.MustCompile(`<=|>=|=<|=>|==|=|≤|≥`)
)

// terms maps a variable index, counted from zero, to its coefficient.
type terms map[int]float64

func parseExpr(lines []line) (*model.LinearProgram, error) {
	head := lines[0]
	parts := strings.Split(head.text, "->")
	if len(parts) != 2 {
		return nil, syntaxError(head.num, "objective %q must read <expression> -> max|min", head.text)
	}

	dir, err := model.ParseDirection(parts[1])
	if err != nil {
		return nil, syntaxError(head.num, "%v", err)
	}
	obj, err := parseTerms(head.num, parts[0])
	if err != nil {
		return nil, err
	}

	n := obj.width()
	rows := make([]terms, 0, len(lines)-1)
	rels := make([]model.Relation, 0, len(lines)-1)
	rhs := make([]float64, 0, len(lines)-1)

	for _, l := range lines[1:] {
		loc := relationRe.FindStringIndex(l.text)
		if loc == nil {
			return nil, syntaxError(l.num, "constraint %q has no relation", l.text)
		}

		lhs, err := parseTerms(l.num, l.text[:loc[0]])
		if err != nil {
			return nil, err
		}
		rel, err := model.ParseRelation(l.text[loc[0]:loc[1]])
		if err != nil {
			return nil, syntaxError(l.num, "%v", err)
		}
		v, err := parseFloat(l.num, strings.ReplaceAll(l.text[loc[1]:], " ", ""))
		if err != nil {
			return nil, err
		}

		rows = append(rows, lhs)
		rels = append(rels, rel)
		rhs = append(rhs, v)
		n = max(n, lhs.width())
	}

	b := model.NewBuilder(dir, obj.dense(n)...)
	for i, r := range rows {
		b.AddConstraint(r.dense(n), rels[i], rhs[i])
	}

	return b.Build()
}

// parseTerms parses a sum such as "3x1 - x2 + 0.5*x4". Repeated variables
// add up.
func parseTerms(num int, s string) (terms, error) {
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return nil, syntaxError(num, "empty expression")
	}

	out := terms{}
	end := 0
	for k, m := range termRe.FindAllStringSubmatchIndex(s, -1) {
		if m[0] != end {
			return nil, syntaxError(num, "unexpected %q in %q", s[end:m[0]], s)
		}
		end = m[1]

		coef := s[m[2]:m[3]]
		if k > 0 && !strings.HasPrefix(coef, "+") && !strings.HasPrefix(coef, "-") {
			return nil, syntaxError(num, "missing sign before %q in %q", s[m[0]:m[1]], s)
		}

		v := 1.0
		switch coef {
		case "", "+":
		case "-":
			v = -1
		default:
			var err error
			if v, err = strconv.ParseFloat(coef, 64); err != nil {
				return nil, syntaxError(num, "coefficient %q", coef)
			}
		}

		idx, err := strconv.Atoi(s[m[4]:m[5]])
		if err != nil || idx < 1 {
			return nil, syntaxError(num, "variable x%s, indices start at 1", s[m[4]:m[5]])
		}
		out[idx-1] += v
	}
	if end != len(s) {
		return nil, syntaxError(num, "unexpected %q in %q", s[end:], s)
	}

	return out, nil
}

func (t terms) width() int {
	n := 0
	for j := range t {
		n = max(n, j+1)
	}

	return n
}

func (t terms) dense(n int) []float64 {
	out := make([]float64, n)
	for j, v := range t {
		out[j] = v
	}

	return out
}
