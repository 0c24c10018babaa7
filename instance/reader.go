// Package instance reads linear programs from files.
//
// Three formats are understood. The table format lists the direction, the
// objective coefficients, the number of constraints and one row per
// constraint ending in a relation and its rhs:
//
//	max
//	3 2
//	2
//	1 1 <= 4
//	1 3 <= 6
//
// An optional bounds section closes the table with one code per variable,
// 0 for x >= 0 and anything else for a free variable:
//
//	bounds
//	0 1
//
// The expression format writes the objective and the constraints as sums of
// terms over x1, x2, ...:
//
//	3x1 + 2x2 -> max
//	x1 + x2 <= 4
//	x1 + 3x2 <= 6
//
// MPS files are read through GLPK and need a binary built with -tags glpk.
package instance

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"q.log/lpsimplex/model"
)

// Format names an input format.
type Format string

const (
	Auto  Format = "auto"
	Table Format = "table"
	Expr  Format = "expr"
	MPS   Format = "mps"
)

// ParseFormat parses a format name, case-insensitively. The empty string is
// Auto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return Auto, nil
	case Auto, Table, Expr, MPS:
		return f, nil
	}
	return "", errors.Wrapf(ErrUnknownFormat, "%q", s)
}

// Option configures a Reader.
type Option func(*Reader)

// WithFormat forces the input format instead of detecting it.
func WithFormat(f Format) Option {
	return func(r *Reader) {
		r.format = f
	}
}

// WithDirection sets the optimization direction of MPS inputs, which do not
// carry one the reader trusts. The other formats ignore it.
func WithDirection(d model.Direction) Option {
	return func(r *Reader) {
		r.dir = d
	}
}

// Reader reads a file to construct a linear program
type Reader struct {
	filename string
	format   Format
	dir      model.Direction
}

func NewReader(filename string, opts ...Option) *Reader {
	r := &Reader{
		filename: filename,
		format:   Auto,
		dir:      model.Minimize,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Format returns the format the reader will use, detecting it if needed.
func (r *Reader) Format() (Format, error) {
	if r.format != Auto && r.format != "" {
		return r.format, nil
	}
	if strings.EqualFold(filepath.Ext(r.filename), ".mps") {
		return MPS, nil
	}

	data, err := os.ReadFile(r.filename)
	if err != nil {
		return "", errors.Wrap(err, "instance")
	}
	return Detect(data)
}

// Read returns the linear program stored in the file.
func (r *Reader) Read() (*model.LinearProgram, error) {
	format, err := r.Format()
	if err != nil {
		return nil, err
	}

	switch format {
	case MPS:
		p, err := readMPS(r.filename, r.dir)
		return p, errors.WithMessage(err, r.filename)
	case Table, Expr:
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", format)
	}

	data, err := os.ReadFile(r.filename)
	if err != nil {
		return nil, errors.Wrap(err, "instance")
	}

	p, err := Parse(data, format)
	return p, errors.WithMessage(err, r.filename)
}

// Parse parses data in the table or expression format. Auto detects which one.
func Parse(data []byte, format Format) (*model.LinearProgram, error) {
	if format == Auto || format == "" {
		var err error
		if format, err = Detect(data); err != nil {
			return nil, err
		}
	}

	lines, err := contentLines(data)
	if err != nil {
		return nil, err
	}

	switch format {
	case Table:
		return parseTable(lines)
	case Expr:
		return parseExpr(lines)
	case MPS:
		return nil, errors.Wrap(ErrUnknownFormat, "MPS input must be read from a file")
	}
	return nil, errors.Wrapf(ErrUnknownFormat, "%q", format)
}

// Detect tells the table and expression formats apart by their first line.
func Detect(data []byte) (Format, error) {
	lines, err := contentLines(data)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", errors.Wrap(ErrUnknownFormat, "empty input")
	}

	first := lines[0].text
	if strings.Contains(first, "->") {
		return Expr, nil
	}
	if _, err := model.ParseDirection(first); err == nil {
		return Table, nil
	}
	return "", errors.Wrapf(ErrUnknownFormat, "line %d: %q", lines[0].num, first)
}

type line struct {
	num  int
	text string
}

// contentLines returns the trimmed non-empty lines of data, without # comments.
func contentLines(data []byte) ([]line, error) {
	var lines []line

	sc := bufio.NewScanner(bytes.NewReader(data))
	for n := 1; sc.Scan(); n++ {
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		lines = append(lines, line{num: n, text: text})
	}

	return lines, errors.Wrap(sc.Err(), "instance")
}
