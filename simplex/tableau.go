package simplex

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"q.log/lpsimplex/model"
)

// Tableau is the dense working array of the simplex method. Rows 0..m-1 hold
// the constraints with the current rhs in the last column; row m holds the
// reduced costs and, in its last column, the current objective value of the
// internal maximization. Column basis[i] is the i-th unit vector over the
// constraint rows.
type Tableau struct {
	t     *mat.Dense
	basis []int

	m    int // constraint rows
	n    int // structural columns, original variables and mirrors
	vars int // variable columns; the rhs lives in column vars
	tol  float64
}

// newTableau lays out cf as described above with the auxiliary columns as the
// starting basis. A >= row is negated so its surplus column becomes a unit
// column. Rows that still lack a feasible unit column are returned.
func newTableau(cf *CanonicalForm, tol float64) (*Tableau, []int) {
	m, w := cf.Dims()

	t := mat.NewDense(m+1, w+1, nil)
	t.Slice(0, m, 0, w).(*mat.Dense).Copy(cf.a)
	t.Slice(0, m, w, w+1).(*mat.Dense).Copy(cf.b)
	floats.ScaleTo(t.RawRowView(m)[:w], -1, cf.c.RawVector().Data)

	tab := &Tableau{
		t:     t,
		basis: make([]int, m),
		m:     m,
		n:     cf.n,
		vars:  w,
		tol:   tol,
	}

	var bad []int
	for i := range m {
		aux := cf.n + i
		tab.basis[i] = aux
		if t.At(i, aux) == -1 {
			floats.Scale(-1, t.RawRowView(i))
		}
		if t.At(i, aux) != 1 || t.At(i, w) < -tol {
			bad = append(bad, i)
		}
	}

	return tab, bad
}

// Dims returns the size of the underlying array, (m+1)×(columns+1).
func (t *Tableau) Dims() (r, c int) { return t.t.Dims() }

func (t *Tableau) At(i, j int) float64 { return t.t.At(i, j) }

// Basis returns a copy of the row → basic column mapping.
func (t *Tableau) Basis() []int { return append([]int(nil), t.basis...) }

// RHS returns the current value of the variable basic in row i.
func (t *Tableau) RHS(i int) float64 { return t.t.At(i, t.vars) }

// Value returns the current objective of the internal maximization.
func (t *Tableau) Value() float64 { return t.t.At(t.m, t.vars) }

// Snapshot returns a copy of the whole array.
func (t *Tableau) Snapshot() *mat.Dense { return mat.DenseCopyOf(t.t) }

// entering picks the column among the first limit with the most negative
// reduced cost, the lowest index on ties. It returns -1 when every reduced
// cost is at least -ε.
func (t *Tableau) entering(limit int) int {
	cost := t.t.RawRowView(t.m)
	col, best := -1, -t.tol
	for j := range limit {
		if cost[j] < best {
			col, best = j, cost[j]
		}
	}

	return col
}

// leaving runs the ratio test on col, the lowest row index on ties. A rhs
// that drifted below zero counts as zero. It returns -1 when no entry of the
// column exceeds ε.
func (t *Tableau) leaving(col int) int {
	row, best := -1, math.Inf(1)
	for i := range t.m {
		r := t.t.RawRowView(i)
		if r[col] <= t.tol {
			continue
		}
		if ratio := max(r[t.vars], 0) / r[col]; ratio < best {
			row, best = i, ratio
		}
	}

	return row
}

// pivot makes col basic in row. A negative rhs in row is drift and is
// reset to zero first.
func (t *Tableau) pivot(row, col int) {
	pr := t.t.RawRowView(row)
	if pr[t.vars] < 0 {
		pr[t.vars] = 0
	}
	floats.Scale(1/pr[col], pr)
	pr[col] = 1

	for i := range t.m + 1 {
		if i == row {
			continue
		}
		r := t.t.RawRowView(i)
		if f := r[col]; f != 0 {
			floats.AddScaled(r, -f, pr)
			r[col] = 0
		}
	}

	// keep degenerate vertices exactly degenerate
	for i := range t.m {
		if r := t.t.RawRowView(i); math.Abs(r[t.vars]) < t.tol {
			r[t.vars] = 0
		}
	}

	t.basis[row] = col
}

// resetCost replaces the reduced-cost row with the one of cost c over the
// current basis. Columns past len(c) get a zero cost.
func (t *Tableau) resetCost(c []float64) {
	cost := t.t.RawRowView(t.m)
	for j := range cost {
		cost[j] = 0
	}
	floats.ScaleTo(cost[:len(c)], -1, c)

	for i, col := range t.basis {
		if col < len(c) && c[col] != 0 {
			floats.AddScaled(cost, c[col], t.t.RawRowView(i))
		}
	}
}

// basisIsIdentity reports whether the basic columns form the identity within
// tol and the basis has no repeated column.
func (t *Tableau) basisIsIdentity(tol float64) bool {
	seen := make(map[int]bool, t.m)
	for i, col := range t.basis {
		if seen[col] {
			return false
		}
		seen[col] = true
		for k := range t.m {
			want := 0.0
			if k == i {
				want = 1
			}
			if math.Abs(t.t.At(k, col)-want) > tol {
				return false
			}
		}
	}

	return true
}

// extract reads the optimal assignment of the original variables of cf.
func (t *Tableau) extract(cf *CanonicalForm, iterations int) *Result {
	x := make([]float64, t.n)
	for i, col := range t.basis {
		if col < t.n {
			x[col] = t.RHS(i)
		}
	}

	z := t.Value()
	if cf.dir == model.Minimize {
		z = -z
	}

	return NewOptimal(cf.fold(x), z, iterations)
}
