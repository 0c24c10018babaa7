//go:build glpk

package instance

import (
	"math"
	"runtime"

	"github.com/lukpank/go-glpk/glpk"
	"github.com/pkg/errors"

	"q.log/lpsimplex/model"
)

// readMPS loads a free-format MPS file through GLPK. Ranged rows become a >=
// and a <= row. A column with a negative lower bound is free, and any finite
// bound other than x >= 0 becomes an extra row.
func readMPS(filename string, dir model.Direction) (*model.LinearProgram, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	lp := glpk.New()
	defer lp.Delete()
	if err := lp.ReadMPS(glpk.MPS_FILE, nil, filename); err != nil {
		return nil, errors.Wrap(err, "instance: glpk")
	}

	n := lp.NumCols()
	c := make([]float64, n)
	for j := range n {
		c[j] = lp.ObjCoef(j + 1)
	}
	b := model.NewBuilder(dir, c...)

	for r := 1; r <= lp.NumRows(); r++ {
		rowVec := make([]float64, n)
		idxs, row := lp.MatRow(r)
		for i, v := range idxs {
			if v == 0 {
				continue
			}
			rowVec[v-1] = row[i]
		}

		lb, ub := lp.RowLB(r), lp.RowUB(r)
		switch {
		case lb == -math.MaxFloat64 && ub == math.MaxFloat64:
			// free rows carry the objective in MPS files
			continue
		case lb == -math.MaxFloat64:
			b.AddConstraint(rowVec, model.LessEqual, ub)
		case ub == math.MaxFloat64:
			b.AddConstraint(rowVec, model.GreaterEqual, lb)
		case lb == ub:
			b.AddConstraint(rowVec, model.Equal, lb)
		default:
			b.AddConstraint(rowVec, model.GreaterEqual, lb)
			b.AddConstraint(rowVec, model.LessEqual, ub)
		}
	}

	for j := range n {
		lb, ub := lp.ColLB(j+1), lp.ColUB(j+1)
		if lb < 0 {
			b.Free(j)
		}

		unit := make([]float64, n)
		unit[j] = 1
		if lb > 0 || (lb < 0 && lb != -math.MaxFloat64) {
			b.AddConstraint(unit, model.GreaterEqual, lb)
		}
		if ub != math.MaxFloat64 {
			b.AddConstraint(unit, model.LessEqual, ub)
		}
	}

	return b.Build()
}
