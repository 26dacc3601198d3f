// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.


package transform

import (
	"math"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Fits an affine transform mapping src onto dst in the least squares sense, from N>=3
// corresponding control points given as N x 2 arrays. Returns the transform and the
// root mean square residual distance
func EstimateAffine(src, dst mat.Matrix, proj string) (t *Affine, rms float64, err error) {
	r, c:=src.Dims()
	if err:=checkNx2("estimate affine", r, c); err!=nil { return nil, 0, err }
	r2, c2:=dst.Dims()
	if err:=checkNx2("estimate affine", r2, c2); err!=nil { return nil, 0, err }
	if r!=r2 { return nil, 0, newValueError("estimate affine", "src has %d rows, dst %d", r, r2) }
	if r<3 { return nil, 0, newValueError("estimate affine", "need at least 3 control points, got %d", r) }

	// design matrix [x y 1]
	design:=mat.NewDense(r, 3, nil)
	for i:=0; i<r; i++ {
		design.Set(i, 0, src.At(i, 0))
		design.Set(i, 1, src.At(i, 1))
		design.Set(i, 2, 1)
	}

	// columns of the solution are [A B C] and [D E F]
	var sol mat.Dense
	if err:=sol.Solve(design, dst); err!=nil {
		return nil, 0, errors.Wrapf(ErrSingular, "estimate affine: %v", err)
	}
	t=NewAffine(sol.At(0,0), sol.At(1,0), sol.At(2,0), sol.At(0,1), sol.At(1,1), sol.At(2,1), proj)

	res, err:=t.Residuals(src, dst)
	if err!=nil { return nil, 0, err }
	sumSq:=0.0
	for _, d:=range res {
		sumSq+=d*d
	}
	return t, math.Sqrt(sumSq/float64(r)), nil
}
