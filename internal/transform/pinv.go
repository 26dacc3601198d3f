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
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Singular values below rcond times the largest one are treated as zero
const pinvRcond = 1e-15

// Moore-Penrose pseudo-inverse via singular value decomposition. For an m x n input,
// returns the n x m matrix V * S^+ * U^T
func pinv(a mat.Matrix) (*mat.Dense, error) {
	r, c:=a.Dims()
	var svd mat.SVD
	if ok:=svd.Factorize(a, mat.SVDThin); !ok {
		return nil, errors.Wrapf(ErrSingular, "pinv: SVD of %dx%d matrix failed to converge", r, c)
	}
	s:=svd.Values(nil)
	if len(s)==0 || s[0]==0 {
		return nil, errors.Wrapf(ErrSingular, "pinv: %dx%d matrix is zero", r, c)
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	// scale the columns of V by the reciprocal singular values
	cutoff:=pinvRcond*s[0]
	_, k:=v.Dims()
	for j:=0; j<k; j++ {
		inv:=0.0
		if s[j]>cutoff { inv=1/s[j] }
		for i:=0; i<c; i++ {
			v.Set(i, j, v.At(i, j)*inv)
		}
	}

	res:=mat.NewDense(c, r, nil)
	res.Mul(&v, u.T())
	return res, nil
}
