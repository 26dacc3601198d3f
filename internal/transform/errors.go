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
	"fmt"
	"github.com/pkg/errors"
)

// Matrix has no inverse, or its pseudo-inverse has no significant singular values
var ErrSingular  = errors.New("matrix has no inverse")

// A normalization scale is zero, so coordinates cannot be normalized
var ErrZeroScale = errors.New("zero scale")

// Input array has the wrong dimensions for a batch entry point
type ShapeError struct {
	Op     string
	Rows   int
	Cols   int
	Want   string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: input coords must be %s, got %dx%d", e.Op, e.Want, e.Rows, e.Cols)
}

// Input values are unusable, e.g. coordinate slices of mismatched lengths
type ValueError struct {
	Op     string
	Msg    string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

func newValueError(op, format string, args ...interface{}) error {
	return &ValueError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Checks an N x 2 coordinate array
func checkNx2(op string, rows, cols int) error {
	if cols!=2 {
		return &ShapeError{Op: op, Rows: rows, Cols: cols, Want: "[N x 2]"}
	}
	return nil
}
