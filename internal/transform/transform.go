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


// Package transform maps between pixel coordinates of an image and geographic
// coordinates, using rational polynomial coefficients (RPC) or an affine geotransform.
//
// Pixel coordinates are (x, y) in the order the georeferencing metadata uses:
// line then sample for RPCs, column then row for affine geotransforms.
// Transforms are immutable after construction and safe for concurrent use.
package transform

import (
	"github.com/mlnoga/georef/internal/par"
	"golang.org/x/exp/constraints"
)

// A coordinate transformation between pixel and geographic space
type Transform interface {
	// Maps pixel coordinates to longitude and latitude
	Forward(x, y []float64) (lon, lat []float64, err error)
	ForwardPoint(x, y float64) (lon, lat float64, err error)

	// Maps geographic coordinates to pixel coordinates, truncated to int32.
	// z may be empty (zero elevation), a single value or one value per coordinate
	Reverse(lon, lat, z []float64) (x, y []int32, err error)
	ReverseFloat(lon, lat, z []float64) (x, y []float64, err error)
	ReversePoint(lon, lat, z float64) (x, y int32, err error)

	// Returns a new transform on the pixel grid shifted by (dx, dy)
	Translate(dx, dy float64) Transform
	// Same as Translate(-dx, -dy)
	Untranslate(dx, dy float64) Transform

	// Spatial reference system, e.g. EPSG:4326
	Proj() string
}

// Numeric output types for reverse transforms
type Number interface {
	constraints.Integer | constraints.Float
}

// Maps geographic coordinates to pixel coordinates of the given numeric type.
// Conversion to integer types truncates towards zero
func ReverseAs[T Number](t Transform, lon, lat, z []float64) (x, y []T, err error) {
	xf, yf, err:=t.ReverseFloat(lon, lat, z)
	if err!=nil { return nil, nil, err }
	x, y=make([]T, len(xf)), make([]T, len(yf))
	for i:=range xf {
		x[i], y[i]=T(xf[i]), T(yf[i])
	}
	return x, y, nil
}

func truncate(xf, yf []float64) (x, y []int32) {
	x, y=make([]int32, len(xf)), make([]int32, len(yf))
	for i:=range xf {
		x[i], y[i]=int32(xf[i]), int32(yf[i])
	}
	return x, y
}

// Validates coordinate slices and returns the elevation for element i
func elevations(op string, lon, lat, z []float64) (func(i int) float64, error) {
	if len(lon)!=len(lat) {
		return nil, newValueError(op, "lng, lat inputs must have equal length, got %d and %d", len(lon), len(lat))
	}
	switch len(z) {
	case 0:
		return func(int) float64 { return 0 }, nil
	case 1:
		z0:=z[0]
		return func(int) float64 { return z0 }, nil
	case len(lon):
		return func(i int) float64 { return z[i] }, nil
	}
	return nil, newValueError(op, "z must be empty, a scalar or have length %d, got %d", len(lon), len(z))
}

func contextOrDefault(c *par.Context) *par.Context {
	if c==nil { return par.Default() }
	return c
}
