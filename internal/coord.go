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


package internal

import (
	"fmt"
	"math"
)


// A 2-dimensional point with floating point coordinates.
// X is the first pixel axis (line) or longitude, Y the second pixel axis (sample) or latitude
type Point2D struct {
	X float64
	Y float64
}

// A 2-dimensional rectangle with floating point coordinates
type Rect2D struct {
	A Point2D
	B Point2D
}

func (p Point2D) String() string {
	return fmt.Sprintf("(%.6g, %.6g)", p.X, p.Y)
}

func (r Rect2D) String() string {
	return fmt.Sprintf("(%v, %v)", r.A, r.B)
}

// Returns the euclidian distance between the two given points
func Dist2D(a,b Point2D) float64 {
	return math.Sqrt(Dist2DSquared(a,b))
}

// Returns the squared euclidian distance between the two given points
func Dist2DSquared(a,b Point2D) float64 {
	dx, dy:=a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

// Returns the smallest rectangle containing all given points, with A the minimum and B the maximum corner
func BoundingRect2D(ps []Point2D) Rect2D {
	r:=Rect2D{
		A: Point2D{math.Inf(1), math.Inf(1)},
		B: Point2D{math.Inf(-1), math.Inf(-1)},
	}
	for _, p:=range ps {
		r.A.X, r.A.Y=math.Min(r.A.X, p.X), math.Min(r.A.Y, p.Y)
		r.B.X, r.B.Y=math.Max(r.B.X, p.X), math.Max(r.B.Y, p.Y)
	}
	return r
}
