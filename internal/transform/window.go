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
	"math"
	nl "github.com/mlnoga/georef/internal"
)

// A pixel space sub-window of an image
type Window struct {
	XOff   int
	YOff   int
	Width  int
	Height int
}

func (w Window) String() string {
	return fmt.Sprintf("Window(xoff: %d, yoff: %d, width: %d, height: %d)", w.XOff, w.YOff, w.Width, w.Height)
}

// Smallest pixel window covering the given geographic bounding box
func WindowFromBounds(t Transform, minLon, minLat, maxLon, maxLat float64) (Window, error) {
	if minLon>maxLon || minLat>maxLat {
		return Window{}, newValueError("window from bounds", "empty bounds [%g,%g]x[%g,%g]", minLon, maxLon, minLat, maxLat)
	}
	xs, ys, err:=t.ReverseFloat(
		[]float64{minLon, minLon, maxLon, maxLon},
		[]float64{minLat, maxLat, minLat, maxLat},
		nil)
	if err!=nil { return Window{}, err }

	corners:=make([]nl.Point2D, len(xs))
	for i:=range xs {
		corners[i]=nl.Point2D{X: xs[i], Y: ys[i]}
	}
	r:=nl.BoundingRect2D(corners)
	xMin, yMin:=int(math.Floor(r.A.X)), int(math.Floor(r.A.Y))
	xMax, yMax:=int(math.Ceil (r.B.X)), int(math.Ceil (r.B.Y))
	return Window{XOff: xMin, YOff: yMin, Width: xMax-xMin, Height: yMax-yMin}, nil
}

// Returns the transform for pixel coordinates relative to the window origin
func (w Window) Transform(t Transform) Transform {
	return t.Translate(float64(w.XOff), float64(w.YOff))
}

// Intersection of two windows. Returns false if they do not overlap
func (w Window) Intersect(o Window) (Window, bool) {
	x0, y0:=maxInt(w.XOff, o.XOff), maxInt(w.YOff, o.YOff)
	x1, y1:=minInt(w.XOff+w.Width, o.XOff+o.Width), minInt(w.YOff+w.Height, o.YOff+o.Height)
	if x1<=x0 || y1<=y0 { return Window{}, false }
	return Window{XOff: x0, YOff: y0, Width: x1-x0, Height: y1-y0}, true
}

func minInt(a, b int) int { if a<b { return a }; return b }
func maxInt(a, b int) int { if a>b { return a }; return b }
