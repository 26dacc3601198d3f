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
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	nl "github.com/mlnoga/georef/internal"
	"github.com/mlnoga/georef/internal/par"
)

// A 2D affine coordinate transformation
//   x' = A*x + B*y + C
//   y' = D*x + E*y + F
// The inverse is calculated once on construction. If the matrix is singular,
// all reverse direction operations return ErrSingular.
type Affine struct {
	A float64
	B float64
	C float64
	D float64
	E float64
	F float64

	proj   string
	inv    *Affine
	invErr error
	ctx    *par.Context
}

// Creates a new affine transform
func NewAffine(a, b, c, d, e, f float64, proj string) *Affine {
	t:=&Affine{A: a, B: b, C: c, D: d, E: e, F: f, proj: proj}
	t.inv, t.invErr=t.invert()
	return t
}

func IdentityAffine() *Affine {
	return NewAffine(1,0,0, 0,1,0, "")
}

// Creates a translation by (dx, dy)
func Translation(dx, dy float64) *Affine {
	return NewAffine(1,0,dx, 0,1,dy, "")
}

// Creates an affine transform from a GDAL style geotransform
func FromGeoreference(g *Georeference) *Affine {
	return NewAffine(g.ScaleX, g.ShearX, g.TranslateX, g.ShearY, g.ScaleY, g.TranslateY, g.SpatialReferenceSystemCode)
}

// Calculate 2D transformation matrix from three given points in first coordinate
// system, and corresponding reference points in second coordinate system.
// p1, p2, p3 are in the first system. p1p, p2p, p3p are in the second.
func NewAffineFromPoints(p1, p2, p3, p1p, p2p, p3p nl.Point2D, proj string) (*Affine, error) {
	// a*dx2 + b*dy2 = du2, a*dx3 + b*dy3 = du3, same for d and e with dv
	dx2, dy2:=p2.X-p1.X, p2.Y-p1.Y
	dx3, dy3:=p3.X-p1.X, p3.Y-p1.Y
	denom:=dx2*dy3 - dx3*dy2
	if denom==0 {
		return nil, errors.Wrap(ErrSingular, "affine from points: points are collinear")
	}
	du2, du3:=p2p.X-p1p.X, p3p.X-p1p.X
	dv2, dv3:=p2p.Y-p1p.Y, p3p.Y-p1p.Y

	a:=(du2*dy3 - du3*dy2) / denom
	b:=(dx2*du3 - dx3*du2) / denom
	c:=p1p.X - a*p1.X - b*p1.Y

	d:=(dv2*dy3 - dv3*dy2) / denom
	e:=(dx2*dv3 - dx3*dv2) / denom
	f:=p1p.Y - d*p1.X - e*p1.Y

	for _, v:=range []float64{a,b,c,d,e,f} {
		if math.IsInf(v,0) || math.IsNaN(v) {
			return nil, errors.Wrap(ErrSingular, "affine from points: divide by zero")
		}
	}
	return NewAffine(a,b,c,d,e,f, proj), nil
}

// Returns a copy of the transform which runs large batches on the given context
func (t *Affine) WithContext(c *par.Context) *Affine {
	res:=*t
	res.ctx=c
	return &res
}

func (t *Affine) Proj() string { return t.proj }

func (t *Affine) String() string {
	return fmt.Sprintf("x'=%.8gx %+.8gy %+.8g, y'=%.8gx %+.8gy %+.8g",
		t.A, t.B, t.C, t.D, t.E, t.F)
}

// GDAL geotransform order: translateX, scaleX, shearX, translateY, shearY, scaleY
func (t *Affine) ToGDAL() [6]float64 {
	return [6]float64{t.C, t.A, t.B, t.F, t.D, t.E}
}

// Apply the transformation to a single point
func (t *Affine) apply(x, y float64) (xP, yP float64) {
	return t.A*x + t.B*y + t.C, t.D*x + t.E*y + t.F
}

// Returns the inverse transformation, or ErrSingular
func (t *Affine) Inverse() (*Affine, error) {
	if t.invErr!=nil { return nil, t.invErr }
	return t.inv.WithContext(t.ctx), nil
}

// Invert a given 2D transformation. Returns error if the determinant is zero
func (t *Affine) invert() (*Affine, error) {
	det:=t.A*t.E - t.B*t.D
	if det==0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return nil, errors.Wrapf(ErrSingular, "affine: determinant is %g", det)
	}
	/*	x'    = a*x + b*y +c
		y'    = d*x + e*y +f
		x     =  e/det*x' - b/det*y' + (b*f-c*e)/det
		y     = -d/det*x' + a/det*y' + (c*d-a*f)/det  */
	inv:=&Affine{
		A:  t.E/det,
		B: -t.B/det,
		C: (t.B*t.F-t.C*t.E)/det,
		D: -t.D/det,
		E:  t.A/det,
		F: (t.C*t.D-t.A*t.F)/det,
		proj: t.proj,
	}
	inv.inv=t
	return inv, nil
}

// Returns the composition t∘o, which applies o first and t second
func (t *Affine) Mul(o *Affine) *Affine {
	res:=NewAffine(
		t.A*o.A + t.B*o.D,  t.A*o.B + t.B*o.E,  t.A*o.C + t.B*o.F + t.C,
		t.D*o.A + t.E*o.D,  t.D*o.B + t.E*o.E,  t.D*o.C + t.E*o.F + t.F,
		t.proj)
	res.ctx=t.ctx
	return res
}

// Maps pixel coordinates to geographic coordinates
func (t *Affine) Forward(x, y []float64) (lon, lat []float64, err error) {
	if len(x)!=len(y) {
		return nil, nil, newValueError("affine forward", "x, y inputs must have equal length, got %d and %d", len(x), len(y))
	}
	lon, lat=make([]float64, len(x)), make([]float64, len(x))
	err=contextOrDefault(t.ctx).Run("affine forward", len(x), 0, func(ch par.Chunk) error {
		for i:=ch.Lo; i<ch.Hi; i++ {
			lon[i], lat[i]=t.apply(x[i], y[i])
		}
		return nil
	})
	return lon, lat, err
}

func (t *Affine) ForwardPoint(x, y float64) (lon, lat float64, err error) {
	lon, lat=t.apply(x, y)
	return lon, lat, nil
}

// Maps geographic coordinates to pixel coordinates without rounding. Elevation is ignored
func (t *Affine) ReverseFloat(lon, lat, z []float64) (x, y []float64, err error) {
	if _, err:=elevations("affine reverse", lon, lat, z); err!=nil { return nil, nil, err }
	if t.invErr!=nil { return nil, nil, t.invErr }
	x, y=make([]float64, len(lon)), make([]float64, len(lon))
	err=contextOrDefault(t.ctx).Run("affine reverse", len(lon), 0, func(ch par.Chunk) error {
		for i:=ch.Lo; i<ch.Hi; i++ {
			x[i], y[i]=t.inv.apply(lon[i], lat[i])
		}
		return nil
	})
	return x, y, err
}

func (t *Affine) Reverse(lon, lat, z []float64) (x, y []int32, err error) {
	xf, yf, err:=t.ReverseFloat(lon, lat, z)
	if err!=nil { return nil, nil, err }
	x, y=truncate(xf, yf)
	return x, y, nil
}

func (t *Affine) ReversePoint(lon, lat, z float64) (x, y int32, err error) {
	if t.invErr!=nil { return 0, 0, t.invErr }
	xf, yf:=t.inv.apply(lon, lat)
	return int32(xf), int32(yf), nil
}

// Applies the transformation row-wise to a copy of an N x 2 coordinate array
func (t *Affine) Apply(coords mat.Matrix) (*mat.Dense, error) {
	return t.applyRows("affine apply", coords)
}

// Applies the inverse transformation row-wise to a copy of an N x 2 coordinate array
func (t *Affine) Invert(coords mat.Matrix) (*mat.Dense, error) {
	r, c:=coords.Dims()
	if err:=checkNx2("affine invert", r, c); err!=nil { return nil, err }
	if t.invErr!=nil { return nil, t.invErr }
	return t.inv.WithContext(t.ctx).applyRows("affine invert", coords)
}

func (t *Affine) applyRows(op string, coords mat.Matrix) (*mat.Dense, error) {
	r, c:=coords.Dims()
	if err:=checkNx2(op, r, c); err!=nil { return nil, err }
	res:=mat.DenseCopyOf(coords)
	err:=contextOrDefault(t.ctx).Run(op, r, 0, func(ch par.Chunk) error {
		for i:=ch.Lo; i<ch.Hi; i++ {
			x, y:=t.apply(res.At(i, 0), res.At(i, 1))
			res.Set(i, 0, x)
			res.Set(i, 1, y)
		}
		return nil
	})
	return res, err
}

// Returns a new transform which first moves pixel coordinates by (dx, dy)
func (t *Affine) Translate(dx, dy float64) Transform {
	return t.Mul(Translation(dx, dy))
}

func (t *Affine) Untranslate(dx, dy float64) Transform {
	return t.Translate(-dx, -dy)
}

// Distances between the transformed source points and the destination points, per row
func (t *Affine) Residuals(src, dst mat.Matrix) ([]float64, error) {
	proj, err:=t.Apply(src)
	if err!=nil { return nil, err }
	r, _:=proj.Dims()
	r2, c2:=dst.Dims()
	if err:=checkNx2("affine residuals", r2, c2); err!=nil { return nil, err }
	if r!=r2 { return nil, newValueError("affine residuals", "src has %d rows, dst %d", r, r2) }
	res:=make([]float64, r)
	for i:=range res {
		res[i]=nl.Dist2D(nl.Point2D{X: proj.At(i,0), Y: proj.At(i,1)}, nl.Point2D{X: dst.At(i,0), Y: dst.At(i,1)})
	}
	return res, nil
}
