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

// A rational polynomial transform. Row 0 of the coefficient matrices yields the line,
// row 1 the sample. Geographic coordinates are normalized as coord*GeoScale + GeoOffset,
// pixel coordinates are denormalized as value*PxScale + PxOffset.
//
// The pixel to geo direction applies the pseudo-inverse of the numerator matrix only, and
// reads longitude, latitude and height off the linear terms of the recovered basis.
// This ignores the denominators and the higher order terms. It is an approximation,
// and callers depend on its exact output, so it must stay as is.
type RPC struct {
	num       [2][NumTerms]float64
	den       [2][NumTerms]float64
	geoOffset [3]float64
	geoScale  [3]float64
	pxOffset  [2]float64
	pxScale   [2]float64
	proj      string

	inv       *rpcInverse
	ctx       *par.Context
}

// Rows termL, termP and termH of the numerator pseudo-inverse. Depends on the coefficients only
type rpcInverse struct {
	m [3][2]float64
}

// Bytes of scratch per coordinate in the reverse kernel
const rpcReverseBytesPerElem = 8*NumTerms

// Creates a new RPC transform. Scales must be non-zero
func NewRPC(num, den [2][NumTerms]float64, geoOffset, geoScale [3]float64,
	        pxOffset, pxScale [2]float64, proj string) (*RPC, error) {
	for i, s:=range geoScale {
		if s==0 || math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, errors.Wrapf(ErrZeroScale, "rpc: geographic scale %d is %g", i, s)
		}
	}
	for i, s:=range pxScale {
		if s==0 || math.IsNaN(s) {
			return nil, errors.Wrapf(ErrZeroScale, "rpc: pixel scale %d is %g", i, s)
		}
	}

	a:=mat.NewDense(2, NumTerms, nil)
	for r:=0; r<2; r++ {
		a.SetRow(r, num[r][:])
	}
	aInv, err:=pinv(a)
	if err!=nil { return nil, errors.Wrap(err, "rpc: inverting numerator coefficients") }
	inv:=&rpcInverse{}
	for i, term:=range []int{termL, termP, termH} {
		inv.m[i][0], inv.m[i][1]=aInv.At(term, 0), aInv.At(term, 1)
	}

	return &RPC{
		num       : num,
		den       : den,
		geoOffset : geoOffset,
		geoScale  : geoScale,
		pxOffset  : pxOffset,
		pxScale   : pxScale,
		proj      : proj,
		inv       : inv,
	}, nil
}

// Creates an RPC transform from RPC metadata
func FromCoefficients(m *RPCMetadata) (*RPC, error) {
	if err:=m.Validate(); err!=nil { return nil, err }
	var num, den [2][NumTerms]float64
	copy(num[0][:], m.LineNumCoefs)
	copy(num[1][:], m.SampleNumCoefs)
	copy(den[0][:], m.LineDenCoefs)
	copy(den[1][:], m.SampleDenCoefs)

	scale:=[3]float64{1/m.LonScale, 1/m.LatScale, 1/m.HeightScale}
	offset:=[3]float64{-m.LonOffset*scale[0], -m.LatOffset*scale[1], -m.HeightOffset*scale[2]}
	pxScale :=[2]float64{m.LineScale,  m.SampleScale}
	pxOffset:=[2]float64{m.LineOffset, m.SampleOffset}

	return NewRPC(num, den, offset, scale, pxOffset, pxScale, m.SpatialReferenceSystem)
}

// Returns a copy of the transform which runs large batches on the given context
func (t *RPC) WithContext(c *par.Context) *RPC {
	res:=*t
	res.ctx=c
	return &res
}

func (t *RPC) Proj() string { return t.proj }

// Pixel offset (line, sample)
func (t *RPC) PixelOffset() (line, sample float64) { return t.pxOffset[0], t.pxOffset[1] }

func (t *RPC) String() string {
	return fmt.Sprintf("RPC(pxOffset=%v, pxScale=%v, geoOffset=%v, geoScale=%v, proj=%q)",
		t.pxOffset, t.pxScale, t.geoOffset, t.geoScale, t.proj)
}

// Maps pixel coordinates (line, sample) to longitude and latitude
func (t *RPC) Forward(x, y []float64) (lon, lat []float64, err error) {
	if len(x)!=len(y) {
		return nil, nil, newValueError("rpc forward", "x, y inputs must have equal length, got %d and %d", len(x), len(y))
	}
	lon, lat=make([]float64, len(x)), make([]float64, len(x))
	err=contextOrDefault(t.ctx).Run("rpc forward", len(x), 0, func(ch par.Chunk) error {
		t.forwardKernel(x[ch.Lo:ch.Hi], y[ch.Lo:ch.Hi], lon[ch.Lo:ch.Hi], lat[ch.Lo:ch.Hi], nil)
		return nil
	})
	return lon, lat, err
}

func (t *RPC) ForwardPoint(x, y float64) (lon, lat float64, err error) {
	var lons, lats [1]float64
	t.forwardKernel([]float64{x}, []float64{y}, lons[:], lats[:], nil)
	return lons[0], lats[0], nil
}

// Maps pixel coordinates to longitude, latitude and height
func (t *RPC) Forward3(x, y []float64) (lon, lat, h []float64, err error) {
	if len(x)!=len(y) {
		return nil, nil, nil, newValueError("rpc forward", "x, y inputs must have equal length, got %d and %d", len(x), len(y))
	}
	lon, lat, h=make([]float64, len(x)), make([]float64, len(x)), make([]float64, len(x))
	err=contextOrDefault(t.ctx).Run("rpc forward", len(x), 0, func(ch par.Chunk) error {
		t.forwardKernel(x[ch.Lo:ch.Hi], y[ch.Lo:ch.Hi], lon[ch.Lo:ch.Hi], lat[ch.Lo:ch.Hi], h[ch.Lo:ch.Hi])
		return nil
	})
	return lon, lat, h, err
}

// Pixel to geo for one contiguous run of coordinates. h may be nil
func (t *RPC) forwardKernel(x, y, lon, lat, h []float64) {
	m:=&t.inv.m
	for i:=range x {
		n0:=(x[i]-t.pxOffset[0])/t.pxScale[0]
		n1:=(y[i]-t.pxOffset[1])/t.pxScale[1]
		l:=m[0][0]*n0 + m[0][1]*n1
		p:=m[1][0]*n0 + m[1][1]*n1
		lon[i]=(l-t.geoOffset[0])/t.geoScale[0]
		lat[i]=(p-t.geoOffset[1])/t.geoScale[1]
		if h!=nil {
			z:=m[2][0]*n0 + m[2][1]*n1
			h[i]=(z-t.geoOffset[2])/t.geoScale[2]
		}
	}
}

// Maps an N x 2 array of pixel coordinates to an N x 2 array of longitude, latitude
func (t *RPC) Evaluate(coords mat.Matrix) (*mat.Dense, error) {
	r, c:=coords.Dims()
	if err:=checkNx2("rpc evaluate", r, c); err!=nil { return nil, err }
	x, y:=columns(coords)
	lon, lat, err:=t.Forward(x, y)
	if err!=nil { return nil, err }
	return fromColumns(lon, lat), nil
}

func (t *RPC) Reverse(lon, lat, z []float64) (x, y []int32, err error) {
	xf, yf, err:=t.ReverseFloat(lon, lat, z)
	if err!=nil { return nil, nil, err }
	x, y=truncate(xf, yf)
	return x, y, nil
}

func (t *RPC) ReversePoint(lon, lat, z float64) (x, y int32, err error) {
	var xs, ys [1]float64
	t.reverseKernel([]float64{lon}, []float64{lat}, func(int) float64 { return z }, 0, xs[:], ys[:])
	return int32(xs[0]), int32(ys[0]), nil
}

// Maps geographic coordinates to (line, sample) pixel coordinates without rounding
func (t *RPC) ReverseFloat(lon, lat, z []float64) (x, y []float64, err error) {
	zAt, err:=elevations("rpc reverse", lon, lat, z)
	if err!=nil { return nil, nil, err }
	x, y=make([]float64, len(lon)), make([]float64, len(lon))
	err=contextOrDefault(t.ctx).Run("rpc reverse", len(lon), rpcReverseBytesPerElem, func(ch par.Chunk) error {
		t.reverseKernel(lon[ch.Lo:ch.Hi], lat[ch.Lo:ch.Hi], zAt, ch.Lo, x[ch.Lo:ch.Hi], y[ch.Lo:ch.Hi])
		return nil
	})
	return x, y, err
}

// Geo to pixel for one contiguous run of coordinates. zAt is indexed from base
func (t *RPC) reverseKernel(lon, lat []float64, zAt func(int) float64, base int, x, y []float64) {
	var b [NumTerms]float64
	for i:=range lon {
		l:=lon[i]       *t.geoScale[0] + t.geoOffset[0]
		p:=lat[i]       *t.geoScale[1] + t.geoOffset[1]
		h:=zAt(base+i)  *t.geoScale[2] + t.geoOffset[2]
		rpcBasis(&b, l, p, h)
		line  :=dot20(&t.num[0], &b) / dot20(&t.den[0], &b)
		sample:=dot20(&t.num[1], &b) / dot20(&t.den[1], &b)
		x[i]=line  *t.pxScale[0] + t.pxOffset[0]
		y[i]=sample*t.pxScale[1] + t.pxOffset[1]
	}
}

// Returns a new transform whose pixel origin is moved by (dx, dy)
func (t *RPC) Translate(dx, dy float64) Transform {
	res:=*t
	res.pxOffset=[2]float64{t.pxOffset[0]-dx, t.pxOffset[1]-dy}
	return &res
}

func (t *RPC) Untranslate(dx, dy float64) Transform {
	return t.Translate(-dx, -dy)
}

// Distances between the reverse transformed geo coordinates and the given pixel coordinates, per row.
// Both arrays must be N x 2
func (t *RPC) Residuals(geo, px mat.Matrix) ([]float64, error) {
	r, c:=geo.Dims()
	if err:=checkNx2("rpc residuals", r, c); err!=nil { return nil, err }
	r2, c2:=px.Dims()
	if err:=checkNx2("rpc residuals", r2, c2); err!=nil { return nil, err }
	if r!=r2 { return nil, newValueError("rpc residuals", "src has %d rows, dst %d", r, r2) }

	lon, lat:=columns(geo)
	x, y, err:=t.ReverseFloat(lon, lat, nil)
	if err!=nil { return nil, err }
	res:=make([]float64, r)
	for i:=range res {
		res[i]=nl.Dist2D(nl.Point2D{X: x[i], Y: y[i]}, nl.Point2D{X: px.At(i,0), Y: px.At(i,1)})
	}
	return res, nil
}

// Splits an N x 2 matrix into its columns
func columns(m mat.Matrix) (c0, c1 []float64) {
	r, _:=m.Dims()
	c0, c1=make([]float64, r), make([]float64, r)
	for i:=0; i<r; i++ {
		c0[i], c1[i]=m.At(i, 0), m.At(i, 1)
	}
	return c0, c1
}

// Joins two columns into an N x 2 matrix
func fromColumns(c0, c1 []float64) *mat.Dense {
	if len(c0)==0 { return &mat.Dense{} }
	res:=mat.NewDense(len(c0), 2, nil)
	for i:=range c0 {
		res.Set(i, 0, c0[i])
		res.Set(i, 1, c1[i])
	}
	return res
}
