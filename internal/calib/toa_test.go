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


package calib

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"
)

// Fixed distance ephemeris
type constEphemeris float64

func (c constEphemeris) SunDistance(o Observer, t time.Time) (float64, error) { return float64(c), nil }

type failingEphemeris struct{}

func (failingEphemeris) SunDistance(o Observer, t time.Time) (float64, error) {
	return 0, errors.New("no ephemeris")
}

const panFootprint="POLYGON((-105.1 39.9, -104.9 39.9, -104.9 40.1, -105.1 40.1, -105.1 39.9))"

func panMetadata() *CurrentMetadata {
	sunEl:=61.5
	return &CurrentMetadata{
		SensorAlias                : "WV02_PAN",
		ImageBoundsWGS84           : panFootprint,
		AbsoluteCalibrationFactors : []float64{0.05678},
		EffectiveBandwidths        : []float64{0.2846},
		AcquisitionDate            : "2016-08-26T16:33:52Z",
		SunElevationDeg            : &sunEl,
	}
}

func legacyPanMetadata() *LegacyMetadata {
	sunEl:=FlexFloat(61.5)
	return &LegacyMetadata{
		SatID        : "wv02",
		BandID       : "p",
		AbsCalFactor : []float64{0.05678},
		EffBandwidth : []float64{0.2846},
		LatLonHAE    : []float64{40, -105, 1600},
		ImgDatetime  : &MongoDate{Date: 1472229232000},
		MeanSunEl    : &sunEl,
	}
}

func relErr(got, want float64) float64 {
	return math.Abs(got-want)/math.Abs(want)
}

func TestTOASinglePanBand(t *testing.T) {
	cal, err:=ComputeTOAGainOffset(panMetadata(), nil, nil)
	if err!=nil { t.Fatal(err) }
	if len(cal)!=1 { t.Fatalf("len=%d; want 1", len(cal)) }

	want:=BandCalibration{Gain: 0.18793661278988052, ReflectanceScale: 0.0023226419950920425, Offset: -2.704}
	if relErr(cal[0].Gain, want.Gain)>1e-4 { t.Errorf("gain=%.6g; want %.6g", cal[0].Gain, want.Gain) }
	if relErr(cal[0].ReflectanceScale, want.ReflectanceScale)>1e-4 {
		t.Errorf("reflectance scale=%.6g; want %.6g", cal[0].ReflectanceScale, want.ReflectanceScale)
	}
	if cal[0].Offset!=want.Offset { t.Errorf("offset=%g; want %g", cal[0].Offset, want.Offset) }
}

func TestTOAUnitDistance(t *testing.T) {
	cal, err:=ComputeTOAGainOffset(panMetadata(), nil, constEphemeris(1))
	if err!=nil { t.Fatal(err) }
	if relErr(cal[0].ReflectanceScale, 0.0022749699995905587)>1e-12 {
		t.Errorf("reflectance scale=%.12g; want 0.00227496999959", cal[0].ReflectanceScale)
	}
	if dn:=1000.0; relErr(cal[0].Reflectance(dn), (cal[0].Gain*dn+cal[0].Offset)*cal[0].ReflectanceScale)>1e-15 {
		t.Errorf("reflectance(%g)=%g", dn, cal[0].Reflectance(dn))
	}
}

func TestTOALegacyMatchesCurrent(t *testing.T) {
	cur, err:=ComputeTOAGainOffset(panMetadata(), nil, nil)
	if err!=nil { t.Fatal(err) }
	old, err:=ComputeTOAGainOffset(legacyPanMetadata(), nil, nil)
	if err!=nil { t.Fatal(err) }
	if relErr(old[0].Gain, cur[0].Gain)>1e-12 || relErr(old[0].ReflectanceScale, cur[0].ReflectanceScale)>1e-12 || old[0].Offset!=cur[0].Offset {
		t.Errorf("legacy=%v; current=%v", old[0], cur[0])
	}
}

func TestTOADeterministic(t *testing.T) {
	a, err:=ComputeTOAGainOffset(panMetadata(), nil, nil)
	if err!=nil { t.Fatal(err) }
	b, err:=ComputeTOAGainOffset(panMetadata(), nil, nil)
	if err!=nil { t.Fatal(err) }
	if !reflect.DeepEqual(a, b) { t.Errorf("repeated calls differ: %v, %v", a, b) }
}

func TestTOAMultispectralBandOrder(t *testing.T) {
	m:=panMetadata()
	m.SensorAlias="WV03_VNIR"
	m.AbsoluteCalibrationFactors=[]float64{1, 1, 1, 1, 1, 1, 1, 1}
	m.EffectiveBandwidths=[]float64{1, 1, 1, 1, 1, 1, 1, 1}
	cal, err:=ComputeTOAGainOffset(m, nil, constEphemeris(1))
	if err!=nil { t.Fatal(err) }
	want:=[]float64{0.905, 0.940, 0.938, 0.962, 0.964, 1.000, 0.961, 0.978}
	for i, c:=range cal {
		if c.Gain!=want[i] { t.Errorf("band %d gain=%g; want %g", i, c.Gain, want[i]) }
	}
}

func TestTOAErrors(t *testing.T) {
	var ke *KeyError
	m:=panMetadata()
	m.SensorAlias="XX99_PAN"
	if _, err:=ComputeTOAGainOffset(m, nil, nil); !errors.As(err, &ke) || ke.Key!="XX99_PAN" {
		t.Errorf("unknown sensor err=%v; want KeyError", err)
	}

	var pe *ParseError
	m=panMetadata()
	m.ImageBoundsWGS84="POLYGON((-105 40, -104"
	if _, err:=ComputeTOAGainOffset(m, nil, nil); !errors.As(err, &pe) {
		t.Errorf("bad footprint err=%v; want ParseError", err)
	}
	m=panMetadata()
	m.AcquisitionDate="yesterday"
	if _, err:=ComputeTOAGainOffset(m, nil, nil); !errors.As(err, &pe) {
		t.Errorf("bad date err=%v; want ParseError", err)
	}

	var be *BandCountError
	m=panMetadata()
	m.AbsoluteCalibrationFactors=[]float64{0.05678, 0.05678}
	m.EffectiveBandwidths=[]float64{0.2846, 0.2846}
	if _, err:=ComputeTOAGainOffset(m, nil, nil); !errors.As(err, &be) {
		t.Errorf("two band pan err=%v; want BandCountError", err)
	}
	m=panMetadata()
	m.EffectiveBandwidths=nil
	if _, err:=ComputeTOAGainOffset(m, nil, nil); !errors.As(err, &be) {
		t.Errorf("missing bandwidths err=%v; want BandCountError", err)
	}

	var fe *FieldError
	m=panMetadata()
	m.SunElevationDeg=nil
	if _, err:=ComputeTOAGainOffset(m, nil, nil); !errors.As(err, &fe) || fe.Field!="sunElevation" {
		t.Errorf("missing sun elevation err=%v; want FieldError", err)
	}

	if _, err:=ComputeTOAGainOffset(panMetadata(), nil, failingEphemeris{}); err==nil {
		t.Errorf("ephemeris failure not reported")
	}
}
