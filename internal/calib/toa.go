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


// Package calib computes top of atmosphere calibration factors for satellite imagery.
//
// At-sensor radiance is L = Gain * DN + Offset, with Gain = Table gain * ACF/EBW for the
// absolute calibration factor ACF and effective bandwidth EBW of each band.
// Reflectance is L * ReflectanceScale, with
// ReflectanceScale = d² * π / (ESun * cos(90° - sun elevation)) for the Sun-Earth
// distance d in astronomical units.
package calib

import (
	"fmt"
	"math"
	"github.com/pkg/errors"
)

// Calibration factors for one band
type BandCalibration struct {
	Gain             float64
	ReflectanceScale float64
	Offset           float64
}

func (b BandCalibration) String() string {
	return fmt.Sprintf("gain %.6g reflectance scale %.6g offset %.6g", b.Gain, b.ReflectanceScale, b.Offset)
}

// At-sensor radiance for a digital number
func (b BandCalibration) Radiance(dn float64) float64 {
	return b.Gain*dn + b.Offset
}

// Top of atmosphere reflectance for a digital number
func (b BandCalibration) Reflectance(dn float64) float64 {
	return b.Radiance(dn)*b.ReflectanceScale
}

// Computes gain, reflectance scale and offset for each band of the image described by
// the metadata, in the band order of the metadata. A nil table uses the built-in constants,
// a nil ephemeris the Meeus solar ephemeris
func ComputeTOAGainOffset(m Metadata, table *Table, eph Ephemeris) ([]BandCalibration, error) {
	if err:=m.Validate(); err!=nil { return nil, err }
	if table==nil {
		t, err:=DefaultTable()
		if err!=nil { return nil, err }
		table=t
	}
	if eph==nil { eph=MeeusEphemeris{} }

	key:=m.Key()
	entry, err:=table.Lookup(key)
	if err!=nil { return nil, err }
	acf, ebw:=m.Bands()
	if len(acf)!=entry.Bands() || len(ebw)!=entry.Bands() {
		return nil, &BandCountError{Key: key, What: "metadata bands/constants", Got: []int{len(acf), len(ebw), entry.Bands()}}
	}

	obs, err:=m.Observer()
	if err!=nil { return nil, err }
	t, err:=m.AcquisitionTime()
	if err!=nil { return nil, err }
	d, err:=eph.SunDistance(obs, t)
	if err!=nil { return nil, errors.Wrapf(err, "sun distance for %v at %v", obs, t) }

	thetaS:=(90-m.SunElevation())*math.Pi/180
	cosThetaS:=math.Cos(thetaS)

	res:=make([]BandCalibration, len(acf))
	for i:=range res {
		res[i]=BandCalibration{
			Gain             : (acf[i]/ebw[i])*entry.Gain[i],
			ReflectanceScale : (d*d*math.Pi)/(entry.ESun[i]*cosThetaS),
			Offset           : entry.Offset[i],
		}
	}
	return res, nil
}
