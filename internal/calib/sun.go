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
	"math"
	"time"
	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/solar"
)

// Astronomical unit in meters
const auMeters = 149597870700.0

// WGS84 equatorial radius and flattening
const (
	wgs84A = 6378137.0
	wgs84F = 1/298.257223563
)

// Source of the Sun-Earth distance at a given time and place
type Ephemeris interface {
	// Distance between the Sun and the observer in astronomical units
	SunDistance(o Observer, t time.Time) (float64, error)
}

// Low precision solar ephemeris after Meeus, Astronomical Algorithms, chapter 25.
// Returns the geocentric distance unless Topocentric is set, in which case the
// observer's displacement from the geocenter is taken into account
type MeeusEphemeris struct {
	Topocentric bool
}

func (e MeeusEphemeris) SunDistance(o Observer, t time.Time) (float64, error) {
	jde:=julian.TimeToJD(t.UTC())
	T:=base.J2000Century(jde)
	r:=solar.Radius(T)
	if !e.Topocentric { return r, nil }

	// geocentric equatorial position of the sun, in AU
	lon, _:=solar.True(T)
	eps:=meanObliquity(T)
	sx:=r*math.Cos(lon.Rad())
	sy:=r*math.Sin(lon.Rad())*math.Cos(eps)
	sz:=r*math.Sin(lon.Rad())*math.Sin(eps)

	ox, oy, oz:=observerEquatorial(o, jde)
	dx, dy, dz:=sx-ox, sy-oy, sz-oz
	return math.Sqrt(dx*dx + dy*dy + dz*dz), nil
}

// Mean obliquity of the ecliptic in radians
func meanObliquity(T float64) float64 {
	deg:=23.0 + 26.0/60 + 21.448/3600 - (46.8150*T + 0.00059*T*T - 0.001813*T*T*T)/3600
	return deg*math.Pi/180
}

// Observer position in the geocentric equatorial frame of date, in AU
func observerEquatorial(o Observer, jd float64) (x, y, z float64) {
	lat:=o.Lat*math.Pi/180
	e2:=wgs84F*(2-wgs84F)
	sinLat:=math.Sin(lat)
	n:=wgs84A/math.Sqrt(1-e2*sinLat*sinLat)
	rho :=(n + o.Elevation)*math.Cos(lat)
	zGeo:=(n*(1-e2) + o.Elevation)*sinLat

	// local sidereal angle from Greenwich mean sidereal time
	d:=jd-2451545.0
	gmstDeg:=math.Mod(280.46061837 + 360.98564736629*d, 360)
	theta:=(gmstDeg + o.Lon)*math.Pi/180

	return rho*math.Cos(theta)/auMeters, rho*math.Sin(theta)/auMeters, zGeo/auMeters
}
