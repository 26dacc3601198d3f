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
	"testing"
	"time"
)

func TestSunDistance(t *testing.T) {
	o:=Observer{Lon: -105, Lat: 40, Elevation: 1600}
	tests:=[]struct {
		name string
		t    time.Time
		want float64
	}{
		{"perihelion", time.Date(2016, 1,  2, 22, 49,  0, 0, time.UTC), 0.9833},
		{"aphelion",   time.Date(2016, 7,  4, 16, 24,  0, 0, time.UTC), 1.0167},
		{"late summer",time.Date(2016, 8, 26, 16, 33, 52, 0, time.UTC), 1.0104},
	}
	for _, tt:=range tests {
		geo, err:=MeeusEphemeris{}.SunDistance(o, tt.t)
		if err!=nil { t.Fatal(err) }
		if math.Abs(geo-tt.want)>2e-4 { t.Errorf("%s: distance=%.6f; want %.4f", tt.name, geo, tt.want) }

		topo, err:=MeeusEphemeris{Topocentric: true}.SunDistance(o, tt.t)
		if err!=nil { t.Fatal(err) }
		if math.Abs(topo-geo)>5e-5 { t.Errorf("%s: topocentric=%.8f differs from geocentric %.8f", tt.name, topo, geo) }
	}
}

func TestSunDistanceIgnoresZone(t *testing.T) {
	utc:=time.Date(2016, 8, 26, 16, 33, 52, 0, time.UTC)
	local:=utc.In(time.FixedZone("MDT", -6*3600))
	a, _:=MeeusEphemeris{}.SunDistance(Observer{}, utc)
	b, _:=MeeusEphemeris{}.SunDistance(Observer{}, local)
	if a!=b { t.Errorf("distance depends on zone: %g vs %g", a, b) }
}
