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
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/planar"
)

// Image metadata needed for top of atmosphere calibration. Implemented by
// *CurrentMetadata and *LegacyMetadata only
type Metadata interface {
	// Key into the constants table
	Key() string
	// Absolute calibration factor and effective bandwidth, one per band
	Bands() (absCalFactors, effBandwidths []float64)
	// Geographic position the solar distance is computed for
	Observer() (Observer, error)
	AcquisitionTime() (time.Time, error)
	// Mean sun elevation over the image in degrees
	SunElevation() float64
	Validate() error

	isMetadata()
}

// An observer on the ground. Longitude and latitude in degrees, elevation in meters
type Observer struct {
	Lon       float64
	Lat       float64
	Elevation float64
}

func (o Observer) String() string {
	return fmt.Sprintf("(lon %.6f, lat %.6f, elev %.1fm)", o.Lon, o.Lat, o.Elevation)
}

// Metadata as delivered by the current image service, keyed by sensor alias
// with the footprint as WKT
type CurrentMetadata struct {
	SensorAlias                string    `json:"sensorAlias"`
	ImageBoundsWGS84           string    `json:"imageBoundsWGS84"`
	AbsoluteCalibrationFactors []float64 `json:"absoluteCalibrationFactors"`
	EffectiveBandwidths        []float64 `json:"effectiveBandwidths"`
	AcquisitionDate            string    `json:"acquisitionDate"`
	SunElevationDeg            *float64  `json:"sunElevation"`
}

func (*CurrentMetadata) isMetadata() {}

func (m *CurrentMetadata) Key() string { return m.SensorAlias }

func (m *CurrentMetadata) Bands() (absCalFactors, effBandwidths []float64) {
	return m.AbsoluteCalibrationFactors, m.EffectiveBandwidths
}

func (m *CurrentMetadata) SunElevation() float64 {
	if m.SunElevationDeg==nil { return 0 }
	return *m.SunElevationDeg
}

// Centroid of the image footprint at zero elevation
func (m *CurrentMetadata) Observer() (Observer, error) {
	c, err:=FootprintCentroid(m.ImageBoundsWGS84)
	if err!=nil { return Observer{}, err }
	return Observer{Lon: c[0], Lat: c[1]}, nil
}

func (m *CurrentMetadata) AcquisitionTime() (time.Time, error) {
	return ParseAcquisitionDate(m.AcquisitionDate)
}

func (m *CurrentMetadata) Validate() error {
	if m.SensorAlias=="" { return &FieldError{Field: "sensorAlias", Msg: "missing"} }
	if m.ImageBoundsWGS84=="" { return &FieldError{Field: "imageBoundsWGS84", Msg: "missing"} }
	if m.AcquisitionDate=="" { return &FieldError{Field: "acquisitionDate", Msg: "missing"} }
	if m.SunElevationDeg==nil { return &FieldError{Field: "sunElevation", Msg: "missing"} }
	return validateBands(m.SensorAlias, "absoluteCalibrationFactors", "effectiveBandwidths",
	                     m.AbsoluteCalibrationFactors, m.EffectiveBandwidths)
}

// Metadata in the legacy layout, keyed by satellite and band id with an explicit observer
type LegacyMetadata struct {
	SatID        string       `json:"satid"`
	BandID       string       `json:"bandid"`
	AbsCalFactor []float64    `json:"abscalfactor"`
	EffBandwidth []float64    `json:"effbandwidth"`
	LatLonHAE    []float64    `json:"latlonhae"`
	ImgDatetime  *MongoDate   `json:"img_datetime_obj_utc"`
	MeanSunEl    *FlexFloat   `json:"mean_sun_el"`
}

// A timestamp in milliseconds since the epoch, wrapped as {"$date": ms}
type MongoDate struct {
	Date int64 `json:"$date"`
}

// A float which may be encoded as a JSON number or string
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	s:=strings.Trim(string(b), `"`)
	v, err:=strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err!=nil { return err }
	*f=FlexFloat(v)
	return nil
}

func (*LegacyMetadata) isMetadata() {}

// Uppercase satid_bandid
func (m *LegacyMetadata) Key() string {
	return strings.ToUpper(m.SatID)+"_"+strings.ToUpper(m.BandID)
}

func (m *LegacyMetadata) Bands() (absCalFactors, effBandwidths []float64) {
	return m.AbsCalFactor, m.EffBandwidth
}

func (m *LegacyMetadata) SunElevation() float64 {
	if m.MeanSunEl==nil { return 0 }
	return float64(*m.MeanSunEl)
}

func (m *LegacyMetadata) Observer() (Observer, error) {
	if len(m.LatLonHAE)!=3 {
		return Observer{}, &FieldError{Field: "latlonhae", Msg: fmt.Sprintf("need 3 values, got %d", len(m.LatLonHAE))}
	}
	return Observer{Lat: m.LatLonHAE[0], Lon: m.LatLonHAE[1], Elevation: m.LatLonHAE[2]}, nil
}

func (m *LegacyMetadata) AcquisitionTime() (time.Time, error) {
	if m.ImgDatetime==nil { return time.Time{}, &FieldError{Field: "img_datetime_obj_utc", Msg: "missing"} }
	return time.UnixMilli(m.ImgDatetime.Date).UTC(), nil
}

func (m *LegacyMetadata) Validate() error {
	if m.SatID=="" { return &FieldError{Field: "satid", Msg: "missing"} }
	if m.BandID=="" { return &FieldError{Field: "bandid", Msg: "missing"} }
	if len(m.LatLonHAE)!=3 {
		return &FieldError{Field: "latlonhae", Msg: fmt.Sprintf("need 3 values, got %d", len(m.LatLonHAE))}
	}
	if m.ImgDatetime==nil { return &FieldError{Field: "img_datetime_obj_utc", Msg: "missing"} }
	if m.MeanSunEl==nil { return &FieldError{Field: "mean_sun_el", Msg: "missing"} }
	return validateBands(m.Key(), "abscalfactor", "effbandwidth", m.AbsCalFactor, m.EffBandwidth)
}

func validateBands(key, acfName, ebwName string, acf, ebw []float64) error {
	if len(acf)==0 { return &FieldError{Field: acfName, Msg: "missing"} }
	if len(ebw)!=len(acf) {
		return &BandCountError{Key: key, What: acfName+"/"+ebwName, Got: []int{len(acf), len(ebw)}}
	}
	for i, w:=range ebw {
		if w==0 { return &FieldError{Field: ebwName, Msg: fmt.Sprintf("band %d is zero", i)} }
	}
	return nil
}

// Decodes a JSON metadata document into the matching variant, and validates it.
// Documents with a sensorAlias are current, documents with a satid are legacy
func DecodeMetadata(data []byte) (Metadata, error) {
	probe:=map[string]json.RawMessage{}
	if err:=json.Unmarshal(data, &probe); err!=nil {
		return nil, &ParseError{What: "metadata", Err: err}
	}

	var m Metadata
	_, hasAlias:=probe["sensorAlias"]
	_, hasSatID:=probe["satid"]
	switch {
	case hasAlias && hasSatID:
		return nil, &FieldError{Field: "sensorAlias", Msg: "ambiguous metadata with both sensorAlias and satid"}
	case hasAlias:
		m=&CurrentMetadata{}
	case hasSatID:
		m=&LegacyMetadata{}
	default:
		return nil, &FieldError{Field: "sensorAlias", Msg: "neither sensorAlias nor satid present"}
	}

	if err:=json.NewDecoder(bytes.NewReader(data)).Decode(m); err!=nil {
		return nil, &ParseError{What: "metadata", Err: err}
	}
	if err:=m.Validate(); err!=nil { return nil, err }
	return m, nil
}

// Area weighted planar centroid of a WKT polygon footprint, as (lon, lat)
func FootprintCentroid(footprint string) (orb.Point, error) {
	g, err:=wkt.Unmarshal(footprint)
	if err!=nil { return orb.Point{}, &ParseError{What: "footprint WKT", Err: err} }
	switch g.(type) {
	case orb.Polygon, orb.MultiPolygon:
	default:
		return orb.Point{}, &ParseError{What: "footprint WKT", Err: fmt.Errorf("%s is not a polygon", footprint)}
	}
	c, area:=planar.CentroidArea(g)
	if area==0 || math.IsNaN(c[0]) || math.IsNaN(c[1]) {
		return orb.Point{}, &ParseError{What: "footprint WKT", Err: fmt.Errorf("empty footprint %s", footprint)}
	}
	return c, nil
}

var acquisitionDateLayouts=[]string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006/01/02 15:04:05.999999999",
}

// Parses an acquisition timestamp. Timestamps without zone are UTC
func ParseAcquisitionDate(s string) (time.Time, error) {
	s=strings.TrimSpace(s)
	for _, layout:=range acquisitionDateLayouts {
		if t, err:=time.Parse(layout, s); err==nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &ParseError{What: "acquisition date", Err: fmt.Errorf("unrecognized timestamp %q", s)}
}
