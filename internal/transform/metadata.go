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
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"github.com/pkg/errors"
)

// Rational polynomial coefficients as delivered with image metadata
type RPCMetadata struct {
	LineNumCoefs           []float64 `json:"lineNumCoefs"`
	LineDenCoefs           []float64 `json:"lineDenCoefs"`
	SampleNumCoefs         []float64 `json:"sampleNumCoefs"`
	SampleDenCoefs         []float64 `json:"sampleDenCoefs"`
	LonScale               float64   `json:"lonScale"`
	LatScale               float64   `json:"latScale"`
	HeightScale            float64   `json:"heightScale"`
	LineScale              float64   `json:"lineScale"`
	SampleScale            float64   `json:"sampleScale"`
	LonOffset              float64   `json:"lonOffset"`
	LatOffset              float64   `json:"latOffset"`
	HeightOffset           float64   `json:"heightOffset"`
	LineOffset             float64   `json:"lineOffset"`
	SampleOffset           float64   `json:"sampleOffset"`
	SpatialReferenceSystem string    `json:"spatialReferenceSystem"`
}

// Checks coefficient counts and scales
func (m *RPCMetadata) Validate() error {
	for _, c:=range []struct{ name string; coefs []float64 }{
		{"lineNumCoefs",   m.LineNumCoefs},
		{"lineDenCoefs",   m.LineDenCoefs},
		{"sampleNumCoefs", m.SampleNumCoefs},
		{"sampleDenCoefs", m.SampleDenCoefs},
	} {
		if len(c.coefs)!=NumTerms {
			return &ShapeError{Op: "rpc metadata "+c.name, Rows: 1, Cols: len(c.coefs), Want: fmt.Sprintf("[%d]", NumTerms)}
		}
	}
	for _, s:=range []struct{ name string; v float64 }{
		{"lonScale", m.LonScale}, {"latScale", m.LatScale}, {"heightScale", m.HeightScale},
		{"lineScale", m.LineScale}, {"sampleScale", m.SampleScale},
	} {
		if s.v==0 { return errors.Wrapf(ErrZeroScale, "rpc metadata %s", s.name) }
	}
	return nil
}

// An affine geotransform as delivered with image metadata
type Georeference struct {
	TranslateX                 float64 `json:"translateX"`
	ScaleX                     float64 `json:"scaleX"`
	ShearX                     float64 `json:"shearX"`
	TranslateY                 float64 `json:"translateY"`
	ShearY                     float64 `json:"shearY"`
	ScaleY                     float64 `json:"scaleY"`
	SpatialReferenceSystemCode string  `json:"spatialReferenceSystemCode"`
}

// Builds the transform for an image. RPCs take precedence over the geotransform
func FromMetadata(rpc *RPCMetadata, geo *Georeference) (Transform, error) {
	if rpc!=nil {
		t, err:=FromCoefficients(rpc)
		if err!=nil { return nil, err }
		return t, nil
	}
	if geo!=nil {
		return FromGeoreference(geo), nil
	}
	return nil, newValueError("transform from metadata", "neither RPCs nor georeference given")
}

// Parses RPCs from a DigitalGlobe image support data XML file (isd/RPB/IMAGE)
func ReadRPCMetadataXML(r io.Reader) (*RPCMetadata, error) {
	d:=struct {
		XMLName xml.Name `xml:"isd"`
		RPB     struct {
			SatID string `xml:"SATID"`
			Image struct {
				LineOffset   float64 `xml:"LINEOFFSET"`
				SampOffset   float64 `xml:"SAMPOFFSET"`
				LatOffset    float64 `xml:"LATOFFSET"`
				LongOffset   float64 `xml:"LONGOFFSET"`
				HeightOffset float64 `xml:"HEIGHTOFFSET"`
				LineScale    float64 `xml:"LINESCALE"`
				SampScale    float64 `xml:"SAMPSCALE"`
				LatScale     float64 `xml:"LATSCALE"`
				LongScale    float64 `xml:"LONGSCALE"`
				HeightScale  float64 `xml:"HEIGHTSCALE"`
				LineNumCoef  string  `xml:"LINENUMCOEFList>LINENUMCOEF"`
				LineDenCoef  string  `xml:"LINEDENCOEFList>LINEDENCOEF"`
				SampNumCoef  string  `xml:"SAMPNUMCOEFList>SAMPNUMCOEF"`
				SampDenCoef  string  `xml:"SAMPDENCOEFList>SAMPDENCOEF"`
			} `xml:"IMAGE"`
		} `xml:"RPB"`
	}{}
	if err:=xml.NewDecoder(r).Decode(&d); err!=nil {
		return nil, errors.Wrap(err, "failed parsing RPCs")
	}

	img:=d.RPB.Image
	m:=&RPCMetadata{
		LonScale: img.LongScale, LatScale: img.LatScale, HeightScale: img.HeightScale,
		LineScale: img.LineScale, SampleScale: img.SampScale,
		LonOffset: img.LongOffset, LatOffset: img.LatOffset, HeightOffset: img.HeightOffset,
		LineOffset: img.LineOffset, SampleOffset: img.SampOffset,
		SpatialReferenceSystem: "EPSG:4326",
	}
	var err error
	if m.LineNumCoefs,   err=parseFloats(img.LineNumCoef); err!=nil { return nil, errors.Wrap(err, "LINENUMCOEF") }
	if m.LineDenCoefs,   err=parseFloats(img.LineDenCoef); err!=nil { return nil, errors.Wrap(err, "LINEDENCOEF") }
	if m.SampleNumCoefs, err=parseFloats(img.SampNumCoef); err!=nil { return nil, errors.Wrap(err, "SAMPNUMCOEF") }
	if m.SampleDenCoefs, err=parseFloats(img.SampDenCoef); err!=nil { return nil, errors.Wrap(err, "SAMPDENCOEF") }
	if err:=m.Validate(); err!=nil { return nil, err }
	return m, nil
}

// Parses a whitespace separated list of floats
func parseFloats(s string) (fs []float64, err error) {
	for _, val:=range strings.Fields(s) {
		v, err:=strconv.ParseFloat(val, 64)
		if err!=nil { return nil, err }
		fs=append(fs, v)
	}
	return fs, nil
}
