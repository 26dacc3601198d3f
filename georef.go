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


// Package georef maps between pixel and geographic coordinates of satellite images
// using RPC or affine georeferencing, and computes top of atmosphere calibration
// factors from image metadata.
package georef

import (
	"io"
	nl "github.com/mlnoga/georef/internal"
	"github.com/mlnoga/georef/internal/calib"
	"github.com/mlnoga/georef/internal/par"
	"github.com/mlnoga/georef/internal/transform"
)

type (
	Transform       = transform.Transform
	RPC             = transform.RPC
	Affine          = transform.Affine
	RPCMetadata     = transform.RPCMetadata
	Georeference    = transform.Georeference
	Window          = transform.Window
	ShapeError      = transform.ShapeError
	ValueError      = transform.ValueError

	Metadata        = calib.Metadata
	CurrentMetadata = calib.CurrentMetadata
	LegacyMetadata  = calib.LegacyMetadata
	Observer        = calib.Observer
	Table           = calib.Table
	Ephemeris       = calib.Ephemeris
	BandCalibration = calib.BandCalibration
	KeyError        = calib.KeyError
	BandCountError  = calib.BandCountError
	ParseError      = calib.ParseError
	FieldError      = calib.FieldError

	Context         = par.Context
)

var (
	ErrSingular  = transform.ErrSingular
	ErrZeroScale = transform.ErrZeroScale
)

// Creates an RPC transform from RPC metadata
func NewRPCFromCoefficients(m *RPCMetadata) (*RPC, error) {
	return transform.FromCoefficients(m)
}

// Creates an affine transform from a GDAL style geotransform
func NewAffineFromGeoreference(g *Georeference) *Affine {
	return transform.FromGeoreference(g)
}

// Builds the transform for an image, preferring RPCs over the geotransform
func NewTransform(rpc *RPCMetadata, geo *Georeference) (Transform, error) {
	return transform.FromMetadata(rpc, geo)
}

// Smallest pixel window of the transform's image covering a geographic bounding box
func WindowFromBounds(t Transform, minLon, minLat, maxLon, maxLat float64) (Window, error) {
	return transform.WindowFromBounds(t, minLon, minLat, maxLon, maxLat)
}

// Parses RPCs from a DigitalGlobe image support data XML file
func ReadRPCMetadataXML(r io.Reader) (*RPCMetadata, error) {
	return transform.ReadRPCMetadataXML(r)
}

// Decodes current or legacy calibration metadata from JSON
func DecodeMetadata(data []byte) (Metadata, error) {
	return calib.DecodeMetadata(data)
}

// Computes per-band gain, reflectance scale and offset with the built-in constants
// and solar ephemeris
func ComputeTOAGainOffset(m Metadata) ([]BandCalibration, error) {
	return calib.ComputeTOAGainOffset(m, nil, nil)
}

// Loads a calibration constants table from YAML
func LoadTable(r io.Reader) (*Table, error) {
	return calib.LoadTable(r)
}

// Creates an execution context for batch transforms, logging to log. A nil log
// reports to the library log
func NewContext(log io.Writer) *Context {
	return par.NewContext(log)
}

// Sends library log output to w, nil silences it
func SetLogOutput(w io.Writer) {
	nl.SetLogOutput(w)
}

// Additionally writes library log output to the given file, replacing any earlier log file
func LogAlsoToFile(fileName string) error {
	return nl.LogAlsoToFile(fileName)
}

// Flushes the log file to disk
func LogSync() {
	nl.LogSync()
}
