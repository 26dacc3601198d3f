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
	"fmt"
)

// Sensor key not present in the constants table
type KeyError struct {
	Key string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("no calibration constants for sensor %q", e.Key)
}

// Per-band sequences of differing lengths
type BandCountError struct {
	Key  string
	What string
	Got  []int
}

func (e *BandCountError) Error() string {
	return fmt.Sprintf("%s: band counts of %s differ: %v", e.Key, e.What, e.Got)
}

// Malformed footprint geometry, timestamp, or metadata document
type ParseError struct {
	What string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.What, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Required metadata field absent or invalid
type FieldError struct {
	Field string
	Msg   string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("metadata field %s: %s", e.Field, e.Msg)
}
