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
	_ "embed"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed constants.yaml
var defaultConstants []byte

// Calibration constants for one sensor and band set, one value per band
type Entry struct {
	Aliases []string  `yaml:"aliases,omitempty"`
	Gain    []float64 `yaml:"gain"`
	Offset  []float64 `yaml:"offset"`
	ESun    []float64 `yaml:"esun"`
}

// Number of bands of the entry
func (e *Entry) Bands() int { return len(e.Gain) }

// Read-only lookup table of calibration constants, keyed by uppercase sensor identifier
type Table struct {
	entries map[string]*Entry
	aliases map[string]string
}

// Loads a constants table from YAML, a mapping from sensor key to Entry
func LoadTable(r io.Reader) (*Table, error) {
	raw:=map[string]*Entry{}
	dec:=yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err:=dec.Decode(&raw); err!=nil && err!=io.EOF {
		return nil, &ParseError{What: "constants table", Err: err}
	}

	t:=&Table{entries: map[string]*Entry{}, aliases: map[string]string{}}
	for key, e:=range raw {
		key=strings.ToUpper(key)
		if e==nil { return nil, &ParseError{What: "constants table", Err: fmt.Errorf("%s: empty entry", key)} }
		if len(e.Offset)!=len(e.Gain) || len(e.ESun)!=len(e.Gain) || len(e.Gain)==0 {
			return nil, &BandCountError{Key: key, What: "gain/offset/esun", Got: []int{len(e.Gain), len(e.Offset), len(e.ESun)}}
		}
		t.entries[key]=e
	}
	for key, e:=range t.entries {
		for _, a:=range e.Aliases {
			a=strings.ToUpper(a)
			if _, ok:=t.entries[a]; ok {
				return nil, &ParseError{What: "constants table", Err: fmt.Errorf("alias %s of %s shadows an entry", a, key)}
			}
			if prev, ok:=t.aliases[a]; ok && prev!=key {
				return nil, &ParseError{What: "constants table", Err: fmt.Errorf("alias %s used by %s and %s", a, prev, key)}
			}
			t.aliases[a]=key
		}
	}
	return t, nil
}

var defaultTable     *Table
var defaultTableErr  error
var defaultTableOnce sync.Once

// Returns the built-in constants table
func DefaultTable() (*Table, error) {
	defaultTableOnce.Do(func() {
		defaultTable, defaultTableErr=LoadTable(bytes.NewReader(defaultConstants))
		defaultTableErr=errors.Wrap(defaultTableErr, "built-in constants")
	})
	return defaultTable, defaultTableErr
}

// Looks up the constants for a sensor key or alias. Case insensitive
func (t *Table) Lookup(key string) (*Entry, error) {
	k:=strings.ToUpper(key)
	if a, ok:=t.aliases[k]; ok { k=a }
	e, ok:=t.entries[k]
	if !ok { return nil, &KeyError{Key: key} }
	return e, nil
}

// Sorted primary keys of the table
func (t *Table) Keys() []string {
	keys:=make([]string, 0, len(t.entries))
	for k:=range t.entries {
		keys=append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
