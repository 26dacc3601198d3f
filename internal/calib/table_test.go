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
	"strings"
	"testing"
)

func TestDefaultTable(t *testing.T) {
	tab, err:=DefaultTable()
	if err!=nil { t.Fatal(err) }

	keys:=tab.Keys()
	if len(keys)!=10 || keys[0]!="GE01_MULTI" { t.Errorf("keys=%v", keys) }

	for _, k:=range []string{"WV02_P", "wv02_p", "WV02_PAN", "Wv02_Pan"} {
		e, err:=tab.Lookup(k)
		if err!=nil { t.Errorf("%s: %v", k, err); continue }
		if e.Bands()!=1 || e.Gain[0]!=0.942 || e.Offset[0]!=-2.704 || e.ESun[0]!=1571.36 {
			t.Errorf("%s=%+v", k, e)
		}
	}

	multi, err:=tab.Lookup("WV03_VNIR")
	if err!=nil { t.Fatal(err) }
	if multi.Bands()!=8 || multi.Gain[0]!=0.905 || multi.Gain[7]!=0.978 {
		t.Errorf("WV03_VNIR=%+v", multi)
	}

	var ke *KeyError
	if _, err:=tab.Lookup("LS08_P"); !errors.As(err, &ke) { t.Errorf("err=%v; want KeyError", err) }
}

func TestLoadTable(t *testing.T) {
	tab, err:=LoadTable(strings.NewReader(`
x1_p:
  aliases: [x1_pan]
  gain: [1.5]
  offset: [-1]
  esun: [1500]
`))
	if err!=nil { t.Fatal(err) }
	e, err:=tab.Lookup("X1_PAN")
	if err!=nil { t.Fatal(err) }
	if e.Gain[0]!=1.5 { t.Errorf("gain=%v", e.Gain) }

	empty, err:=LoadTable(strings.NewReader(""))
	if err!=nil || len(empty.Keys())!=0 { t.Errorf("empty table=%v, %v", empty, err) }
}

func TestLoadTableErrors(t *testing.T) {
	var be *BandCountError
	if _, err:=LoadTable(strings.NewReader("A: {gain: [1, 2], offset: [0], esun: [1, 2]}")); !errors.As(err, &be) || be.Key!="A" {
		t.Errorf("ragged entry err=%v; want BandCountError", err)
	}

	var pe *ParseError
	for name, doc:=range map[string]string{
		"unknown field" : "A: {gain: [1], offset: [0], esun: [1], bias: [2]}",
		"not yaml"      : "A: [",
		"alias shadows" : "A: {gain: [1], offset: [0], esun: [1]}\nB: {aliases: [a], gain: [1], offset: [0], esun: [1]}",
		"alias twice"   : "A: {aliases: [c], gain: [1], offset: [0], esun: [1]}\nB: {aliases: [C], gain: [1], offset: [0], esun: [1]}",
		"empty entry"   : "A:\n",
	} {
		if _, err:=LoadTable(strings.NewReader(doc)); !errors.As(err, &pe) {
			t.Errorf("%s: err=%v; want ParseError", name, err)
		}
	}
}
