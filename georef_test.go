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


package georef

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFacade(t *testing.T) {
	tr, err:=NewTransform(nil, &Georeference{TranslateX: -105, ScaleX: 0.5, TranslateY: 40, ScaleY: -0.25})
	if err!=nil { t.Fatal(err) }
	w, err:=WindowFromBounds(tr, -100, 35, -90, 38)
	if err!=nil { t.Fatal(err) }
	x, y, err:=w.Transform(tr).ReversePoint(-95, 36, 0)
	if err!=nil { t.Fatal(err) }
	if x!=10 || y!=8 { t.Errorf("window pixel=(%d,%d); want (10,8)", x, y) }

	m, err:=DecodeMetadata([]byte(`{"satid": "WV02", "bandid": "P", "abscalfactor": [0.05678], "effbandwidth": [0.2846],
		"latlonhae": [40, -105, 1600], "img_datetime_obj_utc": {"$date": 1472229232000}, "mean_sun_el": 61.5}`))
	if err!=nil { t.Fatal(err) }
	cal, err:=ComputeTOAGainOffset(m)
	if err!=nil { t.Fatal(err) }
	if math.Abs(cal[0].ReflectanceScale-0.0023226)>1e-7 { t.Errorf("calibration=%v", cal[0]) }

	if _, err:=NewRPCFromCoefficients(&RPCMetadata{}); err==nil { t.Errorf("empty RPCs accepted") }
	var ve *ValueError
	if _, err:=NewTransform(nil, nil); !errors.As(err, &ve) { t.Errorf("err=%v; want ValueError", err) }
}

func TestBatchLogFile(t *testing.T) {
	fileName:=filepath.Join(t.TempDir(), "batch.log")
	if err:=LogAlsoToFile(fileName); err!=nil { t.Fatal(err) }

	c:=NewContext(nil)
	c.MaxThreads, c.ChunkMin=2, 64
	a:=NewAffineFromGeoreference(&Georeference{ScaleX: 1, ScaleY: 1}).WithContext(c)
	x:=make([]float64, 1000)
	if _, _, err:=a.Forward(x, x); err!=nil { t.Fatal(err) }
	LogSync()

	data, err:=os.ReadFile(fileName)
	if err!=nil { t.Fatal(err) }
	if !strings.Contains(string(data), "affine forward: 1000 elements in 8 chunks") {
		t.Errorf("log file=%q", data)
	}
}
