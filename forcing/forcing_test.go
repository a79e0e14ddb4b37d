package forcing

import (
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const csvData = `date,precip,pe,flow,tmax,tmin
2001-01-01,0.0,0.5,1.2,4.0,-2.0
2001-01-02,12.5,,1.4,6.0,0.0
2001-01-03,3.0,0.7,-99.0,10.0,2.0
2001-01-04,0.0,0.9,1.1,12.0,4.0
`

const mopexData = `19480101   0.0000   0.1000   0.2500  -3.8000 -12.5000
19480102   5.2000   0.1000   0.2600   1.2000  -5.0000
1948  1  3   0.1000   0.1100 -99.0000   2.0000  -1.0000
`

func TestReadCSV(t *testing.T) {
	frc, err := ReadCSV(strings.NewReader(csvData), 44.5)
	if err != nil {
		t.Fatal(err)
	}
	if frc.Len() != 4 {
		t.Fatalf("Len = %d, want 4", frc.Len())
	}
	r, err := frc.Day(1)
	if err != nil {
		t.Fatal(err)
	}
	if r.Precip != 12.5 || r.Temp != 3. || r.HasPE || r.Flow != 1.4 {
		t.Errorf("day 1 = %+v", r)
	}
	r, _ = frc.Day(2)
	if !math.IsNaN(r.Flow) || !r.HasPE || r.PE != .7 {
		t.Errorf("day 2 = %+v", r)
	}
	if frc.Latitude() != 44.5 {
		t.Errorf("latitude %v", frc.Latitude())
	}
}

func TestReadCSVOptionalColumns(t *testing.T) {
	frc, err := ReadCSV(strings.NewReader("date,precip,tmax,tmin\n2001-01-01,1,2,4\n2001-01-02,0,2,2\n"), 0.)
	if err != nil {
		t.Fatal(err)
	}
	r, _ := frc.Day(0)
	if r.HasPE || !math.IsNaN(r.Flow) || r.Temp != 3. {
		t.Errorf("day 0 = %+v", r)
	}
	if _, err := ReadCSV(strings.NewReader("date,flow\n2001-01-01,1\n"), 0.); err == nil {
		t.Error("expected missing column error")
	}
	if _, err := ReadCSV(strings.NewReader("date,precip,tmax\n2001-01-01,1,3\n"), 0.); err == nil {
		t.Error("expected error for tmax without tmin")
	}

	frc, err = ReadCSV(strings.NewReader("date,precip,pe\n2001-01-01,1,.5\n2001-01-02,0,.6\n"), 0.)
	if err != nil {
		t.Fatal(err)
	}
	r, _ = frc.Day(1)
	if frc.Tm != nil || r.HasTemp || !math.IsNaN(r.Temp) || r.PE != .6 {
		t.Errorf("day 1 without temperature = %+v", r)
	}
	if s := frc.Summarize(); !math.IsNaN(s.Tavg) {
		t.Errorf("mean temperature of no temperatures = %v", s.Tavg)
	}
}

func TestNewOptionalSeries(t *testing.T) {
	dts := []time.Time{time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2001, 1, 2, 0, 0, 0, 0, time.UTC)}
	frc, err := New(dts, []float64{1., 2.}, nil, []float64{3., 4.}, nil, 45.)
	if err != nil {
		t.Fatalf("precipitation and PE only: %v", err)
	}
	r, _ := frc.Day(0)
	if r.HasTemp || !r.HasPE || r.PE != 3. {
		t.Errorf("day 0 = %+v", r)
	}
	if _, err := New(dts, []float64{1., 2.}, []float64{0.}, nil, nil, 45.); err == nil {
		t.Error("expected error for a short temperature series")
	}
	if _, err := New(dts, []float64{1., math.NaN()}, nil, nil, nil, 45.); err == nil {
		t.Error("expected error for missing precipitation")
	}
}

func TestReadMOPEX(t *testing.T) {
	frc, err := ReadMOPEX(strings.NewReader(mopexData), 40.)
	if err != nil {
		t.Fatal(err)
	}
	if frc.Len() != 3 {
		t.Fatalf("Len = %d", frc.Len())
	}
	if !frc.T[2].Equal(time.Date(1948, 1, 3, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("third date %v", frc.T[2])
	}
	r, _ := frc.Day(0)
	if math.Abs(r.Temp-(-8.15)) > 1e-12 || r.PE != .1 {
		t.Errorf("day 0 = %+v", r)
	}
	if !math.IsNaN(frc.Q[2]) {
		t.Errorf("no-data flow read as %v", frc.Q[2])
	}
}

func TestDayRange(t *testing.T) {
	frc, _ := ReadCSV(strings.NewReader(csvData), 44.5)
	for _, i := range []int{-1, 4, 100} {
		_, err := frc.Day(i)
		if !errors.Is(err, ErrIndexRange) {
			t.Errorf("Day(%d): expected ErrIndexRange, got %v", i, err)
		}
	}
}

func TestIndexSubset(t *testing.T) {
	frc, _ := ReadCSV(strings.NewReader(csvData), 44.5)
	i, err := frc.Index(time.Date(2001, 1, 3, 12, 0, 0, 0, time.UTC))
	if err != nil || i != 2 {
		t.Errorf("Index = %d, %v", i, err)
	}
	sub, err := frc.Subset(time.Date(2001, 1, 2, 0, 0, 0, 0, time.UTC), time.Date(2001, 1, 3, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if sub.Len() != 2 || sub.P[0] != 12.5 {
		t.Errorf("subset = %+v", sub)
	}
	sub.P[0] = -1.
	if frc.P[1] != 12.5 {
		t.Error("subset shares memory with parent")
	}
	if _, err := frc.Subset(frc.T[0], frc.T[0].AddDate(1, 0, 0)); !errors.Is(err, ErrIndexRange) {
		t.Errorf("expected ErrIndexRange, got %v", err)
	}
}

func TestNonSequential(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("date,precip,tmax,tmin\n2001-01-01,1,2,4\n2001-01-03,0,2,2\n"), 0.)
	if err == nil {
		t.Error("expected error for a gap in dates")
	}
}

func TestMsgpackCache(t *testing.T) {
	frc, _ := ReadCSV(strings.NewReader(csvData), 44.5)
	fp := filepath.Join(t.TempDir(), "frc.mpk")
	if err := frc.SaveMsgpack(fp); err != nil {
		t.Fatal(err)
	}
	got, err := LoadFile(fp, 0.)
	if err != nil {
		t.Fatal(err)
	}
	if got.Len() != frc.Len() || got.Lat != 44.5 || got.P[1] != 12.5 || !math.IsNaN(got.PE[1]) {
		t.Errorf("cache differs: %+v", got)
	}
}

func TestSummarize(t *testing.T) {
	frc, _ := ReadCSV(strings.NewReader(csvData), 44.5)
	s := frc.Summarize()
	if s.Ndays != 4 || s.Nmissq != 1 {
		t.Errorf("summary %+v", s)
	}
	if want := 15.5 * 365.24 / 4.; math.Abs(s.P-want) > 1e-9 {
		t.Errorf("P = %v, want %v", s.P, want)
	}
}
