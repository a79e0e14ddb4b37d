package hymod

import (
	"bytes"
	"encoding/binary"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

func writeFloats(fp string, f []float64) error {
	f32 := func() []float32 {
		o := make([]float32, len(f))
		for i, v := range f {
			o[i] = float32(v)
		}
		return o
	}()
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, f32); err != nil {
		return fmt.Errorf("writeFloats failed: %w", err)
	}
	if err := os.WriteFile(fp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writeFloats failed: %w", err)
	}
	return nil
}

// SaveBins writes the main output series as little-endian float32
// files named <prefix>.<name>.bin
func (s *Series) SaveBins(prefix string) error {
	xq := make([]float64, s.Len())
	for j := range xq {
		for _, v := range s.Xq(j) {
			xq[j] += v
		}
	}
	for _, o := range []struct {
		name string
		v    []float64
	}{
		{"q", s.Q},
		{"qq", s.Qq},
		{"qs", s.Qs},
		{"ae", s.AE},
		{"ov", s.OV},
		{"cuz", s.Cuz},
		{"sno", s.SnowStore},
		{"xq", xq},
		{"xs", s.Xs},
	} {
		if err := writeFloats(prefix+"."+o.name+".bin", o.v); err != nil {
			return err
		}
	}
	return nil
}

// WriteCSV writes one row per simulated day
func (s *Series) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	hdr := []string{"date", "precip", "snowfall", "melt", "snowpack", "effprecip", "pe", "ae", "huz", "cuz", "ov", "xs"}
	for i := 0; i < s.Nq; i++ {
		hdr = append(hdr, "xq"+strconv.Itoa(i+1))
	}
	hdr = append(hdr, "qq", "qs", "q")
	if err := cw.Write(hdr); err != nil {
		return err
	}
	ff := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	row := make([]string, 0, len(hdr))
	for j := 0; j < s.Len(); j++ {
		row = append(row[:0], s.T[j].Format(dateFormat),
			ff(s.Precip[j]), ff(s.Snow[j]), ff(s.Melt[j]), ff(s.SnowStore[j]), ff(s.EffPrecip[j]),
			ff(s.PE[j]), ff(s.AE[j]), ff(s.Huz[j]), ff(s.Cuz[j]), ff(s.OV[j]), ff(s.Xs[j]))
		for _, v := range s.Xq(j) {
			row = append(row, ff(v))
		}
		row = append(row, ff(s.Qq[j]), ff(s.Qs[j]), ff(s.Q[j]))
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
