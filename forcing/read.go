package forcing

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

const missing = -99. // MOPEX no-data flag

// ReadCSV reads a comma-delimited file with header
// "date,precip,pe,flow,tmax,tmin"; pe, flow and the tmax/tmin pair are
// optional. Mean temperature is taken as the average of tmax and tmin.
func ReadCSV(r io.Reader, lat float64) (*Forcing, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	hdr, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("forcing.ReadCSV header: %w", err)
	}
	col := make(map[string]int, len(hdr))
	for i, h := range hdr {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, req := range []string{"date", "precip"} {
		if _, ok := col[req]; !ok {
			return nil, fmt.Errorf("forcing.ReadCSV: missing column %q", req)
		}
	}
	ipe, hasPE := col["pe"]
	iq, hasQ := col["flow"]
	itx, hasTx := col["tmax"]
	itn, hasTn := col["tmin"]
	if hasTx != hasTn {
		return nil, fmt.Errorf("forcing.ReadCSV: tmax and tmin columns must be given together")
	}

	var b builder
	b.init(hasTx, hasPE, hasQ)
	for ln := 2; ; ln++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("forcing.ReadCSV line %d: %w", ln, err)
		}
		get := func(k string) string { return rec[col[k]] }
		pe, q, tx, tn := "", "", "", ""
		if hasPE {
			pe = rec[ipe]
		}
		if hasQ {
			q = rec[iq]
		}
		if hasTx {
			tx, tn = rec[itx], rec[itn]
		}
		if err := b.add(get("date"), get("precip"), pe, q, tx, tn); err != nil {
			return nil, fmt.Errorf("forcing.ReadCSV line %d: %w", ln, err)
		}
	}
	return b.build(lat)
}

// ReadMOPEX reads a whitespace-delimited MOPEX data file:
// "yyyymmdd precip pe flow tmax tmin" (or "yyyy mm dd ...").
func ReadMOPEX(r io.Reader, lat float64) (*Forcing, error) {
	var b builder
	b.init(true, true, true)
	sc := bufio.NewScanner(r)
	for ln := 1; sc.Scan(); ln++ {
		f := strings.Fields(sc.Text())
		switch len(f) {
		case 0:
			continue
		case 6:
		case 8:
			f = append([]string{f[0] + pad2(f[1]) + pad2(f[2])}, f[3:]...)
		default:
			return nil, fmt.Errorf("forcing.ReadMOPEX line %d: expecting 6 or 8 fields, found %d", ln, len(f))
		}
		if err := b.add(f[0], f[1], f[2], f[3], f[4], f[5]); err != nil {
			return nil, fmt.Errorf("forcing.ReadMOPEX line %d: %w", ln, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("forcing.ReadMOPEX: %w", err)
	}
	return b.build(lat)
}

// LoadFile reads a forcing file, choosing the format from its extension
// (.csv, .mpk for the msgpack cache, anything else as MOPEX text).
func LoadFile(fp string, lat float64) (*Forcing, error) {
	if strings.HasSuffix(strings.ToLower(fp), ".mpk") {
		return LoadMsgpack(fp)
	}
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if strings.HasSuffix(strings.ToLower(fp), ".csv") {
		return ReadCSV(f, lat)
	}
	return ReadMOPEX(f, lat)
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

type builder struct {
	t                  []time.Time
	p, tm, pe, q       []float64
	hasTm, hasPE, hasQ bool
}

func (b *builder) init(hasTm, hasPE, hasQ bool) {
	b.hasTm, b.hasPE, b.hasQ = hasTm, hasPE, hasQ
}

func (b *builder) add(dt, p, pe, q, tx, tn string) error {
	t, err := parseDate(dt)
	if err != nil {
		return err
	}
	pv, err := parseValue(p)
	if err != nil {
		return fmt.Errorf("precip: %w", err)
	}
	b.t = append(b.t, t)
	b.p = append(b.p, pv)
	if b.hasTm {
		txv, err := parseValue(tx)
		if err != nil {
			return fmt.Errorf("tmax: %w", err)
		}
		tnv, err := parseValue(tn)
		if err != nil {
			return fmt.Errorf("tmin: %w", err)
		}
		b.tm = append(b.tm, (txv+tnv)/2.)
	}
	if b.hasPE {
		v, err := parseValue(pe)
		if err != nil {
			return fmt.Errorf("pe: %w", err)
		}
		b.pe = append(b.pe, v)
	}
	if b.hasQ {
		v, err := parseValue(q)
		if err != nil {
			return fmt.Errorf("flow: %w", err)
		}
		b.q = append(b.q, v)
	}
	return nil
}

func (b *builder) build(lat float64) (*Forcing, error) {
	return New(b.t, b.p, b.tm, b.pe, b.q, lat)
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, l := range []string{dateFormat, "20060102", "2006/01/02"} {
		if t, err := time.Parse(l, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseValue reads a number, blanks and no-data flags are returned as NaN
func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN(), err
	}
	if v <= missing {
		return math.NaN(), nil
	}
	return v, nil
}
