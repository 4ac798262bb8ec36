// Package fetcher loads OHLCV bar series from local data files. The
// engine places no constraint on where bars come from beyond time
// ordering; this package covers the common case of CSV exports,
// including GBK-encoded downloads from Chinese brokers/TDX.
package fetcher

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"tasim/backtest"
)

// KLine is one OHLCV row as loaded from a data file.
type KLine struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

type CSVOptions struct {
	GBK bool // decode a GBK-encoded export
}

// LoadCSV reads time,open,high,low,close,volume rows from path. A
// header row is tolerated; rows are returned sorted by time ascending.
func LoadCSV(path string, opts CSVOptions) ([]KLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if opts.GBK {
		r = transform.NewReader(f, simplifiedchinese.GBK.NewDecoder())
	}
	kl, err := ReadCSV(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return kl, nil
}

// ReadCSV parses kline rows from r. Only the first row may be a
// non-data header; any later malformed row is an error rather than a
// silent skip.
func ReadCSV(r io.Reader) ([]KLine, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	var out []KLine
	for idx, rec := range records {
		if len(rec) < 6 {
			return nil, fmt.Errorf("row %d: want 6 columns (time,open,high,low,close,volume), got %d", idx+1, len(rec))
		}
		t, err := ParseTime(strings.TrimSpace(rec[0]))
		if err != nil {
			if idx == 0 {
				continue // header row
			}
			return nil, fmt.Errorf("row %d: %w", idx+1, err)
		}
		var vals [5]float64
		for j := 0; j < 5; j++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[j+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", idx+1, j+2, err)
			}
			vals[j] = v
		}
		out = append(out, KLine{
			Time:   t,
			Open:   vals[0],
			High:   vals[1],
			Low:    vals[2],
			Close:  vals[3],
			Volume: vals[4],
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}

var timeLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
}

// ParseTime accepts the timestamp formats seen in broker exports, plus
// unix seconds.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

// Bars converts loaded rows into engine bars.
func Bars(kl []KLine) []backtest.Bar {
	bars := make([]backtest.Bar, 0, len(kl))
	for _, k := range kl {
		bars = append(bars, backtest.Bar{
			Time:   k.Time,
			Open:   k.Open,
			High:   k.High,
			Low:    k.Low,
			Close:  k.Close,
			Volume: k.Volume,
		})
	}
	return bars
}
