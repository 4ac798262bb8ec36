package fetcher

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bars.csv")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeCSV(t, `time,open,high,low,close,volume
2024-01-03,102,104,101,103,1200
2024-01-01,100,101,99,100.5,1000
2024-01-02,100.5,103,100,102,1100
`)

	kl, err := LoadCSV(path, CSVOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(kl) != 3 {
		t.Fatalf("rows: got %d, want 3", len(kl))
	}
	// rows come back sorted by time regardless of file order
	for i := 1; i < len(kl); i++ {
		if !kl[i-1].Time.Before(kl[i].Time) {
			t.Fatalf("rows not sorted: %v then %v", kl[i-1].Time, kl[i].Time)
		}
	}
	first := kl[0]
	if first.Open != 100 || first.High != 101 || first.Low != 99 || first.Close != 100.5 || first.Volume != 1000 {
		t.Fatalf("first row: %+v", first)
	}

	bars := Bars(kl)
	if len(bars) != 3 || bars[2].Close != 103 {
		t.Fatalf("bars: %+v", bars)
	}
}

func TestLoadCSVGBK(t *testing.T) {
	// a TDX-style export: GBK-encoded Chinese header over plain rows
	plain := "日期,开盘,最高,最低,收盘,成交量\n2024-01-01,10,11,9,10.5,500\n"
	encoded, _, err := transform.String(simplifiedchinese.GBK.NewEncoder(), plain)
	if err != nil {
		t.Fatal(err)
	}
	path := writeCSV(t, encoded)

	kl, err := LoadCSV(path, CSVOptions{GBK: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(kl) != 1 || kl[0].Close != 10.5 {
		t.Fatalf("gbk rows: %+v", kl)
	}
}

func TestReadCSVMalformedRow(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("2024-01-01,100,101,99,100.5,1000\nnot-a-date,1,2,3,4,5\n"))
	if err == nil {
		t.Fatal("malformed non-header row must error")
	}

	_, err = ReadCSV(strings.NewReader("2024-01-01,100,101\n"))
	if err == nil {
		t.Fatal("short row must error")
	}

	_, err = ReadCSV(strings.NewReader("2024-01-01,100,101,99,oops,1000\n"))
	if err == nil {
		t.Fatal("non-numeric field must error")
	}
}

func TestParseTimeFormats(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local)},
		{"2024/03/05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local)},
		{"2024-03-05 14:30:00", time.Date(2024, 3, 5, 14, 30, 0, 0, time.Local)},
		{"2024-03-05 14:30", time.Date(2024, 3, 5, 14, 30, 0, 0, time.Local)},
		{"1709648400", time.Unix(1709648400, 0)},
	}
	for _, tc := range cases {
		got, err := ParseTime(tc.in)
		if err != nil {
			t.Fatalf("%q: %v", tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("%q: got %v, want %v", tc.in, got, tc.want)
		}
	}

	if _, err := ParseTime("yesterday"); err == nil {
		t.Fatal("unrecognized time must error")
	}
}
