package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
)

// Compression of CSV dataset files, chosen by file extension.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZstd
)

var csvHeader = []string{"time", "lat", "value"}

// ReadCSV reads a CSV dataset file with a time,lat,value header. Times are
// RFC 3339 or YYYY-MM-DD; an empty value is NaN.
func ReadCSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	switch compressionFor(path) {
	case CompressionGzip:
		gz, err := pgzip.NewReaderN(f, 256*1024, runtime.NumCPU())
		if err != nil {
			return nil, fmt.Errorf("gzip %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	case CompressionZstd:
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("zstd %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}

	records, err := decodeCSV(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

func decodeCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range csvHeader {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec, err := parseCSVRow(row, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseCSVRow(row []string, cols map[string]int) (Record, error) {
	ts, err := parseTime(strings.TrimSpace(row[cols["time"]]))
	if err != nil {
		return Record{}, err
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(row[cols["lat"]]), 64)
	if err != nil {
		return Record{}, fmt.Errorf("parse lat: %w", err)
	}

	value := math.NaN()
	if s := strings.TrimSpace(row[cols["value"]]); s != "" {
		value, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return Record{}, fmt.Errorf("parse value: %w", err)
		}
	}
	return Record{Time: ts, Lat: lat, Value: value}, nil
}

func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC(), nil
	}
	ts, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return ts, nil
}

// WriteCSV writes records with a time,lat,value header, compressed as c.
func WriteCSV(w io.Writer, records []Record, c Compression) error {
	var (
		out     io.Writer = w
		closeFn func() error
	)
	switch c {
	case CompressionGzip:
		gz := pgzip.NewWriter(w)
		out, closeFn = gz, gz.Close
	case CompressionZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("zstd writer: %w", err)
		}
		out, closeFn = zw, zw.Close
	}

	cw := csv.NewWriter(out)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		value := ""
		if !math.IsNaN(r.Value) {
			value = strconv.FormatFloat(r.Value, 'g', -1, 64)
		}
		row := []string{r.Time.UTC().Format(time.RFC3339), strconv.FormatFloat(r.Lat, 'g', -1, 64), value}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv flush: %w", err)
	}
	if closeFn != nil {
		return closeFn()
	}
	return nil
}

func compressionFor(path string) Compression {
	switch {
	case strings.HasSuffix(path, ".gz"):
		return CompressionGzip
	case strings.HasSuffix(path, ".zst"):
		return CompressionZstd
	default:
		return CompressionNone
	}
}
