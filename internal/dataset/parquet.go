package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
)

// ParquetRow is the on-disk schema of Parquet dataset files. Time is in Unix
// seconds.
type ParquetRow struct {
	Time  int64   `parquet:"time"`
	Lat   float64 `parquet:"lat"`
	Value float64 `parquet:"value"`
}

const parquetReadBatch = 4096

// ReadParquet reads every row of a Parquet dataset file.
func ReadParquet(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("parquet open %s: %w", path, err)
	}

	reader := parquet.NewGenericReader[ParquetRow](pf)
	defer reader.Close()

	records := make([]Record, 0, reader.NumRows())
	rows := make([]ParquetRow, parquetReadBatch)
	for {
		n, err := reader.Read(rows)
		for _, r := range rows[:n] {
			records = append(records, Record{Time: time.Unix(r.Time, 0).UTC(), Lat: r.Lat, Value: r.Value})
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parquet read %s: %w", path, err)
		}
		if n == 0 {
			break
		}
	}
	return records, nil
}

// WriteParquet writes records in the dataset Parquet schema.
func WriteParquet(w io.Writer, records []Record) error {
	rows := make([]ParquetRow, len(records))
	for i, r := range records {
		rows[i] = ParquetRow{Time: r.Time.Unix(), Lat: r.Lat, Value: r.Value}
	}

	pw := parquet.NewGenericWriter[ParquetRow](w)
	if _, err := pw.Write(rows); err != nil {
		return fmt.Errorf("parquet write: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("parquet close: %w", err)
	}
	return nil
}
