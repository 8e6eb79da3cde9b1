// Command gensynth writes a synthetic zonal-mean dataset in the directory
// layout read by the service: one subdirectory per model holding a single
// data file. Models follow a noisy annual cycle; the reference dataset is
// constant at 0.5 so every model shifts onto it exactly.
//
// Usage:
//
//	go run ./cmd/gensynth -out data/synth -format csv.zst -seed 42
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/o3as/ensemble-service/internal/dataset"
	"github.com/o3as/ensemble-service/internal/domain"
	"github.com/o3as/ensemble-service/internal/synth"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output base directory")
	models := flag.String("models", "test-model-1,test-model-2,test-model-3", "comma-separated model names")
	refMeas := flag.String("ref-meas", domain.DefaultRefMeas, "name of the constant reference dataset")
	variable := flag.String("variable", "tco3_zm", "file name prefix")
	format := flag.String("format", "parquet", "parquet, csv, csv.gz or csv.zst")
	begin := flag.Int("begin", 1970, "first year")
	end := flag.Int("end", 2100, "last year")
	seed := flag.Uint64("seed", 42, "random seed")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *begin > *end {
		return fmt.Errorf("begin %d is after end %d", *begin, *end)
	}

	write, err := writerFor(*format)
	if err != nil {
		return err
	}

	data := synth.Dataset(splitList(*models), *refMeas, *begin, *end, *seed)
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		records := toRecords(data[name])
		var buf bytes.Buffer
		if err := write(&buf, records); err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}

		dir := filepath.Join(*out, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		path := filepath.Join(dir, *variable+"."+*format)
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return err
		}
		log.Printf("%s: %d records -> %s", name, len(records), path)
	}
	return nil
}

func writerFor(format string) (func(*bytes.Buffer, []dataset.Record) error, error) {
	switch format {
	case "parquet":
		return func(b *bytes.Buffer, r []dataset.Record) error { return dataset.WriteParquet(b, r) }, nil
	case "csv":
		return csvWriter(dataset.CompressionNone), nil
	case "csv.gz":
		return csvWriter(dataset.CompressionGzip), nil
	case "csv.zst":
		return csvWriter(dataset.CompressionZstd), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func csvWriter(c dataset.Compression) func(*bytes.Buffer, []dataset.Record) error {
	return func(b *bytes.Buffer, r []dataset.Record) error { return dataset.WriteCSV(b, r, c) }
}

func toRecords(m *domain.ModelData) []dataset.Record {
	out := make([]dataset.Record, 0, len(m.Times)*len(m.Lats))
	for i, ts := range m.Times {
		for j, lat := range m.Lats {
			out = append(out, dataset.Record{Time: ts, Lat: lat, Value: m.Values[i][j]})
		}
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
