// Command o3calc loads a data directory and prints the return years of an
// ensemble for every predefined region plus the requested band.
//
// Usage:
//
//	go run ./cmd/o3calc -data data/synth -models test-model-1,test-model-2,SBUV_GSFC_merged-SAT-ozone
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/o3as/ensemble-service/internal/dataset"
	"github.com/o3as/ensemble-service/internal/domain"
	"github.com/o3as/ensemble-service/internal/observability"
	"github.com/o3as/ensemble-service/internal/pipeline"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	def := domain.DefaultRequest()

	data := flag.String("data", "", "dataset base directory")
	variable := flag.String("variable", "tco3_zm", "file name prefix")
	models := flag.String("models", "", "comma-separated model names")
	begin := flag.Int("begin", def.Begin, "first year")
	end := flag.Int("end", def.End, "last year")
	latMin := flag.Float64("lat-min", def.LatMin, "southern latitude bound")
	latMax := flag.Float64("lat-max", def.LatMax, "northern latitude bound")
	refMeas := flag.String("ref-meas", def.RefMeas, "reference measurement dataset")
	refYear := flag.Int("ref-year", def.RefYear, "reference year")
	asJSON := flag.Bool("json", false, "print JSON instead of a table")
	logLevel := flag.String("log-level", "warn", "debug, info, warn or error")
	flag.Parse()

	if *data == "" || *models == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -data, -models")
	}

	logger := sharedobs.NewLogger(*logLevel, "text")
	ctx := context.Background()

	store, err := dataset.LoadDir(ctx, *data, *variable, logger)
	if err != nil {
		return err
	}

	req := def
	req.Models = strings.Split(*models, ",")
	req.Begin, req.End = *begin, *end
	req.LatMin, req.LatMax = *latMin, *latMax
	req.RefMeas, req.RefYear = *refMeas, *refYear

	proc := pipeline.NewProcessor(store, domain.DefaultParams(), logger, observability.NewMetrics())
	res, err := proc.ReturnYears(ctx, req)
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Return)
	}
	return printTable(os.Stdout, *res.Return)
}

func printTable(w io.Writer, t domain.ReturnYearTable) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "region\t%s\n", strings.Join(t.Columns, "\t"))
	for _, row := range t.Rows {
		cells := make([]string, len(row.Years))
		for i, y := range row.Years {
			cells[i] = "-"
			if y != nil {
				cells[i] = fmt.Sprint(*y)
			}
		}
		fmt.Fprintf(tw, "%s\t%s\n", row.Region, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}
