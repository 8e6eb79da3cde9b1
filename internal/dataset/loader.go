package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/o3as/ensemble-service/internal/domain"
)

// Extensions of the dataset files LoadDir reads.
var supportedExtensions = []string{".parquet", ".csv", ".csv.gz", ".csv.zst"}

// LoadDir loads every model below base. Each subdirectory is one model named
// after the directory; its files starting with variable and having a
// supported extension are read and merged. Directories without matching
// files are skipped.
func LoadDir(ctx context.Context, base, variable string, logger *slog.Logger) (*Store, error) {
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil, fmt.Errorf("read dataset directory: %w", err)
	}

	var (
		mu     sync.Mutex
		models = make(map[string]*domain.ModelData)
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		model := e.Name()
		dir := filepath.Join(base, model)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, files, err := loadModel(dir, variable)
			if err != nil {
				return fmt.Errorf("model %s: %w", model, err)
			}
			if data == nil {
				logger.Debug("no dataset files", "model", model, "dir", dir)
				return nil
			}

			mu.Lock()
			models[model] = data
			mu.Unlock()
			logger.Debug("model loaded", "model", model, "files", files, "times", len(data.Times), "lats", len(data.Lats))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("dataset loaded", "base", base, "variable", variable, "models", len(models))
	return NewStore(models), nil
}

// loadModel returns nil data when dir holds no matching files.
func loadModel(dir, variable string) (*domain.ModelData, int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, variable+"*"))
	if err != nil {
		return nil, 0, err
	}
	sort.Strings(paths)

	b := newGridBuilder()
	files := 0
	for _, p := range paths {
		records, ok, err := readFile(p)
		if err != nil {
			return nil, 0, err
		}
		if !ok {
			continue
		}
		files++
		for _, r := range records {
			b.add(r)
		}
	}
	if b.empty() {
		return nil, files, nil
	}
	return b.build(), files, nil
}

// readFile reports ok=false for files with an unsupported extension.
func readFile(path string) ([]Record, bool, error) {
	switch {
	case strings.HasSuffix(path, ".parquet"):
		records, err := ReadParquet(path)
		return records, true, err
	case hasAnySuffix(path, supportedExtensions[1:]):
		records, err := ReadCSV(path)
		return records, true, err
	default:
		return nil, false, nil
	}
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}
