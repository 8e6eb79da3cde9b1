// Package dataset loads zonal-mean model grids into an immutable in-memory
// store shared by all requests.
package dataset

import (
	"sort"
	"strings"

	"github.com/o3as/ensemble-service/internal/domain"
)

// Store maps model names to their grids. It is never mutated after
// construction, so concurrent readers need no locking.
type Store struct {
	models map[string]*domain.ModelData
	names  []string
}

// NewStore takes ownership of models. Callers must not modify the grids
// afterwards.
func NewStore(models map[string]*domain.ModelData) *Store {
	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	sort.Strings(names)
	return &Store{models: models, names: names}
}

// Model implements domain.Source.
func (s *Store) Model(name string) (*domain.ModelData, bool) {
	d, ok := s.models[name]
	return d, ok
}

// Models returns all model names, sorted.
func (s *Store) Models() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Select returns the sorted model names containing substr, ignoring case.
// An empty substr selects every model.
func (s *Store) Select(substr string) []string {
	if substr == "" {
		return s.Models()
	}
	pattern := strings.ToLower(substr)
	var out []string
	for _, name := range s.names {
		if strings.Contains(strings.ToLower(name), pattern) {
			out = append(out, name)
		}
	}
	return out
}

// Len returns the number of loaded models.
func (s *Store) Len() int {
	return len(s.names)
}
