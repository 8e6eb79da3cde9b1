package pipeline

import (
	"log/slog"

	"github.com/o3as/ensemble-service/internal/domain"
)

// SetRegionFunc replaces the per-region computation.
func (p *Processor) SetRegionFunc(f func(domain.Source, domain.Request, domain.Region, domain.Params, *slog.Logger) (domain.ReturnYearTable, error)) {
	p.region = f
}
