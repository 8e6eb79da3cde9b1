package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/o3as/ensemble-service/internal/domain"
	"github.com/o3as/ensemble-service/internal/observability"
)

// Catalog is the loaded dataset as seen by the processor.
type Catalog interface {
	domain.Source
	Select(substr string) []string
	Len() int
}

type regionFunc func(src domain.Source, req domain.Request, region domain.Region, p domain.Params, logger *slog.Logger) (domain.ReturnYearTable, error)

// Processor answers ensemble requests against a shared read-only dataset.
// It is safe for concurrent use.
type Processor struct {
	src     Catalog
	params  domain.Params
	regions []domain.Region
	logger  *slog.Logger
	metrics *observability.Metrics

	region regionFunc
}

// NewProcessor creates a Processor using the predefined regions.
func NewProcessor(src Catalog, params domain.Params, logger *slog.Logger, metrics *observability.Metrics) *Processor {
	return &Processor{
		src:     src,
		params:  params,
		regions: domain.DefaultRegions(),
		logger:  logger,
		metrics: metrics,
		region:  domain.RegionReturnYears,
	}
}

// CheckReadiness reports an error until at least one model is loaded.
func (p *Processor) CheckReadiness(_ context.Context) error {
	if p.src.Len() == 0 {
		return errors.New("no models loaded")
	}
	return nil
}

// Models lists the loaded model names containing filter, ignoring case.
func (p *Processor) Models(filter string) []string {
	models := p.src.Select(filter)
	p.metrics.Requests.WithLabelValues("models", observability.OutcomeSuccess).Inc()
	return models
}

// Process validates req and computes the output of the given kind.
func (p *Processor) Process(ctx context.Context, req domain.Request, kind domain.Kind) (domain.Result, error) {
	switch kind {
	case domain.KindRaw:
		return p.RawEnsemble(ctx, req)
	case domain.KindPlot:
		return p.PlotEnsemble(ctx, req)
	case domain.KindReturn:
		return p.ReturnYears(ctx, req)
	default:
		return domain.Result{}, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidRequest, kind)
	}
}

// RawEnsemble returns the sliced monthly curves without further processing.
func (p *Processor) RawEnsemble(ctx context.Context, req domain.Request) (domain.Result, error) {
	return p.run(ctx, req, domain.KindRaw, func(req domain.Request, res *domain.Result) error {
		t, err := domain.RawEnsemble(p.src, req, p.logger)
		if err != nil {
			return err
		}
		res.Raw = &t
		return nil
	})
}

// PlotEnsemble returns the smoothed, shifted ensemble with statistics.
func (p *Processor) PlotEnsemble(ctx context.Context, req domain.Request) (domain.Result, error) {
	return p.run(ctx, req, domain.KindPlot, func(req domain.Request, res *domain.Result) error {
		t, err := domain.PlotEnsemble(p.src, req, p.params, p.logger)
		if err != nil {
			return err
		}
		res.Plot = &t
		return nil
	})
}

// ReturnYears computes one return-year row per predefined region, in
// parallel, followed by the request's own region. Rows always come out in
// the predefined order with the user region last. Any failing region fails
// the request.
func (p *Processor) ReturnYears(ctx context.Context, req domain.Request) (domain.Result, error) {
	return p.run(ctx, req, domain.KindReturn, func(req domain.Request, res *domain.Result) error {
		tables := make([]domain.ReturnYearTable, len(p.regions)+1)

		var g errgroup.Group
		for i, reg := range p.regions {
			g.Go(func() error {
				t, err := p.computeRegion(req, reg)
				if err != nil {
					return err
				}
				tables[i] = t
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		user, err := p.computeRegion(req, req.UserRegion())
		if err != nil {
			return err
		}
		tables[len(p.regions)] = user

		t := domain.ConcatReturnYears(tables...)
		res.Return = &t
		return nil
	})
}

func (p *Processor) computeRegion(req domain.Request, reg domain.Region) (domain.ReturnYearTable, error) {
	start := time.Now()
	t, err := p.region(p.src, req, reg, p.params, p.logger)
	p.metrics.RegionDuration.WithLabelValues(reg.Name).Observe(time.Since(start).Seconds())
	if err != nil {
		return domain.ReturnYearTable{}, err
	}
	p.logger.Debug("region computed", "request_id", req.ID, "region", reg.Name)
	return t, nil
}

// run validates req, assigns an ID when missing, hands the result to compute
// and records the outcome.
func (p *Processor) run(ctx context.Context, req domain.Request, kind domain.Kind, compute func(domain.Request, *domain.Result) error) (domain.Result, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return domain.Result{}, err
	}

	if err := req.Validate(); err != nil {
		p.metrics.Requests.WithLabelValues(string(kind), observability.OutcomeRejected).Inc()
		return domain.Result{}, err
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	res := domain.NewResult(req.ID, kind)
	if err := compute(req, &res); err != nil {
		outcome := observability.OutcomeError
		if isClientError(err) {
			outcome = observability.OutcomeRejected
		}
		p.metrics.Requests.WithLabelValues(string(kind), outcome).Inc()
		p.logger.Warn("request failed", "request_id", req.ID, "kind", kind, "error", err)
		return domain.Result{}, err
	}

	elapsed := time.Since(start)
	p.metrics.Requests.WithLabelValues(string(kind), observability.OutcomeSuccess).Inc()
	p.metrics.RequestDuration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
	p.logger.Info("request completed",
		"request_id", req.ID,
		"kind", kind,
		"models", len(req.Models),
		"duration", elapsed,
	)
	return res, nil
}

func isClientError(err error) bool {
	return errors.Is(err, domain.ErrInvalidRequest) ||
		errors.Is(err, domain.ErrNoDataForModel) ||
		errors.Is(err, domain.ErrInsufficientData)
}
