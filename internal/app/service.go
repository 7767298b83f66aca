// Package service implements the rankings query pipeline served by the HTTP API.
package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/okian/unirank/internal/adapters/repository"
	"github.com/okian/unirank/internal/domain/scoring"
	"github.com/okian/unirank/internal/domain/university"
	"github.com/okian/unirank/internal/domain/validation"
	"github.com/okian/unirank/pkg/logger"
	"github.com/okian/unirank/pkg/metrics"
)

const tracerName = "unirank/app"

// ErrNoStore is returned when a Service is used without a store.
var ErrNoStore = errors.New("no store configured")

// Service answers rankings queries against a document store.
type Service struct {
	store  repository.Store
	logger logger.Logger
	tracer trace.Tracer
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the document store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Without WithLogger it logs through the global
// logger, which must be initialized.
func New(opts ...Option) *Service {
	s := &Service{tracer: otel.Tracer(tracerName)}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// Rankings validates q, fetches the requested page and total count, and
// attaches composite scores when weights are given. Validation failures are
// returned as *validation.Error before the store is touched; store failures
// as *FetchError.
func (s *Service) Rankings(ctx context.Context, q RankingsQuery) (*RankingsPage, error) {
	ctx, span := s.tracer.Start(ctx, "Service.Rankings")
	defer span.End()

	plan, err := parseRankingsQuery(q)
	if err != nil {
		kind := validation.KindName(err)
		metrics.RecordValidationFailure(kind)
		span.SetAttributes(attribute.String("validation.kind", kind))
		s.logger.Debug(ctx, "rankings query rejected", logger.String("kind", kind), logger.Error(err))
		return nil, err
	}
	if s.store == nil {
		return nil, &FetchError{Op: "find", Err: ErrNoStore}
	}

	filter := plan.storeFilter()
	query := repository.NewQuery(filter).
		Sort(plan.sortField(), repository.Ascending).
		Skip(plan.page.Skip()).
		Limit(plan.page.Limit)
	span.SetAttributes(
		attribute.String("rankings.sort_field", query.SortField),
		attribute.Int("rankings.page", plan.page.Page),
		attribute.Int("rankings.limit", plan.page.Limit),
		attribute.Bool("rankings.weighted", plan.weights != nil),
	)

	var (
		records []university.Record
		total   int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.find(gctx, query)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error(ctx, "failed to fetch rankings", logger.Error(err))
		return nil, err
	}

	if plan.weights != nil {
		metrics.RecordWeightedRequest()
		for i, rec := range records {
			records[i] = scoring.WithComposite(rec, plan.weights)
		}
		if plan.resortByComposite() {
			scoring.SortByComposite(records)
		}
	}
	if records == nil {
		records = []university.Record{}
	}

	metrics.RecordRankingsQuery(plan.sortKey())
	metrics.ObservePageSize(plan.page.Limit)
	metrics.ObserveResultTotal(total)
	s.logger.Debug(ctx, "rankings page served",
		logger.String("sort", plan.sortKey()),
		logger.Int("page", plan.page.Page),
		logger.Int("returned", len(records)),
		logger.Int("total", total),
	)

	return &RankingsPage{
		Data:       records,
		Pagination: NewPagination(total, plan.page.Page, plan.page.Limit),
		Filters:    plan.filters(),
	}, nil
}

// Universities returns every record in store order.
func (s *Service) Universities(ctx context.Context) ([]university.Record, error) {
	ctx, span := s.tracer.Start(ctx, "Service.Universities")
	defer span.End()

	if s.store == nil {
		return nil, &FetchError{Op: "find", Err: ErrNoStore}
	}
	records, err := s.find(ctx, repository.NewQuery(repository.Filter{}))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error(ctx, "failed to fetch universities", logger.Error(err))
		return nil, err
	}
	if records == nil {
		records = []university.Record{}
	}
	return records, nil
}

// Ping reports whether the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	if s.store == nil {
		return ErrNoStore
	}
	start := time.Now()
	err := s.store.Ping(ctx)
	observeStore("ping", start, err)
	return err
}

func (s *Service) find(ctx context.Context, q repository.Query) ([]university.Record, error) {
	start := time.Now()
	records, err := s.store.Find(ctx, q)
	observeStore("find", start, err)
	if err != nil {
		return nil, &FetchError{Op: "find", Err: err}
	}
	return records, nil
}

func (s *Service) count(ctx context.Context, f repository.Filter) (int, error) {
	start := time.Now()
	n, err := s.store.Count(ctx, f)
	observeStore("count", start, err)
	if err != nil {
		return 0, &FetchError{Op: "count", Err: err}
	}
	return n, nil
}

func observeStore(op string, start time.Time, err error) {
	metrics.ObserveStoreOperation(op, float64(time.Since(start).Microseconds())/1000)
	if err != nil {
		metrics.RecordStoreError(op)
	}
}

// storeFilter ANDs one predicate per accepted filter.
func (s rankingsPlan) storeFilter() repository.Filter {
	f := repository.Filter{}
	if s.year != "" {
		f = f.Exists(university.RankField(s.year))
	}
	if s.region != "" {
		f = f.MatchFold(university.FieldRegion, s.region)
	}
	if s.scoreField != "" {
		f = f.Exists(s.scoreField)
	}
	return f
}
