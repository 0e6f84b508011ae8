package report

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jonesrussell/support-reports/internal/domain"
	"github.com/jonesrussell/support-reports/internal/logger"
)

// Store is the query-capable data source the report core reads from.
// Every method applies the predicate set derived from the given Filter;
// Products ignores filters entirely so the product list always covers the
// whole record set.
type Store interface {
	KPIs(ctx context.Context, f Filter) (domain.KPISummary, error)
	CategoryCounts(ctx context.Context, f Filter) ([]domain.CategoryCount, error)
	ThemeCounts(ctx context.Context, f Filter, limit int) ([]domain.ThemeCount, error)
	DailyTrend(ctx context.Context, f Filter) ([]domain.TrendPoint, error)
	Products(ctx context.Context) ([]string, error)
	StreamRaw(ctx context.Context, f Filter, limit int, fn func(domain.SupportRecord) error) error
}

// Service assembles the aggregate views for the presentation layer.
type Service struct {
	store Store
	log   logger.Logger
}

// NewService creates a Service backed by the given store.
func NewService(store Store, log logger.Logger) *Service {
	return &Service{store: store, log: log}
}

// Report computes all five aggregate views for one filter state.
// The queries are independent and read-only, so they fan out concurrently;
// each applies the identical predicate set derived from f.
func (s *Service) Report(ctx context.Context, f Filter, themeLimit int) (domain.Report, error) {
	var rep domain.Report

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		kpis, err := s.store.KPIs(ctx, f)
		rep.KPIs = kpis
		return err
	})
	g.Go(func() error {
		categories, err := s.store.CategoryCounts(ctx, f)
		rep.Categories = categories
		return err
	})
	g.Go(func() error {
		themes, err := s.store.ThemeCounts(ctx, f, themeLimit)
		rep.Themes = themes
		return err
	})
	g.Go(func() error {
		trend, err := s.store.DailyTrend(ctx, f)
		rep.Trend = trend
		return err
	})
	g.Go(func() error {
		products, err := s.store.Products(ctx)
		rep.Products = products
		return err
	})

	if err := g.Wait(); err != nil {
		return domain.Report{}, err
	}

	return rep, nil
}

// Categories returns the category split for one filter state.
func (s *Service) Categories(ctx context.Context, f Filter) ([]domain.CategoryCount, error) {
	return s.store.CategoryCounts(ctx, f)
}

// Themes returns the top controllable complaint themes, capped at limit.
func (s *Service) Themes(ctx context.Context, f Filter, limit int) ([]domain.ThemeCount, error) {
	return s.store.ThemeCounts(ctx, f, limit)
}

// Trend returns the daily record counts for one filter state.
func (s *Service) Trend(ctx context.Context, f Filter) ([]domain.TrendPoint, error) {
	return s.store.DailyTrend(ctx, f)
}

// StreamRaw delivers up to limit filtered records, one at a time, in
// (query_date, client_name) order.
func (s *Service) StreamRaw(ctx context.Context, f Filter, limit int, fn func(domain.SupportRecord) error) error {
	return s.store.StreamRaw(ctx, f, limit, fn)
}
