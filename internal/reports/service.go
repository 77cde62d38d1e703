package reports

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Simplici0/sillones/internal/store"
)

const (
	cachePrefix       = "reports:"
	recentOrdersLimit = 5
)

// Source is the subset of store.Store the reports read from.
type Source interface {
	CompletedOrderAmounts(ctx context.Context) ([]store.OrderAmount, error)
	OrderStatusCounts(ctx context.Context) (map[store.OrderStatus]int, error)
	CompletedItemSales(ctx context.Context) ([]store.ItemSale, error)
	BOMUsage(ctx context.Context) ([]store.MaterialQuantity, error)
	CatalogCounts(ctx context.Context) (store.CatalogCounts, error)
	RecentOrders(ctx context.Context, n int) ([]store.Order, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

type Dashboard struct {
	Counts       store.CatalogCounts `json:"counts"`
	RecentOrders []store.Order       `json:"recent_orders"`
}

type Service struct {
	src   Source
	cache Cache
	ttl   time.Duration
	loc   *time.Location
	now   func() time.Time
	log   *zap.Logger

	onBuild func()

	// generation counts invalidations so a build that overlaps one is not cached.
	mu         sync.Mutex
	generation uint64
}

type Option func(*Service)

// WithLocation sets the time zone used to assign orders to months.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithBuildHook runs fn every time a report is computed instead of served from cache.
func WithBuildHook(fn func()) Option {
	return func(s *Service) { s.onBuild = fn }
}

func NewService(src Source, cache Cache, ttl time.Duration, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		src:   src,
		cache: cache,
		ttl:   ttl,
		loc:   time.UTC,
		now:   time.Now,
		log:   log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Build returns the report for year (0 for every year), from cache when available.
// Cache failures are logged and the report is computed from the store.
func (s *Service) Build(ctx context.Context, year int) (Report, error) {
	key := cacheKey(year)

	s.mu.Lock()
	generation := s.generation
	s.mu.Unlock()

	var cached Report
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("read report cache", zap.String("key", key), zap.Error(err))
	}
	if found {
		return cached, nil
	}

	report, err := s.build(ctx, year)
	if err != nil {
		return Report{}, err
	}
	if s.onBuild != nil {
		s.onBuild()
	}

	// Other instances sharing the cache can still race; the TTL bounds how long that lasts.
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != generation {
		return report, nil
	}
	if err := s.cache.Set(ctx, key, report, s.ttl); err != nil {
		s.log.Warn("write report cache", zap.String("key", key), zap.Error(err))
	}
	return report, nil
}

// Invalidate drops every cached report. Called after catalogue and order writes.
func (s *Service) Invalidate(ctx context.Context) {
	s.mu.Lock()
	s.generation++
	s.mu.Unlock()

	if err := s.cache.DeletePrefix(ctx, cachePrefix); err != nil {
		s.log.Warn("invalidate report cache", zap.Error(err))
	}
}

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	counts, err := s.src.CatalogCounts(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load catalog counts: %w", err)
	}
	recent, err := s.src.RecentOrders(ctx, recentOrdersLimit)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load recent orders: %w", err)
	}
	return Dashboard{Counts: counts, RecentOrders: recent}, nil
}

func (s *Service) build(ctx context.Context, year int) (Report, error) {
	completed, err := s.src.CompletedOrderAmounts(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("load completed orders: %w", err)
	}
	statusCounts, err := s.src.OrderStatusCounts(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("load order status counts: %w", err)
	}
	sales, err := s.src.CompletedItemSales(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("load item sales: %w", err)
	}
	usage, err := s.src.BOMUsage(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("load material usage: %w", err)
	}

	return Report{
		Year:          year,
		Summary:       BuildSummary(completed, statusCounts),
		SalesByMonth:  SalesByMonth(completed, year, s.loc),
		TopSofas:      TopSofas(sales, TopSofasLimit),
		MaterialUsage: TopMaterials(usage, TopMaterialsLimit),
		GeneratedAt:   s.now().UTC(),
	}, nil
}

func cacheKey(year int) string {
	if year == 0 {
		return cachePrefix + "all"
	}
	return cachePrefix + strconv.Itoa(year)
}
