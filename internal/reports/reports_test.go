package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Simplici0/sillones/internal/store"
)

func d(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return v
}

func at(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func TestBuildSummary(t *testing.T) {
	completed := []store.OrderAmount{
		{CreatedAt: at(2024, time.January, 5), TotalAmount: d(t, "795")},
		{CreatedAt: at(2024, time.February, 5), TotalAmount: d(t, "0.1")},
		{CreatedAt: at(2024, time.February, 6), TotalAmount: d(t, "0.2")},
	}
	counts := map[store.OrderStatus]int{
		store.StatusPending:   2,
		store.StatusCompleted: 3,
		store.StatusCancelled: 1,
	}

	s := BuildSummary(completed, counts)
	if !s.TotalSales.Equal(d(t, "795.3")) {
		t.Fatalf("total sales = %s, want 795.3", s.TotalSales)
	}
	if s.TotalOrders != 6 || s.CompletedOrders != 3 || s.PendingOrders != 2 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	// 3/6 = 50%, 2/6 = 33.3% -> 33
	if s.CompletedPercent != 50 || s.PendingPercent != 33 {
		t.Fatalf("unexpected percentages: %+v", s)
	}
}

func TestBuildSummaryWithoutOrders(t *testing.T) {
	s := BuildSummary(nil, map[store.OrderStatus]int{})
	if !s.TotalSales.IsZero() || s.TotalOrders != 0 || s.CompletedPercent != 0 || s.PendingPercent != 0 {
		t.Fatalf("expected zero summary, got %+v", s)
	}
}

func TestPercentRoundsHalfUp(t *testing.T) {
	cases := []struct{ part, total, want int }{
		{1, 8, 13}, // 12.5
		{2, 3, 67},
		{1, 3, 33},
		{0, 5, 0},
		{5, 5, 100},
	}
	for _, tc := range cases {
		if got := percent(tc.part, tc.total); got != tc.want {
			t.Fatalf("percent(%d, %d) = %d, want %d", tc.part, tc.total, got, tc.want)
		}
	}
}

func TestSalesByMonth(t *testing.T) {
	completed := []store.OrderAmount{
		{CreatedAt: at(2024, time.January, 5), TotalAmount: d(t, "100")},
		{CreatedAt: at(2024, time.January, 20), TotalAmount: d(t, "50.5")},
		{CreatedAt: at(2024, time.December, 31), TotalAmount: d(t, "10")},
		{CreatedAt: at(2023, time.January, 2), TotalAmount: d(t, "1000")},
	}

	all := SalesByMonth(completed, 0, nil)
	if len(all) != 12 || all[0].Month != "Ene" || all[11].Month != "Dic" {
		t.Fatalf("expected twelve buckets Ene..Dic, got %+v", all)
	}
	if !all[0].Total.Equal(d(t, "1150.5")) || !all[11].Total.Equal(d(t, "10")) || !all[5].Total.IsZero() {
		t.Fatalf("unexpected totals: %+v", all)
	}

	only2024 := SalesByMonth(completed, 2024, nil)
	if !only2024[0].Total.Equal(d(t, "150.5")) {
		t.Fatalf("year filter not applied: %+v", only2024[0])
	}
}

func TestSalesByMonthUsesLocation(t *testing.T) {
	buenosAires := time.FixedZone("ART", -3*60*60)
	completed := []store.OrderAmount{
		// 01:00 UTC on Feb 1st is still Jan 31st in Buenos Aires.
		{CreatedAt: time.Date(2024, time.February, 1, 1, 0, 0, 0, time.UTC), TotalAmount: d(t, "10")},
	}

	got := SalesByMonth(completed, 2024, buenosAires)
	if !got[0].Total.Equal(d(t, "10")) || !got[1].Total.IsZero() {
		t.Fatalf("expected sale in Ene, got %+v", got[:2])
	}
}

func TestTopSofas(t *testing.T) {
	sales := []store.ItemSale{
		{SofaName: "Chester", Quantity: 2, TotalPrice: d(t, "400")},
		{SofaName: "Oslo", Quantity: 5, TotalPrice: d(t, "500")},
		{SofaName: "Chester", Quantity: 4, TotalPrice: d(t, "800")},
		{SofaName: "Berlín", Quantity: 5, TotalPrice: d(t, "250")},
	}
	for i := 0; i < 12; i++ {
		sales = append(sales, store.ItemSale{SofaName: fmt.Sprintf("Modelo %02d", i), Quantity: 1, TotalPrice: d(t, "1")})
	}

	top := TopSofas(sales, TopSofasLimit)
	if len(top) != TopSofasLimit {
		t.Fatalf("expected %d entries, got %d", TopSofasLimit, len(top))
	}
	if top[0].Name != "Chester" || top[0].Quantity != 6 || !top[0].TotalSales.Equal(d(t, "1200")) {
		t.Fatalf("unexpected leader: %+v", top[0])
	}
	if top[1].Name != "Berlín" || top[2].Name != "Oslo" {
		t.Fatalf("expected ties ordered by name, got %s, %s", top[1].Name, top[2].Name)
	}
}

func TestTopMaterials(t *testing.T) {
	usage := []store.MaterialQuantity{
		{Name: "Tela", Quantity: d(t, "6.5")},
		{Name: "Espuma", Quantity: d(t, "2")},
		{Name: "Tela", Quantity: d(t, "3.25")},
		{Name: " ", Quantity: d(t, "100")},
	}
	for i := 0; i < 10; i++ {
		usage = append(usage, store.MaterialQuantity{Name: fmt.Sprintf("Insumo %02d", i), Quantity: d(t, "0.5")})
	}

	top := TopMaterials(usage, TopMaterialsLimit)
	if len(top) != TopMaterialsLimit {
		t.Fatalf("expected %d entries, got %d", TopMaterialsLimit, len(top))
	}
	if top[0].Name != "Tela" || !top[0].Quantity.Equal(d(t, "9.75")) {
		t.Fatalf("unexpected leader: %+v", top[0])
	}
	if top[1].Name != "Espuma" {
		t.Fatalf("unexpected second: %+v", top[1])
	}
}

type fakeSource struct {
	calls  int
	fail   error
	onLoad func()
}

func (f *fakeSource) CompletedOrderAmounts(context.Context) ([]store.OrderAmount, error) {
	f.calls++
	if f.onLoad != nil {
		f.onLoad()
	}
	if f.fail != nil {
		return nil, f.fail
	}
	return []store.OrderAmount{
		{CreatedAt: at(2024, time.March, 3), TotalAmount: decimal.RequireFromString("795")},
	}, nil
}

func (f *fakeSource) OrderStatusCounts(context.Context) (map[store.OrderStatus]int, error) {
	return map[store.OrderStatus]int{store.StatusCompleted: 1, store.StatusPending: 1}, nil
}

func (f *fakeSource) CompletedItemSales(context.Context) ([]store.ItemSale, error) {
	return []store.ItemSale{{SofaName: "Chester", Quantity: 3, TotalPrice: decimal.RequireFromString("645")}}, nil
}

func (f *fakeSource) BOMUsage(context.Context) ([]store.MaterialQuantity, error) {
	return []store.MaterialQuantity{{Name: "Tela", Quantity: decimal.RequireFromString("2")}}, nil
}

func (f *fakeSource) CatalogCounts(context.Context) (store.CatalogCounts, error) {
	return store.CatalogCounts{Materials: 4, SofaModels: 2, Orders: 2}, nil
}

func (f *fakeSource) RecentOrders(_ context.Context, n int) ([]store.Order, error) {
	orders := []store.Order{{ID: "b"}, {ID: "a"}}
	if len(orders) > n {
		orders = orders[:n]
	}
	return orders, nil
}

// memoryCache keeps JSON payloads so cached reports round-trip like they would through redis.
type memoryCache struct {
	items   map[string][]byte
	getErr  error
	deletes int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	raw, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.items[key] = raw
	return nil
}

func (c *memoryCache) DeletePrefix(_ context.Context, prefix string) error {
	c.deletes++
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
		}
	}
	return nil
}

func newTestService(src Source, c Cache, opts ...Option) *Service {
	fixed := time.Date(2024, time.April, 1, 10, 0, 0, 0, time.UTC)
	opts = append([]Option{WithClock(func() time.Time { return fixed })}, opts...)
	return NewService(src, c, time.Minute, zap.NewNop(), opts...)
}

func TestServiceBuildCachesPerYear(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{}
	c := newMemoryCache()
	builds := 0
	svc := newTestService(src, c, WithBuildHook(func() { builds++ }))

	first, err := svc.Build(ctx, 2024)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !first.Summary.TotalSales.Equal(decimal.RequireFromString("795")) || !first.SalesByMonth[2].Total.Equal(decimal.RequireFromString("795")) {
		t.Fatalf("unexpected report: %+v", first)
	}

	second, err := svc.Build(ctx, 2024)
	if err != nil {
		t.Fatalf("build cached: %v", err)
	}
	if src.calls != 1 {
		t.Fatalf("expected cached report, source called %d times", src.calls)
	}
	if !second.Summary.TotalSales.Equal(first.Summary.TotalSales) || !second.GeneratedAt.Equal(first.GeneratedAt) {
		t.Fatalf("cached report differs: %+v vs %+v", second, first)
	}

	if _, err := svc.Build(ctx, 0); err != nil {
		t.Fatalf("build all years: %v", err)
	}
	if src.calls != 2 {
		t.Fatalf("expected separate entry per year, source called %d times", src.calls)
	}

	svc.Invalidate(ctx)
	if len(c.items) != 0 || c.deletes != 1 {
		t.Fatalf("expected cache to be empty after invalidate, got %d keys", len(c.items))
	}
	if _, err := svc.Build(ctx, 2024); err != nil {
		t.Fatalf("build after invalidate: %v", err)
	}
	if src.calls != 3 || builds != 3 {
		t.Fatalf("expected rebuild after invalidate, source called %d times, %d builds", src.calls, builds)
	}
}

func TestServiceBuildSkipsCacheWhenInvalidatedMidway(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{}
	c := newMemoryCache()
	svc := newTestService(src, c)

	src.onLoad = func() {
		src.onLoad = nil
		svc.Invalidate(ctx)
	}

	if _, err := svc.Build(ctx, 0); err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(c.items) != 0 {
		t.Fatalf("report built across an invalidation must not be cached, got %d keys", len(c.items))
	}

	if _, err := svc.Build(ctx, 0); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if src.calls != 2 || len(c.items) != 1 {
		t.Fatalf("expected a fresh cached report, source called %d times, %d keys", src.calls, len(c.items))
	}
}

func TestServiceBuildFallsBackWhenCacheFails(t *testing.T) {
	c := newMemoryCache()
	c.getErr = errors.New("connection refused")
	svc := newTestService(&fakeSource{}, c)

	report, err := svc.Build(context.Background(), 0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(report.TopSofas) != 1 || report.TopSofas[0].Name != "Chester" {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestServiceBuildPropagatesStoreErrors(t *testing.T) {
	svc := newTestService(&fakeSource{fail: errors.New("disk I/O error")}, newMemoryCache())

	if _, err := svc.Build(context.Background(), 0); err == nil {
		t.Fatalf("expected error")
	}
}

func TestServiceDashboard(t *testing.T) {
	svc := newTestService(&fakeSource{}, newMemoryCache())

	dash, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dash.Counts.Materials != 4 || len(dash.RecentOrders) != 2 || dash.RecentOrders[0].ID != "b" {
		t.Fatalf("unexpected dashboard: %+v", dash)
	}
}
