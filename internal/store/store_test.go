package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/sillones/internal/db"
	"github.com/Simplici0/sillones/internal/migrations"
)

// tickingClock returns a time source that advances one minute per call.
func tickingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Minute)
		return current
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return newTestStoreAt(t, time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC))
}

func newTestStoreAt(t *testing.T, start time.Time) *Store {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "store-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := migrations.Up(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	return New(database, WithClock(tickingClock(start)))
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return v
}

func mustCreateMaterial(t *testing.T, s *Store, name, cost string) Material {
	t.Helper()
	m, err := s.CreateMaterial(context.Background(), MaterialInput{Name: name, Type: "tela", Cost: dec(t, cost), Unit: "m"})
	if err != nil {
		t.Fatalf("create material %s: %v", name, err)
	}
	return m
}

func mustCreateSofaModel(t *testing.T, s *Store, name, profit string, lines ...BOMLineInput) SofaModel {
	t.Helper()
	m, err := s.CreateSofaModel(context.Background(), SofaModelInput{
		Name:             name,
		ProfitPercentage: dec(t, profit),
		Materials:        lines,
	})
	if err != nil {
		t.Fatalf("create sofa model %s: %v", name, err)
	}
	return m
}

func bom(t *testing.T, m Material, quantity string) BOMLineInput {
	t.Helper()
	return BOMLineInput{MaterialID: m.ID, Quantity: dec(t, quantity)}
}
