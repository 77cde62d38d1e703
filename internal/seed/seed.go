package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Simplici0/sillones/internal/pricing"
	"github.com/Simplici0/sillones/internal/store"
)

const (
	demoModelName   = "Chesterfield 3 cuerpos"
	demoModelProfit = "30"
)

type starterMaterial struct {
	Name string
	Type string
	Cost string
	Unit string
}

var starterMaterials = []starterMaterial{
	{Name: "Tela chenille", Type: "tela", Cost: "4500", Unit: "m"},
	{Name: "Cuero ecológico", Type: "tela", Cost: "6200", Unit: "m"},
	{Name: "Espuma alta densidad", Type: "relleno", Cost: "3800", Unit: "plancha"},
	{Name: "Madera de pino", Type: "estructura", Cost: "2500", Unit: "m"},
	{Name: "Resortes zig-zag", Type: "estructura", Cost: "350", Unit: "unidad"},
	{Name: "Patas de madera", Type: "accesorio", Cost: "900", Unit: "unidad"},
}

// Quantities of the demo model, keyed by material name.
var demoBOM = []struct {
	Material string
	Quantity string
}{
	{Material: "Tela chenille", Quantity: "8"},
	{Material: "Espuma alta densidad", Quantity: "3"},
	{Material: "Madera de pino", Quantity: "6"},
	{Material: "Resortes zig-zag", Quantity: "12"},
	{Material: "Patas de madera", Quantity: "4"},
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run loads the starter catalogue in an idempotent way. Rows are matched by name, so edits
// made after the first run are kept.
func Run(ctx context.Context, db *sql.DB, now time.Time) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}
	ts := store.FormatTime(now)

	for _, m := range starterMaterials {
		if err := ensureMaterial(ctx, tx, m, ts, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}
	if err := ensureDemoModel(ctx, tx, ts, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureMaterial(ctx context.Context, tx *sql.Tx, m starterMaterial, ts string, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM materials WHERE name = ? LIMIT 1)`, m.Name).Scan(&exists); err != nil {
		return fmt.Errorf("check material %s existence: %w", m.Name, err)
	}
	if exists {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO materials (id, name, type, cost, unit, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), m.Name, m.Type, m.Cost, m.Unit, ts, ts); err != nil {
		return fmt.Errorf("insert material %s: %w", m.Name, err)
	}
	stats.Inserts++
	return nil
}

// ensureDemoModel prices the demo model with the current cost of its materials.
func ensureDemoModel(ctx context.Context, tx *sql.Tx, ts string, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM sofa_models WHERE name = ? LIMIT 1)`, demoModelName).Scan(&exists); err != nil {
		return fmt.Errorf("check demo model existence: %w", err)
	}
	if exists {
		return nil
	}

	type bomRow struct {
		materialID string
		quantity   decimal.Decimal
	}
	rows := make([]bomRow, 0, len(demoBOM))
	lines := make([]pricing.MaterialLine, 0, len(demoBOM))
	for _, item := range demoBOM {
		var (
			id   string
			cost decimal.Decimal
		)
		err := tx.QueryRowContext(ctx, `SELECT id, cost FROM materials WHERE name = ? ORDER BY created_at LIMIT 1`, item.Material).Scan(&id, &cost)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("demo model material %s is missing", item.Material)
		}
		if err != nil {
			return fmt.Errorf("query demo model material %s: %w", item.Material, err)
		}

		quantity := decimal.RequireFromString(item.Quantity)
		rows = append(rows, bomRow{materialID: id, quantity: quantity})
		lines = append(lines, pricing.MaterialLine{Cost: cost, Quantity: quantity})
	}

	profit := decimal.RequireFromString(demoModelProfit)
	price := pricing.PriceModel(lines, profit)

	modelID := uuid.NewString()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO sofa_models (id, name, description, profit_percentage, base_price, final_price, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, modelID, demoModelName, "Modelo de ejemplo", profit, price.Base, price.Final, ts, ts); err != nil {
		return fmt.Errorf("insert demo model: %w", err)
	}

	for _, row := range rows {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO sofa_materials (sofa_id, material_id, quantity)
			VALUES (?, ?, ?)
		`, modelID, row.materialID, row.quantity); err != nil {
			return fmt.Errorf("insert demo model material: %w", err)
		}
	}
	stats.Inserts++
	return nil
}
