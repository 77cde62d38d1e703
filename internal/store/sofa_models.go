package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/sillones/internal/pricing"
)

const sofaModelColumns = `id, name, COALESCE(description, ''), profit_percentage, base_price, final_price, created_at, updated_at`

// ListSofaModels returns every model without its bill of materials.
func (s *Store) ListSofaModels(ctx context.Context) ([]SofaModel, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+sofaModelColumns+`
		FROM sofa_models
		ORDER BY name DESC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sofa models: %w", err)
	}
	defer rows.Close()

	models := make([]SofaModel, 0)
	for rows.Next() {
		m, err := scanSofaModel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sofa model: %w", err)
		}
		models = append(models, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sofa models: %w", err)
	}

	return models, nil
}

// GetSofaModel returns a model with its bill of materials.
func (s *Store) GetSofaModel(ctx context.Context, id string) (SofaModel, error) {
	return getSofaModel(ctx, s.db, id)
}

// SofaModelMaterials returns the bill of materials of a model, which is also the pool of
// surcharge materials an order line may pick from.
func (s *Store) SofaModelMaterials(ctx context.Context, sofaID string) ([]SofaMaterial, error) {
	found, err := exists(ctx, s.db, `SELECT EXISTS(SELECT 1 FROM sofa_models WHERE id = ?)`, sofaID)
	if err != nil {
		return nil, fmt.Errorf("check sofa model: %w", err)
	}
	if !found {
		return nil, ErrNotFound
	}
	return listSofaMaterials(ctx, s.db, sofaID)
}

// QuoteSofaModel prices a bill of materials with current catalogue costs without saving it.
func (s *Store) QuoteSofaModel(ctx context.Context, profitPercentage decimal.Decimal, lines []BOMLineInput) (pricing.ModelPrice, error) {
	if err := pricing.ValidateProfit(profitPercentage); err != nil {
		return pricing.ModelPrice{}, invalid(profitMessage, limitText, pricing.MaxFractionDigits)
	}
	if err := validateBOM(lines); err != nil {
		return pricing.ModelPrice{}, err
	}
	return priceModel(ctx, s.db, profitPercentage, lines)
}

func (s *Store) CreateSofaModel(ctx context.Context, in SofaModelInput) (SofaModel, error) {
	if err := in.normalize(); err != nil {
		return SofaModel{}, err
	}

	id := newID()
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		price, err := priceModel(ctx, tx, in.ProfitPercentage, in.Materials)
		if err != nil {
			return err
		}

		now := s.timestamp()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sofa_models (id, name, description, profit_percentage, base_price, final_price, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, id, in.Name, nullable(in.Description), in.ProfitPercentage, price.Base, price.Final, now, now)
		if err != nil {
			return fmt.Errorf("insert sofa model: %w", err)
		}

		return insertBOM(ctx, tx, id, in.Materials)
	})
	if err != nil {
		return SofaModel{}, err
	}

	return s.GetSofaModel(ctx, id)
}

// UpdateSofaModel replaces the model's bill of materials and recomputes its price snapshot.
func (s *Store) UpdateSofaModel(ctx context.Context, id string, in SofaModelInput) (SofaModel, error) {
	if err := in.normalize(); err != nil {
		return SofaModel{}, err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, `SELECT EXISTS(SELECT 1 FROM sofa_models WHERE id = ?)`, id)
		if err != nil {
			return fmt.Errorf("check sofa model: %w", err)
		}
		if !found {
			return ErrNotFound
		}

		price, err := priceModel(ctx, tx, in.ProfitPercentage, in.Materials)
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE sofa_models
			SET
				name = ?,
				description = ?,
				profit_percentage = ?,
				base_price = ?,
				final_price = ?,
				updated_at = ?
			WHERE id = ?
		`, in.Name, nullable(in.Description), in.ProfitPercentage, price.Base, price.Final, s.timestamp(), id)
		if err != nil {
			return fmt.Errorf("update sofa model: %w", err)
		}
		if err := checkAffected(result); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM sofa_materials WHERE sofa_id = ?`, id); err != nil {
			return fmt.Errorf("clear sofa materials: %w", err)
		}
		return insertBOM(ctx, tx, id, in.Materials)
	})
	if err != nil {
		return SofaModel{}, err
	}

	return s.GetSofaModel(ctx, id)
}

func (s *Store) DeleteSofaModel(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		ordered, err := exists(ctx, tx, `SELECT EXISTS(SELECT 1 FROM order_items WHERE sofa_id = ?)`, id)
		if err != nil {
			return fmt.Errorf("check sofa model usage: %w", err)
		}
		if ordered {
			return fmt.Errorf("%w: el modelo tiene pedidos asociados", ErrInUse)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM sofa_materials WHERE sofa_id = ?`, id); err != nil {
			return fmt.Errorf("delete sofa materials: %w", err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM sofa_models WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete sofa model: %w", err)
		}
		return checkAffected(result)
	})
}

// priceModel loads the current cost of every referenced material and runs the pricing engine.
func priceModel(ctx context.Context, q queryer, profitPercentage decimal.Decimal, lines []BOMLineInput) (pricing.ModelPrice, error) {
	materialLines := make([]pricing.MaterialLine, 0, len(lines))
	for i, line := range lines {
		var cost decimal.Decimal
		err := q.QueryRowContext(ctx, `SELECT cost FROM materials WHERE id = ?`, line.MaterialID).Scan(&cost)
		if errors.Is(err, sql.ErrNoRows) {
			return pricing.ModelPrice{}, invalid("material %d: el material no existe", i+1)
		}
		if err != nil {
			return pricing.ModelPrice{}, fmt.Errorf("query material cost: %w", err)
		}
		materialLines = append(materialLines, pricing.MaterialLine{Cost: cost, Quantity: line.Quantity})
	}

	if err := pricing.ValidateMaterialLines(materialLines); err != nil {
		return pricing.ModelPrice{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return pricing.PriceModel(materialLines, profitPercentage), nil
}

func insertBOM(ctx context.Context, tx *sql.Tx, sofaID string, lines []BOMLineInput) error {
	for _, line := range lines {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sofa_materials (sofa_id, material_id, quantity)
			VALUES (?, ?, ?)
		`, sofaID, line.MaterialID, line.Quantity)
		if err != nil {
			return fmt.Errorf("insert sofa material: %w", err)
		}
	}
	return nil
}

func getSofaModel(ctx context.Context, q queryer, id string) (SofaModel, error) {
	row := q.QueryRowContext(ctx, `SELECT `+sofaModelColumns+` FROM sofa_models WHERE id = ?`, id)
	m, err := scanSofaModel(row)
	if errors.Is(err, sql.ErrNoRows) {
		return SofaModel{}, ErrNotFound
	}
	if err != nil {
		return SofaModel{}, fmt.Errorf("query sofa model: %w", err)
	}

	if m.Materials, err = listSofaMaterials(ctx, q, id); err != nil {
		return SofaModel{}, err
	}
	return m, nil
}

func listSofaMaterials(ctx context.Context, q queryer, sofaID string) ([]SofaMaterial, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT sm.material_id, m.name, m.type, m.unit, m.cost, sm.quantity
		FROM sofa_materials sm
		JOIN materials m ON m.id = sm.material_id
		WHERE sm.sofa_id = ?
		ORDER BY sm.id ASC
	`, sofaID)
	if err != nil {
		return nil, fmt.Errorf("query sofa materials: %w", err)
	}
	defer rows.Close()

	lines := make([]SofaMaterial, 0)
	for rows.Next() {
		var line SofaMaterial
		if err := rows.Scan(&line.MaterialID, &line.MaterialName, &line.MaterialType, &line.Unit, &line.Cost, &line.Quantity); err != nil {
			return nil, fmt.Errorf("scan sofa material: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sofa materials: %w", err)
	}

	return lines, nil
}

func scanSofaModel(row rowScanner) (SofaModel, error) {
	var (
		m                    SofaModel
		createdAt, updatedAt string
		err                  error
	)
	if err = row.Scan(&m.ID, &m.Name, &m.Description, &m.ProfitPercentage, &m.BasePrice, &m.FinalPrice, &createdAt, &updatedAt); err != nil {
		return SofaModel{}, err
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return SofaModel{}, err
	}
	if m.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return SofaModel{}, err
	}
	return m, nil
}
