package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const materialColumns = `id, name, type, cost, unit, created_at, updated_at`

func (s *Store) ListMaterials(ctx context.Context) ([]Material, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+materialColumns+`
		FROM materials
		ORDER BY name ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query materials: %w", err)
	}
	defer rows.Close()

	materials := make([]Material, 0)
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		materials = append(materials, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate materials: %w", err)
	}

	return materials, nil
}

func (s *Store) GetMaterial(ctx context.Context, id string) (Material, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+materialColumns+` FROM materials WHERE id = ?`, id)
	m, err := scanMaterial(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Material{}, ErrNotFound
	}
	if err != nil {
		return Material{}, fmt.Errorf("query material: %w", err)
	}
	return m, nil
}

func (s *Store) CreateMaterial(ctx context.Context, in MaterialInput) (Material, error) {
	if err := in.normalize(); err != nil {
		return Material{}, err
	}

	id := newID()
	now := s.timestamp()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO materials (id, name, type, cost, unit, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, in.Name, in.Type, in.Cost, in.Unit, now, now)
	if err != nil {
		return Material{}, fmt.Errorf("insert material: %w", err)
	}

	return s.GetMaterial(ctx, id)
}

// UpdateMaterial changes a catalogue entry. Sofa model prices are snapshots and keep the cost
// they were computed with until the model itself is saved again.
func (s *Store) UpdateMaterial(ctx context.Context, id string, in MaterialInput) (Material, error) {
	if err := in.normalize(); err != nil {
		return Material{}, err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE materials
		SET
			name = ?,
			type = ?,
			cost = ?,
			unit = ?,
			updated_at = ?
		WHERE id = ?
	`, in.Name, in.Type, in.Cost, in.Unit, s.timestamp(), id)
	if err != nil {
		return Material{}, fmt.Errorf("update material: %w", err)
	}
	if err := checkAffected(result); err != nil {
		return Material{}, err
	}

	return s.GetMaterial(ctx, id)
}

func (s *Store) DeleteMaterial(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		used, err := exists(ctx, tx, `SELECT EXISTS(SELECT 1 FROM sofa_materials WHERE material_id = ?)`, id)
		if err != nil {
			return fmt.Errorf("check material usage: %w", err)
		}
		if used {
			return fmt.Errorf("%w: el material forma parte de uno o más modelos", ErrInUse)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM materials WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete material: %w", err)
		}
		return checkAffected(result)
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMaterial(row rowScanner) (Material, error) {
	var (
		m                    Material
		createdAt, updatedAt string
		err                  error
	)
	if err = row.Scan(&m.ID, &m.Name, &m.Type, &m.Cost, &m.Unit, &createdAt, &updatedAt); err != nil {
		return Material{}, err
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return Material{}, err
	}
	if m.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return Material{}, err
	}
	return m, nil
}
