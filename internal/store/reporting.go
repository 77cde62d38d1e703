package store

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderAmount is a completed order's total at the time it was created.
type OrderAmount struct {
	CreatedAt   time.Time
	TotalAmount decimal.Decimal
}

// ItemSale is one order line of a completed order.
type ItemSale struct {
	SofaName   string
	Quantity   int
	TotalPrice decimal.Decimal
}

// MaterialQuantity is one bill-of-materials line reduced to material name and quantity.
type MaterialQuantity struct {
	Name     string
	Quantity decimal.Decimal
}

type CatalogCounts struct {
	Materials  int `json:"materials"`
	SofaModels int `json:"sofa_models"`
	Orders     int `json:"orders"`
}

func (s *Store) CompletedOrderAmounts(ctx context.Context) ([]OrderAmount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT created_at, total_amount
		FROM orders
		WHERE status = ?
		ORDER BY created_at ASC
	`, string(StatusCompleted))
	if err != nil {
		return nil, fmt.Errorf("query completed orders: %w", err)
	}
	defer rows.Close()

	amounts := make([]OrderAmount, 0)
	for rows.Next() {
		var (
			a         OrderAmount
			createdAt string
		)
		if err := rows.Scan(&createdAt, &a.TotalAmount); err != nil {
			return nil, fmt.Errorf("scan completed order: %w", err)
		}
		if a.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		amounts = append(amounts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completed orders: %w", err)
	}

	return amounts, nil
}

// OrderStatusCounts counts orders per status. Statuses without orders are present with 0.
func (s *Store) OrderStatusCounts(ctx context.Context) (map[OrderStatus]int, error) {
	counts := make(map[OrderStatus]int, len(OrderStatuses))
	for _, status := range OrderStatuses {
		counts[status] = 0
	}

	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("query order status counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan order status count: %w", err)
		}
		counts[OrderStatus(status)] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order status counts: %w", err)
	}

	return counts, nil
}

func (s *Store) CompletedItemSales(ctx context.Context) ([]ItemSale, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(sm.name, ''), oi.quantity, oi.total_price
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		LEFT JOIN sofa_models sm ON sm.id = oi.sofa_id
		WHERE o.status = ?
	`, string(StatusCompleted))
	if err != nil {
		return nil, fmt.Errorf("query completed item sales: %w", err)
	}
	defer rows.Close()

	sales := make([]ItemSale, 0)
	for rows.Next() {
		var sale ItemSale
		if err := rows.Scan(&sale.SofaName, &sale.Quantity, &sale.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan item sale: %w", err)
		}
		sales = append(sales, sale)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate item sales: %w", err)
	}

	return sales, nil
}

func (s *Store) BOMUsage(ctx context.Context) ([]MaterialQuantity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.name, sm.quantity
		FROM sofa_materials sm
		JOIN materials m ON m.id = sm.material_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query bom usage: %w", err)
	}
	defer rows.Close()

	usage := make([]MaterialQuantity, 0)
	for rows.Next() {
		var mq MaterialQuantity
		if err := rows.Scan(&mq.Name, &mq.Quantity); err != nil {
			return nil, fmt.Errorf("scan bom usage: %w", err)
		}
		usage = append(usage, mq)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bom usage: %w", err)
	}

	return usage, nil
}

func (s *Store) CatalogCounts(ctx context.Context) (CatalogCounts, error) {
	var c CatalogCounts
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM materials),
			(SELECT COUNT(*) FROM sofa_models),
			(SELECT COUNT(*) FROM orders)
	`).Scan(&c.Materials, &c.SofaModels, &c.Orders)
	if err != nil {
		return CatalogCounts{}, fmt.Errorf("query catalog counts: %w", err)
	}
	return c, nil
}
