package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/sillones/internal/pricing"
)

const orderColumns = `
	id,
	customer_name,
	COALESCE(customer_phone, ''),
	COALESCE(customer_email, ''),
	COALESCE(customer_location, ''),
	COALESCE(customer_address, ''),
	status,
	COALESCE(delivery_date, ''),
	payment_method,
	shipping_cost,
	total_amount,
	COALESCE(notes, ''),
	created_at,
	updated_at`

// ListOrders returns orders newest first, optionally restricted to one status.
func (s *Store) ListOrders(ctx context.Context, status OrderStatus) ([]Order, error) {
	if status != "" && !status.Valid() {
		return nil, invalid("estado de pedido desconocido: %q", status)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE (? = '' OR status = ?)
		ORDER BY created_at DESC, id DESC
	`, string(status), string(status))
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	return collectOrders(rows)
}

// RecentOrders returns the n most recently created orders without their items.
func (s *Store) RecentOrders(ctx context.Context, n int) ([]Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("query recent orders: %w", err)
	}
	return collectOrders(rows)
}

// GetOrder returns an order with its items.
func (s *Store) GetOrder(ctx context.Context, id string) (Order, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, fmt.Errorf("query order: %w", err)
	}

	if o.Items, err = s.listOrderItems(ctx, id); err != nil {
		return Order{}, err
	}
	return o, nil
}

// QuoteOrder prices order lines with the current model prices without saving anything.
func (s *Store) QuoteOrder(ctx context.Context, items []OrderItemInput, shippingCost decimal.Decimal) (pricing.OrderPrice, error) {
	if err := pricing.ValidateShipping(shippingCost); err != nil {
		return pricing.OrderPrice{}, invalid(shippingMessage, limitText, pricing.MaxFractionDigits)
	}
	if err := validateOrderItems(items); err != nil {
		return pricing.OrderPrice{}, err
	}
	price, _, err := priceOrder(ctx, s.db, items, shippingCost)
	return price, err
}

// CreateOrder freezes the unit and total price of every line, and the order total, at the
// model prices current when the order is placed.
func (s *Store) CreateOrder(ctx context.Context, in OrderInput) (Order, error) {
	if err := in.normalize(); err != nil {
		return Order{}, err
	}

	id := newID()
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		price, selected, err := priceOrder(ctx, tx, in.Items, in.ShippingCost)
		if err != nil {
			return err
		}

		now := s.timestamp()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO orders (
				id, customer_name, customer_phone, customer_email, customer_location, customer_address,
				status, delivery_date, payment_method, shipping_cost, total_amount, notes, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			id,
			in.CustomerName,
			nullable(in.CustomerPhone),
			nullable(in.CustomerEmail),
			nullable(in.CustomerLocation),
			nullable(in.CustomerAddress),
			string(in.Status),
			nullable(in.DeliveryDate),
			string(in.PaymentMethod),
			price.Shipping,
			price.Total,
			nullable(in.Notes),
			now,
			now,
		)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for i, item := range in.Items {
			selectedJSON, err := json.Marshal(selected[i])
			if err != nil {
				return fmt.Errorf("encode selected materials: %w", err)
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO order_items (id, order_id, sofa_id, quantity, unit_price, total_price, selected_materials)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, newID(), id, item.SofaID, item.Quantity, price.Lines[i].UnitPrice, price.Lines[i].TotalPrice, string(selectedJSON))
			if err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return Order{}, err
	}

	return s.GetOrder(ctx, id)
}

// UpdateOrder edits the order header. Items, shipping and total_amount are not touched.
func (s *Store) UpdateOrder(ctx context.Context, id string, d OrderDetails) (Order, error) {
	if err := d.normalize(); err != nil {
		return Order{}, err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE orders
		SET
			customer_name = ?,
			customer_phone = ?,
			customer_email = ?,
			customer_location = ?,
			customer_address = ?,
			status = ?,
			delivery_date = ?,
			payment_method = ?,
			notes = ?,
			updated_at = ?
		WHERE id = ?
	`,
		d.CustomerName,
		nullable(d.CustomerPhone),
		nullable(d.CustomerEmail),
		nullable(d.CustomerLocation),
		nullable(d.CustomerAddress),
		string(d.Status),
		nullable(d.DeliveryDate),
		string(d.PaymentMethod),
		nullable(d.Notes),
		s.timestamp(),
		id,
	)
	if err != nil {
		return Order{}, fmt.Errorf("update order: %w", err)
	}
	if err := checkAffected(result); err != nil {
		return Order{}, err
	}

	return s.GetOrder(ctx, id)
}

func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, id); err != nil {
			return fmt.Errorf("delete order items: %w", err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete order: %w", err)
		}
		return checkAffected(result)
	})
}

// priceOrder resolves every line against its model's final price and bill of materials.
// Surcharge materials must belong to the model's bill of materials; repeated ids count once.
// It also returns the de-duplicated selection per line.
func priceOrder(ctx context.Context, q queryer, items []OrderItemInput, shippingCost decimal.Decimal) (pricing.OrderPrice, [][]string, error) {
	lines := make([]pricing.OrderLine, 0, len(items))
	selections := make([][]string, 0, len(items))

	for i, item := range items {
		var finalPrice decimal.Decimal
		err := q.QueryRowContext(ctx, `SELECT final_price FROM sofa_models WHERE id = ?`, item.SofaID).Scan(&finalPrice)
		if errors.Is(err, sql.ErrNoRows) {
			return pricing.OrderPrice{}, nil, invalid("item %d: el modelo de sillón no existe", i+1)
		}
		if err != nil {
			return pricing.OrderPrice{}, nil, fmt.Errorf("query sofa model price: %w", err)
		}

		pool, err := listSofaMaterials(ctx, q, item.SofaID)
		if err != nil {
			return pricing.OrderPrice{}, nil, err
		}
		costs := make(map[string]decimal.Decimal, len(pool))
		for _, m := range pool {
			costs[m.MaterialID] = m.Cost
		}

		seen := make(map[string]bool, len(item.SelectedMaterials))
		selected := make([]string, 0, len(item.SelectedMaterials))
		surcharges := make([]decimal.Decimal, 0, len(item.SelectedMaterials))
		for _, materialID := range item.SelectedMaterials {
			materialID = strings.TrimSpace(materialID)
			if materialID == "" || seen[materialID] {
				continue
			}
			cost, ok := costs[materialID]
			if !ok {
				return pricing.OrderPrice{}, nil, invalid("item %d: el material %s no pertenece al modelo", i+1, materialID)
			}
			seen[materialID] = true
			selected = append(selected, materialID)
			surcharges = append(surcharges, cost)
		}

		lines = append(lines, pricing.OrderLine{
			ModelFinalPrice: finalPrice,
			Surcharges:      surcharges,
			Quantity:        item.Quantity,
		})
		selections = append(selections, selected)
	}

	return pricing.PriceOrder(lines, shippingCost), selections, nil
}

func (s *Store) listOrderItems(ctx context.Context, orderID string) ([]OrderItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.sofa_id, COALESCE(sm.name, ''), oi.quantity, oi.unit_price, oi.total_price, oi.selected_materials
		FROM order_items oi
		LEFT JOIN sofa_models sm ON sm.id = oi.sofa_id
		WHERE oi.order_id = ?
		ORDER BY oi.rowid ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	items := make([]OrderItem, 0)
	for rows.Next() {
		var (
			item         OrderItem
			selectedJSON string
		)
		if err := rows.Scan(&item.ID, &item.OrderID, &item.SofaID, &item.SofaName, &item.Quantity, &item.UnitPrice, &item.TotalPrice, &selectedJSON); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if err := json.Unmarshal([]byte(selectedJSON), &item.SelectedMaterials); err != nil {
			return nil, fmt.Errorf("decode selected materials: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return items, nil
}

func collectOrders(rows *sql.Rows) ([]Order, error) {
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	return orders, nil
}

func scanOrder(row rowScanner) (Order, error) {
	var (
		o                    Order
		status, payment      string
		createdAt, updatedAt string
		err                  error
	)
	err = row.Scan(
		&o.ID,
		&o.CustomerName,
		&o.CustomerPhone,
		&o.CustomerEmail,
		&o.CustomerLocation,
		&o.CustomerAddress,
		&status,
		&o.DeliveryDate,
		&payment,
		&o.ShippingCost,
		&o.TotalAmount,
		&o.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return Order{}, err
	}
	o.Status = OrderStatus(status)
	o.PaymentMethod = PaymentMethod(payment)
	if o.CreatedAt, err = parseTime(createdAt); err != nil {
		return Order{}, err
	}
	if o.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return Order{}, err
	}
	return o, nil
}
