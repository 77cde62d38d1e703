package store

import (
	"time"

	"github.com/shopspring/decimal"
)

type Material struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Cost      decimal.Decimal `json:"cost"`
	Unit      string          `json:"unit"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type MaterialInput struct {
	Name string          `json:"name"`
	Type string          `json:"type"`
	Cost decimal.Decimal `json:"cost"`
	Unit string          `json:"unit"`
}

// SofaMaterial is one bill-of-materials line of a sofa model, joined with the material's
// current catalogue data.
type SofaMaterial struct {
	MaterialID   string          `json:"material_id"`
	MaterialName string          `json:"material_name"`
	MaterialType string          `json:"material_type"`
	Unit         string          `json:"unit"`
	Cost         decimal.Decimal `json:"cost"`
	Quantity     decimal.Decimal `json:"quantity"`
}

type SofaModel struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	ProfitPercentage decimal.Decimal `json:"profit_percentage"`
	BasePrice        decimal.Decimal `json:"base_price"`
	FinalPrice       decimal.Decimal `json:"final_price"`
	Materials        []SofaMaterial  `json:"materials,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type BOMLineInput struct {
	MaterialID string          `json:"material_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

type SofaModelInput struct {
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	ProfitPercentage decimal.Decimal `json:"profit_percentage"`
	Materials        []BOMLineInput  `json:"materials"`
}

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusInProgress OrderStatus = "in_progress"
	StatusCompleted  OrderStatus = "completed"
	StatusDelivered  OrderStatus = "delivered"
	StatusStock      OrderStatus = "stock"
	StatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every status in display order.
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusInProgress,
	StatusCompleted,
	StatusDelivered,
	StatusStock,
	StatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Label is the Spanish name shown to staff.
func (s OrderStatus) Label() string {
	switch s {
	case StatusPending:
		return "Pendiente"
	case StatusInProgress:
		return "En Progreso"
	case StatusCompleted:
		return "Completado"
	case StatusDelivered:
		return "Entregado"
	case StatusStock:
		return "En Stock"
	case StatusCancelled:
		return "Cancelado"
	default:
		return string(s)
	}
}

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "efectivo"
	PaymentTransfer PaymentMethod = "transferencia"
	PaymentCard     PaymentMethod = "tarjeta"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentTransfer, PaymentCard:
		return true
	}
	return false
}

func (p PaymentMethod) Label() string {
	switch p {
	case PaymentCash:
		return "Efectivo"
	case PaymentTransfer:
		return "Transferencia"
	case PaymentCard:
		return "Tarjeta"
	default:
		return string(p)
	}
}

type OrderItem struct {
	ID                string          `json:"id"`
	OrderID           string          `json:"order_id"`
	SofaID            string          `json:"sofa_id"`
	SofaName          string          `json:"sofa_name"`
	Quantity          int             `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	TotalPrice        decimal.Decimal `json:"total_price"`
	SelectedMaterials []string        `json:"selected_materials"`
}

type Order struct {
	ID               string          `json:"id"`
	CustomerName     string          `json:"customer_name"`
	CustomerPhone    string          `json:"customer_phone,omitempty"`
	CustomerEmail    string          `json:"customer_email,omitempty"`
	CustomerLocation string          `json:"customer_location,omitempty"`
	CustomerAddress  string          `json:"customer_address,omitempty"`
	Status           OrderStatus     `json:"status"`
	DeliveryDate     string          `json:"delivery_date,omitempty"`
	PaymentMethod    PaymentMethod   `json:"payment_method"`
	ShippingCost     decimal.Decimal `json:"shipping_cost"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	Notes            string          `json:"notes,omitempty"`
	Items            []OrderItem     `json:"items,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// OrderDetails holds the editable header of an order. Items, shipping and totals are
// snapshots fixed at creation.
type OrderDetails struct {
	CustomerName     string        `json:"customer_name"`
	CustomerPhone    string        `json:"customer_phone"`
	CustomerEmail    string        `json:"customer_email"`
	CustomerLocation string        `json:"customer_location"`
	CustomerAddress  string        `json:"customer_address"`
	Status           OrderStatus   `json:"status"`
	DeliveryDate     string        `json:"delivery_date"`
	PaymentMethod    PaymentMethod `json:"payment_method"`
	Notes            string        `json:"notes"`
}

type OrderItemInput struct {
	SofaID            string   `json:"sofa_id"`
	Quantity          int      `json:"quantity"`
	SelectedMaterials []string `json:"selected_materials"`
}

type OrderInput struct {
	OrderDetails
	ShippingCost decimal.Decimal  `json:"shipping_cost"`
	Items        []OrderItemInput `json:"items"`
}
