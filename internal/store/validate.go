package store

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/sillones/internal/pricing"
)

const (
	dateLayout = "2006-01-02"

	profitMessage   = "el porcentaje de ganancia debe ser mayor o igual a 0 y menor a %s, con hasta %d decimales"
	shippingMessage = "el costo de envío debe ser mayor o igual a 0 y menor a %s, con hasta %d decimales"
)

var limitText = pricing.FormatNumber(decimal.New(1, pricing.MaxIntegerDigits))

func (in *MaterialInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Type = strings.TrimSpace(in.Type)
	in.Unit = strings.TrimSpace(in.Unit)

	if in.Name == "" {
		return invalid("el nombre es requerido")
	}
	if err := pricing.ValidateCost(in.Cost); err != nil {
		return invalid("el costo debe ser mayor o igual a 0 y menor a %s, con hasta %d decimales", limitText, pricing.MaxFractionDigits)
	}
	return nil
}

func (in *SofaModelInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)

	if in.Name == "" {
		return invalid("el nombre es requerido")
	}
	if err := pricing.ValidateProfit(in.ProfitPercentage); err != nil {
		return invalid(profitMessage, limitText, pricing.MaxFractionDigits)
	}
	return validateBOM(in.Materials)
}

func validateBOM(lines []BOMLineInput) error {
	seen := make(map[string]bool, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line.MaterialID) == "" {
			return invalid("material %d: selecciona un material", i+1)
		}
		if err := pricing.ValidateMaterialQuantity(line.Quantity); err != nil {
			return invalid("material %d: la cantidad debe ser mayor a 0 y menor a %s, con hasta %d decimales", i+1, limitText, pricing.MaxFractionDigits)
		}
		if seen[line.MaterialID] {
			return invalid("material %d: el material está repetido", i+1)
		}
		seen[line.MaterialID] = true
	}
	return nil
}

func (d *OrderDetails) normalize() error {
	d.CustomerName = strings.TrimSpace(d.CustomerName)
	d.CustomerPhone = strings.TrimSpace(d.CustomerPhone)
	d.CustomerEmail = strings.TrimSpace(d.CustomerEmail)
	d.CustomerLocation = strings.TrimSpace(d.CustomerLocation)
	d.CustomerAddress = strings.TrimSpace(d.CustomerAddress)
	d.DeliveryDate = strings.TrimSpace(d.DeliveryDate)
	d.Notes = strings.TrimSpace(d.Notes)

	if d.Status == "" {
		d.Status = StatusPending
	}
	if d.PaymentMethod == "" {
		d.PaymentMethod = PaymentCash
	}

	if utf8.RuneCountInString(d.CustomerName) < 2 {
		return invalid("el nombre del cliente debe tener al menos 2 caracteres")
	}
	if d.CustomerEmail != "" {
		if _, err := mail.ParseAddress(d.CustomerEmail); err != nil {
			return invalid("ingresa un correo electrónico válido")
		}
	}
	if !d.Status.Valid() {
		return invalid("estado de pedido desconocido: %q", d.Status)
	}
	if !d.PaymentMethod.Valid() {
		return invalid("método de pago desconocido: %q", d.PaymentMethod)
	}
	if d.DeliveryDate != "" {
		if _, err := time.Parse(dateLayout, d.DeliveryDate); err != nil {
			return invalid("la fecha de entrega debe tener el formato AAAA-MM-DD")
		}
	}
	return nil
}

func (in *OrderInput) normalize() error {
	if err := in.OrderDetails.normalize(); err != nil {
		return err
	}
	if err := pricing.ValidateShipping(in.ShippingCost); err != nil {
		return invalid(shippingMessage, limitText, pricing.MaxFractionDigits)
	}
	return validateOrderItems(in.Items)
}

func validateOrderItems(items []OrderItemInput) error {
	if len(items) == 0 {
		return invalid("debes agregar al menos un modelo de sillón al pedido")
	}
	for i, item := range items {
		if strings.TrimSpace(item.SofaID) == "" {
			return invalid("item %d: selecciona un modelo de sillón", i+1)
		}
		if err := pricing.ValidateQuantity(item.Quantity); err != nil {
			return invalid("item %d: la cantidad debe ser un entero entre 1 y %d", i+1, pricing.MaxItemQuantity)
		}
	}
	return nil
}
