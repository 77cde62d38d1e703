package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/sillones/internal/pricing"
	"github.com/Simplici0/sillones/internal/store"
)

func (s *server) handleOrdersList(w http.ResponseWriter, r *http.Request) {
	status := store.OrderStatus(strings.TrimSpace(r.URL.Query().Get("status")))
	orders, err := s.store.ListOrders(r.Context(), status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *server) handleOrderGet(w http.ResponseWriter, r *http.Request) {
	o, err := s.store.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *server) handleOrdersCreate(w http.ResponseWriter, r *http.Request) {
	var in store.OrderInput
	if !decodeJSON(w, r, &in) {
		return
	}

	o, err := s.store.CreateOrder(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.metrics.OrderCreated(string(o.Status), o.TotalAmount)
	s.reports.Invalidate(r.Context())
	writeJSON(w, http.StatusCreated, o)
}

// handleOrderUpdate edits the order header. Line prices and the total stay as created.
func (s *server) handleOrderUpdate(w http.ResponseWriter, r *http.Request) {
	var in store.OrderDetails
	if !decodeJSON(w, r, &in) {
		return
	}

	o, err := s.store.UpdateOrder(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.reports.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, o)
}

func (s *server) handleOrderDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteOrder(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	s.reports.Invalidate(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// handleOrderText renders the stored order as plain text, ready to paste into a message.
func (s *server) handleOrderText(w http.ResponseWriter, r *http.Request) {
	o, err := s.store.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(orderText(o)))
}

func orderText(o store.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Pedido %s\n", o.ID)
	fmt.Fprintf(&b, "Fecha: %s\n", o.CreatedAt.Format("02/01/2006"))
	fmt.Fprintf(&b, "Estado: %s\n", o.Status.Label())
	fmt.Fprintf(&b, "Método de pago: %s\n", o.PaymentMethod.Label())
	if o.DeliveryDate != "" {
		fmt.Fprintf(&b, "Entrega: %s\n", o.DeliveryDate)
	}

	b.WriteString("\nCliente:\n")
	fmt.Fprintf(&b, "- Nombre: %s\n", o.CustomerName)
	for _, field := range []struct{ label, value string }{
		{"Teléfono", o.CustomerPhone},
		{"Email", o.CustomerEmail},
		{"Localidad", o.CustomerLocation},
		{"Dirección", o.CustomerAddress},
	} {
		if field.value != "" {
			fmt.Fprintf(&b, "- %s: %s\n", field.label, field.value)
		}
	}

	b.WriteString("\nItems:\n")
	for _, item := range o.Items {
		fmt.Fprintf(&b, "- %s x%d: %s c/u = %s\n",
			item.SofaName,
			item.Quantity,
			pricing.FormatMoney(item.UnitPrice),
			pricing.FormatMoney(item.TotalPrice),
		)
	}

	fmt.Fprintf(&b, "\nEnvío: %s\n", pricing.FormatMoney(o.ShippingCost))
	fmt.Fprintf(&b, "Total: %s\n", pricing.FormatMoney(o.TotalAmount))
	if o.Notes != "" {
		fmt.Fprintf(&b, "\nNotas: %s\n", o.Notes)
	}

	return b.String()
}
