package main

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/sillones/internal/store"
)

type sofaModelQuoteRequest struct {
	ProfitPercentage decimal.Decimal      `json:"profit_percentage"`
	Materials        []store.BOMLineInput `json:"materials"`
}

type sofaModelQuoteResponse struct {
	BasePrice  decimal.Decimal `json:"base_price"`
	FinalPrice decimal.Decimal `json:"final_price"`
}

type orderQuoteRequest struct {
	ShippingCost decimal.Decimal        `json:"shipping_cost"`
	Items        []store.OrderItemInput `json:"items"`
}

type orderQuoteLine struct {
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type orderQuoteResponse struct {
	Items        []orderQuoteLine `json:"items"`
	Subtotal     decimal.Decimal  `json:"subtotal"`
	ShippingCost decimal.Decimal  `json:"shipping_cost"`
	TotalAmount  decimal.Decimal  `json:"total_amount"`
}

// handlePriceSofaModel previews the price of a bill of materials while the model is being edited.
func (s *server) handlePriceSofaModel(w http.ResponseWriter, r *http.Request) {
	var req sofaModelQuoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	price, err := s.store.QuoteSofaModel(r.Context(), req.ProfitPercentage, req.Materials)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sofaModelQuoteResponse{BasePrice: price.Base, FinalPrice: price.Final})
}

// handlePriceOrder previews line and order totals with the current model prices.
func (s *server) handlePriceOrder(w http.ResponseWriter, r *http.Request) {
	var req orderQuoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	price, err := s.store.QuoteOrder(r.Context(), req.Items, req.ShippingCost)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := orderQuoteResponse{
		Items:        make([]orderQuoteLine, 0, len(price.Lines)),
		Subtotal:     price.Subtotal,
		ShippingCost: price.Shipping,
		TotalAmount:  price.Total,
	}
	for _, line := range price.Lines {
		resp.Items = append(resp.Items, orderQuoteLine{UnitPrice: line.UnitPrice, TotalPrice: line.TotalPrice})
	}
	writeJSON(w, http.StatusOK, resp)
}
