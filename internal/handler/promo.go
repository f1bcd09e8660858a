package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/verbstore/backoffice/internal/domain/promo"
)

type promoRequest struct {
	Code            string          `json:"code"`
	Value           decimal.Decimal `json:"value"`
	ValuePercentage decimal.Decimal `json:"value_percentage"`
	Status          string          `json:"status"`
}

type promoResponse struct {
	ID              string    `json:"id"`
	Code            string    `json:"code"`
	Value           float64   `json:"value"`
	ValuePercentage float64   `json:"value_percentage"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

func (h *Handler) listPromoCodes(w http.ResponseWriter, r *http.Request) {
	list, err := h.promos.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]promoResponse, len(list))
	for i, c := range list {
		out[i] = toPromoResponse(&c)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) upsertPromoCode(w http.ResponseWriter, r *http.Request) {
	var req promoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "promo code is required")
		return
	}

	status := promo.Status(req.Status)
	if status == "" {
		status = promo.StatusValid
	}
	if status != promo.StatusValid && status != promo.StatusInvalid {
		writeError(w, http.StatusBadRequest, "status must be valid or invalid")
		return
	}

	c := &promo.Code{
		ID:              uuid.New().String(),
		Code:            req.Code,
		Value:           req.Value,
		ValuePercentage: req.ValuePercentage,
		Status:          status,
	}
	if err := h.promos.Upsert(r.Context(), c); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPromoResponse(c))
}

func toPromoResponse(c *promo.Code) promoResponse {
	return promoResponse{
		ID:              c.ID,
		Code:            c.Code,
		Value:           c.Value.InexactFloat64(),
		ValuePercentage: c.ValuePercentage.InexactFloat64(),
		Status:          string(c.Status),
		CreatedAt:       c.CreatedAt,
	}
}
