package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/verbstore/backoffice/internal/domain/colleague"
	"github.com/verbstore/backoffice/internal/domain/order"
	"github.com/verbstore/backoffice/internal/domain/product"
	"github.com/verbstore/backoffice/internal/domain/promo"
)

// errorResponse is the JSON body for every error status.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, errorResponse{Code: code, Message: message})
}

// respondError maps domain errors to HTTP statuses. Validation failures are
// deterministic and never retried, so everything user-caused gets a 4xx with
// the error's own message; anything else is a logged 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		pnfErr *order.ProductNotFoundError
		iqErr  *order.InvalidQuantityError
	)

	switch {
	case errors.Is(err, order.ErrEmptyOrder),
		errors.Is(err, order.ErrMissingCustomerInfo),
		errors.Is(err, colleague.ErrEmailRequired),
		errors.Is(err, colleague.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, err.Error())

	case errors.As(err, &pnfErr),
		errors.As(err, &iqErr),
		errors.Is(err, promo.ErrInvalidCode):
		writeError(w, http.StatusUnprocessableEntity, err.Error())

	case errors.Is(err, colleague.ErrResetTokenUsed),
		errors.Is(err, colleague.ErrResetTokenExpired):
		writeError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, product.ErrNotFound),
		errors.Is(err, colleague.ErrNotFound),
		errors.Is(err, colleague.ErrResetTokenNotFound),
		errors.Is(err, order.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())

	default:
		zctx.From(r.Context()).Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON parses the request body into v, limiting body size to 1 MiB.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}
