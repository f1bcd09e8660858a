package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/verbstore/backoffice/internal/domain/colleague"
)

type resetRequest struct {
	Email string `json:"email"`
}

type resetResponse struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

type confirmResetRequest struct {
	Password string `json:"password"`
}

func (h *Handler) requestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" {
		respondError(w, r, colleague.ErrEmailRequired)
		return
	}

	if _, err := h.colleagues.GetByEmail(r.Context(), req.Email); err != nil {
		respondError(w, r, err)
		return
	}

	rp := &colleague.ResetPassword{
		ID:     uuid.New().String(),
		Email:  req.Email,
		Token:  colleague.NewResetToken(),
		Status: colleague.ResetStatusNew,
	}
	if err := h.resets.Create(r.Context(), rp); err != nil {
		respondError(w, r, err)
		return
	}

	// Token delivery (mail) is handled outside this service; the token is
	// returned to the caller so the front office can forward it.
	writeJSON(w, http.StatusCreated, resetResponse{Email: rp.Email, Token: rp.Token})
}

func (h *Handler) confirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req confirmResetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rp, err := h.resets.GetByToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	switch {
	case rp.Status == colleague.ResetStatusUsed:
		respondError(w, r, colleague.ErrResetTokenUsed)
		return
	case rp.Status == colleague.ResetStatusExpired,
		time.Since(rp.CreatedAt) > h.cfg.ResetTokenTTL:
		if err := h.resets.SetStatus(r.Context(), rp.ID, colleague.ResetStatusExpired); err != nil {
			zctx.From(r.Context()).Warn("Mark reset token expired", zap.Error(err))
		}
		respondError(w, r, colleague.ErrResetTokenExpired)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.colleagues.SetPassword(r.Context(), rp.Email, string(hash)); err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.resets.SetStatus(r.Context(), rp.ID, colleague.ResetStatusUsed); err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}
