package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/verbstore/backoffice/internal/domain/colleague"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type colleagueResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name,omitempty"`
	LastName    string     `json:"last_name,omitempty"`
	FullName    string     `json:"full_name,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Address     string     `json:"address,omitempty"`
	PhoneNumber string     `json:"phone_number,omitempty"`
	Country     string     `json:"country,omitempty"`
	IsActive    bool       `json:"is_active"`
	IsStaff     bool       `json:"is_staff"`
	IsAdmin     bool       `json:"is_admin"`
	CreatedAt   time.Time  `json:"created_at"`
}

type updateColleagueRequest struct {
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Address     string     `json:"address"`
	PhoneNumber string     `json:"phone_number"`
	Country     string     `json:"country"`
	IsActive    *bool      `json:"is_active"`
}

func (h *Handler) registerColleague(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" {
		respondError(w, r, colleague.ErrEmailRequired)
		return
	}

	// Hashing lives here rather than in the repository so the stored hash
	// format is a single decision point.
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, r, err)
		return
	}

	c := &colleague.Colleague{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := h.colleagues.Create(r.Context(), c); err != nil {
		respondError(w, r, err)
		return
	}

	stored, err := h.colleagues.GetByID(r.Context(), c.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toColleagueResponse(stored))
}

func (h *Handler) listColleagues(w http.ResponseWriter, r *http.Request) {
	list, err := h.colleagues.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]colleagueResponse, len(list))
	for i := range list {
		out[i] = toColleagueResponse(&list[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getColleague(w http.ResponseWriter, r *http.Request) {
	c, err := h.colleagues.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toColleagueResponse(c))
}

func (h *Handler) updateColleague(w http.ResponseWriter, r *http.Request) {
	var req updateColleagueRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.colleagues.Update(r.Context(), chi.URLParam(r, "id"), colleague.UpdateParams{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		Country:     req.Country,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toColleagueResponse(c))
}

func (h *Handler) deleteColleague(w http.ResponseWriter, r *http.Request) {
	if err := h.colleagues.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toColleagueResponse(c *colleague.Colleague) colleagueResponse {
	return colleagueResponse{
		ID:          c.ID,
		Email:       c.Email,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		FullName:    c.FullName(),
		DateOfBirth: c.DateOfBirth,
		Address:     c.Address,
		PhoneNumber: c.PhoneNumber,
		Country:     c.Country,
		IsActive:    c.IsActive,
		IsStaff:     c.IsStaff,
		IsAdmin:     c.IsAdmin,
		CreatedAt:   c.CreatedAt,
	}
}
