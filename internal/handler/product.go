package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/verbstore/backoffice/internal/domain/product"
)

type productRequest struct {
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	Grade        string          `json:"grade"`
	Themes       []string        `json:"themes"`
	Colors       []string        `json:"colors"`
	FrameTypes   []string        `json:"frame_types"`
	Weight       decimal.Decimal `json:"weight"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Qty          int             `json:"qty"`
	Description  string          `json:"description"`
	ReturnPolicy string          `json:"return_policy"`
	Discount     decimal.Decimal `json:"discount"`
}

type productResponse struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Type         string              `json:"type"`
	Grade        string              `json:"grade"`
	Themes       []string            `json:"themes"`
	Colors       []string            `json:"colors"`
	FrameTypes   []string            `json:"frame_types"`
	Sizes        []dimensionResponse `json:"sizes,omitempty"`
	Weight       float64             `json:"weight"`
	UnitPrice    float64             `json:"unit_price"`
	Qty          int                 `json:"qty"`
	Description  string              `json:"description,omitempty"`
	ReturnPolicy string              `json:"return_policy,omitempty"`
	Discount     float64             `json:"discount"`
	Images       []imageResponse     `json:"images,omitempty"`
	AddedAt      time.Time           `json:"added_at"`
	AddedBy      string              `json:"added_by,omitempty"`
}

type dimensionResponse struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type imageResponse struct {
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	AddedAt     time.Time `json:"added_at"`
}

type reviewRequest struct {
	Message string `json:"message"`
}

type reviewResponse struct {
	ID          string    `json:"id"`
	ColleagueID string    `json:"colleague_id"`
	Message     string    `json:"message"`
	AddedAt     time.Time `json:"added_at"`
}

type addImageRequest struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.products.List(r.Context(), product.ListFilter{
		Type:      q.Get("type"),
		Grade:     q.Get("grade"),
		Theme:     q.Get("theme"),
		Color:     q.Get("color"),
		FrameType: q.Get("frame_type"),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]productResponse, len(list))
	for i := range list {
		out[i] = h.toProductResponse(&list[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toProductResponse(p))
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "product name is required")
		return
	}

	params := req.toParams()
	if c := ColleagueFromContext(r.Context()); c != nil {
		params.AddedBy = c.ID
	}

	p, err := h.products.Create(r.Context(), params)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.toProductResponse(p))
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.products.Update(r.Context(), chi.URLParam(r, "id"), req.toParams())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toProductResponse(p))
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listReviews(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.products.GetByID(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	reviews, err := h.products.ListReviews(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]reviewResponse, len(reviews))
	for i, rv := range reviews {
		out[i] = reviewResponse{
			ID:          rv.ID,
			ColleagueID: rv.ColleagueID,
			Message:     rv.Message,
			AddedAt:     rv.AddedAt,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) addReview(w http.ResponseWriter, r *http.Request) {
	c := ColleagueFromContext(r.Context())
	if c == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req reviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "review message is required")
		return
	}

	rv := &product.Review{
		ID:          uuid.New().String(),
		ProductID:   chi.URLParam(r, "id"),
		ColleagueID: c.ID,
		Message:     req.Message,
	}
	if err := h.products.AddReview(r.Context(), rv); err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, reviewResponse{
		ID:          rv.ID,
		ColleagueID: rv.ColleagueID,
		Message:     rv.Message,
		AddedAt:     rv.AddedAt,
	})
}

func (h *Handler) addImage(w http.ResponseWriter, r *http.Request) {
	var req addImageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "image url is required")
		return
	}

	img := &product.Image{
		ID:          uuid.New().String(),
		URL:         req.URL,
		Description: req.Description,
	}
	if err := h.products.AddImage(r.Context(), chi.URLParam(r, "id"), img); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.toImageResponse(img))
}

func (req *productRequest) toParams() product.CreateParams {
	return product.CreateParams{
		Name:         req.Name,
		Type:         req.Type,
		Grade:        req.Grade,
		Themes:       req.Themes,
		Colors:       req.Colors,
		FrameTypes:   req.FrameTypes,
		Weight:       req.Weight,
		UnitPrice:    req.UnitPrice,
		Qty:          req.Qty,
		Description:  req.Description,
		ReturnPolicy: req.ReturnPolicy,
		Discount:     req.Discount,
	}
}

func (h *Handler) toProductResponse(p *product.Product) productResponse {
	resp := productResponse{
		ID:           p.ID,
		Name:         p.Name,
		Type:         p.Type,
		Grade:        p.Grade,
		Themes:       p.Themes,
		Colors:       p.Colors,
		FrameTypes:   p.FrameTypes,
		Weight:       p.Weight.InexactFloat64(),
		UnitPrice:    p.UnitPrice.InexactFloat64(),
		Qty:          p.Qty,
		Description:  p.Description,
		ReturnPolicy: p.ReturnPolicy,
		Discount:     p.Discount.InexactFloat64(),
		AddedAt:      p.AddedAt,
		AddedBy:      p.AddedBy,
	}
	for _, d := range p.Sizes {
		resp.Sizes = append(resp.Sizes, dimensionResponse{
			Width:  d.Width.InexactFloat64(),
			Height: d.Height.InexactFloat64(),
		})
	}
	for i := range p.Images {
		resp.Images = append(resp.Images, h.toImageResponse(&p.Images[i]))
	}
	return resp
}

func (h *Handler) toImageResponse(img *product.Image) imageResponse {
	url := img.URL
	if h.cfg.ImageBaseURL != "" && !strings.HasPrefix(url, "http") {
		url = strings.TrimSuffix(h.cfg.ImageBaseURL, "/") + "/" + strings.TrimPrefix(url, "/")
	}
	return imageResponse{URL: url, Description: img.Description, AddedAt: img.AddedAt}
}
