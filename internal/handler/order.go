package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/verbstore/backoffice/internal/domain/order"
)

type orderLineRequest struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

type placeOrderRequest struct {
	Items             []orderLineRequest `json:"items"`
	PromoCode         string             `json:"promo_code"`
	FirstName         string             `json:"first_name"`
	LastName          string             `json:"last_name"`
	Email             string             `json:"email"`
	PhoneNumber       string             `json:"phone_number"`
	ShippingAddress   string             `json:"shipping_address"`
	DeliveryPeriod    string             `json:"delivery_period"`
	AccumulatePayment bool               `json:"accumulate_payment"`
}

type orderLineResponse struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Position    int     `json:"position"`
	Qty         int     `json:"qty"`
	UnitPrice   float64 `json:"unit_price"`
	Cost        float64 `json:"cost"`
	Tax         float64 `json:"tax"`
	Discount    float64 `json:"discount"`
	Total       float64 `json:"total"`
}

type shippingResponse struct {
	Address        string  `json:"address"`
	Cost           float64 `json:"cost"`
	DeliveryPeriod string  `json:"delivery_period,omitempty"`
}

type orderResponse struct {
	OrderNumber       string              `json:"order_number"`
	Status            string              `json:"status"`
	FirstName         string              `json:"first_name,omitempty"`
	LastName          string              `json:"last_name,omitempty"`
	Email             string              `json:"email,omitempty"`
	PhoneNumber       string              `json:"phone_number,omitempty"`
	Items             []orderLineResponse `json:"items"`
	PromoCode         string              `json:"promo_code,omitempty"`
	Tax               float64             `json:"tax"`
	TotalItemsCount   int                 `json:"total_items_count"`
	TotalItemsCost    float64             `json:"total_items_cost"`
	ShippingCost      float64             `json:"shipping_cost"`
	TotalOrderCost    float64             `json:"total_order_cost"`
	PaymentStatus     string              `json:"payment_status"`
	AccumulatePayment bool                `json:"accumulate_payment"`
	Shipping          *shippingResponse   `json:"shipping,omitempty"`
	OrderDate         time.Time           `json:"order_date"`
}

type payOrderRequest struct {
	Method        string          `json:"method"`
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	lines := make([]order.LineRequest, len(req.Items))
	for i, item := range req.Items {
		lines[i] = order.LineRequest{ProductID: item.ProductID, Quantity: item.Qty}
	}

	svcReq := order.PlaceOrderRequest{
		Lines:     lines,
		PromoCode: req.PromoCode,
		Contact: order.Contact{
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Email:       req.Email,
			PhoneNumber: req.PhoneNumber,
		},
		ShippingAddress:   req.ShippingAddress,
		DeliveryPeriod:    req.DeliveryPeriod,
		AccumulatePayment: req.AccumulatePayment,
	}
	if c := ColleagueFromContext(r.Context()); c != nil {
		svcReq.ColleagueID = c.ID
	}

	o, err := h.orders.PlaceOrder(r.Context(), svcReq)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(o))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetByNumber(r.Context(), chi.URLParam(r, "orderNumber"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	list, err := h.orders.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]orderResponse, len(list))
	for i := range list {
		out[i] = toOrderResponse(&list[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.Delete(r.Context(), chi.URLParam(r, "orderNumber")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) payOrder(w http.ResponseWriter, r *http.Request) {
	var req payOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.Amount.IsPositive() {
		writeError(w, http.StatusBadRequest, "payment amount must be positive")
		return
	}

	o, err := h.orders.RecordPayment(r.Context(), chi.URLParam(r, "orderNumber"), &order.Payment{
		Method:        req.Method,
		TransactionID: req.TransactionID,
		Amount:        req.Amount,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func toOrderResponse(o *order.Order) orderResponse {
	resp := orderResponse{
		OrderNumber:       o.OrderNumber,
		Status:            o.Status,
		FirstName:         o.FirstName,
		LastName:          o.LastName,
		Email:             o.Email,
		PhoneNumber:       o.PhoneNumber,
		Items:             make([]orderLineResponse, len(o.Lines)),
		PromoCode:         o.PromoCode,
		Tax:               o.Tax.InexactFloat64(),
		TotalItemsCount:   o.TotalItemsCount,
		TotalItemsCost:    o.TotalItemsCost.InexactFloat64(),
		ShippingCost:      o.ShippingCost.InexactFloat64(),
		TotalOrderCost:    o.TotalOrderCost.InexactFloat64(),
		PaymentStatus:     o.PaymentStatus,
		AccumulatePayment: o.AccumulatePayment,
		OrderDate:         o.OrderDate,
	}
	for i, line := range o.Lines {
		resp.Items[i] = orderLineResponse{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Position:    line.Position,
			Qty:         line.Qty,
			UnitPrice:   line.UnitPrice.InexactFloat64(),
			Cost:        line.Cost.InexactFloat64(),
			Tax:         line.Tax.InexactFloat64(),
			Discount:    line.Discount.InexactFloat64(),
			Total:       line.Total.InexactFloat64(),
		}
	}
	if o.Shipping != nil {
		resp.Shipping = &shippingResponse{
			Address:        o.Shipping.Address,
			Cost:           o.Shipping.Cost.InexactFloat64(),
			DeliveryPeriod: o.Shipping.DeliveryPeriod,
		}
	}
	return resp
}
