package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/verbstore/backoffice/internal/domain/colleague"
	"github.com/verbstore/backoffice/internal/domain/product"
	"github.com/verbstore/backoffice/internal/domain/promo"
)

// Contact holds the customer contact fields supplied with an order when no
// authenticated colleague is attached.
type Contact struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
}

func (c Contact) complete() bool {
	return c.FirstName != "" && c.LastName != "" && c.Email != ""
}

// PlaceOrderRequest holds the input for placing an order.
type PlaceOrderRequest struct {
	Lines             []LineRequest
	PromoCode         string
	ColleagueID       string
	Contact           Contact
	ShippingAddress   string
	DeliveryPeriod    string
	AccumulatePayment bool
}

// Service encapsulates order placement and payment recording. The tax rules
// and walk-in account are injected at construction; nothing is read from
// ambient state during a calculation.
type Service struct {
	products   product.Repository
	promos     promo.Repository
	colleagues colleague.Repository
	orders     Repository
	taxes      TaxConfig
	walkInID   string
}

// NewService creates an order Service with the required domain dependencies.
// walkInID is the seeded walk-in colleague row that anonymous orders are
// attributed to.
func NewService(
	products product.Repository,
	promos promo.Repository,
	colleagues colleague.Repository,
	orders Repository,
	taxes TaxConfig,
	walkInID string,
) *Service {
	return &Service{
		products:   products,
		promos:     promos,
		colleagues: colleagues,
		orders:     orders,
		taxes:      taxes,
		walkInID:   walkInID,
	}
}

// PlaceOrder validates the customer identity, fetches a consistent product
// snapshot in one batch query, resolves the promo code, runs the total
// calculation, and persists the order atomically. Any lookup failure aborts
// the whole order; no partial order is ever persisted.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	if len(req.Lines) == 0 {
		return nil, ErrEmptyOrder
	}

	colleagueID := req.ColleagueID
	if colleagueID == "" {
		if !req.Contact.complete() {
			return nil, ErrMissingCustomerInfo
		}
		colleagueID = s.walkInID
	}

	// One batch query keeps captured prices and discounts from a single
	// consistent read.
	ids := make([]string, len(req.Lines))
	for i, line := range req.Lines {
		ids[i] = line.ProductID
	}
	fetched, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get products")
	}
	snapshot := make(map[string]product.Product, len(fetched))
	for _, p := range fetched {
		snapshot[p.ID] = p
	}

	var code *promo.Code
	if req.PromoCode != "" {
		code, err = s.promos.FindByCode(ctx, req.PromoCode)
		if err != nil {
			return nil, err
		}
	}

	totals, err := Calculate(req.Lines, snapshot, code, s.taxes)
	if err != nil {
		return nil, err
	}

	o := &Order{
		ID:                uuid.New().String(),
		OrderNumber:       NewOrderNumber(),
		ColleagueID:       colleagueID,
		FirstName:         req.Contact.FirstName,
		LastName:          req.Contact.LastName,
		Email:             req.Contact.Email,
		PhoneNumber:       req.Contact.PhoneNumber,
		Status:            StatusInQueue,
		Lines:             totals.Lines,
		Tax:               totals.Tax,
		TotalItemsCount:   len(totals.Lines),
		TotalItemsCost:    totals.TotalItemsCost,
		ShippingCost:      decimal.Zero,
		TotalOrderCost:    totals.TotalOrderCost,
		PaymentStatus:     PaymentStatusUnpaid,
		AccumulatePayment: req.AccumulatePayment,
		Shipping: &ShippingInfo{
			ID:             uuid.New().String(),
			Address:        req.ShippingAddress,
			Cost:           decimal.Zero,
			DeliveryPeriod: req.DeliveryPeriod,
		},
	}
	if code != nil {
		o.PromoCode = code.Code
		o.PromoCodeID = code.ID
	}
	for i := range o.Lines {
		o.Lines[i].ID = uuid.New().String()
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	return o, nil
}

// GetByNumber returns a single order by its order number.
func (s *Service) GetByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	return s.orders.GetByNumber(ctx, orderNumber)
}

// List returns a page of orders, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Order, error) {
	return s.orders.List(ctx, limit, offset)
}

// Delete removes an order and its lines.
func (s *Service) Delete(ctx context.Context, orderNumber string) error {
	return s.orders.DeleteByNumber(ctx, orderNumber)
}

// RecordPayment stores a payment against the order and advances its payment
// status: Paid once accumulated payments cover the total, Partially Paid
// otherwise.
func (s *Service) RecordPayment(ctx context.Context, orderNumber string, p *Payment) (*Order, error) {
	o, err := s.orders.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	p.ID = uuid.New().String()
	p.OrderID = o.ID
	if err := s.orders.AddPayment(ctx, p); err != nil {
		return nil, errors.Wrap(err, "add payment")
	}

	paid, err := s.orders.SumPayments(ctx, o.ID)
	if err != nil {
		return nil, errors.Wrap(err, "sum payments")
	}

	status := PaymentStatusPartial
	if paid.GreaterThanOrEqual(o.TotalOrderCost) {
		status = PaymentStatusPaid
	}
	if err := s.orders.SetPaymentStatus(ctx, o.ID, status); err != nil {
		return nil, errors.Wrap(err, "set payment status")
	}

	o.PaymentStatus = status
	return o, nil
}
