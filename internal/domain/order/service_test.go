package order

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verbstore/backoffice/internal/domain/colleague"
	"github.com/verbstore/backoffice/internal/domain/product"
	"github.com/verbstore/backoffice/internal/domain/promo"
)

// --- Mock implementations ---

type mockProductRepo struct {
	byID map[string]product.Product
}

func (m *mockProductRepo) List(_ context.Context, _ product.ListFilter) ([]product.Product, error) {
	return nil, nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id string) (*product.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &p, nil
}

func (m *mockProductRepo) GetByIDs(_ context.Context, ids []string) ([]product.Product, error) {
	var out []product.Product
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProductRepo) Create(_ context.Context, _ product.CreateParams) (*product.Product, error) {
	return nil, nil
}

func (m *mockProductRepo) Update(_ context.Context, _ string, _ product.CreateParams) (*product.Product, error) {
	return nil, nil
}

func (m *mockProductRepo) Delete(_ context.Context, _ string) error { return nil }

func (m *mockProductRepo) AddReview(_ context.Context, _ *product.Review) error { return nil }

func (m *mockProductRepo) ListReviews(_ context.Context, _ string) ([]product.Review, error) {
	return nil, nil
}

func (m *mockProductRepo) AddImage(_ context.Context, _ string, _ *product.Image) error { return nil }

type mockPromoRepo struct {
	byCode map[string]promo.Code
}

func (m *mockPromoRepo) FindByCode(_ context.Context, code string) (*promo.Code, error) {
	c, ok := m.byCode[code]
	if !ok {
		return nil, promo.ErrInvalidCode
	}
	return &c, nil
}

func (m *mockPromoRepo) Upsert(_ context.Context, _ *promo.Code) error { return nil }

func (m *mockPromoRepo) List(_ context.Context) ([]promo.Code, error) { return nil, nil }

type mockColleagueRepo struct {
	byID map[string]colleague.Colleague
}

func (m *mockColleagueRepo) Create(_ context.Context, _ *colleague.Colleague) error { return nil }

func (m *mockColleagueRepo) List(_ context.Context) ([]colleague.Colleague, error) {
	return nil, nil
}

func (m *mockColleagueRepo) GetByID(_ context.Context, id string) (*colleague.Colleague, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, colleague.ErrNotFound
	}
	return &c, nil
}

func (m *mockColleagueRepo) GetByEmail(_ context.Context, _ string) (*colleague.Colleague, error) {
	return nil, colleague.ErrNotFound
}

func (m *mockColleagueRepo) Update(_ context.Context, _ string, _ colleague.UpdateParams) (*colleague.Colleague, error) {
	return nil, colleague.ErrNotFound
}

func (m *mockColleagueRepo) Delete(_ context.Context, _ string) error { return nil }

func (m *mockColleagueRepo) SetPassword(_ context.Context, _, _ string) error { return nil }

type mockOrderRepo struct {
	lastOrder *Order
	payments  []Payment
	paid      decimal.Decimal
	status    string
	createErr error
}

func (m *mockOrderRepo) Create(_ context.Context, o *Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.lastOrder = o
	return nil
}

func (m *mockOrderRepo) GetByNumber(_ context.Context, orderNumber string) (*Order, error) {
	if m.lastOrder == nil || m.lastOrder.OrderNumber != orderNumber {
		return nil, ErrEmptyOrder
	}
	return m.lastOrder, nil
}

func (m *mockOrderRepo) List(_ context.Context, _, _ int) ([]Order, error) { return nil, nil }

func (m *mockOrderRepo) DeleteByNumber(_ context.Context, _ string) error { return nil }

func (m *mockOrderRepo) AddPayment(_ context.Context, p *Payment) error {
	m.payments = append(m.payments, *p)
	m.paid = m.paid.Add(p.Amount)
	return nil
}

func (m *mockOrderRepo) SumPayments(_ context.Context, _ string) (decimal.Decimal, error) {
	return m.paid, nil
}

func (m *mockOrderRepo) SetPaymentStatus(_ context.Context, _, statusName string) error {
	m.status = statusName
	return nil
}

// --- Helpers ---

const walkInID = "walk-in"

func testProduct(id, name, price, discount string) product.Product {
	return product.Product{
		ID:        id,
		Name:      name,
		UnitPrice: decimal.RequireFromString(price),
		Discount:  decimal.RequireFromString(discount),
	}
}

func newProductRepo(products ...product.Product) *mockProductRepo {
	byID := make(map[string]product.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &mockProductRepo{byID: byID}
}

func newTestService(products *mockProductRepo, promos *mockPromoRepo, orders *mockOrderRepo) *Service {
	if promos == nil {
		promos = &mockPromoRepo{}
	}
	colleagues := &mockColleagueRepo{byID: map[string]colleague.Colleague{
		walkInID: {ID: walkInID, Email: "walkin_colleague@verbs.com", IsActive: true},
	}}
	return NewService(products, promos, colleagues, orders, vat15(), walkInID)
}

func contact() Contact {
	return Contact{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
}

// --- Tests ---

func TestPlaceOrder_EmptyLines(t *testing.T) {
	svc := newTestService(newProductRepo(), nil, &mockOrderRepo{})

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{Contact: contact()})
	require.ErrorIs(t, err, ErrEmptyOrder)
}

func TestPlaceOrder_MissingCustomerInfo(t *testing.T) {
	p := testProduct("p1", "Print", "10.00", "0")
	svc := newTestService(newProductRepo(p), nil, &mockOrderRepo{})

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Lines: []LineRequest{{ProductID: "p1", Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrMissingCustomerInfo)
}

func TestPlaceOrder_AnonymousAttributedToWalkIn(t *testing.T) {
	p := testProduct("p1", "Print", "10.00", "0")
	orders := &mockOrderRepo{}
	svc := newTestService(newProductRepo(p), nil, orders)

	o, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Lines:   []LineRequest{{ProductID: "p1", Quantity: 1}},
		Contact: contact(),
	})
	require.NoError(t, err)

	assert.Equal(t, walkInID, o.ColleagueID)
	assert.Equal(t, "Ada", o.FirstName)
	require.NotNil(t, orders.lastOrder)
	assert.Equal(t, o.OrderNumber, orders.lastOrder.OrderNumber)
}

func TestPlaceOrder_AuthenticatedSkipsContactCheck(t *testing.T) {
	p := testProduct("p1", "Print", "10.00", "0")
	svc := newTestService(newProductRepo(p), nil, &mockOrderRepo{})

	o, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Lines:       []LineRequest{{ProductID: "p1", Quantity: 1}},
		ColleagueID: "colleague-7",
	})
	require.NoError(t, err)
	assert.Equal(t, "colleague-7", o.ColleagueID)
}

func TestPlaceOrder_UnknownProduct(t *testing.T) {
	svc := newTestService(newProductRepo(), nil, &mockOrderRepo{})

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Lines:   []LineRequest{{ProductID: "missing", Quantity: 1}},
		Contact: contact(),
	})

	var pnfErr *ProductNotFoundError
	require.ErrorAs(t, err, &pnfErr)
	assert.Equal(t, "missing", pnfErr.ProductID)
}

func TestPlaceOrder_InvalidPromoAborts(t *testing.T) {
	p := testProduct("p1", "Print", "10.00", "0")
	orders := &mockOrderRepo{}
	svc := newTestService(newProductRepo(p), &mockPromoRepo{}, orders)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Lines:     []LineRequest{{ProductID: "p1", Quantity: 1}},
		Contact:   contact(),
		PromoCode: "NOPE",
	})
	require.ErrorIs(t, err, promo.ErrInvalidCode)
	assert.Nil(t, orders.lastOrder)
}

func TestPlaceOrder_Totals(t *testing.T) {
	a := testProduct("a", "Print A", "10.00", "1.00")
	b := testProduct("b", "Print B", "5.00", "0")
	orders := &mockOrderRepo{}
	svc := newTestService(newProductRepo(a, b), nil, orders)

	o, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Lines: []LineRequest{
			{ProductID: "a", Quantity: 2},
			{ProductID: "b", Quantity: 1},
		},
		Contact:         contact(),
		ShippingAddress: "1 Analytical Way",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusInQueue, o.Status)
	assert.Equal(t, PaymentStatusUnpaid, o.PaymentStatus)
	assert.Equal(t, 2, o.TotalItemsCount)
	assert.True(t, o.TotalItemsCost.Equal(decimal.RequireFromString("25.00")), "items cost %s", o.TotalItemsCost)
	assert.True(t, o.Tax.Equal(decimal.RequireFromString("3.75")), "tax %s", o.Tax)
	assert.True(t, o.TotalOrderCost.Equal(decimal.RequireFromString("28.75")), "order cost %s", o.TotalOrderCost)

	require.NotNil(t, o.Shipping)
	assert.Equal(t, "1 Analytical Way", o.Shipping.Address)
	assert.NotEmpty(t, o.OrderNumber)
	for _, line := range o.Lines {
		assert.NotEmpty(t, line.ID)
	}
}

func TestPlaceOrder_WithPromo(t *testing.T) {
	a := testProduct("a", "Print A", "10.00", "1.00")
	b := testProduct("b", "Print B", "5.00", "0")
	promos := &mockPromoRepo{byCode: map[string]promo.Code{
		"WELCOME5": {ID: "promo-1", Code: "WELCOME5", Value: decimal.RequireFromString("5.00"), Status: promo.StatusValid},
	}}
	svc := newTestService(newProductRepo(a, b), promos, &mockOrderRepo{})

	o, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Lines: []LineRequest{
			{ProductID: "a", Quantity: 2},
			{ProductID: "b", Quantity: 1},
		},
		Contact:   contact(),
		PromoCode: "WELCOME5",
	})
	require.NoError(t, err)

	assert.Equal(t, "WELCOME5", o.PromoCode)
	assert.Equal(t, "promo-1", o.PromoCodeID)
	assert.True(t, o.TotalOrderCost.Equal(decimal.RequireFromString("23.75")), "order cost %s", o.TotalOrderCost)
}

func TestRecordPayment_PartialThenPaid(t *testing.T) {
	a := testProduct("a", "Print A", "10.00", "0")
	orders := &mockOrderRepo{}
	svc := newTestService(newProductRepo(a), nil, orders)

	o, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Lines:             []LineRequest{{ProductID: "a", Quantity: 2}},
		Contact:           contact(),
		AccumulatePayment: true,
	})
	require.NoError(t, err)
	// 20.00 + 15% VAT.
	require.True(t, o.TotalOrderCost.Equal(decimal.RequireFromString("23.00")))

	got, err := svc.RecordPayment(context.Background(), o.OrderNumber, &Payment{
		Method:      "Card",
		Amount:      decimal.RequireFromString("10.00"),
		PaymentDate: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, PaymentStatusPartial, got.PaymentStatus)

	got, err = svc.RecordPayment(context.Background(), o.OrderNumber, &Payment{
		Method:      "Cash",
		Amount:      decimal.RequireFromString("13.00"),
		PaymentDate: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, PaymentStatusPaid, got.PaymentStatus)

	require.Len(t, orders.payments, 2)
	assert.NotEmpty(t, orders.payments[0].ID)
	assert.Equal(t, orders.lastOrder.ID, orders.payments[0].OrderID)
}
