package order

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order status names. These match the reference rows seeded by the schema
// migration.
const (
	StatusInQueue    = "In Queue"
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
)

// Payment status names, also seeded by the migration.
const (
	PaymentStatusUnpaid  = "Unpaid"
	PaymentStatusPartial = "Partially Paid"
	PaymentStatusPaid    = "Paid"
)

// ErrNotFound is returned when an order number does not resolve.
var ErrNotFound = errors.New("order not found")

// Order is the placed-order aggregate: lines in request order plus the
// computed totals. Lines capture unit price and discount at placement time
// and are never mutated afterwards.
type Order struct {
	ID                string
	OrderNumber       string
	ColleagueID       string
	FirstName         string
	LastName          string
	Email             string
	PhoneNumber       string
	Status            string
	Lines             []Line
	Tax               decimal.Decimal
	PromoCode         string
	PromoCodeID       string
	TotalItemsCount   int
	TotalItemsCost    decimal.Decimal
	ShippingCost      decimal.Decimal
	TotalOrderCost    decimal.Decimal
	PaymentStatus     string
	AccumulatePayment bool
	Shipping          *ShippingInfo
	OrderDate         time.Time
	CreatedAt         time.Time
	ModifiedAt        time.Time
}

// Line is one product+quantity entry within an order, with its captured
// pricing breakdown.
type Line struct {
	ID          string
	ProductID   string
	ProductName string
	Position    int
	Qty         int
	UnitPrice   decimal.Decimal
	Cost        decimal.Decimal
	Tax         decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
}

// ShippingInfo is the delivery record attached to an order at placement.
type ShippingInfo struct {
	ID             string
	Address        string
	Cost           decimal.Decimal
	DeliveryPeriod string
}

// Payment is a single recorded payment against an order. Orders flagged with
// AccumulatePayment may collect several partial payments.
type Payment struct {
	ID            string
	OrderID       string
	Method        string
	TransactionID string
	Amount        decimal.Decimal
	PaymentDate   time.Time
}

// NewOrderNumber generates a short human-quotable order number from the tail
// segment of a UUID v4.
func NewOrderNumber() string {
	parts := strings.Split(uuid.New().String(), "-")
	return parts[len(parts)-1]
}

// Repository defines persistence operations for orders. Create must persist
// the order, all its lines, and the shipping record in a single transaction.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByNumber(ctx context.Context, orderNumber string) (*Order, error)
	List(ctx context.Context, limit, offset int) ([]Order, error)
	DeleteByNumber(ctx context.Context, orderNumber string) error

	AddPayment(ctx context.Context, p *Payment) error
	SumPayments(ctx context.Context, orderID string) (decimal.Decimal, error)
	SetPaymentStatus(ctx context.Context, orderID, statusName string) error
}
