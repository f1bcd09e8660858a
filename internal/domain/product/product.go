package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase. The price and
// discount fields are snapshots at read time; placed orders capture their own
// copies and never re-read them.
type Product struct {
	ID           string
	Name         string
	Type         string
	Grade        string
	Themes       []string
	Colors       []string
	FrameTypes   []string
	Sizes        []Dimension
	Weight       decimal.Decimal
	UnitPrice    decimal.Decimal
	Qty          int
	Description  string
	ReturnPolicy string
	// Discount is a flat monetary amount subtracted once per order line.
	Discount decimal.Decimal
	Images   []Image
	AddedAt  time.Time
	AddedBy  string
}

// Dimension is a width x height variant a product is available in.
type Dimension struct {
	ID     string
	Width  decimal.Decimal
	Height decimal.Decimal
}

// Image holds the stored URL and description of a product photo. Binary
// storage lives elsewhere; only the reference is kept here.
type Image struct {
	ID          string
	URL         string
	Description string
	AddedAt     time.Time
}

// Review is a colleague-submitted product review.
type Review struct {
	ID          string
	ProductID   string
	ColleagueID string
	Message     string
	AddedAt     time.Time
}

// ListFilter narrows catalog listings by variant attribute names.
// Empty fields match everything.
type ListFilter struct {
	Type      string
	Grade     string
	Theme     string
	Color     string
	FrameType string
}

// CreateParams holds the attributes for a new catalog entry. Attribute names
// must reference existing seeded rows; unknown names fail the create.
type CreateParams struct {
	Name         string
	Type         string
	Grade        string
	Themes       []string
	Colors       []string
	FrameTypes   []string
	Weight       decimal.Decimal
	UnitPrice    decimal.Decimal
	Qty          int
	Description  string
	ReturnPolicy string
	Discount     decimal.Decimal
	AddedBy      string
}

// Repository defines persistence operations for the product catalog.
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
	Create(ctx context.Context, p CreateParams) (*Product, error)
	Update(ctx context.Context, id string, p CreateParams) (*Product, error)
	Delete(ctx context.Context, id string) error

	AddReview(ctx context.Context, r *Review) error
	ListReviews(ctx context.Context, productID string) ([]Review, error)
	AddImage(ctx context.Context, productID string, img *Image) error
}
