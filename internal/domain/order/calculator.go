package order

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/verbstore/backoffice/internal/domain/product"
	"github.com/verbstore/backoffice/internal/domain/promo"
)

var hundred = decimal.NewFromInt(100)

// Sentinel errors for order calculation.
var (
	ErrEmptyOrder          = errors.New("no items in order")
	ErrMissingCustomerInfo = errors.New("sign in or fill in the customer details")
)

// ProductNotFoundError indicates a requested product is not in the snapshot.
// A single unknown product aborts the whole calculation.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// InvalidQuantityError indicates a line request with a non-positive quantity.
type InvalidQuantityError struct {
	ProductID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %s", e.ProductID)
}

// LineRequest is one requested product+quantity pair.
type LineRequest struct {
	ProductID string
	Quantity  int
}

// TaxRule is a named percentage surcharge, e.g. VAT at 15.
type TaxRule struct {
	Name string
	Rate decimal.Decimal
}

// TaxConfig is the set of active tax rules, applied uniformly to every order.
// It is passed into Calculate explicitly so the calculation stays a pure
// function of its inputs.
type TaxConfig struct {
	Rules []TaxRule
}

// Totals is the computed result of an order calculation, ready to be copied
// onto an Order aggregate for persistence.
type Totals struct {
	Lines           []Line
	TotalItemsCost  decimal.Decimal
	Tax             decimal.Decimal
	PromoAdjustment decimal.Decimal
	TotalOrderCost  decimal.Decimal
}

// Calculate produces validated line items and order-level totals from line
// requests, a consistent product snapshot, an optional resolved promo code,
// and the active tax rules. It has no side effects and returns no partial
// results: any invalid line aborts the whole calculation.
//
// Per line: cost = unit price * qty; tax sums every rule's rate over the line
// cost; discount is the product's flat discount applied once per line,
// independent of quantity. The order-level tax is recomputed from the
// aggregate items cost and is deliberately kept as a separate derived value
// from the per-line tax sum.
func Calculate(lines []LineRequest, products map[string]product.Product, code *promo.Code, taxes TaxConfig) (*Totals, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	t := &Totals{
		Lines:          make([]Line, 0, len(lines)),
		TotalItemsCost: decimal.Zero,
	}

	for i, req := range lines {
		if req.Quantity < 1 {
			return nil, &InvalidQuantityError{ProductID: req.ProductID}
		}

		p, ok := products[req.ProductID]
		if !ok {
			return nil, &ProductNotFoundError{ProductID: req.ProductID}
		}

		qty := decimal.NewFromInt(int64(req.Quantity))
		cost := p.UnitPrice.Mul(qty)
		tax := taxOn(cost, taxes)
		discount := p.Discount
		total := cost.Add(tax).Sub(discount)

		t.Lines = append(t.Lines, Line{
			ProductID:   p.ID,
			ProductName: p.Name,
			Position:    i,
			Qty:         req.Quantity,
			UnitPrice:   p.UnitPrice,
			Cost:        cost.Round(2),
			Tax:         tax,
			Discount:    discount.Round(2),
			Total:       total.Round(2),
		})
		t.TotalItemsCost = t.TotalItemsCost.Add(cost)
	}

	t.TotalItemsCost = t.TotalItemsCost.Round(2)
	t.Tax = taxOn(t.TotalItemsCost, taxes)

	t.PromoAdjustment = decimal.Zero
	if code != nil {
		t.PromoAdjustment = code.Value.Round(2)
	}

	t.TotalOrderCost = t.TotalItemsCost.Add(t.Tax).Sub(t.PromoAdjustment).Round(2)
	return t, nil
}

// taxOn sums every active rule's percentage of the given cost, rounded to the
// currency's minor unit.
func taxOn(cost decimal.Decimal, taxes TaxConfig) decimal.Decimal {
	sum := decimal.Zero
	for _, rule := range taxes.Rules {
		sum = sum.Add(rule.Rate.Div(hundred).Mul(cost))
	}
	return sum.Round(2)
}
