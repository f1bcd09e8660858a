package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verbstore/backoffice/internal/domain/product"
	"github.com/verbstore/backoffice/internal/domain/promo"
)

func vat15() TaxConfig {
	return TaxConfig{Rules: []TaxRule{{Name: "VAT", Rate: decimal.NewFromInt(15)}}}
}

func snapshot(products ...product.Product) map[string]product.Product {
	m := make(map[string]product.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return m
}

func catalogProduct(id, name, price, discount string) product.Product {
	return product.Product{
		ID:        id,
		Name:      name,
		UnitPrice: decimal.RequireFromString(price),
		Discount:  decimal.RequireFromString(discount),
	}
}

func TestCalculate_EmptyOrder(t *testing.T) {
	_, err := Calculate(nil, snapshot(), nil, vat15())
	require.ErrorIs(t, err, ErrEmptyOrder)
}

func TestCalculate_ZeroQuantity(t *testing.T) {
	products := snapshot(catalogProduct("p1", "Print A", "10.00", "0"))

	_, err := Calculate([]LineRequest{{ProductID: "p1", Quantity: 0}}, products, nil, vat15())

	var iqErr *InvalidQuantityError
	require.ErrorAs(t, err, &iqErr)
	assert.Equal(t, "p1", iqErr.ProductID)
}

func TestCalculate_NegativeQuantity(t *testing.T) {
	products := snapshot(catalogProduct("p1", "Print A", "10.00", "0"))

	_, err := Calculate([]LineRequest{{ProductID: "p1", Quantity: -3}}, products, nil, vat15())

	var iqErr *InvalidQuantityError
	require.ErrorAs(t, err, &iqErr)
}

func TestCalculate_UnknownProductAbortsAll(t *testing.T) {
	products := snapshot(catalogProduct("p1", "Print A", "10.00", "0"))

	_, err := Calculate([]LineRequest{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "missing", Quantity: 2},
	}, products, nil, vat15())

	var pnfErr *ProductNotFoundError
	require.ErrorAs(t, err, &pnfErr)
	assert.Equal(t, "missing", pnfErr.ProductID)
}

func TestCalculate_TotalsWithDiscountAndTax(t *testing.T) {
	products := snapshot(
		catalogProduct("a", "Print A", "10.00", "1.00"),
		catalogProduct("b", "Print B", "5.00", "0"),
	)

	totals, err := Calculate([]LineRequest{
		{ProductID: "a", Quantity: 2},
		{ProductID: "b", Quantity: 1},
	}, products, nil, vat15())
	require.NoError(t, err)

	require.Len(t, totals.Lines, 2)

	lineA := totals.Lines[0]
	assert.Equal(t, 0, lineA.Position)
	assert.Equal(t, 2, lineA.Qty)
	assert.True(t, lineA.Cost.Equal(decimal.RequireFromString("20.00")), "cost %s", lineA.Cost)
	assert.True(t, lineA.Tax.Equal(decimal.RequireFromString("3.00")), "tax %s", lineA.Tax)
	// Flat discount applies once per line, not per unit.
	assert.True(t, lineA.Discount.Equal(decimal.RequireFromString("1.00")), "discount %s", lineA.Discount)
	assert.True(t, lineA.Total.Equal(decimal.RequireFromString("22.00")), "total %s", lineA.Total)

	lineB := totals.Lines[1]
	assert.Equal(t, 1, lineB.Position)
	assert.True(t, lineB.Cost.Equal(decimal.RequireFromString("5.00")), "cost %s", lineB.Cost)
	assert.True(t, lineB.Tax.Equal(decimal.RequireFromString("0.75")), "tax %s", lineB.Tax)
	assert.True(t, lineB.Total.Equal(decimal.RequireFromString("5.75")), "total %s", lineB.Total)

	assert.True(t, totals.TotalItemsCost.Equal(decimal.RequireFromString("25.00")), "items cost %s", totals.TotalItemsCost)
	assert.True(t, totals.Tax.Equal(decimal.RequireFromString("3.75")), "tax %s", totals.Tax)
	assert.True(t, totals.PromoAdjustment.IsZero())
	assert.True(t, totals.TotalOrderCost.Equal(decimal.RequireFromString("28.75")), "order cost %s", totals.TotalOrderCost)
}

func TestCalculate_PromoCode(t *testing.T) {
	products := snapshot(
		catalogProduct("a", "Print A", "10.00", "1.00"),
		catalogProduct("b", "Print B", "5.00", "0"),
	)
	code := &promo.Code{
		ID:     "promo-1",
		Code:   "WELCOME5",
		Value:  decimal.RequireFromString("5.00"),
		Status: promo.StatusValid,
	}

	totals, err := Calculate([]LineRequest{
		{ProductID: "a", Quantity: 2},
		{ProductID: "b", Quantity: 1},
	}, products, code, vat15())
	require.NoError(t, err)

	assert.True(t, totals.PromoAdjustment.Equal(decimal.RequireFromString("5.00")))
	assert.True(t, totals.TotalOrderCost.Equal(decimal.RequireFromString("23.75")), "order cost %s", totals.TotalOrderCost)
}

func TestCalculate_MultipleTaxRules(t *testing.T) {
	products := snapshot(catalogProduct("a", "Print A", "100.00", "0"))
	taxes := TaxConfig{Rules: []TaxRule{
		{Name: "VAT", Rate: decimal.NewFromInt(15)},
		{Name: "Levy", Rate: decimal.RequireFromString("2.5")},
	}}

	totals, err := Calculate([]LineRequest{{ProductID: "a", Quantity: 1}}, products, nil, taxes)
	require.NoError(t, err)

	assert.True(t, totals.Tax.Equal(decimal.RequireFromString("17.50")), "tax %s", totals.Tax)
	assert.True(t, totals.TotalOrderCost.Equal(decimal.RequireFromString("117.50")))
}

func TestCalculate_NoTaxRules(t *testing.T) {
	products := snapshot(catalogProduct("a", "Print A", "10.00", "0"))

	totals, err := Calculate([]LineRequest{{ProductID: "a", Quantity: 3}}, products, nil, TaxConfig{})
	require.NoError(t, err)

	assert.True(t, totals.Tax.IsZero())
	assert.True(t, totals.TotalOrderCost.Equal(decimal.RequireFromString("30.00")))
}

func TestCalculate_Deterministic(t *testing.T) {
	products := snapshot(
		catalogProduct("a", "Print A", "10.00", "1.00"),
		catalogProduct("b", "Print B", "5.00", "0"),
	)
	lines := []LineRequest{
		{ProductID: "a", Quantity: 2},
		{ProductID: "b", Quantity: 1},
	}

	first, err := Calculate(lines, products, nil, vat15())
	require.NoError(t, err)
	second, err := Calculate(lines, products, nil, vat15())
	require.NoError(t, err)

	assert.True(t, first.TotalOrderCost.Equal(second.TotalOrderCost))
	assert.True(t, first.Tax.Equal(second.Tax))
	assert.True(t, first.TotalItemsCost.Equal(second.TotalItemsCost))
}

func TestCalculate_LinePositionsFollowRequestOrder(t *testing.T) {
	products := snapshot(
		catalogProduct("a", "Print A", "10.00", "0"),
		catalogProduct("b", "Print B", "5.00", "0"),
		catalogProduct("c", "Print C", "7.00", "0"),
	)

	totals, err := Calculate([]LineRequest{
		{ProductID: "c", Quantity: 1},
		{ProductID: "a", Quantity: 1},
		{ProductID: "b", Quantity: 1},
	}, products, nil, vat15())
	require.NoError(t, err)

	require.Len(t, totals.Lines, 3)
	assert.Equal(t, "c", totals.Lines[0].ProductID)
	assert.Equal(t, "a", totals.Lines[1].ProductID)
	assert.Equal(t, "b", totals.Lines[2].ProductID)
	for i, line := range totals.Lines {
		assert.Equal(t, i, line.Position)
	}
}

func TestCalculate_DiscountLargerThanLineCost(t *testing.T) {
	products := snapshot(catalogProduct("a", "Print A", "2.00", "5.00"))

	totals, err := Calculate([]LineRequest{{ProductID: "a", Quantity: 1}}, products, nil, TaxConfig{})
	require.NoError(t, err)

	// Discounts can push a line negative; the calculator reports what was
	// asked for and leaves policy to the caller.
	assert.True(t, totals.Lines[0].Total.Equal(decimal.RequireFromString("-3.00")))
}
