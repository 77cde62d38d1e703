package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// MaterialLine is one bill-of-materials entry: a material's unit cost and the quantity used.
type MaterialLine struct {
	Cost     decimal.Decimal
	Quantity decimal.Decimal
}

// OrderLine holds the inputs of one order item.
type OrderLine struct {
	ModelFinalPrice decimal.Decimal
	Surcharges      []decimal.Decimal
	Quantity        int
}

// ModelPrice is the derived pricing of a sofa model.
type ModelPrice struct {
	Base  decimal.Decimal
	Final decimal.Decimal
}

// LinePrice is the derived pricing of one order item.
type LinePrice struct {
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}

// OrderPrice groups the per-line snapshots and the roll-up of an order.
type OrderPrice struct {
	Lines    []LinePrice
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// BasePrice sums cost × quantity over a bill of materials. An empty list costs 0.
func BasePrice(lines []MaterialLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Cost.Mul(line.Quantity))
	}
	return total
}

// FinalPrice applies a profit percentage on top of a base price.
func FinalPrice(base, profitPercentage decimal.Decimal) decimal.Decimal {
	return base.Mul(hundred.Add(profitPercentage)).Shift(-2)
}

// LineUnitPrice adds the cost of the surcharge materials picked for an order line to the
// model's final price.
func LineUnitPrice(modelFinalPrice decimal.Decimal, surcharges []decimal.Decimal) decimal.Decimal {
	unit := modelFinalPrice
	for _, cost := range surcharges {
		unit = unit.Add(cost)
	}
	return unit
}

// LineTotal multiplies a unit price by the ordered quantity.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// OrderTotal sums line totals and adds the shipping cost.
func OrderTotal(lineTotals []decimal.Decimal, shippingCost decimal.Decimal) decimal.Decimal {
	return decimal.Sum(shippingCost, lineTotals...)
}

// PriceModel computes both derived prices of a sofa model from its bill of materials.
func PriceModel(lines []MaterialLine, profitPercentage decimal.Decimal) ModelPrice {
	base := BasePrice(lines)
	return ModelPrice{
		Base:  base,
		Final: FinalPrice(base, profitPercentage),
	}
}

// PriceOrder computes the snapshot prices of every line and the order total.
func PriceOrder(lines []OrderLine, shippingCost decimal.Decimal) OrderPrice {
	priced := make([]LinePrice, 0, len(lines))
	totals := make([]decimal.Decimal, 0, len(lines))
	for _, line := range lines {
		unit := LineUnitPrice(line.ModelFinalPrice, line.Surcharges)
		total := LineTotal(unit, line.Quantity)
		priced = append(priced, LinePrice{UnitPrice: unit, TotalPrice: total})
		totals = append(totals, total)
	}

	return OrderPrice{
		Lines:    priced,
		Subtotal: decimal.Sum(decimal.Zero, totals...),
		Shipping: shippingCost,
		Total:    OrderTotal(totals, shippingCost),
	}
}
