package order

import (
	"errors"
	"strings"

	"fooddispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Item is one line of an order.
type Item struct {
	ItemID              string
	Name                string
	Quantity            int
	Price               decimal.Decimal
	SpecialInstructions string
}

// NewItem validates an order line.
func NewItem(itemID, name string, quantity int, price decimal.Decimal, instructions string) (Item, error) {
	item := Item{
		ItemID:              strings.TrimSpace(itemID),
		Name:                strings.TrimSpace(name),
		Quantity:            quantity,
		Price:               price,
		SpecialInstructions: strings.TrimSpace(instructions),
	}
	if err := item.Validate(); err != nil {
		return Item{}, err
	}
	return item, nil
}

// Validate checks identifiers, a positive quantity and a non-negative price.
func (i Item) Validate() error {
	var result []error
	if i.ItemID == "" {
		result = append(result, errs.NewValueIsRequiredError("itemId"))
	}
	if i.Quantity <= 0 {
		result = append(result, errs.NewValueIsOutOfRangeError("quantity", i.Quantity, 1, "∞"))
	}
	if i.Price.IsNegative() {
		result = append(result, errs.NewValueIsInvalidError("price"))
	}
	return errors.Join(result...)
}

// Subtotal is quantity × price.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Total sums the subtotals of items.
func Total(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}
