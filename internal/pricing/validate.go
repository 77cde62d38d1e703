package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidInput is wrapped by every validation error in this package.
var ErrInvalidInput = errors.New("invalid pricing input")

const (
	// MaxFractionDigits is the finest precision accepted on input amounts, percentages and quantities.
	MaxFractionDigits = 6
	// MaxIntegerDigits bounds the integer part of input values (below 10^12).
	MaxIntegerDigits  = 12
	// MaxItemQuantity caps the units of a single order line.
	MaxItemQuantity   = 100000
)

var inputLimit = decimal.New(1, MaxIntegerDigits)

// checkMagnitude rejects values outside the accepted input range. The exponent and coefficient
// are checked before any comparison so that values like 1e300000000 are never rescaled.
func checkMagnitude(v decimal.Decimal) error {
	exp := v.Exponent()
	if exp < -MaxFractionDigits {
		return fmt.Errorf("%w: %d decimal places max", ErrInvalidInput, MaxFractionDigits)
	}
	if exp > MaxIntegerDigits || v.Coefficient().BitLen() > 64 {
		return fmt.Errorf("%w: value out of range", ErrInvalidInput)
	}
	if v.Abs().GreaterThanOrEqual(inputLimit) {
		return fmt.Errorf("%w: value out of range %s", ErrInvalidInput, v)
	}
	return nil
}

// ValidateMaterialLines rejects negative costs, non-positive quantities and out-of-range values.
func ValidateMaterialLines(lines []MaterialLine) error {
	for i, line := range lines {
		if err := ValidateCost(line.Cost); err != nil {
			return fmt.Errorf("material %d: %w", i, err)
		}
		if err := ValidateMaterialQuantity(line.Quantity); err != nil {
			return fmt.Errorf("material %d: %w", i, err)
		}
	}
	return nil
}

func ValidateCost(cost decimal.Decimal) error {
	if err := checkMagnitude(cost); err != nil {
		return err
	}
	if cost.IsNegative() {
		return fmt.Errorf("%w: negative cost %s", ErrInvalidInput, cost)
	}
	return nil
}

func ValidateMaterialQuantity(quantity decimal.Decimal) error {
	if err := checkMagnitude(quantity); err != nil {
		return err
	}
	if !quantity.IsPositive() {
		return fmt.Errorf("%w: quantity must be above 0, got %s", ErrInvalidInput, quantity)
	}
	return nil
}

func ValidateProfit(profitPercentage decimal.Decimal) error {
	if err := checkMagnitude(profitPercentage); err != nil {
		return err
	}
	if profitPercentage.IsNegative() {
		return fmt.Errorf("%w: negative profit percentage %s", ErrInvalidInput, profitPercentage)
	}
	return nil
}

func ValidateQuantity(quantity int) error {
	if quantity <= 0 || quantity > MaxItemQuantity {
		return fmt.Errorf("%w: quantity must be between 1 and %d, got %d", ErrInvalidInput, MaxItemQuantity, quantity)
	}
	return nil
}

func ValidateShipping(shippingCost decimal.Decimal) error {
	if err := checkMagnitude(shippingCost); err != nil {
		return err
	}
	if shippingCost.IsNegative() {
		return fmt.Errorf("%w: negative shipping cost %s", ErrInvalidInput, shippingCost)
	}
	return nil
}
