// Package numeric is the fixed-point arithmetic layer for everything that
// crosses a settlement boundary. Amounts, reserves and fee accumulators are
// decimals (or their canonical string form), never floats. Division keeps 40
// fractional digits and truncates toward zero, so chained mul/div on
// 64-bit-scale token amounts cannot drift upward.
package numeric

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits kept by Div and Sqrt.
const Places int32 = 40

// FeePerSharePlaces is the precision of the fee-per-share accumulator as it
// is persisted and serialized.
const FeePerSharePlaces int32 = 20

var ErrInvalidOperand = errors.New("invalid operand")

// Parse converts a canonical decimal string into a decimal value.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a decimal", ErrInvalidOperand, s)
	}
	return d, nil
}

// ParseUnsigned parses a decimal string and rejects negative values. Reserves,
// amounts, shares and fee accumulators all live in this domain.
func ParseUnsigned(s string) (decimal.Decimal, error) {
	d, err := Parse(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q is negative", ErrInvalidOperand, s)
	}
	return d, nil
}

// Div divides a by b, truncated toward zero at Places fractional digits.
// Division by zero is an InvalidOperand error, never NaN or infinity.
func Div(a, b decimal.Decimal) (decimal.Decimal, error) {
	if b.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: division by zero", ErrInvalidOperand)
	}
	q, _ := a.QuoRem(b, Places)
	return q, nil
}

// Floor truncates to the integer token unit. Operands are non-negative, so
// truncation toward zero and floor coincide.
func Floor(d decimal.Decimal) decimal.Decimal {
	return d.Truncate(0)
}

// IntSqrt returns floor(sqrt(floor(d))), computed exactly over integers.
func IntSqrt(d decimal.Decimal) (decimal.Decimal, error) {
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: square root of negative value", ErrInvalidOperand)
	}
	root := new(big.Int).Sqrt(d.Truncate(0).BigInt())
	return decimal.NewFromBigInt(root, 0), nil
}

// Sqrt returns the square root truncated at Places fractional digits. The
// intermediate runs at 256-bit binary precision, far beyond what survives the
// final truncation, before re-entering the decimal domain.
func Sqrt(d decimal.Decimal) (decimal.Decimal, error) {
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: square root of negative value", ErrInvalidOperand)
	}
	if d.IsZero() {
		return decimal.Zero, nil
	}
	f, _, err := big.ParseFloat(d.String(), 10, 256, big.ToZero)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrInvalidOperand, err)
	}
	root := new(big.Float).SetPrec(256).Sqrt(f)
	out, err := Parse(root.Text('f', int(Places)+2))
	if err != nil {
		return decimal.Zero, err
	}
	return out.Truncate(Places), nil
}
