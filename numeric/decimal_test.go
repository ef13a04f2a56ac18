package numeric

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnsigned(t *testing.T) {
	d, err := ParseUnsigned("123.456")
	require.NoError(t, err)
	assert.Equal(t, "123.456", d.String())

	_, err = ParseUnsigned("-1")
	assert.ErrorIs(t, err, ErrInvalidOperand)

	_, err = ParseUnsigned("not a number")
	assert.ErrorIs(t, err, ErrInvalidOperand)
}

func TestDivTruncatesTowardZero(t *testing.T) {
	a := decimal.NewFromInt(10)
	b := decimal.NewFromInt(3)

	q, err := Div(a, b)
	require.NoError(t, err)

	// 40 fractional digits of 10/3, truncated, never rounded up.
	assert.Equal(t, "3.3333333333333333333333333333333333333333", q.String())
}

func TestDivByZero(t *testing.T) {
	_, err := Div(decimal.NewFromInt(1), decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidOperand)
}

func TestDivExactQuotient(t *testing.T) {
	q, err := Div(decimal.NewFromInt(100), decimal.NewFromInt(4))
	require.NoError(t, err)
	assert.True(t, q.Equal(decimal.NewFromInt(25)))
}

func TestFloor(t *testing.T) {
	d, _ := decimal.NewFromString("9871.997")
	assert.Equal(t, "9871", Floor(d).String())

	whole := decimal.NewFromInt(42)
	assert.Equal(t, "42", Floor(whole).String())
}

func TestIntSqrt(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"1", "1"},
		{"4", "2"},
		{"15", "3"},
		{"16", "4"},
		{"1000000000000", "1000000"},
		{"999999999999", "999999"},
	}
	for _, c := range cases {
		d, _ := decimal.NewFromString(c.in)
		root, err := IntSqrt(d)
		require.NoError(t, err)
		assert.Equal(t, c.want, root.String(), "sqrt(%s)", c.in)
	}

	_, err := IntSqrt(decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, ErrInvalidOperand)
}

func TestSqrt(t *testing.T) {
	root, err := Sqrt(decimal.NewFromInt(4))
	require.NoError(t, err)
	assert.True(t, root.Equal(decimal.NewFromInt(2)))

	root, err = Sqrt(decimal.NewFromInt(2))
	require.NoError(t, err)
	// Truncated, so squaring can never exceed the radicand.
	assert.True(t, root.Mul(root).Cmp(decimal.NewFromInt(2)) <= 0)
	assert.Equal(t, "1.41421356", root.Truncate(8).String())

	root, err = Sqrt(decimal.Zero)
	require.NoError(t, err)
	assert.True(t, root.IsZero())

	_, err = Sqrt(decimal.NewFromInt(-9))
	assert.ErrorIs(t, err, ErrInvalidOperand)
}
