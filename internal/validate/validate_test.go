package validate

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCurrency(t *testing.T) {
	c, ok := Currency(" inr ")
	assert.True(t, ok)
	assert.Equal(t, "INR", c)

	_, ok = Currency("RUPEE")
	assert.False(t, ok)
}

func TestHSN(t *testing.T) {
	_, ok := HSN("")
	assert.True(t, ok, "empty code is allowed")
	_, ok = HSN("0910")
	assert.True(t, ok)
	_, ok = HSN("09A0")
	assert.False(t, ok)
}

func TestSKU(t *testing.T) {
	_, ok := SKU("TEA-500G.v2")
	assert.True(t, ok)
	_, ok = SKU("has space")
	assert.False(t, ok)
	_, ok = SKU("")
	assert.False(t, ok)
}

func TestLimit(t *testing.T) {
	assert.Equal(t, 25, Limit("", 25, 100))
	assert.Equal(t, 25, Limit("-3", 25, 100))
	assert.Equal(t, 7, Limit("7", 25, 100))
	assert.Equal(t, 100, Limit("5000", 25, 100))
}

func TestName(t *testing.T) {
	n, ok := Name("  Darjeeling Tea ", 50)
	assert.True(t, ok)
	assert.Equal(t, "Darjeeling Tea", n)
	_, ok = Name("   ", 50)
	assert.False(t, ok)
}

func TestNumeric(t *testing.T) {
	cases := []struct {
		in         string
		prec, scal int32
		want       bool
	}{
		{"12.50", 12, 2, true},
		{"0.005", 12, 2, false},
		{"9999999999.99", 12, 2, true},
		{"10000000000", 12, 2, false},
		{"0.000001", 18, 6, true},
		{"0.0000001", 18, 6, false},
		{"12.345", 5, 2, false},
		{"100", 5, 2, true},
		{"-3.10", 12, 2, true},
	}
	for _, tc := range cases {
		got := Numeric(decimal.RequireFromString(tc.in), tc.prec, tc.scal)
		assert.Equal(t, tc.want, got, "%s as NUMERIC(%d,%d)", tc.in, tc.prec, tc.scal)
	}
}

func TestQuantity(t *testing.T) {
	assert.True(t, Quantity(0))
	assert.True(t, Quantity(MaxStock))
	assert.False(t, Quantity(-1))
	assert.False(t, Quantity(MaxStock+1))
	assert.False(t, Quantity(math.MinInt64))
}
