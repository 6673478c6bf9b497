package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"120", "120"},
		{"10.005", "10.01"},
		{"-10.005", "-10.01"},
		{"0.004", "0"},
		{"99.999", "100"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Round(decimal.RequireFromString(tt.in))
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestSum_NoFloatDrift(t *testing.T) {
	amounts := make([]decimal.Decimal, 0, 10)
	for i := 0; i < 10; i++ {
		amounts = append(amounts, decimal.RequireFromString("0.1"))
	}
	assert.True(t, Sum(amounts...).Equal(decimal.NewFromInt(1)))
	assert.True(t, Sum().IsZero())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "1,234.56", Format(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "0.00", Format(decimal.Zero))
	assert.Equal(t, "-20.50", Format(decimal.RequireFromString("-20.5")))
	assert.Equal(t, "-0.50", Format(decimal.RequireFromString("-0.5")))
	assert.Equal(t, "999.00", Format(decimal.NewFromInt(999)))
	assert.Equal(t, "1,000,000.01", Format(decimal.RequireFromString("1000000.005")))
}

func TestFormat_ExactBeyondFloatPrecision(t *testing.T) {
	assert.Equal(t, "90,071,992,547,409.99", Format(decimal.RequireFromString("90071992547409.99")))
	assert.Equal(t, "123,456,789,012,345,678,901.23", Format(decimal.RequireFromString("123456789012345678901.23")))
}

func TestParse(t *testing.T) {
	d, err := Parse("42.10")
	require.NoError(t, err)
	assert.Equal(t, "42.1", d.String())

	_, err = Parse("abc")
	assert.Error(t, err)
}
