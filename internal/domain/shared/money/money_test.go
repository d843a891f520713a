package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m, err := New(1050, "eur")
	require.NoError(t, err)
	assert.Equal(t, Money{Cents: 1050, Currency: "EUR"}, m)

	_, err = New(100, "EURO")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestAdd(t *testing.T) {
	a := Must(100, "EUR")
	b := Must(250, "EUR")
	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(350), sum.Cents)

	_, err = a.Add(Must(100, "USD"))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	_, err = a.Add(Money{})
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestMultiply(t *testing.T) {
	assert.Equal(t, int64(900), Must(300, "EUR").Multiply(3).Cents)
}

func TestString(t *testing.T) {
	assert.Equal(t, "10.05 EUR", Must(1005, "EUR").String())
	assert.Equal(t, "0.07 EUR", Must(7, "EUR").String())
	assert.Equal(t, "-1.50 EUR", Must(-150, "EUR").String())
	assert.Equal(t, "-0.50 EUR", Must(-50, "EUR").String())
}
