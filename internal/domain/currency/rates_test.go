package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable() *Table {
	return NewTable([]ExchangeRate{
		{Code: "USD", Name: "US Dollar", Rate: decimal.NewFromInt(1)},
		{Code: "IDR", Name: "Indonesian Rupiah", Rate: decimal.NewFromInt(15000)},
		{Code: "EUR", Name: "Euro", Rate: decimal.NewFromFloat(0.92)},
		{Code: "JPY", Name: "Japanese Yen", Rate: decimal.NewFromFloat(149.5)},
	})
}

func TestTable_Convert(t *testing.T) {
	table := testTable()

	tests := []struct {
		name   string
		amount decimal.Decimal
		code   string
		want   decimal.Decimal
	}{
		{"base currency is identity", decimal.NewFromInt(95), "USD", decimal.NewFromInt(95)},
		{"exact multiplication", decimal.NewFromInt(95), "IDR", decimal.NewFromInt(1425000)},
		{"minor units rounded to 2", decimal.NewFromFloat(49.99), "EUR", decimal.NewFromFloat(45.99)},
		{"zero-digit currency rounds whole", decimal.NewFromFloat(10.10), "JPY", decimal.NewFromInt(1510)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.Convert(tt.amount, tt.code)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

func TestTable_Convert_UnknownCurrency(t *testing.T) {
	_, err := testTable().Convert(decimal.NewFromInt(10), "XXX")
	assert.Error(t, err)
}

func TestTable_SetRate(t *testing.T) {
	table := testTable()

	require.NoError(t, table.SetRate("IDR", decimal.NewFromInt(16000)))
	r, err := table.Get("IDR")
	require.NoError(t, err)
	assert.True(t, r.Rate.Equal(decimal.NewFromInt(16000)))
}

func TestTable_SetRate_Rejections(t *testing.T) {
	table := testTable()

	// Base currency is locked
	assert.Error(t, table.SetRate(BaseCurrency, decimal.NewFromInt(2)))

	// Non-positive rates rejected
	assert.Error(t, table.SetRate("IDR", decimal.Zero))
	assert.Error(t, table.SetRate("IDR", decimal.NewFromInt(-1)))

	// Unknown code rejected
	assert.Error(t, table.SetRate("XXX", decimal.NewFromInt(5)))
}

func TestNewTable_EnsuresBaseCurrency(t *testing.T) {
	table := NewTable(nil)
	r, err := table.Get(BaseCurrency)
	require.NoError(t, err)
	assert.True(t, r.Rate.Equal(decimal.NewFromInt(1)))
}
