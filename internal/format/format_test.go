package format

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

type text string

func (t text) String() string { return string(t) }
func (text) IsNumber() bool { return false }
func (t text) Float() (float64, bool) {
	f, err := strconv.ParseFloat(string(t), 64)
	return f, err == nil
}

type num float64

func (n num) String() string { return strconv.FormatFloat(float64(n), 'f', -1, 64) }
func (num) IsNumber() bool { return true }
func (n num) Float() (float64, bool) { return float64(n), true }

func TestPrice(t *testing.T) {
	assert.Equal(t, "Rp500.000", Price(text("500000")))
	assert.Equal(t, "Rp1.250.000", Price(text("Rp 1,250,000")))
	assert.Equal(t, "N/A", Price(text("")))
	assert.Equal(t, "Hubungi penjual", Price(text("Hubungi penjual")))
}

func TestPriceNumbersKeepTheirMagnitude(t *testing.T) {
	tests := []struct {
		in   num
		want string
	}{
		{500000, "Rp500.000"},
		{500000.0, "Rp500.000"},
		{1e6, "Rp1.000.000"},
		{499000.5, "Rp499.000"},
		{0, "N/A"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Price(tt.in), "price %v", float64(tt.in))
	}
}

func TestDPI(t *testing.T) {
	assert.Equal(t, "12,000 DPI", DPI(text("12,000")))
	assert.Equal(t, "25,600 DPI", DPI(text("25600")))
	assert.Equal(t, "12,000 DPI", DPI(num(12000.0)))
	assert.Equal(t, "N/A", DPI(text("")))
	assert.Equal(t, "adjustable", DPI(text("adjustable")))
}

func TestPollingRateAndSpec(t *testing.T) {
	assert.Equal(t, "1000 Hz", PollingRate(text("1000Hz")))
	assert.Equal(t, "1000 Hz", PollingRate(num(1000.0)))
	assert.Equal(t, "N/A", PollingRate(text(" ")))
	assert.Equal(t, "Wireless", Spec(text("Wireless")))
	assert.Equal(t, "N/A", Spec(text("")))
	assert.Equal(t, "N/A", Spec(num(0)))
	assert.Equal(t, "6", Spec(num(6)))
}

func TestScore(t *testing.T) {
	assert.Equal(t, "0.923", Score(num(0.92345)))
	assert.Equal(t, "1", Score(num(1)))
	assert.Equal(t, "0.5", Score(num(0.5)))
	assert.Equal(t, "0.988", Score(text("0.988")))
	assert.Equal(t, "tinggi", Score(text("tinggi")))
	assert.Equal(t, "N/A", Score(text("")))
}

func TestAmount(t *testing.T) {
	n, ok := Amount(text("Rp 1,899,000"))
	assert.True(t, ok)
	assert.Equal(t, int64(1899000), n)
	_, ok = Amount(text("n/a"))
	assert.False(t, ok)
}

func TestNumber(t *testing.T) {
	assert.Equal(t, "10.000", Number(10000, "id"))
	assert.Equal(t, "10,000", Number(10000, "en"))
}
