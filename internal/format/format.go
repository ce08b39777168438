package format

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotAvailable is rendered for missing values.
const NotAvailable = "N/A"

var (
	idPrinter = message.NewPrinter(language.Indonesian)
	enPrinter = message.NewPrinter(language.English)
)

// Value is a backend attribute that arrived either as text or as a JSON number.
type Value interface {
	String() string
	IsNumber() bool
	Float() (float64, bool)
}

// missing reports values that render as N/A: null, blank text and numeric zero.
func missing(v Value) bool {
	if v.IsNumber() {
		f, ok := v.Float()
		return !ok || f == 0
	}
	return strings.TrimSpace(v.String()) == ""
}

// Amount extracts the integer part of v. Numbers are truncated toward zero; text keeps
// only its ASCII digits, so "Rp 1,899,000" yields 1899000.
func Amount(v Value) (int64, bool) {
	if v.IsNumber() {
		f, ok := v.Float()
		if !ok {
			return 0, false
		}
		f = math.Abs(math.Trunc(f))
		if f >= math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	}
	return digitsInt(v.String())
}

// Price formats a rupiah amount with Indonesian grouping and no fraction digits.
// Example: 500000.0 => "Rp500.000". Text without digits is returned as is.
func Price(v Value) string {
	if missing(v) {
		return NotAvailable
	}
	n, ok := Amount(v)
	if !ok {
		return strings.TrimSpace(v.String())
	}
	return "Rp" + idPrinter.Sprintf("%d", n)
}

// DPI regroups the amount: "12,000" => "12,000 DPI".
func DPI(v Value) string {
	if missing(v) {
		return NotAvailable
	}
	n, ok := Amount(v)
	if !ok {
		return strings.TrimSpace(v.String())
	}
	return enPrinter.Sprintf("%d", n) + " DPI"
}

// PollingRate renders the amount followed by " Hz".
func PollingRate(v Value) string {
	if missing(v) {
		return NotAvailable
	}
	n, ok := Amount(v)
	if !ok {
		return strings.TrimSpace(v.String())
	}
	return strconv.FormatInt(n, 10) + " Hz"
}

// Spec returns the value as text or N/A.
func Spec(v Value) string {
	if missing(v) {
		return NotAvailable
	}
	return v.String()
}

// Score renders a similarity score with at most three decimals. Non-numeric text is
// shown unchanged.
func Score(v Value) string {
	if !v.IsNumber() && strings.TrimSpace(v.String()) == "" {
		return NotAvailable
	}
	f, ok := v.Float()
	if !ok {
		return strings.TrimSpace(v.String())
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return NotAvailable
	}
	return strconv.FormatFloat(math.Round(f*1000)/1000, 'f', -1, 64)
}

// Number groups n for lang ("id" uses dots, everything else commas).
func Number(n int64, lang string) string {
	if strings.EqualFold(lang, "id") {
		return idPrinter.Sprintf("%d", n)
	}
	return enPrinter.Sprintf("%d", n)
}

// digitsInt keeps only the ASCII digits of s and parses them.
func digitsInt(s string) (int64, bool) {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
