package preferences

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DimasAjiNarindra/mouse-recommender/internal/config"
)

var bounds = config.ValidationConfig{
	PriceMax: config.Bound{Min: 0, Step: 10000},
	DPIMin:   config.Bound{Min: 800, Step: 100},
	Buttons:  config.Bound{Min: 2, Max: 20},
}

func TestFromFormIncludesOnlyProvidedFields(t *testing.T) {
	form := url.Values{
		"brand":       {"Logitech"},
		"category":    {""},
		"connection":  {" Wireless "},
		"weight_pref": {"light"},
		"price_max":   {"500000"},
		"dpi_min":     {""},
		"buttons":     {"6"},
	}
	p, raw, errs := FromForm(form, bounds)
	require.True(t, errs.Empty(), "unexpected errors: %v", errs)
	assert.Equal(t, "Wireless", raw.Get("connection"))

	body, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"brand":"Logitech","connection":"Wireless","weight_pref":"light","price_max":500000,"buttons":6}`, string(body))
}

func TestZeroPriceIsKept(t *testing.T) {
	p, _, errs := FromForm(url.Values{"price_max": {"0"}}, bounds)
	require.True(t, errs.Empty())
	body, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"price_max":0}`, string(body))
}

func TestFromFormReportsFieldErrors(t *testing.T) {
	form := url.Values{
		"price_max": {"-1"},
		"dpi_min":   {"abc"},
		"buttons":   {"42"},
	}
	_, raw, errs := FromForm(form, bounds)
	require.Equal(t, []string{"buttons", "dpi_min", "price_max"}, errs.Fields())
	assert.Equal(t, FieldError{Field: "buttons", Code: CodeTooLarge, Limit: 20}, errs["buttons"])
	assert.Equal(t, CodeNotNumber, errs["dpi_min"].Code)
	assert.Equal(t, FieldError{Field: "price_max", Code: CodeTooSmall, Limit: 0}, errs["price_max"])
	assert.Equal(t, "abc", raw.Get("dpi_min"), "raw input is kept for re-rendering")
}

func TestEmptyFormIsEmpty(t *testing.T) {
	p, _, errs := FromForm(url.Values{}, bounds)
	assert.True(t, errs.Empty())
	assert.True(t, p.IsEmpty())

	body, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(body))
}
