// Package preferences extracts and validates the recommendation form.
package preferences

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/DimasAjiNarindra/mouse-recommender/internal/config"
)

// Form field names, shared by the HTML form and the JSON body sent to the backend.
const (
	FieldBrand      = "brand"
	FieldCategory   = "category"
	FieldConnection = "connection"
	FieldSize       = "size"
	FieldShape      = "shape"
	FieldWeightPref = "weight_pref"
	FieldPriceMax   = "price_max"
	FieldDPIMin     = "dpi_min"
	FieldButtons    = "buttons"
)

// Preferences is the request body of POST /api/recommendations. Only provided fields are encoded.
type Preferences struct {
	Brand      string `json:"brand,omitempty"`
	Category   string `json:"category,omitempty"`
	Connection string `json:"connection,omitempty"`
	Size       string `json:"size,omitempty"`
	Shape      string `json:"shape,omitempty"`
	WeightPref string `json:"weight_pref,omitempty"`
	PriceMax   *int   `json:"price_max,omitempty"`
	DPIMin     *int   `json:"dpi_min,omitempty"`
	Buttons    *int   `json:"buttons,omitempty"`
}

// Error codes carried by FieldError.
const (
	CodeNotNumber = "number"
	CodeTooSmall  = "min"
	CodeTooLarge  = "max"
)

type FieldError struct {
	Field string `json:"field"`
	Code  string `json:"code"`
	Limit int    `json:"limit,omitempty"`
}

// FieldErrors is keyed by form field name.
type FieldErrors map[string]FieldError

func (fe FieldErrors) Empty() bool { return len(fe) == 0 }

// Fields returns the failing field names in stable order.
func (fe FieldErrors) Fields() []string {
	out := make([]string, 0, len(fe))
	for k := range fe {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Values keeps the raw submitted strings so the form can be re-rendered as typed.
type Values map[string]string

func (v Values) Get(field string) string { return v[field] }

// FromForm reads the submitted form. Empty fields are left out, integer fields are
// parsed and checked against bounds.
func FromForm(form url.Values, bounds config.ValidationConfig) (Preferences, Values, FieldErrors) {
	var p Preferences
	raw := Values{}
	errs := FieldErrors{}

	str := func(field string, dst *string) {
		v := strings.TrimSpace(form.Get(field))
		raw[field] = v
		*dst = v
	}
	str(FieldBrand, &p.Brand)
	str(FieldCategory, &p.Category)
	str(FieldConnection, &p.Connection)
	str(FieldSize, &p.Size)
	str(FieldShape, &p.Shape)
	str(FieldWeightPref, &p.WeightPref)

	num := func(field string) *int {
		v := strings.TrimSpace(form.Get(field))
		raw[field] = v
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs[field] = FieldError{Field: field, Code: CodeNotNumber}
			return nil
		}
		return &n
	}
	p.PriceMax = num(FieldPriceMax)
	p.DPIMin = num(FieldDPIMin)
	p.Buttons = num(FieldButtons)

	for k, v := range p.Validate(bounds) {
		errs[k] = v
	}
	return p, raw, errs
}

// Validate checks the integer fields against bounds. A zero Max means no upper bound.
func (p Preferences) Validate(bounds config.ValidationConfig) FieldErrors {
	errs := FieldErrors{}
	check := func(field string, v *int, b config.Bound) {
		if v == nil {
			return
		}
		switch {
		case *v < b.Min:
			errs[field] = FieldError{Field: field, Code: CodeTooSmall, Limit: b.Min}
		case b.Max != 0 && *v > b.Max:
			errs[field] = FieldError{Field: field, Code: CodeTooLarge, Limit: b.Max}
		}
	}
	check(FieldPriceMax, p.PriceMax, bounds.PriceMax)
	check(FieldDPIMin, p.DPIMin, bounds.DPIMin)
	check(FieldButtons, p.Buttons, bounds.Buttons)
	return errs
}

// Normalize trims string fields in place, used for JSON bodies.
func (p *Preferences) Normalize() {
	for _, s := range []*string{&p.Brand, &p.Category, &p.Connection, &p.Size, &p.Shape, &p.WeightPref} {
		*s = strings.TrimSpace(*s)
	}
}

// IsEmpty reports whether no preference was given at all.
func (p Preferences) IsEmpty() bool {
	return p.Brand == "" && p.Category == "" && p.Connection == "" && p.Size == "" &&
		p.Shape == "" && p.WeightPref == "" && p.PriceMax == nil && p.DPIMin == nil && p.Buttons == nil
}
