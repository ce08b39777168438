package handlers

import (
	"github.com/DimasAjiNarindra/mouse-recommender/internal/config"
	"github.com/DimasAjiNarindra/mouse-recommender/internal/preferences"
	"github.com/DimasAjiNarindra/mouse-recommender/internal/recommend"
)

// HomeData is the view model for the recommendation page.
type HomeData struct {
	Layout
	Form    FormView
	Results *ResultsView
}

// FormView carries everything the preferences form needs.
type FormView struct {
	Options      recommend.Options
	OptionsError bool
	Values       preferences.Values
	Errors       map[string]string
	Bounds       config.ValidationConfig
}

// Selected reports whether value is the submitted value of field.
func (f FormView) Selected(field, value string) bool {
	return f.Values != nil && f.Values.Get(field) == value
}

// Value returns the submitted raw value of field.
func (f FormView) Value(field string) string {
	if f.Values == nil {
		return ""
	}
	return f.Values.Get(field)
}

// Error returns the translated error message of field, "" when valid.
func (f FormView) Error(field string) string {
	return f.Errors[field]
}
