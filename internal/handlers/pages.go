package handlers

import "github.com/DimasAjiNarindra/mouse-recommender/internal/content"

// ContentData is the view model for markdown pages.
type ContentData struct {
	Layout
	Page content.Page
}

// ErrorData is the view model of the error page.
type ErrorData struct {
	Layout
	Status     int
	MessageKey string
}
