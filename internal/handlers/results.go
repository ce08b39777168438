package handlers

import (
	"net/url"
	"strconv"

	"github.com/DimasAjiNarindra/mouse-recommender/internal/format"
	"github.com/DimasAjiNarindra/mouse-recommender/internal/images"
	"github.com/DimasAjiNarindra/mouse-recommender/internal/recommend"
	"github.com/DimasAjiNarindra/mouse-recommender/internal/seo"
)

// ResultsView is the recommendations container: cards, the empty state or the error panel.
type ResultsView struct {
	App     AppState
	Cards   []Card
	Message string
	Error   string
}

// Empty reports whether the empty state should be shown.
func (r ResultsView) Empty() bool { return r.Error == "" && len(r.Cards) == 0 }

// Card is one rendered recommendation.
type Card struct {
	Rank  int
	Name  string
	Brand string
	Price string
	Score string
	Link  string
	Specs []SpecRow
	Image ImageView
}

// SpecRow is a labelled spec line. LabelKey is an i18n key.
type SpecRow struct {
	LabelKey string
	Value    string
}

// ImageView describes the image area of a card. When Placeholder is set no <img> is rendered.
type ImageView struct {
	Src         string
	Alt         string
	Placeholder bool
	// FallbackURL is set for optimistic images; htmx requests it once if the image fails.
	FallbackURL string
	// ZoomID is the id of the enlarged-image popover.
	ZoomID string
}

func zoomID(rank int) string { return "zoom-" + strconv.Itoa(rank) }

// BuildCard formats a record for display.
func BuildCard(rec recommend.Record, img ImageView) Card {
	s := rec.Specs
	return Card{
		Rank:  rec.Rank,
		Name:  rec.Name,
		Brand: rec.Brand,
		Price: format.Price(rec.Price),
		Score: format.Score(rec.SimilarityScore),
		Link:  rec.Link,
		Specs: []SpecRow{
			{LabelKey: "spec.connection", Value: format.Spec(s.Connection)},
			{LabelKey: "spec.dpi", Value: format.DPI(s.DPI)},
			{LabelKey: "spec.weight", Value: format.Spec(s.Weight)},
			{LabelKey: "spec.buttons", Value: format.Spec(s.Buttons)},
			{LabelKey: "spec.size", Value: format.Spec(s.Size)},
			{LabelKey: "spec.shape", Value: format.Spec(s.Shape)},
			{LabelKey: "spec.battery", Value: format.Spec(s.BatteryLife)},
			{LabelKey: "spec.polling_rate", Value: format.PollingRate(s.PollingRate)},
		},
		Image: img,
	}
}

// ProductOf maps a record to the fields the image candidates are derived from.
func ProductOf(rec recommend.Record) images.Product {
	return images.Product{Name: rec.Name, Brand: rec.Brand, Image: rec.Image}
}

// DeferredImage renders the primary candidate optimistically; on load error htmx asks
// fallbackPath for the rest of the chain.
func DeferredImage(b images.Builder, p images.Product, rank int, gen uint64, fallbackPath string) ImageView {
	src := b.Primary(p)
	if src.IsZero() {
		src = b.PlaceholderCandidate()
	}
	q := url.Values{}
	q.Set("gen", strconv.FormatUint(gen, 10))
	q.Set("rank", strconv.Itoa(rank))
	q.Set("name", p.Name)
	if p.Brand != "" {
		q.Set("brand", p.Brand)
	}
	if p.Image != "" {
		q.Set("image", p.Image)
	}
	return ImageView{Src: src.URL, Alt: p.Name, FallbackURL: fallbackPath + "?" + q.Encode(), ZoomID: zoomID(rank)}
}

// ResolvedImage renders the outcome of a resolved chain: a plain image or the placeholder block.
func ResolvedImage(res images.Result, alt string, rank int) ImageView {
	if res.Exhausted {
		return ImageView{Alt: alt, Placeholder: true}
	}
	return ImageView{Src: res.Candidate.URL, Alt: alt, ZoomID: zoomID(rank)}
}

// ProductList converts ranked records and their rendered cards into ItemList entries.
func ProductList(recs []recommend.Record, cards []Card) []seo.ProductItem {
	out := make([]seo.ProductItem, 0, len(recs))
	for i, rec := range recs {
		it := seo.ProductItem{Name: rec.Name, Brand: rec.Brand, URL: rec.Link}
		if i < len(cards) && !cards[i].Image.Placeholder {
			it.Image = cards[i].Image.Src
		}
		if n, ok := format.Amount(rec.Price); ok && n > 0 {
			it.Price = strconv.FormatInt(n, 10)
		}
		out = append(out, it)
	}
	return out
}
