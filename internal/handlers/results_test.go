package handlers

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DimasAjiNarindra/mouse-recommender/internal/images"
	"github.com/DimasAjiNarindra/mouse-recommender/internal/recommend"
)

func TestBuildCardFormatsValues(t *testing.T) {
	rec := recommend.Record{
		Rank:            2,
		Name:            "Razer Viper Mini",
		Brand:           "Razer",
		Price:           recommend.NumberValue(449000),
		SimilarityScore: recommend.NumberValue(0.87654),
		Specs: recommend.Specs{
			DPI:         recommend.StringValue("8,500"),
			PollingRate: recommend.NumberValue(1000),
			Connection:  recommend.StringValue("Wired"),
		},
	}
	card := BuildCard(rec, ImageView{})

	assert.Equal(t, "Rp449.000", card.Price)
	assert.Equal(t, "0.877", card.Score)
	specs := map[string]string{}
	for _, s := range card.Specs {
		specs[s.LabelKey] = s.Value
	}
	assert.Equal(t, "8,500 DPI", specs["spec.dpi"])
	assert.Equal(t, "1000 Hz", specs["spec.polling_rate"])
	assert.Equal(t, "Wired", specs["spec.connection"])
	assert.Equal(t, "N/A", specs["spec.battery"])
	assert.Len(t, card.Specs, 8)
}

func TestDeferredImageCarriesGeneration(t *testing.T) {
	b := images.NewBuilder("img/", ".jpeg", "default-mouse.png")
	view := DeferredImage(b, images.Product{Name: "Logitech G Pro X Superlight", Brand: "Logitech"}, 3, 7, "/recommendations/image")

	assert.Equal(t, "img/logitech-g-pro-x-superlight.jpeg", view.Src)
	require.True(t, strings.HasPrefix(view.FallbackURL, "/recommendations/image?"))
	u, err := url.Parse(view.FallbackURL)
	require.NoError(t, err)
	assert.Equal(t, "7", u.Query().Get("gen"))
	assert.Equal(t, "3", u.Query().Get("rank"))
	assert.Equal(t, "zoom-3", view.ZoomID)
	assert.Equal(t, "Logitech", u.Query().Get("brand"))
	assert.Equal(t, "Logitech G Pro X Superlight", u.Query().Get("name"))
}

func TestResolvedImage(t *testing.T) {
	assert.True(t, ResolvedImage(images.Result{Exhausted: true}, "x", 1).Placeholder)
	v := ResolvedImage(images.Result{Candidate: images.Candidate{Filename: "a.jpeg", URL: "img/a.jpeg"}}, "x", 2)
	assert.False(t, v.Placeholder)
	assert.Equal(t, "img/a.jpeg", v.Src)
	assert.Equal(t, "zoom-2", v.ZoomID)
	assert.Empty(t, v.FallbackURL, "resolved images never re-trigger the fallback")
}

func TestProductListSkipsPlaceholderImagesAndMissingPrices(t *testing.T) {
	recs := []recommend.Record{
		{Rank: 1, Name: "Razer Viper Mini", Brand: "Razer", Price: recommend.NumberValue(449000)},
		{Rank: 2, Name: "Mystery Mouse", Price: recommend.StringValue("n/a")},
		{Rank: 3, Name: "Logitech G Pro X Superlight", Brand: "Logitech", Price: recommend.StringValue("Rp 1,899,000")},
	}
	cards := []Card{
		{Image: ImageView{Src: "img/razer-viper-mini.jpeg"}},
		{Image: ImageView{Placeholder: true}},
		{Image: ImageView{Placeholder: true}},
	}

	items := ProductList(recs, cards)
	require.Len(t, items, 3)
	assert.Equal(t, "449000", items[0].Price)
	assert.Equal(t, "img/razer-viper-mini.jpeg", items[0].Image)
	assert.Empty(t, items[1].Price)
	assert.Empty(t, items[1].Image)
	assert.Equal(t, "1899000", items[2].Price)
}

func TestBuildCardFromTextValues(t *testing.T) {
	rec := recommend.Record{
		Rank:            1,
		Name:            "Logitech G Pro X Superlight",
		Price:           recommend.StringValue("Rp 1,899,000"),
		SimilarityScore: recommend.StringValue("0.988"),
		Specs: recommend.Specs{
			DPI:     recommend.StringValue("25,600"),
			Weight:  recommend.StringValue("63g"),
			Buttons: recommend.NumberValue(5),
		},
	}
	card := BuildCard(rec, ImageView{})

	assert.Equal(t, "Rp1.899.000", card.Price)
	assert.Equal(t, "0.988", card.Score)
	specs := map[string]string{}
	for _, s := range card.Specs {
		specs[s.LabelKey] = s.Value
	}
	assert.Equal(t, "25,600 DPI", specs["spec.dpi"])
	assert.Equal(t, "63g", specs["spec.weight"])
	assert.Equal(t, "5", specs["spec.buttons"])
}
