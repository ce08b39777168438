package seo

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONEscapesScriptBreakout(t *testing.T) {
	out := string(JSON(map[string]any{"name": "</script><script>alert(1)</script>"}))
	assert.False(t, strings.Contains(out, "</script>"))
	assert.Contains(t, out, `\u003c/script\u003e`)
}

func TestItemListPositionsAndOffers(t *testing.T) {
	list := ItemList("Recommendations", []ProductItem{
		{Name: "Razer Viper Mini", Brand: "Razer", Price: "449000", Image: "img/razer-viper-mini.jpeg"},
		{Name: "Unknown"},
	})

	var decoded struct {
		Type     string `json:"@type"`
		Count    int    `json:"numberOfItems"`
		Elements []struct {
			Position int            `json:"position"`
			Item     map[string]any `json:"item"`
		} `json:"itemListElement"`
	}
	require.NoError(t, json.Unmarshal([]byte(JSON(list)), &decoded))

	assert.Equal(t, "ItemList", decoded.Type)
	assert.Equal(t, 2, decoded.Count)
	require.Len(t, decoded.Elements, 2)
	assert.Equal(t, 1, decoded.Elements[0].Position)
	assert.Equal(t, 2, decoded.Elements[1].Position)

	offers, ok := decoded.Elements[0].Item["offers"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "IDR", offers["priceCurrency"])
	assert.NotContains(t, decoded.Elements[1].Item, "offers")
	assert.NotContains(t, decoded.Elements[1].Item, "brand")
}

func TestWebSiteOmitsEmptyFields(t *testing.T) {
	m := WebSite("Mouse Recommender", "", "en")
	assert.NotContains(t, m, "url")
	assert.Equal(t, "en", m["inLanguage"])
}
