package images

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Logitech G Pro X Superlight": "logitech-g-pro-x-superlight",
		"  Razer  DeathAdder V3 Pro ": "razer-deathadder-v3-pro",
		"SteelSeries Rival 3 (2024)!": "steelseries-rival-3-2024",
		"--Zowie -- EC2--":            "zowie-ec2",
		"Pulsar X2 Mini / Wireless":   "pulsar-x2-mini-wireless",
		"???":                         "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slug(in), "Slug(%q)", in)
	}
}

func TestSlugOnlyContainsSafeCharacters(t *testing.T) {
	safe := regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	for _, in := range []string{"A  B", "a--b", "-a-", "Ünïcode Mouse 2", "tab\tand\nnewline", "x_y.z"} {
		got := Slug(in)
		assert.Regexp(t, safe, got, "Slug(%q)", in)
	}
}

func TestPrimaryAndFallbackForKnownProduct(t *testing.T) {
	b := NewBuilder("img/", ".jpeg", "default-mouse.png")
	p := Product{Name: "Logitech G Pro X Superlight", Brand: "Logitech"}

	assert.Equal(t, "img/logitech-g-pro-x-superlight.jpeg", b.Primary(p).URL)
	assert.Equal(t, []string{
		"img/logitech-logitech-g-pro-x-superlight.jpeg",
		"img/logitech-logitechgproxsuperlight.jpeg",
		"img/logitechgproxsuperlight.jpeg",
		"img/default-mouse.png",
	}, b.Fallback(p).URLs(), "name-hyphenated variant equals the primary and is skipped")
}

func TestExplicitImageWins(t *testing.T) {
	b := NewBuilder("", "", "")
	p := Product{Name: "Viper Mini", Brand: "Razer", Image: "razer viper mini.png"}

	assert.Equal(t, "img/razer%20viper%20mini.png", b.Primary(p).URL)
	assert.Equal(t, "razer viper mini.png", b.Primary(p).Filename)
	full := b.Full(p).URLs()
	require.Len(t, full, 6)
	assert.Equal(t, []string{
		"img/razer%20viper%20mini.png",
		"img/razer-viper-mini.jpeg",
		"img/razer-vipermini.jpeg",
		"img/viper-mini.jpeg",
		"img/vipermini.jpeg",
		"img/default-mouse.png",
	}, full)
}

func TestChainsAreDeduplicatedAndEndWithPlaceholder(t *testing.T) {
	b := NewBuilder("img", ".jpeg", "default-mouse.png")
	p := Product{Name: "G502", Brand: ""}

	full := b.Full(p)
	assert.Equal(t, []string{"img/g502.jpeg", "img/default-mouse.png"}, full.URLs())

	seen := map[string]bool{}
	for _, c := range b.Full(Product{Name: "Mx Master", Brand: "Logitech"}) {
		require.False(t, seen[c.URL], "duplicate %s", c.URL)
		seen[c.URL] = true
	}
}

func TestProductWithoutNameOnlyHasPlaceholder(t *testing.T) {
	b := NewBuilder("img/", ".jpeg", "default-mouse.png")
	assert.True(t, b.Primary(Product{Brand: "Razer"}).IsZero())
	assert.Equal(t, []string{"img/default-mouse.png"}, b.Full(Product{Brand: "Razer"}).URLs())
	assert.Empty(t, b.Fallback(Product{Brand: "Razer"}), "the placeholder was already the primary")
}
