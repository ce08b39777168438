package recommend

import "strings"

// Options are the selectable form values served by GET /api/options.
type Options struct {
	Brands      []string `json:"brands"`
	Categories  []string `json:"categories"`
	Connections []string `json:"connections"`
	Sizes       []string `json:"sizes"`
	Shapes      []string `json:"shapes"`
}

// Missing lists the option fields the backend did not send.
func (o Options) Missing() []string {
	var out []string
	for _, f := range []struct {
		name string
		list []string
	}{
		{"brands", o.Brands},
		{"categories", o.Categories},
		{"connections", o.Connections},
		{"sizes", o.Sizes},
		{"shapes", o.Shapes},
	} {
		if f.list == nil {
			out = append(out, f.name)
		}
	}
	return out
}

// Deduped returns a copy with every list passed through Dedupe.
func (o Options) Deduped() Options {
	return Options{
		Brands:      Dedupe(o.Brands),
		Categories:  Dedupe(o.Categories),
		Connections: Dedupe(o.Connections),
		Sizes:       Dedupe(o.Sizes),
		Shapes:      Dedupe(o.Shapes),
	}
}

// Dedupe removes duplicates keeping first-seen order. Blank entries are dropped.
// A nil input stays nil so missing fields remain detectable.
func Dedupe(items []string) []string {
	if items == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it) == "" {
			continue
		}
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}

// Specs are the optional product attributes of a recommendation.
type Specs struct {
	Connection  Value `json:"connection"`
	DPI         Value `json:"dpi"`
	Weight      Value `json:"weight"`
	Buttons     Value `json:"buttons"`
	Size        Value `json:"size"`
	Shape       Value `json:"shape"`
	BatteryLife Value `json:"battery_life"`
	PollingRate Value `json:"polling_rate"`
}

// Record is one ranked recommendation. It is not modified after decoding.
type Record struct {
	Rank            int    `json:"rank"`
	Name            string `json:"name"`
	Brand           string `json:"brand"`
	Price           Value  `json:"price"`
	Image           string `json:"image,omitempty"`
	Specs           Specs  `json:"specs"`
	SimilarityScore Value  `json:"similarity_score"`
	Link            string `json:"link,omitempty"`
}

// Response is the body of POST /api/recommendations.
type Response struct {
	Recommendations []Record `json:"recommendations"`
	Message         string   `json:"message,omitempty"`
}
