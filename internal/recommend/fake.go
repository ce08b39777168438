package recommend

import (
	"strings"

	"github.com/DimasAjiNarindra/mouse-recommender/internal/preferences"
)

const (
	fakeTopN         = 5
	fakeEmptyMessage = "No recommendations found matching your criteria. Try adjusting your preferences."
)

type fakeMouse struct {
	name, brand, category, connection, size, shape string
	price, dpi, buttons, pollingRate              int
	weight                                        float64
	battery                                       string
	link                                          string
}

var fakeCatalog = []fakeMouse{
	{"Logitech G Pro X Superlight", "Logitech", "Gaming", "Wireless", "Medium", "Symmetrical", 1899000, 25600, 5, 1000, 63, "70 hours", "https://www.logitechg.com/"},
	{"Logitech G502 Hero", "Logitech", "Gaming", "Wired", "Large", "Ergonomic", 749000, 25600, 11, 1000, 121, "", ""},
	{"Logitech MX Master 3S", "Logitech", "Office", "Wireless", "Large", "Ergonomic", 1599000, 8000, 7, 125, 141, "70 days", "https://www.logitech.com/"},
	{"Razer DeathAdder V3 Pro", "Razer", "Gaming", "Wireless", "Large", "Ergonomic", 2299000, 30000, 5, 1000, 64, "90 hours", "https://www.razer.com/"},
	{"Razer Viper Mini", "Razer", "Gaming", "Wired", "Small", "Symmetrical", 449000, 8500, 6, 1000, 61, "", ""},
	{"SteelSeries Rival 3", "SteelSeries", "Gaming", "Wired", "Medium", "Ergonomic", 399000, 8500, 6, 1000, 77, "", ""},
	{"Rexus Daxa Air II", "Rexus", "Gaming", "Wireless", "Medium", "Symmetrical", 459000, 16000, 6, 1000, 59, "50 hours", ""},
	{"Fantech Helios XD3", "Fantech", "Gaming", "Wireless", "Medium", "Symmetrical", 379000, 16000, 6, 1000, 68, "60 hours", ""},
	{"Microsoft Bluetooth Mouse", "Microsoft", "Office", "Bluetooth", "Small", "Symmetrical", 259000, 1000, 3, 125, 93, "12 months", ""},
}

func fakeOptions() Options {
	var o Options
	for _, m := range fakeCatalog {
		o.Brands = append(o.Brands, m.brand)
		o.Categories = append(o.Categories, m.category)
		o.Connections = append(o.Connections, m.connection)
		o.Sizes = append(o.Sizes, m.size)
		o.Shapes = append(o.Shapes, m.shape)
	}
	return o
}

// fakeRecommend filters the built-in catalog. It is demo data, not a ranking model.
func fakeRecommend(p preferences.Preferences) Response {
	var out []Record
	for _, m := range fakeCatalog {
		if !m.matches(p) {
			continue
		}
		out = append(out, m.record(len(out)+1))
		if len(out) == fakeTopN {
			break
		}
	}
	if len(out) == 0 {
		return Response{Recommendations: []Record{}, Message: fakeEmptyMessage}
	}
	return Response{Recommendations: out}
}

func (m fakeMouse) matches(p preferences.Preferences) bool {
	eq := func(want, have string) bool { return want == "" || strings.EqualFold(want, have) }
	if !eq(p.Brand, m.brand) || !eq(p.Category, m.category) || !eq(p.Connection, m.connection) ||
		!eq(p.Size, m.size) || !eq(p.Shape, m.shape) {
		return false
	}
	if p.PriceMax != nil && m.price > *p.PriceMax {
		return false
	}
	if p.DPIMin != nil && m.dpi < *p.DPIMin {
		return false
	}
	if p.Buttons != nil && m.buttons < *p.Buttons {
		return false
	}
	switch strings.ToLower(p.WeightPref) {
	case "light":
		return m.weight <= 70
	case "medium":
		return m.weight > 70 && m.weight <= 100
	case "heavy":
		return m.weight > 100
	}
	return true
}

func (m fakeMouse) record(rank int) Record {
	specs := Specs{
		Connection:  StringValue(m.connection),
		DPI:         NumberValue(float64(m.dpi)),
		Weight:      StringValue(NumberValue(m.weight).String() + " g"),
		Buttons:     NumberValue(float64(m.buttons)),
		Size:        StringValue(m.size),
		Shape:       StringValue(m.shape),
		PollingRate: NumberValue(float64(m.pollingRate)),
	}
	if m.battery != "" {
		specs.BatteryLife = StringValue(m.battery)
	}
	return Record{
		Rank:            rank,
		Name:            m.name,
		Brand:           m.brand,
		Price:           NumberValue(float64(m.price)),
		Specs:           specs,
		SimilarityScore: NumberValue(1 - float64(rank-1)*0.075),
		Link:            m.link,
	}
}
