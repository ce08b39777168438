package nav

import "testing"

func TestBuildMarksActive(t *testing.T) {
	cases := map[string]string{
		"/":                "/",
		"/recommendations": "/",
		"/about":           "/about",
		"/about/team":      "/about",
	}
	for path, want := range cases {
		var active []string
		for _, it := range Build(path) {
			if it.Active {
				active = append(active, it.Href)
			}
		}
		if len(active) != 1 || active[0] != want {
			t.Fatalf("Build(%q) active = %v, want [%s]", path, active, want)
		}
	}
}
