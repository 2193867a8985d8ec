package http

import "testing"

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		path    string
		pattern string
		want    map[string]string
		ok      bool
	}{
		{"/v1/hearings/abc/geojson", "/v1/hearings/:id/geojson", map[string]string{":id": "abc"}, true},
		{"/v1/hearings/abc/geometry", "/v1/hearings/:id/geojson", nil, false},
		{"/v1/hearings/abc", "/v1/hearings/:id/geojson", nil, false},
		{"/v1/hearings//geojson", "/v1/hearings/:id/geojson", nil, false},
	}
	for _, tc := range tests {
		got, ok := matchPattern(tc.path, tc.pattern)
		if ok != tc.ok {
			t.Errorf("matchPattern(%q, %q) ok = %v, want %v", tc.path, tc.pattern, ok, tc.ok)
			continue
		}
		if ok && got[":id"] != tc.want[":id"] {
			t.Errorf("matchPattern(%q) id = %q, want %q", tc.path, got[":id"], tc.want[":id"])
		}
	}

	if got := expandPattern("/v1/hearings/:id/geometry", map[string]string{":id": "abc"}); got != "/v1/hearings/abc/geometry" {
		t.Errorf("expandPattern = %q", got)
	}
}

func TestETagMatches(t *testing.T) {
	etag := `W/"abc"`
	for header, want := range map[string]bool{
		"":             false,
		`W/"abc"`:      true,
		`"abc"`:        true,
		`"x", W/"abc"`: true,
		"*":            true,
		`W/"other"`:    false,
	} {
		if got := etagMatches(header, etag); got != want {
			t.Errorf("etagMatches(%q) = %v, want %v", header, got, want)
		}
	}
}
