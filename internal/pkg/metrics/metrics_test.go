package metrics

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		"/v1/hearings":              "/v1/hearings",
		"/v1/hearings/abc/geometry": "/v1/hearings/:id",
		"/v1/editor/1234/created":   "/v1/editor/:session",
		"/v1/map/config":            "/v1/map/config",
		"/graphql":                  "/graphql",
		"/wp-admin/install.php":     "other",
	}
	for in, want := range tests {
		if got := normalizePath(in); got != want {
			t.Errorf("normalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}
