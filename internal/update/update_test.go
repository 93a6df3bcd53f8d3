package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		current string
		want    string // "" means nil result
	}{
		{"newer available", http.StatusOK, `{"tag_name":"v1.2.0"}`, "1.0.0", "1.2.0"},
		{"already latest", http.StatusOK, `{"tag_name":"v1.0.0"}`, "1.0.0", ""},
		{"v prefix on current", http.StatusOK, `{"tag_name":"v1.2.0"}`, "v1.2.0", ""},
		{"empty tag", http.StatusOK, `{"tag_name":""}`, "1.0.0", ""},
		{"api error", http.StatusForbidden, ``, "1.0.0", ""},
		{"bad json", http.StatusOK, `{`, "1.0.0", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			got := check(context.Background(), srv.URL, tt.current)
			if tt.want == "" {
				if got != nil {
					t.Errorf("expected nil result, got %+v", got)
				}
				return
			}
			if got == nil || got.LatestVersion != tt.want {
				t.Errorf("got %+v, want latest %q", got, tt.want)
			}
		})
	}
}
