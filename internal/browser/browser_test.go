package browser

import "testing"

func TestOpenRejectsUnsafeSchemes(t *testing.T) {
	tests := []string{
		"file:///etc/passwd",
		"javascript:alert(1)",
		"ftp://example.com",
		"",
	}
	for _, raw := range tests {
		if err := Open(raw); err == nil {
			t.Errorf("Open(%q): expected error, got nil", raw)
		}
	}
}

func TestLauncherPerPlatform(t *testing.T) {
	tests := []struct {
		goos     string
		wantName string
	}{
		{"darwin", "open"},
		{"linux", "xdg-open"},
		{"windows", "rundll32"},
		{"freebsd", "xdg-open"},
	}
	for _, tt := range tests {
		name, args := launcher(tt.goos, "https://example.com")
		if name != tt.wantName {
			t.Errorf("launcher(%q) = %q, want %q", tt.goos, name, tt.wantName)
		}
		if args[len(args)-1] != "https://example.com" {
			t.Errorf("launcher(%q): URL not passed through: %v", tt.goos, args)
		}
	}
}
