package storage

import (
	"net/url"
	"testing"
)

func TestPublicURL(t *testing.T) {
	tests := []struct {
		base string
		key  string
		want string
	}{
		{"https://cdn.example.com/", "rankings/brasileirao.json", "https://cdn.example.com/rankings/brasileirao.json"},
		{"https://cdn.example.com/", "/rankings/brasileirao.json", "https://cdn.example.com/rankings/brasileirao.json"},
		{"https://cdn.example.com/public/", "rankings/x.json", "https://cdn.example.com/public/rankings/x.json"},
		{"https://cdn.example.com/", "", ""},
	}

	for _, tt := range tests {
		base, err := url.Parse(tt.base)
		if err != nil {
			t.Fatalf("url.Parse(%q): %v", tt.base, err)
		}
		if got := publicURL(base, tt.key); got != tt.want {
			t.Errorf("publicURL(%q, %q) = %q, want %q", tt.base, tt.key, got, tt.want)
		}
	}
}
