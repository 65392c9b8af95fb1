package feed

import (
	"testing"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases host", "HTTP://Example.COM/a", "http://example.com/a"},
		{"strips fragment", "http://example.com/a#section", "http://example.com/a"},
		{"keeps path case", "http://example.com/Path/To/A", "http://example.com/Path/To/A"},
		{"keeps query", "http://example.com/a?b=C&d=e", "http://example.com/a?b=C&d=e"},
		{"keeps scheme", "https://example.com/a", "https://example.com/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeURL(tt.input)
			if got != tt.expected {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeURLUnparseable(t *testing.T) {
	raw := "http://exa mple.com/%zz"
	if got := NormalizeURL(raw); got != raw {
		t.Errorf("Expected unparseable URL to pass through unchanged, got: %s", got)
	}
}

func TestAddressInvariance(t *testing.T) {
	a := Address("HTTP://Example.com/a#frag")
	b := Address("http://example.com/a")

	if a != b {
		t.Errorf("Expected equal addresses for equivalent links, got %s and %s", a, b)
	}
}

func TestAddressWidth(t *testing.T) {
	addr := Address("https://example.com/article")

	if len(addr) != 32 {
		t.Errorf("Expected 32 hex characters, got %d: %s", len(addr), addr)
	}
}

func TestAddressStable(t *testing.T) {
	// The mapping link -> address must be identical across runs; dedup
	// across process restarts depends on it.
	addr := Address("https://example.com/a")
	expected := Address("https://example.com/a")

	if addr != expected {
		t.Errorf("Expected stable address, got %s then %s", addr, expected)
	}

	other := Address("https://example.com/b")
	if addr == other {
		t.Error("Expected distinct links to produce distinct addresses")
	}
}
