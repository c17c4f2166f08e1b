package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Vegetarian meals please", "Vegetarian meals please"},
		{"collapse inner spaces", "Window   seat", "Window seat"},
		{"tabs and newlines", "Line one\n\tLine two", "Line one Line two"},
		{"trim", "   padded   ", "padded"},
		{"control chars dropped", "bad\x00text", "badtext"},
		{"empty", "", ""},
		{"whitespace only", " \t\n ", ""},
		{"unicode kept", "  Ngorongoro   Crater  ", "Ngorongoro Crater"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Amina.Odhiambo@Example.COM "); got != "amina.odhiambo@example.com" {
		t.Errorf("NormalizeEmail() = %q", got)
	}
}

func TestNormalizeKeyword(t *testing.T) {
	if got := NormalizeKeyword("  Safari "); got != "safari" {
		t.Errorf("NormalizeKeyword() = %q", got)
	}
	if got := NormalizeKeyword("Year-Round"); got != "year-round" {
		t.Errorf("NormalizeKeyword() = %q", got)
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"http://CDN.Example.com/photos/Mara.jpg", "https://cdn.example.com/photos/Mara.jpg"},
		{"cdn.example.com/a/", "https://cdn.example.com/a"},
		{"https://cdn.example.com", "https://cdn.example.com"},
		{"  ", ""},
		{"https:///path", ""},
	}

	for _, tt := range tests {
		if got := NormalizeURL(tt.input); got != tt.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
