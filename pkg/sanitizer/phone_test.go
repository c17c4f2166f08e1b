package sanitizer

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		region string
		want   string
	}{
		{"kenyan E.164", "+254712345678", "KE", "+254712345678"},
		{"kenyan local format", "0712 345 678", "KE", "+254712345678"},
		{"kenyan with dashes", "+254-712-345-678", "KE", "+254712345678"},
		{"lowercase region", "0712345678", "ke", "+254712345678"},
		{"foreign number ignores region", "+1 (650) 253-0000", "KE", "+16502530000"},
		{"leading and trailing spaces", "  +254712345678  ", "KE", "+254712345678"},
		{"empty string", "", "KE", ""},
		{"only whitespace", "   ", "KE", ""},
		{"letters", "not-a-phone", "KE", ""},
		{"too short", "12345", "KE", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.input, tt.region); got != tt.want {
				t.Errorf("NormalizePhone(%q, %q) = %q, want %q", tt.input, tt.region, got, tt.want)
			}
		})
	}
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	once := NormalizePhone("0712 345 678", "KE")
	twice := NormalizePhone(once, "KE")
	if once != twice {
		t.Errorf("not idempotent: %q then %q", once, twice)
	}
}
