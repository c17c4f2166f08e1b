package sanitizer

import (
	"slices"
	"testing"
)

func TestNormalizeTextList(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"nil", nil, []string{}},
		{"dedupe after normalization", []string{"Park fees", "Park   fees", " Park fees "}, []string{"Park fees"}},
		{"drop empty", []string{"", "  ", "Meals"}, []string{"Meals"}},
		{"order kept", []string{"Meals", "Transport", "Guide"}, []string{"Meals", "Transport", "Guide"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTextList(tt.input); !slices.Equal(got, tt.want) {
				t.Errorf("NormalizeTextList() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeURLs(t *testing.T) {
	got := NormalizeURLs([]string{"http://cdn.example.com/a.jpg", "https://CDN.example.com/a.jpg", ""})
	want := []string{"https://cdn.example.com/a.jpg"}
	if !slices.Equal(got, want) {
		t.Errorf("NormalizeURLs() = %v, want %v", got, want)
	}
}
