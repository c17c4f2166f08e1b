package sanitizer

import (
	"strings"
	"unicode"
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else if unicode.IsControl(r) {
			continue
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeKeyword is for enum-like values such as a tour category.
func NormalizeKeyword(s string) string {
	return strings.ToLower(TrimAndNormalize(s))
}

// NormalizeURL enforces https and lowercases the host, keeping the path as is.
func NormalizeURL(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return ""
	}
	url = strings.TrimPrefix(url, "http://")
	url = strings.TrimPrefix(url, "https://")
	domain, path, hasPath := strings.Cut(url, "/")
	domain = strings.ToLower(domain)
	if domain == "" {
		return ""
	}
	result := "https://" + domain
	if hasPath {
		result += "/" + path
	}
	return strings.TrimSuffix(result, "/")
}
