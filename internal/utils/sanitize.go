package utils

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks removes combining marks after NFD decomposition, so that
// accented characters fold to their ASCII base ("é" -> "e").
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SanitizeName converts a display name into a lowercase, hyphen-separated
// slug safe for object keys and URLs. Camel-case boundaries become hyphens,
// diacritics are folded and any character outside [a-z0-9.-] is dropped.
// The function is idempotent: sanitizing an already-sanitized name returns
// it unchanged.
func SanitizeName(name string) string {
	var split strings.Builder
	var prev rune
	for _, r := range name {
		if unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			split.WriteRune('-')
		}
		split.WriteRune(r)
		prev = r
	}

	folded, _, err := transform.String(stripMarks, split.String())
	if err != nil {
		folded = split.String()
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	lastHyphen := true // trims leading hyphens
	for _, r := range folded {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.':
			b.WriteRune(r)
			lastHyphen = false
		case r == ' ' || r == '_' || r == '-' || r == '/':
			if !lastHyphen {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// SanitizeFileName sanitizes the base name of a file while preserving its
// extension, which is lowercased.
func SanitizeFileName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	sanitized := SanitizeName(base)
	if sanitized == "" {
		sanitized = "file"
	}
	return sanitized + ext
}
