package widget

import (
	"strings"
	"unicode"
	"unicode/utf16"
)

// MaxTagLength is the exclusive upper bound on a sanitized tag's length,
// counted in UTF-16 code units.
const MaxTagLength = 20

// escaper applies the replacements in order. The ampersand goes first so
// entities produced by later replacements are left alone.
var escaper = []struct{ from, to string }{
	{"&", "&amp;"},
	{"<", "&lt;"},
	{">", "&gt;"},
	{`"`, "&quot;"},
	{"'", "&#039;"},
}

// CheckInputData trims text and escapes the five HTML-significant
// characters. Empty input is returned unchanged.
func CheckInputData(text string) string {
	if text == "" {
		return text
	}
	text = trimSpace(text)
	for _, r := range escaper {
		text = strings.ReplaceAll(text, r.from, r.to)
	}
	return text
}

// ValidTag reports whether an already sanitized value may be added:
// non-empty and shorter than MaxTagLength.
func ValidTag(value string) bool {
	n := len(utf16.Encode([]rune(value)))
	return n > 0 && n < MaxTagLength
}

// trimSpace strips the characters String.prototype.trim strips in the
// browser: space separators, tab, vertical tab, form feed, the byte order
// mark and the line terminators. Unlike strings.TrimSpace it keeps U+0085.
func trimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}

func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\ufeff', '\u2028', '\u2029':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}
