package satchel

import "strings"

const (
	// ColorChar prefixes formatting codes in item text.
	ColorChar = '§'

	// AltColorChar stands in for ColorChar in encoded documents.
	AltColorChar = '&'
)

// colorCodes lists the characters that may follow ColorChar.
const colorCodes = "0123456789AaBbCcDdEeFfKkLlMmNnOoRrXx"

// EscapeColors replaces every ColorChar in s with AltColorChar.
func EscapeColors(s string) string {
	return strings.ReplaceAll(s, string(ColorChar), string(AltColorChar))
}

// TranslateColors turns AltColorChar sequences back into formatting codes.
// Only an AltColorChar followed by a valid code character is translated, so
// a literal "&" in text such as "Salt & Pepper" is kept.
func TranslateColors(s string) string {
	if !strings.ContainsRune(s, AltColorChar) {
		return s
	}
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(runes); i++ {
		if runes[i] == AltColorChar && i+1 < len(runes) && strings.ContainsRune(colorCodes, runes[i+1]) {
			b.WriteRune(ColorChar)
			b.WriteRune(runes[i+1])
			i++
			continue
		}
		b.WriteRune(runes[i])
	}
	return b.String()
}

func translateLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = TranslateColors(l)
	}
	return out
}
