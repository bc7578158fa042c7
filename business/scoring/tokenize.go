package scoring

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^0-9a-zA-Z]+`)

func normalizeText(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// TokenizeKeywords lowercases the text and splits it on any run of
// non-alphanumeric characters.
func TokenizeKeywords(text string) []string {
	text = nonAlnum.ReplaceAllString(normalizeText(text), " ")

	fields := strings.Fields(text)
	out := make([]string, 0, len(fields))
	out = append(out, fields...)
	return out
}
