package speech

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidateText checks that text is worth sending to a speech engine: not
// empty, and written in a script that matches locale
func ValidateText(text, locale string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}

	var scripts []*unicode.RangeTable
	switch strings.ToLower(locale) {
	case "zh":
		scripts = []*unicode.RangeTable{unicode.Han}
	case "ja":
		scripts = []*unicode.RangeTable{unicode.Han, unicode.Hiragana, unicode.Katakana}
	case "es", "fr", "de":
		scripts = []*unicode.RangeTable{unicode.Latin}
	default:
		return nil
	}

	for _, r := range text {
		if unicode.In(r, scripts...) {
			return nil
		}
	}

	return fmt.Errorf("text %q has no characters of the %s script", text, locale)
}
