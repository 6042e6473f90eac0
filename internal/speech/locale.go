package speech

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"
)

// ParseLocale accepts BCP 47 tags ("en-US") and POSIX locale names
// ("en_US.UTF-8", "de_DE@euro").
func ParseLocale(s string) (language.Tag, error) {
	raw := s
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, "_", "-")
	if s == "" || s == "C" || s == "POSIX" {
		return language.Und, fmt.Errorf("%w: %q", ErrUnsupportedLocale, raw)
	}

	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("%w: %q: %w", ErrUnsupportedLocale, raw, err)
	}
	return tag, nil
}

// DefaultLocale reads LC_ALL then LANG and falls back to American English.
func DefaultLocale() language.Tag {
	for _, key := range []string{"LC_ALL", "LANG"} {
		if tag, err := ParseLocale(os.Getenv(key)); err == nil {
			return tag
		}
	}
	return language.AmericanEnglish
}
