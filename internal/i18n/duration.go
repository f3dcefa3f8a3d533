package i18n

import (
	"fmt"
	"strings"
)

// PluralForm is the grammatical number bucket used for unit words.
type PluralForm int

const (
	One PluralForm = iota
	Few
	Many
)

type unit int

const (
	hourUnit unit = iota
	minuteUnit
)

var unitWords = map[string]map[unit][3]string{
	"en": {
		hourUnit:   {"hour", "hours", "hours"},
		minuteUnit: {"minute", "minutes", "minutes"},
	},
	"cs": {
		hourUnit:   {"hodina", "hodiny", "hodin"},
		minuteUnit: {"minuta", "minuty", "minut"},
	},
}

// Plural buckets n as 1, 2-4 and everything else.
func Plural(n int) PluralForm {
	switch {
	case n == 1:
		return One
	case n >= 2 && n <= 4:
		return Few
	default:
		return Many
	}
}

func formatUnit(n int, u unit, lang string) string {
	words, ok := unitWords[lang]
	if !ok {
		words = unitWords[fallback]
	}
	return fmt.Sprintf("%d %s", n, words[u][Plural(n)])
}

// FormatDuration renders seconds as hours and minutes, dropping zero hours and
// zero minutes after a non-zero hour. Minutes are the smallest unit shown.
func FormatDuration(seconds int, lang string) string {
	lang = resolve(lang)
	if seconds < 0 {
		seconds = 0
	}
	totalMinutes := seconds / 60
	hours := totalMinutes / 60
	minutes := totalMinutes % 60

	parts := make([]string, 0, 2)
	if hours > 0 {
		parts = append(parts, formatUnit(hours, hourUnit, lang))
	}
	if minutes > 0 || len(parts) == 0 {
		parts = append(parts, formatUnit(minutes, minuteUnit, lang))
	}
	return strings.Join(parts, " ")
}
