package i18n

import (
	"sort"
	"strings"
)

// languageNames lists the languages shipped with a translation and plural forms.
var languageNames = map[string]string{
	"cs": "Czech",
	"en": "English",
}

func GetLanguageName(code string) string {
	normalized := strings.ToLower(code)
	if name, ok := languageNames[normalized]; ok {
		return name
	}
	return code
}

func Supported(code string) bool {
	_, ok := languageNames[strings.ToLower(code)]
	return ok
}

func Languages() []string {
	codes := make([]string, 0, len(languageNames))
	for code := range languageNames {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
