package i18n

import (
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/iamwavecut/ngmod/resources"
)

const (
	resourcesPath = "i18n"
	fallback      = "en"
)

var state = struct {
	mu              sync.RWMutex
	translations    map[string]map[string]string
	loaded          map[string]bool
	defaultLanguage string
}{
	translations:    make(map[string]map[string]string),
	loaded:          make(map[string]bool),
	defaultLanguage: fallback,
}

func SetDefaultLanguage(lang string) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if !Supported(lang) {
		log.WithField("language", lang).Warn("unsupported language, falling back to English")
		lang = fallback
	}
	state.mu.Lock()
	state.defaultLanguage = lang
	state.mu.Unlock()
}

func DefaultLanguage() string {
	state.mu.RLock()
	defer state.mu.RUnlock()
	return state.defaultLanguage
}

func resolve(lang string) string {
	if lang == "" {
		return DefaultLanguage()
	}
	return strings.ToLower(lang)
}

func load(lang string) map[string]string {
	state.mu.RLock()
	if state.loaded[lang] {
		defer state.mu.RUnlock()
		return state.translations[lang]
	}
	state.mu.RUnlock()

	state.mu.Lock()
	defer state.mu.Unlock()
	if state.loaded[lang] {
		return state.translations[lang]
	}
	state.loaded[lang] = true

	raw, err := resources.FS.ReadFile(fmt.Sprintf("%s/%s.yml", resourcesPath, lang))
	if err != nil {
		log.WithError(err).WithField("language", lang).Error("cant load i18n")
		return nil
	}
	translations := make(map[string]string)
	if err := yaml.Unmarshal(raw, &translations); err != nil {
		log.WithError(err).WithField("language", lang).Error("cant unmarshal i18n")
		return nil
	}
	state.translations[lang] = translations
	return translations
}

// Get translates key, which is the English text itself. An empty lang means
// the configured default language.
func Get(key, lang string) string {
	lang = resolve(lang)
	if lang == fallback {
		return key
	}
	if res, ok := load(lang)[key]; ok && res != "" {
		return res
	}
	log.Tracef(`no %s translation for key "%s"`, lang, key)
	return key
}
