// Package i18n localizes the human-readable output of the labstop CLI.
// Notification bodies and log lines are never translated.
package i18n

import (
	"embed"
	"fmt"
	"log"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed active.*.toml
var translationFS embed.FS

var (
	bundle     *i18n.Bundle
	bundleOnce sync.Once

	// Global is the localizer used by the package-level helpers, set by Init
	Global *Localizer
)

// Config configures the localizer
type Config struct {
	// Language code ("en", "es"). Detected from the environment when empty.
	Language string

	// Verbose logs missing translations
	Verbose bool
}

// Localizer provides translation services
type Localizer struct {
	localizer *i18n.Localizer
	language  string
	verbose   bool
}

func initBundle() {
	bundleOnce.Do(func() {
		bundle = i18n.NewBundle(language.English)
		bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

		for _, lang := range SupportedLanguages() {
			filename := fmt.Sprintf("active.%s.toml", lang)
			if _, err := bundle.LoadMessageFileFS(translationFS, filename); err != nil {
				log.Printf("i18n: warning: could not load %s: %v", filename, err)
			}
		}
	})
}

// Init sets the global localizer
func Init(cfg Config) error {
	if cfg.Language == "" {
		cfg.Language = DetectLanguage()
	}

	localizer, err := NewLocalizer(cfg)
	if err != nil {
		return fmt.Errorf("failed to create localizer: %w", err)
	}

	Global = localizer
	return nil
}

// NewLocalizer creates a localizer for cfg.Language. Unsupported languages
// fall back to English.
func NewLocalizer(cfg Config) (*Localizer, error) {
	initBundle()

	lang := NormalizeLanguage(cfg.Language)
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}

	return &Localizer{
		localizer: i18n.NewLocalizer(bundle, tag.String()),
		language:  lang,
		verbose:   cfg.Verbose,
	}, nil
}

// T translates a message by key. Missing keys render as "[key]".
func (l *Localizer) T(key string, data ...map[string]interface{}) string {
	var templateData map[string]interface{}
	if len(data) > 0 {
		templateData = data[0]
	}

	msg, err := l.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: templateData,
	})
	if err != nil {
		if l.verbose {
			log.Printf("i18n: missing translation for key=%s lang=%s: %v", key, l.language, err)
		}
		return fmt.Sprintf("[%s]", key)
	}
	return msg
}

// Tc translates a message with plural forms selected by count. Count is
// available to the template as .Count.
func (l *Localizer) Tc(key string, count int, data ...map[string]interface{}) string {
	templateData := map[string]interface{}{"Count": count}
	if len(data) > 0 {
		for k, v := range data[0] {
			templateData[k] = v
		}
	}

	msg, err := l.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: templateData,
		PluralCount:  count,
	})
	if err != nil {
		if l.verbose {
			log.Printf("i18n: missing translation for key=%s lang=%s: %v", key, l.language, err)
		}
		return fmt.Sprintf("[%s: %d]", key, count)
	}
	return msg
}

// Language returns the current language code
func (l *Localizer) Language() string {
	return l.language
}

// SupportedLanguages returns the languages with embedded translations
func SupportedLanguages() []string {
	return []string{"en", "es"}
}

// IsSupported reports whether lang (already normalized) has translations
func IsSupported(lang string) bool {
	for _, supported := range SupportedLanguages() {
		if lang == supported {
			return true
		}
	}
	return false
}
