package i18n

import (
	"os"
	"strings"
)

// DetectLanguage picks the output language.
// Priority: LABSTOP_LANG > system locale > en
func DetectLanguage() string {
	if lang := os.Getenv("LABSTOP_LANG"); lang != "" {
		return NormalizeLanguage(lang)
	}
	if lang, ok := DetectFromSystem(); ok {
		return NormalizeLanguage(lang)
	}
	return "en"
}

// DetectFromSystem reads LC_ALL, LANG and LANGUAGE, in POSIX order
func DetectFromSystem() (string, bool) {
	if lang := os.Getenv("LC_ALL"); lang != "" {
		return lang, true
	}
	if lang := os.Getenv("LANG"); lang != "" {
		return lang, true
	}
	// colon-separated list, first entry wins
	if lang := os.Getenv("LANGUAGE"); lang != "" {
		if first := strings.Split(lang, ":")[0]; first != "" {
			return first, true
		}
	}
	return "", false
}

// NormalizeLanguage reduces a locale to its base language:
// es_ES.UTF-8, es-MX -> es. Unsupported languages become en.
func NormalizeLanguage(lang string) string {
	lang = strings.ToLower(lang)
	lang = strings.Split(lang, ".")[0]
	lang = strings.Split(lang, "_")[0]
	lang = strings.Split(lang, "-")[0]

	if IsSupported(lang) {
		return lang
	}
	return "en"
}
