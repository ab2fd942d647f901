package i18n

import (
	"testing"
)

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"English US", "en_US", "en"},
		{"English US UTF-8", "en_US.UTF-8", "en"},
		{"English UK", "en-GB", "en"},
		{"Spanish Spain", "es_ES", "es"},
		{"Spanish Mexico", "es-MX", "es"},
		{"Uppercase", "ES_AR", "es"},
		{"Already normalized", "en", "en"},
		{"POSIX locale", "C.UTF-8", "en"},
		{"Unsupported", "zh_CN", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeLanguage(tt.input); got != tt.expected {
				t.Errorf("NormalizeLanguage(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name     string
		labstop  string
		lcAll    string
		lang     string
		language string
		expected string
	}{
		{"app variable wins", "es", "en_US.UTF-8", "en_US.UTF-8", "", "es"},
		{"LC_ALL before LANG", "", "es_ES.UTF-8", "en_US.UTF-8", "", "es"},
		{"LANG", "", "", "es_MX.UTF-8", "", "es"},
		{"LANGUAGE list", "", "", "", "es:en", "es"},
		{"nothing set", "", "", "", "", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LABSTOP_LANG", tt.labstop)
			t.Setenv("LC_ALL", tt.lcAll)
			t.Setenv("LANG", tt.lang)
			t.Setenv("LANGUAGE", tt.language)

			if got := DetectLanguage(); got != tt.expected {
				t.Errorf("DetectLanguage() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestLocalizerT(t *testing.T) {
	tests := []struct {
		lang string
		want string
	}{
		{"en", "2 stopped, 1 failed"},
		{"es", "2 detenidas, 1 con error"},
		{"fr", "2 stopped, 1 failed"},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			l, err := NewLocalizer(Config{Language: tt.lang})
			if err != nil {
				t.Fatalf("NewLocalizer() error = %v", err)
			}
			got := l.T("report.summary", map[string]interface{}{"Stopped": 2, "Failed": 1})
			if got != tt.want {
				t.Errorf("T() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocalizerTc(t *testing.T) {
	l, err := NewLocalizer(Config{Language: "es"})
	if err != nil {
		t.Fatalf("NewLocalizer() error = %v", err)
	}

	if got := l.Tc("report.dry_run", 1); got != ", 1 se detendría (simulación)" {
		t.Errorf("Tc(1) = %q", got)
	}
	if got := l.Tc("report.dry_run", 3); got != ", 3 se detendrían (simulación)" {
		t.Errorf("Tc(3) = %q", got)
	}
}

func TestMissingKey(t *testing.T) {
	l, err := NewLocalizer(Config{Language: "en"})
	if err != nil {
		t.Fatalf("NewLocalizer() error = %v", err)
	}
	if got := l.T("no.such.key"); got != "[no.such.key]" {
		t.Errorf("T() = %q, want [no.such.key]", got)
	}
	if got := l.Tc("no.such.key", 2); got != "[no.such.key: 2]" {
		t.Errorf("Tc() = %q, want [no.such.key: 2]", got)
	}
}

func TestGlobalBeforeInit(t *testing.T) {
	orig := Global
	Global = nil
	defer func() { Global = orig }()

	if got := T("report.summary"); got != "report.summary" {
		t.Errorf("T() = %q, want key", got)
	}
}

func TestEveryKeyTranslated(t *testing.T) {
	keys := []string{
		"report.header.region",
		"report.header.outcome",
		"report.header.instances",
		"report.header.error",
		"notify.sent",
		"notify.failed",
		"regions.none",
	}

	for _, lang := range SupportedLanguages() {
		l, err := NewLocalizer(Config{Language: lang})
		if err != nil {
			t.Fatalf("NewLocalizer(%s) error = %v", lang, err)
		}
		for _, key := range keys {
			if got := l.T(key); got == "["+key+"]" {
				t.Errorf("%s: missing translation for %s", lang, key)
			}
		}
	}
}
