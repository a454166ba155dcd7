package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"golang.org/x/text/language"
)

func TestNegotiate(t *testing.T) {
	cases := map[string]language.Tag{
		"":                   language.English,
		"ru-RU":              language.Russian,
		"ru":                 language.Russian,
		"en-US,en;q=0.9":     language.English,
		"fr":                 language.English,
		"not a language ;;;": language.English,
	}

	for header, want := range cases {
		if got := Negotiate(header).Tag(); got != want {
			t.Errorf("Negotiate(%q) = %s, want %s", header, got, want)
		}
	}
}

func TestMessage_RussianTitleSize(t *testing.T) {
	req := httptest.NewRequest("POST", "/catalogue-api/products", nil)
	req.Header.Set("Accept-Language", "ru-RU")

	got := FromRequest(req).Message(TitleSizeIsInvalid)
	want := "Название товара должно быть от 3 до 50 символов"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestProperty_EveryKeyIsTranslatedInEveryLanguage(t *testing.T) {
	properties := gopter.NewProperties(nil)

	keys := make([]interface{}, 0, len(messages[language.English]))
	for key := range messages[language.English] {
		keys = append(keys, key)
	}

	properties.Property("messages resolve to catalogue text, never the raw key", prop.ForAll(
		func(key string, tag language.Tag) bool {
			text := For(tag).Message(key)
			return text != key && text == messages[tag][key]
		},
		gen.OneConstOf(keys...),
		gen.OneConstOf(language.English, language.Russian),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestMessage_UnknownKeyIsReturnedUnchanged(t *testing.T) {
	if got := For(language.English).Message("no.such.key"); got != "no.such.key" {
		t.Errorf("expected key back, got %q", got)
	}
}
