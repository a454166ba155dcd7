// Package i18n holds the localized user-facing messages of the catalogue API
// and the manager UI, and negotiates the response language from Accept-Language.
package i18n

import (
	"net/http"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys
const (
	TitleIsNull          = "catalogue.products.errors.title_is_null"
	TitleSizeIsInvalid   = "catalogue.products.errors.title_size_is_invalid"
	DetailsSizeIsInvalid = "catalogue.products.errors.details_size_is_invalid"
	ProductNotFound      = "catalogue.products.errors.product_not_found"
	ProductIDInvalid     = "catalogue.products.errors.product_id_is_invalid"
	MalformedBody        = "catalogue.errors.malformed_body"
	ValidationFailed     = "catalogue.errors.validation_failed"
	Unauthorized         = "catalogue.errors.unauthorized"
	Forbidden            = "catalogue.errors.forbidden"
	RateLimited          = "catalogue.errors.rate_limited"
	InternalError        = "catalogue.errors.internal"
	CatalogueUnavailable = "manager.errors.catalogue_unavailable"
)

// DefaultLanguage is used when Accept-Language is absent or unsupported.
var DefaultLanguage = language.English

var supported = []language.Tag{language.English, language.Russian}

var matcher = language.NewMatcher(supported)

var messages = map[language.Tag]map[string]string{
	language.English: {
		TitleIsNull:          "Product title must be specified",
		TitleSizeIsInvalid:   "Product title must be between 3 and 50 characters",
		DetailsSizeIsInvalid: "Product details must not exceed 1000 characters",
		ProductNotFound:      "Product not found",
		ProductIDInvalid:     "Product id must be an integer",
		MalformedBody:        "Request body is malformed",
		ValidationFailed:     "Request validation failed",
		Unauthorized:         "Full authentication is required to access this resource",
		Forbidden:            "Access to this resource is denied",
		RateLimited:          "Too many requests, try again later",
		InternalError:        "Internal server error",
		CatalogueUnavailable: "Catalogue service is unavailable, try again later",
	},
	language.Russian: {
		TitleIsNull:          "Название товара должно быть указано",
		TitleSizeIsInvalid:   "Название товара должно быть от 3 до 50 символов",
		DetailsSizeIsInvalid: "Описание товара должно быть не более 1000 символов",
		ProductNotFound:      "Товар не найден",
		ProductIDInvalid:     "Идентификатор товара должен быть числом",
		MalformedBody:        "Тело запроса имеет неверный формат",
		ValidationFailed:     "Запрос не прошёл проверку",
		Unauthorized:         "Для доступа к ресурсу требуется аутентификация",
		Forbidden:            "Доступ к ресурсу запрещён",
		RateLimited:          "Слишком много запросов, повторите позже",
		InternalError:        "Внутренняя ошибка сервера",
		CatalogueUnavailable: "Сервис каталога недоступен, повторите позже",
	},
}

var messageCatalog = newCatalog()

func newCatalog() catalog.Catalog {
	builder := catalog.NewBuilder(catalog.Fallback(DefaultLanguage))
	for tag, entries := range messages {
		for key, text := range entries {
			if err := builder.SetString(tag, key, text); err != nil {
				panic("i18n: invalid message " + key + ": " + err.Error())
			}
		}
	}
	return builder
}

// Localizer renders message keys in one negotiated language.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// For returns a localizer for tag, falling back to the closest supported language.
func For(tag language.Tag) *Localizer {
	_, index, _ := matcher.Match(tag)
	resolved := supported[index]
	return &Localizer{
		tag:     resolved,
		printer: message.NewPrinter(resolved, message.Catalog(messageCatalog)),
	}
}

// Negotiate picks the best supported language for an Accept-Language header value.
func Negotiate(acceptLanguage string) *Localizer {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return For(DefaultLanguage)
	}
	_, index, _ := matcher.Match(tags...)
	return For(supported[index])
}

// FromRequest negotiates the language of r.
func FromRequest(r *http.Request) *Localizer {
	return Negotiate(r.Header.Get("Accept-Language"))
}

func (l *Localizer) Tag() language.Tag {
	return l.tag
}

// Message renders key; unknown keys are returned unchanged.
func (l *Localizer) Message(key string) string {
	return l.printer.Sprintf(key)
}
