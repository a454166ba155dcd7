package client

import "context"

type acceptLanguageKey struct{}

// WithAcceptLanguage returns a context whose catalogue calls carry the given
// Accept-Language header
func WithAcceptLanguage(ctx context.Context, acceptLanguage string) context.Context {
	if acceptLanguage == "" {
		return ctx
	}
	return context.WithValue(ctx, acceptLanguageKey{}, acceptLanguage)
}

// AcceptLanguage returns the Accept-Language value stored by WithAcceptLanguage
func AcceptLanguage(ctx context.Context) string {
	value, _ := ctx.Value(acceptLanguageKey{}).(string)
	return value
}
