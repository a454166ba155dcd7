package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	pageList    = "list.html"
	pageForm    = "form.html"
	pageProduct = "product.html"
	pageError   = "error.html"
)

var pages = parsePages(pageList, pageForm, pageProduct, pageError)

func parsePages(names ...string) map[string]*template.Template {
	parsed := make(map[string]*template.Template, len(names))
	for _, name := range names {
		parsed[name] = template.Must(template.ParseFS(templatesFS, "templates/layout.html", "templates/"+name))
	}
	return parsed
}

// render executes page into a buffer so a template failure can still become a 500
func render(w http.ResponseWriter, status int, page string, data pageData) error {
	var buf bytes.Buffer
	if err := pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
