// Package web renders the catalog as server-side HTML and serves the
// embedded stylesheet and script.
package web

import (
	"embed"
	"html"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Renderer executes the page templates.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"highlight": Highlight,
		"join":      strings.Join,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Index renders the catalog page.
func (r *Renderer) Index(w io.Writer, p *Page) error {
	return r.tmpl.ExecuteTemplate(w, "index.html", p)
}

// Static serves the embedded assets. Mount it under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServerFS(sub)
}

// Highlight escapes model output for HTML, keeping only <b> emphasis and
// turning line breaks into <br>.
func Highlight(text string) template.HTML {
	escaped := html.EscapeString(text)
	escaped = strings.NewReplacer(
		"&lt;b&gt;", "<b>",
		"&lt;/b&gt;", "</b>",
		"\r\n", "<br>",
		"\n", "<br>",
	).Replace(escaped)
	return template.HTML(balanceBold(escaped))
}

// balanceBold closes any <b> left open so emphasis cannot leak past the
// comparison box.
func balanceBold(s string) string {
	open := strings.Count(s, "<b>") - strings.Count(s, "</b>")
	if open > 0 {
		s += strings.Repeat("</b>", open)
	}
	return s
}
