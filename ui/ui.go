package ui

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Files holds the static assets served under /ui.
var Files = mustSub(staticFS, "static")

const pageTemplate = "index.html"

type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	templates, err := template.New(pageTemplate).Funcs(template.FuncMap{
		"cleanText":   CleanText,
		"formatScore": FormatScore,
		"pageLabel":   PageLabel,
		"title":       TitleOrUntitled,
		"rank":        Rank,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Renderer{templates: templates}, nil
}

func (r *Renderer) Render(w io.Writer, page Page) error {
	return r.templates.ExecuteTemplate(w, pageTemplate, page)
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
