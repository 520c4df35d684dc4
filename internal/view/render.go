package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"github.com/gin-gonic/gin/render"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	layoutFile   = "templates/layout.html"
	partialsFile = "templates/partials.html"
	layoutName   = "layout"
)

// Renderer реализует gin render.HTMLRender: у каждой страницы свой набор
// layout + partials + страница, чтобы блоки "content" не перетирали друг друга.
type Renderer struct {
	pages     map[string]*template.Template
	fragments *template.Template
}

// NewRenderer разбирает встроенные шаблоны.
func NewRenderer() (*Renderer, error) {
	return newRenderer(templatesFS)
}

func newRenderer(fsys fs.FS) (*Renderer, error) {
	fragments, err := template.New("fragments").Funcs(Funcs()).ParseFS(fsys, partialsFile)
	if err != nil {
		return nil, fmt.Errorf("view: parse partials: %w", err)
	}

	files, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("view: list templates: %w", err)
	}

	r := &Renderer{
		pages:     make(map[string]*template.Template),
		fragments: fragments,
	}
	for _, file := range files {
		if file == layoutFile || file == partialsFile {
			continue
		}
		name := strings.TrimSuffix(path.Base(file), ".html")
		tmpl, err := template.New(name).Funcs(Funcs()).ParseFS(fsys, layoutFile, partialsFile, file)
		if err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Instance возвращает рендер страницы; неизвестное имя рендерит страницу ошибки.
func (r *Renderer) Instance(name string, data any) render.Render {
	tmpl, ok := r.pages[name]
	if !ok {
		tmpl = r.pages["error"]
		data = ErrorPage{Page: Page{Title: "Oops!"}, Status: 500, Heading: "Oops!", Message: "unknown page " + name}
	}
	return render.HTML{
		Template: tmpl,
		Name:     layoutName,
		Data:     data,
	}
}

// Has сообщает, есть ли страница с таким именем.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Fragment рендерит именованный блок из partials в строку (ответы живого поиска).
func (r *Renderer) Fragment(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.fragments.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("view: render fragment %s: %w", name, err)
	}
	return buf.String(), nil
}
