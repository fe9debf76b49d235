package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{"index", "list", "detail", "form", "delete", "error"}

// Renderer executes the page templates inside the shared layout.
type Renderer struct {
	appName string
	nav     []NavLink
	pages   map[string]*template.Template
	logger  *zap.Logger
}

// NavLink is an entry of the entity menu.
type NavLink struct {
	Path  string
	Title string
}

func NewRenderer(appName string, nav []NavLink, logger *zap.Logger) (*Renderer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	funcs := template.FuncMap{"lower": strings.ToLower}

	parsed := make(map[string]*template.Template, len(pages))
	for _, name := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("error parsing %s template: %w", name, err)
		}
		parsed[name] = t
	}

	return &Renderer{appName: appName, nav: nav, pages: parsed, logger: logger}, nil
}

// page is the data every template receives.
type page struct {
	AppName string
	Nav     []NavLink
	Title   string
	Path    string
	Error   string

	Fields []Field
	Rows   []row
	Row    row

	Action  string
	IsNew   bool
	ID      string
	Inputs  []input
	Invalid map[string]string
}

type row struct {
	ID     string
	Values []string
}

type input struct {
	Name  string
	Label string
	Value string
}

func (rd *Renderer) render(w http.ResponseWriter, status int, name string, p page) {
	p.AppName = rd.appName
	p.Nav = rd.nav

	var buf bytes.Buffer
	if err := rd.pages[name].ExecuteTemplate(&buf, "layout", p); err != nil {
		rd.logger.Error("Error rendering template", zap.String("template", name), zap.Error(err))
		http.Error(w, "error rendering page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Index handles GET /
func (rd *Renderer) Index(w http.ResponseWriter, r *http.Request) {
	rd.render(w, http.StatusOK, "index", page{Title: "Home"})
}
