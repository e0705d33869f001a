package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"wiz-academy/domain"
	"wiz-academy/web"

	"github.com/samber/lo"
)

// Engine renders the dashboard pages. Every page is parsed on top of its own copy of
// the layouts and partials so pages can each define "content".
type Engine struct {
	pages map[string]*template.Template
}

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type NavItem struct {
	Label  string
	Icon   string
	Path   string
	Active bool
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	CurrentPath string
	Flash       *Flash
	Session     *domain.Session
	Granted     domain.Permissions
	Nav         []NavItem
	Data        any
}

// Allowed reports whether the acting wizard's role holds perm in the live roles document.
func (d TemplateData) Allowed(perm string) bool {
	if d.Session.IsGrandmaster() {
		return true
	}
	return d.Granted.Has(domain.Permission(perm))
}

var funcMap = template.FuncMap{
	"permLabel": func(p domain.Permission) string { return p.Label() },
	"roleName":  func(r domain.Role) string { return r.DisplayName() },
	"typeLabel": domain.SpellTypeLabel,
	"typeIcon":  domain.SpellTypeIcon,
	"lines":     func(s []string) string { return strings.Join(s, "\n") },
	"contains":  func(list []string, v string) bool { return lo.Contains(list, v) },
	"add":       func(a, b int) int { return a + b },
	"sub":       func(a, b int) int { return a - b },
	"pageURL":   PageURL,
}

// PageURL rewrites the page parameter of a listing URL, keeping its other filters.
func PageURL(base string, query url.Values, page int) string {
	q := url.Values{}
	for k, v := range query {
		q[k] = append([]string(nil), v...)
	}
	q.Set("page", strconv.Itoa(page))
	return base + "?" + q.Encode()
}

// NewEngine parses templates at build-time.
func NewEngine() (*Engine, error) {
	base, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates, "templates/layouts/*.html", "templates/partials/*.html")
	if err != nil {
		return nil, err
	}

	files, err := fs.Glob(web.Templates, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		tpl, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := tpl.ParseFS(web.Templates, file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		pages[path.Base(file)] = tpl
	}
	return &Engine{pages: pages}, nil
}

func MustNewEngine() *Engine {
	e, err := NewEngine()
	if err != nil {
		panic(fmt.Sprintf("failed to parse templates: %v", err))
	}
	return e
}

// Render executes the page name with data. Nothing is written when execution fails.
func (e *Engine) Render(w http.ResponseWriter, status int, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	tpl, ok := e.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
