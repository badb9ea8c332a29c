// Package view renders the admin pages and their fragments from embedded templates.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"gymadmin/internal/adapters/http/perf"
	"gymadmin/internal/application/formutil"
	"gymadmin/internal/domain/member"
	"gymadmin/internal/domain/notice"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

//go:embed help.md
var helpMarkdown []byte

// Fragment names
const (
	FragmentMembersTable          = "members_table"
	FragmentRecentMembers         = "recent_members"
	FragmentTrainersTable         = "trainers_table"
	FragmentTrainersList          = "trainers_list"
	FragmentProgramsTable         = "programs_table"
	FragmentProgramExercisesTable = "program_exercises_table"
	FragmentStatsCards            = "stats_cards"
)

// mdRenderer converts the help page. Raw HTML in the markdown is escaped (WithUnsafe is not set).
var mdRenderer = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps()),
)

// Renderer executes the embedded templates in one language.
type Renderer struct {
	tr    Translator
	base  *template.Template
	pages map[string]*template.Template
	help  template.HTML
}

// New parses every template and renders the help page.
// PRE: lang is "en" or "tr"; anything else renders English
// POST: Returns a renderer whose templates have not been executed
func New(lang string) (*Renderer, error) {
	r := &Renderer{tr: NewTranslator(lang), pages: make(map[string]*template.Template)}

	base, err := template.New("").Funcs(r.funcs()).ParseFS(templateFS, "templates/layout.html", "templates/fragments.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	r.base = base

	names, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	for _, path := range names {
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		tpl, err := clone.ParseFS(templateFS, path)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		r.pages[strings.TrimSuffix(strings.TrimPrefix(path, "templates/pages/"), ".html")] = tpl
	}

	var buf bytes.Buffer
	if err := mdRenderer.Convert(helpMarkdown, &buf); err != nil {
		return nil, fmt.Errorf("render help: %w", err)
	}
	r.help = template.HTML(buf.String())
	return r, nil
}

// T translates key into the renderer's language.
func (r *Renderer) T(key string, args ...any) string {
	return r.tr.T(key, args...)
}

// Translator returns the renderer's translator.
func (r *Renderer) Translator() Translator {
	return r.tr
}

// Help returns the rendered help page.
func (r *Renderer) Help() template.HTML {
	return r.help
}

// Page renders a full page inside the layout.
// PRE: name is a file under templates/pages without extension
// POST: On success the page was written with status; on error nothing was written
func (r *Renderer) Page(w http.ResponseWriter, req *http.Request, status int, name string, data Page) error {
	tpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	if data.Lang == "" {
		data.Lang = r.tr.Tag().String()
	}
	bound, err := r.bind(tpl, req)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := bound.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}

// Fragment renders one named fragment. Every call rebuilds all rows from data.
// req may be nil when no form in the fragment needs a CSRF token.
func (r *Renderer) Fragment(w io.Writer, req *http.Request, name string, data any) error {
	bound, err := r.bind(r.base, req)
	if err != nil {
		return err
	}
	return bound.ExecuteTemplate(w, name, data)
}

// bind returns a clone of tpl whose csrfField emits the token of req.
func (r *Renderer) bind(tpl *template.Template, req *http.Request) (*template.Template, error) {
	clone, err := tpl.Clone()
	if err != nil {
		return nil, err
	}
	return clone.Funcs(template.FuncMap{
		"csrfField": func() template.HTML {
			if req == nil {
				return ""
			}
			return csrf.TemplateField(req)
		},
	}), nil
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"t":         r.tr.T,
		"csrfField": func() template.HTML { return "" },
		"memberType": func(kind string) string {
			if kind == member.TypeTimed {
				return r.tr.T("Timed")
			}
			return r.tr.T("Credit")
		},
		"remaining": func(m member.Record) string {
			if m.IsTimed() {
				if m.RemainingDays == nil {
					return "-"
				}
				return r.tr.T("%d days", *m.RemainingDays)
			}
			return r.tr.T("%d entries", m.RemainingCredits())
		},
		"orDash": func(s string) string {
			if strings.TrimSpace(s) == "" {
				return "-"
			}
			return s
		},
		"intOrDash": func(p *int) string {
			if p == nil {
				return "-"
			}
			return strconv.Itoa(*p)
		},
		"intValue": formutil.Value,
		"ms": func(v float64) string {
			return strconv.FormatFloat(v, 'f', 1, 64)
		},
		"perfTable": func(title string, rows []perf.PathStat) PerfTable {
			return PerfTable{Title: title, Rows: rows}
		},
		"noticeClass": func(n notice.Notice) string {
			if n.Kind == notice.KindSuccess {
				return "notice-success"
			}
			return "notice-danger"
		},
	}
}

// StaticHandler serves the embedded assets; mount it under /static/.
func StaticHandler() (http.Handler, error) {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, err
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub)), nil
}
