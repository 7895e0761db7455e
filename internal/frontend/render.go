package frontend

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/2beens/blogfront/internal/session"
	"github.com/2beens/blogfront/pkg"

	log "github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplates = []string{
	"change_user",
	"author_blogs",
	"blog_form",
	"author_articles",
	"article_form",
	"reader_blogs",
	"reader_articles",
	"reader_article",
	"not_found",
}

type renderer struct {
	templates map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	templates := make(map[string]*template.Template, len(pageTemplates))
	for _, name := range pageTemplates {
		t, err := template.New("layout.html").ParseFS(
			templatesFS,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, err
		}
		templates[name] = t
	}
	return &renderer{templates: templates}, nil
}

type navItem struct {
	Label  string
	Href   string
	Active bool
}

type page struct {
	Title   string
	Path    string
	Theme   session.Theme
	Persona string
	Nav     []navItem
	Alerts  []session.Alert
	Data    any
}

func (h *Handler) newPage(r *http.Request, sess *session.Session, st *session.State, title string, data any) page {
	return page{
		Title:   title,
		Path:    r.URL.Path,
		Theme:   sess.ThemeMode,
		Persona: sess.EmailAddress,
		Nav: []navItem{
			{Label: string(session.PageChangeUser), Href: "/", Active: sess.SelectedPage == session.PageChangeUser},
			{Label: string(session.PageAuthor), Href: "/author", Active: sess.SelectedPage == session.PageAuthor},
			{Label: string(session.PageReader), Href: "/reader", Active: sess.SelectedPage == session.PageReader},
		},
		Alerts: st.PopAlerts(),
		Data:   data,
	}
}

func (h *Handler) render(
	w http.ResponseWriter,
	r *http.Request,
	statusCode int,
	name string,
	sess *session.Session,
	st *session.State,
	title string,
	data any,
) {
	t, ok := h.renderer.templates[name]
	if !ok {
		log.Errorf("render: unknown template [%s]", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, h.newPage(r, sess, st, title, data)); err != nil {
		log.Errorf("render [%s]: %s", name, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.HTML, buf.Bytes(), statusCode)
}
