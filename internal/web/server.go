package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/conorfennell/examlog/internal/domain"
	"github.com/conorfennell/examlog/internal/review"
	"github.com/conorfennell/examlog/internal/storage"
)

//go:embed all:static
var staticFiles embed.FS

//go:embed all:templates
var templateFiles embed.FS

// Server holds the dependencies for the HTTP server.
type Server struct {
	db        *storage.DB
	router    *http.ServeMux
	templates *template.Template
	entities  []*entity
	now       func() time.Time
}

// NewServer creates and configures a new server.
func NewServer(db *storage.DB) (*Server, error) {
	tpl, err := template.New("").Funcs(template.FuncMap{
		"value": func(v url.Values, name string) string { return v.Get(name) },
	}).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		db:        db,
		router:    http.NewServeMux(),
		templates: tpl,
		entities:  entities(),
		now:       time.Now,
	}
	if err := s.routes(); err != nil {
		return nil, err
	}
	return s, nil
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routes sets up the routing for the server.
func (s *Server) routes() error {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return fmt.Errorf("failed to create sub-filesystem for static assets: %w", err)
	}
	s.router.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	s.router.Handle("GET /{$}", http.RedirectHandler("/questions/new", http.StatusSeeOther))

	for _, e := range s.entities {
		base := "/" + e.Name
		s.router.HandleFunc("GET "+base+"/new", s.handleNew(e))
		s.router.HandleFunc("POST "+base, s.handleCreate(e))
		s.router.HandleFunc("GET "+base, s.handleReview(e))
		s.router.HandleFunc("GET "+base+"/{id}/edit", s.handleEdit(e))
		s.router.HandleFunc("POST "+base+"/{id}", s.handleUpdate(e))
		s.router.HandleFunc("POST "+base+"/{id}/delete", s.handleDelete(e))
		s.router.HandleFunc("GET "+base+"/export", s.handleExport(e))
		s.router.HandleFunc("POST "+base+"/import", s.handleImport(e))
	}

	s.router.HandleFunc("GET /questions/{id}", s.handleQuestion())
	s.router.HandleFunc("POST /questions/{id}/review", s.handleMarkReview())
	return nil
}

type navLink struct {
	Href   string
	Title  string
	Active bool
}

// view is the data every page template receives. Each page fills the
// part it needs.
type view struct {
	Page   string
	Title  string
	Nav    []navLink
	Flash  string
	Error  string
	Entity *entity

	// form
	Action  string
	Values  url.Values
	Editing bool

	// review
	Header    []string
	Rows      []review.Row
	Total     int
	Keyword   string
	Filters   []filterView
	Order     review.Order
	ToggleURL template.URL

	// detail
	Question *domain.Question
	Details  []detail
}

type filterView struct {
	filter
	Value   string
	Choices []string
}

type detail struct {
	Label string
	Value string
}

func (s *Server) nav(active string) []navLink {
	links := make([]navLink, 0, 2*len(s.entities))
	for _, e := range s.entities {
		input, list := "/"+e.Name+"/new", "/"+e.Name
		links = append(links,
			navLink{Href: input, Title: e.InputTitle, Active: input == active},
			navLink{Href: list, Title: e.ReviewTitle, Active: list == active},
		)
	}
	return links
}

// render writes a full page. The flash message, if any, is consumed.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, v *view) {
	v.Nav = s.nav(r.URL.Path)
	if v.Flash == "" {
		v.Flash = popFlash(w, r)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, "layout", v); err != nil {
		slog.Error("Failed to render page", "page", v.Page, "error", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, msg string, err error, args ...any) {
	slog.Error(msg, append(args, "error", err)...)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

const flashCookie = "flash"

// setFlash stores a one-shot message for the page after a redirect.
func setFlash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func popFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1})
	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}

func redirect(w http.ResponseWriter, r *http.Request, to, flash string) {
	if flash != "" {
		setFlash(w, flash)
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}
