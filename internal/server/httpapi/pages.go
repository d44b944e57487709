package httpapi

import (
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name+".html", data); err != nil {
		s.logger.Error(r.Context(), "template render failed", "page", name, "error", err.Error())
	}
}

func (s *Server) homePage(w http.ResponseWriter, r *http.Request) {
	list, err := s.products.List(r.Context())
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	id, _ := IdentityFrom(r.Context())
	s.renderPage(w, r, "index", map[string]any{
		"Products":    list,
		"CurrentUser": identityUser(id),
	})
}

func (s *Server) chartsPage(w http.ResponseWriter, r *http.Request) {
	categories, err := s.products.CountByCategory(r.Context())
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	conditions, err := s.products.CountByCondition(r.Context())
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	id, _ := IdentityFrom(r.Context())
	s.renderPage(w, r, "charts", map[string]any{
		"CategoryStats":  categories,
		"ConditionStats": conditions,
		"CurrentUser":    identityUser(id),
	})
}
