package handler

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/tags-widget/internal/surface"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templateFS, "templates/page.html"))

type pageView struct {
	Title       string
	DatastarURL string
	Widget      template.HTML
}

// ViewWidget handles GET /widgets/{id}/view. The widget renders itself onto
// a server-side DOM, which is then served inside a page that loads Datastar,
// so later interactions arrive on the event endpoints.
func (s *Server) ViewWidget(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	dom := surface.NewDOM(id)
	if err := s.widgets.Render(r.Context(), id, dom); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	err := pageTmpl.Execute(&buf, pageView{
		Title:       "Tags · " + id,
		DatastarURL: s.datastarURL,
		Widget:      template.HTML(dom.HTML()), //nolint:gosec // produced by the widget's own templates
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	buf.WriteTo(w)
}
