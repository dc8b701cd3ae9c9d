// Package handler implements the HTTP handlers for the tags widget server.
// All handlers are methods on Server. Methods are split into files by
// surface (widget.go for the JSON API, events.go for Datastar events,
// page.go for the HTML view) but share the same Server struct so they can
// access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/tags-widget/internal/domain"
	"github.com/pkordes/tags-widget/internal/widget"
)

// WidgetServicer defines the business operations the handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching storage or the service layer.
type WidgetServicer interface {
	Create(ctx context.Context) (domain.WidgetState, error)
	List(ctx context.Context, p domain.PaginationParams) ([]string, int64, error)
	State(ctx context.Context, id string) (domain.WidgetState, error)
	Export(ctx context.Context, id string) ([]domain.Entry, error)
	Render(ctx context.Context, id string, surf widget.Surface) error
	Dispatch(ctx context.Context, id string, ev widget.Event, surf widget.Surface) error
	Submit(ctx context.Context, id, draft string, surf widget.Surface) (domain.WidgetState, error)
	SetTags(ctx context.Context, id string, values []string, surf widget.Surface) (domain.WidgetState, error)
	DeleteTag(ctx context.Context, id string, entryID int, surf widget.Surface) (domain.WidgetState, error)
	SetReadOnly(ctx context.Context, id string, readOnly bool, surf widget.Surface) (domain.WidgetState, error)
	Reset(ctx context.Context, id string) error
}

// DefaultDatastarURL is the Datastar client bundle the HTML view loads.
const DefaultDatastarURL = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

// Options configures a Server.
type Options struct {
	// Logger receives handler errors. Defaults to slog.Default().
	Logger *slog.Logger

	// DatastarURL is the script src of the Datastar client bundle.
	// Defaults to DefaultDatastarURL.
	DatastarURL string
}

// Server serves the JSON API, the Datastar event endpoints and the HTML view.
// Wire it in main.go via r.Mount("/", server.Handler()).
type Server struct {
	widgets     WidgetServicer
	log         *slog.Logger
	datastarURL string
}

// NewServer constructs the Server with all its dependencies.
func NewServer(widgets WidgetServicer, opts Options) *Server {
	s := &Server{widgets: widgets, log: opts.Logger, datastarURL: opts.DatastarURL}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.datastarURL == "" {
		s.datastarURL = DefaultDatastarURL
	}
	return s
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, Options{})
}

// Handler returns the router for every route the server handles.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/widgets", func(r chi.Router) {
		r.Get("/", s.ListWidgets)
		r.Post("/", s.CreateWidget)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetWidget)
			r.Delete("/", s.ResetWidget)
			r.Get("/view", s.ViewWidget)
			r.Get("/export", s.ExportWidget)
			r.Put("/tags", s.SetTags)
			r.Post("/tags", s.AddTag)
			r.Delete("/tags/{entryId}", s.DeleteTag)
			r.Put("/read-only", s.SetReadOnly)

			r.Route("/events", func(r chi.Router) {
				r.Post("/submit", s.SubmitEvent)
				r.Post("/toggle", s.ToggleEvent)
				r.Post("/delete/{dataId}", s.DeleteEvent)
			})
		})
	})
	return r
}
