package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/pkordes/tags-widget/internal/domain"
	"github.com/pkordes/tags-widget/internal/surface"
	"github.com/pkordes/tags-widget/internal/widget"
)

// SubmitEvent handles POST /widgets/{id}/events/submit, sent by the
// widget's form with the draft in the "tag" field.
func (s *Server) SubmitEvent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody("malformed form body"))
		return
	}
	s.dispatch(w, r, widget.Submit{Draft: r.PostForm.Get(widget.FieldTag)})
}

// ToggleEvent handles POST /widgets/{id}/events/toggle. A checked checkbox
// posts read_only=on; an unchecked one posts nothing.
func (s *Server) ToggleEvent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody("malformed form body"))
		return
	}
	s.dispatch(w, r, widget.ToggleClick{Checked: r.PostForm.Get(widget.FieldReadOnly) == "on"})
}

// DeleteEvent handles POST /widgets/{id}/events/delete/{dataId}. dataId is
// the clicked affordance's data-id, passed through uncoerced.
func (s *Server) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, widget.TagsClick{DeleteControl: true, DataID: chi.URLParam(r, "dataId")})
}

// dispatch streams the widget's reaction to ev back as Datastar events.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, ev widget.Event) {
	id := chi.URLParam(r, "id")
	if !domain.ValidWidgetID(id) {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("invalid widget id"))
		return
	}

	sse := datastar.NewSSE(w, r)
	surf := surface.NewSSE(sse, id)
	if err := s.widgets.Dispatch(r.Context(), id, ev, surf); err != nil {
		s.log.ErrorContext(r.Context(), "widget event failed",
			"widget_id", id, "event", fmt.Sprintf("%T", ev), "error", err)
		//nolint:errcheck // the stream is already broken if this fails.
		sse.ExecuteScript("console.error(" + strconv.Quote("tags widget: "+err.Error()) + ")")
		return
	}
	if err := surf.Err(); err != nil {
		s.log.WarnContext(r.Context(), "widget event stream", "widget_id", id, "error", err)
	}
}
