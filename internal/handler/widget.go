package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/tags-widget/internal/domain"
	"github.com/pkordes/tags-widget/internal/surface"
)

// WidgetResponse is the JSON shape of a widget's state.
type WidgetResponse struct {
	ID       string         `json:"id"`
	Tags     []string       `json:"tags"`
	Entries  []domain.Entry `json:"entries"`
	ReadOnly bool           `json:"read_only"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// WidgetListResponse is the body of GET /widgets.
type WidgetListResponse struct {
	Data       []string   `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// SetTagsRequest is the body of PUT /widgets/{id}/tags.
type SetTagsRequest struct {
	Tags []string `json:"tags"`
}

// AddTagRequest is the body of POST /widgets/{id}/tags.
type AddTagRequest struct {
	Tag string `json:"tag"`
}

// ReadOnlyRequest is the body of PUT /widgets/{id}/read-only.
type ReadOnlyRequest struct {
	ReadOnly *bool `json:"read_only"`
}

// ListWidgets handles GET /widgets.
func (s *Server) ListWidgets(w http.ResponseWriter, r *http.Request) {
	var page, limit *int
	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &page); err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody("invalid page parameter"))
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody("invalid limit parameter"))
		return
	}
	p := domain.NewPaginationParams(page, limit)

	ids, total, err := s.widgets.List(r.Context(), p)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, WidgetListResponse{
		Data:       ids,
		Pagination: Pagination{Page: p.Page, Limit: p.Limit, Total: total},
	})
}

// CreateWidget handles POST /widgets.
func (s *Server) CreateWidget(w http.ResponseWriter, r *http.Request) {
	state, err := s.widgets.Create(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Location", "/widgets/"+state.ID)
	writeJSON(w, http.StatusCreated, toWidgetResponse(state))
}

// GetWidget handles GET /widgets/{id}.
func (s *Server) GetWidget(w http.ResponseWriter, r *http.Request) {
	state, err := s.widgets.State(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWidgetResponse(state))
}

// ResetWidget handles DELETE /widgets/{id}.
func (s *Server) ResetWidget(w http.ResponseWriter, r *http.Request) {
	if err := s.widgets.Reset(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetTags handles PUT /widgets/{id}/tags.
func (s *Server) SetTags(w http.ResponseWriter, r *http.Request) {
	var body SetTagsRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Tags == nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("tags is required"))
		return
	}
	state, err := s.widgets.SetTags(r.Context(), chi.URLParam(r, "id"), body.Tags, surface.Discard)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWidgetResponse(state))
}

// AddTag handles POST /widgets/{id}/tags. The tag goes through the same
// submission flow as the widget's form.
func (s *Server) AddTag(w http.ResponseWriter, r *http.Request) {
	var body AddTagRequest
	if !decodeBody(w, r, &body) {
		return
	}
	state, err := s.widgets.Submit(r.Context(), chi.URLParam(r, "id"), body.Tag, surface.Discard)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toWidgetResponse(state))
}

// DeleteTag handles DELETE /widgets/{id}/tags/{entryId}.
// Deleting an id that matches nothing still succeeds.
func (s *Server) DeleteTag(w http.ResponseWriter, r *http.Request) {
	var entryID int
	err := runtime.BindStyledParameterWithOptions("simple", "entryId", chi.URLParam(r, "entryId"), &entryID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody("entryId must be an integer"))
		return
	}
	if _, err := s.widgets.DeleteTag(r.Context(), chi.URLParam(r, "id"), entryID, surface.Discard); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetReadOnly handles PUT /widgets/{id}/read-only.
func (s *Server) SetReadOnly(w http.ResponseWriter, r *http.Request) {
	var body ReadOnlyRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.ReadOnly == nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("read_only is required"))
		return
	}
	state, err := s.widgets.SetReadOnly(r.Context(), chi.URLParam(r, "id"), *body.ReadOnly, surface.Discard)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWidgetResponse(state))
}

// toWidgetResponse maps domain state to its JSON shape. Nil slices become
// empty arrays so clients never see null.
func toWidgetResponse(st domain.WidgetState) WidgetResponse {
	resp := WidgetResponse{ID: st.ID, Tags: st.Tags, Entries: st.Entries, ReadOnly: st.ReadOnly}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if resp.Entries == nil {
		resp.Entries = []domain.Entry{}
	}
	return resp
}
