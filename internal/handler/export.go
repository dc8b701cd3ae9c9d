package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/tags-widget/internal/domain"
	"github.com/pkordes/tags-widget/internal/export"
)

// ExportWidget implements GET /widgets/{id}/export.
// It returns the widget's entries in collection order.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) ExportWidget(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "csv" && format != "json" {
		writeJSON(w, http.StatusBadRequest, requestBody("format must be csv or json"))
		return
	}

	id := chi.URLParam(r, "id")
	entries, err := s.widgets.Export(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	if format != "csv" {
		if entries == nil {
			entries = []domain.Entry{}
		}
		writeJSON(w, http.StatusOK, entries)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, entries); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+id+`.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	buf.WriteTo(w)
}
