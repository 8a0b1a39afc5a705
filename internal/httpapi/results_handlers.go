package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JFdC77/job-search-assistant/internal/rank"
	"github.com/JFdC77/job-search-assistant/internal/search"
)

type ResultsHandler struct {
	Search *search.Service
}

// List returns the latest run ranked by the query's filters. Omitted filters are off.
func (h ResultsHandler) List(w http.ResponseWriter, r *http.Request) {
	opt, err := rankOptions(r.URL.Query(), rank.Options{})
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, CodeInvalidQuery, err.Error())
		return
	}
	rs := h.Search.Results(r.Context(), opt)
	WriteJSON(w, http.StatusOK, rs)
}

func (h ResultsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 0 {
		WriteError(w, r, http.StatusBadRequest, CodeInvalidID, "invalid id")
		return
	}
	l, ok := h.Search.Listing(r.Context(), r.URL.Query().Get("run"), id)
	if !ok {
		WriteError(w, r, http.StatusNotFound, CodeNotFound, "listing not found")
		return
	}
	WriteJSON(w, http.StatusOK, l)
}
