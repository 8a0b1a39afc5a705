package httpapi

import (
	"net/http"
	"strconv"
)

type RunsHandler struct {
	Store RunStore
}

func (h RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		WriteJSON(w, http.StatusOK, []any{})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := h.Store.ListRuns(r.Context(), limit)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, CodeStoreError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, runs)
}
