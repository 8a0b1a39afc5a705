package httpapi

import (
	"net/http"

	"github.com/JFdC77/job-search-assistant/internal/search"
)

type HealthHandler struct {
	Search *search.Service
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	st := h.Search.Status()
	WriteJSON(w, http.StatusOK, map[string]any{
		"ok":          true,
		"running":     st.Running,
		"last_ok_at":  st.LastOkAt,
		"last_run_id": st.LastRunID,
	})
}
