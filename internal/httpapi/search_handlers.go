package httpapi

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/JFdC77/job-search-assistant/internal/search"
)

type SearchHandler struct {
	Search *search.Service
	CfgVal *atomic.Value // config.Config
}

func (h SearchHandler) Status(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.Search.Status())
}

// Run starts a search in the background and returns immediately.
func (h SearchHandler) Run(w http.ResponseWriter, r *http.Request) {
	err := h.Search.Start(currentConfig(h.CfgVal), RequestIDFrom(r.Context()))
	if errors.Is(err, search.ErrRunning) {
		WriteError(w, r, http.StatusConflict, CodeAlreadyRunning, "a search is already running")
		return
	}
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, CodeSearchFailed, err.Error())
		return
	}
	WriteJSON(w, http.StatusAccepted, map[string]any{"ok": true})
}
