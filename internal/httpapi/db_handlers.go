package httpapi

import (
	"net"
	"net/http"
)

type DBHandler struct {
	Store RunStore
}

// Checkpoint flushes the sqlite WAL. Only loopback clients may call it.
func (h DBHandler) Checkpoint(w http.ResponseWriter, r *http.Request) {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if ip := net.ParseIP(host); ip == nil || !ip.IsLoopback() {
		WriteError(w, r, http.StatusForbidden, CodeForbidden, "forbidden")
		return
	}
	if h.Store == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err := h.Store.Checkpoint(r.Context()); err != nil {
		WriteError(w, r, http.StatusInternalServerError, CodeStoreError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
