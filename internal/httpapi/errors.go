package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Error codes returned in APIError.Error.Code.
const (
	CodeNotFound          = "not_found"
	CodeInvalidID         = "invalid_id"
	CodeInvalidQuery      = "invalid_query"
	CodeInvalidJSON       = "invalid_json"
	CodeAlreadyRunning    = "already_running"
	CodeSearchFailed      = "search_failed"
	CodeStoreError        = "store_error"
	CodeSaveFailed        = "save_failed"
	CodeReloadFailed      = "reload_failed"
	CodeUnknownSource     = "unknown_source"
	CodeNoCredentials     = "no_credentials"
	CodeStoreFailed       = "store_failed"
	CodeDeleteFailed      = "delete_failed"
	CodeForbidden         = "forbidden"
	CodeStreamUnsupported = "stream_unsupported"
	CodeInternal          = "internal_error"
)

type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

// WriteJSON writes v as UTF-8 JSON. Listing titles and descriptions are sent
// as-is, so "&" and "<" are not escaped.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		slog.Debug("http: encode response", "status", status, "err", err)
	}
}

// WriteError writes an APIError. Server-side failures are logged with the request ID.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	if status >= http.StatusInternalServerError {
		slog.Error("http: request failed", "request_id", e.Error.RequestID, "method", r.Method,
			"path", r.URL.Path, "code", code, "msg", message)
	}
	WriteJSON(w, status, e)
}
