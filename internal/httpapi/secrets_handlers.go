package httpapi

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"

	"github.com/JFdC77/job-search-assistant/internal/secrets"
)

// SecretsHandler stores source credentials in the OS keychain.
// SetFn and DeleteFn default to the keychain; tests inject fakes.
type SecretsHandler struct {
	CfgVal   *atomic.Value // stores config.Config
	SetFn    func(account, value string) error
	DeleteFn func(account string) error
}

type setSecretReq struct {
	Value string `json:"value"`
}

// account resolves the keychain account of the {name} source, writing the error response itself.
func (h SecretsHandler) account(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := chi.URLParam(r, "name")
	src, ok := currentConfig(h.CfgVal).Source(name)
	if !ok {
		WriteError(w, r, http.StatusNotFound, CodeUnknownSource, "unknown source "+name)
		return "", false
	}
	acct, err := secrets.Account(src)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, CodeNoCredentials, err.Error())
		return "", false
	}
	return acct, true
}

// Set stores the credential of the named source (IMAP password or API token).
func (h SecretsHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req setSecretReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, CodeInvalidJSON, "invalid json")
		return
	}
	acct, ok := h.account(w, r)
	if !ok {
		return
	}

	set := h.SetFn
	if set == nil {
		set = secrets.Set
	}
	if err := set(acct, req.Value); err != nil {
		WriteError(w, r, http.StatusBadRequest, CodeStoreFailed, "failed to store secret: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete removes the credential of the named source. Deleting a missing secret is not an error.
func (h SecretsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	acct, ok := h.account(w, r)
	if !ok {
		return
	}

	del := h.DeleteFn
	if del == nil {
		del = secrets.Delete
	}
	if err := del(acct); err != nil {
		WriteError(w, r, http.StatusInternalServerError, CodeDeleteFailed, "failed to delete secret: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
