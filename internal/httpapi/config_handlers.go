package httpapi

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"sync/atomic"

	"github.com/JFdC77/job-search-assistant/internal/config"
	"github.com/JFdC77/job-search-assistant/internal/events"
)

// redactedDSN replaces the database DSN in responses. Sending it back in a PUT
// keeps the DSN stored in the config file.
const redactedDSN = "********"

type ConfigHandler struct {
	CfgVal      *atomic.Value // stores config.Config
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
	Hub         *events.Hub
}

func (h ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, redact(currentConfig(h.CfgVal)))
}

func redact(cfg config.Config) config.Config {
	if cfg.Database.DSN != "" {
		cfg.Database.DSN = redactedDSN
	}
	return cfg
}

// storedDSN is the DSN in the config file, without environment overrides.
func (h ConfigHandler) storedDSN() string {
	onDisk, err := config.Load(h.UserCfgPath)
	if err != nil {
		return ""
	}
	return onDisk.Database.DSN
}

func (h ConfigHandler) Put(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var incoming config.Config
	if err := dec.Decode(&incoming); err != nil {
		WriteError(w, r, http.StatusBadRequest, CodeInvalidJSON, "invalid JSON: "+err.Error())
		return
	}
	if dec.More() {
		WriteError(w, r, http.StatusBadRequest, CodeInvalidJSON, "invalid JSON: trailing data")
		return
	}

	if incoming.Database.DSN == redactedDSN {
		incoming.Database.DSN = h.storedDSN()
	}

	normalized, vr := config.NormalizeAndValidate(incoming)
	if !vr.OK() {
		// Structured errors so the UI can list them.
		WriteJSON(w, http.StatusBadRequest, vr)
		return
	}

	if err := config.SaveAtomic(h.UserCfgPath, normalized); err != nil {
		WriteError(w, r, http.StatusBadRequest, CodeSaveFailed, err.Error())
		return
	}

	saved, err := h.LoadCfg()
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, CodeReloadFailed, "saved but reload failed: "+err.Error())
		return
	}
	h.CfgVal.Store(saved)
	h.Hub.Emit(RequestIDFrom(r.Context()), events.TypeConfigUpdated, nil)
	WriteJSON(w, http.StatusOK, redact(saved))
}

func (h ConfigHandler) Path(w http.ResponseWriter, r *http.Request) {
	abs, _ := filepath.Abs(h.UserCfgPath)
	WriteJSON(w, http.StatusOK, map[string]any{"path": abs})
}

func (h ConfigHandler) Validate(w http.ResponseWriter, r *http.Request) {
	_, vr := config.NormalizeAndValidate(currentConfig(h.CfgVal))
	WriteJSON(w, http.StatusOK, vr)
}
