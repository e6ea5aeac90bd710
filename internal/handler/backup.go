package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/scancart/scancart/internal/backup"
	"github.com/scancart/scancart/internal/shopping"
)

// BackupHandler exposes backup export/import. Restore bypasses the state
// store's incremental methods and reinitializes it afterward.
type BackupHandler struct {
	codec  *backup.Codec
	remote *backup.Remote
	state  *shopping.Store
	logger *slog.Logger
}

func NewBackupHandler(codec *backup.Codec, remote *backup.Remote, state *shopping.Store, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{codec: codec, remote: remote, state: state, logger: logger}
}

type backupCreateResponse struct {
	backup.Result
	RemoteKey string `json:"remote_key,omitempty"`
}

func (h *BackupHandler) Create(w http.ResponseWriter, r *http.Request) {
	result, err := h.codec.Create()
	if err != nil {
		h.logger.Error("create backup", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := backupCreateResponse{Result: result}
	if h.remote != nil {
		key, err := h.remote.Upload(r.Context(), result.Path)
		if err != nil {
			// The local file exists; report it with the upload failure noted.
			h.logger.Error("upload backup", "error", err)
		} else {
			resp.RemoteKey = key
		}
	}
	writeJSON(w, http.StatusCreated, resp)
}

type restoreRequest struct {
	Path string `json:"path"`
}

func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	var req restoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}

	summary, err := h.codec.RestoreFromFile(req.Path)
	if err != nil {
		h.logger.Error("restore backup", "path", req.Path, "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, backup.ErrInvalidJSON) ||
			errors.Is(err, backup.ErrIncompatibleVersion) ||
			errors.Is(err, backup.ErrMissingLists) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	// Resynchronize the in-memory mirror with the restored storage.
	h.state.Initialize()
	writeJSON(w, http.StatusOK, summary)
}
