package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jdvalencia/lineup-showdown/lineup"
	"github.com/jdvalencia/lineup-showdown/models"
	"github.com/jdvalencia/lineup-showdown/services"
)

type BackupHandler struct {
	backupService services.BackupService
	sessions      *lineup.Manager
}

func NewBackupHandler(backupService services.BackupService, sessions *lineup.Manager) *BackupHandler {
	return &BackupHandler{backupService: backupService, sessions: sessions}
}

func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	backup, err := h.backupService.Export(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	headers := http.Header{}
	headers.Set("Content-Disposition", `attachment; filename="lineup-showdown-backup.json"`)
	if err := writeJSON(w, http.StatusOK, backup, headers); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BackupHandler) ExportTeam(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")

	backup, err := h.backupService.ExportTeam(r.Context(), teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	headers := http.Header{}
	headers.Set("Content-Disposition", `attachment; filename="`+teamID+`-backup.json"`)
	if err := writeJSON(w, http.StatusOK, backup, headers); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	var backup models.Backup
	if err := readJSON(w, r, &backup); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	imported, err := h.backupService.Import(r.Context(), backup)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	// Imported documents may rewrite rosters wholesale, so every cached
	// session is suspect.
	h.sessions.InvalidateAll()

	if err := writeJSON(w, http.StatusOK, jsonResponse{"imported": imported}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
