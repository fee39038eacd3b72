package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jdvalencia/lineup-showdown/formations"
)

type FormationHandler struct{}

func NewFormationHandler() *FormationHandler {
	return &FormationHandler{}
}

func (h *FormationHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"formations": formations.All()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *FormationHandler) Get(w http.ResponseWriter, r *http.Request) {
	formation, err := formations.Lookup(chi.URLParam(r, "key"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"formation": formation}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
