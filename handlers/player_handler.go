package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jdvalencia/lineup-showdown/lineup"
	"github.com/jdvalencia/lineup-showdown/services"
)

type PlayerHandler struct {
	playerService services.PlayerService
	sessions      *lineup.Manager
}

func NewPlayerHandler(playerService services.PlayerService, sessions *lineup.Manager) *PlayerHandler {
	return &PlayerHandler{playerService: playerService, sessions: sessions}
}

func (h *PlayerHandler) Add(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")

	var input services.PlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.AddPlayer(r.Context(), teamID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.sessions.Invalidate(teamID)
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) Update(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	playerID := chi.URLParam(r, "playerID")

	var input services.PlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.UpdatePlayer(r.Context(), teamID, playerID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.sessions.Invalidate(teamID)
	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	playerID := chi.URLParam(r, "playerID")

	result, err := h.playerService.DeletePlayer(r.Context(), teamID, playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.sessions.Invalidate(teamID)

	response := jsonResponse{"deleted": playerID}
	if result.ImageCleanupWarning != "" {
		response["warning"] = result.ImageCleanupWarning
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) Move(w http.ResponseWriter, r *http.Request) {
	input := services.MovePlayerInput{
		FromTeamID: chi.URLParam(r, "teamID"),
		PlayerID:   chi.URLParam(r, "playerID"),
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.MovePlayer(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.sessions.Invalidate(input.FromTeamID)
	h.sessions.Invalidate(input.ToTeamID)
	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) EndLoan(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	playerID := chi.URLParam(r, "playerID")

	if err := h.playerService.EndLoan(r.Context(), teamID, playerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.sessions.Invalidate(teamID)
	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": playerID}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) ClearStats(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")

	if err := h.playerService.ClearStats(r.Context(), teamID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.sessions.Invalidate(teamID)
	if err := writeJSON(w, http.StatusOK, jsonResponse{"cleared": teamID}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
