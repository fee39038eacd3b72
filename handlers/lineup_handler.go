package handlers

import (
	"errors"
	"net/http"

	"github.com/jdvalencia/lineup-showdown/lineup"
	"github.com/jdvalencia/lineup-showdown/services"
)

// LineupHandler exposes the lineup assignment store. Every route resolves
// its session from the teamA/teamB query parameters; (B, A) lands on the
// same session as (A, B).
type LineupHandler struct {
	sessions *lineup.Manager
}

func NewLineupHandler(sessions *lineup.Manager) *LineupHandler {
	return &LineupHandler{sessions: sessions}
}

func (h *LineupHandler) session(w http.ResponseWriter, r *http.Request) (*lineup.Store, bool) {
	teamAID := r.URL.Query().Get("teamA")
	teamBID := r.URL.Query().Get("teamB")
	if teamAID == "" {
		badRequestResponse(w, r, errors.New("teamA query parameter is required"))
		return nil, false
	}

	store, err := h.sessions.Session(r.Context(), teamAID, teamBID)
	if err != nil {
		if errors.Is(err, services.ErrTeamNotFound) {
			notFoundResponse(w, r)
		} else {
			serverErrorResponse(w, r, err)
		}
		return nil, false
	}
	return store, true
}

func (h *LineupHandler) writeState(w http.ResponseWriter, r *http.Request, store *lineup.Store) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"lineup": store.State()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// State loads (or resumes) the session for a team combination.
func (h *LineupHandler) State(w http.ResponseWriter, r *http.Request) {
	store, ok := h.session(w, r)
	if !ok {
		return
	}
	h.writeState(w, r, store)
}

func (h *LineupHandler) SetFormation(w http.ResponseWriter, r *http.Request) {
	store, ok := h.session(w, r)
	if !ok {
		return
	}

	var input struct {
		Key string `json:"key"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := store.SetFormation(r.Context(), input.Key); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeState(w, r, store)
}

func (h *LineupHandler) Assign(w http.ResponseWriter, r *http.Request) {
	store, ok := h.session(w, r)
	if !ok {
		return
	}

	var input struct {
		SlotKey  string `json:"slotKey"`
		TeamID   string `json:"teamId"`
		PlayerID string `json:"playerId,omitempty"`
		Coach    bool   `json:"coach,omitempty"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var err error
	if input.Coach {
		if input.SlotKey != lineup.CoachSlotKey {
			mapServiceErrorToHTTP(w, r, lineup.ErrCoachSlotOnly)
			return
		}
		err = store.AssignCoach(r.Context(), input.TeamID)
	} else {
		err = store.AssignPlayer(r.Context(), input.SlotKey, input.TeamID, input.PlayerID)
	}
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeState(w, r, store)
}

func (h *LineupHandler) ClearSlot(w http.ResponseWriter, r *http.Request) {
	store, ok := h.session(w, r)
	if !ok {
		return
	}

	var input struct {
		SlotKey string `json:"slotKey"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := store.ClearSlot(r.Context(), input.SlotKey); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeState(w, r, store)
}

func (h *LineupHandler) Reset(w http.ResponseWriter, r *http.Request) {
	store, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := store.ResetLineup(r.Context()); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeState(w, r, store)
}

func (h *LineupHandler) ToggleBench(w http.ResponseWriter, r *http.Request) {
	store, ok := h.session(w, r)
	if !ok {
		return
	}
	visible, err := store.ToggleBenchVisibility(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"benchVisible": visible}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LineupHandler) EligiblePlayers(w http.ResponseWriter, r *http.Request) {
	store, ok := h.session(w, r)
	if !ok {
		return
	}

	slotKey := r.URL.Query().Get("slot")
	if slotKey == "" {
		badRequestResponse(w, r, errors.New("slot query parameter is required"))
		return
	}

	eligible := store.EligiblePlayersForSlot(slotKey)
	if err := writeJSON(w, http.StatusOK, jsonResponse{"eligible": eligible}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LineupHandler) Counts(w http.ResponseWriter, r *http.Request) {
	store, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"counts": store.PlayerCounts()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
