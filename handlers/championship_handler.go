package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Dosada05/callclub/services"
	"github.com/go-chi/chi/v5"
)

type ChampionshipHandler struct {
	championshipService services.ChampionshipService
}

func NewChampionshipHandler(cs services.ChampionshipService) *ChampionshipHandler {
	return &ChampionshipHandler{championshipService: cs}
}

// List godoc
// @Summary List championships
// @Tags championships
// @Produce json
// @Param all query bool false "Include inactive championships"
// @Success 200 {object} map[string]interface{}
// @Router /championships [get]
func (h *ChampionshipHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("all") != "true"

	championships, err := h.championshipService.List(r.Context(), activeOnly)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"championships": championships}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Get godoc
// @Summary Championship with its current round
// @Tags championships
// @Produce json
// @Param championshipID path string true "Championship ID"
// @Success 200 {object} services.ChampionshipDetails
// @Failure 404 {object} map[string]string "Championship not found"
// @Router /championships/{championshipID} [get]
func (h *ChampionshipHandler) Get(w http.ResponseWriter, r *http.Request) {
	details, err := h.championshipService.Get(r.Context(), chi.URLParam(r, "championshipID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, details, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// MatchesByRound godoc
// @Summary Matches of a round
// @Tags championships
// @Produce json
// @Param championshipID path string true "Championship ID"
// @Param round path int true "Round number"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Invalid round"
// @Failure 404 {object} map[string]string "Championship not found"
// @Router /championships/{championshipID}/rounds/{round}/matches [get]
func (h *ChampionshipHandler) MatchesByRound(w http.ResponseWriter, r *http.Request) {
	round, err := getRoundFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.championshipService.MatchesByRound(r.Context(), chi.URLParam(r, "championshipID"), round)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// NextMatch godoc
// @Summary Next match to be played
// @Tags championships
// @Description Earliest unfinished match that has not kicked off, or the earliest unfinished one.
// @Produce json
// @Param championshipID path string true "Championship ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Championship not found or no match left"
// @Router /championships/{championshipID}/next-match [get]
func (h *ChampionshipHandler) NextMatch(w http.ResponseWriter, r *http.Request) {
	match, err := h.championshipService.NextMatch(r.Context(), chi.URLParam(r, "championshipID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Rounds godoc
// @Summary Every round of a championship
// @Tags championships
// @Produce json
// @Param championshipID path string true "Championship ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Championship not found"
// @Router /championships/{championshipID}/rounds [get]
func (h *ChampionshipHandler) Rounds(w http.ResponseWriter, r *http.Request) {
	rounds, err := h.championshipService.Rounds(r.Context(), chi.URLParam(r, "championshipID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"rounds": rounds}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Create godoc
// @Summary Create a championship
// @Tags admin
// @Accept json
// @Produce json
// @Param body body services.CreateChampionshipInput true "Championship"
// @Success 201 {object} map[string]interface{} "Championship created"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 409 {object} map[string]string "Championship exists"
// @Security BearerAuth
// @Router /admin/championships [post]
func (h *ChampionshipHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateChampionshipInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if strings.TrimSpace(input.Name) == "" {
		badRequestResponse(w, r, errors.New("name is required"))
		return
	}

	championship, err := h.championshipService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"championship": championship}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpsertMatch godoc
// @Summary Create or reschedule a match
// @Tags admin
// @Accept json
// @Produce json
// @Param body body services.UpsertMatchInput true "Fixture"
// @Success 200 {object} map[string]interface{} "Stored match"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Championship not found"
// @Security BearerAuth
// @Router /admin/matches [put]
func (h *ChampionshipHandler) UpsertMatch(w http.ResponseWriter, r *http.Request) {
	var input services.UpsertMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.championshipService.UpsertMatch(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
