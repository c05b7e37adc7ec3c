package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Dosada05/callclub/services"
	"github.com/go-chi/chi/v5"
)

type PredictionHandler struct {
	predictionService services.PredictionService
}

func NewPredictionHandler(ps services.PredictionService) *PredictionHandler {
	return &PredictionHandler{predictionService: ps}
}

// Submit godoc
// @Summary Submit or replace a prediction
// @Tags predictions
// @Description Stores the caller's guess for a match. Rejected once the match is locked.
// @Accept json
// @Produce json
// @Param body body services.SubmitPredictionInput true "Guess"
// @Success 200 {object} map[string]interface{} "Stored prediction"
// @Failure 400 {object} map[string]string "Invalid guess"
// @Failure 404 {object} map[string]string "Match not found"
// @Failure 423 {object} map[string]string "Match locked"
// @Security BearerAuth
// @Router /predictions [post]
func (h *PredictionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	username, ok := currentUsername(w, r)
	if !ok {
		return
	}

	var input services.SubmitPredictionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.MatchID == "" {
		badRequestResponse(w, r, errors.New("match_id is required"))
		return
	}
	input.Username = username

	prediction, err := h.predictionService.SubmitPrediction(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"prediction": prediction}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMine godoc
// @Summary List the caller's predictions
// @Tags predictions
// @Produce json
// @Param championship_id query string false "Championship"
// @Param round query int false "Round"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /predictions/me [get]
func (h *PredictionHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	username, ok := currentUsername(w, r)
	if !ok {
		return
	}

	round, err := getOptionalRound(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	predictions, err := h.predictionService.ListUserPredictions(r.Context(), username, r.URL.Query().Get("championship_id"), round)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"predictions": predictions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListPublic godoc
// @Summary List another user's predictions
// @Tags predictions
// @Description Guesses on matches that have not finished are hidden.
// @Produce json
// @Param username path string true "Username"
// @Param championship_id query string true "Championship"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{username}/predictions [get]
func (h *PredictionHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	championshipID := r.URL.Query().Get("championship_id")
	if championshipID == "" {
		badRequestResponse(w, r, errors.New("championship_id query parameter is required"))
		return
	}

	predictions, err := h.predictionService.PublicPredictions(r.Context(), chi.URLParam(r, "username"), championshipID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"predictions": predictions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// LockStatus godoc
// @Summary Whether a match still accepts predictions
// @Tags predictions
// @Produce json
// @Param matchID path string true "Match ID"
// @Success 200 {object} services.LockStatus
// @Failure 404 {object} map[string]string "Match not found"
// @Router /matches/{matchID}/lock-status [get]
func (h *PredictionHandler) LockStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.predictionService.LockStatus(r.Context(), chi.URLParam(r, "matchID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, status, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Popular godoc
// @Summary Most predicted scoreline per match
// @Tags predictions
// @Produce json
// @Param match_ids query string true "Comma separated match IDs"
// @Success 200 {object} map[string]interface{} "Scoreline and vote count keyed by match ID"
// @Failure 400 {object} map[string]string "No match IDs or too many"
// @Router /matches/popular-predictions [get]
func (h *PredictionHandler) Popular(w http.ResponseWriter, r *http.Request) {
	popular, err := h.predictionService.PopularPredictions(r.Context(), strings.Split(r.URL.Query().Get("match_ids"), ","))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"popular": popular}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
