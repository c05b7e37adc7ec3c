package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Dosada05/callclub/services"
	"github.com/go-chi/chi/v5"
)

type LeagueHandler struct {
	leagueService  services.LeagueService
	rankingService services.RankingService
}

func NewLeagueHandler(ls services.LeagueService, rs services.RankingService) *LeagueHandler {
	return &LeagueHandler{
		leagueService:  ls,
		rankingService: rs,
	}
}

// Create godoc
// @Summary Create a private league
// @Tags leagues
// @Description The caller becomes the owner and first member. Limited by plan.
// @Accept json
// @Produce json
// @Param body body services.CreateLeagueInput true "League name and championship"
// @Success 201 {object} map[string]interface{} "League created"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 403 {object} map[string]string "Plan limit reached"
// @Failure 404 {object} map[string]string "Championship not found"
// @Security BearerAuth
// @Router /leagues [post]
func (h *LeagueHandler) Create(w http.ResponseWriter, r *http.Request) {
	username, ok := currentUsername(w, r)
	if !ok {
		return
	}

	var input services.CreateLeagueInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if strings.TrimSpace(input.ChampionshipID) == "" {
		badRequestResponse(w, r, errors.New("championship_id is required"))
		return
	}

	league, err := h.leagueService.CreateLeague(r.Context(), username, input.ChampionshipID, input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"league": league}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Join godoc
// @Summary Join a league with its invite code
// @Tags leagues
// @Accept json
// @Produce json
// @Param body body services.JoinLeagueInput true "Invite code"
// @Success 200 {object} map[string]interface{} "Joined league"
// @Failure 404 {object} map[string]string "Unknown code"
// @Failure 409 {object} map[string]string "Already a member or league full"
// @Security BearerAuth
// @Router /leagues/join [post]
func (h *LeagueHandler) Join(w http.ResponseWriter, r *http.Request) {
	username, ok := currentUsername(w, r)
	if !ok {
		return
	}

	var input services.JoinLeagueInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if strings.TrimSpace(input.InviteCode) == "" {
		badRequestResponse(w, r, errors.New("invite_code is required"))
		return
	}

	league, err := h.leagueService.JoinLeague(r.Context(), username, input.InviteCode)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"league": league}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Leave godoc
// @Summary Leave a league
// @Tags leagues
// @Param leagueID path string true "League ID"
// @Success 204 "Left"
// @Failure 403 {object} map[string]string "Owner cannot leave"
// @Failure 404 {object} map[string]string "League not found"
// @Security BearerAuth
// @Router /leagues/{leagueID}/leave [post]
func (h *LeagueHandler) Leave(w http.ResponseWriter, r *http.Request) {
	username, ok := currentUsername(w, r)
	if !ok {
		return
	}

	if err := h.leagueService.LeaveLeague(r.Context(), username, chi.URLParam(r, "leagueID")); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete godoc
// @Summary Delete a league
// @Tags leagues
// @Param leagueID path string true "League ID"
// @Success 204 "Deleted"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "League not found"
// @Security BearerAuth
// @Router /leagues/{leagueID} [delete]
func (h *LeagueHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username, ok := currentUsername(w, r)
	if !ok {
		return
	}

	if err := h.leagueService.DeleteLeague(r.Context(), chi.URLParam(r, "leagueID"), username); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Get godoc
// @Summary League details with its ranking
// @Tags leagues
// @Produce json
// @Param leagueID path string true "League ID"
// @Success 200 {object} services.LeagueRanking
// @Failure 404 {object} map[string]string "League not found"
// @Security BearerAuth
// @Router /leagues/{leagueID} [get]
func (h *LeagueHandler) Get(w http.ResponseWriter, r *http.Request) {
	details, err := h.rankingService.GetLeagueRanking(r.Context(), chi.URLParam(r, "leagueID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, details, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMine godoc
// @Summary Leagues the caller belongs to
// @Tags leagues
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /leagues/mine [get]
func (h *LeagueHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	username, ok := currentUsername(w, r)
	if !ok {
		return
	}

	leagues, err := h.leagueService.ListUserLeagues(r.Context(), username)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leagues": leagues}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
