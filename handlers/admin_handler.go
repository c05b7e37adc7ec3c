package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/callclub/models"
	"github.com/Dosada05/callclub/services"
	"github.com/go-chi/chi/v5"
)

type AdminUserHandler struct {
	adminUserService services.AdminUserService
}

func NewAdminUserHandler(s services.AdminUserService) *AdminUserHandler {
	return &AdminUserHandler{adminUserService: s}
}

type updatePlanInput struct {
	Plan models.PlanType `json:"plan"`
}

type setBannedInput struct {
	Banned bool `json:"banned"`
}

// ListUsers godoc
// @Summary List every user, banned included
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admin/users [get]
func (h *AdminUserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminUserService.ListUsers(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"users": users}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdatePlan godoc
// @Summary Change a user's plan
// @Tags admin
// @Accept json
// @Param username path string true "Username"
// @Param body body updatePlanInput true "free, premium or vip"
// @Success 204 "Updated"
// @Failure 400 {object} map[string]string "Unknown plan"
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /admin/users/{username}/plan [patch]
func (h *AdminUserHandler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	var input updatePlanInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.adminUserService.UpdatePlan(r.Context(), chi.URLParam(r, "username"), input.Plan); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetBanned godoc
// @Summary Ban or unban a user
// @Tags admin
// @Accept json
// @Param username path string true "Username"
// @Param body body setBannedInput true "Ban flag"
// @Success 204 "Updated"
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /admin/users/{username}/ban [patch]
func (h *AdminUserHandler) SetBanned(w http.ResponseWriter, r *http.Request) {
	var input setBannedInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.adminUserService.SetBanned(r.Context(), chi.URLParam(r, "username"), input.Banned); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdminResultsHandler exposes the scoring maintenance operations.
type AdminResultsHandler struct {
	pointsService   services.PointsService
	syncService     services.SyncService
	snapshotService services.SnapshotService
}

func NewAdminResultsHandler(ps services.PointsService, ss services.SyncService, snap services.SnapshotService) *AdminResultsHandler {
	return &AdminResultsHandler{
		pointsService:   ps,
		syncService:     ss,
		snapshotService: snap,
	}
}

// UpdateMatchResult godoc
// @Summary Set a match result
// @Tags admin
// @Description Finishing a match scores its predictions and updates the totals of the users who predicted it. Setting is_finished to false reopens it and clears its points.
// @Accept json
// @Produce json
// @Param matchID path string true "Match ID"
// @Param body body services.MatchResultInput true "Scores and finished flag"
// @Success 200 {object} map[string]interface{} "Predictions recalculated"
// @Failure 400 {object} map[string]string "Invalid scores"
// @Failure 404 {object} map[string]string "Match not found"
// @Security BearerAuth
// @Router /admin/matches/{matchID}/result [post]
func (h *AdminResultsHandler) UpdateMatchResult(w http.ResponseWriter, r *http.Request) {
	var input services.MatchResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.HomeScore == nil && input.AwayScore == nil && input.IsFinished == nil {
		badRequestResponse(w, r, errors.New("nothing to update"))
		return
	}
	input.MatchID = chi.URLParam(r, "matchID")

	updated, err := h.pointsService.UpdateMatchResult(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match_id": input.MatchID, "predictions_recalculated": updated}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Recalculate godoc
// @Summary Recalculate every prediction and total
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{} "Users updated"
// @Security BearerAuth
// @Router /admin/recalculate [post]
func (h *AdminResultsHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	users, err := h.pointsService.RecalculateAll(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"users_updated": users}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Sync godoc
// @Summary Pull fixtures and results from the feed
// @Tags admin
// @Produce json
// @Success 200 {object} services.SyncReport
// @Security BearerAuth
// @Router /admin/sync [post]
func (h *AdminResultsHandler) Sync(w http.ResponseWriter, r *http.Request) {
	report, err := h.syncService.SyncResults(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, report, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PublishSnapshots godoc
// @Summary Upload ranking snapshots to object storage
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{} "Snapshots uploaded"
// @Security BearerAuth
// @Router /admin/snapshots [post]
func (h *AdminResultsHandler) PublishSnapshots(w http.ResponseWriter, r *http.Request) {
	published, err := h.snapshotService.PublishChampionshipSnapshots(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"snapshots_uploaded": published}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type AdminStatsHandler struct {
	statsService services.AdminStatsService
}

func NewAdminStatsHandler(s services.AdminStatsService) *AdminStatsHandler {
	return &AdminStatsHandler{statsService: s}
}

// Stats godoc
// @Summary Entity counts
// @Tags admin
// @Produce json
// @Success 200 {object} services.AdminStats
// @Security BearerAuth
// @Router /admin/stats [get]
func (h *AdminStatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.Stats(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, stats, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
