package handlers

import (
	"net/http"

	"github.com/Dosada05/callclub/services"
	"github.com/go-chi/chi/v5"
)

type ProfileHandler struct {
	profileService services.ProfileService
}

func NewProfileHandler(ps services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: ps}
}

// Get godoc
// @Summary Public profile of a user
// @Tags users
// @Description Joined leagues, the latest predictions and game statistics. Guesses on unfinished matches are hidden.
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} services.UserProfile
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{username}/profile [get]
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profileService.GetProfile(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, profile, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
