package handlers

import (
	"net/http"

	"github.com/Dosada05/callclub/services"
	"github.com/go-chi/chi/v5"
)

type RankingHandler struct {
	rankingService services.RankingService
}

func NewRankingHandler(rs services.RankingService) *RankingHandler {
	return &RankingHandler{rankingService: rs}
}

// Championship godoc
// @Summary Overall ranking of a championship
// @Tags rankings
// @Produce json
// @Param championshipID path string true "Championship ID"
// @Success 200 {object} services.ChampionshipRanking
// @Failure 404 {object} map[string]string "Championship not found"
// @Router /rankings/championships/{championshipID} [get]
func (h *RankingHandler) Championship(w http.ResponseWriter, r *http.Request) {
	ranking, err := h.rankingService.GetChampionshipRanking(r.Context(), chi.URLParam(r, "championshipID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, ranking, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Round godoc
// @Summary Ranking of a single round
// @Tags rankings
// @Produce json
// @Param championshipID path string true "Championship ID"
// @Param round path int true "Round number"
// @Success 200 {object} services.ChampionshipRanking
// @Failure 400 {object} map[string]string "Invalid round"
// @Failure 404 {object} map[string]string "Championship not found"
// @Router /rankings/championships/{championshipID}/rounds/{round} [get]
func (h *RankingHandler) Round(w http.ResponseWriter, r *http.Request) {
	round, err := getRoundFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	ranking, err := h.rankingService.GetRoundRanking(r.Context(), chi.URLParam(r, "championshipID"), round)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, ranking, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// League godoc
// @Summary Ranking of a private league
// @Tags rankings
// @Produce json
// @Param leagueID path string true "League ID"
// @Success 200 {object} services.LeagueRanking
// @Failure 404 {object} map[string]string "League not found"
// @Router /rankings/leagues/{leagueID} [get]
func (h *RankingHandler) League(w http.ResponseWriter, r *http.Request) {
	ranking, err := h.rankingService.GetLeagueRanking(r.Context(), chi.URLParam(r, "leagueID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, ranking, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
