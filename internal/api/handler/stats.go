package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/spellduel-go/internal/api/response"
	"github.com/mcoot/spellduel-go/internal/model"
	"github.com/mcoot/spellduel-go/internal/services/stats"
)

// StatsHandler handles player stats endpoints
type StatsHandler struct {
	statsService *stats.Service
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *stats.Service) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// Get handles GET /api/v1/players/{player_id}/stats
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	playerID := model.PlayerID(mux.Vars(r)["player_id"])

	playerStats, err := h.statsService.GetStats(r.Context(), playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerStatsFromModel(playerStats))
}
