package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sharppicks/internal/espn"
	"sharppicks/internal/odds"
	"sharppicks/internal/openai"
	"sharppicks/internal/pickcache"
	"sharppicks/internal/services"
)

// PicksHandler serves recommendation endpoints: best pick, upcoming games,
// single-game analysis, and parlay generation
type PicksHandler struct {
	predictor *services.PredictorService
	parlays   *services.ParlayService
	oddsStore *odds.Store
	cache     *pickcache.Cache
}

// NewPicksHandler creates a new PicksHandler
func NewPicksHandler(predictor *services.PredictorService, parlays *services.ParlayService, oddsStore *odds.Store, cache *pickcache.Cache) *PicksHandler {
	return &PicksHandler{
		predictor: predictor,
		parlays:   parlays,
		oddsStore: oddsStore,
		cache:     cache,
	}
}

// GetBestPick serves the best expected-value pick for a sport
func (h *PicksHandler) GetBestPick(c *gin.Context) {
	sport := strings.ToLower(c.Param("sport"))
	if !espn.SupportedSport(sport) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported sport: " + sport})
		return
	}

	rec, err := h.predictor.BestPick(c.Request.Context(), sport)
	if err != nil {
		writeAnalysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

// GetUpcomingGames lists scheduled games for a sport
func (h *PicksHandler) GetUpcomingGames(c *gin.Context) {
	sport := strings.ToLower(c.Param("sport"))
	if !espn.SupportedSport(sport) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported sport: " + sport})
		return
	}

	games, err := h.predictor.UpcomingGames(c.Request.Context(), sport)
	if err != nil {
		log.Printf("Failed to fetch upcoming games: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch upcoming games"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sport": strings.ToUpper(sport),
		"games": games,
		"count": len(games),
	})
}

// GetTodaysGames lists games scheduled for today
func (h *PicksHandler) GetTodaysGames(c *gin.Context) {
	sport := strings.ToLower(c.Param("sport"))
	if !espn.SupportedSport(sport) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported sport: " + sport})
		return
	}

	games, err := h.predictor.TodaysGames(c.Request.Context(), sport)
	if err != nil {
		log.Printf("Failed to fetch today's games: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch today's games"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sport": strings.ToUpper(sport),
		"games": games,
		"count": len(games),
	})
}

type analyzeGameRequest struct {
	Game    espn.Event `json:"game" binding:"required"`
	Sport   string     `json:"sport" binding:"required"`
	BetType string     `json:"bet_type"`
}

// AnalyzeGame analyzes one game for a specific bet type
func (h *PicksHandler) AnalyzeGame(c *gin.Context) {
	var req analyzeGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.BetType == "" {
		req.BetType = "spread"
	}

	rec, err := h.predictor.AnalyzeGame(c.Request.Context(), req.Game, strings.ToLower(req.Sport), req.BetType)
	if err != nil {
		writeAnalysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

type generateParlayRequest struct {
	Sports  []string `json:"sports"`
	NumLegs int      `json:"num_legs"`
}

// GenerateParlay builds a multi-leg parlay
func (h *PicksHandler) GenerateParlay(c *gin.Context) {
	var req generateParlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	parlay, err := h.parlays.Generate(c.Request.Context(), req.Sports, req.NumLegs)
	if err != nil {
		if errors.Is(err, services.ErrNoGamesForParlay) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No games available for parlay generation"})
			return
		}
		writeAnalysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, parlay)
}

// Reload re-reads odds exports and cached picks from disk
func (h *PicksHandler) Reload(c *gin.Context) {
	if err := h.oddsStore.Reload(); err != nil {
		log.Printf("Odds reload failed: %v", err)
	}
	if err := h.cache.Reload(); err != nil {
		log.Printf("Pick cache reload failed: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Odds and cached picks reloaded",
	})
}

// writeAnalysisError maps completion failures to client responses without
// leaking upstream details
func writeAnalysisError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, openai.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Analysis service is busy, please wait and try again"})
	case errors.Is(err, openai.ErrTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Analysis timed out, please try again"})
	default:
		log.Printf("Analysis failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Analysis failed, please try again"})
	}
}
