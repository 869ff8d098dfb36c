package handler

import (
	"errors"
	"net/http"
	"strconv"

	"albumrank/internal/microservices/http-api/dto"
	"albumrank/internal/microservices/http-api/service"
	"albumrank/internal/ranking"

	"github.com/gin-gonic/gin"
)

type RankingHandler struct {
	rankingService service.RankingService
	minRatings     int
	limit          int
}

func NewRankingHandler(rankingService service.RankingService, minRatings, limit int) *RankingHandler {
	if minRatings <= 0 {
		minRatings = ranking.DefaultMinRatings
	}
	if limit <= 0 {
		limit = ranking.DefaultLimit
	}
	return &RankingHandler{
		rankingService: rankingService,
		minRatings:     minRatings,
		limit:          limit,
	}
}

// RegisterRoutes registers ranking routes
func (h *RankingHandler) RegisterRoutes(router *gin.RouterGroup) {
	rankings := router.Group("/rankings")
	{
		rankings.GET("", h.GetRankings)            // Global or category board
		rankings.GET("/:album_id", h.GetAlbumRank) // One album's global position
	}
}

// GetRankings returns the sorted, sample-size-filtered board
// GET /api/rankings?category=rap&min_ratings=3&limit=100
func (h *RankingHandler) GetRankings(c *gin.Context) {
	opts := ranking.Options{MinRatings: h.minRatings, Limit: h.limit}

	if v := c.Query("min_ratings"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			opts.MinRatings = parsed
		}
	}
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= ranking.DefaultLimit {
			opts.Limit = parsed
		}
	}

	category := c.Query("category")

	ranked, err := h.rankingService.GetRankings(c.Request.Context(), opts, category)
	if err != nil {
		if errors.Is(err, service.ErrUnknownCategory) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.RankingResponse{
		Category:   category,
		MinRatings: opts.MinRatings,
		Rankings:   ranked,
	})
}

// GetAlbumRank returns one album's position in the unfiltered global ordering
// GET /api/rankings/:album_id
func (h *RankingHandler) GetAlbumRank(c *gin.Context) {
	albumID := c.Param("album_id")

	rank, err := h.rankingService.GetAlbumRank(c.Request.Context(), albumID)
	if err != nil {
		if errors.Is(err, service.ErrAlbumNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "album not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.AlbumRankResponse{
		AlbumID:      albumID,
		Rank:         rank.Rank,
		Total:        rank.Total,
		AverageScore: rank.AverageScore,
	})
}
