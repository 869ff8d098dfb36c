package handler

import (
	"errors"
	"net/http"
	"strconv"

	"albumrank/internal/microservices/http-api/dto"
	"albumrank/internal/microservices/http-api/repository"
	"albumrank/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	ratingService service.RatingService
}

func NewRatingHandler(ratingService service.RatingService) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
	}
}

// RegisterRoutes registers rating-related routes
func (h *RatingHandler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	ratings := router.Group("/:album_id/ratings")
	{
		// Public routes
		ratings.GET("", h.List)               // Get all ratings for an album
		ratings.GET("/average", h.GetAverage) // Get the aggregate for an album

		// Write routes
		ratings.POST("", authMW, h.CreateOrUpdate)  // Create or update user's rating
		ratings.GET("/me", authMW, h.GetUserRating) // Get current user's rating
		ratings.DELETE("", authMW, h.Delete)        // Delete user's rating
	}
}

// CreateOrUpdate creates or updates a rating for an album
// POST /api/albums/:album_id/ratings
func (h *RatingHandler) CreateOrUpdate(c *gin.Context) {
	albumID := c.Param("album_id")
	if albumID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid album ID"})
		return
	}

	// Get user ID from context (set by AuthMiddleware)
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req dto.CreateRatingDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meta := repository.AlbumMeta{
		Name:        req.Name,
		Image:       req.Image,
		ReleaseDate: req.ReleaseDate,
		Artists:     req.Artists,
		Genres:      req.Genres,
	}

	album, err := h.ratingService.Rate(c.Request.Context(), userID.(string), albumID, &req.Rating, meta)
	if err != nil {
		if errors.Is(err, repository.ErrAggregationConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Could not record rating, please try again"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.FromModelToAlbumAverageResponse(album))
}

// GetUserRating retrieves the current user's rating for an album
// GET /api/albums/:album_id/ratings/me
func (h *RatingHandler) GetUserRating(c *gin.Context) {
	albumID := c.Param("album_id")

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	rating, err := h.ratingService.GetUserRating(userID.(string), albumID)
	if err != nil {
		if errors.Is(err, service.ErrRatingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "rating not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rating)
}

// Delete removes a user's rating for an album
// DELETE /api/albums/:album_id/ratings
func (h *RatingHandler) Delete(c *gin.Context) {
	albumID := c.Param("album_id")

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	album, err := h.ratingService.DeleteRating(c.Request.Context(), userID.(string), albumID)
	if err != nil {
		if errors.Is(err, repository.ErrAggregationConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Could not remove rating, please try again"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Rating deleted successfully",
		"aggregate": dto.FromModelToAlbumAverageResponse(album),
	})
}

// List retrieves all ratings for an album with pagination
// GET /api/albums/:album_id/ratings?page=1&page_size=20
func (h *RatingHandler) List(c *gin.Context) {
	albumID := c.Param("album_id")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	ratings, err := h.ratingService.GetAlbumRatings(albumID, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ratings)
}

// GetAverage retrieves the aggregate score for an album
// GET /api/albums/:album_id/ratings/average
func (h *RatingHandler) GetAverage(c *gin.Context) {
	albumID := c.Param("album_id")

	album, err := h.ratingService.GetAlbumAverage(c.Request.Context(), albumID)
	if err != nil {
		if errors.Is(err, service.ErrAlbumNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "album not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.FromModelToAlbumAverageResponse(album))
}
