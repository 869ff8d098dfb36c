package handler

import (
	"errors"
	"net/http"

	"albumrank/internal/microservices/http-api/dto"
	"albumrank/internal/microservices/http-api/repository"
	"albumrank/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type ListHandler struct {
	listService service.ListService
}

func NewListHandler(listService service.ListService) *ListHandler {
	return &ListHandler{listService: listService}
}

// RegisterRoutes registers personal-list routes. All of them require auth;
// the list is always the authenticated user's own.
func (h *ListHandler) RegisterRoutes(router *gin.RouterGroup) {
	list := router.Group("/list")
	{
		list.GET("", h.Get)
		list.POST("", h.Add)
		list.PUT("/:album_id/score", h.SetScore)
		list.DELETE("/:album_id", h.Remove)
	}
}

// Get returns the caller's list, newest first
// GET /api/list
func (h *ListHandler) Get(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	entries, err := h.listService.GetList(c.Request.Context(), userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// Add puts an album on the caller's list, unrated
// POST /api/list
func (h *ListHandler) Add(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req dto.AddToListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.listService.AddToList(c.Request.Context(), userID.(string), req)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyListed) {
			c.JSON(http.StatusConflict, gin.H{"error": "album already on list"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// SetScore changes the caller's score for a listed album
// PUT /api/list/:album_id/score
func (h *ListHandler) SetScore(c *gin.Context) {
	albumID := c.Param("album_id")

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req dto.SetScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.listService.SetScore(c.Request.Context(), userID.(string), albumID, req.Score)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrListEntryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "album not found in list"})
		case errors.Is(err, repository.ErrAggregationConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "Could not record score, please try again"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, entry)
}

// Remove deletes an album from the caller's list and retracts its rating
// DELETE /api/list/:album_id
func (h *ListHandler) Remove(c *gin.Context) {
	albumID := c.Param("album_id")

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.listService.RemoveFromList(c.Request.Context(), userID.(string), albumID); err != nil {
		if errors.Is(err, repository.ErrAggregationConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Could not remove album, please try again"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Album removed from list"})
}
