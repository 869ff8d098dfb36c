package handler

import (
	"errors"
	"net/http"
	"strconv"

	"albumrank/internal/catalog/spotify"
	"albumrank/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// RegisterRoutes registers catalog proxy routes
func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	catalog := router.Group("/catalog")
	{
		catalog.GET("/artists", h.SearchArtists)
		catalog.GET("/artists/:artist_id/albums", h.GetArtistAlbums)
		catalog.GET("/albums/:album_id", h.GetAlbum)
		catalog.GET("/albums/:album_id/tracks", h.GetAlbumTracks)
	}
}

// SearchArtists proxies an artist search against the catalog
// GET /api/catalog/artists?q=radiohead&limit=20
func (h *CatalogHandler) SearchArtists(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing search query"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	artists, err := h.catalogService.SearchArtists(c.Request.Context(), query, limit)
	if err != nil {
		writeCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"artists": artists})
}

// GetArtistAlbums returns an artist's full albums
// GET /api/catalog/artists/:artist_id/albums
func (h *CatalogHandler) GetArtistAlbums(c *gin.Context) {
	albums, err := h.catalogService.GetArtistAlbums(c.Request.Context(), c.Param("artist_id"))
	if err != nil {
		writeCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"albums": albums})
}

// GetAlbum returns album details
// GET /api/catalog/albums/:album_id
func (h *CatalogHandler) GetAlbum(c *gin.Context) {
	album, err := h.catalogService.GetAlbum(c.Request.Context(), c.Param("album_id"))
	if err != nil {
		writeCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, album)
}

// GetAlbumTracks returns the track listing for an album
// GET /api/catalog/albums/:album_id/tracks
func (h *CatalogHandler) GetAlbumTracks(c *gin.Context) {
	tracks, err := h.catalogService.GetAlbumTracks(c.Request.Context(), c.Param("album_id"))
	if err != nil {
		writeCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tracks": tracks})
}

// writeCatalogError maps upstream failures to user-facing responses. Rate
// limits and server errors become "try again later"; not-found passes through.
func writeCatalogError(c *gin.Context, err error) {
	var ue *spotify.UpstreamError
	if errors.As(err, &ue) {
		switch {
		case ue.StatusCode == http.StatusNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "not found in catalog"})
		case ue.StatusCode == http.StatusTooManyRequests || ue.StatusCode >= 500:
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable, try again later"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "catalog request failed"})
		}
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
