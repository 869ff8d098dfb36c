package service

import (
	"context"

	"albumrank/internal/catalog/spotify"
)

// CatalogService fronts the external music catalog API for the HTTP handlers.
// It exists so handlers can be tested against a mock instead of the live API.
type CatalogService interface {
	SearchArtists(ctx context.Context, query string, limit int) ([]spotify.Artist, error)
	GetArtistAlbums(ctx context.Context, artistID string) ([]spotify.Album, error)
	GetAlbum(ctx context.Context, albumID string) (*spotify.Album, error)
	GetAlbumTracks(ctx context.Context, albumID string) ([]spotify.Track, error)
}

type catalogService struct {
	client *spotify.Client
}

func NewCatalogService(client *spotify.Client) CatalogService {
	return &catalogService{client: client}
}

func (s *catalogService) SearchArtists(ctx context.Context, query string, limit int) ([]spotify.Artist, error) {
	return s.client.SearchArtists(ctx, query, limit)
}

func (s *catalogService) GetArtistAlbums(ctx context.Context, artistID string) ([]spotify.Album, error) {
	return s.client.GetArtistAlbums(ctx, artistID)
}

func (s *catalogService) GetAlbum(ctx context.Context, albumID string) (*spotify.Album, error) {
	return s.client.GetAlbum(ctx, albumID)
}

func (s *catalogService) GetAlbumTracks(ctx context.Context, albumID string) ([]spotify.Track, error) {
	return s.client.GetAlbumTracks(ctx, albumID)
}
