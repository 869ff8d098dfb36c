package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL  = "https://api.spotify.com/v1"
	defaultTokenURL = "https://accounts.spotify.com/api/token"

	// The catalog API allows bursts but throttles sustained traffic
	rateLimit = 5
	rateBurst = 10

	// Retry configuration
	maxRetries   = 5
	initialDelay = 1 * time.Second
	maxDelay     = 32 * time.Second

	// refresh the cached token slightly before the API would reject it
	tokenExpirySlack = 30 * time.Second
)

// UpstreamError is a non-success response from the catalog API after retries.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("catalog API HTTP %d: %s", e.StatusCode, e.Body)
}

// Client handles catalog API requests with rate limiting, retry logic, and a
// session-cached client-credentials bearer token.
type Client struct {
	baseURL      string
	tokenURL     string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	rateLimiter  *rate.Limiter

	tokenMu     sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient creates a new catalog API client
func NewClient(baseURL, tokenURL, clientID, clientSecret string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}
	return &Client{
		baseURL:      baseURL,
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		rateLimiter:  rate.NewLimiter(rate.Limit(rateLimit), rateBurst),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// SearchArtists queries artists by name
func (c *Client) SearchArtists(ctx context.Context, query string, limit int) ([]Artist, error) {
	if limit <= 0 {
		limit = 20
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "artist")
	params.Set("limit", strconv.Itoa(limit))

	var response artistSearchResponse
	if err := c.doRequest(ctx, http.MethodGet, "/search", params, &response); err != nil {
		return nil, fmt.Errorf("failed to search artists: %w", err)
	}
	return response.Artists.Items, nil
}

// GetArtist fetches a single artist, genres included
func (c *Client) GetArtist(ctx context.Context, artistID string) (*Artist, error) {
	var artist Artist
	if err := c.doRequest(ctx, http.MethodGet, "/artists/"+artistID, nil, &artist); err != nil {
		return nil, fmt.Errorf("failed to fetch artist: %w", err)
	}
	return &artist, nil
}

// GetArtistAlbums fetches an artist's full albums, walking pagination. Singles
// and compilations are excluded.
func (c *Client) GetArtistAlbums(ctx context.Context, artistID string) ([]Album, error) {
	const pageSize = 50

	var albums []Album
	offset := 0
	for {
		params := url.Values{}
		params.Set("include_groups", "album")
		params.Set("limit", strconv.Itoa(pageSize))
		params.Set("offset", strconv.Itoa(offset))

		var page albumListResponse
		endpoint := fmt.Sprintf("/artists/%s/albums", artistID)
		if err := c.doRequest(ctx, http.MethodGet, endpoint, params, &page); err != nil {
			return nil, fmt.Errorf("failed to fetch artist albums: %w", err)
		}

		for _, a := range page.Items {
			if a.AlbumType == "album" {
				albums = append(albums, a)
			}
		}

		offset += len(page.Items)
		if page.Next == "" || len(page.Items) == 0 {
			break
		}
	}

	return albums, nil
}

// GetAlbum fetches album details
func (c *Client) GetAlbum(ctx context.Context, albumID string) (*Album, error) {
	var album Album
	if err := c.doRequest(ctx, http.MethodGet, "/albums/"+albumID, nil, &album); err != nil {
		return nil, fmt.Errorf("failed to fetch album: %w", err)
	}
	return &album, nil
}

// GetAlbumTracks fetches the track listing for an album
func (c *Client) GetAlbumTracks(ctx context.Context, albumID string) ([]Track, error) {
	params := url.Values{}
	params.Set("limit", "50")

	var response trackListResponse
	endpoint := fmt.Sprintf("/albums/%s/tracks", albumID)
	if err := c.doRequest(ctx, http.MethodGet, endpoint, params, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch album tracks: %w", err)
	}
	return response.Items, nil
}

// token returns the cached bearer token, exchanging client credentials lazily
// on first use or after expiry.
func (c *Client) token(ctx context.Context) (string, error) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", &UpstreamError{StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}

	c.accessToken = token.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn)*time.Second - tokenExpirySlack)
	return c.accessToken, nil
}

// doRequest performs an HTTP request with rate limiting and retry logic
func (c *Client) doRequest(ctx context.Context, method, endpoint string, params url.Values, result interface{}) error {
	fullURL := c.baseURL + endpoint
	if params != nil {
		fullURL += "?" + params.Encode()
	}

	var lastErr error
	delay := initialDelay

	for attempt := 0; attempt <= maxRetries; attempt++ {
		// Rate limit
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		bearer, err := c.token(ctx)
		if err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", "AlbumRank/1.0")
		req.Header.Set("Authorization", "Bearer "+bearer)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt < maxRetries {
				log.Printf("[Catalog] Request failed (attempt %d/%d): %v, retrying in %v...",
					attempt+1, maxRetries, err, delay)
				time.Sleep(delay)
				delay = minDuration(delay*2, maxDelay)
				continue
			}
			return fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
		}

		if resp.StatusCode == http.StatusUnauthorized {
			// token expired server-side; drop the cache and retry with a fresh one
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			c.invalidateToken()
			if attempt < maxRetries {
				continue
			}
			return &UpstreamError{StatusCode: http.StatusUnauthorized, Body: "unauthorized"}
		}

		if resp.StatusCode != http.StatusOK {
			bodyBytes, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			bodyStr := string(bodyBytes)

			// Retry on rate limit or server errors
			if shouldRetry(resp.StatusCode) && attempt < maxRetries {
				lastErr = &UpstreamError{StatusCode: resp.StatusCode, Body: bodyStr}

				// 429 responses carry Retry-After in seconds
				if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
					if seconds, err := strconv.Atoi(retryAfter); err == nil {
						delay = time.Duration(seconds) * time.Second
					}
				}

				log.Printf("[Catalog] HTTP %d (attempt %d/%d), retrying in %v...",
					resp.StatusCode, attempt+1, maxRetries, delay)
				time.Sleep(delay)
				delay = minDuration(delay*2, maxDelay)
				continue
			}

			return &UpstreamError{StatusCode: resp.StatusCode, Body: bodyStr}
		}

		err = json.NewDecoder(resp.Body).Decode(result)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}

		return nil
	}

	return fmt.Errorf("request failed after %d attempts: %w", maxRetries, lastErr)
}

func (c *Client) invalidateToken() {
	c.tokenMu.Lock()
	c.accessToken = ""
	c.tokenMu.Unlock()
}

// shouldRetry determines if an HTTP status code warrants a retry
func shouldRetry(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || // 429
		statusCode >= 500 // 500-504
}

// IsRateLimited reports whether err is an upstream 429
func IsRateLimited(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue) && ue.StatusCode == http.StatusTooManyRequests
}

// minDuration returns the smaller of two durations
func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
