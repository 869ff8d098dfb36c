package spotify

// Response shapes for the catalog API. Only the fields the service reads are
// declared; the API returns much more.

type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type Artist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Images     []Image  `json:"images"`
	Popularity int      `json:"popularity"`
}

type artistSearchResponse struct {
	Artists struct {
		Items []Artist `json:"items"`
		Total int      `json:"total"`
	} `json:"artists"`
}

type SimpleArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Album struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	AlbumType   string         `json:"album_type"`
	ReleaseDate string         `json:"release_date"`
	TotalTracks int            `json:"total_tracks"`
	Images      []Image        `json:"images"`
	Artists     []SimpleArtist `json:"artists"`
	Genres      []string       `json:"genres"`
}

type albumListResponse struct {
	Items  []Album `json:"items"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
	Next   string  `json:"next"`
}

type Track struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	TrackNumber int            `json:"track_number"`
	DiscNumber  int            `json:"disc_number"`
	DurationMs  int            `json:"duration_ms"`
	Artists     []SimpleArtist `json:"artists"`
}

type trackListResponse struct {
	Items []Track `json:"items"`
	Total int     `json:"total"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// ArtistNames flattens the artist list for display metadata.
func (a Album) ArtistNames() []string {
	names := make([]string, 0, len(a.Artists))
	for _, artist := range a.Artists {
		names = append(names, artist.Name)
	}
	return names
}

// ImageURL picks the first (largest) image, empty if none.
func (a Album) ImageURL() string {
	if len(a.Images) == 0 {
		return ""
	}
	return a.Images[0].URL
}
