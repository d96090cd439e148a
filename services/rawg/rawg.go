// Package rawg talks to the RAWG Video Games Database API
// (https://rawg.io/apidocs). An API key is required; set RAWG_API_KEY to
// the key itself or to a file containing it (docker-secret style).
package rawg

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"GameHub/services/redis"
)

const baseURL = "https://api.rawg.io/api"

var ErrGameNotFound = errors.New("game not found in RAWG")

// GameData is a RAWG payload reduced to the fields the catalog stores.
type GameData struct {
	ExternalAPIID string     `json:"external_api_id"`
	Title         string     `json:"title"`
	Developer     string     `json:"developer"`
	ReleaseDate   *time.Time `json:"release_date"`
	CoverImageURL string     `json:"cover_image_url"`
	Genres        []string   `json:"genres"`
	Platforms     []string   `json:"platforms"`
	Rating        float64    `json:"rating"`
	Metacritic    int        `json:"metacritic"`
}

// RawGame mirrors the subset of RAWG's game JSON we consume.
type RawGame struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Released        string  `json:"released"`
	BackgroundImage string  `json:"background_image"`
	Rating          float64 `json:"rating"`
	Metacritic      int     `json:"metacritic"`
	Developers      []struct {
		Name string `json:"name"`
	} `json:"developers"`
	Genres []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Platforms []struct {
		Platform struct {
			Name string `json:"name"`
		} `json:"platform"`
	} `json:"platforms"`
}

type searchResponse struct {
	Results []RawGame `json:"results"`
}

// Service is the RAWG API client. Responses are cached in Redis so repeated
// catalog searches don't burn through the free-tier request quota.
type Service struct {
	apiKey     string
	httpClient *http.Client
	cache      *redis.RedisClient
}

func NewService(cache *redis.RedisClient) *Service {
	apiKey := os.Getenv("RAWG_API_KEY")
	if apiKey != "" {
		// The deployment mounts the key as a secret file
		if info, err := os.Stat(apiKey); err == nil && !info.IsDir() {
			data, err := os.ReadFile(apiKey)
			if err == nil {
				apiKey = strings.TrimSpace(string(data))
			}
		}
	}
	if apiKey == "" {
		log.Println("Warning: RAWG_API_KEY not set. RAWG API calls will fail.")
	}
	return &Service{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cache,
	}
}

func (s *Service) get(endpoint string, params url.Values, dest interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("key", s.apiKey)

	resp, err := s.httpClient.Get(fmt.Sprintf("%s/%s?%s", baseURL, endpoint, params.Encode()))
	if err != nil {
		return fmt.Errorf("RAWG request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrGameNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("RAWG API error: status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

// SearchGames searches RAWG by name, best rated first.
func (s *Service) SearchGames(searchTerm string, limit int) ([]GameData, error) {
	if s.cache != nil {
		var cached []GameData
		if err := s.cache.GetRAWGSearch(searchTerm, limit, &cached); err == nil {
			return cached, nil
		} else if !redis.IsCacheMiss(err) {
			log.Printf("RAWG search cache read failed: %v", err)
		}
	}

	params := url.Values{}
	params.Set("search", searchTerm)
	params.Set("page_size", fmt.Sprintf("%d", limit))
	params.Set("ordering", "-rating")

	var resp searchResponse
	if err := s.get("games", params, &resp); err != nil {
		return nil, err
	}

	results := make([]GameData, 0, len(resp.Results))
	for _, raw := range resp.Results {
		results = append(results, FormatGameData(raw))
	}

	if s.cache != nil {
		if err := s.cache.SaveRAWGSearch(searchTerm, limit, results); err != nil {
			log.Printf("RAWG search cache write failed: %v", err)
		}
	}
	return results, nil
}

// GetGameByID fetches detailed game information by RAWG id.
func (s *Service) GetGameByID(rawgID int) (*GameData, error) {
	if s.cache != nil {
		var cached GameData
		if err := s.cache.GetRAWGGame(rawgID, &cached); err == nil {
			return &cached, nil
		} else if !redis.IsCacheMiss(err) {
			log.Printf("RAWG game cache read failed: %v", err)
		}
	}

	var raw RawGame
	if err := s.get(fmt.Sprintf("games/%d", rawgID), nil, &raw); err != nil {
		return nil, err
	}

	game := FormatGameData(raw)
	if s.cache != nil {
		if err := s.cache.SaveRAWGGame(rawgID, game); err != nil {
			log.Printf("RAWG game cache write failed: %v", err)
		}
	}
	return &game, nil
}

// FormatGameData maps a RAWG payload onto the catalog schema. The first
// listed developer wins; release dates arrive as YYYY-MM-DD.
func FormatGameData(raw RawGame) GameData {
	data := GameData{
		ExternalAPIID: fmt.Sprintf("%d", raw.ID),
		Title:         raw.Name,
		CoverImageURL: raw.BackgroundImage,
		Rating:        raw.Rating,
		Metacritic:    raw.Metacritic,
	}
	if len(raw.Developers) > 0 {
		data.Developer = raw.Developers[0].Name
	}
	if raw.Released != "" {
		if t, err := time.Parse("2006-01-02", raw.Released); err == nil {
			data.ReleaseDate = &t
		}
	}
	for _, g := range raw.Genres {
		if g.Name != "" {
			data.Genres = append(data.Genres, g.Name)
		}
	}
	for _, p := range raw.Platforms {
		if p.Platform.Name != "" {
			data.Platforms = append(data.Platforms, p.Platform.Name)
		}
	}
	return data
}
