package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gamestore/storefront/models"
)

// GameClient communicates with the game catalog via HTTP
type GameClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewGameClient creates a new GameClient
func NewGameClient(baseURL string, timeout time.Duration) *GameClient {
	return &GameClient{
		baseURL:    baseURL,
		httpClient: newHTTPClient(timeout),
	}
}

// GetGameByID fetches a single game for cart enrichment
func (c *GameClient) GetGameByID(ctx context.Context, gameID int64) (*models.GameSummary, error) {
	url := fmt.Sprintf("%s/games/%d", c.baseURL, gameID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("game service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("game %d not found", gameID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("game lookup failed: %s", errorMessage(resp))
	}

	var game models.GameSummary
	if err := json.NewDecoder(resp.Body).Decode(&game); err != nil {
		return nil, err
	}
	return &game, nil
}

// GamePage is the paged envelope for catalog listings.
type GamePage struct {
	Content       []models.GameSummary `json:"content"`
	TotalElements int64                `json:"totalElements"`
	TotalPages    int64                `json:"totalPages"`
	Number        int                  `json:"number"`
	Size          int                  `json:"size"`
}

// GetGames lists the catalog with optional category/search filters.
func (c *GameClient) GetGames(ctx context.Context, page, size int, category, search string) (*GamePage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(size))
	if category != "" {
		params.Set("category", category)
	}
	if search != "" {
		params.Set("search", search)
	}

	url := fmt.Sprintf("%s/games?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("game service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("game listing failed: %s", errorMessage(resp))
	}

	var pageResp GamePage
	if err := json.NewDecoder(resp.Body).Decode(&pageResp); err != nil {
		return nil, err
	}
	return &pageResp, nil
}
