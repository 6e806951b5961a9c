package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gamestore/storefront/models"
)

func TestGetGameByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/games/5", r.URL.Path)
		json.NewEncoder(w).Encode(models.GameSummary{ID: 5, Title: "Portal Reloaded", Price: 39.9})
	}))
	defer srv.Close()

	client := NewGameClient(srv.URL, time.Second)
	game, err := client.GetGameByID(context.Background(), 5)

	assert.NoError(t, err)
	assert.Equal(t, "Portal Reloaded", game.Title)
	assert.Equal(t, 39.9, game.Price)
}

func TestGetGameByID_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewGameClient(srv.URL, time.Second)
	_, err := client.GetGameByID(context.Background(), 999)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGetGames_SendsFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/games", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "0", q.Get("page"))
		assert.Equal(t, "12", q.Get("size"))
		assert.Equal(t, "rpg", q.Get("category"))
		assert.Equal(t, "witcher", q.Get("search"))

		json.NewEncoder(w).Encode(GamePage{
			Content:       []models.GameSummary{{ID: 1, Title: "The Witcher 3"}},
			TotalElements: 1,
		})
	}))
	defer srv.Close()

	client := NewGameClient(srv.URL, time.Second)
	page, err := client.GetGames(context.Background(), 0, 12, "rpg", "witcher")

	assert.NoError(t, err)
	assert.Len(t, page.Content, 1)
}
