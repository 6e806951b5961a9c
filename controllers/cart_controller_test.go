package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/gamestore/storefront/cart"
	"github.com/gamestore/storefront/controllers"
	"github.com/gamestore/storefront/middleware"
	"github.com/gamestore/storefront/models"
	"github.com/gamestore/storefront/store"
)

type allowAll struct{}

func (allowAll) IsAuthenticated(context.Context, int64) bool { return true }

// fakeSession stands in for the auth middleware in tests.
func fakeSession(userID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserContextKey, userID)
		c.Request = c.Request.WithContext(middleware.WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo, err := store.NewBoltRepository(filepath.Join(t.TempDir(), "carts.db"))
	if err != nil {
		t.Fatalf("failed to open test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	log, _ := zap.NewDevelopment()
	cartStore := cart.NewStore(repo, allowAll{}, nil, log)
	ctrl := controllers.NewCartController(cartStore, log)

	router := gin.New()
	router.Use(fakeSession(7))
	router.GET("/cart", ctrl.GetCart)
	router.POST("/cart/items", ctrl.AddItem)
	router.PUT("/cart/items/:game_id", ctrl.UpdateItem)
	router.DELETE("/cart/items/:game_id", ctrl.RemoveItem)
	router.DELETE("/cart", ctrl.ClearCart)
	router.GET("/cart/summary", ctrl.Summary)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCartEndpoints_AddUpdateRemove(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/cart/items", gin.H{
		"game_id":  1,
		"quantity": 2,
		"game":     models.GameSummary{ID: 1, Title: "Hades II", Price: 49.9},
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	var current models.Cart
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &current))
	assert.Len(t, current.Items, 1)
	assert.Equal(t, 2, current.Items[0].Quantity)

	// Update to zero removes the item.
	rec = doJSON(t, router, http.MethodPut, "/cart/items/1", gin.H{"quantity": 0})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &current))
	assert.Empty(t, current.Items)
}

func TestCartEndpoints_SummaryAndClear(t *testing.T) {
	router := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/cart/items", gin.H{
		"game_id":  1,
		"quantity": 2,
		"game":     models.GameSummary{ID: 1, Price: 10},
	})
	doJSON(t, router, http.MethodPost, "/cart/items", gin.H{
		"game_id":  2,
		"quantity": 1,
		"game":     models.GameSummary{ID: 2, Price: 5},
	})

	rec := doJSON(t, router, http.MethodGet, "/cart/summary", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var summary struct {
		ItemCount int     `json:"item_count"`
		Total     float64 `json:"total"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 3, summary.ItemCount)
	assert.Equal(t, 25.0, summary.Total)

	rec = doJSON(t, router, http.MethodDelete, "/cart", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/cart/summary", nil)
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 0, summary.ItemCount)
}

func TestCartEndpoints_BadPayloads(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/cart/items", gin.H{"quantity": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/cart/items/not-a-number", gin.H{"quantity": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
