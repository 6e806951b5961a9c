package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gamestore/storefront/cart"
	"github.com/gamestore/storefront/middleware"
	"github.com/gamestore/storefront/models"
)

type CartController struct {
	Store *cart.Store
	Log   *zap.Logger
}

func NewCartController(store *cart.Store, log *zap.Logger) *CartController {
	return &CartController{Store: store, Log: log}
}

// GetCart returns the current cart for a user, creating it when absent
func (cc *CartController) GetCart(c *gin.Context) {
	ownerID, _ := middleware.GetUserID(c)

	current, err := cc.Store.GetCart(c.Request.Context(), ownerID)
	if err != nil {
		cc.Log.Error("get cart failed", zap.Int64("owner_id", ownerID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get cart"})
		return
	}

	c.JSON(http.StatusOK, current)
}

type addItemRequest struct {
	GameID   int64               `json:"game_id" binding:"required"`
	Quantity int                 `json:"quantity" binding:"required,min=1"`
	Game     *models.GameSummary `json:"game,omitempty"`
}

// AddItem adds or merges an item in the cart
func (cc *CartController) AddItem(c *gin.Context) {
	ownerID, _ := middleware.GetUserID(c)

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	current, err := cc.Store.AddItem(c.Request.Context(), ownerID, req.GameID, req.Quantity, req.Game)
	switch {
	case err == cart.ErrNotAuthenticated:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	case err == cart.ErrInvalidQuantity:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		cc.Log.Error("add item failed", zap.Int64("owner_id", ownerID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save cart"})
		return
	}

	c.JSON(http.StatusOK, current)
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem sets an item's quantity; zero or below removes it
func (cc *CartController) UpdateItem(c *gin.Context) {
	ownerID, _ := middleware.GetUserID(c)

	gameID, err := strconv.ParseInt(c.Param("game_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}

	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	current, err := cc.Store.UpdateItemQuantity(c.Request.Context(), ownerID, gameID, req.Quantity)
	if err != nil {
		cc.Log.Error("update item failed", zap.Int64("owner_id", ownerID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update cart"})
		return
	}

	c.JSON(http.StatusOK, current)
}

// RemoveItem removes a specific item from the cart
func (cc *CartController) RemoveItem(c *gin.Context) {
	ownerID, _ := middleware.GetUserID(c)

	gameID, err := strconv.ParseInt(c.Param("game_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}

	current, err := cc.Store.RemoveItem(c.Request.Context(), ownerID, gameID)
	if err != nil {
		cc.Log.Error("remove item failed", zap.Int64("owner_id", ownerID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update cart"})
		return
	}

	c.JSON(http.StatusOK, current)
}

// ClearCart deletes the persisted cart entirely
func (cc *CartController) ClearCart(c *gin.Context) {
	ownerID, _ := middleware.GetUserID(c)

	if err := cc.Store.Clear(c.Request.Context(), ownerID); err != nil {
		cc.Log.Error("clear cart failed", zap.Int64("owner_id", ownerID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}

// Summary returns the item count and total for the header badge
func (cc *CartController) Summary(c *gin.Context) {
	ownerID, _ := middleware.GetUserID(c)
	ctx := c.Request.Context()

	count, err := cc.Store.ItemCount(ctx, ownerID)
	if err != nil {
		cc.Log.Error("cart summary failed", zap.Int64("owner_id", ownerID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get cart"})
		return
	}
	total, err := cc.Store.Total(ctx, ownerID, nil)
	if err != nil {
		cc.Log.Error("cart summary failed", zap.Int64("owner_id", ownerID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"item_count": count, "total": total})
}
