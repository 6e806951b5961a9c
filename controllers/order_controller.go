package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gamestore/storefront/clients"
	"github.com/gamestore/storefront/middleware"
	"github.com/gamestore/storefront/models"
)

// OrderController proxies order reads to the order backend so the
// storefront UI has a single origin to talk to.
type OrderController struct {
	Orders *clients.OrderClient
	Log    *zap.Logger
}

func NewOrderController(orders *clients.OrderClient, log *zap.Logger) *OrderController {
	return &OrderController{Orders: orders, Log: log}
}

// ListOrders returns the caller's orders, paged
func (oc *OrderController) ListOrders(c *gin.Context) {
	ownerID, _ := middleware.GetUserID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	filter := &models.OrderListFilter{
		Page:          page,
		Size:          size,
		Status:        c.Query("status"),
		OwnerID:       ownerID,
		SortBy:        c.Query("sortBy"),
		SortDirection: c.Query("sortDirection"),
	}

	orders, err := oc.Orders.ListOrders(c.Request.Context(), filter)
	if err != nil {
		oc.Log.Error("order listing failed", zap.Int64("owner_id", ownerID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetOrder returns a single order
func (oc *OrderController) GetOrder(c *gin.Context) {
	orderID := c.Param("id")

	order, err := oc.Orders.GetOrderByID(c.Request.Context(), orderID)
	if err != nil {
		oc.Log.Warn("order lookup failed", zap.String("order_id", orderID), zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	c.JSON(http.StatusOK, order)
}
