package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/gamestore/storefront/cart"
	"github.com/gamestore/storefront/checkout"
	"github.com/gamestore/storefront/clients"
	"github.com/gamestore/storefront/controllers"
	"github.com/gamestore/storefront/middleware"
)

// Register wires the storefront API onto the router.
func Register(
	r *gin.Engine,
	store *cart.Store,
	orch *checkout.Orchestrator,
	orderClient *clients.OrderClient,
	sessions *middleware.SessionValidator,
	log *zap.Logger,
) {
	cartCtrl := controllers.NewCartController(store, log)
	checkoutCtrl := controllers.NewCheckoutController(orch, log)
	orderCtrl := controllers.NewOrderController(orderClient, log)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Everything below requires an authenticated session.
	api := r.Group("/")
	api.Use(middleware.AuthMiddleware(sessions))
	{
		api.GET("/cart", cartCtrl.GetCart)
		api.POST("/cart/items", cartCtrl.AddItem)
		api.PUT("/cart/items/:game_id", cartCtrl.UpdateItem)
		api.DELETE("/cart/items/:game_id", cartCtrl.RemoveItem)
		api.DELETE("/cart", cartCtrl.ClearCart)
		api.GET("/cart/summary", cartCtrl.Summary)

		api.POST("/checkout",
			middleware.RateLimitMiddleware(rate.Every(time.Minute/30), 10),
			checkoutCtrl.Checkout)

		api.GET("/orders", orderCtrl.ListOrders)
		api.GET("/orders/:id", orderCtrl.GetOrder)
	}
}
