package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gamestore/storefront/checkout"
	"github.com/gamestore/storefront/middleware"
	"github.com/gamestore/storefront/models"
)

type CheckoutController struct {
	Orchestrator *checkout.Orchestrator
	Log          *zap.Logger
}

func NewCheckoutController(orch *checkout.Orchestrator, log *zap.Logger) *CheckoutController {
	return &CheckoutController{Orchestrator: orch, Log: log}
}

// Checkout runs the payment pipeline for the caller's cart. Every failure
// response is terminal for this attempt and re-submittable: nothing is
// locked server-side, the user retries from scratch.
func (cc *CheckoutController) Checkout(c *gin.Context) {
	ownerID, _ := middleware.GetUserID(c)

	var details models.PaymentDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	result, err := cc.Orchestrator.Run(c.Request.Context(), ownerID, details)
	if err != nil {
		cc.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id":    result.OrderID,
		"amount":      result.Amount,
		"status":      result.Stage,
		"redirect_to": "/thank-you?orderId=" + result.OrderID,
	})
}

func (cc *CheckoutController) respondError(c *gin.Context, err error) {
	switch e := err.(type) {
	case *checkout.StageError:
		cc.respondStageError(c, e)
		return
	}

	if errors.Is(err, checkout.ErrEmptyCart) ||
		errors.Is(err, models.ErrMissingCardDetails) ||
		errors.Is(err, models.ErrMissingPixKey) ||
		errors.Is(err, models.ErrUnknownMethod) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cc.Log.Error("checkout failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout failed"})
}

func (cc *CheckoutController) respondStageError(c *gin.Context, stageErr *checkout.StageError) {
	var decline *checkout.DeclineError
	var payErr *checkout.PaymentError

	switch {
	case errors.As(stageErr.Err, &decline):
		c.JSON(http.StatusPaymentRequired, gin.H{
			"error":       decline.Error(),
			"stage":       stageErr.Stage,
			"reason_code": decline.ReasonCode,
		})
	case errors.As(stageErr.Err, &payErr):
		c.JSON(http.StatusPaymentRequired, gin.H{
			"error": payErr.Message,
			"stage": stageErr.Stage,
			"kind":  payErr.Kind,
		})
	default:
		c.JSON(http.StatusBadGateway, gin.H{
			"error": stageErr.Err.Error(),
			"stage": stageErr.Stage,
		})
	}
}
