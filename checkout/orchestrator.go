// Package checkout drives the multi-step remote transaction that turns a
// cart into a paid order: create order, create payment intent, capture,
// finalize. Steps run strictly in sequence; a failure stops the pipeline
// and surfaces to the user for retry.
package checkout

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gamestore/storefront/cart"
	"github.com/gamestore/storefront/clients"
	"github.com/gamestore/storefront/models"
)

// CartSource is the slice of the cart store the orchestrator needs.
type CartSource interface {
	GetCart(ctx context.Context, ownerID int64) (*models.Cart, error)
	Clear(ctx context.Context, ownerID int64) error
}

// OrderBackend creates the immutable order record.
type OrderBackend interface {
	CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error)
}

// PaymentBackend is the intent/capture/finalize gateway surface.
type PaymentBackend interface {
	CreatePaymentIntent(ctx context.Context, req *clients.IntentRequest) (*clients.IntentResponse, error)
	CapturePayment(ctx context.Context, intentID string, req *clients.CaptureRequest) (*clients.CaptureResponse, error)
	FinalizeOrder(ctx context.Context, orderID string) error
}

// Result reports a completed checkout. OrderID feeds the confirmation
// view.
type Result struct {
	OrderID string  `json:"order_id"`
	Amount  float64 `json:"amount"`
	Stage   Stage   `json:"stage"`
	Message string  `json:"message,omitempty"`
}

// Orchestrator sequences the checkout pipeline. One instance serves all
// requests; per-run state lives on the stack.
type Orchestrator struct {
	carts       CartSource
	orders      OrderBackend
	payments    PaymentBackend
	lookup      cart.GameLookup
	stepTimeout time.Duration
	log         *zap.Logger
}

// New constructs an Orchestrator. lookup may be nil; it only backs price
// resolution for cart items that were never enriched.
func New(carts CartSource, orders OrderBackend, payments PaymentBackend, lookup cart.GameLookup, stepTimeout time.Duration, log *zap.Logger) *Orchestrator {
	if stepTimeout <= 0 {
		stepTimeout = 15 * time.Second
	}
	return &Orchestrator{
		carts:       carts,
		orders:      orders,
		payments:    payments,
		lookup:      lookup,
		stepTimeout: stepTimeout,
		log:         log,
	}
}

// priceOf resolves prices for unenriched items by asking the game
// backend. Lookup failure means the item contributes zero, same as the
// cart view the user just saw.
func (o *Orchestrator) priceOf(ctx context.Context) cart.PriceFunc {
	if o.lookup == nil {
		return nil
	}
	return func(gameID int64) (float64, bool) {
		game, err := o.lookup.GetGameByID(ctx, gameID)
		if err != nil {
			return 0, false
		}
		return game.Price, true
	}
}

// Run executes the pipeline for the owner's current cart. On success the
// cart has been cleared and Result carries the order id. Failures before
// capture acceptance return a *StageError; once capture is accepted the
// run always succeeds from the user's point of view, because money has
// moved and finalization is only bookkeeping.
func (o *Orchestrator) Run(ctx context.Context, ownerID int64, details models.PaymentDetails) (*Result, error) {
	if err := details.Validate(); err != nil {
		return nil, err
	}

	current, err := o.carts.GetCart(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(current.Items) == 0 {
		return nil, ErrEmptyCart
	}

	lineItems := make([]models.OrderLineItem, 0, len(current.Items))
	for _, item := range current.Items {
		line := models.OrderLineItem{GameID: item.GameID, Quantity: item.Quantity}
		if item.CachedGame != nil {
			line.Price = item.CachedGame.Price
		}
		lineItems = append(lineItems, line)
	}
	amount := cart.CartTotal(current, o.priceOf(ctx))

	// Step 1: create order.
	order, err := o.createOrder(ctx, ownerID, lineItems)
	if err != nil {
		return nil, err
	}
	o.log.Info("order created",
		zap.String("order_id", order.ID), zap.Int64("owner_id", ownerID))

	// Step 2: create payment intent.
	intentID, err := o.createIntent(ctx, order.ID, amount, details)
	if err != nil {
		return nil, err
	}
	o.log.Info("payment intent created",
		zap.String("order_id", order.ID), zap.String("intent_id", intentID))

	// Step 3: capture.
	capture, err := o.capture(ctx, intentID, order.ID, amount, details)
	if err != nil {
		return nil, err
	}
	o.log.Info("payment captured",
		zap.String("order_id", order.ID), zap.String("intent_id", intentID))

	// Steps 4 and 5 are best-effort: capture accepted means money moved,
	// so the user is never shown a failure for internal bookkeeping.
	o.finalize(ctx, order.ID)
	if err := o.carts.Clear(ctx, ownerID); err != nil {
		o.log.Warn("cart clear after checkout failed",
			zap.Int64("owner_id", ownerID), zap.Error(err))
	}

	return &Result{
		OrderID: order.ID,
		Amount:  amount,
		Stage:   StageDone,
		Message: capture.Message,
	}, nil
}

func (o *Orchestrator) createOrder(ctx context.Context, ownerID int64, lineItems []models.OrderLineItem) (*models.Order, error) {
	stepCtx, cancel := context.WithTimeout(ctx, o.stepTimeout)
	defer cancel()

	order, err := o.orders.CreateOrder(stepCtx, &models.CreateOrderRequest{
		OwnerID:   ownerID,
		LineItems: lineItems,
	})
	if err != nil {
		o.log.Error("order creation failed", zap.Int64("owner_id", ownerID), zap.Error(err))
		return nil, &StageError{Stage: StageOrderCreating, Err: fmt.Errorf("order creation error: %w", err)}
	}
	return order, nil
}

func (o *Orchestrator) createIntent(ctx context.Context, orderID string, amount float64, details models.PaymentDetails) (string, error) {
	stepCtx, cancel := context.WithTimeout(ctx, o.stepTimeout)
	defer cancel()

	intent, err := o.payments.CreatePaymentIntent(stepCtx, &clients.IntentRequest{
		OrderID:       orderID,
		Amount:        amount,
		PaymentMethod: details.Method,
		Card:          details.Card,
		Pix:           details.Pix,
	})
	if err != nil {
		o.log.Error("payment intent creation failed", zap.String("order_id", orderID), zap.Error(err))
		return "", &StageError{Stage: StageIntentCreating, Err: err}
	}

	// A 2xx reply without an identifier cannot be captured; treat it the
	// same as a failed call.
	intentID := intent.IntentIdentifier()
	if intentID == "" {
		o.log.Error("payment intent response missing identifier", zap.String("order_id", orderID))
		return "", &StageError{Stage: StageIntentCreating, Err: ErrMissingIntentID}
	}
	return intentID, nil
}

func (o *Orchestrator) capture(ctx context.Context, intentID, orderID string, amount float64, details models.PaymentDetails) (*clients.CaptureResponse, error) {
	stepCtx, cancel := context.WithTimeout(ctx, o.stepTimeout)
	defer cancel()

	capture, err := o.payments.CapturePayment(stepCtx, intentID, &clients.CaptureRequest{
		OrderID:       orderID,
		Amount:        amount,
		PaymentMethod: details.Method,
		Card:          details.Card,
		Pix:           details.Pix,
	})
	if err != nil {
		classified := ClassifyCaptureError(err)
		o.log.Error("payment capture transport error",
			zap.String("order_id", orderID),
			zap.String("kind", string(classified.Kind)),
			zap.Error(err))
		return nil, &StageError{Stage: StageCapturing, Err: classified}
	}

	if !capture.Accepted() {
		o.log.Warn("payment capture declined",
			zap.String("order_id", orderID),
			zap.String("status", capture.Status),
			zap.String("reason_code", capture.ReasonCode))
		return nil, &StageError{Stage: StageCapturing, Err: &DeclineError{
			ReasonCode: capture.ReasonCode,
			Message:    capture.Message,
		}}
	}
	return capture, nil
}

func (o *Orchestrator) finalize(ctx context.Context, orderID string) {
	stepCtx, cancel := context.WithTimeout(ctx, o.stepTimeout)
	defer cancel()

	if err := o.payments.FinalizeOrder(stepCtx, orderID); err != nil {
		o.log.Warn("order finalization failed",
			zap.String("order_id", orderID), zap.Error(err))
	}
}
