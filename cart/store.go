// Package cart owns the current user's cart. All reads and writes go
// through the Store; it is the only component that persists or clears
// cart state, and it notifies subscribers after every successful write.
package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gamestore/storefront/models"
	"github.com/gamestore/storefront/store"
)

var (
	// ErrNotAuthenticated is returned when a mutation requires an active
	// session and there is none.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrInvalidQuantity is returned when adding an item with a quantity
	// below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// Authenticator is the session collaborator gating cart mutations.
type Authenticator interface {
	IsAuthenticated(ctx context.Context, ownerID int64) bool
}

// GameLookup resolves a game id to its display/pricing snapshot. Used for
// best-effort cart enrichment; failures never fail the cart operation.
type GameLookup interface {
	GetGameByID(ctx context.Context, gameID int64) (*models.GameSummary, error)
}

// PriceFunc resolves a unit price for a game id when no cached snapshot
// carries one. Returning false means the price is unknown.
type PriceFunc func(gameID int64) (float64, bool)

// Store is the single source of truth for per-owner carts. Mutations are
// serialized by a mutex, so concurrent UI actions (double-click add) see
// a consistent read-modify-write instead of last-write-wins.
type Store struct {
	repo          store.CartRepository
	auth          Authenticator
	lookup        GameLookup
	lookupTimeout time.Duration
	log           *zap.Logger

	mu sync.Mutex

	subMu       sync.Mutex
	subscribers map[int]chan *models.Cart
	nextSubID   int

	enrichWG sync.WaitGroup
}

// NewStore constructs a cart store. lookup may be nil, in which case items
// added without a snapshot simply stay unenriched.
func NewStore(repo store.CartRepository, auth Authenticator, lookup GameLookup, log *zap.Logger) *Store {
	return &Store{
		repo:          repo,
		auth:          auth,
		lookup:        lookup,
		lookupTimeout: 10 * time.Second,
		log:           log,
		subscribers:   make(map[int]chan *models.Cart),
	}
}

// Subscribe registers an observer of cart snapshots. The returned channel
// receives the cart after every successful persist (nil after a clear).
// Call the returned function to unsubscribe.
func (s *Store) Subscribe() (<-chan *models.Cart, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	ch := make(chan *models.Cart, 16)
	s.subscribers[id] = ch

	cancel := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if ch, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(ch)
		}
	}
	return ch, cancel
}

// notify fires after persistence has succeeded, never before. A slow
// subscriber with a full buffer is skipped rather than blocking writes.
func (s *Store) notify(cart *models.Cart) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subscribers {
		select {
		case ch <- cart:
		default:
			s.log.Warn("cart subscriber buffer full, dropping notification")
		}
	}
}

func newCart(ownerID int64) *models.Cart {
	return &models.Cart{
		SchemaVersion: models.CartSchemaVersion,
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		Items:         []models.CartItem{},
		Status:        models.CartStatusActive,
	}
}

// load returns the owner's persisted cart, or a fresh unpersisted one.
// Callers hold s.mu.
func (s *Store) load(ctx context.Context, ownerID int64) (*models.Cart, bool, error) {
	cart, err := s.repo.Get(ctx, ownerID)
	if errors.Is(err, store.ErrCartNotFound) {
		return newCart(ownerID), true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return cart, false, nil
}

// GetCart returns the owner's cart, lazily creating and persisting an
// empty one when absent.
func (s *Store) GetCart(ctx context.Context, ownerID int64) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, created, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if created {
		if err := s.repo.Save(ctx, cart); err != nil {
			return nil, err
		}
		s.notify(cart)
	}
	return cart, nil
}

// AddItem adds quantity of a game to the cart. Re-adding a game merges by
// summing quantities; a fresh snapshot overwrites the cached one. When no
// snapshot is supplied the store enriches asynchronously, best-effort.
func (s *Store) AddItem(ctx context.Context, ownerID, gameID int64, quantity int, knownGame *models.GameSummary) (*models.Cart, error) {
	if s.auth == nil || !s.auth.IsAuthenticated(ctx, ownerID) {
		return nil, ErrNotAuthenticated
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, _, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if item := cart.FindItem(gameID); item != nil {
		item.Quantity += quantity
		if knownGame != nil {
			item.CachedGame = knownGame
		}
	} else {
		cart.Items = append(cart.Items, models.CartItem{
			GameID:     gameID,
			Quantity:   quantity,
			CachedGame: knownGame,
		})
	}

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, err
	}
	s.notify(cart)

	if knownGame == nil && s.lookup != nil {
		s.enrichWG.Add(1)
		go s.enrich(ownerID, gameID)
	}
	return cart, nil
}

// enrich fetches the game snapshot and re-persists the cart with it.
// Lookup failure leaves the item unenriched; it is never an error.
func (s *Store) enrich(ownerID, gameID int64) {
	defer s.enrichWG.Done()

	ctx, cancel := context.WithTimeout(context.Background(), s.lookupTimeout)
	defer cancel()

	game, err := s.lookup.GetGameByID(ctx, gameID)
	if err != nil {
		s.log.Debug("cart enrichment lookup failed",
			zap.Int64("game_id", gameID), zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.repo.Get(ctx, ownerID)
	if err != nil {
		return
	}
	item := cart.FindItem(gameID)
	if item == nil {
		// Removed while the lookup was in flight.
		return
	}
	item.CachedGame = game

	if err := s.repo.Save(ctx, cart); err != nil {
		s.log.Warn("failed to persist enriched cart", zap.Error(err))
		return
	}
	s.notify(cart)
}

// UpdateItemQuantity sets the quantity for a game. Zero or negative means
// delete, not a validation error. Absent game ids are a no-op.
func (s *Store) UpdateItemQuantity(ctx context.Context, ownerID, gameID int64, quantity int) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, _, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	item := cart.FindItem(gameID)
	if item == nil {
		return cart, nil
	}
	if quantity <= 0 {
		cart.Items = removeItem(cart.Items, gameID)
	} else {
		item.Quantity = quantity
	}

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, err
	}
	s.notify(cart)
	return cart, nil
}

// RemoveItem removes a game from the cart. No-op when absent.
func (s *Store) RemoveItem(ctx context.Context, ownerID, gameID int64) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, _, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	cart.Items = removeItem(cart.Items, gameID)

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, err
	}
	s.notify(cart)
	return cart, nil
}

// Clear deletes the persisted cart entirely. The next GetCart mints a new
// cart with a new id.
func (s *Store) Clear(ctx context.Context, ownerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, ownerID); err != nil {
		return err
	}
	s.notify(nil)
	return nil
}

// ItemCount returns the sum of quantities across items. Zero for an
// absent cart.
func (s *Store) ItemCount(ctx context.Context, ownerID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, _, err := s.load(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	return cart.ItemCount(), nil
}

// Total sums quantity times unit price across items, using each item's
// cached snapshot price and falling back to priceOf for unenriched items.
// Items with no resolvable price contribute nothing.
func (s *Store) Total(ctx context.Context, ownerID int64, priceOf PriceFunc) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, _, err := s.load(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	return CartTotal(cart, priceOf), nil
}

// CartTotal computes the total for an already-loaded cart.
func CartTotal(cart *models.Cart, priceOf PriceFunc) float64 {
	total := 0.0
	for _, item := range cart.Items {
		price := 0.0
		switch {
		case item.CachedGame != nil:
			price = item.CachedGame.Price
		case priceOf != nil:
			if p, ok := priceOf(item.GameID); ok {
				price = p
			}
		}
		total += price * float64(item.Quantity)
	}
	return total
}

func removeItem(items []models.CartItem, gameID int64) []models.CartItem {
	next := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.GameID != gameID {
			next = append(next, item)
		}
	}
	return next
}

// waitEnrichment blocks until in-flight enrichment goroutines finish.
// Test hook.
func (s *Store) waitEnrichment() {
	s.enrichWG.Wait()
}
