package models

import "time"

// CartSchemaVersion is stamped on every persisted cart blob. The upstream
// payload shape has changed between releases without any marker, so loads
// discard blobs with a version we don't recognize.
const CartSchemaVersion = 1

type CartStatus string

const CartStatusActive CartStatus = "ACTIVE"

// CartItem is one line in a cart. GameID is unique within a cart; re-adding
// the same game merges by summing quantities.
type CartItem struct {
	GameID     int64        `json:"game_id"`
	Quantity   int          `json:"quantity"`
	CachedGame *GameSummary `json:"cached_game,omitempty"`
}

// Cart is the owner's current, mutable collection of not-yet-purchased
// items. Exactly one cart per owner at a time.
type Cart struct {
	SchemaVersion int        `json:"schema_version"`
	ID            string     `json:"id"`
	OwnerID       int64      `json:"owner_id"`
	Items         []CartItem `json:"items"`
	Status        CartStatus `json:"status"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ItemCount sums quantities across items. Never negative.
func (c *Cart) ItemCount() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// FindItem returns the item for gameID, or nil.
func (c *Cart) FindItem(gameID int64) *CartItem {
	for i := range c.Items {
		if c.Items[i].GameID == gameID {
			return &c.Items[i]
		}
	}
	return nil
}
