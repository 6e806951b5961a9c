package store

import (
	"context"
	"errors"

	"github.com/gamestore/storefront/models"
)

// ErrCartNotFound is returned when no cart is persisted for an owner.
var ErrCartNotFound = errors.New("cart not found")

// CartRepository persists one cart blob per owner. Implementations must
// treat a blob with an unrecognized schema version as absent: the store
// lazily recreates the cart on the next read.
type CartRepository interface {
	Get(ctx context.Context, ownerID int64) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, ownerID int64) error
	Close() error
}
