// Package store persists cart state. The default backend is a BoltDB file:
// all carts live in a single file on disk, so the storefront needs no
// external database process to keep carts across restarts.
package store

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	bolt "github.com/boltdb/bolt"

	"github.com/gamestore/storefront/models"
)

const cartBucket = "carts"

// BoltRepository stores one JSON cart blob per owner in a single bucket.
type BoltRepository struct {
	db *bolt.DB
}

// NewBoltRepository opens (or creates) the database file at path and
// ensures the carts bucket exists.
func NewBoltRepository(path string) (*BoltRepository, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(cartBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltRepository{db: db}, nil
}

func (r *BoltRepository) Close() error {
	return r.db.Close()
}

func ownerKey(ownerID int64) []byte {
	return []byte(strconv.FormatInt(ownerID, 10))
}

func (r *BoltRepository) Get(_ context.Context, ownerID int64) (*models.Cart, error) {
	var cart models.Cart

	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(cartBucket))
		v := b.Get(ownerKey(ownerID))
		if v == nil {
			return ErrCartNotFound
		}
		return json.Unmarshal(v, &cart)
	})
	if err != nil {
		return nil, err
	}

	// Blobs written before versioning, or by a newer release, are not
	// trusted; the caller recreates the cart.
	if cart.SchemaVersion != models.CartSchemaVersion {
		return nil, ErrCartNotFound
	}
	return &cart, nil
}

func (r *BoltRepository) Save(_ context.Context, cart *models.Cart) error {
	cart.SchemaVersion = models.CartSchemaVersion
	cart.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}

	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(cartBucket))
		return b.Put(ownerKey(cart.OwnerID), data)
	})
}

// Delete removes the owner's cart. Deleting an absent cart is not an
// error; bolt's Delete is a no-op on missing keys.
func (r *BoltRepository) Delete(_ context.Context, ownerID int64) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(cartBucket))
		return b.Delete(ownerKey(ownerID))
	})
}
