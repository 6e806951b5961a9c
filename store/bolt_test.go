package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	bolt "github.com/boltdb/bolt"
	"github.com/stretchr/testify/assert"

	"github.com/gamestore/storefront/models"
)

func newTestRepo(t *testing.T) *BoltRepository {
	t.Helper()
	dir := t.TempDir()
	repo, err := NewBoltRepository(filepath.Join(dir, "carts.db"))
	if err != nil {
		t.Fatalf("failed to open test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestGet_MissingCart(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Get(context.Background(), 1)

	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestSaveGet_RoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	cart := &models.Cart{
		ID:      "cart-1",
		OwnerID: 1,
		Status:  models.CartStatusActive,
		Items: []models.CartItem{
			{GameID: 10, Quantity: 2, CachedGame: &models.GameSummary{ID: 10, Title: "Steam Deck Sim", Price: 49.9}},
			{GameID: 11, Quantity: 1},
		},
	}
	assert.NoError(t, repo.Save(ctx, cart))

	loaded, err := repo.Get(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, "cart-1", loaded.ID)
	assert.Equal(t, models.CartSchemaVersion, loaded.SchemaVersion)
	assert.Len(t, loaded.Items, 2)
	assert.Equal(t, 49.9, loaded.Items[0].CachedGame.Price)
	assert.False(t, loaded.UpdatedAt.IsZero())
}

func TestSave_PreservesInsertionOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	cart := &models.Cart{ID: "cart-1", OwnerID: 1, Status: models.CartStatusActive}
	for _, id := range []int64{5, 3, 9, 1} {
		cart.Items = append(cart.Items, models.CartItem{GameID: id, Quantity: 1})
	}
	assert.NoError(t, repo.Save(ctx, cart))

	loaded, err := repo.Get(ctx, 1)
	assert.NoError(t, err)
	ids := make([]int64, 0, len(loaded.Items))
	for _, item := range loaded.Items {
		ids = append(ids, item.GameID)
	}
	assert.Equal(t, []int64{5, 3, 9, 1}, ids)
}

func TestDelete_IsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	assert.NoError(t, repo.Save(ctx, &models.Cart{ID: "cart-1", OwnerID: 1}))
	assert.NoError(t, repo.Delete(ctx, 1))
	// Deleting again must not fail.
	assert.NoError(t, repo.Delete(ctx, 1))

	_, err := repo.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestGet_DiscardsUnknownSchemaVersion(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// Write a blob the way a future release would.
	stale := models.Cart{SchemaVersion: models.CartSchemaVersion + 1, ID: "cart-x", OwnerID: 2}
	data, err := json.Marshal(stale)
	assert.NoError(t, err)
	err = repo.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(cartBucket)).Put(ownerKey(2), data)
	})
	assert.NoError(t, err)

	_, err = repo.Get(ctx, 2)
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestSave_IsolatesOwners(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	assert.NoError(t, repo.Save(ctx, &models.Cart{ID: "a", OwnerID: 1}))
	assert.NoError(t, repo.Save(ctx, &models.Cart{ID: "b", OwnerID: 2}))

	a, err := repo.Get(ctx, 1)
	assert.NoError(t, err)
	b, err := repo.Get(ctx, 2)
	assert.NoError(t, err)
	assert.Equal(t, "a", a.ID)
	assert.Equal(t, "b", b.ID)
}
