package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/vitrine/core"
	"github.com/poiesic/vitrine/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) storage.ProductStore {
	t.Helper()
	store, err := NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testProduct(source, url, title string) *core.Product {
	return &core.Product{
		Key:      core.Key{Source: source, ProductURL: url},
		Id:       "cos_" + title,
		Title:    title,
		ImageURL: "https://media.cos.com/" + title + ".jpg",
		Gender:   core.GenderWoman,
		Price:    49.0,
		Currency: "EUR",
		Brand:    "COS",
		Country:  "EU",
	}
}

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	tmpDir := t.TempDir()
	backend, err := OpenBackend(tmpDir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestUpsert_InsertThenGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	product := testProduct("cos", "https://www.cos.com/p/1", "tank-top")
	results, err := store.Upsert(ctx, product)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)

	got, err := store.GetProduct(ctx, product.Key)
	require.NoError(t, err)
	assert.Equal(t, product.Title, got.Title)
	assert.Equal(t, product.Key, got.Key)
	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestUpsert_SameKeyOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := testProduct("cos", "https://www.cos.com/p/1", "tank-top")
	_, err := store.Upsert(ctx, first)
	require.NoError(t, err)

	createdAt := first.CreatedAt
	time.Sleep(2 * time.Millisecond)

	second := testProduct("cos", "https://www.cos.com/p/1", "tank-top-renamed")
	second.Price = 59.0
	_, err = store.Upsert(ctx, second)
	require.NoError(t, err)

	count, err := store.CountProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := store.GetProduct(ctx, second.Key)
	require.NoError(t, err)
	assert.Equal(t, "tank-top-renamed", got.Title)
	assert.Equal(t, 59.0, got.Price)
	// First write's CreatedAt survives, UpdatedAt moves forward.
	assert.WithinDuration(t, createdAt, got.CreatedAt, time.Microsecond)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))
}

func TestUpsert_DistinctKeysCoexist(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Same URL from different sources are independent records.
	a := testProduct("cos", "https://www.cos.com/p/1", "from-cos")
	b := testProduct("arket", "https://www.cos.com/p/1", "from-arket")
	results, err := store.Upsert(ctx, a, b)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, res := range results {
		require.NoError(t, res.Err)
	}

	count, err := store.CountProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestUpsert_CancelledContext(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Upsert(ctx, testProduct("cos", "https://www.cos.com/p/1", "x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGetProduct_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetProduct(context.Background(), core.Key{Source: "cos", ProductURL: "missing"})
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestCountProducts_Empty(t *testing.T) {
	store := newTestStore(t)

	count, err := store.CountProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestScanProducts_PagesThroughAll(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	urls := []string{"p/1", "p/2", "p/3", "p/4", "p/5"}
	for _, u := range urls {
		_, err := store.Upsert(ctx, testProduct("cos", "https://www.cos.com/"+u, u))
		require.NoError(t, err)
	}

	seen := make(map[core.Key]bool)
	var afterID core.ID
	for {
		batch, err := store.ScanProducts(ctx, afterID, 2)
		require.NoError(t, err)
		if len(batch) == 0 {
			break
		}
		var prev core.ID
		for _, p := range batch {
			id := p.Key.ID()
			assert.Greater(t, uint64(id), uint64(afterID))
			assert.Greater(t, uint64(id), uint64(prev))
			prev = id
			seen[p.Key] = true
		}
		afterID = batch[len(batch)-1].Key.ID()
	}

	assert.Len(t, seen, len(urls))
}

func TestScanProducts_InvalidLimit(t *testing.T) {
	store := newTestStore(t)

	_, err := store.ScanProducts(context.Background(), 0, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestFindSimilar_NoProducts(t *testing.T) {
	store := newTestStore(t)

	results, err := store.FindSimilar(context.Background(), []float32{0.1, 0.2, 0.3}, 0.5, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFindSimilar_RanksAndFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	near := testProduct("cos", "https://www.cos.com/p/1", "near")
	near.Embedding = []float32{1, 0, 0}
	mid := testProduct("cos", "https://www.cos.com/p/2", "mid")
	mid.Embedding = []float32{0.7, 0.7, 0}
	far := testProduct("cos", "https://www.cos.com/p/3", "far")
	far.Embedding = []float32{0, 0, 1}
	bare := testProduct("cos", "https://www.cos.com/p/4", "no-embedding")

	_, err := store.Upsert(ctx, near, mid, far, bare)
	require.NoError(t, err)

	results, err := store.FindSimilar(ctx, []float32{1, 0, 0}, 0.5, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "near", results[0].Product.Title)
	assert.Equal(t, "mid", results[1].Product.Title)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestFindSimilar_LimitApplies(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i, u := range []string{"p/1", "p/2", "p/3"} {
		p := testProduct("cos", "https://www.cos.com/"+u, u)
		p.Embedding = []float32{1, float32(i) * 0.01, 0}
		_, err := store.Upsert(ctx, p)
		require.NoError(t, err)
	}

	results, err := store.FindSimilar(ctx, []float32{1, 0, 0}, 0.1, 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}
