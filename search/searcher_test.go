package search

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/vitrine/core"
	"github.com/poiesic/vitrine/storage"
	"github.com/poiesic/vitrine/storage/badger"
	"github.com/poiesic/vitrine/vision/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore(t *testing.T) storage.ProductStore {
	t.Helper()
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	products := []*core.Product{
		catalogProduct("https://www.cos.com/p/1", "Wool Jumper", core.GenderWoman, 89, []string{"wool"}, []float32{1, 0, 0}),
		catalogProduct("https://www.cos.com/p/2", "Wool Cardigan", core.GenderWoman, 120, []string{"wool"}, []float32{0.9, 0.1, 0}),
		catalogProduct("https://www.cos.com/p/3", "Cotton Shirt", core.GenderMan, 49, []string{"cotton"}, []float32{0.8, 0.2, 0}),
		catalogProduct("https://www.cos.com/p/4", "Silk Scarf", core.GenderWoman, 59, nil, []float32{0, 1, 0}),
		catalogProduct("https://www.cos.com/p/5", "No Vector Coat", core.GenderWoman, 200, nil, nil),
	}
	results, err := store.Upsert(context.Background(), products...)
	require.NoError(t, err)
	for _, res := range results {
		require.NoError(t, res.Err)
	}
	return store
}

func catalogProduct(url, title string, gender core.Gender, price float64, tags []string, embedding []float32) *core.Product {
	return &core.Product{
		Key:       core.Key{Source: "cos", ProductURL: url},
		Id:        "cos_" + title,
		Title:     title,
		ImageURL:  "https://media.cos.com/img.jpg",
		Gender:    gender,
		Price:     price,
		Currency:  "EUR",
		Brand:     "COS",
		Country:   "EU",
		Tags:      tags,
		Embedding: embedding,
	}
}

func fixedEmbedder(vector []float32) *mock.MockEmbedder {
	embedder := mock.NewMockEmbedder(len(vector))
	embedder.EmbedImageFunc = func(ctx context.Context, imageURL string) ([]float32, error) {
		return vector, nil
	}
	return embedder
}

func TestNewSearcher_RequiresDependencies(t *testing.T) {
	store := seededStore(t)

	_, err := NewSearcher(nil, mock.NewMockEmbedder(3))
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = NewSearcher(store, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestFindSimilarToImage_RanksByScore(t *testing.T) {
	store := seededStore(t)
	searcher, err := NewSearcher(store, fixedEmbedder([]float32{1, 0, 0}))
	require.NoError(t, err)

	results, err := searcher.FindSimilarToImage(context.Background(), "https://example.test/query.jpg", 10)
	require.NoError(t, err)
	require.Len(t, results, 3, "scarf is below threshold and coat has no vector")

	assert.Equal(t, "Wool Jumper", results[0].Product.Title)
	assert.Equal(t, "Wool Cardigan", results[1].Product.Title)
	assert.Equal(t, "Cotton Shirt", results[2].Product.Title)
	assert.Greater(t, results[0].Score, results[1].Score)
}

// An inference server may hand back vectors of any magnitude; scoring must
// not depend on that scale or the similarity floor shifts per query.
func TestFindSimilarToImage_QueryScaleInvariant(t *testing.T) {
	store := seededStore(t)
	searcher, err := NewSearcher(store, fixedEmbedder([]float32{250, 0, 0}))
	require.NoError(t, err)

	results, err := searcher.FindSimilarToImage(context.Background(), "https://example.test/query.jpg", 10)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "Wool Jumper", results[0].Product.Title)
	assert.InDelta(t, 1.0, float64(results[0].Score), 0.0001)
}

func TestFindSimilarToImage_EmbedderFailure(t *testing.T) {
	store := seededStore(t)
	embedder := mock.NewMockEmbedder(3)
	embedder.EmbedImageFunc = func(ctx context.Context, imageURL string) ([]float32, error) {
		return nil, errors.New("inference unavailable")
	}
	searcher, err := NewSearcher(store, embedder)
	require.NoError(t, err)

	_, err = searcher.FindSimilarToImage(context.Background(), "https://example.test/query.jpg", 10)
	assert.Error(t, err)
}

func TestFindSimilarToImage_Filters(t *testing.T) {
	store := seededStore(t)
	searcher, err := NewSearcher(store, fixedEmbedder([]float32{1, 0, 0}))
	require.NoError(t, err)
	ctx := context.Background()

	byGender, err := searcher.FindSimilarToImage(ctx, "q.jpg", 10, FilterGender(core.GenderMan))
	require.NoError(t, err)
	require.Len(t, byGender, 1)
	assert.Equal(t, "Cotton Shirt", byGender[0].Product.Title)

	byTag, err := searcher.FindSimilarToImage(ctx, "q.jpg", 10, FilterTag("wool"))
	require.NoError(t, err)
	assert.Len(t, byTag, 2)

	byPrice, err := searcher.FindSimilarToImage(ctx, "q.jpg", 10, FilterMaxPrice(100))
	require.NoError(t, err)
	assert.Len(t, byPrice, 2)

	combined, err := searcher.FindSimilarToImage(ctx, "q.jpg", 10,
		FilterGender(core.GenderWoman), FilterMaxPrice(100), FilterSource("cos"))
	require.NoError(t, err)
	require.Len(t, combined, 1)
	assert.Equal(t, "Wool Jumper", combined[0].Product.Title)
}

func TestFindSimilarToProduct_ExcludesReference(t *testing.T) {
	store := seededStore(t)
	searcher, err := NewSearcher(store, mock.NewMockEmbedder(3))
	require.NoError(t, err)

	key := core.Key{Source: "cos", ProductURL: "https://www.cos.com/p/1"}
	results, err := searcher.FindSimilarToProduct(context.Background(), key, 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, result := range results {
		assert.NotEqual(t, key, result.Product.Key)
	}
}

func TestFindSimilarToProduct_NoEmbedding(t *testing.T) {
	store := seededStore(t)
	searcher, err := NewSearcher(store, mock.NewMockEmbedder(3))
	require.NoError(t, err)

	key := core.Key{Source: "cos", ProductURL: "https://www.cos.com/p/5"}
	_, err = searcher.FindSimilarToProduct(context.Background(), key, 10)
	assert.ErrorIs(t, err, ErrNoEmbedding)
}

func TestFindSimilarToProduct_UnknownKey(t *testing.T) {
	store := seededStore(t)
	searcher, err := NewSearcher(store, mock.NewMockEmbedder(3))
	require.NoError(t, err)

	key := core.Key{Source: "cos", ProductURL: "https://www.cos.com/p/404"}
	_, err = searcher.FindSimilarToProduct(context.Background(), key, 10)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
