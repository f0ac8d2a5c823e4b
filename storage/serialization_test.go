package storage

import (
	"testing"
	"time"

	"github.com/poiesic/vitrine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("(cos,https://www.cos.com/item)")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalIDEmptyData(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.Error(t, err)
}

func TestMarshalUnmarshalProduct(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	product := &core.Product{
		Key: core.Key{
			Source:     "https://www.cos.com/api/catalog",
			ProductURL: "https://www.cos.com/en-eu/women/tops/ribbed-tank-top-101",
		},
		Id:          "cos_101",
		Title:       "Ribbed Tank Top",
		ImageURL:    "https://media.cos.com/101.jpg",
		Gender:      core.GenderWoman,
		Price:       39.99,
		Currency:    "EUR",
		Brand:       "COS",
		Description: "A ribbed tank in organic cotton.",
		Category:    "Tops",
		Tags:        []string{"cotton"},
		Metadata:    `{"sku":"101-001","is_new":true}`,
		Embedding:   []float32{0.1, -0.2, 0.3, 0.4},
		SecondHand:  false,
		Country:     "EU",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	data := MarshalProduct(product)
	require.NotEmpty(t, data)
	require.Len(t, data, ProductMUS.Size(*product))

	decoded, err := UnmarshalProduct(data)
	require.NoError(t, err)
	assert.Equal(t, product, decoded)
}

func TestMarshalUnmarshalProductMinimal(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	// No embedding, no tags, no category: the absent-value shapes a skipped
	// embedding hop produces.
	product := &core.Product{
		Key:       core.Key{Source: "file.json", ProductURL: ""},
		Id:        "cos_7",
		Title:     "Wool Coat",
		ImageURL:  "https://media.cos.com/7.jpg",
		Gender:    core.GenderMan,
		Currency:  "EUR",
		Brand:     "COS",
		Country:   "EU",
		CreatedAt: now,
		UpdatedAt: now,
	}

	decoded, err := UnmarshalProduct(MarshalProduct(product))
	require.NoError(t, err)
	assert.Equal(t, product.Key, decoded.Key)
	assert.Equal(t, product.Title, decoded.Title)
	assert.Empty(t, decoded.Tags)
	assert.False(t, decoded.HasEmbedding())
	assert.Equal(t, now, decoded.CreatedAt)
}

func TestUnmarshalProductTruncatedData(t *testing.T) {
	product := &core.Product{
		Key:      core.Key{Source: "s", ProductURL: "u"},
		Title:    "Truncation probe",
		ImageURL: "https://example.test/img.jpg",
		Gender:   core.GenderWoman,
	}

	data := MarshalProduct(product)
	for _, cut := range []int{0, 1, len(data) / 2, len(data) - 1} {
		_, err := UnmarshalProduct(data[:cut])
		assert.Error(t, err, "cut at %d", cut)
	}
}
