package core

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for stored catalog entities.
// It is derived from the product's natural key via content-based hashing,
// so the same (source, productUrl) pair always maps to the same ID.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Key is the natural key of a product: the catalog source it came from and
// the canonical product page URL within that source. Re-ingesting a listing
// with the same Key replaces the stored row (last-write-wins).
type Key struct {
	Source     string
	ProductURL string
}

// Tuple returns a string representation of the key as "(source,productUrl)".
// This is used for generating deterministic IDs.
func (k Key) Tuple() string {
	return "(" + k.Source + "," + k.ProductURL + ")"
}

// ID returns the content-derived storage ID for this key.
func (k Key) ID() ID {
	return IDFromContent(k.Tuple())
}

// Gender classifies a listing's target department.
type Gender int

const (
	// GenderWoman is the default department when the category labels give no signal.
	GenderWoman Gender = iota + 1
	// GenderMan is assigned when a category label carries a men's token.
	GenderMan
)

// String renders the store representation of the gender.
func (g Gender) String() string {
	switch g {
	case GenderMan:
		return "MAN"
	case GenderWoman:
		return "WOMAN"
	default:
		return fmt.Sprintf("Gender(%d)", int(g))
	}
}

// ParseGender converts a store representation back into a Gender.
func ParseGender(s string) (Gender, error) {
	switch s {
	case "MAN":
		return GenderMan, nil
	case "WOMAN":
		return GenderWoman, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidGender, s)
	}
}

// Product is the canonical catalog record produced by normalization.
// It is constructed transiently from one raw listing, optionally enriched
// with a visual embedding, then persisted; the store is the only durable
// owner.
type Product struct {
	Key         Key
	Id          string // display identifier, "{source}_{externalId}"
	Title       string
	ImageURL    string
	Gender      Gender
	Price       float64
	Currency    string
	Brand       string
	Description string
	Category    string    // empty = absent
	Tags        []string  // nil = absent
	Metadata    string    // opaque serialized JSON, never interpreted
	Embedding   []float32 // nil = absent; otherwise exactly the provider dimension
	SecondHand  bool
	Country     string
	CreatedAt   time.Time // set by the sink on first write
	UpdatedAt   time.Time // set by the sink on every write
}

// HasEmbedding reports whether a visual embedding was attached.
func (p *Product) HasEmbedding() bool {
	return len(p.Embedding) > 0
}

// SimilarityMatch represents a product match from vector similarity search.
type SimilarityMatch struct {
	Key   Key
	Score float32
}

// SearchResult represents a search result with the full product and relevance score.
type SearchResult struct {
	Product *Product
	Score   float32
}
