package fetch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/poiesic/vitrine/normalize"
)

// Batch is one finite sequence of raw listings from a single source.
type Batch struct {
	Source string
	Items  []normalize.RawListing
}

// Source produces one raw catalog batch.
// Implementations are bounded and finite; an error covers the whole batch.
type Source interface {
	// Name identifies the source in logs and tallies.
	Name() string

	// Fetch obtains and parses the source's JSON document.
	Fetch(ctx context.Context) (*Batch, error)
}

// catalogDocument is the expected top-level shape of a source document.
type catalogDocument struct {
	Items []map[string]any `json:"items"`
}

// parseBatch decodes a catalog JSON document into a Batch.
func parseBatch(name string, data []byte) (*Batch, error) {
	var doc catalogDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog document from %s: %w", name, err)
	}

	items := make([]normalize.RawListing, len(doc.Items))
	for i, item := range doc.Items {
		items[i] = normalize.RawListing(item)
	}

	return &Batch{Source: name, Items: items}, nil
}
