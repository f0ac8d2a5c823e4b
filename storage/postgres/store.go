// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package postgres

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/poiesic/vitrine/core"
	"github.com/poiesic/vitrine/storage"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS products (
	source       TEXT NOT NULL,
	product_url  TEXT NOT NULL,
	record_id    BIGINT NOT NULL,
	display_id   TEXT NOT NULL,
	title        TEXT NOT NULL,
	image_url    TEXT NOT NULL,
	gender       TEXT NOT NULL,
	price        DOUBLE PRECISION NOT NULL DEFAULT 0,
	currency     TEXT NOT NULL DEFAULT '',
	brand        TEXT NOT NULL DEFAULT '',
	description  TEXT NOT NULL DEFAULT '',
	category     TEXT NOT NULL DEFAULT '',
	tags         TEXT[],
	metadata     JSONB,
	embedding    REAL[],
	second_hand  BOOLEAN NOT NULL DEFAULT FALSE,
	country      TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (source, product_url)
);
CREATE INDEX IF NOT EXISTS products_record_id_idx ON products (record_id);
`

const upsertSQL = `
INSERT INTO products
	(source, product_url, record_id, display_id, title, image_url, gender,
	 price, currency, brand, description, category, tags, metadata,
	 embedding, second_hand, country, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$18)
ON CONFLICT (source, product_url) DO UPDATE SET
	record_id   = EXCLUDED.record_id,
	display_id  = EXCLUDED.display_id,
	title       = EXCLUDED.title,
	image_url   = EXCLUDED.image_url,
	gender      = EXCLUDED.gender,
	price       = EXCLUDED.price,
	currency    = EXCLUDED.currency,
	brand       = EXCLUDED.brand,
	description = EXCLUDED.description,
	category    = EXCLUDED.category,
	tags        = EXCLUDED.tags,
	metadata    = EXCLUDED.metadata,
	embedding   = EXCLUDED.embedding,
	second_hand = EXCLUDED.second_hand,
	country     = EXCLUDED.country,
	updated_at  = EXCLUDED.updated_at
`

const selectColumns = `source, product_url, display_id, title, image_url, gender,
	price, currency, brand, description, category, tags, metadata,
	embedding, second_hand, country, created_at, updated_at`

// execQuerier is the subset of pgxpool.Pool the store uses.
// Kept as an interface so tests can substitute a stub.
type execQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements storage.ProductStore on a PostgreSQL database.
type Store struct {
	db    execQuerier
	close func()
}

var _ storage.ProductStore = (*Store)(nil)

// NewStore connects to PostgreSQL and ensures the products schema exists.
func NewStore(ctx context.Context, dsn string) (storage.ProductStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	store := &Store{db: pool, close: pool.Close}
	if err := store.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("ensure products schema: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s.close != nil {
		s.close()
	}
	return nil
}

// Upsert writes products keyed by their (source, product URL) pair.
// Each product is one INSERT ... ON CONFLICT DO UPDATE statement, so a
// rejected record never prevents its neighbors from committing. created_at
// is written only on insert; updated_at refreshes on every write.
func (s *Store) Upsert(ctx context.Context, products ...*core.Product) ([]storage.UpsertResult, error) {
	results := make([]storage.UpsertResult, 0, len(products))

	for _, product := range products {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		now := time.Now().UTC()
		product.UpdatedAt = now
		if product.CreatedAt.IsZero() {
			product.CreatedAt = now
		}

		_, err := s.db.Exec(ctx, upsertSQL,
			product.Key.Source,
			product.Key.ProductURL,
			signedRecordID(product.Key.ID()),
			product.Id,
			product.Title,
			product.ImageURL,
			product.Gender.String(),
			product.Price,
			product.Currency,
			product.Brand,
			product.Description,
			product.Category,
			product.Tags,
			nullableJSON(product.Metadata),
			product.Embedding,
			product.SecondHand,
			product.Country,
			now,
		)
		results = append(results, storage.UpsertResult{Product: product, Err: err})
	}

	return results, nil
}

// GetProduct retrieves a single product by its natural key.
func (s *Store) GetProduct(ctx context.Context, key core.Key) (*core.Product, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+selectColumns+` FROM products WHERE source = $1 AND product_url = $2`,
		key.Source, key.ProductURL)

	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

// CountProducts returns the number of stored products.
func (s *Store) CountProducts(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ScanProducts retrieves up to limit products with record IDs greater than
// afterID, ordered by record ID.
func (s *Store) ScanProducts(ctx context.Context, afterID core.ID, limit int) ([]*core.Product, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	rows, err := s.db.Query(ctx,
		`SELECT `+selectColumns+` FROM products WHERE record_id > $1 ORDER BY record_id LIMIT $2`,
		signedRecordID(afterID), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*core.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, product)
	}
	return results, rows.Err()
}

// FindSimilar finds products whose embedding is similar to the given vector.
// Candidate rows are fetched and scored in process, matching the BadgerDB
// backend's scoring.
func (s *Store) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+selectColumns+` FROM products WHERE embedding IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*core.SearchResult
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		if !product.HasEmbedding() {
			continue
		}
		similarity := dotProduct(vector, product.Embedding)
		if similarity >= minSimilarity {
			results = append(results, &core.SearchResult{Product: product, Score: similarity})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *core.SearchResult) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// scanProduct reads one products row.
func scanProduct(row pgx.Row) (*core.Product, error) {
	var (
		p        core.Product
		gender   string
		metadata []byte
	)
	err := row.Scan(
		&p.Key.Source,
		&p.Key.ProductURL,
		&p.Id,
		&p.Title,
		&p.ImageURL,
		&gender,
		&p.Price,
		&p.Currency,
		&p.Brand,
		&p.Description,
		&p.Category,
		&p.Tags,
		&metadata,
		&p.Embedding,
		&p.SecondHand,
		&p.Country,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if p.Gender, err = core.ParseGender(gender); err != nil {
		return nil, err
	}
	p.Metadata = string(metadata)
	return &p, nil
}

// signedRecordID maps a key hash into BIGINT range with its sign bit
// flipped, so the column's signed order matches the hash's unsigned order.
// A plain int64 cast would sort high-bit hashes below every scan cursor.
func signedRecordID(id core.ID) int64 {
	return int64(uint64(id) ^ (1 << 63))
}

// nullableJSON maps an empty metadata blob to SQL NULL.
func nullableJSON(metadata string) any {
	if metadata == "" {
		return nil
	}
	return []byte(metadata)
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
