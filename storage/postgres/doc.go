// Package postgres implements the product store on PostgreSQL.
//
// The products table is keyed by (source, product_url); Upsert issues one
// INSERT ... ON CONFLICT DO UPDATE per product so each record commits
// independently. The content-derived record ID is stored alongside the
// natural key to support batched scans with the same pagination contract as
// the BadgerDB backend.
package postgres
