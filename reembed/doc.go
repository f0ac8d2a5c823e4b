// Package reembed provides functionality for reembedding existing catalog
// products with new or updated vision models.
//
// This package supports batch iteration over the product store, progress
// tracking, retry logic with exponential backoff, and vector normalization
// to ensure compatibility with cosine similarity search. Individual product
// failures (image gone, inference error after retries) are counted and
// skipped; they never abort the run.
package reembed
