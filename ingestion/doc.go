// Package ingestion provides pipeline orchestration for catalog runs.
//
// The Pipeline type manages the ingestion workflow for raw catalog batches:
//   - Fetching raw batches from sources (may overlap with processing)
//   - Normalizing each listing into a canonical product
//   - Attaching visual embeddings (degrading to no vector on failure)
//   - Upserting the batch into the product store
//
// Sources are processed strictly in the order supplied, and within a source
// records are normalized and embedded one at a time. Only the fetch of the
// next source overlaps with processing; results never reorder. Per-record
// failures are logged and tallied but never abort the run.
package ingestion
