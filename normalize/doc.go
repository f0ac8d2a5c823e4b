// Package normalize converts raw catalog listings into canonical products.
//
// The Normalizer applies a fixed sequence of field-extraction rules to one
// loosely-typed listing at a time:
//   - required fields (external id, image, title) terminate normalization
//     with a Skipped outcome when absent
//   - malformed entries (fields of an unexpected shape) terminate with an
//     Invalid outcome
//   - soft fields degrade instead: an unparseable price becomes 0.0, a
//     failed embedding leaves the vector absent
//
// Neither Skipped nor Invalid aborts the surrounding batch; both isolate
// exactly one record.
package normalize
