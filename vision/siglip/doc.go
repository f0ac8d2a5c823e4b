// Package siglip implements vision.ImageEmbedder against a SigLIP-style
// inference server.
//
// The embedder downloads the image bytes with a bounded timeout, then runs
// a single forward pass through the remote model conditioned on a fixed
// placeholder text prompt (SigLIP requires a paired text input even though
// only the image branch's output is used). The HTTP client and the
// server-side model are warm after the first call and reused for all
// subsequent calls.
package siglip
