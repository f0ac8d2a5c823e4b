// Package fetch supplies raw catalog batches to the ingestion pipeline.
//
// A Source produces one finite batch of raw listings: either a local JSON
// file or a remote endpoint answering one GET with a JSON body. Either way
// the document must carry an "items" array. A source that cannot be read
// or parsed fails as a whole; fetch-level failures are attributed to the
// entire source, never to individual listings.
package fetch
