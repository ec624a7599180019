// Package fetch translates an authenticated identity into a fully
// materialized roster, and fetches single supplementary records.
//
// A roster fetch is two hops: the backend endpoint resolves the identity to
// a short-lived retrieval URL, then a BlobSource fetches the blob behind
// that URL. Payload decoding is a single explicit contract (see payload.go)
// rather than per-call-site shape probing; compressed blobs are detected by
// magic bytes and decompressed transparently.
package fetch
