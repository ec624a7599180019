// Package model defines the core record types used throughout rostercache.
//
// # Records
//
//   - Record: one roster entry, a mapping of named fields with typed accessors
//   - StatusMessage: the embedded status block carried by roster payloads
//
// Upstream payloads are schema-drifty: the same logical field has appeared
// under several spellings over backend revisions. Normalize maps the known
// legacy spellings onto the canonical field set and enforces the identifier
// invariant (every record has a non-empty, stable voter_id).
package model
