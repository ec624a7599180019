package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Canonical field names. Upstream revisions have used other spellings for
// some of these; Normalize folds those onto the canonical set.
const (
	FieldVoterID         = "voter_id"
	FieldEPIC            = "epic_number"
	FieldFirstMiddleName = "voter_first_middle_name"
	FieldLastName        = "voter_last_name"
	FieldFullName        = "voter_full_name"
	FieldGender          = "gender"
	FieldReligion        = "religion"
	FieldRelationType    = "relation_type"
	FieldRelationName    = "relation_full_name"

	// FieldSyntheticID marks records whose identifier was generated locally
	// because the upstream payload carried no usable identifier at all.
	// Such identifiers are NOT stable across independent refreshes.
	FieldSyntheticID = "synthetic_id"
)

// idNamespace is the UUIDv5 namespace for identifiers derived from a
// secondary identifier. Changing it would orphan every derived row.
var idNamespace = uuid.MustParse("9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d")

// Record represents one roster entry. Fields are dynamic because the
// upstream schema drifts; typed accessors cover the fields the engine and
// the presentation layer actually rely on.
type Record map[string]any

// StatusMessage is the embedded status block a roster payload may carry.
// A Flag of "F" overrides transport-level success.
type StatusMessage struct {
	Flag    string `json:"status_flag"`
	Message string `json:"message"`
}

// FailureFlag is the StatusMessage.Flag value marking an upstream failure.
const FailureFlag = "F"

// String returns the value of key as a string, or "" if absent or not a
// string-like scalar.
func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return ""
	}
}

// ID returns the record's canonical identifier.
func (r Record) ID() string { return r.String(FieldVoterID) }

// EPIC returns the record's secondary (EPIC) identifier.
func (r Record) EPIC() string { return r.String(FieldEPIC) }

// Gender returns the record's gender field.
func (r Record) Gender() string { return r.String(FieldGender) }

// Religion returns the record's religion field.
func (r Record) Religion() string { return r.String(FieldReligion) }

// FullName returns the record's display name, composing it from the name
// parts when no precomposed full name is present.
func (r Record) FullName() string {
	if full := r.String(FieldFullName); full != "" {
		return full
	}
	return strings.TrimSpace(r.String(FieldFirstMiddleName) + " " + r.String(FieldLastName))
}

// Synthetic reports whether the record's identifier was generated locally.
func (r Record) Synthetic() bool {
	v, _ := r[FieldSyntheticID].(bool)
	return v
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// legacyFields maps historical field spellings onto canonical names.
// The canonical name wins when both are present.
var legacyFields = map[string]string{
	"voter_firstname": FieldFirstMiddleName,
	"voter_lastname":  FieldLastName,
}

// legacyIDFields are historical spellings of the primary identifier,
// probed in order.
var legacyIDFields = []string{"voterId", "voterID", "id"}

// Normalize folds legacy field spellings onto the canonical set and
// guarantees the identifier invariant: after Normalize, ID() is non-empty.
//
// A missing identifier is derived deterministically from the secondary
// (EPIC) identifier, so the same underlying record maps to the same row
// across independent refreshes. Records with no identifier of any kind get
// a random one and are marked with FieldSyntheticID; those rows may
// duplicate across refreshes, which the caller must accept or reject.
// The record is modified in place and returned for chaining.
func Normalize(r Record) Record {
	for legacy, canonical := range legacyFields {
		if r.String(canonical) == "" && r.String(legacy) != "" {
			r[canonical] = r[legacy]
		}
	}

	if r.ID() != "" {
		return r
	}
	for _, key := range legacyIDFields {
		if v := r.String(key); v != "" {
			r[FieldVoterID] = v
			return r
		}
	}
	if epic := r.EPIC(); epic != "" {
		r[FieldVoterID] = uuid.NewSHA1(idNamespace, []byte(epic)).String()
		return r
	}
	r[FieldVoterID] = uuid.NewString()
	r[FieldSyntheticID] = true
	return r
}

// NormalizeAll normalizes every record of a batch in place.
func NormalizeAll(batch []Record) []Record {
	for _, r := range batch {
		Normalize(r)
	}
	return batch
}
