package fetch

import (
	"github.com/boothline/rostercache/codec"
	"github.com/boothline/rostercache/model"
)

// rosterPayload is the canonical shape of a roster blob.
type rosterPayload struct {
	VoterDetails  []model.Record       `json:"voter_details"`
	StatusMessage *model.StatusMessage `json:"status_message"`
}

// legacyRosterFields are field names older backend revisions used for the
// records array. They are probed in order, only when the canonical field is
// absent. Versioned here, at the boundary, so shape drift stays out of the
// call sites.
var legacyRosterFields = []string{"voters", "records", "RESULT", "data"}

// decodeRoster decodes a roster blob into its record array, honoring the
// embedded status block.
func decodeRoster(c codec.Codec, data []byte) ([]model.Record, error) {
	var payload rosterPayload
	if err := c.Unmarshal(data, &payload); err != nil {
		return nil, &ErrMalformedResponse{Field: "voter_details", cause: err}
	}

	if sm := payload.StatusMessage; sm != nil && sm.Flag == model.FailureFlag {
		return nil, &ErrUpstreamFailure{Message: sm.Message}
	}

	if payload.VoterDetails != nil {
		return payload.VoterDetails, nil
	}

	// Legacy shapes: same array under a historical name.
	var raw map[string]any
	if err := c.Unmarshal(data, &raw); err != nil {
		return nil, &ErrMalformedResponse{Field: "voter_details", cause: err}
	}
	for _, field := range legacyRosterFields {
		list, ok := raw[field].([]any)
		if !ok {
			continue
		}
		records := make([]model.Record, 0, len(list))
		for _, item := range list {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, &ErrMalformedResponse{Field: field}
			}
			records = append(records, model.Record(m))
		}
		return records, nil
	}

	return nil, &ErrMalformedResponse{Field: "voter_details"}
}

// resolveResponse is the body of the roster-URL endpoint.
type resolveResponse struct {
	S3URL string `json:"s3_url"`
	Error string `json:"error"`
}

// supplementalResponse is the body of the supplemental-detail endpoint.
type supplementalResponse struct {
	Result []model.Record `json:"RESULT"`
	Error  string         `json:"error"`
}
