package fetch

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/boothline/rostercache/codec"
	"github.com/boothline/rostercache/model"
	"github.com/boothline/rostercache/session"
)

// Endpoint paths on the backend base URL.
const (
	rosterURLPath    = "/iConnect_get_all_voter_detailsV2_web"
	supplementalPath = "/iConnect_get_other_voter_details_web"
)

// Adapter resolves an identity to a roster blob and fetches supplementary
// records from the backend.
type Adapter struct {
	baseURL string
	client  *http.Client
	source  BlobSource
	codec   codec.Codec
	limiter *rate.Limiter
}

// Option configures the Adapter.
type Option func(*Adapter)

// WithHTTPClient sets the client used for backend endpoint calls.
func WithHTTPClient(client *http.Client) Option {
	return func(a *Adapter) {
		if client != nil {
			a.client = client
		}
	}
}

// WithBlobSource sets the source used to fetch the roster blob.
func WithBlobSource(source BlobSource) Option {
	return func(a *Adapter) {
		if source != nil {
			a.source = source
		}
	}
}

// WithCodec sets the codec used to decode responses.
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(a *Adapter) {
		if c == nil {
			c = codec.Default
		}
		a.codec = c
	}
}

// WithRateLimit caps backend endpoint calls at r requests per second with
// the given burst. Blob fetches are not limited; the retrieval URL is
// single-use anyway.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(a *Adapter) {
		a.limiter = rate.NewLimiter(r, burst)
	}
}

// New creates an Adapter against the backend base URL.
func New(baseURL string, optFns ...Option) *Adapter {
	a := &Adapter{
		baseURL: baseURL,
		client:  http.DefaultClient,
		codec:   codec.Default,
		limiter: rate.NewLimiter(rate.Inf, 0),
	}
	a.source = NewHTTPSource(a.client)
	for _, fn := range optFns {
		if fn != nil {
			fn(a)
		}
	}
	return a
}

// FetchRoster resolves the session identity to a retrieval URL, fetches
// the blob behind it and returns the decoded record array, which may be
// empty. Records are returned as received; the caller normalizes them.
func (a *Adapter) FetchRoster(ctx context.Context, sess *session.Session) ([]model.Record, error) {
	if !sess.Valid() {
		return nil, session.ErrIdentityMissing
	}

	url, err := a.resolveRosterURL(ctx, sess)
	if err != nil {
		return nil, err
	}

	blob, err := a.source.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return decodeRoster(a.codec, blob)
}

// FetchSupplemental fetches one supplementary record by voter identifier.
func (a *Adapter) FetchSupplemental(ctx context.Context, sess *session.Session, voterID string) (model.Record, error) {
	if !sess.Valid() {
		return nil, session.ErrIdentityMissing
	}

	body, err := a.post(ctx, "supplemental", supplementalPath, map[string]string{
		"stage":    sess.Stage,
		"voter_id": voterID,
	})
	if err != nil {
		return nil, err
	}

	var resp supplementalResponse
	if err := a.codec.Unmarshal(body, &resp); err != nil {
		return nil, &ErrMalformedResponse{Field: "RESULT", cause: err}
	}
	if resp.Error != "" {
		return nil, &ErrUpstreamFailure{Message: resp.Error}
	}
	if len(resp.Result) == 0 {
		return nil, ErrNoSupplementalResult
	}
	return resp.Result[0], nil
}

// resolveRosterURL asks the backend for the short-lived retrieval URL.
func (a *Adapter) resolveRosterURL(ctx context.Context, sess *session.Session) (string, error) {
	body, err := a.post(ctx, "resolve", rosterURLPath, map[string]string{
		"stage":   sess.Stage,
		"user_id": sess.UserID,
	})
	if err != nil {
		return "", err
	}

	var resp resolveResponse
	if err := a.codec.Unmarshal(body, &resp); err != nil {
		return "", &ErrMalformedResponse{Field: "s3_url", cause: err}
	}
	if resp.Error != "" {
		return "", &ErrUpstreamFailure{Message: resp.Error}
	}
	if resp.S3URL == "" {
		return "", &ErrMalformedResponse{Field: "s3_url"}
	}
	return resp.S3URL, nil
}

func (a *Adapter) post(ctx context.Context, stage, path string, payload map[string]string) ([]byte, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, &ErrTransport{Stage: stage, cause: err}
	}

	encoded, err := a.codec.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, &ErrTransport{Stage: stage, cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &ErrTransport{Stage: stage, cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ErrTransport{Stage: stage, Status: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ErrTransport{Stage: stage, cause: err}
	}
	return body, nil
}
