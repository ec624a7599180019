package rostercache

import (
	"context"
	"errors"
	"fmt"

	"github.com/boothline/rostercache/session"
)

var (
	// ErrIdentityMissing is returned when no authenticated user identity
	// is available. Fatal; the caller should redirect to authentication.
	ErrIdentityMissing = session.ErrIdentityMissing

	// ErrLoadInProgress is returned when Load is called while another
	// load is still running. The call is a no-op; nothing is queued.
	ErrLoadInProgress = errors.New("load already in progress")

	// ErrNoData is returned when a refresh yields zero records and the
	// local store holds nothing to fall back to.
	ErrNoData = errors.New("no roster data available")

	// ErrTimeout is returned when a network or ingestion stage exceeds
	// its deadline and no cached data exists to fall back to.
	ErrTimeout = errors.New("operation timed out")
)

// ErrStore indicates a persistent-store failure. Fatal for the current
// operation: there is no meaningful fallback when the store itself is
// broken.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrStore struct {
	Op    string
	cause error
}

func (e *ErrStore) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.cause)
}

func (e *ErrStore) Unwrap() error { return e.cause }

// ErrIngestion indicates the batch stream failed mid-ingestion.
// Recoverable via stale-cache fallback when cached data exists.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrIngestion struct {
	cause error
}

func (e *ErrIngestion) Error() string {
	return fmt.Sprintf("ingestion failed: %v", e.cause)
}

func (e *ErrIngestion) Unwrap() error { return e.cause }

// translateError normalizes errors crossing the orchestrator boundary.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}
