// Package chunker converts a large in-memory record array into an ordered,
// lazy stream of fixed-size batches.
//
// The producer runs on its own goroutine and hands batches over a channel,
// so the consumer can persist each batch while the producer waits — the
// channel handoff is the scheduling point that keeps the host responsive.
// A stream is one-shot: it is created per ingestion, emits its batches in
// array order, terminates with either exhaustion or a single error, and
// releases its goroutine unconditionally.
package chunker

import (
	"context"
	"errors"
	"iter"

	"github.com/boothline/rostercache/model"
)

// DefaultBatchSize is the batch size used when none is configured.
const DefaultBatchSize = 1000

// ErrInvalidBatchSize is returned by New for non-positive batch sizes.
var ErrInvalidBatchSize = errors.New("batch size must be positive")

// Chunker splits record arrays into batch streams of a fixed size.
type Chunker struct {
	batchSize int
}

// New creates a Chunker with the given batch size.
func New(batchSize int) (*Chunker, error) {
	if batchSize < 1 {
		return nil, ErrInvalidBatchSize
	}
	return &Chunker{batchSize: batchSize}, nil
}

// BatchSize returns the configured batch size.
func (c *Chunker) BatchSize() int { return c.batchSize }

// NumBatches returns the number of batches a stream over n records emits.
func (c *Chunker) NumBatches(n int) int {
	return (n + c.batchSize - 1) / c.batchSize
}

// Stream starts a one-shot batch stream over records. The producer stops
// as soon as ctx is cancelled; the stream then reports the cancellation
// error and nothing further. Consumers that stop before exhausting the
// stream must call Close, or the producer stays parked on its channel
// until ctx is cancelled.
func (c *Chunker) Stream(ctx context.Context, records []model.Record) *Stream {
	ctx, cancel := context.WithCancel(ctx)
	s := &Stream{ch: make(chan emission), cancel: cancel}

	go func() {
		defer close(s.ch)
		for start := 0; start < len(records); start += c.batchSize {
			end := start + c.batchSize
			if end > len(records) {
				end = len(records)
			}
			select {
			case s.ch <- emission{batch: records[start:end]}:
			case <-ctx.Done():
				s.send(ctx, emission{err: ctx.Err()})
				return
			}
		}
		s.send(ctx, emission{done: true, total: len(records)})
	}()

	return s
}

type emission struct {
	batch []model.Record
	total int
	done  bool
	err   error
}

// Stream is a lazy, finite, non-restartable sequence of batches.
// It is not safe for concurrent consumers.
type Stream struct {
	ch       chan emission
	cancel   context.CancelFunc
	total    int
	finished bool
	err      error
}

// Close releases the producer goroutine. Closing a finished stream is a
// no-op; closing mid-stream terminates it with context.Canceled.
func (s *Stream) Close() {
	s.cancel()
	if !s.finished {
		s.finished = true
		s.err = context.Canceled
	}
}

func (s *Stream) send(ctx context.Context, e emission) {
	select {
	case s.ch <- e:
	case <-ctx.Done():
	}
}

// Next returns the next batch in order. After the final batch it returns
// (nil, nil) exactly once with Done() flipped to true; after a failure it
// returns the terminal error on every call.
func (s *Stream) Next(ctx context.Context) ([]model.Record, error) {
	if s.finished {
		return nil, s.err
	}
	if err := ctx.Err(); err != nil {
		s.finished = true
		s.err = err
		return nil, s.err
	}
	select {
	case e, ok := <-s.ch:
		if !ok {
			// Producer exited without a terminal emission; only possible
			// when cancellation raced the final send.
			s.finished = true
			s.err = ctx.Err()
			return nil, s.err
		}
		if e.err != nil {
			s.finished = true
			s.err = e.err
			return nil, s.err
		}
		if e.done {
			s.finished = true
			s.total = e.total
			return nil, nil
		}
		return e.batch, nil
	case <-ctx.Done():
		s.finished = true
		s.err = ctx.Err()
		return nil, s.err
	}
}

// Done reports whether the stream has terminated, successfully or not.
func (s *Stream) Done() bool { return s.finished }

// Err returns the terminal error, if any.
func (s *Stream) Err() error { return s.err }

// Total returns the total record count announced by the terminal emission.
// It is zero until the stream completes successfully.
func (s *Stream) Total() int { return s.total }

// All iterates the stream's batches. The second value carries the terminal
// error; a clean end simply stops the iteration.
func (s *Stream) All(ctx context.Context) iter.Seq2[[]model.Record, error] {
	return func(yield func([]model.Record, error) bool) {
		for {
			batch, err := s.Next(ctx)
			if err != nil {
				yield(nil, err)
				return
			}
			if batch == nil {
				return
			}
			if !yield(batch, nil) {
				return
			}
		}
	}
}
