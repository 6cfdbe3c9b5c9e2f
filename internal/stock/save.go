package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mandaniarchi41/sarii-stock/internal/model"
)

// RecordStore is the slice of the record store the retry controller needs.
// Implementations must return ErrNotFound and ErrVersionConflict for those
// conditions; any other error is treated as terminal.
type RecordStore interface {
	Get(ctx context.Context, id string) (*model.Item, error)
	Replace(ctx context.Context, item *model.Item) (*model.Item, error)
}

// DefaultMaxAttempts bounds the retry loop. It is a liveness safeguard
// against retry storms under contention, not a correctness mechanism.
const DefaultMaxAttempts = 3

// DefaultRetryDelay is the pause before resubmitting after a conflict.
const DefaultRetryDelay = 500 * time.Millisecond

// SaveResult is a successful save: the authoritative record as stored, plus
// the stock changes between the record observed at the start of the attempt
// sequence and the final saved record, for history logging.
type SaveResult struct {
	Item    *model.Item
	Changes []model.ColorChange
}

// Saver submits edits to the record store with bounded retry on version
// conflicts. Retries are strictly sequential: each attempt completes before
// the next begins, and there are never parallel in-flight attempts for the
// same logical save.
type Saver struct {
	Store       RecordStore
	MaxAttempts int           // defaults to DefaultMaxAttempts when <= 0
	RetryDelay  time.Duration // pause between attempts, 0 for none
}

// Save validates the draft and writes it to the store, tagged with the
// version of prior (the record the caller observed before editing).
//
// On a version conflict it refetches the authoritative record, reapplies the
// draft on top of it (the draft wins on every editable field; the fresh
// record supplies the new version token), and resubmits, up to MaxAttempts
// total write attempts. Validation failures return FieldErrors without any
// store call. Exhausting the ceiling returns ErrConflictExhausted; every
// other store error is returned as-is, not retried.
func (s *Saver) Save(ctx context.Context, prior *model.Item, draft ItemDraft) (*SaveResult, error) {
	validated, ferrs := Validate(draft)
	if ferrs != nil {
		return nil, ferrs
	}

	maxAttempts := s.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	state := transition(stateIdle, eventSubmit)
	candidate := merge(validated, prior)

	for attempt := 1; ; attempt++ {
		saved, err := s.Store.Replace(ctx, candidate)
		switch {
		case err == nil:
			state = transition(state, eventWriteOK)
		case errors.Is(err, ErrVersionConflict):
			state = transition(state, eventConflict)
		default:
			state = transition(state, eventStoreError)
		}

		switch state {
		case stateSucceeded:
			return &SaveResult{
				Item:    saved,
				Changes: Diff(prior.ColorVariants, saved.ColorVariants),
			}, nil
		case stateFailed:
			return nil, err
		}

		// stateConflicted: another attempt if the ceiling allows, else give up.
		event := eventRetry
		if attempt >= maxAttempts {
			event = eventGiveUp
		}
		if state = transition(state, event); state == stateFailed {
			return nil, fmt.Errorf("saving item %s after %d attempts: %w", prior.ID, attempt, ErrConflictExhausted)
		}

		if s.RetryDelay > 0 {
			select {
			case <-time.After(s.RetryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		fresh, err := s.Store.Get(ctx, prior.ID)
		if err != nil {
			state = transition(state, eventStoreError)
			return nil, fmt.Errorf("refetching item %s for retry: %w", prior.ID, err)
		}

		candidate = merge(validated, fresh)
	}
}

// merge applies the validated draft onto the authoritative record: the draft
// wins on every editable field, the record supplies identity, version token,
// and store-managed timestamps.
func merge(validated, authoritative *model.Item) *model.Item {
	out := *validated
	out.ID = authoritative.ID
	out.Version = authoritative.Version
	out.CreatedAt = authoritative.CreatedAt
	out.UpdatedAt = authoritative.UpdatedAt
	return &out
}
