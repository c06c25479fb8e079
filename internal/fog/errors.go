package fog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by a MasteryRepo when no record exists for a
// (learner, tile) pair.
var ErrNotFound = errors.New("tile record not found")

// ErrConflict is returned by a MasteryRepo when a conditional write
// lost a race with a concurrent update. The scheduler retries a bounded
// number of times before surfacing it.
var ErrConflict = errors.New("concurrent update conflict")

// InvalidOutcomeError rejects a malformed review outcome. The caller
// must not retry without correcting the input.
type InvalidOutcomeError struct {
	TileID string
	Reason string
}

func (e *InvalidOutcomeError) Error() string {
	if e.TileID == "" {
		return fmt.Sprintf("invalid outcome: %s", e.Reason)
	}
	return fmt.Sprintf("invalid outcome for tile %s: %s", e.TileID, e.Reason)
}
