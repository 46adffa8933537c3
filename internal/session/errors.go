// ABOUTME: IllegalTransitionError reports an event the current state cannot accept
// ABOUTME: Matches ErrIllegalTransition with errors.Is

package session

import (
	"errors"
	"fmt"
)

// ErrIllegalTransition is the sentinel matched by every IllegalTransitionError.
var ErrIllegalTransition = errors.New("illegal transition")

// IllegalTransitionError names the rejected event and the state it was sent to.
type IllegalTransitionError struct {
	Event string
	State Status
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("unexpected event %s sent to the '%s' state", e.Event, e.State)
}

func (e *IllegalTransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}
