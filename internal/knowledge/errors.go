package knowledge

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is returned when a caller feeds in a cell outside the
// board this knowledge base was constructed for.
var ErrOutOfBounds = errors.New("cell out of board bounds")

// InconsistencyError signals that an observation or a derived deduction
// contradicts knowledge already held. There is no sound way to repair a
// contradictory knowledge base, so callers should treat this as fatal for
// the session.
type InconsistencyError struct {
	message string
}

// [InconsistencyError] implements [error]
func (e InconsistencyError) Error() string {
	return e.message
}

func inconsistencyf(format string, args ...any) InconsistencyError {
	return InconsistencyError{fmt.Sprintf(format, args...)}
}
