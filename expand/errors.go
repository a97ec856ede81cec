package expand

import (
	"errors"
	"fmt"
)

var ErrSplitPoint = errors.New("unable to resolve split point")

// ExpansionError is returned when engine cannot split a window while applying
// a rule. It is never recovered from, whole expansion fails.
type ExpansionError struct {
	Trigger string
	Depth   int
	Offset  int
	Window  int
}

func (e *ExpansionError) Error() string {
	return fmt.Sprintf("expanding %q at depth %d: %s at offset %d of %d",
		e.Trigger, e.Depth, ErrSplitPoint, e.Offset, e.Window)
}

func (e *ExpansionError) Unwrap() error {
	return ErrSplitPoint
}
