package style

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingBrace         = errors.New("no opening brace")
	ErrMissingTrigger       = errors.New("no trigger")
	ErrMissingPlaceholder   = errors.New("no " + Placeholder + " placeholder in wrapper")
	ErrExtraPlaceholder     = errors.New("more than one " + Placeholder + " placeholder in wrapper")
	ErrUnknownModifier      = errors.New("unknown modifier")
	ErrMissingArgument      = errors.New("missing argument")
	ErrConflictingModifiers = errors.New("conflicting modifiers")
)

// SyntaxError describes malformed style statement. Statement is 1-based
// ordinal of the statement in the source.
type SyntaxError struct {
	Statement int
	Trigger   string
	Detail    string
	Err       error
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "syntax error in statement %d", e.Statement)
	if len(e.Trigger) > 0 {
		fmt.Fprintf(&b, " (%q)", e.Trigger)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	if len(e.Detail) > 0 {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// excerpt shortens statement text for error messages.
func excerpt(s string) string {
	const limit = 40

	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > limit {
		return string(r[:limit]) + "..."
	}
	return s
}
