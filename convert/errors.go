package convert

import (
	"fmt"
)

// ConfigError reports problem with what user asked for: wrong file
// extensions, unusable input or template. Nothing has been written when it is
// returned.
type ConfigError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := e.Reason
	if len(e.Path) > 0 {
		msg = fmt.Sprintf("%s (%s)", e.Reason, e.Path)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IoError reports failure to read or write a file.
type IoError struct {
	Op   string
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("unable to %s '%s': %v", e.Op, e.Path, e.Err)
}

func (e *IoError) Unwrap() error {
	return e.Err
}
