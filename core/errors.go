package core

import (
	"errors"
	"fmt"
)

// ContainerParseError reports that the input bytes could not be read as the
// container kind implied by the MIME type. No partial record accompanies it.
type ContainerParseError struct {
	Container string // "EXIF" or "PDF"
	Err       error
}

func (e *ContainerParseError) Error() string {
	return fmt.Sprintf("cannot parse %s container: %v", e.Container, e.Err)
}

func (e *ContainerParseError) Unwrap() error { return e.Err }

// IsContainerParseError reports whether err is, or wraps, a
// *ContainerParseError.
func IsContainerParseError(err error) bool {
	var cpe *ContainerParseError
	return errors.As(err, &cpe)
}
