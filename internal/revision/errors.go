package revision

import "fmt"

// MissingFieldError indicates a required element is absent from a revision
// fragment. Fatal on the archival write path, file-scoped on dataset builds.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("could not find field %q in revision fragment", e.Field)
}

// TimestampFormatError indicates a timestamp element whose text does not
// match the export timestamp layout.
type TimestampFormatError struct {
	Value string
	Err   error
}

func (e *TimestampFormatError) Error() string {
	return fmt.Sprintf("malformed revision timestamp %q: %v", e.Value, e.Err)
}

func (e *TimestampFormatError) Unwrap() error {
	return e.Err
}
