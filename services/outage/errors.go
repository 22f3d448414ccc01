package outage

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField    = errors.New("missing field")
	ErrMalformedNumber = errors.New("malformed number")
	ErrNoRecords       = errors.New("no region records")
	ErrNumberTooLarge  = errors.New("number too large")
)

// ValidationError describes the first record field that failed
// validation. Index is -1 when the error is about the record list itself.
type ValidationError struct {
	Index  int
	Region string
	Field  string
	Value  string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("validate: %s", e.Err)
	}
	return fmt.Sprintf(
		"validate: record %d (%q) field %s = %q: %s",
		e.Index, e.Region, e.Field, e.Value, e.Err,
	)
}

func (e *ValidationError) Unwrap() error { return e.Err }

type StoreReadError struct {
	Err error
}

func (e *StoreReadError) Error() string {
	return fmt.Sprintf("store read: %s", e.Err)
}

func (e *StoreReadError) Unwrap() error { return e.Err }

type StoreWriteError struct {
	Err error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("store write: %s", e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }
