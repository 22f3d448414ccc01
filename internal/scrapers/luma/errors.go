package luma

import (
	"fmt"
)

// FetchError is returned when the page could not be retrieved, StatusCode
// is 0 when the request never got a response.
type FetchError struct {
	Url        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s", e.Url, e.Err)
	}
	return fmt.Sprintf("fetch %s: unexpected status %d", e.Url, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractionError is returned when an expected element is missing from the page.
type ExtractionError struct {
	Anchor string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract: could not find %q", e.Anchor)
}

type TimestampNotFoundError struct {
	Marker string
}

func (e *TimestampNotFoundError) Error() string {
	return fmt.Sprintf("extract: no element containing %q", e.Marker)
}

type TimestampParseError struct {
	Label string
	Err   error
}

func (e *TimestampParseError) Error() string {
	return fmt.Sprintf("parse timestamp %q: %s", e.Label, e.Err)
}

func (e *TimestampParseError) Unwrap() error { return e.Err }
