package babybuddy

import (
	"errors"
	"fmt"
)

// ErrUnsupportedMethod is returned for HTTP methods other than GET, POST,
// PATCH and DELETE.
var ErrUnsupportedMethod = errors.New("unsupported http method")

// TransportError reports a failure to reach the server or read its reply.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports a response outside the 2xx range. Message carries the
// reason phrase, e.g. "Not Found".
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.Code, e.Message)
}

// DecodeError reports a response body that could not be turned into the
// expected record.
type DecodeError struct {
	What string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.What, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DateFormatError reports a wire date that matches none of the accepted
// layouts.
type DateFormatError struct {
	Value string
	Err   error
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("invalid date %q: %v", e.Value, e.Err)
}

func (e *DateFormatError) Unwrap() error { return e.Err }

// EncodingError reports a request payload that could not be serialized.
type EncodingError struct {
	Err error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encode request: %v", e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

func decodeErr(what string, err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		return err
	}
	return &DecodeError{What: what, Err: err}
}
