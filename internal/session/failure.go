package session

import (
	"context"
	"errors"
	"fmt"

	"codeberg.org/snonux/polyglot/internal/chat"
)

// Kind identifies a request kind
type Kind int

const (
	KindVocabulary Kind = iota
	KindTranslation
	KindPhoto

	numKinds = 3
)

// String returns the string representation of the request kind
func (k Kind) String() string {
	switch k {
	case KindVocabulary:
		return "vocabulary"
	case KindTranslation:
		return "translation"
	case KindPhoto:
		return "photo"
	default:
		return "unknown"
	}
}

// Marker returns the text shown in place of the result when a request of
// this kind fails
func (k Kind) Marker() string {
	switch k {
	case KindVocabulary:
		return "Error fetching words."
	case KindTranslation:
		return "Error translating word."
	default:
		return "Error fetching response."
	}
}

// Reason classifies why a request failed
type Reason int

const (
	ReasonTransport   Reason = iota // Network error or timeout
	ReasonStatus                    // Backend answered with a non-2xx status
	ReasonDecode                    // Backend answered with an unusable body
	ReasonEmpty                     // Photo text extraction found nothing
	ReasonExtraction                // Photo text extraction failed
	ReasonCanceled                  // Canceled by the caller or superseded
	ReasonUnavailable               // Circuit breaker is open
)

// String returns the string representation of the failure reason
func (r Reason) String() string {
	switch r {
	case ReasonTransport:
		return "transport"
	case ReasonStatus:
		return "status"
	case ReasonDecode:
		return "decode"
	case ReasonEmpty:
		return "empty"
	case ReasonExtraction:
		return "extraction"
	case ReasonCanceled:
		return "canceled"
	case ReasonUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// ErrSuperseded is the cause of a failure whose request was replaced by a
// newer one of the same kind
var ErrSuperseded = errors.New("request superseded by a newer one")

// RequestFailure describes a failed vocabulary, translation or photo request
type RequestFailure struct {
	Kind   Kind
	Reason Reason
	Err    error
}

func (f *RequestFailure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("%s request failed (%s)", f.Kind, f.Reason)
	}
	return fmt.Sprintf("%s request failed (%s): %v", f.Kind, f.Reason, f.Err)
}

func (f *RequestFailure) Unwrap() error {
	return f.Err
}

// Marker returns the text shown to the user for this failure
func (f *RequestFailure) Marker() string {
	return f.Kind.Marker()
}

// classify turns a backend error into a RequestFailure
func classify(kind Kind, err error) *RequestFailure {
	reason := ReasonTransport

	var statusErr *chat.StatusError
	switch {
	case errors.Is(err, ErrSuperseded), errors.Is(err, context.Canceled):
		reason = ReasonCanceled
	case errors.Is(err, chat.ErrUnavailable):
		reason = ReasonUnavailable
	case errors.As(err, &statusErr):
		reason = ReasonStatus
	case errors.Is(err, chat.ErrMalformedResponse):
		reason = ReasonDecode
	}

	return &RequestFailure{Kind: kind, Reason: reason, Err: err}
}

// Result is the outcome of one request: either Value or Failure is set.
// Stale results were superseded and never reached the session state.
type Result[T any] struct {
	Value   T
	Failure *RequestFailure
	Stale   bool
}

// OK reports whether the request succeeded
func (r Result[T]) OK() bool {
	return r.Failure == nil
}

// Err returns the failure as an error, or nil on success
func (r Result[T]) Err() error {
	if r.Failure == nil {
		return nil
	}
	return r.Failure
}
