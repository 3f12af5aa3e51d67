package catalog

import (
	"github.com/cockroachdb/errors"
)

// Sentinel errors classifying catalog failures. Adapters attach them with
// Mark so that callers can test with errors.Is.
var (
	ErrInvalidInput      = errors.New("invalid playlist URL")
	ErrNotFound          = errors.New("playlist not found")
	ErrForbidden         = errors.New("playlist access forbidden")
	ErrInvalidCredential = errors.New("catalog credential rejected")
	ErrRateLimited       = errors.New("catalog rate limit exceeded")
)

// Kind classifies an error for clients.
type Kind string

const (
	KindInvalidInput      Kind = "invalid_input"
	KindNotFound          Kind = "not_found"
	KindForbidden         Kind = "forbidden"
	KindInvalidCredential Kind = "invalid_credential"
	KindRateLimited       Kind = "rate_limited"
	KindInternal          Kind = "internal"
)

var kindSentinels = []struct {
	kind     Kind
	sentinel error
}{
	{KindInvalidInput, ErrInvalidInput},
	{KindNotFound, ErrNotFound},
	{KindForbidden, ErrForbidden},
	{KindInvalidCredential, ErrInvalidCredential},
	{KindRateLimited, ErrRateLimited},
}

// KindOf returns the classification of err. Unmarked errors are internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, ks := range kindSentinels {
		if errors.Is(err, ks.sentinel) {
			return ks.kind
		}
	}
	return KindInternal
}

// Mark attaches the sentinel for kind to err.
// KindInternal and unknown kinds leave err unchanged.
func Mark(err error, kind Kind) error {
	if err == nil {
		return nil
	}
	for _, ks := range kindSentinels {
		if ks.kind == kind {
			return errors.Mark(err, ks.sentinel)
		}
	}
	return err
}
