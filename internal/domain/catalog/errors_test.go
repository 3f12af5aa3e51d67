package catalog

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Kind
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "plain error", err: errors.New("boom"), expected: KindInternal},
		{name: "sentinel", err: ErrNotFound, expected: KindNotFound},
		{name: "wrapped sentinel", err: errors.Wrap(ErrRateLimited, "list items"), expected: KindRateLimited},
		{name: "marked error", err: Mark(errors.New("403 forbidden"), KindForbidden), expected: KindForbidden},
		{
			name:     "marked then wrapped",
			err:      errors.Wrap(Mark(errors.New("bad key"), KindInvalidCredential), "get playlist"),
			expected: KindInvalidCredential,
		},
		{name: "invalid input", err: ErrInvalidInput, expected: KindInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, KindOf(tt.err))
		})
	}
}

func TestMark_PreservesMessage(t *testing.T) {
	err := Mark(errors.New("upstream said no"), KindNotFound)

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "upstream said no", err.Error())
}

func TestMark_InternalIsNoop(t *testing.T) {
	orig := errors.New("boom")

	assert.Equal(t, orig, Mark(orig, KindInternal))
	assert.Nil(t, Mark(nil, KindNotFound))
}
