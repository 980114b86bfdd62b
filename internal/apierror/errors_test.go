package apierror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindUnauthorized, "unauthorized"},
		{KindForbidden, "forbidden"},
		{KindNotFound, "not_found"},
		{KindNetwork, "network"},
		{KindProtocol, "protocol"},
		{KindTokenInvalid, "token_invalid"},
		{KindUnknown, "unknown"},
		{Kind(99), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.kind.String())
	}
}

func TestError_Message(t *testing.T) {
	t.Run("kind only", func(t *testing.T) {
		assert.Equal(t, "not_found", (&Error{Kind: KindNotFound}).Error())
	})

	t.Run("with op and cause", func(t *testing.T) {
		err := Network("token introspection", errors.New("connection refused"))
		assert.Equal(t, "token introspection: network: connection refused", err.Error())
	})
}

func TestError_IsMatchesKind(t *testing.T) {
	cause := errors.New("bad json")
	err := fmt.Errorf("call failed: %w", Protocol("decode", cause))

	assert.True(t, errors.Is(err, ErrProtocol))
	assert.False(t, errors.Is(err, ErrNetwork))
	assert.True(t, errors.Is(err, cause), "cause must stay reachable")
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindForbidden, KindOf(fmt.Errorf("wrapped: %w", ErrForbidden)))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestFromStatus(t *testing.T) {
	tests := []struct {
		status   int
		expected Kind
	}{
		{200, KindUnknown},
		{201, KindProtocol},
		{202, KindProtocol},
		{204, KindProtocol},
		{206, KindProtocol},
		{401, KindUnauthorized},
		{403, KindForbidden},
		{404, KindNotFound},
		{302, KindProtocol},
		{418, KindProtocol},
		{429, KindProtocol},
		{500, KindProtocol},
		{503, KindProtocol},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expected, FromStatus(tt.status))
		})
	}
}
