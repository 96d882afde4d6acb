package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCodeAndChain(t *testing.T) {
	base := InputInvalid("bad channel file", stderrors.New("parse failed"))
	wrapped := Wrap(base, "loading inputs")

	assert.Equal(t, CodeInputInvalid, GetCode(wrapped))
	assert.Contains(t, wrapped.Error(), "loading inputs")
	assert.True(t, stderrors.Is(wrapped, base))
}

func TestWrapForeignErrorBecomesInternal(t *testing.T) {
	cause := stderrors.New("disk full")
	wrapped := Wrap(cause, "writing table")

	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.True(t, stderrors.Is(wrapped, cause))
}

func TestWrapNil(t *testing.T) {
	require.NoError(t, Wrap(nil, "anything"))
}

func TestGetCodeUnknownForPlainErrors(t *testing.T) {
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, CodeConfigInvalid, GetCode(ConfigInvalid("missing target")))
	assert.Equal(t, CodeIOFailure, GetCode(IOFailure("write failed", stderrors.New("eperm"))))
	assert.Equal(t, "custom", New("custom", "message").Code)
}
