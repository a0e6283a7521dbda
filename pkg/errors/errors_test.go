package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapAndIsCode(t *testing.T) {
	base := errors.New("boom")
	err := Wrap(CodeFarm, "failed to load farm", base)
	require.EqualError(t, err, "failed to load farm: boom")
	require.True(t, IsCode(err, CodeFarm))
	require.False(t, IsCode(err, CodeNotFound))
	require.ErrorIs(t, err, base)

	wrapped := fmt.Errorf("handler: %w", err)
	require.Equal(t, CodeFarm, CodeOf(wrapped))
}

func TestWrapWithoutCause(t *testing.T) {
	err := Wrap(CodeInvalidInput, "name required", nil)
	require.EqualError(t, err, "name required")
	require.Equal(t, "", CodeOf(errors.New("plain")))
}
