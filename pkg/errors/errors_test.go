package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	plain := NewNotFoundError("specialist sp-1 not found")
	assert.Equal(t, "NOT_FOUND: specialist sp-1 not found", plain.Error())

	wrapped := NewExternalError("store write failed", stderrors.New("disk full"))
	assert.Equal(t, "EXTERNAL: store write failed: disk full", wrapped.Error())
	assert.Equal(t, "disk full", wrapped.Unwrap().Error())
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFoundError("gone")))
	assert.True(t, IsNotFound(fmt.Errorf("lookup: %w", NewNotFoundError("gone"))))
	assert.False(t, IsNotFound(NewValidationError("bad input")))
	assert.False(t, IsNotFound(stderrors.New("gone")))
	assert.False(t, IsNotFound(nil))
}
