package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMissingParameter(t *testing.T) {
	err := MissingParameter("lock")
	assert.Equal(t, `Missing required query parameter: "lock"`, err.Error())
	assert.True(t, errors.Is(err, ErrBadRequest))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(storageErr("op", gorm.ErrRecordNotFound)))
	assert.Equal(t, KindDuplicateIdentifier, KindOf(storageErr("op", gorm.ErrDuplicatedKey)))
	assert.Equal(t, KindStorage, KindOf(storageErr("op", errors.New("disk full"))))
	assert.Equal(t, KindStorage, KindOf(errors.New("plain")))

	wrapped := fmt.Errorf("outer: %w", badRequest("op", "bad"))
	assert.Equal(t, KindBadRequest, KindOf(wrapped))
	assert.ErrorIs(t, wrapped, ErrBadRequest)
}

func TestStorageErrNil(t *testing.T) {
	assert.NoError(t, storageErr("op", nil))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := storageErr("record access", cause)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrStorage)
	assert.Equal(t, "record access: disk full", err.Error())
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "bad_request", KindBadRequest.String())
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "duplicate_identifier", KindDuplicateIdentifier.String())
	assert.Equal(t, "storage_error", KindStorage.String())
}
