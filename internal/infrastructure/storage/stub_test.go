package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStubObjectStorage_AlwaysDisabled(t *testing.T) {
	s := NewStubObjectStorage()
	ctx := context.Background()

	assert.False(t, s.Enabled())

	_, _, err := s.GenerateUploadURL(ctx, "k", "application/pdf", 0)
	assert.ErrorIs(t, err, ErrStorageDisabled)

	_, _, err = s.GenerateDownloadURL(ctx, "k", 0)
	assert.ErrorIs(t, err, ErrStorageDisabled)

	assert.ErrorIs(t, s.DeleteObject(ctx, "k"), ErrStorageDisabled)

	_, err = s.ObjectExists(ctx, "k")
	assert.ErrorIs(t, err, ErrStorageDisabled)
}
