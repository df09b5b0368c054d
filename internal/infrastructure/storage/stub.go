package storage

import (
	"context"
	"time"
)

// StubObjectStorage stands in when attachment storage is disabled. Every call fails with ErrStorageDisabled.
type StubObjectStorage struct{}

// NewStubObjectStorage creates a new StubObjectStorage
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{}
}

// GenerateUploadURL always fails
func (StubObjectStorage) GenerateUploadURL(context.Context, string, string, time.Duration) (string, time.Time, error) {
	return "", time.Time{}, ErrStorageDisabled
}

// GenerateDownloadURL always fails
func (StubObjectStorage) GenerateDownloadURL(context.Context, string, time.Duration) (string, time.Time, error) {
	return "", time.Time{}, ErrStorageDisabled
}

// DeleteObject always fails
func (StubObjectStorage) DeleteObject(context.Context, string) error {
	return ErrStorageDisabled
}

// ObjectExists always fails
func (StubObjectStorage) ObjectExists(context.Context, string) (bool, error) {
	return false, ErrStorageDisabled
}

// Enabled reports that attachments are off
func (StubObjectStorage) Enabled() bool {
	return false
}
