package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/erp/accounting/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *config.StorageConfig {
	return &config.StorageConfig{
		Enabled:         true,
		Endpoint:        "http://localhost:9000",
		Region:          "us-east-1",
		Bucket:          "receipts",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio-secret",
		UsePathStyle:    true,
	}
}

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.StorageConfig)
		want   string
	}{
		{"missing bucket", func(c *config.StorageConfig) { c.Bucket = "" }, "bucket is required"},
		{"missing access key", func(c *config.StorageConfig) { c.AccessKeyID = "" }, "credentials are required"},
		{"missing secret", func(c *config.StorageConfig) { c.SecretAccessKey = "" }, "credentials are required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			_, err := NewS3ObjectStorage(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := NewS3ObjectStorage(nil)
	assert.Error(t, err)
}

func TestNewS3ObjectStorage_DefaultExpiration(t *testing.T) {
	s, err := NewS3ObjectStorage(validConfig())
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, s.presignExpiration)
	assert.True(t, s.Enabled())
}

func TestS3ObjectStorage_PresignedURLs(t *testing.T) {
	s, err := NewS3ObjectStorage(validConfig())
	require.NoError(t, err)
	ctx := context.Background()

	url, expiresAt, err := s.GenerateUploadURL(ctx, "transactions/a/b/c.pdf", "application/pdf", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/receipts/transactions/a/b/c.pdf"))
	assert.Contains(t, url, "X-Amz-Signature=")
	assert.WithinDuration(t, time.Now().Add(time.Minute), expiresAt, 5*time.Second)

	url, _, err = s.GenerateDownloadURL(ctx, "transactions/a/b/c.pdf", 0)
	require.NoError(t, err)
	assert.Contains(t, url, "X-Amz-Expires=900")

	_, _, err = s.GenerateUploadURL(ctx, "", "application/pdf", 0)
	assert.Error(t, err)
}

func TestAttachmentKey(t *testing.T) {
	branchID, txID := uuid.New(), uuid.New()

	key, err := AttachmentKey(branchID, txID, "Image/PNG")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "transactions/"+branchID.String()+"/"+txID.String()+"/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	_, err = AttachmentKey(branchID, txID, "application/x-msdownload")
	assert.Error(t, err)
}
