package s3_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scan1c/internal/config"
	"scan1c/internal/storage/s3"
)

func TestNewArchive_RequiresBucket(t *testing.T) {
	_, err := s3.NewArchive(context.Background(), &config.S3Config{Region: "us-east-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket")
}

func TestPresignGet_UsesCustomEndpointPathStyle(t *testing.T) {
	archive, err := s3.NewArchive(context.Background(), &config.S3Config{
		Region:    "us-east-1",
		Bucket:    "scans",
		Endpoint:  "http://localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
	})
	require.NoError(t, err)

	url, err := archive.PresignGet(context.Background(), "scans/2026/10/abc.jpg", 15*time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/scans/scans/2026/10/abc.jpg?"), url)
	assert.Contains(t, url, "X-Amz-Expires=900")
}
