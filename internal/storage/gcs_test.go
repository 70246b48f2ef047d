package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBucket(t *testing.T) {
	tests := []struct {
		name   string
		bucket string
		want   string
	}{
		{"bare_bucket_gets_scheme", "my-bucket/path", "gs://my-bucket/path"},
		{"prefixed_is_noop", "gs://my-bucket/path", "gs://my-bucket/path"},
		{"empty_stays_empty", "", ""},
		{"glob_pattern", "bucket/**/*.parquet", "gs://bucket/**/*.parquet"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeBucket(tt.bucket))
		})
	}
}

func TestParsePath(t *testing.T) {
	t.Run("bucket_and_key", func(t *testing.T) {
		bucket, key, err := ParsePath("gs://my-bucket/path/to/file.parquet")
		require.NoError(t, err)
		assert.Equal(t, "my-bucket", bucket)
		assert.Equal(t, "path/to/file.parquet", key)
	})

	t.Run("bucket_only", func(t *testing.T) {
		bucket, key, err := ParsePath("gs://my-bucket")
		require.NoError(t, err)
		assert.Equal(t, "my-bucket", bucket)
		assert.Empty(t, key)
	})

	t.Run("missing_scheme", func(t *testing.T) {
		_, _, err := ParsePath("my-bucket/path")
		require.Error(t, err)
	})

	t.Run("empty_bucket", func(t *testing.T) {
		_, _, err := ParsePath("gs:///path")
		require.Error(t, err)
	})
}

func TestHMACCredentials(t *testing.T) {
	t.Run("zero", func(t *testing.T) {
		assert.True(t, HMACCredentials{}.IsZero())
		assert.False(t, HMACCredentials{KeyID: "k"}.IsZero())
	})

	t.Run("secret_sql", func(t *testing.T) {
		sql := HMACCredentials{KeyID: "key123", Secret: "sec456"}.SecretSQL()
		assert.Contains(t, sql, "CREATE OR REPLACE SECRET")
		assert.Contains(t, sql, "TYPE GCS")
		assert.Contains(t, sql, "key123")
		assert.Contains(t, sql, "sec456")
	})
}
