// Package storage handles Google Cloud Storage integration: bucket URI
// normalization, the DuckDB secret used by httpfs, and reachability checks.
package storage

import (
	"context"
	"fmt"
	"strings"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Scheme is the canonical remote-storage URI prefix.
const Scheme = "gs://"

// NormalizeBucket prefixes a bare bucket reference with the gs:// scheme.
// Already-prefixed references and empty input pass through unchanged.
func NormalizeBucket(bucket string) string {
	if bucket == "" {
		return ""
	}
	if strings.HasPrefix(bucket, Scheme) {
		return bucket
	}
	return Scheme + bucket
}

// ParsePath splits a gs:// URI into bucket and object key.
func ParsePath(path string) (bucket, key string, err error) {
	if !strings.HasPrefix(path, Scheme) {
		return "", "", fmt.Errorf("not a gs:// path: %q", path)
	}
	rest := strings.TrimPrefix(path, Scheme)
	parts := strings.SplitN(rest, "/", 2)
	if parts[0] == "" {
		return "", "", fmt.Errorf("missing bucket in path %q", path)
	}
	bucket = parts[0]
	if len(parts) == 2 {
		key = parts[1]
	}
	return bucket, key, nil
}

// HMACCredentials is the interoperability key pair DuckDB's httpfs extension
// uses to read GCS objects.
type HMACCredentials struct {
	KeyID  string
	Secret string
}

// IsZero reports whether no credentials were supplied.
func (c HMACCredentials) IsZero() bool {
	return c.KeyID == "" && c.Secret == ""
}

// SecretSQL renders the CREATE SECRET statement registering the credentials
// with DuckDB. Re-running it replaces the secret rather than erroring.
func (c HMACCredentials) SecretSQL() string {
	return fmt.Sprintf(
		"CREATE OR REPLACE SECRET duckgs_gcs (TYPE GCS, KEY_ID '%s', SECRET '%s')",
		c.KeyID, c.Secret,
	)
}

// CheckBucket verifies the bucket named by the gs:// URI is reachable with
// the ambient credentials. credentialsFile may be empty, in which case
// application default credentials are used.
func CheckBucket(ctx context.Context, path, credentialsFile string) error {
	bucket, _, err := ParsePath(path)
	if err != nil {
		return err
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return fmt.Errorf("create GCS client: %w", err)
	}
	defer client.Close() //nolint:errcheck

	if _, err := client.Bucket(bucket).Attrs(ctx); err != nil {
		return fmt.Errorf("bucket %q not reachable: %w", bucket, err)
	}
	return nil
}
