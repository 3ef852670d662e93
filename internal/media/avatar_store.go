// Package media stores user avatars in a MinIO bucket and hands out the
// public URLs persisted on the user row.
package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/iliyamo/rental-marketplace/internal/config"
)

// AvatarStore uploads and removes avatar objects. Object names embed the
// owning user's id plus a random suffix so a re-upload never races a stale
// CDN copy of the previous object.
type AvatarStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewAvatarStore constructs an AvatarStore on an existing MinIO client.
// publicURL is the externally reachable base (e.g. https://cdn.example.com);
// when empty, URLs are built from the client's endpoint.
func NewAvatarStore(client *minio.Client, cfg config.MinIOConfig) *AvatarStore {
	base := strings.TrimSuffix(cfg.PublicURL, "/")
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)
	}
	return &AvatarStore{client: client, bucket: cfg.Bucket, publicURL: base}
}

// Upload stores an avatar for the user and returns its public URL.
func (s *AvatarStore) Upload(ctx context.Context, userID, filename string, r io.Reader, size int64, contentType string) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	object := fmt.Sprintf("avatars/%s-%s%s", userID, uuid.NewString()[:8], ext)

	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := s.client.PutObject(ctx, s.bucket, object, r, size, opts); err != nil {
		return "", fmt.Errorf("put avatar object: %w", err)
	}
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, object), nil
}

// Remove deletes the object behind a previously issued avatar URL. URLs not
// minted by this store are ignored.
func (s *AvatarStore) Remove(ctx context.Context, url string) error {
	prefix := fmt.Sprintf("%s/%s/", s.publicURL, s.bucket)
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	object := strings.TrimPrefix(url, prefix)
	if err := s.client.RemoveObject(ctx, s.bucket, object, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove avatar object: %w", err)
	}
	return nil
}
