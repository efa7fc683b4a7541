package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
)

// GetEnv is a helper to read an environment variable or return a default value.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// ErrObjectExists is returned when a staging object name is already taken.
var ErrObjectExists = errors.New("staging object already exists")

// GCSStager uploads scratch files to a staging bucket so Gemini can read them by gs:// URI.
type GCSStager struct {
	bucket     *storage.BucketHandle
	bucketName string
	prefix     string
}

// NewGCSStager returns a stager writing under prefix in bucketName.
func NewGCSStager(client *storage.Client, bucketName, prefix string) *GCSStager {
	return &GCSStager{
		bucket:     client.Bucket(bucketName),
		bucketName: bucketName,
		prefix:     strings.Trim(prefix, "/"),
	}
}

// Upload copies a local file to the staging bucket and returns its gs:// URI.
func (s *GCSStager) Upload(ctx context.Context, localPath, objectName, contentType string) (string, error) {
	name := path.Join(s.prefix, objectName)
	if err := UploadFileAtomically(ctx, s.bucket, name, localPath, contentType); err != nil {
		return "", err
	}
	return fmt.Sprintf("gs://%s/%s", s.bucketName, name), nil
}

// Delete removes a staged object by URI. A missing object is not an error.
func (s *GCSStager) Delete(ctx context.Context, uri string) error {
	name, ok := strings.CutPrefix(uri, fmt.Sprintf("gs://%s/", s.bucketName))
	if !ok {
		return fmt.Errorf("uri %q is not in staging bucket %s", uri, s.bucketName)
	}
	return DeleteObject(ctx, s.bucket, name)
}

// SweepStale deletes staged objects older than maxAge. It returns the number removed.
func (s *GCSStager) SweepStale(ctx context.Context, maxAge time.Duration) (int, error) {
	return SweepStaleObjects(ctx, s.bucket, s.prefix+"/", maxAge)
}

// UploadFileAtomically writes a local file to a GCS object only if it doesn't already exist.
func UploadFileAtomically(ctx context.Context, bucket *storage.BucketHandle, objectName, localPath, contentType string) error {
	localFile, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("could not open local file %s: %w", localPath, err)
	}
	defer localFile.Close()

	writer := bucket.Object(objectName).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := io.Copy(writer, localFile); err != nil {
		_ = writer.Close()
		if isPreconditionFailed(err) {
			return fmt.Errorf("%s: %w", objectName, ErrObjectExists)
		}
		return fmt.Errorf("failed to write to GCS: %w", err)
	}

	if err := writer.Close(); err != nil {
		if isPreconditionFailed(err) {
			return fmt.Errorf("%s: %w", objectName, ErrObjectExists)
		}
		return fmt.Errorf("failed to finalize GCS write: %w", err)
	}
	return nil
}

// DeleteObject removes an object, treating "not found" as success.
func DeleteObject(ctx context.Context, bucket *storage.BucketHandle, objectName string) error {
	err := bucket.Object(objectName).Delete(ctx)
	if err == nil || errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return fmt.Errorf("failed to delete GCS object %s: %w", objectName, err)
}

// SweepStaleObjects deletes every object under prefix created more than maxAge ago.
func SweepStaleObjects(ctx context.Context, bucket *storage.BucketHandle, prefix string, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	it := bucket.Objects(ctx, &storage.Query{Prefix: prefix})

	var removed int
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return removed, fmt.Errorf("failed to list staging objects: %w", err)
		}
		if attrs.Created.After(cutoff) {
			continue
		}
		if err := DeleteObject(ctx, bucket, attrs.Name); err != nil {
			slog.Warn("Could not remove stale staging object", "gcsObject", attrs.Name, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}

func isPreconditionFailed(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed
}
