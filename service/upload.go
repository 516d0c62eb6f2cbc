package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// BlobStore is the capability contract the ingestor needs from blob storage.
// Satisfied by infra.MinioClient.
type BlobStore interface {
	PutObject(ctx context.Context, key string, payload io.Reader, size int64, contentType string) error
	RemoveObject(ctx context.Context, key string) error
	ObjectURL(key string) string
}

// FilePayload is a binary upload together with its original file name.
type FilePayload struct {
	Reader       io.Reader
	Size         int64
	OriginalName string
	ContentType  string
}

// IngestResult is the durable reference returned for an uploaded payload.
type IngestResult struct {
	FileURL    string
	FileType   string
	StorageKey string
}

// Ingestor uploads binary payloads to blob storage and hands back a public
// URL plus the derived file type.
type Ingestor struct {
	blobs BlobStore
}

func NewIngestor(blobs BlobStore) *Ingestor {
	return &Ingestor{blobs: blobs}
}

// Ingest stores the payload under a collision-resistant key and returns its
// public reference. On success the URL is immediately fetchable. Upload
// errors wrap ErrUploadFailed; there is no automatic retry.
func (ing *Ingestor) Ingest(ctx context.Context, payload FilePayload) (*IngestResult, error) {
	if payload.Reader == nil {
		return nil, fmt.Errorf("%w: no file payload", ErrValidationFailed)
	}

	key := StorageKeyFor(payload.OriginalName)

	contentType := payload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := ing.blobs.PutObject(ctx, key, payload.Reader, payload.Size, contentType); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	return &IngestResult{
		FileURL:    ing.blobs.ObjectURL(key),
		FileType:   FileTypeFor(payload.OriginalName),
		StorageKey: key,
	}, nil
}

// StorageKeyFor prefixes the original name with a random disambiguator so a
// re-upload of the same name never overwrites an earlier blob.
func StorageKeyFor(originalName string) string {
	name := path.Base(strings.ReplaceAll(originalName, "\\", "/"))
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == "/" {
		name = "file"
	}
	return uuid.NewString() + "-" + name
}

// FileTypeFor derives the lower-cased extension without the dot; empty when
// the name has no extension.
func FileTypeFor(originalName string) string {
	ext := path.Ext(originalName)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
