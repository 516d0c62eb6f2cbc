package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

// recordingBlob records uploads in order and lets tests inject a put failure.
type recordingBlob struct {
	puts         []string
	contentTypes []string
	putErr       error
}

func (b *recordingBlob) PutObject(ctx context.Context, key string, payload io.Reader, size int64, contentType string) error {
	if b.putErr != nil {
		return b.putErr
	}
	b.puts = append(b.puts, key)
	b.contentTypes = append(b.contentTypes, contentType)
	return nil
}

func (b *recordingBlob) RemoveObject(ctx context.Context, key string) error {
	return nil
}

func (b *recordingBlob) ObjectURL(key string) string {
	return b.urlFor(key)
}

func (b *recordingBlob) urlFor(key string) string {
	return "http://blobs.local/library-files/" + key
}

func TestIngest_ReturnsDurableReference(t *testing.T) {
	blobs := &recordingBlob{}
	ing := NewIngestor(blobs)

	result, err := ing.Ingest(context.Background(), FilePayload{
		Reader:       bytes.NewReader([]byte("%PDF-1.4")),
		Size:         8,
		OriginalName: "notes.pdf",
		ContentType:  "application/pdf",
	})
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if len(blobs.puts) != 1 {
		t.Fatalf("uploads = %d, want 1", len(blobs.puts))
	}
	if result.StorageKey != blobs.puts[0] {
		t.Errorf("StorageKey = %q, want %q", result.StorageKey, blobs.puts[0])
	}
	if result.FileURL != blobs.urlFor(result.StorageKey) {
		t.Errorf("FileURL = %q does not reference the stored key", result.FileURL)
	}
	if result.FileType != "pdf" {
		t.Errorf("FileType = %q, want pdf", result.FileType)
	}
	if blobs.contentTypes[0] != "application/pdf" {
		t.Errorf("content type = %q, want application/pdf", blobs.contentTypes[0])
	}
}

func TestIngest_DefaultsContentType(t *testing.T) {
	blobs := &recordingBlob{}
	ing := NewIngestor(blobs)

	_, err := ing.Ingest(context.Background(), FilePayload{
		Reader:       bytes.NewReader([]byte("data")),
		Size:         4,
		OriginalName: "blob",
	})
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if blobs.contentTypes[0] != "application/octet-stream" {
		t.Errorf("content type = %q, want application/octet-stream", blobs.contentTypes[0])
	}
}

func TestIngest_NilReader(t *testing.T) {
	ing := NewIngestor(&recordingBlob{})

	_, err := ing.Ingest(context.Background(), FilePayload{OriginalName: "notes.pdf"})
	if !errors.Is(err, ErrValidationFailed) {
		t.Errorf("err = %v, want ErrValidationFailed", err)
	}
}

func TestIngest_PutFailureWrapsUploadError(t *testing.T) {
	cause := errors.New("connection refused")
	ing := NewIngestor(&recordingBlob{putErr: cause})

	_, err := ing.Ingest(context.Background(), FilePayload{
		Reader:       bytes.NewReader([]byte("data")),
		Size:         4,
		OriginalName: "notes.pdf",
	})
	if !errors.Is(err, ErrUploadFailed) {
		t.Errorf("err = %v, want ErrUploadFailed", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("err = %v, underlying blob store error lost from the chain", err)
	}
}

func TestStorageKeyFor_KeepsOriginalNameSuffix(t *testing.T) {
	key := StorageKeyFor("notes.pdf")
	if !strings.HasSuffix(key, "-notes.pdf") {
		t.Errorf("key %q does not end with original name", key)
	}
	if len(key) <= len("-notes.pdf") {
		t.Errorf("key %q has no disambiguating prefix", key)
	}
}

func TestStorageKeyFor_UniquePerCall(t *testing.T) {
	if StorageKeyFor("notes.pdf") == StorageKeyFor("notes.pdf") {
		t.Errorf("two keys for the same name collided")
	}
}

func TestStorageKeyFor_StripsDirectories(t *testing.T) {
	for _, name := range []string{"dir/notes.pdf", `C:\docs\notes.pdf`} {
		key := StorageKeyFor(name)
		if strings.ContainsAny(key, `/\`) {
			t.Errorf("StorageKeyFor(%q) = %q contains a path separator", name, key)
		}
		if !strings.HasSuffix(key, "-notes.pdf") {
			t.Errorf("StorageKeyFor(%q) = %q lost the base name", name, key)
		}
	}
}

func TestStorageKeyFor_EmptyNameFallsBack(t *testing.T) {
	key := StorageKeyFor("")
	if !strings.HasSuffix(key, "-file") {
		t.Errorf("StorageKeyFor(\"\") = %q, want -file suffix", key)
	}
}

func TestFileTypeFor(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"notes.pdf", "pdf"},
		{"SLIDES.PPTX", "pptx"},
		{"archive.tar.gz", "gz"},
		{"noextension", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := FileTypeFor(c.name); got != c.want {
			t.Errorf("FileTypeFor(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}
