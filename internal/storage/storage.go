// Package storage holds the adapters for the two object-storage backends a
// file's bytes can live in: the upload host every client upload lands in
// first, and the blob store files are migrated to.
package storage

import "context"

// Provider names a storage backend. The values are persisted in the files
// table (stored_in / target_storage).
type Provider string

const (
	ProviderUTFS = Provider("utfs")
	ProviderBlob = Provider("blob")
)

func (p Provider) Valid() bool {
	return p == ProviderUTFS || p == ProviderBlob
}

// Access is the visibility a blob is stored with. Everything the platform
// serves today is public; the parameter exists so the adapter contract does
// not change when that stops being true.
type Access string

const AccessPublic = Access("public")

type UploadResult struct {
	Key string
	URL string
}

type DeleteResult struct {
	Success      bool
	DeletedCount int
}

// UploadHost is the upload-hosting backend. Keys are opaque identifiers
// assigned by the host.
type UploadHost interface {
	UploadFromURL(ctx context.Context, srcURL string) (*UploadResult, error)
	DeleteByKey(ctx context.Context, key string) (*DeleteResult, error)
}

type PutResult struct {
	Pathname string
	URL      string
}

// BlobStore is the path-addressed blob backend.
type BlobStore interface {
	Put(ctx context.Context, path string, data []byte, access Access) (*PutResult, error)
	DeleteByPath(ctx context.Context, path string) error
}
