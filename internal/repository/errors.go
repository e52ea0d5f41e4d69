// Package repository persists checklist aggregates and the packer catalog.
// Both are stored as JSON blobs keyed by a string; a BlobStore hides whether
// the blob lives in a relational table, a file or both.
package repository

import "errors"

// ErrNotFound is returned by a BlobStore when no blob exists for the key.
// Typed repositories translate it into the matching domain error.
var ErrNotFound = errors.New("not found")

// ErrInvalidKey is returned for keys that cannot be stored safely, such as
// keys containing path separators.
var ErrInvalidKey = errors.New("invalid key")
