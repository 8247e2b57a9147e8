package storage

import (
	"context"
	"io"
	"strings"
)

// Folders inside the media bucket
const (
	FolderCovers = "covers"
	FolderImages = "images"
	FolderAudio  = "audio"
)

//go:generate go run go.uber.org/mock/mockgen -source=storage.go -destination=mocks/mock.go -package=mocks

// ObjectStorage stores media under <folder>/<key> of the media bucket
type ObjectStorage interface {
	// Upload returns the storage path of the object, relative to folder
	Upload(ctx context.Context, folder, key string, body io.Reader, size int64, contentType string) (string, error)
}

// PublicURL computes the public address of a stored object: <base>/<folder>/<path>
func PublicURL(base, folder, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.Trim(folder, "/") + "/" + strings.TrimLeft(path, "/")
}

func objectName(folder, key string) string {
	return strings.Trim(folder, "/") + "/" + key
}
