package storage

import (
	"context"
	"fmt"
	"io"

	storage_go "github.com/supabase-community/storage-go"
)

type Supabase struct {
	client *storage_go.Client
	bucket string
}

func NewSupabase(supabaseURL, supabaseKey, bucket string) *Supabase {
	return &Supabase{
		client: storage_go.NewClient(supabaseURL+"/storage/v1", supabaseKey, nil),
		bucket: bucket,
	}
}

var _ ObjectStorage = (*Supabase)(nil)

// Upload ignores ctx, the supabase client has no context support
func (s *Supabase) Upload(_ context.Context, folder, key string, body io.Reader, _ int64, contentType string) (string, error) {
	options := storage_go.FileOptions{}
	if contentType != "" {
		options.ContentType = &contentType
	}

	if _, err := s.client.UploadFile(s.bucket, objectName(folder, key), body, options); err != nil {
		return "", fmt.Errorf("supabase upload %s/%s: %w", folder, key, err)
	}
	return key, nil
}
