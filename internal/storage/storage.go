package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"time"
)

// PutResult describes a stored object
type PutResult struct {
	URL string
	Key string
}

// Storage defines the interface for blob storage operations
type Storage interface {
	// Put stores the blob under a generated key inside folder and
	// returns the resolved public URL together with the object key
	Put(ctx context.Context, reader io.Reader, folder, filename, contentType string) (*PutResult, error)

	// Get retrieves a blob by its key
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a blob by its key
	Delete(ctx context.Context, key string) error

	// Exists checks if a blob exists
	Exists(ctx context.Context, key string) (bool, error)

	// URL returns the public URL for a key
	URL(key string) string
}

// Config holds storage configuration
type Config struct {
	Type       string // local, s3, cloudflare_r2
	BasePath   string // For local storage
	BaseURL    string // Public URL base
	Bucket     string // For S3/R2
	Region     string // For S3
	AccessKey  string // For S3/R2
	SecretKey  string // For S3/R2
	Endpoint   string // For R2 or custom S3
	UseSSL     bool   // For S3/R2
	PublicRead bool   // Make files public by default
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStorage(cfg)
	case "s3", "cloudflare_r2":
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// objectKey builds a collision-free key: folder/<unix-nano>_<rand><ext>
func objectKey(folder, filename string) string {
	ext := path.Ext(filename)
	return path.Join(folder, fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), randomSuffix(8), ext))
}

func randomSuffix(length int) string {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(bytes)[:length]
}
