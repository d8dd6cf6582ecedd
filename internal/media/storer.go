package media

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
)

// Storer persists a fetched image into the media backend and returns a
// stable backend reference for the stored file.
type Storer interface {
	Store(ctx context.Context, localPath string, ownerID int64, attributeCode string) (string, error)
}

// DiskStorer writes images under baseDir using hashed folder names,
// mirroring the PIM's content-hashed media layout.
type DiskStorer struct {
	baseDir string
}

// NewDiskStorer creates a disk-backed media storer rooted at baseDir
func NewDiskStorer(baseDir string) *DiskStorer {
	return &DiskStorer{baseDir: baseDir}
}

func (s *DiskStorer) Store(ctx context.Context, localPath string, ownerID int64, attributeCode string) (string, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to read image %s: %w", localPath, err)
	}

	ref := objectKey(ownerID, attributeCode, data, filepath.Base(localPath))
	dest := filepath.Join(s.baseDir, filepath.FromSlash(ref))

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	return ref, nil
}

// objectKey builds the hashed storage path shared by all backends:
// product/<owner>/<attribute>/<content-hash>/<filename>
func objectKey(ownerID int64, attributeCode string, data []byte, filename string) string {
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])[:8]
	return path.Join("product", strconv.FormatInt(ownerID, 10), attributeCode, hash, filename)
}
