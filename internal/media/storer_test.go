package media_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jafarshop/pimsync/internal/media"
)

func TestDiskStorer_StoreBuildsHashedReference(t *testing.T) {
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "front.jpg")
	require.NoError(t, os.WriteFile(src, []byte("image bytes"), 0o644))

	baseDir := t.TempDir()
	s := media.NewDiskStorer(baseDir)

	ref, err := s.Store(context.Background(), src, 42, "image_1")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ref, "product/42/image_1/"), "ref %q", ref)
	assert.True(t, strings.HasSuffix(ref, "/front.jpg"), "ref %q", ref)

	stored, err := os.ReadFile(filepath.Join(baseDir, filepath.FromSlash(ref)))
	require.NoError(t, err)
	assert.Equal(t, "image bytes", string(stored))
}

func TestDiskStorer_SameContentSameReference(t *testing.T) {
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "front.jpg")
	require.NoError(t, os.WriteFile(src, []byte("image bytes"), 0o644))

	s := media.NewDiskStorer(t.TempDir())

	first, err := s.Store(context.Background(), src, 42, "image_1")
	require.NoError(t, err)
	second, err := s.Store(context.Background(), src, 42, "image_1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDiskStorer_MissingSourceFails(t *testing.T) {
	s := media.NewDiskStorer(t.TempDir())

	_, err := s.Store(context.Background(), filepath.Join(t.TempDir(), "absent.jpg"), 1, "image_1")
	assert.Error(t, err)
}
