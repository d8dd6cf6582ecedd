package importer_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jafarshop/pimsync/internal/importer"
	"github.com/jafarshop/pimsync/pkg/errors"
)

func writeMapping(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mapping.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMapping(t *testing.T) {
	path := writeMapping(t, `{
		"familyVariant": 1,
		"fields": {"title": "name", "price": "price", "unknownField": "x"},
		"images": ["image_1", "image_2"],
		"variantImages": "variant_image",
		"productMetafields": ["care"],
		"variantMetafields": ["fit"]
	}`)

	mapping, err := importer.LoadMapping(path)
	require.NoError(t, err)

	assert.Equal(t, int64(1), mapping.FamilyVariant)
	assert.Equal(t, map[string]string{"title": "name"}, mapping.ProductFields())
	assert.Equal(t, map[string]string{"price": "price"}, mapping.VariantFields())
	assert.Empty(t, mapping.SEOFields())
	assert.Equal(t, []string{"care", "fit"}, mapping.MetafieldKeys())
	assert.Equal(t, "variant_image", mapping.VariantImages)
}

func TestLoadMapping_MissingFamilyIsConfigurationError(t *testing.T) {
	path := writeMapping(t, `{"fields": {"title": "name"}}`)

	_, err := importer.LoadMapping(path)
	require.Error(t, err)

	var confErr *errors.ErrConfiguration
	assert.ErrorAs(t, err, &confErr)
}

func TestLoadMapping_MissingFileFails(t *testing.T) {
	_, err := importer.LoadMapping(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadMapping_MalformedJSONFails(t *testing.T) {
	path := writeMapping(t, `{"familyVariant": `)
	_, err := importer.LoadMapping(path)
	assert.Error(t, err)
}
