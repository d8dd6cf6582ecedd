package importer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jafarshop/pimsync/internal/importer"
)

func TestIdentityMapper_EnsureIsIdempotent(t *testing.T) {
	fx := newFixture()
	run := newRun(t, fx, defaultMapping())
	m := importer.NewIdentityMapper(run, fx.mappings, zap.NewNop())

	parentID := "gid://shopify/Product/1001"

	require.NoError(t, m.Ensure(context.Background(), "TEE-1-RED", "gid://shopify/ProductVariant/2001", &parentID))
	require.NoError(t, m.Ensure(context.Background(), "TEE-1-RED", "gid://shopify/ProductVariant/2001", &parentID))

	assert.Equal(t, 1, fx.mappings.creates)
	assert.Len(t, fx.mappings.byCode, 1)
}

func TestIdentityMapper_MappingCarriesRunID(t *testing.T) {
	fx := newFixture()
	run := newRun(t, fx, defaultMapping())
	m := importer.NewIdentityMapper(run, fx.mappings, zap.NewNop())

	require.NoError(t, m.Ensure(context.Background(), "tee-1", "gid://shopify/Product/1001", nil))

	mapping := fx.mappings.byCode["tee-1"]
	require.NotNil(t, mapping)
	assert.Equal(t, run.RunID, mapping.ImportRunID)
	assert.Nil(t, mapping.ParentExternalID)
}
