package importer_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jafarshop/pimsync/internal/importer"
	"github.com/jafarshop/pimsync/internal/media"
	"github.com/jafarshop/pimsync/internal/shopify"
)

func newVariantProcessor(t *testing.T, fx *fixture, mapping *importer.ImportMapping) *importer.VariantProcessor {
	t.Helper()
	run := newRun(t, fx, mapping)
	logger := zap.NewNop()
	mapper := importer.NewAttributeMapper(run, logger)
	fetcher := media.NewFetcher(t.TempDir(), logger)
	images := importer.NewImageResolver(run, fetcher, fx.storer, logger)
	identity := importer.NewIdentityMapper(run, fx.mappings, logger)
	return importer.NewVariantProcessor(run, mapper, images, identity, fx.products, logger)
}

func variantNode(t *testing.T, raw string) shopify.VariantNode {
	t.Helper()
	var node shopify.VariantNode
	require.NoError(t, json.Unmarshal([]byte(raw), &node))
	return node
}

func TestNormalizeSKU(t *testing.T) {
	assert.Equal(t, "ABC-1", importer.NormalizeSKU("ABC-1\r\n"))
	assert.Equal(t, "ABC-1", importer.NormalizeSKU("ABC\n-1"))
	assert.Equal(t, "ABC-1", importer.NormalizeSKU("ABC-1"))
	assert.Equal(t, "", importer.NormalizeSKU("\r\n"))
}

func TestFormatVariantValues_OptionsResolveToOptionCodes(t *testing.T) {
	fx := newFixture()
	p := newVariantProcessor(t, fx, defaultMapping())

	node := variantNode(t, `{
		"id": "v1",
		"sku": "TEE-1-RED",
		"price": "19.90",
		"selectedOptions": [{"name": "Color", "value": "Red"}]
	}`)

	values, ok := p.FormatVariantValues(&node)
	require.True(t, ok)
	assert.Equal(t, "red", values.Common["color"])
	assert.Equal(t, "TEE-1-RED", values.Common["sku"])
}

func TestFormatVariantValues_PlaceholderOptionIgnored(t *testing.T) {
	fx := newFixture()
	p := newVariantProcessor(t, fx, defaultMapping())

	node := variantNode(t, `{
		"id": "v1",
		"sku": "MUG-1",
		"selectedOptions": [{"name": "Title", "value": "Default Title"}]
	}`)

	values, ok := p.FormatVariantValues(&node)
	require.True(t, ok)
	assert.NotContains(t, values.Common, "title")
}

func TestFormatVariantValues_UnknownOptionValueFails(t *testing.T) {
	fx := newFixture()
	p := newVariantProcessor(t, fx, defaultMapping())

	node := variantNode(t, `{
		"id": "v1",
		"sku": "TEE-1-GRN",
		"selectedOptions": [{"name": "Color", "value": "Green"}]
	}`)

	_, ok := p.FormatVariantValues(&node)
	assert.False(t, ok)
}

func TestFormatVariantValues_PricesKeyedByRunCurrency(t *testing.T) {
	fx := newFixture()
	mapping := defaultMapping()
	mapping.Fields["compareAtPrice"] = "compare_price"
	mapping.Fields["cost"] = "cost"
	p := newVariantProcessor(t, fx, mapping)

	node := variantNode(t, `{
		"id": "v1",
		"sku": "TEE-1",
		"price": "19.90",
		"compareAtPrice": "",
		"inventoryItem": {"unitCost": {"amount": "8.25"}}
	}`)

	values, ok := p.FormatVariantValues(&node)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"USD": "19.90"}, values.Common["price"])
	assert.Equal(t, map[string]string{"USD": "0"}, values.Common["compare_price"])
	assert.Equal(t, map[string]string{"USD": "8.25"}, values.Common["cost"])
}

func TestFormatVariantValues_BooleanAndNumericFields(t *testing.T) {
	fx := newFixture()
	mapping := defaultMapping()
	mapping.Fields["taxable"] = "taxable"
	mapping.Fields["inventoryPolicy"] = "backorders"
	mapping.Fields["inventoryTracked"] = "tracked"
	mapping.Fields["weight"] = "weight"
	mapping.Fields["inventoryQuantity"] = "quantity"
	p := newVariantProcessor(t, fx, mapping)

	node := variantNode(t, `{
		"id": "v1",
		"sku": "TEE-1",
		"taxable": true,
		"inventoryPolicy": "CONTINUE",
		"inventoryQuantity": 42,
		"inventoryItem": {"tracked": true, "measurement": {"weight": {"value": 1.5}}}
	}`)

	values, ok := p.FormatVariantValues(&node)
	require.True(t, ok)
	assert.Equal(t, "true", values.Common["taxable"])
	assert.Equal(t, "true", values.Common["backorders"])
	assert.Equal(t, "true", values.Common["tracked"])
	assert.Equal(t, "1.5", values.Common["weight"])
	assert.Equal(t, 42, values.Common["quantity"])
}

func TestFormatVariantValues_DenyPolicyMapsToFalse(t *testing.T) {
	fx := newFixture()
	mapping := defaultMapping()
	mapping.Fields["inventoryPolicy"] = "backorders"
	p := newVariantProcessor(t, fx, mapping)

	node := variantNode(t, `{"id": "v1", "sku": "TEE-1", "inventoryPolicy": "DENY"}`)

	values, ok := p.FormatVariantValues(&node)
	require.True(t, ok)
	assert.Equal(t, "false", values.Common["backorders"])
}

func TestFormatVariantValues_RequiredBarcodeEmptyFails(t *testing.T) {
	fx := newFixture()
	fx.repos.Attribute.(*fakeAttributeRepo).attrs["barcode"].IsRequired = true
	mapping := defaultMapping()
	mapping.Fields["barcode"] = "barcode"
	p := newVariantProcessor(t, fx, mapping)

	node := variantNode(t, `{"id": "v1", "sku": "TEE-1", "barcode": ""}`)
	_, ok := p.FormatVariantValues(&node)
	assert.False(t, ok)

	node = variantNode(t, `{"id": "v1", "sku": "TEE-1", "barcode": "123456"}`)
	values, ok := p.FormatVariantValues(&node)
	require.True(t, ok)
	assert.Equal(t, "123456", values.Common["barcode"])
}

func TestAttributeCode(t *testing.T) {
	assert.Equal(t, "color", importer.AttributeCode("Color"))
	assert.Equal(t, "shoe_size", importer.AttributeCode("Shoe Size"))
	assert.Equal(t, "fit_style", importer.AttributeCode("Fit/Style"))
}

func TestOptionCode(t *testing.T) {
	assert.Equal(t, "red", importer.OptionCode("Red"))
	assert.Equal(t, "dark-blue", importer.OptionCode("Dark Blue"))
	assert.Equal(t, "xl", importer.OptionCode(" XL "))
}
