package importer

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jafarshop/pimsync/pkg/errors"
)

// Source field names the mapper recognizes, split by kind. Only mapped
// fields present in these sets are read from a source row.
var (
	productSourceFields = []string{"title", "handle", "vendor", "descriptionHtml", "productType", "tags"}
	seoSourceFields     = []string{"metafields_global_title_tag", "metafields_global_description_tag"}
	variantSourceFields = []string{"inventoryPolicy", "barcode", "taxable", "compareAtPrice", "sku", "inventoryTracked", "cost", "weight", "price", "inventoryQuantity"}
)

// ImportMapping is the declarative table driving the import: which source
// field feeds which attribute, which attributes hold images, and which
// family configurable products belong to.
type ImportMapping struct {
	FamilyVariant     int64             `json:"familyVariant"`
	Fields            map[string]string `json:"fields"` // source field -> attribute code
	Images            []string          `json:"images"` // image attribute codes, in source image order
	VariantImages     string            `json:"variantImages"`
	ProductMetafields []string          `json:"productMetafields"`
	VariantMetafields []string          `json:"variantMetafields"`
}

// LoadMapping reads the mapping table from a JSON file. A missing family
// mapping is a configuration error: no row can be imported without it.
func LoadMapping(path string) (*ImportMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file: %w", err)
	}

	var mapping ImportMapping
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("failed to parse mapping file: %w", err)
	}

	if mapping.FamilyVariant == 0 {
		return nil, &errors.ErrConfiguration{Message: "mapping has no familyVariant"}
	}

	return &mapping, nil
}

// ProductFields returns the mapped product-level fields
func (m *ImportMapping) ProductFields() map[string]string {
	return m.fieldsIn(productSourceFields)
}

// SEOFields returns the mapped SEO fields
func (m *ImportMapping) SEOFields() map[string]string {
	return m.fieldsIn(seoSourceFields)
}

// VariantFields returns the mapped variant-level fields
func (m *ImportMapping) VariantFields() map[string]string {
	return m.fieldsIn(variantSourceFields)
}

// MetafieldKeys returns all metafield keys mapped for products and variants
func (m *ImportMapping) MetafieldKeys() []string {
	keys := make([]string, 0, len(m.ProductMetafields)+len(m.VariantMetafields))
	keys = append(keys, m.ProductMetafields...)
	keys = append(keys, m.VariantMetafields...)
	return keys
}

func (m *ImportMapping) fieldsIn(names []string) map[string]string {
	fields := map[string]string{}
	for _, name := range names {
		if code, ok := m.Fields[name]; ok {
			fields[name] = code
		}
	}
	return fields
}
