package importer

import (
	"strings"

	"go.uber.org/zap"

	"github.com/jafarshop/pimsync/internal/domain"
	"github.com/jafarshop/pimsync/internal/shopify"
)

// AttributeMapper turns raw source fields into scoped attribute values
// using the run's declarative field mapping.
type AttributeMapper struct {
	run    *RunContext
	logger *zap.Logger
}

// NewAttributeMapper creates an attribute mapper for one run
func NewAttributeMapper(run *RunContext, logger *zap.Logger) *AttributeMapper {
	return &AttributeMapper{
		run:    run,
		logger: logger,
	}
}

// MapAttributes maps product-level (or SEO) source fields into a scoped
// value set. Returns ok=false when a required attribute has no value; the
// caller must skip the row.
func (m *AttributeMapper) MapAttributes(fields map[string]string, node *shopify.ProductNode, isSEO bool) (domain.ScopedValueSet, bool) {
	values := domain.NewScopedValueSet()

	for sourceField, attrCode := range fields {
		attr := m.run.Attribute(attrCode)

		source := m.sourceValue(node, sourceField, isSEO)

		if attr != nil && attr.IsRequired && source == "" {
			m.logger.Warn("Required attribute has no value, skipping row",
				zap.String("attribute", attrCode),
				zap.String("title", node.Title),
			)
			return domain.ScopedValueSet{}, false
		}

		values.Set(attr, attrCode, source)
	}

	return values, true
}

func (m *AttributeMapper) sourceValue(node *shopify.ProductNode, field string, isSEO bool) string {
	if isSEO {
		// The two SEO mapping fields alias the seo object's own names
		switch field {
		case "metafields_global_title_tag":
			return node.SEO.Title
		case "metafields_global_description_tag":
			return node.SEO.Description
		}
		return ""
	}

	switch field {
	case "title":
		return node.Title
	case "handle":
		return node.Handle
	case "vendor":
		return node.Vendor
	case "descriptionHtml":
		return node.DescriptionHTML
	case "productType":
		return node.ProductType
	case "tags":
		return strings.Join(node.Tags, ",")
	}
	return ""
}

// MapMetafields maps metafields whose keys appear in the mapped key set.
// Unmapped keys are dropped; unknown attributes land in common.
func (m *AttributeMapper) MapMetafields(edges shopify.MetafieldEdges, mappedKeys []string) domain.ScopedValueSet {
	values := domain.NewScopedValueSet()

	mapped := make(map[string]bool, len(mappedKeys))
	for _, key := range mappedKeys {
		mapped[key] = true
	}

	for _, edge := range edges.Edges {
		if !mapped[edge.Node.Key] {
			continue
		}
		attr := m.run.Attribute(edge.Node.Key)
		values.Set(attr, edge.Node.Key, edge.Node.Value)
	}

	return values
}
