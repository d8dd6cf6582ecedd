package importer

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jafarshop/pimsync/internal/domain"
	"github.com/jafarshop/pimsync/internal/repository"
	"github.com/jafarshop/pimsync/internal/shopify"
)

// variantFieldKind enumerates the fixed variant fields the engine knows.
// Each kind has exactly one extractor in extractField; an unmapped source
// field name simply has no kind and is ignored.
type variantFieldKind int

const (
	fieldSKU variantFieldKind = iota
	fieldPrice
	fieldCompareAtPrice
	fieldCost
	fieldWeight
	fieldBarcode
	fieldTaxable
	fieldInventoryPolicy
	fieldInventoryTracked
	fieldInventoryQuantity
)

var variantFieldKinds = map[string]variantFieldKind{
	"sku":               fieldSKU,
	"price":             fieldPrice,
	"compareAtPrice":    fieldCompareAtPrice,
	"cost":              fieldCost,
	"weight":            fieldWeight,
	"barcode":           fieldBarcode,
	"taxable":           fieldTaxable,
	"inventoryPolicy":   fieldInventoryPolicy,
	"inventoryTracked":  fieldInventoryTracked,
	"inventoryQuantity": fieldInventoryQuantity,
}

// VariantProcessor turns source variant nodes into scoped value sets and
// nested variant specs, deduplicating by SKU within one product.
type VariantProcessor struct {
	run      *RunContext
	mapper   *AttributeMapper
	images   *ImageResolver
	identity *IdentityMapper
	products repository.ProductRepository
	logger   *zap.Logger
}

// NewVariantProcessor creates a variant processor for one run
func NewVariantProcessor(run *RunContext, mapper *AttributeMapper, images *ImageResolver, identity *IdentityMapper, products repository.ProductRepository, logger *zap.Logger) *VariantProcessor {
	return &VariantProcessor{
		run:      run,
		mapper:   mapper,
		images:   images,
		identity: identity,
		products: products,
		logger:   logger,
	}
}

// NormalizeSKU strips carriage returns and newlines from a source SKU
func NormalizeSKU(sku string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(sku)
}

// FormatVariantValues maps one variant's option selections and fixed
// fields into a scoped value set. Field-derived values win over
// option-derived values on collision. Returns ok=false when an option
// value is unknown or a required field is empty; the variant is skipped.
func (p *VariantProcessor) FormatVariantValues(node *shopify.VariantNode) (domain.ScopedValueSet, bool) {
	optionValues := domain.NewScopedValueSet()

	for _, option := range node.SelectedOptions {
		if option.Name == "Title" && option.Value == "Default Title" {
			continue
		}

		attrCode := AttributeCode(option.Name)
		attr := p.run.Attribute(attrCode)
		optionCode := OptionCode(option.Value)

		if attr == nil || !attr.HasOption(optionCode) {
			p.logger.Warn("Option value not found, skipping variant",
				zap.String("sku", node.SKU),
				zap.String("axis", option.Name),
				zap.String("value", option.Value),
			)
			return domain.ScopedValueSet{}, false
		}

		optionValues.Set(attr, attrCode, optionCode)
	}

	fieldValues := domain.NewScopedValueSet()

	for sourceField, attrCode := range p.run.Mapping.VariantFields() {
		kind, ok := variantFieldKinds[sourceField]
		if !ok {
			continue
		}

		attr := p.run.Attribute(attrCode)
		value := p.extractField(kind, node)

		if kind == fieldBarcode && attr != nil && attr.IsRequired {
			if barcode, _ := value.(string); barcode == "" {
				p.logger.Warn("Required field is empty, skipping variant",
					zap.String("attribute", attrCode),
					zap.String("sku", node.SKU),
				)
				return domain.ScopedValueSet{}, false
			}
		}

		fieldValues.Set(attr, attrCode, value)
	}

	values := domain.NewScopedValueSet()
	values.Merge(optionValues)
	values.Merge(fieldValues)
	values.Common["sku"] = NormalizeSKU(node.SKU)

	return values, true
}

// extractField extracts one fixed variant field. Price-like fields are
// keyed by the run currency since price attributes are multi-currency.
func (p *VariantProcessor) extractField(kind variantFieldKind, node *shopify.VariantNode) any {
	switch kind {
	case fieldSKU:
		return NormalizeSKU(node.SKU)
	case fieldPrice:
		price := node.Price
		if price == "" {
			price = "0"
		}
		return map[string]string{p.run.Currency: price}
	case fieldCompareAtPrice:
		price := node.CompareAtPrice
		if price == "" {
			price = "0"
		}
		return map[string]string{p.run.Currency: price}
	case fieldCost:
		cost := "0"
		if node.InventoryItem.UnitCost != nil && node.InventoryItem.UnitCost.Amount != "" {
			cost = node.InventoryItem.UnitCost.Amount
		}
		return map[string]string{p.run.Currency: cost}
	case fieldWeight:
		return strconv.FormatFloat(node.InventoryItem.Measurement.Weight.Value, 'f', -1, 64)
	case fieldBarcode:
		return node.Barcode
	case fieldTaxable:
		return strconv.FormatBool(node.Taxable)
	case fieldInventoryPolicy:
		return strconv.FormatBool(node.InventoryPolicy == "CONTINUE")
	case fieldInventoryTracked:
		return strconv.FormatBool(node.InventoryItem.Tracked)
	case fieldInventoryQuantity:
		return node.InventoryQuantity
	}
	return nil
}

// ProcessVariants runs the per-variant pipeline for a configurable
// product: dedupe, identity mapping, option resolution, fixed fields,
// image reuse and metafields. Keys are existing variant ids where known,
// placeholder keys otherwise. Zero surviving variants is not an error.
func (p *VariantProcessor) ProcessVariants(ctx context.Context, node *shopify.ProductNode, parentID int64, parentCreated bool, imageValues domain.ScopedValueSet, cache map[string]string) (map[string]domain.VariantSpec, RowResult) {
	specs := map[string]domain.VariantSpec{}
	var result RowResult

	seen := map[string]bool{}

	for idx, edge := range node.Variants.Edges {
		variant := edge.Node

		if variant.SKU == "" {
			p.logger.Warn("Variant has no SKU, skipping", zap.String("title", node.Title))
			continue
		}

		sku := NormalizeSKU(variant.SKU)
		if seen[sku] {
			p.logger.Warn("Duplicate SKU found in product, skipping variant", zap.String("sku", sku))
			continue
		}
		seen[sku] = true

		if err := p.identity.Ensure(ctx, sku, variant.ID, &node.ID); err != nil {
			p.logger.Warn("Failed to record variant mapping, skipping variant", zap.String("sku", sku), zap.Error(err))
			continue
		}

		existing, _ := p.products.GetBySKU(ctx, sku)

		values, ok := p.FormatVariantValues(&variant)
		if !ok {
			continue
		}

		// A variant never duplicates the parent's product-level image:
		// any image attribute the parent already holds is blanked here.
		for _, imageAttr := range p.run.Mapping.Images {
			if _, ok := imageValues.Common[imageAttr]; ok {
				values.Common[imageAttr] = ""
			}
			if _, ok := imageValues.Channel[imageAttr]; ok {
				values.Channel[imageAttr] = ""
			}
			if _, ok := imageValues.Locale[imageAttr]; ok {
				values.Locale[imageAttr] = ""
			}
			if _, ok := imageValues.ChannelLocale[imageAttr]; ok {
				values.ChannelLocale[imageAttr] = ""
			}
		}

		if attrCode := p.run.Mapping.VariantImages; attrCode != "" {
			imageOwner := parentID
			if existing != nil {
				imageOwner = existing.ID
			}

			ref := ""
			if variant.Image != nil {
				stored, err := p.images.ResolveVariantImage(ctx, variant.Image.OriginalSrc, imageOwner, cache)
				if err != nil {
					p.logger.Warn("Variant image fetch failed",
						zap.String("sku", sku),
						zap.String("url", variant.Image.OriginalSrc),
						zap.Error(err),
					)
				} else {
					ref = stored
				}
			}

			attr := p.run.Attribute(attrCode)
			if attr != nil && attr.IsRequired && ref == "" {
				p.logger.Warn("Required variant image is missing, skipping variant",
					zap.String("attribute", attrCode),
					zap.String("sku", sku),
				)
				continue
			}
			values.Set(attr, attrCode, ref)
		}

		// Variant metafields override product-level defaults on collision
		values.Merge(p.mapper.MapMetafields(variant.Metafields, p.run.Mapping.VariantMetafields))

		key := "variant_" + strconv.Itoa(idx)
		if existing != nil {
			key = strconv.FormatInt(existing.ID, 10)
		}

		specs[key] = domain.VariantSpec{
			SKU:    sku,
			Status: node.IsActive(),
			Values: values,
		}

		if parentCreated {
			result.Created++
		} else {
			result.Updated++
		}
	}

	return specs, result
}
