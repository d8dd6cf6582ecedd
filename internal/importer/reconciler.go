package importer

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/jafarshop/pimsync/internal/domain"
	"github.com/jafarshop/pimsync/internal/media"
	"github.com/jafarshop/pimsync/internal/repository"
	"github.com/jafarshop/pimsync/internal/shopify"
)

// RowResult counts what one source row produced. The batch driver sums
// row results; no counters are shared across rows.
type RowResult struct {
	Created int
	Updated int
}

// Add returns the element-wise sum of two results
func (r RowResult) Add(other RowResult) RowResult {
	return RowResult{
		Created: r.Created + other.Created,
		Updated: r.Updated + other.Updated,
	}
}

// Reconciler decides configurable vs simple product shape for each source
// row, creates or updates the local entities and reports per-row counts.
// Row failures are logged and swallowed; nothing aborts the batch.
type Reconciler struct {
	run      *RunContext
	repos    *repository.Repositories
	mapper   *AttributeMapper
	images   *ImageResolver
	variants *VariantProcessor
	identity *IdentityMapper
	logger   *zap.Logger
}

// NewReconciler wires the per-run components around a run context
func NewReconciler(run *RunContext, repos *repository.Repositories, fetcher *media.Fetcher, storer media.Storer, logger *zap.Logger) *Reconciler {
	mapper := NewAttributeMapper(run, logger)
	images := NewImageResolver(run, fetcher, storer, logger)
	identity := NewIdentityMapper(run, repos.Mapping, logger)
	variants := NewVariantProcessor(run, mapper, images, identity, repos.Product, logger)

	return &Reconciler{
		run:      run,
		repos:    repos,
		mapper:   mapper,
		images:   images,
		variants: variants,
		identity: identity,
		logger:   logger,
	}
}

// ReconcileRow processes one source product row end to end
func (r *Reconciler) ReconcileRow(ctx context.Context, edge shopify.ProductEdge) RowResult {
	node := &edge.Node

	categories := r.resolveCategories(ctx, node)

	productValues, ok := r.mapper.MapAttributes(r.run.Mapping.ProductFields(), node, false)
	if !ok {
		return RowResult{}
	}

	seoValues, ok := r.mapper.MapAttributes(r.run.Mapping.SEOFields(), node, true)
	if !ok {
		return RowResult{}
	}

	metaValues := r.mapper.MapMetafields(node.Metafields, r.run.Mapping.MetafieldKeys())

	merged := domain.NewScopedValueSet()
	merged.Merge(productValues)
	merged.Merge(seoValues)
	merged.Merge(metaValues)
	merged.Common["status"] = strconv.FormatBool(node.IsActive())

	if r.countOptionAxes(node) > 0 {
		return r.reconcileConfigurable(ctx, node, merged, metaValues, categories)
	}
	return r.reconcileSimple(ctx, node, merged, metaValues, categories)
}

// countOptionAxes counts non-trivial option axes; the synthetic
// Title/Default Title placeholder does not count.
func (r *Reconciler) countOptionAxes(node *shopify.ProductNode) int {
	count := 0
	for _, option := range node.Options {
		if !option.IsPlaceholder() {
			count++
		}
	}
	return count
}

func (r *Reconciler) reconcileConfigurable(ctx context.Context, node *shopify.ProductNode, merged, metaValues domain.ScopedValueSet, categories []string) RowResult {
	var superAttrs []string
	var missing []string
	for _, option := range node.Options {
		if option.IsPlaceholder() {
			continue
		}
		code := AttributeCode(option.Name)
		if r.run.Attribute(code) == nil {
			missing = append(missing, code)
		} else {
			superAttrs = append(superAttrs, code)
		}
	}

	if len(missing) > 0 {
		r.logger.Warn("Option attributes do not exist locally, skipping product; import attributes first",
			zap.Strings("attributes", missing),
			zap.String("title", node.Title),
		)
		return RowResult{}
	}

	family, err := r.repos.Family.GetByID(ctx, r.run.Mapping.FamilyVariant)
	if err != nil {
		r.logger.Warn("Attribute family does not exist, skipping product; import the family first",
			zap.Int64("family_id", r.run.Mapping.FamilyVariant),
			zap.String("title", node.Title),
		)
		return RowResult{}
	}
	if len(family.ConfigurableAttributeCodes) == 0 {
		r.logger.Warn("Attribute family declares no configurable attributes, skipping product",
			zap.String("family", family.Code),
			zap.String("title", node.Title),
		)
		return RowResult{}
	}

	existing, _ := r.repos.Product.GetBySKU(ctx, node.Handle)

	created := false
	var parentID int64
	if existing == nil {
		parent, err := r.repos.Product.Create(ctx, &domain.ProductSpec{
			Type:              domain.ProductTypeConfigurable,
			SKU:               node.Handle,
			Status:            node.IsActive(),
			AttributeFamilyID: family.ID,
			SuperAttributes:   superAttrs,
			Channel:           r.run.Channel,
			Locale:            r.run.Locale,
			Values:            domain.NewScopedValueSet(),
		})
		if err != nil {
			r.logger.Warn("Failed to create configurable product, skipping row", zap.String("handle", node.Handle), zap.Error(err))
			return RowResult{}
		}
		parentID = parent.ID
		created = true
	} else {
		parentID = existing.ID
	}

	if err := r.identity.Ensure(ctx, node.Handle, node.ID, nil); err != nil {
		r.logger.Warn("Failed to record product mapping", zap.String("handle", node.Handle), zap.Error(err))
	}

	// Product-level images are stored before variants run so variant image
	// de-duplication can reuse them through the per-product cache.
	cache := map[string]string{}
	localPaths := r.images.FetchProductImages(ctx, node)
	imageValues, ok := r.images.ProcessMappedImages(ctx, localPaths, parentID, cache, node.Title)
	if !ok {
		return RowResult{}
	}

	variantSpecs, result := r.variants.ProcessVariants(ctx, node, parentID, created, imageValues, cache)

	parentValues := domain.NewScopedValueSet()
	parentValues.Merge(merged)
	parentValues.Merge(imageValues)

	product, err := r.repos.Product.Update(ctx, &domain.ProductSpec{
		Type:              domain.ProductTypeConfigurable,
		SKU:               node.Handle,
		Status:            node.IsActive(),
		AttributeFamilyID: family.ID,
		SuperAttributes:   superAttrs,
		Channel:           r.run.Channel,
		Locale:            r.run.Locale,
		Values:            parentValues,
		Variants:          variantSpecs,
		Categories:        categories,
	}, parentID)
	if err != nil {
		r.logger.Warn("Failed to persist configurable product, skipping row", zap.String("handle", node.Handle), zap.Error(err))
		return RowResult{}
	}

	// Second pass: newly created variants only received their ids in the
	// parent-level write, so placeholder keys are reconciled by SKU here.
	idBySKU := make(map[string]int64, len(product.Variants))
	for _, variant := range product.Variants {
		idBySKU[variant.SKU] = variant.ID
	}

	for _, spec := range variantSpecs {
		variantID, ok := idBySKU[spec.SKU]
		if !ok {
			r.logger.Warn("Persisted parent has no variant for SKU", zap.String("sku", spec.SKU), zap.String("handle", node.Handle))
			continue
		}

		_, err := r.repos.Product.Update(ctx, &domain.ProductSpec{
			Type:    domain.ProductTypeSimple,
			SKU:     spec.SKU,
			Status:  spec.Status,
			Channel: r.run.Channel,
			Locale:  r.run.Locale,
			Values:  spec.Values,
		}, variantID)
		if err != nil {
			r.logger.Warn("Failed to persist variant", zap.String("sku", spec.SKU), zap.Error(err))
		}
	}

	if created {
		result.Created++
	} else {
		result.Updated++
	}
	return result
}

func (r *Reconciler) reconcileSimple(ctx context.Context, node *shopify.ProductNode, merged, metaValues domain.ScopedValueSet, categories []string) RowResult {
	edges := node.Variants.Edges
	if len(edges) == 0 {
		r.logger.Warn("Product has no variants, skipping row", zap.String("handle", node.Handle))
		return RowResult{}
	}
	if len(edges) > 1 {
		r.logger.Warn("Simple product has more than one variant, skipping row",
			zap.String("handle", node.Handle),
			zap.Int("variants", len(edges)),
		)
		return RowResult{}
	}

	variant := edges[0].Node

	variantValues, ok := r.variants.FormatVariantValues(&variant)
	if !ok {
		return RowResult{}
	}

	sku, _ := variantValues.Common["sku"].(string)
	if sku == "" {
		sku = node.Handle
		variantValues.Common["sku"] = sku
	}

	if err := r.identity.Ensure(ctx, sku, node.ID, nil); err != nil {
		r.logger.Warn("Failed to record product mapping", zap.String("sku", sku), zap.Error(err))
	}

	existing, _ := r.repos.Product.GetBySKU(ctx, sku)

	created := false
	var productID int64
	if existing == nil {
		if _, err := r.repos.Family.GetByID(ctx, r.run.Mapping.FamilyVariant); err != nil {
			r.logger.Warn("Attribute family does not exist, skipping product; import the family first",
				zap.Int64("family_id", r.run.Mapping.FamilyVariant),
				zap.String("title", node.Title),
			)
			return RowResult{}
		}

		product, err := r.repos.Product.Create(ctx, &domain.ProductSpec{
			Type:              domain.ProductTypeSimple,
			SKU:               sku,
			Status:            node.IsActive(),
			AttributeFamilyID: r.run.Mapping.FamilyVariant,
			Channel:           r.run.Channel,
			Locale:            r.run.Locale,
			Values:            domain.NewScopedValueSet(),
		})
		if err != nil {
			r.logger.Warn("Failed to create simple product, skipping row", zap.String("sku", sku), zap.Error(err))
			return RowResult{}
		}
		productID = product.ID
		created = true
	} else {
		productID = existing.ID
	}

	cache := map[string]string{}
	localPaths := r.images.FetchProductImages(ctx, node)
	imageValues, ok := r.images.ProcessMappedImages(ctx, localPaths, productID, cache, node.Title)
	if !ok {
		return RowResult{}
	}

	// Simple products persist in one write: product, variant, image and
	// metafield values collapse into a single scoped set.
	final := domain.NewScopedValueSet()
	final.Merge(merged)
	final.Merge(variantValues)
	final.Merge(imageValues)
	final.Merge(metaValues)

	_, err := r.repos.Product.Update(ctx, &domain.ProductSpec{
		Type:              domain.ProductTypeSimple,
		SKU:               sku,
		Status:            node.IsActive(),
		AttributeFamilyID: r.run.Mapping.FamilyVariant,
		Channel:           r.run.Channel,
		Locale:            r.run.Locale,
		Values:            final,
		Categories:        categories,
	}, productID)
	if err != nil {
		r.logger.Warn("Failed to persist simple product, skipping row", zap.String("sku", sku), zap.Error(err))
		return RowResult{}
	}

	if created {
		return RowResult{Created: 1}
	}
	return RowResult{Updated: 1}
}

// resolveCategories maps collection handles to local category codes,
// dropping handles with no local category.
func (r *Reconciler) resolveCategories(ctx context.Context, node *shopify.ProductNode) []string {
	var codes []string
	for _, edge := range node.Collections.Edges {
		category, err := r.repos.Category.GetByCode(ctx, edge.Node.Handle)
		if err != nil {
			continue
		}
		codes = append(codes, category.Code)
	}
	return codes
}
