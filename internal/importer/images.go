package importer

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jafarshop/pimsync/internal/domain"
	"github.com/jafarshop/pimsync/internal/media"
	"github.com/jafarshop/pimsync/internal/shopify"
)

// ImageResolver downloads and stores product images, keeping a per-product
// cache of stored references so the same physical file is never uploaded
// twice for one product.
type ImageResolver struct {
	run     *RunContext
	fetcher *media.Fetcher
	storer  media.Storer
	logger  *zap.Logger
}

// NewImageResolver creates an image resolver for one run
func NewImageResolver(run *RunContext, fetcher *media.Fetcher, storer media.Storer, logger *zap.Logger) *ImageResolver {
	return &ImageResolver{
		run:     run,
		fetcher: fetcher,
		storer:  storer,
		logger:  logger,
	}
}

// FetchProductImages downloads all product-level images, returning local
// paths aligned with source image order. A failed download leaves an empty
// slot; the required check in ProcessMappedImages decides whether that
// fails the row.
func (r *ImageResolver) FetchProductImages(ctx context.Context, node *shopify.ProductNode) []string {
	paths := make([]string, len(node.Images.Edges))
	for i, edge := range node.Images.Edges {
		localPath, err := r.fetcher.Fetch(ctx, edge.Node.OriginalSrc)
		if err != nil {
			r.logger.Warn("Product image fetch failed",
				zap.String("url", edge.Node.OriginalSrc),
				zap.String("title", node.Title),
				zap.Error(err),
			)
			continue
		}
		paths[i] = localPath
	}
	return paths
}

// ProcessMappedImages stores the product images into their mapped image
// attributes and returns the scoped references. The per-product cache maps
// filename to stored reference for variant-level reuse. Returns ok=false
// when a required image attribute resolves to nothing.
func (r *ImageResolver) ProcessMappedImages(ctx context.Context, localPaths []string, ownerID int64, cache map[string]string, title string) (domain.ScopedValueSet, bool) {
	values := domain.NewScopedValueSet()

	for i, attrCode := range r.run.Mapping.Images {
		attr := r.run.Attribute(attrCode)

		ref := ""
		if i < len(localPaths) && localPaths[i] != "" {
			stored, err := r.storer.Store(ctx, localPaths[i], ownerID, attrCode)
			if err != nil {
				r.logger.Warn("Image store failed, skipping row",
					zap.String("attribute", attrCode),
					zap.String("title", title),
					zap.Error(err),
				)
				return domain.ScopedValueSet{}, false
			}
			ref = stored
			cache[filepath.Base(localPaths[i])] = ref
		}

		if attr != nil && attr.IsRequired && ref == "" {
			r.logger.Warn("Required image attribute has no value, skipping row",
				zap.String("attribute", attrCode),
				zap.String("title", title),
			)
			return domain.ScopedValueSet{}, false
		}

		values.Set(attr, attrCode, ref)
	}

	return values, true
}

// ResolveVariantImage returns a stored reference for a variant's own image.
// If the filename matches an already-stored product image the cached
// reference is reused instead of re-uploading.
func (r *ImageResolver) ResolveVariantImage(ctx context.Context, src string, ownerID int64, cache map[string]string) (string, error) {
	filename := media.FileName(src)
	if ref, ok := cache[filename]; ok && ref != "" {
		return ref, nil
	}

	attrCode := r.run.Mapping.VariantImages
	if attrCode == "" {
		return "", nil
	}

	localPath, err := r.fetcher.Fetch(ctx, src)
	if err != nil {
		return "", err
	}

	return r.storer.Store(ctx, localPath, ownerID, attrCode)
}
