package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/jafarshop/pimsync/internal/domain"
	"github.com/jafarshop/pimsync/pkg/errors"
)

type productRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *sql.DB, logger *zap.Logger) *productRepository {
	return &productRepository{
		db:     db,
		logger: logger,
	}
}

func (r *productRepository) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	query := `
		SELECT id, type, sku, status, COALESCE(attribute_family_id, 0), COALESCE(super_attributes, '[]')
		FROM products
		WHERE sku = $1
	`

	var product domain.Product
	var superAttrs []byte

	err := r.db.QueryRowContext(ctx, query, sku).Scan(
		&product.ID,
		&product.Type,
		&product.SKU,
		&product.Status,
		&product.AttributeFamilyID,
		&superAttrs,
	)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "product", ID: sku}
	}
	if err != nil {
		r.logger.Error("Failed to get product by SKU", zap.Error(err))
		return nil, err
	}

	if err := json.Unmarshal(superAttrs, &product.SuperAttributes); err != nil {
		return nil, err
	}

	if product.Type == domain.ProductTypeConfigurable {
		if err := r.loadVariants(ctx, &product); err != nil {
			return nil, err
		}
	}

	return &product, nil
}

func (r *productRepository) Create(ctx context.Context, spec *domain.ProductSpec) (*domain.Product, error) {
	query := `
		INSERT INTO products (type, sku, status, attribute_family_id, super_attributes, attribute_values, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id
	`

	superAttrs, err := json.Marshal(spec.SuperAttributes)
	if err != nil {
		return nil, err
	}
	values, err := json.Marshal(spec.Values.Payload(spec.Channel, spec.Locale))
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		Type:              spec.Type,
		SKU:               spec.SKU,
		Status:            spec.Status,
		AttributeFamilyID: spec.AttributeFamilyID,
		SuperAttributes:   spec.SuperAttributes,
	}

	err = r.db.QueryRowContext(ctx, query,
		spec.Type,
		spec.SKU,
		spec.Status,
		spec.AttributeFamilyID,
		superAttrs,
		values,
		time.Now(),
	).Scan(&product.ID)

	if err != nil {
		r.logger.Error("Failed to create product", zap.String("sku", spec.SKU), zap.Error(err))
		return nil, err
	}

	return product, nil
}

// Update writes the product payload and upserts any nested variant children
// by SKU, so callers see ids for freshly created variants afterwards.
func (r *productRepository) Update(ctx context.Context, spec *domain.ProductSpec, id int64) (*domain.Product, error) {
	query := `
		UPDATE products
		SET status = $2, attribute_values = $3, updated_at = $4
		WHERE id = $1
		RETURNING id, type, sku, status, COALESCE(attribute_family_id, 0)
	`

	values, err := json.Marshal(spec.Values.Payload(spec.Channel, spec.Locale))
	if err != nil {
		return nil, err
	}

	var product domain.Product
	err = r.db.QueryRowContext(ctx, query, id, spec.Status, values, time.Now()).Scan(
		&product.ID,
		&product.Type,
		&product.SKU,
		&product.Status,
		&product.AttributeFamilyID,
	)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "product", ID: spec.SKU}
	}
	if err != nil {
		r.logger.Error("Failed to update product", zap.String("sku", spec.SKU), zap.Error(err))
		return nil, err
	}

	if len(spec.Categories) > 0 {
		if err := r.replaceCategories(ctx, product.ID, spec.Categories); err != nil {
			return nil, err
		}
	}

	for _, variant := range spec.Variants {
		if err := r.upsertVariant(ctx, &product, variant, spec.Channel, spec.Locale); err != nil {
			return nil, err
		}
	}

	if product.Type == domain.ProductTypeConfigurable {
		if err := r.loadVariants(ctx, &product); err != nil {
			return nil, err
		}
	}

	return &product, nil
}

func (r *productRepository) loadVariants(ctx context.Context, product *domain.Product) error {
	query := `
		SELECT id, sku, status
		FROM products
		WHERE parent_id = $1
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, product.ID)
	if err != nil {
		r.logger.Error("Failed to load variants", zap.String("sku", product.SKU), zap.Error(err))
		return err
	}
	defer rows.Close()

	product.Variants = nil
	for rows.Next() {
		var variant domain.Variant
		if err := rows.Scan(&variant.ID, &variant.SKU, &variant.Status); err != nil {
			return err
		}
		product.Variants = append(product.Variants, variant)
	}

	return rows.Err()
}

func (r *productRepository) upsertVariant(ctx context.Context, parent *domain.Product, variant domain.VariantSpec, channel, locale string) error {
	query := `
		INSERT INTO products (type, sku, status, attribute_family_id, parent_id, attribute_values, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (sku) DO UPDATE SET
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`

	values, err := json.Marshal(variant.Values.Payload(channel, locale))
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query,
		domain.ProductTypeSimple,
		variant.SKU,
		variant.Status,
		parent.AttributeFamilyID,
		parent.ID,
		values,
		time.Now(),
	)

	if err != nil {
		r.logger.Error("Failed to upsert variant", zap.String("sku", variant.SKU), zap.Error(err))
		return err
	}

	return nil
}

func (r *productRepository) replaceCategories(ctx context.Context, productID int64, categories []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM product_categories WHERE product_id = $1`, productID); err != nil {
		r.logger.Error("Failed to clear product categories", zap.Error(err))
		return err
	}

	query := `
		INSERT INTO product_categories (product_id, category_code)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	for _, code := range categories {
		if _, err := r.db.ExecContext(ctx, query, productID, code); err != nil {
			r.logger.Error("Failed to attach product category", zap.String("category", code), zap.Error(err))
			return err
		}
	}

	return nil
}
