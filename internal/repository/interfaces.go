package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/jafarshop/pimsync/internal/domain"
)

// AttributeRepository defines read-only attribute metadata access
type AttributeRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.AttributeDefinition, error)
	List(ctx context.Context) ([]*domain.AttributeDefinition, error)
}

// FamilyRepository defines read-only attribute family access
type FamilyRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.AttributeFamily, error)
}

// ChannelRepository defines read-only channel master data access
type ChannelRepository interface {
	List(ctx context.Context) ([]*domain.Channel, error)
}

// CategoryRepository defines read-only category access
type CategoryRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Category, error)
}

// ProductRepository defines product data access methods
type ProductRepository interface {
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
	Create(ctx context.Context, spec *domain.ProductSpec) (*domain.Product, error)
	Update(ctx context.Context, spec *domain.ProductSpec, id int64) (*domain.Product, error)
}

// MappingRepository defines identity mapping data access methods
type MappingRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.IdentityMapping, error)
	Create(ctx context.Context, mapping *domain.IdentityMapping) error
	ListByRunID(ctx context.Context, runID uuid.UUID) ([]*domain.IdentityMapping, error)
}

// BatchRepository defines import batch data access methods
type BatchRepository interface {
	Create(ctx context.Context, batch *domain.ImportBatch) error
	DeleteByRunID(ctx context.Context, runID uuid.UUID) error
	ListByRunID(ctx context.Context, runID uuid.UUID) ([]*domain.ImportBatch, error)
	MarkProcessed(ctx context.Context, id uuid.UUID, summary domain.BatchSummary) error
}

// Repositories aggregates all repositories
type Repositories struct {
	Attribute AttributeRepository
	Family    FamilyRepository
	Channel   ChannelRepository
	Category  CategoryRepository
	Product   ProductRepository
	Mapping   MappingRepository
	Batch     BatchRepository
}
