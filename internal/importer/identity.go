package importer

import (
	"context"
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/jafarshop/pimsync/internal/domain"
	"github.com/jafarshop/pimsync/internal/repository"
	"github.com/jafarshop/pimsync/pkg/errors"
)

// IdentityMapper is the idempotency layer between external catalog ids and
// local codes. Ensure never creates a second mapping for a code already
// mapped in this run.
type IdentityMapper struct {
	run      *RunContext
	mappings repository.MappingRepository
	logger   *zap.Logger
}

// NewIdentityMapper creates an identity mapper for one run
func NewIdentityMapper(run *RunContext, mappings repository.MappingRepository, logger *zap.Logger) *IdentityMapper {
	return &IdentityMapper{
		run:      run,
		mappings: mappings,
		logger:   logger,
	}
}

// Ensure looks up the mapping by local code and records one if absent.
// Variant mappings carry the parent's external id for traceability.
func (m *IdentityMapper) Ensure(ctx context.Context, code, externalID string, parentExternalID *string) error {
	_, err := m.mappings.GetByCode(ctx, code)
	if err == nil {
		return nil
	}

	var notFound *errors.ErrNotFound
	if !stderrors.As(err, &notFound) {
		return err
	}

	mapping := &domain.IdentityMapping{
		Code:             code,
		ExternalID:       externalID,
		ImportRunID:      m.run.RunID,
		ParentExternalID: parentExternalID,
	}

	if err := m.mappings.Create(ctx, mapping); err != nil {
		return err
	}

	m.logger.Debug("Recorded identity mapping",
		zap.String("code", code),
		zap.String("external_id", externalID),
	)

	return nil
}
