package importer_test

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jafarshop/pimsync/internal/config"
	"github.com/jafarshop/pimsync/internal/domain"
	"github.com/jafarshop/pimsync/internal/importer"
	"github.com/jafarshop/pimsync/internal/media"
	"github.com/jafarshop/pimsync/internal/repository"
	"github.com/jafarshop/pimsync/internal/shopify"
	"github.com/jafarshop/pimsync/pkg/errors"
)

// In-memory repository fakes shared by the importer tests.

type fakeAttributeRepo struct {
	attrs map[string]*domain.AttributeDefinition
}

func (f *fakeAttributeRepo) GetByCode(_ context.Context, code string) (*domain.AttributeDefinition, error) {
	if attr, ok := f.attrs[code]; ok {
		return attr, nil
	}
	return nil, &errors.ErrNotFound{Resource: "attribute", ID: code}
}

func (f *fakeAttributeRepo) List(_ context.Context) ([]*domain.AttributeDefinition, error) {
	var attrs []*domain.AttributeDefinition
	for _, attr := range f.attrs {
		attrs = append(attrs, attr)
	}
	return attrs, nil
}

type fakeFamilyRepo struct {
	families map[int64]*domain.AttributeFamily
}

func (f *fakeFamilyRepo) GetByID(_ context.Context, id int64) (*domain.AttributeFamily, error) {
	if family, ok := f.families[id]; ok {
		return family, nil
	}
	return nil, &errors.ErrNotFound{Resource: "attribute_family", ID: strconv.FormatInt(id, 10)}
}

type fakeChannelRepo struct {
	channels []*domain.Channel
}

func (f *fakeChannelRepo) List(_ context.Context) ([]*domain.Channel, error) {
	return f.channels, nil
}

type fakeCategoryRepo struct {
	categories map[string]*domain.Category
}

func (f *fakeCategoryRepo) GetByCode(_ context.Context, code string) (*domain.Category, error) {
	if category, ok := f.categories[code]; ok {
		return category, nil
	}
	return nil, &errors.ErrNotFound{Resource: "category", ID: code}
}

// fakeProductRepo mimics the store's upsert semantics: Update creates
// missing variant children by SKU and reports them back on the parent.
type fakeProductRepo struct {
	nextID   int64
	bySKU    map[string]*domain.Product
	byID     map[int64]*domain.Product
	lastSpec map[int64]*domain.ProductSpec
	creates  int
	updates  int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		bySKU:    map[string]*domain.Product{},
		byID:     map[int64]*domain.Product{},
		lastSpec: map[int64]*domain.ProductSpec{},
	}
}

func (f *fakeProductRepo) GetBySKU(_ context.Context, sku string) (*domain.Product, error) {
	if product, ok := f.bySKU[sku]; ok {
		return product, nil
	}
	return nil, &errors.ErrNotFound{Resource: "product", ID: sku}
}

func (f *fakeProductRepo) Create(_ context.Context, spec *domain.ProductSpec) (*domain.Product, error) {
	f.nextID++
	f.creates++
	product := &domain.Product{
		ID:                f.nextID,
		Type:              spec.Type,
		SKU:               spec.SKU,
		Status:            spec.Status,
		AttributeFamilyID: spec.AttributeFamilyID,
		SuperAttributes:   spec.SuperAttributes,
	}
	f.bySKU[spec.SKU] = product
	f.byID[product.ID] = product
	return product, nil
}

func (f *fakeProductRepo) Update(_ context.Context, spec *domain.ProductSpec, id int64) (*domain.Product, error) {
	product, ok := f.byID[id]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "product", ID: strconv.FormatInt(id, 10)}
	}

	f.updates++
	f.lastSpec[id] = spec
	product.Status = spec.Status

	if spec.Variants != nil {
		product.Variants = nil
		for _, variantSpec := range spec.Variants {
			child, ok := f.bySKU[variantSpec.SKU]
			if !ok {
				f.nextID++
				child = &domain.Product{
					ID:     f.nextID,
					Type:   domain.ProductTypeSimple,
					SKU:    variantSpec.SKU,
					Status: variantSpec.Status,
				}
				f.bySKU[child.SKU] = child
				f.byID[child.ID] = child
			}
			product.Variants = append(product.Variants, domain.Variant{
				ID:     child.ID,
				SKU:    child.SKU,
				Status: variantSpec.Status,
				Values: variantSpec.Values,
			})
		}
	}

	return product, nil
}

type fakeMappingRepo struct {
	byCode  map[string]*domain.IdentityMapping
	creates int
}

func newFakeMappingRepo() *fakeMappingRepo {
	return &fakeMappingRepo{byCode: map[string]*domain.IdentityMapping{}}
}

func (f *fakeMappingRepo) GetByCode(_ context.Context, code string) (*domain.IdentityMapping, error) {
	if mapping, ok := f.byCode[code]; ok {
		return mapping, nil
	}
	return nil, &errors.ErrNotFound{Resource: "identity_mapping", ID: code}
}

func (f *fakeMappingRepo) Create(_ context.Context, mapping *domain.IdentityMapping) error {
	if _, ok := f.byCode[mapping.Code]; ok {
		return nil
	}
	if mapping.ID == uuid.Nil {
		mapping.ID = uuid.New()
	}
	f.byCode[mapping.Code] = mapping
	f.creates++
	return nil
}

func (f *fakeMappingRepo) ListByRunID(_ context.Context, runID uuid.UUID) ([]*domain.IdentityMapping, error) {
	var mappings []*domain.IdentityMapping
	for _, mapping := range f.byCode {
		if mapping.ImportRunID == runID {
			mappings = append(mappings, mapping)
		}
	}
	return mappings, nil
}

type fakeBatchRepo struct {
	batches   map[uuid.UUID]*domain.ImportBatch
	processed map[uuid.UUID]domain.BatchSummary
}

func newFakeBatchRepo() *fakeBatchRepo {
	return &fakeBatchRepo{
		batches:   map[uuid.UUID]*domain.ImportBatch{},
		processed: map[uuid.UUID]domain.BatchSummary{},
	}
}

func (f *fakeBatchRepo) Create(_ context.Context, batch *domain.ImportBatch) error {
	if batch.ID == uuid.Nil {
		batch.ID = uuid.New()
	}
	f.batches[batch.ID] = batch
	return nil
}

func (f *fakeBatchRepo) DeleteByRunID(_ context.Context, runID uuid.UUID) error {
	for id, batch := range f.batches {
		if batch.ImportRunID == runID {
			delete(f.batches, id)
		}
	}
	return nil
}

func (f *fakeBatchRepo) ListByRunID(_ context.Context, runID uuid.UUID) ([]*domain.ImportBatch, error) {
	var batches []*domain.ImportBatch
	for _, batch := range f.batches {
		if batch.ImportRunID == runID {
			batches = append(batches, batch)
		}
	}
	return batches, nil
}

func (f *fakeBatchRepo) MarkProcessed(_ context.Context, id uuid.UUID, summary domain.BatchSummary) error {
	if batch, ok := f.batches[id]; ok {
		batch.State = domain.BatchStateProcessed
		batch.Summary = summary
	}
	f.processed[id] = summary
	return nil
}

// fakeStorer records stores and returns deterministic references
type fakeStorer struct {
	stores int
}

func (f *fakeStorer) Store(_ context.Context, localPath string, ownerID int64, attributeCode string) (string, error) {
	f.stores++
	return "product/" + strconv.FormatInt(ownerID, 10) + "/" + attributeCode + "/" + filepath.Base(localPath), nil
}

// fixture bundles a ready-to-use set of fakes around default master data
type fixture struct {
	repos    *repository.Repositories
	products *fakeProductRepo
	mappings *fakeMappingRepo
	batches  *fakeBatchRepo
	storer   *fakeStorer
}

func newFixture() *fixture {
	attrs := map[string]*domain.AttributeDefinition{
		"name":    {ID: 1, Code: "name", Type: "text", IsRequired: true, ValuePerLocale: true},
		"url_key": {ID: 2, Code: "url_key", Type: "text"},
		"color":   {ID: 3, Code: "color", Type: "select", Options: map[string]string{"red": "Red", "blue": "Blue"}},
		"price":   {ID: 4, Code: "price", Type: "price"},
		"sku":     {ID: 5, Code: "sku", Type: "text"},
		"barcode": {ID: 6, Code: "barcode", Type: "text"},
		"care":    {ID: 7, Code: "care", Type: "textarea"},
	}

	products := newFakeProductRepo()
	mappings := newFakeMappingRepo()
	batches := newFakeBatchRepo()

	return &fixture{
		repos: &repository.Repositories{
			Attribute: &fakeAttributeRepo{attrs: attrs},
			Family: &fakeFamilyRepo{families: map[int64]*domain.AttributeFamily{
				1: {ID: 1, Code: "tees", ConfigurableAttributeCodes: []string{"color"}},
			}},
			Channel: &fakeChannelRepo{channels: []*domain.Channel{
				{Code: "default", Locales: []string{"en_US"}, Currencies: []string{"USD"}},
			}},
			Category: &fakeCategoryRepo{categories: map[string]*domain.Category{
				"summer": {ID: 1, Code: "summer"},
			}},
			Product: products,
			Mapping: mappings,
			Batch:   batches,
		},
		products: products,
		mappings: mappings,
		batches:  batches,
		storer:   &fakeStorer{},
	}
}

func defaultMapping() *importer.ImportMapping {
	return &importer.ImportMapping{
		FamilyVariant: 1,
		Fields: map[string]string{
			"title":  "name",
			"handle": "url_key",
			"price":  "price",
			"sku":    "sku",
		},
	}
}

func newRun(t *testing.T, fx *fixture, mapping *importer.ImportMapping) *importer.RunContext {
	t.Helper()
	run, err := importer.NewRunContext(context.Background(), config.ImportConfig{
		Locale:   "en_US",
		Channel:  "default",
		Currency: "USD",
	}, mapping, fx.repos, zap.NewNop())
	require.NoError(t, err)
	return run
}

func newTestReconciler(t *testing.T, fx *fixture, mapping *importer.ImportMapping) *importer.Reconciler {
	t.Helper()
	run := newRun(t, fx, mapping)
	fetcher := media.NewFetcher(t.TempDir(), zap.NewNop())
	return importer.NewReconciler(run, fx.repos, fetcher, fx.storer, zap.NewNop())
}

// productRow builds a product edge from its wire JSON form
func productRow(t *testing.T, raw string) shopify.ProductEdge {
	t.Helper()
	edges, err := shopify.ParseProductEdges([]byte("[" + raw + "]"))
	require.NoError(t, err)
	require.Len(t, edges, 1)
	return edges[0]
}
