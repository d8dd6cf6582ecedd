package domain

import (
	"time"

	"github.com/google/uuid"
)

// AttributeDefinition is a read-only attribute snapshot loaded once per import run.
// ValuePerLocale/ValuePerChannel drive scope classification.
type AttributeDefinition struct {
	ID              int64
	Code            string
	Type            string
	IsRequired      bool
	ValuePerLocale  bool
	ValuePerChannel bool
	Options         map[string]string // option code -> label
}

// HasOption reports whether the attribute declares the given option code.
func (a *AttributeDefinition) HasOption(code string) bool {
	_, ok := a.Options[code]
	return ok
}

// AttributeFamily groups attributes; configurable products take their
// super attributes from the family's configurable attribute set.
type AttributeFamily struct {
	ID                         int64
	Code                       string
	ConfigurableAttributeCodes []string
}

// Category is a local category mapped from a Shopify collection handle
type Category struct {
	ID   int64
	Code string
}

// Channel is sales-channel master data with its locales and currencies
type Channel struct {
	Code       string
	Locales    []string
	Currencies []string
}

// ProductType distinguishes configurable parents from simple products
type ProductType string

const (
	ProductTypeConfigurable ProductType = "configurable"
	ProductTypeSimple       ProductType = "simple"
)

// Product is a locally persisted product. SKU is the stable identity key
// across runs; for configurable parents it is the Shopify handle.
type Product struct {
	ID                int64
	Type              ProductType
	SKU               string
	Status            bool
	AttributeFamilyID int64
	SuperAttributes   []string
	Variants          []Variant
}

// Variant is a child of a configurable product
type Variant struct {
	ID     int64
	SKU    string
	Status bool
	Values ScopedValueSet
}

// ProductSpec is the write payload for the product store. Channel and
// Locale select where the scoped values nest in the persisted payload.
type ProductSpec struct {
	Type              ProductType
	SKU               string
	Status            bool
	AttributeFamilyID int64
	SuperAttributes   []string
	Channel           string
	Locale            string
	Values            ScopedValueSet
	Variants          map[string]VariantSpec // keyed by variant key (existing id or placeholder)
	Categories        []string
}

// VariantSpec is the nested variant write payload
type VariantSpec struct {
	SKU    string
	Status bool
	Values ScopedValueSet
}

// IdentityMapping links an external (Shopify) id to a local code.
// At most one mapping exists per internal code per import run.
type IdentityMapping struct {
	ID               uuid.UUID
	Code             string
	ExternalID       string
	ImportRunID      uuid.UUID
	ParentExternalID *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// BatchState is the lifecycle state of an import batch
type BatchState string

const (
	BatchStatePending    BatchState = "pending"
	BatchStateProcessing BatchState = "processing"
	BatchStateProcessed  BatchState = "processed"
)

// BatchSummary holds per-batch created/updated counts
type BatchSummary struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// ImportBatch is a fixed-size slice of source rows persisted by the run
// and consumed exactly once by the reconciler.
type ImportBatch struct {
	ID          uuid.UUID
	ImportRunID uuid.UUID
	Data        []byte // raw JSON rows as fetched from the source
	State       BatchState
	Summary     BatchSummary
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
