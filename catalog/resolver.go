package catalog

import (
	"log"

	"github.com/edustack/edu_marketplace/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Kind is one sellable product kind. Adding a new kind means adding one
// implementation here and registering it in NewResolver.
type Kind interface {
	ResolveOwner(db *gorm.DB, productID uuid.UUID) (*uuid.UUID, error)
	Price(db *gorm.DB, productID uuid.UUID) (int64, error)
	IsActive(db *gorm.DB, productID uuid.UUID) (bool, error)
}

type Resolver struct {
	db    *gorm.DB
	kinds map[string]Kind
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{
		db: db,
		kinds: map[string]Kind{
			models.ProductTypeCourse:     courseKind{},
			models.ProductTypeWebinar:    webinarKind{},
			models.ProductTypeTestSeries: testSeriesKind{},
			models.ProductTypeMockTest:   mockTestKind{},
		},
	}
}

// ResolveOwner returns the educator owning the product, or nil when the
// product kind is unknown, the product is missing, or the lookup fails.
// A missing product must not abort revenue aggregation for other educators,
// so lookup failures are logged here and reported as "no owner".
func (r *Resolver) ResolveOwner(productID uuid.UUID, productType string) *uuid.UUID {
	kind, ok := r.kinds[productType]
	if !ok {
		log.Printf("catalog: unknown product type %q for product %s", productType, productID)
		return nil
	}

	owner, err := kind.ResolveOwner(r.db, productID)
	if err != nil {
		log.Printf("catalog: owner lookup failed for %s %s: %v", productType, productID, err)
		return nil
	}
	return owner
}

// Snapshot is a point-in-time view of a sold product, used by operators to
// diagnose payments that were skipped during aggregation.
type Snapshot struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductType string    `json:"product_type"`
	EducatorID  uuid.UUID `json:"educator_id"`
	Price       int64     `json:"price"`
	IsActive    bool      `json:"is_active"`
}

func (r *Resolver) Inspect(productID uuid.UUID, productType string) (*Snapshot, error) {
	kind, ok := r.kinds[productType]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	owner, err := kind.ResolveOwner(r.db, productID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, gorm.ErrRecordNotFound
	}

	price, err := kind.Price(r.db, productID)
	if err != nil {
		return nil, err
	}
	active, err := kind.IsActive(r.db, productID)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		ProductID:   productID,
		ProductType: productType,
		EducatorID:  *owner,
		Price:       price,
		IsActive:    active,
	}, nil
}
