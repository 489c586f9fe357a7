package payouts

import (
	"errors"
	"time"

	"github.com/edustack/edu_marketplace/models"
	"github.com/edustack/edu_marketplace/payments"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentLedger lists settled checkout events for a time window.
type PaymentLedger interface {
	ListSucceeded(start, end time.Time) ([]models.Payment, error)
}

// OwnerResolver maps a sold product to its owning educator, nil when the
// product cannot be resolved.
type OwnerResolver interface {
	ResolveOwner(productID uuid.UUID, productType string) *uuid.UUID
}

// Store persists payout records. Find methods return (nil, nil) when no
// record exists.
type Store interface {
	FindByID(id uuid.UUID) (*models.Payout, error)
	FindByPeriodKey(key string) (*models.Payout, error)
	Create(payout *models.Payout) error
	Save(payout *models.Payout) error

	// UpdatePendingTotals conditionally overwrites a record's totals, keyed
	// on the record still being pending. It reports whether a row was
	// claimed; records in flight or terminal are left untouched.
	UpdatePendingTotals(periodKey string, gross, commission, amount int64) (bool, error)

	ListForPeriod(month, year int, statuses []string) ([]models.Payout, error)
	ListByIDs(ids []uuid.UUID, statuses []string) ([]models.Payout, error)
}

// EducatorStore reads educator payout profiles.
type EducatorStore interface {
	FindByUserID(id uuid.UUID) (*models.Educator, error)
}

// Gateway is the disbursement surface of the payout rail. The production
// implementation is payments.RazorpayXClient; tests substitute a fake.
type Gateway interface {
	CreateDisbursement(req payments.DisbursementRequest) (*payments.DisbursementResponse, error)
}

type GormStore struct {
	DB *gorm.DB
}

func (s *GormStore) FindByID(id uuid.UUID) (*models.Payout, error) {
	var payout models.Payout
	if err := s.DB.First(&payout, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payout, nil
}

func (s *GormStore) FindByPeriodKey(key string) (*models.Payout, error) {
	var payout models.Payout
	if err := s.DB.First(&payout, "period_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payout, nil
}

func (s *GormStore) Create(payout *models.Payout) error {
	return s.DB.Create(payout).Error
}

func (s *GormStore) Save(payout *models.Payout) error {
	return s.DB.Save(payout).Error
}

func (s *GormStore) UpdatePendingTotals(periodKey string, gross, commission, amount int64) (bool, error) {
	res := s.DB.Model(&models.Payout{}).
		Where("period_key = ? AND status = ?", periodKey, models.PayoutStatusPending).
		Updates(map[string]interface{}{
			"gross_amount":      gross,
			"commission_amount": commission,
			"amount":            amount,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) ListForPeriod(month, year int, statuses []string) ([]models.Payout, error) {
	var records []models.Payout
	err := s.DB.
		Where("month = ? AND year = ? AND status IN ?", month, year, statuses).
		Order("created_at asc").
		Find(&records).Error
	return records, err
}

func (s *GormStore) ListByIDs(ids []uuid.UUID, statuses []string) ([]models.Payout, error) {
	var records []models.Payout
	err := s.DB.
		Where("id IN ? AND status IN ?", ids, statuses).
		Order("created_at asc").
		Find(&records).Error
	return records, err
}

type GormLedger struct {
	DB *gorm.DB
}

func (l *GormLedger) ListSucceeded(start, end time.Time) ([]models.Payment, error) {
	var events []models.Payment
	err := l.DB.
		Where("status = ? AND occurred_at BETWEEN ? AND ?", models.PaymentStatusSucceeded, start, end).
		Order("occurred_at asc").
		Find(&events).Error
	return events, err
}

type GormEducatorStore struct {
	DB *gorm.DB
}

func (s *GormEducatorStore) FindByUserID(id uuid.UUID) (*models.Educator, error) {
	var educator models.Educator
	if err := s.DB.Preload("User").First(&educator, "user_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &educator, nil
}
