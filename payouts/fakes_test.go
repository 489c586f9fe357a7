package payouts

import (
	"fmt"
	"time"

	"github.com/edustack/edu_marketplace/models"
	"github.com/edustack/edu_marketplace/payments"
	"github.com/google/uuid"
)

type fakeLedger struct {
	events []models.Payment
}

func (l *fakeLedger) ListSucceeded(start, end time.Time) ([]models.Payment, error) {
	var out []models.Payment
	for _, e := range l.events {
		if e.Status == models.PaymentStatusSucceeded && !e.OccurredAt.Before(start) && !e.OccurredAt.After(end) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeResolver struct {
	owners map[uuid.UUID]uuid.UUID
}

func (r *fakeResolver) ResolveOwner(productID uuid.UUID, productType string) *uuid.UUID {
	owner, ok := r.owners[productID]
	if !ok {
		return nil
	}
	return &owner
}

type fakeStore struct {
	records map[uuid.UUID]*models.Payout
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[uuid.UUID]*models.Payout)}
}

func (s *fakeStore) add(p models.Payout) *models.Payout {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.records[p.ID] = &p
	return &p
}

func (s *fakeStore) FindByID(id uuid.UUID) (*models.Payout, error) {
	if record, ok := s.records[id]; ok {
		copied := *record
		return &copied, nil
	}
	return nil, nil
}

func (s *fakeStore) FindByPeriodKey(key string) (*models.Payout, error) {
	for _, record := range s.records {
		if record.PeriodKey == key {
			copied := *record
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) Create(payout *models.Payout) error {
	if payout.ID == uuid.Nil {
		payout.ID = uuid.New()
	}
	for _, record := range s.records {
		if record.PeriodKey == payout.PeriodKey {
			return fmt.Errorf("duplicate period key %s", payout.PeriodKey)
		}
	}
	copied := *payout
	s.records[payout.ID] = &copied
	return nil
}

func (s *fakeStore) Save(payout *models.Payout) error {
	if _, ok := s.records[payout.ID]; !ok {
		return fmt.Errorf("no record %s", payout.ID)
	}
	copied := *payout
	s.records[payout.ID] = &copied
	return nil
}

func (s *fakeStore) UpdatePendingTotals(periodKey string, gross, commission, amount int64) (bool, error) {
	for _, record := range s.records {
		if record.PeriodKey == periodKey && record.Status == models.PayoutStatusPending {
			record.GrossAmount = gross
			record.CommissionAmount = commission
			record.Amount = amount
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) ListForPeriod(month, year int, statuses []string) ([]models.Payout, error) {
	var out []models.Payout
	for _, record := range s.records {
		if record.Month == month && record.Year == year && contains(statuses, record.Status) {
			out = append(out, *record)
		}
	}
	return out, nil
}

func (s *fakeStore) ListByIDs(ids []uuid.UUID, statuses []string) ([]models.Payout, error) {
	var out []models.Payout
	for _, id := range ids {
		if record, ok := s.records[id]; ok && contains(statuses, record.Status) {
			out = append(out, *record)
		}
	}
	return out, nil
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

type fakeEducatorStore struct {
	educators map[uuid.UUID]*models.Educator
}

func (s *fakeEducatorStore) FindByUserID(id uuid.UUID) (*models.Educator, error) {
	educator, ok := s.educators[id]
	if !ok {
		return nil, nil
	}
	return educator, nil
}

type fakeGateway struct {
	calls []payments.DisbursementRequest
	resp  *payments.DisbursementResponse
	errs  []error // consumed one per call; nil entries mean success
}

func (g *fakeGateway) CreateDisbursement(req payments.DisbursementRequest) (*payments.DisbursementResponse, error) {
	g.calls = append(g.calls, req)
	if len(g.errs) > 0 {
		err := g.errs[0]
		g.errs = g.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	resp := g.resp
	if resp == nil {
		resp = &payments.DisbursementResponse{ExternalPayoutID: "pout_" + uuid.NewString()[:8], Status: "queued"}
	}
	return resp, nil
}

type countingPacer struct {
	waits int
}

func (p *countingPacer) Wait() {
	p.waits++
}

func strptr(s string) *string {
	return &s
}
