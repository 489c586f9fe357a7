package payouts

import (
	"fmt"
	"log"

	"github.com/edustack/edu_marketplace/models"
	"github.com/edustack/edu_marketplace/payments"
	"github.com/edustack/edu_marketplace/utils"
	"github.com/google/uuid"
)

// Processor drives disbursement attempts against the payout rail. It is
// constructed once with its collaborators so tests can substitute fakes for
// the store and the gateway.
type Processor struct {
	Store           Store
	Educators       EducatorStore
	Gateway         Gateway
	Pacer           Pacer
	MinAmount       int64
	NarrationPrefix string
}

func NewProcessor(store Store, educators EducatorStore, gateway Gateway, pacer Pacer) *Processor {
	return &Processor{
		Store:           store,
		Educators:       educators,
		Gateway:         gateway,
		Pacer:           pacer,
		MinAmount:       payments.MinPayoutAmount,
		NarrationPrefix: "Payout",
	}
}

// ProcessPayout attempts one disbursement. Preconditions are checked in a
// fixed order, each with its own actionable failure; on a gateway failure the
// record keeps its status so the attempt can be retried with the same
// idempotency key.
func (p *Processor) ProcessPayout(payoutID uuid.UUID) (*models.Payout, error) {
	payout, err := p.Store.FindByID(payoutID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payout %s: %w", payoutID, err)
	}
	if payout == nil {
		return nil, ErrPayoutNotFound
	}

	if !payout.Disbursable() {
		return nil, &StateConflictError{Status: payout.Status}
	}

	educator, err := p.Educators.FindByUserID(payout.EducatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load educator %s: %w", payout.EducatorID, err)
	}
	if educator == nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("educator %s has no payout profile", payout.EducatorID)}
	}

	if educator.RazorpayFundAccountID == nil || *educator.RazorpayFundAccountID == "" {
		if educator.HasBankDetails() {
			return nil, &ValidationError{Reason: "educator's bank details are on file but no fund account is registered with the payout rail; re-submit the bank details to register one"}
		}
		return nil, &ValidationError{Reason: "educator has not supplied bank details; ask them to add a bank account before paying out"}
	}

	if payout.Amount < p.MinAmount {
		return nil, &ValidationError{Reason: fmt.Sprintf("payout amount %d is below the minimum disbursable amount %d", payout.Amount, p.MinAmount)}
	}

	// The idempotency key is minted exactly once per record, before the first
	// rail call, and persisted so a retry after a crash presents the same
	// token.
	if payout.IdempotencyKey == nil || *payout.IdempotencyKey == "" {
		key := utils.NewIdempotencyKey()
		payout.IdempotencyKey = &key
		if err := p.Store.Save(payout); err != nil {
			return nil, fmt.Errorf("failed to persist idempotency key for payout %s: %w", payout.ID, err)
		}
	}

	narration := payments.FormatNarration(p.NarrationPrefix, payout.Month, payout.Year)

	resp, err := p.Gateway.CreateDisbursement(payments.DisbursementRequest{
		FundAccountID:  *educator.RazorpayFundAccountID,
		Amount:         payout.Amount,
		Currency:       payout.Currency,
		ReferenceID:    payout.PeriodKey,
		Narration:      narration,
		IdempotencyKey: *payout.IdempotencyKey,
	})
	if err != nil {
		reason := err.Error()
		payout.FailureReason = &reason
		if saveErr := p.Store.Save(payout); saveErr != nil {
			log.Printf("🔥 Failed to record gateway failure on payout %s: %v", payout.ID, saveErr)
		}
		return nil, &GatewayError{Err: err}
	}

	payout.Status = models.PayoutStatusProcessing
	payout.ExternalPayoutID = &resp.ExternalPayoutID
	payout.FailureReason = nil
	if err := p.Store.Save(payout); err != nil {
		return nil, fmt.Errorf("disbursement accepted (payout %s) but persisting the record failed: %w", resp.ExternalPayoutID, err)
	}

	return payout, nil
}

type BulkRequest struct {
	PayoutIDs []uuid.UUID
	Month     int
	Year      int
}

type BulkItemResult struct {
	PayoutID  uuid.UUID `json:"payout_id"`
	PeriodKey string    `json:"period_key"`
	Succeeded bool      `json:"succeeded"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
}

type BulkSummary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

type BulkResult struct {
	Results []BulkItemResult `json:"results"`
	Summary BulkSummary      `json:"summary"`
}

// ProcessBulk disburses a batch strictly sequentially, pacing between
// attempts. One record's failure is recorded in its result entry and never
// aborts the rest of the batch.
func (p *Processor) ProcessBulk(req BulkRequest) (*BulkResult, error) {
	statuses := []string{models.PayoutStatusPending, models.PayoutStatusFailed}

	var records []models.Payout
	var err error
	if len(req.PayoutIDs) > 0 {
		records, err = p.Store.ListByIDs(req.PayoutIDs, statuses)
	} else {
		if _, _, boundsErr := PeriodBounds(req.Month, req.Year); boundsErr != nil {
			return nil, boundsErr
		}
		records, err = p.Store.ListForPeriod(req.Month, req.Year, statuses)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select payouts for bulk processing: %w", err)
	}

	result := &BulkResult{Results: []BulkItemResult{}}
	result.Summary.Total = len(records)

	for i, record := range records {
		if i > 0 {
			p.Pacer.Wait()
		}

		item := BulkItemResult{PayoutID: record.ID, PeriodKey: record.PeriodKey}

		processed, err := p.ProcessPayout(record.ID)
		if err != nil {
			item.Succeeded = false
			item.Status = record.Status
			item.Error = err.Error()
			result.Summary.Failed++
			log.Printf("Bulk payout %s failed: %v", record.PeriodKey, err)
		} else {
			item.Succeeded = true
			item.Status = processed.Status
			result.Summary.Succeeded++
		}
		result.Results = append(result.Results, item)
	}

	log.Printf("Bulk payout run complete: %d total, %d succeeded, %d failed",
		result.Summary.Total, result.Summary.Succeeded, result.Summary.Failed)
	return result, nil
}
