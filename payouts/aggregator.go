package payouts

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/edustack/edu_marketplace/models"
	"github.com/google/uuid"
)

// DefaultCommissionRate is the platform's cut of every sale.
const DefaultCommissionRate = 0.20

// Aggregator turns a billing period's succeeded payments into one payout
// record per educator. Re-running it for the same period is safe: records
// already processing, paid, or failed are never overwritten.
type Aggregator struct {
	Ledger         PaymentLedger
	Resolver       OwnerResolver
	Store          Store
	CommissionRate float64
	Currency       string
}

func NewAggregator(ledger PaymentLedger, resolver OwnerResolver, store Store, commissionRate float64) *Aggregator {
	return &Aggregator{
		Ledger:         ledger,
		Resolver:       resolver,
		Store:          store,
		CommissionRate: commissionRate,
		Currency:       "INR",
	}
}

// AggregationResult is one aggregation run: the records created or updated,
// plus counts for the events and records that were skipped.
type AggregationResult struct {
	Records        []models.Payout `json:"records"`
	SkippedEvents  int             `json:"skipped_events"`
	SkippedRecords int             `json:"skipped_records"`
}

// PeriodBounds returns the inclusive time window of a billing month:
// midnight on day 1 through 23:59:59 on the last calendar day.
func PeriodBounds(month, year int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, fmt.Errorf("month must be between 1 and 12, got %d", month)
	}
	if year < 1000 || year > 9999 {
		return time.Time{}, time.Time{}, fmt.Errorf("year must be a four-digit year, got %d", year)
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Second)
	return start, end, nil
}

type runningTotal struct {
	gross      int64
	commission int64
}

// CalculatePayouts aggregates every succeeded payment in the period into
// per-educator totals and upserts one payout record per educator.
// Commission is rounded per event, not on the aggregate, so each
// transaction's contribution stays auditable.
func (a *Aggregator) CalculatePayouts(month, year int) (*AggregationResult, error) {
	start, end, err := PeriodBounds(month, year)
	if err != nil {
		return nil, err
	}

	events, err := a.Ledger.ListSucceeded(start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list succeeded payments: %w", err)
	}

	result := &AggregationResult{Records: []models.Payout{}}
	totals := make(map[uuid.UUID]*runningTotal)
	var order []uuid.UUID

	for _, event := range events {
		owner := a.Resolver.ResolveOwner(event.ProductID, event.ProductType)
		if owner == nil {
			result.SkippedEvents++
			continue
		}

		total, ok := totals[*owner]
		if !ok {
			total = &runningTotal{}
			totals[*owner] = total
			order = append(order, *owner)
		}
		total.gross += event.Amount
		total.commission += int64(math.Round(float64(event.Amount) * a.CommissionRate))
	}

	if result.SkippedEvents > 0 {
		log.Printf("Aggregation %d/%d: skipped %d payment(s) with unresolvable products", month, year, result.SkippedEvents)
	}

	for _, educatorID := range order {
		total := totals[educatorID]
		if total.gross == 0 {
			continue
		}
		payable := total.gross - total.commission
		periodKey := models.PeriodKeyFor(educatorID, month, year)

		existing, err := a.Store.FindByPeriodKey(periodKey)
		if err != nil {
			return nil, fmt.Errorf("failed to look up payout %s: %w", periodKey, err)
		}

		if existing == nil {
			record := models.Payout{
				EducatorID:       educatorID,
				Month:            month,
				Year:             year,
				PeriodKey:        periodKey,
				GrossAmount:      total.gross,
				CommissionAmount: total.commission,
				Amount:           payable,
				Currency:         a.Currency,
				Status:           models.PayoutStatusPending,
				ScheduledDate:    end,
			}
			if err := a.Store.Create(&record); err != nil {
				return nil, fmt.Errorf("failed to create payout %s: %w", periodKey, err)
			}
			result.Records = append(result.Records, record)
			continue
		}

		claimed, err := a.Store.UpdatePendingTotals(periodKey, total.gross, total.commission, payable)
		if err != nil {
			return nil, fmt.Errorf("failed to update payout %s: %w", periodKey, err)
		}
		if !claimed {
			// The record is being disbursed or already settled; its money
			// must not be recomputed underneath it.
			result.SkippedRecords++
			continue
		}

		existing.GrossAmount = total.gross
		existing.CommissionAmount = total.commission
		existing.Amount = payable
		result.Records = append(result.Records, *existing)
	}

	log.Printf("Aggregation %d/%d: %d record(s) written, %d in-flight record(s) left untouched", month, year, len(result.Records), result.SkippedRecords)
	return result, nil
}
