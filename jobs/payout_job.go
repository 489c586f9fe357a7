package jobs

import (
	"log"
	"time"

	"github.com/edustack/edu_marketplace/payouts"
)

// MonthlyPayoutJob aggregates the previous calendar month's revenue and then
// disburses the resulting pending payouts. It is scheduled from main shortly
// after each month rolls over.
type MonthlyPayoutJob struct {
	Aggregator *payouts.Aggregator
	Processor  *payouts.Processor
}

func (j *MonthlyPayoutJob) Run() {
	now := time.Now().UTC()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	previous := firstOfMonth.AddDate(0, -1, 0)
	month, year := int(previous.Month()), previous.Year()

	log.Printf("Running job: monthly payouts for %d/%d...", month, year)

	result, err := j.Aggregator.CalculatePayouts(month, year)
	if err != nil {
		log.Printf("🔥 Monthly payout aggregation for %d/%d failed: %v", month, year, err)
		return
	}
	log.Printf("Monthly aggregation for %d/%d wrote %d record(s)", month, year, len(result.Records))

	bulk, err := j.Processor.ProcessBulk(payouts.BulkRequest{Month: month, Year: year})
	if err != nil {
		log.Printf("🔥 Monthly bulk disbursement for %d/%d failed: %v", month, year, err)
		return
	}
	log.Printf("Monthly disbursement for %d/%d: %d succeeded, %d failed",
		month, year, bulk.Summary.Succeeded, bulk.Summary.Failed)
}
