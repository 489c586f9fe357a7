package payouts

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer throttles successive disbursement attempts in a bulk run so the rail
// is never hit faster than its rate limit allows.
type Pacer interface {
	Wait()
}

type intervalPacer struct {
	limiter *rate.Limiter
}

// NewIntervalPacer spaces calls at least interval apart. The first call
// passes immediately.
func NewIntervalPacer(interval time.Duration) Pacer {
	return &intervalPacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

func (p *intervalPacer) Wait() {
	_ = p.limiter.Wait(context.Background())
}

// NopPacer applies no delay; tests use it to keep bulk runs fast.
type NopPacer struct{}

func (NopPacer) Wait() {}
