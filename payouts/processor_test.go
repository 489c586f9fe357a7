package payouts

import (
	"errors"
	"testing"

	"github.com/edustack/edu_marketplace/models"
	"github.com/edustack/edu_marketplace/payments"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func educatorWithFundAccount(id uuid.UUID) *models.Educator {
	return &models.Educator{
		UserID:                id,
		AccountHolderName:     strptr("Asha Verma"),
		AccountNumber:         strptr("50100123456789"),
		IFSCCode:              strptr("HDFC0001234"),
		BankName:              strptr("HDFC Bank"),
		RazorpayContactID:     strptr("cont_00000000000001"),
		RazorpayFundAccountID: strptr("fa_00000000000001"),
	}
}

func pendingPayout(store *fakeStore, educatorID uuid.UUID, month, year int, amount int64) *models.Payout {
	gross := amount * 5 / 4
	return store.add(models.Payout{
		EducatorID:       educatorID,
		Month:            month,
		Year:             year,
		PeriodKey:        models.PeriodKeyFor(educatorID, month, year),
		GrossAmount:      gross,
		CommissionAmount: gross - amount,
		Amount:           amount,
		Currency:         "INR",
		Status:           models.PayoutStatusPending,
	})
}

func newTestProcessor(store *fakeStore, educators *fakeEducatorStore, gateway *fakeGateway) *Processor {
	p := NewProcessor(store, educators, gateway, NopPacer{})
	p.NarrationPrefix = "FP Payout"
	return p
}

func TestProcessPayout_NotFound(t *testing.T) {
	store := newFakeStore()
	gateway := &fakeGateway{}
	p := newTestProcessor(store, &fakeEducatorStore{}, gateway)

	_, err := p.ProcessPayout(uuid.New())
	assert.ErrorIs(t, err, ErrPayoutNotFound)
	assert.Empty(t, gateway.calls)
}

func TestProcessPayout_StateConflictMakesNoGatewayCall(t *testing.T) {
	educatorID := uuid.New()
	store := newFakeStore()
	record := pendingPayout(store, educatorID, 1, 2026, 8000)
	record.Status = models.PayoutStatusPaid
	require.NoError(t, store.Save(record))

	gateway := &fakeGateway{}
	educators := &fakeEducatorStore{educators: map[uuid.UUID]*models.Educator{educatorID: educatorWithFundAccount(educatorID)}}
	p := newTestProcessor(store, educators, gateway)

	_, err := p.ProcessPayout(record.ID)

	var stateErr *StateConflictError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, models.PayoutStatusPaid, stateErr.Status)
	assert.Contains(t, err.Error(), "already paid")
	assert.Empty(t, gateway.calls)
}

func TestProcessPayout_MissingFundAccountMessages(t *testing.T) {
	educatorID := uuid.New()
	store := newFakeStore()
	gateway := &fakeGateway{}

	// Bank details on file, fund account never registered.
	withBank := educatorWithFundAccount(educatorID)
	withBank.RazorpayFundAccountID = nil
	educators := &fakeEducatorStore{educators: map[uuid.UUID]*models.Educator{educatorID: withBank}}
	p := newTestProcessor(store, educators, gateway)

	record := pendingPayout(store, educatorID, 1, 2026, 8000)
	_, err := p.ProcessPayout(record.ID)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "no fund account is registered")

	// No bank details at all: the caller is told what to fix.
	educators.educators[educatorID] = &models.Educator{UserID: educatorID}
	_, err = p.ProcessPayout(record.ID)
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "not supplied bank details")

	assert.Empty(t, gateway.calls)
}

func TestProcessPayout_AmountBelowFloor(t *testing.T) {
	educatorID := uuid.New()
	store := newFakeStore()
	record := pendingPayout(store, educatorID, 1, 2026, 50)

	gateway := &fakeGateway{}
	educators := &fakeEducatorStore{educators: map[uuid.UUID]*models.Educator{educatorID: educatorWithFundAccount(educatorID)}}
	p := newTestProcessor(store, educators, gateway)

	_, err := p.ProcessPayout(record.ID)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "50")
	assert.Contains(t, err.Error(), "100")
	assert.Empty(t, gateway.calls)

	reloaded, _ := store.FindByID(record.ID)
	assert.Equal(t, models.PayoutStatusPending, reloaded.Status)
	assert.Nil(t, reloaded.IdempotencyKey)
}

func TestProcessPayout_Success(t *testing.T) {
	educatorID := uuid.New()
	store := newFakeStore()
	record := pendingPayout(store, educatorID, 1, 2026, 8000)

	gateway := &fakeGateway{resp: &payments.DisbursementResponse{ExternalPayoutID: "pout_123", Status: "queued"}}
	educators := &fakeEducatorStore{educators: map[uuid.UUID]*models.Educator{educatorID: educatorWithFundAccount(educatorID)}}
	p := newTestProcessor(store, educators, gateway)

	processed, err := p.ProcessPayout(record.ID)
	require.NoError(t, err)

	assert.Equal(t, models.PayoutStatusProcessing, processed.Status)
	require.NotNil(t, processed.ExternalPayoutID)
	assert.Equal(t, "pout_123", *processed.ExternalPayoutID)
	require.NotNil(t, processed.IdempotencyKey)

	require.Len(t, gateway.calls, 1)
	call := gateway.calls[0]
	assert.Equal(t, "fa_00000000000001", call.FundAccountID)
	assert.Equal(t, int64(8000), call.Amount)
	assert.Equal(t, "INR", call.Currency)
	assert.Equal(t, record.PeriodKey, call.ReferenceID)
	assert.Equal(t, "FP Payout 1 2026", call.Narration)
	assert.Equal(t, *processed.IdempotencyKey, call.IdempotencyKey)

	// The new state is persisted, not just returned.
	reloaded, _ := store.FindByID(record.ID)
	assert.Equal(t, models.PayoutStatusProcessing, reloaded.Status)
}

func TestProcessPayout_RetryReusesIdempotencyKey(t *testing.T) {
	educatorID := uuid.New()
	store := newFakeStore()
	record := pendingPayout(store, educatorID, 1, 2026, 8000)

	gateway := &fakeGateway{errs: []error{errors.New("rail timeout"), nil}}
	educators := &fakeEducatorStore{educators: map[uuid.UUID]*models.Educator{educatorID: educatorWithFundAccount(educatorID)}}
	p := newTestProcessor(store, educators, gateway)

	_, err := p.ProcessPayout(record.ID)
	var gatewayErr *GatewayError
	require.ErrorAs(t, err, &gatewayErr)

	// Status is untouched so the record stays retryable, and the failure is
	// recorded for the operator.
	afterFailure, _ := store.FindByID(record.ID)
	assert.Equal(t, models.PayoutStatusPending, afterFailure.Status)
	require.NotNil(t, afterFailure.FailureReason)
	assert.Contains(t, *afterFailure.FailureReason, "rail timeout")
	require.NotNil(t, afterFailure.IdempotencyKey)
	firstKey := *afterFailure.IdempotencyKey

	processed, err := p.ProcessPayout(record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusProcessing, processed.Status)
	assert.Nil(t, processed.FailureReason)

	require.Len(t, gateway.calls, 2)
	assert.Equal(t, firstKey, gateway.calls[0].IdempotencyKey)
	assert.Equal(t, firstKey, gateway.calls[1].IdempotencyKey)
}

func TestProcessBulk_FailureIsolation(t *testing.T) {
	first, second, third := uuid.New(), uuid.New(), uuid.New()
	store := newFakeStore()
	recordA := pendingPayout(store, first, 1, 2026, 8000)
	recordB := pendingPayout(store, second, 1, 2026, 9000)
	recordC := pendingPayout(store, third, 1, 2026, 10000)

	// The second educator never registered a fund account.
	noFund := educatorWithFundAccount(second)
	noFund.RazorpayFundAccountID = nil
	educators := &fakeEducatorStore{educators: map[uuid.UUID]*models.Educator{
		first:  educatorWithFundAccount(first),
		second: noFund,
		third:  educatorWithFundAccount(third),
	}}

	gateway := &fakeGateway{}
	p := newTestProcessor(store, educators, gateway)

	result, err := p.ProcessBulk(BulkRequest{PayoutIDs: []uuid.UUID{recordA.ID, recordB.ID, recordC.ID}})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Summary.Total)
	assert.Equal(t, 2, result.Summary.Succeeded)
	assert.Equal(t, 1, result.Summary.Failed)
	require.Len(t, result.Results, 3)
	assert.True(t, result.Results[0].Succeeded)
	assert.False(t, result.Results[1].Succeeded)
	assert.Contains(t, result.Results[1].Error, "fund account")
	assert.True(t, result.Results[2].Succeeded)

	reloadedA, _ := store.FindByID(recordA.ID)
	reloadedB, _ := store.FindByID(recordB.ID)
	reloadedC, _ := store.FindByID(recordC.ID)
	assert.Equal(t, models.PayoutStatusProcessing, reloadedA.Status)
	assert.Equal(t, models.PayoutStatusPending, reloadedB.Status)
	assert.Equal(t, models.PayoutStatusProcessing, reloadedC.Status)
}

func TestProcessBulk_PacesBetweenAttempts(t *testing.T) {
	first, second, third := uuid.New(), uuid.New(), uuid.New()
	store := newFakeStore()
	a := pendingPayout(store, first, 2, 2026, 8000)
	b := pendingPayout(store, second, 2, 2026, 9000)
	c := pendingPayout(store, third, 2, 2026, 10000)

	educators := &fakeEducatorStore{educators: map[uuid.UUID]*models.Educator{
		first:  educatorWithFundAccount(first),
		second: educatorWithFundAccount(second),
		third:  educatorWithFundAccount(third),
	}}

	pacer := &countingPacer{}
	p := NewProcessor(store, educators, &fakeGateway{}, pacer)

	result, err := p.ProcessBulk(BulkRequest{PayoutIDs: []uuid.UUID{a.ID, b.ID, c.ID}})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Summary.Succeeded)
	// Pacing happens between attempts, not before the first one.
	assert.Equal(t, 2, pacer.waits)
}

func TestProcessBulk_SelectsByPeriod(t *testing.T) {
	first, second := uuid.New(), uuid.New()
	store := newFakeStore()
	pendingPayout(store, first, 6, 2026, 8000)
	settled := pendingPayout(store, second, 6, 2026, 9000)
	settled.Status = models.PayoutStatusPaid
	require.NoError(t, store.Save(settled))
	// Different period, must not be selected.
	pendingPayout(store, uuid.New(), 7, 2026, 5000)

	educators := &fakeEducatorStore{educators: map[uuid.UUID]*models.Educator{
		first:  educatorWithFundAccount(first),
		second: educatorWithFundAccount(second),
	}}
	p := newTestProcessor(store, educators, &fakeGateway{})

	result, err := p.ProcessBulk(BulkRequest{Month: 6, Year: 2026})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Summary.Total)
	assert.Equal(t, 1, result.Summary.Succeeded)
}

func TestProcessBulk_RejectsInvalidPeriod(t *testing.T) {
	p := newTestProcessor(newFakeStore(), &fakeEducatorStore{}, &fakeGateway{})
	_, err := p.ProcessBulk(BulkRequest{Month: 0, Year: 2026})
	assert.Error(t, err)
}
