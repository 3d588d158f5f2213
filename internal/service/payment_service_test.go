package service

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dsa-enrollment-api/internal/models"
	"github.com/noah-isme/dsa-enrollment-api/internal/realtime"
	"github.com/noah-isme/dsa-enrollment-api/internal/repository"
	appErrors "github.com/noah-isme/dsa-enrollment-api/pkg/errors"
	"github.com/noah-isme/dsa-enrollment-api/pkg/jobs"
	"github.com/noah-isme/dsa-enrollment-api/pkg/storage"
)

type paymentFixture struct {
	svc       *PaymentService
	scheduler *fakeScheduler
	hub       *realtime.Hub
	metrics   *MetricsService
	clock     *clock
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	f := &paymentFixture{
		scheduler: newFakeScheduler(),
		hub:       realtime.NewHub(nil),
		metrics:   NewMetricsService(),
		clock:     &clock{now: time.UnixMilli(1736500123456).UTC()},
	}
	f.svc = NewPaymentService(
		repository.NewMemorySessionRepository(time.Hour),
		newTestCatalog(),
		f.scheduler,
		f.hub,
		storage.NewSignedURLSigner("test-secret", time.Hour),
		nil,
		f.metrics,
		PaymentServiceConfig{CardDelay: 3 * time.Second, UPIAppDelay: 2 * time.Second},
		nil,
	)
	f.svc.now = f.clock.Now
	t.Cleanup(f.hub.Close)
	return f
}

func fillCard(t *testing.T, svc *PaymentService, id string) {
	t.Helper()
	values := []struct{ field, value string }{
		{models.FieldCardNumber, "4111111111111111"},
		{models.FieldExpiryDate, "1227"},
		{models.FieldCVV, "123"},
		{models.FieldCardholderName, "Asha Rao"},
		{models.FieldEmail, "asha@example.com"},
		{models.FieldPhone, "9876543210"},
		{models.FieldBillingAddress, "12 Ring Road"},
		{models.FieldCity, "New Delhi"},
		{models.FieldState, "Delhi"},
		{models.FieldPincode, "110001"},
	}
	for _, v := range values {
		_, accepted, err := svc.SetField(context.Background(), id, v.field, v.value)
		require.NoError(t, err)
		require.True(t, accepted, v.field)
	}
}

func TestPaymentCreateWithCourseHandoff(t *testing.T) {
	f := newPaymentFixture(t)

	view, err := f.svc.Create(context.Background(), "iso")
	require.NoError(t, err)
	require.NotNil(t, view.Course)
	assert.Equal(t, "iso", view.Course.ID)
	assert.Equal(t, models.PaymentMethodCard, view.Values.PaymentMethod)
	require.NotNil(t, view.Summary)
	assert.Equal(t, int64(41300), view.Summary.Total)

	empty, err := f.svc.Create(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, empty.Course)
	assert.Nil(t, empty.Summary)

	_, err = f.svc.Create(context.Background(), "nope")
	assert.Equal(t, appErrors.ErrNotFound.Code, errorCode(err))
}

func TestPaymentSetFieldFormatsCardInput(t *testing.T) {
	f := newPaymentFixture(t)
	view, err := f.svc.Create(context.Background(), "iso")
	require.NoError(t, err)

	updated, accepted, err := f.svc.SetField(context.Background(), view.ID, models.FieldCardNumber, "4111-1111 1111 1111")
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, "4111 1111 1111 1111", updated.Values.CardNumber)

	updated, accepted, err = f.svc.SetField(context.Background(), view.ID, models.FieldCardNumber, "41111111111111112")
	require.NoError(t, err)
	assert.False(t, accepted)
	assert.Equal(t, "4111 1111 1111 1111", updated.Values.CardNumber)

	updated, _, err = f.svc.SetField(context.Background(), view.ID, models.FieldExpiryDate, "1227")
	require.NoError(t, err)
	assert.Equal(t, "12/27", updated.Values.ExpiryDate)

	_, _, err = f.svc.SetField(context.Background(), view.ID, models.FieldPaymentMethod, "cash")
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(err))
}

func TestPaymentSubmitRequiresCourse(t *testing.T) {
	f := newPaymentFixture(t)
	view, err := f.svc.Create(context.Background(), "")
	require.NoError(t, err)
	fillCard(t, f.svc, view.ID)

	_, err = f.svc.Submit(context.Background(), view.ID)
	assert.Equal(t, appErrors.ErrNoCourseSelected.Code, errorCode(err))

	_, err = f.svc.SelectCourse(context.Background(), view.ID, "fss")
	require.NoError(t, err)
	processing, err := f.svc.Submit(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FormPhaseProcessing, processing.Phase)
}

func TestPaymentSubmitInvalidUsesActiveMethod(t *testing.T) {
	f := newPaymentFixture(t)
	view, err := f.svc.Create(context.Background(), "iso")
	require.NoError(t, err)

	returned, err := f.svc.Submit(context.Background(), view.ID)
	assert.Equal(t, appErrors.ErrFormInvalid.Code, errorCode(err))
	require.NotNil(t, returned)
	assert.Equal(t, models.FormPhaseEditing, returned.Phase)
	assert.Equal(t, "Card number is required", returned.Errors[models.FieldCardNumber])
	assert.NotContains(t, returned.Errors, models.FieldUPIID)

	_, err = f.svc.SetMethod(context.Background(), view.ID, models.PaymentMethodUPI)
	require.NoError(t, err)
	_, _, err = f.svc.SetField(context.Background(), view.ID, models.FieldUPIID, "not-an-id")
	require.NoError(t, err)

	returned, err = f.svc.Submit(context.Background(), view.ID)
	assert.Equal(t, appErrors.ErrFormInvalid.Code, errorCode(err))
	assert.Equal(t, "Invalid UPI ID format", returned.Errors[models.FieldUPIID])
	assert.NotContains(t, returned.Errors, models.FieldCardNumber)
	assert.False(t, f.scheduler.Pending(taskKey(view.ID)))
}

func TestPaymentSubmitCompletesAfterDelay(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	view, err := f.svc.Create(ctx, "iso")
	require.NoError(t, err)
	fillCard(t, f.svc, view.ID)

	sub, _, err := f.svc.Subscribe(ctx, view.ID)
	require.NoError(t, err)
	defer sub.Cancel()

	processing, err := f.svc.Submit(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FormPhaseProcessing, processing.Phase)
	require.NotNil(t, processing.Processing)
	assert.Equal(t, models.ProcessingViaForm, processing.Processing.Via)
	assert.Equal(t, 3*time.Second, processing.Processing.ReadyAt.Sub(processing.Processing.StartedAt))

	task, ok := f.scheduler.task(taskKey(view.ID))
	require.True(t, ok)
	assert.Equal(t, 3*time.Second, task.Delay)
	assert.Equal(t, int64(1), f.metrics.Snapshot().PaymentsProcessing)

	_, err = f.svc.Submit(ctx, view.ID)
	assert.Equal(t, appErrors.ErrConflict.Code, errorCode(err))

	f.scheduler.fire(t, taskKey(view.ID))

	done, err := f.svc.Get(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FormPhaseSubmitted, done.Phase)
	assert.Equal(t, "TXN-00123456", done.TransactionID)
	assert.Equal(t, int64(41300), done.AmountPaid)
	require.NotNil(t, done.CompletedAt)

	snapshot := f.metrics.Snapshot()
	assert.Equal(t, uint64(1), snapshot.PaymentsCompleted)
	assert.Equal(t, int64(0), snapshot.PaymentsProcessing)

	types := []string{}
	for len(sub.C) > 0 {
		types = append(types, (<-sub.C).Type)
	}
	assert.Equal(t, []string{PaymentEventProcessing, PaymentEventSubmitted}, types)
}

func TestPaymentCancelStopsProcessing(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	view, err := f.svc.Create(ctx, "cs")
	require.NoError(t, err)
	fillCard(t, f.svc, view.ID)

	_, err = f.svc.Cancel(ctx, view.ID)
	assert.Equal(t, appErrors.ErrConflict.Code, errorCode(err))

	_, err = f.svc.Submit(ctx, view.ID)
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FormPhaseEditing, cancelled.Phase)
	assert.Nil(t, cancelled.Processing)
	assert.Equal(t, "Asha Rao", cancelled.Values.CardholderName)
	assert.False(t, f.scheduler.Pending(taskKey(view.ID)))

	f.clock.Advance(time.Minute)
	still, err := f.svc.Get(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FormPhaseEditing, still.Phase)
	assert.Equal(t, int64(0), f.metrics.Snapshot().PaymentsProcessing)
}

func TestPaymentResetWhileProcessing(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	view, err := f.svc.Create(ctx, "iso")
	require.NoError(t, err)
	fillCard(t, f.svc, view.ID)
	_, err = f.svc.Submit(ctx, view.ID)
	require.NoError(t, err)

	reset, err := f.svc.Reset(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FormPhaseEditing, reset.Phase)
	assert.Empty(t, reset.Values.CardNumber)
	assert.Equal(t, models.PaymentMethodCard, reset.Values.PaymentMethod)
	require.NotNil(t, reset.Course)
	assert.Equal(t, "iso", reset.Course.ID)
	assert.False(t, f.scheduler.Pending(taskKey(view.ID)))
}

func TestPaymentWithUPIAppSkipsValidation(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	view, err := f.svc.Create(ctx, "fss")
	require.NoError(t, err)

	_, err = f.svc.PayWithApp(ctx, view.ID, "bhim")
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(err))

	processing, err := f.svc.PayWithApp(ctx, view.ID, "phonepe")
	require.NoError(t, err)
	assert.Equal(t, models.ProcessingViaUPIApp, processing.Processing.Via)
	assert.Equal(t, "phonepe", processing.Processing.App)
	assert.Equal(t, models.PaymentMethodCard, processing.Values.PaymentMethod)
	assert.Empty(t, processing.Errors)

	task, ok := f.scheduler.task(taskKey(view.ID))
	require.True(t, ok)
	assert.Equal(t, 2*time.Second, task.Delay)

	f.scheduler.fire(t, taskKey(view.ID))
	done, err := f.svc.Get(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FormPhaseSubmitted, done.Phase)
	assert.Equal(t, int64(23600), done.AmountPaid)
}

func TestPaymentGetCompletesOverduePayment(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	view, err := f.svc.Create(ctx, "iso")
	require.NoError(t, err)
	fillCard(t, f.svc, view.ID)
	_, err = f.svc.Submit(ctx, view.ID)
	require.NoError(t, err)

	f.clock.Advance(time.Second)
	pending, err := f.svc.Get(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FormPhaseProcessing, pending.Phase)

	// the task is lost, e.g. the process restarted against a shared store
	f.scheduler.Cancel(taskKey(view.ID))
	f.clock.Advance(5 * time.Second)

	done, err := f.svc.Get(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FormPhaseSubmitted, done.Phase)
}

func TestPaymentReceipt(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	view, err := f.svc.Create(ctx, "iso")
	require.NoError(t, err)
	fillCard(t, f.svc, view.ID)

	_, err = f.svc.ReceiptLink(ctx, view.ID)
	assert.Equal(t, appErrors.ErrConflict.Code, errorCode(err))

	_, err = f.svc.Submit(ctx, view.ID)
	require.NoError(t, err)
	f.scheduler.fire(t, taskKey(view.ID))

	link, err := f.svc.ReceiptLink(ctx, view.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, link.Token)

	pdf, name, err := f.svc.Receipt(ctx, link.Token)
	require.NoError(t, err)
	assert.Equal(t, "TXN-00123456.pdf", name)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	_, _, err = f.svc.Receipt(ctx, link.Token+"x")
	assert.Equal(t, appErrors.ErrLinkInvalid.Code, errorCode(err))
}

func TestPaymentUnknownSession(t *testing.T) {
	f := newPaymentFixture(t)
	_, err := f.svc.Get(context.Background(), "missing")
	assert.Equal(t, appErrors.ErrNotFound.Code, errorCode(err))

	_, _, err = f.svc.Subscribe(context.Background(), "missing")
	assert.Equal(t, appErrors.ErrNotFound.Code, errorCode(err))
}

func TestPaymentWithRealScheduler(t *testing.T) {
	scheduler := jobs.NewScheduler("payments-test", jobs.SchedulerConfig{})
	scheduler.Start(context.Background())
	t.Cleanup(scheduler.Stop)

	svc := NewPaymentService(
		repository.NewMemorySessionRepository(time.Hour),
		newTestCatalog(),
		scheduler,
		nil,
		storage.NewSignedURLSigner("test-secret", time.Hour),
		nil,
		nil,
		PaymentServiceConfig{CardDelay: 20 * time.Millisecond, UPIAppDelay: 10 * time.Millisecond},
		nil,
	)
	ctx := context.Background()
	view, err := svc.Create(ctx, "es")
	require.NoError(t, err)
	_, err = svc.PayWithApp(ctx, view.ID, "googlepay")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		current, err := svc.Get(ctx, view.ID)
		return err == nil && current.Phase == models.FormPhaseSubmitted
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPaymentViewMasksCardSecrets(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	view, err := f.svc.Create(ctx, "iso")
	require.NoError(t, err)
	fillCard(t, f.svc, view.ID)

	current, err := f.svc.Get(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, "4111 1111 1111 1111", current.Values.CardNumber)

	raw, err := json.Marshal(current)
	require.NoError(t, err)
	var decoded struct {
		ID     string `json:"id"`
		Values struct {
			CardNumber string `json:"cardNumber"`
			CVV        string `json:"cvv"`
			Email      string `json:"email"`
		} `json:"values"`
		Summary *models.OrderSummary `json:"order_summary"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, view.ID, decoded.ID)
	assert.Equal(t, "**** **** **** 1111", decoded.Values.CardNumber)
	assert.Equal(t, "***", decoded.Values.CVV)
	assert.Equal(t, "asha@example.com", decoded.Values.Email)
	require.NotNil(t, decoded.Summary)
	assert.Equal(t, int64(41300), decoded.Summary.Total)
	assert.NotContains(t, string(raw), "4111 1111")

	again, err := f.svc.Get(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, "123", again.Values.CVV, "stored session keeps the full values")
}

func TestMaskCardNumber(t *testing.T) {
	assert.Equal(t, "", maskCardNumber(""))
	assert.Equal(t, "411", maskCardNumber("411"))
	assert.Equal(t, "**** 1234", maskCardNumber("5678 1234"))
	assert.Equal(t, "**** **** **** 1234", maskCardNumber("4111 1111 1111 1234"))
}

func TestFormatINR(t *testing.T) {
	assert.Equal(t, "INR 0", formatINR(0))
	assert.Equal(t, "INR 999", formatINR(999))
	assert.Equal(t, "INR 41,300", formatINR(41300))
	assert.Equal(t, "INR 1,35,000", formatINR(135000))
	assert.Equal(t, "INR 1,35,00,000", formatINR(13500000))
	assert.Equal(t, "INR 12,34,56,789", formatINR(123456789))
}
