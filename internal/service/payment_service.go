package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/noah-isme/dsa-enrollment-api/internal/forms"
	"github.com/noah-isme/dsa-enrollment-api/internal/models"
	"github.com/noah-isme/dsa-enrollment-api/internal/realtime"
	appErrors "github.com/noah-isme/dsa-enrollment-api/pkg/errors"
	"github.com/noah-isme/dsa-enrollment-api/pkg/export"
	"github.com/noah-isme/dsa-enrollment-api/pkg/jobs"
)

const (
	issuerName  = "Delhi Safety Academy"
	receiptKind = "receipt"
	paymentTask = "payment.complete"
)

// Payment stream event types.
const (
	PaymentEventSnapshot   = "snapshot"
	PaymentEventUpdated    = "updated"
	PaymentEventProcessing = "processing"
	PaymentEventSubmitted  = "submitted"
	PaymentEventCancelled  = "cancelled"
	PaymentEventReset      = "reset"
)

type paymentCatalog interface {
	Get(ctx context.Context, id string) (*models.CourseOffering, error)
	Summarize(course models.CourseOffering) models.OrderSummary
}

type paymentScheduler interface {
	Schedule(task jobs.Task) error
	Cancel(key string) bool
	Pending(key string) bool
}

type paymentEvents interface {
	Publish(topic string, event realtime.Event)
	Subscribe(topic string) *realtime.Subscription
}

type receiptSigner interface {
	Generate(sessionID, kind string) (string, time.Time, error)
	Parse(token string) (sessionID, kind string, expiresAt time.Time, err error)
}

// PaymentServiceConfig holds the simulated processing delays.
type PaymentServiceConfig struct {
	CardDelay   time.Duration
	UPIAppDelay time.Duration
}

// PaymentView is a payment session together with the priced order summary of its course.
type PaymentView struct {
	*forms.Payment
	Summary *models.OrderSummary `json:"order_summary,omitempty"`
}

// MarshalJSON masks the CVV and all but the last four card digits. The stored session keeps them.
func (v PaymentView) MarshalJSON() ([]byte, error) {
	type plain PaymentView
	if v.Payment == nil {
		return json.Marshal(plain(v))
	}
	masked := *v.Payment
	masked.Values.CardNumber = maskCardNumber(masked.Values.CardNumber)
	masked.Values.CVV = strings.Repeat("*", len(masked.Values.CVV))
	return json.Marshal(plain{Payment: &masked, Summary: v.Summary})
}

func maskCardNumber(number string) string {
	remaining := 0
	for _, r := range number {
		if r >= '0' && r <= '9' {
			remaining++
		}
	}
	out := []rune(number)
	for i, r := range out {
		if r < '0' || r > '9' {
			continue
		}
		if remaining > 4 {
			out[i] = '*'
		}
		remaining--
	}
	return string(out)
}

// ReceiptLink is a signed, expiring link to a payment receipt.
type ReceiptLink struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PaymentService drives payment form sessions and their simulated processing.
type PaymentService struct {
	sessions  sessionGateway
	locks     *keyedMutex
	catalog   paymentCatalog
	scheduler paymentScheduler
	events    paymentEvents
	signer    receiptSigner
	pdf       pdfRenderer
	metrics   *MetricsService
	cfg       PaymentServiceConfig
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(
	store SessionRepository,
	catalog paymentCatalog,
	scheduler paymentScheduler,
	events paymentEvents,
	signer receiptSigner,
	pdf pdfRenderer,
	metrics *MetricsService,
	cfg PaymentServiceConfig,
	logger *zap.Logger,
) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter(issuerName)
	}
	if events == nil {
		events = realtime.NewHub(logger)
	}
	if cfg.CardDelay <= 0 {
		cfg.CardDelay = 3 * time.Second
	}
	if cfg.UPIAppDelay <= 0 {
		cfg.UPIAppDelay = 2 * time.Second
	}
	return &PaymentService{
		sessions:  sessionGateway{kind: models.FormKindPayment, store: store, metrics: metrics, logger: logger},
		locks:     newKeyedMutex(),
		catalog:   catalog,
		scheduler: scheduler,
		events:    events,
		signer:    signer,
		pdf:       pdf,
		metrics:   metrics,
		cfg:       cfg,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

// Create opens a payment session, preselecting courseID when given.
func (s *PaymentService) Create(ctx context.Context, courseID string) (*PaymentView, error) {
	var course *models.CourseOffering
	if strings.TrimSpace(courseID) != "" {
		found, err := s.catalog.Get(ctx, courseID)
		if err != nil {
			return nil, err
		}
		course = found
	}
	payment := forms.NewPayment(s.newID(), course, s.now())
	if err := s.sessions.save(ctx, payment.ID, payment); err != nil {
		return nil, err
	}
	s.logger.Info("payment session opened", zap.String("session_id", payment.ID), zap.String("course_id", courseID))
	return s.view(payment), nil
}

// Get loads a payment. A processing payment whose completion task is gone but whose delay has
// elapsed is completed on read.
func (s *PaymentService) Get(ctx context.Context, id string) (*PaymentView, error) {
	payment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.overdue(payment) {
		return s.complete(ctx, id)
	}
	return s.view(payment), nil
}

// SelectCourse replaces the course being paid for.
func (s *PaymentService) SelectCourse(ctx context.Context, id, courseID string) (*PaymentView, error) {
	course, err := s.catalog.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, PaymentEventUpdated, func(p *forms.Payment) error {
		return p.SelectCourse(*course, s.now())
	})
}

// SetMethod switches between card and UPI.
func (s *PaymentService) SetMethod(ctx context.Context, id string, method models.PaymentMethod) (*PaymentView, error) {
	return s.mutate(ctx, id, PaymentEventUpdated, func(p *forms.Payment) error {
		return p.SetMethod(method, s.now())
	})
}

// SetField updates one field. The boolean is false when a formatted field rejected the keystroke
// and the session was left unchanged.
func (s *PaymentService) SetField(ctx context.Context, id, field, value string) (*PaymentView, bool, error) {
	accepted := false
	view, err := s.mutate(ctx, id, PaymentEventUpdated, func(p *forms.Payment) error {
		ok, err := p.SetField(field, value, s.now())
		accepted = ok
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return view, accepted, nil
}

// Validate recomputes the error set for the active method.
func (s *PaymentService) Validate(ctx context.Context, id string) (*PaymentView, error) {
	return s.mutate(ctx, id, PaymentEventUpdated, func(p *forms.Payment) error {
		_, err := p.Validate(s.now())
		return err
	})
}

// Submit validates the form and starts processing. An invalid form is saved with its errors and
// returned together with a FORM_INVALID error.
func (s *PaymentService) Submit(ctx context.Context, id string) (*PaymentView, error) {
	var invalid error
	view, err := s.startProcessing(ctx, id, s.cfg.CardDelay, func(p *forms.Payment) (bool, error) {
		err := p.BeginSubmit(s.now(), s.cfg.CardDelay)
		if errors.Is(err, forms.ErrInvalid) {
			s.metrics.RecordSubmission(models.FormKindPayment, p.Errors)
			invalid = invalidForm(p.Errors)
			return false, nil
		}
		return err == nil, err
	})
	if err != nil {
		return nil, err
	}
	if invalid != nil {
		s.logger.Info("payment rejected", zap.String("session_id", id), zap.Int("errors", len(view.Errors)))
		return view, invalid
	}
	return view, nil
}

// PayWithApp starts a one-tap UPI payment through app without validating the form.
func (s *PaymentService) PayWithApp(ctx context.Context, id, app string) (*PaymentView, error) {
	return s.startProcessing(ctx, id, s.cfg.UPIAppDelay, func(p *forms.Payment) (bool, error) {
		if err := p.BeginAppPayment(app, s.now(), s.cfg.UPIAppDelay); err != nil {
			return false, err
		}
		return true, nil
	})
}

// Cancel stops processing and returns the payment to editing.
func (s *PaymentService) Cancel(ctx context.Context, id string) (*PaymentView, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	payment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := payment.Cancel(s.now()); err != nil {
		return nil, formError(err)
	}
	s.scheduler.Cancel(taskKey(id))
	if err := s.sessions.save(ctx, id, payment); err != nil {
		return nil, err
	}
	s.metrics.PaymentStopped()
	s.logger.Info("payment cancelled", zap.String("session_id", id))
	return s.publish(PaymentEventCancelled, payment), nil
}

// Reset clears the form, abandoning any processing in flight.
func (s *PaymentService) Reset(ctx context.Context, id string) (*PaymentView, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	payment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	wasProcessing := payment.Phase == models.FormPhaseProcessing
	payment.Reset(s.now())
	if wasProcessing {
		s.scheduler.Cancel(taskKey(id))
	}
	if err := s.sessions.save(ctx, id, payment); err != nil {
		return nil, err
	}
	if wasProcessing {
		s.metrics.PaymentStopped()
	}
	return s.publish(PaymentEventReset, payment), nil
}

// Subscribe returns a subscription to the payment's events and its current state. The
// subscription is taken first so no transition is missed.
func (s *PaymentService) Subscribe(ctx context.Context, id string) (*realtime.Subscription, *PaymentView, error) {
	sub := s.events.Subscribe(id)
	view, err := s.Get(ctx, id)
	if err != nil {
		sub.Cancel()
		return nil, nil, err
	}
	return sub, view, nil
}

// ReceiptLink issues a signed link to the receipt of a completed payment.
func (s *PaymentService) ReceiptLink(ctx context.Context, id string) (*ReceiptLink, error) {
	view, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if view.Phase != models.FormPhaseSubmitted {
		return nil, appErrors.Clone(appErrors.ErrConflict, "payment has not completed")
	}
	token, expiresAt, err := s.signer.Generate(id, receiptKind)
	if err != nil {
		s.logger.Error("sign receipt link", zap.String("session_id", id), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign receipt link")
	}
	return &ReceiptLink{Token: token, ExpiresAt: expiresAt}, nil
}

// Receipt renders the receipt addressed by a signed token.
func (s *PaymentService) Receipt(ctx context.Context, token string) ([]byte, string, error) {
	id, kind, _, err := s.signer.Parse(token)
	if err != nil || kind != receiptKind {
		return nil, "", appErrors.ErrLinkInvalid
	}
	view, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if view.Phase != models.FormPhaseSubmitted || view.Course == nil {
		return nil, "", appErrors.ErrLinkInvalid
	}

	out, err := s.pdf.Render(receiptDocument(view))
	if err != nil {
		s.logger.Error("render receipt", zap.String("session_id", id), zap.Error(err))
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render receipt")
	}
	return out, view.TransactionID + ".pdf", nil
}

func (s *PaymentService) startProcessing(ctx context.Context, id string, delay time.Duration, begin func(*forms.Payment) (bool, error)) (*PaymentView, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	payment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	started, err := begin(payment)
	if err != nil {
		return nil, formError(err)
	}
	if !started {
		if err := s.sessions.save(ctx, id, payment); err != nil {
			return nil, err
		}
		return s.publish(PaymentEventUpdated, payment), nil
	}

	key := taskKey(id)
	task := jobs.Task{
		Key:   key,
		Type:  paymentTask,
		Delay: delay,
		Run: func(ctx context.Context) error {
			_, err := s.complete(ctx, id)
			return err
		},
	}
	if err := s.scheduler.Schedule(task); err != nil {
		s.logger.Error("schedule payment completion", zap.String("session_id", id), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start payment processing")
	}
	if err := s.sessions.save(ctx, id, payment); err != nil {
		s.scheduler.Cancel(key)
		return nil, err
	}

	s.metrics.RecordSubmission(models.FormKindPayment, nil)
	s.metrics.PaymentStarted()
	s.logger.Info("payment processing",
		zap.String("session_id", id),
		zap.String("via", string(payment.Processing.Via)),
		zap.Time("ready_at", payment.Processing.ReadyAt),
	)
	return s.publish(PaymentEventProcessing, payment), nil
}

// complete moves a processing payment to submitted. Payments no longer processing are returned
// unchanged, so a late or duplicate firing is harmless.
func (s *PaymentService) complete(ctx context.Context, id string) (*PaymentView, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	payment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.Phase != models.FormPhaseProcessing {
		return s.view(payment), nil
	}

	var amount int64
	if payment.Course != nil {
		amount = s.catalog.Summarize(*payment.Course).Total
	}
	via := payment.Processing.Via
	if err := payment.Complete(amount, s.now()); err != nil {
		return nil, formError(err)
	}
	if err := s.sessions.save(ctx, id, payment); err != nil {
		return nil, err
	}

	s.metrics.PaymentCompleted(payment.Values.PaymentMethod, via)
	s.logger.Info("payment completed",
		zap.String("session_id", id),
		zap.String("transaction_id", payment.TransactionID),
		zap.Int64("amount_paid", payment.AmountPaid),
	)
	return s.publish(PaymentEventSubmitted, payment), nil
}

func (s *PaymentService) mutate(ctx context.Context, id, event string, fn func(*forms.Payment) error) (*PaymentView, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	payment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(payment); err != nil {
		return nil, formError(err)
	}
	if err := s.sessions.save(ctx, id, payment); err != nil {
		return nil, err
	}
	return s.publish(event, payment), nil
}

func (s *PaymentService) load(ctx context.Context, id string) (*forms.Payment, error) {
	var payment forms.Payment
	if err := s.sessions.load(ctx, id, &payment); err != nil {
		return nil, err
	}
	if payment.Errors == nil {
		payment.Errors = models.ValidationErrors{}
	}
	return &payment, nil
}

func (s *PaymentService) overdue(p *forms.Payment) bool {
	if p.Phase != models.FormPhaseProcessing || p.Processing == nil {
		return false
	}
	return !s.now().Before(p.Processing.ReadyAt) && !s.scheduler.Pending(taskKey(p.ID))
}

func (s *PaymentService) view(p *forms.Payment) *PaymentView {
	v := &PaymentView{Payment: p}
	if p.Course != nil {
		summary := s.catalog.Summarize(*p.Course)
		v.Summary = &summary
	}
	return v
}

func (s *PaymentService) publish(event string, p *forms.Payment) *PaymentView {
	v := s.view(p)
	s.events.Publish(p.ID, realtime.Event{Type: event, Data: v})
	return v
}

func taskKey(id string) string {
	return "payment:" + id
}

func receiptDocument(v *PaymentView) export.Document {
	course := v.Course
	summary := v.Summary

	method := "Card"
	switch {
	case v.Processing != nil && v.Processing.Via == models.ProcessingViaUPIApp:
		method = "UPI"
		if app, ok := models.LookupUPIApp(v.Processing.App); ok {
			method = "UPI (" + app.Name + ")"
		}
	case v.Values.PaymentMethod == models.PaymentMethodUPI:
		method = "UPI " + v.Values.UPIID
	default:
		if d := strings.ReplaceAll(v.Values.CardNumber, " ", ""); len(d) >= 4 {
			method = "Card ending " + d[len(d)-4:]
		}
	}

	charges := []export.Line{{Label: "Course fee", Value: formatINR(summary.Fee)}}
	if summary.Discount != nil {
		charges = append(charges, export.Line{Label: "Discount", Value: "- " + formatINR(*summary.Discount)})
	}
	charges = append(charges,
		export.Line{Label: fmt.Sprintf("GST (%s%%)", strconv.FormatFloat(float64(summary.TaxRateBasis)/100, 'f', -1, 64)), Value: formatINR(summary.Tax)},
		export.Line{Label: "Total", Value: formatINR(summary.Total)},
		export.Line{Label: "Amount paid", Value: formatINR(v.AmountPaid)},
	)

	paidOn := ""
	if v.CompletedAt != nil {
		paidOn = v.CompletedAt.Format("02 Jan 2006 15:04 MST")
	}

	return export.Document{
		Title:    "Payment Receipt",
		Subtitle: "Transaction ID: " + v.TransactionID,
		Sections: []export.Section{
			{Heading: "Course", Lines: []export.Line{
				{Label: "Course", Value: course.Title},
				{Label: "Duration", Value: course.Duration},
				{Label: "Certification", Value: course.Certification},
			}},
			{Heading: "Charges", Lines: charges},
			{Heading: "Payment", Lines: []export.Line{
				{Label: "Method", Value: method},
				{Label: "Paid on", Value: paidOn},
				{Label: "Email", Value: v.Values.Email},
				{Label: "Phone", Value: v.Values.Phone},
			}},
		},
		Footer: "Payment successful. A confirmation email has been sent to your registered email address.",
	}
}

var inrPrinter = message.NewPrinter(language.MustParse("en-IN"))

// formatINR renders whole rupees with Indian digit grouping, e.g. INR 1,35,000.
func formatINR(amount int64) string {
	return "INR " + inrPrinter.Sprintf("%d", amount)
}
