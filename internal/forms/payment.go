package forms

import (
	"fmt"
	"time"

	"github.com/noah-isme/dsa-enrollment-api/internal/models"
)

type fieldFormatter func(string) (string, bool)

var paymentFields = map[string]func(*models.PaymentRecord) *string{
	models.FieldCardNumber:     func(r *models.PaymentRecord) *string { return &r.CardNumber },
	models.FieldExpiryDate:     func(r *models.PaymentRecord) *string { return &r.ExpiryDate },
	models.FieldCVV:            func(r *models.PaymentRecord) *string { return &r.CVV },
	models.FieldCardholderName: func(r *models.PaymentRecord) *string { return &r.CardholderName },
	models.FieldUPIID:          func(r *models.PaymentRecord) *string { return &r.UPIID },
	models.FieldEmail:          func(r *models.PaymentRecord) *string { return &r.Email },
	models.FieldPhone:          func(r *models.PaymentRecord) *string { return &r.Phone },
	models.FieldBillingAddress: func(r *models.PaymentRecord) *string { return &r.BillingAddress },
	models.FieldCity:           func(r *models.PaymentRecord) *string { return &r.City },
	models.FieldState:          func(r *models.PaymentRecord) *string { return &r.State },
	models.FieldPincode:        func(r *models.PaymentRecord) *string { return &r.Pincode },
}

var paymentFormatters = map[string]fieldFormatter{
	models.FieldCardNumber: FormatCardNumber,
	models.FieldExpiryDate: FormatExpiry,
	models.FieldCVV:        FormatCVV,
}

// Payment is the checkout form session for one course.
type Payment struct {
	ID            string                    `json:"id"`
	Phase         models.FormPhase          `json:"phase"`
	Course        *models.CourseOffering    `json:"course,omitempty"`
	Values        models.PaymentRecord      `json:"values"`
	Errors        models.ValidationErrors   `json:"errors"`
	Processing    *models.PaymentProcessing `json:"processing,omitempty"`
	TransactionID string                    `json:"transaction_id,omitempty"`
	AmountPaid    int64                     `json:"amount_paid,omitempty"`
	CompletedAt   *time.Time                `json:"completed_at,omitempty"`
	CreatedAt     time.Time                 `json:"created_at"`
	UpdatedAt     time.Time                 `json:"updated_at"`
}

// NewPayment starts a card payment, optionally with a course handed over from a listing.
func NewPayment(id string, course *models.CourseOffering, now time.Time) *Payment {
	return &Payment{
		ID:        id,
		Phase:     models.FormPhaseEditing,
		Course:    course,
		Values:    models.PaymentRecord{PaymentMethod: models.PaymentMethodCard},
		Errors:    models.ValidationErrors{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetField stores value, formatting card number, expiry and CVV first. It reports false without
// touching the form when a formatted value is too long.
func (p *Payment) SetField(name, value string, now time.Time) (bool, error) {
	if p.Phase != models.FormPhaseEditing {
		return false, ErrNotEditing
	}
	if name == models.FieldPaymentMethod {
		if err := p.SetMethod(models.PaymentMethod(value), now); err != nil {
			return false, err
		}
		return true, nil
	}
	field, ok := paymentFields[name]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	if format, ok := paymentFormatters[name]; ok {
		formatted, accepted := format(value)
		if !accepted {
			return false, nil
		}
		value = formatted
	}
	*field(&p.Values) = value
	delete(p.Errors, name)
	p.UpdatedAt = now
	return true, nil
}

// SetMethod switches between the card and UPI branches. Values of the other branch are kept.
func (p *Payment) SetMethod(method models.PaymentMethod, now time.Time) error {
	if p.Phase != models.FormPhaseEditing {
		return ErrNotEditing
	}
	if !method.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
	p.Values.PaymentMethod = method
	p.UpdatedAt = now
	return nil
}

// SelectCourse replaces the course being paid for.
func (p *Payment) SelectCourse(course models.CourseOffering, now time.Time) error {
	if p.Phase != models.FormPhaseEditing {
		return ErrNotEditing
	}
	p.Course = &course
	p.UpdatedAt = now
	return nil
}

// Validate recomputes the error set for the active method.
func (p *Payment) Validate(now time.Time) (models.ValidationErrors, error) {
	if p.Phase != models.FormPhaseEditing {
		return nil, ErrNotEditing
	}
	p.Errors = ValidatePayment(p.Values)
	p.UpdatedAt = now
	return p.Errors.Clone(), nil
}

// BeginSubmit validates the form and moves it into processing until readyAt.
func (p *Payment) BeginSubmit(now time.Time, delay time.Duration) error {
	if p.Phase != models.FormPhaseEditing {
		return ErrNotEditing
	}
	if p.Course == nil {
		return ErrNoCourse
	}
	errs, err := p.Validate(now)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return ErrInvalid
	}
	p.startProcessing(models.ProcessingViaForm, "", now, delay)
	return nil
}

// BeginAppPayment starts a one-tap UPI payment. The form fields are not validated.
func (p *Payment) BeginAppPayment(app string, now time.Time, delay time.Duration) error {
	if p.Phase != models.FormPhaseEditing {
		return ErrNotEditing
	}
	if p.Course == nil {
		return ErrNoCourse
	}
	if _, ok := models.LookupUPIApp(app); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownUPIApp, app)
	}
	p.startProcessing(models.ProcessingViaUPIApp, app, now, delay)
	return nil
}

func (p *Payment) startProcessing(via models.ProcessingVia, app string, now time.Time, delay time.Duration) {
	p.Phase = models.FormPhaseProcessing
	p.Processing = &models.PaymentProcessing{
		Via:       via,
		App:       app,
		StartedAt: now,
		ReadyAt:   now.Add(delay),
	}
	p.UpdatedAt = now
}

// Complete marks a processing payment as paid.
func (p *Payment) Complete(amount int64, now time.Time) error {
	if p.Phase != models.FormPhaseProcessing {
		return ErrNotProcessing
	}
	completedAt := now
	p.Phase = models.FormPhaseSubmitted
	p.TransactionID = TransactionNumber(now)
	p.AmountPaid = amount
	p.CompletedAt = &completedAt
	p.UpdatedAt = now
	return nil
}

// Cancel abandons processing and returns to editing with the entered values intact.
func (p *Payment) Cancel(now time.Time) error {
	if p.Phase != models.FormPhaseProcessing {
		return ErrNotProcessing
	}
	p.Phase = models.FormPhaseEditing
	p.Processing = nil
	p.UpdatedAt = now
	return nil
}

// Reset clears the entered values. The selected course stays so the visitor can pay again.
func (p *Payment) Reset(now time.Time) {
	p.Phase = models.FormPhaseEditing
	p.Values = models.PaymentRecord{PaymentMethod: models.PaymentMethodCard}
	p.Errors = models.ValidationErrors{}
	p.Processing = nil
	p.TransactionID = ""
	p.AmountPaid = 0
	p.CompletedAt = nil
	p.UpdatedAt = now
}

// ValidatePayment applies the payment rules for the selected method.
func ValidatePayment(r models.PaymentRecord) models.ValidationErrors {
	errs := models.ValidationErrors{}
	card := r.PaymentMethod == models.PaymentMethodCard

	if card {
		cardDigits := digits(r.CardNumber)
		switch {
		case cardDigits == "":
			errs[models.FieldCardNumber] = "Card number is required"
		case len(cardDigits) < 16:
			errs[models.FieldCardNumber] = "Card number must be 16 digits"
		}
		switch {
		case r.ExpiryDate == "":
			errs[models.FieldExpiryDate] = "Expiry date is required"
		case !expiryPattern.MatchString(r.ExpiryDate):
			errs[models.FieldExpiryDate] = "Invalid expiry date format"
		}
		switch {
		case r.CVV == "":
			errs[models.FieldCVV] = "CVV is required"
		case len(r.CVV) < 3:
			errs[models.FieldCVV] = "CVV must be 3-4 digits"
		}
		if blank(r.CardholderName) {
			errs[models.FieldCardholderName] = "Cardholder name is required"
		}
	}

	if r.PaymentMethod == models.PaymentMethodUPI {
		switch {
		case blank(r.UPIID):
			errs[models.FieldUPIID] = "UPI ID is required"
		case !ValidUPIID(r.UPIID):
			errs[models.FieldUPIID] = "Invalid UPI ID format"
		}
	}

	switch {
	case blank(r.Email):
		errs[models.FieldEmail] = "Email is required"
	case !ValidEmail(r.Email):
		errs[models.FieldEmail] = "Email is invalid"
	}
	if blank(r.Phone) {
		errs[models.FieldPhone] = "Phone number is required"
	}

	if card {
		if blank(r.BillingAddress) {
			errs[models.FieldBillingAddress] = "Billing address is required"
		}
		if blank(r.City) {
			errs[models.FieldCity] = "City is required"
		}
		if blank(r.State) {
			errs[models.FieldState] = "State is required"
		}
		if blank(r.Pincode) {
			errs[models.FieldPincode] = "Pincode is required"
		}
	}
	return errs
}
