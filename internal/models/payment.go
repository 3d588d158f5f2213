package models

import "time"

// PaymentMethod selects which branch of the payment form is validated.
type PaymentMethod string

const (
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodUPI  PaymentMethod = "upi"
)

// Valid reports whether m is a supported method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCard || m == PaymentMethodUPI
}

// Payment form field names not shared with the application form.
const (
	FieldPaymentMethod  = "paymentMethod"
	FieldCardNumber     = "cardNumber"
	FieldExpiryDate     = "expiryDate"
	FieldCVV            = "cvv"
	FieldCardholderName = "cardholderName"
	FieldUPIID          = "upiId"
	FieldBillingAddress = "billingAddress"
)

// PaymentRecord holds the values of the payment form.
type PaymentRecord struct {
	PaymentMethod  PaymentMethod `json:"paymentMethod"`
	CardNumber     string        `json:"cardNumber"`
	ExpiryDate     string        `json:"expiryDate"`
	CVV            string        `json:"cvv"`
	CardholderName string        `json:"cardholderName"`
	UPIID          string        `json:"upiId"`
	Email          string        `json:"email"`
	Phone          string        `json:"phone"`
	BillingAddress string        `json:"billingAddress"`
	City           string        `json:"city"`
	State          string        `json:"state"`
	Pincode        string        `json:"pincode"`
}

// UPIApp is a wallet offered as a one-tap payment shortcut.
type UPIApp struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UPIApps lists the supported shortcuts.
var UPIApps = []UPIApp{
	{ID: "googlepay", Name: "Google Pay"},
	{ID: "phonepe", Name: "PhonePe"},
	{ID: "paytm", Name: "Paytm"},
}

// LookupUPIApp finds a shortcut by id.
func LookupUPIApp(id string) (UPIApp, bool) {
	for _, app := range UPIApps {
		if app.ID == id {
			return app, true
		}
	}
	return UPIApp{}, false
}

// ProcessingVia records which action started processing.
type ProcessingVia string

const (
	ProcessingViaForm   ProcessingVia = "form"
	ProcessingViaUPIApp ProcessingVia = "upi_app"
)

// PaymentProcessing describes an in-flight simulated payment.
type PaymentProcessing struct {
	Via       ProcessingVia `json:"via"`
	App       string        `json:"app,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	ReadyAt   time.Time     `json:"ready_at"`
}
