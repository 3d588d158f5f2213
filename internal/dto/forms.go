package dto

// SetFieldRequest updates a single form field. An empty value clears the field.
type SetFieldRequest struct {
	Field string `json:"field" validate:"required,max=64"`
	Value string `json:"value" validate:"max=500"`
}

// CreatePaymentRequest opens a payment session, optionally handing over a course.
type CreatePaymentRequest struct {
	CourseID string `json:"course_id" validate:"omitempty,max=64"`
}

// SelectCourseRequest picks the course being paid for.
type SelectCourseRequest struct {
	CourseID string `json:"course_id" validate:"required,max=64"`
}

// SetMethodRequest switches the payment method.
type SetMethodRequest struct {
	Method string `json:"method" validate:"required,oneof=card upi"`
}

// PaymentFieldResponse reports whether a formatted keystroke was accepted alongside the session.
type PaymentFieldResponse struct {
	Accepted bool        `json:"accepted"`
	Payment  interface{} `json:"payment"`
}

// ReceiptLinkResponse carries a signed receipt download link.
type ReceiptLinkResponse struct {
	URL       string `json:"url"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}
