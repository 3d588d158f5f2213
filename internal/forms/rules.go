package forms

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/noah-isme/dsa-enrollment-api/internal/models"
)

// Errors returned by the machines. Callers map them onto transport errors.
var (
	ErrUnknownField  = errors.New("unknown field")
	ErrNotEditing    = errors.New("form is not editable")
	ErrNotProcessing = errors.New("payment is not processing")
	ErrInvalid       = errors.New("form has invalid fields")
	ErrNoCourse      = errors.New("no course selected")
	ErrUnknownMethod = errors.New("unknown payment method")
	ErrUnknownUPIApp = errors.New("unknown upi app")
)

var (
	emailPattern  = regexp.MustCompile(`\S+@\S+\.\S+`)
	upiPattern    = regexp.MustCompile(`^[\w.-]+@[\w.-]+$`)
	expiryPattern = regexp.MustCompile(`^\d{2}/\d{2}$`)
	nonDigits     = regexp.MustCompile(`\D`)
)

func blank(v string) bool {
	return strings.TrimSpace(v) == ""
}

func digits(v string) string {
	return nonDigits.ReplaceAllString(v, "")
}

// ValidEmail reports whether v has the text@text.text shape.
func ValidEmail(v string) bool {
	return emailPattern.MatchString(v)
}

// ValidUPIID reports whether v is a localpart@handle identifier.
func ValidUPIID(v string) bool {
	return upiPattern.MatchString(v)
}

// ValidPhone reports whether v reduces to exactly ten digits.
func ValidPhone(v string) bool {
	return len(digits(v)) == 10
}

func hasOption(options []models.Option, v string) bool {
	for _, opt := range options {
		if opt.Value == v {
			return true
		}
	}
	return false
}

// ApplicationNumber renders the acknowledgement number handed out on submit.
func ApplicationNumber(now time.Time) string {
	return fmt.Sprintf("DSA-%06d", now.UnixMilli()%1_000_000)
}

// TransactionNumber renders the reference of a completed payment.
func TransactionNumber(now time.Time) string {
	return fmt.Sprintf("TXN-%08d", now.UnixMilli()%100_000_000)
}
