package forms

import "strings"

const (
	cardNumberMaxLen = 19
	expiryMaxLen     = 5
	cvvMaxLen        = 4
)

// FormatCardNumber keeps the digits of raw grouped in fours. ok is false when the result would
// exceed sixteen digits and the keystroke must be ignored.
func FormatCardNumber(raw string) (string, bool) {
	d := digits(raw)
	var b strings.Builder
	for i := 0; i < len(d); i++ {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(d[i])
	}
	out := b.String()
	return out, len(out) <= cardNumberMaxLen
}

// FormatExpiry renders the digits of raw as MM/YY.
func FormatExpiry(raw string) (string, bool) {
	d := digits(raw)
	out := d
	if len(d) > 2 {
		out = d[:2] + "/" + d[2:]
	}
	return out, len(out) <= expiryMaxLen
}

// FormatCVV keeps at most four digits.
func FormatCVV(raw string) (string, bool) {
	d := digits(raw)
	return d, len(d) <= cvvMaxLen
}
