package vault

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxFieldLength bounds any single payload field.
const MaxFieldLength = 1 << 16

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email must not be empty")
	}
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return fmt.Errorf("malformed email address")
	}
	if !utf8.ValidString(email) {
		return fmt.Errorf("email contains invalid UTF-8")
	}
	return nil
}

func validateItemData(data ItemData) error {
	if data == nil {
		return fmt.Errorf("item data must not be nil")
	}
	var fields []string
	switch d := data.(type) {
	case *Credential:
		fields = []string{d.Name, d.Username, d.Password, d.Website, d.Notes}
	case *PaymentCard:
		fields = []string{d.Name, d.CardNumber, d.ExpiryDate, d.CVV, d.CardholderName, d.Notes}
	case *SecureNote:
		fields = []string{d.Name, d.Notes}
	default:
		return fmt.Errorf("unsupported item data type %T", data)
	}
	for _, f := range fields {
		if len(f) > MaxFieldLength {
			return fmt.Errorf("field length %d exceeds maximum of %d", len(f), MaxFieldLength)
		}
		if !utf8.ValidString(f) {
			return fmt.Errorf("field contains invalid UTF-8")
		}
	}
	return nil
}
