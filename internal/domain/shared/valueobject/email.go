package valueobject

import (
	"encoding/json"
	"strings"

	"github.com/pmo/backend/internal/domain/shared"
)

// Email is a value object representing a validated email address.
// It is immutable and always normalized to lowercase.
type Email struct {
	value string
}

// NewEmail creates a new Email from raw input.
// The address must be non-empty and contain both '@' and '.'.
func NewEmail(raw string) (Email, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Email{}, shared.NewDomainError("VALIDATION_ERROR", "Email cannot be empty")
	}
	if !strings.Contains(trimmed, "@") || !strings.Contains(trimmed, ".") {
		return Email{}, shared.NewDomainError("VALIDATION_ERROR", "Invalid email format")
	}
	return Email{value: strings.ToLower(trimmed)}, nil
}

// MustNewEmail creates a new Email, panics on error
func MustNewEmail(raw string) Email {
	email, err := NewEmail(raw)
	if err != nil {
		panic(err)
	}
	return email
}

// EmailFromStored rehydrates an Email from a persisted value without
// re-validating. Only the persistence layer should call this; stored
// addresses were normalized when first created.
func EmailFromStored(value string) Email {
	return Email{value: value}
}

// String returns the normalized address
func (e Email) String() string {
	return e.value
}

// IsZero reports whether the email is the zero value
func (e Email) IsZero() bool {
	return e.value == ""
}

// Equals compares two emails for equality
func (e Email) Equals(other Email) bool {
	return e.value == other.value
}

// MarshalJSON implements json.Marshaler
func (e Email) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.value)
}
