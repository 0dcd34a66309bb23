// Package validation holds the field and record checks applied before any
// contact mutation.
package validation

import (
	"regexp"
	"strings"

	"github.com/yungbote/contactbook-backend/internal/domain"
	"github.com/yungbote/contactbook-backend/internal/normalization"
)

const (
	ReasonNameRequired = "Name is required."
	ReasonInvalidEmail = "Invalid email format."
	ReasonInvalidPhone = "Invalid phone number format."
	ReasonDuplicate    = "Duplicate contact detected."
)

var (
	emailPattern = regexp.MustCompile(`^[\p{L}\p{N}_.\-]+@[\p{L}\p{N}_.\-]+\.[\p{L}\p{N}_]+$`)
	phonePattern = regexp.MustCompile(`^\+?\p{Nd}{7,15}$`)
)

// ContactInput is the mutable part of a contact as submitted by a caller.
type ContactInput struct {
	Name  string `json:"name" form:"name"`
	Phone string `json:"phone" form:"phone"`
	Email string `json:"email" form:"email"`
}

// Normalize trims every field.
func (in ContactInput) Normalize() ContactInput {
	return ContactInput{
		Name:  normalization.Field(in.Name),
		Phone: normalization.Field(in.Phone),
		Email: normalization.Field(in.Email),
	}
}

func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

func IsValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// ValidateContact checks field syntax after trimming. Empty phone and email
// are absent values and skip their pattern checks.
func ValidateContact(in ContactInput) error {
	in = in.Normalize()
	if in.Name == "" {
		return domain.NewValidationError(ReasonNameRequired)
	}
	if in.Email != "" && !IsValidEmail(in.Email) {
		return domain.NewValidationError(ReasonInvalidEmail)
	}
	if in.Phone != "" && !IsValidPhone(in.Phone) {
		return domain.NewValidationError(ReasonInvalidPhone)
	}
	return nil
}

// FindDuplicate reports whether any existing record collides on
// (case-insensitive name, exact phone) or on case-insensitive non-empty email.
// An empty phone is a valid match key.
func FindDuplicate(existing []*domain.Contact, name, phone, email string) bool {
	for _, c := range existing {
		if c == nil {
			continue
		}
		if strings.EqualFold(c.Name, name) && c.Phone == phone {
			return true
		}
		if email != "" && strings.EqualFold(c.Email, email) {
			return true
		}
	}
	return false
}
