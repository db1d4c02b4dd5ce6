package checkout

import (
	"regexp"
	"strings"

	"github.com/RaicesMX/RaicesMX/internal/domain"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nonDigits     = regexp.MustCompile(`\D`)
	postalPattern = regexp.MustCompile(`^\d{5}$`)
)

// ValidateShipping runs the ordered field checks and stops at the first
// failure. The order is part of the contract: the user is told about one
// problem at a time, top of the form first.
func ValidateShipping(d domain.ShippingDetails) error {
	if len(strings.TrimSpace(d.Name)) < 3 {
		return &ValidationError{Field: "nombre", Message: "name must be at least 3 characters"}
	}
	if !emailPattern.MatchString(d.Email) {
		return &ValidationError{Field: "email", Message: "invalid email address"}
	}
	if digits := nonDigits.ReplaceAllString(d.Phone, ""); len(digits) != 10 {
		return &ValidationError{Field: "telefono", Message: "phone must be 10 digits"}
	}
	if len(strings.TrimSpace(d.Address)) < 5 {
		return &ValidationError{Field: "direccion", Message: "address must be at least 5 characters"}
	}
	if len(strings.TrimSpace(d.City)) < 2 {
		return &ValidationError{Field: "ciudad", Message: "invalid city"}
	}
	if len(strings.TrimSpace(d.State)) < 2 {
		return &ValidationError{Field: "estado", Message: "invalid state"}
	}
	if !postalPattern.MatchString(d.PostalCode) {
		return &ValidationError{Field: "codigoPostal", Message: "postal code must be 5 digits"}
	}
	return nil
}
