package auth

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidInput covers every form-validation failure. The wrapped message
// is shown to the user as-is.
var ErrInvalidInput = errors.New("invalid input")

var (
	contactNumberRe = regexp.MustCompile(`^[0-9]{11}$`)
	zipCodeRe       = regexp.MustCompile(`^[0-9]{4}$`)
	emailRe         = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

const minPasswordLen = 6

// SignupForm carries the raw signup submission before validation.
type SignupForm struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	MiddleName      string `json:"middleName"`
	ContactNumber   string `json:"contactNumber"`
	Email           string `json:"email"`
	Street          string `json:"street"`
	Zone            string `json:"zone"`
	City            string `json:"city"`
	Province        string `json:"province"`
	ZipCode         string `json:"zipCode"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	AgreeTerms      bool   `json:"agreeTerms"`
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

func validateSignup(f SignupForm) error {
	required := []struct {
		value string
		label string
	}{
		{f.FirstName, "First name"},
		{f.LastName, "Last name"},
		{f.ContactNumber, "Contact number"},
		{f.Email, "Email"},
		{f.Street, "Street"},
		{f.Zone, "Zone"},
		{f.City, "City"},
		{f.Province, "Province"},
		{f.ZipCode, "Zip code"},
		{f.Password, "Password"},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return invalid(field.label + " is required")
		}
	}

	if !emailRe.MatchString(f.Email) {
		return invalid("Email address is not valid")
	}
	if !contactNumberRe.MatchString(f.ContactNumber) {
		return invalid("Contact number must be 11 digits")
	}
	if !zipCodeRe.MatchString(f.ZipCode) {
		return invalid("Zip code must be 4 digits")
	}
	if len(f.Password) < minPasswordLen {
		return invalid(fmt.Sprintf("Password must be at least %d characters", minPasswordLen))
	}
	if f.Password != f.ConfirmPassword {
		return invalid("Passwords do not match")
	}
	if !f.AgreeTerms {
		return invalid("You must agree to the terms and conditions")
	}
	return nil
}

func validateLogin(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return invalid("Email is required")
	}
	if password == "" {
		return invalid("Password is required")
	}
	return nil
}
