package engine

import (
	"regexp"
	"strings"
)

var (
	phoneStripRe = regexp.MustCompile(`[\s\-().]`)
	phoneE164Re  = regexp.MustCompile(`^\+\d{8,15}$`)
	phoneBareRe  = regexp.MustCompile(`^\d{10,15}$`)
	emailRe      = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	nidDefaultRe = regexp.MustCompile(`^[A-Za-z0-9]{8,20}$`)
	digitsOnlyRe = regexp.MustCompile(`^\d+$`)
)

// ValidatePhone normalizes a phone number to E.164 shape: country code plus
// 8-15 digits. Dashes, spaces and parens are stripped first.
func ValidatePhone(phone string) (string, error) {
	cleaned := phoneStripRe.ReplaceAllString(strings.TrimSpace(phone), "")
	if phoneE164Re.MatchString(cleaned) {
		return cleaned, nil
	}
	if phoneBareRe.MatchString(cleaned) {
		return "+" + cleaned, nil
	}
	return "", &ValidationError{
		Field:   "phone_number",
		Message: "must include a country code followed by 8-15 digits",
		Example: "+8801712345678",
	}
}

// ValidateNID checks a national ID against the per-country format table.
func ValidateNID(nid, country string) (string, error) {
	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(nid))

	switch country {
	case "BD":
		if (len(cleaned) == 10 || len(cleaned) == 13) && digitsOnlyRe.MatchString(cleaned) {
			return cleaned, nil
		}
		return "", &ValidationError{
			Field:   "national_id",
			Message: "Bangladesh NID must be 10 or 13 digits",
			Example: "1234567890",
		}
	case "US":
		if len(cleaned) == 9 && digitsOnlyRe.MatchString(cleaned) {
			return cleaned, nil
		}
		return "", &ValidationError{
			Field:   "national_id",
			Message: "SSN must be 9 digits",
			Example: "123456789",
		}
	default:
		if nidDefaultRe.MatchString(cleaned) {
			return cleaned, nil
		}
		return "", &ValidationError{
			Field:   "national_id",
			Message: "must be 8-20 alphanumeric characters",
			Example: "AB12345678",
		}
	}
}

// ValidateEmail checks for an RFC-5322-shaped address and lowercases it.
func ValidateEmail(email string) (string, error) {
	trimmed := strings.TrimSpace(email)
	if emailRe.MatchString(trimmed) {
		return strings.ToLower(trimmed), nil
	}
	return "", &ValidationError{
		Field:   "email",
		Message: "must be a valid email address",
		Example: "name@example.com",
	}
}

// ValidateName requires at least two characters.
func ValidateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) >= 2 {
		return trimmed, nil
	}
	return "", &ValidationError{
		Field:   "full_name",
		Message: "must be at least 2 characters",
		Example: "Rahim Uddin",
	}
}

// ValidateAddress requires at least five characters.
func ValidateAddress(address string) (string, error) {
	trimmed := strings.TrimSpace(address)
	if len(trimmed) >= 5 {
		return trimmed, nil
	}
	return "", &ValidationError{
		Field:   "address",
		Message: "must be at least 5 characters",
		Example: "House 12, Road 5, Dhanmondi, Dhaka",
	}
}
