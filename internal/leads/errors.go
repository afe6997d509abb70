package leads

import "errors"

var (
	// ErrMissingConversation is returned when the conversation id is absent
	ErrMissingConversation = errors.New("conversation id is required")

	// ErrInvalidName is returned when the name is invalid
	ErrInvalidName = errors.New("name is required")

	// ErrMissingPhone is returned when the phone number is absent
	ErrMissingPhone = errors.New("phone number is required")

	// ErrMissingNationalID is returned when the national id is absent
	ErrMissingNationalID = errors.New("national id is required")

	// ErrMissingAddress is returned when the address is absent
	ErrMissingAddress = errors.New("address is required")

	// ErrMissingPolicy is returned when no policy of interest is named
	ErrMissingPolicy = errors.New("policy of interest is required")

	// ErrDuplicateLead is returned when a lead with the same phone number already exists
	ErrDuplicateLead = errors.New("lead already exists for this phone number")

	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("lead not found")
)
