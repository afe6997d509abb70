package leads

import (
	"strings"
	"time"
)

// Lead is a confirmed, sales-ready customer record produced at the end of a
// successful data collection flow.
type Lead struct {
	ID                   string    `json:"id"`
	ConversationID       string    `json:"conversation_id"`
	Name                 string    `json:"name"`
	Phone                string    `json:"phone"`
	NationalID           string    `json:"national_id"`
	Address              string    `json:"address"`
	PolicyOfInterest     string    `json:"policy_of_interest"`
	Email                string    `json:"email,omitempty"`
	PreferredContactTime string    `json:"preferred_contact_time,omitempty"`
	Notes                string    `json:"notes,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
}

// CreateLeadRequest carries the confirmed fields for a new lead.
type CreateLeadRequest struct {
	ConversationID       string `json:"conversation_id"`
	Name                 string `json:"name"`
	Phone                string `json:"phone"`
	NationalID           string `json:"national_id"`
	Address              string `json:"address"`
	PolicyOfInterest     string `json:"policy_of_interest"`
	Email                string `json:"email,omitempty"`
	PreferredContactTime string `json:"preferred_contact_time,omitempty"`
	Notes                string `json:"notes,omitempty"`
}

// Validate checks that every mandatory field is present.
func (r *CreateLeadRequest) Validate() error {
	if strings.TrimSpace(r.ConversationID) == "" {
		return ErrMissingConversation
	}
	for _, f := range []struct {
		value string
		err   error
	}{
		{r.Name, ErrInvalidName},
		{r.Phone, ErrMissingPhone},
		{r.NationalID, ErrMissingNationalID},
		{r.Address, ErrMissingAddress},
		{r.PolicyOfInterest, ErrMissingPolicy},
	} {
		if strings.TrimSpace(f.value) == "" {
			return f.err
		}
	}
	return nil
}
