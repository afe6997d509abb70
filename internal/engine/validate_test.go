package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"e164 passes", "+8801712345678", "+8801712345678", false},
		{"spaces and dashes stripped", "+880 1712-345678", "+8801712345678", false},
		{"bare digits get a plus", "8801712345678", "+8801712345678", false},
		{"too short", "+12345", "", true},
		{"letters rejected", "+880ABC12345", "", true},
		{"empty rejected", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidatePhone(tt.in)
			if tt.wantErr {
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, "phone_number", ve.Field)
				assert.NotEmpty(t, ve.Example)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateNID(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		country string
		want    string
		wantErr bool
	}{
		{"bd 10 digits", "1234567890", "BD", "1234567890", false},
		{"bd 13 digits", "1234567890123", "BD", "1234567890123", false},
		{"bd 11 digits rejected", "12345678901", "BD", "", true},
		{"bd letters rejected", "12345678AB", "BD", "", true},
		{"us ssn", "123-45-6789", "US", "123456789", false},
		{"us wrong length", "12345678", "US", "", true},
		{"default alnum", "AB12345678", "", "AB12345678", false},
		{"default too short", "AB1", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateNID(tt.in, tt.country)
			if tt.wantErr {
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, "national_id", ve.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateEmail(t *testing.T) {
	got, err := ValidateEmail("  Rahim.Uddin@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "rahim.uddin@example.com", got)

	_, err = ValidateEmail("not-an-email")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "email", ve.Field)
}

func TestValidateNameAndAddress(t *testing.T) {
	got, err := ValidateName("  Rahim Uddin ")
	require.NoError(t, err)
	assert.Equal(t, "Rahim Uddin", got)

	_, err = ValidateName("R")
	assert.Error(t, err)

	addr, err := ValidateAddress("House 12, Road 5, Dhanmondi, Dhaka")
	require.NoError(t, err)
	assert.Equal(t, "House 12, Road 5, Dhanmondi, Dhaka", addr)

	_, err = ValidateAddress("abc")
	assert.Error(t, err)
}
