package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateMSISDN(t *testing.T) {
	tests := []struct {
		name           string
		msisdn         string
		expectValid    bool
		expectedFormat string
		expectError    bool
	}{
		{
			name:           "Valid MTN number in local format",
			msisdn:         "0241234567",
			expectValid:    true,
			expectedFormat: "233241234567",
			expectError:    false,
		},
		{
			name:           "Valid MTN number with country code",
			msisdn:         "233541234567",
			expectValid:    true,
			expectedFormat: "233541234567",
			expectError:    false,
		},
		{
			name:           "Valid Telecel number with plus sign",
			msisdn:         "+233201234567",
			expectValid:    true,
			expectedFormat: "233201234567",
			expectError:    false,
		},
		{
			name:           "Valid AirtelTigo number with spaces",
			msisdn:         "026 123 4567",
			expectValid:    true,
			expectedFormat: "233261234567",
			expectError:    false,
		},
		{
			name:           "Valid number with dashes",
			msisdn:         "055-123-4567",
			expectValid:    true,
			expectedFormat: "233551234567",
			expectError:    false,
		},
		{
			name:        "Unsupported prefix",
			msisdn:      "0991234567",
			expectValid: false,
			expectError: true,
		},
		{
			name:        "Too short",
			msisdn:      "024123",
			expectValid: false,
			expectError: true,
		},
		{
			name:        "Too long",
			msisdn:      "02412345678",
			expectValid: false,
			expectError: true,
		},
		{
			name:        "Not a phone number",
			msisdn:      "not-a-phone",
			expectValid: false,
			expectError: true,
		},
		{
			name:        "Empty input",
			msisdn:      "",
			expectValid: false,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, formatted, err := ValidateMSISDN(tt.msisdn)

			assert.Equal(t, tt.expectValid, valid)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedFormat, formatted)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name               string
		email              string
		expectValid        bool
		expectedNormalized string
	}{
		{
			name:               "Valid corporate address",
			email:              "kwame.mensah@minevista.com",
			expectValid:        true,
			expectedNormalized: "kwame.mensah@minevista.com",
		},
		{
			name:               "Uppercase is normalized",
			email:              "Adwoa.Boateng@MineVista.COM",
			expectValid:        true,
			expectedNormalized: "adwoa.boateng@minevista.com",
		},
		{
			name:               "Surrounding whitespace is trimmed",
			email:              "  safety@minevista.com  ",
			expectValid:        true,
			expectedNormalized: "safety@minevista.com",
		},
		{
			name:        "Missing domain",
			email:       "kwame.mensah@",
			expectValid: false,
		},
		{
			name:        "Missing at sign",
			email:       "kwame.mensah.minevista.com",
			expectValid: false,
		},
		{
			name:        "Empty input",
			email:       "",
			expectValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, normalized, err := ValidateEmail(tt.email)

			assert.Equal(t, tt.expectValid, valid)
			if tt.expectValid {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedNormalized, normalized)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
