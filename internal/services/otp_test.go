package services_test

import (
	"testing"

	"solar-banking/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		wantErr bool
	}{
		{name: "six digits", length: 6},
		{name: "single digit", length: 1},
		{name: "zero length", length: 0, wantErr: true},
		{name: "negative length", length: -3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := services.GenerateOTP(tt.length)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, code, tt.length)
			for _, c := range code {
				assert.True(t, c >= '0' && c <= '9', "otp must be numeric, got %q", code)
			}
		})
	}
}

func TestGenerateOTPVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := services.GenerateOTP(6)
		require.NoError(t, err)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1, "expected different codes across generations")
}
