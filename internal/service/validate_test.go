package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/feira/internal/lists"
	"github.com/mmynk/feira/pkg/api"
)

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		field  string
		reason string
	}{
		{"missing name", api.BeneficiaryInput{Email: "a@example.com"}, "name", "is required"},
		{"bad email", api.BeneficiaryInput{Name: "A", Email: "nope"}, "email", "must be a valid address"},
		{"long unit", api.ProductInput{Name: "Rice", UnitPrice: "1", Unit: strings.Repeat("k", 33)}, "unit", "must be at most 32 characters"},
		{"missing price", api.ProductInput{Name: "Rice"}, "unit_price", "is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateInput(tt.in)
			var verr *lists.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.reason, verr.Reason)
		})
	}

	assert.NoError(t, validateInput(api.BeneficiaryInput{Name: "A", Email: "a@example.com"}))
	assert.NoError(t, validateInput(api.ProductInput{Name: "Rice", UnitPrice: "2.50", Unit: "kg"}))
}
