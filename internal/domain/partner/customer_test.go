package partner

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nizy/tailor/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDetails() CustomerDetails {
	return CustomerDetails{
		Name:          "  Ravi Kumar ",
		ReferenceName: "Ravi bhai",
		Phone:         "98765 43210",
		Measurements: MeasurementRecord{
			Shirt: "38",
			Others: []Measurement{
				{Label: "Kurta", Value: "40"},
				{Label: " ", Value: ""},
			},
		},
	}
}

func TestNewCustomer(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("creates customer successfully", func(t *testing.T) {
		customer, err := NewCustomer(validDetails(), now)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, customer.ID)
		assert.Equal(t, "Ravi Kumar", customer.Name)
		assert.Equal(t, "98765 43210", customer.Phone)
		assert.Equal(t, now, customer.CreatedAt)
		assert.Equal(t, now, customer.UpdatedAt)
		assert.Len(t, customer.Measurements.Others, 1, "blank custom rows are dropped")
	})

	t.Run("fails without name", func(t *testing.T) {
		details := validDetails()
		details.Name = "   "

		customer, err := NewCustomer(details, now)

		assert.Nil(t, customer)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, shared.CodeValidation, domainErr.Code)
	})

	t.Run("fails without phone", func(t *testing.T) {
		details := validDetails()
		details.Phone = ""

		_, err := NewCustomer(details, now)
		assert.ErrorContains(t, err, "phone is required")
	})

	t.Run("name length counts characters not bytes", func(t *testing.T) {
		details := validDetails()
		details.Name = strings.Repeat("रा", 100)

		customer, err := NewCustomer(details, now)
		require.NoError(t, err)
		assert.Equal(t, details.Name, customer.Name)

		details.Name = strings.Repeat("é", 201)
		_, err = NewCustomer(details, now)
		assert.ErrorContains(t, err, "cannot exceed 200 characters")
	})
}

func TestCustomer_Update(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	customer, err := NewCustomer(validDetails(), created)
	require.NoError(t, err)
	id := customer.ID

	edited := created.Add(48 * time.Hour)
	err = customer.Update(CustomerDetails{Name: "Ravi K", Phone: "11111"}, edited)

	require.NoError(t, err)
	assert.Equal(t, id, customer.ID, "identity is immutable")
	assert.Equal(t, created, customer.CreatedAt)
	assert.Equal(t, edited, customer.UpdatedAt)
	assert.Equal(t, "Ravi K", customer.Name)
	assert.Empty(t, customer.ReferenceName, "edits replace every descriptive field")
	assert.False(t, customer.Measurements.HasShirt())

	err = customer.Update(CustomerDetails{Name: "", Phone: "1"}, edited)
	assert.Error(t, err)
	assert.Equal(t, "Ravi K", customer.Name, "failed edit leaves the record unchanged")
}

func TestCustomer_MatchesSearch(t *testing.T) {
	customer, err := NewCustomer(validDetails(), time.Now())
	require.NoError(t, err)

	tests := []struct {
		term  string
		match bool
	}{
		{"", true},
		{"ravi", true},
		{"KUMAR", true},
		{"43210", true},
		{"bhai", true},
		{"suresh", false},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Equal(t, tt.match, customer.MatchesSearch(tt.term))
		})
	}
}
