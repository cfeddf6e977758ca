package partner

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nizy/tailor/internal/domain/shared"
)

// Customer represents a shop customer. Its identity never changes after
// creation; every edit replaces the descriptive fields as a whole.
type Customer struct {
	shared.BaseEntity
	Name          string
	ReferenceName string
	Phone         string
	Measurements  MeasurementRecord
}

// CustomerDetails are the mutable fields of a customer
type CustomerDetails struct {
	Name          string
	ReferenceName string
	Phone         string
	Measurements  MeasurementRecord
}

// NewCustomer creates a new customer with required fields
func NewCustomer(details CustomerDetails, now time.Time) (*Customer, error) {
	if err := details.validate(); err != nil {
		return nil, err
	}

	customer := &Customer{BaseEntity: shared.NewBaseEntityAt(now)}
	customer.apply(details)
	return customer, nil
}

// Update replaces the customer's descriptive fields
func (c *Customer) Update(details CustomerDetails, now time.Time) error {
	if err := details.validate(); err != nil {
		return err
	}

	c.apply(details)
	c.Touch(now)
	return nil
}

// MatchesSearch reports whether the term appears in the name, phone or
// reference name. Name and reference comparisons ignore case.
func (c *Customer) MatchesSearch(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Name), term) ||
		strings.Contains(c.Phone, term) ||
		strings.Contains(strings.ToLower(c.ReferenceName), term)
}

func (c *Customer) apply(details CustomerDetails) {
	c.Name = strings.TrimSpace(details.Name)
	c.ReferenceName = strings.TrimSpace(details.ReferenceName)
	c.Phone = strings.TrimSpace(details.Phone)
	c.Measurements = details.Measurements.Normalized()
}

const maxNameLength = 200

func (d CustomerDetails) validate() error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewValidationError("Customer name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return shared.NewValidationError("Customer name cannot exceed 200 characters")
	}
	if strings.TrimSpace(d.Phone) == "" {
		return shared.NewValidationError("Customer phone is required")
	}
	return nil
}
