package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/nizy/tailor/internal/domain/partner"
)

// =============================================================================
// Customer DTOs
// =============================================================================

// MeasurementDTO is one custom measurement row
type MeasurementDTO struct {
	Label string `json:"label" binding:"max=100"`
	Value string `json:"value" binding:"max=200"`
}

// MeasurementsDTO mirrors partner.MeasurementRecord on the wire
type MeasurementsDTO struct {
	Shirt  string           `json:"shirt" binding:"max=500"`
	Pant   string           `json:"pant" binding:"max=500"`
	Others []MeasurementDTO `json:"others" binding:"omitempty,dive"`
}

// CustomerRequest represents a request to create or replace a customer
type CustomerRequest struct {
	Name          string          `json:"name" binding:"required,min=1,max=200"`
	ReferenceName string          `json:"referenceName" binding:"max=200"`
	Phone         string          `json:"phone" binding:"required,max=50"`
	Measurements  MeasurementsDTO `json:"measurements"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID                  uuid.UUID       `json:"id"`
	Name                string          `json:"name"`
	ReferenceName       string          `json:"referenceName"`
	Phone               string          `json:"phone"`
	Measurements        MeasurementsDTO `json:"measurements"`
	MeasurementsSummary string          `json:"measurementsSummary"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

// CustomerOption is a compact entry for the order form customer picker
type CustomerOption struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Phone string    `json:"phone"`
}

// CustomerListFilter represents filter options for customer list
type CustomerListFilter struct {
	Search string `form:"search" binding:"max=100"`
}

// ToDetails converts the request into domain customer details
func (r CustomerRequest) ToDetails() partner.CustomerDetails {
	others := make([]partner.Measurement, 0, len(r.Measurements.Others))
	for _, m := range r.Measurements.Others {
		others = append(others, partner.Measurement{Label: m.Label, Value: m.Value})
	}
	return partner.CustomerDetails{
		Name:          r.Name,
		ReferenceName: r.ReferenceName,
		Phone:         r.Phone,
		Measurements: partner.MeasurementRecord{
			Shirt:  r.Measurements.Shirt,
			Pant:   r.Measurements.Pant,
			Others: others,
		},
	}
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	others := make([]MeasurementDTO, 0, len(c.Measurements.Others))
	for _, m := range c.Measurements.Others {
		others = append(others, MeasurementDTO{Label: m.Label, Value: m.Value})
	}
	return CustomerResponse{
		ID:            c.ID,
		Name:          c.Name,
		ReferenceName: c.ReferenceName,
		Phone:         c.Phone,
		Measurements: MeasurementsDTO{
			Shirt:  c.Measurements.Shirt,
			Pant:   c.Measurements.Pant,
			Others: others,
		},
		MeasurementsSummary: c.Measurements.Summary(),
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}

// ToCustomerResponses converts a slice of domain Customers to responses
func ToCustomerResponses(customers []partner.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses
}
