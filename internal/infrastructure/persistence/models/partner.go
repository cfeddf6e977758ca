package models

import (
	"encoding/json"

	"github.com/nizy/tailor/internal/domain/partner"
)

// CustomerModel is the persistence model for a customer
type CustomerModel struct {
	BaseModel
	Name              string `gorm:"type:varchar(200);not null;index"`
	ReferenceName     string `gorm:"type:varchar(200)"`
	Phone             string `gorm:"type:varchar(50);not null;index"`
	ShirtMeasurement  string `gorm:"type:text"`
	PantMeasurement   string `gorm:"type:text"`
	OtherMeasurements string `gorm:"type:text;not null;default:'[]'"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer. Unreadable
// custom measurements load as an empty list.
func (m *CustomerModel) ToDomain() *partner.Customer {
	others := []partner.Measurement{}
	if m.OtherMeasurements != "" {
		if err := json.Unmarshal([]byte(m.OtherMeasurements), &others); err != nil || others == nil {
			others = []partner.Measurement{}
		}
	}
	return &partner.Customer{
		BaseEntity:    m.BaseModel.entity(),
		Name:          m.Name,
		ReferenceName: m.ReferenceName,
		Phone:         m.Phone,
		Measurements: partner.MeasurementRecord{
			Shirt:  m.ShirtMeasurement,
			Pant:   m.PantMeasurement,
			Others: others,
		},
	}
}

// CustomerModelFromDomain creates a persistence model from a domain Customer
func CustomerModelFromDomain(c *partner.Customer) (*CustomerModel, error) {
	others := c.Measurements.Others
	if others == nil {
		others = []partner.Measurement{}
	}
	data, err := json.Marshal(others)
	if err != nil {
		return nil, err
	}

	m := &CustomerModel{
		Name:              c.Name,
		ReferenceName:     c.ReferenceName,
		Phone:             c.Phone,
		ShirtMeasurement:  c.Measurements.Shirt,
		PantMeasurement:   c.Measurements.Pant,
		OtherMeasurements: string(data),
	}
	m.BaseModel = baseFromEntity(c.BaseEntity)
	return m, nil
}
