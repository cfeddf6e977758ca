package partner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeasurementRecord_Summary(t *testing.T) {
	tests := []struct {
		name     string
		record   MeasurementRecord
		expected string
	}{
		{
			name:     "nothing recorded",
			record:   MeasurementRecord{},
			expected: "None",
		},
		{
			name:     "whitespace only counts as absent",
			record:   MeasurementRecord{Shirt: "  ", Pant: "\t"},
			expected: "None",
		},
		{
			name:     "shirt only",
			record:   MeasurementRecord{Shirt: "38"},
			expected: "Shirt",
		},
		{
			name:     "shirt and pant",
			record:   MeasurementRecord{Shirt: "38", Pant: "32"},
			expected: "Shirt, Pant",
		},
		{
			name: "shirt with two custom entries",
			record: MeasurementRecord{
				Shirt: "38",
				Others: []Measurement{
					{Label: "Kurta", Value: "40"},
					{Label: "Kurta", Value: "41"},
				},
			},
			expected: "Shirt, +2 Others",
		},
		{
			name: "custom entries only",
			record: MeasurementRecord{
				Others: []Measurement{{Label: "Blazer", Value: "42"}},
			},
			expected: "+1 Others",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.record.Summary())
		})
	}
}

func TestMeasurementRecord_Normalized(t *testing.T) {
	record := MeasurementRecord{
		Shirt: " 38 ",
		Others: []Measurement{
			{Label: "Kurta", Value: "40"},
			{Label: "", Value: ""},
			{Label: "Kurta", Value: " 41 "},
		},
	}

	got := record.Normalized()

	assert.Equal(t, "38", got.Shirt)
	assert.Equal(t, []Measurement{
		{Label: "Kurta", Value: "40"},
		{Label: "Kurta", Value: "41"},
	}, got.Others, "order and duplicate labels are kept")
	assert.Len(t, record.Others, 3, "source record is not modified")
}
