package partner

import (
	"fmt"
	"strings"
)

// Measurement is a free-form labelled body measurement, e.g. {"Kurta", "38"}
type Measurement struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// IsBlank reports whether both the label and the value are empty
func (m Measurement) IsBlank() bool {
	return strings.TrimSpace(m.Label) == "" && strings.TrimSpace(m.Value) == ""
}

// MeasurementRecord holds a customer's measurements. Others keeps insertion
// order and may repeat labels.
type MeasurementRecord struct {
	Shirt  string        `json:"shirt"`
	Pant   string        `json:"pant"`
	Others []Measurement `json:"others"`
}

// HasShirt reports whether a shirt measurement is recorded
func (r MeasurementRecord) HasShirt() bool {
	return strings.TrimSpace(r.Shirt) != ""
}

// HasPant reports whether a pant measurement is recorded
func (r MeasurementRecord) HasPant() bool {
	return strings.TrimSpace(r.Pant) != ""
}

// Normalized returns a copy with trimmed fields and blank custom rows removed
func (r MeasurementRecord) Normalized() MeasurementRecord {
	out := MeasurementRecord{
		Shirt:  strings.TrimSpace(r.Shirt),
		Pant:   strings.TrimSpace(r.Pant),
		Others: make([]Measurement, 0, len(r.Others)),
	}
	for _, m := range r.Others {
		if m.IsBlank() {
			continue
		}
		out.Others = append(out.Others, Measurement{
			Label: strings.TrimSpace(m.Label),
			Value: strings.TrimSpace(m.Value),
		})
	}
	return out
}

// Summary lists which measurements exist: "Shirt", "Pant" and "+N Others",
// comma-joined, or "None" when nothing is recorded.
func (r MeasurementRecord) Summary() string {
	parts := make([]string, 0, 3)
	if r.HasShirt() {
		parts = append(parts, "Shirt")
	}
	if r.HasPant() {
		parts = append(parts, "Pant")
	}
	if n := len(r.Others); n > 0 {
		parts = append(parts, fmt.Sprintf("+%d Others", n))
	}
	if len(parts) == 0 {
		return "None"
	}
	return strings.Join(parts, ", ")
}
