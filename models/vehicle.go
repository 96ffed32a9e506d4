package models

import "strings"

// VehicleSpecification is the resolved data for one vehicle.
type VehicleSpecification struct {
	Make  string `json:"make"`
	Model string `json:"model,omitempty"`

	// DisplayName defaults to "{make} {model}" and may be replaced by a
	// short page title that mentions the make.
	DisplayName string `json:"display_name"`

	// Attributes maps free-form labels ("Engine", "Max power") to values.
	// It is never nil.
	Attributes map[string]string `json:"attributes"`

	// PhotoURL is set only when extraction found a plausible photo.
	PhotoURL string `json:"photo_url,omitempty"`
}

// NewVehicleSpecification trims its inputs and returns a specification
// with an empty attribute map and the default display name.
func NewVehicleSpecification(make, model string) VehicleSpecification {
	make = strings.TrimSpace(make)
	model = strings.TrimSpace(model)
	return VehicleSpecification{
		Make:        make,
		Model:       model,
		DisplayName: DefaultDisplayName(make, model),
		Attributes:  map[string]string{},
	}
}

// DefaultDisplayName joins make and model, dropping an empty model.
func DefaultDisplayName(make, model string) string {
	return strings.TrimSpace(make + " " + model)
}

// HasAttributes reports whether any specification rows were found.
func (v *VehicleSpecification) HasAttributes() bool {
	return len(v.Attributes) > 0
}

// Backfill replaces an empty attribute map with attrs. It returns false and
// leaves the specification untouched when live attributes already exist.
func (v *VehicleSpecification) Backfill(attrs map[string]string) bool {
	if v.HasAttributes() {
		return false
	}
	v.Attributes = make(map[string]string, len(attrs))
	for k, val := range attrs {
		v.Attributes[k] = val
	}
	return true
}

// ModelCandidate is a link to a vehicle page that has not yet been confirmed
// to match the requested model. Candidates are identified by URL.
type ModelCandidate struct {
	URL         string `json:"url"`
	DisplayName string `json:"display_name"`
}
