package controller

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ssargent/fleetdb/pkg/vehicle"
)

// Form holds the raw text a user typed for one vehicle. Only the field that
// matches Kind among Style, Displacement and Cargo is read.
type Form struct {
	Kind         string `json:"kind"`
	Plate        string `json:"plate"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Weight       string `json:"weight"`
	Style        string `json:"style,omitempty"`
	Displacement string `json:"engine_displacement,omitempty"`
	Cargo        string `json:"cargo_capacity,omitempty"`
}

// ValidationError reports the first form field that could not be accepted
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is a *ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Build validates the form and returns the vehicle it describes
func (f Form) Build() (*vehicle.Vehicle, error) {
	kind, err := vehicle.ParseKind(f.Kind)
	if err != nil {
		return nil, invalid("kind", "unknown vehicle kind %q", strings.TrimSpace(f.Kind))
	}

	plate := strings.TrimSpace(f.Plate)
	manufacturer := strings.TrimSpace(f.Make)
	model := strings.TrimSpace(f.Model)

	switch {
	case plate == "":
		return nil, invalid("plate", "is required")
	case manufacturer == "":
		return nil, invalid("make", "is required")
	case model == "":
		return nil, invalid("model", "is required")
	}

	weight, err := parseAmount("weight", f.Weight)
	if err != nil {
		return nil, err
	}

	var v *vehicle.Vehicle
	switch kind {
	case vehicle.KindCar:
		style := strings.TrimSpace(f.Style)
		if style == "" {
			return nil, invalid("style", "is required for a car")
		}
		v = vehicle.NewCar(plate, manufacturer, model, weight, style)
	case vehicle.KindMotorcycle:
		displacement, err := parseAmount("engine_displacement", f.Displacement)
		if err != nil {
			return nil, err
		}
		v = vehicle.NewMotorcycle(plate, manufacturer, model, weight, displacement)
	case vehicle.KindTruck:
		cargo, err := parseAmount("cargo_capacity", f.Cargo)
		if err != nil {
			return nil, err
		}
		v = vehicle.NewTruck(plate, manufacturer, model, weight, cargo)
	}

	if err := v.Validate(); err != nil {
		return nil, invalid("vehicle", "%v", err)
	}
	return v, nil
}

// FormFor renders v back into form fields, the inverse of Build
func FormFor(v *vehicle.Vehicle) Form {
	f := Form{
		Kind:   v.Kind().String(),
		Plate:  v.Plate,
		Make:   v.Make,
		Model:  v.Model,
		Weight: formatAmount(v.Weight),
	}
	switch d := v.Details.(type) {
	case vehicle.Car:
		f.Style = d.Style
	case vehicle.Motorcycle:
		f.Displacement = formatAmount(d.EngineDisplacement)
	case vehicle.Truck:
		f.Cargo = formatAmount(d.CargoCapacity)
	}
	return f
}

// parseAmount accepts a non-negative finite decimal. A comma is taken as the
// decimal separator when no dot is present.
func parseAmount(field, raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, invalid(field, "is required")
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, invalid(field, "must be a number, got %q", strings.TrimSpace(raw))
	}
	if n < 0 {
		return 0, invalid(field, "cannot be negative")
	}
	return n, nil
}

func formatAmount(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
