// Package vehicle defines the vehicle record stored by fleetdb.
//
// A Vehicle carries the fields every record has (plate, make, model, weight)
// plus exactly one variant payload: Car, Motorcycle or Truck. The payload
// decides the record's Kind and never changes after construction; updating a
// record means replacing it with a new one that keeps the same plate.
package vehicle

import (
	"fmt"
	"math"
	"strings"
)

// Kind identifies the variant of a vehicle record
type Kind uint8

const (
	KindUnknown Kind = iota
	KindCar
	KindMotorcycle
	KindTruck
)

// Kinds lists every valid kind in display order
var Kinds = []Kind{KindCar, KindMotorcycle, KindTruck}

func (k Kind) String() string {
	switch k {
	case KindCar:
		return "car"
	case KindMotorcycle:
		return "motorcycle"
	case KindTruck:
		return "truck"
	default:
		return "unknown"
	}
}

// Valid reports whether k is one of the three record kinds
func (k Kind) Valid() bool {
	return k == KindCar || k == KindMotorcycle || k == KindTruck
}

// ParseKind maps a kind label to a Kind. Matching is case-insensitive and
// the Spanish labels (automóvil, motocicleta, camión) are accepted as aliases.
func ParseKind(label string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "car", "automobile", "automóvil", "automovil":
		return KindCar, nil
	case "motorcycle", "moto", "motocicleta":
		return KindMotorcycle, nil
	case "truck", "camión", "camion":
		return KindTruck, nil
	}
	return KindUnknown, fmt.Errorf("unknown vehicle kind %q", label)
}

// Details is the variant payload of a vehicle. It is sealed: only Car,
// Motorcycle and Truck implement it.
type Details interface {
	Kind() Kind
	isDetails()
}

// Car is the payload of a passenger car
type Car struct {
	Style string `json:"style"`
}

// Motorcycle is the payload of a motorcycle
type Motorcycle struct {
	EngineDisplacement float64 `json:"engine_displacement"`
}

// Truck is the payload of a truck
type Truck struct {
	CargoCapacity float64 `json:"cargo_capacity"`
}

func (Car) Kind() Kind        { return KindCar }
func (Motorcycle) Kind() Kind { return KindMotorcycle }
func (Truck) Kind() Kind      { return KindTruck }

func (Car) isDetails()        {}
func (Motorcycle) isDetails() {}
func (Truck) isDetails()      {}

// Vehicle is a single vehicle record
type Vehicle struct {
	Plate   string
	Make    string
	Model   string
	Weight  float64
	Details Details
}

// NewCar creates a car record
func NewCar(plate, manufacturer, model string, weight float64, style string) *Vehicle {
	return &Vehicle{Plate: plate, Make: manufacturer, Model: model, Weight: weight, Details: Car{Style: style}}
}

// NewMotorcycle creates a motorcycle record
func NewMotorcycle(plate, manufacturer, model string, weight, displacement float64) *Vehicle {
	return &Vehicle{Plate: plate, Make: manufacturer, Model: model, Weight: weight,
		Details: Motorcycle{EngineDisplacement: displacement}}
}

// NewTruck creates a truck record
func NewTruck(plate, manufacturer, model string, weight, cargo float64) *Vehicle {
	return &Vehicle{Plate: plate, Make: manufacturer, Model: model, Weight: weight,
		Details: Truck{CargoCapacity: cargo}}
}

// Kind returns the record's variant, or KindUnknown when it has no payload
func (v *Vehicle) Kind() Kind {
	if v.Details == nil {
		return KindUnknown
	}
	return v.Details.Kind()
}

// Clone returns a copy of the record. Payloads are plain values, so the copy
// shares nothing with v.
func (v *Vehicle) Clone() *Vehicle {
	c := *v
	return &c
}

// Summary renders the variant-specific field for listings
func (v *Vehicle) Summary() string {
	switch d := v.Details.(type) {
	case Car:
		return "Style: " + d.Style
	case Motorcycle:
		return fmt.Sprintf("Displacement: %g cc", d.EngineDisplacement)
	case Truck:
		return fmt.Sprintf("Cargo: %g kg", d.CargoCapacity)
	default:
		return "N/A"
	}
}

// Validate checks that the record is fully formed
func (v *Vehicle) Validate() error {
	if strings.TrimSpace(v.Plate) == "" {
		return fmt.Errorf("plate is required")
	}
	if strings.TrimSpace(v.Make) == "" {
		return fmt.Errorf("make is required")
	}
	if strings.TrimSpace(v.Model) == "" {
		return fmt.Errorf("model is required")
	}
	if err := checkAmount("weight", v.Weight); err != nil {
		return err
	}

	switch d := v.Details.(type) {
	case Car:
		if strings.TrimSpace(d.Style) == "" {
			return fmt.Errorf("car style is required")
		}
	case Motorcycle:
		return checkAmount("engine displacement", d.EngineDisplacement)
	case Truck:
		return checkAmount("cargo capacity", d.CargoCapacity)
	default:
		return fmt.Errorf("vehicle %s has no kind", v.Plate)
	}
	return nil
}

// SamePlate reports whether two plates identify the same record
func SamePlate(a, b string) bool {
	return strings.EqualFold(a, b)
}

func checkAmount(field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%s must be a finite number", field)
	}
	if value < 0 {
		return fmt.Errorf("%s cannot be negative", field)
	}
	return nil
}
