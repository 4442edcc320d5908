package vehicle

import (
	"encoding/json"
	"fmt"
)

// vehicleJSON is the flat wire shape of a Vehicle. Only the variant field
// matching Kind is emitted.
type vehicleJSON struct {
	Plate              string   `json:"plate"`
	Make               string   `json:"make"`
	Model              string   `json:"model"`
	Weight             float64  `json:"weight"`
	Kind               string   `json:"kind"`
	Style              *string  `json:"style,omitempty"`
	EngineDisplacement *float64 `json:"engine_displacement,omitempty"`
	CargoCapacity      *float64 `json:"cargo_capacity,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (v Vehicle) MarshalJSON() ([]byte, error) {
	out := vehicleJSON{
		Plate:  v.Plate,
		Make:   v.Make,
		Model:  v.Model,
		Weight: v.Weight,
		Kind:   v.Kind().String(),
	}
	switch d := v.Details.(type) {
	case Car:
		out.Style = &d.Style
	case Motorcycle:
		out.EngineDisplacement = &d.EngineDisplacement
	case Truck:
		out.CargoCapacity = &d.CargoCapacity
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler
func (v *Vehicle) UnmarshalJSON(data []byte) error {
	var in vehicleJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	kind, err := ParseKind(in.Kind)
	if err != nil {
		return err
	}

	*v = Vehicle{Plate: in.Plate, Make: in.Make, Model: in.Model, Weight: in.Weight}
	switch kind {
	case KindCar:
		if in.Style == nil {
			return fmt.Errorf("car %s is missing style", in.Plate)
		}
		v.Details = Car{Style: *in.Style}
	case KindMotorcycle:
		if in.EngineDisplacement == nil {
			return fmt.Errorf("motorcycle %s is missing engine_displacement", in.Plate)
		}
		v.Details = Motorcycle{EngineDisplacement: *in.EngineDisplacement}
	case KindTruck:
		if in.CargoCapacity == nil {
			return fmt.Errorf("truck %s is missing cargo_capacity", in.Plate)
		}
		v.Details = Truck{CargoCapacity: *in.CargoCapacity}
	}
	return nil
}
