package codec

import (
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ssargent/fleetdb/pkg/vehicle"
)

func TestRecord_RoundTrip(t *testing.T) {
	testCases := []struct {
		name    string
		vehicle *vehicle.Vehicle
	}{
		{
			name:    "car",
			vehicle: vehicle.NewCar("ABC123", "Mazda", "3", 1300.25, "sedan"),
		},
		{
			name:    "motorcycle",
			vehicle: vehicle.NewMotorcycle("MOT-9", "Yamaha", "MT-07", 184, 689),
		},
		{
			name:    "truck",
			vehicle: vehicle.NewTruck("TRK 1", "Volvo", "FH16", 9000, 25000.5),
		},
		{
			name:    "empty strings",
			vehicle: vehicle.NewCar("", "", "", 0, ""),
		},
		{
			name:    "unicode",
			vehicle: vehicle.NewCar("ÑAND-Ú", "Citroën", "2CV 🚗", 560, "décapotable"),
		},
		{
			name:    "negative zero and tiny values",
			vehicle: vehicle.NewMotorcycle("Z", "Honda", "Cub", math.Copysign(0, -1), math.SmallestNonzeroFloat64),
		},
		{
			name:    "large values",
			vehicle: vehicle.NewTruck("BIG", "Liebherr", "T 284", math.MaxFloat64, 1e300),
		},
		{
			name:    "long strings",
			vehicle: vehicle.NewCar(strings.Repeat("P", 1024), strings.Repeat("M", 4096), "x", 1, strings.Repeat("s", 10240)),
		},
		{
			name:    "empty slot",
			vehicle: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			encoded, err := appendRecord(nil, tc.vehicle)
			if err != nil {
				t.Fatalf("appendRecord failed: %v", err)
			}

			size := binary.LittleEndian.Uint32(encoded[4:8])
			if int(size) != len(encoded)-entryHeaderSize {
				t.Errorf("PayloadSize mismatch: got %d, want %d", size, len(encoded)-entryHeaderSize)
			}

			r := &reader{buf: encoded}
			got, err := readRecord(r)
			if err != nil {
				t.Fatalf("readRecord failed: %v", err)
			}
			if r.remaining() != 0 {
				t.Errorf("readRecord left %d bytes", r.remaining())
			}

			if tc.vehicle == nil {
				if got != nil {
					t.Fatalf("expected empty slot, got %+v", got)
				}
				return
			}
			assertSameVehicle(t, tc.vehicle, got)
		})
	}
}

// assertSameVehicle compares bit patterns of float fields, so -0 and 0 differ
func assertSameVehicle(t *testing.T, want, got *vehicle.Vehicle) {
	t.Helper()
	if got == nil {
		t.Fatalf("got nil vehicle, want %s", want.Plate)
	}
	if got.Plate != want.Plate || got.Make != want.Make || got.Model != want.Model {
		t.Errorf("common fields mismatch: got %q/%q/%q, want %q/%q/%q",
			got.Plate, got.Make, got.Model, want.Plate, want.Make, want.Model)
	}
	if math.Float64bits(got.Weight) != math.Float64bits(want.Weight) {
		t.Errorf("Weight mismatch: got %v, want %v", got.Weight, want.Weight)
	}
	if got.Kind() != want.Kind() {
		t.Fatalf("Kind mismatch: got %s, want %s", got.Kind(), want.Kind())
	}

	switch w := want.Details.(type) {
	case vehicle.Car:
		if g := got.Details.(vehicle.Car); g.Style != w.Style {
			t.Errorf("Style mismatch: got %q, want %q", g.Style, w.Style)
		}
	case vehicle.Motorcycle:
		g := got.Details.(vehicle.Motorcycle)
		if math.Float64bits(g.EngineDisplacement) != math.Float64bits(w.EngineDisplacement) {
			t.Errorf("EngineDisplacement mismatch: got %v, want %v", g.EngineDisplacement, w.EngineDisplacement)
		}
	case vehicle.Truck:
		g := got.Details.(vehicle.Truck)
		if math.Float64bits(g.CargoCapacity) != math.Float64bits(w.CargoCapacity) {
			t.Errorf("CargoCapacity mismatch: got %v, want %v", g.CargoCapacity, w.CargoCapacity)
		}
	}
}

func TestRecord_CRCValidation(t *testing.T) {
	encoded, err := appendRecord(nil, vehicle.NewCar("ABC123", "Mazda", "3", 1300, "sedan"))
	if err != nil {
		t.Fatalf("appendRecord failed: %v", err)
	}

	t.Run("valid CRC passes validation", func(t *testing.T) {
		if _, err := readRecord(&reader{buf: encoded}); err != nil {
			t.Errorf("readRecord failed: %v", err)
		}
	})

	t.Run("corrupted payload fails validation", func(t *testing.T) {
		corrupted := append([]byte(nil), encoded...)
		corrupted[len(corrupted)-1] ^= 0xFF

		_, err := readRecord(&reader{buf: corrupted})
		if !errors.Is(err, ErrChecksum) {
			t.Errorf("expected ErrChecksum, got %v", err)
		}
	})

	t.Run("corrupted CRC fails validation", func(t *testing.T) {
		corrupted := append([]byte(nil), encoded...)
		corrupted[0] ^= 0x01

		_, err := readRecord(&reader{buf: corrupted})
		if !errors.Is(err, ErrChecksum) {
			t.Errorf("expected ErrChecksum, got %v", err)
		}
	})
}

func TestRecord_MalformedData(t *testing.T) {
	valid, err := appendRecord(nil, vehicle.NewTruck("T1", "Volvo", "FH16", 9000, 25000))
	if err != nil {
		t.Fatalf("appendRecord failed: %v", err)
	}

	testCases := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrTruncated},
		{"partial header", valid[:5], ErrTruncated},
		{"payload shorter than declared", valid[:len(valid)-3], ErrTruncated},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := readRecord(&reader{buf: tc.data})
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestDecodePayload_Malformed(t *testing.T) {
	car, err := appendPayload(nil, vehicle.NewCar("A", "B", "C", 1, "D"))
	if err != nil {
		t.Fatalf("appendPayload failed: %v", err)
	}

	testCases := []struct {
		name    string
		payload []byte
		want    error
	}{
		{"no tag", []byte{}, ErrTruncated},
		{"unknown tag", []byte{9}, ErrUnknownKind},
		{"empty slot with extra bytes", []byte{tagEmpty, 1}, ErrTrailingData},
		{"truncated field", car[:len(car)-1], ErrTruncated},
		{"string longer than payload", []byte{tagCar, 0xFF, 0xFF, 0xFF, 0x7F}, ErrTruncated},
		{"trailing bytes", append(append([]byte(nil), car...), 0), ErrTrailingData},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decodePayload(tc.payload)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAppendPayload_UnknownKind(t *testing.T) {
	_, err := appendPayload(nil, &vehicle.Vehicle{Plate: "X"})
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestRecord_PayloadLayout(t *testing.T) {
	payload, err := appendPayload(nil, vehicle.NewMotorcycle("AB", "C", "D", 1.5, 250))
	if err != nil {
		t.Fatalf("appendPayload failed: %v", err)
	}

	// tag + 3 strings (4+len each) + weight + displacement
	want := 1 + (4 + 2) + (4 + 1) + (4 + 1) + 8 + 8
	if len(payload) != want {
		t.Fatalf("payload length: got %d, want %d", len(payload), want)
	}
	if payload[0] != tagMotorcycle {
		t.Errorf("tag: got %d, want %d", payload[0], tagMotorcycle)
	}
	if n := binary.LittleEndian.Uint32(payload[1:5]); n != 2 {
		t.Errorf("plate length: got %d, want 2", n)
	}
	if string(payload[5:7]) != "AB" {
		t.Errorf("plate: got %q", payload[5:7])
	}
	if bits := binary.LittleEndian.Uint64(payload[len(payload)-8:]); math.Float64frombits(bits) != 250 {
		t.Errorf("displacement: got %v", math.Float64frombits(bits))
	}
}
