package codec

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"math"

	"github.com/ssargent/fleetdb/pkg/vehicle"
)

// Entry tags. These are part of the wire format and must never be renumbered.
const (
	tagEmpty      byte = 0
	tagCar        byte = 1
	tagMotorcycle byte = 2
	tagTruck      byte = 3
)

// entryHeaderSize is CRC32(4) + PayloadSize(4)
const entryHeaderSize = 8

// appendRecord appends one framed entry for v to dst.
// Format: [CRC32(4)][PayloadSize(4)][Payload]; a nil v encodes an empty slot.
func appendRecord(dst []byte, v *vehicle.Vehicle) ([]byte, error) {
	payload, err := appendPayload(nil, v)
	if err != nil {
		return nil, err
	}
	if uint64(len(payload)) > math.MaxUint32 {
		return nil, fmt.Errorf("record %s too large", v.Plate)
	}

	dst = binary.LittleEndian.AppendUint32(dst, crc32.ChecksumIEEE(payload))
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(payload)))
	return append(dst, payload...), nil
}

func appendPayload(dst []byte, v *vehicle.Vehicle) ([]byte, error) {
	if v == nil {
		return append(dst, tagEmpty), nil
	}

	var err error
	switch d := v.Details.(type) {
	case vehicle.Car:
		dst = append(dst, tagCar)
		if dst, err = appendCommon(dst, v); err != nil {
			return nil, err
		}
		return appendString(dst, d.Style)
	case vehicle.Motorcycle:
		dst = append(dst, tagMotorcycle)
		if dst, err = appendCommon(dst, v); err != nil {
			return nil, err
		}
		return appendFloat(dst, d.EngineDisplacement), nil
	case vehicle.Truck:
		dst = append(dst, tagTruck)
		if dst, err = appendCommon(dst, v); err != nil {
			return nil, err
		}
		return appendFloat(dst, d.CargoCapacity), nil
	default:
		return nil, fmt.Errorf("record %q: %w", v.Plate, ErrUnknownKind)
	}
}

func appendCommon(dst []byte, v *vehicle.Vehicle) ([]byte, error) {
	var err error
	for _, s := range []string{v.Plate, v.Make, v.Model} {
		if dst, err = appendString(dst, s); err != nil {
			return nil, err
		}
	}
	return appendFloat(dst, v.Weight), nil
}

func appendString(dst []byte, s string) ([]byte, error) {
	if uint64(len(s)) > math.MaxUint32 {
		return nil, fmt.Errorf("string field too large: %d bytes", len(s))
	}
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(s)))
	return append(dst, s...), nil
}

// appendFloat stores the IEEE-754 bits, so every value (including -0 and
// NaN payloads) survives a round trip unchanged.
func appendFloat(dst []byte, f float64) []byte {
	return binary.LittleEndian.AppendUint64(dst, math.Float64bits(f))
}

// reader is a bounds-checked cursor over a decoded buffer. The first error
// sticks; later reads return zero values.
type reader struct {
	buf []byte
	off int
	err error
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || len(r.buf)-r.off < n {
		r.err = ErrTruncated
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) u8() byte {
	if b := r.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (r *reader) u32() uint32 {
	if b := r.take(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (r *reader) u64() uint64 {
	if b := r.take(8); b != nil {
		return binary.LittleEndian.Uint64(b)
	}
	return 0
}

func (r *reader) f64() float64 {
	return math.Float64frombits(r.u64())
}

func (r *reader) str() string {
	n := r.u32()
	if r.err != nil {
		return ""
	}
	if uint64(n) > uint64(len(r.buf)-r.off) {
		r.err = ErrTruncated
		return ""
	}
	return string(r.take(int(n)))
}

func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

// readRecord decodes one framed entry, verifying its checksum
func readRecord(r *reader) (*vehicle.Vehicle, error) {
	sum := r.u32()
	size := r.u32()
	if r.err != nil {
		return nil, r.err
	}
	if uint64(size) > uint64(r.remaining()) {
		return nil, ErrTruncated
	}
	payload := r.take(int(size))

	if got := crc32.ChecksumIEEE(payload); got != sum {
		return nil, fmt.Errorf("%w: %d != %d", ErrChecksum, sum, got)
	}
	return decodePayload(payload)
}

func decodePayload(payload []byte) (*vehicle.Vehicle, error) {
	r := &reader{buf: payload}
	tag := r.u8()
	if r.err != nil {
		return nil, r.err
	}
	if tag == tagEmpty {
		if r.remaining() != 0 {
			return nil, ErrTrailingData
		}
		return nil, nil
	}

	v := &vehicle.Vehicle{}
	switch tag {
	case tagCar, tagMotorcycle, tagTruck:
		v.Plate = r.str()
		v.Make = r.str()
		v.Model = r.str()
		v.Weight = r.f64()
	default:
		return nil, fmt.Errorf("%w: tag %d", ErrUnknownKind, tag)
	}

	switch tag {
	case tagCar:
		v.Details = vehicle.Car{Style: r.str()}
	case tagMotorcycle:
		v.Details = vehicle.Motorcycle{EngineDisplacement: r.f64()}
	case tagTruck:
		v.Details = vehicle.Truck{CargoCapacity: r.f64()}
	}

	if r.err != nil {
		return nil, r.err
	}
	if r.remaining() != 0 {
		return nil, ErrTrailingData
	}
	return v, nil
}
