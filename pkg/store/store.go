// Package store holds vehicle records in an ordered, array-backed collection.
//
// Records are identified by plate, compared case-insensitively. The backing
// array doubles when full. Deletes shift later records left so live records
// stay packed in [0, size). The Store is not safe for concurrent use; callers
// that share one must serialize access themselves.
package store

import (
	"github.com/ssargent/fleetdb/pkg/vehicle"
)

// DefaultCapacity is the backing array size used when none is given
const DefaultCapacity = 10

// CreateResult reports how a record was inserted
type CreateResult int

const (
	// Inserted means the record took a free slot in the existing array
	Inserted CreateResult = iota + 1
	// InsertedAfterGrowth means the array was doubled before inserting
	InsertedAfterGrowth
)

func (r CreateResult) String() string {
	switch r {
	case Inserted:
		return "inserted"
	case InsertedAfterGrowth:
		return "inserted after growth"
	default:
		return "unknown"
	}
}

// Errors
var (
	ErrNilRecord     = &StoreError{"nil vehicle record"}
	ErrPlateMismatch = &StoreError{"update cannot change a vehicle's plate"}
)

// StoreError represents a precondition violation by the caller
type StoreError struct {
	Message string
}

func (e *StoreError) Error() string {
	return e.Message
}

// Store is an array-backed collection of vehicle records
type Store struct {
	slots []*vehicle.Vehicle
	size  int
}

// New creates a store with the given initial capacity
func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{slots: make([]*vehicle.Vehicle, capacity)}
}

// Len returns the number of records held
func (s *Store) Len() int {
	return s.size
}

// Cap returns the size of the backing array
func (s *Store) Cap() int {
	return len(s.slots)
}

// Create stores v in the first empty slot, doubling the backing array when
// there is none. Duplicate plates are not checked here.
func (s *Store) Create(v *vehicle.Vehicle) (CreateResult, error) {
	if v == nil {
		return 0, ErrNilRecord
	}

	for i := range s.slots {
		if s.slots[i] == nil {
			s.slots[i] = v
			s.size++
			return Inserted, nil
		}
	}

	s.grow()
	s.slots[s.size] = v
	s.size++
	return InsertedAfterGrowth, nil
}

// grow doubles the backing array, keeping every record at its position
func (s *Store) grow() {
	newCap := len(s.slots) * 2
	if newCap == 0 {
		newCap = 1
	}
	slots := make([]*vehicle.Vehicle, newCap)
	copy(slots, s.slots)
	s.slots = slots
}

// Read returns the record whose plate matches, ignoring case
func (s *Store) Read(plate string) (*vehicle.Vehicle, bool) {
	if i := s.indexOf(plate); i >= 0 {
		return s.slots[i], true
	}
	return nil, false
}

// ReadAll returns every record in slot order
func (s *Store) ReadAll() []*vehicle.Vehicle {
	out := make([]*vehicle.Vehicle, 0, s.size)
	for _, v := range s.slots {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}

// ReadByKind returns the records of exactly the given kind in slot order
func (s *Store) ReadByKind(kind vehicle.Kind) []*vehicle.Vehicle {
	var out []*vehicle.Vehicle
	for _, v := range s.slots {
		if v != nil && v.Kind() == kind {
			out = append(out, v)
		}
	}
	if out == nil {
		out = []*vehicle.Vehicle{}
	}
	return out
}

// Update replaces the record identified by old's plate with updated, keeping
// its position. It returns false when no record has that plate. The plate is
// immutable, so updated must carry the same plate as old.
func (s *Store) Update(old, updated *vehicle.Vehicle) (bool, error) {
	if old == nil || updated == nil {
		return false, ErrNilRecord
	}
	if !vehicle.SamePlate(old.Plate, updated.Plate) {
		return false, ErrPlateMismatch
	}

	i := s.indexOf(old.Plate)
	if i < 0 {
		return false, nil
	}
	s.slots[i] = updated
	return true, nil
}

// Delete removes the record with the given plate and shifts the records
// after it one slot left. It returns false when no record has that plate.
func (s *Store) Delete(plate string) bool {
	i := s.indexOf(plate)
	if i < 0 {
		return false
	}

	copy(s.slots[i:s.size], s.slots[i+1:s.size])
	s.slots[s.size-1] = nil
	s.size--
	return true
}

// ReplaceAll installs records as the new backing array. Empty entries are
// kept in place, so a sequence with gaps keeps them; size becomes the number
// of non-nil entries.
func (s *Store) ReplaceAll(records []*vehicle.Vehicle) {
	slots := make([]*vehicle.Vehicle, len(records))
	copy(slots, records)

	size := 0
	for _, v := range slots {
		if v != nil {
			size++
		}
	}
	s.slots = slots
	s.size = size
}

// indexOf scans the first size slots for plate
func (s *Store) indexOf(plate string) int {
	for i := 0; i < s.size && i < len(s.slots); i++ {
		if v := s.slots[i]; v != nil && vehicle.SamePlate(v.Plate, plate) {
			return i
		}
	}
	return -1
}
