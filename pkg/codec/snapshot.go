package codec

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/ssargent/fleetdb/pkg/blob"
	"github.com/ssargent/fleetdb/pkg/vehicle"
)

// Version is the snapshot format version written by this package
const Version uint16 = 1

// headerSize is Magic(4) + Version(2) + Reserved(2) + ID(20) + Timestamp(8) + Count(4) + CRC32(4)
const headerSize = 44

var magic = [4]byte{'F', 'L', 'T', 0}

// Snapshot is the decoded content of a snapshot blob
type Snapshot struct {
	ID        ksuid.KSUID
	CreatedAt time.Time
	Records   []*vehicle.Vehicle
}

// SaveResult describes a snapshot written to a target
type SaveResult struct {
	ID        ksuid.KSUID
	Name      string
	Records   int
	Bytes     int
	CreatedAt time.Time
}

// SnapshotCodec converts record sequences to and from snapshot blobs
type SnapshotCodec struct {
	now   func() time.Time
	newID func() ksuid.KSUID
}

// NewSnapshotCodec creates a new snapshot codec instance
func NewSnapshotCodec() *SnapshotCodec {
	return &SnapshotCodec{now: time.Now, newID: ksuid.New}
}

// Encode serializes records into a new snapshot with a fresh ID. Nil entries
// are encoded as empty slots and keep their position.
func (c *SnapshotCodec) Encode(records []*vehicle.Vehicle) ([]byte, error) {
	return c.EncodeSnapshot(&Snapshot{
		ID:        c.newID(),
		CreatedAt: c.now(),
		Records:   records,
	})
}

// EncodeSnapshot serializes s.
// Format: [Magic(4)][Version(2)][Reserved(2)][ID(20)][Timestamp(8)][Count(4)][CRC32(4)][Entry...]
func (c *SnapshotCodec) EncodeSnapshot(s *Snapshot) ([]byte, error) {
	if uint64(len(s.Records)) > math.MaxUint32 {
		return nil, fmt.Errorf("too many records: %d", len(s.Records))
	}

	buf := make([]byte, 0, headerSize+len(s.Records)*64)
	buf = append(buf, magic[:]...)
	buf = binary.LittleEndian.AppendUint16(buf, Version)
	buf = binary.LittleEndian.AppendUint16(buf, 0)
	buf = append(buf, s.ID.Bytes()...)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(s.CreatedAt.UnixNano()))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s.Records)))
	buf = binary.LittleEndian.AppendUint32(buf, crc32.ChecksumIEEE(buf))

	var err error
	for i, v := range s.Records {
		if buf, err = appendRecord(buf, v); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return buf, nil
}

// Decode deserializes a snapshot blob, validating every checksum
func (c *SnapshotCodec) Decode(data []byte) (*Snapshot, error) {
	if len(data) >= len(magic) && !bytes.Equal(data[:len(magic)], magic[:]) {
		return nil, ErrBadMagic
	}
	if len(data) < headerSize {
		return nil, fmt.Errorf("data too short for snapshot header: %w", ErrTruncated)
	}
	if v := binary.LittleEndian.Uint16(data[4:6]); v != Version {
		return nil, fmt.Errorf("%w: %d (want %d)", ErrVersionMismatch, v, Version)
	}
	if sum, got := binary.LittleEndian.Uint32(data[40:44]), crc32.ChecksumIEEE(data[:40]); sum != got {
		return nil, fmt.Errorf("header %w: %d != %d", ErrChecksum, sum, got)
	}

	id, err := ksuid.FromBytes(data[8:28])
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot id: %w", err)
	}
	ts := binary.LittleEndian.Uint64(data[28:36])
	count := binary.LittleEndian.Uint32(data[36:40])

	r := &reader{buf: data[headerSize:]}
	if uint64(count)*entryHeaderSize > uint64(r.remaining()) {
		return nil, fmt.Errorf("%d records declared: %w", count, ErrTruncated)
	}

	records := make([]*vehicle.Vehicle, 0, count)
	for i := uint32(0); i < count; i++ {
		v, err := readRecord(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, v)
	}
	if r.remaining() != 0 {
		return nil, fmt.Errorf("%d bytes after last record: %w", r.remaining(), ErrTrailingData)
	}

	return &Snapshot{
		ID:        id,
		CreatedAt: time.Unix(0, int64(ts)),
		Records:   records,
	}, nil
}

// Serialize writes records to w as one snapshot
func (c *SnapshotCodec) Serialize(w io.Writer, records []*vehicle.Vehicle) error {
	data, err := c.Encode(records)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Deserialize reads one snapshot from r
func (c *SnapshotCodec) Deserialize(r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return c.Decode(data)
}

// Save serializes records and stores the blob under name
func (c *SnapshotCodec) Save(ctx context.Context, target blob.Target, name string,
	records []*vehicle.Vehicle) (*SaveResult, error) {
	s := &Snapshot{ID: c.newID(), CreatedAt: c.now(), Records: records}
	data, err := c.EncodeSnapshot(s)
	if err != nil {
		return nil, &OpError{Op: "serialize", Name: name, Err: err}
	}
	if err := target.Put(ctx, name, data); err != nil {
		return nil, &OpError{Op: "serialize", Name: name, Err: err}
	}
	return &SaveResult{
		ID:        s.ID,
		Name:      name,
		Records:   len(records),
		Bytes:     len(data),
		CreatedAt: s.CreatedAt,
	}, nil
}

// Load fetches the blob stored under name and decodes it. It never touches
// any store; installing the records is left to the caller.
func (c *SnapshotCodec) Load(ctx context.Context, target blob.Target, name string) (*Snapshot, error) {
	data, err := target.Get(ctx, name)
	if err != nil {
		return nil, &OpError{Op: "deserialize", Name: name, Err: err}
	}
	s, err := c.Decode(data)
	if err != nil {
		return nil, &OpError{Op: "deserialize", Name: name, Err: err}
	}
	return s, nil
}
