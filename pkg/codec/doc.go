// Package codec provides snapshot serialization and deserialization for fleetdb.
//
// A snapshot is the whole ordered record sequence of a store written as one
// self-describing binary blob. Decoding a snapshot yields the same records,
// field for field and in the same order, including the variant of each one.
//
// # Snapshot Format
//
// All integers are little-endian. A snapshot is a header followed by Count
// entries:
//
//	[Magic(4)][Version(2)][Reserved(2)][ID(20)][Timestamp(8)][Count(4)][CRC32(4)]
//	[Entry 0][Entry 1]...[Entry Count-1]
//
// Header fields:
//   - Magic: "FLT\x00"
//   - Version: format version, currently 1; other versions are rejected
//   - ID: KSUID of the snapshot, assigned when it is written
//   - Timestamp: creation time, Unix nanoseconds
//   - Count: number of entries
//   - CRC32: IEEE checksum of the 40 header bytes before it
//
// Each entry is framed the same way:
//
//	[CRC32(4)][PayloadSize(4)][Payload]
//
// The payload starts with a one-byte tag: 0 empty slot, 1 car,
// 2 motorcycle, 3 truck. Non-empty payloads continue with
//
//	[Plate][Make][Model][Weight][Variant]
//
// where strings are [Len u32][bytes], numbers are IEEE-754 float64 bits,
// and Variant is the car's Style string, the motorcycle's engine
// displacement or the truck's cargo capacity.
//
// # Usage
//
//	c := codec.NewSnapshotCodec()
//
//	res, err := c.Save(ctx, target, "binaryfile.bin", s.ReadAll())
//	if err != nil {
//	    return err
//	}
//
//	snap, err := c.Load(ctx, target, "binaryfile.bin")
//	if err != nil {
//	    return err // the store is untouched
//	}
//	s.ReplaceAll(snap.Records)
//
// # Error Handling
//
// Decode reports ErrBadMagic, ErrVersionMismatch, ErrTruncated, ErrChecksum,
// ErrUnknownKind and ErrTrailingData, wrapped with the position of the
// failure. Save and Load wrap every failure in an *OpError naming the
// operation and blob. A failed decode never returns partial records.
package codec
