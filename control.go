package swisstable

import "unsafe"

// Control byte encoding (spec §3, bit-exact in spec §6).
const (
	ctrlEmpty     byte = 0xFF // 0b11111111 — slot never used, or erased terminally
	ctrlTombstone byte = 0xFE // 0b11111110 — slot held an entry that was removed
)

// h7 returns the 7-bit signature stored in an occupied control byte.
func h7(hash uint64) byte {
	return byte(hash & 0x7F)
}

// isOccupied reports whether a control byte encodes a live entry: the
// two sentinels both have the high bit set, and no occupied signature
// (low 7 bits of a hash) can collide with them.
func isOccupied(b byte) bool {
	return b&0x80 == 0
}

// chunk is a 16-byte aligned view over sixteen consecutive control
// bytes (spec §4.2). It never copies the underlying bytes; all masks
// are computed directly against the backing control slice.
type chunk struct {
	bytes *[16]byte
}

// chunkAt returns the chunk starting at byte offset idx*16 within ctrl.
// ctrl's length must be a multiple of 16 (Table enforces this).
func chunkAt(ctrl []byte, idx int) chunk {
	base := idx * 16
	return chunk{bytes: (*[16]byte)(unsafe.Pointer(&ctrl[base]))}
}

// maskEq returns the bits set where a control byte equals b.
func (c chunk) maskEq(b byte) uint16 {
	return movemaskEq(c.bytes, b)
}

// maskEmpty returns the bits set where a control byte is the empty
// sentinel.
func (c chunk) maskEmpty() uint16 {
	return c.maskEq(ctrlEmpty)
}

// maskTombstone returns the bits set where a control byte is the
// tombstone sentinel.
func (c chunk) maskTombstone() uint16 {
	return c.maskEq(ctrlTombstone)
}

// maskOccupied returns the bits set where a control byte encodes a
// live entry.
func (c chunk) maskOccupied() uint16 {
	return ^(c.maskEmpty() | c.maskTombstone())
}

// maskPresent is an alias for maskOccupied, named to match spec §4.2's
// iteration-facing terminology.
func (c chunk) maskPresent() uint16 {
	return c.maskOccupied()
}
