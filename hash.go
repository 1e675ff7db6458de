package swisstable

import (
	"reflect"
	"unsafe"
)

// Hash computes the 64-bit hash of a key (spec §4.8's "hashing
// trait"). Tables are constructed with one of these — either a
// built-in one from IdentityHash/BytesHash/StringHash, or a caller
// supplied specialization for a user type.
type Hash[K any] func(key K) uint64

// Equal reports whether two keys are equal. The zero value of a
// Table's Equal is Go's own == via a comparable constraint.
type Equal[K any] func(a, b K) bool

// Integer is the set of built-in integral kinds the identity hash is
// pre-wired for (spec §4.8: "Pre-wired for all integral scalar
// types"). Modeled on the Key constraint used for the same purpose in
// bufbuild/fastpb's internal/swiss table.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// IdentityHash returns the identity hash for an integral key type:
// the key's bits, zero-extended to 64 bits (spec §6, "Integer hash").
// It is a deliberately weak hash — the spec allows it, and delegates
// any adversarial-input concern to the embedder via a custom Hash.
func IdentityHash[K Integer]() Hash[K] {
	return func(k K) uint64 {
		switch v := any(k).(type) {
		case int:
			return uint64(uint(v))
		case int8:
			return uint64(uint8(v))
		case int16:
			return uint64(uint16(v))
		case int32:
			return uint64(uint32(v))
		case int64:
			return uint64(v)
		case uint:
			return uint64(v)
		case uint8:
			return uint64(v)
		case uint16:
			return uint64(v)
		case uint32:
			return uint64(v)
		case uint64:
			return v
		case uintptr:
			return uint64(v)
		default:
			// A named type whose underlying type is one of the above
			// (e.g. `type UserID int64`) doesn't match the type switch
			// above, since the switch matches on dynamic type, not
			// underlying type. Fall back to reflection, extracting the
			// value's bit pattern by its Kind's width rather than its
			// mathematical (sign-extended) value.
			return reflectIdentityHash(reflect.ValueOf(k))
		}
	}
}

func reflectIdentityHash(v reflect.Value) uint64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		bits := v.Type().Bits()
		n := uint64(v.Int())
		if bits >= 64 {
			return n
		}
		return n & (uint64(1)<<uint(bits) - 1)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint()
	default:
		panic("swisstable: IdentityHash used with a non-integral key kind")
	}
}

// wordXORFold implements the byte-string hash from spec §6: split the
// byte string into 8-byte little-endian words followed by a trailing
// run, XOR-fold the whole words together, then XOR in each trailing
// byte shifted by its position within the run.
func wordXORFold(b []byte) uint64 {
	const w = 8
	var h uint64
	n := len(b) / w
	for i := 0; i < n; i++ {
		word := b[i*w : i*w+w]
		h ^= uint64(word[0]) | uint64(word[1])<<8 | uint64(word[2])<<16 | uint64(word[3])<<24 |
			uint64(word[4])<<32 | uint64(word[5])<<40 | uint64(word[6])<<48 | uint64(word[7])<<56
	}
	for i, c := range b[n*w:] {
		h ^= uint64(c) << uint(8*i)
	}
	return h
}

// BytesHash returns the byte-string hash from spec §6, for []byte
// keys.
func BytesHash() Hash[[]byte] {
	return wordXORFold
}

// StringHash returns the byte-string hash from spec §6, for string
// keys. It reads the string's bytes without copying them.
func StringHash() Hash[string] {
	return func(s string) uint64 {
		if len(s) == 0 {
			return 0
		}
		b := unsafe.Slice(unsafe.StringData(s), len(s))
		return wordXORFold(b)
	}
}

// FastHash returns a hash built on the Go runtime's internal string/
// memory hash (the same technique the teacher's hashUint64/hashString
// use via go:linkname to runtime.memhash), seeded once per call to
// FastHash so repeated calls (and repeated processes) don't collide on
// a fixed seed. It is not bit-exact per spec §6 and is offered purely
// as a faster, non-reference alternative for callers that don't need
// the documented hash values — the Table constructors in this package
// default to IdentityHash/StringHash/BytesHash, not this.
func FastHash[K comparable]() Hash[K] {
	seed := uintptr(fastSeed())
	return func(k K) uint64 {
		if s, ok := any(k).(string); ok {
			return uint64(memhash(unsafe.Pointer(unsafe.StringData(s)), seed, uintptr(len(s))))
		}
		return uint64(memhash(unsafe.Pointer(&k), seed, unsafe.Sizeof(k)))
	}
}

//go:linkname memhash runtime.memhash
//go:noescape
func memhash(p unsafe.Pointer, seed, s uintptr) uintptr

//go:linkname fastSeed runtime.fastrand64
func fastSeed() uint64

// defaultEqual is the fallback Equal for any comparable key type.
func defaultEqual[K comparable](a, b K) bool {
	return a == b
}
