// Package swisstable implements an open-addressed hash table keyed on
// a SIMD-probed control-byte array, in the style of Abseil's
// SwissTable and Facebook's F14 (spec §1-§2). Each 16-byte chunk of
// control bytes is scanned in one comparison via a 128-bit SIMD
// compare-and-movemask on amd64, with a portable scalar fallback
// elsewhere.
package swisstable

import (
	"fmt"
	"reflect"
)

// logf is the table's trace-print hook, generalizing the teacher's
// compile-time `const debug = false` switch into a runtime-settable
// no-op default (see WithDebugLog).
type logf func(format string, args ...any)

func noopLogf(string, ...any) {}

// Table is a hash map from K to V using quadratic-free, chunk-wise
// linear probing over 16-byte control chunks (spec §3). The zero
// value is not usable; construct one with New or WithCapacity.
type Table[K comparable, V any] struct {
	ctrl    []byte        // len == maxEntries, always a multiple of chunkSize
	entries []entry[K, V] // len == maxEntries, parallel to ctrl

	maxEntries int
	nrUsed     int // occupied + tombstoned slots, for load-factor accounting

	hash  Hash[K]
	equal Equal[K]

	// triviallyEquatable mirrors spec §4.8's is_trivially_equatable
	// trait: when true, a match on the entry's stored 64-bit hash is
	// trusted without re-checking the full key (valid only when hash has
	// zero known collisions for the key domain in use — see
	// WithTriviallyEquatable).
	triviallyEquatable bool

	seed uint64
	log  logf
}

// Option configures a Table at construction time (grounded in the
// teacher's own TODO: "probably use functional opts. Capacity is a
// hint.").
type Option[K comparable, V any] func(*Table[K, V])

// WithHash overrides the table's hash function. Required for key
// types without a built-in IdentityHash/StringHash/BytesHash.
func WithHash[K comparable, V any](h Hash[K]) Option[K, V] {
	return func(t *Table[K, V]) { t.hash = h }
}

// WithEqual overrides the table's equality function. Defaults to Go's
// built-in == via the comparable constraint.
func WithEqual[K comparable, V any](eq Equal[K]) Option[K, V] {
	return func(t *Table[K, V]) { t.equal = eq }
}

// WithTriviallyEquatable declares that hash has no collisions the
// table will ever observe for its key domain, so equality of the full
// 64-bit hash can stand in for a full key comparison (spec §4.8). This
// is an unsafe opt-in: a false positive under a colliding hash silently
// returns the wrong entry instead of probing further. Off by default.
func WithTriviallyEquatable[K comparable, V any](v bool) Option[K, V] {
	return func(t *Table[K, V]) { t.triviallyEquatable = v }
}

// WithSeed sets the table's seed, recorded on the Table but not mixed
// into the supplied Hash automatically — a Hash that wants
// seed-dependent behavior (e.g. FastHash) should close over it itself.
// Exposed mainly so fuzzing/test harnesses can pin and report it
// (spec's mirror-testing needs a reproducible seed, per the teacher's
// own `seed` field).
func WithSeed[K comparable, V any](seed uint64) Option[K, V] {
	return func(t *Table[K, V]) { t.seed = seed }
}

// WithDebugLog installs a trace-print hook, called at every insert,
// removal, and grow decision. It is the runtime-settable generalization
// of the teacher's `const debug = false` switch — off (a no-op) unless
// a caller opts in, typically from a test.
func WithDebugLog[K comparable, V any](fn func(format string, args ...any)) Option[K, V] {
	return func(t *Table[K, V]) { t.log = fn }
}

// New constructs an empty Table with a lazy (unallocated) backing
// store; the first Set allocates minEntries slots (spec §4.6).
func New[K comparable, V any](opts ...Option[K, V]) *Table[K, V] {
	t, err := NewWithOptions[K, V](0, opts...)
	if err != nil {
		// n is a fixed 0 here, so the only possible failure is a key
		// type defaultHashFor doesn't know how to hash and that no
		// WithHash option supplied — a programmer error, not a runtime
		// condition callers should have to check for.
		panic(err)
	}
	return t
}

// WithCapacity constructs a Table whose backing store is allocated up
// front at align_up(n, 16) entries (spec §6's with_capacity), rather
// than growing lazily from the first Set. Filling it past 0.75 load
// still triggers an ordinary grow, same as any other table — this
// just skips the first allocation. It panics if n is negative or if K
// has no default hash and no WithHash option was given; use
// NewWithOptions for a non-panicking constructor.
func WithCapacity[K comparable, V any](n int, opts ...Option[K, V]) *Table[K, V] {
	t, err := NewWithOptions[K, V](n, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// NewWithOptions is the fallible constructor: it validates n instead
// of panicking, returning an error for a negative capacity. n <= 0
// otherwise behaves like New (a lazy, unallocated table).
func NewWithOptions[K comparable, V any](n int, opts ...Option[K, V]) (*Table[K, V], error) {
	if n < 0 {
		return nil, fmt.Errorf("swisstable: negative capacity %d", n)
	}

	t := &Table[K, V]{
		equal: defaultEqual[K],
		log:   noopLogf,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.hash == nil {
		t.hash = defaultHashFor[K]()
	}
	if t.hash == nil {
		return nil, fmt.Errorf("swisstable: no default hash for key type %T; supply WithHash", *new(K))
	}
	if t.log == nil {
		t.log = noopLogf
	}

	want := capacityForRequest(n)
	if want > 0 {
		t.allocate(want)
	}
	return t, nil
}

// defaultHashFor resolves a Hash for comparable key types the package
// knows how to hash out of the box: strings (StringHash) and every
// integral scalar kind (spec §4.8: "Pre-wired for all integral scalar
// types"), via the same zero-extending identity hash IdentityHash
// uses — duplicated here as a dynamic-type switch rather than calling
// IdentityHash[K]() directly, since defaultHashFor's K is only
// constrained to comparable, not Integer. Any other key type must
// supply WithHash explicitly; NewWithOptions returns an error rather
// than shipping a table whose hash is nil.
func defaultHashFor[K comparable]() Hash[K] {
	var zero K
	switch any(zero).(type) {
	case string:
		h := StringHash()
		return func(k K) uint64 { return h(any(k).(string)) }
	case int:
		return func(k K) uint64 { return uint64(uint(any(k).(int))) }
	case int8:
		return func(k K) uint64 { return uint64(uint8(any(k).(int8))) }
	case int16:
		return func(k K) uint64 { return uint64(uint16(any(k).(int16))) }
	case int32:
		return func(k K) uint64 { return uint64(uint32(any(k).(int32))) }
	case int64:
		return func(k K) uint64 { return uint64(any(k).(int64)) }
	case uint:
		return func(k K) uint64 { return uint64(any(k).(uint)) }
	case uint8:
		return func(k K) uint64 { return uint64(any(k).(uint8)) }
	case uint16:
		return func(k K) uint64 { return uint64(any(k).(uint16)) }
	case uint32:
		return func(k K) uint64 { return uint64(any(k).(uint32)) }
	case uint64:
		return func(k K) uint64 { return any(k).(uint64) }
	case uintptr:
		return func(k K) uint64 { return uint64(any(k).(uintptr)) }
	default:
		// A named integer type (e.g. `type UserID int64`) has a dynamic
		// type the switch above can't match; fall back to the same
		// Kind-based reflection IdentityHash itself falls back to.
		if rv := reflect.ValueOf(zero); rv.IsValid() {
			switch rv.Kind() {
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
				reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
				return func(k K) uint64 { return reflectIdentityHash(reflect.ValueOf(k)) }
			}
		}
		return nil
	}
}

// allocate replaces the table's backing store with one sized for
// maxEntries, which must already be a multiple of chunkSize. All
// control bytes start empty.
func (t *Table[K, V]) allocate(maxEntries int) {
	ctrl := make([]byte, maxEntries)
	for i := range ctrl {
		ctrl[i] = ctrlEmpty
	}
	t.ctrl = ctrl
	t.entries = make([]entry[K, V], maxEntries)
	t.maxEntries = maxEntries
}

// Len returns the number of entries currently stored. The table
// doesn't track occupied and tombstoned slots separately (nrUsed
// counts both, see DESIGN.md), so Len scans the control bytes rather
// than risk returning a stale count after a Remove.
func (t *Table[K, V]) Len() int {
	return t.count()
}

// count scans the control bytes to find the live entry count.
func (t *Table[K, V]) count() int {
	n := 0
	for _, b := range t.ctrl {
		if isOccupied(b) {
			n++
		}
	}
	return n
}

// Get looks up key and reports whether it was present.
func (t *Table[K, V]) Get(key K) (V, bool) {
	var zero V
	if t.maxEntries == 0 {
		return zero, false
	}
	h := t.hash(key)
	res := t.probeFor(h, key)
	if !res.found {
		return zero, false
	}
	return t.entries[res.index].value, true
}

// probeFor runs probe with the table's equality policy, honoring
// triviallyEquatable by skipping the full key comparison.
func (t *Table[K, V]) probeFor(h uint64, key K) probeResult {
	eq := t.equal
	if t.triviallyEquatable {
		eq = func(K, K) bool { return true }
	}
	return probe(t.ctrl, t.entries, t.maxEntries, h, key, eq)
}

// Contains reports whether key is present, without fetching its
// value.
func (t *Table[K, V]) Contains(key K) bool {
	_, ok := t.Get(key)
	return ok
}

// Set inserts or overwrites the value for key (spec §4.4's insert,
// allowing upsert). It returns true if this created a new entry.
// Per spec §4.6, the load-factor check runs before the probe, so an
// overwrite of an existing key can trigger a grow it didn't need —
// the same tradeoff the spec's own insert() makes.
func (t *Table[K, V]) Set(key K, value V) bool {
	h := t.hash(key)
	t.growIfNeeded()
	res := t.probeFor(h, key)
	if res.found {
		t.entries[res.index].value = value
		return false
	}
	t.insertAt(res, h, key, value)
	return true
}

// insertAt writes a new entry using res.insertAt as computed by the
// most recent probe. If res carries no insertion slot it probes once
// more, and panics if that probe finds no free slot either.
func (t *Table[K, V]) insertAt(res probeResult, h uint64, key K, value V) {
	if !res.hasInsertAt {
		res = t.probeFor(h, key)
		if !res.hasInsertAt {
			panic("swisstable: no free slot after grow")
		}
	}
	idx := res.insertAt
	wasTombstone := t.ctrl[idx] == ctrlTombstone
	t.ctrl[idx] = h7(h) &^ 0x80
	t.entries[idx] = entry[K, V]{hash: h, key: key, value: value}
	if !wasTombstone {
		t.nrUsed++
	}
	t.log("insert: slot %d key %v tombstoneReused %v", idx, key, wasTombstone)
}

// growIfNeeded allocates a larger backing store whenever the next
// insert would push occupancy past the 0.75 load factor (spec §6), or
// when the table has never been allocated at all.
func (t *Table[K, V]) growIfNeeded() {
	if t.maxEntries == 0 {
		t.grow(true)
		return
	}
	if (t.nrUsed+1)*loadFactorDen > t.maxEntries*loadFactorNum {
		t.grow(false)
	}
}

// grow reallocates the table at growthCapacity's next size and
// rehashes every live entry into the new control/entries arrays (spec
// §4.6). Tombstones are dropped during the rehash, which is the only
// place nrUsed is ever allowed to shrink.
func (t *Table[K, V]) grow(firstAllocation bool) {
	newSize := growthCapacity(t.maxEntries, firstAllocation)
	t.log("grow: %d -> %d entries", t.maxEntries, newSize)
	oldCtrl, oldEntries := t.ctrl, t.entries
	t.allocate(newSize)
	t.nrUsed = 0

	for i, b := range oldCtrl {
		if !isOccupied(b) {
			continue
		}
		e := oldEntries[i]
		res := t.probeFor(e.hash, e.key)
		t.insertAt(res, e.hash, e.key, e.value)
	}
}

// Remove deletes key if present, leaving a tombstone in its control
// byte (spec §4.4's erase). Removal never decrements nrUsed — see
// DESIGN.md's open-question note — so repeated insert/remove cycles
// against the same table will eventually trigger a grow that compacts
// tombstones away.
func (t *Table[K, V]) Remove(key K) bool {
	if t.maxEntries == 0 {
		return false
	}
	h := t.hash(key)
	res := t.probeFor(h, key)
	if !res.found {
		return false
	}
	t.ctrl[res.index] = ctrlTombstone
	t.entries[res.index] = entry[K, V]{}
	t.log("remove: slot %d key %v", res.index, key)
	return true
}

// Delete is an alias for Remove, matching the naming the teacher's
// own in-progress tests (vmap_test.go) already expect.
func (t *Table[K, V]) Delete(key K) bool {
	return t.Remove(key)
}

// String renders basic table statistics for debugging, in the
// teacher's terse %v-friendly style.
func (t *Table[K, V]) String() string {
	return fmt.Sprintf("swisstable.Table{len:%d maxEntries:%d nrUsed:%d}", t.count(), t.maxEntries, t.nrUsed)
}
