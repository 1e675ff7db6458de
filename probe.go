package swisstable

// probeResult is what the probe sequence from spec §4.5 needs to
// report back to a caller: either the index of a matching occupied
// slot, or the index of the first empty-or-tombstone slot seen along
// the way (the insertion point, if the key turns out not to be
// present).
type probeResult struct {
	index   int
	found   bool
	// insertAt is the first empty or tombstone slot observed during the
	// probe, valid whenever found is false. A fresh insert should use
	// it instead of restarting the probe from scratch.
	insertAt    int
	hasInsertAt bool
}

// probe walks the chunk sequence for hash starting at its home slot
// (spec §4.5): entry_idx = h mod max_entries; chunk_idx = entry_idx /
// 16; byte_offset = entry_idx mod 16. The first visit to chunk_idx is
// masked with keep_mask = 0xFFFF << byte_offset so that slots before
// byte_offset within that chunk — which belong to the probe sequence
// of some other, lower-offset hash sharing this chunk, not to this
// one — are never treated as a hit, a terminating empty, or an
// insertion point on that first visit (spec §9, "Probe start
// keep-mask"; a hash landing mid-chunk must not let an earlier slot
// in the same chunk falsely satisfy it). Every other chunk visit is
// unmasked, matching original_source/include/hashmap.hpp's get_slot
// (lines 367-427): its probe loop advances chunk_idx = (chunk_idx+1)
// mod num_chunks without ever reapplying keep_mask, so a wrap that
// cycles back around to chunk_idx's starting value visits it a
// second time fully unmasked — which is the only way the masked-off
// low slots of the home chunk are ever reachable (relevant mainly to
// small, single-chunk tables, where chunk_idx's only other neighbor
// is itself). The loop below mirrors that by running one extra
// iteration past a full lap around the chunks, which per invariant 5
// of spec §3 is always enough: a table that is never 100% full always
// has an empty control byte reachable within that bound.
func probe[K comparable, V any](ctrl []byte, entries []entry[K, V], maxEntries int, hash uint64, want K, eq func(K, K) bool) probeResult {
	if maxEntries == 0 {
		return probeResult{}
	}
	sig := h7(hash)
	chunks := maxEntries / chunkSize
	entryIdx := int(hash % uint64(maxEntries))
	home := entryIdx / chunkSize
	byteOffset := uint(entryIdx % chunkSize)
	keepMask := uint16(0xFFFF << byteOffset)

	var res probeResult
	for i := 0; i <= chunks; i++ {
		idx := (home + i) % chunks
		c := chunkAt(ctrl, idx)

		hit := c.maskEq(sig) & c.maskOccupied()
		empty := c.maskEmpty()
		free := empty | c.maskTombstone()
		if i == 0 {
			hit &= keepMask
			empty &= keepMask
			free &= keepMask
		}

		if !res.hasInsertAt && free != 0 {
			res.insertAt = idx*chunkSize + trailingZeros16(free)
			res.hasInsertAt = true
		}

		for hit != 0 {
			bit := trailingZeros16(hit)
			hit &^= 1 << uint(bit)
			slot := idx*chunkSize + bit
			e := &entries[slot]
			if e.hash == hash && eq(e.key, want) {
				res.index = slot
				res.found = true
				return res
			}
		}

		// Per invariant 5, a chunk containing any empty byte (not a
		// tombstone) at or after this probe's start means the key, if
		// present, would have stopped the probe here — it can't live
		// farther along the sequence.
		if empty != 0 {
			break
		}
	}
	return res
}

// trailingZeros16 returns the index of the lowest set bit in a 16-bit
// mask. Callers only ever call this on a nonzero mask.
func trailingZeros16(mask uint16) int {
	n := 0
	for mask&1 == 0 {
		mask >>= 1
		n++
	}
	return n
}
