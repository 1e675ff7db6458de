//go:build amd64 && !purego

package swisstable

import "unsafe"

// movemaskEq is the fast path for the control-chunk compare: it fuses
// splat+cmpeq+movemask into a single SSE sequence (matchEq16, built
// from avo/asm.go — see match_amd64.s; the splat uses PSHUFB, an SSSE3
// instruction) rather than materializing the intermediate vectors.
func movemaskEq(buf *[16]byte, b byte) uint16 {
	return uint16(matchEq16(uint64(b), unsafe.Pointer(buf)))
}
