// Command asm is the avo generator for the root package's fused
// compare-broadcast-movemask routine used by the control-chunk probe.
// It is a tool-only module (see go.mod in this directory) so that avo
// and its toolchain dependencies never leak into the main module's
// require list.
//
// Regenerate with:
//
//	cd avo && go run . -out ../match_amd64.s -stubs ../match_amd64_stub.go
package main

import (
	. "github.com/mmcloughlin/avo/build"
	"github.com/mmcloughlin/avo/operand"
)

func main() {
	TEXT("matchEq16", NOSPLIT, "func(c uint64, ptr unsafe.Pointer) uint64")
	Doc("matchEq16 broadcasts the low byte of c across a 16-lane vector,",
		"compares it lanewise against the 16 bytes at ptr, and returns the",
		"resulting movemask zero-extended to 64 bits.")

	c := Load(Param("c"), GP64())
	ptr := Load(Param("ptr"), GP64())

	splat, zero, data := XMM(), XMM(), XMM()
	result := GP64()

	MOVQ(c, splat)
	PXOR(zero, zero)
	PSHUFB(zero, splat)

	MOVOU(operand.Mem{Base: ptr}, data)
	PCMPEQB(data, splat)
	PMOVMSKB(splat, result.As32())

	Store(result, ReturnIndex(0))
	RET()
	Generate()
}
