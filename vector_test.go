package swisstable

import "testing"

func TestMovemaskEqGeneric(t *testing.T) {
	tests := []struct {
		name string
		c    uint8
		buf  [16]byte
		want uint16
	}{
		{
			"match 3",
			42,
			[16]byte{42, 0, 0, 42, 42, 0, 17, 17, 0, 0, 0, 0, 0, 0, 0, 0},
			1<<0 | 1<<3 | 1<<4,
		},
		{
			"match 1 at end",
			42,
			[16]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 42},
			1 << 15,
		},
		{
			"match 2 at start and end",
			42,
			[16]byte{42, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 42},
			1<<0 | 1<<15,
		},
		{
			"match all",
			42,
			[16]byte{42, 42, 42, 42, 42, 42, 42, 42, 42, 42, 42, 42, 42, 42, 42, 42},
			1<<16 - 1,
		},
		{
			"match none",
			255,
			[16]byte{42, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 42},
			0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := movemaskEqGeneric(vector(tt.buf), tt.c)
			if got != tt.want {
				t.Errorf("movemaskEqGeneric() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestMovemaskEqParity checks that the platform fast path (amd64 SIMD
// asm, or the generic fallback when built with purego/non-amd64)
// agrees with the portable oracle in vector.go over a few patterns with
// repeated and boundary values, for each of several needle bytes.
func TestMovemaskEqParity(t *testing.T) {
	patterns := [][16]byte{
		{},
		{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
		{0xFE, 0, 0xFE, 0, 0xFE, 0, 0xFE, 0, 0xFE, 0, 0xFE, 0, 0xFE, 0, 0xFE, 0},
	}
	needles := []byte{0x00, 0x01, 0xFE, 0xFF}

	for pi, p := range patterns {
		for _, needle := range needles {
			want := movemaskEqGeneric(vector(p), needle)
			got := movemaskEq(&p, needle)
			if got != want {
				t.Errorf("pattern %d needle %#x: movemaskEq() = %v, want %v", pi, needle, got, want)
			}
		}
	}
}

func BenchmarkMovemaskEqGeneric(b *testing.B) {
	buf := [16]byte{42, 0, 0, 42, 42, 0, 17, 17, 0, 0, 0, 0, 0, 0, 0, 0}
	v := vector(buf)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		movemaskEqGeneric(v, 42)
	}
}

func BenchmarkMovemaskEq(b *testing.B) {
	buf := [16]byte{42, 0, 0, 42, 42, 0, 17, 17, 0, 0, 0, 0, 0, 0, 0, 0}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		movemaskEq(&buf, 42)
	}
}
