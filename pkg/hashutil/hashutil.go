// Package hashutil provides the hash mixing primitives used for structural
// tree fingerprints.
//
// Mixing uses the splitmix64 finalizer by Vigna (2014) which provides
// full-avalanche mixing across all 64 bits. Leaf strings are fingerprinted
// with 64-bit FNV-1a.
package hashutil

import "hash/fnv"

// Splitmix64 constants from the splitmix64 finalizer by Vigna (2014).
const (
	// MixShift1 is the first right-shift in the splitmix64 finalizer.
	MixShift1 = 30

	// MixMul1 is the first multiplier in the splitmix64 finalizer.
	MixMul1 = 0xbf58476d1ce4e5b9

	// MixShift2 is the second right-shift in the splitmix64 finalizer.
	MixShift2 = 27

	// MixMul2 is the second multiplier in the splitmix64 finalizer.
	MixMul2 = 0x94d049bb133111eb

	// MixShift3 is the third right-shift in the splitmix64 finalizer.
	MixShift3 = 31

	// GoldenGamma is the golden-ratio-derived increment of splitmix64.
	GoldenGamma = 0x9e3779b97f4a7c15
)

// Combine shift amounts, borrowed from the boost hash_combine recipe.
const (
	combineShiftLeft  = 6
	combineShiftRight = 2
)

// Mix64 applies the splitmix64 finalizer for full-avalanche mixing.
// Zero is a fixed point of the finalizer.
func Mix64(v uint64) uint64 {
	v ^= v >> MixShift1
	v *= MixMul1
	v ^= v >> MixShift2
	v *= MixMul2
	v ^= v >> MixShift3

	return v
}

// String computes a 64-bit FNV-1a hash of a string without copying it
// into an intermediate byte slice at the call site.
func String(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))

	return h.Sum64()
}

// Combine folds value into seed. The result depends on the order in which
// values are folded, so sequences that differ only in order hash differently.
func Combine(seed, value uint64) uint64 {
	seed ^= value + GoldenGamma + (seed << combineShiftLeft) + (seed >> combineShiftRight)

	return Mix64(seed)
}
