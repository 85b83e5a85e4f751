// Package hwy reports the SIMD capabilities of the running CPU and derives
// lane widths from them.
//
// Cooperative algorithms in hwy/contrib size their lock-step sub-groups from
// these values: a sub-group is as wide as the number of elements that fit in
// one vector register, so a scan over float32 on AVX2 uses 8 lanes while the
// same scan over float64 uses 4.
//
// Basic usage:
//
//	import "github.com/ajroetker/go-blockscan/hwy"
//
//	fmt.Println(hwy.CurrentName(), hwy.CurrentWidth())
//	lanes := hwy.NativeLanes[float32]()
//
// Set HWY_NO_SIMD=1 to force the scalar level and HWY_LANES=n to force a lane
// count.
package hwy

// Floats is a constraint for floating-point types.
type Floats interface {
	~float32 | ~float64
}

// SignedInts is a constraint for signed integer types.
type SignedInts interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// UnsignedInts is a constraint for unsigned integer types.
type UnsignedInts interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Integers is a constraint for all integer types.
type Integers interface {
	SignedInts | UnsignedInts
}

// Lanes is a constraint for all types that can be stored in SIMD lanes.
type Lanes interface {
	Floats | Integers
}
