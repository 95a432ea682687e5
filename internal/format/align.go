package format

// Alignment utilities for block layout. Payload sizes and block offsets are
// aligned to 8 bytes.

// Align8 returns n aligned up to the next 8-byte boundary.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
func Align8(n int) int {
	return (n + AlignmentMask) & ^AlignmentMask
}

// AlignDown8 returns n aligned down to the previous 8-byte boundary.
func AlignDown8(n int) int {
	return n & ^AlignmentMask
}
