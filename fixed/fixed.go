// Package fixed implements the Q64 fixed-point arithmetic used by the range coder.
// A value v in [0, 1) is represented by the unsigned 64-bit integer v * 2^64.
package fixed

import (
	"math"
	"math/bits"
)

const (
	// One is the largest representable fraction, 1 - 2^-64.
	One uint64 = math.MaxUint64

	// Half is 1/2.
	Half uint64 = 1 << 63
)

// Add returns a + b modulo 2^64.
func Add(a, b uint64) uint64 {
	return a + b
}

// Subtract returns a - b modulo 2^64.
func Subtract(a, b uint64) uint64 {
	return a - b
}

// Shl shifts a left by n bits, dropping bits shifted past the 64th.
func Shl(a uint64, n uint) uint64 {
	if n >= 64 {
		return 0
	}
	return a << n
}

// Shr shifts a right by n bits.
func Shr(a uint64, n uint) uint64 {
	if n >= 64 {
		return 0
	}
	return a >> n
}

// Multiply returns floor(a*b / 2^64), the width of fraction b of an interval of width a.
func Multiply(a, b uint64) uint64 {
	hi, _ := bits.Mul64(a, b)
	return hi
}

// Divide returns floor(a * 2^64 / b), normalizing a count a out of a total b into a probability.
// The result only fits in 64 bits when a < b; for a >= b Divide saturates to One.
// Divide panics if b is zero.
func Divide(a, b uint64) uint64 {
	if b == 0 {
		panic("fixed: division by zero")
	}
	if a >= b {
		return One
	}
	q, _ := bits.Div64(a, 0, b)
	return q
}

// Top returns the most significant byte of a.
func Top(a uint64) byte {
	return byte(a >> 56)
}

// Second returns the second most significant byte of a.
func Second(a uint64) byte {
	return byte(a >> 48)
}
