package fixed

import (
	"math/big"
	"testing"
)

func TestWrap(t *testing.T) {
	if got := Add(One, 2); got != 1 {
		t.Errorf("%d", got)
	}
	if got := Subtract(0, 1); got != One {
		t.Errorf("%d", got)
	}
	if got := Shl(0x0123456789abcdef, 8); got != 0x23456789abcdef00 {
		t.Errorf("%x", got)
	}
	if got := Shr(0x0123456789abcdef, 56); got != 0x01 {
		t.Errorf("%x", got)
	}
	if got := Shl(One, 64); got != 0 {
		t.Errorf("%x", got)
	}
}

func TestMultiplyDivide(t *testing.T) {
	cases := []struct {
		a, b uint64
	}{
		{Half, Half},
		{One, One},
		{One, 3},
		{12345678901234567, 98765432109876543},
		{1 << 58, One - (1 << 58)},
	}
	two64 := new(big.Int).Lsh(big.NewInt(1), 64)
	for _, c := range cases {
		want := new(big.Int).Mul(new(big.Int).SetUint64(c.a), new(big.Int).SetUint64(c.b))
		want.Div(want, two64)
		if got := Multiply(c.a, c.b); got != want.Uint64() {
			t.Errorf("Multiply(%d, %d) = %d, want %s", c.a, c.b, got, want)
		}

		lo, hi := c.a, c.b
		if lo > hi {
			lo, hi = hi, lo
		}
		if lo == hi {
			continue
		}
		want = new(big.Int).Lsh(new(big.Int).SetUint64(lo), 64)
		want.Div(want, new(big.Int).SetUint64(hi))
		if got := Divide(lo, hi); got != want.Uint64() {
			t.Errorf("Divide(%d, %d) = %d, want %s", lo, hi, got, want)
		}
	}

	if got := Divide(1, 2); got != Half {
		t.Errorf("%x", got)
	}
	// The exact quotient does not fit.
	if got := Divide(5, 5); got != One {
		t.Errorf("%x", got)
	}
}

func TestBytes(t *testing.T) {
	v := uint64(0xa1b2c3d4e5f60718)
	if Top(v) != 0xa1 || Second(v) != 0xb2 {
		t.Errorf("%x %x", Top(v), Second(v))
	}
}
