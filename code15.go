package bitweaver

import (
	"github.com/pkg/errors"

	"github.com/fumin/bitweaver/ac"
	"github.com/fumin/bitweaver/ac/rangecoder"
)

// Max15 is the largest value of the 15-bit code.
const Max15 = 1<<15 - 1

// Encode15 returns the 15-bit code of n.
// Values below 128 take one byte. Larger values take two, the first with its high bit set.
func Encode15(n int) ([]byte, error) {
	if n < 0 || n > Max15 {
		return nil, errors.Wrapf(ErrRange, "%d", n)
	}
	if n < 0x80 {
		return []byte{byte(n)}, nil
	}
	return []byte{0x80 | byte(n>>8), byte(n)}, nil
}

// Decode15 decodes the 15-bit code at the start of b, returning the value and the number of bytes read.
func Decode15(b []byte) (int, int, error) {
	if len(b) == 0 {
		return 0, 0, errors.Wrap(ErrRange, "empty code")
	}
	if b[0] < 0x80 {
		return int(b[0]), 1, nil
	}
	if len(b) < 2 {
		return 0, 0, errors.Wrapf(ErrRange, "truncated code %#x", b[0])
	}
	return int(b[0]&0x7f)<<8 | int(b[1]), 2, nil
}

// Len15 returns the number of bytes of the 15-bit code of n.
func Len15(n int) int {
	if n < 0x80 {
		return 1
	}
	return 2
}

// putCode codes v, the first byte with first and the extension byte with ext.
func putCode(enc *rangecoder.Encoder, first, ext ac.Model, v int) error {
	code, err := Encode15(v)
	if err != nil {
		return err
	}
	if err := putByte(enc, first, code[0]); err != nil {
		return err
	}
	if len(code) == 2 {
		if err := putByte(enc, ext, code[1]); err != nil {
			return err
		}
	}
	return nil
}

// getCode decodes a value coded by putCode, and reports whether it took two bytes.
func getCode(dec *rangecoder.Decoder, first, ext ac.Model) (int, bool, error) {
	var code [2]byte
	var err error
	if code[0], err = getByte(dec, first); err != nil {
		return 0, false, err
	}
	n := 1
	if code[0]&0x80 != 0 {
		if code[1], err = getByte(dec, ext); err != nil {
			return 0, false, err
		}
		n = 2
	}
	v, _, err := Decode15(code[:n])
	if err != nil {
		return 0, false, err
	}
	return v, n == 2, nil
}
