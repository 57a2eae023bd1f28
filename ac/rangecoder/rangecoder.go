// Package rangecoder implements a bytewise range coder over a 64-bit interval of Q64 fractions.
//
// The interval (a, b) is narrowed by the probability of each coded symbol.
// Whenever the top bytes of a and b agree, that byte is settled and shifted out.
// When the interval straddles a byte boundary without settling (the decimal analogue is 0.7999... against 0.8000...),
// the ambiguous byte is dropped and counted as pending, and the carry is resolved by the next settled byte.
package rangecoder

import (
	"github.com/pkg/errors"

	"github.com/fumin/bitweaver/ac"
	"github.com/fumin/bitweaver/fixed"
)

const (
	topMask uint64 = 0xff << 56
	lowFill uint64 = 0xff
)

// An Encoder carries the state required to range code symbols into a byte buffer.
// An Encoder is not safe for concurrent use, and is unusable after it returns an error.
type Encoder struct {
	a, b    uint64
	encoded []byte

	// pending counts the straddled bytes waiting for a carry decision,
	// leader is the top byte of a when they were dropped.
	pending int
	leader  byte

	ended bool
	err   error
}

// NewEncoder returns an Encoder whose interval spans [0, 1).
func NewEncoder() *Encoder {
	return &Encoder{b: fixed.One}
}

// Encode codes symbols one after another with model, updating model after each.
func (e *Encoder) Encode(model ac.Model, symbols ...int) error {
	if e.err != nil {
		return e.err
	}
	if e.ended {
		return ac.ErrStreamClosed
	}
	for _, s := range symbols {
		if err := e.encode(model, s); err != nil {
			e.err = err
			return err
		}
	}
	return nil
}

func (e *Encoder) encode(model ac.Model, symbol int) error {
	n := model.Range()
	if symbol < 0 || symbol >= n {
		return errors.Wrapf(ac.ErrSymbol, "symbol %d, range %d", symbol, n)
	}

	width := fixed.Subtract(e.b, e.a)
	for i := 0; i < symbol; i++ {
		e.a = fixed.Add(e.a, fixed.Multiply(width, model.PValue(i)))
	}
	sub := fixed.Multiply(width, model.PValue(symbol))
	if sub == 0 {
		return errors.Wrapf(ac.ErrZeroWidth, "symbol %d", symbol)
	}
	next := fixed.Add(e.a, sub)
	if next < e.a || next > e.b {
		return errors.Wrapf(ac.ErrInvertedInterval, "symbol %d: a %#x, b %#x, next %#x", symbol, e.a, e.b, next)
	}
	e.b = next

	// Bytes that a and b agree on are locked in.
	for (e.a^e.b)&topMask == 0 {
		top := fixed.Top(e.a)
		e.encoded = append(e.encoded, top)
		e.a = fixed.Shl(e.a, 8)
		e.b = fixed.Shl(e.b, 8) | lowFill
		e.flush(top)
	}

	model.Update(symbol)

	e.straddle()
	return nil
}

// straddle drops bytes from an interval such as (0x12ff..., 0x1300...),
// which may keep shrinking indefinitely without its top byte ever settling.
func (e *Encoder) straddle() {
	aTop, bTop := fixed.Top(e.a), fixed.Top(e.b)
	if bTop-aTop != 1 {
		return
	}
	for fixed.Second(e.a) == 0xff && fixed.Second(e.b) == 0x00 {
		e.leader = aTop
		e.a = fixed.Shl(e.a, 8)&^topMask | uint64(aTop)<<56
		e.b = (fixed.Shl(e.b, 8)|lowFill)&^topMask | uint64(bTop)<<56
		e.pending++
	}
}

// flush resolves the pending bytes once top has been emitted.
// If top is the leader there was no carry and every dropped byte was 0xff, otherwise the carry turned them into 0x00.
func (e *Encoder) flush(top byte) {
	if e.pending == 0 {
		return
	}
	var filler byte = 0x00
	if top == e.leader {
		filler = 0xff
	}
	for ; e.pending > 0; e.pending-- {
		e.encoded = append(e.encoded, filler)
	}
}

// EndStream terminates the stream and returns the coded bytes.
// It is called after the last symbol. Later calls return the same bytes.
func (e *Encoder) EndStream() []byte {
	if e.ended {
		return e.encoded
	}
	e.ended = true

	// The decoder treats intervals as half open, so close in on a value strictly above a.
	e.a = fixed.Add(e.a, 1<<56)
	top := fixed.Top(e.a)
	e.encoded = append(e.encoded, top)
	e.flush(top)
	return e.encoded
}

// Len returns the number of bytes emitted so far, excluding pending bytes.
func (e *Encoder) Len() int {
	return len(e.encoded)
}

// Pending returns the number of bytes awaiting a carry decision.
func (e *Encoder) Pending() int {
	return e.pending
}

// Interval returns the current interval bounds.
func (e *Encoder) Interval() (a, b uint64) {
	return e.a, e.b
}

// A Decoder carries the state required to decode symbols coded by an Encoder.
// The input is treated as if it were followed by infinitely many zero bytes.
// A Decoder is not safe for concurrent use, and is unusable after it returns an error.
type Decoder struct {
	encoded []byte
	i       int

	a, b   uint64
	window uint64

	err error
}

// NewDecoder returns a Decoder reading encoded.
func NewDecoder(encoded []byte) *Decoder {
	d := &Decoder{encoded: encoded, b: fixed.One}
	for j := 0; j < 8; j++ {
		d.window = fixed.Shl(d.window, 8) | uint64(d.next())
	}
	return d
}

func (d *Decoder) next() byte {
	var c byte
	if d.i < len(d.encoded) {
		c = d.encoded[d.i]
	}
	d.i++
	return c
}

// Decode decodes count symbols with model, updating model after each.
func (d *Decoder) Decode(model ac.Model, count int) ([]int, error) {
	if count < 0 {
		return nil, errors.Wrapf(ac.ErrCount, "%d", count)
	}
	decoded := make([]int, 0, count)
	for j := 0; j < count; j++ {
		s, err := d.DecodeSymbol(model)
		if err != nil {
			return nil, err
		}
		decoded = append(decoded, s)
	}
	return decoded, nil
}

// DecodeSymbol decodes a single symbol with model and updates model.
func (d *Decoder) DecodeSymbol(model ac.Model) (int, error) {
	if d.err != nil {
		return 0, d.err
	}

	width := fixed.Subtract(d.b, d.a)
	symbol := -1
	n := model.Range()
	for i := 0; i < n; i++ {
		next := fixed.Add(d.a, fixed.Multiply(width, model.PValue(i)))
		if next > d.window {
			d.b = next
			symbol = i
			break
		}
		d.a = next
	}
	if symbol < 0 {
		d.err = errors.Wrapf(ac.ErrCorrupt, "window %#x beyond interval", d.window)
		return 0, d.err
	}

	for (d.a^d.b)&topMask == 0 {
		d.a = fixed.Shl(d.a, 8)
		d.b = fixed.Shl(d.b, 8) | lowFill
		d.window = fixed.Shl(d.window, 8) | uint64(d.next())
	}

	model.Update(symbol)

	d.straddle()
	return symbol, nil
}

// straddle mirrors Encoder.straddle, keeping the window aligned with the interval.
func (d *Decoder) straddle() {
	aTop, bTop := fixed.Top(d.a), fixed.Top(d.b)
	if bTop-aTop != 1 {
		return
	}
	for fixed.Second(d.a) == 0xff && fixed.Second(d.b) == 0x00 {
		d.a = fixed.Shl(d.a, 8)&^topMask | uint64(aTop)<<56
		d.b = (fixed.Shl(d.b, 8)|lowFill)&^topMask | uint64(bTop)<<56
		wTop := fixed.Top(d.window)
		d.window = (fixed.Shl(d.window, 8)|uint64(d.next()))&^topMask | uint64(wTop)<<56
	}
}

// Consumed returns the number of input bytes read so far, including the zero bytes read past the end of the input.
func (d *Decoder) Consumed() int {
	return d.i
}

// Overrun returns how many bytes past the end of the input have been read, beyond the 8 byte window.
// The decoder of a well formed stream never overruns, so a positive value means the stream is corrupt
// or was decoded with different models than it was encoded with.
func (d *Decoder) Overrun() int {
	if n := d.i - len(d.encoded) - 8; n > 0 {
		return n
	}
	return 0
}
