package model

import (
	"github.com/pkg/errors"

	"github.com/fumin/bitweaver/ac"
	"github.com/fumin/bitweaver/fixed"
)

// ExpParams tunes the adaptation of an Exponential model.
type ExpParams struct {
	// DecayShift sets the decay factor to 1 - 2^-DecayShift per update.
	DecayShift uint

	// Lower and Upper clamp the probability of a zero bit,
	// so that neither symbol ever gets a zero width interval.
	Lower uint64
	Upper uint64
}

// DefaultExpParams decays by 31/32 and clamps to [1/64, 63/64].
// Streams are only decodable with the parameters they were encoded with.
var DefaultExpParams = ExpParams{
	DecayShift: 5,
	Lower:      1 << 58,
	Upper:      0xfc << 56,
}

// ErrExpParams is returned for unusable ExpParams.
var ErrExpParams = errors.New("invalid exponential model parameters")

// Validate checks that p yields a usable model.
func (p ExpParams) Validate() error {
	if p.DecayShift < 1 || p.DecayShift > 16 {
		return errors.Wrapf(ErrExpParams, "decay shift %d outside [1, 16]", p.DecayShift)
	}
	if p.Lower == 0 || p.Lower >= p.Upper {
		return errors.Wrapf(ErrExpParams, "bounds %#x, %#x", p.Lower, p.Upper)
	}
	return nil
}

// An Exponential is a binary model holding a single estimate of the probability of a zero bit,
// which decays exponentially towards each observed bit.
type Exponential struct {
	p0     uint64
	params ExpParams
}

// NewExponential returns an Exponential whose estimate starts at 1/2.
func NewExponential(params ExpParams) (*Exponential, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	m := newExponential(params)
	return &m, nil
}

// NewExponentialN is NewExponential for callers that pick the alphabet size generically.
// Any n other than 2 is rejected.
func NewExponentialN(n int, params ExpParams) (*Exponential, error) {
	if n != 2 {
		return nil, ac.ErrBinaryOnly
	}
	return NewExponential(params)
}

// newExponential expects params to be valid.
func newExponential(params ExpParams) Exponential {
	return Exponential{p0: fixed.Half, params: params}
}

// PValue returns the probability of bit.
func (m *Exponential) PValue(bit int) uint64 {
	if bit == 0 {
		return m.p0
	}
	return fixed.Subtract(0, m.p0)
}

// Update moves the estimate towards bit.
func (m *Exponential) Update(bit int) {
	m.p0 -= m.p0 >> m.params.DecayShift
	if bit == 0 {
		m.p0 += fixed.One >> m.params.DecayShift
	}
	if m.p0 < m.params.Lower {
		m.p0 = m.params.Lower
	}
	if m.p0 > m.params.Upper {
		m.p0 = m.params.Upper
	}
}

// Range returns 2.
func (m *Exponential) Range() int {
	return 2
}

// A ByteTree codes a byte as 8 bits, most significant first.
// Each bit has its own Exponential, selected by the bits already coded in the byte.
type ByteTree struct {
	// nodes[1] codes the first bit, nodes[m<<1|bit] the bit after node m.
	nodes [256]Exponential
	m     int
}

// NewByteTree returns a ByteTree positioned at the first bit of a byte.
func NewByteTree(params ExpParams) (*ByteTree, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	t := &ByteTree{m: 1}
	for i := range t.nodes {
		t.nodes[i] = newExponential(params)
	}
	return t, nil
}

func (t *ByteTree) PValue(bit int) uint64 {
	return t.nodes[t.m].PValue(bit)
}

func (t *ByteTree) Update(bit int) {
	t.nodes[t.m].Update(bit)
	t.m = t.m<<1 | bit
	if t.m >= len(t.nodes) {
		t.m = 1
	}
}

func (t *ByteTree) Range() int {
	return 2
}
