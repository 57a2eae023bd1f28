// Package model provides the adaptive probability models driven by the range coder.
//
// Every model implements ac.Model. Model state depends only on the symbols it has been updated with,
// so an encoder fed raw symbols and a decoder fed coded bytes replay identical state machines.
package model

import (
	"github.com/fumin/bitweaver/ac"
	"github.com/fumin/bitweaver/fixed"
)

// A Frequency is a Laplace smoothed histogram of the symbols seen so far.
type Frequency struct {
	histogram []uint64
	total     uint64
}

// NewFrequency returns a Frequency over an alphabet of n symbols, each seen once.
func NewFrequency(n int) (*Frequency, error) {
	if n < 1 || n > ac.MaxAlphabet {
		return nil, ac.ErrAlphabetSize
	}
	m := &Frequency{histogram: make([]uint64, n), total: uint64(n)}
	for i := range m.histogram {
		m.histogram[i] = 1
	}
	return m, nil
}

// PValue returns count/total of symbol.
func (m *Frequency) PValue(symbol int) uint64 {
	return fixed.Divide(m.histogram[symbol], m.total)
}

// Update counts symbol.
func (m *Frequency) Update(symbol int) {
	m.histogram[symbol]++
	m.total++
}

// Range returns the alphabet size.
func (m *Frequency) Range() int {
	return len(m.histogram)
}

// Count returns the number of times symbol has been counted, including the initial one.
func (m *Frequency) Count(symbol int) uint64 {
	return m.histogram[symbol]
}

// A Context is an order-1 Markov model: one Frequency per previous symbol.
type Context struct {
	models  []*Frequency
	context int
}

// NewContext returns a Context over an alphabet of n symbols, whose initial context is symbol 0.
func NewContext(n int) (*Context, error) {
	if n < 1 || n > ac.MaxAlphabet {
		return nil, ac.ErrAlphabetSize
	}
	m := &Context{models: make([]*Frequency, n)}
	for i := range m.models {
		f, err := NewFrequency(n)
		if err != nil {
			return nil, err
		}
		m.models[i] = f
	}
	return m, nil
}

func (m *Context) PValue(symbol int) uint64 {
	return m.models[m.context].PValue(symbol)
}

func (m *Context) Update(symbol int) {
	m.models[m.context].Update(symbol)
	m.context = symbol
}

func (m *Context) Range() int {
	return m.models[m.context].Range()
}
