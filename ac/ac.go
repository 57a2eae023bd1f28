// Package ac defines the interfaces the range coding algorithm requires.
// See its subpackages for the coder itself, and package model for the probability models.
package ac

import (
	"github.com/pkg/errors"
)

var (
	// ErrZeroWidth is returned when a Model assigns no probability to the symbol being coded.
	ErrZeroWidth = errors.New("model yields zero width for coded symbol")

	// ErrInvertedInterval is returned when committing a symbol would leave the lower bound above the upper bound.
	ErrInvertedInterval = errors.New("coding interval inverted")

	// ErrSymbol is returned when a symbol lies outside the alphabet of the Model it is coded with.
	ErrSymbol = errors.New("symbol outside model alphabet")

	// ErrCorrupt is returned when a coded stream cannot be the output of the encoder.
	ErrCorrupt = errors.New("corrupt stream")

	// ErrStreamClosed is returned when symbols are coded after the stream has been ended.
	ErrStreamClosed = errors.New("stream already ended")

	// ErrAlphabetSize is returned when a Model is constructed with an alphabet outside [1, 256].
	ErrAlphabetSize = errors.New("alphabet size outside [1, 256]")

	// ErrBinaryOnly is returned when a two-symbol model is constructed with a different alphabet size.
	ErrBinaryOnly = errors.New("model supports exactly two symbols")

	// ErrCount is returned when a negative number of symbols is requested.
	ErrCount = errors.New("negative symbol count")
)

// MaxAlphabet is the largest alphabet a Model may have.
// 64 bits of probability per symbol make larger alphabets impractical.
const MaxAlphabet = 256

// A Model is an adaptive probabilistic model on a sequence of symbols,
// as expected by the range coding algorithm.
//
// Encoder and decoder must drive identical Model instances with identical symbols in identical order,
// since nothing in the coded stream resynchronizes them.
type Model interface {
	// PValue returns the probability of symbol in the current context as a Q64 fraction.
	// It is the width of the symbol, not a cumulative value.
	PValue(symbol int) uint64

	// Update informs the Model that symbol has been coded.
	Update(symbol int)

	// Range returns the alphabet size.
	Range() int
}
