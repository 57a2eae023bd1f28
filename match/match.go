// Package match finds LZ77 back-references in a sliding window.
package match

import (
	"encoding/binary"
	"math"
	"math/bits"

	"github.com/pkg/errors"
)

const (
	// MinLength is the shortest match worth coding: a back-reference costs at least two bytes.
	MinLength = 3

	// MaxOffset is the largest distance a back-reference may reach back.
	MaxOffset = 1<<15 - 1

	// MaxLength is the longest match a back-reference may copy.
	MaxLength = 1<<15 - 1
)

// A Match is a back-reference: copy Length bytes starting Offset bytes before the cursor.
// The copy may overlap the bytes it produces.
type Match struct {
	Offset int
	Length int
}

// A Finder looks up matches for positions of the buffer it was created with.
type Finder interface {
	// Longest returns the longest match at position i, preferring the most recent among equally long ones.
	// The zero Match is returned when there is none.
	Longest(i int) Match

	// All appends to dst[:0], for every length from MinLength up to that of the longest match at i,
	// the most recent match at least that long, in increasing length.
	All(i int, dst []Match) []Match

	// Runs appends to dst[:0] the matches at i that are longer than every match at a smaller offset,
	// in increasing offset. Each stands for the lengths above the previous run, starting at MinLength,
	// so expanding the runs yields All.
	Runs(i int, dst []Match) []Match
}

// Algorithm identifies a match finding strategy.
// All algorithms return identical matches, they differ only in speed.
type Algorithm byte

const (
	// Naive compares every offset in the window.
	Naive Algorithm = iota
	// HashChain only compares offsets whose next three bytes hash alike.
	HashChain
)

var algStrings = map[Algorithm]string{
	Naive:     "naive",
	HashChain: "hashchain",
}

func (a Algorithm) String() string {
	if s, ok := algStrings[a]; ok {
		return s
	}
	return "unknown"
}

var (
	// ErrUnsupportedAlgorithm is returned for an unknown Algorithm.
	ErrUnsupportedAlgorithm = errors.New("unsupported match algorithm")

	// ErrWindow is returned for a window outside [1, MaxOffset].
	ErrWindow = errors.New("window size outside [1, 32767]")

	// ErrTooLarge is returned when a HashChain is built over more bytes than its int32 positions address.
	ErrTooLarge = errors.New("input too large for match finder")
)

// ParseAlgorithm returns the Algorithm named s.
func ParseAlgorithm(s string) (Algorithm, error) {
	for a, name := range algStrings {
		if name == s {
			return a, nil
		}
	}
	return 0, errors.Wrapf(ErrUnsupportedAlgorithm, "%q", s)
}

// Verify returns an error for an unknown Algorithm.
func (a Algorithm) Verify() error {
	if _, ok := algStrings[a]; !ok {
		return errors.Wrapf(ErrUnsupportedAlgorithm, "%d", a)
	}
	return nil
}

// New returns a Finder over data reaching at most window bytes back.
func (a Algorithm) New(data []byte, window int) (Finder, error) {
	if window < 1 || window > MaxOffset {
		return nil, errors.Wrapf(ErrWindow, "%d", window)
	}
	switch a {
	case Naive:
		return &naive{data: data, window: window}, nil
	case HashChain:
		if len(data) > maxChainLen {
			return nil, errors.Wrapf(ErrTooLarge, "%d bytes", len(data))
		}
		return newHashChain(data, window), nil
	}
	return nil, errors.Wrapf(ErrUnsupportedAlgorithm, "%d", a)
}

// maxChainLen is the largest input a HashChain accepts.
var maxChainLen = math.MaxInt32

// length returns how many bytes at src equal those at dst, up to limit.
func length(data []byte, src, dst, limit int) int {
	n := 0
	for n+8 <= limit {
		x := binary.LittleEndian.Uint64(data[src+n:]) ^ binary.LittleEndian.Uint64(data[dst+n:])
		if x != 0 {
			return n + bits.TrailingZeros64(x)/8
		}
		n += 8
	}
	for n < limit && data[src+n] == data[dst+n] {
		n++
	}
	return n
}

// limit returns the longest match possible at i.
func limit(data []byte, i int) int {
	n := len(data) - i
	if n > MaxLength {
		n = MaxLength
	}
	return n
}

// collector turns candidate match lengths, visited in increasing offset, into the results of a Finder.
type collector struct {
	dst  []Match
	all  bool
	runs bool
	best Match
}

// add records a match and reports whether a longer one is still possible.
func (c *collector) add(offset, n, limit int) bool {
	if n < MinLength || n <= c.best.Length {
		return true
	}
	if c.runs {
		c.dst = append(c.dst, Match{Offset: offset, Length: n})
	}
	if c.all {
		from := c.best.Length + 1
		if from < MinLength {
			from = MinLength
		}
		for l := from; l <= n; l++ {
			c.dst = append(c.dst, Match{Offset: offset, Length: l})
		}
	}
	c.best = Match{Offset: offset, Length: n}
	return n < limit
}

type naive struct {
	data   []byte
	window int
}

func (f *naive) scan(i int, c *collector) {
	lim := limit(f.data, i)
	if lim < MinLength {
		return
	}
	maxDist := f.window
	if i < maxDist {
		maxDist = i
	}
	for offset := 1; offset <= maxDist; offset++ {
		if !c.add(offset, length(f.data, i-offset, i, lim), lim) {
			return
		}
	}
}

func (f *naive) Longest(i int) Match {
	var c collector
	f.scan(i, &c)
	return c.best
}

func (f *naive) All(i int, dst []Match) []Match {
	c := collector{dst: dst[:0], all: true}
	f.scan(i, &c)
	return c.dst
}

func (f *naive) Runs(i int, dst []Match) []Match {
	c := collector{dst: dst[:0], runs: true}
	f.scan(i, &c)
	return c.dst
}
