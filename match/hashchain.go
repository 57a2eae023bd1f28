package match

import (
	"math/bits"

	"github.com/dchest/siphash"
)

const (
	minTableExponent = 9
	maxTableExponent = 20

	hashKey0 = 0x736f6d6570736575
	hashKey1 = 0x646f72616e646f6d
)

// hashChain links every position to the previous position whose next MinLength bytes hash to the same bucket.
// Following the links from position i visits candidate match sources in increasing offset.
type hashChain struct {
	data   []byte
	window int

	// prev[i] is the previous position in the bucket of i, or -1.
	prev []int32
}

func tableExponent(n int) int {
	e := bits.Len(uint(n))
	switch {
	case e < minTableExponent:
		e = minTableExponent
	case e > maxTableExponent:
		e = maxTableExponent
	}
	return e
}

func newHashChain(data []byte, window int) *hashChain {
	hc := &hashChain{data: data, window: window}
	n := len(data) - MinLength + 1
	if n <= 0 {
		return hc
	}

	exp := tableExponent(n)
	mask := uint64(1)<<uint(exp) - 1
	head := make([]int32, 1<<uint(exp))
	for i := range head {
		head[i] = -1
	}
	hc.prev = make([]int32, n)
	for i := 0; i < n; i++ {
		h := siphash.Hash(hashKey0, hashKey1, data[i:i+MinLength]) & mask
		hc.prev[i] = head[h]
		head[h] = int32(i)
	}
	return hc
}

func (f *hashChain) scan(i int, c *collector) {
	lim := limit(f.data, i)
	if lim < MinLength {
		return
	}
	for p := f.prev[i]; p >= 0; p = f.prev[p] {
		offset := i - int(p)
		if offset > f.window {
			return
		}
		if !c.add(offset, length(f.data, int(p), i, lim), lim) {
			return
		}
	}
}

func (f *hashChain) Longest(i int) Match {
	var c collector
	f.scan(i, &c)
	return c.best
}

func (f *hashChain) All(i int, dst []Match) []Match {
	c := collector{dst: dst[:0], all: true}
	f.scan(i, &c)
	return c.dst
}

func (f *hashChain) Runs(i int, dst []Match) []Match {
	c := collector{dst: dst[:0], runs: true}
	f.scan(i, &c)
	return c.dst
}
