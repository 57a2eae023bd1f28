package bitweaver

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/fumin/bitweaver/model"
)

// A Report describes the token stream of a compressed input.
type Report struct {
	AllocationSize uint32
	ExpectedLength uint32

	ControlBits     int
	LiteralBytes    int
	OffsetBytes     int
	ExtendedOffsets int
	LengthBytes     int
	ExtendedLengths int
	Pairs           int
	MatchedBytes    int

	// Lengths and Offsets count the matches by length and by offset.
	Lengths map[int]int
	Offsets map[int]int

	// Fields is the prediction accuracy per field, under ModelTrie only.
	Fields map[model.Tag]model.FieldStats
}

// Info decodes data without producing the uncompressed bytes, and reports on its tokens.
func Info(data []byte, opts ...Option) (*Report, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	r := &Report{Lengths: make(map[int]int), Offsets: make(map[int]int)}
	onHeader := func(h header) {
		r.AllocationSize = h.AllocationSize
		r.ExpectedLength = h.Length
	}
	onToken := func(t Token, _ byte, ti tokenInfo) {
		r.ControlBits++
		if !t.Match {
			r.LiteralBytes++
			return
		}
		r.Pairs++
		r.MatchedBytes += t.Length
		r.OffsetBytes += Len15(t.Offset)
		r.LengthBytes += Len15(t.Length)
		if ti.offsetExt {
			r.ExtendedOffsets++
		}
		if ti.lengthExt {
			r.ExtendedLengths++
		}
		r.Lengths[t.Length]++
		r.Offsets[t.Offset]++
	}
	ms, err := walk(data, cfg, onHeader, onToken)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	if ms.trie != nil {
		r.Fields = ms.trie.Stats()
	}
	return r, nil
}

// WriteTo writes a tab separated summary of r.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%d\tbytes allocated\n", r.AllocationSize)
	fmt.Fprintf(&b, "%d\tbytes expected\n", r.ExpectedLength)
	fmt.Fprintf(&b, "%d\tcontrol bits\n", r.ControlBits)
	fmt.Fprintf(&b, "%d\tliteral bytes\n", r.LiteralBytes)
	fmt.Fprintf(&b, "%d\toffset bytes\n", r.OffsetBytes)
	fmt.Fprintf(&b, "%d\textended offsets\n", r.ExtendedOffsets)
	fmt.Fprintf(&b, "%d\tlength bytes\n", r.LengthBytes)
	fmt.Fprintf(&b, "%d\textended lengths\n", r.ExtendedLengths)
	fmt.Fprintf(&b, "%d\toffset-length pairs\n", r.Pairs)
	fmt.Fprintf(&b, "%d\tmatched bytes\n", r.MatchedBytes)

	tags := maps.Keys(r.Fields)
	slices.Sort(tags)
	for _, t := range tags {
		fs := r.Fields[t]
		fmt.Fprintf(&b, "%.2f%%\t%s prediction accuracy (%d bits)\n", 100*fs.Accuracy(), t, fs.Processed)
	}

	n, err := w.Write(b.Bytes())
	if err != nil {
		return int64(n), errors.Wrap(err, "")
	}
	return int64(n), nil
}
