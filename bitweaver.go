// Package bitweaver implements an LZ77 compressor whose tokens are entropy coded with a range coder.
//
// A stream starts with the allocation size and the length of the uncompressed data,
// each a 4 byte big endian integer coded with a frequency model.
// Tokens follow until the length is reached: a control bit, then either a literal byte,
// or the 15-bit codes of the offset and the length of a back reference.
// The models the tokens are coded with are not recorded, so Decode must be given the same ModelKind as Encode.
//
// For details, see https://en.wikipedia.org/wiki/LZ77_and_LZ78 and https://en.wikipedia.org/wiki/Range_coding .
package bitweaver

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/fumin/bitweaver/ac"
	"github.com/fumin/bitweaver/ac/rangecoder"
	"github.com/fumin/bitweaver/match"
)

var (
	// ErrConfig is returned for unknown model kinds and parsers.
	ErrConfig = errors.New("invalid configuration")

	// ErrRange is returned for values that do not fit the 15-bit code.
	ErrRange = errors.New("value outside 15-bit range")

	// ErrTooLarge is returned for inputs whose length does not fit the header.
	ErrTooLarge = errors.New("input larger than 4GiB")

	// ErrVerify is returned when an encoded stream does not decode to its input.
	ErrVerify = errors.New("round trip verification failed")

	// ErrParse is returned when the optimal parse is inconsistent with its own costs.
	ErrParse = errors.New("inconsistent parse")
)

// header is the preamble of every stream.
type header struct {
	AllocationSize uint32
	Length         uint32
}

func (h header) put(enc *rangecoder.Encoder, m ac.Model) error {
	var b [8]byte
	binary.BigEndian.PutUint32(b[:4], h.AllocationSize)
	binary.BigEndian.PutUint32(b[4:], h.Length)
	for _, c := range b {
		if err := putByte(enc, m, c); err != nil {
			return err
		}
	}
	return nil
}

func getHeader(dec *rangecoder.Decoder, m ac.Model) (header, error) {
	var b [8]byte
	for i := range b {
		c, err := getByte(dec, m)
		if err != nil {
			return header{}, err
		}
		b[i] = c
	}
	return header{
		AllocationSize: binary.BigEndian.Uint32(b[:4]),
		Length:         binary.BigEndian.Uint32(b[4:]),
	}, nil
}

// Encode compresses data.
// allocationSize is stored in the header for the benefit of decompressors that allocate their output up front,
// and is usually at least len(data).
func Encode(data []byte, allocationSize uint32, opts ...Option) ([]byte, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	if uint64(len(data)) > math.MaxUint32 {
		return nil, errors.Wrapf(ErrTooLarge, "%d bytes", len(data))
	}

	tokens, err := tokenize(data, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	encoded, err := encodeTokens(data, tokens, header{AllocationSize: allocationSize, Length: uint32(len(data))}, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	cfg.logf("%d bytes coded into %d", len(data), len(encoded))

	if cfg.Verify {
		decoded, err := decode(encoded, cfg)
		if err != nil {
			return nil, errors.Wrapf(ErrVerify, "%+v", err)
		}
		if !slices.Equal(decoded, data) {
			return nil, errors.Wrapf(ErrVerify, "%d bytes decoded, %d encoded", len(decoded), len(data))
		}
	}
	return encoded, nil
}

func encodeTokens(data []byte, tokens []Token, h header, cfg *Config) ([]byte, error) {
	ms, err := newModelSet(cfg)
	if err != nil {
		return nil, err
	}
	enc := rangecoder.NewEncoder()
	if err := h.put(enc, ms.header); err != nil {
		return nil, err
	}

	i := 0
	for _, t := range tokens {
		if !t.Match {
			if err := enc.Encode(ms.control, 0); err != nil {
				return nil, err
			}
			if err := putByte(enc, ms.literal, data[i]); err != nil {
				return nil, err
			}
			i++
			continue
		}
		if err := enc.Encode(ms.control, 1); err != nil {
			return nil, err
		}
		if err := putCode(enc, ms.offset, ms.offsetExt, t.Offset); err != nil {
			return nil, errors.Wrapf(err, "offset at %d", i)
		}
		if err := putCode(enc, ms.length, ms.lengthExt, t.Length); err != nil {
			return nil, errors.Wrapf(err, "length at %d", i)
		}
		i += t.Length
	}
	if i != len(data) {
		return nil, errors.Wrapf(ErrParse, "tokens cover %d of %d bytes", i, len(data))
	}
	return enc.EndStream(), nil
}

// Decode decompresses data produced by Encode with the same ModelKind and ExpParams.
func Decode(data []byte, opts ...Option) ([]byte, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	decoded, err := decode(data, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return decoded, nil
}

func decode(data []byte, cfg *Config) ([]byte, error) {
	out := []byte{}
	_, err := walk(data, cfg, func(h header) {
		// The header is not trusted for more than a hint.
		out = make([]byte, 0, min(int(h.Length), 64*len(data)+1024))
	}, func(t Token, literal byte, _ tokenInfo) {
		if !t.Match {
			out = append(out, literal)
			return
		}
		// Byte by byte, since a copy may overlap itself.
		for k := 0; k < t.Length; k++ {
			out = append(out, out[len(out)-t.Offset])
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// A tokenInfo describes how a token was coded.
type tokenInfo struct {
	offsetExt bool
	lengthExt bool
}

// walk decodes the header and every token of data, checking each against the length produced so far.
// onToken is called for valid tokens only. The returned models hold the state at the end of the stream.
func walk(data []byte, cfg *Config, onHeader func(header), onToken func(Token, byte, tokenInfo)) (*modelSet, error) {
	ms, err := newModelSet(cfg)
	if err != nil {
		return nil, err
	}
	dec := rangecoder.NewDecoder(data)
	h, err := getHeader(dec, ms.header)
	if err != nil {
		return nil, errors.Wrap(err, "header")
	}
	if onHeader != nil {
		onHeader(h)
	}

	expected := int(h.Length)
	for produced := 0; produced < expected; {
		if dec.Overrun() > 0 {
			return nil, errors.Wrapf(ac.ErrCorrupt, "input exhausted after %d of %d bytes", produced, expected)
		}
		bit, err := dec.DecodeSymbol(ms.control)
		if err != nil {
			return nil, errors.Wrapf(err, "control at %d", produced)
		}
		if bit == 0 {
			b, err := getByte(dec, ms.literal)
			if err != nil {
				return nil, errors.Wrapf(err, "literal at %d", produced)
			}
			onToken(Token{Length: 1}, b, tokenInfo{})
			produced++
			continue
		}

		offset, offsetExt, err := getCode(dec, ms.offset, ms.offsetExt)
		if err != nil {
			return nil, errors.Wrapf(err, "offset at %d", produced)
		}
		length, lengthExt, err := getCode(dec, ms.length, ms.lengthExt)
		if err != nil {
			return nil, errors.Wrapf(err, "length at %d", produced)
		}
		if offset == 0 || offset > produced {
			return nil, errors.Wrapf(ac.ErrCorrupt, "offset %d at %d", offset, produced)
		}
		if length < match.MinLength || length > expected-produced {
			return nil, errors.Wrapf(ac.ErrCorrupt, "length %d at %d of %d", length, produced, expected)
		}
		onToken(Token{Match: true, Offset: offset, Length: length}, 0, tokenInfo{offsetExt: offsetExt, lengthExt: lengthExt})
		produced += length
	}
	return ms, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
