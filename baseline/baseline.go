// Package baseline wraps general purpose compressors, to put the sizes achieved by bitweaver in perspective.
package baseline

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// A Compressor is a general purpose compression algorithm.
type Compressor interface {
	// Name is the name of the compression algorithm.
	Name() string
	// Compress returns the compressed contents of src.
	Compress(src []byte) ([]byte, error)
	// Decompress returns the contents compressed by Compress.
	Decompress(src []byte) ([]byte, error)
}

type zstdCompressor struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newZstd() (*zstdCompressor, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return &zstdCompressor{enc: enc, dec: dec}, nil
}

func (z *zstdCompressor) Name() string { return "zstd" }

func (z *zstdCompressor) Compress(src []byte) ([]byte, error) {
	return z.enc.EncodeAll(src, nil), nil
}

func (z *zstdCompressor) Decompress(src []byte) ([]byte, error) {
	b, err := z.dec.DecodeAll(src, nil)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return b, nil
}

type s2Compressor struct{}

func (s2Compressor) Name() string { return "s2" }

func (s2Compressor) Compress(src []byte) ([]byte, error) {
	return s2.EncodeBest(nil, src), nil
}

func (s2Compressor) Decompress(src []byte) ([]byte, error) {
	b, err := s2.Decode(nil, src)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return b, nil
}

type flateCompressor struct{}

func (flateCompressor) Name() string { return "flate" }

func (flateCompressor) Compress(src []byte) ([]byte, error) {
	var b bytes.Buffer
	w, err := flate.NewWriter(&b, flate.BestCompression)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	if _, err := w.Write(src); err != nil {
		return nil, errors.Wrap(err, "")
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "")
	}
	return b.Bytes(), nil
}

func (flateCompressor) Decompress(src []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(src))
	defer r.Close()
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return b, nil
}

// Compressors returns every baseline compressor at its best compression setting.
func Compressors() ([]Compressor, error) {
	z, err := newZstd()
	if err != nil {
		return nil, err
	}
	return []Compressor{z, s2Compressor{}, flateCompressor{}}, nil
}

// A Result is the size one compressor achieved.
type Result struct {
	Name string
	// Original and Compressed are sizes in bytes.
	Original   int
	Compressed int
}

// Ratio returns the compressed size relative to the original.
func (r Result) Ratio() float64 {
	if r.Original == 0 {
		return 0
	}
	return float64(r.Compressed) / float64(r.Original)
}

// Compare compresses data with every baseline compressor.
func Compare(data []byte) ([]Result, error) {
	cs, err := Compressors()
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(cs))
	for _, c := range cs {
		b, err := c.Compress(data)
		if err != nil {
			return nil, errors.Wrap(err, c.Name())
		}
		results = append(results, Result{Name: c.Name(), Original: len(data), Compressed: len(b)})
	}
	return results, nil
}
