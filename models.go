package bitweaver

import (
	"github.com/fumin/bitweaver/ac"
	"github.com/fumin/bitweaver/ac/rangecoder"
	"github.com/fumin/bitweaver/model"
)

// A modelSet holds one model per role of the token grammar.
// Roles may share a model, as they all do under ModelTrie.
type modelSet struct {
	header    ac.Model
	control   ac.Model
	literal   ac.Model
	offset    ac.Model
	offsetExt ac.Model
	length    ac.Model
	lengthExt ac.Model

	// trie is set under ModelTrie.
	trie *model.Trie
}

func newModelSet(c *Config) (*modelSet, error) {
	header, err := model.NewFrequency(256)
	if err != nil {
		return nil, err
	}
	ms := &modelSet{header: header}

	switch c.Models {
	case ModelTrie:
		t, err := model.NewLZTrie(c.Exp)
		if err != nil {
			return nil, err
		}
		ms.trie = t
		ms.control, ms.literal = t, t
		ms.offset, ms.offsetExt = t, t
		ms.length, ms.lengthExt = t, t
	case ModelBinary:
		if ms.control, err = model.NewExponential(c.Exp); err != nil {
			return nil, err
		}
		roles := []*ac.Model{&ms.literal, &ms.offset, &ms.offsetExt, &ms.length, &ms.lengthExt}
		for _, r := range roles {
			bt, err := model.NewByteTree(c.Exp)
			if err != nil {
				return nil, err
			}
			*r = bt
		}
	case ModelContext, ModelFrequency:
		if c.Models == ModelContext {
			ms.control, err = model.NewContext(2)
		} else {
			ms.control, err = model.NewFrequency(2)
		}
		if err != nil {
			return nil, err
		}
		roles := []*ac.Model{&ms.literal, &ms.offset, &ms.offsetExt, &ms.length, &ms.lengthExt}
		for _, r := range roles {
			f, err := model.NewFrequency(256)
			if err != nil {
				return nil, err
			}
			*r = f
		}
	default:
		return nil, ErrConfig
	}
	return ms, nil
}

// putByte codes b with m, bit by bit from the most significant if m is binary.
func putByte(enc *rangecoder.Encoder, m ac.Model, b byte) error {
	if m.Range() != 2 {
		return enc.Encode(m, int(b))
	}
	var bits [8]int
	for i := range bits {
		bits[i] = int(b>>uint(7-i)) & 1
	}
	return enc.Encode(m, bits[:]...)
}

func getByte(dec *rangecoder.Decoder, m ac.Model) (byte, error) {
	if m.Range() != 2 {
		s, err := dec.DecodeSymbol(m)
		return byte(s), err
	}
	var b byte
	for i := 0; i < 8; i++ {
		bit, err := dec.DecodeSymbol(m)
		if err != nil {
			return 0, err
		}
		b = b<<1 | byte(bit)
	}
	return b, nil
}
