package baseline

import (
	"bytes"
	"strings"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	data := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog ", 100))
	cs, err := Compressors()
	if err != nil {
		t.Fatalf("%+v", err)
	}
	for _, c := range cs {
		t.Run(c.Name(), func(t *testing.T) {
			compressed, err := c.Compress(data)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			if len(compressed) >= len(data) {
				t.Errorf("%d bytes compressed into %d", len(data), len(compressed))
			}
			decompressed, err := c.Decompress(compressed)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			if !bytes.Equal(decompressed, data) {
				t.Errorf("round trip failed")
			}
		})
	}
}

func TestCompare(t *testing.T) {
	data := bytes.Repeat([]byte("abc"), 1000)
	results, err := Compare(data)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if len(results) != 3 {
		t.Fatalf("%+v", results)
	}
	for _, r := range results {
		if r.Compressed == 0 || r.Original != len(data) {
			t.Errorf("%+v", r)
		}
		if r.Ratio() <= 0 || r.Ratio() >= 1 {
			t.Errorf("%s: ratio %f", r.Name, r.Ratio())
		}
	}
	if (Result{}).Ratio() != 0 {
		t.Errorf("%f", (Result{}).Ratio())
	}
}
