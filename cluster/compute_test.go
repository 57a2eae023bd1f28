package main

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDistanceMatrix(t *testing.T) {
	dir := t.TempDir()
	rnd := rand.New(rand.NewSource(5))
	noise := make([]byte, 2000)
	rnd.Read(noise)
	text := strings.Repeat("we hold these truths to be self-evident, that all men are created equal, ", 30)
	files := map[string][]byte{
		"a.txt": []byte(text),
		"b.txt": []byte(text + "and endowed with certain unalienable rights"),
		"c.bin": noise,
	}
	for name, b := range files {
		if err := os.WriteFile(filepath.Join(dir, name), b, 0644); err != nil {
			t.Fatalf("%v", err)
		}
	}
	data, err := listFiles(dir)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if len(data) != 3 {
		t.Fatalf("%v", data)
	}

	for _, name := range []string{"bitweaver", "zstd", "s2", "flate"} {
		t.Run(name, func(t *testing.T) {
			k, err := newComplexity(name)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			// listFiles sorts by name: a, b, c.
			mat, err := distanceMatrix(k, data)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			ab, ac, bc := mat[0], mat[1], mat[2]
			if ab >= ac || ab >= bc {
				t.Errorf("similar texts are not closest: %v", mat)
			}
		})
	}
	if _, err := newComplexity("ppmd"); err == nil {
		t.Errorf("unknown compressor accepted")
	}
}

func TestNCD(t *testing.T) {
	if d := ncd(100, 200, 200); d != 0.5 {
		t.Errorf("%f", d)
	}
	if d := ncd(200, 100, 300); d != 1 {
		t.Errorf("%f", d)
	}
}
