// Command cluster computes the normalized compression distance between every pair of files in a directory.
// The distances can be fed to a hierarchical clustering tool to group similar files.
package main

import (
	"bytes"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/fumin/bitweaver"
	"github.com/fumin/bitweaver/baseline"
)

var (
	compressorName = flag.String("c", "bitweaver", "compressor: bitweaver, or a baseline such as zstd, s2 or flate")
	dataDir        = flag.String("d", "mammals10", "data directory")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	if err := run(*compressorName, *dataDir); err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(compressor, dir string) error {
	complexity, err := newComplexity(compressor)
	if err != nil {
		return errors.Wrap(err, "")
	}
	data, err := listFiles(dir)
	if err != nil {
		return errors.Wrap(err, "")
	}
	distMat, err := distanceMatrix(complexity, data)
	if err != nil {
		return errors.Wrap(err, "")
	}

	if err := display(data, distMat); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

func display(data []string, distMat []float64) error {
	// Print data as a comma separated array.
	names := make([]string, 0, len(data))
	for _, fpath := range data {
		name := filepath.Base(fpath)
		names = append(names, strconv.Quote(strings.TrimSuffix(name, filepath.Ext(name))))
	}
	log.Printf("[%s]", strings.Join(names, ","))

	// Print distance matrix as a comma separated array.
	dists := make([]string, 0, len(distMat))
	for _, f := range distMat {
		dists = append(dists, strconv.FormatFloat(f, 'f', -1, 64))
	}
	log.Printf("[%s]", strings.Join(dists, ","))
	return nil
}

// A complexity approximates the Kolmogorov complexity of data by its compressed size.
type complexity func(data []byte) (float64, error)

func newComplexity(name string) (complexity, error) {
	if name == "bitweaver" {
		return func(data []byte) (float64, error) {
			b, err := bitweaver.Encode(data, uint32(len(data)), bitweaver.WithVerify(false))
			if err != nil {
				return -1, errors.Wrap(err, "")
			}
			return float64(len(b)), nil
		}, nil
	}

	cs, err := baseline.Compressors()
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	for _, c := range cs {
		if c.Name() != name {
			continue
		}
		c := c
		return func(data []byte) (float64, error) {
			b, err := c.Compress(data)
			if err != nil {
				return -1, errors.Wrap(err, "")
			}
			return float64(len(b)), nil
		}, nil
	}
	return nil, errors.Errorf("unknown compressor %q", name)
}

// distance returns the normalized compression distance between x and y.
func distance(cacher map[string]float64, k complexity, x, y string) (float64, error) {
	xb, err := os.ReadFile(x)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	yb, err := os.ReadFile(y)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}

	kxy, err := k(bytes.Join([][]byte{xb, yb}, nil))
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	kx, err := cached(cacher, k, x, xb)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	ky, err := cached(cacher, k, y, yb)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	return ncd(kx, ky, kxy), nil
}

func ncd(kx, ky, kxy float64) float64 {
	minxy := kx
	if ky < kx {
		minxy = ky
	}
	maxxy := kx
	if ky > kx {
		maxxy = ky
	}
	return (kxy - minxy) / maxxy
}

func cached(cacher map[string]float64, k complexity, fpath string, data []byte) (float64, error) {
	size, ok := cacher[fpath]
	if ok {
		return size, nil
	}
	size, err := k(data)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	cacher[fpath] = size
	return size, nil
}

func distanceMatrix(k complexity, data []string) ([]float64, error) {
	cacher := make(map[string]float64)

	n := len(data)
	if n < 2 {
		return nil, errors.Errorf("%d files, need at least 2", n)
	}
	mat := make([]float64, 0, n*(n-1)/2)
	for i, dx := range data[:n-1] {
		for _, dy := range data[i+1:] {
			dist, err := distance(cacher, k, dx, dy)
			if err != nil {
				return nil, errors.Wrap(err, "")
			}
			mat = append(mat, dist)
			log.Printf("\"%s\"-\"%s\": %f", dx, dy, dist)
		}
	}
	return mat, nil
}

func listFiles(dir string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	data := make([]string, 0, len(files))
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data = append(data, filepath.Join(dir, f.Name()))
	}
	return data, nil
}
