package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/pkg/errors"

	"github.com/fumin/bitweaver"
	"github.com/fumin/bitweaver/baseline"
	"github.com/fumin/bitweaver/match"
)

var (
	models  = flag.String("models", "trie", "probability models: trie, frequency, context or binary")
	parser  = flag.String("parser", "optimal", "parser: optimal or greedy")
	finder  = flag.String("finder", "hashchain", "match finder: naive or hashchain")
	profile = flag.String("profile", "", "YAML profile, applied before the other flags")
	compare = flag.Bool("compare", false, "also report the sizes achieved by general purpose compressors")
	verbose = flag.Bool("verbose", false, "verbosity")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] filename > output\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	name := flag.Arg(0)
	if name == "" {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(name); err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(name string) error {
	data, err := os.ReadFile(name)
	if err != nil {
		return errors.Wrap(err, "")
	}
	opts, err := options()
	if err != nil {
		return errors.Wrap(err, "")
	}

	size, extra := AllocationSize(data)
	log.Printf("%d\textra bytes of BSS", extra)
	if size > math.MaxUint32 {
		return errors.Wrapf(bitweaver.ErrTooLarge, "allocation size %d", size)
	}
	encoded, err := bitweaver.Encode(data, uint32(size), opts...)
	if err != nil {
		return errors.Wrap(err, "")
	}
	if len(data) > 0 {
		log.Printf("%.2f%%\tcompression ratio", 100*float64(len(encoded))/float64(len(data)))
	}

	if *compare {
		results, err := baseline.Compare(data)
		if err != nil {
			return errors.Wrap(err, "")
		}
		for _, r := range results {
			log.Printf("%.2f%%\t%s", 100*r.Ratio(), r.Name)
		}
	}

	if _, err := os.Stdout.Write(encoded); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

func options() ([]bitweaver.Option, error) {
	var opts []bitweaver.Option
	if *profile != "" {
		p, err := bitweaver.LoadProfile(*profile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, p...)
	}

	// Flags set on the command line override the profile.
	var err error
	flag.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "models":
			var k bitweaver.ModelKind
			if k, err = bitweaver.ParseModelKind(*models); err == nil {
				opts = append(opts, bitweaver.WithModels(k))
			}
		case "parser":
			var p bitweaver.Parser
			if p, err = bitweaver.ParseParser(*parser); err == nil {
				opts = append(opts, bitweaver.WithParser(p))
			}
		case "finder":
			var a match.Algorithm
			if a, err = match.ParseAlgorithm(*finder); err == nil {
				opts = append(opts, bitweaver.WithFinder(a))
			}
		}
	})
	if err != nil {
		return nil, err
	}
	if *verbose {
		opts = append(opts, bitweaver.WithLogger(log.Default()))
	}
	return opts, nil
}

// AllocationSize returns the number of bytes a decompressor of data must allocate, and the extra part of it.
// Executables carry the size of the zero filled memory they need beyond their contents
// as a little endian integer in their last 8 bytes. Values of 4GiB or more are taken to be ordinary data.
func AllocationSize(data []byte) (uint64, uint64) {
	var extra uint64
	if len(data) >= 8 {
		extra = binary.LittleEndian.Uint64(data[len(data)-8:])
	}
	if extra >= 1<<32 {
		extra = 0
	}
	return uint64(len(data)) + extra, extra
}
