package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/fumin/bitweaver"
)

var (
	models  = flag.String("models", "trie", "probability models the input was compressed with")
	profile = flag.String("profile", "", "YAML profile the input was compressed with, applied before -models")
	svg     = flag.String("svg", "", "if set, write histograms of match lengths and offsets to <svg>-lengths.svg and <svg>-offsets.svg")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] filename\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	name := flag.Arg(0)
	if name == "" {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(os.Stdout, name); err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(w io.Writer, name string) error {
	opts, err := options()
	if err != nil {
		return errors.Wrap(err, "")
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return errors.Wrap(err, "")
	}
	r, err := bitweaver.Info(data, opts...)
	if err != nil {
		return errors.Wrap(err, "")
	}
	if _, err := r.WriteTo(w); err != nil {
		return errors.Wrap(err, "")
	}

	if *svg == "" {
		return nil
	}
	hists := []struct {
		name string
		hist map[int]int
	}{
		{"lengths", r.Lengths},
		{"offsets", r.Offsets},
	}
	for _, h := range hists {
		if err := writeSVG(*svg+"-"+h.name+".svg", h.name, h.hist); err != nil {
			return errors.Wrap(err, "")
		}
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

	set := *profile == ""
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "models" {
			set = true
		}
	})
	if !set {
		return opts, nil
	}
	k, err := bitweaver.ParseModelKind(*models)
	if err != nil {
		return nil, err
	}
	return append(opts, bitweaver.WithModels(k)), nil
}

func writeSVG(path, title string, hist map[int]int) error {
	var b bytes.Buffer
	if err := bitweaver.WriteHistogram(&b, title, hist); err != nil {
		if errors.Cause(err) == bitweaver.ErrNotEnoughData {
			log.Printf("%s: %v", path, err)
			return nil
		}
		return errors.Wrap(err, "")
	}
	if err := os.WriteFile(path, b.Bytes(), 0644); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}
