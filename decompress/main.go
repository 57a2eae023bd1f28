package main

import (
	"flag"
	"io"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/fumin/bitweaver"
)

var (
	models  = flag.String("models", "trie", "probability models the input was compressed with")
	profile = flag.String("profile", "", "YAML profile the input was compressed with, applied before -models")
)

func main() {
	flag.Parse()
	if err := run(os.Stdout, os.Stdin); err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(w io.Writer, r io.Reader) error {
	opts, err := options()
	if err != nil {
		return errors.Wrap(err, "")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "")
	}
	decoded, err := bitweaver.Decode(data, opts...)
	if err != nil {
		return errors.Wrap(err, "")
	}
	if _, err := w.Write(decoded); err != nil {
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

	// An explicit -models overrides the profile, and without a profile the flag default applies.
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
