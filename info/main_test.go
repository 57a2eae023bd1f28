package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fumin/bitweaver"
)

func TestRunProfile(t *testing.T) {
	dir := t.TempDir()
	yml := []byte("models: binary\ndecayShift: 4\n")
	profilePath := filepath.Join(dir, "profile.yaml")
	if err := os.WriteFile(profilePath, yml, 0644); err != nil {
		t.Fatalf("%+v", err)
	}
	opts, err := bitweaver.ParseProfile(yml)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	data := []byte(strings.Repeat("abracadabra ", 50))
	encoded, err := bitweaver.Encode(data, 0, opts...)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	name := filepath.Join(dir, "encoded")
	if err := os.WriteFile(name, encoded, 0644); err != nil {
		t.Fatalf("%+v", err)
	}

	defer func(p string) { *profile = p }(*profile)
	*profile = profilePath
	var b bytes.Buffer
	if err := run(&b, name); err != nil {
		t.Fatalf("%+v", err)
	}
	if !strings.Contains(b.String(), "600\tbytes expected\n") {
		t.Errorf("%s", b.String())
	}
}

func TestWriteSVG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lengths.svg")
	if err := writeSVG(path, "lengths", map[int]int{3: 1, 9: 2}); err != nil {
		t.Fatalf("%+v", err)
	}
	if b, err := os.ReadFile(path); err != nil || !bytes.Contains(b, []byte("<svg")) {
		t.Errorf("%.100s %+v", b, err)
	}

	// Too little data leaves no file behind.
	empty := filepath.Join(dir, "offsets.svg")
	if err := writeSVG(empty, "offsets", map[int]int{1: 1}); err != nil {
		t.Fatalf("%+v", err)
	}
	if _, err := os.Stat(empty); !os.IsNotExist(err) {
		t.Errorf("%+v", err)
	}
}
