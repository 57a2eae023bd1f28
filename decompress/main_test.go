package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fumin/bitweaver"
)

var gettysburg = []byte("Four score and seven years ago our fathers brought forth on this continent, a new nation, conceived in Liberty, and dedicated to the proposition that all men are created equal.")

func TestRun(t *testing.T) {
	encoded, err := bitweaver.Encode(gettysburg, uint32(len(gettysburg)))
	if err != nil {
		t.Fatalf("%+v", err)
	}

	var b bytes.Buffer
	if err := run(&b, bytes.NewReader(encoded)); err != nil {
		t.Fatalf("%+v", err)
	}
	if !bytes.Equal(b.Bytes(), gettysburg) {
		t.Errorf("%q", b.Bytes())
	}
}

func TestRunProfile(t *testing.T) {
	yml := []byte("models: binary\ndecayShift: 4\n")
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, yml, 0644); err != nil {
		t.Fatalf("%+v", err)
	}
	opts, err := bitweaver.ParseProfile(yml)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	encoded, err := bitweaver.Encode(gettysburg, 0, opts...)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	defer func(p string) { *profile = p }(*profile)
	*profile = path
	var b bytes.Buffer
	if err := run(&b, bytes.NewReader(encoded)); err != nil {
		t.Fatalf("%+v", err)
	}
	if !bytes.Equal(b.Bytes(), gettysburg) {
		t.Errorf("%q", b.Bytes())
	}
}
