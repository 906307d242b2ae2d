package main

import (
	"path/filepath"
	"testing"

	"lumen/lumenos/scene"
)

func TestWriteAllParses(t *testing.T) {
	dir := t.TempDir()
	if err := writeAll(dir); err != nil {
		t.Fatalf("writeAll() = %v", err)
	}
	for _, name := range scene.Patterns() {
		s, err := scene.ParseFile(filepath.Join(dir, name+".scene"))
		if err != nil {
			t.Fatalf("ParseFile(%s) = %v", name, err)
		}
		want, _ := scene.Pattern(name)
		if s.Name != name || s.Points() != want.Points() {
			t.Fatalf("%s: name=%q points=%d, want %d", name, s.Name, s.Points(), want.Points())
		}
	}
}

func TestWriteOneUnknown(t *testing.T) {
	if err := writeOne("spiral", filepath.Join(t.TempDir(), "x.scene")); err == nil {
		t.Fatal("writeOne(spiral) = nil, want error")
	}
}
