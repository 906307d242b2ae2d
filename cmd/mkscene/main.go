package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lumen/lumenos/scene"
)

func main() {
	var (
		pattern = flag.String("pattern", "", "Built-in pattern to write ("+strings.Join(scene.Patterns(), "|")+").")
		outPath = flag.String("out", "", "Output file (default stdout).")
		all     = flag.String("all", "", "Write every built-in pattern into this directory.")
		check   = flag.String("check", "", "Parse a scene file and print a summary.")
	)
	flag.Parse()

	switch {
	case *check != "":
		s, err := scene.ParseFile(*check)
		if err != nil {
			fatalf("check: %v", err)
		}
		fmt.Printf("%s: %d frames, %d points\n", s.Name, len(s.Frames), s.Points())
	case *all != "":
		if err := writeAll(*all); err != nil {
			fatalf("all: %v", err)
		}
	case *pattern != "":
		if err := writeOne(*pattern, *outPath); err != nil {
			fatalf("%s: %v", *pattern, err)
		}
	default:
		fatalf("usage: mkscene -pattern name [-out file.scene]\n       mkscene -all dir\n       mkscene -check file.scene")
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

func writeOne(name, outPath string) error {
	s, ok := scene.Pattern(name)
	if !ok {
		return fmt.Errorf("unknown pattern (have %s)", strings.Join(scene.Patterns(), ", "))
	}
	if outPath == "" {
		return scene.Write(os.Stdout, s)
	}
	return writeFile(outPath, s)
}

func writeAll(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, name := range scene.Patterns() {
		s, _ := scene.Pattern(name)
		if err := writeFile(filepath.Join(dir, name+".scene"), s); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, s scene.Scene) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return scene.Write(f, s)
}
