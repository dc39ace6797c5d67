package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goliatone/go-legaldocs/pkg/templates"
)

// Regenerates the outline goldens read by the templates package tests.
func main() {
	outputDir := flag.String("output", "pkg/templates/testdata", "directory for <name>_outline.golden files")
	flag.Parse()

	registry, err := templates.NewDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build registry: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create output dir: %v\n", err)
		os.Exit(1)
	}

	for _, desc := range registry.List() {
		instance, _ := registry.Get(desc.Name, nil)
		path := filepath.Join(*outputDir, desc.Name+"_outline.golden")
		if err := os.WriteFile(path, []byte(instance.Outline()), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", path)
	}
}
