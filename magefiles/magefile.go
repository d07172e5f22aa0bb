//go:build mage

// Package main contains Mage build targets for skeleton-engine developer tooling.
// Implements: DESIGN.md § Developer Tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the CLI expects.
var projectDirs = []string{
	"skeletons",
	"catalog",
}

// Init creates the project directory structure.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "skeleton-engine"
	cmdPkg  = "./cmd/skeleton-engine"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Catalog builds the CLI and stores every file under skeletons/ in the catalog.
func Catalog() error {
	mg.Deps(Init, Build)
	return sh.RunV(filepath.Join(binDir, binName), "catalog", "store", "--dir", "skeletons")
}

// Deltas refreshes the catalog and prints the nodes added per save.
func Deltas() error {
	mg.Deps(Catalog)
	return sh.RunV(filepath.Join(binDir, binName), "catalog", "deltas")
}

// Export refreshes the catalog and writes catalog/export.yaml.
func Export() error {
	mg.Deps(Catalog)
	return sh.RunV(filepath.Join(binDir, binName), "catalog", "export", "--format", "yaml")
}
