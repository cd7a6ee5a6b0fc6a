//go:build ignore

// gen_stdlib writes stdlib_gen.go from `go list std`.
//
// Usage: go run gen_stdlib.go
package main

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"os/exec"
	"slices"
	"strings"
)

func main() {
	out, err := exec.Command("go", "list", "std").Output()
	if err != nil {
		fmt.Fprintln(os.Stderr, "go list std:", err)
		os.Exit(1)
	}

	var pkgs []string
	for _, pkg := range strings.Fields(string(out)) {
		// internal and vendored packages are matched by prefix.
		if strings.HasPrefix(pkg, "vendor/") || strings.HasPrefix(pkg, "internal/") ||
			strings.Contains(pkg, "/internal/") || strings.HasSuffix(pkg, "/internal") {
			continue
		}
		pkgs = append(pkgs, pkg)
	}
	slices.Sort(pkgs)

	var b bytes.Buffer
	b.WriteString("// Code generated by gen_stdlib.go; DO NOT EDIT.\n\npackage reflector\n\n")
	b.WriteString("// stdPackages lists the importable standard library packages in sorted order.\n")
	b.WriteString("var stdPackages = []string{\n")
	for _, pkg := range pkgs {
		fmt.Fprintf(&b, "\t%q,\n", pkg)
	}
	b.WriteString("}\n")

	src, err := format.Source(b.Bytes())
	if err != nil {
		fmt.Fprintln(os.Stderr, "format:", err)
		os.Exit(1)
	}
	if err := os.WriteFile("stdlib_gen.go", src, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
