package gen

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/broady/reqforge/internal/discover"
	"github.com/broady/reqforge/internal/gen"
)

type Cmd struct {
	Package string   `help:"Package to scan (default: current directory)." short:"p" default:"."`
	Type    []string `help:"Only generate these shapes (repeatable)." short:"t"`
	Out     string   `help:"Output file, or - for stdout (default: reqforge_gen.go in the package directory)." short:"o"`
}

func (c *Cmd) Run() error {
	result, err := discover.Find(c.Package)
	if err != nil {
		return fmt.Errorf("discover: %w", err)
	}

	shapes, err := discover.Select(result.Shapes, c.Type)
	if err != nil {
		return err
	}
	if len(shapes) == 0 {
		return fmt.Errorf("no request shapes found in %s\n\nDeclare one with a blank attribute field:\n\n    type GetUser struct {\n        _  struct{} `request:\"method=GET,path=/users/{id}\"`\n        ID uint64   `path:\"id\"`\n    }", result.PackagePath)
	}

	for _, s := range shapes {
		for _, w := range s.Warnings() {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
	}

	src, err := gen.Generate(result.PackageName, shapes)
	if err != nil {
		return err
	}

	if c.Out == "-" {
		_, err := os.Stdout.Write(src)
		return err
	}
	out := c.Out
	if out == "" {
		out = filepath.Join(result.Dir, discover.GeneratedFile)
	}
	if err := os.WriteFile(out, src, 0644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Printf("✓ Generated %d shapes in %s\n", len(shapes), out)
	return nil
}
