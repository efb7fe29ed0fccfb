package check

import (
	"fmt"
	"strings"

	"github.com/broady/reqforge/internal/discover"
)

type Cmd struct {
	Package string `help:"Package to scan (default: current directory)." short:"p" default:"."`
	Strict  bool   `help:"Treat warnings as errors."`
}

func (c *Cmd) Run() error {
	result, err := discover.Find(c.Package)
	if err != nil {
		return fmt.Errorf("discover: %w", err)
	}

	var warnings []string
	for _, s := range result.Shapes {
		fmt.Printf("✓ %s %s %s (body=%s, %d fields)\n", s.Name, s.Method, s.Path, s.Body, len(s.Fields))
		warnings = append(warnings, s.Warnings()...)
	}
	for _, name := range result.Manual {
		fmt.Printf("- %s implements the assembly protocol by hand; skipped\n", name)
	}
	for _, w := range warnings {
		fmt.Printf("! %s\n", w)
	}

	if c.Strict && len(warnings) > 0 {
		return fmt.Errorf("%d warnings:\n  %s", len(warnings), strings.Join(warnings, "\n  "))
	}
	fmt.Printf("✓ %d shapes valid\n", len(result.Shapes))
	return nil
}
