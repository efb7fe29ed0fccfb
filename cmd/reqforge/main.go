package main

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/broady/reqforge/cmd/reqforge/internal/check"
	"github.com/broady/reqforge/cmd/reqforge/internal/gen"
)

type CLI struct {
	Version VersionCmd `cmd:"" help:"Print version information."`
	Gen     gen.Cmd    `cmd:"" help:"Generate assembly methods for request shapes."`
	Check   check.Cmd  `cmd:"" help:"Validate request shapes without generating files."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	v := readBuildVersion()
	if v.GoVersion == "" {
		fmt.Printf("reqforge %s\n", v)
		return nil
	}
	fmt.Printf("reqforge %s (%s)\n", v, v.GoVersion)
	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("reqforge"),
		kong.Description("Generate HTTP request assembly code from annotated Go structs."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
