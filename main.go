package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"
)

func main() {
	app := &cli.App{
		Name:      "efuc",
		Usage:     "EFU compiler",
		ArgsUsage: "<input-file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "target",
				Aliases: []string{"t"},
				Usage:   "backend to emit for: go or js",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "output path; a trailing / derives the name from the input",
			},
			&cli.BoolFlag{
				Name:    "run",
				Aliases: []string{"r"},
				Usage:   "run the output with the target toolchain after emission",
			},
			&cli.StringFlag{
				Name:  "runtime",
				Usage: "host for -run with the js target: node, bun or deno",
			},
			&cli.BoolFlag{
				Name:  "debug-ir",
				Usage: "print one debug line per toplevel node and skip emission",
			},
			&cli.BoolFlag{
				Name:  "dump-ast",
				Usage: "pretty-print the full parsed AST and skip emission",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	input := c.Args().First()
	if input == "" {
		fmt.Fprintln(os.Stderr, "no input file")
		return cli.Exit("", 1)
	}
	if _, err := os.Stat(input); err != nil {
		fmt.Fprintf(os.Stderr, "cannot open %s\n", input)
		return cli.Exit("", 1)
	}

	cfg, err := loadProjectConfig(filepath.Dir(input))
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading efu.yaml: %s\n", err)
		return cli.Exit("", 1)
	}

	opts := Options{
		Target:  c.String("target"),
		Out:     c.String("out"),
		Runtime: c.String("runtime"),
		Run:     c.Bool("run"),
		DebugIR: c.Bool("debug-ir"),
		DumpAST: c.Bool("dump-ast"),
	}
	if opts.Target == "" {
		opts.Target = cfg.Target
	}
	if opts.Runtime == "" {
		opts.Runtime = cfg.Runtime
	}
	if opts.Out == "" {
		opts.Out = cfg.Out
	}

	if err := Compile(input, opts); err != nil {
		if err != errCompileFailed {
			tracerr.PrintSourceColor(tracerr.Wrap(err))
		}
		return cli.Exit("", 1)
	}

	return nil
}
