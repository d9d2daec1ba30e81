package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/where/compiler"
	"github.com/slowlang/where/compiler/format"
)

const defaultInput = "input.txt"

func main() {
	parseFlags := []*cli.Flag{
		cli.NewFlag("max-depth", 0, "max expression nesting (0 for default)"),
		cli.NewFlag("partial", false, "allow tokens after the expression"),
	}

	lexCmd := &cli.Command{
		Name:        "lex",
		Description: "print tokens",
		Action:      lexAct,
		Args:        cli.Args{},
	}

	parseCmd := &cli.Command{
		Name:        "parse",
		Description: "print abstract syntax tree",
		Action:      parseAct,
		Args:        cli.Args{},
		Flags: append(parseFlags,
			cli.NewFlag("tree", false, "print indented tree"),
		),
	}

	fmtCmd := &cli.Command{
		Name:        "fmt",
		Description: "print expression in canonical form",
		Action:      fmtAct,
		Args:        cli.Args{},
		Flags:       parseFlags,
	}

	app := &cli.Command{
		Name:        "where",
		Description: "where is a tool for parsing where expressions",
		Before:      before,
		After:       after,
		Flags: []*cli.Flag{
			cli.NewFlag("log", "stderr", "log output file (or stderr, stdout)"),
			cli.NewFlag("verbosity,v", "", "logger verbosity topics (lex_token, parse_rule, backtrack)"),
			cli.HelpFlag,
		},
		Commands: []*cli.Command{
			lexCmd,
			parseCmd,
			fmtCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

var logFile io.Closer

func before(c *cli.Command) error {
	w, cl, err := openLog(c.String("log"))
	if err != nil {
		return errors.Wrap(err, "open log file")
	}

	logFile = cl

	tlog.DefaultLogger = tlog.New(tlog.NewConsoleWriter(w, tlog.LstdFlags))

	tlog.SetVerbosity(c.String("verbosity"))

	return nil
}

func after(c *cli.Command) error {
	if logFile == nil {
		return nil
	}

	err := logFile.Close()
	logFile = nil
	if err != nil {
		return errors.Wrap(err, "close log file")
	}

	return nil
}

// openLog returns log destination. Closer is nil for standard streams.
func openLog(name string) (io.Writer, io.Closer, error) {
	switch name {
	case "", "stderr":
		return os.Stderr, nil, nil
	case "stdout":
		return os.Stdout, nil, nil
	}

	f, err := os.Create(name)
	if err != nil {
		return nil, nil, err
	}

	return f, f, nil
}

func lexAct(c *cli.Command) (err error) {
	ctx := rootContext()

	for _, a := range inputs(c) {
		toks, err := compiler.TokenizeFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "lex %v", a)
		}

		fmt.Printf("%v\n", toks)
	}

	return nil
}

func parseAct(c *cli.Command) (err error) {
	ctx := rootContext()

	for _, a := range inputs(c) {
		x, err := compiler.ParseFile(ctx, a, options(c))
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		if !c.Bool("tree") {
			fmt.Printf("%v\n", x)
			continue
		}

		b, err := format.Tree(ctx, nil, x)
		if err != nil {
			return errors.Wrap(err, "format %v", a)
		}

		fmt.Printf("%s", b)
	}

	return nil
}

func fmtAct(c *cli.Command) (err error) {
	ctx := rootContext()

	for _, a := range inputs(c) {
		x, err := compiler.ParseFile(ctx, a, options(c))
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		b, err := format.Format(ctx, nil, x)
		if err != nil {
			return errors.Wrap(err, "format %v", a)
		}

		fmt.Printf("%s\n", b)
	}

	return nil
}

func options(c *cli.Command) compiler.Options {
	return compiler.Options{
		MaxDepth: c.Int("max-depth"),
		Partial:  c.Bool("partial"),
	}
}

func inputs(c *cli.Command) []string {
	if len(c.Args) == 0 {
		return []string{defaultInput}
	}

	return c.Args
}

func rootContext() context.Context {
	ctx := context.Background()
	return tlog.ContextWithSpan(ctx, tlog.Root())
}
