package compiler

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/where/compiler/ast"
	"github.com/slowlang/where/compiler/lex"
	"github.com/slowlang/where/compiler/parse"
)

type (
	Options struct {
		MaxDepth int

		// Partial allows tokens after the expression.
		Partial bool
	}
)

func ParseFile(ctx context.Context, name string, opts Options) (x ast.Expr, err error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Parse(ctx, name, text, opts)
}

func Parse(ctx context.Context, name string, text []byte, opts Options) (x ast.Expr, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compiler: parse", "name", name, "size", len(text))
	defer tr.Finish("err", &err)

	toks, err := lex.Tokenize(ctx, text)
	if err != nil {
		return nil, errors.Wrap(err, "tokenize")
	}

	tr.Printw("tokens", "count", len(toks))

	p := parse.New(toks)
	p.MaxDepth = opts.MaxDepth

	if opts.Partial {
		x, err = p.Parse(ctx)
	} else {
		x, err = p.ParseAll(ctx)
	}
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}

	return x, nil
}

func TokenizeFile(ctx context.Context, name string) (lex.Tokens, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	toks, err := lex.Tokenize(ctx, text)
	if err != nil {
		return nil, errors.Wrap(err, "tokenize")
	}

	return toks, nil
}
