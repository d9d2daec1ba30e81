package parse

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/slowlang/where/compiler/ast"
	"github.com/slowlang/where/compiler/lex"
)

// Expression parses
//
//	expression := primary following?
func (p *Parser) Expression(ctx context.Context) (x ast.Expr, err error) {
	if p.depth >= p.maxDepth() {
		return nil, &DepthError{Pos: p.i, Max: p.maxDepth()}
	}

	p.depth++
	defer func() { p.depth-- }()

	if tr := tlog.SpanFromContext(ctx); tr.If("parse_rule") {
		tr.Printw("expression", "pos", p.i, "depth", p.depth, "from", loc.Callers(1, 2))
	}

	x, err = p.Primary(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "parsing expression")
	}

	x, err = p.Following(ctx, x)
	if err != nil {
		return nil, err
	}

	return x, nil
}

// Primary parses
//
//	primary := NUMBER | IDENTIFIER
func (p *Parser) Primary(ctx context.Context) (x ast.Expr, err error) {
	x, err = p.anyOf(ctx,
		Alt{Label: "parsing number", Rule: p.number},
		Alt{Label: "parsing identifier", Rule: p.ident},
	)
	if err != nil {
		return nil, errors.Wrap(err, "parsing primary")
	}

	return x, nil
}

// Following tries to extend base with a trailing clause
//
//	following := addition | where_clause
//
// If nothing follows, base is returned as is with the cursor untouched.
// The only error is a *DepthError.
func (p *Parser) Following(ctx context.Context, base ast.Expr) (x ast.Expr, err error) {
	st := p.i

	x, err = p.anyOf(ctx,
		Alt{Label: "parsing addition", Rule: func(ctx context.Context) (ast.Expr, error) {
			return p.addition(ctx, base)
		}},
		Alt{Label: "parsing where clause", Rule: func(ctx context.Context) (ast.Expr, error) {
			return p.whereClause(ctx, base)
		}},
	)
	if err == nil {
		return x, nil
	}

	var de *DepthError
	if errors.As(err, &de) {
		return nil, de
	}

	p.i = st
	p.backtracked = err
	p.backtrackedAt = st

	if tr := tlog.SpanFromContext(ctx); tr.If("backtrack") {
		tr.Printw("nothing follows", "pos", st, "base", base, "reason", err)
	}

	return base, nil
}

func (p *Parser) number(ctx context.Context) (ast.Expr, error) {
	n, ok := p.peek().(lex.Number)
	if !ok {
		return nil, p.unexpected("number")
	}

	p.i++

	return ast.Number(n), nil
}

func (p *Parser) ident(ctx context.Context) (ast.Expr, error) {
	id, ok := p.peek().(lex.Ident)
	if !ok {
		return nil, p.unexpected("identifier")
	}

	p.i++

	return ast.Ident(id), nil
}

// addition := PLUS expression
func (p *Parser) addition(ctx context.Context, left ast.Expr) (ast.Expr, error) {
	err := p.expect(lex.Plus)
	if err != nil {
		return nil, err
	}

	right, err := p.Expression(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "right operand")
	}

	return ast.Add{
		Left:  left,
		Right: right,
	}, nil
}

// where_clause := COMMA WHERE IDENTIFIER EQUALS expression
func (p *Parser) whereClause(ctx context.Context, body ast.Expr) (ast.Expr, error) {
	for _, t := range []lex.Token{lex.Comma, lex.Where} {
		err := p.expect(t)
		if err != nil {
			return nil, err
		}
	}

	name, ok := p.peek().(lex.Ident)
	if !ok {
		return nil, p.unexpected("identifier")
	}

	p.i++

	err := p.expect(lex.Equals)
	if err != nil {
		return nil, err
	}

	val, err := p.Expression(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "bound value")
	}

	return ast.Where{
		Body:  body,
		Name:  ast.Ident(name),
		Value: val,
	}, nil
}
