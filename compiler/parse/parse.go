package parse

import (
	"context"
	"fmt"

	"tlog.app/go/tlog"

	"github.com/slowlang/where/compiler/ast"
	"github.com/slowlang/where/compiler/lex"
)

type (
	Parser struct {
		// MaxDepth limits expression nesting. Zero means DefaultMaxDepth.
		MaxDepth int

		toks []lex.Token
		i    int

		depth int

		// last following clause given up on, and where
		backtracked   error
		backtrackedAt int
	}

	Rule func(ctx context.Context) (ast.Expr, error)

	UnexpectedError struct {
		Pos   int
		Token lex.Token // nil at the end of input
		Want  []string
	}

	DepthError struct {
		Pos int
		Max int
	}

	PartialReadError struct {
		End    int
		Token  lex.Token
		Reason error
	}
)

const DefaultMaxDepth = 10000

// Parse parses an expression from the beginning of toks.
// Tokens left after the expression are not an error.
func Parse(ctx context.Context, toks []lex.Token) (ast.Expr, error) {
	return New(toks).Parse(ctx)
}

// ParseAll is like Parse but requires all the tokens to be consumed.
func ParseAll(ctx context.Context, toks []lex.Token) (ast.Expr, error) {
	return New(toks).ParseAll(ctx)
}

func New(toks []lex.Token) *Parser {
	return &Parser{toks: toks}
}

func (p *Parser) Parse(ctx context.Context) (x ast.Expr, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "parse", "tokens", len(p.toks))
	defer tr.Finish("err", &err)

	p.i = 0
	p.depth = 0
	p.backtracked = nil

	x, err = p.Expression(ctx)
	if err != nil {
		return nil, err
	}

	tr.Printw("parsed", "end", p.i, "x", x)

	return x, nil
}

func (p *Parser) ParseAll(ctx context.Context) (x ast.Expr, err error) {
	x, err = p.Parse(ctx)
	if err != nil {
		return nil, err
	}

	if p.i == len(p.toks) {
		return x, nil
	}

	e := &PartialReadError{
		End:   p.i,
		Token: p.toks[p.i],
	}

	if p.backtracked != nil && p.backtrackedAt == p.i {
		e.Reason = p.backtracked
	}

	return nil, e
}

// Pos returns the cursor position.
func (p *Parser) Pos() int { return p.i }

func (p *Parser) maxDepth() int {
	if p.MaxDepth > 0 {
		return p.MaxDepth
	}

	return DefaultMaxDepth
}

func (p *Parser) peek() lex.Token {
	if p.i == len(p.toks) {
		return nil
	}

	return p.toks[p.i]
}

func (p *Parser) expect(want lex.Token) error {
	if p.peek() != want {
		return p.unexpected(want.String())
	}

	p.i++

	return nil
}

func (p *Parser) unexpected(want ...string) *UnexpectedError {
	return &UnexpectedError{
		Pos:   p.i,
		Token: p.peek(),
		Want:  want,
	}
}

func (e *UnexpectedError) Error() string {
	if e.Token == nil {
		return fmt.Sprintf("expected %v, found end of input", joinHuman(e.Want))
	}

	return fmt.Sprintf("expected %v, found %v at token %d", joinHuman(e.Want), e.Token, e.Pos)
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("expression nested deeper than %d at token %d", e.Max, e.Pos)
}

func (e *PartialReadError) Error() string {
	if e.Reason == nil {
		return fmt.Sprintf("partial read: unexpected %v at token %d", e.Token, e.End)
	}

	return fmt.Sprintf("partial read: unexpected %v at token %d: %v", e.Token, e.End, e.Reason)
}

func (e *PartialReadError) Unwrap() error { return e.Reason }
