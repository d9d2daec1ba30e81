package parse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/where/compiler/ast"
	"github.com/slowlang/where/compiler/lex"
)

func TestPrimary(t *testing.T) {
	ctx := context.Background()

	for _, tc := range []struct {
		Toks []lex.Token
		Exp  ast.Expr
	}{
		{[]lex.Token{lex.Number(0)}, ast.Number(0)},
		{[]lex.Token{lex.Number(123)}, ast.Number(123)},
		{[]lex.Token{lex.Ident("x")}, ast.Ident("x")},
	} {
		x, err := Parse(ctx, tc.Toks)
		require.NoError(t, err, "%v", tc.Toks)
		assert.Equal(t, tc.Exp, x, "%v", tc.Toks)
	}
}

func TestAdd(t *testing.T) {
	ctx := context.Background()

	x, err := Parse(ctx, []lex.Token{lex.Number(1), lex.Plus, lex.Number(1)})
	require.NoError(t, err)
	assert.Equal(t, ast.Add{Left: ast.Number(1), Right: ast.Number(1)}, x)

	x, err = Parse(ctx, []lex.Token{lex.Number(1), lex.Plus, lex.Ident("a"), lex.Plus, lex.Number(3)})
	require.NoError(t, err)
	assert.Equal(t, ast.Add{
		Left: ast.Number(1),
		Right: ast.Add{
			Left:  ast.Ident("a"),
			Right: ast.Number(3),
		},
	}, x)
}

func TestWhere(t *testing.T) {
	ctx := context.Background()

	x, err := Parse(ctx, []lex.Token{lex.Ident("x"), lex.Comma, lex.Where, lex.Ident("x"), lex.Equals, lex.Number(1)})
	require.NoError(t, err)
	assert.Equal(t, ast.Where{Body: ast.Ident("x"), Name: "x", Value: ast.Number(1)}, x)

	x, err = Parse(ctx, []lex.Token{
		lex.Ident("y"), lex.Plus, lex.Ident("x"),
		lex.Comma, lex.Where, lex.Ident("x"), lex.Equals, lex.Number(2), lex.Plus, lex.Number(3),
	})
	require.NoError(t, err)
	assert.Equal(t, ast.Add{
		Left: ast.Ident("y"),
		Right: ast.Where{
			Body:  ast.Ident("x"),
			Name:  "x",
			Value: ast.Add{Left: ast.Number(2), Right: ast.Number(3)},
		},
	}, x)
}

func TestEmpty(t *testing.T) {
	ctx := context.Background()

	_, err := Parse(ctx, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing expression")
	assert.Contains(t, err.Error(), "parsing primary")
	assert.Contains(t, err.Error(), "expected number or identifier, found end of input")

	var ue *UnexpectedError
	require.ErrorAs(t, err, &ue)
	assert.Nil(t, ue.Token)
}

func TestPrimaryError(t *testing.T) {
	ctx := context.Background()

	_, err := Parse(ctx, []lex.Token{lex.Plus, lex.Number(1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected number or identifier, found Plus at token 0")
	assert.Contains(t, err.Error(), "parsing number")
	assert.Contains(t, err.Error(), "parsing identifier")

	var ae *AltError
	require.ErrorAs(t, err, &ae)
	require.Len(t, ae.Fails, 2)
	assert.Equal(t, "parsing number", ae.Fails[0].Label)
	assert.Equal(t, "parsing identifier", ae.Last().Label)
}

func TestBacktrack(t *testing.T) {
	ctx := context.Background()

	for _, tc := range []struct {
		Toks []lex.Token
		End  int
	}{
		{[]lex.Token{lex.Number(1), lex.Plus}, 1},
		{[]lex.Token{lex.Number(1), lex.Plus, lex.Plus}, 1},
		{[]lex.Token{lex.Number(1), lex.Comma}, 1},
		{[]lex.Token{lex.Number(1), lex.Comma, lex.Where}, 1},
		{[]lex.Token{lex.Number(1), lex.Comma, lex.Where, lex.Ident("x")}, 1},
		{[]lex.Token{lex.Number(1), lex.Comma, lex.Where, lex.Ident("x"), lex.Equals}, 1},
		{[]lex.Token{lex.Number(1), lex.Comma, lex.Where, lex.Number(2), lex.Equals, lex.Number(3)}, 1},
		{[]lex.Token{lex.Number(1), lex.LeftParen, lex.Number(2), lex.RightParen}, 1},
	} {
		p := New(tc.Toks)

		x, err := p.Parse(ctx)
		require.NoError(t, err, "%v", tc.Toks)
		assert.Equal(t, ast.Number(1), x, "%v", tc.Toks)
		assert.Equal(t, tc.End, p.Pos(), "%v", tc.Toks)
	}
}

func TestBacktrackNested(t *testing.T) {
	ctx := context.Background()

	// the inner where clause is incomplete, so the addition stops at y
	toks := []lex.Token{lex.Ident("x"), lex.Plus, lex.Ident("y"), lex.Comma, lex.Where, lex.Ident("y")}

	p := New(toks)

	x, err := p.Parse(ctx)
	require.NoError(t, err)
	assert.Equal(t, ast.Add{Left: ast.Ident("x"), Right: ast.Ident("y")}, x)
	assert.Equal(t, 3, p.Pos())
}

func TestParseAll(t *testing.T) {
	ctx := context.Background()

	x, err := ParseAll(ctx, []lex.Token{lex.Number(1), lex.Plus, lex.Number(2)})
	require.NoError(t, err)
	assert.Equal(t, ast.Add{Left: ast.Number(1), Right: ast.Number(2)}, x)

	x, err = ParseAll(ctx, []lex.Token{lex.Number(1), lex.Plus})
	require.Error(t, err)
	assert.Nil(t, x)

	var pe *PartialReadError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.End)
	assert.Equal(t, lex.Plus, pe.Token)
	require.Error(t, pe.Reason)
	assert.Contains(t, err.Error(), "parsing where clause: expected Comma, found Plus at token 1")
	assert.Contains(t, err.Error(), "after parsing addition: right operand")
	assert.Contains(t, err.Error(), "found end of input")

	_, err = ParseAll(ctx, []lex.Token{lex.Number(1), lex.RightParen})
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, lex.RightParen, pe.Token)
	assert.Contains(t, err.Error(), "expected Plus or Comma, found RightParenthesis at token 1")
}

func TestDepth(t *testing.T) {
	ctx := context.Background()

	toks := []lex.Token{lex.Number(1), lex.Plus, lex.Number(1), lex.Plus, lex.Number(1)}

	p := New(toks)
	p.MaxDepth = 3

	_, err := p.Parse(ctx)
	require.NoError(t, err)

	p.MaxDepth = 2

	_, err = p.Parse(ctx)
	var de *DepthError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 2, de.Max)
	assert.Equal(t, 4, de.Pos)

	p.MaxDepth = 0

	_, err = p.Parse(ctx)
	require.NoError(t, err)
}

func TestDepthDefault(t *testing.T) {
	ctx := context.Background()

	var toks []lex.Token
	for i := 0; i < DefaultMaxDepth+1; i++ {
		toks = append(toks, lex.Number(int32(i)), lex.Plus)
	}

	toks = append(toks, lex.Number(0))

	_, err := Parse(ctx, toks)
	var de *DepthError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, DefaultMaxDepth, de.Max)
}

func TestIdempotent(t *testing.T) {
	ctx := context.Background()

	toks := []lex.Token{
		lex.Ident("a"), lex.Plus, lex.Ident("b"),
		lex.Comma, lex.Where, lex.Ident("b"), lex.Equals, lex.Number(4),
	}
	orig := append([]lex.Token{}, toks...)

	p := New(toks)

	x1, err := p.Parse(ctx)
	require.NoError(t, err)

	x2, err := p.Parse(ctx)
	require.NoError(t, err)

	x3, err := Parse(ctx, toks)
	require.NoError(t, err)

	assert.Equal(t, x1, x2)
	assert.Equal(t, x1, x3)
	assert.True(t, x1 == x3)
	assert.Equal(t, orig, toks)
}

func TestTry(t *testing.T) {
	ctx := context.Background()

	p := New([]lex.Token{lex.Number(1), lex.Plus, lex.Number(2), lex.Comma})

	_, err := p.try(ctx, func(ctx context.Context) (ast.Expr, error) {
		p.i += 3

		return nil, p.unexpected("anything")
	})
	require.Error(t, err)
	assert.Equal(t, 0, p.Pos())

	x, err := p.try(ctx, func(ctx context.Context) (ast.Expr, error) {
		p.i += 2

		return ast.Number(7), nil
	})
	require.NoError(t, err)
	assert.Equal(t, ast.Number(7), x)
	assert.Equal(t, 2, p.Pos())
}

func TestAnyOfOrder(t *testing.T) {
	ctx := context.Background()

	p := New([]lex.Token{lex.Number(1)})

	var calls []string

	rule := func(name string, ok bool) Alt {
		return Alt{Label: name, Rule: func(ctx context.Context) (ast.Expr, error) {
			calls = append(calls, name)

			if !ok {
				p.i++
				return nil, p.unexpected(name)
			}

			return ast.Ident(name), nil
		}}
	}

	x, err := p.anyOf(ctx, rule("a", false), rule("b", true), rule("c", true))
	require.NoError(t, err)
	assert.Equal(t, ast.Ident("b"), x)
	assert.Equal(t, []string{"a", "b"}, calls)

	calls = nil

	_, err = p.anyOf(ctx, rule("a", false), rule("b", false))
	var ae *AltError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, []string{"a", "b"}, calls)
	assert.Equal(t, 0, ae.Pos)
	assert.Equal(t, 0, p.Pos())
	assert.Equal(t, "b", ae.Last().Label)
	assert.Equal(t, "expected a or b, found end of input (tried a, b)", ae.Error())
}

func TestAltErrorChain(t *testing.T) {
	e := &AltError{
		Fails: []Failure{
			{Label: "first", Err: &UnexpectedError{Pos: 1, Token: lex.Plus, Want: []string{"Comma"}}},
			{Label: "second", Err: &UnexpectedError{Pos: 2, Token: lex.Plus, Want: []string{"Equals"}}},
		},
	}

	assert.Equal(t, "second: expected Equals, found Plus at token 2; after first: expected Comma, found Plus at token 1", e.Error())
	assert.Len(t, e.Unwrap(), 2)
}
