package format

import (
	"context"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/slowlang/where/compiler/ast"
)

// Format appends x in source form.
func Format(ctx context.Context, b []byte, x ast.Expr) ([]byte, error) {
	return formatExpr(ctx, b, x)
}

// Tree appends x as an indented tree, one node per line.
func Tree(ctx context.Context, b []byte, x ast.Expr) ([]byte, error) {
	return formatTree(ctx, b, x, 0)
}

func formatExpr(ctx context.Context, b []byte, x ast.Expr) (_ []byte, err error) {
	switch x := x.(type) {
	case ast.Number:
		// digits lex back to the same wrapped int32
		b = hfmt.Appendf(b, "%d", uint32(x))
	case ast.Ident:
		b = append(b, string(x)...)
	case ast.Add:
		err = primaryOnly(x.Left)
		if err != nil {
			return nil, errors.Wrap(err, "left")
		}

		b, err = formatExpr(ctx, b, x.Left)
		if err != nil {
			return nil, errors.Wrap(err, "left")
		}

		b = append(b, " + "...)

		b, err = formatExpr(ctx, b, x.Right)
		if err != nil {
			return nil, errors.Wrap(err, "right")
		}
	case ast.Where:
		err = primaryOnly(x.Body)
		if err != nil {
			return nil, errors.Wrap(err, "body")
		}

		b, err = formatExpr(ctx, b, x.Body)
		if err != nil {
			return nil, errors.Wrap(err, "body")
		}

		b = hfmt.Appendf(b, ", where %s = ", string(x.Name))

		b, err = formatExpr(ctx, b, x.Value)
		if err != nil {
			return nil, errors.Wrap(err, "value")
		}
	default:
		return nil, errors.New("unsupported expr: %T", x)
	}

	return b, nil
}

// primaryOnly rejects operands which would regroup when parsed back,
// as there are no parentheses in the grammar.
func primaryOnly(x ast.Expr) error {
	switch x.(type) {
	case ast.Number, ast.Ident:
		return nil
	case ast.Add, ast.Where:
		return errors.New("%T operand can't be written without parentheses", x)
	default:
		return errors.New("unsupported expr: %T", x)
	}
}

func formatTree(ctx context.Context, b []byte, x ast.Expr, d int) (_ []byte, err error) {
	switch x := x.(type) {
	case ast.Number, ast.Ident:
		b = app(b, d, "%v\n", x)
	case ast.Add:
		b = app(b, d, "Add\n")

		b, err = formatTree(ctx, b, x.Left, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "left")
		}

		b, err = formatTree(ctx, b, x.Right, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "right")
		}
	case ast.Where:
		b = app(b, d, "Where %q\n", string(x.Name))

		b, err = formatTree(ctx, b, x.Body, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "body")
		}

		b, err = formatTree(ctx, b, x.Value, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "value")
		}
	default:
		return nil, errors.New("unsupported expr: %T", x)
	}

	return b, nil
}

func app(b []byte, d int, f string, args ...any) []byte {
	const tabs = "\t\t\t\t\t\t\t\t\t\t\t\t\t\t\t"

	for d > len(tabs) {
		b = append(b, tabs...)
		d -= len(tabs)
	}

	b = append(b, tabs[:d]...)
	b = hfmt.Appendf(b, f, args...)

	return b
}
