package ast

import (
	"fmt"

	"tlog.app/go/tlog/tlwire"
)

type (
	Expr interface {
		fmt.Stringer
	}

	Number int32

	Ident string

	Add struct {
		Left  Expr
		Right Expr
	}

	// Where binds Name to Value in Body.
	Where struct {
		Body  Expr
		Name  Ident
		Value Expr
	}
)

func (x Number) String() string { return fmt.Sprintf("Number(%d)", int32(x)) }

func (x Ident) String() string { return fmt.Sprintf("Identifier(%q)", string(x)) }

func (x Add) String() string {
	return fmt.Sprintf("Add(%v, %v)", x.Left, x.Right)
}

func (x Where) String() string {
	return fmt.Sprintf("Where(%v, %q, %v)", x.Body, string(x.Name), x.Value)
}

func (x Number) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder
	return e.AppendInt(b, int(x))
}

func (x Ident) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder
	return e.AppendString(b, string(x))
}

func (x Add) TlogAppend(b []byte) []byte {
	return appendNode(b, "Add", x.Left, x.Right)
}

func (x Where) TlogAppend(b []byte) []byte {
	return appendNode(b, "Where", x.Body, x.Name, x.Value)
}

func appendNode(b []byte, name string, args ...Expr) []byte {
	var e tlwire.LowEncoder

	b = e.AppendTag(b, tlwire.Array, -1)
	b = e.AppendString(b, name)

	for _, a := range args {
		switch a := a.(type) {
		case nil:
			b = e.AppendNil(b)
		case interface{ TlogAppend([]byte) []byte }:
			b = a.TlogAppend(b)
		default:
			b = e.AppendString(b, a.String())
		}
	}

	return e.AppendBreak(b)
}
