package lex

import (
	"fmt"
	"strings"
)

type (
	Token interface {
		fmt.Stringer
	}

	Number int32
	Ident  string

	Char    byte
	Keyword string

	Tokens []Token
)

const (
	Comma      = Char(',')
	Equals     = Char('=')
	Plus       = Char('+')
	LeftParen  = Char('(')
	RightParen = Char(')')

	Where = Keyword("where")
)

func (n Number) String() string { return fmt.Sprintf("Number(%d)", int32(n)) }

func (x Ident) String() string { return fmt.Sprintf("Identifier(%q)", string(x)) }

func (c Char) String() string {
	switch c {
	case Comma:
		return "Comma"
	case Equals:
		return "Equals"
	case Plus:
		return "Plus"
	case LeftParen:
		return "LeftParenthesis"
	case RightParen:
		return "RightParenthesis"
	}

	return fmt.Sprintf("Char(%q)", byte(c))
}

func (k Keyword) String() string {
	if k == Where {
		return "Where"
	}

	return fmt.Sprintf("Keyword(%q)", string(k))
}

func (l Tokens) String() string {
	var b strings.Builder

	b.WriteByte('[')

	for i, t := range l {
		if i != 0 {
			b.WriteString(", ")
		}

		b.WriteString(t.String())
	}

	b.WriteByte(']')

	return b.String()
}
