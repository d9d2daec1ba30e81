package lex

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

type (
	Lexer struct {
		b []byte
		i int

		err error // sticky
	}

	LexError struct {
		Pos    int
		Char   rune
		Reason string
	}
)

func New(text []byte) *Lexer {
	return &Lexer{b: text}
}

// Tokenize reads all the tokens from text.
// The first lex error ends the scan.
func Tokenize(ctx context.Context, text []byte) (toks Tokens, err error) {
	l := New(text)

	for {
		tk, tst, err := l.Next(ctx)
		if err == io.EOF {
			return toks, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "token %d at pos 0x%x", len(toks), tst)
		}

		toks = append(toks, tk)
	}
}

// Next returns the next token and its start offset.
// io.EOF is returned at the end of the input.
func (l *Lexer) Next(ctx context.Context) (tk Token, tst int, err error) {
	if l.err != nil {
		return nil, l.i, l.err
	}

	if tr := tlog.SpanFromContext(ctx); tr.If("lex_token") {
		defer func() {
			tr.Printw("next token", "tk", tk, "tst", tst, "i", l.i, "err", err)
		}()
	}

	tk, tst, l.i, err = l.next(l.i)
	if err != nil {
		l.err = err
	}

	return tk, tst, err
}

// Pos returns the offset the next scan starts at.
func (l *Lexer) Pos() int { return l.i }

func (l *Lexer) next(st int) (tk Token, tst, i int, err error) {
	st = skipSpaces(l.b, st)
	i = st

	if i == len(l.b) {
		return nil, st, i, io.EOF
	}

	c := l.b[i]

	switch c {
	case ',', '=', '+', '(', ')':
		return Char(c), st, i + 1, nil
	}

	switch {
	case c >= '0' && c <= '9':
		tk, i = scanNumber(l.b, i)
		return tk, st, i, nil
	case isIdentStart(c):
		tk, i, err = scanIdent(l.b, i)
		return tk, st, i, err
	}

	return nil, st, st, newLexError(l.b, st, "unexpected character")
}

func scanNumber(b []byte, st int) (Number, int) {
	var n int32

	i := st
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		n = n*10 + int32(b[i]-'0')
		i++
	}

	return Number(n), i
}

func scanIdent(b []byte, st int) (Token, int, error) {
	if st == len(b) || !isIdentStart(b[st]) {
		return nil, st, newLexError(b, st, "identifier expected")
	}

	i := skipIdent(b, st+1)

	if Keyword(b[st:i]) == Where {
		return Where, i, nil
	}

	return Ident(b[st:i]), i, nil
}

func newLexError(b []byte, pos int, reason string) *LexError {
	e := &LexError{
		Pos:    pos,
		Reason: reason,
	}

	if pos < len(b) {
		e.Char, _ = utf8.DecodeRune(b[pos:])
	} else {
		e.Char = -1
	}

	return e
}

func (e *LexError) Error() string {
	if e.Char < 0 {
		return fmt.Sprintf("%v: found end of input", e.Reason)
	}

	return fmt.Sprintf("%v: %q at pos 0x%x", e.Reason, e.Char, e.Pos)
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func skipIdent(b []byte, i int) int {
	for i < len(b) && (isIdentStart(b[i]) || b[i] >= '0' && b[i] <= '9') {
		i++
	}

	return i
}

func skipSpaces(b []byte, i int) int {
	for i < len(b) {
		switch b[i] {
		case ' ', '\t', '\r', '\n':
			i++
			continue
		}

		break
	}

	return i
}
