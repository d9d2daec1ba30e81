package parse

import (
	"context"
	"fmt"
	"strings"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/slowlang/where/compiler/ast"
)

type (
	Alt struct {
		Label string
		Rule  Rule
	}

	// AltError is returned when none of the alternatives matched.
	// Fails are in the order the alternatives were tried.
	AltError struct {
		Pos   int
		Fails []Failure
	}

	Failure struct {
		Label string
		Err   error
	}
)

// try runs r and rewinds the cursor to where it was if r fails.
func (p *Parser) try(ctx context.Context, r Rule) (x ast.Expr, err error) {
	st := p.i

	x, err = r(ctx)
	if err == nil {
		return x, nil
	}

	if tr := tlog.SpanFromContext(ctx); tr.If("backtrack") && p.i != st {
		tr.Printw("backtrack", "from", p.i, "to", st, "err", err, "caller", loc.Caller(1))
	}

	p.i = st

	return nil, err
}

// anyOf tries alternatives in order from the same position.
// The first one to succeed wins.
func (p *Parser) anyOf(ctx context.Context, alts ...Alt) (x ast.Expr, err error) {
	st := p.i

	var fails []Failure

	for _, a := range alts {
		x, err = p.try(ctx, a.Rule)
		if err == nil {
			return x, nil
		}

		if isFatal(err) {
			return nil, err
		}

		fails = append(fails, Failure{Label: a.Label, Err: err})
	}

	return nil, &AltError{Pos: st, Fails: fails}
}

func isFatal(err error) bool {
	var de *DepthError

	return errors.As(err, &de)
}

func (e *AltError) Error() string {
	if len(e.Fails) == 0 {
		return "no alternatives"
	}

	if u, ok := e.merged(); ok {
		return fmt.Sprintf("%v (tried %v)", u, strings.Join(e.labels(), ", "))
	}

	var b strings.Builder

	last := e.Fails[len(e.Fails)-1]
	fmt.Fprintf(&b, "%v: %v", last.Label, last.Err)

	for i := len(e.Fails) - 2; i >= 0; i-- {
		f := e.Fails[i]
		fmt.Fprintf(&b, "; after %v: %v", f.Label, f.Err)
	}

	return b.String()
}

func (e *AltError) Unwrap() []error {
	l := make([]error, len(e.Fails))

	for i, f := range e.Fails {
		l[i] = f.Err
	}

	return l
}

// Last returns the failure of the last tried alternative.
func (e *AltError) Last() Failure {
	if len(e.Fails) == 0 {
		return Failure{}
	}

	return e.Fails[len(e.Fails)-1]
}

// merged joins failures which all stopped at the same token
// before consuming anything.
func (e *AltError) merged() (u *UnexpectedError, ok bool) {
	for _, f := range e.Fails {
		x, ok := f.Err.(*UnexpectedError)
		if !ok || u != nil && x.Pos != u.Pos {
			return nil, false
		}

		if u == nil {
			u = &UnexpectedError{
				Pos:   x.Pos,
				Token: x.Token,
			}
		}

		u.Want = append(u.Want, x.Want...)
	}

	return u, u != nil
}

func (e *AltError) labels() []string {
	l := make([]string, len(e.Fails))

	for i, f := range e.Fails {
		l[i] = f.Label
	}

	return l
}

func joinHuman(l []string) string {
	switch len(l) {
	case 0:
		return "<none>"
	case 1:
		return l[0]
	}

	var b strings.Builder

	for i, s := range l {
		if i+1 == len(l) {
			b.WriteString(" or ")
		} else if i != 0 {
			b.WriteString(", ")
		}

		b.WriteString(s)
	}

	return b.String()
}
