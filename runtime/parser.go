package runtime

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"

	"github.com/slrgen/slrgen/grammar"
	"github.com/slrgen/slrgen/grammar/symbol"
)

func tracer() tracing.Trace {
	return tracing.Select("slrgen.runtime")
}

// SyntaxError is raised on an unexpected token (§7). Recoverable is true
// once the parser has entered error-recovery mode via the `error` token.
type SyntaxError struct {
	Location    Location
	Token       Token
	Expected    []string
	Recoverable bool
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("unexpected token %q at %d:%d (expected one of %v)",
		e.Token.Symbol, e.Location.FirstLine, e.Location.FirstColumn, e.Expected)
}

// ErrorHandler is the `parseError` hook (§7). Returning a non-nil error
// aborts the parse. Returning nil during a Recoverable error lets the
// driver attempt `error`-token recovery; returning nil for a
// non-recoverable error is equivalent to the default behavior of
// propagating the SyntaxError.
type ErrorHandler func(*SyntaxError) error

// Option configures a Parser.
type Option func(*Parser)

// WithErrorHandler overrides the default parseError behavior.
func WithErrorHandler(h ErrorHandler) Option {
	return func(p *Parser) { p.onErrorHook = h }
}

type frame struct {
	state int
	value interface{}
	loc   Location
}

// Parser is the SLR(1) shift-reduce driver (§4.7). It walks g's parse
// table against tokens pulled from a Lexer, evaluating each rule's
// compiled action: sexp mode always, jison mode whenever its body reduces
// to the single-expression grammar grammar.ActionBody.JisonExpr covers.
// A jison body built from more than one statement (conditionals, YYABORT/
// YYACCEPT control flow) has no JisonExpr; its handle's last value passes
// through unevaluated, since the runtime has no target-language
// interpreter for arbitrary jison action source.
type Parser struct {
	g           *grammar.Grammar
	lex         Lexer
	stack       []frame
	onError     bool
	shiftCount  int
	onErrorHook ErrorHandler
}

func NewParser(g *grammar.Grammar, lex Lexer, opts ...Option) *Parser {
	p := &Parser{g: g, lex: lex}
	for _, opt := range opts {
		opt(p)
	}
	if p.onErrorHook == nil {
		p.onErrorHook = func(e *SyntaxError) error { return e }
	}
	return p
}

// Parse runs the shift-reduce loop to completion and returns the value
// synthesized at the start symbol.
func (p *Parser) Parse() (interface{}, error) {
	p.push(0, nil, Location{})
	tok, err := p.lex.Next()
	if err != nil {
		return nil, err
	}

	for {
		term := p.tokenSymbol(tok)
		act := p.g.ParseTable.GetAction(p.top(), term)

		switch act.Kind {
		case grammar.ActionShift:
			if p.onError {
				if p.shiftCount < 3 {
					p.shiftCount++
				} else {
					p.onError = false
					p.shiftCount = 0
				}
			}
			p.push(act.Target, tok.Value, tok.Location)
			tok, err = p.lex.Next()
			if err != nil {
				return nil, err
			}

		case grammar.ActionReduce:
			p.reduce(p.g.Rules.ByID(grammar.RuleID(act.Target)))

		case grammar.ActionAccept:
			return p.top1().value, nil

		default: // ActionNone or ActionError: no legal move
			handled, err := p.handleError(&tok)
			if err != nil {
				return nil, err
			}
			if !handled {
				return nil, nil
			}
		}
	}
}

func (p *Parser) reduce(r *grammar.Rule) {
	n := len(r.RHS)
	args := make([]interface{}, n)
	loc := p.reduceLocation(n)
	for i := 0; i < n; i++ {
		args[i] = p.stack[len(p.stack)-n+i].value
	}
	p.pop(n)

	var result interface{}
	switch {
	case r.Action != nil && r.Action.Mode == grammar.Sexp:
		result = grammar.EvalSexp(r.Action.Sexp, args)
	case r.Action != nil && r.Action.Mode == grammar.Jison && r.Action.JisonExpr != nil:
		result = grammar.EvalSexp(r.Action.JisonExpr, args)
	case n > 0:
		result = args[n-1] // unevaluated jison handle: pass the last position through
	}

	nextState := p.g.ParseTable.GetGoto(p.top(), r.LHS)
	p.push(nextState, result, loc)
}

// reduceLocation spans a handle of n symbols, or (§8, ε-productions)
// collapses to the current lexer position when the handle is empty.
func (p *Parser) reduceLocation(n int) Location {
	if n == 0 {
		return p.top1().loc
	}
	first := p.stack[len(p.stack)-n].loc
	last := p.stack[len(p.stack)-1].loc
	return Location{
		FirstLine:   first.FirstLine,
		FirstColumn: first.FirstColumn,
		LastLine:    last.LastLine,
		LastColumn:  last.LastColumn,
	}
}

func (p *Parser) handleError(tok *Token) (bool, error) {
	if p.onError {
		if tok.EOF {
			return false, nil
		}
		next, err := p.lex.Next()
		if err != nil {
			return false, err
		}
		*tok = next
		return true, nil
	}

	synErr := &SyntaxError{
		Location: tok.Location,
		Token:    *tok,
		Expected: p.expected(p.top()),
	}
	tracer().Errorf("syntax error: %s", synErr.Error())

	if !p.trapError() {
		if err := p.onErrorHook(synErr); err != nil {
			return false, err
		}
		return false, synErr
	}

	synErr.Recoverable = true
	if err := p.onErrorHook(synErr); err != nil {
		return false, err
	}

	act := p.g.ParseTable.GetAction(p.top(), symbol.Error)
	if act.Kind != grammar.ActionShift {
		return false, fmt.Errorf("runtime: error-trapper state %d has no shift on the error symbol", p.top())
	}
	p.push(act.Target, nil, tok.Location)
	p.onError = true
	p.shiftCount = 0
	return true, nil
}

// trapError pops states until one accepts a shift on the error symbol,
// or the stack is exhausted (§7).
func (p *Parser) trapError() bool {
	for {
		if p.g.ParseTable.ErrorTrapper[p.top()] {
			return true
		}
		if len(p.stack) == 1 {
			return false
		}
		p.pop(1)
	}
}

func (p *Parser) tokenSymbol(tok Token) symbol.ID {
	if tok.EOF {
		return symbol.End
	}
	if id, ok := p.g.Symbols.Lookup(tok.Symbol); ok {
		return id
	}
	return symbol.End
}

func (p *Parser) expected(state int) []string {
	var names []string
	for _, term := range p.g.ParseTable.Terminals {
		if term == symbol.Error {
			continue
		}
		if p.g.ParseTable.GetAction(state, term).Kind == grammar.ActionNone {
			continue
		}
		names = append(names, p.g.Symbols.Name(term))
	}
	return names
}

func (p *Parser) push(state int, value interface{}, loc Location) {
	p.stack = append(p.stack, frame{state: state, value: value, loc: loc})
}

func (p *Parser) pop(n int) {
	p.stack = p.stack[:len(p.stack)-n]
}

func (p *Parser) top() int { return p.top1().state }

func (p *Parser) top1() frame { return p.stack[len(p.stack)-1] }
