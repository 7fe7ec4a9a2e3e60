// Package parser implements the single-pass recursive-descent parser
// that drives a directive state machine over a Token sequence and
// emits an ir.Module.
package parser

import (
	"github.com/LowLevelDaniel/coilasm/diag"
	"github.com/LowLevelDaniel/coilasm/ir"
	"github.com/LowLevelDaniel/coilasm/token"
)

// Parser consumes a token sequence and builds an ir.Module. It never
// panics: unexpected input is reported through diags and the parser
// resynchronizes on the next DIR directive.
type Parser struct {
	tokens []token.Token
	pos    int
	diags  *diag.Engine

	module      *ir.Module
	currentFunc *ir.Function
}

// New constructs a Parser over tokens. diags must not be nil.
func New(tokens []token.Token, diags *diag.Engine) *Parser {
	return &Parser{tokens: tokens, diags: diags, module: ir.NewModule("default")}
}

// Parse runs the parser to completion. Per spec.md §8 invariant 6, it
// returns (nil, false) if any diagnostic of severity >= Error was
// recorded, and (module, true) otherwise.
func (p *Parser) Parse() (*ir.Module, bool) {
	p.parseModule()
	if p.diags.Latched() {
		return nil, false
	}
	return p.module, true
}

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(offset int) token.Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[idx]
}

func (p *Parser) previous() token.Token {
	if p.pos > 0 && p.pos-1 < len(p.tokens) {
		return p.tokens[p.pos-1]
	}
	return token.Token{Kind: token.Error}
}

func (p *Parser) isAtEnd() bool {
	return p.pos >= len(p.tokens) || p.tokens[p.pos].Kind == token.EOF
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.pos++
	}
	return p.previous()
}

func (p *Parser) check(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) match(k token.Kind) bool {
	if p.check(k) {
		p.advance()
		return true
	}
	return false
}

// matchKeyword matches the current token by its literal text,
// regardless of whether the lexer classified it as Directive or
// Identifier — most directive sub-keywords (SECT, FUNC, GLOBAL, …)
// lex as Directive while the reference grammar treats them uniformly
// as identifiers, so text is the only stable thing to dispatch on.
func (p *Parser) matchKeyword(text string) bool {
	t := p.peek()
	if (t.Kind == token.Directive || t.Kind == token.Identifier) && t.Text == text {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) checkKeyword(text string) bool {
	t := p.peek()
	return (t.Kind == token.Directive || t.Kind == token.Identifier) && t.Text == text
}

func (p *Parser) errorAt(tok token.Token, message string) {
	p.diags.Error(diag.Syntax, message, tok.Location)
}

func (p *Parser) error(message string) {
	p.errorAt(p.peek(), message)
}

// semanticErrorAt reports a SemanticError (spec.md §7): duplicate
// function/label/ABI definition, or a HINT/LABEL name mismatch —
// distinct from SyntaxError, which covers grammar-level mistakes.
func (p *Parser) semanticErrorAt(tok token.Token, message string) {
	p.diags.Error(diag.Semantic, message, tok.Location)
}

// resyncToDirective advances past tokens until the next DIR directive
// or end of input, per spec.md §4.4's failure semantics.
func (p *Parser) resyncToDirective() {
	for !p.isAtEnd() && !p.checkKeyword("DIR") {
		p.advance()
	}
}

func (p *Parser) parseModule() {
	for !p.isAtEnd() {
		if p.matchKeyword("DIR") {
			p.parseDirective()
		} else {
			p.error("expected 'DIR' directive")
			p.advance()
		}
	}
}

// parseDirective dispatches the sub-parser for the directive keyword
// following DIR.
func (p *Parser) parseDirective() {
	if !p.check(token.Directive) && !p.check(token.Identifier) {
		p.error("expected directive identifier")
		p.resyncToDirective()
		return
	}
	directive := p.advance().Text

	switch directive {
	case "SECT":
		p.parseSect()
	case "LABEL":
		p.parseLabel()
	case "HINT":
		p.parseFunction()
	case "ABI":
		p.parseAbi()
	default:
		p.errorAt(p.previous(), "unknown directive: "+directive)
		p.resyncToDirective()
	}
}
