package parser

import (
	"github.com/LowLevelDaniel/coilasm/ir"
	"github.com/LowLevelDaniel/coilasm/token"
)

var functionFlagBits = map[string]ir.SymbolFlags{
	"GLOBAL":    ir.SymbolFlagGlobal,
	"LOCAL":     ir.SymbolFlagLocal,
	"WEAK":      ir.SymbolFlagWeak,
	"HIDDEN":    ir.SymbolFlagHidden,
	"PROTECTED": ir.SymbolFlagProtected,
	"EXPORTED":  ir.SymbolFlagExported,
}

// parseFunction handles `HINT <name> FUNC <flag>* ... DIR LABEL <name>
// ... DIR HINT <name> ENDFUNC`, the directive sequence that opens,
// bodies, and closes one Function.
func (p *Parser) parseFunction() {
	if !p.check(token.Identifier) {
		p.error("expected function name")
		return
	}
	name := p.advance().Text

	if !p.matchKeyword("FUNC") {
		p.error("expected FUNC after function name")
		p.resyncToDirective()
		return
	}

	var flags ir.SymbolFlags
	for p.check(token.Identifier) || p.check(token.Directive) {
		if p.checkKeyword("DIR") {
			break
		}
		flag := p.advance().Text
		bit, ok := functionFlagBits[flag]
		if !ok {
			p.errorAt(p.previous(), "unknown function flag: "+flag)
			continue
		}
		flags |= bit
	}

	if !p.matchKeyword("DIR") || !p.matchKeyword("LABEL") {
		p.error("expected DIR LABEL after function declaration")
		p.resyncToDirective()
		return
	}
	if !p.check(token.Identifier) || p.peek().Text != name {
		p.semanticErrorAt(p.peek(), "function label doesn't match function name")
		p.resyncToDirective()
		return
	}
	p.advance() // consume the matching label name

	fn := ir.NewFunction(name, flags)
	fn.Section = p.module.CurrentSection
	fn.AddLabel(name, 0)
	prev := p.currentFunc
	p.currentFunc = fn

	for {
		if p.isAtEnd() {
			p.error("unterminated function body: expected DIR HINT " + name + " ENDFUNC")
			break
		}
		if p.checkKeyword("DIR") {
			if p.peekAt(1).Text == "HINT" && p.peekAt(2).Text == name && p.peekAt(3).Text == "ENDFUNC" {
				p.advance() // DIR
				p.advance() // HINT
				p.advance() // name
				p.advance() // ENDFUNC
				break
			}
			if p.peekAt(1).Text == "LABEL" {
				p.advance() // DIR
				p.advance() // LABEL
				p.parseNestedLabel()
				continue
			}
			p.errorAt(p.peek(), "unexpected directive inside function body")
			p.advance()
			continue
		}
		if p.check(token.Instruction) {
			p.parseInstructionStatement()
			continue
		}
		p.errorAt(p.peek(), "expected instruction or directive")
		p.advance()
	}

	p.currentFunc = prev
	if !p.module.AddFunction(fn) {
		p.semanticErrorAt(p.previous(), "duplicate function: "+name)
	}
}

// parseNestedLabel handles `LABEL <name>` inside a function body: the
// label is positioned at the function's current instruction count.
func (p *Parser) parseNestedLabel() {
	if !p.check(token.Identifier) {
		p.error("expected label name")
		return
	}
	name := p.advance().Text
	if !p.currentFunc.AddLabel(name, len(p.currentFunc.Instructions)) {
		p.semanticErrorAt(p.previous(), "duplicate label: "+name)
	}
}
