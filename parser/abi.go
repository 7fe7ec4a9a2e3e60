package parser

import (
	"github.com/LowLevelDaniel/coilasm/ir"
	"github.com/LowLevelDaniel/coilasm/token"
)

// abiBuilder accumulates an AbiDefinition's fields as they're parsed.
type abiBuilder struct {
	name          string
	argRegs       []byte
	retRegs       []byte
	preservedRegs []byte
	volatileRegs  []byte
	stackAlign    uint32
}

func newAbiBuilder(name string) *abiBuilder {
	return &abiBuilder{name: name, stackAlign: 16}
}

func (b *abiBuilder) build() ir.AbiDefinition {
	return ir.AbiDefinition{
		Name: b.name, ArgRegs: b.argRegs, RetRegs: b.retRegs,
		PreservedRegs: b.preservedRegs, VolatileRegs: b.volatileRegs, StackAlign: b.stackAlign,
	}
}

// parseAbi handles `ABI <name> { <field>=<value> … }`.
func (p *Parser) parseAbi() {
	if !p.check(token.Identifier) {
		p.error("expected ABI name")
		return
	}
	name := p.advance().Text

	abi := newAbiBuilder(name)

	if !p.match(token.LBrace) {
		p.error("expected '{' after ABI name")
		return
	}

	for !p.match(token.RBrace) && !p.isAtEnd() {
		if !p.check(token.Identifier) {
			p.error("expected ABI field name")
			p.advance()
			continue
		}
		field := p.advance().Text

		if !p.match(token.Equals) {
			p.error("expected '=' after ABI field name")
			continue
		}

		switch field {
		case "args":
			abi.argRegs = p.parseRegisterList()
		case "rets":
			abi.retRegs = p.parseRegisterList()
		case "preserved":
			abi.preservedRegs = p.parseRegisterList()
		case "volatile":
			abi.volatileRegs = p.parseRegisterList()
		case "stack_align":
			if p.check(token.Integer) {
				abi.stackAlign = uint32(p.advance().IntValue)
			} else {
				p.error("expected integer for stack alignment")
			}
		default:
			p.errorAt(p.previous(), "unknown ABI field: "+field)
			for !p.isAtEnd() && !p.check(token.Identifier) && !p.check(token.RBrace) {
				p.advance()
			}
		}
	}

	if !p.module.AddAbiDefinition(name, abi.build()) {
		p.semanticErrorAt(p.previous(), "duplicate ABI definition: "+name)
	}
}

// parseRegisterList parses a `[ Register, Register, … ]` list, already
// positioned just before the opening bracket.
func (p *Parser) parseRegisterList() []byte {
	if !p.match(token.LBracket) {
		p.error("expected '[' to start register list")
		return nil
	}
	var regs []byte
	for !p.match(token.RBracket) && !p.isAtEnd() {
		switch {
		case p.check(token.Register):
			regs = append(regs, p.advance().RegID)
		case p.match(token.Comma):
			// separator between registers.
		default:
			p.error("expected register in list")
			p.advance()
		}
	}
	return regs
}
