package parser

import (
	"github.com/LowLevelDaniel/coilasm/ir"
	"github.com/LowLevelDaniel/coilasm/token"
)

// parseTypeSpecifier parses the type-specifier grammar (spec.md §4.4):
//
//	void | int{8,16,32,64,128} | uint{…} | fp{16,32,64,80,128}
//	| ptr ( <type> )
//	| vec128 ( <type> ) | vec256 ( <type> ) | vec512 ( <type> )
func (p *Parser) parseTypeSpecifier() (ir.BasicType, bool) {
	if !p.check(token.Identifier) {
		p.error("expected type name")
		return ir.TypeVoid, false
	}
	name := p.advance().Text

	if base, ok := ir.BasicTypeByName(name); ok {
		return base, true
	}

	switch name {
	case "ptr":
		return p.parseCompoundType(ir.TypePtr, "ptr")
	case "vec128":
		return p.parseCompoundType(ir.TypeVec128, "vec128")
	case "vec256":
		return p.parseCompoundType(ir.TypeVec256, "vec256")
	case "vec512":
		return p.parseCompoundType(ir.TypeVec512, "vec512")
	default:
		p.errorAt(p.previous(), "unknown type name: "+name)
		return ir.TypeVoid, false
	}
}

// parseCompoundType parses the `(` <type> `)` suffix shared by ptr and
// the vecN type constructors and ORs the inner type onto tag.
func (p *Parser) parseCompoundType(tag ir.BasicType, name string) (ir.BasicType, bool) {
	if !p.match(token.LParen) {
		p.error("expected '(' after '" + name + "'")
		return tag, false
	}
	base, ok := p.parseTypeSpecifier()
	if !ok {
		return tag, false
	}
	if !p.match(token.RParen) {
		p.error("expected ')' after " + name + " element type")
		return tag, false
	}
	return tag | base, true
}
