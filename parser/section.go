package parser

import (
	"github.com/LowLevelDaniel/coilasm/ir"
	"github.com/LowLevelDaniel/coilasm/token"
)

// sectionNameTypes overrides the default Code section type based on a
// recognized section name (spec.md §4.4).
var sectionNameTypes = map[string]ir.SectionType{
	"text": ir.SectionCode, "code": ir.SectionCode,
	"data": ir.SectionData, "rodata": ir.SectionReadonly, "bss": ir.SectionBss,
}

// parseSect handles `SECT <name> <flag>*`.
func (p *Parser) parseSect() {
	if !p.check(token.Identifier) {
		p.error("expected section name")
		return
	}
	name := p.advance().Text

	flags := ir.SectionFlagAlloc
	for p.check(token.Identifier) {
		flag := p.advance().Text
		switch flag {
		case "READ":
			// every section is readable; no bit for it.
		case "WRITE":
			flags |= ir.SectionFlagWrite
		case "EXEC":
			flags |= ir.SectionFlagExec
		case "ALLOC":
			// already set by default.
		case "NOALLOC":
			flags &^= ir.SectionFlagAlloc
		case "TLS":
			flags |= ir.SectionFlagTLS
		default:
			p.errorAt(p.previous(), "unknown section flag: "+flag)
		}
	}

	typ := ir.SectionCode
	if t, ok := sectionNameTypes[name]; ok {
		typ = t
	}
	p.module.SetCurrentSection(name, typ, flags)
}

// parseLabel handles a bare `LABEL <name>` outside any function body:
// it declares a module-scoped label positioned within the current
// section. Labels declared inside a function body go through
// parseNestedLabel instead, since they resolve against the enclosing
// Function's instruction stream.
func (p *Parser) parseLabel() {
	if !p.check(token.Identifier) {
		p.error("expected label name")
		return
	}
	name := p.advance().Text
	if !p.module.AddLabel(name) {
		p.semanticErrorAt(p.previous(), "duplicate label: "+name)
	}
}
