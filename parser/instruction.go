package parser

import (
	"encoding/binary"

	"github.com/LowLevelDaniel/coilasm/instruction"
	"github.com/LowLevelDaniel/coilasm/operand"
	"github.com/LowLevelDaniel/coilasm/token"
)

// parseInstructionStatement handles one `<CATEGORY> <OPERATION>
// <op1>, <op2>, …` statement and appends the built Instruction to the
// enclosing function.
func (p *Parser) parseInstructionStatement() {
	catTok := p.advance() // the category mnemonic, e.g. MEM
	cat, ok := instruction.CategoryByName(catTok.Text)
	if !ok {
		p.errorAt(catTok, "unknown instruction category: "+catTok.Text)
		return
	}

	if !p.check(token.Identifier) {
		p.errorAt(p.peek(), "expected operation mnemonic")
		return
	}
	opTok := p.advance()
	op, ok := instruction.OperationByName(cat, opTok.Text)
	if !ok {
		p.errorAt(opTok, "unknown operation "+opTok.Text+" in category "+catTok.Text)
		return
	}

	inst := instruction.New(cat, op)

	if cat == instruction.CatVAR && op == instruction.VAR_DECL {
		// VAR DECL's tail is a type specifier (and optional initial
		// value), not the general operand grammar: handle it on its
		// own rather than through the comma-separated operand loop.
		if !p.statementEnded() {
			if !p.parseInstructionOperand(&inst) {
				return
			}
			p.recordVariableDecl(&inst)
		}
		p.currentFunc.AddInstruction(inst)
		return
	}

	if !p.statementEnded() {
		if !p.parseInstructionOperand(&inst) {
			return
		}
		for p.match(token.Comma) {
			if !p.parseInstructionOperand(&inst) {
				return
			}
		}
	}

	p.currentFunc.AddInstruction(inst)
}

// statementEnded reports whether the current position is at the start
// of the next statement (another instruction or directive) or at
// EOF — the token stream carries no explicit statement terminator.
func (p *Parser) statementEnded() bool {
	return p.isAtEnd() || p.check(token.Instruction) || p.checkKeyword("DIR")
}

// parseInstructionOperand parses one operand and appends it to inst,
// recording a label reference against the enclosing function when the
// operand is a bare identifier. Returns false (having already reported
// a diagnostic) on failure.
func (p *Parser) parseInstructionOperand(inst *instruction.Instruction) bool {
	o, ok := p.parseOperand()
	if !ok {
		return false
	}
	inst.AddOperand(o)
	return true
}

// parseOperand dispatches on the leading token, per spec.md §4.4:
// Register, Variable, Integer/Float/String → Immediate, `[` → Memory.
// A bare Identifier is a label reference, resolved in a pass over the
// enclosing Function's instruction list (spec.md's Open Questions
// resolves this as an Immediate-Symbol operand left for the linker).
func (p *Parser) parseOperand() (operand.Operand, bool) {
	switch {
	case p.check(token.Register):
		return p.parseRegisterOperand(), true
	case p.check(token.Variable):
		return p.parseVariableOperand(), true
	case p.check(token.Integer), p.check(token.Float), p.check(token.String):
		return p.parseImmediateOperand(), true
	case p.check(token.LBracket):
		return p.parseMemoryOperand()
	case p.check(token.Identifier):
		tok := p.advance()
		if p.currentFunc != nil {
			p.currentFunc.AddLabelRef(len(p.currentFunc.Instructions), tok.Text)
		}
		return operand.NewImmediateSymbol(tok.Text), true
	default:
		p.error("expected operand")
		return operand.Operand{}, false
	}
}

func (p *Parser) parseRegisterOperand() operand.Operand {
	tok := p.advance()
	var regType byte
	switch {
	case tok.RegID <= 0x0F:
		regType = operand.RegGP
	case tok.RegID <= 0x1F:
		regType = operand.RegFP
	case tok.RegID <= 0x2F:
		regType = operand.RegVec
	default:
		regType = operand.RegSpecial
	}
	return operand.NewRegister(regType, tok.RegID, 0)
}

func (p *Parser) parseVariableOperand() operand.Operand {
	tok := p.advance()
	return operand.NewVariable(operand.VarDirect, tok.VarID)
}

func (p *Parser) parseImmediateOperand() operand.Operand {
	tok := p.advance()
	switch tok.Kind {
	case token.Integer:
		return smallestIntImmediate(tok.IntValue)
	case token.Float:
		return operand.NewImmediateFloat64(tok.FloatValue)
	default: // token.String
		return operand.NewImmediateSymbol(tok.Text)
	}
}

// smallestIntImmediate picks the narrowest Immediate sub-kind that
// holds v, mirroring how a hand-written assembler keeps encodings
// compact when the source gives no explicit width.
func smallestIntImmediate(v int64) operand.Operand {
	switch {
	case v >= -128 && v <= 127:
		return operand.NewImmediateInt8(int8(v))
	case v >= -32768 && v <= 32767:
		return operand.NewImmediateInt16(int16(v))
	case v >= -2147483648 && v <= 2147483647:
		return operand.NewImmediateInt32(int32(v))
	default:
		return operand.NewImmediateInt64(v)
	}
}

// parseMemoryOperand parses the bracketed memory grammar. Already
// positioned at the opening `[`.
//
//	[ Register ]
//	[ Register + Register ]
//	[ Register + Register * Integer ]
//	[ Register + Integer ]
//	[ ++Register ] | [ --Register ] | [ Register++ ] | [ Register-- ]
func (p *Parser) parseMemoryOperand() (operand.Operand, bool) {
	p.advance() // consume '['

	if p.match(token.Plus) {
		if !p.match(token.Plus) {
			p.error("expected '++' before register")
			return operand.Operand{}, false
		}
		if !p.check(token.Register) {
			p.error("expected register after '++'")
			return operand.Operand{}, false
		}
		reg := p.advance().RegID
		if !p.match(token.RBracket) {
			p.error("expected ']' after memory operand")
			return operand.Operand{}, false
		}
		return operand.NewMemoryRegPreInc(reg), true
	}
	if p.match(token.Minus) {
		if !p.match(token.Minus) {
			p.error("expected '--' before register")
			return operand.Operand{}, false
		}
		if !p.check(token.Register) {
			p.error("expected register after '--'")
			return operand.Operand{}, false
		}
		reg := p.advance().RegID
		if !p.match(token.RBracket) {
			p.error("expected ']' after memory operand")
			return operand.Operand{}, false
		}
		return operand.NewMemoryRegPreDec(reg), true
	}

	if p.check(token.Integer) {
		addr := p.advance().IntValue
		if !p.match(token.RBracket) {
			p.error("expected ']' after memory operand")
			return operand.Operand{}, false
		}
		return operand.NewMemoryDirect(uint32(addr)), true
	}

	if !p.check(token.Register) {
		p.error("expected register in memory operand")
		return operand.Operand{}, false
	}
	reg := p.advance().RegID

	if p.match(token.RBracket) {
		return operand.NewMemoryReg(reg), true
	}

	// [reg++] / [reg--]: a single Plus/Minus immediately followed by
	// another identical one, with no register or integer between them.
	if p.check(token.Plus) && p.peekAt(1).Kind == token.Plus {
		p.advance()
		p.advance()
		if !p.match(token.RBracket) {
			p.error("expected ']' after memory operand")
			return operand.Operand{}, false
		}
		return operand.NewMemoryRegPostInc(reg), true
	}
	if p.check(token.Minus) && p.peekAt(1).Kind == token.Minus {
		p.advance()
		p.advance()
		if !p.match(token.RBracket) {
			p.error("expected ']' after memory operand")
			return operand.Operand{}, false
		}
		return operand.NewMemoryRegPostDec(reg), true
	}

	if !p.match(token.Plus) {
		p.error("expected ']', '+', or '++'/'--' after register in memory operand")
		return operand.Operand{}, false
	}

	if p.check(token.Register) {
		reg2 := p.advance().RegID
		if p.match(token.Star) {
			if !p.check(token.Integer) {
				p.error("expected integer scale factor")
				return operand.Operand{}, false
			}
			scale := byte(p.advance().IntValue)
			if !p.match(token.RBracket) {
				p.error("expected ']' after memory operand")
				return operand.Operand{}, false
			}
			return operand.NewMemoryRegRegScale(reg, reg2, scale), true
		}
		if !p.match(token.RBracket) {
			p.error("expected ']' after memory operand")
			return operand.Operand{}, false
		}
		return operand.NewMemoryRegReg(reg, reg2), true
	}

	if p.check(token.Integer) {
		disp := int32(p.advance().IntValue)
		if !p.match(token.RBracket) {
			p.error("expected ']' after memory operand")
			return operand.Operand{}, false
		}
		return operand.NewMemoryRegDisp(reg, disp), true
	}

	p.error("expected register or integer after '+' in memory operand")
	return operand.Operand{}, false
}

// recordVariableDecl handles `VAR DECL $id, <type>[, <init-literal>]`:
// the type specifier and optional initial value aren't part of the
// general operand grammar, so they're parsed here and recorded against
// the enclosing Function rather than as Instruction operands.
func (p *Parser) recordVariableDecl(inst *instruction.Instruction) {
	if len(inst.Operands) == 0 || inst.Operands[0].Class != operand.ClassVariable {
		p.error("VAR DECL requires a variable operand")
		return
	}
	varID := inst.Operands[0].VarID

	if !p.match(token.Comma) {
		p.error("expected ',' before type specifier in VAR DECL")
		return
	}
	typ, ok := p.parseTypeSpecifier()
	if !ok {
		return
	}
	p.currentFunc.SetVariableType(varID, typ)
	typeBytes := make([]byte, 2)
	binary.LittleEndian.PutUint16(typeBytes, uint16(typ))
	inst.ExtendedData = append(inst.ExtendedData, typeBytes...)

	if p.match(token.Comma) {
		initTok := p.peek()
		switch initTok.Kind {
		case token.Integer, token.Float, token.String:
			initOperand := p.parseImmediateOperand()
			p.currentFunc.SetVariableInitValue(varID, initOperand.Value)
		default:
			p.error("expected literal initial value in VAR DECL")
		}
	}
}
