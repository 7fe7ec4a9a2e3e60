// Package token defines the lexical tokens of COIL assembly and the
// lexer that produces them.
package token

// Kind discriminates a Token's syntactic category.
type Kind int

const (
	EOF Kind = iota
	Identifier
	String
	Integer
	Float
	Register
	Variable
	Comma
	Colon
	Semicolon
	Equals
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Plus
	Minus
	Star
	Slash
	Percent
	Dot
	Arrow
	Instruction
	Directive
	Label
	Comment
	Error
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Identifier:
		return "Identifier"
	case String:
		return "String"
	case Integer:
		return "Integer"
	case Float:
		return "Float"
	case Register:
		return "Register"
	case Variable:
		return "Variable"
	case Comma:
		return "Comma"
	case Colon:
		return "Colon"
	case Semicolon:
		return "Semicolon"
	case Equals:
		return "Equals"
	case LParen:
		return "LParen"
	case RParen:
		return "RParen"
	case LBrace:
		return "LBrace"
	case RBrace:
		return "RBrace"
	case LBracket:
		return "LBracket"
	case RBracket:
		return "RBracket"
	case Plus:
		return "Plus"
	case Minus:
		return "Minus"
	case Star:
		return "Star"
	case Slash:
		return "Slash"
	case Percent:
		return "Percent"
	case Dot:
		return "Dot"
	case Arrow:
		return "Arrow"
	case Instruction:
		return "Instruction"
	case Directive:
		return "Directive"
	case Label:
		return "Label"
	case Comment:
		return "Comment"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}
