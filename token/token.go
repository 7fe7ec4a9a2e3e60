package token

import "github.com/LowLevelDaniel/coilasm/diag"

// Token is one lexical unit. Depending on Kind, exactly one of IntValue,
// FloatValue, RegID, or VarID carries a payload; the rest are zero.
type Token struct {
	Kind     Kind
	Text     string
	Location diag.Location

	IntValue   int64
	FloatValue float64
	RegID      byte
	VarID      byte
}

func (t Token) String() string {
	return t.Text
}
