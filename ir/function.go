package ir

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/LowLevelDaniel/coilasm/instruction"
)

// labelRef is an unresolved label reference recorded against one
// instruction in a Function's body.
type labelRef struct {
	instructionIndex int
	labelName        string
}

// Function is one assembled function body: its instruction stream,
// local label table, pending label references, and per-variable type
// and initial-value tables.
type Function struct {
	Name         string
	Flags        SymbolFlags
	Section      string
	Instructions []instruction.Instruction

	labels            map[string]int
	labelRefs         []labelRef
	variableTypes     map[byte]BasicType
	variableInitValue map[byte][]byte
}

// NewFunction constructs an empty Function.
func NewFunction(name string, flags SymbolFlags) *Function {
	return &Function{
		Name:              name,
		Flags:             flags,
		labels:            make(map[string]int),
		variableTypes:     make(map[byte]BasicType),
		variableInitValue: make(map[byte][]byte),
	}
}

// AddInstruction appends inst and returns its index within Instructions.
func (f *Function) AddInstruction(inst instruction.Instruction) int {
	f.Instructions = append(f.Instructions, inst)
	return len(f.Instructions) - 1
}

// AddLabel declares name at instructionIndex. Reports false if the
// label is already declared in this Function.
func (f *Function) AddLabel(name string, instructionIndex int) bool {
	if _, exists := f.labels[name]; exists {
		return false
	}
	f.labels[name] = instructionIndex
	return true
}

// Label looks up a local label by name.
func (f *Function) Label(name string) (int, bool) {
	idx, ok := f.labels[name]
	return idx, ok
}

// AddLabelRef records an unresolved reference to labelName from the
// instruction at instructionIndex.
func (f *Function) AddLabelRef(instructionIndex int, labelName string) {
	f.labelRefs = append(f.labelRefs, labelRef{instructionIndex, labelName})
}

// ResolveLabels walks every recorded label reference: a local label in
// this Function takes precedence, otherwise the reference is sought
// among the supplied symbols that are global or name a function (with
// overrides applied first). It
// returns an error naming the first unresolved reference, if any —
// spec.md §4.4 treats this as a single recoverable error that fails the
// module build, so callers report it and stop rather than collecting
// every miss.
func (f *Function) ResolveLabels(symbols []Symbol, overrides map[string]string) error {
	globals := lo.SliceToMap(
		lo.Filter(symbols, func(s Symbol, _ int) bool { return s.IsGlobal() || s.IsFunction() }),
		func(s Symbol) (string, uint64) { return s.Name, s.Value },
	)
	for symName, replName := range overrides {
		if v, ok := globals[replName]; ok {
			globals[symName] = v
		}
	}

	for _, ref := range f.labelRefs {
		if _, ok := f.labels[ref.labelName]; ok {
			continue
		}
		if _, ok := globals[ref.labelName]; ok {
			continue
		}
		return errors.Errorf("unresolved label reference: %s", ref.labelName)
	}
	return nil
}

// SetVariableType records the declared type of local variable varId.
func (f *Function) SetVariableType(varID byte, t BasicType) {
	f.variableTypes[varID] = t
}

// VariableType returns the declared type of varId, or TypeVoid if unset.
func (f *Function) VariableType(varID byte) BasicType {
	return f.variableTypes[varID]
}

// SetVariableInitValue records the initial value bytes for varId.
func (f *Function) SetVariableInitValue(varID byte, value []byte) {
	f.variableInitValue[varID] = value
}

// VariableInitValue returns the initial value bytes for varId, or nil.
func (f *Function) VariableInitValue(varID byte) []byte {
	return f.variableInitValue[varID]
}
