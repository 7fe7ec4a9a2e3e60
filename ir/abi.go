package ir

// AbiDefinition names the register conventions a function body can
// declare itself bound by (spec.md §4.4's `DIR ABI <name> { ... }`).
type AbiDefinition struct {
	Name          string
	ArgRegs       []byte
	RetRegs       []byte
	PreservedRegs []byte
	VolatileRegs  []byte
	StackAlign    uint32
}

// NewAbiDefinition returns an AbiDefinition with the default stack
// alignment of 16.
func NewAbiDefinition(name string) AbiDefinition {
	return AbiDefinition{Name: name, StackAlign: 16}
}
