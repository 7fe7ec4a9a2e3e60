package ir

// Module is the root of the in-memory representation the parser
// builds: a set of Functions and AbiDefinitions, free-form directive
// key/value pairs, and the directive-driven "current section" state
// instruction parsing consults.
type Module struct {
	Name string

	functions   []*Function
	functionIdx map[string]int

	abiDefinitions map[string]AbiDefinition
	directives     map[string]string
	labels         map[string]ModuleLabel
	labelOrder     []string

	sections   []*Section
	sectionIdx map[string]int

	CurrentSection      string
	CurrentSectionType  SectionType
	CurrentSectionFlags SectionFlags
	CurrentTargetID     uint32
}

// NewModule constructs an empty Module with the default "text" section
// selected.
func NewModule(name string) *Module {
	m := &Module{
		Name:           name,
		functionIdx:    make(map[string]int),
		abiDefinitions: make(map[string]AbiDefinition),
		directives:     make(map[string]string),
		labels:         make(map[string]ModuleLabel),
		sectionIdx:     make(map[string]int),
	}
	m.SetCurrentSection("text", SectionCode, SectionFlagAlloc)
	return m
}

// AddFunction registers fn. Reports false if a function by that name
// already exists.
func (m *Module) AddFunction(fn *Function) bool {
	if _, exists := m.functionIdx[fn.Name]; exists {
		return false
	}
	m.functionIdx[fn.Name] = len(m.functions)
	m.functions = append(m.functions, fn)
	return true
}

// FunctionByName returns the function named name, if any.
func (m *Module) FunctionByName(name string) (*Function, bool) {
	idx, ok := m.functionIdx[name]
	if !ok {
		return nil, false
	}
	return m.functions[idx], true
}

// Functions returns every function in declaration order.
func (m *Module) Functions() []*Function {
	return m.functions
}

// AddAbiDefinition registers def under name. Reports false if an ABI by
// that name already exists.
func (m *Module) AddAbiDefinition(name string, def AbiDefinition) bool {
	if _, exists := m.abiDefinitions[name]; exists {
		return false
	}
	m.abiDefinitions[name] = def
	return true
}

// AbiDefinition returns the ABI definition named name, if any.
func (m *Module) AbiDefinition(name string) (AbiDefinition, bool) {
	def, ok := m.abiDefinitions[name]
	return def, ok
}

// AddDirective records a free-form directive key/value pair.
func (m *Module) AddDirective(name, value string) {
	m.directives[name] = value
}

// Directive returns the value recorded for name, or "".
func (m *Module) Directive(name string) string {
	return m.directives[name]
}

// SetCurrentSection updates the directive-state-machine's active
// section, consulted by subsequent instruction statements, and
// registers the section (in first-declaration order, per spec.md §5's
// ordering guarantee) if this is the first time name was selected. A
// re-selection (e.g. an explicit `DIR SECT` naming a section an earlier
// implicit default already created) updates the registered Section's
// Type/Flags in place, so the directive that actually names a type and
// flags always wins over whatever created the entry first.
func (m *Module) SetCurrentSection(name string, typ SectionType, flags SectionFlags) {
	m.CurrentSection = name
	m.CurrentSectionType = typ
	m.CurrentSectionFlags = flags
	if idx, exists := m.sectionIdx[name]; !exists {
		m.sectionIdx[name] = len(m.sections)
		m.sections = append(m.sections, NewSection(name, typ, flags, m.CurrentTargetID, 0))
	} else {
		m.sections[idx].Type = typ
		m.sections[idx].Flags = flags
	}
}

// Section returns the registered Section named name, if any.
func (m *Module) Section(name string) (*Section, bool) {
	idx, ok := m.sectionIdx[name]
	if !ok {
		return nil, false
	}
	return m.sections[idx], true
}

// CurrentSectionObj returns the Section object backing CurrentSection.
func (m *Module) CurrentSectionObj() *Section {
	s, _ := m.Section(m.CurrentSection)
	return s
}

// Sections returns every registered section in first-declaration order.
func (m *Module) Sections() []*Section {
	return m.sections
}

// ModuleLabel records where a module-scoped label (`DIR LABEL` outside
// any function body) sits: its name, the section it was declared in,
// and that section's data length at the moment of declaration.
type ModuleLabel struct {
	Name    string
	Section string
	Offset  uint64
}

// AddLabel declares a label at module scope, positioned at the current
// section's present data length. Reports false if already declared.
func (m *Module) AddLabel(name string) bool {
	if _, exists := m.labels[name]; exists {
		return false
	}
	m.labels[name] = ModuleLabel{Name: name, Section: m.CurrentSection, Offset: m.CurrentSectionObj().Size()}
	m.labelOrder = append(m.labelOrder, name)
	return true
}

// HasLabel reports whether name was declared at module scope.
func (m *Module) HasLabel(name string) bool {
	_, ok := m.labels[name]
	return ok
}

// ModuleLabelPosition returns the recorded section/offset for a
// module-scoped label, if any.
func (m *Module) ModuleLabelPosition(name string) (ModuleLabel, bool) {
	l, ok := m.labels[name]
	return l, ok
}

// ModuleLabels returns every module-scoped label in declaration order,
// so callers that build deterministic output (e.g. the cof package's
// symbol table) don't need to impose their own ordering over a map.
func (m *Module) ModuleLabels() []ModuleLabel {
	out := make([]ModuleLabel, len(m.labelOrder))
	for i, name := range m.labelOrder {
		out[i] = m.labels[name]
	}
	return out
}
