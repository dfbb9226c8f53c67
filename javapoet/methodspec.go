package javapoet

import (
	"strings"

	"github.com/teranos/jpoet/errors"
)

const constructorName = "<init>"

// MethodSpec is a method or constructor declaration.
type MethodSpec struct {
	name          string
	javadoc       CodeBlock
	annotations   []*AnnotationSpec
	modifiers     []Modifier
	typeVariables []*TypeVariableName
	returnType    TypeName
	parameters    []*ParameterSpec
	varargs       bool
	exceptions    []TypeName
	code          CodeBlock
	defaultValue  CodeBlock
}

// Name returns the method name, or "<init>" for constructors.
func (m *MethodSpec) Name() string { return m.name }

// IsConstructor reports whether m declares a constructor.
func (m *MethodSpec) IsConstructor() bool { return m.name == constructorName }

// HasModifier reports whether the method was declared with mod.
func (m *MethodSpec) HasModifier(mod Modifier) bool { return containsModifier(m.modifiers, mod) }

// Parameters returns a copy of the parameter list.
func (m *MethodSpec) Parameters() []*ParameterSpec {
	return append([]*ParameterSpec(nil), m.parameters...)
}

// ReturnType returns the return type; nil for constructors.
func (m *MethodSpec) ReturnType() TypeName { return m.returnType }

// Code returns the method body.
func (m *MethodSpec) Code() CodeBlock { return m.code }

func (m *MethodSpec) emit(w *CodeWriter, enclosingName string, implicit []Modifier) {
	w.emitJavadoc(m.javadocWithParameters())
	w.emitAnnotations(m.annotations, false)
	w.emitModifiers(m.modifiers, implicit)

	if len(m.typeVariables) > 0 {
		w.emitTypeVariables(m.typeVariables)
		w.emitAndIndent(" ")
	}

	if m.IsConstructor() {
		w.emitf("$L($Z", enclosingName)
	} else {
		w.emitf("$T $L($Z", m.returnType, m.name)
	}

	for i, p := range m.parameters {
		if i > 0 {
			w.emitf(",$W")
		}
		p.emit(w, m.varargs && i == len(m.parameters)-1)
	}
	w.emitAndIndent(")")

	if !m.defaultValue.IsEmpty() {
		w.emitAndIndent(" default ")
		w.emitBlock(m.defaultValue, false)
	}

	if len(m.exceptions) > 0 {
		w.emitf("$Wthrows")
		for i, e := range m.exceptions {
			if i > 0 {
				w.emitAndIndent(",")
			}
			w.emitf("$W$T", e)
		}
	}

	switch {
	case m.HasModifier(Abstract):
		w.emitAndIndent(";\n")
	case m.HasModifier(Native):
		w.emitBlock(m.code, false)
		w.emitAndIndent(";\n")
	default:
		w.emitAndIndent(" {\n")
		w.indentBy(1)
		w.emitBlock(m.code, true)
		w.unindentBy(1)
		w.emitAndIndent("}\n")
	}
	w.popTypeVariables(m.typeVariables)
}

// javadocWithParameters appends an @param line for each documented parameter.
func (m *MethodSpec) javadocWithParameters() CodeBlock {
	b := m.javadoc.ToBuilder()
	tagNewline := true
	for _, p := range m.parameters {
		if p.javadoc.IsEmpty() {
			continue
		}
		if tagNewline && !m.javadoc.IsEmpty() {
			b.Add("\n")
		}
		tagNewline = false
		b.Add("@param $L $L", p.name, p.javadoc)
	}
	block, _ := b.Build()
	return block
}

func (m *MethodSpec) String() string {
	var sb strings.Builder
	w := NewCodeWriter(&sb, defaultIndent, nil, nil)
	m.emit(w, "Constructor", nil)
	return sb.String()
}

// MethodBuilder builds a MethodSpec.
type MethodBuilder struct {
	name          string
	doc           *CodeBlockBuilder
	annotations   []*AnnotationSpec
	modifiers     []Modifier
	typeVariables []*TypeVariableName
	returnType    TypeName
	parameters    []*ParameterSpec
	varargs       bool
	exceptions    []TypeName
	code          *CodeBlockBuilder
	defaultValue  *CodeBlock
	err           error
}

// NewMethodBuilder starts a method returning void.
func NewMethodBuilder(name string) *MethodBuilder {
	b := &MethodBuilder{name: name, returnType: Void, doc: NewCodeBlockBuilder(), code: NewCodeBlockBuilder()}
	if !isJavaName(name) {
		b.err = errors.NewInvalidArgumentf("not a valid name: %s", name)
	}
	return b
}

// NewConstructorBuilder starts a constructor.
func NewConstructorBuilder() *MethodBuilder {
	return &MethodBuilder{name: constructorName, doc: NewCodeBlockBuilder(), code: NewCodeBlockBuilder()}
}

func (b *MethodBuilder) fail(err error) *MethodBuilder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// AddJavadoc appends to the method's javadoc.
func (b *MethodBuilder) AddJavadoc(format string, args ...any) *MethodBuilder {
	b.doc.Add(format, args...)
	return b
}

// AddAnnotation annotates the method.
func (b *MethodBuilder) AddAnnotation(a *AnnotationSpec) *MethodBuilder {
	b.annotations = append(b.annotations, a)
	return b
}

// AddModifiers adds declaration modifiers.
func (b *MethodBuilder) AddModifiers(modifiers ...Modifier) *MethodBuilder {
	b.modifiers = append(b.modifiers, modifiers...)
	return b
}

// AddTypeVariable declares a method type parameter.
func (b *MethodBuilder) AddTypeVariable(v *TypeVariableName) *MethodBuilder {
	b.typeVariables = append(b.typeVariables, v)
	return b
}

// Returns sets the return type.
func (b *MethodBuilder) Returns(t TypeName) *MethodBuilder {
	if b.name == constructorName {
		return b.fail(errors.NewInvalidArgumentf("constructor cannot have return type"))
	}
	if t == nil {
		return b.fail(errors.NewInvalidArgumentf("return type == nil"))
	}
	b.returnType = t
	return b
}

// AddParameter appends a parameter.
func (b *MethodBuilder) AddParameter(p *ParameterSpec) *MethodBuilder {
	if p == nil {
		return b.fail(errors.NewInvalidArgumentf("parameter == nil"))
	}
	b.parameters = append(b.parameters, p)
	return b
}

// AddParameterOf appends a parameter built from a type and name.
func (b *MethodBuilder) AddParameterOf(t TypeName, name string, modifiers ...Modifier) *MethodBuilder {
	p, err := ParameterOf(t, name, modifiers...)
	if err != nil {
		return b.fail(err)
	}
	return b.AddParameter(p)
}

// Varargs marks the last parameter as variable arity.
func (b *MethodBuilder) Varargs(varargs bool) *MethodBuilder {
	b.varargs = varargs
	return b
}

// AddException declares a thrown type.
func (b *MethodBuilder) AddException(t TypeName) *MethodBuilder {
	b.exceptions = append(b.exceptions, t)
	return b
}

// DefaultValue sets the default of an annotation type member.
func (b *MethodBuilder) DefaultValue(format string, args ...any) *MethodBuilder {
	block, err := CodeBlockOf(format, args...)
	if err != nil {
		return b.fail(err)
	}
	if b.defaultValue != nil {
		return b.fail(errors.NewInvalidArgumentf("defaultValue was already set"))
	}
	b.defaultValue = &block
	return b
}

// AddCode appends raw code to the body.
func (b *MethodBuilder) AddCode(format string, args ...any) *MethodBuilder {
	b.code.Add(format, args...)
	return b
}

// AddCodeBlock appends a prepared block to the body.
func (b *MethodBuilder) AddCodeBlock(block CodeBlock) *MethodBuilder {
	b.code.AddBlock(block)
	return b
}

// AddComment appends a // comment line to the body.
func (b *MethodBuilder) AddComment(format string, args ...any) *MethodBuilder {
	b.code.Add("// "+format+"\n", args...)
	return b
}

// AddStatement appends a statement terminated by a semicolon.
func (b *MethodBuilder) AddStatement(format string, args ...any) *MethodBuilder {
	b.code.AddStatement(format, args...)
	return b
}

// BeginControlFlow opens a block like "for (int i = 0; i < n; i++)".
func (b *MethodBuilder) BeginControlFlow(controlFlow string, args ...any) *MethodBuilder {
	b.code.BeginControlFlow(controlFlow, args...)
	return b
}

// NextControlFlow continues a block like "else if (x)".
func (b *MethodBuilder) NextControlFlow(controlFlow string, args ...any) *MethodBuilder {
	b.code.NextControlFlow(controlFlow, args...)
	return b
}

// EndControlFlow closes the current block.
func (b *MethodBuilder) EndControlFlow() *MethodBuilder {
	b.code.EndControlFlow()
	return b
}

// Build returns the method or the first recorded error.
func (b *MethodBuilder) Build() (*MethodSpec, error) {
	if b.err != nil {
		return nil, b.err
	}
	doc, err := b.doc.Build()
	if err != nil {
		return nil, err
	}
	code, err := b.code.Build()
	if err != nil {
		return nil, err
	}
	if containsModifier(b.modifiers, Abstract) && !code.IsEmpty() {
		return nil, errors.NewInvalidArgumentf("abstract method %s cannot have code", b.name)
	}
	if b.varargs {
		if len(b.parameters) == 0 {
			return nil, errors.NewInvalidArgumentf("last parameter of varargs method %s must be an array", b.name)
		}
		if _, ok := b.parameters[len(b.parameters)-1].paramType.(*ArrayTypeName); !ok {
			return nil, errors.NewInvalidArgumentf("last parameter of varargs method %s must be an array", b.name)
		}
	}

	spec := &MethodSpec{
		name:          b.name,
		javadoc:       doc,
		annotations:   append([]*AnnotationSpec(nil), b.annotations...),
		modifiers:     append([]Modifier(nil), b.modifiers...),
		typeVariables: append([]*TypeVariableName(nil), b.typeVariables...),
		returnType:    b.returnType,
		parameters:    append([]*ParameterSpec(nil), b.parameters...),
		varargs:       b.varargs,
		exceptions:    append([]TypeName(nil), b.exceptions...),
		code:          code,
	}
	if b.defaultValue != nil {
		spec.defaultValue = *b.defaultValue
	}
	return spec, nil
}
