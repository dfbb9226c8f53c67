package javapoet

import (
	"strings"

	"github.com/teranos/jpoet/errors"
)

// ParameterSpec is a method or constructor parameter.
type ParameterSpec struct {
	name        string
	paramType   TypeName
	annotations []*AnnotationSpec
	modifiers   []Modifier
	javadoc     CodeBlock
}

// Name returns the parameter name.
func (p *ParameterSpec) Name() string { return p.name }

// Type returns the declared type.
func (p *ParameterSpec) Type() TypeName { return p.paramType }

// Modifiers returns a copy of the parameter modifiers.
func (p *ParameterSpec) Modifiers() []Modifier { return append([]Modifier(nil), p.modifiers...) }

func (p *ParameterSpec) emit(w *CodeWriter, varargs bool) {
	w.emitAnnotations(p.annotations, true)
	w.emitModifiers(p.modifiers, nil)
	if arr, ok := p.paramType.(*ArrayTypeName); ok && varargs {
		arr.emitArray(w, true)
	} else {
		p.paramType.emit(w)
	}
	w.emitAndIndent(" " + p.name)
}

func (p *ParameterSpec) String() string {
	var sb strings.Builder
	w := NewCodeWriter(&sb, defaultIndent, nil, nil)
	p.emit(w, false)
	return sb.String()
}

// ParameterOf returns a parameter with no annotations.
func ParameterOf(paramType TypeName, name string, modifiers ...Modifier) (*ParameterSpec, error) {
	return NewParameterBuilder(paramType, name, modifiers...).Build()
}

// ParameterBuilder builds a ParameterSpec.
type ParameterBuilder struct {
	spec ParameterSpec
	doc  *CodeBlockBuilder
	err  error
}

// NewParameterBuilder starts a parameter.
func NewParameterBuilder(paramType TypeName, name string, modifiers ...Modifier) *ParameterBuilder {
	b := &ParameterBuilder{spec: ParameterSpec{name: name, paramType: paramType}, doc: NewCodeBlockBuilder()}
	switch {
	case paramType == nil:
		b.err = errors.NewInvalidArgumentf("type == nil")
	case paramType == TypeName(Void):
		b.err = errors.NewInvalidArgumentf("parameter %s cannot be void", name)
	case !isJavaName(name):
		b.err = errors.NewInvalidArgumentf("not a valid name: %s", name)
	}
	return b.AddModifiers(modifiers...)
}

// AddJavadoc appends to the @param text of the enclosing method's javadoc.
func (b *ParameterBuilder) AddJavadoc(format string, args ...any) *ParameterBuilder {
	b.doc.Add(format, args...)
	return b
}

// AddAnnotation annotates the parameter.
func (b *ParameterBuilder) AddAnnotation(a *AnnotationSpec) *ParameterBuilder {
	b.spec.annotations = append(b.spec.annotations, a)
	return b
}

// AddModifiers adds modifiers; only final is legal on a parameter.
func (b *ParameterBuilder) AddModifiers(modifiers ...Modifier) *ParameterBuilder {
	for _, m := range modifiers {
		if m != Final && b.err == nil {
			b.err = errors.NewInvalidArgumentf("unexpected parameter modifier: %s", m)
		}
	}
	b.spec.modifiers = append(b.spec.modifiers, modifiers...)
	return b
}

// Build returns the parameter or the first recorded error.
func (b *ParameterBuilder) Build() (*ParameterSpec, error) {
	if b.err != nil {
		return nil, b.err
	}
	doc, err := b.doc.Build()
	if err != nil {
		return nil, err
	}
	spec := b.spec
	spec.annotations = append([]*AnnotationSpec(nil), b.spec.annotations...)
	spec.modifiers = append([]Modifier(nil), b.spec.modifiers...)
	spec.javadoc = doc
	return &spec, nil
}
