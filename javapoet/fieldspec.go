package javapoet

import (
	"strings"

	"github.com/teranos/jpoet/errors"
)

// FieldSpec is a field declaration.
type FieldSpec struct {
	fieldType   TypeName
	name        string
	javadoc     CodeBlock
	annotations []*AnnotationSpec
	modifiers   []Modifier
	initializer CodeBlock
}

// Name returns the field name.
func (f *FieldSpec) Name() string { return f.name }

// Type returns the declared type.
func (f *FieldSpec) Type() TypeName { return f.fieldType }

// HasModifier reports whether the field was declared with m.
func (f *FieldSpec) HasModifier(m Modifier) bool { return containsModifier(f.modifiers, m) }

// Initializer returns the initializer expression, empty when there is none.
func (f *FieldSpec) Initializer() CodeBlock { return f.initializer }

func (f *FieldSpec) emit(w *CodeWriter, implicit []Modifier) {
	w.emitJavadoc(f.javadoc)
	w.emitAnnotations(f.annotations, false)
	w.emitModifiers(f.modifiers, implicit)
	w.emitf("$T $L", f.fieldType, f.name)
	if !f.initializer.IsEmpty() {
		w.emitAndIndent(" = ")
		w.emitBlock(f.initializer, false)
	}
	w.emitAndIndent(";\n")
}

func (f *FieldSpec) String() string {
	var sb strings.Builder
	w := NewCodeWriter(&sb, defaultIndent, nil, nil)
	f.emit(w, nil)
	return sb.String()
}

// FieldOf returns a field with no javadoc, annotations or initializer.
func FieldOf(fieldType TypeName, name string, modifiers ...Modifier) (*FieldSpec, error) {
	return NewFieldBuilder(fieldType, name, modifiers...).Build()
}

// FieldBuilder builds a FieldSpec.
type FieldBuilder struct {
	spec        FieldSpec
	doc         *CodeBlockBuilder
	initializer *CodeBlockBuilder
	err         error
}

// NewFieldBuilder starts a field.
func NewFieldBuilder(fieldType TypeName, name string, modifiers ...Modifier) *FieldBuilder {
	b := &FieldBuilder{
		spec: FieldSpec{fieldType: fieldType, name: name},
		doc:  NewCodeBlockBuilder(),
	}
	switch {
	case fieldType == nil:
		b.err = errors.NewInvalidArgumentf("type == nil")
	case !isJavaName(name):
		b.err = errors.NewInvalidArgumentf("not a valid name: %s", name)
	}
	b.spec.modifiers = append(b.spec.modifiers, modifiers...)
	return b
}

// AddJavadoc appends to the field's javadoc.
func (b *FieldBuilder) AddJavadoc(format string, args ...any) *FieldBuilder {
	b.doc.Add(format, args...)
	return b
}

// AddAnnotation annotates the field.
func (b *FieldBuilder) AddAnnotation(a *AnnotationSpec) *FieldBuilder {
	b.spec.annotations = append(b.spec.annotations, a)
	return b
}

// AddModifiers adds declaration modifiers.
func (b *FieldBuilder) AddModifiers(modifiers ...Modifier) *FieldBuilder {
	b.spec.modifiers = append(b.spec.modifiers, modifiers...)
	return b
}

// Initializer sets the initializer expression. It may be set once.
func (b *FieldBuilder) Initializer(format string, args ...any) *FieldBuilder {
	if b.err != nil {
		return b
	}
	if b.initializer != nil {
		b.err = errors.NewInvalidArgumentf("initializer was already set")
		return b
	}
	b.initializer = NewCodeBlockBuilder().Add(format, args...)
	return b
}

// Build returns the field or the first recorded error.
func (b *FieldBuilder) Build() (*FieldSpec, error) {
	if b.err != nil {
		return nil, b.err
	}
	doc, err := b.doc.Build()
	if err != nil {
		return nil, err
	}
	spec := b.spec
	spec.javadoc = doc
	spec.annotations = append([]*AnnotationSpec(nil), b.spec.annotations...)
	spec.modifiers = append([]Modifier(nil), b.spec.modifiers...)
	if b.initializer != nil {
		if spec.initializer, err = b.initializer.Build(); err != nil {
			return nil, err
		}
	}
	return &spec, nil
}
