package javapoet

import (
	"strings"

	"github.com/teranos/jpoet/errors"
)

// AnnotationSpec is an annotation on a declaration or type use.
type AnnotationSpec struct {
	annotationType TypeName
	memberNames    []string
	members        map[string][]CodeBlock
}

// Type returns the annotation's type.
func (a *AnnotationSpec) Type() TypeName { return a.annotationType }

// Members returns the member values in declaration order.
func (a *AnnotationSpec) Members() map[string][]CodeBlock {
	out := make(map[string][]CodeBlock, len(a.members))
	for name, values := range a.members {
		out[name] = append([]CodeBlock(nil), values...)
	}
	return out
}

func (a *AnnotationSpec) emit(w *CodeWriter, inline bool) {
	whitespace, memberSeparator := "\n", ",\n"
	if inline {
		whitespace, memberSeparator = "", ", "
	}

	switch {
	case len(a.memberNames) == 0:
		w.emitf("@$T", a.annotationType)

	case len(a.memberNames) == 1 && a.memberNames[0] == "value":
		w.emitf("@$T(", a.annotationType)
		a.emitValues(w, whitespace, memberSeparator, a.members["value"])
		w.emitAndIndent(")")

	default:
		w.emitf("@$T("+whitespace, a.annotationType)
		w.indentBy(2)
		for i, name := range a.memberNames {
			if i > 0 {
				w.emitAndIndent(memberSeparator)
			}
			w.emitAndIndent(name + " = ")
			a.emitValues(w, whitespace, memberSeparator, a.members[name])
		}
		w.unindentBy(2)
		w.emitAndIndent(whitespace + ")")
	}
}

func (a *AnnotationSpec) emitValues(w *CodeWriter, whitespace, memberSeparator string, values []CodeBlock) {
	if len(values) == 1 {
		w.indentBy(2)
		w.emitBlock(values[0], false)
		w.unindentBy(2)
		return
	}

	w.emitAndIndent("{" + whitespace)
	w.indentBy(2)
	for i, value := range values {
		if i > 0 {
			w.emitAndIndent(memberSeparator)
		}
		w.emitBlock(value, false)
	}
	w.unindentBy(2)
	w.emitAndIndent(whitespace + "}")
}

// String renders the annotation inline with qualified names.
func (a *AnnotationSpec) String() string {
	var sb strings.Builder
	w := NewCodeWriter(&sb, defaultIndent, nil, nil)
	a.emit(w, true)
	if w.err != nil {
		panic(errors.AssertionFailedf("render annotation: %v", w.err))
	}
	return sb.String()
}

// Equal reports whether a and other render identically.
func (a *AnnotationSpec) Equal(other *AnnotationSpec) bool {
	return other != nil && a.String() == other.String()
}

// ToBuilder returns a builder initialized with a's members.
func (a *AnnotationSpec) ToBuilder() *AnnotationBuilder {
	b := &AnnotationBuilder{annotationType: a.annotationType, members: make(map[string][]CodeBlock)}
	for _, name := range a.memberNames {
		b.memberNames = append(b.memberNames, name)
		b.members[name] = append([]CodeBlock(nil), a.members[name]...)
	}
	return b
}

// AnnotationBuilder builds an AnnotationSpec.
type AnnotationBuilder struct {
	annotationType TypeName
	memberNames    []string
	members        map[string][]CodeBlock
	err            error
}

// NewAnnotationBuilder starts an annotation of the given type.
func NewAnnotationBuilder(annotationType TypeName) *AnnotationBuilder {
	b := &AnnotationBuilder{annotationType: annotationType, members: make(map[string][]CodeBlock)}
	if annotationType == nil {
		b.err = errors.NewInvalidArgumentf("type == nil")
	}
	return b
}

// AnnotationOf returns an annotation with no members.
func AnnotationOf(annotationType TypeName) *AnnotationSpec {
	spec, _ := NewAnnotationBuilder(annotationType).Build()
	return spec
}

// AddMember appends a value to member name. Repeated calls make an array value.
func (b *AnnotationBuilder) AddMember(name, format string, args ...any) *AnnotationBuilder {
	if b.err != nil {
		return b
	}
	block, err := CodeBlockOf(format, args...)
	if err != nil {
		b.err = err
		return b
	}
	return b.AddMemberBlock(name, block)
}

// AddMemberBlock appends a prepared value to member name.
func (b *AnnotationBuilder) AddMemberBlock(name string, value CodeBlock) *AnnotationBuilder {
	if b.err != nil {
		return b
	}
	if !isJavaName(name) {
		b.err = errors.NewInvalidArgumentf("not a valid name: %s", name)
		return b
	}
	if _, ok := b.members[name]; !ok {
		b.memberNames = append(b.memberNames, name)
	}
	b.members[name] = append(b.members[name], value)
	return b
}

// Build returns the annotation or the first recorded error.
func (b *AnnotationBuilder) Build() (*AnnotationSpec, error) {
	if b.err != nil {
		return nil, b.err
	}
	spec := &AnnotationSpec{
		annotationType: b.annotationType,
		memberNames:    append([]string(nil), b.memberNames...),
		members:        make(map[string][]CodeBlock, len(b.members)),
	}
	for name, values := range b.members {
		spec.members[name] = append([]CodeBlock(nil), values...)
	}
	return spec, nil
}

var javaKeywords = map[string]struct{}{
	"abstract": {}, "assert": {}, "boolean": {}, "break": {}, "byte": {}, "case": {},
	"catch": {}, "char": {}, "class": {}, "const": {}, "continue": {}, "default": {},
	"do": {}, "double": {}, "else": {}, "enum": {}, "extends": {}, "final": {},
	"finally": {}, "float": {}, "for": {}, "goto": {}, "if": {}, "implements": {},
	"import": {}, "instanceof": {}, "int": {}, "interface": {}, "long": {}, "native": {},
	"new": {}, "package": {}, "private": {}, "protected": {}, "public": {}, "return": {},
	"short": {}, "static": {}, "strictfp": {}, "super": {}, "switch": {}, "synchronized": {},
	"this": {}, "throw": {}, "throws": {}, "transient": {}, "try": {}, "void": {},
	"volatile": {}, "while": {}, "true": {}, "false": {}, "null": {}, "_": {},
}

// isJavaName reports whether name is a legal Java identifier.
func isJavaName(name string) bool {
	if name == "" {
		return false
	}
	if _, keyword := javaKeywords[name]; keyword {
		return false
	}
	for i, r := range name {
		if i == 0 && !isJavaIdentifierStart(r) {
			return false
		}
		if !isJavaIdentifierPart(r) {
			return false
		}
	}
	return true
}
