package javapoet

import (
	"strings"

	"github.com/teranos/jpoet/errors"
)

// Kind is the flavor of a type declaration.
type Kind int

const (
	KindClass Kind = iota
	KindInterface
	KindEnum
	KindAnnotation
)

func (k Kind) String() string {
	switch k {
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindAnnotation:
		return "@interface"
	default:
		return "class"
	}
}

// Modifiers implied by the enclosing kind. They are legal to declare but never
// emitted.
func (k Kind) implicitFieldModifiers() []Modifier {
	if k == KindInterface || k == KindAnnotation {
		return []Modifier{Public, Static, Final}
	}
	return nil
}

func (k Kind) implicitMethodModifiers() []Modifier {
	if k == KindInterface || k == KindAnnotation {
		return []Modifier{Public, Abstract}
	}
	return nil
}

func (k Kind) implicitTypeModifiers() []Modifier {
	if k == KindInterface || k == KindAnnotation {
		return []Modifier{Public, Static}
	}
	return nil
}

func (k Kind) asMemberModifiers() []Modifier {
	if k == KindClass {
		return nil
	}
	return []Modifier{Static}
}

// Element is a source element a generated type originates from. Hosts that
// track incremental builds record it against the generated file.
type Element interface {
	String() string
}

// TypeSpec is a class, interface, enum or annotation type declaration, or the
// body of an anonymous class.
type TypeSpec struct {
	kind                Kind
	name                string
	anonymousArgs       *CodeBlock
	javadoc             CodeBlock
	annotations         []*AnnotationSpec
	modifiers           []Modifier
	typeVariables       []*TypeVariableName
	superclass          TypeName
	superinterfaces     []TypeName
	enumConstantNames   []string
	enumConstants       map[string]*TypeSpec
	fieldSpecs          []*FieldSpec
	staticBlock         CodeBlock
	initializerBlock    CodeBlock
	methodSpecs         []*MethodSpec
	typeSpecs           []*TypeSpec
	originatingElements []Element
}

// Name returns the simple name; empty for anonymous classes.
func (t *TypeSpec) Name() string { return t.name }

// Kind returns the declaration kind.
func (t *TypeSpec) Kind() Kind { return t.kind }

// IsAnonymous reports whether t is an anonymous class body.
func (t *TypeSpec) IsAnonymous() bool { return t.anonymousArgs != nil }

// Modifiers returns a copy of the declared modifiers.
func (t *TypeSpec) Modifiers() []Modifier { return append([]Modifier(nil), t.modifiers...) }

// FieldSpecs returns a copy of the declared fields.
func (t *TypeSpec) FieldSpecs() []*FieldSpec { return append([]*FieldSpec(nil), t.fieldSpecs...) }

// MethodSpecs returns a copy of the declared methods and constructors.
func (t *TypeSpec) MethodSpecs() []*MethodSpec { return append([]*MethodSpec(nil), t.methodSpecs...) }

// TypeSpecs returns a copy of the nested types.
func (t *TypeSpec) TypeSpecs() []*TypeSpec { return append([]*TypeSpec(nil), t.typeSpecs...) }

// EnumConstants returns the enum constant names in declaration order.
func (t *TypeSpec) EnumConstants() []string { return append([]string(nil), t.enumConstantNames...) }

// OriginatingElements returns the elements of t and its nested types.
func (t *TypeSpec) OriginatingElements() []Element {
	out := append([]Element(nil), t.originatingElements...)
	for _, nested := range t.typeSpecs {
		out = append(out, nested.OriginatingElements()...)
	}
	return out
}

// headerOnly returns a copy of t without nested types, used while emitting the
// declaration header so nested names do not shadow supertypes.
func (t *TypeSpec) headerOnly() *TypeSpec {
	c := *t
	c.typeSpecs = nil
	return &c
}

// emit writes the declaration. enumName is set when t is the body of an enum
// constant; implicit holds modifiers implied by the enclosing declaration.
func (t *TypeSpec) emit(w *CodeWriter, enumName string, implicit []Modifier) {
	previousStatementLine := w.statementLine
	w.statementLine = -1
	defer func() { w.statementLine = previousStatementLine }()

	switch {
	case enumName != "":
		w.emitJavadoc(t.javadoc)
		w.emitAnnotations(t.annotations, false)
		w.emitAndIndent(enumName)
		if t.anonymousArgs != nil && !t.anonymousArgs.IsEmpty() {
			w.emitAndIndent("(")
			w.emitBlock(*t.anonymousArgs, false)
			w.emitAndIndent(")")
		}
		if len(t.fieldSpecs) == 0 && len(t.methodSpecs) == 0 && len(t.typeSpecs) == 0 {
			return
		}
		w.emitAndIndent(" {\n")

	case t.anonymousArgs != nil:
		supertype := t.superclass
		if len(t.superinterfaces) > 0 {
			supertype = t.superinterfaces[0]
		}
		w.emitf("new $T($L) {\n", supertype, *t.anonymousArgs)

	default:
		w.pushType(t.headerOnly())
		w.emitJavadoc(t.javadoc)
		w.emitAnnotations(t.annotations, false)
		w.emitModifiers(t.modifiers, append(append([]Modifier(nil), implicit...), t.kind.asMemberModifiers()...))
		w.emitAndIndent(t.kind.String() + " " + t.name)
		w.emitTypeVariables(t.typeVariables)

		var extendsTypes, implementsTypes []TypeName
		if t.kind == KindInterface {
			extendsTypes = t.superinterfaces
		} else {
			if t.superclass != nil && !isObject(t.superclass) {
				extendsTypes = []TypeName{t.superclass}
			}
			implementsTypes = t.superinterfaces
		}
		emitTypeList(w, " extends", extendsTypes)
		emitTypeList(w, " implements", implementsTypes)

		w.popType()
		w.emitAndIndent(" {\n")
	}

	w.pushType(t)
	w.indentBy(1)
	firstMember := true
	separator := func() {
		if !firstMember {
			w.emitAndIndent("\n")
		}
		firstMember = false
	}

	needsSeparator := t.kind == KindEnum &&
		(len(t.fieldSpecs) > 0 || len(t.methodSpecs) > 0 || len(t.typeSpecs) > 0)
	for i, name := range t.enumConstantNames {
		separator()
		t.enumConstants[name].emit(w, name, nil)
		if i < len(t.enumConstantNames)-1 {
			w.emitAndIndent(",\n")
		} else if !needsSeparator {
			w.emitAndIndent("\n")
		}
	}
	if needsSeparator {
		w.emitAndIndent(";\n")
	}

	for _, f := range t.fieldSpecs {
		if !f.HasModifier(Static) {
			continue
		}
		separator()
		f.emit(w, t.kind.implicitFieldModifiers())
	}
	if !t.staticBlock.IsEmpty() {
		separator()
		w.emitBlock(t.staticBlock, false)
	}

	for _, f := range t.fieldSpecs {
		if f.HasModifier(Static) {
			continue
		}
		separator()
		f.emit(w, t.kind.implicitFieldModifiers())
	}
	if !t.initializerBlock.IsEmpty() {
		separator()
		w.emitBlock(t.initializerBlock, false)
	}

	for _, m := range t.methodSpecs {
		if !m.IsConstructor() {
			continue
		}
		separator()
		m.emit(w, t.name, t.kind.implicitMethodModifiers())
	}
	for _, m := range t.methodSpecs {
		if m.IsConstructor() {
			continue
		}
		separator()
		m.emit(w, t.name, t.kind.implicitMethodModifiers())
	}

	for _, nested := range t.typeSpecs {
		separator()
		nested.emit(w, "", t.kind.implicitTypeModifiers())
	}

	w.unindentBy(1)
	w.popType()
	w.popTypeVariables(t.typeVariables)

	w.emitAndIndent("}")
	if enumName == "" && t.anonymousArgs == nil {
		w.emitAndIndent("\n")
	}
}

func emitTypeList(w *CodeWriter, keyword string, types []TypeName) {
	if len(types) == 0 {
		return
	}
	w.emitAndIndent(keyword)
	for i, t := range types {
		if i > 0 {
			w.emitAndIndent(",")
		}
		w.emitf(" $T", t)
	}
}

// String renders the declaration with qualified names.
func (t *TypeSpec) String() string {
	var sb strings.Builder
	w := NewCodeWriter(&sb, defaultIndent, nil, nil)
	t.emit(w, "", nil)
	if w.err != nil {
		panic(errors.AssertionFailedf("render type %s: %v", t.name, w.err))
	}
	return sb.String()
}

// Equal reports whether t and other render identically.
func (t *TypeSpec) Equal(other *TypeSpec) bool {
	return other != nil && t.String() == other.String()
}

// TypeBuilder builds a TypeSpec of any kind.
type TypeBuilder struct {
	kind                Kind
	name                string
	anonymousArgs       *CodeBlock
	doc                 *CodeBlockBuilder
	annotations         []*AnnotationSpec
	modifiers           []Modifier
	typeVariables       []*TypeVariableName
	superclass          TypeName
	superinterfaces     []TypeName
	enumConstantNames   []string
	enumConstants       map[string]*TypeSpec
	fieldSpecs          []*FieldSpec
	staticBlock         *CodeBlockBuilder
	initializerBlock    *CodeBlockBuilder
	methodSpecs         []*MethodSpec
	typeSpecs           []*TypeSpec
	originatingElements []Element
	err                 error
}

func newTypeBuilder(kind Kind, name string, anonymousArgs *CodeBlock) *TypeBuilder {
	b := &TypeBuilder{
		kind:             kind,
		name:             name,
		anonymousArgs:    anonymousArgs,
		doc:              NewCodeBlockBuilder(),
		superclass:       ObjectClass,
		enumConstants:    make(map[string]*TypeSpec),
		staticBlock:      NewCodeBlockBuilder(),
		initializerBlock: NewCodeBlockBuilder(),
	}
	if anonymousArgs == nil && !isJavaName(name) {
		b.err = errors.NewInvalidArgumentf("not a valid name: %s", name)
	}
	return b
}

// NewClassBuilder starts a class declaration.
func NewClassBuilder(name string) *TypeBuilder { return newTypeBuilder(KindClass, name, nil) }

// NewInterfaceBuilder starts an interface declaration.
func NewInterfaceBuilder(name string) *TypeBuilder { return newTypeBuilder(KindInterface, name, nil) }

// NewEnumBuilder starts an enum declaration.
func NewEnumBuilder(name string) *TypeBuilder { return newTypeBuilder(KindEnum, name, nil) }

// NewAnnotationTypeBuilder starts an @interface declaration.
func NewAnnotationTypeBuilder(name string) *TypeBuilder {
	return newTypeBuilder(KindAnnotation, name, nil)
}

// NewAnonymousClassBuilder starts an anonymous class body whose constructor
// arguments are given by format. Use it as an enum constant body or as a $L.
func NewAnonymousClassBuilder(format string, args ...any) *TypeBuilder {
	block, err := CodeBlockOf(format, args...)
	b := newTypeBuilder(KindClass, "", &block)
	if err != nil {
		b.err = err
	}
	return b
}

func (b *TypeBuilder) fail(err error) *TypeBuilder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// AddJavadoc appends to the type's javadoc.
func (b *TypeBuilder) AddJavadoc(format string, args ...any) *TypeBuilder {
	b.doc.Add(format, args...)
	return b
}

// AddAnnotation annotates the type.
func (b *TypeBuilder) AddAnnotation(a *AnnotationSpec) *TypeBuilder {
	b.annotations = append(b.annotations, a)
	return b
}

// AddModifiers adds declaration modifiers.
func (b *TypeBuilder) AddModifiers(modifiers ...Modifier) *TypeBuilder {
	if b.anonymousArgs != nil {
		return b.fail(errors.NewInvalidArgumentf("forbidden on anonymous types."))
	}
	b.modifiers = append(b.modifiers, modifiers...)
	return b
}

// AddTypeVariable declares a type parameter.
func (b *TypeBuilder) AddTypeVariable(v *TypeVariableName) *TypeBuilder {
	if b.anonymousArgs != nil {
		return b.fail(errors.NewInvalidArgumentf("forbidden on anonymous types."))
	}
	b.typeVariables = append(b.typeVariables, v)
	return b
}

// Superclass sets the extended class. Only classes have one.
func (b *TypeBuilder) Superclass(t TypeName) *TypeBuilder {
	if b.kind != KindClass {
		return b.fail(errors.NewInvalidArgumentf("only classes have super classes, not %s", b.kind))
	}
	if !isObject(b.superclass) {
		return b.fail(errors.NewInvalidArgumentf("superclass already set to %s", b.superclass))
	}
	if _, primitive := t.(*PrimitiveTypeName); primitive || t == nil {
		return b.fail(errors.NewInvalidArgumentf("superclass may not be a primitive"))
	}
	b.superclass = t
	return b
}

// AddSuperinterface adds an implemented (or, for interfaces, extended) type.
func (b *TypeBuilder) AddSuperinterface(t TypeName) *TypeBuilder {
	if t == nil {
		return b.fail(errors.NewInvalidArgumentf("superinterface == nil"))
	}
	b.superinterfaces = append(b.superinterfaces, t)
	return b
}

// AddEnumConstant adds a constant with no body.
func (b *TypeBuilder) AddEnumConstant(name string) *TypeBuilder {
	body, err := NewAnonymousClassBuilder("").Build()
	if err != nil {
		return b.fail(err)
	}
	return b.AddEnumConstantWithBody(name, body)
}

// AddEnumConstantWithBody adds a constant whose body is an anonymous class.
func (b *TypeBuilder) AddEnumConstantWithBody(name string, body *TypeSpec) *TypeBuilder {
	if b.kind != KindEnum {
		return b.fail(errors.NewInvalidArgumentf("%s is not enum", b.name))
	}
	if body == nil || body.anonymousArgs == nil {
		return b.fail(errors.NewInvalidArgumentf("enum constants must have anonymous type arguments"))
	}
	if !isJavaName(name) {
		return b.fail(errors.NewInvalidArgumentf("not a valid enum constant: %s", name))
	}
	if _, dup := b.enumConstants[name]; !dup {
		b.enumConstantNames = append(b.enumConstantNames, name)
	}
	b.enumConstants[name] = body
	return b
}

// AddField adds a field.
func (b *TypeBuilder) AddField(f *FieldSpec) *TypeBuilder {
	if f == nil {
		return b.fail(errors.NewInvalidArgumentf("field == nil"))
	}
	b.fieldSpecs = append(b.fieldSpecs, f)
	return b
}

// AddFieldOf adds a field built from a type and name.
func (b *TypeBuilder) AddFieldOf(t TypeName, name string, modifiers ...Modifier) *TypeBuilder {
	f, err := FieldOf(t, name, modifiers...)
	if err != nil {
		return b.fail(err)
	}
	return b.AddField(f)
}

// AddStaticBlock adds code to the static initializer.
func (b *TypeBuilder) AddStaticBlock(block CodeBlock) *TypeBuilder {
	b.staticBlock.BeginControlFlow("static").AddBlock(block).EndControlFlow()
	return b
}

// AddInitializerBlock adds code to the instance initializer.
func (b *TypeBuilder) AddInitializerBlock(block CodeBlock) *TypeBuilder {
	if b.kind != KindClass && b.kind != KindEnum {
		return b.fail(errors.NewInvalidArgumentf("%s can't have initializer blocks", b.kind))
	}
	b.initializerBlock.Add("{\n").Indent().AddBlock(block).Unindent().Add("}\n")
	return b
}

// AddMethod adds a method or constructor.
func (b *TypeBuilder) AddMethod(m *MethodSpec) *TypeBuilder {
	if m == nil {
		return b.fail(errors.NewInvalidArgumentf("method == nil"))
	}
	b.methodSpecs = append(b.methodSpecs, m)
	return b
}

// AddType adds a nested type.
func (b *TypeBuilder) AddType(t *TypeSpec) *TypeBuilder {
	if t == nil {
		return b.fail(errors.NewInvalidArgumentf("type == nil"))
	}
	b.typeSpecs = append(b.typeSpecs, t)
	return b
}

// AddOriginatingElement records a source element this type was generated from.
func (b *TypeBuilder) AddOriginatingElement(e Element) *TypeBuilder {
	b.originatingElements = append(b.originatingElements, e)
	return b
}

// Build validates the declaration and returns it.
func (b *TypeBuilder) Build() (*TypeSpec, error) {
	if b.err != nil {
		return nil, b.err
	}
	doc, err := b.doc.Build()
	if err != nil {
		return nil, err
	}
	staticBlock, err := b.staticBlock.Build()
	if err != nil {
		return nil, err
	}
	initializerBlock, err := b.initializerBlock.Build()
	if err != nil {
		return nil, err
	}
	if err := b.validate(); err != nil {
		return nil, err
	}

	return &TypeSpec{
		kind:                b.kind,
		name:                b.name,
		anonymousArgs:       b.anonymousArgs,
		javadoc:             doc,
		annotations:         append([]*AnnotationSpec(nil), b.annotations...),
		modifiers:           append([]Modifier(nil), b.modifiers...),
		typeVariables:       append([]*TypeVariableName(nil), b.typeVariables...),
		superclass:          b.superclass,
		superinterfaces:     append([]TypeName(nil), b.superinterfaces...),
		enumConstantNames:   append([]string(nil), b.enumConstantNames...),
		enumConstants:       copyTypeMap(b.enumConstants),
		fieldSpecs:          append([]*FieldSpec(nil), b.fieldSpecs...),
		staticBlock:         staticBlock,
		initializerBlock:    initializerBlock,
		methodSpecs:         append([]*MethodSpec(nil), b.methodSpecs...),
		typeSpecs:           append([]*TypeSpec(nil), b.typeSpecs...),
		originatingElements: append([]Element(nil), b.originatingElements...),
	}, nil
}

func (b *TypeBuilder) validate() error {
	if b.kind == KindEnum && len(b.enumConstantNames) == 0 {
		return errors.NewInvalidArgumentf("at least one enum constant is required for %s", b.name)
	}
	if b.anonymousArgs != nil && len(b.superinterfaces) > 0 && !isObject(b.superclass) {
		return errors.NewInvalidArgumentf("anonymous type has too many supertypes")
	}
	if b.anonymousArgs != nil && len(b.superinterfaces) > 1 {
		return errors.NewInvalidArgumentf("anonymous type has too many supertypes")
	}

	abstractType := containsModifier(b.modifiers, Abstract) || b.kind != KindClass
	for _, f := range b.fieldSpecs {
		if b.kind == KindInterface || b.kind == KindAnnotation {
			if f.HasModifier(Private) || f.HasModifier(Protected) {
				return errors.NewInvalidArgumentf("%s %s.%s requires modifiers [public static final]", b.kind, b.name, f.name)
			}
			if !f.HasModifier(Static) || !f.HasModifier(Final) {
				return errors.NewInvalidArgumentf("%s %s.%s requires modifiers [static final]", b.kind, b.name, f.name)
			}
		}
	}
	for _, m := range b.methodSpecs {
		switch b.kind {
		case KindInterface:
			n := 0
			for _, mod := range []Modifier{Abstract, Static, Default} {
				if m.HasModifier(mod) {
					n++
				}
			}
			if n != 1 {
				return errors.NewInvalidArgumentf("%s %s.%s requires exactly one of [abstract static default]", b.kind, b.name, m.name)
			}
		case KindAnnotation:
			if !m.HasModifier(Public) || !m.HasModifier(Abstract) {
				return errors.NewInvalidArgumentf("%s %s.%s requires modifiers [public abstract]", b.kind, b.name, m.name)
			}
		}
		if b.kind != KindAnnotation && !m.defaultValue.IsEmpty() {
			return errors.NewInvalidArgumentf("%s %s.%s cannot have a default value", b.kind, b.name, m.name)
		}
		if m.HasModifier(Abstract) && !abstractType {
			return errors.NewInvalidArgumentf("non-abstract type %s cannot declare abstract method %s", b.name, m.name)
		}
	}
	return nil
}

func copyTypeMap(in map[string]*TypeSpec) map[string]*TypeSpec {
	out := make(map[string]*TypeSpec, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
