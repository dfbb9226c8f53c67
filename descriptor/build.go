package descriptor

import (
	"github.com/teranos/jpoet/errors"
	"github.com/teranos/jpoet/javapoet"
)

// Defaults are file settings applied when a descriptor leaves them unset. A
// zero IndentCount means two.
type Defaults struct {
	IndentCount         int
	IndentChar          string
	SkipJavaLangImports bool
	FileComment         string
}

// Origin is the originating element recorded for a descriptor-built type.
type Origin string

func (o Origin) String() string { return string(o) }

// ParseIndentChar maps "space" or "tab" to an indent character.
func ParseIndentChar(s string) (javapoet.IndentChar, error) {
	switch s {
	case "", "space":
		return javapoet.IndentSpace, nil
	case "tab":
		return javapoet.IndentTab, nil
	}
	return 0, errors.NewInvalidArgumentf("unknown indent char %q (want space or tab)", s)
}

// Build converts the descriptor into a Java file.
func (f *File) Build(defaults Defaults) (*javapoet.JavaFile, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}

	spec, err := buildType(f.Type, f.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "type %s", f.Type.Name)
	}

	b := javapoet.NewBuilder(f.Package, spec)

	comment := f.FileComment
	if comment == "" {
		comment = defaults.FileComment
	}
	if comment != "" {
		b.AddFileComment("$L", comment)
	}

	skip := defaults.SkipJavaLangImports
	if f.SkipJavaLangImports != nil {
		skip = *f.SkipJavaLangImports
	}
	b.SkipJavaLangImports(skip)

	charName := f.IndentChar
	if charName == "" {
		charName = defaults.IndentChar
	}
	char, err := ParseIndentChar(charName)
	if err != nil {
		return nil, err
	}
	count := defaults.IndentCount
	if count == 0 {
		count = 2
	}
	if f.IndentCount != nil {
		count = *f.IndentCount
	}
	if f.Indent != nil {
		b.Indent(*f.Indent)
	} else {
		b.IndentWith(count, char)
	}

	for _, si := range f.StaticImports {
		cn, err := ParseClassName(si.Class)
		if err != nil {
			return nil, errors.Wrap(err, "static import")
		}
		b.AddStaticImport(cn, si.Members...)
	}
	return b.Build()
}

func buildType(t *Type, origin string) (*javapoet.TypeSpec, error) {
	var b *javapoet.TypeBuilder
	switch t.Kind {
	case "", "class":
		b = javapoet.NewClassBuilder(t.Name)
	case "interface":
		b = javapoet.NewInterfaceBuilder(t.Name)
	case "enum":
		b = javapoet.NewEnumBuilder(t.Name)
	case "annotation":
		b = javapoet.NewAnnotationTypeBuilder(t.Name)
	default:
		return nil, errors.NewInvalidArgumentf("unknown type kind %q", t.Kind)
	}
	if origin != "" {
		b.AddOriginatingElement(Origin(origin))
	}
	if err := fillType(b, t); err != nil {
		return nil, err
	}
	return b.Build()
}

func fillType(b *javapoet.TypeBuilder, t *Type) error {
	if t.Javadoc != "" {
		b.AddJavadoc("$L\n", t.Javadoc)
	}
	annotations, err := buildAnnotations(t.Annotations)
	if err != nil {
		return err
	}
	for _, a := range annotations {
		b.AddAnnotation(a)
	}
	modifiers, err := parseModifiers(t.Modifiers)
	if err != nil {
		return err
	}
	b.AddModifiers(modifiers...)

	vars, err := buildTypeVariables(t.TypeVariables)
	if err != nil {
		return err
	}
	for _, v := range vars {
		b.AddTypeVariable(v)
	}

	if t.Superclass != "" {
		super, err := ParseTypeName(t.Superclass)
		if err != nil {
			return errors.Wrap(err, "superclass")
		}
		b.Superclass(super)
	}
	for _, expr := range t.Interfaces {
		iface, err := ParseTypeName(expr)
		if err != nil {
			return errors.Wrap(err, "interface")
		}
		b.AddSuperinterface(iface)
	}

	for _, c := range t.EnumConstants {
		body, err := buildEnumBody(c)
		if err != nil {
			return errors.Wrapf(err, "enum constant %s", c.Name)
		}
		b.AddEnumConstantWithBody(c.Name, body)
	}

	for i := range t.Fields {
		field, err := buildField(&t.Fields[i])
		if err != nil {
			return errors.Wrapf(err, "field %s", t.Fields[i].Name)
		}
		b.AddField(field)
	}

	if len(t.StaticBlock) > 0 {
		block, err := buildBlock(t.StaticBlock)
		if err != nil {
			return errors.Wrap(err, "static block")
		}
		b.AddStaticBlock(block)
	}
	if len(t.InitializerBlock) > 0 {
		block, err := buildBlock(t.InitializerBlock)
		if err != nil {
			return errors.Wrap(err, "initializer block")
		}
		b.AddInitializerBlock(block)
	}

	for i := range t.Methods {
		method, err := buildMethod(&t.Methods[i])
		if err != nil {
			return errors.Wrapf(err, "method %s", t.Methods[i].Name)
		}
		b.AddMethod(method)
	}

	for i := range t.Types {
		nested, err := buildType(&t.Types[i], "")
		if err != nil {
			return errors.Wrapf(err, "type %s", t.Types[i].Name)
		}
		b.AddType(nested)
	}
	return nil
}

func buildEnumBody(c EnumConstant) (*javapoet.TypeSpec, error) {
	args, err := convertArgs(c.Args)
	if err != nil {
		return nil, err
	}
	b := javapoet.NewAnonymousClassBuilder(c.Format, args...)
	if c.Javadoc != "" {
		b.AddJavadoc("$L\n", c.Javadoc)
	}
	for i := range c.Fields {
		field, err := buildField(&c.Fields[i])
		if err != nil {
			return nil, errors.Wrapf(err, "field %s", c.Fields[i].Name)
		}
		b.AddField(field)
	}
	for i := range c.Methods {
		method, err := buildMethod(&c.Methods[i])
		if err != nil {
			return nil, errors.Wrapf(err, "method %s", c.Methods[i].Name)
		}
		b.AddMethod(method)
	}
	return b.Build()
}

func buildField(f *Field) (*javapoet.FieldSpec, error) {
	fieldType, err := ParseTypeName(f.Type)
	if err != nil {
		return nil, err
	}
	modifiers, err := parseModifiers(f.Modifiers)
	if err != nil {
		return nil, err
	}
	b := javapoet.NewFieldBuilder(fieldType, f.Name, modifiers...)
	if f.Javadoc != "" {
		b.AddJavadoc("$L\n", f.Javadoc)
	}
	annotations, err := buildAnnotations(f.Annotations)
	if err != nil {
		return nil, err
	}
	for _, a := range annotations {
		b.AddAnnotation(a)
	}
	if f.Initializer != nil {
		args, err := convertArgs(f.Initializer.Args)
		if err != nil {
			return nil, err
		}
		b.Initializer(f.Initializer.Format, args...)
	}
	return b.Build()
}

func buildMethod(m *Method) (*javapoet.MethodSpec, error) {
	var b *javapoet.MethodBuilder
	if m.Constructor {
		b = javapoet.NewConstructorBuilder()
	} else {
		b = javapoet.NewMethodBuilder(m.Name)
	}
	if m.Javadoc != "" {
		b.AddJavadoc("$L\n", m.Javadoc)
	}
	annotations, err := buildAnnotations(m.Annotations)
	if err != nil {
		return nil, err
	}
	for _, a := range annotations {
		b.AddAnnotation(a)
	}
	modifiers, err := parseModifiers(m.Modifiers)
	if err != nil {
		return nil, err
	}
	b.AddModifiers(modifiers...)

	vars, err := buildTypeVariables(m.TypeVariables)
	if err != nil {
		return nil, err
	}
	for _, v := range vars {
		b.AddTypeVariable(v)
	}

	if m.Returns != "" {
		returns, err := ParseTypeName(m.Returns)
		if err != nil {
			return nil, errors.Wrap(err, "return type")
		}
		b.Returns(returns)
	}

	for _, p := range m.Parameters {
		param, err := buildParameter(p)
		if err != nil {
			return nil, errors.Wrapf(err, "parameter %s", p.Name)
		}
		b.AddParameter(param)
	}
	b.Varargs(m.Varargs)

	for _, expr := range m.Exceptions {
		exception, err := ParseTypeName(expr)
		if err != nil {
			return nil, errors.Wrap(err, "exception")
		}
		b.AddException(exception)
	}

	if m.Default != nil {
		args, err := convertArgs(m.Default.Args)
		if err != nil {
			return nil, err
		}
		b.DefaultValue(m.Default.Format, args...)
	}

	if len(m.Body) > 0 {
		block, err := buildBlock(m.Body)
		if err != nil {
			return nil, err
		}
		b.AddCodeBlock(block)
	}
	return b.Build()
}

func buildParameter(p Parameter) (*javapoet.ParameterSpec, error) {
	paramType, err := ParseTypeName(p.Type)
	if err != nil {
		return nil, err
	}
	modifiers, err := parseModifiers(p.Modifiers)
	if err != nil {
		return nil, err
	}
	b := javapoet.NewParameterBuilder(paramType, p.Name, modifiers...)
	annotations, err := buildAnnotations(p.Annotations)
	if err != nil {
		return nil, err
	}
	for _, a := range annotations {
		b.AddAnnotation(a)
	}
	return b.Build()
}

func buildAnnotations(in []Annotation) ([]*javapoet.AnnotationSpec, error) {
	out := make([]*javapoet.AnnotationSpec, 0, len(in))
	for _, a := range in {
		annotationType, err := ParseClassName(a.Type)
		if err != nil {
			return nil, errors.Wrap(err, "annotation")
		}
		b := javapoet.NewAnnotationBuilder(annotationType)
		for _, m := range a.Members {
			args, err := convertArgs(m.Args)
			if err != nil {
				return nil, err
			}
			b.AddMember(m.Name, m.Format, args...)
		}
		spec, err := b.Build()
		if err != nil {
			return nil, errors.Wrapf(err, "annotation %s", a.Type)
		}
		out = append(out, spec)
	}
	return out, nil
}

func buildTypeVariables(in []TypeVariable) ([]*javapoet.TypeVariableName, error) {
	out := make([]*javapoet.TypeVariableName, 0, len(in))
	for _, v := range in {
		bounds := make([]javapoet.TypeName, 0, len(v.Bounds))
		for _, expr := range v.Bounds {
			bound, err := ParseTypeName(expr)
			if err != nil {
				return nil, errors.Wrapf(err, "bound of %s", v.Name)
			}
			bounds = append(bounds, bound)
		}
		out = append(out, javapoet.TypeVariable(v.Name, bounds...))
	}
	return out, nil
}

func buildBlock(steps []Step) (javapoet.CodeBlock, error) {
	b := javapoet.NewCodeBlockBuilder()
	for i, s := range steps {
		args, err := convertArgs(s.Args)
		if err != nil {
			return javapoet.CodeBlock{}, errors.Wrapf(err, "step %d", i)
		}
		switch {
		case s.Statement != "":
			b.AddStatement(s.Statement, args...)
		case s.Code != "":
			b.Add(s.Code, args...)
		case s.Begin != "":
			b.BeginControlFlow(s.Begin, args...)
		case s.Next != "":
			b.NextControlFlow(s.Next, args...)
		case s.End:
			b.EndControlFlow()
		case s.Comment != "":
			b.Add("// $L\n", s.Comment)
		default:
			return javapoet.CodeBlock{}, errors.NewInvalidArgumentf("step %d is empty", i)
		}
	}
	return b.Build()
}

func convertArgs(in []Arg) ([]any, error) {
	out := make([]any, 0, len(in))
	for i, a := range in {
		switch {
		case a.Type != "":
			t, err := ParseTypeName(a.Type)
			if err != nil {
				return nil, errors.Wrapf(err, "argument %d", i)
			}
			out = append(out, t)
		case a.Str != nil:
			out = append(out, *a.Str)
		case a.Name != "":
			out = append(out, a.Name)
		case a.Null:
			out = append(out, nil)
		case a.Literal != nil:
			out = append(out, a.Literal)
		default:
			return nil, errors.NewInvalidArgumentf("argument %d has no value (want type, string, literal, name or null)", i)
		}
	}
	return out, nil
}

func parseModifiers(in []string) ([]javapoet.Modifier, error) {
	out := make([]javapoet.Modifier, 0, len(in))
	for _, s := range in {
		m, err := javapoet.ParseModifier(s)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
