package javapoet

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/teranos/jpoet/errors"
)

// TypeName is any Java type that can appear in generated source: primitives,
// declared classes, arrays, parameterized types, type variables and wildcards.
type TypeName interface {
	emit(w *CodeWriter)
	// String renders the type with every class fully qualified.
	String() string
}

// ClassNamer is implemented by values that know the Java class they stand for.
type ClassNamer interface {
	ClassName() *ClassName
}

// typeString renders t with a throwaway writer that has no imports.
func typeString(t TypeName) string {
	var sb strings.Builder
	w := NewCodeWriter(&sb, defaultIndent, nil, nil)
	t.emit(w)
	return sb.String()
}

// PrimitiveTypeName is one of the Java primitive keywords, or void.
type PrimitiveTypeName struct {
	keyword string
	boxed   string
}

var (
	Void    = &PrimitiveTypeName{keyword: "void", boxed: "Void"}
	Boolean = &PrimitiveTypeName{keyword: "boolean", boxed: "Boolean"}
	Byte    = &PrimitiveTypeName{keyword: "byte", boxed: "Byte"}
	Short   = &PrimitiveTypeName{keyword: "short", boxed: "Short"}
	Int     = &PrimitiveTypeName{keyword: "int", boxed: "Integer"}
	Long    = &PrimitiveTypeName{keyword: "long", boxed: "Long"}
	Char    = &PrimitiveTypeName{keyword: "char", boxed: "Character"}
	Float   = &PrimitiveTypeName{keyword: "float", boxed: "Float"}
	Double  = &PrimitiveTypeName{keyword: "double", boxed: "Double"}
)

var primitives = []*PrimitiveTypeName{Void, Boolean, Byte, Short, Int, Long, Char, Float, Double}

// PrimitiveByKeyword returns the primitive named by keyword, or nil.
func PrimitiveByKeyword(keyword string) *PrimitiveTypeName {
	for _, p := range primitives {
		if p.keyword == keyword {
			return p
		}
	}
	return nil
}

func (p *PrimitiveTypeName) emit(w *CodeWriter) { w.emitAndIndent(p.keyword) }

func (p *PrimitiveTypeName) String() string { return p.keyword }

// Box returns the java.lang wrapper class for p.
func (p *PrimitiveTypeName) Box() *ClassName {
	return ClassNameOf(javaLang, p.boxed)
}

// Unbox returns the primitive wrapped by cn, or nil when cn is not a box type.
func Unbox(cn *ClassName) *PrimitiveTypeName {
	if cn == nil || cn.packageName != javaLang || cn.enclosing != nil {
		return nil
	}
	for _, p := range primitives {
		if p.boxed == cn.simpleName {
			return p
		}
	}
	return nil
}

const javaLang = "java.lang"

// Well-known classes.
var (
	ObjectClass = ClassNameOf(javaLang, "Object")
	StringClass = ClassNameOf(javaLang, "String")
)

// ClassName is a fully-qualified class name for top-level and nested classes.
type ClassName struct {
	packageName   string
	enclosing     *ClassName
	simpleName    string
	canonicalName string
	annotations   []*AnnotationSpec
}

func newClassName(packageName string, enclosing *ClassName, simpleName string, annotations []*AnnotationSpec) *ClassName {
	canonical := simpleName
	switch {
	case enclosing != nil:
		canonical = enclosing.canonicalName + "." + simpleName
	case packageName != "":
		canonical = packageName + "." + simpleName
	}
	return &ClassName{
		packageName:   packageName,
		enclosing:     enclosing,
		simpleName:    simpleName,
		canonicalName: canonical,
		annotations:   annotations,
	}
}

// ClassNameOf returns the class named by packageName and one or more simple
// names; additional names select nested classes.
// ClassNameOf("java.util", "Map", "Entry") is java.util.Map.Entry.
func ClassNameOf(packageName, simpleName string, nested ...string) *ClassName {
	cn := newClassName(packageName, nil, simpleName, nil)
	for _, n := range nested {
		cn = cn.NestedClass(n)
	}
	return cn
}

// BestGuess splits a canonical name like "java.util.Map.Entry" into package and
// class names, assuming packages are lowercase and classes are capitalized.
func BestGuess(canonical string) (*ClassName, error) {
	p := 0
	for p < len(canonical) {
		r, _ := utf8.DecodeRuneInString(canonical[p:])
		if !unicode.IsLower(r) {
			break
		}
		dot := strings.IndexByte(canonical[p:], '.')
		if dot == -1 {
			return nil, errors.NewInvalidArgumentf("couldn't make a guess for %s", canonical)
		}
		p += dot + 1
	}

	packageName := ""
	if p > 0 {
		packageName = canonical[:p-1]
	}

	var cn *ClassName
	for _, simple := range strings.Split(canonical[p:], ".") {
		r, _ := utf8.DecodeRuneInString(simple)
		if simple == "" || !unicode.IsUpper(r) {
			return nil, errors.NewInvalidArgumentf("couldn't make a guess for %s", canonical)
		}
		cn = newClassName(packageName, cn, simple, nil)
	}
	return cn, nil
}

// PackageName returns the package, or "" for the unnamed package.
func (c *ClassName) PackageName() string { return c.packageName }

// SimpleName returns the innermost simple name.
func (c *ClassName) SimpleName() string { return c.simpleName }

// CanonicalName returns the dotted name, like "java.util.Map.Entry".
func (c *ClassName) CanonicalName() string { return c.canonicalName }

// EnclosingClassName returns the enclosing class, or nil for top-level classes.
func (c *ClassName) EnclosingClassName() *ClassName { return c.enclosing }

// ClassName lets a ClassName stand wherever a ClassNamer is accepted.
func (c *ClassName) ClassName() *ClassName { return c }

// TopLevelClassName returns the outermost enclosing class.
func (c *ClassName) TopLevelClassName() *ClassName {
	if c.enclosing != nil {
		return c.enclosing.TopLevelClassName()
	}
	return c
}

// SimpleNames returns the simple names from the top-level class inward.
func (c *ClassName) SimpleNames() []string {
	if c.enclosing == nil {
		return []string{c.simpleName}
	}
	return append(c.enclosing.SimpleNames(), c.simpleName)
}

// NestedClass returns a class nested inside c.
func (c *ClassName) NestedClass(name string) *ClassName {
	return newClassName(c.packageName, c, name, nil)
}

// PeerClass returns a class with the same package and enclosing class as c.
func (c *ClassName) PeerClass(name string) *ClassName {
	return newClassName(c.packageName, c.enclosing, name, nil)
}

// Annotated returns a copy of c carrying additional type annotations.
func (c *ClassName) Annotated(annotations ...*AnnotationSpec) *ClassName {
	all := make([]*AnnotationSpec, 0, len(c.annotations)+len(annotations))
	all = append(all, c.annotations...)
	all = append(all, annotations...)
	return newClassName(c.packageName, c.enclosing, c.simpleName, all)
}

// IsAnnotated reports whether c carries type annotations.
func (c *ClassName) IsAnnotated() bool { return len(c.annotations) > 0 }

// WithoutAnnotations returns c stripped of type annotations.
func (c *ClassName) WithoutAnnotations() *ClassName {
	if !c.IsAnnotated() {
		return c
	}
	return newClassName(c.packageName, c.enclosing, c.simpleName, nil)
}

// Compare orders class names by canonical name.
func (c *ClassName) Compare(other *ClassName) int {
	return strings.Compare(c.canonicalName, other.canonicalName)
}

func (c *ClassName) emit(w *CodeWriter) {
	if c.IsAnnotated() {
		w.emitAnnotations(c.annotations, true)
	}
	w.emitAndIndent(w.lookupName(c))
}

func (c *ClassName) String() string { return typeString(c) }

// ArrayTypeName is an array of some component type.
type ArrayTypeName struct {
	component TypeName
}

// ArrayOf returns the array type whose elements are component.
func ArrayOf(component TypeName) *ArrayTypeName {
	return &ArrayTypeName{component: component}
}

// Component returns the element type.
func (a *ArrayTypeName) Component() TypeName { return a.component }

func (a *ArrayTypeName) emit(w *CodeWriter) {
	a.emitArray(w, false)
}

func (a *ArrayTypeName) emitArray(w *CodeWriter, varargs bool) {
	a.component.emit(w)
	if varargs {
		w.emitAndIndent("...")
		return
	}
	w.emitAndIndent("[]")
}

func (a *ArrayTypeName) String() string { return typeString(a) }

// ParameterizedTypeName is a generic class with type arguments, like List<String>.
type ParameterizedTypeName struct {
	raw       *ClassName
	arguments []TypeName
}

// ParameterizedTypeOf returns raw parameterized with arguments.
func ParameterizedTypeOf(raw *ClassName, arguments ...TypeName) *ParameterizedTypeName {
	return &ParameterizedTypeName{raw: raw, arguments: append([]TypeName(nil), arguments...)}
}

// RawType returns the unparameterized class.
func (p *ParameterizedTypeName) RawType() *ClassName { return p.raw }

// TypeArguments returns a copy of the type arguments.
func (p *ParameterizedTypeName) TypeArguments() []TypeName {
	return append([]TypeName(nil), p.arguments...)
}

func (p *ParameterizedTypeName) emit(w *CodeWriter) {
	p.raw.emit(w)
	w.emitAndIndent("<")
	for i, arg := range p.arguments {
		if i > 0 {
			w.emitAndIndent(", ")
		}
		arg.emit(w)
	}
	w.emitAndIndent(">")
}

func (p *ParameterizedTypeName) String() string { return typeString(p) }

// TypeVariableName is a type parameter like T, optionally with bounds.
type TypeVariableName struct {
	name   string
	bounds []TypeName
}

// TypeVariable returns the type variable name with optional upper bounds.
func TypeVariable(name string, bounds ...TypeName) *TypeVariableName {
	return &TypeVariableName{name: name, bounds: append([]TypeName(nil), bounds...)}
}

// Name returns the variable's identifier.
func (v *TypeVariableName) Name() string { return v.name }

func (v *TypeVariableName) emit(w *CodeWriter) { w.emitAndIndent(v.name) }

func (v *TypeVariableName) String() string { return v.name }

// WildcardTypeName is "?", "? extends T" or "? super T".
type WildcardTypeName struct {
	upper TypeName
	lower TypeName
}

// SubtypeOf returns "? extends upper"; a nil or Object bound renders as "?".
func SubtypeOf(upper TypeName) *WildcardTypeName {
	return &WildcardTypeName{upper: upper}
}

// SupertypeOf returns "? super lower".
func SupertypeOf(lower TypeName) *WildcardTypeName {
	return &WildcardTypeName{lower: lower}
}

func (t *WildcardTypeName) emit(w *CodeWriter) {
	switch {
	case t.lower != nil:
		w.emitf("? super $T", t.lower)
	case t.upper == nil || isObject(t.upper):
		w.emitAndIndent("?")
	default:
		w.emitf("? extends $T", t.upper)
	}
}

func (t *WildcardTypeName) String() string { return typeString(t) }

func isObject(t TypeName) bool {
	cn, ok := t.(*ClassName)
	return ok && cn.canonicalName == ObjectClass.canonicalName
}
