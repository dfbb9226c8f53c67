// Package javapoet renders Java source files.
//
// A JavaFile wraps exactly one top-level TypeSpec. Rendering runs twice: a
// discovery pass over a discarding writer learns which classes the body
// references, then the final pass writes the package line, the import block
// computed from the discovery pass, and the body itself.
//
//	hello, _ := javapoet.NewMethodBuilder("main").
//	    AddModifiers(javapoet.Public, javapoet.Static).
//	    AddParameterOf(javapoet.ArrayOf(javapoet.StringClass), "args").
//	    AddStatement("$T.out.println($S)", javapoet.ClassNameOf("java.lang", "System"), "Hello!").
//	    Build()
//	main, _ := javapoet.NewClassBuilder("HelloWorld").AddMethod(hello).Build()
//	file, _ := javapoet.NewBuilder("com.example", main).Build()
//	_, err := file.WriteTo(os.Stdout)
package javapoet

import (
	"io"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/teranos/jpoet/errors"
)

const defaultIndent = "  "

// IndentChar is a character allowed in an indent unit.
type IndentChar rune

const (
	IndentSpace IndentChar = ' '
	IndentTab   IndentChar = '\t'
)

func (c IndentChar) valid() bool { return c == IndentSpace || c == IndentTab }

// EnumConstant is an enum value that can be statically imported.
type EnumConstant interface {
	DeclaringClass() *ClassName
	Name() string
}

// JavaFile is an immutable Java compilation unit: a package, optional file
// comment, static imports and one top-level type.
type JavaFile struct {
	fileComment         CodeBlock
	packageName         string
	typeSpec            *TypeSpec
	skipJavaLangImports bool
	staticImports       []string
	indent              string
}

// FileComment returns the comment printed above the package line.
func (f *JavaFile) FileComment() CodeBlock { return f.fileComment }

// PackageName returns the package; "" is the unnamed package.
func (f *JavaFile) PackageName() string { return f.packageName }

// TypeSpec returns the top-level type.
func (f *JavaFile) TypeSpec() *TypeSpec { return f.typeSpec }

// SkipJavaLangImports reports whether java.lang classes are left unimported.
func (f *JavaFile) SkipJavaLangImports() bool { return f.skipJavaLangImports }

// StaticImports returns the sorted "Type.member" signatures.
func (f *JavaFile) StaticImports() []string { return append([]string(nil), f.staticImports...) }

// Indent returns the indent unit.
func (f *JavaFile) Indent() string { return f.indent }

// emit writes the whole compilation unit through w.
func (f *JavaFile) emit(w *CodeWriter) error {
	w.PushPackage(f.packageName)

	if !f.fileComment.IsEmpty() {
		w.EmitComment(f.fileComment)
	}

	if f.packageName != "" {
		w.emitf("package $L;\n", f.packageName)
		w.emitAndIndent("\n")
	}

	if len(f.staticImports) > 0 {
		for _, signature := range f.staticImports {
			w.emitf("import static $L;\n", signature)
		}
		w.emitAndIndent("\n")
	}

	imported := 0
	for _, cn := range w.sortedImports() {
		if f.skipJavaLangImports && cn.packageName == javaLang {
			continue
		}
		w.emitf("import $L;\n", cn.WithoutAnnotations())
		imported++
	}
	if imported > 0 {
		w.emitAndIndent("\n")
	}

	f.typeSpec.emit(w, "", nil)

	w.PopPackage()
	return w.Err()
}

// render runs the discovery pass and then writes the file to out.
func (f *JavaFile) render(out io.Writer) error {
	collector := NewImportCollector(f.indent, f.staticImports)
	if err := f.emit(collector); err != nil {
		return err
	}
	return f.emit(NewCodeWriter(out, f.indent, collector.SuggestedImports(), f.staticImports))
}

// String renders the file into memory. A failure here cannot come from the
// destination and is reported as an assertion failure.
func (f *JavaFile) String() string {
	var sb strings.Builder
	if _, err := f.WriteTo(&sb); err != nil {
		panic(errors.AssertionFailedf("render %s into memory: %v", f.typeSpec.name, err))
	}
	return sb.String()
}

// Equal reports whether f and other render to the same text.
func (f *JavaFile) Equal(other *JavaFile) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f == other || f.String() == other.String()
}

// Hash returns a hash of the rendered text, consistent with Equal.
func (f *JavaFile) Hash() uint64 {
	return xxhash.Sum64String(f.String())
}

// ToBuilder returns an independent builder holding f's configuration.
func (f *JavaFile) ToBuilder() *Builder {
	b := NewBuilder(f.packageName, f.typeSpec)
	b.fileComment.AddBlock(f.fileComment)
	b.skipJavaLangImports = f.skipJavaLangImports
	b.indent = f.indent
	for _, s := range f.staticImports {
		b.staticImports[s] = struct{}{}
	}
	return b
}

// Builder stages the configuration of a JavaFile. It is not safe for
// concurrent use. Invalid input is recorded and returned by Build.
type Builder struct {
	packageName         string
	typeSpec            *TypeSpec
	fileComment         *CodeBlockBuilder
	skipJavaLangImports bool
	staticImports       map[string]struct{}
	indent              string
	indentChar          IndentChar
	err                 error
}

// NewBuilder starts a file holding typeSpec in packageName.
func NewBuilder(packageName string, typeSpec *TypeSpec) *Builder {
	b := &Builder{
		packageName:   packageName,
		typeSpec:      typeSpec,
		fileComment:   NewCodeBlockBuilder(),
		staticImports: make(map[string]struct{}),
		indent:        defaultIndent,
		indentChar:    IndentSpace,
	}
	if typeSpec == nil {
		b.err = errors.NewInvalidArgumentf("typeSpec == nil")
	}
	return b
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// Err returns the first recorded error.
func (b *Builder) Err() error { return b.err }

// AddFileComment appends to the comment printed above the package line.
func (b *Builder) AddFileComment(format string, args ...any) *Builder {
	if err := b.fileComment.Add(format, args...).Err(); err != nil {
		return b.fail(err)
	}
	return b
}

// AddStaticImportEnum statically imports one enum constant.
func (b *Builder) AddStaticImportEnum(constant EnumConstant) *Builder {
	if constant == nil {
		return b.fail(errors.NewInvalidArgumentf("constant == nil"))
	}
	return b.AddStaticImport(constant.DeclaringClass(), constant.Name())
}

// AddStaticImportType statically imports members of the class t stands for.
func (b *Builder) AddStaticImportType(t ClassNamer, names ...string) *Builder {
	if t == nil {
		return b.fail(errors.NewInvalidArgumentf("type == nil"))
	}
	return b.AddStaticImport(t.ClassName(), names...)
}

// AddStaticImport statically imports members of cn; "*" imports all of them.
func (b *Builder) AddStaticImport(cn *ClassName, names ...string) *Builder {
	if cn == nil {
		return b.fail(errors.NewInvalidArgumentf("className == nil"))
	}
	if len(names) == 0 {
		return b.fail(errors.NewInvalidArgumentf("names array is empty"))
	}
	for _, name := range names {
		if name == "" {
			return b.fail(errors.NewInvalidArgumentf("null entry in names array: %v", names))
		}
	}
	for _, name := range names {
		b.staticImports[cn.canonicalName+"."+name] = struct{}{}
	}
	return b
}

// SkipJavaLangImports leaves java.lang classes unimported when set. A class
// whose simple name clashes with a java.lang class can then be ambiguous.
func (b *Builder) SkipJavaLangImports(skip bool) *Builder {
	b.skipJavaLangImports = skip
	return b
}

// Indent sets the indent unit. Characters other than space and tab are dropped.
func (b *Builder) Indent(indent string) *Builder {
	b.indent = strings.Map(func(r rune) rune {
		if IndentChar(r).valid() {
			return r
		}
		return -1
	}, indent)
	return b
}

// IndentCount sets the indent unit to n copies of the selected indent character.
func (b *Builder) IndentCount(n int) *Builder {
	if n < 0 {
		return b.fail(errors.NewInvalidArgumentf("indent count must be non-negative: %d", n))
	}
	b.indent = strings.Repeat(string(rune(b.indentChar)), n)
	return b
}

// IndentWith selects c and then sets the indent unit to n copies of it.
func (b *Builder) IndentWith(n int, c IndentChar) *Builder {
	return b.IndentChar(c).IndentCount(n)
}

// IndentChar selects c as the indent character. The current indent unit keeps
// its length but every character in it becomes c.
func (b *Builder) IndentChar(c IndentChar) *Builder {
	if !c.valid() {
		return b.fail(errors.NewInvalidArgumentf("indent character must be a space or a tab: %q", rune(c)))
	}
	b.indentChar = c
	b.indent = strings.Repeat(string(rune(c)), len(b.indent))
	return b
}

// Build returns the immutable file or the first recorded error.
func (b *Builder) Build() (*JavaFile, error) {
	if b.err != nil {
		return nil, b.err
	}
	fileComment, err := b.fileComment.Build()
	if err != nil {
		return nil, err
	}
	staticImports := make([]string, 0, len(b.staticImports))
	for s := range b.staticImports {
		staticImports = append(staticImports, s)
	}
	sort.Strings(staticImports)

	return &JavaFile{
		fileComment:         fileComment,
		packageName:         b.packageName,
		typeSpec:            b.typeSpec,
		skipJavaLangImports: b.skipJavaLangImports,
		staticImports:       staticImports,
		indent:              b.indent,
	}, nil
}
