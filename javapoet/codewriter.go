package javapoet

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/teranos/jpoet/errors"
)

var lineBreak = regexp.MustCompile("\r\n|[\n\v\f\r\u0085\u2028\u2029]")

// CodeWriter turns code blocks and declarations into text, tracking indentation,
// comment prefixes and which classes may be referenced by simple name.
//
// A writer over io.Discard with no imported types is an import collector: after
// emitting a file through it, SuggestedImports reports what to import.
type CodeWriter struct {
	out         io.Writer
	indent      string
	indentLevel int

	javadoc bool
	comment bool

	packageName string
	inPackage   bool
	typeStack   []*TypeSpec
	typeVars    map[string]int

	staticImportClassNames map[string]struct{}
	staticImports          map[string]struct{}
	importedTypes          map[string]*ClassName
	importableTypes        map[string]*ClassName
	referencedNames        map[string]struct{}

	trailingNewline bool
	lastChar        byte
	// statementLine is -1 outside a statement, else the line count within it.
	statementLine int

	err error
}

// NewCodeWriter returns a writer to out. importedTypes maps simple names to the
// classes they refer to; staticImports holds "Type.member" signatures.
func NewCodeWriter(out io.Writer, indent string, importedTypes map[string]*ClassName, staticImports []string) *CodeWriter {
	w := &CodeWriter{
		out:                    out,
		indent:                 indent,
		typeVars:               make(map[string]int),
		staticImportClassNames: make(map[string]struct{}),
		staticImports:          make(map[string]struct{}),
		importedTypes:          make(map[string]*ClassName, len(importedTypes)),
		importableTypes:        make(map[string]*ClassName),
		referencedNames:        make(map[string]struct{}),
		statementLine:          -1,
	}
	for name, cn := range importedTypes {
		w.importedTypes[name] = cn
	}
	for _, signature := range staticImports {
		w.staticImports[signature] = struct{}{}
		if dot := strings.LastIndexByte(signature, '.'); dot > 0 {
			w.staticImportClassNames[signature[:dot]] = struct{}{}
		}
	}
	return w
}

// NewImportCollector returns a writer that discards its output and only
// records the classes referenced while emitting.
func NewImportCollector(indent string, staticImports []string) *CodeWriter {
	return NewCodeWriter(io.Discard, indent, nil, staticImports)
}

// Err returns the first write or state error.
func (w *CodeWriter) Err() error { return w.err }

// ImportedTypes returns the import table this writer was created with.
func (w *CodeWriter) ImportedTypes() map[string]*ClassName {
	out := make(map[string]*ClassName, len(w.importedTypes))
	for k, v := range w.importedTypes {
		out[k] = v
	}
	return out
}

// SuggestedImports returns the simple name to class mapping learned while
// emitting. On a simple-name conflict the first class seen keeps the name.
// Names of same-package classes referenced by simple name are left out.
func (w *CodeWriter) SuggestedImports() map[string]*ClassName {
	out := make(map[string]*ClassName, len(w.importableTypes))
	for name, cn := range w.importableTypes {
		if _, referenced := w.referencedNames[name]; referenced {
			continue
		}
		out[name] = cn
	}
	return out
}

// sortedImports returns the import table values ordered by canonical name.
func (w *CodeWriter) sortedImports() []*ClassName {
	seen := make(map[string]struct{}, len(w.importedTypes))
	out := make([]*ClassName, 0, len(w.importedTypes))
	for _, cn := range w.importedTypes {
		if _, dup := seen[cn.canonicalName]; dup {
			continue
		}
		seen[cn.canonicalName] = struct{}{}
		out = append(out, cn)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out
}

// PushPackage scopes the writer to packageName until PopPackage.
func (w *CodeWriter) PushPackage(packageName string) {
	if w.inPackage {
		w.fail(errors.AssertionFailedf("package already set: %s", w.packageName))
		return
	}
	w.packageName = packageName
	w.inPackage = true
}

// PopPackage ends the package scope.
func (w *CodeWriter) PopPackage() {
	if !w.inPackage {
		w.fail(errors.AssertionFailedf("package not set"))
		return
	}
	w.packageName = ""
	w.inPackage = false
}

func (w *CodeWriter) pushType(t *TypeSpec) { w.typeStack = append(w.typeStack, t) }

func (w *CodeWriter) popType() { w.typeStack = w.typeStack[:len(w.typeStack)-1] }

// Emit renders format with args at the current position.
func (w *CodeWriter) Emit(format string, args ...any) error {
	w.emitf(format, args...)
	return w.err
}

// EmitComment renders block as // line comments.
func (w *CodeWriter) EmitComment(block CodeBlock) error {
	w.trailingNewline = true
	w.comment = true
	w.emitBlock(block, false)
	w.emitAndIndent("\n")
	w.comment = false
	return w.err
}

func (w *CodeWriter) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *CodeWriter) emitf(format string, args ...any) {
	if w.err != nil {
		return
	}
	block, err := CodeBlockOf(format, args...)
	if err != nil {
		w.fail(err)
		return
	}
	w.emitBlock(block, false)
}

func (w *CodeWriter) indentBy(levels int) { w.indentLevel += levels }

func (w *CodeWriter) unindentBy(levels int) {
	if w.indentLevel-levels < 0 {
		w.fail(errors.AssertionFailedf("cannot unindent %d from %d", levels, w.indentLevel))
		return
	}
	w.indentLevel -= levels
}

func (w *CodeWriter) emitJavadoc(block CodeBlock) {
	if block.IsEmpty() {
		return
	}
	w.emitAndIndent("/**\n")
	w.javadoc = true
	w.emitBlock(block, true)
	w.javadoc = false
	w.emitAndIndent(" */\n")
}

func (w *CodeWriter) emitAnnotations(annotations []*AnnotationSpec, inline bool) {
	for _, a := range annotations {
		a.emit(w, inline)
		if inline {
			w.emitAndIndent(" ")
		} else {
			w.emitAndIndent("\n")
		}
	}
}

// emitModifiers writes modifiers in declaration order, skipping implicit ones.
func (w *CodeWriter) emitModifiers(modifiers []Modifier, implicit []Modifier) {
	for _, m := range sortedModifiers(modifiers) {
		if containsModifier(implicit, m) {
			continue
		}
		w.emitAndIndent(m.String())
		w.emitAndIndent(" ")
	}
}

func (w *CodeWriter) emitTypeVariables(vars []*TypeVariableName) {
	if len(vars) == 0 {
		return
	}
	for _, v := range vars {
		w.typeVars[v.name]++
	}
	w.emitAndIndent("<")
	for i, v := range vars {
		if i > 0 {
			w.emitAndIndent(", ")
		}
		w.emitAndIndent(v.name)
		for j, bound := range v.bounds {
			if j == 0 {
				w.emitf(" extends $T", bound)
			} else {
				w.emitf(" & $T", bound)
			}
		}
	}
	w.emitAndIndent(">")
}

func (w *CodeWriter) popTypeVariables(vars []*TypeVariableName) {
	for _, v := range vars {
		if w.typeVars[v.name]--; w.typeVars[v.name] <= 0 {
			delete(w.typeVars, v.name)
		}
	}
}

func (w *CodeWriter) emitBlock(block CodeBlock, ensureTrailingNewline bool) {
	a := 0
	var deferred *ClassName
	for i, part := range block.formatParts {
		if w.err != nil {
			return
		}
		switch part {
		case "$L":
			w.emitLiteral(block.args[a])
			a++

		case "$N":
			w.emitAndIndent(block.args[a].(string))
			a++

		case "$S":
			if s, ok := block.args[a].(string); ok {
				w.emitAndIndent(stringLiteral(s, w.indent))
			} else {
				w.emitAndIndent("null")
			}
			a++

		case "$T":
			t := block.args[a].(TypeName)
			a++
			// Defer a statically imported class so "$T.member" can shorten to "member".
			if cn, ok := t.(*ClassName); ok && i+1 < len(block.formatParts) &&
				!strings.HasPrefix(block.formatParts[i+1], "$") {
				if _, static := w.staticImportClassNames[cn.canonicalName]; static {
					deferred = cn
					continue
				}
			}
			t.emit(w)

		case "$$":
			w.emitAndIndent("$")

		case "$>":
			w.indentBy(1)

		case "$<":
			w.unindentBy(1)

		case "$[":
			if w.statementLine != -1 {
				w.fail(errors.AssertionFailedf("statement enter $[ followed by statement enter $["))
				return
			}
			w.statementLine = 0

		case "$]":
			if w.statementLine == -1 {
				w.fail(errors.AssertionFailedf("statement exit $] has no matching statement enter $["))
				return
			}
			if w.statementLine > 0 {
				w.unindentBy(2)
			}
			w.statementLine = -1

		case "$W":
			w.emitAndIndent(" ")

		case "$Z":

		default:
			if deferred != nil {
				if strings.HasPrefix(part, ".") && w.emitStaticImportMember(deferred.canonicalName, part) {
					deferred = nil
					continue
				}
				deferred.emit(w)
				deferred = nil
			}
			w.emitAndIndent(part)
		}
	}
	if ensureTrailingNewline && w.lastChar != '\n' {
		w.emitAndIndent("\n")
	}
}

func (w *CodeWriter) emitStaticImportMember(canonical, part string) bool {
	member := part[1:]
	if member == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(member)
	if !isJavaIdentifierStart(first) {
		return false
	}
	explicit := canonical + "." + extractMemberName(member)
	wildcard := canonical + ".*"
	_, hasExplicit := w.staticImports[explicit]
	_, hasWildcard := w.staticImports[wildcard]
	if hasExplicit || hasWildcard {
		w.emitAndIndent(member)
		return true
	}
	return false
}

func extractMemberName(part string) string {
	for i, r := range part {
		if !isJavaIdentifierPart(r) {
			return part[:i]
		}
	}
	return part
}

func isJavaIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '$'
}

func isJavaIdentifierPart(r rune) bool {
	return isJavaIdentifierStart(r) || unicode.IsDigit(r)
}

func (w *CodeWriter) emitLiteral(o any) {
	switch v := o.(type) {
	case *TypeSpec:
		v.emit(w, "", nil)
	case *AnnotationSpec:
		v.emit(w, true)
	case CodeBlock:
		w.emitBlock(v, false)
	case nil:
		w.emitAndIndent("null")
	case string:
		w.emitAndIndent(v)
	default:
		w.emitAndIndent(fmt.Sprint(v))
	}
}

// lookupName returns the shortest name that refers to cn at this point of the
// output, and records cn as importable when it must stay qualified.
func (w *CodeWriter) lookupName(cn *ClassName) string {
	topLevelSimpleName := cn.TopLevelClassName().simpleName
	if w.typeVars[topLevelSimpleName] > 0 {
		return cn.canonicalName
	}

	// Find the shortest suffix of cn that resolves to cn, considering nested
	// types of the types being emitted and the import table.
	nameResolved := false
	for c := cn; c != nil; c = c.enclosing {
		resolved := w.resolve(c.simpleName)
		nameResolved = resolved != nil
		if resolved != nil && resolved.canonicalName == c.canonicalName {
			suffixOffset := len(c.SimpleNames()) - 1
			return strings.Join(cn.SimpleNames()[suffixOffset:], ".")
		}
	}

	// The name resolved to something else; only the qualified name is safe.
	if nameResolved {
		return cn.canonicalName
	}

	if w.inPackage && w.packageName == cn.packageName {
		w.referencedNames[topLevelSimpleName] = struct{}{}
		return strings.Join(cn.SimpleNames(), ".")
	}

	if !w.javadoc {
		w.importableType(cn)
	}
	return cn.canonicalName
}

func (w *CodeWriter) importableType(cn *ClassName) {
	if cn.packageName == "" {
		return
	}
	top := cn.TopLevelClassName()
	if _, taken := w.importableTypes[top.simpleName]; taken {
		return
	}
	w.importableTypes[top.simpleName] = top
}

// resolve returns the class a simple name refers to in the current scope.
func (w *CodeWriter) resolve(simpleName string) *ClassName {
	for i := len(w.typeStack) - 1; i >= 0; i-- {
		for _, nested := range w.typeStack[i].typeSpecs {
			if nested.name == simpleName {
				return w.stackClassName(i, simpleName)
			}
		}
	}

	if len(w.typeStack) > 0 && w.typeStack[0].name == simpleName {
		return ClassNameOf(w.packageName, simpleName)
	}

	if imported, ok := w.importedTypes[simpleName]; ok {
		return imported
	}
	return nil
}

func (w *CodeWriter) stackClassName(depth int, simpleName string) *ClassName {
	cn := ClassNameOf(w.packageName, w.typeStack[0].name)
	for i := 1; i <= depth; i++ {
		cn = cn.NestedClass(w.typeStack[i].name)
	}
	return cn.NestedClass(simpleName)
}

// emitAndIndent writes s, indenting each new line and adding comment prefixes.
func (w *CodeWriter) emitAndIndent(s string) {
	first := true
	for _, line := range lineBreak.Split(s, -1) {
		if !first {
			if (w.javadoc || w.comment) && w.trailingNewline {
				w.emitIndentation()
				if w.javadoc {
					w.write(" *")
				} else {
					w.write("//")
				}
			}
			w.write("\n")
			w.trailingNewline = true
			if w.statementLine != -1 {
				if w.statementLine == 0 {
					w.indentBy(2)
				}
				w.statementLine++
			}
		}
		first = false
		if line == "" {
			continue
		}

		if w.trailingNewline {
			w.emitIndentation()
			if w.javadoc {
				w.write(" * ")
			} else if w.comment {
				w.write("// ")
			}
		}
		w.write(line)
		w.trailingNewline = false
	}
}

func (w *CodeWriter) emitIndentation() {
	for i := 0; i < w.indentLevel; i++ {
		w.write(w.indent)
	}
}

func (w *CodeWriter) write(s string) {
	if w.err != nil || s == "" {
		return
	}
	if _, err := io.WriteString(w.out, s); err != nil {
		w.fail(errors.WrapIO(err, "write source"))
		return
	}
	w.lastChar = s[len(s)-1]
}
