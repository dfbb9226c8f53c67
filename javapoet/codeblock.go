package javapoet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/teranos/jpoet/errors"
)

// CodeBlock is a fragment of Java source with placeholders bound to arguments.
//
// Placeholders:
//
//	$L  literal, emitted as-is (nested CodeBlocks, TypeSpecs and annotations are rendered)
//	$S  string, emitted as a quoted Java string literal; nil emits null
//	$T  type, emitted through the import table
//	$N  name of a field, method, parameter or type
//	$$  a literal dollar sign
//	$>  increase indentation
//	$<  decrease indentation
//	$[  begin a statement; continuation lines get a double indent
//	$]  end a statement
//	$W  a space where the line may wrap
//	$Z  a zero-width place where the line may wrap
//
// Argument placeholders may carry a 1-based index, like $1L or $2T, to reuse an
// argument. Indexed and relative placeholders cannot be mixed in one call.
type CodeBlock struct {
	formatParts []string
	args        []any
}

// nullString marks a $S argument that renders as the null literal.
type nullString struct{}

// IsEmpty reports whether the block emits nothing.
func (c CodeBlock) IsEmpty() bool { return len(c.formatParts) == 0 }

// String renders the block with every class fully qualified.
func (c CodeBlock) String() string {
	var sb strings.Builder
	w := NewCodeWriter(&sb, defaultIndent, nil, nil)
	w.emitBlock(c, false)
	if w.err != nil {
		panic(errors.AssertionFailedf("render code block: %v", w.err))
	}
	return sb.String()
}

// ToBuilder returns a builder that starts with the contents of c.
func (c CodeBlock) ToBuilder() *CodeBlockBuilder {
	b := &CodeBlockBuilder{}
	b.formatParts = append(b.formatParts, c.formatParts...)
	b.args = append(b.args, c.args...)
	return b
}

// CodeBlockOf builds a block from a single format call.
func CodeBlockOf(format string, args ...any) (CodeBlock, error) {
	return NewCodeBlockBuilder().Add(format, args...).Build()
}

// JoinCodeBlocks concatenates blocks with separator between non-empty blocks.
func JoinCodeBlocks(blocks []CodeBlock, separator string) CodeBlock {
	b := NewCodeBlockBuilder()
	first := true
	for _, block := range blocks {
		if block.IsEmpty() {
			continue
		}
		if !first {
			b.Add("$L", separator)
		}
		b.AddBlock(block)
		first = false
	}
	block, _ := b.Build()
	return block
}

// CodeBlockBuilder accumulates format calls into a CodeBlock.
// The first invalid call is remembered and returned by Build.
type CodeBlockBuilder struct {
	formatParts []string
	args        []any
	err         error
}

// NewCodeBlockBuilder returns an empty builder.
func NewCodeBlockBuilder() *CodeBlockBuilder {
	return &CodeBlockBuilder{}
}

// IsEmpty reports whether nothing has been added.
func (b *CodeBlockBuilder) IsEmpty() bool { return len(b.formatParts) == 0 }

// Err returns the first error recorded by Add.
func (b *CodeBlockBuilder) Err() error { return b.err }

// Add parses format and appends it with its arguments.
func (b *CodeBlockBuilder) Add(format string, args ...any) *CodeBlockBuilder {
	if b.err != nil {
		return b
	}
	parts, bound, err := parseFormat(format, args)
	if err != nil {
		b.err = err
		return b
	}
	b.formatParts = append(b.formatParts, parts...)
	b.args = append(b.args, bound...)
	return b
}

// AddBlock appends a built block.
func (b *CodeBlockBuilder) AddBlock(block CodeBlock) *CodeBlockBuilder {
	b.formatParts = append(b.formatParts, block.formatParts...)
	b.args = append(b.args, block.args...)
	return b
}

// AddStatement appends format as one statement terminated by a semicolon.
func (b *CodeBlockBuilder) AddStatement(format string, args ...any) *CodeBlockBuilder {
	b.Add("$[")
	b.Add(format, args...)
	return b.Add(";\n$]")
}

// BeginControlFlow opens a block like "if (x)" and indents its body.
func (b *CodeBlockBuilder) BeginControlFlow(controlFlow string, args ...any) *CodeBlockBuilder {
	b.Add(controlFlow+" {\n", args...)
	return b.Indent()
}

// NextControlFlow closes the current block and opens another, like "else".
func (b *CodeBlockBuilder) NextControlFlow(controlFlow string, args ...any) *CodeBlockBuilder {
	b.Unindent()
	b.Add("} "+controlFlow+" {\n", args...)
	return b.Indent()
}

// EndControlFlow closes the current block.
func (b *CodeBlockBuilder) EndControlFlow() *CodeBlockBuilder {
	b.Unindent()
	return b.Add("}\n")
}

// Indent increases the indentation of subsequent lines.
func (b *CodeBlockBuilder) Indent() *CodeBlockBuilder {
	b.formatParts = append(b.formatParts, "$>")
	return b
}

// Unindent decreases the indentation of subsequent lines.
func (b *CodeBlockBuilder) Unindent() *CodeBlockBuilder {
	b.formatParts = append(b.formatParts, "$<")
	return b
}

// Build returns the block or the first recorded error.
func (b *CodeBlockBuilder) Build() (CodeBlock, error) {
	if b.err != nil {
		return CodeBlock{}, b.err
	}
	return CodeBlock{
		formatParts: append([]string(nil), b.formatParts...),
		args:        append([]any(nil), b.args...),
	}, nil
}

func isNoArgPlaceholder(c byte) bool {
	switch c {
	case '$', '>', '<', '[', ']', 'W', 'Z':
		return true
	}
	return false
}

// parseFormat splits format into literal runs and placeholders and binds each
// argument placeholder to its converted argument.
func parseFormat(format string, args []any) ([]string, []any, error) {
	var parts []string
	var bound []any
	hasRelative, hasIndexed := false, false
	relativeCount := 0
	indexedCount := make([]int, len(args))

	for p := 0; p < len(format); {
		if format[p] != '$' {
			next := strings.IndexByte(format[p+1:], '$')
			end := len(format)
			if next != -1 {
				end = p + 1 + next
			}
			parts = append(parts, format[p:end])
			p = end
			continue
		}

		p++ // '$'
		indexStart := p
		var c byte
		for {
			if p >= len(format) {
				return nil, nil, errors.NewInvalidArgumentf("dangling format characters in '%s'", format)
			}
			c = format[p]
			p++
			if c < '0' || c > '9' {
				break
			}
		}
		indexEnd := p - 1

		if isNoArgPlaceholder(c) {
			if indexStart != indexEnd {
				return nil, nil, errors.NewInvalidArgumentf("$$, $>, $<, $[, $], $W, and $Z may not have an index")
			}
			parts = append(parts, "$"+string(c))
			continue
		}

		var index int
		if indexStart < indexEnd {
			n, err := strconv.Atoi(format[indexStart:indexEnd])
			if err != nil {
				return nil, nil, errors.NewInvalidArgumentf("bad index in '%s'", format)
			}
			index = n - 1
			hasIndexed = true
			if len(args) > 0 && index >= 0 {
				indexedCount[index%len(args)]++
			}
		} else {
			index = relativeCount
			hasRelative = true
			relativeCount++
		}

		if index < 0 || index >= len(args) {
			return nil, nil, errors.NewInvalidArgumentf("index %d for '%s' not in range (received %d arguments)",
				index+1, format[indexStart-1:indexEnd+1], len(args))
		}
		if hasIndexed && hasRelative {
			return nil, nil, errors.NewInvalidArgumentf("cannot mix indexed and positional parameters")
		}

		arg, err := convertArgument(format, c, args[index])
		if err != nil {
			return nil, nil, err
		}
		parts = append(parts, "$"+string(c))
		bound = append(bound, arg)
	}

	if hasRelative && relativeCount < len(args) {
		return nil, nil, errors.NewInvalidArgumentf("unused arguments: expected %d, received %d", relativeCount, len(args))
	}
	if hasIndexed {
		var unused []string
		for i, n := range indexedCount {
			if n == 0 {
				unused = append(unused, "$"+strconv.Itoa(i+1))
			}
		}
		if len(unused) > 0 {
			plural := ""
			if len(unused) > 1 {
				plural = "s"
			}
			return nil, nil, errors.NewInvalidArgumentf("unused argument%s: %s", plural, strings.Join(unused, ", "))
		}
	}
	return parts, bound, nil
}

// Namer is implemented by declarations that $N can reference.
type Namer interface {
	Name() string
}

func convertArgument(format string, c byte, arg any) (any, error) {
	switch c {
	case 'N':
		switch v := arg.(type) {
		case string:
			return v, nil
		case Namer:
			return v.Name(), nil
		}
		return nil, errors.NewInvalidArgumentf("expected name but was %v", arg)
	case 'L':
		return arg, nil
	case 'S':
		if arg == nil {
			return nullString{}, nil
		}
		if s, ok := arg.(string); ok {
			return s, nil
		}
		return fmt.Sprint(arg), nil
	case 'T':
		switch v := arg.(type) {
		case TypeName:
			return v, nil
		case ClassNamer:
			return v.ClassName(), nil
		}
		return nil, errors.NewInvalidArgumentf("expected type but was %v", arg)
	}
	return nil, errors.NewInvalidArgumentf("invalid format string: '%s'", format)
}

// stringLiteral quotes value as a Java string literal. Embedded newlines split
// the literal into concatenated lines indented twice.
func stringLiteral(value, indent string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	runes := []rune(value)
	for i, r := range runes {
		switch r {
		case '\'':
			sb.WriteByte('\'')
		case '"':
			sb.WriteString(`\"`)
		default:
			sb.WriteString(characterLiteral(r))
		}
		if r == '\n' && i+1 < len(runes) {
			sb.WriteString("\"\n")
			sb.WriteString(indent)
			sb.WriteString(indent)
			sb.WriteString("+ \"")
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// characterLiteral escapes r for use inside a Java char or string literal.
func characterLiteral(r rune) string {
	switch r {
	case '\b':
		return `\b`
	case '\t':
		return `\t`
	case '\n':
		return `\n`
	case '\f':
		return `\f`
	case '\r':
		return `\r`
	case '"':
		return `"`
	case '\'':
		return `\'`
	case '\\':
		return `\\`
	}
	if isISOControl(r) {
		return fmt.Sprintf(`\u%04x`, r)
	}
	return string(r)
}

func isISOControl(r rune) bool {
	return r <= 0x1f || (r >= 0x7f && r <= 0x9f)
}
