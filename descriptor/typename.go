package descriptor

import (
	"strings"
	"unicode"

	"github.com/teranos/jpoet/errors"
	"github.com/teranos/jpoet/javapoet"
)

// javaLangTypes are the unqualified names that resolve to java.lang classes.
// Any other unqualified name is a type variable.
var javaLangTypes = map[string]bool{
	"Boolean": true, "Byte": true, "Character": true, "Class": true,
	"Double": true, "Enum": true, "Exception": true, "Float": true,
	"Integer": true, "Iterable": true, "Long": true, "Math": true,
	"Number": true, "Object": true, "Override": true, "Runnable": true,
	"RuntimeException": true, "Short": true, "String": true,
	"StringBuilder": true, "System": true, "Thread": true, "Throwable": true,
	"Void": true, "Deprecated": true, "SuppressWarnings": true,
	"FunctionalInterface": true, "IllegalArgumentException": true,
	"IllegalStateException": true, "Comparable": true, "CharSequence": true,
}

// ParseTypeName parses a Java type expression such as
// "java.util.Map<String, int[]>[]", "? extends Number", "T" or "void".
func ParseTypeName(expr string) (javapoet.TypeName, error) {
	p := &typeParser{input: expr}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, p.errorf("unexpected %q", p.input[p.pos:])
	}
	return t, nil
}

// ParseClassName parses a type expression that must name a class.
func ParseClassName(expr string) (*javapoet.ClassName, error) {
	t, err := ParseTypeName(expr)
	if err != nil {
		return nil, err
	}
	cn, ok := t.(*javapoet.ClassName)
	if !ok {
		return nil, errors.NewInvalidArgumentf("%q is not a class name", expr)
	}
	return cn, nil
}

type typeParser struct {
	input string
	pos   int
}

func (p *typeParser) errorf(format string, args ...interface{}) error {
	err := errors.NewInvalidArgumentf(format, args...)
	return errors.WithDetailf(err, "in type expression %q at offset %d", p.input, p.pos)
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) consume(s string) bool {
	p.skipSpace()
	if strings.HasPrefix(p.input[p.pos:], s) {
		p.pos += len(s)
		return true
	}
	return false
}

func (p *typeParser) parseType() (javapoet.TypeName, error) {
	if p.consume("?") {
		return p.parseWildcard()
	}

	t, err := p.parseBase()
	if err != nil {
		return nil, err
	}
	for p.consume("[") {
		if !p.consume("]") {
			return nil, p.errorf("expected ]")
		}
		if t == javapoet.Void {
			return nil, p.errorf("void cannot be an array component")
		}
		t = javapoet.ArrayOf(t)
	}
	return t, nil
}

func (p *typeParser) parseWildcard() (javapoet.TypeName, error) {
	mark := p.pos
	word := p.identifier()
	switch word {
	case "extends":
		bound, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return javapoet.SubtypeOf(bound), nil
	case "super":
		bound, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return javapoet.SupertypeOf(bound), nil
	default:
		p.pos = mark
		return javapoet.SubtypeOf(nil), nil
	}
}

func (p *typeParser) identifier() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.input) {
		r := rune(p.input[p.pos])
		if r == '_' || r == '$' || unicode.IsLetter(r) || (p.pos > start && unicode.IsDigit(r)) {
			p.pos++
			continue
		}
		break
	}
	return p.input[start:p.pos]
}

func (p *typeParser) qualifiedName() (string, error) {
	parts := []string{}
	for {
		part := p.identifier()
		if part == "" {
			return "", p.errorf("expected identifier")
		}
		parts = append(parts, part)
		if p.pos < len(p.input) && p.input[p.pos] == '.' {
			p.pos++
			continue
		}
		return strings.Join(parts, "."), nil
	}
}

func (p *typeParser) parseBase() (javapoet.TypeName, error) {
	name, err := p.qualifiedName()
	if err != nil {
		return nil, err
	}

	if !strings.Contains(name, ".") {
		if name == "void" {
			return javapoet.Void, nil
		}
		if prim := javapoet.PrimitiveByKeyword(name); prim != nil {
			return prim, nil
		}
	}

	var raw *javapoet.ClassName
	switch {
	case strings.Contains(name, "."):
		raw, err = javapoet.BestGuess(name)
		if err != nil {
			return nil, errors.WithDetailf(err, "in type expression %q", p.input)
		}
	case javaLangTypes[name]:
		raw = javapoet.ClassNameOf("java.lang", name)
	default:
		if p.consume("<") {
			return nil, p.errorf("type variable %s cannot take type arguments", name)
		}
		return javapoet.TypeVariable(name), nil
	}

	if !p.consume("<") {
		return raw, nil
	}
	var args []javapoet.TypeName
	for {
		arg, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if prim, ok := arg.(*javapoet.PrimitiveTypeName); ok {
			return nil, p.errorf("primitive %s cannot be a type argument", prim)
		}
		args = append(args, arg)
		if p.consume(",") {
			continue
		}
		if p.consume(">") {
			return javapoet.ParameterizedTypeOf(raw, args...), nil
		}
		return nil, p.errorf("expected , or >")
	}
}
