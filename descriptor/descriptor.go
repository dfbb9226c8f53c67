// Package descriptor reads Java file descriptions from YAML or TOML and turns
// them into javapoet files.
//
// A descriptor names the package, the file-level settings and one top-level
// type. Code is written as format strings with tagged arguments:
//
//	package: com.example.helloworld
//	type:
//	  kind: class
//	  name: HelloWorld
//	  modifiers: [public, final]
//	  methods:
//	    - name: main
//	      modifiers: [public, static]
//	      parameters:
//	        - {name: args, type: "String[]"}
//	      body:
//	        - statement: "$T.out.println($S)"
//	          args: [{type: System}, {string: "Hello, JavaPoet!"}]
package descriptor

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/teranos/jpoet/errors"
)

// File describes one Java compilation unit.
type File struct {
	Package             string         `yaml:"package" toml:"package"`
	FileComment         string         `yaml:"file_comment" toml:"file_comment"`
	SkipJavaLangImports *bool          `yaml:"skip_java_lang_imports" toml:"skip_java_lang_imports"`
	Indent              *string        `yaml:"indent" toml:"indent"`
	IndentCount         *int           `yaml:"indent_count" toml:"indent_count"`
	IndentChar          string         `yaml:"indent_char" toml:"indent_char"`
	StaticImports       []StaticImport `yaml:"static_imports" toml:"static_imports"`
	Type                *Type          `yaml:"type" toml:"type"`

	// Path is where the descriptor was loaded from; it becomes the
	// originating element of the top-level type.
	Path string `yaml:"-" toml:"-"`
}

// StaticImport imports members of a class statically. "*" imports all.
type StaticImport struct {
	Class   string   `yaml:"class" toml:"class"`
	Members []string `yaml:"members" toml:"members"`
}

// Type describes a class, interface, enum or annotation type.
type Type struct {
	Kind             string         `yaml:"kind" toml:"kind"`
	Name             string         `yaml:"name" toml:"name"`
	Javadoc          string         `yaml:"javadoc" toml:"javadoc"`
	Annotations      []Annotation   `yaml:"annotations" toml:"annotations"`
	Modifiers        []string       `yaml:"modifiers" toml:"modifiers"`
	TypeVariables    []TypeVariable `yaml:"type_variables" toml:"type_variables"`
	Superclass       string         `yaml:"superclass" toml:"superclass"`
	Interfaces       []string       `yaml:"interfaces" toml:"interfaces"`
	EnumConstants    []EnumConstant `yaml:"enum_constants" toml:"enum_constants"`
	Fields           []Field        `yaml:"fields" toml:"fields"`
	StaticBlock      []Step         `yaml:"static_block" toml:"static_block"`
	InitializerBlock []Step         `yaml:"initializer_block" toml:"initializer_block"`
	Methods          []Method       `yaml:"methods" toml:"methods"`
	Types            []Type         `yaml:"types" toml:"types"`
}

// TypeVariable declares a type parameter with optional bounds.
type TypeVariable struct {
	Name   string   `yaml:"name" toml:"name"`
	Bounds []string `yaml:"bounds" toml:"bounds"`
}

// Annotation is an annotation use with ordered members.
type Annotation struct {
	Type    string   `yaml:"type" toml:"type"`
	Members []Member `yaml:"members" toml:"members"`
}

// Member is one annotation member value. Repeat a name for array values.
type Member struct {
	Name   string `yaml:"name" toml:"name"`
	Format string `yaml:"format" toml:"format"`
	Args   []Arg  `yaml:"args" toml:"args"`
}

// EnumConstant is an enum constant, optionally with constructor arguments
// and a class body.
type EnumConstant struct {
	Name    string   `yaml:"name" toml:"name"`
	Format  string   `yaml:"format" toml:"format"`
	Args    []Arg    `yaml:"args" toml:"args"`
	Javadoc string   `yaml:"javadoc" toml:"javadoc"`
	Fields  []Field  `yaml:"fields" toml:"fields"`
	Methods []Method `yaml:"methods" toml:"methods"`
}

// Field is a field declaration.
type Field struct {
	Name        string       `yaml:"name" toml:"name"`
	Type        string       `yaml:"type" toml:"type"`
	Modifiers   []string     `yaml:"modifiers" toml:"modifiers"`
	Javadoc     string       `yaml:"javadoc" toml:"javadoc"`
	Annotations []Annotation `yaml:"annotations" toml:"annotations"`
	Initializer *Code        `yaml:"initializer" toml:"initializer"`
}

// Method is a method or, with Constructor set, a constructor.
type Method struct {
	Name          string         `yaml:"name" toml:"name"`
	Constructor   bool           `yaml:"constructor" toml:"constructor"`
	Javadoc       string         `yaml:"javadoc" toml:"javadoc"`
	Annotations   []Annotation   `yaml:"annotations" toml:"annotations"`
	Modifiers     []string       `yaml:"modifiers" toml:"modifiers"`
	TypeVariables []TypeVariable `yaml:"type_variables" toml:"type_variables"`
	Returns       string         `yaml:"returns" toml:"returns"`
	Parameters    []Parameter    `yaml:"parameters" toml:"parameters"`
	Varargs       bool           `yaml:"varargs" toml:"varargs"`
	Exceptions    []string       `yaml:"exceptions" toml:"exceptions"`
	Default       *Code          `yaml:"default" toml:"default"`
	Body          []Step         `yaml:"body" toml:"body"`
}

// Parameter is a method parameter.
type Parameter struct {
	Name        string       `yaml:"name" toml:"name"`
	Type        string       `yaml:"type" toml:"type"`
	Modifiers   []string     `yaml:"modifiers" toml:"modifiers"`
	Annotations []Annotation `yaml:"annotations" toml:"annotations"`
}

// Code is a format string with its arguments.
type Code struct {
	Format string `yaml:"format" toml:"format"`
	Args   []Arg  `yaml:"args" toml:"args"`
}

// Step is one entry of a code body. Exactly one of Statement, Code, Begin,
// Next, End or Comment is set; Args apply to the format that is.
type Step struct {
	Statement string `yaml:"statement" toml:"statement"`
	Code      string `yaml:"code" toml:"code"`
	Begin     string `yaml:"begin" toml:"begin"`
	Next      string `yaml:"next" toml:"next"`
	End       bool   `yaml:"end" toml:"end"`
	Comment   string `yaml:"comment" toml:"comment"`
	Args      []Arg  `yaml:"args" toml:"args"`
}

// Arg is a tagged format argument. Exactly one field is set.
type Arg struct {
	Type    string      `yaml:"type" toml:"type"`
	Str     *string     `yaml:"string" toml:"string"`
	Literal interface{} `yaml:"literal" toml:"literal"`
	Name    string      `yaml:"name" toml:"name"`
	Null    bool        `yaml:"null" toml:"null"`
}

// Load reads a descriptor, choosing the decoder by file extension.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read descriptor %s", path)
	}

	var f *File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		f, err = DecodeYAML(data)
	case ".toml":
		f, err = DecodeTOML(data)
	default:
		return nil, errors.NewInvalidArgumentf("unsupported descriptor extension %q (want .yaml, .yml or .toml)", ext)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse descriptor %s", path)
	}
	f.Path = path
	return f, nil
}

// DecodeYAML decodes a YAML descriptor. Unknown keys are rejected.
func DecodeYAML(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, errors.NewInvalidArgumentf("invalid YAML descriptor: %v", err)
	}
	return &f, f.validate()
}

// DecodeTOML decodes a TOML descriptor. Unknown keys are rejected.
func DecodeTOML(data []byte) (*File, error) {
	var f File
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, errors.NewInvalidArgumentf("invalid TOML descriptor: %v", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.NewInvalidArgumentf("unknown TOML key %s", undecoded[0])
	}
	return &f, f.validate()
}

func (f *File) validate() error {
	if f.Type == nil {
		return errors.NewInvalidArgumentf("descriptor has no type")
	}
	if f.Type.Name == "" {
		return errors.NewInvalidArgumentf("type has no name")
	}
	return nil
}
