package descriptor

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/jpoet/errors"
)

func TestLoadYAML(t *testing.T) {
	path := filepath.Join("testdata", "hello.yaml")
	desc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, desc.Path)

	file, err := desc.Build(Defaults{})
	require.NoError(t, err)
	assert.Equal(t, ""+
		"package com.example.helloworld;\n"+
		"\n"+
		"import java.lang.String;\n"+
		"import java.lang.System;\n"+
		"\n"+
		"public final class HelloWorld {\n"+
		"  public static void main(String[] args) {\n"+
		"    System.out.println(\"Hello, JavaPoet!\");\n"+
		"  }\n"+
		"}\n", file.String())

	origins := file.TypeSpec().OriginatingElements()
	require.Len(t, origins, 1)
	assert.Equal(t, path, origins[0].String())
}

func TestLoadTOML(t *testing.T) {
	desc, err := Load(filepath.Join("testdata", "roshambo.toml"))
	require.NoError(t, err)

	file, err := desc.Build(Defaults{})
	require.NoError(t, err)
	assert.Equal(t, ""+
		"package com.squareup.tacos;\n"+
		"\n"+
		"public enum Roshambo {\n"+
		"  ROCK(\"fist\"),\n"+
		"\n"+
		"  PAPER(\"flat palm\") {\n"+
		"    @Override\n"+
		"    public String toString() {\n"+
		"      return \"paper airplane!\";\n"+
		"    }\n"+
		"  };\n"+
		"\n"+
		"  private final String handPosition;\n"+
		"\n"+
		"  Roshambo(String handPosition) {\n"+
		"    this.handPosition = handPosition;\n"+
		"  }\n"+
		"}\n", file.String())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "unknown_key.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = Load(filepath.Join("testdata", "notes.txt"))
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = Load(filepath.Join("testdata", "missing.yaml"))
	require.Error(t, err)
	assert.False(t, errors.IsInvalidArgument(err))
}

func TestDecodeTOMLRejectsUnknownKeys(t *testing.T) {
	_, err := DecodeTOML([]byte("package = \"a\"\ncolour = \"red\"\n[type]\nname = \"C\"\n"))
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
	assert.Contains(t, err.Error(), "colour")
}

func TestDecodeRequiresType(t *testing.T) {
	_, err := DecodeYAML([]byte("package: a.b\n"))
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = DecodeYAML([]byte("package: a.b\ntype:\n  kind: class\n"))
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

const counterYAML = `
package: com.squareup.tacos
indent_char: tab
indent_count: 1
file_comment: "Generated by jpoet."
static_imports:
  - class: java.lang.Math
    members: [max]
type:
  name: Counter
  type_variables:
    - {name: T, bounds: ["Comparable<T>"]}
  fields:
    - name: items
      type: "java.util.List<T>"
      modifiers: [private, final]
      initializer: {format: "new $T<>()", args: [{type: java.util.ArrayList}]}
  methods:
    - name: count
      returns: int
      parameters: [{name: limit, type: int}]
      body:
        - statement: "int total = 0"
        - begin: "for (int i = 0; i < $L; i++)"
          args: [{literal: 3}]
        - statement: "total = $T.max(total, i)"
          args: [{type: Math}]
        - end: true
        - statement: "return total"
`

func TestBuildCodeAndSettings(t *testing.T) {
	desc, err := DecodeYAML([]byte(counterYAML))
	require.NoError(t, err)

	file, err := desc.Build(Defaults{IndentCount: 4, FileComment: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, ""+
		"// Generated by jpoet.\n"+
		"package com.squareup.tacos;\n"+
		"\n"+
		"import static java.lang.Math.max;\n"+
		"\n"+
		"import java.lang.Comparable;\n"+
		"import java.util.ArrayList;\n"+
		"import java.util.List;\n"+
		"\n"+
		"class Counter<T extends Comparable<T>> {\n"+
		"\tprivate final List<T> items = new ArrayList<>();\n"+
		"\n"+
		"\tint count(int limit) {\n"+
		"\t\tint total = 0;\n"+
		"\t\tfor (int i = 0; i < 3; i++) {\n"+
		"\t\t\ttotal = max(total, i);\n"+
		"\t\t}\n"+
		"\t\treturn total;\n"+
		"\t}\n"+
		"}\n", file.String())
}

func TestBuildAppliesDefaults(t *testing.T) {
	desc, err := DecodeYAML([]byte("package: a\ntype:\n  name: C\n  fields:\n    - {name: s, type: String}\n"))
	require.NoError(t, err)

	file, err := desc.Build(Defaults{
		IndentCount:         1,
		IndentChar:          "tab",
		SkipJavaLangImports: true,
		FileComment:         "Do not edit.",
	})
	require.NoError(t, err)
	assert.Equal(t, ""+
		"// Do not edit.\n"+
		"package a;\n"+
		"\n"+
		"class C {\n"+
		"\tString s;\n"+
		"}\n", file.String())
}

func TestBuildAnnotationsAndArgs(t *testing.T) {
	src := `
package: a
skip_java_lang_imports: true
type:
  kind: interface
  name: Api
  modifiers: [public]
  annotations:
    - type: SuppressWarnings
      members:
        - {name: value, format: "$S", args: [{string: unchecked}]}
  fields:
    - name: NAME
      type: String
      modifiers: [public, static, final]
      initializer: {format: "$S", args: [{"null": true}]}
  methods:
    - name: find
      modifiers: [public, abstract]
      returns: "java.util.Optional<T>"
      type_variables: [{name: T}]
      parameters: [{name: id, type: long, modifiers: [final]}]
      exceptions: [java.io.IOException]
`
	desc, err := DecodeYAML([]byte(src))
	require.NoError(t, err)

	file, err := desc.Build(Defaults{})
	require.NoError(t, err)
	assert.Equal(t, ""+
		"package a;\n"+
		"\n"+
		"import java.io.IOException;\n"+
		"import java.util.Optional;\n"+
		"\n"+
		"@SuppressWarnings(\"unchecked\")\n"+
		"public interface Api {\n"+
		"  String NAME = null;\n"+
		"\n"+
		"  <T> Optional<T> find(final long id) throws IOException;\n"+
		"}\n", file.String())
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown kind", "type: {kind: record, name: R}"},
		{"unknown modifier", "type: {name: C, modifiers: [sealed]}"},
		{"bad field type", "type: {name: C, fields: [{name: f, type: 'List<'}]}"},
		{"empty argument", "type: {name: C, fields: [{name: f, type: int, initializer: {format: '$L', args: [{}]}}]}"},
		{"empty step", "type: {name: C, methods: [{name: m, body: [{}]}]}"},
		{"bad indent char", "indent_char: x\ntype: {name: C}"},
		{"enum without constants", "type: {kind: enum, name: E}"},
		{"static import of primitive", "static_imports: [{class: int, members: [x]}]\ntype: {name: C}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, err := DecodeYAML([]byte(tt.src))
			require.NoError(t, err)
			_, err = desc.Build(Defaults{})
			require.Error(t, err)
			assert.True(t, errors.IsInvalidArgument(err), "%v", err)
		})
	}
}
