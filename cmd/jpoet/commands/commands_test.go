package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs/url"

	"github.com/teranos/jpoet/am"
	"github.com/teranos/jpoet/errors"
	"github.com/teranos/jpoet/filer"
	"github.com/teranos/jpoet/version"
)

const helloYAML = `package: com.example.helloworld
type:
  kind: class
  name: HelloWorld
  modifiers: [public, final]
  methods:
    - name: main
      modifiers: [public, static]
      returns: void
      parameters:
        - {name: args, type: "String[]"}
      body:
        - statement: "$T.out.println($S)"
          args: [{type: System}, {string: "Hello, JavaPoet!"}]
`

const helloJava = "" +
	"package com.example.helloworld;\n" +
	"\n" +
	"import java.lang.String;\n" +
	"import java.lang.System;\n" +
	"\n" +
	"public final class HelloWorld {\n" +
	"  public static void main(String[] args) {\n" +
	"    System.out.println(\"Hello, JavaPoet!\");\n" +
	"  }\n" +
	"}\n"

// helloJavaSkipped is helloJava rendered with java.lang imports skipped
const helloJavaSkipped = "" +
	"package com.example.helloworld;\n" +
	"\n" +
	"public final class HelloWorld {\n" +
	"  public static void main(String[] args) {\n" +
	"    System.out.println(\"Hello, JavaPoet!\");\n" +
	"  }\n" +
	"}\n"

const tacoTOML = `package = "com.squareup.tacos"

[type]
kind = "class"
name = "Taco"
`

const tacoJava = "" +
	"package com.squareup.tacos;\n" +
	"\n" +
	"class Taco {\n" +
	"}\n"

func TestMain(m *testing.M) {
	// Plain text output so assertions can match diff lines
	pterm.DisableStyling()
	os.Exit(m.Run())
}

// project isolates configuration and output for one test and returns the
// project directory, which is also the working directory.
func project(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	chdir(t, dir)
	am.Reset()
	t.Cleanup(am.Reset)

	previous := outputFs
	outputFs = afero.NewMemMapFs()
	t.Cleanup(func() { outputFs = previous })
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerateToStdout(t *testing.T) {
	dir := project(t)
	hello := writeFile(t, dir, "hello.yaml", helloYAML)
	taco := writeFile(t, dir, "taco.toml", tacoTOML)

	out, err := run(t, newGenerateCmd(), hello)
	require.NoError(t, err)
	assert.Equal(t, helloJava, out)

	out, err = run(t, newGenerateCmd(), hello, taco)
	require.NoError(t, err)
	assert.Equal(t, helloJava+"\n"+tacoJava, out)
}

func TestGenerateSkipJavaLang(t *testing.T) {
	dir := project(t)
	hello := writeFile(t, dir, "hello.yaml", helloYAML)

	out, err := run(t, newGenerateCmd(), "--skip-java-lang", hello)
	require.NoError(t, err)
	assert.Equal(t, helloJavaSkipped, out)

	// Same setting from jpoet.toml
	am.Reset()
	writeFile(t, dir, am.ConfigFileName, "[render]\nskip_java_lang_imports = true\n")
	out, err = run(t, newGenerateCmd(), hello)
	require.NoError(t, err)
	assert.Equal(t, helloJavaSkipped, out)
}

func TestGenerateToDir(t *testing.T) {
	dir := project(t)
	hello := writeFile(t, dir, "hello.yaml", helloYAML)

	out, err := run(t, newGenerateCmd(), "-o", "gen", hello)
	require.NoError(t, err)
	assert.Empty(t, out, "nothing printed when writing files")

	data, err := afero.ReadFile(outputFs, filepath.Join("gen", "com", "example", "helloworld", "HelloWorld.java"))
	require.NoError(t, err)
	assert.Equal(t, helloJava, string(data))
}

func TestGenerateToFiler(t *testing.T) {
	dir := project(t)
	hello := writeFile(t, dir, "hello.yaml", helloYAML)
	taco := writeFile(t, dir, "taco.toml", tacoTOML)
	baseURL := "mem://localhost/commands/generate/"

	_, err := run(t, newGenerateCmd(), "--sink", "filer", "-o", baseURL, hello, taco)
	require.NoError(t, err)

	ctx := context.Background()
	data, err := outputStorage.DownloadWithURL(ctx, url.Join(baseURL, "com/example/helloworld/HelloWorld.java"))
	require.NoError(t, err)
	assert.Equal(t, helloJava, string(data))

	manifest, err := filer.LoadManifest(ctx, outputStorage, baseURL)
	require.NoError(t, err)
	require.Len(t, manifest.Sources, 2)
	assert.Equal(t, "com.example.helloworld.HelloWorld", manifest.Sources[0].Type)
	assert.Equal(t, []string{hello}, manifest.Sources[0].Originating)
	assert.Equal(t, "com.squareup.tacos.Taco", manifest.Sources[1].Type)
	assert.Equal(t, []string{"com.squareup.tacos.Taco"}, manifest.Affected(taco))
}

func TestGenerateFlagsOverrideConfig(t *testing.T) {
	dir := project(t)
	writeFile(t, dir, am.ConfigFileName, `
[render]
indent_count = 8
file_comment = "Generated by jpoet."
`)
	hello := writeFile(t, dir, "hello.yaml", helloYAML)

	out, err := run(t, newGenerateCmd(), hello)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "// Generated by jpoet.\n"), out)
	assert.Contains(t, out, "\n        public static void main")

	am.Reset()
	out, err = run(t, newGenerateCmd(), "--indent", "4", hello)
	require.NoError(t, err)
	assert.Contains(t, out, "\n    public static void main")
	assert.Contains(t, out, "\n        System.out.println")
}

func TestGenerateErrors(t *testing.T) {
	dir := project(t)
	hello := writeFile(t, dir, "hello.yaml", helloYAML)

	t.Run("unknown sink", func(t *testing.T) {
		_, err := run(t, newGenerateCmd(), "--sink", "ftp", hello)
		require.Error(t, err)
		assert.True(t, errors.IsInvalidArgument(err))
	})

	t.Run("missing descriptor", func(t *testing.T) {
		_, err := run(t, newGenerateCmd(), filepath.Join(dir, "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("no descriptors", func(t *testing.T) {
		_, err := run(t, newGenerateCmd())
		assert.Error(t, err)
	})

	t.Run("broken descriptor", func(t *testing.T) {
		broken := writeFile(t, dir, "broken.yaml", "type:\n  name: Broken\n  fields:\n    - {name: x, type: \"List<>\"}\n")
		_, err := run(t, newGenerateCmd(), broken)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken.yaml")
	})
}

func TestCheck(t *testing.T) {
	dir := project(t)
	hello := writeFile(t, dir, "hello.yaml", helloYAML)
	taco := writeFile(t, dir, "taco.toml", tacoTOML)

	_, err := run(t, newGenerateCmd(), "-o", "gen", hello, taco)
	require.NoError(t, err)

	out, err := run(t, newCheckCmd(), "-o", "gen", hello, taco)
	require.NoError(t, err)
	assert.Empty(t, out)

	tacoPath := filepath.Join("gen", "com", "squareup", "tacos", "Taco.java")
	require.NoError(t, afero.WriteFile(outputFs, tacoPath, []byte("package com.squareup.tacos;\n\nclass Burrito {\n}\n"), 0o644))
	require.NoError(t, outputFs.Remove(filepath.Join("gen", "com", "example", "helloworld", "HelloWorld.java")))

	out, err = run(t, newCheckCmd(), "-o", "gen", hello, taco)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 2 generated files are out of date")
	assert.Contains(t, out, "missing "+filepath.Join("gen", "com", "example", "helloworld", "HelloWorld.java"))
	assert.Contains(t, out, "stale "+tacoPath)
	assert.Contains(t, out, "- class Burrito {\n")
	assert.Contains(t, out, "+ class Taco {\n")
	assert.Contains(t, out, "  package com.squareup.tacos;\n")
}

func TestLineDiff(t *testing.T) {
	assert.Equal(t, "  a\n- b\n+ B\n  c\n", lineDiff("a\nb\nc\n", "a\nB\nc\n"))
	assert.Equal(t, "  a\n+ b\n", lineDiff("a\n", "a\nb\n"))
	assert.Equal(t, "  same\n", lineDiff("same\n", "same\n"))
}

func TestWatchSessionRegenerate(t *testing.T) {
	dir := project(t)
	hello := writeFile(t, dir, "hello.yaml", helloYAML)
	taco := writeFile(t, dir, "taco.toml", tacoTOML)
	configPath := writeFile(t, dir, am.ConfigFileName, "[render]\nindent_count = 2\n")

	cmd := newWatchCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	session, err := newWatchSession(context.Background(), cmd, &renderFlags{}, []string{hello, taco})
	require.NoError(t, err)
	assert.Equal(t, configPath, session.configPath)

	// A changed descriptor regenerates only itself
	require.NoError(t, session.regenerate([]string{taco}))
	assert.Equal(t, tacoJava, out.String())

	// A changed config reloads settings and regenerates everything
	out.Reset()
	require.NoError(t, os.WriteFile(configPath, []byte("[render]\nindent_count = 4\n"), 0o644))
	require.NoError(t, session.regenerate([]string{configPath}))
	assert.Contains(t, out.String(), "\n    public static void main")
	assert.Contains(t, out.String(), "class Taco {\n")

	// A broken descriptor is reported, not fatal
	require.NoError(t, os.WriteFile(taco, []byte("package = \"x\"\n"), 0o644))
	assert.Error(t, session.regenerate([]string{taco}))
}

func TestWatchSessionExec(t *testing.T) {
	dir := project(t)
	taco := writeFile(t, dir, "taco.toml", tacoTOML)

	cmd := newWatchCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})

	session, err := newWatchSession(context.Background(), cmd, &renderFlags{}, []string{taco})
	require.NoError(t, err)
	assert.Empty(t, session.configPath)

	require.NoError(t, session.setExec(`sh -c 'echo "compiled $0"' tacos`))
	assert.Equal(t, []string{"sh", "-c", `echo "compiled $0"`, "tacos"}, session.exec)

	require.NoError(t, session.regenerate([]string{taco}))
	assert.Equal(t, tacoJava+"compiled tacos\n", out.String())

	require.NoError(t, session.setExec("sh -c 'exit 3'"))
	assert.Error(t, session.regenerate([]string{taco}))

	err = session.setExec(`echo "unterminated`)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))

	require.NoError(t, session.setExec("  "))
	assert.Nil(t, session.exec)
}

func TestAmShow(t *testing.T) {
	dir := project(t)
	writeFile(t, dir, am.ConfigFileName, "[output]\nsink = \"dir\"\ndir = \"gen\"\n")

	out, err := run(t, newAmCmd(), "show", "--format", "json")
	require.NoError(t, err)

	var cfg am.Config
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, am.SinkDir, cfg.Output.Sink)
	assert.Equal(t, "gen", cfg.Output.Dir)
	assert.Equal(t, 2, cfg.Render.IndentCount)

	out, err = run(t, newAmCmd(), "show")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# jpoet configuration\n"))
	assert.Contains(t, out, "[output]")

	out, err = run(t, newAmCmd(), "show", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "sink: dir")

	out, err = run(t, newAmCmd(), "show", "--sources")
	require.NoError(t, err)
	assert.Contains(t, out, "output.sink")
	assert.Contains(t, out, "[project] "+filepath.Join(dir, am.ConfigFileName))
	assert.Contains(t, out, "[default] built-in default")

	_, err = run(t, newAmCmd(), "show", "--format", "xml")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestAmInitAndValidate(t *testing.T) {
	dir := project(t)

	out, err := run(t, newAmCmd(), "init")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, am.ConfigFileName))

	_, err = run(t, newAmCmd(), "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	am.Reset()
	out, err = run(t, newAmCmd(), "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")

	writeFile(t, dir, am.ConfigFileName, "[output]\nsink = \"filer\"\n")
	am.Reset()
	_, err = run(t, newAmCmd(), "validate")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestVersion(t *testing.T) {
	out, err := run(t, newVersionCmd(), "--json")
	require.NoError(t, err)

	var info version.Info
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.NotEmpty(t, info.GoVersion)
	assert.NotEmpty(t, info.Platform)

	out, err = run(t, newVersionCmd())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "jpoet "))
	assert.Contains(t, out, "Platform: ")
}
