package am

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/jpoet/errors"
)

func TestLoad_Defaults(t *testing.T) {
	// Create isolated viper instance without loading user/system config
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	if err != nil {
		t.Fatalf("LoadWithViper() failed: %v", err)
	}

	if cfg.Render.IndentCount != 2 {
		t.Errorf("expected default indent count 2, got %d", cfg.Render.IndentCount)
	}
	if cfg.Render.IndentChar != IndentSpace {
		t.Errorf("expected default indent char %q, got %q", IndentSpace, cfg.Render.IndentChar)
	}
	if cfg.Output.Sink != SinkStdout {
		t.Errorf("expected default sink %q, got %q", SinkStdout, cfg.Output.Sink)
	}
	if cfg.Watch.DebounceMS != 250 {
		t.Errorf("expected default debounce 250, got %d", cfg.Watch.DebounceMS)
	}

	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "zero config is valid", config: Config{}},
		{name: "zero indent count is valid (default width)", config: Config{Render: RenderConfig{IndentCount: 0}}},
		{name: "negative indent count is invalid", config: Config{Render: RenderConfig{IndentCount: -1}}, wantErr: true},
		{name: "tab indent is valid", config: Config{Render: RenderConfig{IndentChar: IndentTab}}},
		{name: "unknown indent char is invalid", config: Config{Render: RenderConfig{IndentChar: "x"}}, wantErr: true},
		{name: "dir sink with dir", config: Config{Output: OutputConfig{Sink: SinkDir, Dir: "gen"}}},
		{name: "dir sink without dir", config: Config{Output: OutputConfig{Sink: SinkDir}}, wantErr: true},
		{name: "filer sink with url", config: Config{Output: OutputConfig{Sink: SinkFiler, URL: "mem://localhost/gen"}}},
		{name: "filer sink without url", config: Config{Output: OutputConfig{Sink: SinkFiler}}, wantErr: true},
		{name: "unknown sink", config: Config{Output: OutputConfig{Sink: "ftp"}}, wantErr: true},
		{name: "negative verbosity", config: Config{Log: LogConfig{Verbosity: -1}}, wantErr: true},
		{name: "zero debounce is valid", config: Config{Watch: WatchConfig{DebounceMS: 0}}},
		{name: "negative debounce", config: Config{Watch: WatchConfig{DebounceMS: -5}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				assert.True(t, errors.IsInvalidArgument(err))
			}
		})
	}
}

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	tests := []struct {
		key      string
		expected interface{}
	}{
		{"render.indent_count", 2},
		{"render.indent_char", IndentSpace},
		{"render.skip_java_lang_imports", false},
		{"output.sink", SinkStdout},
		{"output.dir", "src/main/java"},
		{"log.json", false},
		{"watch.debounce_ms", 250},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got := v.Get(tt.key)
			if got != tt.expected {
				t.Errorf("default %s = %v, want %v", tt.key, got, tt.expected)
			}
		})
	}
}

func TestFindProjectConfig(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("walks up to the nearest jpoet.toml", func(t *testing.T) {
		root := filepath.Join(tmpDir, "walk")
		subDir := filepath.Join(root, "a", "b")
		require.NoError(t, os.MkdirAll(subDir, DefaultDirPermissions))
		require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), nil, DefaultFilePermissions))

		assert.Equal(t, filepath.Join(root, ConfigFileName), findProjectConfig(subDir))
	})

	t.Run("nearest wins", func(t *testing.T) {
		root := filepath.Join(tmpDir, "nearest")
		inner := filepath.Join(root, "inner")
		require.NoError(t, os.MkdirAll(inner, DefaultDirPermissions))
		require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), nil, DefaultFilePermissions))
		require.NoError(t, os.WriteFile(filepath.Join(inner, ConfigFileName), nil, DefaultFilePermissions))

		assert.Equal(t, filepath.Join(inner, ConfigFileName), findProjectConfig(inner))
	})

	t.Run("directory named jpoet.toml is ignored", func(t *testing.T) {
		root := filepath.Join(tmpDir, "dirnamed")
		require.NoError(t, os.MkdirAll(filepath.Join(root, ConfigFileName), DefaultDirPermissions))

		result := findProjectConfig(root)
		assert.NotEqual(t, filepath.Join(root, ConfigFileName), result)
	})
}

func TestLoadMergesFilesAndEnv(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, project)

	userPath := filepath.Join(home, UserConfigDir, ConfigFileName)
	require.NoError(t, os.MkdirAll(filepath.Dir(userPath), DefaultDirPermissions))
	require.NoError(t, os.WriteFile(userPath, []byte(`
[render]
indent_count = 8
indent_char = "tab"

[log]
verbosity = 1
`), DefaultFilePermissions))

	require.NoError(t, os.WriteFile(filepath.Join(project, ConfigFileName), []byte(`
[render]
indent_count = 4
file_comment = "Generated."
`), DefaultFilePermissions))

	t.Setenv("JPOET_OUTPUT_DIR", "build/gen")

	Reset()
	t.Cleanup(Reset)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Render.IndentCount, "project overrides user")
	assert.Equal(t, IndentTab, cfg.Render.IndentChar, "user value survives")
	assert.Equal(t, "Generated.", cfg.Render.FileComment)
	assert.Equal(t, 1, cfg.Log.Verbosity)
	assert.Equal(t, "build/gen", cfg.Output.Dir, "env overrides everything")
	assert.Equal(t, SinkStdout, cfg.Output.Sink)

	// Cached until Reset
	again, err := Load()
	require.NoError(t, err)
	assert.Same(t, cfg, again)

	assert.Equal(t, SourceProject, ConfigSources["render.indent_count"].Source)
	assert.Equal(t, SourceUser, ConfigSources["render.indent_char"].Source)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[output]
sink = "filer"
url = "mem://localhost/gen"
`), DefaultFilePermissions))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, SinkFiler, cfg.Output.Sink)
	assert.Equal(t, "mem://localhost/gen", cfg.Output.URL)
	assert.Equal(t, 2, cfg.Render.IndentCount)

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestConfigAccessors(t *testing.T) {
	var cfg Config
	assert.Equal(t, 2, cfg.GetIndentCount())
	assert.Equal(t, IndentSpace, cfg.GetIndentChar())
	assert.Equal(t, SinkStdout, cfg.GetSink())
	assert.Equal(t, "Config{Render: {Indent: 2 space}, Output: {Sink: stdout, Dir: }}", cfg.String())
}
