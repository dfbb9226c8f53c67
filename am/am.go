// Package am holds the jpoet configuration: how files are rendered, where they
// go, how the CLI logs and how the watcher debounces.
//
// Values merge from built-in defaults, /etc/jpoet/jpoet.toml,
// ~/.jpoet/jpoet.toml, the nearest jpoet.toml above the working directory and
// JPOET_* environment variables, in increasing precedence.
package am

// Config represents the jpoet configuration
type Config struct {
	Render RenderConfig `mapstructure:"render" toml:"render" yaml:"render" json:"render"`
	Output OutputConfig `mapstructure:"output" toml:"output" yaml:"output" json:"output"`
	Log    LogConfig    `mapstructure:"log" toml:"log" yaml:"log" json:"log"`
	Watch  WatchConfig  `mapstructure:"watch" toml:"watch" yaml:"watch" json:"watch"`
}

// RenderConfig holds file settings used when a descriptor leaves them unset
type RenderConfig struct {
	// Indent units per level (default: 2)
	IndentCount int `mapstructure:"indent_count" toml:"indent_count" yaml:"indent_count" json:"indent_count"`
	// space or tab
	IndentChar          string `mapstructure:"indent_char" toml:"indent_char" yaml:"indent_char" json:"indent_char"`
	SkipJavaLangImports bool   `mapstructure:"skip_java_lang_imports" toml:"skip_java_lang_imports" yaml:"skip_java_lang_imports" json:"skip_java_lang_imports"`
	// Leading // comment, empty for none
	FileComment string `mapstructure:"file_comment" toml:"file_comment" yaml:"file_comment" json:"file_comment"`
}

// OutputConfig says where rendered files go
type OutputConfig struct {
	// stdout, dir or filer
	Sink string `mapstructure:"sink" toml:"sink" yaml:"sink" json:"sink"`
	// Root directory for the dir sink
	Dir string `mapstructure:"dir" toml:"dir" yaml:"dir" json:"dir"`
	// Base URL for the filer sink (file://, mem://, s3://, gs://)
	URL string `mapstructure:"url" toml:"url" yaml:"url" json:"url"`
}

// LogConfig configures the CLI logger
type LogConfig struct {
	JSON bool `mapstructure:"json" toml:"json" yaml:"json" json:"json"`
	// 0 = warn, 1 = info, 2+ = debug
	Verbosity int `mapstructure:"verbosity" toml:"verbosity" yaml:"verbosity" json:"verbosity"`
}

// WatchConfig configures the descriptor watcher
type WatchConfig struct {
	// Quiet period before regenerating
	DebounceMS int `mapstructure:"debounce_ms" toml:"debounce_ms" yaml:"debounce_ms" json:"debounce_ms"`
}

// Output sinks
const (
	SinkStdout = "stdout"
	SinkDir    = "dir"
	SinkFiler  = "filer"
)

// Indent characters
const (
	IndentSpace = "space"
	IndentTab   = "tab"
)

// Config file names
const (
	ConfigFileName = "jpoet.toml"
	UserConfigDir  = ".jpoet"
	SystemConfig   = "/etc/jpoet/jpoet.toml"
	EnvPrefix      = "JPOET"
)

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)
