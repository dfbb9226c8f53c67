package am

import (
	"fmt"

	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Render defaults match javapoet's own: two spaces, java.lang imported
	v.SetDefault("render.indent_count", 2)
	v.SetDefault("render.indent_char", IndentSpace)
	v.SetDefault("render.skip_java_lang_imports", false)
	v.SetDefault("render.file_comment", "")

	// Output defaults
	v.SetDefault("output.sink", SinkStdout)
	v.SetDefault("output.dir", "src/main/java")
	v.SetDefault("output.url", "")

	// Log defaults
	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)

	// Watch defaults
	v.SetDefault("watch.debounce_ms", 250)
}

// BindEnvVars explicitly binds settings that are commonly overridden per run
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("output.dir", EnvPrefix+"_OUTPUT_DIR")
	v.BindEnv("output.sink", EnvPrefix+"_OUTPUT_SINK")
	v.BindEnv("output.url", EnvPrefix+"_OUTPUT_URL")
	v.BindEnv("log.verbosity", EnvPrefix+"_LOG_VERBOSITY")
}

// GetIndentCount returns the indent width (default: 2)
func (c *Config) GetIndentCount() int {
	if c.Render.IndentCount == 0 {
		return 2
	}
	return c.Render.IndentCount
}

// GetIndentChar returns the indent character name (default: space)
func (c *Config) GetIndentChar() string {
	if c.Render.IndentChar == "" {
		return IndentSpace
	}
	return c.Render.IndentChar
}

// GetSink returns the output sink (default: stdout)
func (c *Config) GetSink() string {
	if c.Output.Sink == "" {
		return SinkStdout
	}
	return c.Output.Sink
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Render: {Indent: %d %s}, Output: {Sink: %s, Dir: %s}}",
		c.GetIndentCount(), c.GetIndentChar(), c.GetSink(), c.Output.Dir)
}
