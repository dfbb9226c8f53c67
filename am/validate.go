package am

import "github.com/teranos/jpoet/errors"

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Indent count: 0 = default width, negative = invalid
	if c.Render.IndentCount < 0 {
		return errors.NewInvalidArgumentf("render.indent_count must be >= 0, got %d", c.Render.IndentCount)
	}

	switch c.Render.IndentChar {
	case "", IndentSpace, IndentTab:
	default:
		return errors.NewInvalidArgumentf("render.indent_char must be %q or %q, got %q", IndentSpace, IndentTab, c.Render.IndentChar)
	}

	switch c.Output.Sink {
	case "", SinkStdout:
	case SinkDir:
		if c.Output.Dir == "" {
			return errors.NewInvalidArgumentf("output.dir cannot be empty when output.sink is %q", SinkDir)
		}
	case SinkFiler:
		if c.Output.URL == "" {
			return errors.NewInvalidArgumentf("output.url cannot be empty when output.sink is %q", SinkFiler)
		}
	default:
		return errors.NewInvalidArgumentf("output.sink must be one of stdout, dir, filer; got %q", c.Output.Sink)
	}

	if c.Log.Verbosity < 0 {
		return errors.NewInvalidArgumentf("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}

	// Debounce: 0 = regenerate on every event, negative = invalid
	if c.Watch.DebounceMS < 0 {
		return errors.NewInvalidArgumentf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}

	return nil
}
