package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"github.com/viant/afs/url"

	"github.com/teranos/jpoet/am"
	"github.com/teranos/jpoet/descriptor"
	"github.com/teranos/jpoet/errors"
	"github.com/teranos/jpoet/filer"
	"github.com/teranos/jpoet/javapoet"
	"github.com/teranos/jpoet/logger"
)

// Storage used by the dir and filer sinks. Tests swap in in-memory versions.
var (
	outputFs      afero.Fs    = afero.NewOsFs()
	outputStorage afs.Service = afs.New()
)

// renderFlags are the flags shared by generate, check and watch
type renderFlags struct {
	output       string
	sink         string
	skipJavaLang bool
	indent       int
}

func (f *renderFlags) register(cmd *cobra.Command, withSink bool) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output directory, or base URL for the filer sink (default: from config)")
	if withSink {
		cmd.Flags().StringVar(&f.sink, "sink", "", "Where files go: stdout, dir or filer (default: from config)")
	}
	cmd.Flags().BoolVar(&f.skipJavaLang, "skip-java-lang", false, "Do not import java.lang types")
	cmd.Flags().IntVar(&f.indent, "indent", 0, "Indent width for descriptors that do not set one")
}

// resolveConfig loads the configuration and applies the flags the user set
func (f *renderFlags) resolveConfig(cmd *cobra.Command) (*am.Config, error) {
	loaded, err := am.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	cfg := *loaded

	flags := cmd.Flags()
	if flags.Changed("sink") {
		cfg.Output.Sink = f.sink
	}
	if flags.Changed("output") {
		if cfg.GetSink() == am.SinkFiler {
			cfg.Output.URL = f.output
		} else {
			cfg.Output.Dir = f.output
			// An explicit directory means the caller wants files, not stdout
			if !flags.Changed("sink") {
				cfg.Output.Sink = am.SinkDir
			}
		}
	}
	if flags.Changed("skip-java-lang") {
		cfg.Render.SkipJavaLangImports = f.skipJavaLang
	}
	if flags.Changed("indent") {
		cfg.Render.IndentCount = f.indent
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// defaultsFor maps the render section of the configuration onto descriptor defaults
func defaultsFor(cfg *am.Config) descriptor.Defaults {
	return descriptor.Defaults{
		IndentCount:         cfg.GetIndentCount(),
		IndentChar:          cfg.GetIndentChar(),
		SkipJavaLangImports: cfg.Render.SkipJavaLangImports,
		FileComment:         cfg.Render.FileComment,
	}
}

// rendered pairs a built file with the descriptor it came from
type rendered struct {
	path string
	file *javapoet.JavaFile
}

// buildAll loads and builds every descriptor, stopping at the first failure
func buildAll(paths []string, defaults descriptor.Defaults) ([]rendered, error) {
	out := make([]rendered, 0, len(paths))
	for _, path := range paths {
		d, err := descriptor.Load(path)
		if err != nil {
			return nil, err
		}
		file, err := d.Build(defaults)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to build %s", path)
		}
		out = append(out, rendered{path: path, file: file})
	}
	return out, nil
}

// emit writes files to the sink configured in out. Stdout output separates
// files with a blank line.
func emit(ctx context.Context, stdout io.Writer, files []rendered, out am.OutputConfig) error {
	log := logger.ComponentLogger("emit")
	start := time.Now()

	switch sinkOf(out) {
	case am.SinkStdout:
		for i, r := range files {
			if i > 0 {
				if _, err := fmt.Fprintln(stdout); err != nil {
					return errors.WrapIO(err, "write separator")
				}
			}
			if _, err := r.file.WriteTo(stdout); err != nil {
				return errors.Wrapf(err, "failed to write %s", r.file.QualifiedName())
			}
		}

	case am.SinkDir:
		for _, r := range files {
			written, err := r.file.WriteToFs(outputFs, out.Dir)
			if err != nil {
				return errors.Wrapf(err, "failed to write %s", r.file.QualifiedName())
			}
			log.Infow("Wrote source file",
				logger.FieldType, r.file.QualifiedName(),
				logger.FieldDescriptor, r.path,
				logger.FieldFile, written)
		}

	case am.SinkFiler:
		f := filer.New(ctx, outputStorage, out.URL)
		for _, r := range files {
			if err := r.file.WriteToFiler(f); err != nil {
				return errors.Wrapf(err, "failed to write %s", r.file.QualifiedName())
			}
			log.Infow("Wrote source file",
				logger.FieldType, r.file.QualifiedName(),
				logger.FieldDescriptor, r.path,
				logger.FieldURL, url.Join(out.URL, filer.SourcePath(r.file.QualifiedName())))
		}
		if err := f.WriteManifest(); err != nil {
			return err
		}
	}

	log.Debugw("Emitted files",
		logger.FieldSink, sinkOf(out),
		logger.FieldCount, len(files),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return nil
}

func sinkOf(out am.OutputConfig) string {
	if out.Sink == "" {
		return am.SinkStdout
	}
	return out.Sink
}

// expectedPath is where the dir sink puts file under dir
func expectedPath(dir string, file *javapoet.JavaFile) string {
	parts := []string{dir}
	if pkg := file.PackageName(); pkg != "" {
		parts = append(parts, strings.Split(pkg, ".")...)
	}
	parts = append(parts, file.TypeSpec().Name()+javapoet.SourceExtension)
	return filepath.Join(parts...)
}
