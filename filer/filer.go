// Package filer hosts generated Java sources on any storage viant/afs can
// reach (file://, mem://, s3://, gs://).
//
// A Filer plays the role of an annotation-processing filer: each qualified
// type may be created once per session, and the elements a file was derived
// from are remembered so an incremental build can tell which sources to
// regenerate when an input changes.
//
//	f := filer.New(ctx, afs.New(), "file:///tmp/gen")
//	if err := javaFile.WriteToFiler(f); err != nil {
//	    return err
//	}
//	return f.WriteManifest()
package filer

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"go.uber.org/zap"

	"github.com/teranos/jpoet/errors"
	"github.com/teranos/jpoet/javapoet"
	"github.com/teranos/jpoet/logger"
)

// Filer creates source files under a base URL.
type Filer struct {
	ctx        context.Context
	fs         afs.Service
	baseURL    string
	generation string
	logger     *zap.SugaredLogger

	mu      sync.Mutex
	sources map[string]*Source
}

var _ javapoet.Filer = (*Filer)(nil)

// New returns a Filer that stores sources below baseURL.
func New(ctx context.Context, fs afs.Service, baseURL string) *Filer {
	return &Filer{
		ctx:        ctx,
		fs:         fs,
		baseURL:    baseURL,
		generation: uuid.New().String(),
		logger:     logger.ComponentLogger("filer"),
		sources:    make(map[string]*Source),
	}
}

// Generation identifies this filer's run in the provenance manifest.
func (f *Filer) Generation() string {
	return f.generation
}

// BaseURL returns the URL sources are stored under.
func (f *Filer) BaseURL() string {
	return f.baseURL
}

// CreateSourceFile reserves the source file for the qualified type name.
// Creating the same name twice in one session is an invalid argument.
func (f *Filer) CreateSourceFile(name string, originating ...javapoet.Element) (javapoet.GeneratedSource, error) {
	if name == "" {
		return nil, errors.NewInvalidArgumentf("name is empty")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.sources[name]; ok {
		return nil, errors.NewInvalidArgumentf("attempt to recreate a file for type %s", name)
	}

	elements := make([]string, 0, len(originating))
	for _, e := range originating {
		if e != nil {
			elements = append(elements, e.String())
		}
	}

	source := &Source{
		filer:       f,
		name:        name,
		url:         url.Join(f.baseURL, SourcePath(name)),
		originating: elements,
	}
	f.sources[name] = source
	return source, nil
}

// Sources returns the sources created in this session, ordered by name.
func (f *Filer) Sources() []*Source {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*Source, 0, len(f.sources))
	for _, s := range f.sources {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// SourcePath maps a qualified type name to its path relative to the base URL.
func SourcePath(name string) string {
	return strings.ReplaceAll(name, ".", "/") + javapoet.SourceExtension
}

// Source is one generated source file.
type Source struct {
	filer       *Filer
	name        string
	url         string
	originating []string

	mu      sync.Mutex
	written bool
	deleted bool
	size    int
}

// Name returns the qualified type name.
func (s *Source) Name() string { return s.name }

// URL returns where the source is stored.
func (s *Source) URL() string { return s.url }

// Originating returns the elements the source was derived from.
func (s *Source) Originating() []string { return s.originating }

// Deleted reports whether Delete removed the source.
func (s *Source) Deleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleted
}

// OpenWriter returns a writer that buffers the content and uploads it on Close.
func (s *Source) OpenWriter() (io.WriteCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleted {
		return nil, errors.NewInvalidArgumentf("source %s was deleted", s.name)
	}
	return &uploadWriter{source: s}, nil
}

// Delete removes the stored object, if one was uploaded.
func (s *Source) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleted {
		return nil
	}
	s.deleted = true

	f := s.filer
	exists, err := f.fs.Exists(f.ctx, s.url)
	if err != nil {
		return errors.WrapIOf(err, "check %s", s.url)
	}
	if !exists {
		return nil
	}
	if err := f.fs.Delete(f.ctx, s.url); err != nil {
		return errors.WrapIOf(err, "delete %s", s.url)
	}
	f.logger.Debugw("Deleted source file", logger.FieldFile, s.name, logger.FieldURL, s.url)
	return nil
}

func (s *Source) uploaded(size int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.written = true
	s.size = size
}

type uploadWriter struct {
	source *Source
	buf    bytes.Buffer
	closed bool
}

func (w *uploadWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, errors.WrapIO(io.ErrClosedPipe, "write "+w.source.name)
	}
	return w.buf.Write(p)
}

// Close uploads the buffered content. Later calls do nothing.
func (w *uploadWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	s := w.source
	f := s.filer
	size := w.buf.Len()
	if err := f.fs.Upload(f.ctx, s.url, file.DefaultFileOsMode, &w.buf); err != nil {
		return errors.WrapIOf(err, "upload %s", s.url)
	}
	s.uploaded(size)
	f.logger.Debugw("Uploaded source file",
		logger.FieldFile, s.name,
		logger.FieldURL, s.url,
		logger.FieldSize, size)
	return nil
}
