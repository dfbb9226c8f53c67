package javapoet

import (
	"bufio"
	"bytes"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/teranos/jpoet/errors"
	"github.com/teranos/jpoet/logger"
)

// SourceExtension is the file name extension of generated sources.
const SourceExtension = ".java"

// WriteTo renders f into out and returns the number of bytes written.
// Errors from out are returned with their cause intact.
func (f *JavaFile) WriteTo(out io.Writer) (int64, error) {
	cw := &countingWriter{w: out}
	err := f.render(cw)
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// WriteToDir writes f under dir on the local filesystem, in the directory
// matching its package, and returns the path of the written file.
func (f *JavaFile) WriteToDir(dir string) (string, error) {
	return f.WriteToFs(afero.NewOsFs(), dir)
}

// WriteToFs writes f under dir in fs. dir may be missing but must not be a
// regular file.
func (f *JavaFile) WriteToFs(fs afero.Fs, dir string) (written string, err error) {
	info, statErr := fs.Stat(dir)
	if statErr == nil && !info.IsDir() {
		return "", errors.NewInvalidArgumentf("path %s exists but is not a directory.", dir)
	}
	if statErr != nil && !os.IsNotExist(statErr) {
		return "", errors.WrapIOf(statErr, "stat %s", dir)
	}

	outputDir := dir
	if f.packageName != "" {
		outputDir = filepath.Join(append([]string{dir}, strings.Split(f.packageName, ".")...)...)
	}
	if err := fs.MkdirAll(outputDir, 0o755); err != nil {
		return "", errors.WrapIOf(err, "create package directory %s", outputDir)
	}

	outputPath := filepath.Join(outputDir, f.typeSpec.name+SourceExtension)
	file, err := fs.Create(outputPath)
	if err != nil {
		return "", errors.WrapIOf(err, "create %s", outputPath)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = errors.WrapIOf(closeErr, "close %s", outputPath)
			written = ""
		}
	}()

	buf := bufio.NewWriter(file)
	n, err := f.WriteTo(buf)
	if err != nil {
		return "", err
	}
	if err := buf.Flush(); err != nil {
		return "", errors.WrapIOf(err, "flush %s", outputPath)
	}

	logger.Debugw("Wrote source file",
		logger.FieldFile, outputPath,
		logger.FieldType, f.typeSpec.name,
		logger.FieldSize, n,
	)
	return outputPath, nil
}

// Filer creates source files on behalf of a build host that tracks which
// elements each generated file came from.
type Filer interface {
	CreateSourceFile(name string, originating ...Element) (GeneratedSource, error)
}

// GeneratedSource is a source file created by a Filer.
type GeneratedSource interface {
	OpenWriter() (io.WriteCloser, error)
	Delete() error
}

// QualifiedName returns "pkg.Type", or the bare type name in the unnamed package.
func (f *JavaFile) QualifiedName() string {
	if f.packageName == "" {
		return f.typeSpec.name
	}
	return f.packageName + "." + f.typeSpec.name
}

// WriteToFiler creates a source file through filer and renders f into it. If
// anything fails after the file was created, the file is deleted and the
// original error is returned; a failed delete is only logged.
func (f *JavaFile) WriteToFiler(filer Filer) (err error) {
	name := f.QualifiedName()
	source, err := filer.CreateSourceFile(name, f.typeSpec.OriginatingElements()...)
	if err != nil {
		return errors.WrapIOf(err, "create source file %s", name)
	}

	defer func() {
		if err == nil {
			return
		}
		if deleteErr := source.Delete(); deleteErr != nil {
			logger.Warnw("Failed to delete partial source file",
				logger.FieldFile, name,
				logger.FieldError, err.Error(),
				logger.FieldDeleteError, deleteErr.Error(),
			)
		}
	}()

	out, err := source.OpenWriter()
	if err != nil {
		return errors.WrapIOf(err, "open writer for %s", name)
	}
	if _, err = f.WriteTo(out); err != nil {
		_ = out.Close()
		return err
	}
	if err = out.Close(); err != nil {
		return errors.WrapIOf(err, "close %s", name)
	}
	return nil
}

// FileKind classifies a FileObject.
type FileKind int

const (
	FileKindSource FileKind = iota
	FileKindOther
)

// Extension returns the file name extension of the kind.
func (k FileKind) Extension() string {
	if k == FileKindSource {
		return SourceExtension
	}
	return ""
}

// FileObject is a read-only, in-memory view of a rendered file, suitable for
// handing to a compiler without touching the filesystem.
type FileObject struct {
	file         *JavaFile
	uri          *url.URL
	lastModified time.Time
}

// ToFileObject returns a view of f. Its modification time is the time of this call.
func (f *JavaFile) ToFileObject() *FileObject {
	p := f.typeSpec.name + SourceExtension
	if f.packageName != "" {
		p = strings.ReplaceAll(f.packageName, ".", "/") + "/" + p
	}
	return &FileObject{
		file:         f,
		uri:          &url.URL{Path: p},
		lastModified: time.Now(),
	}
}

// URI returns the relative URI "pkg/path/Type.java".
func (o *FileObject) URI() *url.URL {
	u := *o.uri
	return &u
}

// Name returns the path component of the URI.
func (o *FileObject) Name() string { return o.uri.Path }

// Kind is always FileKindSource.
func (o *FileObject) Kind() FileKind { return FileKindSource }

// CharContent returns the rendered source.
func (o *FileObject) CharContent() string { return o.file.String() }

// OpenInputStream returns the rendered source as UTF-8 bytes.
func (o *FileObject) OpenInputStream() io.ReadCloser {
	return io.NopCloser(bytes.NewReader([]byte(o.CharContent())))
}

// LastModified returns the time the view was created.
func (o *FileObject) LastModified() time.Time { return o.lastModified }

// IsNameCompatible reports whether the view holds the source of simpleName.
func (o *FileObject) IsNameCompatible(simpleName string, kind FileKind) bool {
	if kind != o.Kind() {
		return false
	}
	base := simpleName + kind.Extension()
	return o.uri.Path == base || path.Base(o.uri.Path) == base
}
