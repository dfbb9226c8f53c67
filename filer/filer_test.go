package filer

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/url"

	"github.com/teranos/jpoet/errors"
	"github.com/teranos/jpoet/javapoet"
)

type element string

func (e element) String() string { return string(e) }

func tacoFile(t *testing.T, pkg, name string, origins ...javapoet.Element) *javapoet.JavaFile {
	t.Helper()
	b := javapoet.NewClassBuilder(name)
	for _, o := range origins {
		b.AddOriginatingElement(o)
	}
	spec, err := b.Build()
	require.NoError(t, err)
	file, err := javapoet.NewBuilder(pkg, spec).Build()
	require.NoError(t, err)
	return file
}

func TestFilerWritesSources(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	baseURL := "mem://localhost/filer/case001/"

	f := New(ctx, fs, baseURL)
	file := tacoFile(t, "com.squareup.tacos", "Taco", element("tacos.yaml"))
	require.NoError(t, file.WriteToFiler(f))

	data, err := fs.DownloadWithURL(ctx, url.Join(baseURL, "com/squareup/tacos/Taco.java"))
	require.NoError(t, err)
	assert.Equal(t, file.String(), string(data))

	sources := f.Sources()
	require.Len(t, sources, 1)
	assert.Equal(t, "com.squareup.tacos.Taco", sources[0].Name())
	assert.Equal(t, []string{"tacos.yaml"}, sources[0].Originating())
}

func TestFilerRejectsRecreate(t *testing.T) {
	f := New(context.Background(), afs.New(), "mem://localhost/filer/case002/")
	file := tacoFile(t, "com.squareup.tacos", "Taco")
	require.NoError(t, file.WriteToFiler(f))

	err := file.WriteToFiler(f)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
	assert.Contains(t, err.Error(), "com.squareup.tacos.Taco")

	_, err = f.CreateSourceFile("")
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestSourceDelete(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	baseURL := "mem://localhost/filer/case003/"
	f := New(ctx, fs, baseURL)

	created, err := f.CreateSourceFile("Taco")
	require.NoError(t, err)
	source := created.(*Source)

	// Nothing uploaded yet, so there is nothing to remove.
	pending, err := f.CreateSourceFile("Pending")
	require.NoError(t, err)
	require.NoError(t, pending.Delete())

	w, err := source.OpenWriter()
	require.NoError(t, err)
	_, err = io.WriteString(w, "class Taco {\n}\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	exists, err := fs.Exists(ctx, source.URL())
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, source.Delete())
	assert.True(t, source.Deleted())
	exists, err = fs.Exists(ctx, source.URL())
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = source.OpenWriter()
	assert.True(t, errors.IsInvalidArgument(err))
	require.NoError(t, source.Delete())
}

func TestWriterRejectsWriteAfterClose(t *testing.T) {
	f := New(context.Background(), afs.New(), "mem://localhost/filer/case004/")
	created, err := f.CreateSourceFile("a.B")
	require.NoError(t, err)

	w, err := created.OpenWriter()
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, err = w.Write([]byte("late"))
	require.Error(t, err)
	assert.True(t, errors.IsIO(err))
}

func TestManifestRoundTrip(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	baseURL := "mem://localhost/filer/case005/"
	f := New(ctx, fs, baseURL)

	require.NoError(t, tacoFile(t, "com.squareup.tacos", "Taco", element("tacos.yaml")).WriteToFiler(f))
	require.NoError(t, tacoFile(t, "com.squareup.tacos", "Salsa", element("tacos.yaml"), element("salsa.yaml")).WriteToFiler(f))
	require.NoError(t, tacoFile(t, "", "Plain").WriteToFiler(f))

	// Reserved but never written; stays out of the manifest.
	_, err := f.CreateSourceFile("com.squareup.tacos.Pending")
	require.NoError(t, err)

	require.NoError(t, f.WriteManifest())

	loaded, err := LoadManifest(ctx, fs, baseURL)
	require.NoError(t, err)
	require.Len(t, loaded.Sources, 3)
	assert.NotEmpty(t, loaded.Generation)
	assert.Equal(t, f.Generation(), loaded.Generation)
	assert.NotEqual(t, f.Generation(), New(ctx, fs, baseURL).Generation())
	assert.Equal(t, "Plain", loaded.Sources[0].Type)
	assert.Equal(t, "Plain.java", loaded.Sources[0].Path)
	assert.Empty(t, loaded.Sources[0].Originating)
	assert.Equal(t, "com.squareup.tacos.Salsa", loaded.Sources[1].Type)
	assert.Equal(t, "com/squareup/tacos/Salsa.java", loaded.Sources[1].Path)
	assert.Positive(t, loaded.Sources[1].Size)

	assert.Equal(t, []string{"com.squareup.tacos.Salsa", "com.squareup.tacos.Taco"}, loaded.Affected("tacos.yaml"))
	assert.Equal(t, []string{"com.squareup.tacos.Salsa"}, loaded.Affected("salsa.yaml"))
	assert.Empty(t, loaded.Affected("other.yaml"))
}

func TestLoadMissingManifest(t *testing.T) {
	m, err := LoadManifest(context.Background(), afs.New(), "mem://localhost/filer/case006/")
	require.NoError(t, err)
	assert.Empty(t, m.Sources)
}
