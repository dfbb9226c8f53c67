package filer

import (
	"bytes"
	"context"
	"sort"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"

	"github.com/teranos/jpoet/errors"
	"github.com/teranos/jpoet/logger"
)

// ManifestName is the provenance file stored next to the generated sources.
const ManifestName = "jpoet-provenance.yaml"

// Manifest records which elements each generated source came from.
type Manifest struct {
	// Generation is unique per filer, so consumers can tell runs apart.
	Generation string          `yaml:"generation,omitempty"`
	Sources    []ManifestEntry `yaml:"sources"`
}

// ManifestEntry describes one generated source.
type ManifestEntry struct {
	Type        string   `yaml:"type"`
	Path        string   `yaml:"path"`
	Size        int      `yaml:"size"`
	Originating []string `yaml:"originating,omitempty"`
}

// Manifest returns the provenance of every source uploaded and not deleted.
func (f *Filer) Manifest() *Manifest {
	m := &Manifest{Generation: f.generation, Sources: []ManifestEntry{}}
	for _, s := range f.Sources() {
		s.mu.Lock()
		keep := s.written && !s.deleted
		size := s.size
		s.mu.Unlock()
		if !keep {
			continue
		}
		m.Sources = append(m.Sources, ManifestEntry{
			Type:        s.name,
			Path:        SourcePath(s.name),
			Size:        size,
			Originating: s.originating,
		})
	}
	return m
}

// WriteManifest stores the manifest as YAML under the base URL.
func (f *Filer) WriteManifest() error {
	m := f.Manifest()
	data, err := yaml.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "failed to marshal provenance manifest")
	}

	target := url.Join(f.baseURL, ManifestName)
	if err := f.fs.Upload(f.ctx, target, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return errors.WrapIOf(err, "upload %s", target)
	}
	f.logger.Debugw("Wrote provenance manifest",
		logger.FieldURL, target,
		logger.FieldCount, len(m.Sources))
	return nil
}

// LoadManifest reads the manifest stored under baseURL. A missing manifest
// yields an empty one.
func LoadManifest(ctx context.Context, fs afs.Service, baseURL string) (*Manifest, error) {
	target := url.Join(baseURL, ManifestName)
	exists, err := fs.Exists(ctx, target)
	if err != nil {
		return nil, errors.WrapIOf(err, "check %s", target)
	}
	if !exists {
		return &Manifest{Sources: []ManifestEntry{}}, nil
	}

	data, err := fs.DownloadWithURL(ctx, target)
	if err != nil {
		return nil, errors.WrapIOf(err, "download %s", target)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", target)
	}
	return &m, nil
}

// Affected returns the types derived from any of the given elements, sorted.
func (m *Manifest) Affected(elements ...string) []string {
	wanted := make(map[string]bool, len(elements))
	for _, e := range elements {
		wanted[e] = true
	}

	var out []string
	for _, entry := range m.Sources {
		for _, o := range entry.Originating {
			if wanted[o] {
				out = append(out, entry.Type)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}
