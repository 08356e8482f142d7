// Package artifact resolves the pre-rendered plot images shipped with the model.
package artifact

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// ErrArtifactNotFound is returned when a requested image does not exist.
// It is not fatal: views show a "not found" message instead.
var ErrArtifactNotFound = eris.New("artifact not found")

// Plot is a global (dataset-wide) plot image.
type Plot struct {
	Name    string `yaml:"name" json:"name"`
	File    string `yaml:"file" json:"file"`
	Caption string `yaml:"caption" json:"caption"`
}

// DefaultPlots are the global plots written by the upstream SHAP job.
var DefaultPlots = []Plot{
	{Name: "beeswarm", File: "shap_beeswarm_full.png", Caption: "SHAP Beeswarm - Full Data"},
	{Name: "global_bar", File: "shap_global_bar_full.png", Caption: "SHAP Global Bar - Feature Importance"},
}

// Options configures a Catalog.
type Options struct {
	Dir             string
	WaterfallPrefix string
	WaterfallSuffix string
	Manifest        string // optional YAML file listing global plots
}

// Catalog maps plot names and provider indices to files under one
// reports directory.
type Catalog struct {
	dir    string
	prefix string
	suffix string
	plots  []Plot
	byName map[string]Plot
}

type manifest struct {
	Plots []Plot `yaml:"plots"`
}

// NewCatalog builds a Catalog. Without a manifest, DefaultPlots are used.
func NewCatalog(opts Options) (*Catalog, error) {
	plots := DefaultPlots
	if opts.Manifest != "" {
		m, err := loadManifest(opts.Manifest)
		if err != nil {
			return nil, err
		}
		plots = m.Plots
	}

	c := &Catalog{
		dir:    opts.Dir,
		prefix: opts.WaterfallPrefix,
		suffix: opts.WaterfallSuffix,
		plots:  plots,
		byName: make(map[string]Plot, len(plots)),
	}
	for _, p := range plots {
		if p.Name == "" || p.File == "" {
			return nil, eris.Errorf("artifact: plot entry needs name and file: %+v", p)
		}
		if filepath.Base(p.File) != p.File {
			return nil, eris.Errorf("artifact: plot file %q must be a bare file name", p.File)
		}
		if _, dup := c.byName[p.Name]; dup {
			return nil, eris.Errorf("artifact: duplicate plot name %q", p.Name)
		}
		c.byName[p.Name] = p
	}
	return c, nil
}

func loadManifest(path string) (*manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "artifact: read manifest")
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, eris.Wrap(err, "artifact: parse manifest")
	}
	return &m, nil
}

// Dir returns the reports directory.
func (c *Catalog) Dir() string {
	return c.dir
}

// Global returns the global plots in manifest order.
func (c *Catalog) Global() []Plot {
	return c.plots
}

// Plot returns the named global plot.
func (c *Catalog) Plot(name string) (Plot, bool) {
	p, ok := c.byName[name]
	return p, ok
}

// GlobalPath returns the file path of a global plot, or ErrArtifactNotFound
// when the name is unknown or the file is missing.
func (c *Catalog) GlobalPath(name string) (string, error) {
	p, ok := c.byName[name]
	if !ok {
		return "", eris.Wrapf(ErrArtifactNotFound, "global plot %q", name)
	}
	path := filepath.Join(c.dir, p.File)
	if !exists(path) {
		return "", eris.Wrapf(ErrArtifactNotFound, "global plot %q", name)
	}
	return path, nil
}

// MissingGlobal lists global plots whose file does not exist.
func (c *Catalog) MissingGlobal() []Plot {
	var out []Plot
	for _, p := range c.plots {
		if !exists(filepath.Join(c.dir, p.File)) {
			out = append(out, p)
		}
	}
	return out
}

// WaterfallFile returns the file name of the per-provider waterfall plot
// for a positional index: prefix + index + suffix.
func (c *Catalog) WaterfallFile(index int) string {
	return c.prefix + strconv.Itoa(index) + c.suffix
}

// Waterfall returns the path of the waterfall plot for index, or
// ErrArtifactNotFound when no image was rendered for it.
func (c *Catalog) Waterfall(index int) (string, error) {
	if index < 0 {
		return "", eris.Wrapf(ErrArtifactNotFound, "waterfall plot %d", index)
	}
	path := filepath.Join(c.dir, c.WaterfallFile(index))
	if !exists(path) {
		return "", eris.Wrapf(ErrArtifactNotFound, "waterfall plot %d", index)
	}
	return path, nil
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
