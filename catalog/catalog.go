// Package catalog provides colouring templates: the built-in car, flower
// and butterfly pictures, and loading of further template sets described
// by a YAML manifest.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"path"
	"strings"
	"sync"

	"golang.org/x/image/draw"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/colorbook"
	"github.com/gogpu/colorbook/export"
	"github.com/gogpu/colorbook/vector"
)

//go:embed templates
var builtin embed.FS

// ManifestName is the manifest file name of the built-in catalog.
const ManifestName = "templates/catalog.yaml"

// ErrNotFound is returned when a template id is not in the catalog.
var ErrNotFound = errors.New("catalog: template not found")

// Template describes one colouring template.
type Template struct {
	// ID is the stable identifier, e.g. "flower".
	ID string `yaml:"id"`
	// Name is the display name, e.g. "Pretty Flower".
	Name string `yaml:"name"`
	// Preview is a reference to a preview picture.
	Preview string `yaml:"preview"`
	// File is the document path relative to the manifest.
	File string `yaml:"file"`
	// Document is the SVG markup.
	Document string `yaml:"-"`
}

// Parse parses the template's document.
func (t Template) Parse(opts ...vector.ParseOption) (*vector.Template, error) {
	return vector.Parse(strings.NewReader(t.Document), opts...)
}

type manifest struct {
	Templates []Template `yaml:"templates"`
}

// Catalog is an ordered, read-only set of templates. It is safe for
// concurrent use.
type Catalog struct {
	templates []Template
	byID      map[string]int
}

// Load reads a YAML manifest from fsys and the documents it lists. Each
// entry needs an id, a name and a file; ids must be unique.
func Load(fsys fs.FS, manifestPath string) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, manifestPath)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", manifestPath, err)
	}

	c := &Catalog{byID: make(map[string]int, len(m.Templates))}
	dir := path.Dir(manifestPath)
	for i, t := range m.Templates {
		if t.ID == "" || t.Name == "" || t.File == "" {
			return nil, fmt.Errorf("catalog: %s: entry %d needs id, name and file", manifestPath, i)
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("catalog: %s: duplicate id %q", manifestPath, t.ID)
		}
		doc, err := fs.ReadFile(fsys, path.Join(dir, t.File))
		if err != nil {
			return nil, fmt.Errorf("catalog: template %q: %w", t.ID, err)
		}
		t.Document = string(doc)
		c.byID[t.ID] = len(c.templates)
		c.templates = append(c.templates, t)
	}
	colorbook.Logger().Debug("catalog: loaded", "manifest", manifestPath, "templates", len(c.templates))
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(builtin, ManifestName)
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// List returns the templates in display order.
func (c *Catalog) List() []Template {
	out := make([]Template, len(c.templates))
	copy(out, c.templates)
	return out
}

// Len returns the number of templates.
func (c *Catalog) Len() int { return len(c.templates) }

// Lookup returns the template with the given id.
func (c *Catalog) Lookup(id string) (Template, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Template{}, false
	}
	return c.templates[i], true
}

// Get is like Lookup but returns ErrNotFound for unknown ids.
func (c *Catalog) Get(id string) (Template, error) {
	t, ok := c.Lookup(id)
	if !ok {
		return Template{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return t, nil
}

// Thumbnail renders a template in its default colours, fitted inside a
// width x height box with its aspect ratio kept and centred on white.
func (c *Catalog) Thumbnail(id string, width, height int) (*image.RGBA, error) {
	t, err := c.Get(id)
	if err != nil {
		return nil, err
	}
	tmpl, err := t.Parse()
	if err != nil {
		return nil, err
	}
	src, err := export.RasterizeVector(vector.NewSurface(tmpl), export.WithScale(2))
	if err != nil {
		return nil, err
	}

	width, height = max(width, 1), max(height, 1)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(colorbook.White), image.Point{}, draw.Src)

	sw, sh := src.Bounds().Dx(), src.Bounds().Dy()
	scale := min(float64(width)/float64(sw), float64(height)/float64(sh))
	fw := max(int(float64(sw)*scale+0.5), 1)
	fh := max(int(float64(sh)*scale+0.5), 1)
	x0, y0 := (width-fw)/2, (height-fh)/2
	draw.BiLinear.Scale(dst, image.Rect(x0, y0, x0+fw, y0+fh), src, src.Bounds(), draw.Over, nil)
	return dst, nil
}

// EncodeThumbnail encodes the template's thumbnail with the export
// encoder selected by opts (PNG by default).
func (c *Catalog) EncodeThumbnail(id string, width, height int, opts ...export.Option) ([]byte, error) {
	img, err := c.Thumbnail(id, width, height)
	if err != nil {
		return nil, err
	}
	return export.Encode(img, opts...)
}
