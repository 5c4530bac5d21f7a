package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	stylerr "github.com/layera/stylegen/internal/errors"
)

//go:embed builtin/*.yml
var builtinFS embed.FS

// Catalog is an ordered collection of builders with unique names.
type Catalog struct {
	builders []*Builder
	byName   map[string]int
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{byName: make(map[string]int)}
}

// Options controls where builders are loaded from.
type Options struct {
	// Builtin loads the embedded Layera builders first.
	Builtin bool
	// Dirs are read in order after the built-ins.
	Dirs []string
}

// Load builds a catalog from the embedded builders and the given directories.
// A builder whose name is already present replaces the earlier one in place.
func Load(opts Options) (*Catalog, error) {
	c := New()
	if opts.Builtin {
		if err := c.LoadFS(builtinFS, "builtin"); err != nil {
			return nil, err
		}
	}
	for _, dir := range opts.Dirs {
		if err := c.LoadDir(dir); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Builtin returns a catalog holding only the embedded builders.
func Builtin() (*Catalog, error) {
	return Load(Options{Builtin: true})
}

// LoadFS loads every .yml/.yaml file directly under dir in fsys, in lexical
// order.
func (c *Catalog) LoadFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return stylerr.WrapIO(err, stylerr.ErrCodeReadFailed, "cannot list builder documents in "+dir)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && IsDocument(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		p := path.Join(dir, name)
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return stylerr.WrapIO(err, stylerr.ErrCodeReadFailed, "cannot read "+p)
		}
		b, err := Parse(data, p)
		if err != nil {
			return err
		}
		c.Put(b)
	}
	return nil
}

// LoadDir loads builder documents from a directory on disk.
func (c *Catalog) LoadDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return stylerr.WrapIO(err, stylerr.ErrCodeReadFailed, "cannot open source dir "+dir)
	}
	if !info.IsDir() {
		return stylerr.NewValidationError(stylerr.ErrCodeInvalidPath, "source path is not a directory: "+dir)
	}
	return c.LoadFS(os.DirFS(filepath.Clean(dir)), ".")
}

// Put adds b, replacing a builder of the same name in place.
func (c *Catalog) Put(b *Builder) {
	if i, ok := c.byName[b.Name]; ok {
		c.builders[i] = b
		return
	}
	c.byName[b.Name] = len(c.builders)
	c.builders = append(c.builders, b)
}

// Get returns the named builder.
func (c *Catalog) Get(name string) (*Builder, bool) {
	i, ok := c.byName[name]
	if !ok {
		return nil, false
	}
	return c.builders[i], true
}

// Builders returns all builders in catalog order.
func (c *Catalog) Builders() []*Builder {
	out := make([]*Builder, len(c.builders))
	copy(out, c.builders)
	return out
}

// Names returns builder names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.builders))
	for _, b := range c.builders {
		names = append(names, b.Name)
	}
	return names
}

// Len returns the number of builders.
func (c *Catalog) Len() int {
	return len(c.builders)
}

// Select returns the named builders in the order given, or every builder
// when names is empty.
func (c *Catalog) Select(names ...string) ([]*Builder, error) {
	if len(names) == 0 {
		return c.Builders(), nil
	}
	out := make([]*Builder, 0, len(names))
	for _, name := range names {
		b, ok := c.Get(name)
		if !ok {
			return nil, stylerr.ErrBuilderNotFound(name).
				WithContext("available", strings.Join(c.Names(), ", "))
		}
		out = append(out, b)
	}
	return out, nil
}

// CSS compiles every builder in catalog order into one stylesheet.
func (c *Catalog) CSS() string {
	var sb strings.Builder
	for _, b := range c.builders {
		sb.WriteString(b.CSS())
	}
	return sb.String()
}

// IsDocument reports whether a file name looks like a builder document.
func IsDocument(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yml", ".yaml":
		return true
	}
	return false
}

func (c *Catalog) String() string {
	return fmt.Sprintf("catalog(%s)", strings.Join(c.Names(), ", "))
}
