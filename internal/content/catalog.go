package content

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/overlaycue/internal/timeline"
)

// Key addresses one localized payload
type Key struct {
	Panel timeline.PanelID
	Lang  timeline.Language
}

// Catalog holds the localized content of one page
type Catalog struct {
	Page    string
	entries map[Key]timeline.Content
}

type catalogFile struct {
	Page   string      `yaml:"page"`
	Panels []panelFile `yaml:"panels"`
}

type panelFile struct {
	ID      timeline.PanelID                       `yaml:"id"`
	Content map[timeline.Language]timeline.Content `yaml:"content"`
}

// NewCatalog creates an empty catalog for a page
func NewCatalog(page string) *Catalog {
	return &Catalog{Page: page, entries: make(map[Key]timeline.Content)}
}

// Set stores the payload for a panel and language
func (c *Catalog) Set(id timeline.PanelID, lang timeline.Language, payload timeline.Content) {
	c.entries[Key{Panel: id, Lang: lang}] = payload
}

func (c *Catalog) Get(id timeline.PanelID, lang timeline.Language) (timeline.Content, bool) {
	payload, ok := c.entries[Key{Panel: id, Lang: lang}]
	return payload, ok
}

// Len returns the number of (panel, language) entries
func (c *Catalog) Len() int {
	return len(c.entries)
}

// ForLanguage extracts the id -> payload lookup for one language
func (c *Catalog) ForLanguage(lang timeline.Language) (map[timeline.PanelID]timeline.Content, error) {
	if !lang.Supported() {
		return nil, &timeline.ConfigError{Page: c.Page, Lang: lang, Err: timeline.ErrUnknownLanguage}
	}
	out := make(map[timeline.PanelID]timeline.Content)
	for k, v := range c.entries {
		if k.Lang == lang {
			out[k.Panel] = v
		}
	}
	return out, nil
}

// Validate checks exhaustively that every declared panel has content in
// every supported language and that no content exists for undeclared panels
func (c *Catalog) Validate(windows []timeline.WindowSpec) error {
	declared := make(map[timeline.PanelID]bool, len(windows))
	for _, w := range windows {
		declared[w.ID] = true
		for _, lang := range timeline.Languages {
			if _, ok := c.entries[Key{Panel: w.ID, Lang: lang}]; !ok {
				return &timeline.ConfigError{Page: c.Page, Panel: w.ID, Lang: lang, Err: timeline.ErrMissingContent}
			}
		}
	}

	keys := c.keys()
	for _, k := range keys {
		if !k.Lang.Supported() {
			return &timeline.ConfigError{Page: c.Page, Panel: k.Panel, Lang: k.Lang, Err: timeline.ErrUnknownLanguage}
		}
		if !declared[k.Panel] {
			return &timeline.ConfigError{Page: c.Page, Panel: k.Panel, Lang: k.Lang, Err: timeline.ErrUnexpectedContent}
		}
	}
	return nil
}

// keys returns entry keys sorted by panel then language, for stable errors
func (c *Catalog) keys() []Key {
	keys := make([]Key, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Panel != keys[j].Panel {
			return keys[i].Panel < keys[j].Panel
		}
		return keys[i].Lang < keys[j].Lang
	})
	return keys
}

// Parse decodes a catalog from YAML
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if f.Page == "" {
		return nil, fmt.Errorf("content file has no page name")
	}

	c := NewCatalog(f.Page)
	for _, p := range f.Panels {
		for lang, payload := range p.Content {
			if _, exists := c.entries[Key{Panel: p.ID, Lang: lang}]; exists {
				return nil, &timeline.ConfigError{Page: f.Page, Panel: p.ID, Lang: lang, Err: timeline.ErrDuplicateID}
			}
			c.Set(p.ID, lang, payload)
		}
	}
	return c, nil
}

// LoadFile reads a catalog from a YAML file
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse content %s: %w", path, err)
	}
	return c, nil
}

// LoadDir reads every *.yaml catalog in dir, keyed by page name
func LoadDir(dir string) (map[string]*Catalog, error) {
	return loadFS(os.DirFS(dir), ".", dir)
}

// Defaults returns the catalogs embedded in the binary
func Defaults() (map[string]*Catalog, error) {
	return loadFS(Embedded, defaultsDir, "embedded")
}

func loadFS(fsys fs.FS, dir, label string) (map[string]*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read content directory %s: %w", label, err)
	}

	catalogs := make(map[string]*Catalog)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		c, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse content %s: %w", filepath.Join(label, entry.Name()), err)
		}
		if _, dup := catalogs[c.Page]; dup {
			return nil, fmt.Errorf("page %q defined twice in %s", c.Page, label)
		}
		catalogs[c.Page] = c
	}

	if len(catalogs) == 0 {
		return nil, fmt.Errorf("no content files found in %s", label)
	}
	return catalogs, nil
}
