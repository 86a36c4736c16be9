package stage

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/ivlev/overlaycue/internal/content"
	"github.com/ivlev/overlaycue/internal/timeline"
)

// Stage owns the current panel table of one page. The table pointer is
// swapped atomically on a language change; readers that loaded the old
// table keep using it, which is safe because tables are immutable.
type Stage struct {
	page    string
	windows []timeline.WindowSpec
	catalog *content.Catalog

	current atomic.Pointer[timeline.Table]
	mu      sync.Mutex // serializes rebuilds
}

// New builds the initial table for lang. Any configuration error is returned
// and no stage is created.
func New(page string, windows []timeline.WindowSpec, catalog *content.Catalog, lang timeline.Language) (*Stage, error) {
	if catalog == nil {
		return nil, &timeline.ConfigError{Page: page, Err: errors.New("no content catalog")}
	}
	if err := timeline.ValidateWindows(windows); err != nil {
		return nil, onPage(err, page)
	}
	if err := catalog.Validate(windows); err != nil {
		return nil, err
	}

	s := &Stage{
		page:    page,
		windows: append([]timeline.WindowSpec(nil), windows...),
		catalog: catalog,
	}
	table, err := s.build(lang)
	if err != nil {
		return nil, err
	}
	s.current.Store(table)
	return s, nil
}

func (s *Stage) build(lang timeline.Language) (*timeline.Table, error) {
	lookup, err := s.catalog.ForLanguage(lang)
	if err != nil {
		return nil, err
	}
	table, err := timeline.BuildPanelTable(lang, s.windows, lookup)
	if err != nil {
		return nil, onPage(err, s.page)
	}
	return table, nil
}

func onPage(err error, page string) error {
	var ce *timeline.ConfigError
	if errors.As(err, &ce) && ce.Page == "" {
		cp := *ce
		cp.Page = page
		return &cp
	}
	return err
}

func (s *Stage) Page() string {
	return s.page
}

// Table returns the current table; it never returns nil
func (s *Stage) Table() *timeline.Table {
	return s.current.Load()
}

func (s *Stage) Language() timeline.Language {
	return s.Table().Language()
}

// Windows returns a copy of the timing rows
func (s *Stage) Windows() []timeline.WindowSpec {
	return append([]timeline.WindowSpec(nil), s.windows...)
}

// SetLanguage rebuilds the table for lang and swaps it in. On failure the
// previous table stays current. A stage owned by a Registry should be
// switched through Registry.SetLanguage, which keeps the registry locale
// and the other pages in step.
func (s *Stage) SetLanguage(lang timeline.Language) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.build(lang)
	if err != nil {
		return err
	}
	s.current.Store(table)
	return nil
}

// State queries the current table
func (s *Stage) State(elapsed float64, vp timeline.Viewport) (timeline.FrameState, error) {
	return s.Table().State(elapsed, vp)
}

// Registry groups the stages of all video-driven pages under one locale
type Registry struct {
	mu     sync.Mutex
	stages map[string]*Stage
	lang   atomic.Value // timeline.Language
}

// NewRegistry builds a stage for every page of the schedule
func NewRegistry(schedule *timeline.Schedule, catalogs map[string]*content.Catalog, lang timeline.Language) (*Registry, error) {
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	r := &Registry{stages: make(map[string]*Stage, len(schedule.Pages))}
	for _, page := range schedule.Pages {
		st, err := New(page.Name, page.Panels, catalogs[page.Name], lang)
		if err != nil {
			return nil, err
		}
		r.stages[page.Name] = st
	}
	r.lang.Store(lang)
	return r, nil
}

func (r *Registry) Stage(page string) (*Stage, error) {
	st, ok := r.stages[page]
	if !ok {
		return nil, fmt.Errorf("%w: %q", timeline.ErrUnknownPage, page)
	}
	return st, nil
}

// Pages lists page names in sorted order
func (r *Registry) Pages() []string {
	names := make([]string, 0, len(r.stages))
	for name := range r.stages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Language() timeline.Language {
	return r.lang.Load().(timeline.Language)
}

// SetLanguage switches every page or none: all tables are built first and
// swapped only when every build succeeded.
func (r *Registry) SetLanguage(lang timeline.Language) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	built := make(map[*Stage]*timeline.Table, len(r.stages))
	for _, name := range r.Pages() {
		st := r.stages[name]
		st.mu.Lock()
		table, err := st.build(lang)
		st.mu.Unlock()
		if err != nil {
			return err
		}
		built[st] = table
	}
	for st, table := range built {
		st.current.Store(table)
	}
	r.lang.Store(lang)
	return nil
}
