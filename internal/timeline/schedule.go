package timeline

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const ScheduleVersion = "1.0"

// Schedule is the complete timing configuration of the site
type Schedule struct {
	Version string         `yaml:"version"`
	Pages   []PageSchedule `yaml:"pages"`
}

// PageSchedule holds the timing rows of one video-driven page
type PageSchedule struct {
	Name   string       `yaml:"name"`
	Video  string       `yaml:"video,omitempty"` // Asset the windows are timed against
	Panels []WindowSpec `yaml:"panels"`
}

// Page returns the named page schedule
func (s *Schedule) Page(name string) (PageSchedule, error) {
	for _, p := range s.Pages {
		if p.Name == name {
			return p, nil
		}
	}
	return PageSchedule{}, fmt.Errorf("%w: %q", ErrUnknownPage, name)
}

// PageNames lists pages in file order
func (s *Schedule) PageNames() []string {
	names := make([]string, len(s.Pages))
	for i, p := range s.Pages {
		names[i] = p.Name
	}
	return names
}

// Validate runs the window invariants for every page
func (s *Schedule) Validate() error {
	seen := make(map[string]bool, len(s.Pages))
	for _, p := range s.Pages {
		if p.Name == "" {
			return &ConfigError{Err: fmt.Errorf("%w: empty page name", ErrUnknownPage)}
		}
		if seen[p.Name] {
			return &ConfigError{Page: p.Name, Err: errors.New("duplicate page")}
		}
		seen[p.Name] = true

		if err := ValidateWindows(p.Panels); err != nil {
			var ce *ConfigError
			if errors.As(err, &ce) {
				ce.Page = p.Name
			}
			return err
		}
	}
	return nil
}

// WriteSchedule writes a schedule to a YAML file
func WriteSchedule(s *Schedule, path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadSchedule reads and validates a schedule from a YAML file
func ReadSchedule(path string) (*Schedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Schedule
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse schedule %s: %w", path, err)
	}
	if s.Version == "" {
		s.Version = ScheduleVersion
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}
